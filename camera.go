package arbor

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is the stage's frame camera: a world-space position, zoom and
// rotation projected into a screen-space Viewport. As a FrameCamera it is
// driven by Stage.PostUpdate: Update steps ScrollTo and bounds clamping, and
// UpdateTarget chases the followed node after the stage has positioned it.
//
// Writing X, Y, Zoom or Rotation directly leaves the cached view matrix stale
// until MarkDirty is called.
type Camera struct {
	X, Y     float64 // world point shown at the viewport center
	Zoom     float64 // 1 is unscaled; 2 shows half as much of the world
	Rotation float64 // radians, clockwise
	Viewport Rect

	// CullEnabled drops sprites whose world box misses the viewport.
	CullEnabled bool

	follow *cameraFollow
	scroll *cameraScroll
	bounds *Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	// step returns the tick duration in seconds; nil means 1/ebiten.TPS.
	step func() float32
}

type cameraFollow struct {
	node   *Node
	offset Vec2
	lerp   float64
}

// cameraScroll interpolates between two points along one eased 0..1 tween.
type cameraScroll struct {
	from, to Vec2
	progress *gween.Tween
}

// cameraPose is the subset of camera state the view matrix depends on.
type cameraPose struct{ x, y, zoom, rot float64 }

func (c *Camera) pose() cameraPose { return cameraPose{c.X, c.Y, c.Zoom, c.Rotation} }

// NewCamera returns an unzoomed camera centered on the world origin, with
// culling enabled.
func NewCamera(viewport Rect) *Camera {
	return &Camera{Zoom: 1, Viewport: viewport, CullEnabled: true, dirty: true}
}

// Follow tracks node at the given world offset. Each frame the camera covers
// lerp of the remaining distance; 1 snaps.
func (c *Camera) Follow(node *Node, offsetX, offsetY, lerp float64) {
	c.follow = &cameraFollow{node: node, offset: Vec2{X: offsetX, Y: offsetY}, lerp: lerp}
}

// Unfollow stops tracking.
func (c *Camera) Unfollow() { c.follow = nil }

// Target returns the followed node, or nil when nothing is followed or the
// node has been disposed.
func (c *Camera) Target() *Node {
	if c.follow == nil || c.follow.node.IsDisposed() {
		return nil
	}
	return c.follow.node
}

// ScrollTo glides the camera to (x, y) over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scroll = &cameraScroll{
		from:     Vec2{X: c.X, Y: c.Y},
		to:       Vec2{X: x, Y: y},
		progress: gween.New(0, 1, duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo is still running.
func (c *Camera) Scrolling() bool { return c.scroll != nil }

// SetBounds keeps the visible area inside the world rectangle b.
func (c *Camera) SetBounds(b Rect) { c.bounds = &b }

// ClearBounds removes the bounds set by SetBounds.
func (c *Camera) ClearBounds() { c.bounds = nil }

// ClampToBounds applies the bounds immediately instead of on the next Update.
func (c *Camera) ClampToBounds() {
	before := c.pose()
	c.clamp()
	c.markIfMoved(before)
}

// Update steps an active ScrollTo and applies the bounds.
func (c *Camera) Update() {
	before := c.pose()
	if s := c.scroll; s != nil {
		p, done := s.progress.Update(c.delta())
		t := float64(p)
		c.X = s.from.X + (s.to.X-s.from.X)*t
		c.Y = s.from.Y + (s.to.Y-s.from.Y)*t
		if done {
			c.X, c.Y = s.to.X, s.to.Y
			c.scroll = nil
		}
	}
	c.clamp()
	c.markIfMoved(before)
}

// UpdateTarget moves towards the target's world origin plus offset. The
// stage calls it once the target's PostUpdate and a transform pass have run.
func (c *Camera) UpdateTarget() {
	target := c.Target()
	if target == nil {
		return
	}
	before := c.pose()
	f := c.follow
	pos := target.WorldPosition()
	c.X += (pos.X + f.offset.X - c.X) * f.lerp
	c.Y += (pos.Y + f.offset.Y - c.Y) * f.lerp
	c.clamp()
	c.markIfMoved(before)
}

func (c *Camera) markIfMoved(before cameraPose) {
	if before != c.pose() {
		c.dirty = true
	}
}

func (c *Camera) delta() float32 {
	if c.step != nil {
		return c.step()
	}
	return float32(tickDelta())
}

// clamp centers the camera on an axis where the bounds are narrower than
// the visible area.
func (c *Camera) clamp() {
	if c.bounds == nil {
		return
	}
	b := *c.bounds
	c.X = clampAxis(c.X, b.X, b.Width, c.Viewport.Width/(2*c.Zoom))
	c.Y = clampAxis(c.Y, b.Y, b.Height, c.Viewport.Height/(2*c.Zoom))
}

func clampAxis(v, start, size, half float64) float64 {
	lo, hi := start+half, start+size-half
	if lo > hi {
		return start + size/2
	}
	return math.Max(lo, math.Min(v, hi))
}

// computeViewMatrix returns
// Translate(viewport center) * Scale(Zoom) * Rotate(-Rotation) * Translate(-X, -Y),
// rebuilding it only when dirty.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	m := multiplyAffine(rotation(-c.Rotation), translation(-c.X, -c.Y))
	for i := range m {
		m[i] *= c.Zoom
	}
	m[4] += c.Viewport.X + c.Viewport.Width/2
	m[5] += c.Viewport.Y + c.Viewport.Height/2

	c.viewMatrix = m
	c.invViewMatrix = invertAffine(m)
	return m
}

// WorldToScreen projects a world point into screen space.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.computeViewMatrix(), wx, wy)
}

// ScreenToWorld maps a screen point back into world space.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}

// VisibleBounds returns the world-space box covering the viewport.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	v := c.Viewport
	return projectedBox(c.invViewMatrix, v.X, v.Y, v.Width, v.Height)
}

// MarkDirty forces the view matrix to be rebuilt on next use.
func (c *Camera) MarkDirty() { c.dirty = true }

// --- Culling ---

// projectedBox returns the axis-aligned box around the rectangle
// (x, y, w, h) after m is applied to its corners.
func projectedBox(m [6]float64, x, y, w, h float64) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4]Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}} {
		px, py := transformPoint(m, p.X, p.Y)
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// worldAABB is the screen box of a w by h sprite drawn with transform.
func worldAABB(transform [6]float64, w, h float64) Rect {
	return projectedBox(transform, 0, 0, w, h)
}

// spriteSize is the unscaled size of a sprite; containers have none.
func spriteSize(n *Node) (w, h float64) {
	switch {
	case n.Type != NodeTypeSprite:
		return 0, 0
	case n.Image == nil:
		return 1, 1
	}
	b := n.Image.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// shouldCull reports whether a sprite lies entirely outside cullBounds.
func shouldCull(n *Node, world [6]float64, cullBounds Rect) bool {
	w, h := spriteSize(n)
	if w == 0 && h == 0 {
		return false
	}
	return !worldAABB(world, w, h).Intersects(cullBounds)
}
