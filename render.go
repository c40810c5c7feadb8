package arbor

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderConfig holds renderer options passed to Stage.Draw. It replaces any
// process-wide sampling default: whoever owns the draw call decides.
type RenderConfig struct {
	// Smoothed selects linear filtering; false draws with nearest-neighbour.
	Smoothed bool `yaml:"smoothed" env:"SMOOTHED"`
}

// Filter returns the ebiten filter selected by the config.
func (c RenderConfig) Filter() ebiten.Filter {
	if c.Smoothed {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

// drawItem is one sprite queued for submission.
type drawItem struct {
	node      *Node
	transform [6]float64 // view * world
	alpha     float64
	order     int
}

// Draw clears screen to the background color (unless the stage is
// transparent) and draws every visible sprite stamped during the last
// PreUpdate, ordered by RenderOrderID. When the frame camera is a *Camera its
// view matrix is applied and, with CullEnabled, sprites outside the viewport
// are skipped.
func (s *Stage) Draw(screen *ebiten.Image, cfg RenderConfig) {
	if !s.transparent {
		screen.Fill(s.background.rgba.toRGBA())
	}

	view := identityTransform
	cull := false
	var cullBounds Rect
	if cam, ok := s.camera.(*Camera); ok && cam != nil {
		view = cam.computeViewMatrix()
		cull = cam.CullEnabled
		cullBounds = cam.Viewport
	}

	s.drawBuf = collectDrawables(s.drawBuf[:0], s.root, view, cull, cullBounds)

	filter := cfg.Filter()
	for i := range s.drawBuf {
		it := &s.drawBuf[i]
		img := it.node.Image
		if img == nil {
			img = WhitePixel
		}
		var op ebiten.DrawImageOptions
		t := it.transform
		op.GeoM.SetElement(0, 0, t[0])
		op.GeoM.SetElement(0, 1, t[2])
		op.GeoM.SetElement(0, 2, t[4])
		op.GeoM.SetElement(1, 0, t[1])
		op.GeoM.SetElement(1, 1, t[3])
		op.GeoM.SetElement(1, 2, t[5])
		c := it.node.Color
		a := c.A * it.alpha
		op.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
		op.Blend = it.node.BlendMode.EbitenBlend()
		op.Filter = filter
		screen.DrawImage(img, &op)
	}
}

// collectDrawables appends the drawable sprites under root to buf, sorted by
// RenderOrderID. Subtrees that are invisible or do not exist are skipped,
// as are sprites that were not stamped this frame or are fully transparent.
func collectDrawables(buf []drawItem, root *Node, view [6]float64, cull bool, cullBounds Rect) []drawItem {
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible || !n.Exists {
			return
		}
		if n.Type == NodeTypeSprite && n.RenderOrderID >= 0 && n.worldAlpha > 0 {
			world := multiplyAffine(view, n.worldTransform)
			if !cull || !shouldCull(n, world, cullBounds) {
				buf = append(buf, drawItem{
					node:      n,
					transform: world,
					alpha:     n.worldAlpha,
					order:     n.RenderOrderID,
				})
			}
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	for _, child := range root.children {
		walk(child)
	}
	slices.SortStableFunc(buf, func(a, b drawItem) int {
		return a.order - b.order
	})
	return buf
}
