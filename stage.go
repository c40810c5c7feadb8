package arbor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrStageDestroyed is returned by operations attempted after Stage.Destroy.
var ErrStageDestroyed = errors.New("arbor: stage destroyed")

// StageEventType identifies a stage lifecycle signal forwarded to an EntityStore.
type StageEventType uint8

const (
	StageEventPaused    StageEventType = iota // host stopped scheduling frames
	StageEventResumed                         // host resumed scheduling frames
	StageEventFocusLost                       // platform reported focus loss
	StageEventFocusGained                     // platform reported focus gain
	StageEventDestroyed                       // stage was torn down
)

// String returns a readable name for the event type.
func (t StageEventType) String() string {
	switch t {
	case StageEventPaused:
		return "paused"
	case StageEventResumed:
		return "resumed"
	case StageEventFocusLost:
		return "focus-lost"
	case StageEventFocusGained:
		return "focus-gained"
	case StageEventDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// StageEvent carries a lifecycle signal and the frame it was observed on.
type StageEvent struct {
	Type  StageEventType
	Frame uint64
}

// EntityStore is the interface for optional ECS integration.
// When set on a Stage, lifecycle signals are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event StageEvent)
}

// FrameCamera is the camera contract consulted once per frame by
// Stage.PostUpdate. Camera implements it.
type FrameCamera interface {
	Update()
	Target() *Node
	UpdateTarget()
}

// StageConfig holds construction-time options for a Stage.
type StageConfig struct {
	// Transparent disables background rendering and makes
	// SetBackgroundColor a no-op. It cannot be changed after construction.
	Transparent bool
	// BackgroundColor is any value accepted by the ColorParser. Nil keeps black.
	BackgroundColor any
	// DisableVisibilityChange keeps visibility events from pausing the host.
	DisableVisibilityChange bool
	// ColorParser overrides DefaultColorParser.
	ColorParser ColorParser
}

// Stage is the root of the scene graph. It owns the root node, drives the
// three per-frame phases, and holds tree-global state: the render order
// counter, the background color and the visibility policy.
type Stage struct {
	root   *Node
	camera FrameCamera
	store  EntityStore
	debug  bool

	currentRenderOrderID int
	frame                uint64

	transparent             bool
	disableVisibilityChange atomic.Bool
	background              backgroundColor
	colors                  ColorParser

	monitor   *VisibilityMonitor
	destroyed bool

	drawBuf []drawItem
}

// NewStage creates a stage with an empty root container. It fails only when
// cfg.BackgroundColor cannot be parsed.
func NewStage(cfg StageConfig) (*Stage, error) {
	s := &Stage{
		transparent: cfg.Transparent,
		colors:      cfg.ColorParser,
		background:  newBackgroundColor(cfg.Transparent),
	}
	s.disableVisibilityChange.Store(cfg.DisableVisibilityChange)
	if s.colors == nil {
		s.colors = DefaultColorParser{}
	}
	root := NewContainer("stage")
	root.stage = s
	s.root = root

	if cfg.BackgroundColor != nil {
		if err := s.SetBackgroundColor(cfg.BackgroundColor); err != nil {
			return nil, fmt.Errorf("new stage: %w", err)
		}
	}
	return s, nil
}

// Root returns the stage's root container node. Children added to it are
// the stage's direct children.
func (s *Stage) Root() *Node {
	return s.root
}

// Add attaches child as the last direct child of the stage and returns it.
// A node that is already a direct child keeps its position; a node parented
// elsewhere is detached from its old parent first.
func (s *Stage) Add(child *Node) *Node {
	return s.root.AddChild(child)
}

// AddAt inserts child at index among the stage's direct children.
func (s *Stage) AddAt(child *Node, index int) *Node {
	return s.root.AddChildAt(child, index)
}

// Remove detaches child from the stage. It reports false when child is not a
// direct child.
func (s *Stage) Remove(child *Node) bool {
	if child == nil || child.Parent != s.root {
		return false
	}
	s.root.RemoveChild(child)
	return true
}

// Children returns the stage's direct children. The returned slice MUST NOT be mutated.
func (s *Stage) Children() []*Node {
	return s.root.children
}

// NumChildren returns the number of direct children.
func (s *Stage) NumChildren() int {
	return len(s.root.children)
}

// ChildAt returns the direct child at index.
func (s *Stage) ChildAt(index int) *Node {
	return s.root.children[index]
}

// CurrentRenderOrderID returns the next render order id to be handed out
// this frame, which equals the number of ids stamped so far.
func (s *Stage) CurrentRenderOrderID() int {
	return s.currentRenderOrderID
}

// NextRenderOrderID returns the current counter value and advances it.
// Nodes call it as they are visited during PreUpdate.
func (s *Stage) NextRenderOrderID() int {
	id := s.currentRenderOrderID
	s.currentRenderOrderID++
	return id
}

// Frame returns the number of PreUpdate passes run so far.
func (s *Stage) Frame() uint64 {
	return s.frame
}

// Delta returns the fixed duration of one tick in seconds.
func (s *Stage) Delta() float64 {
	return tickDelta()
}

func tickDelta() float64 {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return 1.0 / float64(tps)
}

// --- Frame phases ---

// PreUpdate resets the render order counter and visits the direct children
// front to back. A child that reparents itself away from the stage during its
// own PreUpdate does not advance the index, so every child present at the
// start of the pass is visited exactly once. Children appended during the pass
// are visited too. Inserting before the current index revisits the child the
// insert pushed forward; removing other children belongs in Update.
func (s *Stage) PreUpdate() {
	s.currentRenderOrderID = 0
	s.frame++

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	visited := preUpdateChildren(s.root)
	if s.debug {
		s.debugPhase("preUpdate", visited, time.Since(t0))
	}
}

// Update visits the direct children from last to first so that children
// destroying or removing themselves never cause a skip.
func (s *Stage) Update() {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	visited := updateChildren(s.root)
	if s.debug {
		s.debugPhase("update", visited, time.Since(t0))
	}
}

// PostUpdate synchronizes the camera, visits the direct children front to
// back, and finishes with a transform pass.
//
// When the camera has a target, the target is post-updated and transforms are
// propagated before UpdateTarget so the camera reads the target's final world
// position for this frame.
func (s *Stage) PostUpdate() {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	if s.camera != nil {
		s.camera.Update()
		if target := s.camera.Target(); target != nil {
			target.PostUpdate()
			s.UpdateTransform()
			s.camera.UpdateTarget()
		}
	}
	visited := postUpdateChildren(s.root)
	s.UpdateTransform()
	if s.debug {
		s.debugPhase("postUpdate", visited, time.Since(t0))
	}
}

// UpdateTransform resets the stage's world alpha to fully opaque and
// propagates world transforms to every child in order.
func (s *Stage) UpdateTransform() {
	r := s.root
	r.worldTransform = identityTransform
	r.worldAlpha = 1
	r.worldRecomputed = r.transformDirty
	r.transformDirty = false
	for i := 0; i < len(r.children); i++ {
		r.children[i].UpdateTransform()
	}
}

// --- Camera ---

// SetCamera sets the camera consulted by PostUpdate. Nil disables camera sync.
func (s *Stage) SetCamera(cam FrameCamera) {
	s.camera = cam
}

// Camera returns the current frame camera, or nil.
func (s *Stage) Camera() FrameCamera {
	return s.camera
}

// NewCamera creates a Camera with the given viewport and makes it the
// stage's frame camera.
func (s *Stage) NewCamera(viewport Rect) *Camera {
	cam := NewCamera(viewport)
	s.camera = cam
	return cam
}

// --- Visibility policy ---

// DisableVisibilityChange reports whether visibility events are prevented
// from pausing and resuming the host.
func (s *Stage) DisableVisibilityChange() bool {
	return s.disableVisibilityChange.Load()
}

// SetDisableVisibilityChange sets the visibility policy. Focus loss and gain
// are still reported to the host either way.
func (s *Stage) SetDisableVisibilityChange(disabled bool) {
	s.disableVisibilityChange.Store(disabled)
}

// BootVisibility creates the stage's visibility monitor on src, reporting to
// host, and starts it. Calling it again replaces the previous monitor.
func (s *Stage) BootVisibility(src PlatformEventSource, host Host) error {
	if s.destroyed {
		return ErrStageDestroyed
	}
	if s.monitor != nil {
		s.monitor.Stop()
	}
	s.monitor = NewVisibilityMonitor(src, host, s.DisableVisibilityChange)
	s.monitor.Start()
	return nil
}

// Visibility returns the running visibility monitor, or nil before BootVisibility.
func (s *Stage) Visibility() *VisibilityMonitor {
	return s.monitor
}

// --- Teardown ---

// Destroy releases every platform subscription and disposes the tree.
// Calling Destroy more than once is a no-op.
func (s *Stage) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.monitor != nil {
		s.monitor.Stop()
		s.monitor = nil
	}
	for len(s.root.children) > 0 {
		s.root.children[len(s.root.children)-1].Dispose()
	}
	s.camera = nil
	s.Emit(StageEventDestroyed)
	Logger().Info("stage destroyed", slog.Uint64("frame", s.frame))
}

// IsDestroyed reports whether Destroy has been called.
func (s *Stage) IsDestroyed() bool {
	return s.destroyed
}

// --- Integration ---

// SetEntityStore sets the optional ECS bridge.
func (s *Stage) SetEntityStore(store EntityStore) {
	s.store = store
}

// Emit forwards a lifecycle signal to the entity store, if one is set.
func (s *Stage) Emit(t StageEventType) {
	if s.store == nil {
		return
	}
	s.store.EmitEvent(StageEvent{Type: t, Frame: s.frame})
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-phase timing is logged at debug level.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Stage debug flag so that node
// operations (which may lack a Stage pointer) can check it cheaply.
var globalDebug bool
