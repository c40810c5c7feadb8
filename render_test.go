package arbor

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// frameDrawables runs PreUpdate and a transform pass, then collects.
func frameDrawables(s *Stage, view [6]float64, cull bool, bounds Rect) []drawItem {
	s.PreUpdate()
	s.UpdateTransform()
	return collectDrawables(nil, s.root, view, cull, bounds)
}

func drawnNames(items []drawItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.node.Name
	}
	return out
}

func TestCollectDrawablesFollowsRenderOrder(t *testing.T) {
	s := newTestStage(t)
	group := s.Add(NewContainer("group"))
	group.AddChild(NewSprite("a", nil))
	group.AddChild(NewSprite("b", nil))
	s.Add(NewSprite("c", nil))

	items := frameDrawables(s, identityTransform, false, Rect{})
	want := []string{"a", "b", "c"}
	if got := drawnNames(items); !equalStrings(got, want) {
		t.Fatalf("drawn = %v, want %v", got, want)
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].order >= items[i].order {
			t.Errorf("order not increasing at %d: %d >= %d", i, items[i-1].order, items[i].order)
		}
	}
}

func TestCollectDrawablesSkips(t *testing.T) {
	tests := []struct {
		name  string
		setup func(n *Node)
	}{
		{"invisible", func(n *Node) { n.Visible = false }},
		{"killed", func(n *Node) { n.Kill() }},
		{"zero alpha", func(n *Node) { n.SetAlpha(0) }},
		{"hidden parent", func(n *Node) { n.Parent.Visible = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStage(t)
			group := s.Add(NewContainer("group"))
			target := group.AddChild(NewSprite("target", nil))
			s.Add(NewSprite("keep", nil))
			tt.setup(target)

			got := drawnNames(frameDrawables(s, identityTransform, false, Rect{}))
			if !equalStrings(got, []string{"keep"}) {
				t.Errorf("drawn = %v, want [keep]", got)
			}
		})
	}
}

func TestCollectDrawablesExcludesContainers(t *testing.T) {
	s := newTestStage(t)
	s.Add(NewContainer("group")).AddChild(NewSprite("leaf", nil))

	got := drawnNames(frameDrawables(s, identityTransform, false, Rect{}))
	if !equalStrings(got, []string{"leaf"}) {
		t.Errorf("drawn = %v, want [leaf]", got)
	}
}

func TestCollectDrawablesSkipsUnstamped(t *testing.T) {
	s := newTestStage(t)
	s.Add(NewSprite("old", nil))
	s.PreUpdate()
	// Added after PreUpdate: never stamped this frame.
	s.Add(NewSprite("late", nil))
	s.UpdateTransform()

	got := drawnNames(collectDrawables(nil, s.root, identityTransform, false, Rect{}))
	if !equalStrings(got, []string{"old"}) {
		t.Errorf("drawn = %v, want [old]", got)
	}
}

func TestCollectDrawablesAppliesViewAndAlpha(t *testing.T) {
	s := newTestStage(t)
	group := s.Add(NewContainer("group"))
	group.SetAlpha(0.5)
	sp := group.AddChild(NewSprite("sp", nil))
	sp.SetPosition(10, 20)
	sp.SetAlpha(0.5)

	view := [6]float64{1, 0, 0, 1, 100, 200}
	items := frameDrawables(s, view, false, Rect{})
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	it := items[0]
	if !approxEqual(it.transform[4], 110, epsilon) || !approxEqual(it.transform[5], 220, epsilon) {
		t.Errorf("translation = (%v, %v), want (110, 220)", it.transform[4], it.transform[5])
	}
	if !approxEqual(it.alpha, 0.25, epsilon) {
		t.Errorf("alpha = %v, want 0.25", it.alpha)
	}
}

func TestCollectDrawablesCulling(t *testing.T) {
	s := newTestStage(t)
	cam := s.NewCamera(Rect{Width: 100, Height: 100})
	near := s.Add(NewSprite("near", nil))
	far := s.Add(NewSprite("far", nil))
	near.SetPosition(0, 0)
	far.SetPosition(500, 500)

	view := cam.computeViewMatrix()
	got := drawnNames(frameDrawables(s, view, true, cam.Viewport))
	if !equalStrings(got, []string{"near"}) {
		t.Errorf("culled drawn = %v, want [near]", got)
	}

	got = drawnNames(frameDrawables(s, view, false, cam.Viewport))
	if !equalStrings(got, []string{"near", "far"}) {
		t.Errorf("unculled drawn = %v, want [near far]", got)
	}
}

func TestCollectDrawablesReusesBuffer(t *testing.T) {
	s := newTestStage(t)
	s.Add(NewSprite("a", nil))
	s.PreUpdate()
	s.UpdateTransform()

	buf := make([]drawItem, 0, 8)
	out := collectDrawables(buf, s.root, identityTransform, false, Rect{})
	if &out[:1][0] != &buf[:1][0] {
		t.Error("collectDrawables should append into the supplied buffer")
	}
}

func TestStageDrawUsesCamera(t *testing.T) {
	s := newTestStage(t)
	cam := s.NewCamera(Rect{Width: 64, Height: 64})
	cam.CullEnabled = true
	s.Add(NewSprite("in", ebiten.NewImage(4, 4)))
	s.Add(NewSprite("out", ebiten.NewImage(4, 4))).SetPosition(1000, 0)
	s.PreUpdate()
	s.UpdateTransform()

	screen := ebiten.NewImage(64, 64)
	s.Draw(screen, RenderConfig{})
	if got := drawnNames(s.drawBuf); !equalStrings(got, []string{"in"}) {
		t.Errorf("drawn = %v, want [in]", got)
	}
}

func TestStageDrawTransparentAndEmpty(t *testing.T) {
	s, err := NewStage(StageConfig{Transparent: true})
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}
	screen := ebiten.NewImage(8, 8)
	s.Draw(screen, RenderConfig{Smoothed: true})
	if len(s.drawBuf) != 0 {
		t.Errorf("drawBuf len = %d, want 0", len(s.drawBuf))
	}
}

func TestRenderConfigFilter(t *testing.T) {
	if got := (RenderConfig{}).Filter(); got != ebiten.FilterNearest {
		t.Errorf("default Filter = %v, want FilterNearest", got)
	}
	if got := (RenderConfig{Smoothed: true}).Filter(); got != ebiten.FilterLinear {
		t.Errorf("smoothed Filter = %v, want FilterLinear", got)
	}
}
