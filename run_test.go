package arbor

import (
	"errors"
	"sync"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

func newTestGame(t *testing.T) (*Game, *Stage) {
	t.Helper()
	s := newTestStage(t)
	return NewGame(s, RunConfig{Width: 320, Height: 240}), s
}

type countingPoller struct {
	log *[]string
}

func (p countingPoller) Poll() { *p.log = append(*p.log, "poll") }

func TestGameUpdateRunsPhases(t *testing.T) {
	g, s := newTestGame(t)
	var log []string
	n := s.Add(NewContainer("n"))
	n.OnPreUpdate = func(*Node) { log = append(log, "pre") }
	n.OnUpdate = func(*Node) { log = append(log, "update") }
	n.OnPostUpdate = func(*Node) { log = append(log, "post") }
	g.SetPoller(countingPoller{log: &log})
	g.SetUpdateFunc(func() error {
		log = append(log, "func")
		return nil
	})
	g.Defer(func() { log = append(log, "deferred") })

	if err := g.Update(); err != nil {
		t.Fatal(err)
	}

	want := []string{"poll", "deferred", "pre", "func", "update", "post"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if s.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", s.Frame())
	}
}

func TestGamePauseSkipsFrames(t *testing.T) {
	g, s := newTestGame(t)
	store := &recordingStore{}
	s.SetEntityStore(store)
	paused, resumed := 0, 0
	g.OnPause(func() { paused++ })
	g.OnResume(func() { resumed++ })

	g.Pause()
	g.Pause() // idempotent
	if !g.Paused() {
		t.Fatal("Paused should be true immediately")
	}
	if paused != 0 {
		t.Error("listeners run on the next tick, not inline")
	}

	for i := 0; i < 3; i++ {
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if s.Frame() != 0 {
		t.Errorf("Frame = %d, want 0 while paused", s.Frame())
	}
	if paused != 1 {
		t.Errorf("pause listener calls = %d, want 1", paused)
	}

	g.Resume()
	g.Resume()
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Frame() != 1 || resumed != 1 {
		t.Errorf("Frame = %d resumed = %d, want 1 and 1", s.Frame(), resumed)
	}
	if len(store.events) != 2 ||
		store.events[0].Type != StageEventPaused || store.events[1].Type != StageEventResumed {
		t.Errorf("events = %+v, want paused then resumed", store.events)
	}
}

func TestGameResumeWithoutPauseIsNoop(t *testing.T) {
	g, _ := newTestGame(t)
	resumed := 0
	g.OnResume(func() { resumed++ })
	g.Resume()
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if resumed != 0 {
		t.Errorf("resume listener calls = %d, want 0", resumed)
	}
}

func TestGameFocusPolicy(t *testing.T) {
	tests := []struct {
		name       string
		disabled   bool
		wantPaused bool
	}{
		{"enabled", false, true},
		{"disabled", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, s := newTestGame(t)
			s.SetDisableVisibilityChange(tt.disabled)
			blurs, focuses := 0, 0
			g.OnBlur(func() { blurs++ })
			g.OnFocus(func() { focuses++ })

			g.FocusLoss()
			if g.Paused() != tt.wantPaused {
				t.Errorf("Paused after FocusLoss = %v, want %v", g.Paused(), tt.wantPaused)
			}
			g.FocusGain()
			if g.Paused() {
				t.Error("FocusGain should leave the game running")
			}
			if err := g.Update(); err != nil {
				t.Fatal(err)
			}
			if blurs != 1 || focuses != 1 {
				t.Errorf("blurs = %d focuses = %d, want 1 and 1", blurs, focuses)
			}
		})
	}
}

func TestGameVisibilityEndToEnd(t *testing.T) {
	g, s := newTestGame(t)
	src := NewSyntheticEventSource("visibilitychange")
	if err := s.BootVisibility(src, g); err != nil {
		t.Fatal(err)
	}

	src.InjectHidden("visibilitychange", true)
	if !g.Paused() {
		t.Fatal("hidden page should pause the game")
	}
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Frame() != 0 {
		t.Errorf("Frame = %d, want 0", s.Frame())
	}

	src.InjectHidden("visibilitychange", false)
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", s.Frame())
	}
}

func TestGameDeferConcurrent(t *testing.T) {
	g, _ := newTestGame(t)
	var mu sync.Mutex
	ran := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Defer(func() {
				mu.Lock()
				ran++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if ran != 10 {
		t.Errorf("deferred ran = %d, want 10", ran)
	}
}

func TestGameUpdateFuncError(t *testing.T) {
	g, _ := newTestGame(t)
	boom := errors.New("boom")
	g.SetUpdateFunc(func() error { return boom })
	if err := g.Update(); !errors.Is(err, boom) {
		t.Errorf("Update = %v, want boom", err)
	}
}

func TestGameTerminatesAfterDestroy(t *testing.T) {
	g, s := newTestGame(t)
	s.Destroy()
	if err := g.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update = %v, want ebiten.Termination", err)
	}
}

func TestGameTweensStopWhilePaused(t *testing.T) {
	g, s := newTestGame(t)
	n := s.Add(NewContainer("n"))
	g.Tweens().Add(TweenPosition(n, 100, 0, 10, ease.Linear))

	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	moved := n.X
	if moved <= 0 {
		t.Fatalf("X = %v, want tween progress", moved)
	}

	g.Pause()
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if n.X != moved {
		t.Errorf("X = %v, want %v while paused", n.X, moved)
	}
}

func TestGameLayout(t *testing.T) {
	g, _ := newTestGame(t)
	if w, h := g.Layout(800, 600); w != 320 || h != 240 {
		t.Errorf("Layout = (%d, %d), want (320, 240)", w, h)
	}
	g2 := NewGame(newTestStage(t), RunConfig{})
	if w, h := g2.Layout(800, 600); w != 800 || h != 600 {
		t.Errorf("Layout = (%d, %d), want (800, 600)", w, h)
	}
	if g2.Stage() == nil {
		t.Error("Stage should not be nil")
	}
}
