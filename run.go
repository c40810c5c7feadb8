package arbor

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window and loop created by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	TPS     int // ticks per second; 0 keeps ebiten's default
	ShowFPS bool
	Render  RenderConfig
	Debug   bool
}

// Poller is implemented by platform sources that must be sampled once per
// tick, such as EbitenFocusSource.
type Poller interface {
	Poll()
}

// Game is the host loop. It implements ebiten.Game, calling the stage's
// three phases once per tick in order, and Host, turning visibility monitor
// decisions into pausing and resuming that loop.
//
// Pause and Resume take effect immediately for the next tick; listeners and
// stage events they trigger are queued and run at the start of the next
// tick, on the loop goroutine.
type Game struct {
	stage      *Stage
	cfg        RunConfig
	tweens     Tweens
	updateFunc func() error
	poller     Poller
	runner     *TestRunner

	paused atomic.Bool

	mu       sync.Mutex
	deferred []func()

	onPause  []func()
	onResume []func()
	onBlur   []func()
	onFocus  []func()
}

var _ Host = (*Game)(nil)

// NewGame creates a host loop for stage.
func NewGame(stage *Stage, cfg RunConfig) *Game {
	return &Game{stage: stage, cfg: cfg}
}

// Stage returns the stage driven by this game.
func (g *Game) Stage() *Stage {
	return g.stage
}

// Tweens returns the tween manager stepped every unpaused tick.
func (g *Game) Tweens() *Tweens {
	return &g.tweens
}

// SetUpdateFunc sets a callback run each unpaused tick between Stage.PreUpdate
// and Stage.Update. A non-nil error stops the loop.
func (g *Game) SetUpdateFunc(fn func() error) {
	g.updateFunc = fn
}

// SetPoller sets the platform source sampled at the start of every tick,
// including paused ones.
func (g *Game) SetPoller(p Poller) {
	g.poller = p
}

// SetTestRunner attaches a scripted event runner stepped at the start of
// every tick.
func (g *Game) SetTestRunner(r *TestRunner) {
	g.runner = r
}

// Paused reports whether frame ticks are currently suppressed.
func (g *Game) Paused() bool {
	return g.paused.Load()
}

// OnPause registers fn to run when the game pauses. Register listeners
// before starting the loop.
func (g *Game) OnPause(fn func()) { g.onPause = append(g.onPause, fn) }

// OnResume registers fn to run when the game resumes.
func (g *Game) OnResume(fn func()) { g.onResume = append(g.onResume, fn) }

// OnBlur registers fn to run on focus loss.
func (g *Game) OnBlur(fn func()) { g.onBlur = append(g.onBlur, fn) }

// OnFocus registers fn to run on focus gain.
func (g *Game) OnFocus(fn func()) { g.onFocus = append(g.onFocus, fn) }

// Defer queues fn to run at the start of the next tick on the loop
// goroutine. It is safe to call from any goroutine and is the way for
// asynchronous platform handlers to touch the node tree.
func (g *Game) Defer(fn func()) {
	g.mu.Lock()
	g.deferred = append(g.deferred, fn)
	g.mu.Unlock()
}

func (g *Game) drainDeferred() {
	g.mu.Lock()
	queue := g.deferred
	g.deferred = nil
	g.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

// --- Host ---

// Pause stops frame ticks. No-op if already paused.
func (g *Game) Pause() {
	if !g.paused.CompareAndSwap(false, true) {
		return
	}
	g.Defer(func() {
		Logger().Info("game paused", slog.Uint64("frame", g.stage.Frame()))
		g.stage.Emit(StageEventPaused)
		for _, fn := range g.onPause {
			fn()
		}
	})
}

// Resume restarts frame ticks. No-op if not paused.
func (g *Game) Resume() {
	if !g.paused.CompareAndSwap(true, false) {
		return
	}
	g.Defer(func() {
		Logger().Info("game resumed", slog.Uint64("frame", g.stage.Frame()))
		g.stage.Emit(StageEventResumed)
		for _, fn := range g.onResume {
			fn()
		}
	})
}

// FocusLoss notifies blur listeners and pauses unless the stage disables
// visibility change.
func (g *Game) FocusLoss() {
	g.Defer(func() {
		g.stage.Emit(StageEventFocusLost)
		for _, fn := range g.onBlur {
			fn()
		}
	})
	if !g.stage.DisableVisibilityChange() {
		g.Pause()
	}
}

// FocusGain notifies focus listeners and resumes unless the stage disables
// visibility change.
func (g *Game) FocusGain() {
	g.Defer(func() {
		g.stage.Emit(StageEventFocusGained)
		for _, fn := range g.onFocus {
			fn()
		}
	})
	if !g.stage.DisableVisibilityChange() {
		g.Resume()
	}
}

// --- ebiten.Game ---

// Update runs one tick: poll the platform, step the test runner, drain the
// deferred queue, then, unless paused, PreUpdate, the update callback,
// tweens, Update and PostUpdate.
func (g *Game) Update() error {
	if g.stage.IsDestroyed() {
		return ebiten.Termination
	}
	if g.poller != nil {
		g.poller.Poll()
	}
	if g.runner != nil {
		g.runner.step()
	}
	g.drainDeferred()
	if g.paused.Load() {
		return nil
	}

	g.stage.PreUpdate()
	if g.updateFunc != nil {
		if err := g.updateFunc(); err != nil {
			return err
		}
	}
	g.tweens.Update(float32(g.stage.Delta()))
	g.stage.Update()
	g.stage.PostUpdate()
	return nil
}

// Draw renders the stage.
func (g *Game) Draw(screen *ebiten.Image) {
	g.stage.Draw(screen, g.cfg.Render)
}

// Layout returns the configured logical screen size, or the outside size
// when none is configured.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.cfg.Width > 0 && g.cfg.Height > 0 {
		return g.cfg.Width, g.cfg.Height
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and runs g until the window closes or the update
// callback fails. Window focus drives the stage's visibility monitor; the
// stage is destroyed when Run returns.
func Run(g *Game) error {
	cfg := g.cfg
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	// Update must keep running while unfocused so focus returning is seen.
	ebiten.SetRunnableOnUnfocused(true)

	if cfg.Debug {
		g.stage.SetDebugMode(true)
	}
	if cfg.ShowFPS {
		g.stage.Add(NewFPSWidget())
	}

	src := NewEbitenFocusSource()
	g.SetPoller(src)
	if err := g.stage.BootVisibility(src, g); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer g.stage.Destroy()

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
