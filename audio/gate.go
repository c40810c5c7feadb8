// Package audio silences game audio while an arbor Game is paused.
//
// A PauseGate is a beep.Streamer wrapping a beep.Mixer. Hand the gate to
// your audio sink (e.g. speaker.Play) and add sounds with Play; Attach it to
// a Game and the mix goes silent on pause and continues where it left off on
// resume.
package audio

import (
	"sync"

	"github.com/gopxl/beep"

	"github.com/phanxgames/arbor"
)

// PauseGate gates a mix of streamers on the host's pause state.
type PauseGate struct {
	mu    sync.Mutex
	mixer *beep.Mixer
	ctrl  *beep.Ctrl
}

var _ beep.Streamer = (*PauseGate)(nil)

// NewPauseGate creates an unpaused gate with an empty mix.
func NewPauseGate() *PauseGate {
	mixer := &beep.Mixer{}
	return &PauseGate{
		mixer: mixer,
		ctrl:  &beep.Ctrl{Streamer: mixer, Paused: false},
	}
}

// Attach pauses and resumes the gate with g.
func (p *PauseGate) Attach(g *arbor.Game) {
	g.OnPause(func() { p.SetPaused(true) })
	g.OnResume(func() { p.SetPaused(false) })
}

// Play adds s to the mix.
func (p *PauseGate) Play(s ...beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mixer.Add(s...)
}

// Clear drops every streamer from the mix.
func (p *PauseGate) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mixer.Clear()
}

// Len returns the number of streamers in the mix.
func (p *PauseGate) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Len()
}

// SetPaused silences (true) or restores (false) the mix. While paused the
// wrapped streamers are not advanced.
func (p *PauseGate) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctrl.Paused = paused
}

// Paused reports whether the gate is silencing the mix.
func (p *PauseGate) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl.Paused
}

// Stream implements beep.Streamer. It always fills samples.
func (p *PauseGate) Stream(samples [][2]float64) (n int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl.Stream(samples)
}

// Err implements beep.Streamer.
func (p *PauseGate) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl.Err()
}
