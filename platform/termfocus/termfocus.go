// Package termfocus drives an arbor visibility monitor from terminal focus
// reporting, for games rendered with tcell.
//
// Terminal focus in and out map to the focus and blur events and to a
// visibilitychange carrying the new hidden state, so a terminal that loses
// focus pauses the game exactly like a hidden browser tab.
package termfocus

import (
	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/arbor"
)

// FocusScreen is the part of tcell.Screen this package needs.
type FocusScreen interface {
	EnableFocus()
	DisableFocus()
}

// Source is an arbor.PlatformEventSource fed by tcell focus events.
type Source struct {
	*arbor.SyntheticEventSource
	screen FocusScreen
}

var _ arbor.PlatformEventSource = (*Source)(nil)

// New enables focus reporting on screen and returns a source supporting the
// standard visibilitychange event and the focus events.
func New(screen FocusScreen) *Source {
	if screen != nil {
		screen.EnableFocus()
	}
	return &Source{
		SyntheticEventSource: arbor.NewSyntheticEventSource(arbor.VisibilityChangeEvents[0]),
		screen:               screen,
	}
}

// HandleEvent consumes ev if it is a focus event and reports whether it did.
// Call it from the loop that reads tcell events; other events are left for
// the caller.
func (s *Source) HandleEvent(ev tcell.Event) bool {
	fe, ok := ev.(*tcell.EventFocus)
	if !ok {
		return false
	}
	if fe.Focused {
		s.Inject(arbor.EventFocus)
		s.InjectHidden(arbor.VisibilityChangeEvents[0], false)
	} else {
		s.Inject(arbor.EventBlur)
		s.InjectHidden(arbor.VisibilityChangeEvents[0], true)
	}
	return true
}

// Close disables focus reporting. Subscriptions are released by the
// visibility monitor's Stop.
func (s *Source) Close() {
	if s.screen != nil {
		s.screen.DisableFocus()
	}
}
