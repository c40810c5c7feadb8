package arbor

import "github.com/hajimehoshi/ebiten/v2"

// EbitenFocusSource turns ebiten's window focus state into platform events.
// Desktop windows have no separate visibility API, so focus doubles as
// visibility: losing focus raises blur then visibilitychange with Hidden
// true, and regaining it raises focus then visibilitychange with Hidden false.
//
// Poll must be called once per tick; Game does this before deciding whether
// the frame runs, so a paused game still notices focus returning.
type EbitenFocusSource struct {
	*SyntheticEventSource
	focused    func() bool
	wasFocused bool
}

// NewEbitenFocusSource creates a source reading ebiten.IsFocused.
func NewEbitenFocusSource() *EbitenFocusSource {
	return newFocusSource(ebiten.IsFocused)
}

func newFocusSource(focused func() bool) *EbitenFocusSource {
	return &EbitenFocusSource{
		SyntheticEventSource: NewSyntheticEventSource(VisibilityChangeEvents[0]),
		focused:              focused,
		wasFocused:           true,
	}
}

// Poll compares the focus state against the previous poll and injects events
// on a transition.
func (s *EbitenFocusSource) Poll() {
	now := s.focused()
	if now == s.wasFocused {
		return
	}
	s.wasFocused = now
	if now {
		s.Inject(EventFocus)
		s.InjectHidden(VisibilityChangeEvents[0], false)
		return
	}
	s.Inject(EventBlur)
	s.InjectHidden(VisibilityChangeEvents[0], true)
}
