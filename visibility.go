package arbor

import (
	"log/slog"
	"slices"
)

// Platform event names understood by the visibility monitor.
const (
	EventBlur     = "blur"
	EventFocus    = "focus"
	EventClick    = "click"
	EventPageHide = "pagehide"
	EventPageShow = "pageshow"
	// EventPause and EventResume are synthetic events raised by hosts that
	// can suspend the whole process (mobile wrappers).
	EventPause  = "pause"
	EventResume = "resume"
)

// VisibilityChangeEvents lists the visibility-change event names in the order
// they are probed. The first one the platform supports is used.
var VisibilityChangeEvents = []string{
	"visibilitychange",
	"webkitvisibilitychange",
	"mozvisibilitychange",
	"msvisibilitychange",
}

// focusEvents are always subscribed, whatever visibility API is available.
var focusEvents = []string{EventBlur, EventFocus, EventPageHide, EventPageShow, EventClick}

// Action is the outcome of classifying one platform event.
type Action uint8

const (
	ActionNone      Action = iota // event ignored
	ActionFocusLoss               // host told focus was lost
	ActionFocusGain               // host told focus was regained
	ActionPause                   // host told to pause
	ActionResume                  // host told to resume
)

// String returns a readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionFocusLoss:
		return "focus-loss"
	case ActionFocusGain:
		return "focus-gain"
	case ActionPause:
		return "pause"
	case ActionResume:
		return "resume"
	default:
		return "none"
	}
}

// ClassifyVisibilityEvent maps a platform event to an action. hidden is the
// platform's hidden flag at the time of the event. Focus events are
// classified regardless of disabled; visibility and synthetic pause/resume
// events yield ActionNone while disabled. Unknown names yield ActionNone.
func ClassifyVisibilityEvent(event string, hidden, disabled bool) Action {
	switch event {
	case EventBlur, EventPageHide:
		return ActionFocusLoss
	case EventClick, EventFocus, EventPageShow:
		return ActionFocusGain
	}
	if event != EventPause && event != EventResume && !slices.Contains(VisibilityChangeEvents, event) {
		return ActionNone
	}
	if disabled {
		return ActionNone
	}
	if hidden || event == EventPause {
		return ActionPause
	}
	return ActionResume
}

// PlatformEventSource abstracts the platform's document/window event target.
type PlatformEventSource interface {
	// Supports reports whether the platform can deliver the named event.
	Supports(event string) bool
	// Subscribe registers handler for the named event and returns a function
	// that removes it.
	Subscribe(event string, handler func(event string)) (unsubscribe func())
	// Hidden reports whether the platform currently considers the game hidden.
	Hidden() bool
}

// Host receives the monitor's decisions. Game implements it.
type Host interface {
	FocusLoss()
	FocusGain()
	Pause()
	Resume()
}

// VisibilityMonitor classifies platform visibility and focus events and
// forwards the result to a Host. Beyond the visibility event name chosen
// once by Start it keeps no state between events.
type VisibilityMonitor struct {
	source   PlatformEventSource
	host     Host
	disabled func() bool

	changeEvent string
	unsubs      []func()
	running     bool
}

// NewVisibilityMonitor creates a stopped monitor. disabled is consulted on
// every event; nil means never disabled.
func NewVisibilityMonitor(src PlatformEventSource, host Host, disabled func() bool) *VisibilityMonitor {
	if disabled == nil {
		disabled = func() bool { return false }
	}
	return &VisibilityMonitor{source: src, host: host, disabled: disabled}
}

// Start detects the supported visibility-change event and subscribes to it,
// to the focus fallbacks, and to synthetic pause/resume when available.
// Calling Start on a running monitor is a no-op.
func (m *VisibilityMonitor) Start() {
	if m.running {
		return
	}
	m.running = true
	m.changeEvent = DetectVisibilityChangeEvent(m.source)

	events := make([]string, 0, len(focusEvents)+3)
	if m.changeEvent != "" {
		events = append(events, m.changeEvent)
	}
	events = append(events, focusEvents...)
	for _, e := range []string{EventPause, EventResume} {
		if m.source.Supports(e) {
			events = append(events, e)
		}
	}
	for _, e := range events {
		m.unsubs = append(m.unsubs, m.source.Subscribe(e, m.handle))
	}
	Logger().Debug("visibility monitor started",
		slog.String("change_event", m.changeEvent),
		slog.Int("subscriptions", len(m.unsubs)))
}

// DetectVisibilityChangeEvent returns the first name in
// VisibilityChangeEvents that src supports, or "" when none is.
func DetectVisibilityChangeEvent(src PlatformEventSource) string {
	for _, name := range VisibilityChangeEvents {
		if src.Supports(name) {
			return name
		}
	}
	return ""
}

// ChangeEvent returns the visibility-change event chosen by Start, or "" when
// the platform only offers focus events.
func (m *VisibilityMonitor) ChangeEvent() string {
	return m.changeEvent
}

// Running reports whether the monitor holds subscriptions.
func (m *VisibilityMonitor) Running() bool {
	return m.running
}

// Stop releases every subscription. Safe to call more than once.
func (m *VisibilityMonitor) Stop() {
	if !m.running {
		return
	}
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
	m.running = false
	Logger().Debug("visibility monitor stopped")
}

// HandleEvent classifies event against the source's current hidden flag,
// dispatches the result to the host and returns it.
func (m *VisibilityMonitor) HandleEvent(event string) Action {
	action := ClassifyVisibilityEvent(event, m.source.Hidden(), m.disabled())
	switch action {
	case ActionFocusLoss:
		m.host.FocusLoss()
	case ActionFocusGain:
		m.host.FocusGain()
	case ActionPause:
		m.host.Pause()
	case ActionResume:
		m.host.Resume()
	}
	Logger().Debug("visibility event",
		slog.String("event", event),
		slog.String("action", action.String()))
	return action
}

func (m *VisibilityMonitor) handle(event string) {
	m.HandleEvent(event)
}
