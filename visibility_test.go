package arbor

import "testing"

// recordingHost records every Host call in order.
type recordingHost struct {
	calls []string
}

func (h *recordingHost) FocusLoss() { h.calls = append(h.calls, "focusLoss") }
func (h *recordingHost) FocusGain() { h.calls = append(h.calls, "focusGain") }
func (h *recordingHost) Pause()     { h.calls = append(h.calls, "pause") }
func (h *recordingHost) Resume()    { h.calls = append(h.calls, "resume") }

func TestClassifyVisibilityEvent(t *testing.T) {
	tests := []struct {
		event    string
		hidden   bool
		disabled bool
		want     Action
	}{
		{EventBlur, false, false, ActionFocusLoss},
		{EventBlur, true, true, ActionFocusLoss},
		{EventPageHide, false, false, ActionFocusLoss},
		{EventPageHide, false, true, ActionFocusLoss},
		{EventClick, false, false, ActionFocusGain},
		{EventFocus, false, true, ActionFocusGain},
		{EventPageShow, true, false, ActionFocusGain},
		{EventPageShow, false, true, ActionFocusGain},

		{"visibilitychange", true, false, ActionPause},
		{"visibilitychange", false, false, ActionResume},
		{"visibilitychange", true, true, ActionNone},
		{"webkitvisibilitychange", true, false, ActionPause},
		{"mozvisibilitychange", false, false, ActionResume},
		{"msvisibilitychange", false, true, ActionNone},

		{EventPause, false, false, ActionPause},
		{EventPause, false, true, ActionNone},
		{EventResume, false, false, ActionResume},
		{EventResume, true, false, ActionPause},
		{EventResume, false, true, ActionNone},

		{"keydown", true, false, ActionNone},
		{"", false, false, ActionNone},
	}
	for _, tt := range tests {
		name := tt.event
		if tt.hidden {
			name += "/hidden"
		}
		if tt.disabled {
			name += "/disabled"
		}
		t.Run(name, func(t *testing.T) {
			if got := ClassifyVisibilityEvent(tt.event, tt.hidden, tt.disabled); got != tt.want {
				t.Errorf("ClassifyVisibilityEvent(%q, %v, %v) = %v, want %v",
					tt.event, tt.hidden, tt.disabled, got, tt.want)
			}
		})
	}
}

func TestActionString(t *testing.T) {
	for a, want := range map[Action]string{
		ActionNone:      "none",
		ActionFocusLoss: "focus-loss",
		ActionFocusGain: "focus-gain",
		ActionPause:     "pause",
		ActionResume:    "resume",
	} {
		if a.String() != want {
			t.Errorf("%d.String() = %q, want %q", a, a.String(), want)
		}
	}
}

func TestDetectVisibilityChangeEventFallback(t *testing.T) {
	tests := []struct {
		name      string
		supported []string
		want      string
	}{
		{"standard", []string{"visibilitychange", "webkitvisibilitychange"}, "visibilitychange"},
		{"webkit", []string{"webkitvisibilitychange", "mozvisibilitychange"}, "webkitvisibilitychange"},
		{"moz", []string{"mozvisibilitychange", "msvisibilitychange"}, "mozvisibilitychange"},
		{"ms", []string{"msvisibilitychange"}, "msvisibilitychange"},
		{"none", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSyntheticEventSource(tt.supported...)
			if got := DetectVisibilityChangeEvent(src); got != tt.want {
				t.Errorf("DetectVisibilityChangeEvent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMonitorSubscriptions(t *testing.T) {
	tests := []struct {
		name      string
		supported []string
		want      int
	}{
		{"focus only", nil, len(focusEvents)},
		{"with visibility", []string{"webkitvisibilitychange"}, len(focusEvents) + 1},
		{"with pause/resume", []string{"visibilitychange", EventPause, EventResume}, len(focusEvents) + 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSyntheticEventSource(tt.supported...)
			m := NewVisibilityMonitor(src, &recordingHost{}, nil)
			m.Start()
			m.Start() // no-op
			if got := src.Subscriptions(); got != tt.want {
				t.Errorf("Subscriptions = %d, want %d", got, tt.want)
			}
			if !m.Running() {
				t.Error("monitor should be running")
			}
			m.Stop()
			m.Stop()
			if src.Subscriptions() != 0 {
				t.Errorf("Subscriptions after Stop = %d, want 0", src.Subscriptions())
			}
			if m.Running() {
				t.Error("monitor should be stopped")
			}
		})
	}
}

func TestMonitorFocusOnlyFallback(t *testing.T) {
	src := NewSyntheticEventSource()
	host := &recordingHost{}
	m := NewVisibilityMonitor(src, host, nil)
	m.Start()
	defer m.Stop()

	if m.ChangeEvent() != "" {
		t.Errorf("ChangeEvent = %q, want empty", m.ChangeEvent())
	}
	src.Inject(EventBlur)
	src.Inject(EventClick)
	// Not subscribed when unsupported.
	if n := src.InjectHidden("visibilitychange", true); n != 0 {
		t.Errorf("visibilitychange reached %d handlers, want 0", n)
	}
	want := []string{"focusLoss", "focusGain"}
	if !equalStrings(host.calls, want) {
		t.Errorf("calls = %v, want %v", host.calls, want)
	}
}

func TestMonitorDispatch(t *testing.T) {
	disabled := false
	src := NewSyntheticEventSource("mozvisibilitychange", EventPause, EventResume)
	host := &recordingHost{}
	m := NewVisibilityMonitor(src, host, func() bool { return disabled })
	m.Start()
	defer m.Stop()

	src.InjectHidden("mozvisibilitychange", true)
	src.InjectHidden("mozvisibilitychange", false)
	src.Inject(EventPause)
	src.Inject(EventResume)
	src.Inject(EventPageHide)
	src.Inject(EventPageShow)

	want := []string{"pause", "resume", "pause", "resume", "focusLoss", "focusGain"}
	if !equalStrings(host.calls, want) {
		t.Errorf("calls = %v, want %v", host.calls, want)
	}

	// Disabling is read per event.
	host.calls = nil
	disabled = true
	src.InjectHidden("mozvisibilitychange", true)
	src.Inject(EventPause)
	src.Inject(EventBlur)
	src.Inject(EventFocus)
	want = []string{"focusLoss", "focusGain"}
	if !equalStrings(host.calls, want) {
		t.Errorf("disabled calls = %v, want %v", host.calls, want)
	}
}

func TestMonitorHandleEventReturnsAction(t *testing.T) {
	src := NewSyntheticEventSource()
	src.SetHidden(true)
	m := NewVisibilityMonitor(src, &recordingHost{}, nil)
	if got := m.HandleEvent("visibilitychange"); got != ActionPause {
		t.Errorf("HandleEvent = %v, want pause", got)
	}
	if got := m.HandleEvent("unknown"); got != ActionNone {
		t.Errorf("HandleEvent = %v, want none", got)
	}
}

func TestStageVisibilityFlagIsLive(t *testing.T) {
	s := newTestStage(t)
	src := NewSyntheticEventSource("visibilitychange")
	host := &recordingHost{}
	if err := s.BootVisibility(src, host); err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	s.SetDisableVisibilityChange(true)
	src.InjectHidden("visibilitychange", true)
	if len(host.calls) != 0 {
		t.Errorf("calls = %v, want none while disabled", host.calls)
	}
	s.SetDisableVisibilityChange(false)
	src.InjectHidden("visibilitychange", true)
	if !equalStrings(host.calls, []string{"pause"}) {
		t.Errorf("calls = %v, want [pause]", host.calls)
	}
	if s.Visibility() == nil || s.Visibility().ChangeEvent() != "visibilitychange" {
		t.Error("Visibility should expose the running monitor")
	}
}
