package arbor

import (
	"encoding/json"
	"fmt"
)

// testStep is a single action in a visibility test script.
type testStep struct {
	Action string `json:"action"`
	Event  string `json:"event,omitempty"`
	Hidden *bool  `json:"hidden,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner replays scripted platform events against a SyntheticEventSource,
// one step per tick, for automated pause/resume testing. Attach it to a Game
// via SetTestRunner and boot the stage's visibility monitor on the same
// source.
//
// Script actions:
//
//	{"action": "event", "event": "blur"}
//	{"action": "event", "event": "visibilitychange", "hidden": true}
//	{"action": "hidden", "hidden": false}
//	{"action": "wait", "frames": 10}
type TestRunner struct {
	src       *SyntheticEventSource
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script. Events are injected into src.
func LoadTestScript(jsonData []byte, src *SyntheticEventSource) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "event":
			if st.Event == "" {
				return nil, fmt.Errorf("parse test script: step %d: event name required", i)
			}
		case "hidden":
			if st.Hidden == nil {
				return nil, fmt.Errorf("parse test script: step %d: hidden value required", i)
			}
		case "wait":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{src: src, steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one tick. Called from Game.Update before the
// deferred queue drains, so host reactions land in the same tick.
func (r *TestRunner) step() {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "event":
		if st.Hidden != nil {
			r.src.InjectHidden(st.Event, *st.Hidden)
		} else {
			r.src.Inject(st.Event)
		}
	case "hidden":
		r.src.SetHidden(*st.Hidden)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
