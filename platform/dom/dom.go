//go:build js && wasm

package dom

import (
	"sync"
	"syscall/js"

	"github.com/phanxgames/arbor"
)

// hiddenProps maps each visibility-change event to the document property
// holding the matching hidden flag.
var hiddenProps = map[string]string{
	"visibilitychange":       "hidden",
	"webkitvisibilitychange": "webkitHidden",
	"mozvisibilitychange":    "mozHidden",
	"msvisibilitychange":     "msHidden",
}

// Source is an arbor.PlatformEventSource backed by the browser DOM.
type Source struct {
	document js.Value
	window   js.Value

	mu        sync.Mutex
	hiddenKey string
}

var _ arbor.PlatformEventSource = (*Source)(nil)

// New returns a source bound to the global document and window.
func New() *Source {
	g := js.Global()
	return &Source{document: g.Get("document"), window: g.Get("window")}
}

// Supports implements arbor.PlatformEventSource. A visibility-change event is
// supported when the document exposes its hidden property.
func (s *Source) Supports(event string) bool {
	if prop, ok := hiddenProps[event]; ok {
		if s.document.Get(prop).Type() == js.TypeUndefined {
			return false
		}
		s.mu.Lock()
		if s.hiddenKey == "" {
			s.hiddenKey = prop
		}
		s.mu.Unlock()
		return true
	}
	switch event {
	case arbor.EventBlur, arbor.EventFocus, arbor.EventPageHide, arbor.EventPageShow, arbor.EventClick:
		return true
	}
	return false
}

// target returns the DOM object that dispatches event. Visibility change
// events fire on document; focus, blur and click are listened for on window.
func (s *Source) target(event string) js.Value {
	if _, ok := hiddenProps[event]; ok {
		return s.document
	}
	return s.window
}

// Subscribe implements arbor.PlatformEventSource. The returned function
// removes the listener and releases the callback; it is idempotent.
func (s *Source) Subscribe(event string, handler func(event string)) func() {
	target := s.target(event)
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		name := event
		if len(args) > 0 {
			if t := args[0].Get("type"); t.Type() == js.TypeString {
				name = t.String()
			}
		}
		handler(name)
		return nil
	})
	target.Call("addEventListener", event, fn, false)

	var once sync.Once
	return func() {
		once.Do(func() {
			target.Call("removeEventListener", event, fn, false)
			fn.Release()
		})
	}
}

// Hidden implements arbor.PlatformEventSource using whichever hidden
// property was found by Supports.
func (s *Source) Hidden() bool {
	s.mu.Lock()
	key := s.hiddenKey
	s.mu.Unlock()
	if key == "" {
		key = "hidden"
	}
	v := s.document.Get(key)
	return v.Type() == js.TypeBoolean && v.Bool()
}
