package arbor

import (
	"sync"
)

// SyntheticEventSource is an in-memory PlatformEventSource. Events are
// injected by name and delivered synchronously to subscribers. It backs the
// ebiten and terminal adapters and is the source used in tests.
//
// All methods are safe for concurrent use; handlers run on the injecting
// goroutine without the lock held.
type SyntheticEventSource struct {
	mu        sync.Mutex
	supported map[string]bool
	handlers  map[string][]*syntheticHandler
	hidden    bool
}

type syntheticHandler struct {
	fn func(event string)
}

// NewSyntheticEventSource creates a source that reports the given event
// names as supported. Focus events (blur, focus, click, pagehide, pageshow)
// are always supported.
func NewSyntheticEventSource(supported ...string) *SyntheticEventSource {
	s := &SyntheticEventSource{
		supported: make(map[string]bool, len(supported)+len(focusEvents)),
		handlers:  make(map[string][]*syntheticHandler),
	}
	for _, e := range focusEvents {
		s.supported[e] = true
	}
	for _, e := range supported {
		s.supported[e] = true
	}
	return s
}

// Supports implements PlatformEventSource.
func (s *SyntheticEventSource) Supports(event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.supported[event]
}

// Subscribe implements PlatformEventSource. The returned function is
// idempotent.
func (s *SyntheticEventSource) Subscribe(event string, handler func(event string)) func() {
	h := &syntheticHandler{fn: handler}
	s.mu.Lock()
	s.handlers[event] = append(s.handlers[event], h)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			list := s.handlers[event]
			for i, c := range list {
				if c == h {
					s.handlers[event] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
			if len(s.handlers[event]) == 0 {
				delete(s.handlers, event)
			}
		})
	}
}

// Hidden implements PlatformEventSource.
func (s *SyntheticEventSource) Hidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

// SetHidden sets the value reported by Hidden.
func (s *SyntheticEventSource) SetHidden(hidden bool) {
	s.mu.Lock()
	s.hidden = hidden
	s.mu.Unlock()
}

// Inject delivers event to every current subscriber and returns how many
// handlers ran.
func (s *SyntheticEventSource) Inject(event string) int {
	s.mu.Lock()
	list := append([]*syntheticHandler(nil), s.handlers[event]...)
	s.mu.Unlock()
	for _, h := range list {
		h.fn(event)
	}
	return len(list)
}

// InjectHidden sets the hidden flag and then injects event. Use it for
// visibility-change events, whose meaning depends on the flag.
func (s *SyntheticEventSource) InjectHidden(event string, hidden bool) int {
	s.SetHidden(hidden)
	return s.Inject(event)
}

// Subscriptions returns the total number of live subscriptions.
func (s *SyntheticEventSource) Subscriptions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, list := range s.handlers {
		n += len(list)
	}
	return n
}
