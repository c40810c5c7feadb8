package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// StageEventType is the Donburi event type for arbor stage lifecycle events.
var StageEventType = events.NewEventType[arbor.StageEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Stage events are published to StageEventType and delivered on the next
// ProcessEvents call.
func NewDonburiStore(world donburi.World) arbor.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event arbor.StageEvent) {
	StageEventType.Publish(s.world, event)
}

// PausedTracker mirrors the stage's paused state inside a Donburi world.
// Register Handle with StageEventType.Subscribe.
type PausedTracker struct {
	paused bool
	count  int
}

// Handle updates the tracker from one stage event.
func (p *PausedTracker) Handle(_ donburi.World, e arbor.StageEvent) {
	switch e.Type {
	case arbor.StageEventPaused:
		p.paused = true
	case arbor.StageEventResumed:
		p.paused = false
	}
	p.count++
}

// Paused reports whether the last pause/resume event seen was a pause.
func (p *PausedTracker) Paused() bool { return p.paused }

// Count returns the number of stage events handled.
func (p *PausedTracker) Count() int { return p.count }
