package collision

// EventKind identifies collision events.
type EventKind string

const (
	EventHazard  EventKind = "hazard"
	EventPowerup EventKind = "powerup"
)

// Event is emitted when an overlap has a gameplay effect.
type Event struct {
	Kind EventKind
	// Index is the arena index of the entity that was hit.
	Index int
}

// EventQueue is a simple FIFO queue drained by the game-state owner.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
