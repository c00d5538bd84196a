package launcher

import "github.com/google/uuid"

// Event records a single lifecycle transition published on a
// Supervisor's event bus. ID lets an external consumer correlate, say,
// the capability SET that unblocked a unit's start with the
// subsequent Event{Type: EventStart} for that unit.
type Event struct {
	ID   uuid.UUID
	Type EventType
	Name string
}

func newEvent(t EventType, name string) Event {
	return Event{ID: uuid.New(), Type: t, Name: name}
}
