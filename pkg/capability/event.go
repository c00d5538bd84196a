package capability

import "github.com/google/uuid"

// EventType identifies whether a capability event records an
// assignment or a removal.
type EventType int

const (
	EventSet EventType = iota
	EventDel
)

func (t EventType) String() string {
	switch t {
	case EventSet:
		return "SET"
	case EventDel:
		return "DEL"
	default:
		return "UNKNOWN"
	}
}

// Event records a single mutation of a Registry. ID lets an external
// consumer correlate a capability event with whatever it triggered
// downstream, such as a launcher unit's START after its capability
// became available.
type Event struct {
	ID   uuid.UUID
	Type EventType
	Key  any
}

func newEvent(t EventType, key any) Event {
	return Event{ID: uuid.New(), Type: t, Key: key}
}
