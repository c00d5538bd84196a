package launcher

import "context"

// Command is one step of a unit's ExecStart or ExecStop sequence. It
// receives the unit's main context and returns whatever it produces;
// only the last ExecStart command's return value matters, and only
// for a Forking unit, where it must be a Task.
type Command func(ctx context.Context) (any, error)

// UnitType determines how a unit's ExecStart is interpreted and what
// condition must hold before the unit is considered started.
type UnitType int

const (
	// Simple units are considered started as soon as ExecStart has
	// been scheduled; no extra gate is applied.
	Simple UnitType = iota

	// Exec units are considered started once ExecStart has begun
	// running, rather than merely having been scheduled.
	Exec

	// Forking units must return a Task from their ExecStart command;
	// that Task, not the ExecStart invocation itself, becomes the
	// unit's main.
	Forking

	// Capability units are considered started once their declared
	// CapabilityName is SET on the registry passed to the supervisor.
	Capability
)

func (t UnitType) String() string {
	switch t {
	case Simple:
		return "SIMPLE"
	case Exec:
		return "EXEC"
	case Forking:
		return "FORKING"
	case Capability:
		return "CAPABILITY"
	default:
		return "UNKNOWN"
	}
}

// Task is what a Forking unit's ExecStart command must return: a
// handle representing the unit's actual long-running main, distinct
// from the coroutine that forked it.
type Task interface {
	// Wait blocks until the task completes or ctx is done.
	Wait(ctx context.Context) error
	// Cancel requests the task stop.
	Cancel()
}

// Descriptor declares a unit. Only ExecStart is required; every other
// field has a documented default applied by Database.Add.
type Descriptor struct {
	// After lists units that must finish starting before this one
	// proceeds, when both are starting concurrently.
	After []string
	// Before lists units that must finish stopping before this one
	// proceeds.
	Before []string
	// BindsTo lists units this one pulls up when it starts.
	BindsTo []string
	// CapabilityName is the capability key this unit is expected to
	// SET on the registry. Required, and only meaningful, for
	// Capability units.
	CapabilityName string
	// Conflicts lists units that are stopped when this one starts.
	Conflicts []string
	// DefaultDependencies, when nil or true, wires this unit's Before
	// and Conflicts sets to ShutdownTarget.
	DefaultDependencies *bool
	// ExecStart is required: the sequence of commands run to start
	// the unit.
	ExecStart []Command
	// ExecStop runs, in order, when the unit stops.
	ExecStop []Command
	// Type overrides the derived UnitType. Nil derives Capability
	// when CapabilityName is non-empty, else Simple.
	Type *UnitType
}

// EventType identifies the kind of lifecycle transition a supervisor
// Event records.
type EventType int

const (
	EventAdd EventType = iota
	EventRemove
	EventStart
	EventStop
)

func (t EventType) String() string {
	switch t {
	case EventAdd:
		return "ADD"
	case EventRemove:
		return "REMOVE"
	case EventStart:
		return "START"
	case EventStop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}
