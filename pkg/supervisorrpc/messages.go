package supervisorrpc

import (
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/cuemby/sessiond/pkg/health"
)

// StartRequest names the unit to start.
type StartRequest struct {
	Name string `json:"name"`
}

// StartReply is empty: success is the absence of an error.
type StartReply struct{}

// StopRequest names the unit to stop.
type StopRequest struct {
	Name string `json:"name"`
}

// StopReply is empty: success is the absence of an error.
type StopReply struct{}

// SubscribeRequest has no fields; Subscribe streams every event from
// the point of the call onward.
type SubscribeRequest struct{}

// EventMessage is the wire form of a launcher.Event.
type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// HealthRequest has no fields.
type HealthRequest struct{}

// HealthSnapshot is the wire form of a health.Result, using the
// pre-built well-known protobuf types for its timestamp and duration
// fields instead of plain strings or integers.
type HealthSnapshot struct {
	Healthy   bool                   `json:"healthy"`
	Message   string                 `json:"message"`
	CheckedAt *timestamppb.Timestamp `json:"checked_at"`
	Duration  *durationpb.Duration   `json:"duration"`
}

func newHealthSnapshot(result health.Result) *HealthSnapshot {
	return &HealthSnapshot{
		Healthy:   result.Healthy,
		Message:   result.Message,
		CheckedAt: timestamppb.New(result.CheckedAt),
		Duration:  durationpb.New(result.Duration),
	}
}
