package supervisorrpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/cuemby/sessiond/pkg/health"
	"github.com/cuemby/sessiond/pkg/launcher"
)

// Server adapts a *launcher.Supervisor to a gRPC service. It is the
// only type in this module that imports both launcher and grpc.
type Server struct {
	supervisor    *launcher.Supervisor
	healthChecker health.Checker
}

// Option configures a Server.
type Option func(*Server)

// WithHealthChecker attaches a checker the Health RPC reports on. If
// none is set, Health always reports healthy.
func WithHealthChecker(checker health.Checker) Option {
	return func(s *Server) { s.healthChecker = checker }
}

// NewServer wraps supervisor for gRPC exposure.
func NewServer(supervisor *launcher.Supervisor, opts ...Option) *Server {
	s := &Server{supervisor: supervisor}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Start(ctx context.Context, req *StartRequest) (*StartReply, error) {
	if err := s.supervisor.Start(req.Name).Wait(ctx); err != nil {
		return nil, err
	}
	return &StartReply{}, nil
}

func (s *Server) Stop(ctx context.Context, req *StopRequest) (*StopReply, error) {
	if err := s.supervisor.Stop(req.Name).Wait(ctx); err != nil {
		return nil, err
	}
	return &StopReply{}, nil
}

func (s *Server) Health(ctx context.Context, req *HealthRequest) (*HealthSnapshot, error) {
	if s.healthChecker == nil {
		return newHealthSnapshot(health.Result{Healthy: true}), nil
	}
	return newHealthSnapshot(s.healthChecker.Check(ctx)), nil
}

// Subscribe streams every Event published on the supervisor's event
// bus from the point of the call onward, until the stream's context
// is done.
func (s *Server) Subscribe(req *SubscribeRequest, stream grpc.ServerStream) error {
	view := s.supervisor.Events().Subscribe()
	for {
		event, err := view.Next(stream.Context())
		if err != nil {
			return err
		}
		msg := &EventMessage{
			ID:   event.ID.String(),
			Type: event.Type.String(),
			Name: event.Name,
		}
		if err := stream.SendMsg(msg); err != nil {
			return err
		}
	}
}

// NewGRPCServer builds a *grpc.Server with the Supervisor service
// registered and the JSON codec forced for all calls.
func NewGRPCServer(supervisor *launcher.Supervisor, opts ...Option) *grpc.Server {
	server := grpc.NewServer(grpc.ForceServerCodec(jsonCodec{}))
	RegisterSupervisorServer(server, NewServer(supervisor, opts...))
	return server
}
