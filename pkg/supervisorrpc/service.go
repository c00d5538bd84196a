package supervisorrpc

import (
	"context"

	"google.golang.org/grpc"
)

// supervisorServer is the interface *Server implements; declared
// separately so the generated-style handler functions below can
// type-assert against it without depending on the concrete type.
type supervisorServer interface {
	Start(context.Context, *StartRequest) (*StartReply, error)
	Stop(context.Context, *StopRequest) (*StopReply, error)
	Health(context.Context, *HealthRequest) (*HealthSnapshot, error)
	Subscribe(*SubscribeRequest, grpc.ServerStream) error
}

// RegisterSupervisorServer registers srv's methods on s. Played by
// hand in place of a protoc-gen-go-grpc Register function.
func RegisterSupervisorServer(s *grpc.Server, srv supervisorServer) {
	s.RegisterService(&supervisorServiceDesc, srv)
}

var supervisorServiceDesc = grpc.ServiceDesc{
	ServiceName: "sessiond.supervisorrpc.Supervisor",
	HandlerType: (*supervisorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Start", Handler: supervisorStartHandler},
		{MethodName: "Stop", Handler: supervisorStopHandler},
		{MethodName: "Health", Handler: supervisorHealthHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: supervisorSubscribeHandler, ServerStreams: true},
	},
	Metadata: "supervisorrpc/supervisor.proto",
}

func supervisorStartHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StartRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(supervisorServer).Start(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/sessiond.supervisorrpc.Supervisor/Start"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(supervisorServer).Start(ctx, req.(*StartRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func supervisorStopHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StopRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(supervisorServer).Stop(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/sessiond.supervisorrpc.Supervisor/Stop"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(supervisorServer).Stop(ctx, req.(*StopRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func supervisorHealthHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(HealthRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(supervisorServer).Health(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/sessiond.supervisorrpc.Supervisor/Health"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(supervisorServer).Health(ctx, req.(*HealthRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func supervisorSubscribeHandler(srv any, stream grpc.ServerStream) error {
	req := new(SubscribeRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(supervisorServer).Subscribe(req, stream)
}
