package wire

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName  = "gridexec.Worker"
	MethodInvoke = "/gridexec.Worker/Invoke"
	MethodStatus = "/gridexec.Worker/Status"
)

// WorkerServer is the server-side contract for the gridexec.Worker service.
type WorkerServer interface {
	Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResponse, error)
	Status(ctx context.Context, req *StatusRequest) (*StatusResponse, error)
}

func invokeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InvokeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkerServer).Invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodInvoke}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkerServer).Invoke(ctx, req.(*InvokeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkerServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodStatus}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorkerServer).Status(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc describes the worker service without generated bindings; the
// gob codec carries the messages.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorkerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Invoke", Handler: invokeHandler},
		{MethodName: "Status", Handler: statusHandler},
	},
	Streams: []grpc.StreamDesc{},
}
