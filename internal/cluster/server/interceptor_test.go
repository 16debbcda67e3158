package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nemanja-m/gridexec/internal/shared/logging"
)

func TestRecoveryInterceptor_ConvertsPanicToStatus(t *testing.T) {
	interceptor := recoveryInterceptor(logging.NewNop())

	info := &grpc.UnaryServerInfo{FullMethod: "/gridexec.Worker/Invoke"}
	handler := func(ctx context.Context, req any) (any, error) {
		panic("handler blew up")
	}

	_, err := interceptor(context.Background(), nil, info, handler)
	require.Error(t, err)
	require.Equal(t, codes.Internal, status.Code(err))
}

func TestRecoveryInterceptor_PassesThroughNormally(t *testing.T) {
	interceptor := recoveryInterceptor(logging.NewNop())

	info := &grpc.UnaryServerInfo{FullMethod: "/gridexec.Worker/Status"}
	handler := func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	}

	resp, err := interceptor(context.Background(), nil, info, handler)
	require.NoError(t, err)
	require.Equal(t, "ok", resp)
}

func TestLoggingInterceptor_PreservesHandlerResult(t *testing.T) {
	interceptor := loggingInterceptor(logging.NewNop())

	info := &grpc.UnaryServerInfo{FullMethod: "/gridexec.Worker/Invoke"}
	handler := func(ctx context.Context, req any) (any, error) {
		return nil, status.Errorf(codes.NotFound, "no such job")
	}

	_, err := interceptor(context.Background(), nil, info, handler)
	require.Equal(t, codes.NotFound, status.Code(err))
}
