package server

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/nemanja-m/gridexec/internal/shared/config"
	"github.com/nemanja-m/gridexec/internal/shared/logging"
	"github.com/nemanja-m/gridexec/internal/shared/wire"
)

type Server struct {
	addr       string
	grpcServer *grpc.Server
	logger     logging.Logger
}

func New(cfg config.ServerConfig, service *Service, logger logging.Logger) *Server {
	grpcServer := grpc.NewServer(
		grpc.ForceServerCodec(wire.Codec{}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             cfg.KeepaliveMinTime,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			recoveryInterceptor(logger),
			loggingInterceptor(logger),
		),
	)
	grpcServer.RegisterService(&wire.ServiceDesc, service)

	return &Server{
		addr:       cfg.Addr,
		grpcServer: grpcServer,
		logger:     logger,
	}
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve accepts connections on an existing listener. Useful when the caller
// binds the port itself, e.g. to grab an ephemeral one.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Worker daemon listening", "address", lis.Addr().String())
	return s.grpcServer.Serve(lis)
}

func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}
