// Package grpc exposes the standard gRPC health service of the proxy so
// orchestrators can probe it next to the REST endpoint.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/partusch-cms/internal/logging"
)

// ServiceName is the health service name reported next to the overall "".
const ServiceName = "partusch.cms.TokenExchange"

type GRPCServer struct {
	address string
	logger  logging.Logger
	health  *health.Server
	ready   bool
}

// NewGRPCServer builds the server. ready reports whether the proxy can hand
// out credentials; a proxy without them answers NOT_SERVING.
func NewGRPCServer(a string, l logging.Logger, ready bool) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		health:  health.NewServer(),
		ready:   ready,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	status := healthpb.HealthCheckResponse_SERVING
	if !s.ready {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	healthpb.RegisterHealthServer(srv, s.health)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
