package server

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/jobboard/internal/model"
)

var _ model.Server = (*GRPCServer)(nil)

// GRPCServer wraps a gRPC server with address and lifecycle methods.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	addr   string
}

// NewGRPCServer creates a GRPCServer with given server and address. The
// health registry is flipped by Start and Stop.
func NewGRPCServer(
	server *grpc.Server,
	health *health.Server,
	addr string,
) *GRPCServer {
	return &GRPCServer{server: server, health: health, addr: addr}
}

// Start marks every service SERVING once the listener is open, then serves.
func (s *GRPCServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.health.Resume()
	return s.server.Serve(listener)
}

// Stop reports NOT_SERVING and gracefully stops the server.
func (s *GRPCServer) Stop(_ context.Context) error {
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}

// Status returns the overall health status.
func (s *GRPCServer) Status(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("failed to check health: %w", err)
	}
	return resp.GetStatus(), nil
}

// Address returns the configured listen address.
func (s *GRPCServer) Address() string {
	return s.addr
}
