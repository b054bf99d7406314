package router

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/jobboard/internal/api/grpc/middleware"
	"github.com/dtroode/jobboard/internal/logger"
)

// ServiceName is the name reported by the health service besides the
// overall "" entry.
const ServiceName = "jobboard"

// Router builds the gRPC server that exposes grpc.health.v1.Health.
type Router struct {
	logger *logger.Logger
}

// New creates new gRPC Router instance.
func New(logger *logger.Logger) *Router {
	return &Router{logger: logger}
}

// Register returns the configured server and the health registry backing it.
// Every service starts as NOT_SERVING.
func (r *Router) Register() (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.Recovery(r.logger),
			middleware.Logging(r.logger),
		),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return s, hs
}
