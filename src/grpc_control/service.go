package grpc_control

import (
	"fmt"
	"net"

	"stock-insight/src/logger"
	"stock-insight/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall status.
const ServiceName = "stock-insight"

// ControlServer exposes the standard grpc.health.v1 service so orchestrators
// can probe the process without going through HTTP.
type ControlServer struct {
	Config *models.MConfig
	Logger *logger.Logger

	grpcServer *grpc.Server
	health     *health.Server
}

// NewControlServer creates the gRPC server in NOT_SERVING state.
func NewControlServer(cfg *models.MConfig, log *logger.Logger) *ControlServer {
	s := &ControlServer{
		Config:     cfg,
		Logger:     log,
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.SetServing(false)
	return s
}

// -----------------------------------------------------------------------------

// Enabled reports whether a gRPC port is configured.
func (s *ControlServer) Enabled() bool {
	return s.Config.GrpcPort > 0
}

// -----------------------------------------------------------------------------

func (s *ControlServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// -----------------------------------------------------------------------------

// Start listens on grpc_host:grpc_port and blocks until Stop.
func (s *ControlServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.GrpcHost, s.Config.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC on %s: %w", addr, err)
	}
	return s.Serve(lis)
}

// -----------------------------------------------------------------------------

func (s *ControlServer) Serve(lis net.Listener) error {
	s.Logger.Info("Starting gRPC health server on %s", lis.Addr())
	return s.grpcServer.Serve(lis)
}

// -----------------------------------------------------------------------------

// Stop flips the status to NOT_SERVING and drains in-flight calls.
func (s *ControlServer) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
