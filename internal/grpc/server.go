// Package grpc exposes the standard gRPC health service for the orchestrator.
package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health entry reported next to the server-wide "" entry.
const ServiceName = "dotgames.storefront"

type Server struct {
	srv    *grpc.Server
	health *health.Server
}

func NewServer(opts ...grpc.ServerOption) *Server {
	opts = append([]grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler())}, opts...)
	srv := grpc.NewServer(opts...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	// Enable reflection for grpcurl/grpcui
	reflection.Register(srv)

	s := &Server{srv: srv, health: hs}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) SetServing() {
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

func (s *Server) SetNotServing() {
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
}

func (s *Server) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// MonitorReadiness flips the health status with the result of check until ctx is done.
func (s *Server) MonitorReadiness(ctx context.Context, interval time.Duration, check func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, interval)
			err := check(checkCtx)
			cancel()

			switch {
			case err != nil && serving:
				slog.WarnContext(ctx, "readiness check failed, reporting NOT_SERVING", "error", err)
				s.SetNotServing()
				serving = false
			case err == nil && !serving:
				slog.InfoContext(ctx, "readiness restored, reporting SERVING")
				s.SetServing()
				serving = true
			}
		}
	}
}

func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Stop reports NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
