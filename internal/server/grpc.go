package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	healthhandler "rbac-auth/backend/internal/health/handler"
)

// NewGRPCServer returns a gRPC server exposing only grpc.health.v1.Health, instrumented with otelgrpc.
func NewGRPCServer(health *healthhandler.GRPCHealth) *grpc.Server {
	s := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthpb.RegisterHealthServer(s, health)
	return s
}
