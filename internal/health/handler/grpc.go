package handler

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported alongside the overall "" status.
const ServiceName = "rbac-auth"

// GRPCHealth publishes readiness through grpc.health.v1.Health.
type GRPCHealth struct {
	*health.Server
	checker ReadinessChecker
	log     *slog.Logger
}

// NewGRPCHealth returns a health server that starts NOT_SERVING until the first check.
func NewGRPCHealth(checker ReadinessChecker, log *slog.Logger) *GRPCHealth {
	h := &GRPCHealth{Server: health.NewServer(), checker: checker, log: log}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Refresh runs the readiness check once and updates the published status.
func (h *GRPCHealth) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.checker.Ready(ctx); err != nil {
		h.log.WarnContext(ctx, "grpc health: not serving", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.set(status)
	return status
}

// Run refreshes the status every interval until ctx is done, then marks the server as shutting down.
func (h *GRPCHealth) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	h.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}

func (h *GRPCHealth) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.SetServingStatus("", status)
	h.SetServingStatus(ServiceName, status)
}
