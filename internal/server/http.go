// Package server assembles the HTTP and gRPC listeners.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthhandler "rbac-auth/backend/internal/health/handler"
	"rbac-auth/backend/internal/server/middleware"
	"rbac-auth/backend/internal/telemetry"
)

// RouterDeps holds everything the HTTP router serves.
type RouterDeps struct {
	Schema      *graphql.Schema
	Readiness   healthhandler.ReadinessChecker
	Events      telemetry.EventEmitter
	RateLimiter *middleware.RateLimiter
	// TrustedProxies may set the client IP through forwarding headers.
	TrustedProxies []netip.Prefix
	Logger         *slog.Logger
}

// NewRouter builds the chi router: /graphql behind the request middleware chain,
// plus /healthz, /readyz and /metrics.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.ClientIPResolver(deps.TrustedProxies))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics)

	r.Get("/healthz", healthhandler.Live)
	if deps.Readiness != nil {
		r.Get("/readyz", healthhandler.Ready(deps.Readiness, log))
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.Middleware)
		r.Use(middleware.MaxBodyBytes(middleware.MaxRequestBody))
		r.Use(middleware.Credentials)
		r.Use(middleware.Telemetry(deps.Events))
		r.Post("/graphql", GraphQLHandler(deps.Schema).ServeHTTP)
	})
	return r
}

// HTTPServer wraps http.Server with the listener lifecycle used by cmd/server.
type HTTPServer struct {
	srv *http.Server
	log *slog.Logger
}

// NewHTTPServer returns a server for handler on addr.
func NewHTTPServer(addr string, handler http.Handler, log *slog.Logger) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		log: log,
	}
}

// Serve accepts connections on lis until Shutdown. It returns nil after a graceful shutdown.
func (s *HTTPServer) Serve(lis net.Listener) error {
	s.log.Info("http server listening", "addr", lis.Addr().String())
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx is done.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
