// server runs the GraphQL API on HTTP_ADDR and, when GRPC_ADDR is set, the gRPC health service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"rbac-auth/backend/internal/audit"
	auditrepo "rbac-auth/backend/internal/audit/repository"
	"rbac-auth/backend/internal/config"
	"rbac-auth/backend/internal/db"
	"rbac-auth/backend/internal/db/migrate"
	"rbac-auth/backend/internal/health"
	healthhandler "rbac-auth/backend/internal/health/handler"
	identityhandler "rbac-auth/backend/internal/identity/handler"
	identityservice "rbac-auth/backend/internal/identity/service"
	"rbac-auth/backend/internal/logging"
	"rbac-auth/backend/internal/platform/rbac"
	"rbac-auth/backend/internal/policy/engine"
	rolerepo "rbac-auth/backend/internal/role/repository"
	roleservice "rbac-auth/backend/internal/role/service"
	"rbac-auth/backend/internal/security"
	"rbac-auth/backend/internal/server"
	"rbac-auth/backend/internal/server/middleware"
	sessionrepo "rbac-auth/backend/internal/session/repository"
	"rbac-auth/backend/internal/telemetry"
	telemetryotel "rbac-auth/backend/internal/telemetry/otel"
	"rbac-auth/backend/internal/telemetry/producer"
	userhandler "rbac-auth/backend/internal/user/handler"
	userrepo "rbac-auth/backend/internal/user/repository"
	userservice "rbac-auth/backend/internal/user/service"
)

const serviceName = "rbac-auth"

const grpcHealthInterval = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat, serviceName)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxyList())
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		return err
	}
	providers.SetGlobal()

	if cfg.AutoMigrate {
		version, err := migrate.Run(cfg.DatabaseURL, migrate.Up)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "version", version)
	}
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	tokens, err := security.NewTokenProvider(
		[]byte(cfg.JWTAccessSecret), []byte(cfg.JWTRefreshSecret),
		cfg.JWTIssuer, cfg.AccessTTL(), cfg.RefreshTTL(),
	)
	if err != nil {
		return err
	}
	evaluator, err := engine.NewOPAEvaluator(ctx)
	if err != nil {
		return err
	}

	emitters := []telemetry.EventEmitter{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	var kafka producer.Producer
	if kp := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.AuthEventsTopic); kp != nil {
		kafka = kp
		emitters = append(emitters, kafka)
		logger.Info("auth events will be written to kafka", "topic", cfg.AuthEventsTopic)
	}
	events := telemetry.Fanout(emitters...)

	users := userrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	roles := rolerepo.NewPostgresRepository(conn)
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(conn), middleware.ClientIP, logger)

	authSvc := identityservice.NewAuthService(
		users, sessions,
		roleservice.NewPermissionResolver(roles),
		security.NewHasher(cfg.PasswordHashAlgo, cfg.BcryptCost),
		tokens, auditLogger, events, logger,
	)
	gate := rbac.NewGate(rbac.DefaultRegistry(), tokens, evaluator, auditLogger, logger)
	schema := server.NewSchema(&server.RootResolver{
		AuthResolver: identityhandler.NewAuthResolver(authSvc, tokens, gate, logger),
		UserResolver: userhandler.NewUserResolver(userservice.NewUserService(users), gate, logger),
	})
	checker := health.NewChecker(conn, evaluator)

	httpSrv := server.NewHTTPServer(cfg.HTTPAddr, server.NewRouter(server.RouterDeps{
		Schema:         schema,
		Readiness:      checker,
		Events:         events,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		TrustedProxies: trustedProxies,
		Logger:         logger,
	}), logger)
	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return err
	}
	var grpcLis net.Listener
	if cfg.GRPCAddr != "" {
		if grpcLis, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
			httpLis.Close()
			return err
		}
	}

	errCh := make(chan error, 2)
	go func() { errCh <- httpSrv.Serve(httpLis) }()

	var grpcSrv *grpc.Server
	if grpcLis != nil {
		grpcHealth := healthhandler.NewGRPCHealth(checker, logger)
		go grpcHealth.Run(ctx, grpcHealthInterval)
		grpcSrv = server.NewGRPCServer(grpcHealth)
		go func() {
			logger.Info("grpc health server listening", "addr", cfg.GRPCAddr)
			errCh <- grpcSrv.Serve(grpcLis)
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-errCh:
		logger.Error("listener failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}

	// Let detached telemetry emits finish before the exporters close.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if kafka != nil {
		if err := kafka.Close(); err != nil {
			logger.Warn("kafka close", "error", err)
		}
	}
	if err := providers.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("otel shutdown", "error", err)
	}
	logger.Info("server stopped")
	return serveErr
}
