// migrate applies or rolls back the embedded SQL migrations: go run ./cmd/migrate -direction up|down.
package main

import (
	"flag"
	"log/slog"
	"os"

	"rbac-auth/backend/internal/config"
	"rbac-auth/backend/internal/db/migrate"
	"rbac-auth/backend/internal/logging"
)

func main() {
	direction := flag.String("direction", migrate.Up, "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.LoadForTooling()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, "text", "rbac-auth-migrate")

	version, err := migrate.Run(cfg.DatabaseURL, *direction)
	if err != nil {
		logger.Error("migrate", "direction", *direction, "error", err)
		os.Exit(1)
	}
	logger.Info("migrate complete", "direction", *direction, "version", version)
}
