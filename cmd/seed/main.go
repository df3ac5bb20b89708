// seed inserts the roles, permissions, grants and two sample accounts. Idempotent:
// roles and permissions are upserted and existing accounts are left untouched.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"rbac-auth/backend/internal/config"
	"rbac-auth/backend/internal/db"
	"rbac-auth/backend/internal/logging"
	roledomain "rbac-auth/backend/internal/role/domain"
	rolerepo "rbac-auth/backend/internal/role/repository"
	"rbac-auth/backend/internal/security"
	userdomain "rbac-auth/backend/internal/user/domain"
	userrepo "rbac-auth/backend/internal/user/repository"
)

const (
	permGeneralAdminID int64 = 1
	permGeneralUserID  int64 = 2
	permBlockUserID    int64 = 3
)

var roles = []roledomain.Role{
	{ID: roledomain.RoleAdmin, Name: "ADMIN"},
	{ID: roledomain.RoleUser, Name: "USER"},
}

var permissions = []roledomain.Permission{
	{ID: permGeneralAdminID, Name: roledomain.PermGeneralAdmin},
	{ID: permGeneralUserID, Name: roledomain.PermGeneralUser},
	{ID: permBlockUserID, Name: roledomain.PermBlockUser},
}

var grants = map[int64][]int64{
	roledomain.RoleAdmin: {permGeneralAdminID, permGeneralUserID, permBlockUserID},
	roledomain.RoleUser:  {permGeneralUserID},
}

var accounts = []userdomain.User{
	{ID: "e0ff5ba4-eb83-4d5c-8f0c-d5cdec039d78", Email: "admin@email.com", FirstName: "Admin", LastName: "Admin", RoleID: roledomain.RoleAdmin},
	{ID: "e0ff5ba4-eb83-4d5c-8f0c-d5cdec039d79", Email: "user1@email.com", FirstName: "User", LastName: "One", RoleID: roledomain.RoleUser},
}

func main() {
	cfg, err := config.LoadForTooling()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, "text", "rbac-auth-seed")
	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.SeedPassword == "" {
		return errors.New("SEED_PASSWORD is not set")
	}
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	roleRepo := rolerepo.NewPostgresRepository(conn)
	for _, r := range roles {
		if err := roleRepo.UpsertRole(ctx, r); err != nil {
			return fmt.Errorf("role %s: %w", r.Name, err)
		}
	}
	for _, p := range permissions {
		if err := roleRepo.UpsertPermission(ctx, p); err != nil {
			return fmt.Errorf("permission %s: %w", p.Name, err)
		}
	}
	for roleID, permIDs := range grants {
		for _, permID := range permIDs {
			if err := roleRepo.Grant(ctx, roleID, permID); err != nil {
				return fmt.Errorf("grant %d to role %d: %w", permID, roleID, err)
			}
		}
	}

	hasher := security.NewHasher(cfg.PasswordHashAlgo, cfg.BcryptCost)
	users := userrepo.NewPostgresRepository(conn)
	now := time.Now().UTC()
	for _, acct := range accounts {
		u := acct
		hash, err := hasher.Hash([]byte(cfg.SeedPassword))
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
		u.CreatedAt, u.UpdatedAt = now, now
		err = users.Create(ctx, &u)
		if errors.Is(err, userdomain.ErrEmailTaken) {
			logger.Info("account exists, skipping", "email", u.Email)
			continue
		}
		if err != nil {
			return fmt.Errorf("create %s: %w", u.Email, err)
		}
		logger.Info("account created", "email", u.Email, "role_id", u.RoleID)
	}
	logger.Info("seed complete")
	return nil
}
