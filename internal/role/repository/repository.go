package repository

import (
	"context"

	"rbac-auth/backend/internal/role/domain"
)

// Repository reads role grants and writes the seed rows.
type Repository interface {
	// PermissionNames returns the names of all permissions granted to roleID.
	PermissionNames(ctx context.Context, roleID int64) ([]string, error)
	UpsertRole(ctx context.Context, r domain.Role) error
	UpsertPermission(ctx context.Context, p domain.Permission) error
	Grant(ctx context.Context, roleID, permissionID int64) error
}
