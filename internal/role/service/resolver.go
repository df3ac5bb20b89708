// Package service resolves a role into the permission names it grants.
package service

import (
	"context"
	"fmt"
)

// PermissionStore is the read side of the role repository.
type PermissionStore interface {
	PermissionNames(ctx context.Context, roleID int64) ([]string, error)
}

// PermissionResolver maps a role id to its permission names. Results are not
// cached, so a grant change is visible at the next sign-in or rotation.
type PermissionResolver struct {
	store PermissionStore
}

// NewPermissionResolver returns a resolver reading from store.
func NewPermissionResolver(store PermissionStore) *PermissionResolver {
	return &PermissionResolver{store: store}
}

// ResolvePermissions returns the permission names granted to roleID. Order is not significant.
func (r *PermissionResolver) ResolvePermissions(ctx context.Context, roleID int64) ([]string, error) {
	names, err := r.store.PermissionNames(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions for role %d: %w", roleID, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
