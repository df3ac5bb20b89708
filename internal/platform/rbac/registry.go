// Package rbac is the authorization gate in front of every GraphQL operation.
package rbac

import (
	roledomain "rbac-auth/backend/internal/role/domain"
)

// Registry maps a GraphQL field name to the permissions that may invoke it.
// An operation without an entry is public.
type Registry map[string][]string

// DefaultRegistry returns the declarations for the served schema.
func DefaultRegistry() Registry {
	return Registry{
		"adminCanQuery":        {roledomain.PermGeneralAdmin},
		"adminAndUserCanQuery": {roledomain.PermGeneralAdmin, roledomain.PermGeneralUser},
		"findAllUser":          {roledomain.PermGeneralAdmin},
		"me":                   {roledomain.PermGeneralUser},
		"updateUser":           {roledomain.PermGeneralUser},
		"blockUser":            {roledomain.PermBlockUser},
	}
}

// Required returns the declared permission set for operation and whether one exists.
func (r Registry) Required(operation string) ([]string, bool) {
	perms, ok := r[operation]
	return perms, ok && len(perms) > 0
}
