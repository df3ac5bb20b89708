package domain

// Seeded role ids. New accounts get RoleUser.
const (
	RoleAdmin int64 = 1
	RoleUser  int64 = 2
)

// Permission names referenced by the authorization registry and the seed.
const (
	PermGeneralAdmin = "GENERAL_ADMIN_PERMISSION"
	PermGeneralUser  = "GENERAL_USER_PERMISSION"
	PermBlockUser    = "BLOCK_USER"
)

// Role is a named group of permissions. A user has exactly one role.
type Role struct {
	ID   int64
	Name string
}

// Permission is a named capability granted to roles.
type Permission struct {
	ID   int64
	Name string
}
