package repository

import (
	"context"
	"database/sql"

	"rbac-auth/backend/internal/role/domain"
)

// PostgresRepository is the Postgres-backed role Repository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a role repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// PermissionNames returns the permission names granted to roleID in a single join.
// An unknown role yields an empty slice.
func (r *PostgresRepository) PermissionNames(ctx context.Context, roleID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.name FROM permissions p JOIN role_permissions rp ON rp.permission_id = p.id WHERE rp.role_id = $1 ORDER BY p.id`,
		roleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpsertRole inserts the role or renames an existing one with the same id.
func (r *PostgresRepository) UpsertRole(ctx context.Context, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		role.ID, role.Name,
	)
	return err
}

// UpsertPermission inserts the permission or renames an existing one with the same id.
func (r *PostgresRepository) UpsertPermission(ctx context.Context, p domain.Permission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO permissions (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		p.ID, p.Name,
	)
	return err
}

// Grant links a permission to a role. Granting twice is a no-op.
func (r *PostgresRepository) Grant(ctx context.Context, roleID, permissionID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		roleID, permissionID,
	)
	return err
}
