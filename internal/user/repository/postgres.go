package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rbac-auth/backend/internal/db"
	"rbac-auth/backend/internal/user/domain"
)

const userColumns = `id, email, password_hash, first_name, last_name, role_id, created_at, updated_at`

// PostgresRepository is the Postgres-backed user Repository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanOne(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanOne(row)
}

// List returns all users ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, nullString(u.PasswordHash), u.FirstName, u.LastName, u.RoleID, u.CreatedAt, u.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// UpdateName sets first and last name and returns the updated row, or nil if id is unknown.
func (r *PostgresRepository) UpdateName(ctx context.Context, id, firstName, lastName string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, updated_at = $4 WHERE id = $1 RETURNING `+userColumns,
		id, firstName, lastName, time.Now().UTC(),
	)
	return scanOne(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner) (*domain.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		u    domain.User
		hash sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &hash, &u.FirstName, &u.LastName, &u.RoleID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.PasswordHash = hash.String
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
