package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rbac-auth/backend/internal/session/domain"
)

// ErrSessionNotFound is returned by UpdateRefreshToken when no record has the id.
var ErrSessionNotFound = errors.New("session not found")

// PostgresRepository stores refresh-token records in the refresh_tokens table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the record for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, refresh_token_hash, expires_at, created_at, updated_at FROM refresh_tokens WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.RefreshTokenHash, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new record. ID, UserID and RefreshTokenHash must be set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	if s.ID == "" || s.UserID == "" || s.RefreshTokenHash == "" {
		return errors.New("session: id, user id and refresh token hash are required")
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = s.CreatedAt
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, refresh_token_hash, expires_at, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, s.RefreshTokenHash, s.ExpiresAt, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// UpdateRefreshToken rotates the stored hash in place.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, id, refreshTokenHash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET refresh_token_hash = $2, expires_at = $3, updated_at = $4 WHERE id = $1`,
		id, refreshTokenHash, expiresAt, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update refresh token %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

// Delete removes the record. Returns false when it did not exist.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
