// Package otps provides the PostgreSQL-backed one-time-password store.
package otps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gowear/gowear/internal/common"
	"github.com/gowear/gowear/internal/dbx"
	"github.com/gowear/gowear/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert stores the hashed code for email, replacing any previous record in
// a single statement. This removes the delete-then-create window of the
// original two-step flow.
func (r *PostgresRepository) Upsert(ctx context.Context, email string, codeHash []byte, expiresAt time.Time) error {
	query := `
		INSERT INTO otps (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query, email, codeHash, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the record for email, or common.ErrorNotFound. Expiry is the
// caller's concern: a stale row is still returned.
func (r *PostgresRepository) Find(ctx context.Context, email string) (*models.OTP, error) {
	query := `SELECT email, code_hash, expires_at FROM otps WHERE email = $1`

	otp := &models.OTP{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&otp.Email, &otp.CodeHash, &otp.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return otp, nil
}

// Delete removes the record for email. Deleting an absent record is not an
// error.
func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE email = $1`, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteExpired removes every record past its TTL and reports how many were
// dropped. Called opportunistically by the OTP service.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
