package otps

import (
	"context"
	"time"

	"github.com/gowear/gowear/internal/server/models"
)

// Repository is the one-time-password store. The table keys on email, so a
// new request replaces any previous live code in a single upsert statement.
type Repository interface {
	Upsert(ctx context.Context, email string, codeHash []byte, expiresAt time.Time) error
	Find(ctx context.Context, email string) (*models.OTP, error)
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
