// Package metadata is the client's local key-value store. It persists the
// small bits of session state that survive restarts, most importantly the
// refresh token behind "keep me logged in".
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyRefreshToken = "refresh_token"
	KeyUserEmail    = "user_email"
	KeyUserName     = "user_name"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
