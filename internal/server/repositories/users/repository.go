package users

import (
	"context"

	"github.com/gowear/gowear/internal/server/models"
)

// Repository is the credential store. Implementations translate "no rows"
// into common.ErrorNotFound and unique-email violations into
// common.ErrUserExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	SetEmailVerified(ctx context.Context, email string, verified bool) error
	SetApproval(ctx context.Context, id string, status models.ApprovalStatus) error
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	UpdateEmail(ctx context.Context, id string, email string) error
	Delete(ctx context.Context, id string) error
}
