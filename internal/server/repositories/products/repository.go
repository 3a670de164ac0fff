package products

import (
	"context"

	"github.com/gowear/gowear/internal/server/models"
)

// Repository is the product catalog store.
type Repository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error)
	Delete(ctx context.Context, id string) error
}
