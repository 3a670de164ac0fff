package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gowear/gowear/internal/common"
	"github.com/gowear/gowear/internal/server/models"
	"github.com/gowear/gowear/internal/server/repositories/repomanager"
	"github.com/gowear/gowear/internal/server/storage"
)

const maxPerPage = 100

// ImageUpload is one incoming product photo from the multipart form.
type ImageUpload struct {
	Body        io.Reader
	ContentType string
}

// AddProductInput carries the add-product form fields.
type AddProductInput struct {
	Title       string
	Description string
	Category    string
	SubCategory string
	Price       float64
}

// ProductService manages the catalog: creating listings with their images
// and serving filtered pages of products.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      storage.ImageStore
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, images storage.ImageStore) *ProductService {
	return &ProductService{db: db, repomanager: m, images: images}
}

// Add validates the listing, uploads its images to object storage, and
// inserts the catalog row. If any step fails after an upload succeeded the
// already-stored objects are removed so the bucket holds no orphans.
func (s *ProductService) Add(ctx context.Context, userID string, role models.Role, in AddProductInput, images []ImageUpload) (*models.Product, error) {
	if !role.Elevated() {
		return nil, common.ErrorUnauthorized
	}

	fields := map[string]string{}
	if len(strings.TrimSpace(in.Title)) < 3 {
		fields["title"] = "Title must be at least 3 characters long"
	}
	if strings.TrimSpace(in.Category) == "" {
		fields["categorie"] = "Category is required"
	}
	if in.Price <= 0 {
		fields["price"] = "Price must be greater than zero"
	}
	if len(images) == 0 {
		fields["images"] = "At least one image is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError(fields)
	}

	uploaded := make([]string, 0, len(images))
	for _, img := range images {
		key := storage.RandomImageKey()
		if err := s.images.Upload(ctx, key, img.ContentType, img.Body); err != nil {
			_ = s.images.Delete(ctx, uploaded...)
			return nil, fmt.Errorf("error uploading image: %w", err)
		}
		uploaded = append(uploaded, key)
	}

	product := &models.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		SubCategory: strings.TrimSpace(in.SubCategory),
		Price:       in.Price,
		ImageKeys:   uploaded,
		CreatedBy:   userID,
	}

	product, err := s.repomanager.Products(s.db).Create(ctx, product)
	if err != nil {
		_ = s.images.Delete(ctx, uploaded...)
		return nil, fmt.Errorf("error creating product: %w", err)
	}
	return product, nil
}

// List returns one catalog page and the total match count for pagination.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}
	return s.repomanager.Products(s.db).List(ctx, filter)
}

// Get returns a single product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repomanager.Products(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return product, nil
}

// ImageURL resolves a stored object key to a public URL.
func (s *ProductService) ImageURL(key string) string {
	return s.images.URL(key)
}
