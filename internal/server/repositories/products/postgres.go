// Package products provides the PostgreSQL-backed product catalog store.
package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

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

// Create inserts a product. Image keys are stored as a JSONB array.
func (r *PostgresRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	keys, err := json.Marshal(product.ImageKeys)
	if err != nil {
		return nil, fmt.Errorf("encoding image keys: %w", err)
	}

	query := `
		INSERT INTO products (title, description, category, sub_category, price, image_keys, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		product.Title, product.Description, product.Category, product.SubCategory,
		product.Price, keys, product.CreatedBy,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return product, nil
}

const productColumns = `id, title, description, category, sub_category, price, image_keys, created_by, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	var keys []byte
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.SubCategory,
		&p.Price, &keys, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(keys) > 0 {
		if err := json.Unmarshal(keys, &p.ImageKeys); err != nil {
			return nil, fmt.Errorf("decoding image keys: %w", err)
		}
	}
	return p, nil
}

// GetByID returns the product with the given id, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// List returns one page of products matching the filter plus the total match
// count for pagination.
func (r *PostgresRepository) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error) {
	where, args := buildWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return result, total, nil
}

// Delete removes a product by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func buildWhere(filter models.ProductFilter) (string, []any) {
	var clauses []string
	var args []any

	next := func() string { return "$" + strconv.Itoa(len(args)) }

	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, "category = "+next())
	}
	if filter.SubCategory != "" {
		args = append(args, filter.SubCategory)
		clauses = append(clauses, "sub_category = "+next())
	}
	if filter.MinPrice > 0 {
		args = append(args, filter.MinPrice)
		clauses = append(clauses, "price >= "+next())
	}
	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		clauses = append(clauses, "price <= "+next())
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
