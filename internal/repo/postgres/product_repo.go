package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
)

var ErrProductNotFound = errors.New("product not found")

const productColumns = `id, name, description, price, image, category, is_featured, created_at, updated_at`

type ProductRepo struct {
	db DB
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{db: asDB(pool)}
}

func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	return r.query(ctx, "list products", `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (r *ProductRepo) ListFeatured(ctx context.Context) ([]model.Product, error) {
	return r.query(ctx, "list featured products", `SELECT `+productColumns+` FROM products WHERE is_featured ORDER BY created_at DESC`)
}

func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return r.query(ctx, "list products by category", `SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY created_at DESC`, category)
}

func (r *ProductRepo) Sample(ctx context.Context, size int) ([]model.Product, error) {
	if size <= 0 {
		size = 3
	}
	return r.query(ctx, "sample products", `SELECT `+productColumns+` FROM products ORDER BY random() LIMIT $1`, size)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (model.Product, error) {
	if r.db == nil {
		return model.Product{}, errNoDB
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.Product{}, ErrProductNotFound
	}

	product, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, parsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (r *ProductRepo) Create(ctx context.Context, in model.NewProduct) (model.Product, error) {
	if r.db == nil {
		return model.Product{}, errNoDB
	}

	product, err := scanProduct(r.db.QueryRow(ctx, `
INSERT INTO products (id, name, description, price, image, category, is_featured, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW(), NOW())
RETURNING `+productColumns, uuid.New(), in.Name, in.Description, in.Price, in.Image, in.Category))
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (r *ProductRepo) ToggleFeatured(ctx context.Context, id string) (model.Product, error) {
	if r.db == nil {
		return model.Product{}, errNoDB
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.Product{}, ErrProductNotFound
	}

	product, err := scanProduct(r.db.QueryRow(ctx, `
UPDATE products
SET is_featured = NOT is_featured, updated_at = NOW()
WHERE id = $1
RETURNING `+productColumns, parsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("toggle featured product: %w", err)
	}
	return product, nil
}

// Delete returns the removed row so the caller can clean up its image.
func (r *ProductRepo) Delete(ctx context.Context, id string) (model.Product, error) {
	if r.db == nil {
		return model.Product{}, errNoDB
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.Product{}, ErrProductNotFound
	}

	product, err := scanProduct(r.db.QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING `+productColumns, parsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("delete product: %w", err)
	}
	return product, nil
}

func (r *ProductRepo) query(ctx context.Context, op, sql string, args ...any) ([]model.Product, error) {
	if r.db == nil {
		return nil, errNoDB
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var product model.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Image,
		&product.Category,
		&product.IsFeatured,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return model.Product{}, err
	}
	return product, nil
}
