package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
	"github.com/krjofficial/mern-ecomm/internal/services/cart"
)

// CartRepo stores cart lines keyed by (user_id, product_id).
type CartRepo struct {
	db DB
}

func NewCartRepo(pool *pgxpool.Pool) *CartRepo {
	return &CartRepo{db: asDB(pool)}
}

func (r *CartRepo) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	if r.db == nil {
		return nil, errNoDB
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, cart.ErrInvalidInput
	}

	rows, err := r.db.Query(ctx, `
SELECT product_id, quantity
FROM cart_items
WHERE user_id = $1
ORDER BY created_at, product_id
`, uid)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]model.CartItem, 0)
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("list cart items: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return items, nil
}

func (r *CartRepo) Lines(ctx context.Context, userID string) ([]model.CartLine, error) {
	if r.db == nil {
		return nil, errNoDB
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, cart.ErrInvalidInput
	}

	rows, err := r.db.Query(ctx, `
SELECT p.id, p.name, p.description, p.price, p.image, p.category, p.is_featured, p.created_at, p.updated_at, c.quantity
FROM cart_items c
JOIN products p ON p.id = c.product_id
WHERE c.user_id = $1
ORDER BY c.created_at, c.product_id
`, uid)
	if err != nil {
		return nil, fmt.Errorf("list cart products: %w", err)
	}
	defer rows.Close()

	lines := make([]model.CartLine, 0)
	for rows.Next() {
		var line model.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.Name,
			&line.Description,
			&line.Price,
			&line.Image,
			&line.Category,
			&line.IsFeatured,
			&line.CreatedAt,
			&line.UpdatedAt,
			&line.Quantity,
		); err != nil {
			return nil, fmt.Errorf("list cart products: scan: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cart products: %w", err)
	}
	return lines, nil
}

// Add inserts the product with quantity 1 or bumps an existing line by one.
func (r *CartRepo) Add(ctx context.Context, userID, productID string) error {
	if r.db == nil {
		return errNoDB
	}
	uid, pid, err := parseCartKey(userID, productID)
	if err != nil {
		return cart.ErrProductNotFound
	}

	_, err = r.db.Exec(ctx, `
INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
VALUES ($1, $2, 1, NOW(), NOW())
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + 1, updated_at = NOW()
`, uid, pid)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return cart.ErrProductNotFound
		}
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *CartRepo) Remove(ctx context.Context, userID, productID string) error {
	if r.db == nil {
		return errNoDB
	}
	uid, pid, err := parseCartKey(userID, productID)
	if err != nil {
		return cart.ErrItemNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, uid, pid)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	if r.db == nil {
		return errNoDB
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return cart.ErrInvalidInput
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, uid); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// SetQuantity only updates an existing line; quantity must be positive.
func (r *CartRepo) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if r.db == nil {
		return errNoDB
	}
	if quantity <= 0 {
		return cart.ErrInvalidInput
	}
	uid, pid, err := parseCartKey(userID, productID)
	if err != nil {
		return cart.ErrItemNotFound
	}

	tag, err := r.db.Exec(ctx, `
UPDATE cart_items
SET quantity = $3, updated_at = NOW()
WHERE user_id = $1 AND product_id = $2
`, uid, pid, quantity)
	if err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

func parseCartKey(userID, productID string) (uuid.UUID, uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return uid, pid, nil
}
