package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danuprasetya/furnistore/internal/cart/domain"
)

// CartRepo stores remote cart lines keyed (user_id, product_id), joined with
// the product snapshot on every read.
type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

const lineSelect = `
SELECT ci.product_id, ci.quantity, ci.created_at,
       p.name, p.description, p.price_amount, p.currency, p.image_url, p.category, p.stock
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
`

func (r *CartRepo) List(ctx context.Context, userID string) (domain.Lines, error) {
	rows, err := r.db.QueryContext(ctx,
		lineSelect+`WHERE ci.user_id = $1 ORDER BY ci.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	var out domain.Lines
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (r *CartRepo) Get(ctx context.Context, userID, productID string) (domain.CartLine, bool, error) {
	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return domain.CartLine{}, false, err
	}

	row := r.db.QueryRowContext(ctx,
		lineSelect+`WHERE ci.user_id = $1 AND ci.product_id = $2`, userID, productUUID)

	line, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CartLine{}, false, nil
	}
	if err != nil {
		return domain.CartLine{}, false, err
	}
	return line, true, nil
}

func (r *CartRepo) Upsert(ctx context.Context, userID string, line domain.CartLine) error {
	productUUID, err := uuid.Parse(line.ProductID)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`,
		userID, productUUID, line.Quantity)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *CartRepo) SetQuantity(ctx context.Context, userID, productID string, qty int32) error {
	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return err
	}

	// A missing row is a no-op: quantity updates never create lines.
	_, err = r.db.ExecContext(ctx, `
UPDATE cart_items SET quantity = $3, updated_at = now()
WHERE user_id = $1 AND product_id = $2`,
		userID, productUUID, qty)
	if err != nil {
		return fmt.Errorf("set cart item quantity: %w", err)
	}
	return nil
}

func (r *CartRepo) Remove(ctx context.Context, userID, productID string) error {
	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productUUID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLine(s scanner) (domain.CartLine, error) {
	var (
		productUUID uuid.UUID
		qty         int32
		createdAt   time.Time
		p           domain.ProductSnapshot
	)

	err := s.Scan(
		&productUUID, &qty, &createdAt,
		&p.Name, &p.Description, &p.UnitPrice.Amount, &p.UnitPrice.Currency,
		&p.ImageURL, &p.Category, &p.Stock,
	)
	if err != nil {
		return domain.CartLine{}, err
	}

	p.ID = productUUID.String()
	return domain.CartLine{
		ProductID: p.ID,
		Quantity:  qty,
		Product:   p,
		AddedAt:   createdAt,
	}, nil
}
