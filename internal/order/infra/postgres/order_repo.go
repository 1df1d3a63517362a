package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/danuprasetya/furnistore/internal/order/app"
	"github.com/danuprasetya/furnistore/internal/order/domain"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// execTx runs fn inside a transaction, rolling back on error.
func (r *OrderRepo) execTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %w", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.ID = uuid.NewString()

	err := r.execTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (id, user_id, status, currency, sub_total_amount, shipping_amount, total_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at`,
			order.ID, order.UserID, order.Status, order.Currency,
			order.SubTotalAmount, order.ShippingAmount, order.TotalAmount,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			if item.LineTotalAmount != item.UnitAmount*int64(item.Quantity) {
				return fmt.Errorf("item %s: line total mismatch", item.ProductID)
			}
			item.ID = uuid.NewString()
			item.OrderID = order.ID

			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (id, order_id, product_id, name, unit_amount, quantity, line_total_amount)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				item.ID, item.OrderID, item.ProductID, item.Name,
				item.UnitAmount, item.Quantity, item.LineTotalAmount,
			)
			if err != nil {
				return fmt.Errorf("insert order item %s: %w", item.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.status, o.currency, o.total_amount, COUNT(i.id), o.created_at
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		WHERE o.user_id = $1
		GROUP BY o.id
		ORDER BY o.created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Summary
	for rows.Next() {
		var s domain.Summary
		if err := rows.Scan(&s.ID, &s.Status, &s.Currency, &s.TotalAmount, &s.ItemCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *OrderRepo) Get(ctx context.Context, userID, orderID string) (domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, currency, sub_total_amount, shipping_amount, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2`,
		orderID, userID,
	).Scan(&order.ID, &order.UserID, &order.Status, &order.Currency,
		&order.SubTotalAmount, &order.ShippingAmount, &order.TotalAmount,
		&order.CreatedAt, &order.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, unit_amount, quantity, line_total_amount
		FROM order_items
		WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.UnitAmount, &item.Quantity, &item.LineTotalAmount); err != nil {
			return domain.Order{}, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}
