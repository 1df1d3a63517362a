package app

import (
	"context"

	"github.com/danuprasetya/furnistore/internal/order/domain"
)

type OrderRepo interface {
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Summary, error)
	Get(ctx context.Context, userID, orderID string) (domain.Order, error)
}

// EmailSender delivers the order confirmation. Best-effort: a send failure
// never fails the order.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
