package app

import (
	"context"

	"github.com/danuprasetya/furnistore/internal/cart/domain"
	"github.com/danuprasetya/furnistore/internal/identity"
)

// RemoteStore is the hosted cart table, rows keyed (user_id, product_id).
// List returns rows in ascending creation-timestamp order.
type RemoteStore interface {
	List(ctx context.Context, userID string) (domain.Lines, error)
	Get(ctx context.Context, userID, productID string) (domain.CartLine, bool, error)
	// Upsert inserts the line or overwrites the quantity of an existing row.
	Upsert(ctx context.Context, userID string, line domain.CartLine) error
	// SetQuantity updates an existing row; a missing row is a no-op.
	SetQuantity(ctx context.Context, userID, productID string, qty int32) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// LocalStore is the durable anonymous cart, keyed by device. List returns
// lines in insertion order.
type LocalStore interface {
	List(ctx context.Context, deviceID string) (domain.Lines, error)
	Get(ctx context.Context, deviceID, productID string) (domain.CartLine, bool, error)
	Put(ctx context.Context, deviceID string, line domain.CartLine) error
	Remove(ctx context.Context, deviceID, productID string) error
	Clear(ctx context.Context, deviceID string) error
}

// SignInSource delivers edge-triggered sign-in events, one per
// anonymous-to-authenticated transition.
type SignInSource interface {
	Subscribe() (<-chan identity.SignIn, func())
}
