package app

import (
	"context"

	"github.com/danuprasetya/furnistore/internal/favorites/domain"
	"github.com/danuprasetya/furnistore/internal/identity"
)

type RemoteStore interface {
	List(ctx context.Context, userID string) ([]domain.Favorite, error)
	// Add is idempotent: saving an already-saved product is a no-op.
	Add(ctx context.Context, userID string, fav domain.Favorite) error
	Remove(ctx context.Context, userID, productID string) error
}

type LocalStore interface {
	List(ctx context.Context, deviceID string) ([]domain.Favorite, error)
	Add(ctx context.Context, deviceID string, fav domain.Favorite) error
	Remove(ctx context.Context, deviceID, productID string) error
	Clear(ctx context.Context, deviceID string) error
}

type SignInSource interface {
	Subscribe() (<-chan identity.SignIn, func())
}
