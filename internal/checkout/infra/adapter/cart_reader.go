package adapter

import (
	"context"

	cartapp "github.com/danuprasetya/furnistore/internal/cart/app"
	checkoutapp "github.com/danuprasetya/furnistore/internal/checkout/app"
)

// EngineCartReader feeds checkout from the reconciliation engine's view of
// the active cart (local or remote, per the session in ctx).
type EngineCartReader struct {
	engine *cartapp.Engine
}

func NewEngineCartReader(engine *cartapp.Engine) *EngineCartReader {
	return &EngineCartReader{engine: engine}
}

func (r *EngineCartReader) GetCart(ctx context.Context) ([]checkoutapp.CartItem, error) {
	lines, err := r.engine.Items(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]checkoutapp.CartItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, checkoutapp.CartItem{
			ProductID: l.ProductID,
			Quantity:  int64(l.Quantity),
		})
	}
	return items, nil
}
