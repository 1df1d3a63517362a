package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/danuprasetya/furnistore/internal/checkout/domain"
)

type CartReader interface {
	GetCart(ctx context.Context) ([]CartItem, error)
}

type CartItem struct {
	ProductID string
	Quantity  int64
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID       string
	Name     string
	Currency string
	Amount   int64
}

// PaymentGateway relays a quote to the external checkout API. One request,
// one response; retries and callback verification are the provider's problem.
type PaymentGateway interface {
	CreateSession(ctx context.Context, q domain.Quote, payer domain.Payer) (domain.PaymentSession, error)
}

type Service struct {
	Cart    CartReader
	Catalog CatalogReader
	Gateway PaymentGateway

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, gateway PaymentGateway, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		Gateway:       gateway,
		maxConcurrent: maxConcurrent,
	}
}

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidPayer = errors.New("payer name and email are required")
)

// Quote prices the active cart against the catalog. Unit prices come from
// the catalog at quote time, not from the cart's cached snapshots.
func (s *Service) Quote(ctx context.Context) (domain.Quote, error) {
	items, err := s.Cart.GetCart(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", it.Quantity)
			}

			product, err := s.Catalog.GetProduct(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
			}

			lineTotal := product.Amount * it.Quantity
			lines[idx] = domain.QuoteLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				UnitPrice: domain.Money{
					Currency: product.Currency,
					Amount:   product.Amount,
				},
				LineTotal: domain.Money{
					Currency: product.Currency,
					Amount:   lineTotal,
				},
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	var totalAmount int64
	for _, line := range lines {
		totalAmount += line.LineTotal.Amount
	}

	return domain.Quote{
		Lines: lines,
		Total: domain.Money{
			Currency: lines[0].LineTotal.Currency,
			Amount:   totalAmount,
		},
	}, nil
}

// StartPayment quotes the cart and opens a hosted checkout session with the
// payment provider, returning the redirect target.
func (s *Service) StartPayment(ctx context.Context, payer domain.Payer) (domain.PaymentSession, error) {
	if payer.Name == "" || payer.Email == "" {
		return domain.PaymentSession{}, ErrInvalidPayer
	}

	quote, err := s.Quote(ctx)
	if err != nil {
		return domain.PaymentSession{}, err
	}

	session, err := s.Gateway.CreateSession(ctx, quote, payer)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("create payment session: %w", err)
	}
	return session, nil
}
