package app

import (
	"context"
	"errors"
	"testing"

	"github.com/danuprasetya/furnistore/internal/checkout/domain"
)

type fakeCart struct {
	items []CartItem
	err   error
}

func (f fakeCart) GetCart(ctx context.Context) ([]CartItem, error) {
	return f.items, f.err
}

type fakeCatalog struct {
	products map[string]Product
}

func (f fakeCatalog) GetProduct(ctx context.Context, productID string) (Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return Product{}, errors.New("product not found")
	}
	return p, nil
}

type fakeGateway struct {
	gotQuote domain.Quote
	gotPayer domain.Payer
	session  domain.PaymentSession
	err      error
}

func (f *fakeGateway) CreateSession(ctx context.Context, q domain.Quote, payer domain.Payer) (domain.PaymentSession, error) {
	f.gotQuote = q
	f.gotPayer = payer
	return f.session, f.err
}

func catalogWith() fakeCatalog {
	return fakeCatalog{products: map[string]Product{
		"A": {ID: "A", Name: "Teak Desk", Currency: "USD", Amount: 35000},
		"B": {ID: "B", Name: "Desk Lamp", Currency: "USD", Amount: 4500},
	}}
}

func TestQuote(t *testing.T) {
	t.Run("sums line totals", func(t *testing.T) {
		svc := NewService(fakeCart{items: []CartItem{
			{ProductID: "A", Quantity: 2},
			{ProductID: "B", Quantity: 1},
		}}, catalogWith(), nil, 4)

		q, err := svc.Quote(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(q.Lines))
		}
		if q.Total.Amount != 2*35000+4500 {
			t.Fatalf("unexpected total: %d", q.Total.Amount)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		svc := NewService(fakeCart{}, catalogWith(), nil, 4)
		_, err := svc.Quote(context.Background())
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("unknown product fails the quote", func(t *testing.T) {
		svc := NewService(fakeCart{items: []CartItem{{ProductID: "ZZZ", Quantity: 1}}}, catalogWith(), nil, 4)
		if _, err := svc.Quote(context.Background()); err == nil {
			t.Fatal("expected error for unknown product")
		}
	})
}

func TestStartPayment(t *testing.T) {
	t.Run("relays quote and payer, returns redirect", func(t *testing.T) {
		gw := &fakeGateway{session: domain.PaymentSession{ID: "cs_1", URL: "https://pay.example.com/cs_1"}}
		svc := NewService(fakeCart{items: []CartItem{{ProductID: "A", Quantity: 1}}}, catalogWith(), gw, 4)

		session, err := svc.StartPayment(context.Background(), domain.Payer{Name: "Ana", Email: "ana@example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.URL != "https://pay.example.com/cs_1" {
			t.Fatalf("unexpected redirect: %q", session.URL)
		}
		if gw.gotPayer.Email != "ana@example.com" {
			t.Fatalf("payer not relayed: %+v", gw.gotPayer)
		}
		if gw.gotQuote.Total.Amount != 35000 {
			t.Fatalf("quote not relayed: %+v", gw.gotQuote)
		}
	})

	t.Run("missing payer", func(t *testing.T) {
		svc := NewService(fakeCart{items: []CartItem{{ProductID: "A", Quantity: 1}}}, catalogWith(), &fakeGateway{}, 4)
		_, err := svc.StartPayment(context.Background(), domain.Payer{})
		if !errors.Is(err, ErrInvalidPayer) {
			t.Fatalf("expected ErrInvalidPayer, got %v", err)
		}
	})

	t.Run("empty cart does not hit the gateway", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewService(fakeCart{}, catalogWith(), gw, 4)
		_, err := svc.StartPayment(context.Background(), domain.Payer{Name: "Ana", Email: "ana@example.com"})
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})
}
