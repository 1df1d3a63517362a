package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/danuprasetya/furnistore/internal/order/domain"
)

type fakeRepo struct {
	created *domain.Order
}

func (f *fakeRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.ID = "ord-1"
	f.created = &order
	return order, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Summary, error) {
	return nil, nil
}

func (f *fakeRepo) Get(ctx context.Context, userID, orderID string) (domain.Order, error) {
	return domain.Order{}, ErrNotFound
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, to)
	return f.err
}

func validRequest() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		UserID:         "u1",
		Email:          "ana@example.com",
		Currency:       "USD",
		ShippingAmount: 900,
		Items: []domain.OrderItemRequest{
			{ProductID: "p1", Name: "Teak Desk", UnitAmount: 35000, Quantity: 2},
			{ProductID: "p2", Name: "Desk Lamp", UnitAmount: 4500, Quantity: 1},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("computes totals", func(t *testing.T) {
		repo := &fakeRepo{}
		mailer := &fakeMailer{}
		svc := NewService(repo, mailer, slog.Default())

		order, err := svc.CreateOrder(context.Background(), validRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.SubTotalAmount != 2*35000+4500 {
			t.Fatalf("unexpected subtotal: %d", order.SubTotalAmount)
		}
		if order.TotalAmount != order.SubTotalAmount+900 {
			t.Fatalf("unexpected total: %d", order.TotalAmount)
		}
		if len(mailer.sent) != 1 || mailer.sent[0] != "ana@example.com" {
			t.Fatalf("expected confirmation mail, got %v", mailer.sent)
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, nil, slog.Default())
		req := validRequest()
		req.Items[0].Quantity = 0
		if _, err := svc.CreateOrder(context.Background(), req); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("negative shipping rejected", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, nil, slog.Default())
		req := validRequest()
		req.ShippingAmount = -1
		if _, err := svc.CreateOrder(context.Background(), req); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty items rejected", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, nil, slog.Default())
		req := validRequest()
		req.Items = nil
		if _, err := svc.CreateOrder(context.Background(), req); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("mail failure does not fail the order", func(t *testing.T) {
		mailer := &fakeMailer{err: context.DeadlineExceeded}
		svc := NewService(&fakeRepo{}, mailer, slog.Default())
		if _, err := svc.CreateOrder(context.Background(), validRequest()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
