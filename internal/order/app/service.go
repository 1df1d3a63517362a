package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danuprasetya/furnistore/internal/order/domain"
)

var ErrNotFound = errors.New("order not found")

type Service struct {
	repo   OrderRepo
	mailer EmailSender
	log    *slog.Logger
}

func NewService(repo OrderRepo, mailer EmailSender, log *slog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, log: log}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if req.UserID == "" {
		return domain.Order{}, fmt.Errorf("user id is required")
	}
	if req.ShippingAmount < 0 {
		return domain.Order{}, fmt.Errorf("shipping amount cannot be negative, got %d", req.ShippingAmount)
	}
	if len(req.Items) == 0 {
		return domain.Order{}, fmt.Errorf("order must have at least one item")
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	var subTotal int64

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("item %d: quantity must be positive, got %d", i, item.Quantity)
		}
		if item.UnitAmount < 0 {
			return domain.Order{}, fmt.Errorf("item %d: unit amount cannot be negative, got %d", i, item.UnitAmount)
		}

		lineTotal := item.UnitAmount * int64(item.Quantity)
		items = append(items, domain.OrderItem{
			ProductID:       item.ProductID,
			Name:            item.Name,
			UnitAmount:      item.UnitAmount,
			Quantity:        item.Quantity,
			LineTotalAmount: lineTotal,
		})
		subTotal += lineTotal
	}

	order := domain.Order{
		UserID:         req.UserID,
		Status:         domain.StatusPaid,
		Currency:       req.Currency,
		SubTotalAmount: subTotal,
		ShippingAmount: req.ShippingAmount,
		TotalAmount:    subTotal + req.ShippingAmount,
		Items:          items,
	}

	created, err := s.repo.CreateOrderTx(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	s.sendConfirmation(ctx, created, req.Email)
	return created, nil
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]domain.Summary, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) Get(ctx context.Context, userID, orderID string) (domain.Order, error) {
	if userID == "" || orderID == "" {
		return domain.Order{}, ErrNotFound
	}
	return s.repo.Get(ctx, userID, orderID)
}

func (s *Service) sendConfirmation(ctx context.Context, order domain.Order, email string) {
	if s.mailer == nil || email == "" {
		return
	}

	subject := fmt.Sprintf("Your order %s is confirmed", order.ID)
	body := fmt.Sprintf(
		"Thanks for your order!\n\nOrder: %s\nItems: %d\nTotal: %d %s\n",
		order.ID, len(order.Items), order.TotalAmount, order.Currency,
	)

	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		s.log.Error("order confirmation mail failed",
			slog.String("order_id", order.ID),
			slog.Any("err", err))
	}
}
