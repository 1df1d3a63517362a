package domain

import "time"

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

type Order struct {
	ID             string
	UserID         string
	Status         string
	Currency       string
	SubTotalAmount int64
	ShippingAmount int64
	TotalAmount    int64
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type OrderItem struct {
	ID              string
	OrderID         string
	ProductID       string
	Name            string
	UnitAmount      int64
	Quantity        int32
	LineTotalAmount int64
}

type CreateOrderRequest struct {
	UserID         string
	Email          string
	Currency       string
	ShippingAmount int64
	Items          []OrderItemRequest
}

type OrderItemRequest struct {
	ProductID  string
	Name       string
	UnitAmount int64
	Quantity   int32
}

// Summary is the order-history projection.
type Summary struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Currency    string    `json:"currency"`
	TotalAmount int64     `json:"total_amount"`
	ItemCount   int32     `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}
