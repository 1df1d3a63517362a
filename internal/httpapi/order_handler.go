package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	cartapp "github.com/danuprasetya/furnistore/internal/cart/app"
	"github.com/danuprasetya/furnistore/internal/identity"
	orderapp "github.com/danuprasetya/furnistore/internal/order/app"
	orderdomain "github.com/danuprasetya/furnistore/internal/order/domain"
)

type OrderHandler struct {
	svc  *orderapp.Service
	cart *cartapp.Engine
	log  *slog.Logger
}

func NewOrderHandler(svc *orderapp.Service, cart *cartapp.Engine, log *slog.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, cart: cart, log: log}
}

func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	sess := identity.FromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, err := h.svc.History(r.Context(), sess.UserID, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	if orders == nil {
		orders = []orderdomain.Summary{}
	}
	writeJSON(w, http.StatusOK, orders)
}

type orderItemDTO struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	UnitPrice moneyDTO `json:"unit_price"`
	Quantity  int32    `json:"quantity"`
	LineTotal moneyDTO `json:"line_total"`
}

type orderDTO struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	SubTotal moneyDTO       `json:"sub_total"`
	Shipping moneyDTO       `json:"shipping"`
	Total    moneyDTO       `json:"total"`
	Items    []orderItemDTO `json:"items"`
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := identity.FromContext(r.Context())

	order, err := h.svc.Get(r.Context(), sess.UserID, r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}

	out := orderDTO{
		ID:       order.ID,
		Status:   order.Status,
		SubTotal: moneyDTO{Currency: order.Currency, Amount: order.SubTotalAmount},
		Shipping: moneyDTO{Currency: order.Currency, Amount: order.ShippingAmount},
		Total:    moneyDTO{Currency: order.Currency, Amount: order.TotalAmount},
		Items:    make([]orderItemDTO, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		out.Items = append(out.Items, orderItemDTO{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: moneyDTO{Currency: order.Currency, Amount: it.UnitAmount},
			Quantity:  it.Quantity,
			LineTotal: moneyDTO{Currency: order.Currency, Amount: it.LineTotalAmount},
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type paymentWebhookRequest struct {
	SessionID      string `json:"session_id" validate:"required"`
	Status         string `json:"status" validate:"required"`
	UserID         string `json:"user_id" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Currency       string `json:"currency" validate:"required,len=3"`
	ShippingAmount int64  `json:"shipping_amount" validate:"gte=0"`
	Items          []struct {
		ProductID  string `json:"product_id" validate:"required"`
		Name       string `json:"name"`
		UnitAmount int64  `json:"unit_amount" validate:"gte=0"`
		Quantity   int32  `json:"quantity" validate:"gt=0"`
	} `json:"items" validate:"required,min=1,dive"`
}

// PaymentWebhook records a completed payment as an order and empties the
// buyer's server cart. Non-paid notifications are acknowledged and dropped.
func (h *OrderHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var req paymentWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "INVALID_ARGUMENT"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeErr(w, err)
		return
	}

	if req.Status != "paid" {
		h.log.Info("payment webhook ignored",
			slog.String("session_id", req.SessionID),
			slog.String("status", req.Status))
		writeJSON(w, http.StatusOK, struct {
			Received bool `json:"received"`
		}{true})
		return
	}

	items := make([]orderdomain.OrderItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orderdomain.OrderItemRequest{
			ProductID:  it.ProductID,
			Name:       it.Name,
			UnitAmount: it.UnitAmount,
			Quantity:   it.Quantity,
		})
	}

	order, err := h.svc.CreateOrder(r.Context(), orderdomain.CreateOrderRequest{
		UserID:         req.UserID,
		Email:          req.Email,
		Currency:       req.Currency,
		ShippingAmount: req.ShippingAmount,
		Items:          items,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	// The webhook arrives on the provider's connection, not the buyer's, so
	// the session for the cart clear is built from the payload.
	buyerCtx := identity.WithSession(r.Context(), identity.Session{UserID: req.UserID})
	if _, err := h.cart.Clear(buyerCtx); err != nil {
		h.log.Error("post-payment cart clear failed",
			slog.String("user_id", req.UserID),
			slog.Any("err", err))
	}

	writeJSON(w, http.StatusCreated, struct {
		OrderID string `json:"order_id"`
	}{order.ID})
}
