package httpapi

import (
	"net/http"

	checkoutapp "github.com/danuprasetya/furnistore/internal/checkout/app"
	checkoutdomain "github.com/danuprasetya/furnistore/internal/checkout/domain"
)

type CheckoutHandler struct {
	svc *checkoutapp.Service
}

func NewCheckoutHandler(svc *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type quoteLineDTO struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Quantity  int64    `json:"quantity"`
	UnitPrice moneyDTO `json:"unit_price"`
	LineTotal moneyDTO `json:"line_total"`
}

type quoteDTO struct {
	Lines []quoteLineDTO `json:"lines"`
	Total moneyDTO       `json:"total"`
}

func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.svc.Quote(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}

	out := quoteDTO{
		Lines: make([]quoteLineDTO, 0, len(quote.Lines)),
		Total: moneyDTO{Currency: quote.Total.Currency, Amount: quote.Total.Amount},
	}
	for _, l := range quote.Lines {
		out.Lines = append(out.Lines, quoteLineDTO{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: moneyDTO{Currency: l.UnitPrice.Currency, Amount: l.UnitPrice.Amount},
			LineTotal: moneyDTO{Currency: l.LineTotal.Currency, Amount: l.LineTotal.Amount},
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type startPaymentRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (h *CheckoutHandler) StartPayment(w http.ResponseWriter, r *http.Request) {
	var req startPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "INVALID_ARGUMENT"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeErr(w, err)
		return
	}

	session, err := h.svc.StartPayment(r.Context(), checkoutdomain.Payer{Name: req.Name, Email: req.Email})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		SessionID   string `json:"session_id"`
		RedirectURL string `json:"redirect_url"`
	}{SessionID: session.ID, RedirectURL: session.URL})
}
