package httpapi

import (
	"net/http"
	"time"

	cartapp "github.com/danuprasetya/furnistore/internal/cart/app"
	cartdomain "github.com/danuprasetya/furnistore/internal/cart/domain"
	catalogapp "github.com/danuprasetya/furnistore/internal/catalog/app"
)

type CartHandler struct {
	engine  *cartapp.Engine
	catalog *catalogapp.Service
}

func NewCartHandler(engine *cartapp.Engine, catalog *catalogapp.Service) *CartHandler {
	return &CartHandler{engine: engine, catalog: catalog}
}

type moneyDTO struct {
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

type cartLineDTO struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int32     `json:"quantity"`
	UnitPrice moneyDTO  `json:"unit_price"`
	ImageURL  string    `json:"image_url,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

type cartDTO struct {
	Lines  []cartLineDTO `json:"lines"`
	Items  int32         `json:"items"`
	Amount moneyDTO      `json:"amount"`
}

func toCartDTO(lines cartdomain.Lines) cartDTO {
	out := cartDTO{Lines: make([]cartLineDTO, 0, len(lines))}
	for _, l := range lines {
		out.Lines = append(out.Lines, cartLineDTO{
			ProductID: l.ProductID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			UnitPrice: moneyDTO{Currency: l.Product.UnitPrice.Currency, Amount: l.Product.UnitPrice.Amount},
			ImageURL:  l.Product.ImageURL,
			AddedAt:   l.AddedAt,
		})
	}
	t := lines.Totals()
	out.Items = t.Items
	out.Amount = moneyDTO{Currency: t.Amount.Currency, Amount: t.Amount.Amount}
	return out
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	lines, err := h.engine.Items(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(lines))
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "INVALID_ARGUMENT"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeErr(w, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeErr(w, err)
		return
	}

	lines, err := h.engine.Add(r.Context(), cartdomain.ProductSnapshot{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		UnitPrice:   cartdomain.Money{Currency: product.Price.Currency, Amount: product.Price.Amount},
		ImageURL:    product.ImageURL,
		Category:    product.Category,
		Stock:       product.Stock,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(lines))
}

type setQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "INVALID_ARGUMENT"})
		return
	}

	lines, err := h.engine.SetQuantity(r.Context(), r.PathValue("productID"), req.Quantity)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(lines))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lines, err := h.engine.Remove(r.Context(), r.PathValue("productID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(lines))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	lines, err := h.engine.Clear(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(lines))
}
