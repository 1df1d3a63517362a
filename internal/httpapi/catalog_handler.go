package httpapi

import (
	"net/http"
	"strconv"
	"time"

	catalogapp "github.com/danuprasetya/furnistore/internal/catalog/app"
	"github.com/danuprasetya/furnistore/internal/catalog/domain"
)

type CatalogHandler struct {
	svc *catalogapp.Service
}

func NewCatalogHandler(svc *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type productDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       moneyDTO  `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category,omitempty"`
	Stock       int32     `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductDTO(p domain.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       moneyDTO{Currency: p.Price.Currency, Amount: p.Price.Amount},
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, next, err := h.svc.ListProducts(r.Context(), q.Get("q"), q.Get("category"), limit, q.Get("cursor"))
	if err != nil {
		writeErr(w, err)
		return
	}

	out := struct {
		Products   []productDTO `json:"products"`
		NextCursor string       `json:"next_cursor,omitempty"`
	}{Products: make([]productDTO, 0, len(products)), NextCursor: next}
	for _, p := range products {
		out.Products = append(out.Products, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Category    string `json:"category"`
	Stock       int32  `json:"stock" validate:"gte=0"`
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "INVALID_ARGUMENT"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeErr(w, err)
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), catalogapp.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
		Amount:      req.Amount,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Stock:       req.Stock,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(product))
}
