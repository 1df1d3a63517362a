package httpapi

import (
	"net/http"
	"time"

	catalogapp "github.com/danuprasetya/furnistore/internal/catalog/app"
	favapp "github.com/danuprasetya/furnistore/internal/favorites/app"
	favdomain "github.com/danuprasetya/furnistore/internal/favorites/domain"
)

type FavoritesHandler struct {
	svc     *favapp.Service
	catalog *catalogapp.Service
}

func NewFavoritesHandler(svc *favapp.Service, catalog *catalogapp.Service) *FavoritesHandler {
	return &FavoritesHandler{svc: svc, catalog: catalog}
}

type favoriteDTO struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     moneyDTO  `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

func toFavoriteDTOs(favs []favdomain.Favorite) []favoriteDTO {
	out := make([]favoriteDTO, 0, len(favs))
	for _, f := range favs {
		out = append(out, favoriteDTO{
			ProductID: f.ProductID,
			Name:      f.Name,
			Price:     moneyDTO{Currency: f.Currency, Amount: f.PriceAmount},
			ImageURL:  f.ImageURL,
			AddedAt:   f.AddedAt,
		})
	}
	return out
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	favs, err := h.svc.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFavoriteDTOs(favs))
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), r.PathValue("productID"))
	if err != nil {
		writeErr(w, err)
		return
	}

	favs, err := h.svc.Add(r.Context(), favdomain.Favorite{
		ProductID:   product.ID,
		Name:        product.Name,
		PriceAmount: product.Price.Amount,
		Currency:    product.Price.Currency,
		ImageURL:    product.ImageURL,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFavoriteDTOs(favs))
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	favs, err := h.svc.Remove(r.Context(), r.PathValue("productID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFavoriteDTOs(favs))
}
