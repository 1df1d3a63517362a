package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cartapp "github.com/danuprasetya/furnistore/internal/cart/app"
	catalogapp "github.com/danuprasetya/furnistore/internal/catalog/app"
	checkoutapp "github.com/danuprasetya/furnistore/internal/checkout/app"
	favapp "github.com/danuprasetya/furnistore/internal/favorites/app"
	"github.com/danuprasetya/furnistore/internal/identity"
	orderapp "github.com/danuprasetya/furnistore/internal/order/app"
)

var validate = validator.New()

// Deps collects everything the router mounts, injected from main.
type Deps struct {
	Cart     *cartapp.Engine
	Catalog  *catalogapp.Service
	Favs     *favapp.Service
	Checkout *checkoutapp.Service
	Orders   *orderapp.Service

	Verifier identity.TokenVerifier
	Events   *identity.Broadcaster
	DB       *sql.DB
	Log      *slog.Logger
}

func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "database unreachable", Code: "UNAVAILABLE"})
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	catalog := NewCatalogHandler(deps.Catalog)
	mux.HandleFunc("GET /products", catalog.List)
	mux.HandleFunc("GET /products/{id}", catalog.Get)
	mux.HandleFunc("POST /products", catalog.Create)

	cart := NewCartHandler(deps.Cart, deps.Catalog)
	mux.HandleFunc("GET /cart", cart.Get)
	mux.HandleFunc("POST /cart/items", cart.AddItem)
	mux.HandleFunc("PUT /cart/items/{productID}", cart.SetQuantity)
	mux.HandleFunc("DELETE /cart/items/{productID}", cart.RemoveItem)
	mux.HandleFunc("DELETE /cart", cart.Clear)

	favs := NewFavoritesHandler(deps.Favs, deps.Catalog)
	mux.HandleFunc("GET /favorites", favs.List)
	mux.HandleFunc("PUT /favorites/{productID}", favs.Add)
	mux.HandleFunc("DELETE /favorites/{productID}", favs.Remove)

	checkout := NewCheckoutHandler(deps.Checkout)
	mux.HandleFunc("GET /checkout/quote", checkout.Quote)
	mux.HandleFunc("POST /checkout/session", checkout.StartPayment)

	orders := NewOrderHandler(deps.Orders, deps.Cart, deps.Log)
	mux.Handle("GET /orders", RequireAuth(http.HandlerFunc(orders.History)))
	mux.Handle("GET /orders/{id}", RequireAuth(http.HandlerFunc(orders.Get)))
	mux.HandleFunc("POST /webhooks/payment", orders.PaymentWebhook)

	auth := NewAuthHandler(deps.Events)
	mux.Handle("POST /auth/signin", RequireAuth(http.HandlerFunc(auth.SignIn)))

	var handler http.Handler = mux
	handler = Identity(deps.Verifier, deps.Log)(handler)
	handler = AccessLog(deps.Log)(handler)
	handler = Recover(deps.Log)(handler)
	return handler
}
