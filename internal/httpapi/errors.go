package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	cartapp "github.com/danuprasetya/furnistore/internal/cart/app"
	catalogapp "github.com/danuprasetya/furnistore/internal/catalog/app"
	checkoutapp "github.com/danuprasetya/furnistore/internal/checkout/app"
	orderapp "github.com/danuprasetya/furnistore/internal/order/app"
)

// statusFor maps domain errors onto HTTP status and a stable machine-readable
// code. Unknown errors become 500 INTERNAL.
func statusFor(err error) (int, string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, checkoutapp.ErrInvalidPayer),
		errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, cartapp.ErrNoIdentity):
		return http.StatusUnauthorized, "UNAUTHENTICATED"
	case errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, orderapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
