package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danuprasetya/furnistore/internal/checkout/domain"
)

func quote() domain.Quote {
	return domain.Quote{
		Lines: []domain.QuoteLine{{
			ProductID: "A",
			Name:      "Teak Desk",
			Quantity:  2,
			UnitPrice: domain.Money{Currency: "USD", Amount: 35000},
			LineTotal: domain.Money{Currency: "USD", Amount: 70000},
		}},
		Total: domain.Money{Currency: "USD", Amount: 70000},
	}
}

func TestCreateSession(t *testing.T) {
	t.Run("relays line items and returns redirect", func(t *testing.T) {
		var got sessionRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			require.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			json.NewEncoder(w).Encode(sessionResponse{ID: "cs_1", URL: "https://pay.example.com/cs_1"})
		}))
		defer srv.Close()

		c := NewClient(Config{BaseURL: srv.URL, APIKey: "sk_test", SuccessURL: "https://shop/success"})
		session, err := c.CreateSession(context.Background(), quote(), domain.Payer{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)
		require.Equal(t, "https://pay.example.com/cs_1", session.URL)

		require.Len(t, got.LineItems, 1)
		require.EqualValues(t, 2, got.LineItems[0].Quantity)
		require.EqualValues(t, 35000, got.LineItems[0].UnitAmount)
		require.Equal(t, "ana@example.com", got.Payer.Email)
		require.Equal(t, "https://shop/success", got.SuccessURL)
	})

	t.Run("provider error surfaces status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"card_declined"}`, http.StatusPaymentRequired)
		}))
		defer srv.Close()

		c := NewClient(Config{BaseURL: srv.URL})
		_, err := c.CreateSession(context.Background(), quote(), domain.Payer{Name: "Ana", Email: "a@b.c"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "402")
		require.Contains(t, err.Error(), "card_declined")
	})

	t.Run("missing redirect url is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(sessionResponse{ID: "cs_2"})
		}))
		defer srv.Close()

		c := NewClient(Config{BaseURL: srv.URL})
		_, err := c.CreateSession(context.Background(), quote(), domain.Payer{Name: "Ana", Email: "a@b.c"})
		require.Error(t, err)
	})
}
