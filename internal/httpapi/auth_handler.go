package httpapi

import (
	"net/http"

	"github.com/danuprasetya/furnistore/internal/identity"
)

type AuthHandler struct {
	events *identity.Broadcaster
}

func NewAuthHandler(events *identity.Broadcaster) *AuthHandler {
	return &AuthHandler{events: events}
}

// SignIn announces a completed login so the cart and favorites watchers can
// drain the device's local state into the user's account. Requires a
// verified session; the response is immediate, the merge is asynchronous.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	sess := identity.FromContext(r.Context())

	h.events.Publish(identity.SignIn{
		UserID:   sess.UserID,
		DeviceID: sess.DeviceID,
		Email:    sess.Email,
	})

	writeJSON(w, http.StatusAccepted, struct {
		UserID   string `json:"user_id"`
		DeviceID string `json:"device_id"`
	}{UserID: sess.UserID, DeviceID: sess.DeviceID})
}
