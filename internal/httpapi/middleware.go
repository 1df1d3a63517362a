package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danuprasetya/furnistore/internal/identity"
)

const deviceHeader = "X-Device-Id"

// Identity resolves the caller's session and puts it on the request context.
// A valid bearer token yields an authenticated session; otherwise the device
// ID header identifies the anonymous shopper. Requests without a device ID
// get one minted and echoed back so the client can persist it.
func Identity(verifier identity.TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := strings.TrimSpace(r.Header.Get(deviceHeader))
			if deviceID == "" {
				deviceID = uuid.NewString()
			}
			w.Header().Set(deviceHeader, deviceID)

			sess := identity.Session{DeviceID: deviceID}

			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") && verifier != nil {
				token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
				verified, err := verifier.Verify(r.Context(), token)
				if err != nil {
					writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token", Code: "UNAUTHENTICATED"})
					return
				}
				sess.UserID = verified.UserID
				sess.Email = verified.Email
			}
			sess.DeviceID = deviceID

			next.ServeHTTP(w, r.WithContext(identity.WithSession(r.Context(), sess)))
		})
	}
}

// RequireAuth rejects requests whose session has no verified user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !identity.FromContext(r.Context()).Authenticated() {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "sign in required", Code: "UNAUTHENTICATED"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Recover turns handler panics into 500s instead of dropped connections.
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("handler panic",
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec))
					writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: "INTERNAL"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog logs one line per request.
func AccessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("took", time.Since(start)))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
