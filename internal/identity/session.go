package identity

import "context"

// Session is the identity state observed on every request. DeviceID is a
// stable anonymous identifier minted by the HTTP layer; UserID is set only
// after the bearer token has been verified.
type Session struct {
	UserID   string
	DeviceID string
	Email    string
}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to ctx, or the zero session when
// the request never went through the auth middleware.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(ctxKey{}).(Session)
	return s
}
