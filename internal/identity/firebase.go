package identity

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// TokenVerifier turns a bearer token into a verified session identity.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (Session, error)
}

// FirebaseVerifier verifies Firebase ID tokens issued by the hosted auth
// provider the storefront delegates sign-in to.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (Session, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Session{}, fmt.Errorf("verify id token: %w", err)
	}

	uid := strings.TrimSpace(token.UID)
	if uid == "" {
		return Session{}, fmt.Errorf("verify id token: empty uid")
	}

	email := ""
	if raw, ok := token.Claims["email"]; ok {
		if e, ok := raw.(string); ok {
			email = strings.TrimSpace(e)
		}
	}

	return Session{UserID: uid, Email: email}, nil
}
