package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danuprasetya/furnistore/internal/favorites/domain"
	"github.com/danuprasetya/furnistore/internal/identity"
)

var ErrNoIdentity = errors.New("favorites: request has no session or device identity")

// Service routes favorites to the remote rows for signed-in users and to the
// device store otherwise, and folds the device list into the user's list on
// sign-in. Favorites have no quantities, so mutations are plain
// write-then-read with no optimistic machinery.
type Service struct {
	remote RemoteStore
	local  LocalStore
	log    *slog.Logger
}

func NewService(remote RemoteStore, local LocalStore, log *slog.Logger) *Service {
	return &Service{remote: remote, local: local, log: log}
}

func (s *Service) List(ctx context.Context) ([]domain.Favorite, error) {
	sess := identity.FromContext(ctx)

	if sess.Authenticated() {
		return s.remote.List(ctx, sess.UserID)
	}
	if sess.DeviceID == "" {
		return nil, ErrNoIdentity
	}
	return s.local.List(ctx, sess.DeviceID)
}

func (s *Service) Add(ctx context.Context, fav domain.Favorite) ([]domain.Favorite, error) {
	sess := identity.FromContext(ctx)

	if sess.Authenticated() {
		if err := s.remote.Add(ctx, sess.UserID, fav); err != nil {
			return nil, err
		}
		return s.remote.List(ctx, sess.UserID)
	}

	if sess.DeviceID == "" {
		return nil, ErrNoIdentity
	}
	if err := s.local.Add(ctx, sess.DeviceID, fav); err != nil {
		return nil, err
	}
	return s.local.List(ctx, sess.DeviceID)
}

func (s *Service) Remove(ctx context.Context, productID string) ([]domain.Favorite, error) {
	sess := identity.FromContext(ctx)

	if sess.Authenticated() {
		if err := s.remote.Remove(ctx, sess.UserID, productID); err != nil {
			return nil, err
		}
		return s.remote.List(ctx, sess.UserID)
	}

	if sess.DeviceID == "" {
		return nil, ErrNoIdentity
	}
	if err := s.local.Remove(ctx, sess.DeviceID, productID); err != nil {
		return nil, err
	}
	return s.local.List(ctx, sess.DeviceID)
}

// MergeOnLogin folds the device's favorites into the user's. The remote add
// is idempotent, so products saved on both sides dedupe; failures are
// per-line best-effort like the cart drain.
func (s *Service) MergeOnLogin(ctx context.Context, ev identity.SignIn) error {
	if ev.UserID == "" || ev.DeviceID == "" {
		return ErrNoIdentity
	}

	favs, err := s.local.List(ctx, ev.DeviceID)
	if err != nil {
		return err
	}

	for _, fav := range favs {
		if err := s.remote.Add(ctx, ev.UserID, fav); err != nil {
			s.log.Error("favorites merge: write remote row",
				slog.String("user_id", ev.UserID),
				slog.String("product_id", fav.ProductID),
				slog.Any("err", err))
		}
	}

	if err := s.local.Clear(ctx, ev.DeviceID); err != nil {
		s.log.Error("favorites merge: clear local rows",
			slog.String("device_id", ev.DeviceID),
			slog.Any("err", err))
	}
	return nil
}

func (s *Service) Watch(ctx context.Context, src SignInSource) {
	ch, cancel := src.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := s.MergeOnLogin(ctx, ev); err != nil {
				s.log.Error("favorites merge on login failed", slog.Any("err", err))
			}
		}
	}
}
