package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danuprasetya/furnistore/internal/cart/domain"
	"github.com/danuprasetya/furnistore/internal/identity"
)

// ErrNoIdentity is returned when a request carries neither a verified user
// nor a device identifier, so no cart can be addressed.
var ErrNoIdentity = errors.New("cart: request has no session or device identity")

// Engine presents one cart view and one mutation API over two stores. The
// active store is picked per call from the session in the context: a verified
// user routes to the remote rows, everything else to the local device store.
//
// Remote mutations are optimistic: the cached view is patched before the
// write, rolled back verbatim when the write fails, and replaced by a fresh
// server read when it succeeds. Local mutations write through; the local
// store is its own source of truth.
type Engine struct {
	remote RemoteStore
	local  LocalStore
	log    *slog.Logger
	now    func() time.Time

	// mu serializes engine operations, mirroring the single event loop the
	// reconciliation protocol was designed for. views caches the remote
	// projection per user; the local store is always read directly.
	mu    sync.Mutex
	views map[string]domain.Lines
}

func NewEngine(remote RemoteStore, local LocalStore, log *slog.Logger) *Engine {
	return &Engine{
		remote: remote,
		local:  local,
		log:    log,
		now:    time.Now,
		views:  make(map[string]domain.Lines),
	}
}

// Add puts one more unit of p in the active cart: an existing line is
// incremented, otherwise a line with quantity 1 is created.
//
// In remote mode the written quantity is recomputed from a fresh server read
// immediately before the write, not from the optimistic view, so rapid
// repeated adds do not compound a stale client value. Two adds in flight at
// the same instant can still read the same server quantity; that limitation
// is inherited from the original protocol and deliberately kept.
func (e *Engine) Add(ctx context.Context, p domain.ProductSnapshot) (domain.Lines, error) {
	sess := identity.FromContext(ctx)

	if sess.Authenticated() {
		return e.remoteMutate(ctx, sess.UserID, "add",
			func(view domain.Lines) domain.Lines {
				return view.Add(p, e.now())
			},
			func(ctx context.Context) error {
				current, ok, err := e.remote.Get(ctx, sess.UserID, p.ID)
				if err != nil {
					return err
				}
				qty := int32(1)
				if ok {
					qty = current.Quantity + 1
				}
				return e.remote.Upsert(ctx, sess.UserID, domain.CartLine{
					ProductID: p.ID,
					Quantity:  qty,
					Product:   p,
					AddedAt:   e.now(),
				})
			})
	}

	return e.localMutate(ctx, sess.DeviceID, "add", func(ctx context.Context) error {
		current, ok, err := e.local.Get(ctx, sess.DeviceID, p.ID)
		if err != nil {
			return err
		}
		line := domain.CartLine{ProductID: p.ID, Quantity: 1, Product: p, AddedAt: e.now()}
		if ok {
			line.Quantity = current.Quantity + 1
			line.AddedAt = current.AddedAt
		}
		return e.local.Put(ctx, sess.DeviceID, line)
	})
}

// SetQuantity sets a line to an absolute quantity. qty <= 0 is defined as
// removal, never an error; setting a product that is not in the cart is a
// no-op.
func (e *Engine) SetQuantity(ctx context.Context, productID string, qty int32) (domain.Lines, error) {
	if qty <= 0 {
		return e.Remove(ctx, productID)
	}

	sess := identity.FromContext(ctx)

	if sess.Authenticated() {
		return e.remoteMutate(ctx, sess.UserID, "set_quantity",
			func(view domain.Lines) domain.Lines {
				return view.SetQuantity(productID, qty)
			},
			func(ctx context.Context) error {
				return e.remote.SetQuantity(ctx, sess.UserID, productID, qty)
			})
	}

	return e.localMutate(ctx, sess.DeviceID, "set_quantity", func(ctx context.Context) error {
		current, ok, err := e.local.Get(ctx, sess.DeviceID, productID)
		if err != nil || !ok {
			return err
		}
		current.Quantity = qty
		return e.local.Put(ctx, sess.DeviceID, current)
	})
}

// Remove deletes the line for productID; an absent line is a no-op.
func (e *Engine) Remove(ctx context.Context, productID string) (domain.Lines, error) {
	sess := identity.FromContext(ctx)

	if sess.Authenticated() {
		return e.remoteMutate(ctx, sess.UserID, "remove",
			func(view domain.Lines) domain.Lines {
				return view.Remove(productID)
			},
			func(ctx context.Context) error {
				return e.remote.Remove(ctx, sess.UserID, productID)
			})
	}

	return e.localMutate(ctx, sess.DeviceID, "remove", func(ctx context.Context) error {
		return e.local.Remove(ctx, sess.DeviceID, productID)
	})
}

// Clear deletes every line in the active cart.
func (e *Engine) Clear(ctx context.Context) (domain.Lines, error) {
	sess := identity.FromContext(ctx)

	if sess.Authenticated() {
		return e.remoteMutate(ctx, sess.UserID, "clear",
			func(domain.Lines) domain.Lines { return domain.Lines{} },
			func(ctx context.Context) error {
				return e.remote.Clear(ctx, sess.UserID)
			})
	}

	return e.localMutate(ctx, sess.DeviceID, "clear", func(ctx context.Context) error {
		return e.local.Clear(ctx, sess.DeviceID)
	})
}

// Items returns the active cart's lines. Pure projection; never writes.
func (e *Engine) Items(ctx context.Context) (domain.Lines, error) {
	sess := identity.FromContext(ctx)

	if sess.Authenticated() {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.loadRemoteLocked(ctx, sess.UserID)
	}

	if sess.DeviceID == "" {
		return nil, ErrNoIdentity
	}
	return e.local.List(ctx, sess.DeviceID)
}

// Totals derives item count and total price from Items.
func (e *Engine) Totals(ctx context.Context) (domain.Totals, error) {
	lines, err := e.Items(ctx)
	if err != nil {
		return domain.Totals{}, err
	}
	return lines.Totals(), nil
}

// MergeOnLogin drains the device's local cart into the user's remote cart:
// quantities for products present on both sides are summed, other lines are
// created remotely with the local quantity. The drain is best-effort — a
// line that fails to merge is logged and skipped, the rest continue — and
// the local cart is cleared in its entirety afterwards.
func (e *Engine) MergeOnLogin(ctx context.Context, ev identity.SignIn) error {
	if ev.UserID == "" || ev.DeviceID == "" {
		return ErrNoIdentity
	}

	lines, err := e.local.List(ctx, ev.DeviceID)
	if err != nil {
		return err
	}

	merged := 0
	for _, line := range lines {
		existing, ok, err := e.remote.Get(ctx, ev.UserID, line.ProductID)
		if err != nil {
			mergeLinesTotal.WithLabelValues("error").Inc()
			e.log.Error("cart merge: read remote line",
				slog.String("user_id", ev.UserID),
				slog.String("product_id", line.ProductID),
				slog.Any("err", err))
			continue
		}

		qty := line.Quantity
		if ok {
			qty += existing.Quantity
		}

		line.Quantity = qty
		if err := e.remote.Upsert(ctx, ev.UserID, line); err != nil {
			mergeLinesTotal.WithLabelValues("error").Inc()
			e.log.Error("cart merge: write remote line",
				slog.String("user_id", ev.UserID),
				slog.String("product_id", line.ProductID),
				slog.Any("err", err))
			continue
		}

		mergeLinesTotal.WithLabelValues("ok").Inc()
		merged++
	}

	if err := e.local.Clear(ctx, ev.DeviceID); err != nil {
		e.log.Error("cart merge: clear local cart",
			slog.String("device_id", ev.DeviceID),
			slog.Any("err", err))
	}

	e.mu.Lock()
	delete(e.views, ev.UserID)
	e.mu.Unlock()

	e.log.Info("cart merged on login",
		slog.String("user_id", ev.UserID),
		slog.Int("local_lines", len(lines)),
		slog.Int("merged", merged))
	return nil
}

// Watch runs MergeOnLogin for every sign-in event until ctx is cancelled.
// Events are edge-triggered by the auth layer, so each transition merges
// exactly once.
func (e *Engine) Watch(ctx context.Context, src SignInSource) {
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
			if err := e.MergeOnLogin(ctx, ev); err != nil {
				e.log.Error("cart merge on login failed", slog.Any("err", err))
			}
		}
	}
}

// remoteMutate applies the compensating-action pattern: snapshot the cached
// view, apply the speculative patch, issue the write, and either roll back to
// the snapshot (failure) or replace the view with a fresh server read
// (success).
func (e *Engine) remoteMutate(
	ctx context.Context,
	userID, op string,
	patch func(domain.Lines) domain.Lines,
	write func(context.Context) error,
) (domain.Lines, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot, err := e.loadRemoteLocked(ctx, userID)
	if err != nil {
		mutationsTotal.WithLabelValues("remote", op, "error").Inc()
		return nil, err
	}

	speculative := patch(snapshot)
	e.views[userID] = speculative

	if err := write(ctx); err != nil {
		e.views[userID] = snapshot
		mutationsTotal.WithLabelValues("remote", op, "error").Inc()
		e.log.Error("cart write failed, view rolled back",
			slog.String("user_id", userID),
			slog.String("op", op),
			slog.Any("err", err))
		return snapshot, err
	}

	fresh, err := e.remote.List(ctx, userID)
	if err != nil {
		// The write landed; drop the cache so the next read refetches and
		// serve the speculative view meanwhile.
		delete(e.views, userID)
		mutationsTotal.WithLabelValues("remote", op, "ok").Inc()
		e.log.Warn("cart refetch after write failed",
			slog.String("user_id", userID),
			slog.Any("err", err))
		return speculative, nil
	}

	e.views[userID] = fresh
	mutationsTotal.WithLabelValues("remote", op, "ok").Inc()
	return fresh, nil
}

func (e *Engine) localMutate(ctx context.Context, deviceID, op string, write func(context.Context) error) (domain.Lines, error) {
	if deviceID == "" {
		mutationsTotal.WithLabelValues("local", op, "error").Inc()
		return nil, ErrNoIdentity
	}

	if err := write(ctx); err != nil {
		mutationsTotal.WithLabelValues("local", op, "error").Inc()
		return nil, err
	}

	mutationsTotal.WithLabelValues("local", op, "ok").Inc()
	return e.local.List(ctx, deviceID)
}

func (e *Engine) loadRemoteLocked(ctx context.Context, userID string) (domain.Lines, error) {
	if view, ok := e.views[userID]; ok {
		return view, nil
	}

	lines, err := e.remote.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.views[userID] = lines
	return lines, nil
}
