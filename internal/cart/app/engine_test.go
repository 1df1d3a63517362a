package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danuprasetya/furnistore/internal/cart/domain"
	"github.com/danuprasetya/furnistore/internal/identity"
)

var errBackend = errors.New("backend unavailable")

type fakeRemote struct {
	mu   sync.Mutex
	rows map[string]domain.Lines

	failGet    bool
	failList   bool
	failClear  bool
	failRemove bool
	failUpsert map[string]bool // productID -> fail
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[string]domain.Lines), failUpsert: make(map[string]bool)}
}

func (f *fakeRemote) List(_ context.Context, userID string) (domain.Lines, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errBackend
	}
	out := make(domain.Lines, len(f.rows[userID]))
	copy(out, f.rows[userID])
	return out, nil
}

func (f *fakeRemote) Get(_ context.Context, userID, productID string) (domain.CartLine, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return domain.CartLine{}, false, errBackend
	}
	if i := f.rows[userID].Find(productID); i >= 0 {
		return f.rows[userID][i], true, nil
	}
	return domain.CartLine{}, false, nil
}

func (f *fakeRemote) Upsert(_ context.Context, userID string, line domain.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert[line.ProductID] {
		return errBackend
	}
	if i := f.rows[userID].Find(line.ProductID); i >= 0 {
		f.rows[userID][i].Quantity = line.Quantity
		return nil
	}
	f.rows[userID] = append(f.rows[userID], line)
	return nil
}

func (f *fakeRemote) SetQuantity(_ context.Context, userID, productID string, qty int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.rows[userID].Find(productID); i >= 0 {
		f.rows[userID][i].Quantity = qty
	}
	return nil
}

func (f *fakeRemote) Remove(_ context.Context, userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRemove {
		return errBackend
	}
	f.rows[userID] = f.rows[userID].Remove(productID)
	return nil
}

func (f *fakeRemote) Clear(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClear {
		return errBackend
	}
	delete(f.rows, userID)
	return nil
}

type fakeLocal struct {
	mu   sync.Mutex
	rows map[string]domain.Lines
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{rows: make(map[string]domain.Lines)}
}

func (f *fakeLocal) List(_ context.Context, deviceID string) (domain.Lines, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(domain.Lines, len(f.rows[deviceID]))
	copy(out, f.rows[deviceID])
	return out, nil
}

func (f *fakeLocal) Get(_ context.Context, deviceID, productID string) (domain.CartLine, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.rows[deviceID].Find(productID); i >= 0 {
		return f.rows[deviceID][i], true, nil
	}
	return domain.CartLine{}, false, nil
}

func (f *fakeLocal) Put(_ context.Context, deviceID string, line domain.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.rows[deviceID].Find(line.ProductID); i >= 0 {
		f.rows[deviceID][i] = line
		return nil
	}
	f.rows[deviceID] = append(f.rows[deviceID], line)
	return nil
}

func (f *fakeLocal) Remove(_ context.Context, deviceID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[deviceID] = f.rows[deviceID].Remove(productID)
	return nil
}

func (f *fakeLocal) Clear(_ context.Context, deviceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, deviceID)
	return nil
}

func testEngine() (*Engine, *fakeRemote, *fakeLocal) {
	remote := newFakeRemote()
	local := newFakeLocal()
	return NewEngine(remote, local, slog.Default()), remote, local
}

func authCtx(userID string) context.Context {
	return identity.WithSession(context.Background(), identity.Session{UserID: userID, DeviceID: "dev-1"})
}

func anonCtx(deviceID string) context.Context {
	return identity.WithSession(context.Background(), identity.Session{DeviceID: deviceID})
}

func product(id string, amount int64) domain.ProductSnapshot {
	return domain.ProductSnapshot{
		ID:        id,
		Name:      "Walnut Table " + id,
		UnitPrice: domain.Money{Currency: "USD", Amount: amount},
		Category:  "tables",
		Stock:     5,
	}
}

func TestAnonymousAddTwiceKeepsOneLine(t *testing.T) {
	e, _, local := testEngine()
	ctx := anonCtx("dev-1")

	_, err := e.Add(ctx, product("P1", 9990))
	require.NoError(t, err)
	lines, err := e.Add(ctx, product("P1", 9990))
	require.NoError(t, err)

	require.Len(t, lines, 1)
	require.Equal(t, "P1", lines[0].ProductID)
	require.EqualValues(t, 2, lines[0].Quantity)

	stored, err := local.List(ctx, "dev-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.EqualValues(t, 2, stored[0].Quantity)
}

func TestModeExclusivity(t *testing.T) {
	e, remote, local := testEngine()

	require.NoError(t, local.Put(context.Background(), "dev-1", domain.CartLine{
		ProductID: "LOCAL", Quantity: 1, Product: product("LOCAL", 100), AddedAt: time.Now(),
	}))
	require.NoError(t, remote.Upsert(context.Background(), "u1", domain.CartLine{
		ProductID: "REMOTE", Quantity: 1, Product: product("REMOTE", 200), AddedAt: time.Now(),
	}))

	anon, err := e.Items(anonCtx("dev-1"))
	require.NoError(t, err)
	require.Len(t, anon, 1)
	require.Equal(t, "LOCAL", anon[0].ProductID)

	authed, err := e.Items(authCtx("u1"))
	require.NoError(t, err)
	require.Len(t, authed, 1)
	require.Equal(t, "REMOTE", authed[0].ProductID)
}

func TestRemoteAddRecomputesFromServerRead(t *testing.T) {
	e, remote, _ := testEngine()
	ctx := authCtx("u1")

	// Warm the cached view, then move the server underneath it.
	_, err := e.Items(ctx)
	require.NoError(t, err)
	require.NoError(t, remote.Upsert(context.Background(), "u1", domain.CartLine{
		ProductID: "P1", Quantity: 3, Product: product("P1", 9990), AddedAt: time.Now(),
	}))

	lines, err := e.Add(ctx, product("P1", 9990))
	require.NoError(t, err)

	// 3 on the server + 1, not stale-view 0 + 1.
	require.Len(t, lines, 1)
	require.EqualValues(t, 4, lines[0].Quantity)
}

func TestSetQuantityZeroIsRemoval(t *testing.T) {
	e, remote, _ := testEngine()
	ctx := authCtx("u1")

	t.Run("empty cart -> no-op, no error", func(t *testing.T) {
		lines, err := e.SetQuantity(ctx, "P2", 0)
		require.NoError(t, err)
		require.Empty(t, lines)
		require.Empty(t, remote.rows["u1"])
	})

	t.Run("existing line is deleted", func(t *testing.T) {
		_, err := e.Add(ctx, product("P3", 500))
		require.NoError(t, err)

		lines, err := e.SetQuantity(ctx, "P3", -2)
		require.NoError(t, err)
		require.Empty(t, lines)
	})
}

func TestRemoteRollbackOnFailedWrite(t *testing.T) {
	e, remote, _ := testEngine()
	ctx := authCtx("u1")

	_, err := e.Add(ctx, product("A", 1000))
	require.NoError(t, err)

	remote.failRemove = true
	lines, err := e.Remove(ctx, "A")
	require.ErrorIs(t, err, errBackend)

	// The pre-mutation snapshot is restored verbatim: the cart still shows A.
	require.Len(t, lines, 1)
	require.Equal(t, "A", lines[0].ProductID)

	visible, err := e.Items(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.EqualValues(t, 1, visible[0].Quantity)
}

func TestClearEmptiesRemoteRows(t *testing.T) {
	e, remote, _ := testEngine()
	ctx := authCtx("u1")

	for _, id := range []string{"A", "B", "C"} {
		_, err := e.Add(ctx, product(id, 1000))
		require.NoError(t, err)
	}

	lines, err := e.Clear(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
	require.Empty(t, remote.rows["u1"])

	visible, err := e.Items(ctx)
	require.NoError(t, err)
	require.Empty(t, visible)
}

func TestTotals(t *testing.T) {
	e, _, _ := testEngine()
	ctx := anonCtx("dev-1")

	_, err := e.Add(ctx, product("A", 1000))
	require.NoError(t, err)
	_, err = e.Add(ctx, product("A", 1000))
	require.NoError(t, err)
	_, err = e.Add(ctx, product("B", 500))
	require.NoError(t, err)

	totals, err := e.Totals(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, totals.Items)
	require.EqualValues(t, 2500, totals.Amount.Amount)
}

func TestMergeOnLoginHappyPath(t *testing.T) {
	e, remote, local := testEngine()
	ctx := anonCtx("dev-1")

	_, err := e.Add(ctx, product("A", 1000))
	require.NoError(t, err)
	_, err = e.Add(ctx, product("A", 1000))
	require.NoError(t, err)
	_, err = e.Add(ctx, product("B", 500))
	require.NoError(t, err)

	require.NoError(t, e.MergeOnLogin(context.Background(), identity.SignIn{UserID: "u1", DeviceID: "dev-1"}))

	qty := map[string]int32{}
	for _, l := range remote.rows["u1"] {
		qty[l.ProductID] = l.Quantity
	}
	require.EqualValues(t, 2, qty["A"])
	require.EqualValues(t, 1, qty["B"])

	stored, err := local.List(context.Background(), "dev-1")
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestMergeOnLoginIsAdditive(t *testing.T) {
	e, remote, _ := testEngine()

	require.NoError(t, remote.Upsert(context.Background(), "u1", domain.CartLine{
		ProductID: "A", Quantity: 3, Product: product("A", 1000), AddedAt: time.Now(),
	}))

	ctx := anonCtx("dev-1")
	_, err := e.Add(ctx, product("A", 1000))
	require.NoError(t, err)
	_, err = e.Add(ctx, product("A", 1000))
	require.NoError(t, err)

	require.NoError(t, e.MergeOnLogin(context.Background(), identity.SignIn{UserID: "u1", DeviceID: "dev-1"}))

	require.Len(t, remote.rows["u1"], 1)
	require.EqualValues(t, 5, remote.rows["u1"][0].Quantity)
}

func TestMergeOnLoginIsBestEffort(t *testing.T) {
	e, remote, local := testEngine()
	ctx := anonCtx("dev-1")

	_, err := e.Add(ctx, product("A", 1000))
	require.NoError(t, err)
	_, err = e.Add(ctx, product("B", 500))
	require.NoError(t, err)

	remote.failUpsert["A"] = true

	require.NoError(t, e.MergeOnLogin(context.Background(), identity.SignIn{UserID: "u1", DeviceID: "dev-1"}))

	// B still merged, A lost, local cart cleared regardless.
	require.Len(t, remote.rows["u1"], 1)
	require.Equal(t, "B", remote.rows["u1"][0].ProductID)

	stored, err := local.List(context.Background(), "dev-1")
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestWatchMergesOnSignInEvent(t *testing.T) {
	e, remote, _ := testEngine()
	ctx := anonCtx("dev-1")

	_, err := e.Add(ctx, product("A", 1000))
	require.NoError(t, err)

	b := identity.NewBroadcaster()
	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Watch(watchCtx, b)

	// Give the watcher time to subscribe before the edge event fires.
	require.Eventually(t, func() bool {
		b.Publish(identity.SignIn{UserID: "u1", DeviceID: "dev-1"})
		remote.mu.Lock()
		defer remote.mu.Unlock()
		return len(remote.rows["u1"]) == 1
	}, 2*time.Second, 20*time.Millisecond)
}
