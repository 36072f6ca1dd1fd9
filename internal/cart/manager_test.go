package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// slowSnapshotStore blocks the first Get until released, simulating a slow
// Redis round trip during first-sight hydration.
type slowSnapshotStore struct {
	*fakeSnapshotStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newSlowSnapshotStore() *slowSnapshotStore {
	return &slowSnapshotStore{
		fakeSnapshotStore: newFakeSnapshotStore(),
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
}

func (s *slowSnapshotStore) Get(ctx context.Context, key string) (string, error) {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return s.fakeSnapshotStore.Get(ctx, key)
}

func TestManagerHydratesFromSnapshot(t *testing.T) {
	snapshots := newFakeSnapshotStore()
	keeper, err := NewSessionKeeper(snapshots, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seed := NewStore()
	seed.AddItem(lineItem("GHK-CU 50mg", "42.99", 1))
	seed.Open()
	if err := keeper.Save(context.Background(), "sess-1", seed.Snapshot()); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	mgr := NewManager(keeper, nil)
	store := mgr.Store(context.Background(), "sess-1")

	if store.Len() != 1 || !store.IsOpen() {
		t.Fatalf("store not hydrated: len=%d open=%v", store.Len(), store.IsOpen())
	}
}

func TestManagerHydrationBlocksConcurrentFirstSight(t *testing.T) {
	snapshots := newSlowSnapshotStore()
	keeper, err := NewSessionKeeper(snapshots, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seed := NewStore()
	seed.AddItem(lineItem("GHK-CU 50mg", "42.99", 1))
	if err := keeper.Save(context.Background(), "sess-1", seed.Snapshot()); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	mgr := NewManager(keeper, nil)

	first := make(chan *Store)
	go func() {
		first <- mgr.Store(context.Background(), "sess-1")
	}()
	<-snapshots.entered

	// A second request for the same session lands while the snapshot load is
	// still in flight. Its mutation must survive the restore.
	second := make(chan *Store)
	go func() {
		store := mgr.Store(context.Background(), "sess-1")
		store.AddItem(lineItem("BPC-157 5mg", "24.99", 1))
		second <- store
	}()

	select {
	case <-second:
		t.Fatalf("store handed out before hydration completed")
	case <-time.After(50 * time.Millisecond):
	}

	close(snapshots.release)

	a := <-first
	b := <-second
	if a != b {
		t.Fatalf("both callers must get the same store")
	}
	if a.Len() != 2 {
		t.Fatalf("concurrent add was lost: want 2 line items, got %d", a.Len())
	}
}

func TestManagerReturnsSameStorePerSession(t *testing.T) {
	mgr := NewManager(nil, nil)

	a := mgr.Store(context.Background(), "sess-1")
	a.AddItem(lineItem("TB-500", "54.50", 1))

	b := mgr.Store(context.Background(), "sess-1")
	if b.Len() != 1 {
		t.Fatalf("second lookup must return the same store")
	}

	other := mgr.Store(context.Background(), "sess-2")
	if other.Len() != 0 {
		t.Fatalf("sessions must not share carts")
	}
}

func TestManagerPersistWritesThroughKeeper(t *testing.T) {
	snapshots := newFakeSnapshotStore()
	keeper, err := NewSessionKeeper(snapshots, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mgr := NewManager(keeper, nil)
	store := mgr.Store(context.Background(), "sess-1")
	store.AddItem(lineItem("BPC-157 5mg", "24.99", 2))

	mgr.Persist(context.Background(), "sess-1", store)

	snap, err := keeper.Load(context.Background(), "sess-1")
	if err != nil || snap == nil {
		t.Fatalf("expected persisted snapshot, got snap=%v err=%v", snap, err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 2 {
		t.Fatalf("persisted snapshot does not match the store")
	}
}

func TestManagerSurvivesKeeperFailures(t *testing.T) {
	snapshots := newFakeSnapshotStore()
	snapshots.getErr = errors.New("connection refused")
	snapshots.setErr = errors.New("connection refused")
	keeper, err := NewSessionKeeper(snapshots, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mgr := NewManager(keeper, nil)
	store := mgr.Store(context.Background(), "sess-1")
	store.AddItem(lineItem("Keeper", "1.00", 1))

	// Best-effort: a dead snapshot store never breaks the in-process cart.
	mgr.Persist(context.Background(), "sess-1", store)
	if store.Len() != 1 {
		t.Fatalf("cart must remain usable when persistence fails")
	}
}
