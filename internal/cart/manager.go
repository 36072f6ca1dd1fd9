package cart

import (
	"context"
	"sync"

	"github.com/nivora-bio/labcart-backend/pkg/logger"
)

type sessionEntry struct {
	hydrate sync.Once
	store   *Store
}

// Manager hands out the per-session cart stores. A session's store is created
// on first sight, seeded from the keeper's snapshot when one exists.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	keeper  *SessionKeeper
	logg    *logger.Logger
}

// NewManager builds a manager. The keeper is optional; without it carts live
// only in process memory.
func NewManager(keeper *SessionKeeper, logg *logger.Logger) *Manager {
	return &Manager{
		entries: make(map[string]*sessionEntry),
		keeper:  keeper,
		logg:    logg,
	}
}

// Store returns the session's cart, hydrating it from a persisted snapshot
// the first time the session is seen. Hydration completes before the store is
// handed to any caller, so a concurrent mutation cannot land on a pre-restore
// store and be wiped by the snapshot.
func (m *Manager) Store(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	entry, ok := m.entries[sessionID]
	if !ok {
		entry = &sessionEntry{store: NewStore()}
		m.entries[sessionID] = entry
	}
	m.mu.Unlock()

	entry.hydrate.Do(func() {
		if m.keeper == nil {
			return
		}
		snap, err := m.keeper.Load(ctx, sessionID)
		if err != nil {
			if m.logg != nil {
				m.logg.Warn(m.logg.WithSessionID(ctx, sessionID), "cart snapshot load failed")
			}
			return
		}
		if snap != nil {
			entry.store.Restore(*snap)
		}
	})
	return entry.store
}

// Persist writes the session's current snapshot through the keeper.
// Persistence is best-effort; a failed write never fails the cart mutation.
func (m *Manager) Persist(ctx context.Context, sessionID string, store *Store) {
	if m.keeper == nil || store == nil {
		return
	}
	if err := m.keeper.Save(ctx, sessionID, store.Snapshot()); err != nil && m.logg != nil {
		m.logg.Warn(m.logg.WithSessionID(ctx, sessionID), "cart snapshot save failed")
	}
}
