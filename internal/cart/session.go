package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/redis"
)

// SnapshotStore is the subset of the redis client the keeper needs.
type SnapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartSessionKey(sessionID string) string
}

// SessionKeeper persists cart snapshots per session id so a cart survives an
// API instance restart. The in-process Store stays the source of truth; the
// keeper is write-behind only.
type SessionKeeper struct {
	store SnapshotStore
	ttl   time.Duration
}

// NewSessionKeeper builds a keeper with the configured snapshot TTL.
func NewSessionKeeper(store SnapshotStore, ttl time.Duration) (*SessionKeeper, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &SessionKeeper{store: store, ttl: ttl}, nil
}

// Save serializes the snapshot under the session's key.
func (k *SessionKeeper) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := k.store.Set(ctx, k.store.CartSessionKey(sessionID), string(raw), k.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart snapshot")
	}
	return nil
}

// Load returns the stored snapshot, or nil when the session has none.
func (k *SessionKeeper) Load(ctx context.Context, sessionID string) (*Snapshot, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	raw, err := k.store.Get(ctx, k.store.CartSessionKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart snapshot")
	}
	return &snap, nil
}

// Delete removes the stored snapshot for the session.
func (k *SessionKeeper) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := k.store.Del(ctx, k.store.CartSessionKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart snapshot")
	}
	return nil
}
