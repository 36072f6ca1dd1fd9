package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddOutcome reports whether an add created a new line item or merged into an
// existing one. It is decided against the pre-mutation state, as part of the
// same transition.
type AddOutcome string

const (
	OutcomeAdded  AddOutcome = "added"
	OutcomeMerged AddOutcome = "merged"
)

// String implements fmt.Stringer.
func (o AddOutcome) String() string {
	return string(o)
}

// Store holds the deduplicated, ordered line items of one session's cart plus
// the open/closed drawer state. It is the single source of truth for cart
// contents within a session; all readers go through its accessors.
//
// Each session has a single writer, but the store still guards itself so that
// accidental cross-goroutine use inside the HTTP server cannot corrupt it.
type Store struct {
	mu    sync.Mutex
	items []LineItem
	open  bool
}

// NewStore returns an empty, closed cart.
func NewStore() *Store {
	return &Store{}
}

// AddItem inserts the item, or merges its quantity into the existing line item
// that shares its identity key. On merge, every other stored field keeps its
// original add-time snapshot. Quantities below one are normalized to one.
func (s *Store) AddItem(item LineItem) (LineItem, AddOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	key := item.IdentityKey()
	for i := range s.items {
		if s.items[i].IdentityKey() == key {
			s.items[i].Quantity += item.Quantity
			return s.items[i], OutcomeMerged
		}
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items = append(s.items, item)
	return item, OutcomeAdded
}

// RemoveItem deletes the line item with the given id. Unknown ids are a no-op
// so rapid repeated clicks cannot fail the session.
func (s *Store) RemoveItem(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line item's quantity, removing the item entirely
// when the new quantity drops to zero or below. Unknown ids are a no-op.
func (s *Store) UpdateQuantity(id uuid.UUID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			if quantity <= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
				return
			}
			s.items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart. The drawer's open/closed state is untouched.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Open marks the cart drawer visible.
func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

// Close marks the cart drawer hidden.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// Toggle flips the drawer state.
func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
}

// IsOpen reports the drawer state.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// TotalItems returns the sum of all quantities. Always derived, never cached.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the exact sum of unit price times quantity across all
// line items. No rounding happens here; that is the pricing layer's job.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// cloneItems deep-copies line items, including the optional variant id
// pointer, so no caller can reach stored state through a shared pointer.
func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].VariantID != nil {
			variantID := *out[i].VariantID
			out[i].VariantID = &variantID
		}
	}
	return out
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Len reports the number of distinct line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Snapshot captures the cart state for persistence.
type Snapshot struct {
	Items []LineItem `json:"items"`
	Open  bool       `json:"open"`
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Items: cloneItems(s.items), Open: s.open}
}

// Restore replaces the store contents with the snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cloneItems(snap.Items)
	s.open = snap.Open
}
