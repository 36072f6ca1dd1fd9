// Package pagination implements the keyset cursor behind the storefront's
// order-history listing. A cursor pins the position of the last order served
// so the next page resumes below it even while new orders keep arriving at
// the head of the history.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultPageSize is used when the caller does not ask for a size.
	DefaultPageSize = 25
	// MaxPageSize caps a single order-history page.
	MaxPageSize = 100

	tokenSeparator = "@"
)

// Page is the caller's paging request: how many orders, and the opaque token
// of the last order already seen (empty for the first page).
type Page struct {
	Limit  int
	Cursor string
}

// OrderCursor pins a position in the newest-first order history. Orders are
// keyed by placement time with the order id breaking ties.
type OrderCursor struct {
	PlacedAt time.Time
	OrderID  uuid.UUID
}

// ClampPageSize normalizes a requested page size into [1, MaxPageSize].
func ClampPageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// Token serializes the cursor into an opaque, URL-safe query-string token.
func (c OrderCursor) Token() string {
	payload := c.PlacedAt.UTC().Format(time.RFC3339Nano) + tokenSeparator + c.OrderID.String()
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

// ParseToken decodes a token back into its cursor. An empty token means the
// first page and yields a nil cursor without error.
func ParseToken(token string) (*OrderCursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode cursor token: %w", err)
	}
	parts := strings.SplitN(string(decoded), tokenSeparator, 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed cursor token")
	}

	placedAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("cursor token timestamp: %w", err)
	}
	orderID, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("cursor token order id: %w", err)
	}
	return &OrderCursor{PlacedAt: placedAt, OrderID: orderID}, nil
}
