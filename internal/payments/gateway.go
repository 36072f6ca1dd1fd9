package payments

import "context"

// ChargeInput carries everything the gateway needs to capture one payment.
// Amounts are integer minor units; the pricing layer converts exactly once.
type ChargeInput struct {
	AmountCents int64
	Currency    string
	SourceID    string
	SessionID   string
	ReferenceID string
	Note        string
}

// ChargeResult is the gateway's pass-through outcome. The reference is opaque
// to the storefront beyond being stored on the order.
type ChargeResult struct {
	Reference string
	Status    string
}

// Gateway is the payment collaborator boundary. Checkout only ever sees this
// interface; the concrete processor stays swappable.
type Gateway interface {
	Charge(ctx context.Context, input ChargeInput) (*ChargeResult, error)
}
