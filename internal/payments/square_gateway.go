package payments

import (
	"context"

	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/square"
)

type squareGateway struct {
	client *square.Client
}

// NewSquareGateway adapts the Square client to the checkout gateway port.
func NewSquareGateway(client *square.Client) Gateway {
	return &squareGateway{client: client}
}

func (g *squareGateway) Charge(ctx context.Context, input ChargeInput) (*ChargeResult, error) {
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "charge amount must be positive")
	}
	if input.SourceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment source is required")
	}

	payment, err := g.client.CreatePayment(ctx, square.PaymentCreateParams{
		AmountCents: input.AmountCents,
		Currency:    input.Currency,
		LocationID:  g.client.LocationID(),
		SourceID:    input.SourceID,
		Note:        input.Note,
		ReferenceID: input.ReferenceID,
	})
	if err != nil {
		return nil, err
	}

	result := &ChargeResult{}
	if id := payment.GetID(); id != nil {
		result.Reference = *id
	}
	if status := payment.GetStatus(); status != nil {
		result.Status = *status
	}
	return result, nil
}
