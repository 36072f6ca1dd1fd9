package payments

import (
	"context"
	"testing"

	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
)

func TestChargeRejectsBadInput(t *testing.T) {
	gateway := NewSquareGateway(nil)

	tests := []struct {
		name  string
		input ChargeInput
	}{
		{name: "zero amount", input: ChargeInput{AmountCents: 0, SourceID: "cnon:ok"}},
		{name: "negative amount", input: ChargeInput{AmountCents: -100, SourceID: "cnon:ok"}},
		{name: "missing source", input: ChargeInput{AmountCents: 1500}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gateway.Charge(context.Background(), tc.input)
			if err == nil {
				t.Fatalf("expected error")
			}
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
