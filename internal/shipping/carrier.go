package shipping

import (
	"context"

	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	"github.com/nivora-bio/labcart-backend/pkg/logger"
)

// Carrier receives finalized orders for fulfillment. It runs after the order
// is persisted and is entirely decoupled from the cart and pricing core.
type Carrier interface {
	SubmitOrder(ctx context.Context, order *models.Order) error
}

type logCarrier struct {
	logg *logger.Logger
}

// NewLogCarrier returns a carrier that records the handoff without calling an
// external fulfillment API. It stands in until a real carrier integration is
// configured.
func NewLogCarrier(logg *logger.Logger) Carrier {
	return &logCarrier{logg: logg}
}

func (c *logCarrier) SubmitOrder(ctx context.Context, order *models.Order) error {
	if c.logg != nil {
		ctx = c.logg.WithOrderID(ctx, order.ID.String())
		ctx = c.logg.WithFields(ctx, map[string]any{
			"shipping_method": order.ShippingMethod.String(),
			"item_count":      len(order.Items),
		})
		c.logg.Info(ctx, "order handed to carrier")
	}
	return nil
}
