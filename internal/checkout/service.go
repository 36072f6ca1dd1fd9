package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivora-bio/labcart-backend/internal/cart"
	"github.com/nivora-bio/labcart-backend/internal/payments"
	"github.com/nivora-bio/labcart-backend/internal/pricing"
	"github.com/nivora-bio/labcart-backend/internal/shipping"
	"github.com/nivora-bio/labcart-backend/pkg/config"
	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	"github.com/nivora-bio/labcart-backend/pkg/enums"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/logger"
	"github.com/nivora-bio/labcart-backend/pkg/metrics"
	"github.com/nivora-bio/labcart-backend/pkg/types"
)

const lockTTL = 30 * time.Second

// OrderStore is the order persistence surface checkout depends on.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error
}

// Locker serializes checkout attempts per session.
type Locker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutLockKey(sessionID string) string
}

// Input is one checkout request.
type Input struct {
	SessionID       string
	CustomerEmail   string
	PaymentSourceID string
	ShippingMethod  enums.ShippingMethod
	ShippingAddress types.Address
}

// Result reports a completed checkout.
type Result struct {
	OrderID    uuid.UUID
	PaymentRef string
	Breakdown  pricing.Breakdown
}

// Service runs the checkout flow: freeze the cart into a manifest, price it,
// persist the order, capture payment, and hand off to the carrier. The cart
// is cleared only after the payment succeeds; any earlier failure leaves it
// exactly as the customer built it so a retry needs no re-adding.
type Service struct {
	carts      *cart.Manager
	pricingCfg config.PricingConfig
	gateway    payments.Gateway
	orders     OrderStore
	carrier    shipping.Carrier
	locks      Locker
	checkout   *metrics.CheckoutMetrics
	logg       *logger.Logger
}

// NewService wires the checkout service. Locker and metrics are optional.
func NewService(
	carts *cart.Manager,
	pricingCfg config.PricingConfig,
	gateway payments.Gateway,
	orders OrderStore,
	carrier shipping.Carrier,
	locks Locker,
	checkout *metrics.CheckoutMetrics,
	logg *logger.Logger,
) *Service {
	return &Service{
		carts:      carts,
		pricingCfg: pricingCfg,
		gateway:    gateway,
		orders:     orders,
		carrier:    carrier,
		locks:      locks,
		checkout:   checkout,
		logg:       logg,
	}
}

// Execute runs one checkout attempt for the session's current cart.
func (s *Service) Execute(ctx context.Context, input Input) (*Result, error) {
	start := time.Now()
	result, err := s.execute(ctx, input)
	s.checkout.ObserveDuration(input.ShippingMethod.String(), time.Since(start))
	if err != nil {
		s.checkout.IncFailure(failureReason(err))
		return nil, err
	}
	s.checkout.IncSuccess(input.ShippingMethod.String())
	return result, nil
}

func (s *Service) execute(ctx context.Context, input Input) (*Result, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	ctx = s.scopedCtx(ctx, input.SessionID)

	unlock, err := s.acquireLock(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	store := s.carts.Store(ctx, input.SessionID)
	items := store.Items()

	breakdown, err := pricing.Compute(s.pricingCfg, pricing.Params{
		Subtotal: store.TotalPrice(),
		Method:   input.ShippingMethod,
	})
	if err != nil {
		return nil, err
	}

	manifest := BuildManifest(items, breakdown)
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	order := s.buildOrder(input, manifest)
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	charge, err := s.gateway.Charge(ctx, payments.ChargeInput{
		AmountCents: order.TotalCents,
		Currency:    "USD",
		SourceID:    input.PaymentSourceID,
		SessionID:   input.SessionID,
		ReferenceID: order.ID.String(),
		Note:        "labcart order",
	})
	if err != nil {
		// The cart stays untouched; the customer can retry without
		// rebuilding it.
		if s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "checkout payment failed")
		}
		return nil, err
	}

	if err := s.orders.MarkPaid(ctx, order.ID, charge.Reference); err != nil {
		return nil, err
	}

	if s.carrier != nil {
		if err := s.carrier.SubmitOrder(ctx, order); err != nil && s.logg != nil {
			// Fulfillment handoff is retried out of band; the sale stands.
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "carrier handoff failed")
		}
	}

	store.Clear()
	s.carts.Persist(ctx, input.SessionID, store)

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "checkout completed")
	}

	return &Result{
		OrderID:    order.ID,
		PaymentRef: charge.Reference,
		Breakdown:  breakdown,
	}, nil
}

func (s *Service) validateInput(input Input) error {
	if input.SessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if input.CustomerEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if input.PaymentSourceID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment source is required")
	}
	if !input.ShippingMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping method")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
	}
	return nil
}

// acquireLock takes the per-session checkout lock so a double-submitted form
// cannot charge twice. Without a locker the flow runs unguarded.
func (s *Service) acquireLock(ctx context.Context, sessionID string) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}
	key := s.locks.CheckoutLockKey(sessionID)
	ok, err := s.locks.SetNX(ctx, key, "1", lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring checkout lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	return func() { _ = s.locks.Del(ctx, key) }, nil
}

func (s *Service) buildOrder(input Input, manifest Manifest) *models.Order {
	address := input.ShippingAddress.Normalized()
	order := &models.Order{
		ID:              uuid.New(),
		SessionID:       input.SessionID,
		CustomerEmail:   input.CustomerEmail,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		ShippingMethod:  input.ShippingMethod,
		ShippingAddress: &address,
		SubtotalCents:   pricing.Cents(manifest.Breakdown.Subtotal),
		ShippingCents:   pricing.Cents(manifest.Breakdown.Shipping),
		TaxCents:        pricing.Cents(manifest.Breakdown.Tax),
		TotalCents:      pricing.Cents(manifest.Breakdown.Total),
	}
	for _, item := range manifest.Items {
		order.Items = append(order.Items, models.OrderLineItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      item.LineItem.ProductID,
			VariantID:      item.LineItem.VariantID,
			SKU:            item.LineItem.SKU,
			Name:           item.LineItem.ProductName,
			SizeLabel:      item.LineItem.SizeLabel,
			Purity:         item.LineItem.Purity,
			UnitPriceCents: pricing.Cents(item.LineItem.UnitPrice),
			Qty:            item.LineItem.Quantity,
			TotalCents:     pricing.Cents(item.LineTotal),
		})
	}
	return order
}

func (s *Service) scopedCtx(ctx context.Context, sessionID string) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithSessionID(ctx, sessionID)
}

func failureReason(err error) string {
	appErr := pkgerrors.As(err)
	if appErr == nil {
		return "internal"
	}
	switch appErr.Code() {
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodePaymentDeclined:
		return "payment_declined"
	case pkgerrors.CodeConflict:
		return "locked"
	case pkgerrors.CodeDependency:
		return "dependency"
	default:
		return "internal"
	}
}
