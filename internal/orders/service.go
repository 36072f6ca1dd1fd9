package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	"github.com/nivora-bio/labcart-backend/pkg/enums"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/logger"
	"github.com/nivora-bio/labcart-backend/pkg/pagination"
)

// Service exposes order persistence and lookups to checkout and the API.
type Service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires the order service.
func NewService(repo Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Create stores the order after validating its money columns are internally
// consistent. Checkout builds the order; this is the last integrity gate
// before it hits the database.
func (s *Service) Create(ctx context.Context, order *models.Order) error {
	if order.SessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if len(order.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line item")
	}

	var itemTotal int64
	for _, item := range order.Items {
		if item.Qty < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
		}
		itemTotal += item.TotalCents
	}
	if itemTotal != order.SubtotalCents {
		return pkgerrors.New(pkgerrors.CodeValidation, "line item totals do not match subtotal")
	}
	if order.SubtotalCents+order.ShippingCents+order.TaxCents != order.TotalCents {
		return pkgerrors.New(pkgerrors.CodeValidation, "order totals do not add up")
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order created")
	}
	return nil
}

// Get returns one order with its line items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// ListBySession pages the session's order history, newest first.
func (s *Service) ListBySession(ctx context.Context, sessionID string, params pagination.Page) (*OrderList, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.repo.ListBySession(ctx, sessionID, params)
}

// MarkPaid records a captured payment against the order.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error {
	return s.repo.UpdatePayment(ctx, id, func(order *models.Order) error {
		order.Status = enums.OrderStatusPaid
		order.PaymentStatus = enums.PaymentStatusCaptured
		if paymentRef != "" {
			order.PaymentRef = &paymentRef
		}
		return nil
	})
}
