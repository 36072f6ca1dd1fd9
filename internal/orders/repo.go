package orders

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/pagination"
)

// Repository is the persistence surface for orders.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListBySession(ctx context.Context, sessionID string, page pagination.Page) (*OrderList, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, fn func(order *models.Order) error) error
}

// OrderList is one cursor page of a session's order history.
type OrderList struct {
	Orders     []models.Order
	NextCursor string
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed order repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create persists the order and its line items atomically.
func (r *gormRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding order")
	}
	return &row, nil
}

// ListBySession pages a session's orders newest first using a keyset cursor.
func (r *gormRepository) ListBySession(ctx context.Context, sessionID string, page pagination.Page) (*OrderList, error) {
	limit := pagination.ClampPageSize(page.Limit)

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	cursor, err := pagination.ParseToken(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.PlacedAt, cursor.PlacedAt, cursor.OrderID,
		)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	list := &OrderList{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.OrderCursor{
			PlacedAt: last.CreatedAt,
			OrderID:  last.ID,
		}.Token()
	}
	list.Orders = rows
	return list, nil
}

// UpdatePayment loads the order, applies fn, and saves the payment columns in
// one transaction.
func (r *gormRepository) UpdatePayment(ctx context.Context, id uuid.UUID, fn func(order *models.Order) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Order
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}
		if err := fn(&row); err != nil {
			return err
		}
		return tx.Model(&row).
			Select("status", "payment_status", "payment_ref").
			Updates(&row).Error
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order payment")
	}
	return nil
}
