package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	"github.com/nivora-bio/labcart-backend/pkg/enums"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_ref TEXT,
  shipping_method TEXT NOT NULL,
  shipping_address TEXT,
  subtotal_cents INTEGER NOT NULL,
  shipping_cents INTEGER NOT NULL,
  tax_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  size_label TEXT NOT NULL DEFAULT '',
  purity TEXT NOT NULL DEFAULT '',
  unit_price_cents INTEGER NOT NULL,
  qty INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	require.NoError(t, db.Exec("DELETE FROM order_line_items").Error)
	return db
}

func createOrder(t *testing.T, db *gorm.DB, sessionID string, created time.Time, totalCents int64) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:             uuid.New(),
		SessionID:      sessionID,
		CustomerEmail:  "lab@example.com",
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusPending,
		ShippingMethod: enums.ShippingMethodStandard,
		SubtotalCents:  totalCents,
		TotalCents:     totalCents,
		Items: []models.OrderLineItem{{
			ID:             uuid.New(),
			ProductID:      uuid.New(),
			SKU:            "LC-BPC157",
			Name:           "BPC-157 5mg",
			UnitPriceCents: totalCents,
			Qty:            1,
			TotalCents:     totalCents,
		}},
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := &models.Order{
		ID:             uuid.New(),
		SessionID:      "sess-1",
		CustomerEmail:  "lab@example.com",
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusPending,
		ShippingMethod: enums.ShippingMethodExpress,
		SubtotalCents:  9297,
		ShippingCents:  8999,
		TaxCents:       744,
		TotalCents:     19040,
		Items: []models.OrderLineItem{
			{ID: uuid.New(), ProductID: uuid.New(), SKU: "LC-BPC157", Name: "BPC-157 5mg", UnitPriceCents: 2499, Qty: 2, TotalCents: 4998},
			{ID: uuid.New(), ProductID: uuid.New(), SKU: "LC-GHKCU", Name: "GHK-CU 50mg", UnitPriceCents: 4299, Qty: 1, TotalCents: 4299},
		},
	}
	require.NoError(t, repo.Create(context.Background(), order))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(19040), found.TotalCents)
	require.Len(t, found.Items, 2)

	_, err = repo.FindByID(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRepositoryListBySessionPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createOrder(t, db, "sess-1", now.Add(-2*time.Hour), 1000)
	middle := createOrder(t, db, "sess-1", now.Add(-time.Hour), 2000)
	newest := createOrder(t, db, "sess-1", now, 3000)
	createOrder(t, db, "sess-other", now, 9999)

	first, err := repo.ListBySession(context.Background(), "sess-1", pagination.Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	assert.Equal(t, newest.ID, first.Orders[0].ID)
	assert.Equal(t, middle.ID, first.Orders[1].ID)
	assert.NotEmpty(t, first.NextCursor)

	second, err := repo.ListBySession(context.Background(), "sess-1", pagination.Page{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, int64(1000), second.Orders[0].TotalCents)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryListBySessionRejectsBadCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.ListBySession(context.Background(), "sess-1", pagination.Page{Cursor: "not-base64!"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestRepositoryUpdatePayment(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := createOrder(t, db, "sess-1", time.Now().UTC(), 5000)

	err := repo.UpdatePayment(context.Background(), order.ID, func(row *models.Order) error {
		row.Status = enums.OrderStatusPaid
		row.PaymentStatus = enums.PaymentStatusCaptured
		ref := "sq-payment-123"
		row.PaymentRef = &ref
		return nil
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, found.Status)
	assert.Equal(t, enums.PaymentStatusCaptured, found.PaymentStatus)
	require.NotNil(t, found.PaymentRef)
	assert.Equal(t, "sq-payment-123", *found.PaymentRef)

	err = repo.UpdatePayment(context.Background(), uuid.New(), func(*models.Order) error { return nil })
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
