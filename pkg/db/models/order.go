package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nivora-bio/labcart-backend/pkg/enums"
	"github.com/nivora-bio/labcart-backend/pkg/types"
)

// Order persists the outcome of a successful checkout. Money lands here as
// integer cents; the cart and pricing core work in decimals and convert once.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID       string               `gorm:"column:session_id;not null;index"`
	CustomerEmail   string               `gorm:"column:customer_email;not null"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentRef      *string              `gorm:"column:payment_ref"`
	ShippingMethod  enums.ShippingMethod `gorm:"column:shipping_method;type:text;not null"`
	ShippingAddress *types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	SubtotalCents   int64                `gorm:"column:subtotal_cents;not null"`
	ShippingCents   int64                `gorm:"column:shipping_cents;not null"`
	TaxCents        int64                `gorm:"column:tax_cents;not null"`
	TotalCents      int64                `gorm:"column:total_cents;not null"`
	Items           []OrderLineItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
