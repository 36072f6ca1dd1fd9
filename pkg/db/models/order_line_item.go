package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the cart snapshot of each item within an order.
type OrderLineItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	VariantID      *uuid.UUID `gorm:"column:variant_id;type:uuid"`
	SKU            string     `gorm:"column:sku;not null"`
	Name           string     `gorm:"column:name;not null"`
	SizeLabel      string     `gorm:"column:size_label;not null;default:''"`
	Purity         string     `gorm:"column:purity;not null;default:''"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	Qty            int        `gorm:"column:qty;not null"`
	TotalCents     int64      `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
