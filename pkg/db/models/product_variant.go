package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is a purchasable size of a product (e.g. 5mg vs 10mg vials).
type ProductVariant struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	SKU       string          `gorm:"column:sku;not null"`
	SizeLabel string          `gorm:"column:size_label;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	InStock   bool            `gorm:"column:in_stock;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
