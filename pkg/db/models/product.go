package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents one catalog listing. Purity and molecular weight are kept
// as the vendor-supplied display strings ("≥98%", "3367.97 Da"); the catalog
// filter engine parses them on demand.
type Product struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU             string           `gorm:"column:sku;not null;uniqueIndex"`
	Name            string           `gorm:"column:name;not null"`
	Category        string           `gorm:"column:category;not null"`
	Description     *string          `gorm:"column:description"`
	Price           decimal.Decimal  `gorm:"column:price;type:decimal(10,2);not null"`
	ImageURL        *string          `gorm:"column:image_url"`
	Purity          string           `gorm:"column:purity;not null;default:''"`
	MolecularWeight string           `gorm:"column:molecular_weight;not null;default:''"`
	Applications    pq.StringArray   `gorm:"column:applications;type:text[];not null;default:ARRAY[]::text[]"`
	StorageTemps    pq.StringArray   `gorm:"column:storage_temps;type:text[];not null;default:ARRAY[]::text[]"`
	InStock         bool             `gorm:"column:in_stock;not null;default:true"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	Variants        []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
