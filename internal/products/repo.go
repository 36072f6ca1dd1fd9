package products

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
)

// Repository is the persistence surface the product service depends on.
type Repository interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed product repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// ListActive returns every active listing with its variants, in a stable
// order. The catalog engine filters and re-sorts in memory afterwards.
func (r *gormRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("is_active = ?", true).
		Order("name ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return rows, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ? AND is_active = ?", id, true).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding product")
	}
	return &row, nil
}

func (r *gormRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("sku = ? AND is_active = ?", sku, true).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding product by sku")
	}
	return &row, nil
}
