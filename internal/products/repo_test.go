package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  price TEXT NOT NULL,
  image_url TEXT,
  purity TEXT NOT NULL DEFAULT '',
  molecular_weight TEXT NOT NULL DEFAULT '',
  applications TEXT NOT NULL DEFAULT '{}',
  storage_temps TEXT NOT NULL DEFAULT '{}',
  in_stock INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	variants := `
CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  size_label TEXT NOT NULL,
  price TEXT NOT NULL,
  in_stock INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(variants).Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)
	require.NoError(t, db.Exec("DELETE FROM product_variants").Error)
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name, sku string, active bool) *models.Product {
	t.Helper()

	row := &models.Product{
		ID:              uuid.New(),
		SKU:             sku,
		Name:            name,
		Category:        "peptides",
		Price:           decimal.RequireFromString("24.99"),
		Purity:          "≥98%",
		MolecularWeight: "1419.53 Da",
		InStock:         true,
		IsActive:        active,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func createVariant(t *testing.T, db *gorm.DB, product *models.Product, size string) *models.ProductVariant {
	t.Helper()

	row := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		SKU:       product.SKU + "-" + size,
		SizeLabel: size,
		Price:     decimal.RequireFromString("42.99"),
		InStock:   true,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestRepositoryListActive(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	bpc := createProduct(t, db, "BPC-157", "LC-BPC157", true)
	createProduct(t, db, "Retired", "LC-RETIRED", false)
	createVariant(t, db, bpc, "5mg")
	createVariant(t, db, bpc, "10mg")

	rows, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BPC-157", rows[0].Name)
	assert.Len(t, rows[0].Variants, 2)
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	bpc := createProduct(t, db, "BPC-157", "LC-BPC157", true)
	createVariant(t, db, bpc, "5mg")

	found, err := repo.FindByID(context.Background(), bpc.ID)
	require.NoError(t, err)
	assert.Equal(t, bpc.SKU, found.SKU)
	assert.Len(t, found.Variants, 1)

	_, err = repo.FindByID(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRepositoryFindByIDSkipsInactive(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	retired := createProduct(t, db, "Retired", "LC-RETIRED", false)

	_, err := repo.FindByID(context.Background(), retired.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRepositoryFindBySKU(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	createProduct(t, db, "GHK-CU", "LC-GHKCU", true)

	found, err := repo.FindBySKU(context.Background(), "LC-GHKCU")
	require.NoError(t, err)
	assert.Equal(t, "GHK-CU", found.Name)

	_, err = repo.FindBySKU(context.Background(), "LC-MISSING")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
