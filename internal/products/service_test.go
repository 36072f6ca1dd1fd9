package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nivora-bio/labcart-backend/internal/catalog"
	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
)

type stubRepository struct {
	rows []models.Product
	err  error
}

func (s *stubRepository) ListActive(context.Context) ([]models.Product, error) {
	return s.rows, s.err
}

func (s *stubRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return &s.rows[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubRepository) FindBySKU(_ context.Context, sku string) (*models.Product, error) {
	for i := range s.rows {
		if s.rows[i].SKU == sku {
			return &s.rows[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func catalogRow(name, category, price string, inStock bool) models.Product {
	return models.Product{
		ID:       uuid.New(),
		SKU:      "LC-" + name,
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Purity:   "≥98%",
		InStock:  inStock,
	}
}

func TestServiceListAppliesCriteria(t *testing.T) {
	repo := &stubRepository{rows: []models.Product{
		catalogRow("BPC-157", "peptides", "24.99", true),
		catalogRow("Reagent-X", "reagents", "12.00", true),
		catalogRow("TB-500", "peptides", "54.50", false),
	}}
	svc := NewService(repo, nil)

	got, err := svc.List(context.Background(), catalog.Criteria{Category: "peptides", InStockOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "BPC-157" {
		t.Fatalf("expected only BPC-157, got %d rows", len(got))
	}
}

func TestServiceListPropagatesRepoErrors(t *testing.T) {
	repo := &stubRepository{err: pkgerrors.New(pkgerrors.CodeInternal, "boom")}
	svc := NewService(repo, nil)

	_, err := svc.List(context.Background(), catalog.Criteria{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestServiceGet(t *testing.T) {
	row := catalogRow("GHK-CU", "peptides", "42.99", true)
	repo := &stubRepository{rows: []models.Product{row}}
	svc := NewService(repo, nil)

	got, err := svc.Get(context.Background(), row.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SKU != row.SKU {
		t.Fatalf("expected %s, got %s", row.SKU, got.SKU)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
