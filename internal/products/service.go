package products

import (
	"context"

	"github.com/google/uuid"

	"github.com/nivora-bio/labcart-backend/internal/catalog"
	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	"github.com/nivora-bio/labcart-backend/pkg/logger"
)

// Service exposes the storefront's product read operations. All filtering and
// ordering happens in the catalog engine so the behavior stays identical no
// matter which store backs the repository.
type Service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires the product service.
func NewService(repo Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// List returns the visible catalog view for the given criteria.
func (s *Service) List(ctx context.Context, criteria catalog.Criteria) ([]models.Product, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Apply(rows, criteria), nil
}

// Get returns one active product with its variants.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}
