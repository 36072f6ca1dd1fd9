package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nivora-bio/labcart-backend/api/responses"
	"github.com/nivora-bio/labcart-backend/api/validators"
	"github.com/nivora-bio/labcart-backend/internal/catalog"
	productsvc "github.com/nivora-bio/labcart-backend/internal/products"
	"github.com/nivora-bio/labcart-backend/pkg/enums"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/logger"
)

// ProductList serves the filtered, sorted catalog view.
func ProductList(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		criteria, err := criteriaFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products": rows,
			"count":    len(rows),
		})
	}
}

// ProductDetail serves one active product with its variants.
func ProductDetail(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func criteriaFromQuery(r *http.Request) (catalog.Criteria, error) {
	criteria := catalog.Criteria{
		Category:     strings.TrimSpace(r.URL.Query().Get("category")),
		Applications: validators.ParseQueryList(r, "applications"),
		StorageTemps: validators.ParseQueryList(r, "storage_temps"),
	}

	var err error
	if criteria.PurityMin, err = validators.ParseQueryDecimal(r, "purity_min"); err != nil {
		return catalog.Criteria{}, err
	}
	if criteria.PurityMax, err = validators.ParseQueryDecimal(r, "purity_max"); err != nil {
		return catalog.Criteria{}, err
	}
	if criteria.PriceMin, err = validators.ParseQueryDecimal(r, "price_min"); err != nil {
		return catalog.Criteria{}, err
	}
	if criteria.PriceMax, err = validators.ParseQueryDecimal(r, "price_max"); err != nil {
		return catalog.Criteria{}, err
	}
	if criteria.WeightMin, err = validators.ParseQueryDecimal(r, "weight_min"); err != nil {
		return catalog.Criteria{}, err
	}
	if criteria.WeightMax, err = validators.ParseQueryDecimal(r, "weight_max"); err != nil {
		return catalog.Criteria{}, err
	}
	if criteria.InStockOnly, err = validators.ParseQueryBool(r, "in_stock"); err != nil {
		return catalog.Criteria{}, err
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("sort")); raw != "" {
		key, err := enums.ParseSortKey(raw)
		if err != nil {
			return catalog.Criteria{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort key")
		}
		criteria.SortKey = key
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("direction")); raw != "" {
		direction, err := enums.ParseSortDirection(raw)
		if err != nil {
			return catalog.Criteria{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort direction")
		}
		criteria.SortDirection = direction
	}

	return criteria, nil
}
