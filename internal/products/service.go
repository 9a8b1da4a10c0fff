// Package products manages the catalog side of the mutation boundary.
package products

import (
	"context"
	"errors"
	"strings"

	"github.com/livingwaters/fundraiser-backend/internal/broadcast"
	"github.com/livingwaters/fundraiser-backend/internal/store"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

// Service defines the catalog operations.
type Service interface {
	List(ctx context.Context) []model.Product
	Patch(ctx context.Context, id string, patch model.ProductPatch) (model.Product, error)
	Sync(ctx context.Context) ([]model.Product, bool)
}

// ServiceParams wires the product service dependencies.
type ServiceParams struct {
	Store     *store.Store
	Publisher broadcast.Publisher

	// Seed overrides the default catalog; nil means the built-in one.
	Seed []model.Product
}

type service struct {
	store     *store.Store
	publisher broadcast.Publisher
	seed      []model.Product
}

// NewService wires the product catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product store required")
	}
	if params.Publisher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "broadcast publisher required")
	}
	seed := params.Seed
	if seed == nil {
		seed = model.SeedCatalog()
	}
	return &service{store: params.Store, publisher: params.Publisher, seed: seed}, nil
}

func (s *service) List(ctx context.Context) []model.Product {
	return s.store.Products()
}

func (s *service) Patch(ctx context.Context, id string, patch model.ProductPatch) (model.Product, error) {
	if strings.TrimSpace(id) == "" {
		return model.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return model.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product name must not be empty")
	}

	updated, err := s.store.PatchProduct(id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return model.Product{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "patch product")
	}

	// Clients merge product state wholesale, so every catalog mutation
	// ships the full list rather than a delta.
	s.publisher.Publish(broadcast.ProductsReplaced(s.store.Products()))
	return updated, nil
}

// Sync seeds the catalog on an empty store and reports whether seeding
// happened. A populated store makes this a no-op with no broadcast, so
// repeat sync calls cannot clobber admin availability toggles.
func (s *service) Sync(ctx context.Context) ([]model.Product, bool) {
	list, seeded := s.store.SeedProducts(s.seed)
	if seeded {
		s.publisher.Publish(broadcast.ProductsReplaced(list))
	}
	return list, seeded
}
