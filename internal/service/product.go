// Package service holds the application services the HTTP adapter calls:
// catalog browsing and the cart.
package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/assistive-store/internal/catalog"
	"github.com/utafrali/assistive-store/internal/domain"
	"github.com/utafrali/assistive-store/internal/search"
)

// ProductService serves read-only catalog queries.
type ProductService struct {
	catalog *catalog.Store
	logger  *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(store *catalog.Store, logger *slog.Logger) *ProductService {
	return &ProductService{catalog: store, logger: logger}
}

// ListProducts filters and sorts the whole catalog.
func (s *ProductService) ListProducts(ctx context.Context, q search.Query) []domain.Product {
	products := search.Run(s.catalog.All(), q)
	s.logger.DebugContext(ctx, "catalog query",
		slog.String("search", q.Search),
		slog.String("category", q.Category),
		slog.String("sort_by", q.SortBy),
		slog.Int("results", len(products)),
	)
	return products
}

// GetProduct returns one product or a NotFound error.
func (s *ProductService) GetProduct(_ context.Context, id domain.ProductID) (domain.Product, error) {
	return s.catalog.Get(id)
}

// Categories returns the selectable categories.
func (s *ProductService) Categories() []domain.Category {
	return domain.Categories()
}
