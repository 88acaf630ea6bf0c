// Package catalog holds the immutable product catalog loaded once at startup.
package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/utafrali/assistive-store/internal/domain"
	apperrors "github.com/utafrali/assistive-store/pkg/errors"
	"github.com/utafrali/assistive-store/pkg/validator"
)

// Source supplies the raw product records. It is read exactly once.
type Source interface {
	// Products returns every product record in catalog order.
	Products(ctx context.Context) ([]domain.Product, error)
}

// Store is a read-only product catalog. It is safe for concurrent use because
// nothing mutates it after construction.
type Store struct {
	products []domain.Product
	byID     map[domain.ProductID]int
}

// Load reads all records from src and builds a Store.
func Load(ctx context.Context, src Source) (*Store, error) {
	products, err := src.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog source: %w", err)
	}
	return NewStore(products)
}

// NewStore validates products and indexes them by id. Duplicate ids and
// malformed records are rejected.
func NewStore(products []domain.Product) (*Store, error) {
	s := &Store{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[domain.ProductID]int, len(products)),
	}

	for i := range products {
		p := products[i]
		if err := validator.Validate(p); err != nil {
			return nil, fmt.Errorf("product #%d (%s): %w", i, p.ID, err)
		}
		if err := p.CheckPricing(); err != nil {
			return nil, fmt.Errorf("product #%d (%s): %w", i, p.ID, err)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("product #%d: duplicate id %s", i, p.ID)
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}

	return s, nil
}

// Get returns the product with the given id, or a NotFound error.
func (s *Store) Get(id domain.ProductID) (domain.Product, error) {
	idx, ok := s.byID[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", id.String())
	}
	return s.products[idx], nil
}

// All returns the products in catalog order. The returned slice is a copy.
func (s *Store) All() []domain.Product {
	return slices.Clone(s.products)
}

// Len returns the number of products.
func (s *Store) Len() int {
	return len(s.products)
}
