// Package search implements the catalog query pipeline: a pure, deterministic
// filter-then-sort over an in-memory product list.
package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/utafrali/assistive-store/internal/domain"
)

// Sort options.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// ValidSortOptions returns the list of valid sort options.
func ValidSortOptions() []string {
	return []string{SortName, SortPriceLow, SortPriceHigh, SortRating}
}

// IsValidSort checks whether the given sort string is a valid sort option.
func IsValidSort(sort string) bool {
	return slices.Contains(ValidSortOptions(), sort)
}

// Query holds the filter and sort selections. The zero value matches every
// product and orders by name.
type Query struct {
	Search   string           `json:"search"`
	Category string           `json:"category"`
	MinPrice *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
	SortBy   string           `json:"sort_by"`
}

// Run filters products by every active predicate of q and returns the
// survivors in q's sort order. Ties keep their input order. The input slice is
// never modified; the result is a fresh, non-nil slice.
func Run(products []domain.Product, q Query) []domain.Product {
	searchLower := strings.ToLower(q.Search)

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(&p, &q, searchLower) {
			matched = append(matched, p)
		}
	}

	sortProducts(matched, q.SortBy)
	return matched
}

// matches checks whether a product passes all of the query's predicates.
func matches(p *domain.Product, q *Query, searchLower string) bool {
	if searchLower != "" {
		if !strings.Contains(strings.ToLower(p.Name), searchLower) &&
			!strings.Contains(strings.ToLower(p.Description), searchLower) {
			return false
		}
	}

	if q.Category != "" && q.Category != domain.CategoryAll && p.Category != q.Category {
		return false
	}

	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}

	return true
}

// sortProducts orders products in place. Unknown or empty keys sort by name.
func sortProducts(products []domain.Product, sortBy string) {
	switch sortBy {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortRating:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	default:
		// Collators keep internal buffers, so each run gets its own.
		coll := collate.New(language.Und)
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return coll.CompareString(a.Name, b.Name)
		})
	}
}
