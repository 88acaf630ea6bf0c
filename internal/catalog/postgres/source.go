// Package postgres reads the product catalog from a PostgreSQL table.
package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/utafrali/assistive-store/internal/domain"
	"github.com/utafrali/assistive-store/pkg/database"
)

const listProductsSQL = `SELECT id::text, name, description, price::text, original_price::text,
	category, images, rating, reviews, in_stock, brand, sizes, colors
FROM products
ORDER BY id`

// Source implements catalog.Source over a products table.
type Source struct {
	db database.DBTX
}

// NewSource creates a new PostgreSQL-backed catalog source.
func NewSource(db database.DBTX) *Source {
	return &Source{db: db}
}

// Products loads every row of the products table ordered by id.
func (s *Source) Products(ctx context.Context) (products []domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "ListProducts", listProductsSQL)
	defer func() { end(err) }()

	rows, err := s.db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products = []domain.Product{}
	for rows.Next() {
		var (
			p             domain.Product
			id            string
			price         string
			originalPrice *string
			images        []string
		)
		if err = rows.Scan(
			&id, &p.Name, &p.Description, &price, &originalPrice,
			&p.Category, &images, &p.Rating, &p.Reviews, &p.InStock, &p.Brand, &p.Sizes, &p.Colors,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		p.ID = domain.ProductID(id)
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("product %s: parse price %q: %w", id, price, err)
		}
		if originalPrice != nil {
			op, perr := decimal.NewFromString(*originalPrice)
			if perr != nil {
				err = perr
				return nil, fmt.Errorf("product %s: parse original price %q: %w", id, *originalPrice, err)
			}
			p.OriginalPrice = &op
		}
		if images == nil {
			images = []string{}
		}
		p.Images = images

		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}
