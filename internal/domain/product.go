package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category tags advertised by the storefront.
const (
	CategoryAll           = "all"
	CategoryMobility      = "mobility"
	CategoryCommunication = "communication"
	CategoryDailyLife     = "daily-life"
	CategoryHealthAids    = "health-aids"
	CategoryEducation     = "education"
)

// Category is a selectable catalog category.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Categories returns the category list in display order, starting with "all".
func Categories() []Category {
	return []Category{
		{Value: CategoryAll, Label: "All Categories"},
		{Value: CategoryMobility, Label: "Mobility Aids"},
		{Value: CategoryCommunication, Label: "Communication Devices"},
		{Value: CategoryDailyLife, Label: "Daily Living Aids"},
		{Value: CategoryHealthAids, Label: "Health & Medical"},
		{Value: CategoryEducation, Label: "Educational Tools"},
	}
}

// PlaceholderImage is used for cart lines whose product has no images.
const PlaceholderImage = "/images/placeholder.jpg"

// ProductID identifies a product. Catalog sources may encode it as a JSON
// number or a JSON string; both decode to the same token.
type ProductID string

// UnmarshalJSON accepts both `"7"` and `7`.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

func (id ProductID) String() string { return string(id) }

// Product is an immutable catalog record.
type Product struct {
	ID            ProductID        `json:"id" validate:"required"`
	Name          string           `json:"name" validate:"required"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price" validate:"gte=0"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	Category      string           `json:"category"`
	Images        []string         `json:"images"`
	Rating        float64          `json:"rating" validate:"gte=0,lte=5"`
	Reviews       int              `json:"reviews" validate:"gte=0"`
	InStock       bool             `json:"in_stock"`
	Brand         string           `json:"brand"`
	Sizes         []string         `json:"sizes,omitempty"`
	Colors        []string         `json:"colors,omitempty"`
}

// PrimaryImage returns the first image, or the placeholder when there is none.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return PlaceholderImage
	}
	return p.Images[0]
}

// CheckPricing reports a pricing contract violation: a negative price, or an
// original price below the selling price.
func (p *Product) CheckPricing() error {
	if p.Price.IsNegative() {
		return fmt.Errorf("price must not be negative, got %s", p.Price)
	}
	if p.OriginalPrice != nil && p.OriginalPrice.LessThan(p.Price) {
		return fmt.Errorf("original price %s must not be below price %s", p.OriginalPrice, p.Price)
	}
	return nil
}
