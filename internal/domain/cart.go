package domain

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/utafrali/assistive-store/pkg/errors"
)

// DefaultTaxRate is the flat rate applied when the caller does not supply one.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// MaxQuantity caps the quantity of a single line. Adds and updates beyond it
// saturate.
const MaxQuantity = 9999

// CartItem is one cart line: a product+variant combination, a snapshot of the
// product taken when it was first added, and a quantity.
type CartItem struct {
	CartID          int64            `json:"cart_id" validate:"gt=0"`
	ProductID       ProductID        `json:"product_id" validate:"required"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price" validate:"gte=0"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	Image           string           `json:"image"`
	Category        string           `json:"category"`
	Brand           string           `json:"brand"`
	InStock         bool             `json:"in_stock"`
	Quantity        int              `json:"quantity" validate:"gte=1,lte=9999"`
	SelectedVariant Variant          `json:"selected_variant"`
}

// LineTotal returns price × quantity.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i *CartItem) matches(productID ProductID, variant Variant) bool {
	return i.ProductID == productID && i.SelectedVariant.Equal(variant)
}

func (i CartItem) clone() CartItem {
	if i.OriginalPrice != nil {
		op := *i.OriginalPrice
		i.OriginalPrice = &op
	}
	i.SelectedVariant = i.SelectedVariant.Clone()
	return i
}

// Cart is the cart aggregate. At most one line exists per (product, variant)
// pair and every line has a quantity of at least one. Cart is not safe for
// concurrent use; callers serialize commands.
type Cart struct {
	items  []CartItem
	lastID int64
	now    func() time.Time
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return NewCartWithClock(time.Now)
}

// NewCartWithClock returns an empty cart that mints line ids from now.
func NewCartWithClock(now func() time.Time) *Cart {
	return &Cart{items: []CartItem{}, now: now}
}

// Add puts quantity units of product into the cart under the given variant.
// A repeated add of the same product+variant increases the existing line's
// quantity and keeps its original snapshot. Quantities below one are coerced
// to one, and a line never grows past MaxQuantity. The only error is an
// InvalidInput rejection for a malformed product.
func (c *Cart) Add(product Product, quantity int, variant Variant) (CartItem, error) {
	if product.ID == "" {
		return CartItem{}, apperrors.InvalidInput("product id is required")
	}
	if err := product.CheckPricing(); err != nil {
		return CartItem{}, apperrors.InvalidInput(err.Error())
	}
	quantity = min(max(quantity, 1), MaxQuantity)

	if idx := c.indexOf(product.ID, variant); idx >= 0 {
		c.items[idx].Quantity = min(c.items[idx].Quantity+quantity, MaxQuantity)
		return c.items[idx].clone(), nil
	}

	item := CartItem{
		CartID:          c.nextID(),
		ProductID:       product.ID,
		Name:            product.Name,
		Price:           product.Price,
		Image:           product.PrimaryImage(),
		Category:        product.Category,
		Brand:           product.Brand,
		InStock:         product.InStock,
		Quantity:        quantity,
		SelectedVariant: variant.Clone(),
	}
	if product.OriginalPrice != nil {
		op := *product.OriginalPrice
		item.OriginalPrice = &op
	}
	c.items = append(c.items, item)
	return item.clone(), nil
}

// Remove deletes the line with cartID. It reports whether a line was removed.
func (c *Cart) Remove(cartID int64) bool {
	for i := range c.items {
		if c.items[i].CartID == cartID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity replaces the quantity of the line with cartID. A quantity of
// zero or less removes the line; anything above MaxQuantity is capped. It
// reports whether the cart changed.
func (c *Cart) SetQuantity(cartID int64, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(cartID)
	}
	quantity = min(quantity, MaxQuantity)
	for i := range c.items {
		if c.items[i].CartID == cartID {
			if c.items[i].Quantity == quantity {
				return false
			}
			c.items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// Clear empties the cart. It reports whether there was anything to remove.
func (c *Cart) Clear() bool {
	if len(c.items) == 0 {
		return false
	}
	c.items = []CartItem{}
	return true
}

// Load replaces the item list wholesale. Items are trusted to already satisfy
// the cart invariants; no merging happens here.
func (c *Cart) Load(items []CartItem) {
	c.items = make([]CartItem, 0, len(items))
	for _, item := range items {
		c.items = append(c.items, item.clone())
		if item.CartID > c.lastID {
			c.lastID = item.CartID
		}
	}
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	for i := range c.items {
		out[i] = c.items[i].clone()
	}
	return out
}

// Find returns the line with cartID.
func (c *Cart) Find(cartID int64) (CartItem, bool) {
	for i := range c.items {
		if c.items[i].CartID == cartID {
			return c.items[i].clone(), true
		}
	}
	return CartItem{}, false
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Count returns the total number of units across all lines.
func (c *Cart) Count() int {
	var count int
	for i := range c.items {
		count += c.items[i].Quantity
	}
	return count
}

// Subtotal returns the sum of price × quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.items {
		total = total.Add(c.items[i].LineTotal())
	}
	return total
}

// Tax returns Subtotal() × rate.
func (c *Cart) Tax(rate decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Mul(rate)
}

// GrandTotal returns Subtotal() + Tax(rate).
func (c *Cart) GrandTotal(rate decimal.Decimal) decimal.Decimal {
	subtotal := c.Subtotal()
	return subtotal.Add(subtotal.Mul(rate))
}

// Contains reports whether a line exists for the product+variant pair.
func (c *Cart) Contains(productID ProductID, variant Variant) bool {
	return c.indexOf(productID, variant) >= 0
}

// QuantityOf returns the quantity held for the product+variant pair, or 0.
func (c *Cart) QuantityOf(productID ProductID, variant Variant) int {
	if idx := c.indexOf(productID, variant); idx >= 0 {
		return c.items[idx].Quantity
	}
	return 0
}

func (c *Cart) indexOf(productID ProductID, variant Variant) int {
	for i := range c.items {
		if c.items[i].matches(productID, variant) {
			return i
		}
	}
	return -1
}

// nextID mints a line id that is strictly greater than every id issued or
// loaded so far. Wall-clock milliseconds seed it so ids stay unique across
// restarts even after the cart was cleared.
func (c *Cart) nextID() int64 {
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}
