package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/assistive-store/internal/domain"
	apperrors "github.com/utafrali/assistive-store/pkg/errors"
)

// CartPersister is the write-through target for cart state.
type CartPersister interface {
	Save(ctx context.Context, items []domain.CartItem) error
	Load(ctx context.Context) []domain.CartItem
}

// Summary is a read model of the cart with its derived totals.
type Summary struct {
	Items      []domain.CartItem `json:"items"`
	Lines      int               `json:"lines"`
	Count      int               `json:"count"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Tax        decimal.Decimal   `json:"tax"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
	TaxRate    decimal.Decimal   `json:"tax_rate"`
}

// Lookup answers whether a product+variant is already in the cart.
type Lookup struct {
	InCart   bool `json:"in_cart"`
	Quantity int  `json:"quantity"`
}

// Option customizes a CartService.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used to mint line ids.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// CartService is the single writer of the cart aggregate. Every command runs
// to completion under one mutex and writes the resulting state through to
// the persister when it changed anything.
type CartService struct {
	mu      sync.Mutex
	cart    *domain.Cart
	store   CartPersister
	logger  *slog.Logger
	taxRate decimal.Decimal
}

// NewCartService creates the service and rehydrates the cart from store. This
// is the only time store.Load is called.
func NewCartService(ctx context.Context, store CartPersister, logger *slog.Logger, taxRate decimal.Decimal, opts ...Option) *CartService {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	cart := domain.NewCartWithClock(o.now)
	cart.Load(store.Load(ctx))

	return &CartService{
		cart:    cart,
		store:   store,
		logger:  logger,
		taxRate: taxRate,
	}
}

// AddItem adds quantity units of product under variant. It returns the
// resulting line.
func (s *CartService) AddItem(ctx context.Context, product domain.Product, quantity int, variant domain.Variant) (domain.CartItem, error) {
	item, _, err := s.AddItemWithSummary(ctx, product, quantity, variant)
	return item, err
}

// AddItemWithSummary is AddItem that also returns the cart as it stands right
// after the add, read under the same lock.
func (s *CartService) AddItemWithSummary(ctx context.Context, product domain.Product, quantity int, variant domain.Variant) (domain.CartItem, Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.cart.Add(product, quantity, variant)
	if err != nil {
		s.logger.WarnContext(ctx, "add to cart rejected",
			slog.String("product_id", product.ID.String()),
			slog.String("error", err.Error()),
		)
		return domain.CartItem{}, Summary{}, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.Int64("cart_id", item.CartID),
		slog.String("product_id", item.ProductID.String()),
		slog.String("variant", item.SelectedVariant.Key()),
		slog.Int("quantity", item.Quantity),
	)

	return item, s.summary(), s.persist(ctx)
}

// RemoveItem deletes the line with cartID. Unknown ids are a no-op.
func (s *CartService) RemoveItem(ctx context.Context, cartID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Remove(cartID) {
		s.logger.DebugContext(ctx, "remove ignored, no such line", slog.Int64("cart_id", cartID))
		return nil
	}

	s.logger.InfoContext(ctx, "item removed from cart", slog.Int64("cart_id", cartID))
	return s.persist(ctx)
}

// UpdateItemQuantity sets the quantity of the line with cartID. Zero or a
// negative quantity removes the line; unknown ids are a no-op.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.SetQuantity(cartID, quantity) {
		return nil
	}

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.Int64("cart_id", cartID),
		slog.Int("quantity", quantity),
	)
	return s.persist(ctx)
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Clear() {
		return nil
	}

	s.logger.InfoContext(ctx, "cart cleared")
	return s.persist(ctx)
}

// Checkout completes the purchase flow: it returns the summary as it was and
// empties the cart.
func (s *CartService) Checkout(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Len() == 0 {
		return Summary{}, apperrors.InvalidInput("cart is empty")
	}

	summary := s.summary()
	s.cart.Clear()

	s.logger.InfoContext(ctx, "checkout completed",
		slog.Int("lines", summary.Lines),
		slog.Int("count", summary.Count),
		slog.String("grand_total", summary.GrandTotal.StringFixed(2)),
	)
	return summary, s.persist(ctx)
}

// GetCart returns the current cart and totals.
func (s *CartService) GetCart(_ context.Context) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summary()
}

// Lookup reports whether productID with variant is in the cart and how many.
func (s *CartService) Lookup(_ context.Context, productID domain.ProductID, variant domain.Variant) Lookup {
	s.mu.Lock()
	defer s.mu.Unlock()

	qty := s.cart.QuantityOf(productID, variant)
	return Lookup{InCart: qty > 0, Quantity: qty}
}

// TaxRate returns the rate applied to the subtotal.
func (s *CartService) TaxRate() decimal.Decimal {
	return s.taxRate
}

func (s *CartService) summary() Summary {
	subtotal := s.cart.Subtotal()
	tax := subtotal.Mul(s.taxRate)
	return Summary{
		Items:      s.cart.Items(),
		Lines:      s.cart.Len(),
		Count:      s.cart.Count(),
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
		TaxRate:    s.taxRate,
	}
}

// persist writes the current items through. Must be called with s.mu held.
func (s *CartService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.cart.Items()); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.Int("lines", s.cart.Len()),
			slog.String("error", err.Error()),
		)
		return apperrors.Internal(fmt.Errorf("persist cart: %w", err))
	}
	return nil
}
