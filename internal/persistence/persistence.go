// Package persistence writes the cart's line items through to a key/value
// store and rehydrates them at startup.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/utafrali/assistive-store/internal/domain"
	"github.com/utafrali/assistive-store/internal/storage"
	apperrors "github.com/utafrali/assistive-store/pkg/errors"
	"github.com/utafrali/assistive-store/pkg/validator"
)

// DefaultKey is the storage key the cart is kept under.
const DefaultKey = "fashe-cart"

var (
	savesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persistence_saves_total",
		Help: "Cart write-through attempts by result.",
	}, []string{"result"})

	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persistence_loads_total",
		Help: "Cart rehydrations by outcome.",
	}, []string{"outcome"})
)

// Load outcomes.
const (
	outcomeLoaded  = "loaded"
	outcomeAbsent  = "absent"
	outcomeInvalid = "invalid"
	outcomeError   = "read_error"
)

// Adapter serializes the full item list under a single key.
type Adapter struct {
	store  storage.Store
	key    string
	logger *slog.Logger
}

// NewAdapter creates an Adapter. An empty key falls back to DefaultKey.
func NewAdapter(store storage.Store, key string, logger *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{store: store, key: key, logger: logger}
}

// Key returns the storage key in use.
func (a *Adapter) Key() string { return a.key }

// Save overwrites the stored value with items encoded as a JSON array.
func (a *Adapter) Save(ctx context.Context, items []domain.CartItem) error {
	data, err := Encode(items)
	if err != nil {
		savesTotal.WithLabelValues("error").Inc()
		return err
	}
	if err := a.store.Set(ctx, a.key, data); err != nil {
		savesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("write %s: %w", a.key, err)
	}
	savesTotal.WithLabelValues("ok").Inc()
	return nil
}

// Load returns the stored items. It never fails: an absent key, unreadable
// storage, malformed JSON or a schema violation all yield an empty list.
func (a *Adapter) Load(ctx context.Context) []domain.CartItem {
	data, err := a.store.Get(ctx, a.key)
	switch {
	case apperrors.IsNotFound(err):
		loadsTotal.WithLabelValues(outcomeAbsent).Inc()
		return []domain.CartItem{}
	case err != nil:
		loadsTotal.WithLabelValues(outcomeError).Inc()
		a.logger.WarnContext(ctx, "cart storage unreadable, starting empty",
			slog.String("key", a.key),
			slog.String("error", err.Error()),
		)
		return []domain.CartItem{}
	}

	items, err := Decode(data)
	if err != nil {
		loadsTotal.WithLabelValues(outcomeInvalid).Inc()
		a.logger.WarnContext(ctx, "discarding malformed persisted cart",
			slog.String("key", a.key),
			slog.String("error", err.Error()),
		)
		return []domain.CartItem{}
	}

	loadsTotal.WithLabelValues(outcomeLoaded).Inc()
	a.logger.InfoContext(ctx, "cart rehydrated",
		slog.String("key", a.key),
		slog.Int("lines", len(items)),
	)
	return items
}

// record is the stored shape of one line. cart_id may be a JSON number or a
// numeric string.
type record struct {
	CartID          lineID           `json:"cart_id"`
	ProductID       domain.ProductID `json:"product_id"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	Image           string           `json:"image"`
	Category        string           `json:"category"`
	Brand           string           `json:"brand"`
	InStock         bool             `json:"in_stock"`
	Quantity        int              `json:"quantity"`
	SelectedVariant domain.Variant   `json:"selected_variant"`
}

type lineID int64

func (id *lineID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("cart_id %q is not an integer token", s)
		}
		*id = lineID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cart_id must be an integer: %w", err)
	}
	*id = lineID(n)
	return nil
}

// Encode renders items as the stored JSON array. A nil slice encodes as [].
func Encode(items []domain.CartItem) ([]byte, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return data, nil
}

// Decode parses a stored blob and checks every line against the cart
// invariants: valid fields, unique cart ids and one line per product+variant.
func Decode(data []byte) ([]domain.CartItem, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if records == nil {
		return nil, fmt.Errorf("decode cart: expected an array")
	}

	items := make([]domain.CartItem, 0, len(records))
	ids := make(map[int64]struct{}, len(records))
	type lineKey struct {
		product domain.ProductID
		variant string
	}
	lines := make(map[lineKey]struct{}, len(records))
	for i, r := range records {
		item := domain.CartItem{
			CartID:          int64(r.CartID),
			ProductID:       r.ProductID,
			Name:            r.Name,
			Price:           r.Price,
			OriginalPrice:   r.OriginalPrice,
			Image:           r.Image,
			Category:        r.Category,
			Brand:           r.Brand,
			InStock:         r.InStock,
			Quantity:        r.Quantity,
			SelectedVariant: r.SelectedVariant.Clone(),
		}
		if err := validator.Validate(item); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		if _, dup := ids[item.CartID]; dup {
			return nil, fmt.Errorf("line %d: duplicate cart_id %d", i, item.CartID)
		}
		ids[item.CartID] = struct{}{}

		key := lineKey{product: item.ProductID, variant: item.SelectedVariant.Key()}
		if _, dup := lines[key]; dup {
			return nil, fmt.Errorf("line %d: duplicate line for product %s", i, item.ProductID)
		}
		lines[key] = struct{}{}

		items = append(items, item)
	}
	return items, nil
}
