package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/assistive-store/internal/domain"
	"github.com/utafrali/assistive-store/internal/service"
	"github.com/utafrali/assistive-store/pkg/httputil"
	"github.com/utafrali/assistive-store/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service  *service.CartService
	products *service.ProductService
	logger   *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler. Products added by id are
// resolved through products.
func NewCartHandler(svc *service.CartService, products *service.ProductService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service:  svc,
		products: products,
		logger:   logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID       domain.ProductID `json:"product_id" validate:"required"`
	Quantity        int              `json:"quantity" validate:"lte=9999"`
	SelectedVariant domain.Variant   `json:"selected_variant"`
}

// UpdateQuantityRequest is the JSON request body for setting a line's quantity.
// Zero or negative removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=9999"`
}

// AddItemResponse carries the touched line and the cart after the add.
type AddItemResponse struct {
	Item domain.CartItem `json:"item"`
	Cart service.Summary `json:"cart"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.GetCart(r.Context())})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	item, cart, err := h.service.AddItemWithSummary(r.Context(), product, req.Quantity, req.SelectedVariant)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: AddItemResponse{Item: item, Cart: cart}})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{cartId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, ok := httputil.ParseInt64(w, "cartId", chi.URLParam(r, "cartId"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.UpdateItemQuantity(r.Context(), cartID, *req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.GetCart(r.Context())})
}

// RemoveItem handles DELETE /api/v1/cart/items/{cartId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := httputil.ParseInt64(w, "cartId", chi.URLParam(r, "cartId"))
	if !ok {
		return
	}

	if err := h.service.RemoveItem(r.Context(), cartID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.GetCart(r.Context())})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.GetCart(r.Context())})
}

// Lookup handles GET /api/v1/cart/lookup?product_id=..&size=..&color=..
// Every query parameter other than product_id is read as a variant axis.
func (h *CartHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	productID := values.Get("product_id")
	if productID == "" {
		httputil.WriteParamError(w, "product_id is required")
		return
	}

	var variant domain.Variant
	for axis := range values {
		if axis == "product_id" {
			continue
		}
		if v := values.Get(axis); v != "" {
			if variant == nil {
				variant = domain.Variant{}
			}
			variant[axis] = v
		}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: h.service.Lookup(r.Context(), domain.ProductID(productID), variant),
	})
}

// Checkout handles POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Checkout(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
