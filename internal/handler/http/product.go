package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/assistive-store/internal/domain"
	"github.com/utafrali/assistive-store/internal/search"
	"github.com/utafrali/assistive-store/internal/service"
	"github.com/utafrali/assistive-store/pkg/httputil"
	"github.com/utafrali/assistive-store/pkg/pagination"
)

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// ListProducts handles GET /api/v1/products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := search.Query{
		Search:   values.Get("search"),
		Category: values.Get("category"),
		SortBy:   values.Get("sort_by"),
	}

	if v := values.Get("min_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			httputil.WriteParamError(w, "min_price must be a valid number")
			return
		}
		q.MinPrice = &price
	}
	if v := values.Get("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			httputil.WriteParamError(w, "max_price must be a valid number")
			return
		}
		q.MaxPrice = &price
	}

	products := h.service.ListProducts(r.Context(), q)
	httputil.WriteJSON(w, http.StatusOK, pagination.Slice(products, pagination.FromRequest(r)))
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := domain.ProductID(chi.URLParam(r, "id"))

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListCategories handles GET /api/v1/categories.
func (h *ProductHandler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Categories()})
}
