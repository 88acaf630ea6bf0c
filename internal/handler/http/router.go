package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/assistive-store/internal/config"
	"github.com/utafrali/assistive-store/internal/service"
	"github.com/utafrali/assistive-store/pkg/health"
	"github.com/utafrali/assistive-store/pkg/middleware"
)

// RouterOptions tunes the cross-cutting behavior of the router.
type RouterOptions struct {
	CORSAllowedOrigins []string
	// CatalogCacheMaxAge is advertised on catalog reads. Zero disables caching.
	CatalogCacheMaxAge time.Duration
	PprofEnabled       bool
	PprofAllowedCIDRs  []string
	// CartRateLimit bounds cart mutations per client. Zero RPS disables it.
	CartRateLimit middleware.RateLimitConfig
}

// OptionsFromConfig derives router options from the service configuration.
func OptionsFromConfig(cfg *config.Config) RouterOptions {
	return RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CatalogCacheMaxAge: cfg.CatalogCacheMaxAge,
		PprofEnabled:       cfg.PprofEnabled,
		PprofAllowedCIDRs:  cfg.PprofAllowedCIDRs,
		CartRateLimit: middleware.RateLimitConfig{
			RPS:   cfg.CartRateLimitRPS,
			Burst: cfg.CartRateLimitBurst,
		},
	}
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	productService *service.ProductService,
	cartService *service.CartService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	if len(opts.CORSAllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = opts.CORSAllowedOrigins
	}

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(corsCfg))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(config.ServiceName))
	r.Use(middleware.Tracing(config.ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if opts.PprofEnabled {
		middleware.RegisterPprof(r, opts.PprofAllowedCIDRs, logger)
	}

	productHandler := NewProductHandler(productService, logger)
	cartHandler := NewCartHandler(cartService, productService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.CatalogCacheMaxAge > 0 {
				r.Use(middleware.CacheControl(opts.CatalogCacheMaxAge))
			}
			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/{id}", productHandler.GetProduct)
			r.Get("/categories", productHandler.ListCategories)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Get("/", cartHandler.GetCart)
			r.Get("/lookup", cartHandler.Lookup)

			r.Group(func(r chi.Router) {
				if opts.CartRateLimit.RPS > 0 {
					r.Use(middleware.RateLimit(opts.CartRateLimit, logger))
				}
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/checkout", cartHandler.Checkout)

				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{cartId}", cartHandler.UpdateItemQuantity)
				r.Delete("/items/{cartId}", cartHandler.RemoveItem)
			})
		})
	})

	return r
}
