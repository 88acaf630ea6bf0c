// Package app wires the storefront's dependencies together and runs the HTTP
// server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/assistive-store/internal/catalog"
	catalogpg "github.com/utafrali/assistive-store/internal/catalog/postgres"
	"github.com/utafrali/assistive-store/internal/config"
	handler "github.com/utafrali/assistive-store/internal/handler/http"
	"github.com/utafrali/assistive-store/internal/persistence"
	"github.com/utafrali/assistive-store/internal/service"
	"github.com/utafrali/assistive-store/internal/storage"
	boltstore "github.com/utafrali/assistive-store/internal/storage/bolt"
	"github.com/utafrali/assistive-store/internal/storage/memory"
	redisstore "github.com/utafrali/assistive-store/internal/storage/redis"
	"github.com/utafrali/assistive-store/pkg/database"
	"github.com/utafrali/assistive-store/pkg/health"
	"github.com/utafrali/assistive-store/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	store          storage.Store
	tracerShutdown func(context.Context) error
	handler        http.Handler
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)

	products, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		_ = tracerShutdown(ctx)
		return nil, err
	}
	logger.Info("catalog loaded",
		slog.String("source", cfg.CatalogSource),
		slog.Int("products", products.Len()),
	)

	store, err := openCartStore(ctx, cfg)
	if err != nil {
		_ = tracerShutdown(ctx)
		return nil, err
	}
	logger.Info("cart store opened",
		slog.String("backend", cfg.CartStore),
		slog.String("key", cfg.CartStorageKey),
	)

	// Build the dependency graph.
	adapter := persistence.NewAdapter(store, cfg.CartStorageKey, logger)
	productService := service.NewProductService(products, logger)
	cartService := service.NewCartService(ctx, adapter, logger, cfg.TaxRate)

	// Health checks.
	healthHandler := health.NewHandler(config.ServiceName)
	healthHandler.Register("cart_store", store.Ping)

	router := handler.NewRouter(productService, cartService, healthHandler, logger, handler.OptionsFromConfig(cfg))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		store:          store,
		tracerShutdown: tracerShutdown,
		handler:        router,
		httpServer:     httpServer,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error("cart store close error", slog.String("error", err.Error()))
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

// loadCatalog reads the product catalog once from the configured source. The
// PostgreSQL pool only lives for the duration of the load.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Store, error) {
	var src catalog.Source
	switch cfg.CatalogSource {
	case config.CatalogFile:
		fileSrc, err := catalog.NewFileSource(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		src = fileSrc
	case config.CatalogPostgres:
		pgCfg := cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect catalog database: %w", err)
		}
		defer pool.Close()
		src = catalogpg.NewSource(pool)
	default:
		src = catalog.NewEmbeddedSource()
	}

	store, err := catalog.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return store, nil
}

// openCartStore opens the configured key-value backend for the cart blob.
func openCartStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.CartStore {
	case config.CartStoreRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, fmt.Errorf("open redis cart store: %w", err)
		}
		return redisstore.New(client), nil
	case config.CartStoreMemory:
		return memory.New(), nil
	default:
		store, err := boltstore.Open(cfg.CartBoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt cart store: %w", err)
		}
		return store, nil
	}
}
