package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	pkgconfig "github.com/utafrali/assistive-store/pkg/config"
	"github.com/utafrali/assistive-store/pkg/database"
	"github.com/utafrali/assistive-store/pkg/tracing"
)

// ServiceName labels logs, metrics, and traces.
const ServiceName = "assistive-store"

// Catalog sources.
const (
	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogPostgres = "postgres"
)

// Cart stores.
const (
	CartStoreBolt   = "bolt"
	CartStoreRedis  = "redis"
	CartStoreMemory = "memory"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int           `env:"STORE_HTTP_PORT" envDefault:"8080"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	CatalogCacheMaxAge time.Duration `env:"CATALOG_CACHE_MAX_AGE" envDefault:"5m"`
	PprofEnabled       bool          `env:"PPROF_ENABLED" envDefault:"false"`
	PprofAllowedCIDRs  []string      `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`

	// Per-client limit on cart mutations. Zero RPS disables limiting.
	CartRateLimitRPS   float64 `env:"CART_RATE_LIMIT_RPS" envDefault:"10"`
	CartRateLimitBurst int     `env:"CART_RATE_LIMIT_BURST" envDefault:"20"`

	// Catalog
	CatalogSource string `env:"CATALOG_SOURCE" envDefault:"embedded"`
	CatalogFile   string `env:"CATALOG_FILE"`

	// PostgreSQL catalog source
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"storefront_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"catalog"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Cart persistence
	CartStore          string        `env:"CART_STORE" envDefault:"bolt"`
	CartBoltPath       string        `env:"CART_BOLT_PATH" envDefault:"data/cart.db"`
	CartStorageKey     string        `env:"CART_STORAGE_KEY" envDefault:"fashe-cart"`
	SlowQueryThreshold time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`

	// Redis cart store
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Totals
	TaxRate decimal.Decimal `env:"TAX_RATE" envDefault:"0.08"`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load store config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads configuration from environ instead of the process
// environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, environ); err != nil {
		return nil, fmt.Errorf("load store config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !slices.Contains([]string{CatalogEmbedded, CatalogFile, CatalogPostgres}, c.CatalogSource) {
		return fmt.Errorf("invalid CATALOG_SOURCE %q", c.CatalogSource)
	}
	if c.CatalogSource == CatalogFile && c.CatalogFile == "" {
		return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
	}
	if !slices.Contains([]string{CartStoreBolt, CartStoreRedis, CartStoreMemory}, c.CartStore) {
		return fmt.Errorf("invalid CART_STORE %q", c.CartStore)
	}
	if c.CartStore == CartStoreBolt && c.CartBoltPath == "" {
		return fmt.Errorf("CART_BOLT_PATH is required when CART_STORE=bolt")
	}
	if c.CartStorageKey == "" {
		return fmt.Errorf("CART_STORAGE_KEY must not be empty")
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("TAX_RATE must be between 0 and 1, got %s", c.TaxRate)
	}
	if c.CartRateLimitRPS < 0 {
		return fmt.Errorf("CART_RATE_LIMIT_RPS must not be negative, got %v", c.CartRateLimitRPS)
	}
	if c.CartRateLimitRPS > 0 && c.CartRateLimitBurst < 1 {
		return fmt.Errorf("CART_RATE_LIMIT_BURST must be at least 1, got %d", c.CartRateLimitBurst)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0 and 1, got %v", c.OTELSampleRate)
	}
	return nil
}

// Postgres returns the pool configuration for the catalog source.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	return pg
}

// Redis returns the client configuration for the Redis cart store.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{Addr: c.RedisAddr, Password: c.RedisPass, DB: c.RedisDB}
}

// Tracing returns the OpenTelemetry configuration.
func (c *Config) Tracing() tracing.Config {
	tc := tracing.DefaultConfig(ServiceName)
	tc.Environment = c.Environment
	tc.Enabled = c.OTELEnabled
	tc.OTLPEndpoint = c.OTELEndpoint
	tc.SampleRate = c.OTELSampleRate
	return tc
}
