package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"go.uber.org/multierr"
)

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	CatalogPath string `default:"" usage:"Catalog JSON document, optionally .gz; empty uses the bundled catalog" flag:"catalog-path"`
	LowStock    int    `default:"10" usage:"Default low stock threshold" flag:"low-stock"`
	Session     SessionConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// SessionConfig controls shopper session lifetime.
type SessionConfig struct {
	TTL           time.Duration `default:"30m" usage:"Idle session lifetime"`
	SweepInterval time.Duration `default:"1m"  usage:"Idle session sweep interval" flag:"session-sweep-interval"`
	// Max is the live session count above which the service reports not ready.
	Max int `default:"100000" usage:"Max live sessions before readiness fails"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func loadConfig(ac aconfig.Config) (*Config, error) {
	var cfg Config
	if err := aconfig.LoaderFor(&cfg, ac).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Addr == "" {
		err = multierr.Append(err, errors.New("addr is required"))
	}
	if c.Session.TTL <= 0 {
		err = multierr.Append(err, errors.Errorf("session ttl must be positive, got %s", c.Session.TTL))
	}
	if c.Session.SweepInterval <= 0 {
		err = multierr.Append(err, errors.Errorf("session sweep interval must be positive, got %s", c.Session.SweepInterval))
	}
	if c.RateLimit.Max > 0 && c.RateLimit.Window <= 0 {
		err = multierr.Append(err, errors.New("rate limit window must be positive when limiting is enabled"))
	}
	if c.LowStock < 0 {
		err = multierr.Append(err, errors.Errorf("low stock threshold must not be negative, got %d", c.LowStock))
	}
	return err
}

// applyPlatformDefaults maps the PORT variable set by hosting platforms
// (Railway, Render, etc.) onto the default listen address.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
