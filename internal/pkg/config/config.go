package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/tenancy"
)

// Config holds all application configuration.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// TopologyMode selects how tenants are addressed through the host name:
	// local-bare, local-wildcard, or production.
	TopologyMode      string `env:"TOPOLOGY_MODE" envDefault:"production"`
	LocalWildcardRoot string `env:"LOCAL_WILDCARD_ROOT" envDefault:"lvh.me"`
	ProductionRoot    string `env:"PRODUCTION_ROOT" envDefault:"multisaas.app"`

	UpstreamURL     string  `env:"UPSTREAM_API_URL,required"`
	UpstreamRateRPS float64 `env:"UPSTREAM_RATE_LIMIT" envDefault:"10"`

	// TenantCacheTTL bounds how long a session's tenant list is served
	// without a fresh upstream fetch.
	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`

	JWTSecret  string        `env:"JWT_SECRET,required"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// RedisAddr is optional; when empty the tenant-scoped store runs without
	// a storage medium and every operation no-ops.
	RedisAddr string `env:"REDIS_ADDR"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values env tags cannot express.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.TopologyMode, validation.Required, validation.In(
			string(tenancy.ModeLocalBare),
			string(tenancy.ModeLocalWildcard),
			string(tenancy.ModeProduction),
		)),
		validation.Field(&c.LocalWildcardRoot, validation.Required.When(c.TopologyMode == string(tenancy.ModeLocalWildcard))),
		validation.Field(&c.ProductionRoot, validation.Required.When(c.TopologyMode == string(tenancy.ModeProduction))),
		validation.Field(&c.UpstreamRateRPS, validation.Min(0.1)),
		validation.Field(&c.TenantCacheTTL, validation.Required),
	)
}

// Environment builds the injected topology context used by subdomain
// extraction and tenant resolution.
func (c *Config) Environment() tenancy.Environment {
	return tenancy.Environment{
		Mode:           tenancy.Mode(c.TopologyMode),
		LocalRoot:      c.LocalWildcardRoot,
		ProductionRoot: c.ProductionRoot,
	}
}
