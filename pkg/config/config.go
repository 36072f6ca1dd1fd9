package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	// EnvPrefix is empty because every field carries its fully-qualified variable name.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	Cart         CartConfig
	Square       SquareConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LABCART_APP_ENV" required:"true"`
	Port         string `envconfig:"LABCART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LABCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LABCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"LABCART_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"LABCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LABCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LABCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LABCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LABCART_REDIS_URL"`
	Address      string        `envconfig:"LABCART_REDIS_ADDR"`
	Password     string        `envconfig:"LABCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"LABCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LABCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LABCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LABCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LABCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LABCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig centralizes the checkout constants so they are named
// configuration instead of literals scattered through handler code.
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal `envconfig:"LABCART_FREE_SHIPPING_THRESHOLD" default:"300"`
	StandardShippingFee   decimal.Decimal `envconfig:"LABCART_STANDARD_SHIPPING_FEE" default:"49.99"`
	ExpressShippingFee    decimal.Decimal `envconfig:"LABCART_EXPRESS_SHIPPING_FEE" default:"89.99"`
	TaxRate               decimal.Decimal `envconfig:"LABCART_TAX_RATE" default:"0.08"`
}

func (p PricingConfig) validate() error {
	if p.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("free shipping threshold cannot be negative")
	}
	if p.StandardShippingFee.IsNegative() || p.ExpressShippingFee.IsNegative() {
		return fmt.Errorf("shipping fees cannot be negative")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be within [0, 1)")
	}
	return nil
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"LABCART_CART_SESSION_TTL" default:"72h"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"LABCART_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"LABCART_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"LABCART_SQUARE_LOCATION_ID"`
}

// Environment reports the configured Square environment.
func (s SquareConfig) Environment() string {
	return strings.ToLower(strings.TrimSpace(s.Env))
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LABCART_FEATURE_AUTO_MIGRATE" default:"false"`
}
