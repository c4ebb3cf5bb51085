package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigin      []string      `env:"CORS_ORIGIN" envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	MasterDatabaseURL  string        `env:"MASTER_DATABASE_URL,required"`
	TenantDatabaseURL  string        `env:"TENANT_DATABASE_URL,required"`
	DefaultTenantDB    string        `env:"DEFAULT_TENANT_DB"`
	TenantPoolMaxConns int32         `env:"TENANT_POOL_MAX_CONNS" envDefault:"10"`
	TenantCacheTTL     time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	TenantAutoMigrate  bool          `env:"TENANT_AUTO_MIGRATE" envDefault:"false"`
	StrictStock        bool          `env:"STRICT_STOCK" envDefault:"false"`

	JWTSecret      string        `env:"JWT_SECRET"`
	JWTJWKSURL     string        `env:"JWT_JWKS_URL"`
	JWTTTL         time.Duration `env:"JWT_TTL" envDefault:"12h"`
	LoginRateLimit float64       `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginAttempts  int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	LoginWindow    time.Duration `env:"LOGIN_WINDOW" envDefault:"15m"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"pos-images"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	LowStockInterval time.Duration `env:"LOW_STOCK_INTERVAL" envDefault:"30m"`
}

// Load reads configuration from environment variables, after loading a
// .env file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations the struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" && c.JWTJWKSURL == "" {
		errs = append(errs, errors.New("one of JWT_SECRET or JWT_JWKS_URL is required"))
	}
	if c.TenantPoolMaxConns <= 0 {
		errs = append(errs, errors.New("TENANT_POOL_MAX_CONNS must be positive"))
	}
	if c.LowStockInterval <= 0 {
		errs = append(errs, errors.New("LOW_STOCK_INTERVAL must be positive"))
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		errs = append(errs, errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT"))
	}
	return errors.Join(errs...)
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
