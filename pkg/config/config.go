package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "TEACART"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv      = "TEACART_APP_ENV"
	EnvPort        = "TEACART_APP_PORT"
	EnvUpstreamURL = "TEACART_UPSTREAM_BASE_URL"
	EnvRedisURL    = "TEACART_REDIS_URL"
	EnvCacheDSN    = "TEACART_CACHE_DSN"
	EnvJWTSecret   = "TEACART_JWT_SECRET"
	EnvJWTIssuer   = "TEACART_JWT_ISSUER"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Cache    CacheDBConfig
	JWT      JWTConfig
	Snapshot SnapshotConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Snapshot.validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TEACART_APP_ENV" required:"true"`
	Port         string `envconfig:"TEACART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TEACART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEACART_LOG_WARN_STACK" default:"false"`

	ExtraCORSOrigins []string `envconfig:"TEACART_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the storefront backend that owns the cart REST API.
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"TEACART_UPSTREAM_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"TEACART_UPSTREAM_TIMEOUT" default:"10s"`
	FetchRetries   int           `envconfig:"TEACART_UPSTREAM_FETCH_RETRIES" default:"2"`
	FetchBackoff   time.Duration `envconfig:"TEACART_UPSTREAM_FETCH_BACKOFF" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TEACART_REDIS_URL"`
	Address      string        `envconfig:"TEACART_REDIS_ADDR"`
	Password     string        `envconfig:"TEACART_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEACART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEACART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEACART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TEACART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEACART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEACART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CacheDBConfig configures the relational snapshot cache (sqlite by default).
type CacheDBConfig struct {
	DSN    string `envconfig:"TEACART_CACHE_DSN" default:"file:teacart.db?cache=shared"`
	Driver string `envconfig:"TEACART_CACHE_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"TEACART_CACHE_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"TEACART_CACHE_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"TEACART_CACHE_CONN_MAX_LIFETIME" default:"1h"`
	AutoMigrate     bool          `envconfig:"TEACART_CACHE_AUTO_MIGRATE" default:"true"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TEACART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TEACART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TEACART_JWT_EXPIRATION_MINUTES" default:"60"`
}

// SnapshotConfig selects where warm-start cart state is persisted.
type SnapshotConfig struct {
	Backend string        `envconfig:"TEACART_SNAPSHOT_BACKEND" default:"redis"`
	TTL     time.Duration `envconfig:"TEACART_SNAPSHOT_TTL" default:"720h"`
}

const (
	SnapshotBackendRedis = "redis"
	SnapshotBackendSQL   = "sql"
)

func (s SnapshotConfig) validate(cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case SnapshotBackendRedis:
		if cfg.Redis.URL == "" && cfg.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis snapshot backend", EnvRedisURL, "TEACART_REDIS_ADDR")
		}
	case SnapshotBackendSQL:
		if cfg.Cache.DSN == "" {
			return fmt.Errorf("%s is required for the sql snapshot backend", EnvCacheDSN)
		}
	default:
		return fmt.Errorf("unknown snapshot backend %q", s.Backend)
	}
	return nil
}

// IsRedis reports whether the redis snapshot backend is selected.
func (s SnapshotConfig) IsRedis() bool {
	return strings.EqualFold(strings.TrimSpace(s.Backend), SnapshotBackendRedis)
}
