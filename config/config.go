// Package config loads the storefront settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CatalogStatic   = "static"
	CatalogPostgres = "postgres"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	Env      string
	HTTPAddr string

	CatalogSource string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	SessionTTL     time.Duration
	SweepInterval  time.Duration

	CartBounce time.Duration
}

// Load reads the configuration. Missing values fall back to defaults that
// run the storefront from the built-in catalog with in-memory carts.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		CatalogSource:    strings.ToLower(getEnv("CATALOG_SOURCE", CatalogStatic)),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "storefront"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "storefront"),
		SessionBackend:   strings.ToLower(getEnv("SESSION_BACKEND", SessionMemory)),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SessionTTL:       getDuration("SESSION_TTL", 24*time.Hour),
		SweepInterval:    getDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		CartBounce:       getDuration("CART_BOUNCE", 600*time.Millisecond),
	}

	switch cfg.CatalogSource {
	case CatalogStatic, CatalogPostgres:
	default:
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}
	switch cfg.SessionBackend {
	case SessionMemory, SessionRedis:
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	return cfg, nil
}

// PostgresDSN builds a lib/pq connection URL with the credentials escaped.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresHost, c.PostgresPort),
		Path:     c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
