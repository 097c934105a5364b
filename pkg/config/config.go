// Package config loads service configuration from the environment.
// A .env file in the working directory is read first when present; variables
// already set in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/market-query-api/pkg/logging"
)

// Config holds all service configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// RedisURL is either a host:port address or a redis:// URL.
	RedisURL string

	// RedisDB selects the Redis database when RedisURL is an address.
	RedisDB int

	// CachePrefix namespaces every cache key in Redis (optional).
	CachePrefix string

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	// DBMaxConns caps the PostgreSQL pool.
	DBMaxConns int

	// JWTSecret signs and verifies bearer tokens (required).
	JWTSecret string

	// JWTIssuer, when set, must match the iss claim.
	JWTIssuer string

	LogLevel  logging.LogLevel
	LogPretty bool

	// RequestTimeout bounds cache and store I/O per request.
	RequestTimeout time.Duration

	// GinMode is passed to gin.SetMode.
	GinMode string
}

// Load reads the given .env files (default ".env"), then the environment,
// and validates the result.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
		CachePrefix: getEnv("CACHE_PREFIX", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", ""),
		GinMode:     getEnv("GIN_MODE", "release"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURLFromParts()
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = logging.ParseLevel(getEnv("LOG_LEVEL", string(logging.LevelInfo))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.LogPretty, err = getEnvBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and ranges.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a TCP port (got %q)", c.Port))
	}
	if c.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("REDIS_DB must not be negative (got %d)", c.RedisDB))
	}
	if c.DBMaxConns <= 0 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be positive (got %d)", c.DBMaxConns))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive (got %s)", c.RequestTimeout))
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("GIN_MODE must be debug, release or test (got %q)", c.GinMode))
	}
	if _, err := c.RedisOptions(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RedisOptions builds go-redis options from RedisURL and RedisDB. A URL
// without a database path uses RedisDB; a URL naming a different database
// than a non-zero RedisDB is rejected.
func (c *Config) RedisOptions() (*redis.Options, error) {
	if strings.HasPrefix(c.RedisURL, "redis://") || strings.HasPrefix(c.RedisURL, "rediss://") {
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		u, err := url.Parse(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		switch {
		case strings.Trim(u.Path, "/") == "":
			opts.DB = c.RedisDB
		case c.RedisDB != 0 && c.RedisDB != opts.DB:
			return nil, fmt.Errorf("REDIS_DB=%d conflicts with database %d in REDIS_URL", c.RedisDB, opts.DB)
		}
		return opts, nil
	}
	if c.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	return &redis.Options{Addr: c.RedisURL, DB: c.RedisDB}, nil
}

// databaseURLFromParts builds a PostgreSQL URL from POSTGRES_* variables.
func databaseURLFromParts() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("POSTGRES_USER", "postgres"), getEnv("POSTGRES_PASSWORD", "postgres")),
		Host:     getEnv("POSTGRES_HOST", "localhost") + ":" + getEnv("POSTGRES_PORT", "5432"),
		Path:     "/" + getEnv("POSTGRES_DB", "market"),
		RawQuery: "sslmode=" + getEnv("POSTGRES_SSLMODE", "disable"),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, value)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean (got %q)", key, value)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 30s (got %q)", key, value)
	}
	return d, nil
}
