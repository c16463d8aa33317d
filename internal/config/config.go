package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// EnvProduction is the APP_ENV value that enables production hardening.
	EnvProduction = "production"

	developmentJWTSecret = "dev-only-insecure-secret"
)

// ErrMissingJWTSecret is returned by Validate when production runs without a signing key.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env          string
	ServerPort   string
	MySQLDSN     string
	ResetDB      bool
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int
	CookieSecure bool
	LogLevel     string
	LogFormat    string
	UserCacheTTL time.Duration
	SwaggerHost  string
	RateLimit    RateLimitConfig
	Seed         SeedConfig
}

// RateLimitConfig holds the per-role request budgets for one window.
type RateLimitConfig struct {
	Window time.Duration
	Admin  int
	User   int
	Guest  int
}

// SeedConfig describes the admin account created by cmd/seed.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load builds Config from environment with sensible defaults.
// The JWT secret falls back to a fixed development value outside production;
// call Validate before serving traffic.
func Load() *Config {
	env := strings.ToLower(getEnv("APP_ENV", "development"))

	secret := os.Getenv("JWT_SECRET")
	if secret == "" && env != EnvProduction {
		secret = developmentJWTSecret
	}

	return &Config{
		Env:          env,
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		MySQLDSN:     getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:      getEnvBool("RESET_DB", false),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    secret,
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
		BcryptCost:   getEnvInt("BCRYPT_COST", 10),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		UserCacheTTL: getEnvDuration("USER_CACHE_TTL", 5*time.Minute),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
		RateLimit: RateLimitConfig{
			Window: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			Admin:  getEnvInt("RATE_LIMIT_ADMIN", 20),
			User:   getEnvInt("RATE_LIMIT_USER", 10),
			Guest:  getEnvInt("RATE_LIMIT_GUEST", 5),
		},
		Seed: SeedConfig{
			AdminName:     getEnv("SEED_ADMIN_NAME", "Administrator"),
			AdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
			AdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		},
	}
}

// IsProduction reports whether the process runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate fails fast on configuration the process must not start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
