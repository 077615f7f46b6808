package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Redis       RedisConfig
	WooCommerce WooCommerceConfig
	Auth        AuthConfig
	Validation  ValidationConfig
	Worker      WorkerConfig
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// WooCommerceConfig contains the upstream store API parameters. BaseURL points
// at the WordPress site root; REST namespaces are appended by the client.
type WooCommerceConfig struct {
	BaseURL      string
	ServiceToken string
	AllowedHosts []string
}

// AuthConfig contains parameters for the WordPress JWT authentication provider.
type AuthConfig struct {
	BaseURL    string
	SessionTTL time.Duration
}

// ValidationConfig contains tuning for the SKU validation pipeline.
type ValidationConfig struct {
	QuietPeriod time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CatalogSyncInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// WooCommerce store
	cfg.WooCommerce = WooCommerceConfig{
		BaseURL:      strings.TrimSuffix(getEnv("WOOCOMMERCE_BASE_URL", ""), "/"),
		ServiceToken: getEnv("WOOCOMMERCE_SERVICE_TOKEN", ""),
		AllowedHosts: splitEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000"),
	}

	// Auth provider (WordPress JWT plugin). Defaults to the store site itself.
	cfg.Auth = AuthConfig{
		BaseURL: strings.TrimSuffix(getEnv("AUTH_BASE_URL", cfg.WooCommerce.BaseURL), "/"),
	}

	var err error
	if cfg.Auth.SessionTTL, err = parseDurationEnv("SESSION_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.Validation.QuietPeriod, err = parseDurationEnv("SKU_QUIET_PERIOD", "400ms"); err != nil {
		return nil, fmt.Errorf("invalid SKU_QUIET_PERIOD: %w", err)
	}
	if cfg.Worker.CatalogSyncInterval, err = parseDurationEnv("CATALOG_SYNC_INTERVAL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_SYNC_INTERVAL: %w", err)
	}

	if cfg.WooCommerce.BaseURL == "" {
		return nil, errors.New("store configuration incomplete: ensure WOOCOMMERCE_BASE_URL is set")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// splitEnv reads a comma-separated environment variable into a trimmed slice.
func splitEnv(key, def string) []string {
	parts := strings.Split(getEnv(key, def), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
