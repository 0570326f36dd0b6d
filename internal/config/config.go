// Package config loads the storefront configuration from the environment.
// Storefront API credentials are optional: a missing endpoint or token is a
// soft condition and the server degrades to static data.
package config

import (
	"os"
	"time"
)

// Config is the full server configuration.
type Config struct {
	HTTPPort string

	// Storefront API collaborator.
	StoreDomain     string
	APIVersion      string
	StorefrontToken string

	// CheckoutHost is the canonical host checkout URLs are rewritten to.
	// Defaults to StoreDomain.
	CheckoutHost string

	// SnapshotPath is the JSON catalog snapshot produced at build time.
	SnapshotPath string

	// FavoritesDir holds per-session favorites files when Redis is not
	// configured.
	FavoritesDir string

	// RedisAddr, when set, stores favorites in Redis instead of files.
	RedisAddr string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// SessionTTL is how long an idle session's in-memory state is retained.
	SessionTTL time.Duration
}

// Load reads the configuration from the environment, with defaults for
// everything except the Storefront credentials.
func Load() *Config {
	domain := getEnv("SHOPIFY_STORE_DOMAIN", "")
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StoreDomain:     domain,
		APIVersion:      getEnv("STOREFRONT_API_VERSION", "2024-07"),
		StorefrontToken: getEnv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),
		CheckoutHost:    getEnv("CHECKOUT_HOST", domain),
		SnapshotPath:    getEnv("CATALOG_SNAPSHOT_PATH", "catalog.json"),
		FavoritesDir:    getEnv("FAVORITES_DIR", "data/favorites"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RequestTimeout:  15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SessionTTL:      30 * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
