// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from PATHWAY_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Lead store modes.
const (
	LeadStoreDatabase = "database"
	LeadStoreNone     = "none"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"PATHWAY_DB_PATH" envDefault:"./data/pathway.db"`
	SessionSecret string `env:"PATHWAY_SESSION_SECRET,required"`
	ServerHost    string `env:"PATHWAY_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PATHWAY_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"PATHWAY_ENV" envDefault:"development"`
	LogLevel      string `env:"PATHWAY_LOG_LEVEL" envDefault:"info"`
	BaseURL       string `env:"PATHWAY_BASE_URL" envDefault:"http://localhost:8080"`

	// Document store; SQLite documents when empty
	MongoURI      string `env:"PATHWAY_MONGO_URI"`
	MongoDatabase string `env:"PATHWAY_MONGO_DATABASE" envDefault:"pathway"`

	// Cache configuration
	RedisURL     string `env:"PATHWAY_REDIS_URL"`
	CachePrefix  string `env:"PATHWAY_CACHE_PREFIX" envDefault:"pathway:"`
	HomeCacheTTL int    `env:"PATHWAY_HOME_CACHE_TTL" envDefault:"300"` // seconds
	CacheMaxSize int    `env:"PATHWAY_CACHE_MAX_SIZE" envDefault:"10000"`

	// Image host; local disk unless an S3 bucket is set
	UploadsDir     string `env:"PATHWAY_UPLOADS_DIR" envDefault:"./uploads"`
	UploadsBaseURL string `env:"PATHWAY_UPLOADS_BASE_URL" envDefault:"/uploads"`
	S3Bucket       string `env:"PATHWAY_S3_BUCKET"`
	S3Region       string `env:"PATHWAY_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"PATHWAY_S3_ENDPOINT"`
	S3PublicURL    string `env:"PATHWAY_S3_PUBLIC_URL"`

	GeoIPDBPath string `env:"PATHWAY_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	LeadStore string `env:"PATHWAY_LEAD_STORE" envDefault:"database"`

	// Seeding configuration
	DoSeed        bool   `env:"PATHWAY_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"PATHWAY_ADMIN_EMAIL"`
	AdminPassword string `env:"PATHWAY_ADMIN_PASSWORD"`
	AdminName     string `env:"PATHWAY_ADMIN_NAME" envDefault:"Administrator"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseMongo returns true if MongoDB holds the document collections.
func (c Config) UseMongo() bool {
	return c.MongoURI != ""
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseS3 returns true if uploads go to an S3 bucket.
func (c Config) UseS3() bool {
	return c.S3Bucket != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// PersistLeads reports whether captured leads are written to the database.
func (c Config) PersistLeads() bool {
	return c.LeadStore == LeadStoreDatabase
}

// HomeCacheDuration returns the homepage cache window.
func (c Config) HomeCacheDuration() time.Duration {
	return time.Duration(c.HomeCacheTTL) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("PATHWAY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("PATHWAY_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("PATHWAY_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	cfg.LeadStore = strings.ToLower(strings.TrimSpace(cfg.LeadStore))
	if cfg.LeadStore != LeadStoreDatabase && cfg.LeadStore != LeadStoreNone {
		return nil, fmt.Errorf("PATHWAY_LEAD_STORE must be %q or %q, got %q",
			LeadStoreDatabase, LeadStoreNone, cfg.LeadStore)
	}

	if cfg.HomeCacheTTL < 0 {
		return nil, fmt.Errorf("PATHWAY_HOME_CACHE_TTL must not be negative, got %d", cfg.HomeCacheTTL)
	}

	if cfg.DoSeed && (cfg.AdminEmail == "" || cfg.AdminPassword == "") {
		return nil, fmt.Errorf("PATHWAY_DO_SEED requires PATHWAY_ADMIN_EMAIL and PATHWAY_ADMIN_PASSWORD")
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
