// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"net/url"
	"time"
)

// DefaultPrefix namespaces every key this application writes to Redis.
const DefaultPrefix = "pathway:"

// Config selects and tunes the cache backend.
type Config struct {
	// RedisURL selects Redis when set. Example: redis://localhost:6379/0.
	RedisURL string

	// Prefix is the Redis key prefix. Defaults to DefaultPrefix.
	Prefix string

	DefaultTTL time.Duration

	// MaxSize caps the memory backend (0 = unlimited).
	MaxSize int
}

// DefaultConfig returns the in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:     DefaultPrefix,
		DefaultTTL: 5 * time.Minute,
		MaxSize:    10000,
	}
}

// New creates the configured cache. When Redis is configured but cannot be
// reached, it logs a warning and falls back to memory so the site keeps
// serving.
func New(cfg Config, logger *slog.Logger) Cacher {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(RedisCacheOptions{
			URL:         cfg.RedisURL,
			Prefix:      cfg.Prefix,
			DefaultTTL:  cfg.DefaultTTL,
			PoolSize:    10,
			DialTimeout: 5 * time.Second,
			IOTimeout:   3 * time.Second,
		})
		if err == nil {
			logger.Info("cache backend ready", "backend", "redis", "url", SanitizeRedisURL(cfg.RedisURL))
			return rc
		}
		logger.Warn("redis unavailable, using memory cache",
			"url", SanitizeRedisURL(cfg.RedisURL), "error", err)
	}

	logger.Info("cache backend ready", "backend", "memory")
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL: cfg.DefaultTTL,
		MaxSize:    cfg.MaxSize,
	})
}

// SanitizeRedisURL masks the password in a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
