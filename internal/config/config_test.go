// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PATHWAY_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/pathway.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/pathway.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LeadStore != LeadStoreDatabase || !cfg.PersistLeads() {
		t.Errorf("LeadStore = %q, want %q", cfg.LeadStore, LeadStoreDatabase)
	}
	if got := cfg.HomeCacheDuration(); got != 5*time.Minute {
		t.Errorf("HomeCacheDuration() = %v, want 5m", got)
	}
	if cfg.CachePrefix != "pathway:" {
		t.Errorf("CachePrefix = %q, want %q", cfg.CachePrefix, "pathway:")
	}
	if cfg.UseMongo() || cfg.UseRedisCache() || cfg.UseS3() || cfg.GeoIPEnabled() {
		t.Error("optional backends should be disabled by default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	customSecret := "custom-secret-key-32-bytes-long!"
	setEnv(t, "PATHWAY_SESSION_SECRET", customSecret)
	setEnv(t, "PATHWAY_DB_PATH", "/custom/path.db")
	setEnv(t, "PATHWAY_SERVER_HOST", "0.0.0.0")
	setEnv(t, "PATHWAY_SERVER_PORT", "3000")
	setEnv(t, "PATHWAY_ENV", "production")
	setEnv(t, "PATHWAY_LOG_LEVEL", "debug")
	setEnv(t, "PATHWAY_BASE_URL", "https://pathway.example/")
	setEnv(t, "PATHWAY_MONGO_URI", "mongodb://localhost:27017")
	setEnv(t, "PATHWAY_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "PATHWAY_S3_BUCKET", "pathway-uploads")
	setEnv(t, "PATHWAY_HOME_CACHE_TTL", "60")
	setEnv(t, "PATHWAY_LEAD_STORE", "None")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SessionSecret != customSecret {
		t.Errorf("SessionSecret = %q, want %q", cfg.SessionSecret, customSecret)
	}
	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.BaseURL != "https://pathway.example" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if !cfg.UseMongo() || !cfg.UseRedisCache() || !cfg.UseS3() {
		t.Error("configured backends should be enabled")
	}
	if cfg.HomeCacheDuration() != time.Minute {
		t.Errorf("HomeCacheDuration() = %v, want 1m", cfg.HomeCacheDuration())
	}
	if cfg.LeadStore != LeadStoreNone || cfg.PersistLeads() {
		t.Errorf("LeadStore = %q, want %q", cfg.LeadStore, LeadStoreNone)
	}
}

func TestLoad_RequiredSessionSecret(t *testing.T) {
	os.Clearenv()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail when PATHWAY_SESSION_SECRET is not set")
	}
}

func TestLoad_SessionSecretTooShort(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"short", "short"},
		{"31_bytes", "1234567890123456789012345678901"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "PATHWAY_SESSION_SECRET", tt.secret)

			if _, err := Load(); err == nil {
				t.Fatalf("Load() should fail with %d-byte secret", len(tt.secret))
			}
		})
	}
}

func TestLoad_SessionSecretMinimumLength(t *testing.T) {
	os.Clearenv()
	secret32 := "12345678901234567890123456789012"
	setEnv(t, "PATHWAY_SESSION_SECRET", secret32)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should succeed with 32-byte secret: %v", err)
	}
	if cfg.SessionSecret != secret32 {
		t.Errorf("SessionSecret = %q, want %q", cfg.SessionSecret, secret32)
	}
}

func TestLoad_RejectsKnownWeakSecrets(t *testing.T) {
	for _, weak := range knownWeakSecrets {
		t.Run(weak, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "PATHWAY_SESSION_SECRET", weak)

			if _, err := Load(); err == nil {
				t.Fatal("Load() should reject a known default secret")
			}
		})
	}
}

func TestLoad_InvalidLeadStore(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PATHWAY_SESSION_SECRET", testSecret)
	setEnv(t, "PATHWAY_LEAD_STORE", "sheets")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an unknown lead store")
	}
}

func TestLoad_NegativeHomeCacheTTL(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PATHWAY_SESSION_SECRET", testSecret)
	setEnv(t, "PATHWAY_HOME_CACHE_TTL", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a negative cache TTL")
	}
}

func TestLoad_SeedRequiresAdminCredentials(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"seed off", map[string]string{}, false},
		{"seed without email", map[string]string{"PATHWAY_DO_SEED": "true", "PATHWAY_ADMIN_PASSWORD": "x"}, true},
		{"seed without password", map[string]string{"PATHWAY_DO_SEED": "true", "PATHWAY_ADMIN_EMAIL": "a@b.co"}, true},
		{"seed configured", map[string]string{
			"PATHWAY_DO_SEED":        "true",
			"PATHWAY_ADMIN_EMAIL":    "admin@pathway.example",
			"PATHWAY_ADMIN_PASSWORD": "Sup3r-secret-pass",
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "PATHWAY_SESSION_SECRET", testSecret)
			for k, v := range tt.env {
				setEnv(t, k, v)
			}

			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := Config{Env: tt.env}
			if got := cfg.IsDevelopment(); got != tt.want {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_GeoIPEnabled(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		enabled bool
	}{
		{"empty path", "", false},
		{"path set", "/path/to/GeoLite2-Country.mmdb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{GeoIPDBPath: tt.path}
			if got := cfg.GeoIPEnabled(); got != tt.enabled {
				t.Errorf("GeoIPEnabled() = %v, want %v", got, tt.enabled)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"aaaaaaaaaaaaaaaa1111111111111111", false},
		{"aaaaaaaaAAAAAAAA1111111111111111", true},
		{"test-secret-key-32-bytes-long!!!", true},
	}

	for _, tt := range tests {
		t.Run(tt.secret, func(t *testing.T) {
			if got := hasMinimumEntropy(tt.secret); got != tt.want {
				t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
			}
		})
	}
}
