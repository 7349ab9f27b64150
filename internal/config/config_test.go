// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Server.Port != 8480 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Index.MaxFeatures != 200000 {
		t.Errorf("default max features = %d", cfg.Index.MaxFeatures)
	}
	if cfg.Index.MinDocFreq != 2 {
		t.Errorf("default min doc freq = %d", cfg.Index.MinDocFreq)
	}
	if cfg.Index.MaxDocRatio != 0.6 {
		t.Errorf("default max doc ratio = %v", cfg.Index.MaxDocRatio)
	}
	if cfg.TMDB.PagesPerType != 5 {
		t.Errorf("default pages per type = %d", cfg.TMDB.PagesPerType)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
	if cfg.Index.DefaultLimit != 20 || cfg.Index.MaxLimit != 100 {
		t.Errorf("limits = %d/%d", cfg.Index.DefaultLimit, cfg.Index.MaxLimit)
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
tmdb:
  enabled: true
  api_key: test-key
  pages_per_type: 2
index:
  rebuild_interval: 6h
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if !cfg.TMDB.Enabled || cfg.TMDB.APIKey != "test-key" {
		t.Errorf("tmdb config = %+v", cfg.TMDB)
	}
	if cfg.TMDB.PagesPerType != 2 {
		t.Errorf("pages per type = %d", cfg.TMDB.PagesPerType)
	}
	if cfg.Index.RebuildInterval != 6*time.Hour {
		t.Errorf("rebuild interval = %v", cfg.Index.RebuildInterval)
	}
	// Untouched sections keep their defaults.
	if cfg.Index.MaxFeatures != 200000 {
		t.Errorf("max features = %d", cfg.Index.MaxFeatures)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("REELRADAR_SERVER_PORT", "9100")
	t.Setenv("REELRADAR_TMDB_API_KEY", "env-key")
	t.Setenv("REELRADAR_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, env should win over file", cfg.Server.Port)
	}
	if cfg.TMDB.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.TMDB.APIKey)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "invalid configuration"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "invalid configuration"},
		{"doc ratio above one", func(c *Config) { c.Index.MaxDocRatio = 1.5 }, "invalid configuration"},
		{"tmdb enabled without key", func(c *Config) { c.TMDB.Enabled = true }, "tmdb.api_key"},
		{"max limit below default", func(c *Config) { c.Index.MaxLimit = 5 }, "index.max_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"REELRADAR_SERVER_PORT", "server.port"},
		{"REELRADAR_TMDB_API_KEY", "tmdb.api_key"},
		{"REELRADAR_INDEX_MAX_FEATURES", "index.max_features"},
		{"REELRADAR_LOGGING_LEVEL", "logging.level"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEngineConfigConversion(t *testing.T) {
	cfg := Default()
	cfg.Index.DefaultLimit = 10
	cfg.Index.MaxLimit = 50
	cfg.Index.MaxFeatures = 1000

	ec := cfg.EngineConfig()
	if ec.DefaultLimit != 10 || ec.MaxLimit != 50 {
		t.Errorf("engine limits = %d/%d", ec.DefaultLimit, ec.MaxLimit)
	}
	if ec.Vectorizer.MaxFeatures != 1000 {
		t.Errorf("vectorizer max features = %d", ec.Vectorizer.MaxFeatures)
	}
}
