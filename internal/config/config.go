// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

// Package config provides layered configuration loading using Koanf v2.
// Precedence: environment variables > YAML config file > built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/reelradar/reelradar/internal/validation"
)

// Config is the root configuration for the service.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	TMDB    TMDBConfig    `koanf:"tmdb"`
	Catalog CatalogConfig `koanf:"catalog"`
	Index   IndexConfig   `koanf:"index"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// TMDBConfig holds TMDB catalog ingestion settings.
type TMDBConfig struct {
	Enabled           bool          `koanf:"enabled"`
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url" validate:"omitempty,url"`
	PagesPerType      int           `koanf:"pages_per_type" validate:"gte=1,lte=500"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Timeout           time.Duration `koanf:"timeout"`
}

// CatalogConfig holds file-based catalog source settings. The file source
// is used when TMDB ingestion is disabled.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// IndexConfig holds index build and ranking settings.
type IndexConfig struct {
	DataDir         string        `koanf:"data_dir"`
	DefaultLimit    int           `koanf:"default_limit" validate:"gte=1"`
	MaxLimit        int           `koanf:"max_limit" validate:"gte=1"`
	MaxFeatures     int           `koanf:"max_features" validate:"gte=1"`
	MinDocFreq      int           `koanf:"min_doc_freq" validate:"gte=1"`
	MaxDocRatio     float64       `koanf:"max_doc_ratio" validate:"gt=0,lte=1"`
	BuildOnStartup  bool          `koanf:"build_on_startup"`
	RebuildInterval time.Duration `koanf:"rebuild_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for consistency. Field constraints
// are enforced through validate tags; cross-field rules are checked here.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("invalid configuration: %s", verr.Error())
	}

	if c.TMDB.Enabled && c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required when tmdb.enabled is true")
	}
	if c.Index.MaxLimit < c.Index.DefaultLimit {
		return fmt.Errorf("index.max_limit (%d) must be >= index.default_limit (%d)",
			c.Index.MaxLimit, c.Index.DefaultLimit)
	}
	return nil
}
