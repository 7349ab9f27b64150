// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/reelradar/reelradar/internal/recommend"
	"github.com/reelradar/reelradar/internal/textindex"
	"github.com/reelradar/reelradar/internal/tmdb"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelradar/config.yaml",
	"/etc/reelradar/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces the service's environment variables:
// REELRADAR_SERVER_PORT -> server.port.
const envPrefix = "REELRADAR_"

// Default returns a Config with all defaults applied. Ranking and
// vectorizer defaults mirror the engine's own.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		TMDB: TMDBConfig{
			Enabled:           false,
			BaseURL:           "https://api.themoviedb.org/3",
			PagesPerType:      tmdb.DefaultConfig().PagesPerType,
			RequestsPerSecond: tmdb.DefaultConfig().RequestsPerSecond,
			Timeout:           15 * time.Second,
		},
		Catalog: CatalogConfig{
			Path: "",
		},
		Index: IndexConfig{
			DataDir:         "/data/reelradar/index",
			DefaultLimit:    recommend.DefaultConfig().DefaultLimit,
			MaxLimit:        recommend.DefaultConfig().MaxLimit,
			MaxFeatures:     textindex.DefaultMaxFeatures,
			MinDocFreq:      textindex.DefaultMinDocFreq,
			MaxDocRatio:     textindex.DefaultMaxDocRatio,
			BuildOnStartup:  true,
			RebuildInterval: 0, // periodic rebuilds disabled
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults from Default()
//  2. Optional YAML config file
//  3. REELRADAR_* environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EngineConfig converts index settings into the engine's configuration.
func (c *Config) EngineConfig() *recommend.Config {
	return &recommend.Config{
		DefaultLimit: c.Index.DefaultLimit,
		MaxLimit:     c.Index.MaxLimit,
		Vectorizer: textindex.Config{
			MaxFeatures: c.Index.MaxFeatures,
			MinDocFreq:  c.Index.MinDocFreq,
			MaxDocRatio: c.Index.MaxDocRatio,
		},
	}
}

// TMDBClientConfig converts TMDB settings into the client's configuration.
func (c *Config) TMDBClientConfig() tmdb.Config {
	return tmdb.Config{
		BaseURL:           c.TMDB.BaseURL,
		APIKey:            c.TMDB.APIKey,
		PagesPerType:      c.TMDB.PagesPerType,
		RequestsPerSecond: c.TMDB.RequestsPerSecond,
		Timeout:           c.TMDB.Timeout,
	}
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when supplied through environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf paths.
// The first underscore after the prefix separates the section:
//
//	REELRADAR_SERVER_PORT        -> server.port
//	REELRADAR_TMDB_API_KEY       -> tmdb.api_key
//	REELRADAR_INDEX_MAX_FEATURES -> index.max_features
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}
