// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package recommend

import (
	"fmt"

	"github.com/reelradar/reelradar/internal/textindex"
)

// Config holds engine tunables.
type Config struct {
	// DefaultLimit is used when a request carries a non-positive limit.
	DefaultLimit int

	// MaxLimit caps any requested limit.
	MaxLimit int

	// Vectorizer configures index fitting.
	Vectorizer textindex.Config
}

// DefaultConfig returns production engine defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit: 20,
		MaxLimit:     100,
		Vectorizer:   textindex.DefaultConfig(),
	}
}

// Validate checks configuration bounds.
func (c *Config) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max limit %d below default limit %d", c.MaxLimit, c.DefaultLimit)
	}
	return c.Vectorizer.Validate()
}
