// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/reelradar/reelradar/internal/logging"
)

// LoadFile reads a JSON catalog file: an array of raw items in any of
// the tolerated field encodings. Every item must carry a valid
// identity; anything less is a configuration error, reported before
// any index work starts.
func LoadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", path, err)
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("catalog file %s item %d: %w", path, i, err)
		}
	}
	return items, nil
}

// FileSource serves a JSON catalog file as a build source.
type FileSource struct {
	Path string
}

// Fetch loads the file. The context is accepted for interface parity
// with network sources; local reads do not observe cancellation.
func (s *FileSource) Fetch(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := LoadFile(s.Path)
	if err != nil {
		return nil, err
	}
	clog := logging.With().
		Str("component", "catalog").
		Str("path", s.Path).
		Int("items", len(items)).
		Logger()
	clog.Debug().Msg("Catalog file loaded")
	return items, nil
}
