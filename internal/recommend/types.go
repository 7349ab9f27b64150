// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package recommend

import (
	"time"

	"github.com/reelradar/reelradar/internal/catalog"
)

// Seed is one watchlist entry: a (media_type, id) pair. Seeds that do
// not resolve to a catalog key are dropped, not rejected.
type Seed struct {
	MediaType string `json:"media_type"`
	ID        int    `json:"id"`
}

// Key returns the seed's composite catalog key.
func (s Seed) Key() string {
	return catalog.Key(s.MediaType, s.ID)
}

// Request is one ranking query. Zero values take engine defaults.
type Request struct {
	// Seeds is the caller's watchlist.
	Seeds []Seed `json:"watchlist"`

	// Limit caps the result list. Non-positive means the default.
	Limit int `json:"limit"`

	// MediaTypes optionally restricts candidacy to matching types.
	// Empty means no restriction.
	MediaTypes []string `json:"media_types,omitempty"`

	// Exclude lists items that must never appear in the output,
	// beyond the seeds themselves.
	Exclude []Seed `json:"exclude,omitempty"`
}

// RankedResult is one recommendation. ID and MediaID carry the same
// value; MediaID exists for caller convenience.
type RankedResult struct {
	MediaType   string  `json:"media_type"`
	ID          int     `json:"id"`
	MediaID     int     `json:"media_id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	Similarity  float64 `json:"similarity"`
	Genres      string  `json:"genres"`
}

// Status describes the engine's build and snapshot state.
type Status struct {
	Ready        bool      `json:"ready"`
	Building     bool      `json:"building"`
	ModelVersion int       `json:"model_version"`
	BuiltAt      time.Time `json:"built_at"`
	Items        int       `json:"items"`
	VocabTerms   int       `json:"vocab_terms"`
	MatrixNNZ    int       `json:"matrix_nnz"`
	LastError    string    `json:"last_error,omitempty"`
}
