// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package recommend

import (
	"fmt"
	"time"

	"github.com/reelradar/reelradar/internal/catalog"
	"github.com/reelradar/reelradar/internal/textindex"
)

// Snapshot is one frozen index: the catalog table, the fitted model,
// the document-term matrix, and the key-to-row mapping. Row i of the
// matrix corresponds exactly to Catalog[i], and IDToRow is a bijection
// from catalog keys onto [0, len(Catalog)). A snapshot is built once
// and never mutated; a rebuild replaces the whole value.
type Snapshot struct {
	Catalog    []catalog.Item
	Vectorizer *textindex.Vectorizer
	Matrix     *textindex.Matrix
	IDToRow    map[string]int
	Version    int
	BuiltAt    time.Time
}

// BuildSnapshot constructs a complete snapshot from raw items: it
// validates identities, de-duplicates by composite key keeping the
// first occurrence, derives each item's document text, fits the
// vectorizer, and assigns row order once. Building is all-or-nothing.
func BuildSnapshot(items []catalog.Item, cfg textindex.Config, version int) (*Snapshot, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCorpus
	}

	rows := make([]catalog.Item, 0, len(items))
	idToRow := make(map[string]int, len(items))
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		key := items[i].Key()
		if _, dup := idToRow[key]; dup {
			continue
		}
		it := items[i]
		it.MediaType = catalog.NormalizeMediaType(it.MediaType)
		it.Text = it.Document()
		idToRow[key] = len(rows)
		rows = append(rows, it)
	}

	docs := make([]string, len(rows))
	for i := range rows {
		docs[i] = rows[i].Text
	}

	vec, mat, err := textindex.Fit(docs, cfg)
	if err != nil {
		return nil, fmt.Errorf("fit index: %w", err)
	}

	return &Snapshot{
		Catalog:    rows,
		Vectorizer: vec,
		Matrix:     mat,
		IDToRow:    idToRow,
		Version:    version,
		BuiltAt:    time.Now().UTC(),
	}, nil
}

// Validate checks internal consistency of a snapshot, used when
// loading persisted artifacts that may predate the running binary.
func (s *Snapshot) Validate() error {
	n := len(s.Catalog)
	if s.Vectorizer == nil || s.Matrix == nil {
		return fmt.Errorf("snapshot missing model or matrix")
	}
	if s.Matrix.Rows() != n {
		return fmt.Errorf("matrix has %d rows for %d catalog items", s.Matrix.Rows(), n)
	}
	if s.Matrix.Cols() != s.Vectorizer.VocabSize() {
		return fmt.Errorf("matrix has %d columns for %d vocabulary terms", s.Matrix.Cols(), s.Vectorizer.VocabSize())
	}
	if len(s.IDToRow) != n {
		return fmt.Errorf("mapping has %d keys for %d catalog items", len(s.IDToRow), n)
	}
	for key, row := range s.IDToRow {
		if row < 0 || row >= n {
			return fmt.Errorf("mapping key %s points at row %d of %d", key, row, n)
		}
		if s.Catalog[row].Key() != key {
			return fmt.Errorf("mapping key %s does not match catalog row %d", key, row)
		}
	}

	// Spot check: the first catalog document must re-vectorize to its
	// stored matrix row exactly. A mismatch means the model and matrix
	// come from different builds.
	if n > 0 {
		rerow := s.Vectorizer.Transform([]string{s.Catalog[0].Text})
		wantCols, wantVals := s.Matrix.Row(0)
		gotCols, gotVals := rerow.Row(0)
		if len(gotCols) != len(wantCols) {
			return fmt.Errorf("catalog row 0 re-vectorizes to %d terms, stored row has %d", len(gotCols), len(wantCols))
		}
		for i := range gotCols {
			if gotCols[i] != wantCols[i] || gotVals[i] != wantVals[i] {
				return fmt.Errorf("catalog row 0 does not reproduce its stored matrix row")
			}
		}
	}
	return nil
}
