// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package recommend

import (
	"errors"
	"regexp"
	"testing"

	"github.com/reelradar/reelradar/internal/catalog"
	"github.com/reelradar/reelradar/internal/textindex"
)

// relaxedVec admits every term so small test corpora survive pruning.
var relaxedVec = textindex.Config{MaxFeatures: 1 << 16, MinDocFreq: 1, MaxDocRatio: 1.0}

func testItems() []catalog.Item {
	return []catalog.Item{
		{MediaType: "movie", ID: 1, Title: "Star Saga", Overview: "space opera adventure battle", VoteAverage: 10},
		{MediaType: "movie", ID: 2, Title: "Vows", Overview: "romantic comedy wedding", VoteAverage: 6.1},
		{MediaType: "movie", ID: 3, Title: "Rebel Fleet", Overview: "space battle adventure rebellion", VoteAverage: 7.9},
		{MediaType: "tv", ID: 4, Name: "Void Command", Overview: "space battle fleet command", VoteAverage: 8.4},
	}
}

func TestBuildSnapshotBijection(t *testing.T) {
	snap, err := BuildSnapshot(testItems(), relaxedVec, 1)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	n := len(snap.Catalog)
	if len(snap.IDToRow) != n {
		t.Fatalf("mapping size %d, catalog size %d", len(snap.IDToRow), n)
	}
	seen := make(map[int]string, n)
	for key, row := range snap.IDToRow {
		if row < 0 || row >= n {
			t.Errorf("key %s maps to out-of-range row %d", key, row)
		}
		if prev, dup := seen[row]; dup {
			t.Errorf("row %d mapped by both %s and %s", row, prev, key)
		}
		seen[row] = key
		if snap.Catalog[row].Key() != key {
			t.Errorf("row %d has key %s, mapped as %s", row, snap.Catalog[row].Key(), key)
		}
	}
	if snap.Matrix.Rows() != n {
		t.Errorf("matrix rows %d, catalog size %d", snap.Matrix.Rows(), n)
	}
}

func TestBuildSnapshotDocumentTexts(t *testing.T) {
	snap, err := BuildSnapshot(testItems(), relaxedVec, 1)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	canon := regexp.MustCompile(`^[a-z0-9]+( [a-z0-9]+)*$`)
	for i := range snap.Catalog {
		text := snap.Catalog[i].Text
		if text == "" {
			t.Errorf("row %d has empty text", i)
			continue
		}
		if !canon.MatchString(text) {
			t.Errorf("row %d text %q not canonical", i, text)
		}
	}
}

func TestBuildSnapshotDeduplicates(t *testing.T) {
	items := testItems()
	dup := items[0]
	dup.Title = "Different Title, Same Key"
	items = append(items, dup)

	snap, err := BuildSnapshot(items, relaxedVec, 1)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	if len(snap.Catalog) != 4 {
		t.Fatalf("catalog size %d after dedup, want 4", len(snap.Catalog))
	}
	row := snap.IDToRow["movie:1"]
	if snap.Catalog[row].Title != "Star Saga" {
		t.Errorf("duplicate key kept %q, want first occurrence", snap.Catalog[row].Title)
	}
}

func TestBuildSnapshotFailures(t *testing.T) {
	if _, err := BuildSnapshot(nil, relaxedVec, 1); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("empty input error = %v, want ErrEmptyCorpus", err)
	}

	bad := []catalog.Item{{Title: "No Identity"}}
	if _, err := BuildSnapshot(bad, relaxedVec, 1); !errors.Is(err, catalog.ErrMissingIdentity) {
		t.Errorf("identity error = %v, want ErrMissingIdentity", err)
	}

	// Production pruning over a tiny corpus leaves nothing indexable.
	tiny := testItems()[:1]
	if _, err := BuildSnapshot(tiny, textindex.DefaultConfig(), 1); !errors.Is(err, textindex.ErrEmptyVocabulary) {
		t.Errorf("pruned-out corpus error = %v, want ErrEmptyVocabulary", err)
	}
}

func TestSnapshotValidate(t *testing.T) {
	snap, err := BuildSnapshot(testItems(), relaxedVec, 1)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	if err := snap.Validate(); err != nil {
		t.Errorf("fresh snapshot Validate: %v", err)
	}

	broken := *snap
	broken.IDToRow = map[string]int{"movie:1": 0}
	if err := broken.Validate(); err == nil {
		t.Error("truncated mapping should fail validation")
	}

	broken = *snap
	broken.IDToRow = make(map[string]int, len(snap.IDToRow))
	for k, v := range snap.IDToRow {
		broken.IDToRow[k] = v
	}
	broken.IDToRow["movie:999"] = snap.IDToRow["movie:1"]
	delete(broken.IDToRow, "movie:1")
	if err := broken.Validate(); err == nil {
		t.Error("mismatched key should fail validation")
	}
}

func TestSnapshotValidateDetectsMismatchedArtifacts(t *testing.T) {
	snap, err := BuildSnapshot(testItems(), relaxedVec, 1)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}

	// A matrix whose stored weights drifted from the model no longer
	// reproduces under the snapshot's own vectorizer.
	drifted := *snap
	drifted.Matrix = snap.Vectorizer.Transform(docTexts(snap))
	drifted.Matrix.Values[0] *= 0.5
	if err := drifted.Validate(); err == nil {
		t.Error("perturbed matrix should fail validation")
	}

	// So does a catalog whose row 0 text was not the fitted document.
	swapped := *snap
	swapped.Catalog = append([]catalog.Item(nil), snap.Catalog...)
	swapped.Catalog[0].Text = "entirely unrelated document text"
	if err := swapped.Validate(); err == nil {
		t.Error("replaced document text should fail validation")
	}
}

func docTexts(snap *Snapshot) []string {
	docs := make([]string, len(snap.Catalog))
	for i := range snap.Catalog {
		docs[i] = snap.Catalog[i].Text
	}
	return docs
}
