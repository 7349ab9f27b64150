// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package recommend

import (
	"math/rand"
	"sort"
	"testing"
)

func TestTopKSelectsHighest(t *testing.T) {
	cands := []candidate{
		{row: 0, score: 0.1},
		{row: 1, score: 0.9},
		{row: 2, score: 0.5},
		{row: 3, score: 0.7},
		{row: 4, score: 0.3},
	}
	got := topK(cands, 3)
	wantRows := []int{1, 3, 2}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, w := range wantRows {
		if got[i].row != w {
			t.Errorf("topK[%d].row = %d, want %d", i, got[i].row, w)
		}
	}
}

func TestTopKTiesBreakByRow(t *testing.T) {
	cands := []candidate{
		{row: 7, score: 0.5},
		{row: 2, score: 0.5},
		{row: 5, score: 0.5},
		{row: 1, score: 0.9},
	}
	got := topK(cands, 3)
	wantRows := []int{1, 2, 5}
	for i, w := range wantRows {
		if got[i].row != w {
			t.Errorf("topK[%d].row = %d, want %d", i, got[i].row, w)
		}
	}
}

func TestTopKBounds(t *testing.T) {
	cands := []candidate{{row: 0, score: 0.4}, {row: 1, score: 0.6}}

	if got := topK(append([]candidate(nil), cands...), 0); got != nil {
		t.Errorf("k=0 returned %v, want nil", got)
	}
	if got := topK(append([]candidate(nil), cands...), 10); len(got) != 2 {
		t.Errorf("k beyond len returned %d, want 2", len(got))
	}
	if got := topK(nil, 3); got != nil {
		t.Errorf("empty input returned %v, want nil", got)
	}
}

func TestTopKMatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(200)
		k := 1 + rng.Intn(n)
		cands := make([]candidate, n)
		for i := range cands {
			// Coarse scores force plenty of ties.
			cands[i] = candidate{row: i, score: float64(rng.Intn(10)) / 10}
		}

		ref := append([]candidate(nil), cands...)
		sort.Slice(ref, func(i, j int) bool { return candidateLess(ref[i], ref[j]) })

		got := topK(cands, k)
		if len(got) != k {
			t.Fatalf("trial %d: len = %d, want %d", trial, len(got), k)
		}
		for i := 0; i < k; i++ {
			if got[i] != ref[i] {
				t.Fatalf("trial %d: topK[%d] = %+v, want %+v", trial, i, got[i], ref[i])
			}
		}
	}
}
