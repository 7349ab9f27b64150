// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package recommend

import "sort"

// candidate pairs a catalog row with its similarity score.
type candidate struct {
	row   int
	score float64
}

// candidateLess orders by score descending, ties by ascending row
// index so that identical inputs always produce identical output.
func candidateLess(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.row < b.row
}

// topK selects and sorts the k best candidates in place, returning the
// sorted prefix. It partitions around the kth element first, so only
// the selected subset is ever fully sorted. The slice is reordered.
func topK(cands []candidate, k int) []candidate {
	if k <= 0 {
		return nil
	}
	if k >= len(cands) {
		sort.Slice(cands, func(i, j int) bool { return candidateLess(cands[i], cands[j]) })
		return cands
	}

	lo, hi := 0, len(cands)-1
	for lo < hi {
		p := partition(cands, lo, hi)
		switch {
		case p == k:
			lo = hi
		case p < k:
			lo = p + 1
		default:
			hi = p - 1
		}
	}

	sel := cands[:k]
	sort.Slice(sel, func(i, j int) bool { return candidateLess(sel[i], sel[j]) })
	return sel
}

// partition places one pivot into its final ordered position between
// lo and hi and returns that position.
func partition(cands []candidate, lo, hi int) int {
	mid := lo + (hi-lo)/2
	cands[mid], cands[hi] = cands[hi], cands[mid]
	pivot := cands[hi]

	i := lo
	for j := lo; j < hi; j++ {
		if candidateLess(cands[j], pivot) {
			cands[i], cands[j] = cands[j], cands[i]
			i++
		}
	}
	cands[i], cands[hi] = cands[hi], cands[i]
	return i
}
