// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package catalog

import "strings"

// genreCodeNames maps TMDB genre codes (movie and TV combined) to
// display names. Unmapped codes are dropped during resolution.
var genreCodeNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
	10759: "Action & Adventure",
	10762: "Kids",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
}

// genreStrategy extracts display names from one encoding, returning
// nil when that encoding carries nothing.
type genreStrategy func(GenreField) []string

// genreStrategies is evaluated in priority order; the first strategy
// producing a non-empty list wins.
var genreStrategies = []genreStrategy{
	genresFromRecords,
	genresFromRaw,
	genresFromNames,
	genresFromIDs,
}

func genresFromRecords(g GenreField) []string {
	var names []string
	for _, rec := range g.Records {
		if name := strings.TrimSpace(rec.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func genresFromRaw(g GenreField) []string {
	if g.Raw == "" {
		return nil
	}
	return []string{g.Raw}
}

func genresFromNames(g GenreField) []string {
	var names []string
	for _, n := range g.Names {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func genresFromIDs(g GenreField) []string {
	var names []string
	for _, id := range g.IDs {
		if name, ok := genreCodeNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// ResolveGenres reconciles the genre encodings into a de-duplicated
// display name list, preserving first-seen order. An empty list means
// no encoding yielded anything; the caller decides the fallback.
func ResolveGenres(g GenreField) []string {
	for _, strategy := range genreStrategies {
		names := strategy(g)
		if len(names) == 0 {
			continue
		}
		seen := make(map[string]struct{}, len(names))
		out := names[:0]
		for _, n := range names {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
		return out
	}
	return nil
}
