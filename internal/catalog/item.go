// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reelradar/reelradar/internal/textindex"
)

// Media types indexed by the catalog.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// CastLimit caps how many cast names enter an item's document text;
// deep cast lists add noise, not signal.
const CastLimit = 10

// ErrMissingIdentity indicates an item without a usable (media_type, id)
// composite key. Identity problems are configuration errors and abort
// the build before any index work begins.
var ErrMissingIdentity = errors.New("catalog: item missing media_type or id")

// Item is one media entry. The pair (MediaType, ID) is the composite
// key, unique across the catalog. Text is derived once at build time.
type Item struct {
	MediaType     string      `json:"media_type"`
	ID            int         `json:"id"`
	Title         string      `json:"title,omitempty"`
	Name          string      `json:"name,omitempty"`
	OriginalTitle string      `json:"original_title,omitempty"`
	OriginalName  string      `json:"original_name,omitempty"`
	Overview      string      `json:"overview,omitempty"`
	Genres        GenreField  `json:"genres,omitempty"`
	Keywords      FlexStrings `json:"keywords,omitempty"`
	Cast          FlexStrings `json:"cast,omitempty"`
	Directors     FlexStrings `json:"directors,omitempty"`
	CreatedBy     FlexStrings `json:"created_by,omitempty"`
	Showrunners   FlexStrings `json:"showrunners,omitempty"`
	VoteAverage   float64     `json:"vote_average"`
	Popularity    float64     `json:"popularity"`
	PosterPath    string      `json:"poster_path,omitempty"`
	Text          string      `json:"text,omitempty"`
}

// NormalizeMediaType canonicalizes a caller-supplied media type token.
func NormalizeMediaType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Key returns the composite key "{media_type}:{id}".
func (it *Item) Key() string {
	return NormalizeMediaType(it.MediaType) + ":" + strconv.Itoa(it.ID)
}

// Key builds a composite key from parts, for callers holding a seed
// rather than an item.
func Key(mediaType string, id int) string {
	return NormalizeMediaType(mediaType) + ":" + strconv.Itoa(id)
}

// Validate checks the composite identity. Row content beyond identity
// is never a validation failure; missing fields degrade to empty text.
func (it *Item) Validate() error {
	mt := NormalizeMediaType(it.MediaType)
	if mt != MediaTypeMovie && mt != MediaTypeTV {
		return fmt.Errorf("%w: media_type %q", ErrMissingIdentity, it.MediaType)
	}
	if it.ID <= 0 {
		return fmt.Errorf("%w: id %d", ErrMissingIdentity, it.ID)
	}
	return nil
}

// DisplayTitle returns the first non-empty of title, name, and their
// original-language variants. TV entries carry Name where movies
// carry Title.
func (it *Item) DisplayTitle() string {
	for _, t := range []string{it.Title, it.Name, it.OriginalTitle, it.OriginalName} {
		if t != "" {
			return t
		}
	}
	return ""
}

// Creators returns whichever creator encoding the item carries:
// directors for movies, created_by then showrunners for TV.
func (it *Item) Creators() []string {
	switch {
	case !it.Directors.IsEmpty():
		return it.Directors.Values
	case !it.CreatedBy.IsEmpty():
		return it.CreatedBy.Values
	default:
		return it.Showrunners.Values
	}
}

// Document assembles the canonical corpus text: title, overview,
// genres, keywords, capped cast, creators, in that fixed order, then
// normalized to lowercase alphanumeric words.
func (it *Item) Document() string {
	genres := ResolveGenres(it.Genres)
	if len(genres) == 0 && len(it.Genres.IDs) > 0 {
		// Unmapped codes still carry lexical identity.
		for _, id := range it.Genres.IDs {
			genres = append(genres, strconv.Itoa(id))
		}
	}

	cast := it.Cast.Values
	if len(cast) > CastLimit {
		cast = cast[:CastLimit]
	}

	parts := []string{
		it.DisplayTitle(),
		it.Overview,
		strings.Join(genres, " "),
		strings.Join(it.Keywords.Values, " "),
		strings.Join(cast, " "),
		strings.Join(it.Creators(), " "),
	}
	return textindex.Normalize(strings.Join(parts, " "))
}
