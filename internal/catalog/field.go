// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package catalog

import (
	"strings"

	"github.com/goccy/go-json"
)

// NamedRef is a provider record carrying an id and a display name, the
// shape TMDB uses for genres, keywords, and credits.
type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FlexStrings is a name list that tolerates provider schema drift: the
// same field may arrive as a single string, a list of strings, or a
// list of name-bearing records. It decodes all three into a flat list.
type FlexStrings struct {
	Values []string
}

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	f.Values = nil
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			f.Values = []string{s}
		}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, elem := range raw {
		var str string
		if err := json.Unmarshal(elem, &str); err == nil {
			if str = strings.TrimSpace(str); str != "" {
				f.Values = append(f.Values, str)
			}
			continue
		}
		var ref NamedRef
		if err := json.Unmarshal(elem, &ref); err == nil {
			if name := strings.TrimSpace(ref.Name); name != "" {
				f.Values = append(f.Values, name)
			}
		}
		// Elements of any other shape contribute nothing.
	}
	return nil
}

func (f FlexStrings) MarshalJSON() ([]byte, error) {
	if f.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f.Values)
}

// IsEmpty reports whether no names were decoded.
func (f FlexStrings) IsEmpty() bool { return len(f.Values) == 0 }

// GenreField holds whichever genre encoding the source supplied. At
// most one of the variants is populated per decode; resolution order
// across variants lives in ResolveGenres.
type GenreField struct {
	// Records is the list-of-name-bearing-records encoding.
	Records []NamedRef
	// Raw is the plain string encoding.
	Raw string
	// Names is the list-of-strings encoding.
	Names []string
	// IDs is the list-of-integer-codes encoding.
	IDs []int
}

func (g *GenreField) UnmarshalJSON(data []byte) error {
	*g = GenreField{}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		g.Raw = strings.TrimSpace(s)
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, elem := range raw {
		var id int
		if err := json.Unmarshal(elem, &id); err == nil {
			g.IDs = append(g.IDs, id)
			continue
		}
		var str string
		if err := json.Unmarshal(elem, &str); err == nil {
			if str = strings.TrimSpace(str); str != "" {
				g.Names = append(g.Names, str)
			}
			continue
		}
		var ref NamedRef
		if err := json.Unmarshal(elem, &ref); err == nil {
			g.Records = append(g.Records, ref)
		}
	}
	return nil
}

func (g GenreField) MarshalJSON() ([]byte, error) {
	switch {
	case len(g.Records) > 0:
		return json.Marshal(g.Records)
	case g.Raw != "":
		return json.Marshal(g.Raw)
	case len(g.Names) > 0:
		return json.Marshal(g.Names)
	case len(g.IDs) > 0:
		return json.Marshal(g.IDs)
	default:
		return []byte("[]"), nil
	}
}

// IsEmpty reports whether no genre encoding carries data.
func (g GenreField) IsEmpty() bool {
	return len(g.Records) == 0 && g.Raw == "" && len(g.Names) == 0 && len(g.IDs) == 0
}
