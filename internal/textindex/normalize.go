// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package textindex

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Normalize canonicalizes free text into the corpus alphabet: lowercase
// letters, digits, and single spaces. Every run of characters outside
// [a-z0-9] collapses to one space, and the result carries no leading or
// trailing whitespace. Deterministic, pure, and total.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range s {
		var c byte
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			c = byte(r)
		case r >= 'A' && r <= 'Z':
			c = byte(r) + ('a' - 'A')
		default:
			if b.Len() > 0 {
				pendingSpace = true
			}
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteByte(c)
	}

	return b.String()
}

// Flatten converts an arbitrary decoded value into a flat string:
// nil and NaN become empty, slices join their flattened elements with
// spaces, maps prefer a "name" field and otherwise join all values in
// key order, and scalars use their natural string form.
//
// Map values join in sorted key order so the output is deterministic
// regardless of Go's map iteration order.
func Flatten(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if math.IsNaN(val) {
			return ""
		}
		return formatNumber(val)
	case float32:
		if math.IsNaN(float64(val)) {
			return ""
		}
		return formatNumber(float64(val))
	case []any:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			parts = append(parts, Flatten(e))
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(val, " ")
	case map[string]any:
		if name, ok := val["name"]; ok {
			return Flatten(name)
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, Flatten(val[k]))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(val)
	}
}

// formatNumber renders a float without a trailing ".0" for whole values,
// matching how catalog identifiers and years read when they arrive as
// JSON numbers.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(f)
}

// Clean flattens an arbitrary value and normalizes the result. This is
// the single entry point used for schema-variant catalog fields.
func Clean(v any) string {
	return Normalize(Flatten(v))
}

// Tokenize splits normalized text into index terms. Single-character
// tokens never enter the vocabulary.
func Tokenize(normalized string) []string {
	if normalized == "" {
		return nil
	}
	fields := strings.Fields(normalized)
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			out = append(out, f)
		}
	}
	return out
}
