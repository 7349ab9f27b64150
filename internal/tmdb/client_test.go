// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelradar/reelradar/internal/catalog"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		PagesPerType:      1,
		RequestsPerSecond: 1000,
		Timeout:           2 * time.Second,
		RetryBackoff:      time.Millisecond,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}, zerolog.Nop()); err == nil {
		t.Error("missing api key should be rejected")
	}
}

func TestFetchEnrichesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/movie/popular":
			_, _ = w.Write([]byte(`{"page":1,"results":[
				{"id":603,"title":"The Matrix","overview":"hacker discovers simulation",
				 "genre_ids":[28,878],"vote_average":8.2,"popularity":91.5,"poster_path":"/m.jpg"}]}`))
		case "/tv/popular":
			_, _ = w.Write([]byte(`{"page":1,"results":[
				{"id":1396,"name":"Breaking Bad","overview":"chemistry teacher turns to crime",
				 "genre_ids":[18],"vote_average":8.9}]}`))
		case "/movie/603":
			_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`))
		case "/movie/603/credits":
			_, _ = w.Write([]byte(`{"cast":[{"name":"Keanu Reeves"},{"name":"Carrie-Anne Moss"}],
				"crew":[{"name":"Lana Wachowski","job":"Director"},{"name":"Bill Pope","job":"Director of Photography"}]}`))
		case "/movie/603/keywords":
			_, _ = w.Write([]byte(`{"keywords":[{"id":1,"name":"cyberpunk"},{"id":2,"name":"dystopia"}]}`))
		case "/tv/1396":
			_, _ = w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"}],
				"created_by":[{"id":66633,"name":"Vince Gilligan"}]}`))
		case "/tv/1396/credits":
			_, _ = w.Write([]byte(`{"cast":[{"name":"Bryan Cranston"}],"crew":[]}`))
		case "/tv/1396/keywords":
			_, _ = w.Write([]byte(`{"results":[{"id":3,"name":"drug cartel"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	items, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	movie := items[0]
	if movie.Key() != "movie:603" {
		t.Fatalf("first item key = %s", movie.Key())
	}
	if got := catalog.ResolveGenres(movie.Genres); len(got) != 2 || got[0] != "Action" {
		t.Errorf("movie genres = %v", got)
	}
	if len(movie.Directors.Values) != 1 || movie.Directors.Values[0] != "Lana Wachowski" {
		t.Errorf("directors = %v, photography credits must not count", movie.Directors.Values)
	}
	if len(movie.Keywords.Values) != 2 {
		t.Errorf("keywords = %v", movie.Keywords.Values)
	}

	tv := items[1]
	if tv.Key() != "tv:1396" {
		t.Fatalf("second item key = %s", tv.Key())
	}
	if got := tv.Creators(); len(got) != 1 || got[0] != "Vince Gilligan" {
		t.Errorf("tv creators = %v", got)
	}
	if len(tv.Keywords.Values) != 1 || tv.Keywords.Values[0] != "drug cartel" {
		t.Errorf("tv keywords = %v", tv.Keywords.Values)
	}
}

func TestFetchDegradesPerItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/movie/popular":
			_, _ = w.Write([]byte(`{"page":1,"results":[
				{"id":7,"title":"Orphan","overview":"no extras survive","genre_ids":[27],"vote_average":6}]}`))
		case r.URL.Path == "/tv/popular":
			_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
		default:
			// Every enrichment endpoint is down.
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	items, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	it := items[0]
	if it.Title != "Orphan" || it.Overview == "" {
		t.Errorf("base fields lost: %+v", it)
	}
	if got := catalog.ResolveGenres(it.Genres); len(got) != 1 || got[0] != "Horror" {
		t.Errorf("genre ids from the listing should survive: %v", got)
	}
	if !it.Cast.IsEmpty() || !it.Keywords.IsEmpty() {
		t.Errorf("failed enrichment should leave fields empty: %+v", it)
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	var pr pagedResults
	if err := c.get(context.Background(), "popular", "/movie/popular", nil, &pr); err != nil {
		t.Fatalf("get with recovery on third attempt: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("made %d calls, want 3", calls.Load())
	}
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	var pr pagedResults
	err := c.get(context.Background(), "popular", "/movie/popular", nil, &pr)
	if err == nil {
		t.Fatal("get should fail after exhausting retries")
	}
	if !strings.Contains(err.Error(), "unexpected status 500") {
		t.Errorf("error = %v, want wrapped status failure", err)
	}
	if calls.Load() != defaultMaxAttempts {
		t.Errorf("made %d calls, want %d", calls.Load(), defaultMaxAttempts)
	}
}

func TestFetchStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Fetch(ctx); err == nil {
		t.Error("Fetch with cancelled context should error")
	}
}

func TestCapLimits(t *testing.T) {
	cast := make([]castEntry, 15)
	for i := range cast {
		cast[i] = castEntry{Name: "Actor"}
	}
	if got := castNames(cast, catalog.CastLimit); len(got) != catalog.CastLimit {
		t.Errorf("cast capped to %d, want %d", len(got), catalog.CastLimit)
	}

	refs := make([]catalog.NamedRef, 9)
	for i := range refs {
		refs[i] = catalog.NamedRef{Name: "Creator"}
	}
	if got := refNames(refs, CreatorLimit); len(got) != CreatorLimit {
		t.Errorf("creators capped to %d, want %d", len(got), CreatorLimit)
	}
	if got := refNames(refs, 0); len(got) != 9 {
		t.Errorf("zero limit should not cap, got %d", len(got))
	}
}
