// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

// Package tmdb ingests catalog items from The Movie Database API. It
// paginates the popular movie and TV listings and enriches each entry
// with details, credits, and keywords. The client degrades per item:
// a persistently failing item keeps its base fields, and a failing
// page is skipped, so a single upstream hiccup never aborts a build.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/reelradar/reelradar/internal/catalog"
	"github.com/reelradar/reelradar/internal/metrics"
)

// CreatorLimit caps TV created_by credits per item.
const CreatorLimit = 5

// Retry policy for upstream calls.
const (
	defaultMaxAttempts = 3
	defaultBackoffStep = 800 * time.Millisecond
)

// Config holds TMDB client settings.
type Config struct {
	// BaseURL is the API root, overridable for tests.
	BaseURL string

	// APIKey authenticates requests. Required.
	APIKey string

	// PagesPerType is how many popular pages to fetch per media type.
	PagesPerType int

	// RequestsPerSecond throttles upstream calls.
	RequestsPerSecond float64

	// Timeout bounds each individual call.
	Timeout time.Duration

	// RetryBackoff is the base retry delay; attempt n waits n times
	// this long.
	RetryBackoff time.Duration
}

// DefaultConfig returns production TMDB defaults, minus the key.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://api.themoviedb.org/3",
		PagesPerType:      5,
		RequestsPerSecond: 4,
		Timeout:           15 * time.Second,
		RetryBackoff:      defaultBackoffStep,
	}
}

// Client fetches catalog items from TMDB. It implements the
// recommendation engine's source interface and is safe for
// concurrent use.
type Client struct {
	cfg     Config
	httpc   *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// NewClient creates a TMDB client. Circuit breaker settings follow
// the upstream-API policy used across the service: 1 minute
// measurement window, 2 minute recovery timeout, opening at a 60%
// failure rate over at least 10 requests.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tmdb: api key is required")
	}
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.PagesPerType <= 0 {
		cfg.PagesPerType = def.PagesPerType
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = def.RetryBackoff
	}

	clog := logger.With().Str("component", "tmdb").Logger()
	metrics.TMDBBreakerState.Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			clog.Info().
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("circuit breaker state transition")
			metrics.TMDBBreakerState.Set(stateToFloat(to))
		},
	})

	return &Client{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)*2),
		cb:      cb,
		logger:  clog,
	}, nil
}

// Fetch pulls the popular movie and TV listings and enriches every
// entry, de-duplicating by composite key.
func (c *Client) Fetch(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	seen := make(map[string]struct{})

	for _, mediaType := range []string{catalog.MediaTypeMovie, catalog.MediaTypeTV} {
		fetched, err := c.fetchType(ctx, mediaType)
		if err != nil {
			return nil, err
		}
		for i := range fetched {
			key := fetched[i].Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			items = append(items, fetched[i])
		}
	}

	c.logger.Info().Int("items", len(items)).Msg("catalog fetch complete")
	return items, nil
}

// fetchType paginates one media type's popular listing. Page failures
// are logged and skipped; only context cancellation aborts.
func (c *Client) fetchType(ctx context.Context, mediaType string) ([]catalog.Item, error) {
	var items []catalog.Item
	for page := 1; page <= c.cfg.PagesPerType; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var pr pagedResults
		query := url.Values{"page": {strconv.Itoa(page)}}
		err := c.get(ctx, "popular", "/"+mediaType+"/popular", query, &pr)
		if err != nil {
			c.logger.Warn().
				Str("media_type", mediaType).
				Int("page", page).
				Err(err).
				Msg("popular page fetch failed, skipping")
			continue
		}

		for i := range pr.Results {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			items = append(items, c.enrich(ctx, mediaType, &pr.Results[i]))
		}
	}
	return items, nil
}

// enrich builds a catalog item from a listing entry plus its details,
// credits, and keywords. Each enrichment call degrades independently.
func (c *Client) enrich(ctx context.Context, mediaType string, entry *listEntry) catalog.Item {
	it := catalog.Item{
		MediaType:     mediaType,
		ID:            entry.ID,
		Title:         entry.Title,
		Name:          entry.Name,
		OriginalTitle: entry.OriginalTitle,
		OriginalName:  entry.OriginalName,
		Overview:      entry.Overview,
		Genres:        catalog.GenreField{IDs: entry.GenreIDs},
		VoteAverage:   entry.VoteAverage,
		Popularity:    entry.Popularity,
		PosterPath:    entry.PosterPath,
	}
	base := fmt.Sprintf("/%s/%d", mediaType, entry.ID)

	var det detailsResponse
	if err := c.get(ctx, "details", base, nil, &det); err != nil {
		c.logger.Debug().Str("item", it.Key()).Err(err).Msg("details fetch degraded")
	} else {
		if len(det.Genres) > 0 {
			it.Genres = catalog.GenreField{Records: det.Genres}
		}
		if mediaType == catalog.MediaTypeTV {
			it.CreatedBy = catalog.FlexStrings{Values: refNames(det.CreatedBy, CreatorLimit)}
		}
	}

	var cred creditsResponse
	if err := c.get(ctx, "credits", base+"/credits", nil, &cred); err != nil {
		c.logger.Debug().Str("item", it.Key()).Err(err).Msg("credits fetch degraded")
	} else {
		it.Cast = catalog.FlexStrings{Values: castNames(cred.Cast, catalog.CastLimit)}
		if mediaType == catalog.MediaTypeMovie {
			it.Directors = catalog.FlexStrings{Values: directorNames(cred.Crew)}
		}
	}

	var kw keywordsResponse
	if err := c.get(ctx, "keywords", base+"/keywords", nil, &kw); err != nil {
		c.logger.Debug().Str("item", it.Key()).Err(err).Msg("keywords fetch degraded")
	} else {
		// Movies nest keywords under "keywords", TV under "results".
		names := refNames(kw.Keywords, 0)
		if len(names) == 0 {
			names = refNames(kw.Results, 0)
		}
		it.Keywords = catalog.FlexStrings{Values: names}
	}

	return it
}

// get performs one API call with rate limiting, circuit breaking, and
// bounded retries with linear backoff.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, target any) error {
	var lastErr error
	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.TMDBRetriesTotal.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * c.cfg.RetryBackoff):
			}
		}

		body, err := c.attempt(ctx, path, query)
		metrics.RecordTMDBRequest(endpoint, err)
		if err == nil {
			if derr := json.Unmarshal(body, target); derr != nil {
				return fmt.Errorf("decode %s response: %w", endpoint, derr)
			}
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return err
		}
	}
	return fmt.Errorf("tmdb %s after %d attempts: %w", endpoint, defaultMaxAttempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return c.cb.Execute(func() ([]byte, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		u, err := url.Parse(c.cfg.BaseURL + path)
		if err != nil {
			return nil, fmt.Errorf("build url: %w", err)
		}
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		q.Set("api_key", c.cfg.APIKey)
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(callCtx, http.MethodGet, u.String(), http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }() //nolint:errcheck // error on close after read is not actionable

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
}

// Wire shapes for the TMDB API.

type pagedResults struct {
	Page       int         `json:"page"`
	Results    []listEntry `json:"results"`
	TotalPages int         `json:"total_pages"`
}

type listEntry struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Name          string  `json:"name"`
	OriginalTitle string  `json:"original_title"`
	OriginalName  string  `json:"original_name"`
	Overview      string  `json:"overview"`
	GenreIDs      []int   `json:"genre_ids"`
	VoteAverage   float64 `json:"vote_average"`
	Popularity    float64 `json:"popularity"`
	PosterPath    string  `json:"poster_path"`
}

type detailsResponse struct {
	Genres    []catalog.NamedRef `json:"genres"`
	CreatedBy []catalog.NamedRef `json:"created_by"`
}

type creditsResponse struct {
	Cast []castEntry `json:"cast"`
	Crew []crewEntry `json:"crew"`
}

type castEntry struct {
	Name string `json:"name"`
}

type crewEntry struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type keywordsResponse struct {
	Keywords []catalog.NamedRef `json:"keywords"`
	Results  []catalog.NamedRef `json:"results"`
}

func refNames(refs []catalog.NamedRef, limit int) []string {
	var names []string
	for _, r := range refs {
		if r.Name == "" {
			continue
		}
		names = append(names, r.Name)
		if limit > 0 && len(names) == limit {
			break
		}
	}
	return names
}

func castNames(cast []castEntry, limit int) []string {
	var names []string
	for _, m := range cast {
		if m.Name == "" {
			continue
		}
		names = append(names, m.Name)
		if limit > 0 && len(names) == limit {
			break
		}
	}
	return names
}

func directorNames(crew []crewEntry) []string {
	var names []string
	for _, m := range crew {
		if m.Job == "Director" && m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
