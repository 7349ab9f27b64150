// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelradar/reelradar/internal/catalog"
	"github.com/reelradar/reelradar/internal/metrics"
)

// Note: this package depends only on catalog and textindex. The Source
// and ArtifactStore interfaces let the TMDB client and the storage
// layer plug in without circular imports.

// Source supplies raw catalog items for a build.
type Source interface {
	Fetch(ctx context.Context) ([]catalog.Item, error)
}

// ArtifactStore persists and restores snapshots as one atomic set.
// Load returns ErrArtifactsNotFound when no complete set exists.
type ArtifactStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Delete(ctx context.Context) error
}

// GenreFallback is the display genre for items with no resolvable
// genre encoding, applied at result formatting.
const GenreFallback = "Other"

// Engine serves ranking queries against an immutable snapshot and
// coordinates rebuilds. It is safe for concurrent use: readers
// dereference the snapshot pointer once per request and never observe
// a partially built index.
type Engine struct {
	config *Config
	logger zerolog.Logger

	snapshot atomic.Pointer[Snapshot]
	version  atomic.Int32

	// buildMu makes builds single-flight; building mirrors it for
	// status reads without contending on the lock.
	buildMu  sync.Mutex
	building atomic.Bool

	source Source
	store  ArtifactStore

	statusMu  sync.Mutex
	lastError string
}

// NewEngine creates a ranking engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// SetSource sets the catalog data source used by builds.
func (e *Engine) SetSource(src Source) {
	e.source = src
}

// SetStore sets the artifact store used to persist and restore
// snapshots across restarts.
func (e *Engine) SetStore(store ArtifactStore) {
	e.store = store
}

// Ready reports whether a snapshot is installed.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Snapshot returns the active snapshot, or nil before the first build.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// EnsureReady makes the engine serveable: a no-op when a snapshot is
// already installed, otherwise it restores persisted artifacts or
// builds from the configured source. Idempotent.
func (e *Engine) EnsureReady(ctx context.Context) error {
	if e.Ready() {
		return nil
	}
	if !e.buildMu.TryLock() {
		return ErrBuildInProgress
	}
	defer e.buildMu.Unlock()
	if e.Ready() {
		return nil
	}

	if e.store != nil {
		snap, err := e.store.Load(ctx)
		switch {
		case err == nil:
			if verr := snap.Validate(); verr != nil {
				e.logger.Warn().Err(verr).Msg("persisted artifacts inconsistent, rebuilding")
			} else {
				e.install(snap)
				e.logger.Info().
					Int("items", len(snap.Catalog)).
					Int("version", snap.Version).
					Msg("snapshot restored from artifacts")
				return nil
			}
		case errors.Is(err, ErrArtifactsNotFound):
			// Nothing persisted yet; build from source.
		default:
			e.logger.Warn().Err(err).Msg("artifact load failed, rebuilding")
		}
	}

	return e.buildLocked(ctx)
}

// Rebuild discards persisted artifacts and builds a fresh snapshot
// from the source. A previously installed snapshot keeps serving until
// the new one is ready; on failure it stays in place, though the
// deleted artifacts leave a restart not-ready until a build succeeds.
func (e *Engine) Rebuild(ctx context.Context) error {
	if !e.buildMu.TryLock() {
		return ErrBuildInProgress
	}
	defer e.buildMu.Unlock()

	if e.store != nil {
		if err := e.store.Delete(ctx); err != nil {
			e.logger.Warn().Err(err).Msg("artifact delete failed")
		}
	}
	return e.buildLocked(ctx)
}

// buildLocked fetches, builds, installs, and persists one snapshot.
// Callers must hold buildMu.
func (e *Engine) buildLocked(ctx context.Context) error {
	if e.source == nil {
		return ErrNoSource
	}

	start := time.Now()
	e.building.Store(true)
	defer e.building.Store(false)
	e.logger.Info().Msg("starting index build")

	err := e.runBuild(ctx)
	metrics.RecordIndexBuild(time.Since(start), err)
	e.setLastError(err)
	if err != nil {
		e.logger.Error().Err(err).Msg("index build failed")
		return err
	}

	snap := e.snapshot.Load()
	e.logger.Info().
		Int("items", len(snap.Catalog)).
		Int("vocab_terms", snap.Vectorizer.VocabSize()).
		Int("version", snap.Version).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("index build complete")
	return nil
}

func (e *Engine) runBuild(ctx context.Context) error {
	items, err := e.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}

	snap, err := BuildSnapshot(items, e.config.Vectorizer, int(e.version.Load())+1)
	if err != nil {
		return err
	}
	e.install(snap)

	if e.store != nil {
		if err := e.store.Save(ctx, snap); err != nil {
			// The in-memory snapshot still serves; only durability
			// across restarts is affected.
			e.logger.Warn().Err(err).Msg("artifact save failed")
		}
	}
	return nil
}

// install atomically swaps the active snapshot.
func (e *Engine) install(snap *Snapshot) {
	e.version.Store(int32(snap.Version))
	e.snapshot.Store(snap)
	metrics.UpdateSnapshotGauges(len(snap.Catalog), snap.Vectorizer.VocabSize(), snap.Matrix.NNZ())
}

func (e *Engine) setLastError(err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	if err != nil {
		e.lastError = err.Error()
	} else {
		e.lastError = ""
	}
}

// Status reports build and snapshot state.
func (e *Engine) Status() Status {
	e.statusMu.Lock()
	lastErr := e.lastError
	e.statusMu.Unlock()

	st := Status{
		Building:  e.building.Load(),
		LastError: lastErr,
	}
	if snap := e.snapshot.Load(); snap != nil {
		st.Ready = true
		st.ModelVersion = snap.Version
		st.BuiltAt = snap.BuiltAt
		st.Items = len(snap.Catalog)
		st.VocabTerms = snap.Vectorizer.VocabSize()
		st.MatrixNNZ = snap.Matrix.NNZ()
	}
	return st
}

// Rank is the query entry point: it resolves the watchlist to catalog
// rows, builds a rating-weighted query vector, scores every row by
// cosine similarity, and returns the filtered top results. Unresolved
// seeds are dropped; zero resolved seeds yield an empty list.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Rank(ctx context.Context, req Request) ([]RankedResult, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	limit := req.Limit
	if limit <= 0 {
		limit = e.config.DefaultLimit
	}
	if limit > e.config.MaxLimit {
		limit = e.config.MaxLimit
	}

	rows, exclude := e.resolveSeeds(snap, req.Seeds)
	defer func() {
		metrics.RecordRank(len(rows), len(req.Seeds)-len(rows), time.Since(start))
	}()
	if len(rows) == 0 {
		return []RankedResult{}, nil
	}
	for _, ex := range req.Exclude {
		exclude[ex.Key()] = struct{}{}
	}

	scores := e.scoreAll(snap, rows)
	cands := eligibleCandidates(snap, scores, exclude, typeFilter(req.MediaTypes))
	if limit > len(cands) {
		limit = len(cands)
	}

	selected := topK(cands, limit)
	results := make([]RankedResult, len(selected))
	for i, c := range selected {
		results[i] = formatResult(&snap.Catalog[c.row], c.score)
	}

	e.logger.Debug().
		Int("seeds", len(req.Seeds)).
		Int("resolved", len(rows)).
		Int("candidates", len(cands)).
		Int("returned", len(results)).
		Msg("ranking complete")
	return results, nil
}

// resolveSeeds maps seeds to catalog rows, dropping unresolved ones.
// Every seed key enters the exclusion set, resolved or not.
func (e *Engine) resolveSeeds(snap *Snapshot, seeds []Seed) ([]int, map[string]struct{}) {
	rows := make([]int, 0, len(seeds))
	exclude := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		key := s.Key()
		exclude[key] = struct{}{}
		row, ok := snap.IDToRow[key]
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, exclude
}

// scoreAll accumulates the weighted query vector and scores every
// catalog row against it by dot product; rows are L2-normalized so
// the dot product is cosine similarity.
func (e *Engine) scoreAll(snap *Snapshot, seedRows []int) []float64 {
	query := make([]float32, snap.Matrix.Cols())
	for _, row := range seedRows {
		snap.Matrix.AccumulateRow(row, seedWeight(snap.Catalog[row].VoteAverage), query)
	}
	return snap.Matrix.MulDense(query)
}

// seedWeight scales a seed's contribution by audience rating: higher
// rated seeds count more, but every resolved seed contributes at
// least half weight.
func seedWeight(voteAverage float64) float32 {
	r := voteAverage / 10
	if r < 0 {
		r = 0
	} else if r > 1 {
		r = 1
	}
	return float32(0.5 + 0.5*r)
}

// typeFilter sanitizes a caller media-type filter: unknown tokens are
// dropped, and an empty result means no restriction.
func typeFilter(mediaTypes []string) map[string]struct{} {
	var filter map[string]struct{}
	for _, mt := range mediaTypes {
		mt = catalog.NormalizeMediaType(mt)
		if mt != catalog.MediaTypeMovie && mt != catalog.MediaTypeTV {
			continue
		}
		if filter == nil {
			filter = make(map[string]struct{}, 2)
		}
		filter[mt] = struct{}{}
	}
	return filter
}

// eligibleCandidates lists the rows that survive exclusion and type
// filtering, paired with their scores.
func eligibleCandidates(snap *Snapshot, scores []float64, exclude map[string]struct{}, filter map[string]struct{}) []candidate {
	cands := make([]candidate, 0, len(scores))
	for row := range snap.Catalog {
		it := &snap.Catalog[row]
		if _, skip := exclude[it.Key()]; skip {
			continue
		}
		if filter != nil {
			if _, ok := filter[it.MediaType]; !ok {
				continue
			}
		}
		cands = append(cands, candidate{row: row, score: scores[row]})
	}
	return cands
}

// formatResult shapes one selected row for the caller.
func formatResult(it *catalog.Item, score float64) RankedResult {
	genres := strings.Join(catalog.ResolveGenres(it.Genres), ", ")
	if genres == "" {
		genres = GenreFallback
	}
	return RankedResult{
		MediaType:   it.MediaType,
		ID:          it.ID,
		MediaID:     it.ID,
		Title:       it.DisplayTitle(),
		PosterPath:  it.PosterPath,
		VoteAverage: it.VoteAverage,
		Similarity:  score,
		Genres:      genres,
	}
}
