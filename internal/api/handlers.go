// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelradar/reelradar/internal/logging"
	"github.com/reelradar/reelradar/internal/recommend"
)

// Handler serves the recommendation API endpoints.
type Handler struct {
	engine    *recommend.Engine
	startTime time.Time
	version   string
}

// NewHandler creates a handler backed by the given engine.
func NewHandler(engine *recommend.Engine, version string) *Handler {
	return &Handler{
		engine:    engine,
		startTime: time.Now(),
		version:   version,
	}
}

// recommendationsRequest is the wire form of a ranking query. Limit and
// media type filtering stay permissive here: the engine applies defaults
// to non-positive limits and drops unknown media type tokens.
type recommendationsRequest struct {
	Watchlist  []recommend.Seed `json:"watchlist" validate:"required,min=1"`
	Limit      int              `json:"limit"`
	MediaTypes []string         `json:"media_types"`
	Exclude    []recommend.Seed `json:"exclude"`
}

// Recommendations handles POST /api/v1/recommendations.
// Ranks the catalog against the caller's watchlist.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_WATCHLIST", "Request body must be valid JSON", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, "INVALID_WATCHLIST", "Watchlist must contain at least one entry", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	start := time.Now()
	results, err := h.engine.Rank(ctx, recommend.Request{
		Seeds:      req.Watchlist,
		Limit:      req.Limit,
		MediaTypes: req.MediaTypes,
		Exclude:    req.Exclude,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrNotReady) {
			respondError(w, http.StatusServiceUnavailable, "INDEX_NOT_READY", "Recommendation index is not built yet", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "RANK_ERROR", "Failed to generate recommendations", err)
		return
	}

	if results == nil {
		results = []recommend.RankedResult{}
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"results": results,
			"count":   len(results),
		},
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// RebuildIndex handles POST /api/v1/index/rebuild.
// Starts a background rebuild and responds immediately. Returns 409 when
// a rebuild is already running.
func (h *Handler) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	if h.engine.Status().Building {
		respondError(w, http.StatusConflict, "BUILD_IN_PROGRESS", "An index rebuild is already running", nil)
		return
	}

	go func() {
		// Detached from the request context: the rebuild outlives the
		// HTTP exchange.
		if err := h.engine.Rebuild(context.Background()); err != nil {
			if errors.Is(err, recommend.ErrBuildInProgress) {
				logging.Debug().Msg("rebuild request lost race with running build")
				return
			}
			logging.Error().Err(err).Msg("background rebuild failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"rebuild": "started",
		},
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
	})
}

// IndexStatus handles GET /api/v1/index/status.
func (h *Handler) IndexStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   h.engine.Status(),
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles GET /healthz.
// Returns 200 if the process is alive, regardless of index state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":   true,
			"version": h.version,
			"uptime":  time.Since(h.startTime).Seconds(),
		},
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles GET /readyz.
// Returns 200 only when a snapshot is installed and queries can be served.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.engine.Ready() {
		respondError(w, http.StatusServiceUnavailable, "INDEX_NOT_READY", "Recommendation index is not built yet", nil)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"ready": true,
		},
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
	})
}
