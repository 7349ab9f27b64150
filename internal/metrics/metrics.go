// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Ranking metrics
	RankRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_requests_total",
			Help: "Total number of ranking queries",
		},
	)

	RankSeedsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_seeds_resolved_total",
			Help: "Total watchlist seeds resolved to catalog rows",
		},
	)

	RankSeedsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_seeds_dropped_total",
			Help: "Total watchlist seeds not found in the catalog",
		},
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rank_duration_seconds",
			Help:    "Ranking query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Index build metrics
	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "index_builds_total",
			Help: "Total number of index builds by outcome",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "index_build_duration_seconds",
			Help:    "Index build duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_snapshot_items",
			Help: "Number of catalog items in the active snapshot",
		},
	)

	SnapshotVocabSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_snapshot_vocabulary_terms",
			Help: "Vocabulary size of the active snapshot",
		},
	)

	SnapshotMatrixNNZ = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_snapshot_matrix_nnz",
			Help: "Stored non-zero entries in the active snapshot matrix",
		},
	)

	// TMDB client metrics
	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Total TMDB API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: "success", "error"
	)

	TMDBRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tmdb_retries_total",
			Help: "Total TMDB request retry attempts",
		},
	)

	TMDBBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tmdb_circuit_breaker_state",
			Help: "TMDB circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRank records one ranking query and its seed resolution split.
func RecordRank(resolved, dropped int, duration time.Duration) {
	RankRequestsTotal.Inc()
	RankSeedsResolved.Add(float64(resolved))
	RankSeedsDropped.Add(float64(dropped))
	RankDuration.Observe(duration.Seconds())
}

// RecordIndexBuild records a finished build attempt.
func RecordIndexBuild(duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	IndexBuildsTotal.WithLabelValues(outcome).Inc()
	IndexBuildDuration.Observe(duration.Seconds())
}

// UpdateSnapshotGauges publishes the active snapshot's dimensions.
func UpdateSnapshotGauges(items, vocabTerms, matrixNNZ int) {
	SnapshotItems.Set(float64(items))
	SnapshotVocabSize.Set(float64(vocabTerms))
	SnapshotMatrixNNZ.Set(float64(matrixNNZ))
}

// RecordTMDBRequest records one upstream call attempt outcome.
func RecordTMDBRequest(endpoint string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	TMDBRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}
