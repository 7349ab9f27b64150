// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// IndexEngine defines what the index service needs from the recommendation
// engine. The interface keeps this package free of engine imports.
type IndexEngine interface {
	// EnsureReady restores or builds a snapshot so queries can be served.
	EnsureReady(ctx context.Context) error

	// Rebuild discards persisted artifacts and builds a fresh snapshot.
	Rebuild(ctx context.Context) error
}

// IndexServiceConfig holds configuration for the index service.
type IndexServiceConfig struct {
	// BuildOnStartup makes the index ready when the service starts.
	BuildOnStartup bool

	// RebuildInterval is how often to rebuild from source.
	// Non-positive disables periodic rebuilds.
	RebuildInterval time.Duration

	// BuildTimeout bounds a single build or rebuild. Default: 30m.
	BuildTimeout time.Duration
}

// IndexService manages the index lifecycle under suture supervision:
// the startup build and optional periodic rebuilds.
type IndexService struct {
	engine IndexEngine
	config IndexServiceConfig
	logger zerolog.Logger
	name   string
}

// NewIndexService creates a new index service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIndexService(engine IndexEngine, cfg IndexServiceConfig, logger zerolog.Logger) *IndexService {
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = 30 * time.Minute
	}
	return &IndexService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "index").Logger(),
		name:   "index-service",
	}
}

// Serve implements the suture.Service interface.
func (s *IndexService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("build_on_startup", s.config.BuildOnStartup).
		Dur("rebuild_interval", s.config.RebuildInterval).
		Msg("index service starting")

	if s.config.BuildOnStartup {
		if err := s.run(ctx, s.engine.EnsureReady); err != nil {
			s.logger.Warn().Err(err).Msg("startup build failed (queries stay unavailable until a rebuild succeeds)")
		}
	}

	if s.config.RebuildInterval <= 0 {
		s.logger.Info().Msg("periodic rebuilds disabled")
		<-ctx.Done()
		s.logger.Info().Msg("index service shutting down")
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RebuildInterval)
	defer ticker.Stop()

	s.logger.Info().Msg("index service running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("index service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled rebuild triggered")
			if err := s.run(ctx, s.engine.Rebuild); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled rebuild failed")
			}
		}
	}
}

// run executes one build operation with a bounded context.
func (s *IndexService) run(ctx context.Context, op func(context.Context) error) error {
	buildCtx, cancel := context.WithTimeout(ctx, s.config.BuildTimeout)
	defer cancel()

	start := time.Now()
	if err := op(buildCtx); err != nil {
		return err
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("index build complete")
	return nil
}

// String returns the service name for logging.
func (s *IndexService) String() string {
	return s.name
}
