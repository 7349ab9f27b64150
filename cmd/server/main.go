// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

// Command server runs the ReelRadar recommendation service: it ingests a
// movie/TV catalog, builds a TF-IDF index over it, and serves watchlist
// ranking queries over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelradar/reelradar/internal/api"
	"github.com/reelradar/reelradar/internal/catalog"
	"github.com/reelradar/reelradar/internal/config"
	"github.com/reelradar/reelradar/internal/logging"
	"github.com/reelradar/reelradar/internal/recommend"
	"github.com/reelradar/reelradar/internal/recommend/storage"
	"github.com/reelradar/reelradar/internal/supervisor"
	"github.com/reelradar/reelradar/internal/supervisor/services"
	"github.com/reelradar/reelradar/internal/tmdb"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("starting reelradar")

	engine, err := recommend.NewEngine(cfg.EngineConfig(), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create engine")
	}

	// Catalog source: TMDB when configured, otherwise a local catalog file.
	switch {
	case cfg.TMDB.Enabled:
		client, err := tmdb.NewClient(cfg.TMDBClientConfig(), logging.Logger())
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to create tmdb client")
		}
		engine.SetSource(client)
		logging.Info().Str("base_url", cfg.TMDB.BaseURL).Msg("using tmdb catalog source")
	case cfg.Catalog.Path != "":
		engine.SetSource(&catalog.FileSource{Path: cfg.Catalog.Path})
		logging.Info().Str("path", cfg.Catalog.Path).Msg("using file catalog source")
	default:
		logging.Warn().Msg("no catalog source configured; only persisted artifacts can serve queries")
	}

	if cfg.Index.DataDir != "" {
		store, err := storage.NewStore(cfg.Index.DataDir, logging.Logger())
		if err != nil {
			logging.Fatal().Err(err).Str("dir", cfg.Index.DataDir).Msg("failed to open artifact store")
		}
		engine.SetStore(store)
	}

	handler := api.NewHandler(engine, version)
	router := api.NewRouter(handler, api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		RateLimitDisabled:  cfg.Server.RateLimitDisabled,
	}))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// sutureslog needs slog; the adapter bridges it to zerolog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create supervisor tree")
	}

	tree.AddIndexService(services.NewIndexService(engine, services.IndexServiceConfig{
		BuildOnStartup:  cfg.Index.BuildOnStartup,
		RebuildInterval: cfg.Index.RebuildInterval,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := tree.ServeBackground(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor exited with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("supervisor failed")
		}
	}

	logging.Info().Msg("shutdown complete")
}
