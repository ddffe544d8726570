// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

// Package main is the entry point for the VenueLens server.
//
// VenueLens serves concert recommendations (collaborative filtering plus
// content-based artist/venue similarity) and statistical model monitoring
// (drift detection, performance tracking, retraining triggers) over a
// REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 loading (defaults, config file, env)
//  2. Logging: zerolog, configured from the loaded settings
//  3. Data store: in-memory catalog and interaction history, optionally
//     seeded from a JSON file
//  4. Recommendation engine: all strategy scorers registered
//  5. Monitoring orchestrator: drift detection and performance tracking
//  6. HTTP server: chi router with rate limiting and Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (HTTP_PORT, LOG_LEVEL, ENGINE_NEIGHBOR_K, ...)
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
//
// # Seed Data
//
// The in-memory store starts empty; pass -seed with a JSON file holding
// artists, venues, concerts, and interactions to serve recommendations
// immediately:
//
//	./venuelens -seed testdata/seed.json
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting new connections and waits for in-flight requests up to the
// configured shutdown timeout.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/venuelens/internal/api"
	"github.com/tomtom215/venuelens/internal/config"
	"github.com/tomtom215/venuelens/internal/logging"
	"github.com/tomtom215/venuelens/internal/metrics"
	"github.com/tomtom215/venuelens/internal/monitor"
	"github.com/tomtom215/venuelens/internal/recommend"
	"github.com/tomtom215/venuelens/internal/recommend/algorithms"
	"github.com/tomtom215/venuelens/internal/store"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	seedPath := flag.String("seed", "", "path to a JSON seed file with catalog and interaction data")
	flag.Parse()

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.ToLogging())
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("addr", cfg.ListenAddr()).
		Str("log_level", cfg.Logging.Level).
		Msg("Starting VenueLens")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	// Data store, optionally seeded from disk.
	mem := store.NewMemory()
	if *seedPath != "" {
		if err := mem.LoadSeedFile(*seedPath); err != nil {
			logging.Fatal().Err(err).Str("path", *seedPath).Msg("Failed to load seed data")
		}
		logging.Info().Str("path", *seedPath).Msg("Seed data loaded")
	} else {
		logging.Info().Msg("No seed file provided - store starts empty")
	}

	// Recommendation engine with every strategy scorer registered.
	engine, err := recommend.NewEngine(&cfg.Engine, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	engine.RegisterScorer(algorithms.NewUserCF(cfg.Engine.Collaborative.NeighborK, logger))
	engine.RegisterScorer(algorithms.NewItemCF(cfg.Engine.Collaborative.NeighborK, logger))
	engine.RegisterScorer(algorithms.NewArtistContent(cfg.Engine.Artist, logger))
	engine.RegisterScorer(algorithms.NewVenueContent(cfg.Engine.Venue, logger))
	engine.SetDataProvider(mem)
	logging.Info().
		Int("neighbor_k", cfg.Engine.Collaborative.NeighborK).
		Str("weight_mode", string(cfg.Engine.Collaborative.WeightMode)).
		Msg("Recommendation engine initialized")

	// Monitoring orchestrator with the in-memory trigger history.
	orch, err := monitor.NewOrchestrator(&cfg.Monitor, monitor.NewMemoryTriggerStore(), logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize monitoring orchestrator")
	}
	logging.Info().
		Float64("psi_threshold", cfg.Monitor.Drift.PSIThreshold).
		Int("min_sample_size", cfg.Monitor.Drift.MinSampleSize).
		Msg("Monitoring orchestrator initialized")

	handler := api.NewHandler(engine, orch, logger)
	router := api.NewRouter(handler, api.RouterOptions{
		RateLimitReqs:     cfg.Server.RateLimitReqs,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
		RateLimitDisabled: cfg.Server.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Uptime gauge, updated until shutdown.
	uptimeCtx, stopUptime := context.WithCancel(context.Background())
	defer stopUptime()
	go trackUptime(uptimeCtx)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		if err := server.Close(); err != nil {
			logging.Error().Err(err).Msg("Forced close failed")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// trackUptime updates the uptime gauge every 15 seconds.
func trackUptime(ctx context.Context) {
	start := time.Now()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.AppUptime.Set(time.Since(start).Seconds())
		}
	}
}
