// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/venuelens/config.yaml",
	"/etc/venuelens/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// Precedence is ENV > file > defaults. The result is validated before
// being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Environment variable names map to koanf paths through an explicit
	// table; unmapped variables are ignored so unrelated environment
	// state never pollutes the config.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_read_timeout":   "server.read_timeout",
	"http_write_timeout":  "server.write_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Engine limits
	"engine_default_k": "engine.limits.default_k",
	"engine_max_k":     "engine.limits.max_k",
	"engine_max_batch": "engine.limits.max_batch",

	// Collaborative filtering
	"engine_neighbor_k":        "engine.collaborative.neighbor_k",
	"engine_weight_mode":       "engine.collaborative.weight_mode",
	"engine_recency_half_life": "engine.collaborative.recency_half_life",

	// Artist composite weights
	"engine_artist_genre_weight":      "engine.artist.genre",
	"engine_artist_popularity_weight": "engine.artist.popularity",
	"engine_artist_era_weight":        "engine.artist.era",
	"engine_artist_max_era_diff":      "engine.artist.max_era_difference",

	// Venue composite weights
	"engine_venue_geo_weight":         "engine.venue.geo",
	"engine_venue_capacity_weight":    "engine.venue.capacity",
	"engine_venue_type_weight":        "engine.venue.type_match",
	"engine_venue_geo_scale_km":       "engine.venue.geo_scale_km",
	"engine_venue_max_capacity_ratio": "engine.venue.max_capacity_ratio",

	// Hybrid blends
	"engine_hybrid_artist_weight":     "engine.content_hybrid.artist",
	"engine_hybrid_venue_weight":      "engine.content_hybrid.venue",
	"engine_hybrid_all_user_weight":   "engine.hybrid_all.collaborative_user",
	"engine_hybrid_all_item_weight":   "engine.hybrid_all.collaborative_item",
	"engine_hybrid_all_artist_weight": "engine.hybrid_all.content_artist",
	"engine_hybrid_all_venue_weight":  "engine.hybrid_all.content_venue",

	// Drift detection
	"monitor_psi_bins":          "monitor.drift.bins",
	"monitor_psi_epsilon":       "monitor.drift.epsilon",
	"monitor_psi_threshold":     "monitor.drift.psi_threshold",
	"monitor_psi_moderate":      "monitor.drift.psi_moderate",
	"monitor_psi_critical":      "monitor.drift.psi_critical",
	"monitor_ks_significance":   "monitor.drift.ks_significance",
	"monitor_chi2_significance": "monitor.drift.chi_square_significance",
	"monitor_min_sample_size":   "monitor.drift.min_sample_size",

	// Performance thresholds
	"monitor_mae_degradation":     "monitor.performance.mae_degradation",
	"monitor_rmse_degradation":    "monitor.performance.rmse_degradation",
	"monitor_mape_degradation":    "monitor.performance.mape_degradation",
	"monitor_r2_degradation":      "monitor.performance.r2_degradation",
	"monitor_r2_critical_drop":    "monitor.performance.r2_critical_drop",
	"monitor_ranking_degradation": "monitor.performance.ranking_degradation",
	"monitor_ranking_k":           "monitor.performance.k",
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//   - ENGINE_NEIGHBOR_K -> engine.collaborative.neighbor_k
//   - MONITOR_PSI_THRESHOLD -> monitor.drift.psi_threshold
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped.
	return ""
}
