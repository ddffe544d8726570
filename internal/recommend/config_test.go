// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package recommend

import (
	"errors"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidateWeightSums(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "artist weights over 1",
			mutate: func(c *Config) {
				c.Artist.Genre = 0.5
				c.Artist.Popularity = 0.6
				c.Artist.Era = 0.2
			},
		},
		{
			name: "artist weights under 1",
			mutate: func(c *Config) {
				c.Artist.Genre = 0.3
				c.Artist.Popularity = 0.3
				c.Artist.Era = 0.2
			},
		},
		{
			name: "negative artist weight",
			mutate: func(c *Config) {
				c.Artist.Genre = 1.2
				c.Artist.Popularity = -0.4
				c.Artist.Era = 0.2
			},
		},
		{
			name: "venue weights off",
			mutate: func(c *Config) {
				c.Venue.Geo = 0.5
				c.Venue.Capacity = 0.5
				c.Venue.TypeMatch = 0.2
			},
		},
		{
			name: "content hybrid weights off",
			mutate: func(c *Config) {
				c.ContentHybrid.Artist = 0.6
				c.ContentHybrid.Venue = 0.6
			},
		},
		{
			name: "hybrid all weights off",
			mutate: func(c *Config) {
				c.HybridAll.CollaborativeUser = 0.5
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			// Weights are never silently normalized.
			if !errors.Is(err, ErrWeightsSum) {
				t.Errorf("error = %v, want ErrWeightsSum", err)
			}
		})
	}
}

func TestConfigValidateLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "default_k zero", mutate: func(c *Config) { c.Limits.DefaultK = 0 }},
		{name: "max_k below default_k", mutate: func(c *Config) { c.Limits.MaxK = c.Limits.DefaultK - 1 }},
		{name: "max_batch zero", mutate: func(c *Config) { c.Limits.MaxBatch = 0 }},
		{name: "neighbor_k zero", mutate: func(c *Config) { c.Collaborative.NeighborK = 0 }},
		{name: "bad weight mode", mutate: func(c *Config) { c.Collaborative.WeightMode = "exotic" }},
		{name: "geo scale zero", mutate: func(c *Config) { c.Venue.GeoScaleKm = 0 }},
		{name: "capacity ratio too small", mutate: func(c *Config) { c.Venue.MaxCapacityRatio = 1 }},
		{name: "era difference zero", mutate: func(c *Config) { c.Artist.MaxEraDifference = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.Limits.DefaultK = 99

	if cfg.Limits.DefaultK == 99 {
		t.Error("Clone() did not produce an independent copy")
	}
}
