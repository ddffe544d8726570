// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package recommend

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// weightSumTolerance is the floating-point tolerance for the sum-to-1 checks.
const weightSumTolerance = 1e-9

// ErrWeightsSum indicates a composite weight set that does not sum to 1.
// Weights are never silently normalized; a bad sum is a logic error.
var ErrWeightsSum = errors.New("recommend: weights must sum to 1")

// Config contains all configuration for the recommendation engine.
// Constructed once and passed down explicitly; no globals.
type Config struct {
	// Limits contains operational limits.
	Limits LimitsConfig `koanf:"limits" json:"limits"`

	// Collaborative contains parameters for user/item collaborative filtering.
	Collaborative CollaborativeConfig `koanf:"collaborative" json:"collaborative"`

	// Artist contains the artist composite similarity weights.
	Artist ArtistWeights `koanf:"artist" json:"artist"`

	// Venue contains the venue composite similarity weights.
	Venue VenueWeights `koanf:"venue" json:"venue"`

	// ContentHybrid blends artist and venue content scores.
	ContentHybrid ContentHybridConfig `koanf:"content_hybrid" json:"content_hybrid"`

	// HybridAll defines the per-strategy weights for the hybrid-all merge.
	HybridAll HybridAllWeights `koanf:"hybrid_all" json:"hybrid_all"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of recommendations returned when the request
	// does not specify top_k. Default: 10.
	DefaultK int `koanf:"default_k" json:"default_k"`

	// MaxK is the hard ceiling on top_k; larger requests are clamped to
	// bound compute. Default: 100.
	MaxK int `koanf:"max_k" json:"max_k"`

	// MaxBatch is the maximum number of contexts in one batch request.
	// Default: 100.
	MaxBatch int `koanf:"max_batch" json:"max_batch"`
}

// WeightMode selects how interaction weights are accumulated in the matrix.
type WeightMode string

const (
	// WeightModeCount sums interaction-type weights.
	WeightModeCount WeightMode = "count"
	// WeightModeRecency sums interaction-type weights decayed by age.
	WeightModeRecency WeightMode = "recency"
)

// CollaborativeConfig contains parameters for collaborative filtering.
type CollaborativeConfig struct {
	// NeighborK is the number of most-similar users (or items) consulted.
	// Default: 10.
	NeighborK int `koanf:"neighbor_k" json:"neighbor_k"`

	// WeightMode selects count or recency-weighted matrix construction.
	// Default: count.
	WeightMode WeightMode `koanf:"weight_mode" json:"weight_mode"`

	// RecencyHalfLife is the age at which a recency-weighted interaction
	// contributes half its base weight. Only used in recency mode.
	// Default: 90 days.
	RecencyHalfLife time.Duration `koanf:"recency_half_life" json:"recency_half_life"`
}

// ArtistWeights is the artist composite: genre Jaccard, popularity
// proximity, and formation-era proximity. Must sum to 1.
type ArtistWeights struct {
	// Genre is the genre Jaccard weight. Default: 0.5.
	Genre float64 `koanf:"genre" json:"genre"`

	// Popularity is the popularity-difference weight. Default: 0.3.
	Popularity float64 `koanf:"popularity" json:"popularity"`

	// Era is the formation-era proximity weight. Default: 0.2.
	Era float64 `koanf:"era" json:"era"`

	// MaxEraDifference is the year gap at which era similarity reaches 0.
	// Artists with an unknown formation year score a perfect era match.
	// Default: 30.
	MaxEraDifference int `koanf:"max_era_difference" json:"max_era_difference"`
}

// VenueWeights is the venue composite: geographic proximity, log-scale
// capacity proximity, and venue-type match. Must sum to 1.
type VenueWeights struct {
	// Geo is the haversine-derived similarity weight. Default: 0.4.
	Geo float64 `koanf:"geo" json:"geo"`

	// Capacity is the log-capacity similarity weight. Default: 0.4.
	Capacity float64 `koanf:"capacity" json:"capacity"`

	// TypeMatch is the exact venue-type match weight. Default: 0.2.
	TypeMatch float64 `koanf:"type_match" json:"type_match"`

	// GeoScaleKm controls geographic decay: venues this far apart score
	// 0.5 geo similarity. Default: 100.
	GeoScaleKm float64 `koanf:"geo_scale_km" json:"geo_scale_km"`

	// MaxCapacityRatio is the capacity ratio at which log-capacity
	// similarity reaches 0. Default: 100.
	MaxCapacityRatio float64 `koanf:"max_capacity_ratio" json:"max_capacity_ratio"`
}

// ContentHybridConfig blends artist and venue content scores. Must sum to 1.
type ContentHybridConfig struct {
	// Artist is the artist-content mixing weight. Default: 0.5.
	Artist float64 `koanf:"artist" json:"artist"`

	// Venue is the venue-content mixing weight. Default: 0.5.
	Venue float64 `koanf:"venue" json:"venue"`
}

// HybridAllWeights defines per-strategy contributions for the hybrid-all
// weighted-sum merge. Must sum to 1; default is equal weighting.
type HybridAllWeights struct {
	CollaborativeUser float64 `koanf:"collaborative_user" json:"collaborative_user"`
	CollaborativeItem float64 `koanf:"collaborative_item" json:"collaborative_item"`
	ContentArtist     float64 `koanf:"content_artist" json:"content_artist"`
	ContentVenue      float64 `koanf:"content_venue" json:"content_venue"`
}

// ToMap returns the hybrid-all weights keyed by strategy.
func (w HybridAllWeights) ToMap() map[Strategy]float64 {
	return map[Strategy]float64{
		StrategyCollaborativeUser: w.CollaborativeUser,
		StrategyCollaborativeItem: w.CollaborativeItem,
		StrategyContentArtist:     w.ContentArtist,
		StrategyContentVenue:      w.ContentVenue,
	}
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultK: 10,
			MaxK:     100,
			MaxBatch: 100,
		},
		Collaborative: CollaborativeConfig{
			NeighborK:       10,
			WeightMode:      WeightModeCount,
			RecencyHalfLife: 90 * 24 * time.Hour,
		},
		Artist: ArtistWeights{
			Genre:            0.5,
			Popularity:       0.3,
			Era:              0.2,
			MaxEraDifference: 30,
		},
		Venue: VenueWeights{
			Geo:              0.4,
			Capacity:         0.4,
			TypeMatch:        0.2,
			GeoScaleKm:       100,
			MaxCapacityRatio: 100,
		},
		ContentHybrid: ContentHybridConfig{
			Artist: 0.5,
			Venue:  0.5,
		},
		HybridAll: HybridAllWeights{
			CollaborativeUser: 0.25,
			CollaborativeItem: 0.25,
			ContentArtist:     0.25,
			ContentVenue:      0.25,
		},
	}
}

// Validate checks the configuration for errors. Composite weight sets that
// do not sum to 1 are rejected here, the single well-defined checkpoint for
// that invariant.
func (c *Config) Validate() error {
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d",
			c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.MaxBatch < 1 {
		return fmt.Errorf("limits.max_batch must be positive, got %d", c.Limits.MaxBatch)
	}

	if c.Collaborative.NeighborK < 1 {
		return fmt.Errorf("collaborative.neighbor_k must be positive, got %d", c.Collaborative.NeighborK)
	}
	switch c.Collaborative.WeightMode {
	case WeightModeCount, WeightModeRecency:
	default:
		return fmt.Errorf("collaborative.weight_mode must be count or recency, got %q", c.Collaborative.WeightMode)
	}
	if c.Collaborative.WeightMode == WeightModeRecency && c.Collaborative.RecencyHalfLife <= 0 {
		return fmt.Errorf("collaborative.recency_half_life must be positive, got %v", c.Collaborative.RecencyHalfLife)
	}

	if err := checkWeightSum("artist", c.Artist.Genre, c.Artist.Popularity, c.Artist.Era); err != nil {
		return err
	}
	if c.Artist.MaxEraDifference < 1 {
		return fmt.Errorf("artist.max_era_difference must be positive, got %d", c.Artist.MaxEraDifference)
	}

	if err := checkWeightSum("venue", c.Venue.Geo, c.Venue.Capacity, c.Venue.TypeMatch); err != nil {
		return err
	}
	if c.Venue.GeoScaleKm <= 0 {
		return fmt.Errorf("venue.geo_scale_km must be positive, got %f", c.Venue.GeoScaleKm)
	}
	if c.Venue.MaxCapacityRatio <= 1 {
		return fmt.Errorf("venue.max_capacity_ratio must be > 1, got %f", c.Venue.MaxCapacityRatio)
	}

	if err := checkWeightSum("content_hybrid", c.ContentHybrid.Artist, c.ContentHybrid.Venue); err != nil {
		return err
	}
	if err := checkWeightSum("hybrid_all",
		c.HybridAll.CollaborativeUser, c.HybridAll.CollaborativeItem,
		c.HybridAll.ContentArtist, c.HybridAll.ContentVenue); err != nil {
		return err
	}

	return nil
}

// checkWeightSum verifies a weight set sums to 1 and contains no negatives.
func checkWeightSum(name string, weights ...float64) error {
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: %s has negative weight %f", ErrWeightsSum, name, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: %s sums to %f", ErrWeightsSum, name, sum)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs are value types.
	cp := *c
	return &cp
}
