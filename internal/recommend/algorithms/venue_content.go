// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package algorithms

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuelens/internal/catalog"
	"github.com/tomtom215/venuelens/internal/recommend"
	"github.com/tomtom215/venuelens/internal/similarity"
)

// VenueContent ranks concerts by the composite similarity of their venue to
// a seed set of preferred venues: haversine-derived geographic proximity +
// log-scale capacity proximity + exact venue-type match, with weights
// validated to sum to 1 at engine construction.
//
// A concert scores the maximum similarity over the seed set.
type VenueContent struct {
	weights recommend.VenueWeights
	logger  zerolog.Logger
}

// NewVenueContent creates a venue content scorer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewVenueContent(weights recommend.VenueWeights, logger zerolog.Logger) *VenueContent {
	return &VenueContent{
		weights: weights,
		logger:  logger.With().Str("scorer", "venue_content").Logger(),
	}
}

// Strategy returns the strategy this scorer implements.
func (v *VenueContent) Strategy() recommend.Strategy {
	return recommend.StrategyContentVenue
}

// Score produces candidate scores for the request. Seed venues absent from
// the catalog are skipped with a logged warning; no usable seeds yields an
// empty slice, never an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (v *VenueContent) Score(_ context.Context, snap *recommend.Snapshot, req recommend.Request) ([]recommend.RecommendationScore, error) {
	if len(req.SeedVenueIDs) == 0 || snap.Catalog == nil {
		return nil, nil
	}

	seeds := make([]*catalog.Venue, 0, len(req.SeedVenueIDs))
	for _, id := range req.SeedVenueIDs {
		seed := snap.Catalog.Venue(id)
		if seed == nil {
			v.logger.Warn().Str("venue_id", id).Msg("seed venue not in catalog, skipping")
			continue
		}
		seeds = append(seeds, seed)
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	seen := seenConcerts(snap, req.UserID)

	scores := make([]recommend.RecommendationScore, 0, len(snap.Catalog.Concerts))
	for _, concert := range snap.Catalog.Concerts {
		if _, ok := seen[concert.ID]; ok {
			continue
		}
		venue := snap.Catalog.Venue(concert.VenueID)
		if venue == nil {
			continue
		}

		best := 0.0
		var bestSeed *catalog.Venue
		for _, seed := range seeds {
			if sim := v.venueSimilarity(seed, venue); sim > best {
				best = sim
				bestSeed = seed
			}
		}
		if best <= 0 || bestSeed == nil {
			continue
		}

		scores = append(scores, recommend.RecommendationScore{
			TargetID:   concert.ID,
			Score:      best,
			Confidence: best,
			Reasoning: fmt.Sprintf("%s is %.0f%% similar to %s",
				venueName(venue), best*100, venueName(bestSeed)),
			Strategy: recommend.StrategyContentVenue,
		})
	}
	return scores, nil
}

// venueSimilarity computes the weighted composite venue similarity.
func (v *VenueContent) venueSimilarity(x, y *catalog.Venue) float64 {
	geo := similarity.Geo(x.Latitude, x.Longitude, y.Latitude, y.Longitude, v.weights.GeoScaleKm)
	capSim := similarity.LogCapacity(float64(x.Capacity), float64(y.Capacity), v.weights.MaxCapacityRatio)

	typeMatch := 0.0
	if x.VenueType != "" && x.VenueType == y.VenueType {
		typeMatch = 1.0
	}

	return v.weights.Geo*geo + v.weights.Capacity*capSim + v.weights.TypeMatch*typeMatch
}

// venueName prefers the display name, falling back to the ID.
func venueName(v *catalog.Venue) string {
	if v.Name != "" {
		return v.Name
	}
	return v.ID
}
