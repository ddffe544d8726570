// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package algorithms

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuelens/internal/catalog"
	"github.com/tomtom215/venuelens/internal/recommend"
)

func defaultVenueWeights() recommend.VenueWeights {
	return recommend.VenueWeights{
		Geo:              0.4,
		Capacity:         0.4,
		TypeMatch:        0.2,
		GeoScaleKm:       100,
		MaxCapacityRatio: 100,
	}
}

func TestVenueCompositeValue(t *testing.T) {
	t.Parallel()

	scorer := NewVenueContent(defaultVenueWeights(), zerolog.Nop())

	t.Run("identical venues score 1", func(t *testing.T) {
		t.Parallel()
		v := &catalog.Venue{ID: "v", Latitude: 40.75, Longitude: -73.99, Capacity: 20000, VenueType: "arena"}
		got := scorer.venueSimilarity(v, v)
		if math.Abs(got-1.0) > 1e-9 {
			t.Errorf("venueSimilarity(v,v) = %v, want 1.0", got)
		}
	})

	t.Run("type mismatch drops the type component", func(t *testing.T) {
		t.Parallel()
		a := &catalog.Venue{ID: "a", Latitude: 40.75, Longitude: -73.99, Capacity: 500, VenueType: "arena"}
		b := &catalog.Venue{ID: "b", Latitude: 40.75, Longitude: -73.99, Capacity: 500, VenueType: "club"}
		got := scorer.venueSimilarity(a, b)
		if math.Abs(got-0.8) > 1e-9 {
			t.Errorf("venueSimilarity = %v, want 0.8 (geo 1 + capacity 1, no type)", got)
		}
	})

	t.Run("empty venue type never matches", func(t *testing.T) {
		t.Parallel()
		a := &catalog.Venue{ID: "a", Latitude: 40.75, Longitude: -73.99, Capacity: 500}
		b := &catalog.Venue{ID: "b", Latitude: 40.75, Longitude: -73.99, Capacity: 500}
		got := scorer.venueSimilarity(a, b)
		if math.Abs(got-0.8) > 1e-9 {
			t.Errorf("venueSimilarity = %v, want 0.8 (unknown types do not match)", got)
		}
	})

	t.Run("capacity gap at max ratio zeroes capacity component", func(t *testing.T) {
		t.Parallel()
		a := &catalog.Venue{ID: "a", Latitude: 40.75, Longitude: -73.99, Capacity: 50, VenueType: "club"}
		b := &catalog.Venue{ID: "b", Latitude: 40.75, Longitude: -73.99, Capacity: 5000, VenueType: "club"}
		got := scorer.venueSimilarity(a, b)
		if math.Abs(got-0.6) > 1e-9 {
			t.Errorf("venueSimilarity = %v, want 0.6 (geo 1 + type 1, no capacity)", got)
		}
	})
}

func TestVenueContentRanking(t *testing.T) {
	t.Parallel()

	snap := &recommend.Snapshot{
		Matrix:  recommend.BuildMatrix(nil, recommend.MatrixOptions{WeightMode: recommend.WeightModeCount}),
		Catalog: testCatalog(t),
	}

	scorer := NewVenueContent(defaultVenueWeights(), zerolog.Nop())
	scores, err := scorer.Score(context.Background(), snap, recommend.Request{
		SeedVenueIDs: []string{"venB"},
		Strategy:     recommend.StrategyContentVenue,
	})
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	byID := map[string]recommend.RecommendationScore{}
	for _, s := range scores {
		byID[s.TargetID] = s
	}

	// conB and conC are both at the seed venue itself and must outrank
	// conA at the dissimilar arena.
	if byID["conB"].Score <= byID["conA"].Score {
		t.Errorf("conB (%v) should outrank conA (%v)", byID["conB"].Score, byID["conA"].Score)
	}
}

func TestVenueContentMissingSeeds(t *testing.T) {
	t.Parallel()

	snap := &recommend.Snapshot{
		Matrix:  recommend.BuildMatrix(nil, recommend.MatrixOptions{WeightMode: recommend.WeightModeCount}),
		Catalog: testCatalog(t),
	}
	scorer := NewVenueContent(defaultVenueWeights(), zerolog.Nop())

	scores, err := scorer.Score(context.Background(), snap, recommend.Request{
		SeedVenueIDs: []string{"ghost"},
		Strategy:     recommend.StrategyContentVenue,
	})
	if err != nil {
		t.Fatalf("missing seeds must not error: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("expected empty scores, got %v", scores)
	}
}
