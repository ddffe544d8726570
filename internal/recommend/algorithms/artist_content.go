// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package algorithms

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuelens/internal/catalog"
	"github.com/tomtom215/venuelens/internal/recommend"
	"github.com/tomtom215/venuelens/internal/similarity"
)

// ArtistContent ranks concerts by the composite similarity of their artist
// to a seed set of preferred artists. The composite is genre Jaccard +
// popularity proximity + formation-era proximity with weights validated to
// sum to 1 at engine construction.
//
// A concert scores the maximum similarity over the seed set, so one strong
// match is enough to surface it.
type ArtistContent struct {
	weights recommend.ArtistWeights
	logger  zerolog.Logger
}

// NewArtistContent creates an artist content scorer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewArtistContent(weights recommend.ArtistWeights, logger zerolog.Logger) *ArtistContent {
	return &ArtistContent{
		weights: weights,
		logger:  logger.With().Str("scorer", "artist_content").Logger(),
	}
}

// Strategy returns the strategy this scorer implements.
func (a *ArtistContent) Strategy() recommend.Strategy {
	return recommend.StrategyContentArtist
}

// Score produces candidate scores for the request. Seed artists absent from
// the catalog are skipped with a logged warning; partial results are
// preferred over total failure. No usable seeds yields an empty slice.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *ArtistContent) Score(_ context.Context, snap *recommend.Snapshot, req recommend.Request) ([]recommend.RecommendationScore, error) {
	if len(req.SeedArtistIDs) == 0 || snap.Catalog == nil {
		return nil, nil
	}

	seeds := make([]*catalog.Artist, 0, len(req.SeedArtistIDs))
	for _, id := range req.SeedArtistIDs {
		seed := snap.Catalog.Artist(id)
		if seed == nil {
			a.logger.Warn().Str("artist_id", id).Msg("seed artist not in catalog, skipping")
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
		artist := snap.Catalog.Artist(concert.ArtistID)
		if artist == nil {
			continue
		}

		best := 0.0
		var bestSeed *catalog.Artist
		for _, seed := range seeds {
			if sim := a.artistSimilarity(seed, artist); sim > best {
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
				artistName(artist), best*100, artistName(bestSeed)),
			Strategy: recommend.StrategyContentArtist,
		})
	}
	return scores, nil
}

// artistSimilarity computes the weighted composite artist similarity.
func (a *ArtistContent) artistSimilarity(x, y *catalog.Artist) float64 {
	genre := similarity.Jaccard(x.Genres, y.Genres)

	pop := 1.0 - math.Abs(x.Popularity-y.Popularity)/100.0
	if pop < 0 {
		pop = 0
	}

	// Unknown formation years default to a perfect era match rather than
	// penalizing artists with sparse metadata.
	era := 1.0
	if x.FormationYear != 0 && y.FormationYear != 0 {
		diff := math.Abs(float64(x.FormationYear - y.FormationYear))
		era = 1.0 - diff/float64(a.weights.MaxEraDifference)
		if era < 0 {
			era = 0
		}
	}

	return a.weights.Genre*genre + a.weights.Popularity*pop + a.weights.Era*era
}

// artistName prefers the display name, falling back to the ID.
func artistName(a *catalog.Artist) string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// seenConcerts returns the set of concert IDs the user already engaged
// with, for exclusion from content recommendations.
func seenConcerts(snap *recommend.Snapshot, userID string) map[string]struct{} {
	seen := make(map[string]struct{})
	if userID == "" || snap.Matrix == nil {
		return seen
	}
	for it := range snap.Matrix.UserRow(userID) {
		seen[snap.Matrix.ItemID(it)] = struct{}{}
	}
	return seen
}
