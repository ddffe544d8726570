// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/venuelens/internal/catalog"
)

// Strategy selects how recommendations are produced.
type Strategy string

const (
	// StrategyCollaborativeUser recommends via similar users' history.
	StrategyCollaborativeUser Strategy = "collaborative-user"
	// StrategyCollaborativeItem recommends via item-item co-engagement.
	StrategyCollaborativeItem Strategy = "collaborative-item"
	// StrategyContentArtist ranks concerts by artist similarity to seeds.
	StrategyContentArtist Strategy = "content-artist"
	// StrategyContentVenue ranks concerts by venue similarity to seeds.
	StrategyContentVenue Strategy = "content-venue"
	// StrategyContentHybrid blends artist and venue content scores.
	StrategyContentHybrid Strategy = "content-hybrid"
	// StrategyHybridAll merges every available strategy's scores.
	StrategyHybridAll Strategy = "hybrid-all"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyCollaborativeUser, StrategyCollaborativeItem,
		StrategyContentArtist, StrategyContentVenue,
		StrategyContentHybrid, StrategyHybridAll:
		return true
	}
	return false
}

// SimilarityMethod identifies how a similarity score was computed.
type SimilarityMethod string

const (
	MethodCosine    SimilarityMethod = "cosine"
	MethodJaccard   SimilarityMethod = "jaccard"
	MethodHaversine SimilarityMethod = "haversine-derived"
	MethodComposite SimilarityMethod = "composite-weighted"
)

// SimilarityScore is one computed pairwise similarity. Produced fresh per
// query; never persisted.
type SimilarityScore struct {
	EntityA string           `json:"entity_a"`
	EntityB string           `json:"entity_b"`
	Score   float64          `json:"score"`
	Method  SimilarityMethod `json:"method"`
}

// RecommendationScore is one candidate recommendation.
type RecommendationScore struct {
	// TargetID is the recommended entity (concert/artist/venue).
	TargetID string `json:"target_id"`

	// Score is the strategy-combined recommendation score.
	Score float64 `json:"score"`

	// Confidence is in [0, 1]; higher means a stronger signal.
	Confidence float64 `json:"confidence"`

	// Reasoning is a human-readable explanation for the recommendation.
	Reasoning string `json:"reasoning"`

	// Strategy is the source strategy that produced this score.
	Strategy Strategy `json:"strategy"`
}

// Request is one recommendation request. Context carries either a user ID
// (collaborative/hybrid) or explicit preference seeds (content-based).
type Request struct {
	// RequestID is a unique identifier for tracing; generated when empty.
	RequestID string `json:"request_id,omitempty"`

	// UserID is the user to recommend for (collaborative strategies).
	UserID string `json:"user_id,omitempty"`

	// SeedArtistIDs are preferred artists (content strategies).
	SeedArtistIDs []string `json:"seed_artist_ids,omitempty"`

	// SeedVenueIDs are preferred venues (content strategies).
	SeedVenueIDs []string `json:"seed_venue_ids,omitempty"`

	// Strategy selects the recommendation strategy.
	Strategy Strategy `json:"strategy"`

	// TopK bounds the result list length. Defaults to Config.Limits.DefaultK
	// when zero; values above Config.Limits.MaxK are clamped.
	TopK int `json:"top_k,omitempty"`
}

// Result is the full answer to one recommendation request. Callers own it
// after the orchestrator call; it is never mutated after construction.
type Result struct {
	// ContextID is the owning user or context identifier.
	ContextID string `json:"context_id"`

	// Scores is strictly descending by score, ties broken by ascending
	// target ID.
	Scores []RecommendationScore `json:"scores"`

	// Strategy is the strategy used to produce the result.
	Strategy Strategy `json:"strategy"`

	// Reasoning carries an explanatory note when the result is empty or
	// partial (cold start, missing seeds).
	Reasoning string `json:"reasoning,omitempty"`

	// Metadata contains timing and diagnostic information.
	Metadata ResultMetadata `json:"metadata"`
}

// ResultMetadata contains timing and diagnostic information.
type ResultMetadata struct {
	RequestID      string    `json:"request_id"`
	StrategiesUsed []string  `json:"strategies_used"`
	Candidates     int       `json:"candidates"`
	LatencyMS      int64     `json:"latency_ms"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// BatchItem pairs one batch request's result with its error, if any.
// Degenerate cases (cold users, missing seeds) produce empty results, not
// errors; only validation failures populate Err.
type BatchItem struct {
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`

	// Error is the JSON-visible form of Err.
	Error string `json:"error,omitempty"`
}

// Snapshot bundles the immutable per-request view of the data: the
// interaction matrix and the feature catalog. Scorers must not mutate it.
type Snapshot struct {
	Matrix  *InteractionMatrix
	Catalog *catalog.Catalog
}

// Scorer produces candidate scores for one strategy. Implementations must
// be safe for concurrent use and must not mutate the snapshot.
type Scorer interface {
	// Strategy returns the strategy this scorer implements.
	Strategy() Strategy

	// Score returns candidate scores for the request. Cold or seed-less
	// contexts yield an empty slice and a nil error.
	Score(ctx context.Context, snap *Snapshot, req Request) ([]RecommendationScore, error)
}

// DataProvider supplies the in-memory collections the engine computes over.
// This is typically implemented by the data-access layer; the engine itself
// never issues network or disk calls.
type DataProvider interface {
	// Interactions returns the user-concert interaction history.
	Interactions(ctx context.Context) ([]catalog.UserInteraction, error)

	// Catalog returns the artist/venue/concert feature catalog.
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}
