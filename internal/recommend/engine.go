// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

// Package recommend implements the recommendation orchestrator: a hybrid
// engine that dispatches to collaborative and content-based scorers, merges
// their scores, and returns deterministically ordered results.
//
// The engine computes over in-memory snapshots supplied by a DataProvider;
// it never issues network or disk calls itself. Each request builds a fresh
// interaction matrix, so the engine holds no mutable per-request state and
// is safe for concurrent use.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/venuelens/internal/metrics"
)

// Validation errors returned before any computation begins.
var (
	// ErrInvalidTopK indicates a non-positive top_k in the request.
	ErrInvalidTopK = errors.New("recommend: top_k must be a positive integer")

	// ErrUnknownStrategy indicates an unrecognized strategy value.
	ErrUnknownStrategy = errors.New("recommend: unknown strategy")

	// ErrNoDataProvider indicates the engine has no data provider set.
	ErrNoDataProvider = errors.New("recommend: data provider not set")

	// ErrBatchTooLarge indicates a batch above the configured ceiling.
	ErrBatchTooLarge = errors.New("recommend: batch exceeds max size")
)

// Engine coordinates the per-strategy scorers and produces final ranked
// recommendations. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	scorers  map[Strategy]Scorer
	scorerMu sync.RWMutex

	dataProvider DataProvider

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates a recommendation engine with the given configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		scorers: make(map[Strategy]Scorer),
	}, nil
}

// SetDataProvider sets the data provider used to build per-request snapshots.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.dataProvider = dp
}

// RegisterScorer adds a scorer for its strategy. Registering a second
// scorer for the same strategy replaces the first.
func (e *Engine) RegisterScorer(s Scorer) {
	e.scorerMu.Lock()
	defer e.scorerMu.Unlock()

	e.scorers[s.Strategy()] = s
	e.logger.Info().
		Str("strategy", string(s.Strategy())).
		Msg("registered scorer")
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// RequestCount returns the total number of recommendation requests served.
func (e *Engine) RequestCount() int64 {
	return e.requestCount.Load()
}

// Recommend produces ranked recommendations for one request. Validation
// failures (bad strategy, non-positive top_k) return an error before any
// computation; cold users and missing seeds produce an empty result with a
// reasoning note instead.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req, err := e.prepareRequest(req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("strategy", string(req.Strategy)).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	snap, err := e.buildSnapshot(ctx)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	return e.recommendOn(ctx, snap, req, start, logger)
}

// recommendOn runs the scorers for req against an already-built snapshot.
func (e *Engine) recommendOn(ctx context.Context, snap *Snapshot, req Request, start time.Time, logger zerolog.Logger) (*Result, error) {
	scorers, weights, err := e.selectScorers(req.Strategy)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	results := e.runScorers(ctx, snap, req, scorers)
	scores, used := e.combineScores(results, weights, req.Strategy)

	sortScores(scores)
	if len(scores) > req.TopK {
		scores = scores[:req.TopK]
	}

	res := &Result{
		ContextID: contextID(req),
		Scores:    scores,
		Strategy:  req.Strategy,
		Metadata: ResultMetadata{
			RequestID:      req.RequestID,
			StrategiesUsed: used,
			Candidates:     len(scores),
			LatencyMS:      time.Since(start).Milliseconds(),
			GeneratedAt:    time.Now(),
		},
	}
	if len(scores) == 0 {
		res.Scores = []RecommendationScore{}
		res.Reasoning = emptyReasoning(req)
		logger.Debug().Msg("no candidates produced")
	}

	logger.Debug().
		Int("returned", len(res.Scores)).
		Int64("latency_ms", res.Metadata.LatencyMS).
		Msg("recommendation complete")

	return res, nil
}

// RecommendBatch processes each context independently and in parallel.
// Per-item validation failures populate the item's Err field; one bad item
// never aborts the rest of the batch. The snapshot is built once and shared
// read-only across items.
func (e *Engine) RecommendBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	if len(reqs) > e.config.Limits.MaxBatch {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(reqs), e.config.Limits.MaxBatch)
	}

	snap, err := e.buildSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(reqs))
	var wg sync.WaitGroup
	for i := range reqs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			items[idx] = e.batchOne(ctx, snap, reqs[idx])
		}(i)
	}
	wg.Wait()

	return items, nil
}

// batchOne runs a single batch item against the shared snapshot.
func (e *Engine) batchOne(ctx context.Context, snap *Snapshot, req Request) BatchItem {
	start := time.Now()
	e.requestCount.Add(1)

	req, err := e.prepareRequest(req)
	if err != nil {
		e.errorCount.Add(1)
		return BatchItem{Err: err, Error: err.Error()}
	}

	logger := e.logger.With().Str("request_id", req.RequestID).Logger()
	res, err := e.recommendOn(ctx, snap, req, start, logger)
	if err != nil {
		return BatchItem{Err: err, Error: err.Error()}
	}
	return BatchItem{Result: res}
}

// prepareRequest validates the request and applies defaults. Negative top_k
// is a logic error and is rejected; values above MaxK are clamped, the one
// sanctioned exception since it is a resource bound.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, error) {
	if !req.Strategy.Valid() {
		return req, fmt.Errorf("%w: %q", ErrUnknownStrategy, req.Strategy)
	}
	if req.TopK < 0 {
		return req, fmt.Errorf("%w: got %d", ErrInvalidTopK, req.TopK)
	}
	if req.TopK == 0 {
		req.TopK = e.config.Limits.DefaultK
	}
	if req.TopK > e.config.Limits.MaxK {
		req.TopK = e.config.Limits.MaxK
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	return req, nil
}

// buildSnapshot materializes the per-request data view: a freshly built
// interaction matrix plus the feature catalog.
func (e *Engine) buildSnapshot(ctx context.Context) (*Snapshot, error) {
	if e.dataProvider == nil {
		return nil, ErrNoDataProvider
	}

	interactions, err := e.dataProvider.Interactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("get interactions: %w", err)
	}
	cat, err := e.dataProvider.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("get catalog: %w", err)
	}

	matrix := BuildMatrix(interactions, MatrixOptions{
		WeightMode:      e.config.Collaborative.WeightMode,
		RecencyHalfLife: e.config.Collaborative.RecencyHalfLife,
	})
	stats := matrix.Stats()
	metrics.RecordMatrixStats(stats.Users, stats.Items, stats.Density)

	return &Snapshot{Matrix: matrix, Catalog: cat}, nil
}

// selectScorers resolves the scorer set and merge weights for a strategy.
func (e *Engine) selectScorers(strategy Strategy) ([]Scorer, map[Strategy]float64, error) {
	e.scorerMu.RLock()
	defer e.scorerMu.RUnlock()

	switch strategy {
	case StrategyContentHybrid:
		scorers := e.collectLocked(StrategyContentArtist, StrategyContentVenue)
		if len(scorers) == 0 {
			return nil, nil, fmt.Errorf("%w: no content scorers registered", ErrUnknownStrategy)
		}
		return scorers, map[Strategy]float64{
			StrategyContentArtist: e.config.ContentHybrid.Artist,
			StrategyContentVenue:  e.config.ContentHybrid.Venue,
		}, nil

	case StrategyHybridAll:
		scorers := e.collectLocked(StrategyCollaborativeUser, StrategyCollaborativeItem,
			StrategyContentArtist, StrategyContentVenue)
		if len(scorers) == 0 {
			return nil, nil, fmt.Errorf("%w: no scorers registered", ErrUnknownStrategy)
		}
		return scorers, e.config.HybridAll.ToMap(), nil

	default:
		s, ok := e.scorers[strategy]
		if !ok {
			return nil, nil, fmt.Errorf("%w: no scorer registered for %q", ErrUnknownStrategy, strategy)
		}
		return []Scorer{s}, map[Strategy]float64{strategy: 1.0}, nil
	}
}

// collectLocked gathers registered scorers for the given strategies.
// Must be called with scorerMu held.
func (e *Engine) collectLocked(strategies ...Strategy) []Scorer {
	out := make([]Scorer, 0, len(strategies))
	for _, st := range strategies {
		if s, ok := e.scorers[st]; ok {
			out = append(out, s)
		}
	}
	return out
}

// scorerResult holds one scorer's output.
type scorerResult struct {
	strategy Strategy
	scores   []RecommendationScore
	err      error
}

// runScorers fans out to all selected scorers in parallel. Results land in
// a pre-sized slice so no locking is needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) runScorers(ctx context.Context, snap *Snapshot, req Request, scorers []Scorer) []scorerResult {
	results := make([]scorerResult, len(scorers))
	var wg sync.WaitGroup

	for i, s := range scorers {
		wg.Add(1)
		go func(idx int, sc Scorer) {
			defer wg.Done()
			scores, err := sc.Score(ctx, snap, req)
			results[idx] = scorerResult{strategy: sc.Strategy(), scores: scores, err: err}
		}(i, s)
	}

	wg.Wait()
	return results
}

// combineScores merges per-strategy scores via a weighted sum, deduplicating
// by target ID. Reasoning strings from contributing strategies are
// concatenated; confidence is the maximum across contributors. Failed
// scorers are logged and skipped so partial results survive.
func (e *Engine) combineScores(results []scorerResult, weights map[Strategy]float64, strategy Strategy) ([]RecommendationScore, []string) {
	combined := make(map[string]*RecommendationScore)
	used := make([]string, 0, len(results))

	for _, r := range results {
		if r.err != nil {
			e.logger.Warn().
				Str("strategy", string(r.strategy)).
				Err(r.err).
				Msg("scorer failed")
			continue
		}
		if len(r.scores) == 0 {
			continue
		}
		w := weights[r.strategy]
		if w <= 0 {
			continue
		}

		used = append(used, string(r.strategy))
		for i := range r.scores {
			s := &r.scores[i]
			entry, ok := combined[s.TargetID]
			if !ok {
				combined[s.TargetID] = &RecommendationScore{
					TargetID:   s.TargetID,
					Score:      w * s.Score,
					Confidence: s.Confidence,
					Reasoning:  s.Reasoning,
					Strategy:   strategy,
				}
				continue
			}
			entry.Score += w * s.Score
			if s.Confidence > entry.Confidence {
				entry.Confidence = s.Confidence
			}
			if s.Reasoning != "" {
				if entry.Reasoning != "" {
					entry.Reasoning += "; "
				}
				entry.Reasoning += s.Reasoning
			}
		}
	}

	sort.Strings(used)

	out := make([]RecommendationScore, 0, len(combined))
	for _, v := range combined {
		out = append(out, *v)
	}
	return out, used
}

// sortScores orders strictly descending by score with ascending target-ID
// tie-break, the ordering invariant for every result list.
func sortScores(scores []RecommendationScore) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].TargetID < scores[j].TargetID
	})
}

// contextID returns the owning identifier for a request: the user for
// collaborative strategies, otherwise the first seed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func contextID(req Request) string {
	if req.UserID != "" {
		return req.UserID
	}
	if len(req.SeedArtistIDs) > 0 {
		return req.SeedArtistIDs[0]
	}
	if len(req.SeedVenueIDs) > 0 {
		return req.SeedVenueIDs[0]
	}
	return ""
}

// emptyReasoning explains why a result is empty.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func emptyReasoning(req Request) string {
	switch req.Strategy {
	case StrategyCollaborativeUser, StrategyCollaborativeItem:
		return fmt.Sprintf("no recommendations: user %q has no interaction history", req.UserID)
	case StrategyContentArtist, StrategyContentVenue, StrategyContentHybrid:
		return "no recommendations: no usable preference seeds found in catalog"
	default:
		return "no recommendations: no strategy produced candidates"
	}
}
