// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package monitor

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Validation errors returned before any metric computation.
var (
	// ErrLengthMismatch indicates prediction/actual slices of different lengths.
	ErrLengthMismatch = errors.New("monitor: predictions and actuals length mismatch")

	// ErrEmptyInput indicates an empty evaluation input.
	ErrEmptyInput = errors.New("monitor: empty evaluation input")
)

// RankedPair is one ranking evaluation unit: a predicted ranked list and
// the ground-truth relevant set.
type RankedPair struct {
	// Ranked is the predicted list, best first.
	Ranked []string `json:"ranked"`

	// Relevant is the ground-truth relevant item set.
	Relevant []string `json:"relevant"`
}

// PerformanceMonitor computes regression and ranking metrics against
// optional baselines and flags per-metric threshold breaches.
type PerformanceMonitor struct {
	cfg    PerformanceConfig
	logger zerolog.Logger
}

// NewPerformanceMonitor creates a performance monitor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPerformanceMonitor(cfg PerformanceConfig, logger zerolog.Logger) *PerformanceMonitor {
	return &PerformanceMonitor{
		cfg:    cfg,
		logger: logger.With().Str("component", "performance").Logger(),
	}
}

// Regression computes MAE, RMSE, MAPE, and R2 for (predictions, actuals)
// and compares each against the optional baselines map (keyed by metric
// name). One PerformanceMetric is returned per metric so callers can
// inspect individual breaches.
//
// MAPE excludes points with a zero actual from the denominator; the
// exclusion count is recorded on the MAPE metric. R2 is defined as 0 when
// the actuals have zero variance.
func (m *PerformanceMonitor) Regression(model, version string, predictions, actuals []float64, baselines map[string]float64) ([]PerformanceMetric, error) {
	if len(predictions) != len(actuals) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(predictions), len(actuals))
	}
	if len(predictions) == 0 {
		return nil, ErrEmptyInput
	}

	n := float64(len(predictions))
	now := time.Now()

	var sumAbs, sumSq float64
	for i := range predictions {
		err := predictions[i] - actuals[i]
		sumAbs += math.Abs(err)
		sumSq += err * err
	}
	mae := sumAbs / n
	rmse := math.Sqrt(sumSq / n)

	var mapeSum float64
	mapeExcluded := 0
	for i := range actuals {
		if actuals[i] == 0 {
			mapeExcluded++
			continue
		}
		mapeSum += math.Abs(predictions[i]-actuals[i]) / math.Abs(actuals[i])
	}
	mape := 0.0
	if used := len(actuals) - mapeExcluded; used > 0 {
		mape = mapeSum / float64(used)
	}

	r2 := rSquared(predictions, actuals)

	metrics := []PerformanceMetric{
		m.buildMetric(model, version, MetricMAE, mae, baselines, m.cfg.MAEDegradation, degradationUp, now),
		m.buildMetric(model, version, MetricRMSE, rmse, baselines, m.cfg.RMSEDegradation, degradationUp, now),
		m.buildMetric(model, version, MetricMAPE, mape, baselines, m.cfg.MAPEDegradation, degradationUp, now),
		m.buildMetric(model, version, MetricR2, r2, baselines, m.cfg.R2Degradation, degradationDown, now),
	}
	metrics[2].ExcludedPoints = mapeExcluded

	m.logMetrics(model, metrics)
	return metrics, nil
}

// Ranking computes Precision@k, Recall@k, and MAP over (ranked list,
// relevant set) pairs with the configured k cutoff, comparing each against
// the optional baselines map.
func (m *PerformanceMonitor) Ranking(model, version string, pairs []RankedPair, baselines map[string]float64) ([]PerformanceMetric, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyInput
	}

	now := time.Now()
	k := m.cfg.K

	var sumP, sumR, sumAP float64
	for i := range pairs {
		p, r, ap := rankingScores(pairs[i].Ranked, pairs[i].Relevant, k)
		sumP += p
		sumR += r
		sumAP += ap
	}
	n := float64(len(pairs))

	metrics := []PerformanceMetric{
		m.buildMetric(model, version, MetricPrecisionK, sumP/n, baselines, m.cfg.RankingDegradation, degradationDown, now),
		m.buildMetric(model, version, MetricRecallK, sumR/n, baselines, m.cfg.RankingDegradation, degradationDown, now),
		m.buildMetric(model, version, MetricMAP, sumAP/n, baselines, m.cfg.RankingDegradation, degradationDown, now),
	}

	m.logMetrics(model, metrics)
	return metrics, nil
}

// degradation direction: regression-error metrics degrade upward, quality
// metrics degrade downward.
type degradationDir int

const (
	degradationUp degradationDir = iota
	degradationDown
)

// buildMetric assembles one metric record, comparing against the baseline
// when one is supplied. Breach fires when the relative degradation exceeds
// the threshold fraction.
func (m *PerformanceMonitor) buildMetric(model, version, name string, value float64, baselines map[string]float64, threshold float64, dir degradationDir, now time.Time) PerformanceMetric {
	metric := PerformanceMetric{
		ModelName:    model,
		ModelVersion: version,
		Metric:       name,
		Value:        value,
		Timestamp:    now,
	}

	base, ok := baselines[name]
	if !ok || base == 0 {
		return metric
	}
	metric.Baseline = &base

	var degradation float64
	switch dir {
	case degradationUp:
		degradation = (value - base) / math.Abs(base)
	case degradationDown:
		degradation = (base - value) / math.Abs(base)
	}
	metric.ThresholdBreached = degradation > threshold

	return metric
}

// logMetrics emits one debug line per computed metric.
func (m *PerformanceMonitor) logMetrics(model string, metrics []PerformanceMetric) {
	for i := range metrics {
		m.logger.Debug().
			Str("model", model).
			Str("metric", metrics[i].Metric).
			Float64("value", metrics[i].Value).
			Bool("breached", metrics[i].ThresholdBreached).
			Msg("metric computed")
	}
}

// rSquared computes the coefficient of determination, defined as 0 when
// the actuals have zero variance.
func rSquared(predictions, actuals []float64) float64 {
	mean := 0.0
	for _, a := range actuals {
		mean += a
	}
	mean /= float64(len(actuals))

	var ssRes, ssTot float64
	for i := range actuals {
		ssRes += (actuals[i] - predictions[i]) * (actuals[i] - predictions[i])
		ssTot += (actuals[i] - mean) * (actuals[i] - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// rankingScores computes precision@k, recall@k, and average precision for
// one (ranked, relevant) pair.
func rankingScores(ranked, relevant []string, k int) (precision, recall, ap float64) {
	if len(relevant) == 0 {
		return 0, 0, 0
	}

	relSet := make(map[string]struct{}, len(relevant))
	for _, r := range relevant {
		relSet[r] = struct{}{}
	}

	cutoff := k
	if len(ranked) < cutoff {
		cutoff = len(ranked)
	}

	hits := 0
	apSum := 0.0
	for i := 0; i < cutoff; i++ {
		if _, ok := relSet[ranked[i]]; ok {
			hits++
			apSum += float64(hits) / float64(i+1)
		}
	}

	if k > 0 {
		precision = float64(hits) / float64(k)
	}
	recall = float64(hits) / float64(len(relSet))

	denom := len(relSet)
	if k < denom {
		denom = k
	}
	if denom > 0 {
		ap = apSum / float64(denom)
	}
	return precision, recall, ap
}
