// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

// Package monitor implements statistical model monitoring: drift detection
// (PSI, Kolmogorov-Smirnov, chi-square), performance metric tracking with
// baseline comparison, and an orchestrator that aggregates both into
// retraining triggers and exportable reports.
//
// All computation is pure over in-memory samples supplied by a
// model-serving collaborator. The only mutable shared state is the trigger
// history, which is synchronized internally.
package monitor

import (
	"sync"
	"time"
)

// DriftMethod identifies the statistical test used for a drift check.
type DriftMethod string

const (
	MethodPSI       DriftMethod = "psi"
	MethodKS        DriftMethod = "ks"
	MethodChiSquare DriftMethod = "chi-square"
)

// Severity is the ordinal severity of a retraining trigger:
// low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordinal rank for severity comparisons.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether s is at least as severe as minimum.
func (s Severity) AtLeast(minimum Severity) bool {
	return s.Rank() >= minimum.Rank()
}

// DriftResult is the output of one statistical comparison. Immutable; one
// per detection call.
type DriftResult struct {
	ModelName    string      `json:"model_name"`
	ModelVersion string      `json:"model_version"`
	Method       DriftMethod `json:"method"`

	// Score is the computed drift statistic in method-specific units
	// (PSI value, KS statistic, chi-square statistic).
	Score float64 `json:"score"`

	// DriftDetected is the threshold-derived verdict.
	DriftDetected bool `json:"drift_detected"`

	// PValue is set for KS and chi-square tests only.
	PValue *float64 `json:"p_value,omitempty"`

	// LowConfidence marks results computed from samples below the
	// configured minimum size. Callers decide whether to act on these.
	LowConfidence bool `json:"low_confidence"`

	// Warning explains a low-confidence or degenerate computation.
	Warning string `json:"warning,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Metric names produced by the performance monitor.
const (
	MetricMAE        = "mae"
	MetricRMSE       = "rmse"
	MetricMAPE       = "mape"
	MetricR2         = "r2"
	MetricPrecisionK = "precision_at_k"
	MetricRecallK    = "recall_at_k"
	MetricMAP        = "map"
)

// PerformanceMetric is one metric observation for a model. The monitor
// returns one record per metric so callers can inspect individual breaches.
type PerformanceMetric struct {
	ModelName    string `json:"model_name"`
	ModelVersion string `json:"model_version"`

	// Metric is the metric name (mae, rmse, mape, r2, precision_at_k,
	// recall_at_k, map).
	Metric string `json:"metric"`

	Value float64 `json:"value"`

	// Baseline is the reference value this observation was compared to;
	// nil when no baseline was supplied.
	Baseline *float64 `json:"baseline,omitempty"`

	// ThresholdBreached is set when relative degradation against the
	// baseline exceeds the configured per-metric threshold.
	ThresholdBreached bool `json:"threshold_breached"`

	// ExcludedPoints counts observations excluded from the computation
	// (zero actuals in MAPE).
	ExcludedPoints int `json:"excluded_points,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// RetrainingTrigger is a decision artifact produced when drift or
// performance thresholds are breached.
type RetrainingTrigger struct {
	ModelName    string `json:"model_name"`
	ModelVersion string `json:"model_version"`

	// Reason references the metric or drift check that fired.
	Reason string `json:"reason"`

	Severity Severity `json:"severity"`

	// RetrainingRecommended is set for high and critical triggers.
	RetrainingRecommended bool `json:"retraining_recommended"`

	Timestamp time.Time `json:"timestamp"`
}

// TriggerFilter selects triggers from the history. Zero fields match
// everything.
type TriggerFilter struct {
	ModelName    string
	ModelVersion string
	MinSeverity  Severity
}

// TriggerStore is the append-only trigger history. Implementations must be
// safe for concurrent use; an external persistence collaborator can stand
// in for the in-memory default.
type TriggerStore interface {
	// Append records a trigger. Triggers are never deleted automatically.
	Append(trigger RetrainingTrigger)

	// Query returns triggers matching the filter, oldest first.
	Query(filter TriggerFilter) []RetrainingTrigger
}

// MemoryTriggerStore is the in-memory TriggerStore. The mutex is the only
// synchronization the monitoring core needs.
type MemoryTriggerStore struct {
	mu       sync.Mutex
	triggers []RetrainingTrigger
}

// NewMemoryTriggerStore creates an empty in-memory trigger history.
func NewMemoryTriggerStore() *MemoryTriggerStore {
	return &MemoryTriggerStore{}
}

// Append records a trigger.
func (s *MemoryTriggerStore) Append(trigger RetrainingTrigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers = append(s.triggers, trigger)
}

// Query returns triggers matching the filter, oldest first.
func (s *MemoryTriggerStore) Query(filter TriggerFilter) []RetrainingTrigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RetrainingTrigger, 0, len(s.triggers))
	for _, t := range s.triggers {
		if filter.ModelName != "" && t.ModelName != filter.ModelName {
			continue
		}
		if filter.ModelVersion != "" && t.ModelVersion != filter.ModelVersion {
			continue
		}
		if filter.MinSeverity != "" && !t.Severity.AtLeast(filter.MinSeverity) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Len returns the total number of stored triggers.
func (s *MemoryTriggerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}
