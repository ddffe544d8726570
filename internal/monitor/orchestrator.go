// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package monitor

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrNoChecks indicates a check input with nothing to evaluate.
var ErrNoChecks = errors.New("monitor: no checks supplied")

// DriftCheck is one drift comparison to run.
type DriftCheck struct {
	Method   DriftMethod `json:"method"`
	Baseline []float64   `json:"baseline"`
	Current  []float64   `json:"current"`
}

// RegressionCheck is one regression evaluation to run.
type RegressionCheck struct {
	Predictions []float64          `json:"predictions"`
	Actuals     []float64          `json:"actuals"`
	Baselines   map[string]float64 `json:"baselines,omitempty"`
}

// RankingCheck is one ranking evaluation to run.
type RankingCheck struct {
	Pairs     []RankedPair       `json:"pairs"`
	Baselines map[string]float64 `json:"baselines,omitempty"`
}

// CheckInput bundles all checks for one model+version monitoring pass.
type CheckInput struct {
	ModelName    string            `json:"model_name"`
	ModelVersion string            `json:"model_version"`
	Drift        []DriftCheck      `json:"drift,omitempty"`
	Regression   *RegressionCheck  `json:"regression,omitempty"`
	Ranking      *RankingCheck     `json:"ranking,omitempty"`
}

// Report aggregates all checks run for a model+version pair into one
// JSON-serializable structure for an external alerting collaborator to
// consume. The orchestrator never publishes anywhere itself.
type Report struct {
	ModelName    string              `json:"model_name"`
	ModelVersion string              `json:"model_version"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Drift        []DriftResult       `json:"drift"`
	Performance  []PerformanceMetric `json:"performance"`
	Severity     Severity            `json:"severity"`
	Triggers     []RetrainingTrigger `json:"triggers"`
}

// JSON serializes the report.
func (r *Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// modelKey identifies a model+version pair in the check history.
type modelKey struct {
	name    string
	version string
}

// Orchestrator composes the drift detector and the performance monitor,
// derives trigger severity with a rule table, and owns the append-only
// trigger history. It is safe for concurrent use; the history mutex is the
// only synchronization the monitoring core needs.
type Orchestrator struct {
	cfg      *Config
	detector *Detector
	perf     *PerformanceMonitor
	store    TriggerStore
	logger   zerolog.Logger

	// Accumulated checks per model+version, for aggregate reports.
	mu      sync.Mutex
	history map[modelKey]*modelHistory
}

// modelHistory accumulates every check run for one model+version pair.
type modelHistory struct {
	drift       []DriftResult
	performance []PerformanceMetric
	severity    Severity
}

// NewOrchestrator creates a monitoring orchestrator. A nil store defaults
// to the in-memory trigger history.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOrchestrator(cfg *Config, store TriggerStore, logger zerolog.Logger) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		store = NewMemoryTriggerStore()
	}

	l := logger.With().Str("component", "monitor").Logger()
	return &Orchestrator{
		cfg:      cfg,
		detector: NewDetector(cfg.Drift, l),
		perf:     NewPerformanceMonitor(cfg.Performance, l),
		store:    store,
		logger:   l,
		history:  make(map[modelKey]*modelHistory),
	}, nil
}

// Detector returns the underlying drift detector.
func (o *Orchestrator) Detector() *Detector {
	return o.detector
}

// Performance returns the underlying performance monitor.
func (o *Orchestrator) Performance() *PerformanceMonitor {
	return o.perf
}

// RunChecks runs every supplied check, derives a severity, appends any
// resulting retraining trigger to the history, and returns the report for
// this run. Validation errors on the performance inputs propagate; drift
// degeneracies are absorbed into the individual results.
func (o *Orchestrator) RunChecks(input CheckInput) (*Report, error) {
	if len(input.Drift) == 0 && input.Regression == nil && input.Ranking == nil {
		return nil, ErrNoChecks
	}

	report := &Report{
		ModelName:    input.ModelName,
		ModelVersion: input.ModelVersion,
		GeneratedAt:  time.Now(),
	}

	for _, dc := range input.Drift {
		report.Drift = append(report.Drift, o.runDriftCheck(input.ModelName, input.ModelVersion, dc))
	}

	if input.Regression != nil {
		metrics, err := o.perf.Regression(input.ModelName, input.ModelVersion,
			input.Regression.Predictions, input.Regression.Actuals, input.Regression.Baselines)
		if err != nil {
			return nil, err
		}
		report.Performance = append(report.Performance, metrics...)
	}
	if input.Ranking != nil {
		metrics, err := o.perf.Ranking(input.ModelName, input.ModelVersion,
			input.Ranking.Pairs, input.Ranking.Baselines)
		if err != nil {
			return nil, err
		}
		report.Performance = append(report.Performance, metrics...)
	}

	severity, reasons := o.deriveSeverity(report.Drift, report.Performance)
	report.Severity = severity

	if severity.AtLeast(SeverityMedium) {
		trigger := RetrainingTrigger{
			ModelName:             input.ModelName,
			ModelVersion:          input.ModelVersion,
			Reason:                joinReasons(reasons),
			Severity:              severity,
			RetrainingRecommended: severity.AtLeast(SeverityHigh),
			Timestamp:             time.Now(),
		}
		o.store.Append(trigger)
		report.Triggers = append(report.Triggers, trigger)

		o.logger.Info().
			Str("model", input.ModelName).
			Str("version", input.ModelVersion).
			Str("severity", string(severity)).
			Str("reason", trigger.Reason).
			Msg("retraining trigger recorded")
	}

	o.recordHistory(input.ModelName, input.ModelVersion, report)
	return report, nil
}

// runDriftCheck dispatches one drift check to the right test.
func (o *Orchestrator) runDriftCheck(model, version string, dc DriftCheck) DriftResult {
	switch dc.Method {
	case MethodKS:
		return o.detector.KS(model, version, dc.Baseline, dc.Current)
	case MethodChiSquare:
		return o.detector.ChiSquare(model, version, dc.Baseline, dc.Current)
	case MethodPSI:
		return o.detector.PSI(model, version, dc.Baseline, dc.Current)
	default:
		return DriftResult{
			ModelName:    model,
			ModelVersion: version,
			Method:       dc.Method,
			Warning:      fmt.Sprintf("unknown drift method %q, check skipped", dc.Method),
			Timestamp:    time.Now(),
		}
	}
}

// deriveSeverity applies the severity rule table:
//
//	critical  any critical-threshold breach (PSI >= critical, R2 drop
//	          beyond the critical fraction)
//	high      any flagged drift result or breached metric
//	medium    multiple moderate signals without a hard breach
//	low       informational only
func (o *Orchestrator) deriveSeverity(drift []DriftResult, performance []PerformanceMetric) (Severity, []string) {
	var reasons []string
	critical, flagged, moderate := 0, 0, 0

	for i := range drift {
		d := &drift[i]
		switch {
		case d.Method == MethodPSI && d.Score >= o.cfg.Drift.PSICritical:
			critical++
			reasons = append(reasons, fmt.Sprintf("psi %.3f >= critical %.2f", d.Score, o.cfg.Drift.PSICritical))
		case d.DriftDetected:
			flagged++
			reasons = append(reasons, driftReason(d))
		case d.Method == MethodPSI && d.Score >= o.cfg.Drift.PSIModerate:
			moderate++
		}
	}

	for i := range performance {
		p := &performance[i]
		if p.Baseline == nil || *p.Baseline == 0 {
			continue
		}
		degradation := relativeDegradation(p)
		threshold := o.thresholdFor(p.Metric)

		switch {
		case p.Metric == MetricR2 && degradation > o.cfg.Performance.R2CriticalDrop:
			critical++
			reasons = append(reasons, fmt.Sprintf("r2 dropped %.1f%% over baseline", degradation*100))
		case p.ThresholdBreached:
			flagged++
			reasons = append(reasons, fmt.Sprintf("%s degraded %.1f%% over baseline %.4g",
				p.Metric, degradation*100, *p.Baseline))
		case threshold > 0 && degradation > threshold/2:
			moderate++
		}
	}

	switch {
	case critical > 0:
		return SeverityCritical, reasons
	case flagged > 0:
		return SeverityHigh, reasons
	case moderate >= 2:
		return SeverityMedium, []string{fmt.Sprintf("%d moderate signals without a hard breach", moderate)}
	default:
		return SeverityLow, nil
	}
}

// thresholdFor returns the degradation threshold fraction for a metric.
func (o *Orchestrator) thresholdFor(metric string) float64 {
	switch metric {
	case MetricMAE:
		return o.cfg.Performance.MAEDegradation
	case MetricRMSE:
		return o.cfg.Performance.RMSEDegradation
	case MetricMAPE:
		return o.cfg.Performance.MAPEDegradation
	case MetricR2:
		return o.cfg.Performance.R2Degradation
	case MetricPrecisionK, MetricRecallK, MetricMAP:
		return o.cfg.Performance.RankingDegradation
	default:
		return 0
	}
}

// relativeDegradation computes the baseline-relative degradation for a
// metric, oriented so that positive means worse.
func relativeDegradation(p *PerformanceMetric) float64 {
	base := *p.Baseline
	switch p.Metric {
	case MetricMAE, MetricRMSE, MetricMAPE:
		return (p.Value - base) / math.Abs(base)
	default:
		return (base - p.Value) / math.Abs(base)
	}
}

// driftReason describes a flagged drift result.
func driftReason(d *DriftResult) string {
	if d.PValue != nil {
		return fmt.Sprintf("%s drift detected (statistic %.4f, p=%.4f)", d.Method, d.Score, *d.PValue)
	}
	return fmt.Sprintf("%s drift detected (score %.4f)", d.Method, d.Score)
}

// joinReasons concatenates trigger reasons.
func joinReasons(reasons []string) string {
	out := ""
	for i, r := range reasons {
		if i > 0 {
			out += "; "
		}
		out += r
	}
	return out
}

// recordHistory appends the run's results to the per-model history.
func (o *Orchestrator) recordHistory(model, version string, report *Report) {
	key := modelKey{name: model, version: version}

	o.mu.Lock()
	defer o.mu.Unlock()

	h := o.history[key]
	if h == nil {
		h = &modelHistory{severity: SeverityLow}
		o.history[key] = h
	}
	h.drift = append(h.drift, report.Drift...)
	h.performance = append(h.performance, report.Performance...)
	if report.Severity.AtLeast(h.severity) {
		h.severity = report.Severity
	}
}

// Report aggregates all checks ever run for a model+version pair. Returns
// false when no checks have run for that pair.
func (o *Orchestrator) Report(model, version string) (*Report, bool) {
	key := modelKey{name: model, version: version}

	o.mu.Lock()
	h, ok := o.history[key]
	if !ok {
		o.mu.Unlock()
		return nil, false
	}
	drift := make([]DriftResult, len(h.drift))
	copy(drift, h.drift)
	performance := make([]PerformanceMetric, len(h.performance))
	copy(performance, h.performance)
	severity := h.severity
	o.mu.Unlock()

	return &Report{
		ModelName:    model,
		ModelVersion: version,
		GeneratedAt:  time.Now(),
		Drift:        drift,
		Performance:  performance,
		Severity:     severity,
		Triggers:     o.store.Query(TriggerFilter{ModelName: model, ModelVersion: version}),
	}, true
}

// Triggers queries the append-only trigger history.
func (o *Orchestrator) Triggers(filter TriggerFilter) []RetrainingTrigger {
	return o.store.Query(filter)
}
