// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

// Package metrics provides Prometheus instrumentation for:
//   - Recommendation request throughput and latency per strategy
//   - Drift detection outcomes per statistical method
//   - Performance metric values and threshold breaches
//   - Retraining trigger volume by severity
//   - API endpoint latency and throughput
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"strategy", "status"}, // status: "ok", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Recommendation generation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	RecommendationResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_result_size",
			Help:    "Number of scored items returned per request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"strategy"},
	)

	RecommendationBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_batch_size",
			Help:    "Number of contexts per batch request",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		},
	)

	InteractionMatrixUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "interaction_matrix_users",
			Help: "Number of distinct users in the most recent interaction matrix",
		},
	)

	InteractionMatrixItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "interaction_matrix_items",
			Help: "Number of distinct concerts in the most recent interaction matrix",
		},
	)

	InteractionMatrixDensity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "interaction_matrix_density",
			Help: "Fill ratio of the most recent interaction matrix",
		},
	)

	// Drift Detection Metrics
	DriftChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drift_checks_total",
			Help: "Total number of drift checks run",
		},
		[]string{"method", "result"}, // result: "drift", "no_drift", "skipped"
	)

	DriftScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drift_score",
			Help: "Most recent drift statistic per model and method",
		},
		[]string{"model", "method"},
	)

	DriftLowConfidenceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drift_low_confidence_total",
			Help: "Total number of drift checks run on samples below the minimum size",
		},
		[]string{"method"},
	)

	// Performance Monitoring Metrics
	PerformanceMetricValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_performance_metric",
			Help: "Most recent performance metric value per model",
		},
		[]string{"model", "metric"},
	)

	PerformanceBreachesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_performance_breaches_total",
			Help: "Total number of performance threshold breaches",
		},
		[]string{"model", "metric"},
	)

	RetrainingTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retraining_triggers_total",
			Help: "Total number of retraining triggers recorded",
		},
		[]string{"model", "severity"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordRecommendation records one recommendation request.
func RecordRecommendation(strategy string, duration time.Duration, resultSize int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	RecommendationsTotal.WithLabelValues(strategy, status).Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if err == nil {
		RecommendationResultSize.WithLabelValues(strategy).Observe(float64(resultSize))
	}
}

// RecordBatch records one batch recommendation request.
func RecordBatch(size int) {
	RecommendationBatchSize.Observe(float64(size))
}

// RecordMatrixStats records the shape of a freshly built interaction matrix.
func RecordMatrixStats(users, items int, density float64) {
	InteractionMatrixUsers.Set(float64(users))
	InteractionMatrixItems.Set(float64(items))
	InteractionMatrixDensity.Set(density)
}

// RecordDriftCheck records one drift check outcome.
func RecordDriftCheck(model, method string, score float64, driftDetected, lowConfidence, skipped bool) {
	result := "no_drift"
	switch {
	case skipped:
		result = "skipped"
	case driftDetected:
		result = "drift"
	}
	DriftChecksTotal.WithLabelValues(method, result).Inc()
	if !skipped {
		DriftScore.WithLabelValues(model, method).Set(score)
	}
	if lowConfidence {
		DriftLowConfidenceTotal.WithLabelValues(method).Inc()
	}
}

// RecordPerformanceMetric records one computed performance metric.
func RecordPerformanceMetric(model, metric string, value float64, breached bool) {
	PerformanceMetricValue.WithLabelValues(model, metric).Set(value)
	if breached {
		PerformanceBreachesTotal.WithLabelValues(model, metric).Inc()
	}
}

// RecordRetrainingTrigger records a retraining trigger by severity.
func RecordRetrainingTrigger(model, severity string) {
	RetrainingTriggersTotal.WithLabelValues(model, severity).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
