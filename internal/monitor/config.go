// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package monitor

import "fmt"

// Config contains all monitoring thresholds, consolidated in one structure
// and passed down explicitly.
type Config struct {
	// Drift contains the drift-detection parameters.
	Drift DriftConfig `koanf:"drift" json:"drift"`

	// Performance contains the per-metric degradation thresholds.
	Performance PerformanceConfig `koanf:"performance" json:"performance"`
}

// DriftConfig contains the drift-detection parameters.
type DriftConfig struct {
	// Bins is the number of quantile-derived PSI bins. Default: 10.
	Bins int `koanf:"bins" json:"bins"`

	// Epsilon substitutes for zero-percent PSI bins to avoid log(0).
	// Tunable, not load-bearing. Default: 1e-4.
	Epsilon float64 `koanf:"epsilon" json:"epsilon"`

	// PSIThreshold flags drift when PSI >= this value. 0.1-0.2 is
	// "moderate"; below 0.1 is no significant change. Default: 0.2.
	PSIThreshold float64 `koanf:"psi_threshold" json:"psi_threshold"`

	// PSIModerate is the lower bound of the moderate band. Default: 0.1.
	PSIModerate float64 `koanf:"psi_moderate" json:"psi_moderate"`

	// PSICritical marks a critical breach. Default: 0.3.
	PSICritical float64 `koanf:"psi_critical" json:"psi_critical"`

	// KSSignificance flags drift when the KS p-value is below it.
	// Default: 0.05.
	KSSignificance float64 `koanf:"ks_significance" json:"ks_significance"`

	// ChiSquareSignificance flags drift when the chi-square p-value is
	// below it. Default: 0.05.
	ChiSquareSignificance float64 `koanf:"chi_square_significance" json:"chi_square_significance"`

	// MinSampleSize marks results from smaller samples low-confidence.
	// Tunable, not load-bearing. Default: 30.
	MinSampleSize int `koanf:"min_sample_size" json:"min_sample_size"`
}

// PerformanceConfig contains the per-metric relative-degradation thresholds.
type PerformanceConfig struct {
	// MAEDegradation flags MAE increases beyond this fraction. Default: 0.20.
	MAEDegradation float64 `koanf:"mae_degradation" json:"mae_degradation"`

	// RMSEDegradation flags RMSE increases beyond this fraction. Default: 0.20.
	RMSEDegradation float64 `koanf:"rmse_degradation" json:"rmse_degradation"`

	// MAPEDegradation flags MAPE increases beyond this fraction. Default: 0.20.
	MAPEDegradation float64 `koanf:"mape_degradation" json:"mape_degradation"`

	// R2Degradation flags R2 drops beyond this fraction. Default: 0.10.
	R2Degradation float64 `koanf:"r2_degradation" json:"r2_degradation"`

	// R2CriticalDrop marks an R2 drop beyond this fraction as a critical
	// breach. Default: 0.25.
	R2CriticalDrop float64 `koanf:"r2_critical_drop" json:"r2_critical_drop"`

	// RankingDegradation flags Precision@k/Recall@k/MAP drops beyond this
	// fraction. Default: 0.15.
	RankingDegradation float64 `koanf:"ranking_degradation" json:"ranking_degradation"`

	// K is the ranking cutoff for Precision@k and Recall@k. Default: 10.
	K int `koanf:"k" json:"k"`
}

// DefaultConfig returns a Config with the standard thresholds.
func DefaultConfig() *Config {
	return &Config{
		Drift: DriftConfig{
			Bins:                  10,
			Epsilon:               1e-4,
			PSIThreshold:          0.2,
			PSIModerate:           0.1,
			PSICritical:           0.3,
			KSSignificance:        0.05,
			ChiSquareSignificance: 0.05,
			MinSampleSize:         30,
		},
		Performance: PerformanceConfig{
			MAEDegradation:     0.20,
			RMSEDegradation:    0.20,
			MAPEDegradation:    0.20,
			R2Degradation:      0.10,
			R2CriticalDrop:     0.25,
			RankingDegradation: 0.15,
			K:                  10,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Drift.Bins < 2 {
		return fmt.Errorf("drift.bins must be at least 2, got %d", c.Drift.Bins)
	}
	if c.Drift.Epsilon <= 0 {
		return fmt.Errorf("drift.epsilon must be positive, got %g", c.Drift.Epsilon)
	}
	if c.Drift.PSIThreshold <= 0 {
		return fmt.Errorf("drift.psi_threshold must be positive, got %f", c.Drift.PSIThreshold)
	}
	if c.Drift.PSIModerate <= 0 || c.Drift.PSIModerate >= c.Drift.PSIThreshold {
		return fmt.Errorf("drift.psi_moderate must be in (0, psi_threshold), got %f", c.Drift.PSIModerate)
	}
	if c.Drift.PSICritical < c.Drift.PSIThreshold {
		return fmt.Errorf("drift.psi_critical must be >= psi_threshold, got %f < %f",
			c.Drift.PSICritical, c.Drift.PSIThreshold)
	}
	if c.Drift.KSSignificance <= 0 || c.Drift.KSSignificance >= 1 {
		return fmt.Errorf("drift.ks_significance must be in (0, 1), got %f", c.Drift.KSSignificance)
	}
	if c.Drift.ChiSquareSignificance <= 0 || c.Drift.ChiSquareSignificance >= 1 {
		return fmt.Errorf("drift.chi_square_significance must be in (0, 1), got %f", c.Drift.ChiSquareSignificance)
	}
	if c.Drift.MinSampleSize < 1 {
		return fmt.Errorf("drift.min_sample_size must be positive, got %d", c.Drift.MinSampleSize)
	}

	for name, v := range map[string]float64{
		"mae_degradation":     c.Performance.MAEDegradation,
		"rmse_degradation":    c.Performance.RMSEDegradation,
		"mape_degradation":    c.Performance.MAPEDegradation,
		"r2_degradation":      c.Performance.R2Degradation,
		"ranking_degradation": c.Performance.RankingDegradation,
	} {
		if v <= 0 {
			return fmt.Errorf("performance.%s must be positive, got %f", name, v)
		}
	}
	if c.Performance.R2CriticalDrop < c.Performance.R2Degradation {
		return fmt.Errorf("performance.r2_critical_drop must be >= r2_degradation, got %f < %f",
			c.Performance.R2CriticalDrop, c.Performance.R2Degradation)
	}
	if c.Performance.K < 1 {
		return fmt.Errorf("performance.k must be positive, got %d", c.Performance.K)
	}

	return nil
}
