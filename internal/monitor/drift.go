// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package monitor

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Detector runs statistical drift tests. Each call is a pure function from
// (baseline, current, config) to a DriftResult; the detector holds only
// configuration.
type Detector struct {
	cfg    DriftConfig
	logger zerolog.Logger
}

// NewDetector creates a drift detector.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDetector(cfg DriftConfig, logger zerolog.Logger) *Detector {
	return &Detector{
		cfg:    cfg,
		logger: logger.With().Str("component", "drift").Logger(),
	}
}

// PSI computes the Population Stability Index between a baseline and a
// current numeric sample. Bins are quantile-derived from the baseline so
// each baseline bin holds roughly equal mass; zero-percent bins are
// substituted with the configured epsilon to avoid log(0). Drift is flagged
// at PSI >= the configured threshold; the raw score is always exposed so
// callers can apply their own threshold policy.
func (d *Detector) PSI(model, version string, baseline, current []float64) DriftResult {
	res := DriftResult{
		ModelName:    model,
		ModelVersion: version,
		Method:       MethodPSI,
		Timestamp:    time.Now(),
	}
	if warn := d.checkSampleSizes(len(baseline), len(current)); warn != "" {
		res.LowConfidence = true
		res.Warning = warn
	}
	if len(baseline) == 0 || len(current) == 0 {
		res.Warning = "empty sample, PSI not computed"
		return res
	}

	edges := d.quantileEdges(baseline)
	basePct := binProportions(baseline, edges, d.cfg.Epsilon)
	curPct := binProportions(current, edges, d.cfg.Epsilon)

	psi := 0.0
	for i := range basePct {
		psi += (curPct[i] - basePct[i]) * math.Log(curPct[i]/basePct[i])
	}

	res.Score = psi
	res.DriftDetected = psi >= d.cfg.PSIThreshold

	d.logger.Debug().
		Str("model", model).
		Float64("psi", psi).
		Bool("drift", res.DriftDetected).
		Msg("psi check complete")

	return res
}

// KS runs the two-sample Kolmogorov-Smirnov test. Drift is flagged when the
// asymptotic p-value falls below the configured significance level.
func (d *Detector) KS(model, version string, baseline, current []float64) DriftResult {
	res := DriftResult{
		ModelName:    model,
		ModelVersion: version,
		Method:       MethodKS,
		Timestamp:    time.Now(),
	}
	if warn := d.checkSampleSizes(len(baseline), len(current)); warn != "" {
		res.LowConfidence = true
		res.Warning = warn
	}
	if len(baseline) == 0 || len(current) == 0 {
		res.Warning = "empty sample, KS not computed"
		return res
	}

	statD := ksStatistic(baseline, current)
	p := ksPValue(statD, len(baseline), len(current))

	res.Score = statD
	res.PValue = &p
	res.DriftDetected = p < d.cfg.KSSignificance

	d.logger.Debug().
		Str("model", model).
		Float64("ks_statistic", statD).
		Float64("p_value", p).
		Bool("drift", res.DriftDetected).
		Msg("ks check complete")

	return res
}

// ChiSquare runs a contingency-table test over per-category observation
// counts (categorical or pre-binned data). The two count slices must be the
// same length; drift is flagged when the p-value falls below the configured
// significance level.
func (d *Detector) ChiSquare(model, version string, baselineCounts, currentCounts []float64) DriftResult {
	res := DriftResult{
		ModelName:    model,
		ModelVersion: version,
		Method:       MethodChiSquare,
		Timestamp:    time.Now(),
	}
	if len(baselineCounts) != len(currentCounts) || len(baselineCounts) < 2 {
		res.Warning = fmt.Sprintf("need matching count vectors of at least 2 categories, got %d and %d",
			len(baselineCounts), len(currentCounts))
		return res
	}

	baseTotal := sum(baselineCounts)
	curTotal := sum(currentCounts)
	if warn := d.checkSampleSizes(int(baseTotal), int(curTotal)); warn != "" {
		res.LowConfidence = true
		res.Warning = warn
	}
	if baseTotal == 0 || curTotal == 0 {
		res.Warning = "empty sample, chi-square not computed"
		return res
	}

	// 2xk contingency table: expected cell = rowTotal * colTotal / grand.
	grand := baseTotal + curTotal
	chi2 := 0.0
	usable := 0
	for i := range baselineCounts {
		colTotal := baselineCounts[i] + currentCounts[i]
		if colTotal == 0 {
			continue
		}
		usable++
		expBase := baseTotal * colTotal / grand
		expCur := curTotal * colTotal / grand
		chi2 += (baselineCounts[i] - expBase) * (baselineCounts[i] - expBase) / expBase
		chi2 += (currentCounts[i] - expCur) * (currentCounts[i] - expCur) / expCur
	}
	if usable < 2 {
		res.Warning = "fewer than 2 non-empty categories, chi-square not computed"
		return res
	}

	dof := float64(usable - 1)
	p := distuv.ChiSquared{K: dof}.Survival(chi2)

	res.Score = chi2
	res.PValue = &p
	res.DriftDetected = p < d.cfg.ChiSquareSignificance

	d.logger.Debug().
		Str("model", model).
		Float64("chi_square", chi2).
		Float64("p_value", p).
		Bool("drift", res.DriftDetected).
		Msg("chi-square check complete")

	return res
}

// checkSampleSizes returns a warning when either sample is below the
// configured minimum. Small samples still compute; the result is only
// marked low-confidence, never a hard failure.
func (d *Detector) checkSampleSizes(baseline, current int) string {
	if baseline < d.cfg.MinSampleSize || current < d.cfg.MinSampleSize {
		return fmt.Sprintf("sample below minimum size %d (baseline=%d, current=%d); result is low-confidence",
			d.cfg.MinSampleSize, baseline, current)
	}
	return ""
}

// quantileEdges returns the interior bin edges at baseline quantiles
// 1/bins, 2/bins, ..., (bins-1)/bins.
func (d *Detector) quantileEdges(baseline []float64) []float64 {
	sorted := make([]float64, len(baseline))
	copy(sorted, baseline)
	sort.Float64s(sorted)

	edges := make([]float64, 0, d.cfg.Bins-1)
	for i := 1; i < d.cfg.Bins; i++ {
		q := stat.Quantile(float64(i)/float64(d.cfg.Bins), stat.Empirical, sorted, nil)
		edges = append(edges, q)
	}
	return edges
}

// binProportions buckets the sample into the bins defined by edges and
// returns per-bin proportions, substituting epsilon for empty bins.
func binProportions(sample, edges []float64, epsilon float64) []float64 {
	counts := make([]float64, len(edges)+1)
	for _, v := range sample {
		// Edges are few (bins-1), linear scan is fine.
		idx := len(edges)
		for i, e := range edges {
			if v <= e {
				idx = i
				break
			}
		}
		counts[idx]++
	}

	total := float64(len(sample))
	pcts := make([]float64, len(counts))
	for i, c := range counts {
		pcts[i] = c / total
		if pcts[i] == 0 {
			pcts[i] = epsilon
		}
	}
	return pcts
}

// ksStatistic computes the two-sample KS statistic: the maximum absolute
// difference between the two empirical CDFs. The CDFs are only compared at
// points where both have absorbed every occurrence of the current value;
// advancing one side at a time through a tie would overstate the gap on
// samples with repeated values.
func ksStatistic(a, b []float64) float64 {
	sa := make([]float64, len(a))
	copy(sa, a)
	sort.Float64s(sa)
	sb := make([]float64, len(b))
	copy(sb, b)
	sort.Float64s(sb)

	var i, j int
	maxDiff := 0.0
	for i < len(sa) && j < len(sb) {
		v := sa[i]
		if sb[j] < v {
			v = sb[j]
		}
		for i < len(sa) && sa[i] == v {
			i++
		}
		for j < len(sb) && sb[j] == v {
			j++
		}
		fa := float64(i) / float64(len(sa))
		fb := float64(j) / float64(len(sb))
		if diff := math.Abs(fa - fb); diff > maxDiff {
			maxDiff = diff
		}
	}
	return maxDiff
}

// ksPValue returns the asymptotic two-sample KS p-value
// Q(lambda) = 2 * sum_{k>=1} (-1)^{k-1} exp(-2 k^2 lambda^2)
// with the Stephens small-sample correction for lambda.
func ksPValue(d float64, n1, n2 int) float64 {
	if d <= 0 {
		return 1.0
	}
	en := math.Sqrt(float64(n1) * float64(n2) / float64(n1+n2))
	lambda := (en + 0.12 + 0.11/en) * d

	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * math.Exp(-2.0*float64(k)*float64(k)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}

	p := 2.0 * sum
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// sum totals a slice.
func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}
