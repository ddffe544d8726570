// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package monitor

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
)

func testDetector() *Detector {
	return NewDetector(DefaultConfig().Drift, zerolog.Nop())
}

// uniformSample returns n evenly spaced values in [lo, hi).
func uniformSample(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

func TestPSISelfComparison(t *testing.T) {
	t.Parallel()

	baseline := uniformSample(200, 0, 100)
	res := testDetector().PSI("recommender", "v1", baseline, baseline)

	if res.Score > 1e-6 {
		t.Errorf("PSI(baseline, baseline) = %v, want ~0", res.Score)
	}
	if res.DriftDetected {
		t.Error("self-comparison must not flag drift")
	}
	if res.LowConfidence {
		t.Error("200 observations must not be low-confidence")
	}
}

func TestPSIShiftedSample(t *testing.T) {
	t.Parallel()

	// Current sample shifted far outside the baseline range.
	baseline := uniformSample(200, 0, 100)
	current := uniformSample(200, 500, 600)

	res := testDetector().PSI("recommender", "v1", baseline, current)
	if res.Score < 0.2 {
		t.Errorf("PSI of a heavily shifted sample = %v, want >= 0.2", res.Score)
	}
	if !res.DriftDetected {
		t.Error("heavily shifted sample must flag drift")
	}
}

func TestPSILowConfidence(t *testing.T) {
	t.Parallel()

	baseline := uniformSample(10, 0, 100)
	current := uniformSample(10, 0, 100)

	res := testDetector().PSI("recommender", "v1", baseline, current)
	if !res.LowConfidence {
		t.Error("samples below minimum size must be marked low-confidence")
	}
	if res.Warning == "" {
		t.Error("low-confidence result must carry a warning")
	}
}

func TestPSIEmptySample(t *testing.T) {
	t.Parallel()

	res := testDetector().PSI("recommender", "v1", nil, uniformSample(50, 0, 1))
	if res.DriftDetected {
		t.Error("empty sample must not flag drift")
	}
	if res.Warning == "" {
		t.Error("empty sample must carry a warning")
	}
}

func TestKSSameDistribution(t *testing.T) {
	t.Parallel()

	// Interleaved halves of one evenly spaced sequence come from the same
	// distribution; the test must not flag drift.
	seq := uniformSample(400, 0, 1)
	a := make([]float64, 0, 200)
	b := make([]float64, 0, 200)
	for i, v := range seq {
		if i%2 == 0 {
			a = append(a, v)
		} else {
			b = append(b, v)
		}
	}

	res := testDetector().KS("recommender", "v1", a, b)
	if res.PValue == nil {
		t.Fatal("KS must report a p-value")
	}
	if *res.PValue <= 0.05 {
		t.Errorf("same-distribution p-value = %v, want > 0.05", *res.PValue)
	}
	if res.DriftDetected {
		t.Error("same-distribution samples must not flag drift")
	}
}

func TestKSDisjointDistributions(t *testing.T) {
	t.Parallel()

	baseline := uniformSample(100, 0, 1)
	current := uniformSample(100, 5, 6)

	res := testDetector().KS("recommender", "v1", baseline, current)
	if math.Abs(res.Score-1.0) > 1e-9 {
		t.Errorf("KS statistic of disjoint samples = %v, want 1.0", res.Score)
	}
	if res.PValue == nil || *res.PValue >= 0.05 {
		t.Errorf("disjoint samples p-value = %v, want < 0.05", res.PValue)
	}
	if !res.DriftDetected {
		t.Error("disjoint samples must flag drift")
	}
}

func TestKSStatisticSymmetry(t *testing.T) {
	t.Parallel()

	a := uniformSample(50, 0, 10)
	b := uniformSample(80, 3, 12)

	if d1, d2 := ksStatistic(a, b), ksStatistic(b, a); math.Abs(d1-d2) > 1e-12 {
		t.Errorf("KS statistic not symmetric: %v vs %v", d1, d2)
	}
}

// repeatedSample returns each value in values repeated count times.
func repeatedSample(values []float64, count int) []float64 {
	out := make([]float64, 0, len(values)*count)
	for _, v := range values {
		for i := 0; i < count; i++ {
			out = append(out, v)
		}
	}
	return out
}

func TestKSTiedValues(t *testing.T) {
	t.Parallel()

	t.Run("constant sample self-comparison", func(t *testing.T) {
		t.Parallel()

		sample := repeatedSample([]float64{5.0}, 100)
		res := testDetector().KS("recommender", "v1", sample, sample)
		if res.Score != 0 {
			t.Errorf("KS statistic of a constant sample against itself = %v, want 0", res.Score)
		}
		if res.PValue == nil || *res.PValue != 1.0 {
			t.Errorf("self-comparison p-value = %v, want 1.0", res.PValue)
		}
		if res.DriftDetected {
			t.Error("constant sample compared with itself must not flag drift")
		}
	})

	t.Run("discrete sample self-comparison", func(t *testing.T) {
		t.Parallel()

		sample := repeatedSample([]float64{1, 2, 3}, 40)
		res := testDetector().KS("recommender", "v1", sample, sample)
		if res.Score != 0 {
			t.Errorf("KS statistic of a discrete sample against itself = %v, want 0", res.Score)
		}
		if res.DriftDetected {
			t.Error("discrete sample compared with itself must not flag drift")
		}
	})

	t.Run("shifted discrete mass", func(t *testing.T) {
		t.Parallel()

		// 60/40 vs 40/60 split over two values: the CDFs differ by exactly
		// 0.2 at the first value and agree at the second.
		baseline := append(repeatedSample([]float64{1}, 60), repeatedSample([]float64{2}, 40)...)
		current := append(repeatedSample([]float64{1}, 40), repeatedSample([]float64{2}, 60)...)

		res := testDetector().KS("recommender", "v1", baseline, current)
		if math.Abs(res.Score-0.2) > 1e-9 {
			t.Errorf("KS statistic = %v, want 0.2", res.Score)
		}
	})

	t.Run("ties across unequal sample sizes", func(t *testing.T) {
		t.Parallel()

		a := repeatedSample([]float64{1, 2, 3}, 50)
		b := repeatedSample([]float64{1, 2, 3}, 30)
		if d := ksStatistic(a, b); d != 0 {
			t.Errorf("KS statistic of identical discrete distributions = %v, want 0", d)
		}
	})
}

func TestChiSquare(t *testing.T) {
	t.Parallel()

	t.Run("identical counts no drift", func(t *testing.T) {
		t.Parallel()
		counts := []float64{50, 30, 20}
		res := testDetector().ChiSquare("recommender", "v1", counts, counts)
		if res.Score > 1e-9 {
			t.Errorf("chi-square of identical counts = %v, want 0", res.Score)
		}
		if res.DriftDetected {
			t.Error("identical counts must not flag drift")
		}
	})

	t.Run("skewed counts flag drift", func(t *testing.T) {
		t.Parallel()
		res := testDetector().ChiSquare("recommender", "v1",
			[]float64{50, 50}, []float64{90, 10})
		if res.PValue == nil || *res.PValue >= 0.05 {
			t.Errorf("skewed counts p-value = %v, want < 0.05", res.PValue)
		}
		if !res.DriftDetected {
			t.Error("heavily skewed counts must flag drift")
		}
	})

	t.Run("mismatched category counts rejected softly", func(t *testing.T) {
		t.Parallel()
		res := testDetector().ChiSquare("recommender", "v1",
			[]float64{50, 50}, []float64{30, 30, 40})
		if res.DriftDetected {
			t.Error("degenerate input must not flag drift")
		}
		if res.Warning == "" {
			t.Error("degenerate input must carry a warning")
		}
	})

	t.Run("small totals are low-confidence", func(t *testing.T) {
		t.Parallel()
		res := testDetector().ChiSquare("recommender", "v1",
			[]float64{5, 5}, []float64{4, 6})
		if !res.LowConfidence {
			t.Error("tiny totals must be marked low-confidence")
		}
	})
}

func TestKSPValueBounds(t *testing.T) {
	t.Parallel()

	if p := ksPValue(0, 100, 100); p != 1.0 {
		t.Errorf("ksPValue(0) = %v, want 1.0", p)
	}
	if p := ksPValue(1.0, 100, 100); p < 0 || p > 1 {
		t.Errorf("ksPValue(1.0) = %v, want in [0,1]", p)
	}
}
