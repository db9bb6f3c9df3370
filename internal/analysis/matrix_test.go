package analysis

import (
	"math"
	"testing"

	"ringlab/domain/core"
	"ringlab/domain/health"
)

// rowsOver builds n consecutive daily rows starting 2024-03-01 and lets the
// caller fill in the metric fields per day.
func rowsOver(n int, fill func(i int, r *health.DailyRow)) []health.DailyRow {
	out := make([]health.DailyRow, n)
	for i := range out {
		out[i].Day = core.Day("2024-03-01").AddDays(i)
		fill(i, &out[i])
	}
	return out
}

func TestMatrixSymmetricWithUnevenPresence(t *testing.T) {
	sleep := []float64{70, 82, 65, 90, 77, 84, 71, 88, 69, 80}
	readiness := []float64{60, 75, 58, 85, 72, 80, 64, 83, 61, 74}
	rowSet := rowsOver(10, func(i int, r *health.DailyRow) {
		r.SleepScore = fp(sleep[i])
		if i%3 != 0 {
			r.ReadinessScore = fp(readiness[i])
		}
		if i < 6 {
			r.Steps = fp(float64(4000 + 800*i))
		}
		if i < 4 {
			r.SpO2Avg = fp(95 + float64(i)*0.3)
		}
	})

	m := BuildMatrix(rowSet, Metrics(), health.MethodSpearman)

	if len(m.Keys) != len(Metrics()) {
		t.Fatalf("matrix has %d keys, want %d", len(m.Keys), len(Metrics()))
	}
	for i := range m.Values {
		for j := range m.Values[i] {
			a, b := m.Values[i][j], m.Values[j][i]
			if (a == nil) != (b == nil) {
				t.Fatalf("cell (%d,%d) nil-ness differs from its mirror", i, j)
			}
			if a != nil && *a != *b {
				t.Errorf("cell (%d,%d)=%v differs from mirror %v", i, j, *a, *b)
			}
			if m.Counts[i][j] != m.Counts[j][i] {
				t.Errorf("count (%d,%d)=%d differs from mirror %d", i, j, m.Counts[i][j], m.Counts[j][i])
			}
		}
	}
}

func TestMatrixMinimumPairRule(t *testing.T) {
	rowSet := rowsOver(10, func(i int, r *health.DailyRow) {
		r.SleepScore = fp(float64(60 + i))
		if i < 4 {
			r.SpO2Avg = fp(94 + float64(i))
		}
	})

	m := BuildMatrix(rowSet, Metrics(), health.MethodSpearman)

	if r := m.At("sleep_score", "spo2_avg"); r != nil {
		t.Errorf("4 shared days should give nil, got %v", *r)
	}
	iSleep := indexOfKey(t, m.Keys, "sleep_score")
	iSpO2 := indexOfKey(t, m.Keys, "spo2_avg")
	if got := m.Counts[iSleep][iSpO2]; got != 4 {
		t.Errorf("pair count = %d, want 4", got)
	}

	// The diagonal obeys the same rule: 4 observations is too few even
	// against itself.
	if r := m.Values[iSpO2][iSpO2]; r != nil {
		t.Errorf("spo2 diagonal should be nil with 4 days, got %v", *r)
	}
	if r := m.Values[iSleep][iSleep]; r == nil || math.Abs(*r-1.0) > 1e-9 {
		t.Errorf("sleep diagonal = %v, want 1.0", r)
	}
}

func TestMatrixCellsUseIndependentDaySubsets(t *testing.T) {
	// Readiness exists only on the first five days, steps only on the
	// last five. Each cell pairs over its own shared days.
	rowSet := rowsOver(10, func(i int, r *health.DailyRow) {
		r.SleepScore = fp(float64(i + 1))
		if i < 5 {
			r.ReadinessScore = fp(float64(i + 1))
		} else {
			r.Steps = fp(float64(1000 * (i + 1)))
		}
	})

	m := BuildMatrix(rowSet, Metrics(), health.MethodSpearman)

	iSleep := indexOfKey(t, m.Keys, "sleep_score")
	iReady := indexOfKey(t, m.Keys, "readiness_score")
	iSteps := indexOfKey(t, m.Keys, "steps")

	if got := m.Counts[iSleep][iReady]; got != 5 {
		t.Errorf("sleep/readiness pairs = %d, want 5", got)
	}
	if r := m.Values[iSleep][iReady]; r == nil || math.Abs(*r-1.0) > 1e-9 {
		t.Errorf("sleep/readiness r = %v, want 1.0", r)
	}

	if got := m.Counts[iSleep][iSteps]; got != 5 {
		t.Errorf("sleep/steps pairs = %d, want 5", got)
	}
	if r := m.Values[iSleep][iSteps]; r == nil || math.Abs(*r-1.0) > 1e-9 {
		t.Errorf("sleep/steps r = %v, want 1.0", r)
	}

	// Readiness and steps never coexist on a day.
	if got := m.Counts[iReady][iSteps]; got != 0 {
		t.Errorf("readiness/steps pairs = %d, want 0", got)
	}
	if r := m.Values[iReady][iSteps]; r != nil {
		t.Errorf("readiness/steps r = %v, want nil", *r)
	}
}

func TestDetrendedMatrixRemovesSharedDrift(t *testing.T) {
	// Two series that only drift upward together. A window of 1 makes
	// every residual zero, so no detrended cell has any variance left.
	rowSet := rowsOver(10, func(i int, r *health.DailyRow) {
		r.SleepScore = fp(float64(50 + i))
		r.ReadinessScore = fp(float64(40 + 2*i))
	})

	raw := BuildMatrix(rowSet, Metrics(), health.MethodPearson)
	if r := raw.At("sleep_score", "readiness_score"); r == nil || math.Abs(*r-1.0) > 1e-9 {
		t.Fatalf("raw r = %v, want 1.0", r)
	}

	detrended := BuildDetrendedMatrix(rowSet, Metrics(), health.MethodPearson, 1)
	if r := detrended.At("sleep_score", "readiness_score"); r != nil {
		t.Errorf("window-1 residuals are all zero, want nil, got %v", *r)
	}

	// Presence is untouched by detrending: the pair count stays full.
	iSleep := indexOfKey(t, detrended.Keys, "sleep_score")
	iReady := indexOfKey(t, detrended.Keys, "readiness_score")
	if got := detrended.Counts[iSleep][iReady]; got != 10 {
		t.Errorf("detrended pair count = %d, want 10", got)
	}
}

func TestDetrendedMatrixKeepsResidualStructure(t *testing.T) {
	// Identical series detrend to identical residuals, which still
	// correlate perfectly once the ramp-in leaves some variance.
	rowSet := rowsOver(10, func(i int, r *health.DailyRow) {
		r.SleepScore = fp(float64(i + 1))
		r.ReadinessScore = fp(float64(i + 1))
	})

	detrended := BuildDetrendedMatrix(rowSet, Metrics(), health.MethodSpearman, 3)
	if r := detrended.At("sleep_score", "readiness_score"); r == nil || math.Abs(*r-1.0) > 1e-9 {
		t.Errorf("detrended r = %v, want 1.0", r)
	}
}

func indexOfKey(t *testing.T, keys []string, key string) int {
	t.Helper()
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	t.Fatalf("metric key %q not in matrix", key)
	return -1
}
