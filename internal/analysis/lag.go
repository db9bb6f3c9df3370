package analysis

import (
	"math"

	"ringlab/domain/core"
	"ringlab/domain/dashboard"
	"ringlab/domain/health"
	"ringlab/internal/stats"
)

// LagSpec names one fixed lag analysis: the leading metric, the lagging
// metric, and a stable name for the result.
type LagSpec struct {
	Name string
	XKey string
	YKey string
}

// LagSpecs returns the fixed set of lag analyses every dashboards request
// computes.
func LagSpecs() []LagSpec {
	return []LagSpec{
		{"activity_to_readiness", "activity_score", "readiness_score"},
		{"workout_intensity_to_readiness", "workout_intensity_score", "readiness_score"},
		{"stress_to_sleep", "stress_high_minutes", "sleep_score"},
		{"sleep_duration_to_readiness", "sleep_duration_h", "readiness_score"},
	}
}

// ComputeLag sweeps lags from -maxLag to +maxLag and correlates the
// leading metric on day D against the lagging metric on day D+L. The
// target day is found by calendar addition, so gaps in the day sequence
// drop pairs instead of silently shifting them. Lags with fewer than
// stats.MinPairs pairs get a nil coefficient and never win best-lag
// selection; among computable lags the best maximizes |r|, exact ties
// going to the larger lag.
func ComputeLag(rowSet []health.DailyRow, spec LagSpec, method string, maxLag int) dashboard.LagAnalysis {
	result := dashboard.LagAnalysis{
		Name:   spec.Name,
		XKey:   spec.XKey,
		YKey:   spec.YKey,
		Method: method,
		MaxLag: maxLag,
	}

	xMetric, okX := MetricByKey(spec.XKey)
	yMetric, okY := MetricByKey(spec.YKey)
	if !okX || !okY {
		return result
	}

	byDay := make(map[core.Day]*health.DailyRow, len(rowSet))
	for i := range rowSet {
		byDay[rowSet[i].Day] = &rowSet[i]
	}

	for lag := -maxLag; lag <= maxLag; lag++ {
		xs := make([]*float64, 0, len(rowSet))
		ys := make([]*float64, 0, len(rowSet))
		for i := range rowSet {
			xs = append(xs, xMetric.Extract(&rowSet[i]))
			if target, ok := byDay[rowSet[i].Day.AddDays(lag)]; ok {
				ys = append(ys, yMetric.Extract(target))
			} else {
				ys = append(ys, nil)
			}
		}

		px, py := stats.PairwiseComplete(xs, ys)
		r := stats.Correlate(method, px, py)
		result.Entries = append(result.Entries, dashboard.LagPoint{Lag: lag, R: r, N: len(px)})
	}

	for i := range result.Entries {
		entry := result.Entries[i]
		if entry.R == nil {
			continue
		}
		if result.BestR == nil || math.Abs(*entry.R) >= math.Abs(*result.BestR) {
			lag := entry.Lag
			result.BestLag = &lag
			result.BestR = entry.R
		}
	}

	return result
}

// ComputeLags runs every fixed lag analysis with the same method and
// window.
func ComputeLags(rowSet []health.DailyRow, method string, maxLag int) []dashboard.LagAnalysis {
	specs := LagSpecs()
	out := make([]dashboard.LagAnalysis, 0, len(specs))
	for _, spec := range specs {
		out = append(out, ComputeLag(rowSet, spec, method, maxLag))
	}
	return out
}
