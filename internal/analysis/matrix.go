package analysis

import (
	"ringlab/domain/dashboard"
	"ringlab/domain/health"
	"ringlab/internal/stats"
)

// BuildMatrix computes the full pairwise-complete correlation matrix over
// the given metric set. Each cell pairs only the days where both metrics
// are present and finite, so different cells may use different day
// subsets; Counts records the subset size per cell. Cells with fewer than
// stats.MinPairs observations stay nil.
func BuildMatrix(rowSet []health.DailyRow, metrics []Metric, method string) dashboard.CorrelationMatrix {
	series := make([][]*float64, len(metrics))
	for i, m := range metrics {
		series[i] = SeriesOf(rowSet, m)
	}
	return matrixOf(series, metricKeysOf(metrics), method)
}

// BuildDetrendedMatrix computes the same matrix after subtracting each
// metric's trailing-window mean from its series, isolating short-term
// co-movement from slow drift.
func BuildDetrendedMatrix(rowSet []health.DailyRow, metrics []Metric, method string, window int) dashboard.CorrelationMatrix {
	series := make([][]*float64, len(metrics))
	for i, m := range metrics {
		series[i] = stats.Detrend(SeriesOf(rowSet, m), window)
	}
	return matrixOf(series, metricKeysOf(metrics), method)
}

// matrixOf fills every cell independently with the same symmetric pairing
// logic, so values[i][j] and values[j][i] come out identical.
func matrixOf(series [][]*float64, keys []string, method string) dashboard.CorrelationMatrix {
	n := len(series)
	values := make([][]*float64, n)
	counts := make([][]int, n)

	for i := 0; i < n; i++ {
		values[i] = make([]*float64, n)
		counts[i] = make([]int, n)
		for j := 0; j < n; j++ {
			xs, ys := stats.PairwiseComplete(series[i], series[j])
			counts[i][j] = len(xs)
			values[i][j] = stats.Correlate(method, xs, ys)
		}
	}

	return dashboard.CorrelationMatrix{
		Method: method,
		Keys:   keys,
		Values: values,
		Counts: counts,
	}
}

func metricKeysOf(metrics []Metric) []string {
	keys := make([]string, len(metrics))
	for i, m := range metrics {
		keys[i] = m.Key
	}
	return keys
}
