// Package stats provides the statistics primitives shared by the
// correlation engine and the insight summarizer: mean, median, rank
// transform, Pearson/Spearman correlation, pairwise extraction, causal
// detrending, and histogram binning.
//
// Missing data never raises: short or degenerate inputs resolve to nil (for
// single values) or are excluded (for collections). Nothing here returns
// NaN or Inf.
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// MinPairs is the minimum number of paired observations required before a
// correlation coefficient is considered computable.
const MinPairs = 5

// Mean returns the arithmetic mean, or 0 for empty input. Callers rely on
// the zero default for safe aggregation.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := mstats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

// Median returns the sorted middle value, averaging the central pair for
// even-length input. Empty input returns nil: "no value" is distinct from
// zero, and 0 is a valid median.
func Median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m, err := mstats.Median(values)
	if err != nil {
		return nil
	}
	return &m
}

// StdDev returns the population standard deviation, or 0 for empty input.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sd, err := mstats.StandardDeviation(values)
	if err != nil {
		return 0
	}
	return sd
}

// RankTransform converts values to 1-based ranks with average-rank tie
// handling: tied values all receive the mean of the ranks they occupy.
func RankTransform(values []float64) []float64 {
	n := len(values)
	ranks := make([]float64, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avgRank := float64(i+1) + float64(j-i)/2.0
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avgRank
		}
		i = j + 1
	}
	return ranks
}

// Pearson computes the Pearson correlation coefficient over two parallel
// sequences. Returns nil when fewer than MinPairs points exist or either
// sequence has zero variance.
//
// Uses the explicit sums form: on exactly-linear integer input it yields
// exactly 1.0, so equal-|r| lag candidates compare equal during best-lag
// tie-breaking.
func Pearson(x, y []float64) *float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < MinPairs {
		return nil
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	num := float64(n)*sumXY - sumX*sumY
	den := math.Sqrt((float64(n)*sumX2 - sumX*sumX) * (float64(n)*sumY2 - sumY*sumY))
	if den == 0 {
		return nil
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return &r
}

// Spearman computes the Spearman rank correlation: rank-transform both
// sequences, then Pearson on the ranks. The MinPairs and zero-variance nil
// rules apply transitively.
func Spearman(x, y []float64) *float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < MinPairs {
		return nil
	}
	return Pearson(RankTransform(x[:n]), RankTransform(y[:n]))
}

// Correlate dispatches to Pearson or Spearman by method name. Unknown
// methods fall back to Spearman, the engine default.
func Correlate(method string, x, y []float64) *float64 {
	if method == "pearson" {
		return Pearson(x, y)
	}
	return Spearman(x, y)
}

// PairwiseComplete extracts the dense pair of sequences over indices where
// both inputs are present and finite. This is the sole masking mechanism
// for missing data: no imputation, no interpolation.
func PairwiseComplete(x, y []*float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if x[i] == nil || y[i] == nil {
			continue
		}
		if !finite(*x[i]) || !finite(*y[i]) {
			continue
		}
		xs = append(xs, *x[i])
		ys = append(ys, *y[i])
	}
	return xs, ys
}

// Detrend subtracts the trailing-window mean from each value: for position
// i the window covers the previous window-1 positions plus i itself, over
// present values only. The window never looks ahead, so the residual stays
// causal. Absent values stay absent.
func Detrend(values []*float64, window int) []*float64 {
	if window < 1 {
		window = 1
	}
	out := make([]*float64, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		var sum float64
		var n int
		for j := lo; j <= i; j++ {
			if values[j] != nil {
				sum += *values[j]
				n++
			}
		}
		residual := *v - sum/float64(n)
		out[i] = &residual
	}
	return out
}

// Bin is one histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram bins values at a fixed width, spanning floor(min/width)*width
// to ceil(max/width)*width. A value sitting exactly on the top edge clamps
// into the last bin rather than overflowing.
func Histogram(values []float64, width float64) []Bin {
	if len(values) == 0 || width <= 0 {
		return nil
	}

	lo := math.Floor(floats.Min(values)/width) * width
	hi := math.Ceil(floats.Max(values)/width) * width
	if hi == lo {
		hi = lo + width
	}

	nbins := int(math.Round((hi - lo) / width))
	bins := make([]Bin, nbins)
	for i := range bins {
		bins[i] = Bin{Lo: lo + float64(i)*width, Hi: lo + float64(i+1)*width}
	}
	for _, v := range values {
		idx := int(math.Floor((v - lo) / width))
		if idx >= nbins {
			idx = nbins - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
