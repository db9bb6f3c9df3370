package insights

import (
	"math"

	"ringlab/domain/core"
	"ringlab/domain/insight"
	"ringlab/internal/stats"
)

// trendMinPoints is the shortest series that can express a direction;
// anything shorter classifies as stable.
const trendMinPoints = 7

// trendThreshold is the half-mean difference a series must clear before it
// counts as improving or declining.
const trendThreshold = 2.0

// classifyTrend splits a day-ordered series into halves and compares their
// means. The split point is the floor midpoint, so odd-length series give
// the second half the extra point.
func classifyTrend(values []float64) string {
	if len(values) < trendMinPoints {
		return insight.TrendStable
	}
	mid := len(values) / 2
	diff := stats.Mean(values[mid:]) - stats.Mean(values[:mid])
	switch {
	case diff > trendThreshold:
		return insight.TrendImproving
	case diff < -trendThreshold:
		return insight.TrendDeclining
	default:
		return insight.TrendStable
	}
}

// consistencyScore turns score dispersion into a 0..100 scale: three points
// off per point of standard deviation, clamped at zero.
func consistencyScore(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	score := math.Round(100 - stats.StdDev(values)*3)
	if score < 0 {
		score = 0
	}
	return &score
}

// daySeries is a per-day value map plus its day-sorted view.
type daySeries struct {
	byDay map[core.Day]float64
	days  []core.Day
}

func newDaySeries() *daySeries {
	return &daySeries{byDay: make(map[core.Day]float64)}
}

func (s *daySeries) set(day core.Day, v float64) {
	if day.IsZero() {
		return
	}
	if _, seen := s.byDay[day]; !seen {
		s.days = append(s.days, day)
	}
	s.byDay[day] = v
}

func (s *daySeries) sorted() []core.Day {
	core.SortDays(s.days)
	return s.days
}

// values returns the series in day order.
func (s *daySeries) values() []float64 {
	out := make([]float64, 0, len(s.days))
	for _, day := range s.sorted() {
		out = append(out, s.byDay[day])
	}
	return out
}

func (s *daySeries) len() int { return len(s.days) }

// extremes returns the days holding the maximum and minimum values. Ties
// resolve to the earliest day.
func (s *daySeries) extremes() (best, worst *string) {
	if s.len() == 0 {
		return nil, nil
	}
	days := s.sorted()
	bestDay, worstDay := days[0], days[0]
	for _, day := range days[1:] {
		if s.byDay[day] > s.byDay[bestDay] {
			bestDay = day
		}
		if s.byDay[day] < s.byDay[worstDay] {
			worstDay = day
		}
	}
	b, w := string(bestDay), string(worstDay)
	return &b, &w
}

// sameDayPairs intersects two series over their shared days, in day order.
func sameDayPairs(x, y *daySeries) ([]float64, []float64) {
	xs := make([]float64, 0, x.len())
	ys := make([]float64, 0, x.len())
	for _, day := range x.sorted() {
		yv, ok := y.byDay[day]
		if !ok {
			continue
		}
		xs = append(xs, x.byDay[day])
		ys = append(ys, yv)
	}
	return xs, ys
}

// unionDays counts the distinct days across all given series.
func unionDays(series ...*daySeries) int {
	seen := make(map[core.Day]struct{})
	for _, s := range series {
		for day := range s.byDay {
			seen[day] = struct{}{}
		}
	}
	return len(seen)
}
