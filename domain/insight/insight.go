// Package insight holds the output types of the trend summarizer, the
// simpler analysis path behind the health report tool.
package insight

// Trend classifications.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// CategoryInsight summarizes one score series: its average, trend
// direction, extremes, and a dispersion-based consistency score.
type CategoryInsight struct {
	Average     float64  `json:"average"`
	Trend       string   `json:"trend"`
	BestDay     *string  `json:"best_day,omitempty"`
	WorstDay    *string  `json:"worst_day,omitempty"`
	Consistency *float64 `json:"consistency,omitempty"`
	Insights    []string `json:"insights,omitempty"`
}

// StressInsight summarizes the stress category by day counts rather than a
// score average.
type StressInsight struct {
	StressedDays       int      `json:"stressed_days"`
	RestoredDays       int      `json:"restored_days"`
	AvgStressHighMin   float64  `json:"avg_stress_high_min"`
	AvgRecoveryHighMin float64  `json:"avg_recovery_high_min"`
	Trend              string   `json:"trend"`
	Insights           []string `json:"insights,omitempty"`
}

// MetricCorrelation is one same-day Pearson coefficient between two
// category series. R is nil when too few paired days exist.
type MetricCorrelation struct {
	Name string   `json:"name"`
	R    *float64 `json:"r"`
	N    int      `json:"n"`
}

// Recommendation is one rule-triggered suggestion. Protocol carries the
// linked knowledge-base protocol text when the rule has one.
type Recommendation struct {
	Priority string   `json:"priority"`
	Topic    string   `json:"topic"`
	Message  string   `json:"message"`
	Protocol []string `json:"protocol,omitempty"`
}

// HealthInsights is the full output of one analyze-health-data request.
type HealthInsights struct {
	Days            int                 `json:"days"`
	Sleep           *CategoryInsight    `json:"sleep,omitempty"`
	Readiness       *CategoryInsight    `json:"readiness,omitempty"`
	Activity        *CategoryInsight    `json:"activity,omitempty"`
	Stress          *StressInsight      `json:"stress,omitempty"`
	Correlations    []MetricCorrelation `json:"correlations"`
	Recommendations []Recommendation    `json:"recommendations"`
}
