package analysis

import (
	"ringlab/domain/health"
)

// Metric binds a stable key to the row field it reads. The key list is the
// matrix axis: order matters for indexing and must not change between
// releases without versioning the output.
type Metric struct {
	Key     string
	Label   string
	Extract func(r *health.DailyRow) *float64
}

// Metrics returns the fixed ordered metric set used by the full
// correlation matrix.
func Metrics() []Metric {
	return []Metric{
		{"sleep_score", "Sleep Score", func(r *health.DailyRow) *float64 { return r.SleepScore }},
		{"readiness_score", "Readiness Score", func(r *health.DailyRow) *float64 { return r.ReadinessScore }},
		{"activity_score", "Activity Score", func(r *health.DailyRow) *float64 { return r.ActivityScore }},
		{"stress_high_minutes", "Stress High (min)", func(r *health.DailyRow) *float64 { return r.StressHighMinutes }},
		{"recovery_high_minutes", "Recovery High (min)", func(r *health.DailyRow) *float64 { return r.RecoveryHighMinutes }},
		{"steps", "Steps", func(r *health.DailyRow) *float64 { return r.Steps }},
		{"avg_hrv", "Average HRV", func(r *health.DailyRow) *float64 { return r.AvgHRV }},
		{"avg_heart_rate", "Average Heart Rate", func(r *health.DailyRow) *float64 { return r.AvgHeartRate }},
		{"sleep_duration_h", "Sleep Duration (h)", func(r *health.DailyRow) *float64 { return r.SleepDurationH }},
		{"sleep_efficiency", "Sleep Efficiency", func(r *health.DailyRow) *float64 { return r.SleepEfficiency }},
		{"deep_sleep_pct", "Deep Sleep %", func(r *health.DailyRow) *float64 { return r.DeepSleepPct }},
		{"rem_sleep_pct", "REM Sleep %", func(r *health.DailyRow) *float64 { return r.RemSleepPct }},
		{"bedtime_clock_min", "Bedtime (clock min)", func(r *health.DailyRow) *float64 { return r.BedtimeClockMin }},
		{"workout_intensity_score", "Workout Intensity", func(r *health.DailyRow) *float64 { return r.WorkoutIntensityScore }},
		{"spo2_avg", "SpO2 Average", func(r *health.DailyRow) *float64 { return r.SpO2Avg }},
		{"breathing_disturbance_index", "Breathing Disturbance Index", func(r *health.DailyRow) *float64 { return r.BreathingDisturbanceIndex }},
		{"vo2_max", "VO2 Max", func(r *health.DailyRow) *float64 { return r.VO2Max }},
		{"cardio_age", "Cardiovascular Age", func(r *health.DailyRow) *float64 { return r.CardioAge }},
	}
}

// MetricKeys returns the ordered key list of the fixed metric set.
func MetricKeys() []string {
	metrics := Metrics()
	keys := make([]string, len(metrics))
	for i, m := range metrics {
		keys[i] = m.Key
	}
	return keys
}

// MetricByKey finds a metric in the fixed set. Returns false for unknown
// keys.
func MetricByKey(key string) (Metric, bool) {
	for _, m := range Metrics() {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// SeriesOf extracts one metric's value per row, preserving row order and
// absences.
func SeriesOf(rowSet []health.DailyRow, m Metric) []*float64 {
	out := make([]*float64, len(rowSet))
	for i := range rowSet {
		out[i] = m.Extract(&rowSet[i])
	}
	return out
}
