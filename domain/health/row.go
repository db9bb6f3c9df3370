package health

import (
	"ringlab/domain/core"
)

// DailyRow is the unified per-day record: one row per calendar day present
// in any input category. Every field except Day is optional; nil means the
// source category had no data for that day, which is distinct from zero.
// Rows are built in two passes (raw category fold, then derived fields) and
// are never mutated afterwards.
type DailyRow struct {
	Day core.Day `json:"day"`

	// Daily scores
	SleepScore     *float64 `json:"sleep_score,omitempty"`
	ReadinessScore *float64 `json:"readiness_score,omitempty"`
	ActivityScore  *float64 `json:"activity_score,omitempty"`

	// Readiness extras
	TemperatureDeviation *float64 `json:"temperature_deviation,omitempty"`

	// Activity
	Steps          *float64 `json:"steps,omitempty"`
	ActiveCalories *float64 `json:"active_calories,omitempty"`
	TotalCalories  *float64 `json:"total_calories,omitempty"`

	// Stress (minutes, converted from upstream seconds)
	StressHighMinutes   *float64 `json:"stress_high_minutes,omitempty"`
	RecoveryHighMinutes *float64 `json:"recovery_high_minutes,omitempty"`
	StressDaySummary    *string  `json:"stress_day_summary,omitempty"`

	// Resilience
	ResilienceLevel *string `json:"resilience_level,omitempty"`

	// Nightly vitals
	SpO2Avg                   *float64 `json:"spo2_avg,omitempty"`
	BreathingDisturbanceIndex *float64 `json:"breathing_disturbance_index,omitempty"`
	VO2Max                    *float64 `json:"vo2_max,omitempty"`
	CardioAge                 *float64 `json:"cardio_age,omitempty"`

	// Detailed sleep, verbatim fields
	SleepDurationH  *float64 `json:"sleep_duration_h,omitempty"`
	SleepEfficiency *float64 `json:"sleep_efficiency,omitempty"`
	SleepLatencyMin *float64 `json:"sleep_latency_min,omitempty"`
	AvgHRV          *float64 `json:"avg_hrv,omitempty"`
	AvgHeartRate    *float64 `json:"avg_heart_rate,omitempty"`
	LowestHeartRate *float64 `json:"lowest_heart_rate,omitempty"`
	RespiratoryRate *float64 `json:"respiratory_rate,omitempty"`
	BedtimeStart    *string  `json:"bedtime_start,omitempty"`
	BedtimeEnd      *string  `json:"bedtime_end,omitempty"`

	// Detailed sleep, derived stage proportions
	DeepSleepPct  *float64 `json:"deep_sleep_pct,omitempty"`
	LightSleepPct *float64 `json:"light_sleep_pct,omitempty"`
	RemSleepPct   *float64 `json:"rem_sleep_pct,omitempty"`
	AwakePct      *float64 `json:"awake_pct,omitempty"`

	// Derived circadian fields (second pass)
	BedtimeClockMin     *float64 `json:"bedtime_clock_min,omitempty"`
	WakeClockMin        *float64 `json:"wake_clock_min,omitempty"`
	MidsleepClockMin    *float64 `json:"midsleep_clock_min,omitempty"`
	BedtimeDeviationMin *float64 `json:"bedtime_deviation_min,omitempty"`

	// Workout aggregates (multiple workouts per day collapse here)
	WorkoutCount          *int     `json:"workout_count,omitempty"`
	WorkoutIntensityScore *float64 `json:"workout_intensity_score,omitempty"`
}
