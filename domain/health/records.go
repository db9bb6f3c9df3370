// Package health holds the per-category record types returned by the ring
// cloud API and the unified per-day row the analysis engine works on.
// Records are immutable inputs: the engine only ever reads them.
package health

import (
	"ringlab/domain/core"
)

// SeriesPayload is the upstream shape for sampled time-series (heart rate,
// HRV, MET): a start timestamp, a fixed interval in seconds, and one item
// per sample. Items may be null where the ring recorded nothing.
type SeriesPayload struct {
	Interval  float64    `json:"interval"`
	Items     []*float64 `json:"items"`
	Timestamp string     `json:"timestamp"`
}

// DailySleep is one daily sleep score record.
type DailySleep struct {
	ID           string             `json:"id"`
	Day          core.Day           `json:"day"`
	Score        *float64           `json:"score"`
	Timestamp    string             `json:"timestamp"`
	Contributors *SleepContributors `json:"contributors,omitempty"`
}

// SleepContributors are the upstream sub-scores behind a sleep score.
type SleepContributors struct {
	DeepSleep   *float64 `json:"deep_sleep,omitempty"`
	Efficiency  *float64 `json:"efficiency,omitempty"`
	Latency     *float64 `json:"latency,omitempty"`
	RemSleep    *float64 `json:"rem_sleep,omitempty"`
	Restfulness *float64 `json:"restfulness,omitempty"`
	Timing      *float64 `json:"timing,omitempty"`
	TotalSleep  *float64 `json:"total_sleep,omitempty"`
}

// DailyActivity is one daily activity summary record.
type DailyActivity struct {
	ID                 string         `json:"id"`
	Day                core.Day       `json:"day"`
	Score              *float64       `json:"score"`
	Steps              *int           `json:"steps"`
	ActiveCalories     *int           `json:"active_calories"`
	TotalCalories      *int           `json:"total_calories"`
	HighActivityTime   *int           `json:"high_activity_time"`
	MediumActivityTime *int           `json:"medium_activity_time"`
	LowActivityTime    *int           `json:"low_activity_time"`
	SedentaryTime      *int           `json:"sedentary_time"`
	Class5Min          string         `json:"class_5_min"`
	Met                *SeriesPayload `json:"met,omitempty"`
	Timestamp          string         `json:"timestamp"`
}

// DailyReadiness is one daily readiness record.
type DailyReadiness struct {
	ID                        string                 `json:"id"`
	Day                       core.Day               `json:"day"`
	Score                     *float64               `json:"score"`
	TemperatureDeviation      *float64               `json:"temperature_deviation"`
	TemperatureTrendDeviation *float64               `json:"temperature_trend_deviation"`
	Contributors              *ReadinessContributors `json:"contributors,omitempty"`
}

// ReadinessContributors are the upstream sub-scores behind a readiness score.
type ReadinessContributors struct {
	ActivityBalance     *float64 `json:"activity_balance,omitempty"`
	BodyTemperature     *float64 `json:"body_temperature,omitempty"`
	HRVBalance          *float64 `json:"hrv_balance,omitempty"`
	PreviousDayActivity *float64 `json:"previous_day_activity,omitempty"`
	PreviousNight       *float64 `json:"previous_night,omitempty"`
	RecoveryIndex       *float64 `json:"recovery_index,omitempty"`
	RestingHeartRate    *float64 `json:"resting_heart_rate,omitempty"`
	SleepBalance        *float64 `json:"sleep_balance,omitempty"`
}

// DailyStress is one daily stress record. Durations arrive in seconds.
type DailyStress struct {
	ID           string   `json:"id"`
	Day          core.Day `json:"day"`
	StressHigh   *float64 `json:"stress_high"`
	RecoveryHigh *float64 `json:"recovery_high"`
	DaySummary   *string  `json:"day_summary"`
}

// Stress day summaries reported upstream.
const (
	StressDayStressful = "stressful"
	StressDayNormal    = "normal"
	StressDayRestored  = "restored"
)

// DailyResilience is one daily resilience record.
type DailyResilience struct {
	ID           string                  `json:"id"`
	Day          core.Day                `json:"day"`
	Level        *string                 `json:"level"`
	Contributors *ResilienceContributors `json:"contributors,omitempty"`
}

// ResilienceContributors are the upstream resilience sub-scores.
type ResilienceContributors struct {
	SleepRecovery   *float64 `json:"sleep_recovery,omitempty"`
	DaytimeRecovery *float64 `json:"daytime_recovery,omitempty"`
	Stress          *float64 `json:"stress,omitempty"`
}

// DailySpO2 is one daily blood-oxygen record.
type DailySpO2 struct {
	ID                        string          `json:"id"`
	Day                       core.Day        `json:"day"`
	SpO2Percentage            *SpO2Percentage `json:"spo2_percentage,omitempty"`
	BreathingDisturbanceIndex *float64        `json:"breathing_disturbance_index"`
}

// SpO2Percentage carries the nightly average saturation.
type SpO2Percentage struct {
	Average *float64 `json:"average"`
}

// CardiovascularAge is one daily vascular-age estimate.
type CardiovascularAge struct {
	Day         core.Day `json:"day"`
	VascularAge *float64 `json:"vascular_age"`
}

// VO2Max is one VO2-max estimate record.
type VO2Max struct {
	ID        string   `json:"id"`
	Day       core.Day `json:"day"`
	Timestamp string   `json:"timestamp"`
	VO2Max    *float64 `json:"vo2_max"`
}

// SleepDetail is one detailed sleep-period record: summary fields plus the
// compact encoded series (stage codes, movement codes) and sampled payloads.
// Durations arrive in seconds.
type SleepDetail struct {
	ID                 string         `json:"id"`
	Day                core.Day       `json:"day"`
	Type               string         `json:"type"`
	BedtimeStart       string         `json:"bedtime_start"`
	BedtimeEnd         string         `json:"bedtime_end"`
	TotalSleepDuration *float64       `json:"total_sleep_duration"`
	TimeInBed          *float64       `json:"time_in_bed"`
	AwakeTime          *float64       `json:"awake_time"`
	DeepSleepDuration  *float64       `json:"deep_sleep_duration"`
	LightSleepDuration *float64       `json:"light_sleep_duration"`
	RemSleepDuration   *float64       `json:"rem_sleep_duration"`
	Latency            *float64       `json:"latency"`
	Efficiency         *float64       `json:"efficiency"`
	AverageHeartRate   *float64       `json:"average_heart_rate"`
	LowestHeartRate    *float64       `json:"lowest_heart_rate"`
	AverageHRV         *float64       `json:"average_hrv"`
	AverageBreath      *float64       `json:"average_breath"`
	RestlessPeriods    *int           `json:"restless_periods"`
	SleepPhase5Min     string         `json:"sleep_phase_5_min"`
	Movement30Sec      string         `json:"movement_30_sec"`
	HeartRate          *SeriesPayload `json:"heart_rate,omitempty"`
	HRV                *SeriesPayload `json:"hrv,omitempty"`
}

// Workout is one logged workout. A day may hold zero or more.
type Workout struct {
	ID            string   `json:"id"`
	Day           core.Day `json:"day"`
	Activity      string   `json:"activity"`
	Intensity     string   `json:"intensity"`
	Label         *string  `json:"label"`
	Source        string   `json:"source"`
	Calories      *float64 `json:"calories"`
	Distance      *float64 `json:"distance"`
	StartDatetime string   `json:"start_datetime"`
	EndDatetime   string   `json:"end_datetime"`
}

// IntensityWeight maps a workout intensity onto its training-load weight.
// Unknown intensities weigh nothing rather than failing.
func IntensityWeight(intensity string) float64 {
	switch intensity {
	case "easy":
		return 1
	case "moderate":
		return 2
	case "hard":
		return 3
	default:
		return 0
	}
}

// PersonalInfo is the account-level profile record.
type PersonalInfo struct {
	ID            string   `json:"id"`
	Age           *int     `json:"age"`
	Weight        *float64 `json:"weight"`
	Height        *float64 `json:"height"`
	BiologicalSex *string  `json:"biological_sex"`
	Email         *string  `json:"email"`
}
