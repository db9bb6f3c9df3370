package health

import (
	"ringlab/domain/core"
)

// Bundle is the full set of category record arrays for one date range,
// already fetched and decoded. Empty arrays are valid input everywhere.
type Bundle struct {
	Start core.Day `json:"start"`
	End   core.Day `json:"end"`

	Sleep        []DailySleep        `json:"sleep"`
	Activity     []DailyActivity     `json:"activity"`
	Readiness    []DailyReadiness    `json:"readiness"`
	Stress       []DailyStress       `json:"stress"`
	Resilience   []DailyResilience   `json:"resilience"`
	SpO2         []DailySpO2         `json:"spo2"`
	CardioAge    []CardiovascularAge `json:"cardio_age"`
	VO2Max       []VO2Max            `json:"vo2_max"`
	SleepDetails []SleepDetail       `json:"sleep_details"`
	Workouts     []Workout           `json:"workouts"`
}

// RecordCount totals the records across every category.
func (b *Bundle) RecordCount() int {
	return len(b.Sleep) + len(b.Activity) + len(b.Readiness) + len(b.Stress) +
		len(b.Resilience) + len(b.SpO2) + len(b.CardioAge) + len(b.VO2Max) +
		len(b.SleepDetails) + len(b.Workouts)
}
