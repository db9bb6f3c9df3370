// Package rows folds the per-category record arrays into the unified daily
// table. The build runs in two pure passes: buildRawRows assigns category
// fields day by day, deriveFields then computes everything that depends on
// a cross-day statistic (median bedtime, social jetlag). Input records are
// never mutated and every output pointer is freshly allocated.
package rows

import (
	"math"

	"ringlab/domain/core"
	"ringlab/domain/health"
	"ringlab/internal/stats"
)

// BuildResult is the output of one row build.
type BuildResult struct {
	Rows []health.DailyRow
	// SocialJetlagMin is |median weekend midsleep - median weekday
	// midsleep| in clock minutes, nil when either partition is empty.
	SocialJetlagMin *float64
}

// Build produces the sorted daily rows for a bundle. A day present in any
// single category still gets a row; rows are never dropped for sparseness.
func Build(b *health.Bundle) BuildResult {
	raw := buildRawRows(b)
	return deriveFields(raw)
}

// buildRawRows is the first pass: fold every category into day-keyed rows,
// creating a row the first time a day appears in any category.
func buildRawRows(b *health.Bundle) map[core.Day]*health.DailyRow {
	rows := make(map[core.Day]*health.DailyRow)

	get := func(day core.Day) *health.DailyRow {
		if row, ok := rows[day]; ok {
			return row
		}
		row := &health.DailyRow{Day: day}
		rows[day] = row
		return row
	}

	for _, r := range b.Sleep {
		row := get(r.Day)
		row.SleepScore = cloneFloat(r.Score)
	}

	for _, r := range b.Activity {
		row := get(r.Day)
		row.ActivityScore = cloneFloat(r.Score)
		row.Steps = intToFloat(r.Steps)
		row.ActiveCalories = intToFloat(r.ActiveCalories)
		row.TotalCalories = intToFloat(r.TotalCalories)
	}

	for _, r := range b.Readiness {
		row := get(r.Day)
		row.ReadinessScore = cloneFloat(r.Score)
		row.TemperatureDeviation = cloneFloat(r.TemperatureDeviation)
	}

	for _, r := range b.Stress {
		row := get(r.Day)
		row.StressHighMinutes = secondsToMinutes(r.StressHigh)
		row.RecoveryHighMinutes = secondsToMinutes(r.RecoveryHigh)
		row.StressDaySummary = cloneString(r.DaySummary)
	}

	for _, r := range b.Resilience {
		row := get(r.Day)
		row.ResilienceLevel = cloneString(r.Level)
	}

	for _, r := range b.SpO2 {
		row := get(r.Day)
		if r.SpO2Percentage != nil {
			row.SpO2Avg = cloneFloat(r.SpO2Percentage.Average)
		}
		row.BreathingDisturbanceIndex = cloneFloat(r.BreathingDisturbanceIndex)
	}

	for _, r := range b.CardioAge {
		row := get(r.Day)
		row.CardioAge = cloneFloat(r.VascularAge)
	}

	for _, r := range b.VO2Max {
		row := get(r.Day)
		row.VO2Max = cloneFloat(r.VO2Max)
	}

	for _, r := range b.SleepDetails {
		row := get(r.Day)
		applySleepDetail(row, r)
	}

	applyWorkouts(get, b.Workouts)

	return rows
}

// applySleepDetail writes the verbatim sleep-period fields plus the stage
// percentages. Percentages are only computed against a positive total sleep
// duration, never divided by zero.
func applySleepDetail(row *health.DailyRow, r health.SleepDetail) {
	if r.TotalSleepDuration != nil {
		h := *r.TotalSleepDuration / 3600
		row.SleepDurationH = &h
	}
	row.SleepEfficiency = cloneFloat(r.Efficiency)
	if r.Latency != nil {
		m := *r.Latency / 60
		row.SleepLatencyMin = &m
	}
	row.AvgHRV = cloneFloat(r.AverageHRV)
	row.AvgHeartRate = cloneFloat(r.AverageHeartRate)
	row.LowestHeartRate = cloneFloat(r.LowestHeartRate)
	row.RespiratoryRate = cloneFloat(r.AverageBreath)
	if r.BedtimeStart != "" {
		s := r.BedtimeStart
		row.BedtimeStart = &s
	}
	if r.BedtimeEnd != "" {
		s := r.BedtimeEnd
		row.BedtimeEnd = &s
	}

	if r.TotalSleepDuration == nil || *r.TotalSleepDuration <= 0 {
		return
	}
	total := *r.TotalSleepDuration
	row.DeepSleepPct = pctOf(r.DeepSleepDuration, total)
	row.LightSleepPct = pctOf(r.LightSleepDuration, total)
	row.RemSleepPct = pctOf(r.RemSleepDuration, total)
	row.AwakePct = pctOf(r.AwakeTime, total)
}

// applyWorkouts collapses multiple workouts per day into the count and the
// summed intensity weights (easy=1, moderate=2, hard=3).
func applyWorkouts(get func(core.Day) *health.DailyRow, workouts []health.Workout) {
	for _, w := range workouts {
		row := get(w.Day)
		if row.WorkoutCount == nil {
			count := 0
			score := 0.0
			row.WorkoutCount = &count
			row.WorkoutIntensityScore = &score
		}
		*row.WorkoutCount++
		*row.WorkoutIntensityScore += health.IntensityWeight(w.Intensity)
	}
}

// deriveFields is the second pass: clock-minute conversions, midsleep, the
// cross-day bedtime median deviation, and social jetlag. Runs after every
// raw field exists because the median spans the whole population.
func deriveFields(raw map[core.Day]*health.DailyRow) BuildResult {
	days := make([]core.Day, 0, len(raw))
	for day := range raw {
		days = append(days, day)
	}
	core.SortDays(days)

	for _, day := range days {
		row := raw[day]
		row.BedtimeClockMin = clockMinutes(row.BedtimeStart)
		row.WakeClockMin = clockMinutes(row.BedtimeEnd)
		if row.BedtimeClockMin != nil && row.SleepDurationH != nil {
			mid := math.Mod(*row.BedtimeClockMin+*row.SleepDurationH*30, 1440)
			row.MidsleepClockMin = &mid
		}
	}

	bedtimes := make([]float64, 0, len(days))
	for _, day := range days {
		if b := raw[day].BedtimeClockMin; b != nil {
			bedtimes = append(bedtimes, *b)
		}
	}
	if medianBed := stats.Median(bedtimes); medianBed != nil {
		for _, day := range days {
			row := raw[day]
			if row.BedtimeClockMin != nil {
				dev := *row.BedtimeClockMin - *medianBed
				row.BedtimeDeviationMin = &dev
			}
		}
	}

	out := make([]health.DailyRow, 0, len(days))
	for _, day := range days {
		out = append(out, *raw[day])
	}

	return BuildResult{
		Rows:            out,
		SocialJetlagMin: socialJetlag(out),
	}
}

// socialJetlag compares the median midsleep of weekend days against
// weekdays. Nil when either partition has no midsleep data.
func socialJetlag(rows []health.DailyRow) *float64 {
	var weekend, weekday []float64
	for _, row := range rows {
		if row.MidsleepClockMin == nil {
			continue
		}
		if row.Day.IsWeekend() {
			weekend = append(weekend, *row.MidsleepClockMin)
		} else {
			weekday = append(weekday, *row.MidsleepClockMin)
		}
	}

	weekendMedian := stats.Median(weekend)
	weekdayMedian := stats.Median(weekday)
	if weekendMedian == nil || weekdayMedian == nil {
		return nil
	}
	jetlag := math.Abs(*weekendMedian - *weekdayMedian)
	return &jetlag
}

func clockMinutes(ts *string) *float64 {
	if ts == nil {
		return nil
	}
	t, err := core.ParseTime(*ts)
	if err != nil {
		return nil
	}
	m := core.ClockMinutesUTC(t)
	return &m
}

func pctOf(part *float64, total float64) *float64 {
	if part == nil {
		return nil
	}
	pct := *part / total * 100
	return &pct
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func intToFloat(p *int) *float64 {
	if p == nil {
		return nil
	}
	v := float64(*p)
	return &v
}

func secondsToMinutes(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p / 60
	return &v
}
