// Package insights is the trend summarizer: the simpler analysis path
// behind the health report tool. It reads the raw category records
// directly, classifies per-category trends, computes same-day Pearson
// correlations, and applies the fixed recommendation rules. It shares
// nothing with the dashboard engine beyond the stats primitives: different
// correlation default, different missing-data handling, on purpose.
package insights

import (
	"fmt"

	"ringlab/domain/health"
	"ringlab/domain/insight"
	"ringlab/internal/kb"
	"ringlab/internal/stats"
	"ringlab/ports"
)

// Recommendation thresholds.
const (
	sleepScoreFloor = 70.0
	stepsFloor      = 7000.0
	readinessFloor  = 75.0
)

// Analyze summarizes one fetched bundle. Empty categories produce nil
// sections, never errors; the correlations list always carries the three
// fixed pairs even when their coefficients are nil.
func Analyze(b *health.Bundle, knowledge ports.Knowledge) insight.HealthInsights {
	sleep := newDaySeries()
	for _, rec := range b.Sleep {
		if rec.Score != nil {
			sleep.set(rec.Day, *rec.Score)
		}
	}
	readiness := newDaySeries()
	for _, rec := range b.Readiness {
		if rec.Score != nil {
			readiness.set(rec.Day, *rec.Score)
		}
	}
	activity := newDaySeries()
	steps := newDaySeries()
	for _, rec := range b.Activity {
		if rec.Score != nil {
			activity.set(rec.Day, *rec.Score)
		}
		if rec.Steps != nil {
			steps.set(rec.Day, float64(*rec.Steps))
		}
	}
	stressMin := newDaySeries()
	recoveryMin := newDaySeries()
	var stressedDays, restoredDays int
	for _, rec := range b.Stress {
		if rec.StressHigh != nil {
			stressMin.set(rec.Day, *rec.StressHigh/60)
		}
		if rec.RecoveryHigh != nil {
			recoveryMin.set(rec.Day, *rec.RecoveryHigh/60)
		}
		if rec.DaySummary == nil {
			continue
		}
		switch *rec.DaySummary {
		case health.StressDayStressful:
			stressedDays++
		case health.StressDayRestored:
			restoredDays++
		}
	}

	out := insight.HealthInsights{
		Days:         unionDays(sleep, readiness, activity, steps, stressMin, recoveryMin),
		Correlations: correlations(sleep, readiness, activity, stressMin),
	}

	if sleep.len() > 0 {
		out.Sleep = scoreInsight(sleep, true)
		out.Sleep.Insights = sleepNotes(out.Sleep)
	}
	if readiness.len() > 0 {
		out.Readiness = scoreInsight(readiness, false)
		out.Readiness.Insights = readinessNotes(out.Readiness)
	}
	if activity.len() > 0 {
		out.Activity = scoreInsight(activity, false)
		out.Activity.Insights = activityNotes(out.Activity)
	}
	if len(b.Stress) > 0 {
		out.Stress = &insight.StressInsight{
			StressedDays:       stressedDays,
			RestoredDays:       restoredDays,
			AvgStressHighMin:   stats.Mean(stressMin.values()),
			AvgRecoveryHighMin: stats.Mean(recoveryMin.values()),
			Trend:              classifyTrend(recoveryMin.values()),
		}
		out.Stress.Insights = stressNotes(out.Stress)
	}

	out.Recommendations = recommend(knowledge, &out, steps, stressedDays, restoredDays)
	return out
}

// scoreInsight builds the common summary for one score series. Only the
// sleep category reports best and worst days.
func scoreInsight(s *daySeries, withExtremes bool) *insight.CategoryInsight {
	values := s.values()
	ci := &insight.CategoryInsight{
		Average:     stats.Mean(values),
		Trend:       classifyTrend(values),
		Consistency: consistencyScore(values),
	}
	if withExtremes {
		ci.BestDay, ci.WorstDay = s.extremes()
	}
	return ci
}

// correlations computes the three fixed same-day Pearson pairs. The
// dashboard engine's Spearman default does not apply here.
func correlations(sleep, readiness, activity, stressMin *daySeries) []insight.MetricCorrelation {
	pairs := []struct {
		name string
		x, y *daySeries
	}{
		{"sleep_vs_readiness", sleep, readiness},
		{"activity_vs_sleep", activity, sleep},
		{"stress_vs_sleep", stressMin, sleep},
	}

	out := make([]insight.MetricCorrelation, 0, len(pairs))
	for _, pair := range pairs {
		xs, ys := sameDayPairs(pair.x, pair.y)
		out = append(out, insight.MetricCorrelation{
			Name: pair.name,
			R:    stats.Pearson(xs, ys),
			N:    len(xs),
		})
	}
	return out
}

// recommend applies the fixed threshold rules in order. Each rule appends
// at most one recommendation; rules without data never fire.
func recommend(knowledge ports.Knowledge, result *insight.HealthInsights, steps *daySeries, stressedDays, restoredDays int) []insight.Recommendation {
	var recs []insight.Recommendation

	if result.Sleep != nil && result.Sleep.Average < sleepScoreFloor {
		recs = append(recs, insight.Recommendation{
			Priority: insight.PriorityHigh,
			Topic:    kb.TopicSleep,
			Message:  fmt.Sprintf("Average sleep score %.0f is below %.0f. Prioritize sleep quality this week.", result.Sleep.Average, sleepScoreFloor),
			Protocol: protocolFor(knowledge, kb.ProtocolSleepHygiene),
		})
	}
	if steps.len() > 0 {
		if avg := stats.Mean(steps.values()); avg < stepsFloor {
			recs = append(recs, insight.Recommendation{
				Priority: insight.PriorityMedium,
				Topic:    kb.TopicActivity,
				Message:  fmt.Sprintf("Average daily steps %.0f are below %.0f. Add low-intensity movement.", avg, stepsFloor),
				Protocol: protocolFor(knowledge, kb.ProtocolActivityBalance),
			})
		}
	}
	if result.Readiness != nil && result.Readiness.Average < readinessFloor {
		recs = append(recs, insight.Recommendation{
			Priority: insight.PriorityMedium,
			Topic:    kb.TopicHRV,
			Message:  fmt.Sprintf("Average readiness %.0f is below %.0f. Favor recovery over load.", result.Readiness.Average, readinessFloor),
			Protocol: protocolFor(knowledge, kb.ProtocolHRVTraining),
		})
	}
	if stressedDays > restoredDays {
		recs = append(recs, insight.Recommendation{
			Priority: insight.PriorityHigh,
			Topic:    kb.TopicStress,
			Message:  fmt.Sprintf("%d stressful days against %d restored. Schedule deliberate downtime.", stressedDays, restoredDays),
			Protocol: protocolFor(knowledge, kb.ProtocolStressReduction),
		})
	}
	return recs
}

func protocolFor(knowledge ports.Knowledge, name string) []string {
	if knowledge == nil {
		return nil
	}
	return knowledge.ProtocolFor(name)
}

func sleepNotes(ci *insight.CategoryInsight) []string {
	var notes []string
	switch {
	case ci.Average >= 85:
		notes = append(notes, "Sleep quality is excellent across the period.")
	case ci.Average < sleepScoreFloor:
		notes = append(notes, "Sleep scores sit below the healthy range.")
	}
	switch ci.Trend {
	case insight.TrendImproving:
		notes = append(notes, "Sleep quality is trending upward.")
	case insight.TrendDeclining:
		notes = append(notes, "Sleep quality is trending downward.")
	}
	if ci.Consistency != nil && *ci.Consistency < 70 {
		notes = append(notes, "Night-to-night sleep quality varies widely.")
	}
	return notes
}

func readinessNotes(ci *insight.CategoryInsight) []string {
	var notes []string
	if ci.Average < readinessFloor {
		notes = append(notes, "Recovery capacity is running low.")
	}
	switch ci.Trend {
	case insight.TrendImproving:
		notes = append(notes, "Readiness is recovering.")
	case insight.TrendDeclining:
		notes = append(notes, "Readiness is sliding; watch training load.")
	}
	return notes
}

func activityNotes(ci *insight.CategoryInsight) []string {
	var notes []string
	switch ci.Trend {
	case insight.TrendImproving:
		notes = append(notes, "Activity levels are rising.")
	case insight.TrendDeclining:
		notes = append(notes, "Activity levels are falling.")
	}
	return notes
}

func stressNotes(si *insight.StressInsight) []string {
	var notes []string
	if si.StressedDays > si.RestoredDays {
		notes = append(notes, "Stressful days outnumber restored ones.")
	}
	if si.AvgRecoveryHighMin > 0 && si.AvgStressHighMin > si.AvgRecoveryHighMin {
		notes = append(notes, "Daily stress time exceeds recovery time.")
	}
	if si.Trend == insight.TrendImproving {
		notes = append(notes, "Recovery time is trending up.")
	}
	return notes
}
