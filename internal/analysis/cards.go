package analysis

import (
	"ringlab/domain/dashboard"
	"ringlab/internal/kb"
	"ringlab/ports"
)

// BuildCards assembles the fixed thematic cards: chart specs by metric key
// plus the static findings attached to each card's topic. Cards are view
// specs, not statistics; they are emitted even when the referenced metrics
// are sparse, and data sufficiency stays a rendering concern.
func BuildCards(knowledge ports.Knowledge) []dashboard.DashboardCard {
	nextDay := 1
	bedtimeBins := 30.0

	return []dashboard.DashboardCard{
		{
			ID:    "sleep_architecture",
			Title: "Sleep Architecture vs Recovery",
			Topic: kb.TopicSleep,
			Charts: []dashboard.ChartSpec{
				{Kind: dashboard.ChartScatter, Title: "Deep Sleep % vs Readiness", XKey: "deep_sleep_pct", YKey: "readiness_score"},
				{Kind: dashboard.ChartScatter, Title: "REM Sleep % vs Sleep Score", XKey: "rem_sleep_pct", YKey: "sleep_score"},
				{Kind: dashboard.ChartHeatmap, Title: "Metric Correlations"},
			},
			Findings: findingsFor(knowledge, kb.TopicSleep),
		},
		{
			ID:    "training_load",
			Title: "Training Load & Readiness",
			Topic: kb.TopicActivity,
			Charts: []dashboard.ChartSpec{
				{Kind: dashboard.ChartBar, Title: "Daily Workout Intensity", XKey: "workout_intensity_score"},
				{Kind: dashboard.ChartScatter, Title: "Activity vs Next-Day Readiness", XKey: "activity_score", YKey: "readiness_score", Lag: &nextDay},
				{Kind: dashboard.ChartScatter, Title: "Steps vs Sleep Score", XKey: "steps", YKey: "sleep_score"},
			},
			Findings: findingsFor(knowledge, kb.TopicActivity),
		},
		{
			ID:    "stress_recovery",
			Title: "Stress & Sleep",
			Topic: kb.TopicStress,
			Charts: []dashboard.ChartSpec{
				{Kind: dashboard.ChartScatter, Title: "Stress Load vs Sleep Score", XKey: "stress_high_minutes", YKey: "sleep_score"},
				{Kind: dashboard.ChartBar, Title: "Daily Recovery Minutes", XKey: "recovery_high_minutes"},
			},
			Findings: findingsFor(knowledge, kb.TopicStress),
		},
		{
			ID:    "circadian_rhythm",
			Title: "Circadian Rhythm",
			Topic: kb.TopicSleep,
			Charts: []dashboard.ChartSpec{
				{Kind: dashboard.ChartHistogram, Title: "Bedtime Distribution", XKey: "bedtime_clock_min", BinWidth: &bedtimeBins},
				{Kind: dashboard.ChartScatter, Title: "Bedtime vs Sleep Score", XKey: "bedtime_clock_min", YKey: "sleep_score"},
			},
			Findings: findingsFor(knowledge, kb.TopicSleep),
		},
		{
			ID:    "nightly_vitals",
			Title: "Nightly Vitals",
			Topic: kb.TopicHRV,
			Charts: []dashboard.ChartSpec{
				{Kind: dashboard.ChartScatter, Title: "HRV vs Readiness", XKey: "avg_hrv", YKey: "readiness_score"},
				{Kind: dashboard.ChartScatter, Title: "SpO2 vs Sleep Score", XKey: "spo2_avg", YKey: "sleep_score"},
				{Kind: dashboard.ChartBar, Title: "Breathing Disturbance Index", XKey: "breathing_disturbance_index"},
			},
			Findings: findingsFor(knowledge, kb.TopicHRV),
		},
	}
}

func findingsFor(knowledge ports.Knowledge, topic string) []string {
	if knowledge == nil {
		return nil
	}
	return knowledge.FindingsFor(topic)
}
