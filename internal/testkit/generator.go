// Package testkit generates synthetic ring data with known structure: a
// seeded bundle generator with a planted activity-to-readiness lead, and a
// record source serving a fixed bundle.
package testkit

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ringlab/domain/core"
	"ringlab/domain/health"
)

// GeneratorConfig configures the synthetic bundle generator.
type GeneratorConfig struct {
	Start        core.Day `json:"start"`
	Days         int      `json:"days"`
	Seed         int64    `json:"seed"`
	ActivityLead int      `json:"activity_lead"` // days by which activity leads readiness
	LeadStrength float64  `json:"lead_strength"` // readiness points per activity point
	Noise        float64  `json:"noise"`         // max |noise| in score points
	MissingRate  float64  `json:"missing_rate"`  // chance a category skips a day
}

// DefaultConfig returns a month of data with a one-day activity lead.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Start:        core.Day("2024-01-01"),
		Days:         30,
		Seed:         42,
		ActivityLead: 1,
		LeadStrength: 0.8,
		Noise:        2.0,
		MissingRate:  0.1,
	}
}

// Generator produces bundles with a known cross-day structure.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator. The same config yields the same bundle.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config, rng: rand.New(rand.NewSource(config.Seed))}
}

// GenerateBundle builds a full ten-category bundle. Activity on day D
// drives readiness on day D+ActivityLead; with zero noise the relation is
// strictly monotone.
func (g *Generator) GenerateBundle() *health.Bundle {
	cfg := g.config
	b := &health.Bundle{Start: cfg.Start, End: cfg.Start.AddDays(cfg.Days - 1)}

	activityScore := make([]float64, cfg.Days)
	for i := range activityScore {
		activityScore[i] = 60 + g.rng.Float64()*35
	}

	for i := 0; i < cfg.Days; i++ {
		day := cfg.Start.AddDays(i)

		var readiness float64
		if j := i - cfg.ActivityLead; j >= 0 {
			readiness = 20 + cfg.LeadStrength*activityScore[j] + g.noise()
		} else {
			readiness = 50 + g.rng.Float64()*30
		}
		sleepScore := 50 + readiness/2 + g.noise()

		if g.keep() {
			b.Activity = append(b.Activity, g.activityRecord(day, i, activityScore[i]))
		}
		if g.keep() {
			b.Readiness = append(b.Readiness, g.readinessRecord(day, i, readiness))
		}
		if g.keep() {
			b.Sleep = append(b.Sleep, g.sleepRecord(day, i, sleepScore))
		}
		if g.keep() {
			b.Stress = append(b.Stress, g.stressRecord(day, i))
		}
		if g.keep() {
			b.Resilience = append(b.Resilience, g.resilienceRecord(day, i))
		}
		if g.keep() {
			b.SpO2 = append(b.SpO2, g.spo2Record(day, i))
		}
		if g.keep() {
			b.CardioAge = append(b.CardioAge, g.cardioAgeRecord(day))
		}
		if g.keep() {
			b.VO2Max = append(b.VO2Max, g.vo2Record(day, i))
		}
		if g.keep() {
			b.SleepDetails = append(b.SleepDetails, g.sleepDetailRecord(day, i))
		}
		if g.rng.Float64() < 0.4 {
			b.Workouts = append(b.Workouts, g.workoutRecord(day, i))
		}
	}
	return b
}

func (g *Generator) noise() float64 {
	return (g.rng.Float64()*2 - 1) * g.config.Noise
}

func (g *Generator) keep() bool {
	return g.rng.Float64() >= g.config.MissingRate
}

func (g *Generator) sleepRecord(day core.Day, i int, score float64) health.DailySleep {
	return health.DailySleep{
		ID:        fmt.Sprintf("sleep_%03d", i),
		Day:       day,
		Score:     fp(score),
		Timestamp: day.String() + "T04:00:00+00:00",
	}
}

func (g *Generator) activityRecord(day core.Day, i int, score float64) health.DailyActivity {
	steps := 4000 + g.rng.Intn(9000)
	active := 200 + g.rng.Intn(500)
	total := active + 1500 + g.rng.Intn(500)
	return health.DailyActivity{
		ID:             fmt.Sprintf("activity_%03d", i),
		Day:            day,
		Score:          fp(score),
		Steps:          &steps,
		ActiveCalories: &active,
		TotalCalories:  &total,
		Timestamp:      day.String() + "T00:00:00+00:00",
	}
}

func (g *Generator) readinessRecord(day core.Day, i int, score float64) health.DailyReadiness {
	return health.DailyReadiness{
		ID:                   fmt.Sprintf("readiness_%03d", i),
		Day:                  day,
		Score:                fp(score),
		TemperatureDeviation: fp(g.rng.Float64() - 0.5),
	}
}

func (g *Generator) stressRecord(day core.Day, i int) health.DailyStress {
	high := float64(g.rng.Intn(120)) * 60
	recovery := float64(g.rng.Intn(180)) * 60
	summary := health.StressDayNormal
	switch {
	case high > recovery+1800:
		summary = health.StressDayStressful
	case recovery > high+1800:
		summary = health.StressDayRestored
	}
	return health.DailyStress{
		ID:           fmt.Sprintf("stress_%03d", i),
		Day:          day,
		StressHigh:   fp(high),
		RecoveryHigh: fp(recovery),
		DaySummary:   &summary,
	}
}

func (g *Generator) resilienceRecord(day core.Day, i int) health.DailyResilience {
	levels := []string{"limited", "adequate", "solid", "strong", "exceptional"}
	level := levels[g.rng.Intn(len(levels))]
	return health.DailyResilience{
		ID:    fmt.Sprintf("resilience_%03d", i),
		Day:   day,
		Level: &level,
		Contributors: &health.ResilienceContributors{
			SleepRecovery:   fp(50 + g.rng.Float64()*50),
			DaytimeRecovery: fp(50 + g.rng.Float64()*50),
			Stress:          fp(50 + g.rng.Float64()*50),
		},
	}
}

func (g *Generator) spo2Record(day core.Day, i int) health.DailySpO2 {
	return health.DailySpO2{
		ID:                        fmt.Sprintf("spo2_%03d", i),
		Day:                       day,
		SpO2Percentage:            &health.SpO2Percentage{Average: fp(94 + g.rng.Float64()*5)},
		BreathingDisturbanceIndex: fp(g.rng.Float64() * 10),
	}
}

func (g *Generator) cardioAgeRecord(day core.Day) health.CardiovascularAge {
	return health.CardiovascularAge{
		Day:         day,
		VascularAge: fp(30 + g.rng.Float64()*15),
	}
}

func (g *Generator) vo2Record(day core.Day, i int) health.VO2Max {
	return health.VO2Max{
		ID:        fmt.Sprintf("vo2_%03d", i),
		Day:       day,
		Timestamp: day.String() + "T08:00:00+00:00",
		VO2Max:    fp(35 + g.rng.Float64()*20),
	}
}

func (g *Generator) sleepDetailRecord(day core.Day, i int) health.SleepDetail {
	startMin := 22*60 + g.rng.Intn(180) // 22:00 through 00:59
	bedDay := day.AddDays(-1)
	if startMin >= 24*60 {
		startMin -= 24 * 60
		bedDay = day
	}
	start := bedDay.Time().Add(time.Duration(startMin) * time.Minute)

	timeInBed := 6*3600 + g.rng.Intn(3*3600)
	awake := int(float64(timeInBed) * (0.03 + g.rng.Float64()*0.05))
	total := timeInBed - awake
	deep := int(float64(total) * (0.15 + g.rng.Float64()*0.10))
	rem := int(float64(total) * (0.18 + g.rng.Float64()*0.07))
	light := total - deep - rem
	end := start.Add(time.Duration(timeInBed) * time.Second)
	restless := g.rng.Intn(8)

	var phases strings.Builder
	for p := 0; p < timeInBed/300; p++ {
		r := g.rng.Float64()
		switch {
		case r < 0.20:
			phases.WriteByte('1')
		case r < 0.65:
			phases.WriteByte('2')
		case r < 0.90:
			phases.WriteByte('3')
		default:
			phases.WriteByte('4')
		}
	}

	movement := make([]byte, timeInBed/30)
	for p := range movement {
		r := g.rng.Float64()
		switch {
		case r < 0.70:
			movement[p] = '1'
		case r < 0.90:
			movement[p] = '2'
		case r < 0.98:
			movement[p] = '3'
		default:
			movement[p] = '4'
		}
	}

	startStr := start.Format(time.RFC3339)
	return health.SleepDetail{
		ID:                 fmt.Sprintf("sleep_detail_%03d", i),
		Day:                day,
		Type:               "long_sleep",
		BedtimeStart:       startStr,
		BedtimeEnd:         end.Format(time.RFC3339),
		TotalSleepDuration: fp(float64(total)),
		TimeInBed:          fp(float64(timeInBed)),
		AwakeTime:          fp(float64(awake)),
		DeepSleepDuration:  fp(float64(deep)),
		LightSleepDuration: fp(float64(light)),
		RemSleepDuration:   fp(float64(rem)),
		Latency:            fp(float64(300 + g.rng.Intn(900))),
		Efficiency:         fp(100 * float64(total) / float64(timeInBed)),
		AverageHeartRate:   fp(54 + g.rng.Float64()*10),
		LowestHeartRate:    fp(45 + g.rng.Float64()*8),
		AverageHRV:         fp(30 + g.rng.Float64()*50),
		AverageBreath:      fp(13 + g.rng.Float64()*4),
		RestlessPeriods:    &restless,
		SleepPhase5Min:     phases.String(),
		Movement30Sec:      string(movement),
		HeartRate:          g.seriesPayload(startStr, timeInBed/300, 52, 16),
		HRV:                g.seriesPayload(startStr, timeInBed/300, 25, 70),
	}
}

func (g *Generator) seriesPayload(startStr string, count int, base, span float64) *health.SeriesPayload {
	items := make([]*float64, 0, count)
	for p := 0; p < count; p++ {
		if g.rng.Float64() < 0.05 {
			items = append(items, nil)
			continue
		}
		items = append(items, fp(base+g.rng.Float64()*span))
	}
	return &health.SeriesPayload{Interval: 300, Items: items, Timestamp: startStr}
}

func (g *Generator) workoutRecord(day core.Day, i int) health.Workout {
	activities := []string{"running", "cycling", "walking", "strength_training"}
	intensities := []string{"easy", "moderate", "hard"}
	start := day.Time().Add(time.Duration(7+g.rng.Intn(12)) * time.Hour)
	duration := time.Duration(20+g.rng.Intn(70)) * time.Minute
	return health.Workout{
		ID:            fmt.Sprintf("workout_%03d", i),
		Day:           day,
		Activity:      activities[g.rng.Intn(len(activities))],
		Intensity:     intensities[g.rng.Intn(len(intensities))],
		Source:        "confirmed",
		Calories:      fp(100 + g.rng.Float64()*500),
		StartDatetime: start.Format(time.RFC3339),
		EndDatetime:   start.Add(duration).Format(time.RFC3339),
	}
}

func fp(v float64) *float64 { return &v }
