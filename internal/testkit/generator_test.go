package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringlab/domain/core"
	"ringlab/domain/dashboard"
	"ringlab/domain/health"
	"ringlab/internal/analysis"
	"ringlab/internal/kb"
)

func TestGenerateBundleDeterministic(t *testing.T) {
	cfg := DefaultConfig()

	first := NewGenerator(cfg).GenerateBundle()
	second := NewGenerator(cfg).GenerateBundle()

	require.Equal(t, first, second)
}

func TestGenerateBundleCoversConfiguredRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingRate = 0

	b := NewGenerator(cfg).GenerateBundle()

	assert.Equal(t, core.Day("2024-01-01"), b.Start)
	assert.Equal(t, core.Day("2024-01-30"), b.End)
	assert.Len(t, b.Sleep, cfg.Days)
	assert.Len(t, b.Activity, cfg.Days)
	assert.Len(t, b.Readiness, cfg.Days)
	assert.Len(t, b.Stress, cfg.Days)
	assert.Len(t, b.Resilience, cfg.Days)
	assert.Len(t, b.SpO2, cfg.Days)
	assert.Len(t, b.CardioAge, cfg.Days)
	assert.Len(t, b.VO2Max, cfg.Days)
	assert.Len(t, b.SleepDetails, cfg.Days)
	assert.LessOrEqual(t, len(b.Workouts), cfg.Days)

	for _, r := range b.Sleep {
		assert.False(t, r.Day.Before(b.Start))
		assert.False(t, b.End.Before(r.Day))
		require.NotNil(t, r.Score)
	}
}

func TestGenerateBundleDropsDaysWhenMissing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingRate = 0.5

	b := NewGenerator(cfg).GenerateBundle()

	assert.Less(t, len(b.Sleep), cfg.Days)
	assert.NotEmpty(t, b.Sleep)
}

func TestSleepDetailShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingRate = 0

	b := NewGenerator(cfg).GenerateBundle()
	require.NotEmpty(t, b.SleepDetails)

	for _, d := range b.SleepDetails[:3] {
		start, err := time.Parse(time.RFC3339, d.BedtimeStart)
		require.NoError(t, err)
		end, err := time.Parse(time.RFC3339, d.BedtimeEnd)
		require.NoError(t, err)
		assert.True(t, end.After(start))

		inBed := int(*d.TimeInBed)
		assert.Equal(t, inBed/300, len(d.SleepPhase5Min))
		assert.Equal(t, inBed/30, len(d.Movement30Sec))
		require.NotNil(t, d.HeartRate)
		assert.Equal(t, inBed/300, len(d.HeartRate.Items))
		assert.Equal(t, float64(300), d.HeartRate.Interval)

		total := int(*d.TotalSleepDuration)
		assert.Equal(t, inBed, total+int(*d.AwakeTime))
		assert.Equal(t, total,
			int(*d.DeepSleepDuration)+int(*d.LightSleepDuration)+int(*d.RemSleepDuration))
		assert.InDelta(t, 100*float64(total)/float64(inBed), *d.Efficiency, 1e-9)
	}
}

func TestStressSummaryMatchesMinutes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingRate = 0

	b := NewGenerator(cfg).GenerateBundle()
	require.NotEmpty(t, b.Stress)

	for _, r := range b.Stress {
		require.NotNil(t, r.DaySummary)
		high, recovery := *r.StressHigh, *r.RecoveryHigh
		switch *r.DaySummary {
		case health.StressDayStressful:
			assert.Greater(t, high, recovery+1800)
		case health.StressDayRestored:
			assert.Greater(t, recovery, high+1800)
		default:
			assert.Equal(t, health.StressDayNormal, *r.DaySummary)
		}
	}
}

func TestPlantedLeadIsRecovered(t *testing.T) {
	cfg := GeneratorConfig{
		Start:        core.Day("2024-03-01"),
		Days:         20,
		Seed:         7,
		ActivityLead: 1,
		LeadStrength: 0.8,
		Noise:        0,
		MissingRate:  0,
	}
	b := NewGenerator(cfg).GenerateBundle()

	result := analysis.BuildDashboards(b, health.AnalysisConfig{
		Method:            health.MethodSpearman,
		MaxLagDays:        3,
		DetrendWindowDays: 7,
	}, kb.NewStatic())

	assert.Equal(t, cfg.Days, result.Summary.Days)

	lag := findLag(t, result.Lags, "activity_to_readiness")
	require.NotNil(t, lag.BestLag)
	require.NotNil(t, lag.BestR)
	assert.Equal(t, cfg.ActivityLead, *lag.BestLag)
	assert.InDelta(t, 1.0, *lag.BestR, 1e-9)
}

func TestStaticSourceFiltersRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingRate = 0
	src := NewStaticSource(NewGenerator(cfg).GenerateBundle())
	ctx := context.Background()

	start := cfg.Start.AddDays(5)
	end := cfg.Start.AddDays(9)

	sleep, err := src.Sleep(ctx, start, end)
	require.NoError(t, err)
	assert.Len(t, sleep, 5)
	for _, r := range sleep {
		assert.False(t, r.Day.Before(start))
		assert.False(t, end.Before(r.Day))
	}

	readiness, err := src.Readiness(ctx, start, start)
	require.NoError(t, err)
	assert.Len(t, readiness, 1)

	info, err := src.PersonalInfo(ctx)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "user_test", info.ID)
}

func TestStaticSourceErr(t *testing.T) {
	src := NewStaticSource(NewGenerator(DefaultConfig()).GenerateBundle())
	src.Err = assert.AnError

	_, err := src.Activity(context.Background(), core.Day("2024-01-01"), core.Day("2024-01-05"))
	assert.ErrorIs(t, err, assert.AnError)

	_, err = src.PersonalInfo(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func findLag(t *testing.T, lags []dashboard.LagAnalysis, name string) dashboard.LagAnalysis {
	t.Helper()
	for _, l := range lags {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("lag analysis %q not found", name)
	return dashboard.LagAnalysis{}
}
