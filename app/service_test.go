package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringlab/domain/core"
	"ringlab/domain/dashboard"
	"ringlab/domain/health"
	"ringlab/internal/kb"
	"ringlab/internal/metrics"
	"ringlab/ports"
)

type scriptedSource struct {
	sleep     []health.DailySleep
	readiness []health.DailyReadiness
	workouts  []health.Workout
	err       error
}

var _ ports.RecordSource = (*scriptedSource)(nil)

func (s *scriptedSource) Sleep(context.Context, core.Day, core.Day) ([]health.DailySleep, error) {
	return s.sleep, s.err
}

func (s *scriptedSource) Activity(context.Context, core.Day, core.Day) ([]health.DailyActivity, error) {
	return nil, s.err
}

func (s *scriptedSource) Readiness(context.Context, core.Day, core.Day) ([]health.DailyReadiness, error) {
	return s.readiness, s.err
}

func (s *scriptedSource) Stress(context.Context, core.Day, core.Day) ([]health.DailyStress, error) {
	return nil, s.err
}

func (s *scriptedSource) Resilience(context.Context, core.Day, core.Day) ([]health.DailyResilience, error) {
	return nil, s.err
}

func (s *scriptedSource) SpO2(context.Context, core.Day, core.Day) ([]health.DailySpO2, error) {
	return nil, s.err
}

func (s *scriptedSource) CardioAge(context.Context, core.Day, core.Day) ([]health.CardiovascularAge, error) {
	return nil, s.err
}

func (s *scriptedSource) VO2Max(context.Context, core.Day, core.Day) ([]health.VO2Max, error) {
	return nil, s.err
}

func (s *scriptedSource) SleepDetails(context.Context, core.Day, core.Day) ([]health.SleepDetail, error) {
	return nil, s.err
}

func (s *scriptedSource) Workouts(context.Context, core.Day, core.Day) ([]health.Workout, error) {
	return s.workouts, s.err
}

func (s *scriptedSource) PersonalInfo(context.Context) (*health.PersonalInfo, error) {
	return nil, s.err
}

type memArchive struct {
	saved    map[string]map[core.Day][]byte
	exports  []string
	failSave bool
}

var _ ports.RecordArchive = (*memArchive)(nil)

func newMemArchive() *memArchive {
	return &memArchive{saved: make(map[string]map[core.Day][]byte)}
}

func (a *memArchive) SaveRecords(_ context.Context, category string, day core.Day, payload []byte) error {
	if a.failSave {
		return fmt.Errorf("disk full")
	}
	if a.saved[category] == nil {
		a.saved[category] = make(map[core.Day][]byte)
	}
	a.saved[category][day] = payload
	return nil
}

func (a *memArchive) SaveExport(_ context.Context, _ core.ExportID, path string, _, _ core.Day) error {
	a.exports = append(a.exports, path)
	return nil
}

func (a *memArchive) CountByCategory(context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for category, days := range a.saved {
		counts[category] = len(days)
	}
	return counts, nil
}

func (a *memArchive) Close() error { return nil }

type fakeWriter struct {
	path       string
	gotDetails int
	err        error
}

func (w *fakeWriter) WriteWorkbook(_ core.ExportID, _ *dashboard.DashboardsResult, details []health.SleepDetail) (string, error) {
	w.gotDetails = len(details)
	if w.err != nil {
		return "", w.err
	}
	return w.path, nil
}

func fp(v float64) *float64 { return &v }

func weekSource() *scriptedSource {
	src := &scriptedSource{}
	for i := 0; i < 7; i++ {
		day := core.Day("2024-04-01").AddDays(i)
		src.sleep = append(src.sleep, health.DailySleep{Day: day, Score: fp(70 + float64(i))})
		src.readiness = append(src.readiness, health.DailyReadiness{Day: day, Score: fp(80 - float64(i))})
	}
	src.workouts = []health.Workout{
		{ID: "w1", Day: core.Day("2024-04-02"), Activity: "running", Intensity: "hard"},
		{ID: "w2", Day: core.Day("2024-04-02"), Activity: "walking", Intensity: "easy"},
	}
	return src
}

func newTestService(src ports.RecordSource, archive ports.RecordArchive, writer WorkbookWriter) *AnalysisService {
	return NewAnalysisService(src, archive, kb.NewStatic(), writer, health.AnalysisConfig{}, metrics.NewRegistry())
}

func TestFetchBundleCollectsAllCategories(t *testing.T) {
	svc := newTestService(weekSource(), nil, &fakeWriter{})

	b, err := svc.FetchBundle(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"))
	require.NoError(t, err)
	assert.Equal(t, core.Day("2024-04-01"), b.Start)
	assert.Equal(t, core.Day("2024-04-07"), b.End)
	assert.Len(t, b.Sleep, 7)
	assert.Len(t, b.Readiness, 7)
	assert.Len(t, b.Workouts, 2)
	assert.Empty(t, b.Stress)
}

func TestFetchBundleSurfacesSourceError(t *testing.T) {
	src := &scriptedSource{err: fmt.Errorf("token rejected")}
	svc := newTestService(src, nil, &fakeWriter{})

	_, err := svc.FetchBundle(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token rejected")
}

func TestFetchBundleArchivesByDay(t *testing.T) {
	archive := newMemArchive()
	svc := newTestService(weekSource(), archive, &fakeWriter{})

	_, err := svc.FetchBundle(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"))
	require.NoError(t, err)

	require.Len(t, archive.saved["daily_sleep"], 7)
	require.Len(t, archive.saved["workout"], 1)

	var workoutRows []health.Workout
	require.NoError(t, json.Unmarshal(archive.saved["workout"][core.Day("2024-04-02")], &workoutRows))
	require.Len(t, workoutRows, 2)
	assert.Equal(t, "running", workoutRows[0].Activity)

	var sleepRows []health.DailySleep
	require.NoError(t, json.Unmarshal(archive.saved["daily_sleep"][core.Day("2024-04-03")], &sleepRows))
	require.Len(t, sleepRows, 1)
	assert.Equal(t, core.Day("2024-04-03"), sleepRows[0].Day)

	_, ok := archive.saved["daily_stress"]
	assert.False(t, ok, "empty categories write nothing")
}

func TestArchiveFailureDoesNotFailFetch(t *testing.T) {
	archive := newMemArchive()
	archive.failSave = true
	svc := newTestService(weekSource(), archive, &fakeWriter{})

	b, err := svc.FetchBundle(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"))
	require.NoError(t, err)
	assert.Len(t, b.Sleep, 7)
}

func TestDashboardsRunsEngine(t *testing.T) {
	svc := newTestService(weekSource(), nil, &fakeWriter{})

	cfg := svc.Defaults()
	result, err := svc.Dashboards(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 7, result.Summary.Days)
	assert.Equal(t, health.MethodSpearman, result.Summary.Method)
	assert.Len(t, result.Rows, 7)
}

func TestDefaultsAreNormalized(t *testing.T) {
	svc := newTestService(weekSource(), nil, &fakeWriter{})

	cfg := svc.Defaults()
	assert.Equal(t, health.MethodSpearman, cfg.Method)
	assert.Equal(t, health.DefaultMaxLagDays, cfg.MaxLagDays)
	assert.Equal(t, health.DefaultDetrendWindowDays, cfg.DetrendWindowDays)
}

func TestInsightsRunsSummarizer(t *testing.T) {
	svc := newTestService(weekSource(), nil, &fakeWriter{})

	ins, err := svc.Insights(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"))
	require.NoError(t, err)
	assert.Equal(t, 7, ins.Days)
	require.NotNil(t, ins.Sleep)
	assert.Equal(t, 73.0, ins.Sleep.Average)
}

func TestReportRendersMarkdown(t *testing.T) {
	svc := newTestService(weekSource(), nil, &fakeWriter{})

	md, err := svc.Report(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Ring Health Report"))
	assert.Contains(t, md, "**Analysis Period:** 2024-04-01 to 2024-04-07")
	assert.Contains(t, md, "## Sleep")
}

func TestExportWorkbookWritesAndLogs(t *testing.T) {
	archive := newMemArchive()
	writer := &fakeWriter{path: "/exports/ring_analysis_2024-04-01_2024-04-07_abc123.xlsx"}
	svc := newTestService(weekSource(), archive, writer)

	path, result, err := svc.ExportWorkbook(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"), svc.Defaults())
	require.NoError(t, err)
	assert.Equal(t, writer.path, path)
	assert.Equal(t, 7, result.Summary.Days)
	assert.Equal(t, []string{writer.path}, archive.exports)
}

func TestExportWorkbookSurfacesWriterError(t *testing.T) {
	writer := &fakeWriter{err: fmt.Errorf("no space left")}
	svc := newTestService(weekSource(), nil, writer)

	_, _, err := svc.ExportWorkbook(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"), svc.Defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no space left")
}

func TestArchiveCounts(t *testing.T) {
	archive := newMemArchive()
	svc := newTestService(weekSource(), archive, &fakeWriter{})

	_, err := svc.FetchBundle(context.Background(), core.Day("2024-04-01"), core.Day("2024-04-07"))
	require.NoError(t, err)

	counts, err := svc.ArchiveCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, counts["daily_sleep"])
	assert.Equal(t, 1, counts["workout"])

	bare := newTestService(weekSource(), nil, &fakeWriter{})
	counts, err = bare.ArchiveCounts(context.Background())
	require.NoError(t, err)
	assert.Nil(t, counts)
}
