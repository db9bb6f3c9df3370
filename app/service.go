// Package app wires the analysis core to its adapters: one service that
// fetches record ranges, runs the engines, archives payloads when an
// archive is configured, and writes workbook exports.
package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ringlab/domain/core"
	"ringlab/domain/dashboard"
	"ringlab/domain/health"
	"ringlab/domain/insight"
	"ringlab/internal/analysis"
	"ringlab/internal/insights"
	"ringlab/internal/metrics"
	"ringlab/internal/report"
	"ringlab/ports"
)

// WorkbookWriter writes one analysis result to a workbook on disk and
// returns the file path.
type WorkbookWriter interface {
	WriteWorkbook(id core.ExportID, result *dashboard.DashboardsResult, details []health.SleepDetail) (string, error)
}

// AnalysisService is the orchestration hub behind every tool and endpoint.
type AnalysisService struct {
	source    ports.RecordSource
	archive   ports.RecordArchive // nil when archiving is disabled
	knowledge ports.Knowledge
	writer    WorkbookWriter
	defaults  health.AnalysisConfig
	metrics   *metrics.Registry
	log       zerolog.Logger
}

// NewAnalysisService creates the service. archive may be nil.
func NewAnalysisService(
	source ports.RecordSource,
	archive ports.RecordArchive,
	knowledge ports.Knowledge,
	writer WorkbookWriter,
	defaults health.AnalysisConfig,
	m *metrics.Registry,
) *AnalysisService {
	return &AnalysisService{
		source:    source,
		archive:   archive,
		knowledge: knowledge,
		writer:    writer,
		defaults:  defaults.Normalize(),
		metrics:   m,
		log:       log.With().Str("component", "analysis_service").Logger(),
	}
}

// Records exposes the raw per-category fetchers for the passthrough tools.
func (s *AnalysisService) Records() ports.RecordSource { return s.source }

// Defaults returns the configured analysis defaults.
func (s *AnalysisService) Defaults() health.AnalysisConfig { return s.defaults }

// FetchBundle loads every record category for the range concurrently and
// archives the payloads. Each goroutine writes its own bundle field, so no
// locking is needed; the first fetch error cancels the rest.
func (s *AnalysisService) FetchBundle(ctx context.Context, start, end core.Day) (*health.Bundle, error) {
	b := &health.Bundle{Start: start, End: end}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		b.Sleep, err = s.source.Sleep(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		b.Activity, err = s.source.Activity(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		b.Readiness, err = s.source.Readiness(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		b.Stress, err = s.source.Stress(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		b.Resilience, err = s.source.Resilience(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		b.SpO2, err = s.source.SpO2(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		b.CardioAge, err = s.source.CardioAge(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		b.VO2Max, err = s.source.VO2Max(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		b.SleepDetails, err = s.source.SleepDetails(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		b.Workouts, err = s.source.Workouts(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.archiveBundle(ctx, b)
	return b, nil
}

// Dashboards fetches the range and runs the full correlation engine.
func (s *AnalysisService) Dashboards(ctx context.Context, start, end core.Day, cfg health.AnalysisConfig) (*dashboard.DashboardsResult, error) {
	b, err := s.FetchBundle(ctx, start, end)
	if err != nil {
		return nil, err
	}
	result := analysis.BuildDashboards(b, cfg, s.knowledge)
	s.metrics.AnalysisDays.Observe(float64(result.Summary.Days))
	return &result, nil
}

// Insights fetches the range and runs the trend summarizer.
func (s *AnalysisService) Insights(ctx context.Context, start, end core.Day) (*insight.HealthInsights, error) {
	b, err := s.FetchBundle(ctx, start, end)
	if err != nil {
		return nil, err
	}
	ins := insights.Analyze(b, s.knowledge)
	return &ins, nil
}

// Report renders the trend summary for the range as markdown.
func (s *AnalysisService) Report(ctx context.Context, start, end core.Day) (string, error) {
	ins, err := s.Insights(ctx, start, end)
	if err != nil {
		return "", err
	}
	return report.Markdown(ins, start, end), nil
}

// ExportWorkbook runs the correlation engine and writes the result to an
// xlsx workbook. The export is logged to the archive when one is
// configured.
func (s *AnalysisService) ExportWorkbook(ctx context.Context, start, end core.Day, cfg health.AnalysisConfig) (string, *dashboard.DashboardsResult, error) {
	b, err := s.FetchBundle(ctx, start, end)
	if err != nil {
		return "", nil, err
	}
	result := analysis.BuildDashboards(b, cfg, s.knowledge)
	s.metrics.AnalysisDays.Observe(float64(result.Summary.Days))

	id := core.NewExportID()
	path, err := s.writer.WriteWorkbook(id, &result, b.SleepDetails)
	if err != nil {
		return "", nil, err
	}

	if s.archive != nil {
		if err := s.archive.SaveExport(ctx, id, path, start, end); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("export log write failed")
		}
	}
	s.log.Info().Str("path", path).Int("days", result.Summary.Days).Msg("workbook written")
	return path, &result, nil
}

// ArchiveCounts reports stored payload counts per category, or nil when
// archiving is disabled.
func (s *AnalysisService) ArchiveCounts(ctx context.Context) (map[string]int, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.CountByCategory(ctx)
}

// archiveBundle persists each category's records grouped by day. Failures
// are logged and counted, never returned: archiving must not fail an
// analysis request.
func (s *AnalysisService) archiveBundle(ctx context.Context, b *health.Bundle) {
	if s.archive == nil {
		return
	}
	s.saveCategory(ctx, "daily_sleep", b.Sleep)
	s.saveCategory(ctx, "daily_activity", b.Activity)
	s.saveCategory(ctx, "daily_readiness", b.Readiness)
	s.saveCategory(ctx, "daily_stress", b.Stress)
	s.saveCategory(ctx, "daily_resilience", b.Resilience)
	s.saveCategory(ctx, "daily_spo2", b.SpO2)
	s.saveCategory(ctx, "cardiovascular_age", b.CardioAge)
	s.saveCategory(ctx, "vo2_max", b.VO2Max)
	s.saveCategory(ctx, "sleep", b.SleepDetails)
	s.saveCategory(ctx, "workout", b.Workouts)
}

// saveCategory groups the category's wire form by day and upserts one
// payload row per (category, day). Every record type carries a "day" key.
func (s *AnalysisService) saveCategory(ctx context.Context, category string, records interface{}) {
	raw, err := json.Marshal(records)
	if err != nil {
		s.log.Warn().Err(err).Str("category", category).Msg("archive encode failed")
		return
	}

	var days []struct {
		Day core.Day `json:"day"`
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &days); err != nil {
		return
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return
	}

	byDay := make(map[core.Day][]json.RawMessage)
	for i, d := range days {
		if d.Day.IsZero() {
			continue
		}
		byDay[d.Day] = append(byDay[d.Day], rows[i])
	}

	for day, recs := range byDay {
		payload, err := json.Marshal(recs)
		if err != nil {
			continue
		}
		if err := s.archive.SaveRecords(ctx, category, day, payload); err != nil {
			s.metrics.ArchiveWrites.WithLabelValues(category, "error").Inc()
			s.log.Warn().Err(err).Str("category", category).Str("day", day.String()).Msg("archive write failed")
			continue
		}
		s.metrics.ArchiveWrites.WithLabelValues(category, "ok").Inc()
	}
}
