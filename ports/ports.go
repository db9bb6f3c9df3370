// Package ports defines the interfaces between the analysis core and its
// collaborators: the upstream record source, the optional archive, and the
// static knowledge base. Adapters implement these; the core only ever sees
// the interfaces.
package ports

import (
	"context"

	"ringlab/domain/core"
	"ringlab/domain/health"
)

// RecordSource fetches per-category record arrays for a date range. Every
// fetcher returns already-decoded records; an empty slice is a valid
// result. Implementations own transport concerns (auth, pagination); they
// surface hard failures as errors before any analysis starts.
type RecordSource interface {
	Sleep(ctx context.Context, start, end core.Day) ([]health.DailySleep, error)
	Activity(ctx context.Context, start, end core.Day) ([]health.DailyActivity, error)
	Readiness(ctx context.Context, start, end core.Day) ([]health.DailyReadiness, error)
	Stress(ctx context.Context, start, end core.Day) ([]health.DailyStress, error)
	Resilience(ctx context.Context, start, end core.Day) ([]health.DailyResilience, error)
	SpO2(ctx context.Context, start, end core.Day) ([]health.DailySpO2, error)
	CardioAge(ctx context.Context, start, end core.Day) ([]health.CardiovascularAge, error)
	VO2Max(ctx context.Context, start, end core.Day) ([]health.VO2Max, error)
	SleepDetails(ctx context.Context, start, end core.Day) ([]health.SleepDetail, error)
	Workouts(ctx context.Context, start, end core.Day) ([]health.Workout, error)
	PersonalInfo(ctx context.Context) (*health.PersonalInfo, error)
}

// RecordArchive persists raw category payloads after a fetch, plus a log
// of written workbooks. Archiving is best-effort: callers log failures and
// move on.
type RecordArchive interface {
	SaveRecords(ctx context.Context, category string, day core.Day, payload []byte) error
	SaveExport(ctx context.Context, id core.ExportID, path string, start, end core.Day) error
	CountByCategory(ctx context.Context) (map[string]int, error)
	Close() error
}

// Knowledge is the static citation/protocol lookup. Implementations are
// read-only tables; both methods return nil for unknown topics or keys.
type Knowledge interface {
	FindingsFor(topic string) []string
	ProtocolFor(key string) []string
}
