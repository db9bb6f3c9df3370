// Package analysis is the correlation/lag engine: it turns a fetched
// record bundle into the daily-row table, the full and detrended
// correlation matrices, the fixed lag analyses, and the assembled
// dashboard cards. Everything is computed fresh per call from immutable
// inputs; the engine holds no state between requests.
package analysis

import (
	"ringlab/domain/dashboard"
	"ringlab/domain/health"
	"ringlab/internal/rows"
	"ringlab/ports"
)

// BuildDashboards runs the full analysis for one request: row build, both
// matrices, the four fixed lag analyses, and card assembly. Empty bundles
// produce a valid, sparse result rather than an error.
func BuildDashboards(b *health.Bundle, cfg health.AnalysisConfig, knowledge ports.Knowledge) dashboard.DashboardsResult {
	cfg = cfg.Normalize()
	built := rows.Build(b)
	metrics := Metrics()

	summary := dashboard.Summary{
		Start:           b.Start,
		End:             b.End,
		Days:            len(built.Rows),
		SocialJetlagMin: built.SocialJetlagMin,
		Method:          cfg.Method,
		MaxLagDays:      cfg.MaxLagDays,
	}
	if summary.Start.IsZero() && len(built.Rows) > 0 {
		summary.Start = built.Rows[0].Day
	}
	if summary.End.IsZero() && len(built.Rows) > 0 {
		summary.End = built.Rows[len(built.Rows)-1].Day
	}

	return dashboard.DashboardsResult{
		Summary:         summary,
		Rows:            built.Rows,
		Matrix:          BuildMatrix(built.Rows, metrics, cfg.Method),
		DetrendedMatrix: BuildDetrendedMatrix(built.Rows, metrics, cfg.Method, cfg.DetrendWindowDays),
		Lags:            ComputeLags(built.Rows, cfg.Method, cfg.MaxLagDays),
		Cards:           BuildCards(knowledge),
	}
}
