package mcp

import (
	"context"
	"encoding/json"

	"ringlab/domain/core"
	"ringlab/domain/dashboard"
	"ringlab/domain/health"
	"ringlab/domain/insight"
	"ringlab/internal/errors"
	"ringlab/ports"
)

// Service is the application surface the tools call into.
type Service interface {
	Records() ports.RecordSource
	Defaults() health.AnalysisConfig
	Dashboards(ctx context.Context, start, end core.Day, cfg health.AnalysisConfig) (*dashboard.DashboardsResult, error)
	Insights(ctx context.Context, start, end core.Day) (*insight.HealthInsights, error)
	ExportWorkbook(ctx context.Context, start, end core.Day, cfg health.AnalysisConfig) (string, *dashboard.DashboardsResult, error)
}

// rangeFetch loads one category for a date range and reports how many
// records came back.
type rangeFetch func(ctx context.Context, start, end core.Day) (int, interface{}, error)

// NewToolRegistry builds the full ringlab tool set over svc.
func NewToolRegistry(svc Service) *Registry {
	reg := NewRegistry()
	src := svc.Records()

	reg.Register(&Tool{
		Name:        "get_personal_info",
		Description: "Get the account's personal info: age, biological sex, height, weight, email.",
		InputSchema: emptySchema(),
		Handler: func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
			return src.PersonalInfo(ctx)
		},
	})

	categories := []struct {
		name        string
		description string
		fetch       rangeFetch
	}{
		{"get_daily_sleep", "Get daily sleep records (score and contributors) for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.Sleep(ctx, start, end)
				return len(recs), recs, err
			}},
		{"get_daily_activity", "Get daily activity records (score, steps, calories, contributors) for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.Activity(ctx, start, end)
				return len(recs), recs, err
			}},
		{"get_daily_readiness", "Get daily readiness records (score, temperature deviation, contributors) for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.Readiness(ctx, start, end)
				return len(recs), recs, err
			}},
		{"get_daily_stress", "Get daily stress records (stress and recovery seconds, day summary) for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.Stress(ctx, start, end)
				return len(recs), recs, err
			}},
		{"get_daily_resilience", "Get daily resilience records (level and contributors) for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.Resilience(ctx, start, end)
				return len(recs), recs, err
			}},
		{"get_daily_spo2", "Get daily blood oxygen records (average SpO2, breathing disturbance index) for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.SpO2(ctx, start, end)
				return len(recs), recs, err
			}},
		{"get_cardiovascular_age", "Get cardiovascular age estimates for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.CardioAge(ctx, start, end)
				return len(recs), recs, err
			}},
		{"get_vo2_max", "Get VO2 max estimates for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.VO2Max(ctx, start, end)
				return len(recs), recs, err
			}},
		{"get_sleep_details", "Get per-session sleep records (stages, timing, heart rate and HRV series) for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.SleepDetails(ctx, start, end)
				return len(recs), recs, err
			}},
		{"get_workouts", "Get workout sessions (activity, intensity, timing) for a date range.",
			func(ctx context.Context, start, end core.Day) (int, interface{}, error) {
				recs, err := src.Workouts(ctx, start, end)
				return len(recs), recs, err
			}},
	}
	for _, c := range categories {
		reg.Register(&Tool{
			Name:        c.name,
			Description: c.description,
			InputSchema: rangeSchema(),
			Handler:     rangeHandler(c.fetch),
		})
	}

	reg.Register(&Tool{
		Name: "build_dashboards",
		Description: "Run the full correlation analysis for a date range: daily rows, raw and detrended " +
			"correlation matrices, lag analyses, and chart-ready dashboard cards. " +
			"Optional method and max_lag_days override the configured defaults.",
		InputSchema: analysisSchema(),
		Handler: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			start, end, cfg, err := parseAnalysis(raw, svc.Defaults())
			if err != nil {
				return nil, err
			}
			return svc.Dashboards(ctx, start, end, cfg)
		},
	})

	reg.Register(&Tool{
		Name: "analyze_health_data",
		Description: "Summarize a date range: per-category averages, trend direction, consistency, " +
			"cross-metric correlations, and prioritized recommendations.",
		InputSchema: rangeSchema(),
		Handler: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			start, end, err := parseRange(raw)
			if err != nil {
				return nil, err
			}
			return svc.Insights(ctx, start, end)
		},
	})

	reg.Register(&Tool{
		Name: "export_report",
		Description: "Run the analysis for a date range and write it to an xlsx workbook in the export " +
			"directory. Returns the file path and the run summary.",
		InputSchema: analysisSchema(),
		Handler: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			start, end, cfg, err := parseAnalysis(raw, svc.Defaults())
			if err != nil {
				return nil, err
			}
			path, result, err := svc.ExportWorkbook(ctx, start, end, cfg)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"path":    path,
				"summary": result.Summary,
			}, nil
		},
	})

	return reg
}

func rangeHandler(fetch rangeFetch) Handler {
	return func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		start, end, err := parseRange(raw)
		if err != nil {
			return nil, err
		}
		count, data, err := fetch(ctx, start, end)
		if err != nil {
			return nil, err
		}
		return listResult(count, data), nil
	}
}

// listResult wraps a category fetch so empty results render as [] rather
// than null.
func listResult(count int, data interface{}) map[string]interface{} {
	if count == 0 {
		data = []struct{}{}
	}
	return map[string]interface{}{"count": count, "data": data}
}

type rangeArgs struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type analysisArgs struct {
	rangeArgs
	Method     *string `json:"method"`
	MaxLagDays *int    `json:"max_lag_days"`
}

func parseRange(raw json.RawMessage) (core.Day, core.Day, error) {
	var args rangeArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", "", errors.InvalidInput("arguments must be a JSON object: " + err.Error())
		}
	}
	return parseRangeDates(args.StartDate, args.EndDate)
}

func parseRangeDates(startDate, endDate string) (core.Day, core.Day, error) {
	start, err := core.ParseDay(startDate)
	if err != nil {
		return "", "", errors.InvalidInput("start_date must be YYYY-MM-DD")
	}
	end, err := core.ParseDay(endDate)
	if err != nil {
		return "", "", errors.InvalidInput("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return "", "", errors.InvalidInput("end_date is before start_date")
	}
	return start, end, nil
}

func parseAnalysis(raw json.RawMessage, defaults health.AnalysisConfig) (core.Day, core.Day, health.AnalysisConfig, error) {
	var args analysisArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", "", defaults, errors.InvalidInput("arguments must be a JSON object: " + err.Error())
		}
	}
	start, end, err := parseRangeDates(args.StartDate, args.EndDate)
	if err != nil {
		return "", "", defaults, err
	}

	cfg := defaults
	if args.Method != nil {
		if *args.Method != health.MethodSpearman && *args.Method != health.MethodPearson {
			return "", "", cfg, errors.InvalidInput("method must be spearman or pearson")
		}
		cfg.Method = *args.Method
	}
	if args.MaxLagDays != nil {
		if *args.MaxLagDays < 0 {
			return "", "", cfg, errors.InvalidInput("max_lag_days must be >= 0")
		}
		cfg.MaxLagDays = *args.MaxLagDays
	}
	return start, end, cfg, nil
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func rangeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"start_date": map[string]interface{}{
				"type":        "string",
				"description": "Start of the range, YYYY-MM-DD",
			},
			"end_date": map[string]interface{}{
				"type":        "string",
				"description": "End of the range (inclusive), YYYY-MM-DD",
			},
		},
		"required": []string{"start_date", "end_date"},
	}
}

func analysisSchema() map[string]interface{} {
	schema := rangeSchema()
	props := schema["properties"].(map[string]interface{})
	props["method"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{health.MethodSpearman, health.MethodPearson},
		"description": "Correlation method override",
	}
	props["max_lag_days"] = map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"description": "Lag window override in days",
	}
	return schema
}
