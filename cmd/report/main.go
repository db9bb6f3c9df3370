package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"ringlab/adapters/excel"
	"ringlab/adapters/ouraapi"
	"ringlab/app"
	"ringlab/domain/core"
	"ringlab/domain/health"
	"ringlab/internal/config"
	"ringlab/internal/errors"
	"ringlab/internal/kb"
	"ringlab/internal/logging"
	"ringlab/internal/metrics"
	"ringlab/internal/report"
)

// One-shot export: fetch a range from the ring API, write the analysis
// workbook and an HTML report next to it.
func main() {
	startFlag := flag.String("start", "", "start day YYYY-MM-DD (default 30 days ago)")
	endFlag := flag.String("end", "", "end day YYYY-MM-DD (default today)")
	methodFlag := flag.String("method", "", "correlation method override (spearman or pearson)")
	maxLagFlag := flag.Int("max-lag", -1, "max lag in days override")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.Log)

	start, end, err := resolveRange(*startFlag, *endFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid range")
	}

	analysisCfg := cfg.AnalysisDefaults()
	if *methodFlag != "" {
		if *methodFlag != health.MethodSpearman && *methodFlag != health.MethodPearson {
			log.Fatal().Str("method", *methodFlag).Msg("method must be spearman or pearson")
		}
		analysisCfg.Method = *methodFlag
	}
	if *maxLagFlag >= 0 {
		analysisCfg.MaxLagDays = *maxLagFlag
	}

	m := metrics.NewRegistry()
	service := app.NewAnalysisService(ouraapi.New(cfg.Oura, m), nil, kb.NewStatic(),
		excel.NewWriter(cfg.Export), cfg.AnalysisDefaults(), m)

	ctx := context.Background()
	workbookPath, result, err := service.ExportWorkbook(ctx, start, end, analysisCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("workbook export failed")
	}

	md, err := service.Report(ctx, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("report generation failed")
	}
	htmlPath := strings.TrimSuffix(workbookPath, ".xlsx") + ".html"
	if err := os.WriteFile(htmlPath, report.HTML(md), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", htmlPath).Msg("failed to write report")
	}

	log.Info().
		Str("workbook", workbookPath).
		Str("report", htmlPath).
		Int("days", result.Summary.Days).
		Msg("export complete")
}

func resolveRange(startFlag, endFlag string) (core.Day, core.Day, error) {
	end := core.Day(time.Now().UTC().Format("2006-01-02"))
	if endFlag != "" {
		var err error
		if end, err = core.ParseDay(endFlag); err != nil {
			return "", "", err
		}
	}
	start := end.AddDays(-29)
	if startFlag != "" {
		var err error
		if start, err = core.ParseDay(startFlag); err != nil {
			return "", "", err
		}
	}
	if end.Before(start) {
		return "", "", errors.InvalidInput("end day is before start day")
	}
	return start, end, nil
}
