// Package excel exports analysis results to xlsx workbooks: a run summary,
// the daily-row table, both correlation matrices with their pair counts,
// the lag analyses, and the decoded sleep-phase series.
package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"ringlab/domain/core"
	"ringlab/domain/dashboard"
	"ringlab/domain/health"
	"ringlab/internal/analysis"
	"ringlab/internal/config"
	"ringlab/internal/errors"
	"ringlab/internal/series"
)

// Sheet names in workbook order.
const (
	sheetSummary     = "Summary"
	sheetDailyRows   = "Daily Rows"
	sheetMatrix      = "Correlations"
	sheetCounts      = "Pair Counts"
	sheetDetrended   = "Detrended"
	sheetLags        = "Lag Analyses"
	sheetSleepPhases = "Sleep Phases"
)

// Writer exports workbooks into a fixed directory
type Writer struct {
	dir string
}

// NewWriter creates a workbook writer
func NewWriter(cfg config.ExportConfig) *Writer {
	return &Writer{dir: cfg.Dir}
}

// WriteWorkbook writes one analysis result to disk and returns the path.
// Sleep details feed the decoded phase sheet; pass nil to skip it.
func (w *Writer) WriteWorkbook(id core.ExportID, result *dashboard.DashboardsResult, details []health.SleepDetail) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create export directory")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummary(f, &result.Summary); err != nil {
		return "", errors.Wrap(err, "write summary sheet")
	}
	if err := writeDailyRows(f, result); err != nil {
		return "", errors.Wrap(err, "write daily rows sheet")
	}
	if err := writeMatrix(f, sheetMatrix, &result.Matrix, false); err != nil {
		return "", errors.Wrap(err, "write correlations sheet")
	}
	if err := writeMatrix(f, sheetCounts, &result.Matrix, true); err != nil {
		return "", errors.Wrap(err, "write pair counts sheet")
	}
	if err := writeMatrix(f, sheetDetrended, &result.DetrendedMatrix, false); err != nil {
		return "", errors.Wrap(err, "write detrended sheet")
	}
	if err := writeLags(f, result.Lags); err != nil {
		return "", errors.Wrap(err, "write lag analyses sheet")
	}
	if err := writeSleepPhases(f, details); err != nil {
		return "", errors.Wrap(err, "write sleep phases sheet")
	}
	if err := boldHeaders(f, result); err != nil {
		return "", errors.Wrap(err, "style header rows")
	}

	name := fmt.Sprintf("ring_analysis_%s_%s_%s.xlsx", result.Summary.Start, result.Summary.End, shortID(id))
	path := filepath.Join(w.dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", errors.Wrap(err, "save workbook")
	}
	return path, nil
}

// writeSummary renames the default sheet and fills the run parameters as
// label/value pairs.
func writeSummary(f *excelize.File, s *dashboard.Summary) error {
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}

	labels := []string{"Start", "End", "Days", "Method", "Max Lag Days", "Social Jetlag (min)"}
	for i, label := range labels {
		if err := setCell(f, sheetSummary, 1, i+1, label); err != nil {
			return err
		}
	}
	if err := setCell(f, sheetSummary, 2, 1, s.Start.String()); err != nil {
		return err
	}
	if err := setCell(f, sheetSummary, 2, 2, s.End.String()); err != nil {
		return err
	}
	if err := setCell(f, sheetSummary, 2, 3, s.Days); err != nil {
		return err
	}
	if err := setCell(f, sheetSummary, 2, 4, s.Method); err != nil {
		return err
	}
	if err := setCell(f, sheetSummary, 2, 5, s.MaxLagDays); err != nil {
		return err
	}
	if s.SocialJetlagMin != nil {
		if err := setCell(f, sheetSummary, 2, 6, *s.SocialJetlagMin); err != nil {
			return err
		}
	}
	return nil
}

// writeDailyRows fills the row table: one line per day, one column per
// matrix metric.
func writeDailyRows(f *excelize.File, result *dashboard.DashboardsResult) error {
	if _, err := f.NewSheet(sheetDailyRows); err != nil {
		return err
	}

	metrics := analysis.Metrics()
	if err := setCell(f, sheetDailyRows, 1, 1, "Day"); err != nil {
		return err
	}
	for i, m := range metrics {
		if err := setCell(f, sheetDailyRows, i+2, 1, m.Label); err != nil {
			return err
		}
	}

	for r := range result.Rows {
		rowIdx := r + 2
		if err := setCell(f, sheetDailyRows, 1, rowIdx, result.Rows[r].Day.String()); err != nil {
			return err
		}
		for c, m := range metrics {
			v := m.Extract(&result.Rows[r])
			if v == nil {
				continue
			}
			if err := setCell(f, sheetDailyRows, c+2, rowIdx, *v); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeMatrix fills one square sheet: keys across the top and down the
// side, coefficients (or pair counts) in the body. Nil coefficients leave
// the cell empty.
func writeMatrix(f *excelize.File, sheet string, m *dashboard.CorrelationMatrix, counts bool) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for i, key := range m.Keys {
		if err := setCell(f, sheet, i+2, 1, key); err != nil {
			return err
		}
		if err := setCell(f, sheet, 1, i+2, key); err != nil {
			return err
		}
	}

	for i := range m.Keys {
		for j := range m.Keys {
			if counts {
				if err := setCell(f, sheet, j+2, i+2, m.Counts[i][j]); err != nil {
					return err
				}
				continue
			}
			if m.Values[i][j] == nil {
				continue
			}
			if err := setCell(f, sheet, j+2, i+2, *m.Values[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeLags fills a flat table: one line per lag entry, the best offset
// marked in its own column.
func writeLags(f *excelize.File, lags []dashboard.LagAnalysis) error {
	if _, err := f.NewSheet(sheetLags); err != nil {
		return err
	}

	headers := []string{"Analysis", "Method", "Lag", "R", "Pairs", "Best"}
	for i, h := range headers {
		if err := setCell(f, sheetLags, i+1, 1, h); err != nil {
			return err
		}
	}

	rowIdx := 2
	for _, lag := range lags {
		for _, entry := range lag.Entries {
			if err := setCell(f, sheetLags, 1, rowIdx, lag.Name); err != nil {
				return err
			}
			if err := setCell(f, sheetLags, 2, rowIdx, lag.Method); err != nil {
				return err
			}
			if err := setCell(f, sheetLags, 3, rowIdx, entry.Lag); err != nil {
				return err
			}
			if entry.R != nil {
				if err := setCell(f, sheetLags, 4, rowIdx, *entry.R); err != nil {
					return err
				}
			}
			if err := setCell(f, sheetLags, 5, rowIdx, entry.N); err != nil {
				return err
			}
			if lag.BestLag != nil && *lag.BestLag == entry.Lag {
				if err := setCell(f, sheetLags, 6, rowIdx, "yes"); err != nil {
					return err
				}
			}
			rowIdx++
		}
	}
	return nil
}

// writeSleepPhases decodes each night's compact stage string into labeled
// five-minute points.
func writeSleepPhases(f *excelize.File, details []health.SleepDetail) error {
	if _, err := f.NewSheet(sheetSleepPhases); err != nil {
		return err
	}

	headers := []string{"Day", "Timestamp", "Code", "Stage"}
	for i, h := range headers {
		if err := setCell(f, sheetSleepPhases, i+1, 1, h); err != nil {
			return err
		}
	}

	rowIdx := 2
	for _, detail := range details {
		points := series.ExpandDiscrete(detail.SleepPhase5Min, detail.BedtimeStart, 300, series.SleepStageLabels)
		for _, p := range points {
			if err := setCell(f, sheetSleepPhases, 1, rowIdx, detail.Day.String()); err != nil {
				return err
			}
			if err := setCell(f, sheetSleepPhases, 2, rowIdx, p.Timestamp); err != nil {
				return err
			}
			if err := setCell(f, sheetSleepPhases, 3, rowIdx, p.Code); err != nil {
				return err
			}
			if err := setCell(f, sheetSleepPhases, 4, rowIdx, p.Label); err != nil {
				return err
			}
			rowIdx++
		}
	}
	return nil
}

// boldHeaders applies a bold font to the header row of every table sheet
// and the label column of the summary sheet.
func boldHeaders(f *excelize.File, result *dashboard.DashboardsResult) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	spans := []struct {
		sheet string
		cols  int
	}{
		{sheetDailyRows, len(analysis.Metrics()) + 1},
		{sheetMatrix, len(result.Matrix.Keys) + 1},
		{sheetCounts, len(result.Matrix.Keys) + 1},
		{sheetDetrended, len(result.DetrendedMatrix.Keys) + 1},
		{sheetLags, 6},
		{sheetSleepPhases, 4},
	}
	for _, span := range spans {
		end, err := excelize.CoordinatesToCellName(span.cols, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(span.sheet, "A1", end, style); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheetSummary, "A1", "A6", style)
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func shortID(id core.ExportID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
