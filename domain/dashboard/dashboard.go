// Package dashboard holds the result types produced by the correlation/lag
// engine and the card assembler. Everything here is a value object built
// fresh per request; nil coefficients mean "not computable", never zero.
package dashboard

import (
	"ringlab/domain/core"
	"ringlab/domain/health"
)

// CorrelationMatrix is a square matrix over a fixed ordered key list.
// Values[i][j] is the coefficient between keys i and j over the days where
// both metrics are present (pairwise-complete, so each cell may use a
// different day subset), or nil when fewer than 5 such days exist or a
// series has zero variance. Counts[i][j] is the number of paired
// observations behind the cell. The matrix is symmetric by construction.
type CorrelationMatrix struct {
	Method string       `json:"method"`
	Keys   []string     `json:"keys"`
	Values [][]*float64 `json:"values"`
	Counts [][]int      `json:"counts"`
}

// At returns the coefficient for a key pair, or nil when either key is
// unknown. Lookup is symmetric.
func (m *CorrelationMatrix) At(xKey, yKey string) *float64 {
	xi, yi := -1, -1
	for i, k := range m.Keys {
		if k == xKey {
			xi = i
		}
		if k == yKey {
			yi = i
		}
	}
	if xi < 0 || yi < 0 {
		return nil
	}
	return m.Values[xi][yi]
}

// LagPoint is one lag offset within a lag analysis. R is nil when fewer
// than 5 pairs exist at that offset.
type LagPoint struct {
	Lag int      `json:"lag"`
	R   *float64 `json:"r"`
	N   int      `json:"n"`
}

// LagAnalysis is a lag-shifted cross-correlation between one leading and
// one lagging metric. Lag L pairs the leading metric on day D with the
// lagging metric on day D+L. BestLag maximizes |r| over points with a
// computable coefficient; exact ties resolve to the larger lag.
type LagAnalysis struct {
	Name    string     `json:"name"`
	XKey    string     `json:"x_key"`
	YKey    string     `json:"y_key"`
	Method  string     `json:"method"`
	MaxLag  int        `json:"max_lag"`
	Entries []LagPoint `json:"entries"`
	BestLag *int       `json:"best_lag"`
	BestR   *float64   `json:"best_r"`
}

// Summary is the headline block of a dashboards result.
type Summary struct {
	Start           core.Day `json:"start"`
	End             core.Day `json:"end"`
	Days            int      `json:"days"`
	SocialJetlagMin *float64 `json:"social_jetlag_min"`
	Method          string   `json:"method"`
	MaxLagDays      int      `json:"max_lag_days"`
}

// Chart kinds understood by renderers.
const (
	ChartScatter   = "scatter"
	ChartHeatmap   = "heatmap"
	ChartBar       = "bar"
	ChartHistogram = "histogram"
)

// ChartSpec names what a renderer should draw: a chart kind over one or two
// metric keys, optionally at a fixed lag or bin width. Specs are emitted
// even when the underlying data is sparse; data sufficiency is a rendering
// concern, not an engine concern.
type ChartSpec struct {
	Kind     string   `json:"kind"`
	Title    string   `json:"title"`
	XKey     string   `json:"x_key,omitempty"`
	YKey     string   `json:"y_key,omitempty"`
	Lag      *int     `json:"lag,omitempty"`
	BinWidth *float64 `json:"bin_width,omitempty"`
}

// DashboardCard is a named thematic grouping of chart specs plus the
// static research findings attached to its topic.
type DashboardCard struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Topic    string      `json:"topic"`
	Charts   []ChartSpec `json:"charts"`
	Findings []string    `json:"findings"`
}

// DashboardsResult is the full output of one dashboards request.
type DashboardsResult struct {
	Summary         Summary           `json:"summary"`
	Rows            []health.DailyRow `json:"rows"`
	Matrix          CorrelationMatrix `json:"matrix"`
	DetrendedMatrix CorrelationMatrix `json:"detrended_matrix"`
	Lags            []LagAnalysis     `json:"lags"`
	Cards           []DashboardCard   `json:"cards"`
}
