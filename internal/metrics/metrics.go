// Package metrics holds the Prometheus registry for the tool server and
// the upstream client. Each Registry owns its own prometheus.Registry
// rather than the package-global default.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for ringlab
type Registry struct {
	registry *prometheus.Registry

	// Tool call metrics
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec

	// Upstream fetch metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec

	// Analysis metrics
	AnalysisDays prometheus.Histogram

	// Archive metrics
	ArchiveWrites *prometheus.CounterVec
}

// NewRegistry creates a registry with all ringlab metrics registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		ToolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ringlab_tool_calls_total",
				Help: "Total number of tool calls by tool name and outcome",
			},
			[]string{"tool", "status"},
		),

		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ringlab_tool_duration_seconds",
				Help:    "Duration of tool calls in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"tool"},
		),

		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ringlab_upstream_requests_total",
				Help: "Total number of ring cloud API requests by category and outcome",
			},
			[]string{"category", "status"},
		),

		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ringlab_upstream_duration_seconds",
				Help:    "Duration of ring cloud API requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"category"},
		),

		AnalysisDays: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ringlab_analysis_days",
				Help:    "Number of daily rows per analysis request",
				Buckets: []float64{1, 7, 14, 30, 60, 90, 180, 365},
			},
		),

		ArchiveWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ringlab_archive_writes_total",
				Help: "Total number of archived records by category and outcome",
			},
			[]string{"category", "status"},
		),
	}

	r.registry.MustRegister(
		r.ToolCalls,
		r.ToolDuration,
		r.UpstreamRequests,
		r.UpstreamDuration,
		r.AnalysisDays,
		r.ArchiveWrites,
	)

	return r
}

// Handler returns the scrape endpoint handler for this registry
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ToolTimer tracks execution time for one tool call
type ToolTimer struct {
	metrics *Registry
	tool    string
	start   time.Time
}

// StartToolTimer begins timing a tool call
func (r *Registry) StartToolTimer(tool string) *ToolTimer {
	return &ToolTimer{
		metrics: r,
		tool:    tool,
		start:   time.Now(),
	}
}

// Stop completes the timing and records the call outcome
func (t *ToolTimer) Stop(status string) {
	t.metrics.ToolDuration.WithLabelValues(t.tool).Observe(time.Since(t.start).Seconds())
	t.metrics.ToolCalls.WithLabelValues(t.tool, status).Inc()
}

// ObserveUpstream records one upstream request
func (r *Registry) ObserveUpstream(category, status string, elapsed time.Duration) {
	r.UpstreamRequests.WithLabelValues(category, status).Inc()
	r.UpstreamDuration.WithLabelValues(category).Observe(elapsed.Seconds())
}
