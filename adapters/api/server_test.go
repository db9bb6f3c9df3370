package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringlab/adapters/excel"
	"ringlab/app"
	"ringlab/domain/dashboard"
	"ringlab/domain/health"
	"ringlab/domain/insight"
	"ringlab/internal/config"
	apperrors "ringlab/internal/errors"
	"ringlab/internal/kb"
	"ringlab/internal/metrics"
	"ringlab/internal/testkit"
)

func newTestServer(t *testing.T) (*Server, *testkit.StaticSource) {
	t.Helper()
	cfg := testkit.DefaultConfig()
	cfg.MissingRate = 0
	src := testkit.NewStaticSource(testkit.NewGenerator(cfg).GenerateBundle())
	writer := excel.NewWriter(config.ExportConfig{Dir: t.TempDir()})
	m := metrics.NewRegistry()
	svc := app.NewAnalysisService(src, nil, kb.NewStatic(), writer, health.AnalysisConfig{}, m)
	return NewServer(svc, m, gin.TestMode), src
}

func doRequest(s *Server, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/healthz")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "archive")
}

func TestDashboardsHappyPath(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/dashboards?start_date=2024-01-01&end_date=2024-01-30")

	require.Equal(t, http.StatusOK, w.Code)
	var result dashboard.DashboardsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 30, result.Summary.Days)
	assert.Equal(t, health.MethodSpearman, result.Summary.Method)
	assert.Len(t, result.Rows, 30)
	assert.NotEmpty(t, result.Lags)
}

func TestDashboardsRequiresRange(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/dashboards")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeInvalidInput, body["code"])
}

func TestDashboardsRejectsBadMethod(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet,
		"/api/v1/dashboards?start_date=2024-01-01&end_date=2024-01-30&method=kendall")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardsAcceptsOverrides(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet,
		"/api/v1/dashboards?start_date=2024-01-01&end_date=2024-01-30&method=pearson&max_lag_days=1")

	require.Equal(t, http.StatusOK, w.Code)
	var result dashboard.DashboardsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, health.MethodPearson, result.Summary.Method)
	assert.Equal(t, 1, result.Summary.MaxLagDays)
}

func TestInsights(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/insights?start_date=2024-01-01&end_date=2024-01-30")

	require.Equal(t, http.StatusOK, w.Code)
	var ins insight.HealthInsights
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ins))
	assert.Equal(t, 30, ins.Days)
	require.NotNil(t, ins.Sleep)
	assert.Greater(t, ins.Sleep.Average, 0.0)
}

func TestReportRendersHTML(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/report?start_date=2024-01-01&end_date=2024-01-30")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Ring Health Report")
	assert.Contains(t, w.Body.String(), "<li>")
}

func TestReportXLSXDownload(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/v1/report.xlsx?start_date=2024-01-01&end_date=2024-01-30")

	require.Equal(t, http.StatusOK, w.Code)
	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, ".xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestUpstreamFailureMapsTo502(t *testing.T) {
	s, src := newTestServer(t)
	src.Err = apperrors.UpstreamFailure("oura", assert.AnError)

	w := doRequest(s, http.MethodGet, "/api/v1/insights?start_date=2024-01-01&end_date=2024-01-30")

	require.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeUpstreamFailure, body["code"])
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	doRequest(s, http.MethodGet, "/api/v1/dashboards?start_date=2024-01-01&end_date=2024-01-30")

	w := doRequest(s, http.MethodGet, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ringlab_analysis_days")
}
