// Package api exposes the analysis service over REST for browsers and
// scripts outside the tool-calling path.
package api

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ringlab/app"
	"ringlab/domain/core"
	"ringlab/domain/health"
	"ringlab/internal/errors"
	"ringlab/internal/metrics"
	"ringlab/internal/report"
)

// Server is the REST surface over the analysis service.
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	metrics *metrics.Registry
	log     zerolog.Logger
}

// NewServer creates a REST server. mode is a gin mode string.
func NewServer(service *app.AnalysisService, m *metrics.Registry, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		metrics: m,
		log:     log.With().Str("component", "api").Logger(),
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealthz)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/api/v1")
	v1.GET("/dashboards", s.handleDashboards)
	v1.GET("/insights", s.handleInsights)
	v1.GET("/report", s.handleReport)
	v1.GET("/report.xlsx", s.handleReportXLSX)
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("serving REST API")
	return s.router.Run(addr)
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealthz(c *gin.Context) {
	payload := gin.H{"status": "ok"}
	if counts, err := s.service.ArchiveCounts(c.Request.Context()); err == nil && counts != nil {
		payload["archive"] = counts
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleDashboards(c *gin.Context) {
	start, end, err := s.parseRange(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	cfg, err := s.parseConfig(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	result, err := s.service.Dashboards(c.Request.Context(), start, end, cfg)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleInsights(c *gin.Context) {
	start, end, err := s.parseRange(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	ins, err := s.service.Insights(c.Request.Context(), start, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ins)
}

func (s *Server) handleReport(c *gin.Context) {
	start, end, err := s.parseRange(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	md, err := s.service.Report(c.Request.Context(), start, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(md))
}

func (s *Server) handleReportXLSX(c *gin.Context) {
	start, end, err := s.parseRange(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	cfg, err := s.parseConfig(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	path, _, err := s.service.ExportWorkbook(c.Request.Context(), start, end, cfg)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (s *Server) parseRange(c *gin.Context) (core.Day, core.Day, error) {
	start, err := core.ParseDay(c.Query("start_date"))
	if err != nil {
		return "", "", errors.InvalidInput("start_date must be YYYY-MM-DD")
	}
	end, err := core.ParseDay(c.Query("end_date"))
	if err != nil {
		return "", "", errors.InvalidInput("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return "", "", errors.InvalidInput("end_date is before start_date")
	}
	return start, end, nil
}

func (s *Server) parseConfig(c *gin.Context) (health.AnalysisConfig, error) {
	cfg := s.service.Defaults()
	if m := c.Query("method"); m != "" {
		if m != health.MethodSpearman && m != health.MethodPearson {
			return cfg, errors.InvalidInput("method must be spearman or pearson")
		}
		cfg.Method = m
	}
	if v := c.Query("max_lag_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, errors.InvalidInput("max_lag_days must be a non-negative integer")
		}
		cfg.MaxLagDays = n
	}
	return cfg, nil
}

func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeUpstreamFailure:
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
