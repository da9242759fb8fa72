// Package server exposes decoded plugins over a small REST surface for
// interactive inspection. It is a thin layer over internal/esp and
// internal/analysis; no decoding logic lives here.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/modforge/espdec/internal/analysis"
	"github.com/modforge/espdec/internal/esp"
	"github.com/modforge/espdec/internal/logger"
)

type scan struct {
	ID        string
	Plugin    *esp.Plugin
	CreatedAt time.Time
}

// Server holds decoded plugins keyed by scan id.
type Server struct {
	mu    sync.RWMutex
	scans map[string]*scan
	log   logger.Logger

	open func(path string, opts ...esp.Option) (*esp.Plugin, error)
}

func New(log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		scans: make(map[string]*scan),
		log:   log,
		open:  esp.Open,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/scans", s.handleCreateScan)
	e.GET("/v1/scans", s.handleListScans)
	e.GET("/v1/scans/:id", s.handleGetScan)
	e.DELETE("/v1/scans/:id", s.handleDeleteScan)
	e.GET("/v1/scans/:id/records", s.handleRecords)
	e.GET("/v1/scans/:id/overrides", s.handleOverrides)
	e.GET("/v1/scans/:id/warnings", s.handleWarnings)
}

type createScanRequest struct {
	Path  string   `json:"path"`
	Types []string `json:"types,omitempty"`
}

type scanSummary struct {
	ID           string         `json:"id"`
	File         string         `json:"file"`
	Path         string         `json:"path"`
	Version      float32        `json:"version"`
	Masters      []string       `json:"masters"`
	IsESM        bool           `json:"is_esm"`
	IsESL        bool           `json:"is_esl"`
	IsLocalized  bool           `json:"is_localized"`
	Author       string         `json:"author,omitempty"`
	Description  string         `json:"description,omitempty"`
	GroupCount   int            `json:"group_count"`
	RecordCount  int            `json:"record_count"`
	TypeCounts   map[string]int `json:"type_counts"`
	Incomplete   bool           `json:"incomplete"`
	WarningCount int            `json:"warning_count"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (s *Server) handleCreateScan(c *echo.Context) error {
	var req createScanRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Path == "" {
		return writeBadRequest(c, "path is required")
	}

	var opts []esp.Option
	if len(req.Types) > 0 {
		opts = append(opts, esp.WithTypes(req.Types...))
	}
	p, err := s.open(req.Path, opts...)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	sc := &scan{
		ID:        "scan_" + uuid.NewString(),
		Plugin:    p,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.scans[sc.ID] = sc
	s.mu.Unlock()

	s.log.Info("plugin decoded", "scan", sc.ID, "file", p.Name, "records", p.DecodedRecords)
	return c.JSON(http.StatusCreated, summarize(sc))
}

func (s *Server) handleListScans(c *echo.Context) error {
	s.mu.RLock()
	out := make([]scanSummary, 0, len(s.scans))
	for _, sc := range s.scans {
		out = append(out, summarize(sc))
	}
	s.mu.RUnlock()
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetScan(c *echo.Context) error {
	sc, ok := s.lookup(c.Param("id"))
	if !ok {
		return writeNotFound(c, "unknown scan id")
	}
	return c.JSON(http.StatusOK, summarize(sc))
}

func (s *Server) handleDeleteScan(c *echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	sc, ok := s.scans[id]
	delete(s.scans, id)
	s.mu.Unlock()
	if !ok {
		return writeNotFound(c, "unknown scan id")
	}
	_ = sc.Plugin.Close()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleRecords(c *echo.Context) error {
	sc, ok := s.lookup(c.Param("id"))
	if !ok {
		return writeNotFound(c, "unknown scan id")
	}
	if typ := c.QueryParam("type"); typ != "" {
		return c.JSON(http.StatusOK, analysis.Generic(sc.Plugin, typ))
	}
	return c.JSON(http.StatusOK, analysis.AllRecords(sc.Plugin))
}

func (s *Server) handleOverrides(c *echo.Context) error {
	sc, ok := s.lookup(c.Param("id"))
	if !ok {
		return writeNotFound(c, "unknown scan id")
	}
	return c.JSON(http.StatusOK, analysis.Overrides(sc.Plugin))
}

func (s *Server) handleWarnings(c *echo.Context) error {
	sc, ok := s.lookup(c.Param("id"))
	if !ok {
		return writeNotFound(c, "unknown scan id")
	}
	type warning struct {
		RecordType string `json:"record_type"`
		FormID     string `json:"form_id"`
		Offset     int    `json:"offset"`
		Message    string `json:"message"`
	}
	out := make([]warning, 0, len(sc.Plugin.Warnings))
	for _, w := range sc.Plugin.Warnings {
		out = append(out, warning{
			RecordType: w.RecordType,
			FormID:     w.FormID.Hex(),
			Offset:     w.Offset,
			Message:    w.Message,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"incomplete": sc.Plugin.Incomplete,
		"warnings":   out,
	})
}

func (s *Server) lookup(id string) (*scan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scans[id]
	return sc, ok
}

func summarize(sc *scan) scanSummary {
	p := sc.Plugin
	return scanSummary{
		ID:           sc.ID,
		File:         p.Name,
		Path:         p.Path,
		Version:      p.Version,
		Masters:      p.Masters,
		IsESM:        p.IsESM,
		IsESL:        p.IsESL,
		IsLocalized:  p.IsLocalized,
		Author:       p.Author,
		Description:  p.Description,
		GroupCount:   p.GroupCount,
		RecordCount:  p.DecodedRecords,
		TypeCounts:   p.TypeCounts,
		Incomplete:   p.Incomplete,
		WarningCount: len(p.Warnings),
		CreatedAt:    sc.CreatedAt,
	}
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": map[string]string{
			"type":    errType,
			"message": msg,
		},
	})
}
