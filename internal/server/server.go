// Package server exposes discovery runs over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core"
	"github.com/agenthands/ise/internal/relation"
)

// recentRuns bounds how many finished runs GET /runs/:id can return.
const recentRuns = 128

type Runner interface {
	Run(ctx context.Context, run config.Run) (*core.Result, error)
}

// RunnerFactory validates run and returns something that executes it.
type RunnerFactory func(ctx context.Context, run config.Run) (Runner, error)

type Exporter interface {
	Export(ctx context.Context, result *core.Result) error
}

type Server struct {
	newRunner RunnerFactory
	exporter  Exporter
	runs      *lru.Cache[string, *core.Result]
	logger    *slog.Logger
}

// NewServer wires the HTTP API. exporter may be nil when no graph store is configured.
func NewServer(newRunner RunnerFactory, exporter Exporter, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	runs, err := lru.New[string, *core.Result](recentRuns)
	if err != nil {
		return nil, err
	}
	return &Server{newRunner: newRunner, exporter: exporter, runs: runs, logger: logger}, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/relations", s.Relations)
	r.POST("/runs", s.StartRun)
	r.GET("/runs/:id", s.GetRun)

	return r
}

type relationView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Object      string `json:"object"`
}

func (s *Server) Relations(c *gin.Context) {
	out := make([]relationView, 0, 4)
	for _, r := range relation.All() {
		out = append(out, relationView{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Subject:     string(r.Subject),
			Object:      string(r.Object),
		})
	}
	c.JSON(http.StatusOK, gin.H{"relations": out})
}

type StartRunRequest struct {
	config.Run
	Export bool `json:"export"`
}

// StartRun executes a run to completion and returns its result.
func (s *Server) StartRun(c *gin.Context) {
	var req StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	runner, err := s.newRunner(ctx, req.Run)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("Failed to prepare run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare run"})
		return
	}

	result, err := runner.Run(ctx, req.Run)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("Run failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Run failed: " + err.Error()})
		return
	}
	s.runs.Add(result.RunID, result)

	if req.Export {
		if s.exporter == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "graph export is not configured", "result": result})
			return
		}
		if err := s.exporter.Export(ctx, result); err != nil {
			s.logger.Error("Failed to export run", "run_id", result.RunID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export run", "result": result})
			return
		}
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) GetRun(c *gin.Context) {
	result, ok := s.runs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}
