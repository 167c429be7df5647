package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/LJTian/NewsHub/internal/collector"
	"github.com/LJTian/NewsHub/internal/scheduler"
	"github.com/LJTian/NewsHub/internal/storage"
	"github.com/gin-gonic/gin"
)

// Store API 层依赖的存储能力
type Store interface {
	ListNews(q storage.NewsQuery) ([]storage.News, error)
	ListSources(activeOnly bool) ([]collector.Source, error)
	SetSourceActive(id string, active bool) error
	LatestRunSummary(ctx context.Context) (storage.RunSummary, error)
}

// Refresher 手动触发一轮采集
type Refresher interface {
	RunOnce(ctx context.Context) (storage.RunSummary, error)
}

type Server struct {
	store     Store
	refresher Refresher
}

func NewServer(store Store, refresher Refresher) *Server {
	return &Server{store: store, refresher: refresher}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
		v1.GET("/sources", s.listSources)
		v1.PATCH("/sources/:id", s.updateSource)
		v1.POST("/refresh", s.refresh)
		v1.GET("/runs/latest", s.latestRun)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listNews(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	impact, _ := strconv.ParseBool(c.Query("impact"))

	items, err := s.store.ListNews(storage.NewsQuery{
		Category:   c.Query("category"),
		SourceID:   c.Query("source"),
		ImpactOnly: impact,
		Limit:      limit,
	})
	if err != nil {
		internalError(c)
		return
	}
	ok(c, items)
}

func (s *Server) listSources(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	sources, err := s.store.ListSources(activeOnly)
	if err != nil {
		internalError(c)
		return
	}
	ok(c, sources)
}

type updateSourceRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (s *Server) updateSource(c *gin.Context) {
	var req updateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "bad_request",
			"message": "body must be {\"active\": bool}",
		})
		return
	}

	err := s.store.SetSourceActive(c.Param("id"), *req.Active)
	if errors.Is(err, storage.ErrSourceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_found",
			"message": "source not found",
		})
		return
	}
	if err != nil {
		internalError(c)
		return
	}
	ok(c, gin.H{"id": c.Param("id"), "active": *req.Active})
}

func (s *Server) refresh(c *gin.Context) {
	sum, err := s.refresher.RunOnce(c.Request.Context())
	if errors.Is(err, scheduler.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{
			"code":    "run_in_progress",
			"message": "a collect job is already running",
		})
		return
	}
	if err != nil {
		internalError(c)
		return
	}
	ok(c, sum)
}

func (s *Server) latestRun(c *gin.Context) {
	sum, err := s.store.LatestRunSummary(c.Request.Context())
	if errors.Is(err, storage.ErrNoRun) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_found",
			"message": "no run recorded yet",
		})
		return
	}
	if err != nil {
		internalError(c)
		return
	}
	ok(c, sum)
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    data,
	})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "internal_error",
		"message": "internal server error",
	})
}
