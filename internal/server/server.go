// Package server exposes the viewer over HTTP so the widget can be embedded
// in any page.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/naka-gawa/github-viewer/internal/domain"
	"github.com/naka-gawa/github-viewer/internal/gateway"
	"github.com/naka-gawa/github-viewer/internal/render"
	"github.com/naka-gawa/github-viewer/internal/usecase"
	"github.com/rs/zerolog"
)

// refreshTimeout bounds a background fetch cycle.
const refreshTimeout = 2 * time.Minute

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Server serves the configured viewer and ad-hoc lookups.
type Server struct {
	viewer    *usecase.Viewer
	fetcher   gateway.Fetcher
	languages *usecase.LanguageFetcher
	size      render.Size
	logger    zerolog.Logger

	// background is cancelled on Close; background refreshes derive from it.
	background context.Context
	stop       context.CancelFunc
}

// New creates a Server. The viewer renders the configured user; fetcher and
// languages serve /api/v1/users/:user.
func New(viewer *usecase.Viewer, fetcher gateway.Fetcher, languages *usecase.LanguageFetcher, size render.Size, logger zerolog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		viewer:     viewer,
		fetcher:    fetcher,
		languages:  languages,
		size:       size,
		logger:     logger,
		background: ctx,
		stop:       cancel,
	}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", s.health)
	router.GET("/widget", s.widget)
	api := router.Group("/api/v1")
	{
		api.GET("/viewer", s.snapshot)
		api.POST("/viewer/refresh", s.refresh)
		api.GET("/users/:user", s.lookup)
	}
	return router
}

// Start runs the first fetch cycle in the background, as mounting the widget does.
func (s *Server) Start() {
	s.RefreshAsync()
}

// RefreshAsync starts a fetch cycle without waiting for it.
func (s *Server) RefreshAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(s.background, refreshTimeout)
		defer cancel()
		if _, err := s.viewer.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn().Err(err).Msg("Background refresh failed")
		}
	}()
}

// Close stops background work and the viewer.
func (s *Server) Close() {
	s.stop()
	s.viewer.Close()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.viewer.Snapshot())
}

func (s *Server) refresh(c *gin.Context) {
	s.RefreshAsync()
	c.JSON(http.StatusAccepted, gin.H{"status": "refreshing"})
}

func (s *Server) widget(c *gin.Context) {
	var buf bytes.Buffer
	if err := render.HTML(&buf, s.viewer.Snapshot(), s.size); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "render_failed", Message: err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) lookup(c *gin.Context) {
	user := c.Param("user")
	var exclusions []string
	for _, part := range strings.Split(c.Query("exclude"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			exclusions = append(exclusions, part)
		}
	}

	cycle, err := usecase.RunCycle(c.Request.Context(), s.fetcher, s.languages, user, domain.NewExclusionSet(exclusions))
	if err != nil {
		status, code := errorStatus(err)
		c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, cycle.Snapshot(user, time.Now()))
}

// errorStatus maps a fetch cycle failure to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	var pe *domain.ProviderError
	switch {
	case errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound:
		return http.StatusNotFound, "user_not_found"
	case errors.As(err, &pe) && pe.RateLimited():
		return http.StatusTooManyRequests, "rate_limited"
	case errors.As(err, &pe):
		return http.StatusBadGateway, "provider_error"
	case domain.IsMalformedData(err):
		return http.StatusBadGateway, "malformed_data"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "cancelled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
