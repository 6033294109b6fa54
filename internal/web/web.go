// Package web serves the landing page and the leaderboard API.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/tomz197/chaincollector/internal/analytics"
)

// Leaderboard limits
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

//go:embed templates/*.html
var templates embed.FS

// Scores is the read side of the score store.
type Scores interface {
	Top(ctx context.Context, limit int) ([]analytics.Score, error)
	Stats(ctx context.Context) (analytics.Stats, error)
}

// Options configures the router.
type Options struct {
	SSHHost string
	Scores  Scores // nil serves an empty leaderboard
	Logger  *log.Logger
}

type server struct {
	sshHost string
	scores  Scores
	logger  *log.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	s := &server{sshHost: opts.SSHHost, scores: opts.Scores, logger: opts.Logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(opts.Logger))

	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templates, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.index)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	api := r.Group("/api")
	api.GET("/scores", s.listScores)
	return r
}

// requestLogger logs each request once it completes.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *server) leaderboard(ctx context.Context, limit int) ([]analytics.Score, analytics.Stats, error) {
	if s.scores == nil {
		return []analytics.Score{}, analytics.Stats{}, nil
	}
	top, err := s.scores.Top(ctx, limit)
	if err != nil {
		return nil, analytics.Stats{}, err
	}
	stats, err := s.scores.Stats(ctx)
	if err != nil {
		return nil, analytics.Stats{}, err
	}
	if top == nil {
		top = []analytics.Score{}
	}
	return top, stats, nil
}

func (s *server) index(c *gin.Context) {
	top, stats, err := s.leaderboard(c.Request.Context(), DefaultLimit)
	if err != nil {
		s.logger.Warn("Leaderboard unavailable", "error", err)
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"SSHHost": s.sshHost,
		"Scores":  top,
		"Stats":   stats,
	})
}

func (s *server) listScores(c *gin.Context) {
	limit := DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, MaxLimit)
	}

	top, stats, err := s.leaderboard(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("List scores", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scores unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scores": top,
		"stats":  stats,
	})
}
