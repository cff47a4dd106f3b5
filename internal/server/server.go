// internal/server/server.go
// Package server exposes the analyzers over HTTP so a review frontend can
// upload result files and get statistics or rendered reports back without
// touching the filesystem on the host.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configures the analysis server.
type Options struct {
	// AllowOrigins is the CORS allowlist. Empty falls back to the usual
	// local frontend dev servers.
	AllowOrigins []string
	// Timeout bounds how long a single request may read or write. Zero
	// falls back to 30 seconds.
	Timeout time.Duration
	// Debug keeps gin in debug mode with request logging on stdout.
	Debug bool
}

// Server wraps the gin engine serving the analysis API.
type Server struct {
	engine  *gin.Engine
	timeout time.Duration
}

// New builds the engine, middleware, and routes. It does not start
// listening; call Run for that.
func New(opts Options) *Server {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	engine := gin.Default()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{engine: engine, timeout: timeout}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "accord annotation analytics running"})
	})
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	api.POST("/analyze/agreement", s.handleAgreement)
	api.POST("/analyze/loo", s.handleLeaveOneOut)
	api.POST("/analyze/qa", s.handleQA)
	api.POST("/analyze/consistency", s.handleConsistency)
	api.POST("/report", s.handleReport)
	api.POST("/report/charts", s.handleCharts)
}

// Run blocks serving the API on addr.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.timeout,
		WriteTimeout: s.timeout,
	}
	return srv.ListenAndServe()
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}
