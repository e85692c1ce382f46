package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"market-analyzer/src/analysis"
	"market-analyzer/src/auth"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionCookie = "session"

// -----------------------------------------------------------------------------
// HTTPServer
// -----------------------------------------------------------------------------

// Deps are the services the HTTP layer drives.
type Deps struct {
	Analysis *analysis.AnalysisFacade
	Users    *auth.Service
	Sessions *auth.SessionStore
}

type HTTPServer struct {
	Config  *models.MConfig
	Deps    Deps
	Logger  *logger.Logger
	Started time.Time
	engine  *gin.Engine
	srv     *http.Server
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewHTTPServer(cfg *models.MConfig, deps Deps, log *logger.Logger) *HTTPServer {
	// Set Gin mode
	if !strings.EqualFold(cfg.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		Config:  cfg,
		Deps:    deps,
		Logger:  log,
		Started: time.Now(),
		engine:  gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), requestMetrics())

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *HTTPServer) setupRoutes() {
	s.engine.GET("/", s.getDashboard)
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := s.engine.Group("/api/auth")
	authGroup.POST("/register", s.postRegister)
	authGroup.POST("/login", s.postLogin)
	authGroup.POST("/logout", s.postLogout)
	authGroup.GET("/profile", s.requireSession(), s.getProfile)

	stocks := s.engine.Group("/api/stocks", s.requireSession())
	stocks.GET("/:symbol", s.getStock)
	stocks.GET("/:symbol/export.csv", s.getExport)
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start serves until Shutdown is called.
func (s *HTTPServer) Start() error {
	s.Logger.Info("Starting server on %s", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"uptime_seconds":  int64(time.Since(s.Started).Seconds()),
		"active_sessions": s.Deps.Sessions.Len(),
	})
}
