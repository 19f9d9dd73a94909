package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/backupdeck/config"
	"github.com/ngenohkevin/backupdeck/internal/dashboard"
)

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	dash       *dashboard.Dashboard
	router     *gin.Engine
	handlers   *Handlers
	limiter    *RateLimiter
	logger     *log.Logger
	httpServer *http.Server
}

// New creates a new server instance around a dashboard
func New(cfg *config.Config, dash *dashboard.Dashboard) *Server {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(pageTemplate)

	logger := log.Default()

	s := &Server{
		cfg:      cfg,
		dash:     dash,
		router:   router,
		handlers: NewHandlers(cfg, dash, logger),
		limiter:  NewRateLimiter(cfg.RateLimitRPS),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(CORSMiddleware(s.cfg.AllowedOrigins))
	s.router.Use(RateLimitMiddleware(s.limiter))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	// Dashboard page
	s.router.GET("/", s.handlers.Index)
	s.router.POST("/clear/:section", s.handlers.ClearForm)

	api := s.router.Group("/api")
	{
		api.GET("/view", s.handlers.GetView)
		api.POST("/refresh", s.handlers.Refresh)
		api.POST("/clear/:section", s.handlers.ClearSection)
		api.GET("/events", s.handlers.StreamEvents)
		api.GET("/info", s.handlers.GetInfo)
	}
}

// Run mounts the dashboard and serves until SIGINT or SIGTERM
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial fetch; failures are logged by the dashboard
	go func() { _ = s.dash.Mount(ctx) }()
	s.dash.StartPolling(ctx, s.cfg.PollInterval)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		s.logger.Println("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Printf("Server forced to shutdown: %v", err)
		}
	}()

	s.logger.Printf("Starting backupdeck on %s (backup server %s)", s.cfg.Addr(), s.cfg.BackupServerURL)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	cancel()
	s.dash.Close()
	if err := s.handlers.Close(); err != nil {
		s.logger.Printf("Error closing handlers: %v", err)
	}

	s.logger.Println("Server stopped")
	return nil
}

// Router returns the Gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close releases resources held by the handlers
func (s *Server) Close() error {
	return s.handlers.Close()
}
