// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/colefield/airwave/internal/api"
	"github.com/colefield/airwave/internal/catalog"
	"github.com/colefield/airwave/internal/config"
	"github.com/colefield/airwave/internal/db"
	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/middleware"
	"github.com/colefield/airwave/internal/nowplaying"
	"github.com/colefield/airwave/internal/schedule"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	catalogStore    *catalog.Store
	scheduleService *schedule.Service
	nowService      *nowplaying.Service
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)
	catalogStore := catalog.NewStore(repos.Media, catalog.NewCache())
	scheduleService := schedule.NewService(repos, catalogStore)
	nowService := nowplaying.NewService(scheduleService, catalogStore, cfg.Media.BaseURL)

	return &Server{
		config:          cfg,
		db:              database,
		repos:           repos,
		catalogStore:    catalogStore,
		scheduleService: scheduleService,
		nowService:      nowService,
	}
}

// Schedules exposes the schedule service for startup seeding
func (s *Server) Schedules() *schedule.Service {
	return s.scheduleService
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Add middleware stack
	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS support (allows all origins)

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupChannelRoutes(apiGroup, s.scheduleService, s.nowService)
	api.SetupMediaRoutes(apiGroup, s.repos.Media, s.catalogStore)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
