// Package server wires the HTTP surface: the upload form, the generation
// endpoint and the run-history API.
package server

import (
	"path/filepath"

	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jadonco1010/PPTAutomation/internal/config"
	"github.com/jadonco1010/PPTAutomation/internal/server/handlers"
	"github.com/jadonco1010/PPTAutomation/internal/service/report"
	"github.com/jadonco1010/PPTAutomation/internal/store"
)

// Server is the HTTP server.
type Server struct {
	router *gin.Engine
	store  *store.Store
}

// NewServer builds the server, its store and the report pipeline.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, err
	}

	sqliteStore, err := store.New(filepath.Join(dataDir, "pptautomation.db"))
	if err != nil {
		return nil, err
	}

	pipeline := report.New(cfg, dataDir, sqliteStore)
	h := handlers.New(pipeline, sqliteStore)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, _ zerolog.Logger) zerolog.Logger {
			return log.Logger
		})))

	s := &Server{
		router: router,
		store:  sqliteStore,
	}
	s.setupRoutes(h)
	return s, nil
}

func (s *Server) setupRoutes(h *handlers.Handler) {
	s.router.GET("/", h.Index)
	s.router.POST("/upload", h.Upload)

	api := s.router.Group("/api")
	{
		api.GET("/runs", h.ListRuns)
		api.GET("/health", h.Health)
	}
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the server's resources.
func (s *Server) Close() error {
	return s.store.Close()
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
