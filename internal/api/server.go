package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nexconsult/cnpj-upload/internal/api/handlers"
	"github.com/nexconsult/cnpj-upload/internal/api/middleware"
	"github.com/nexconsult/cnpj-upload/internal/config"
	"github.com/nexconsult/cnpj-upload/internal/models"
	"github.com/nexconsult/cnpj-upload/internal/services"
)

// Server represents the HTTP server
type Server struct {
	Router   *gin.Engine
	config   *config.Config
	logger   *logrus.Logger
	services *services.Container
}

// NewServer creates a new HTTP server. Background work started for the
// server stops when ctx is cancelled.
func NewServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger, services *services.Container) *Server {
	server := &Server{
		config:   cfg,
		logger:   logger,
		services: services,
	}

	server.setupRouter(ctx)
	return server
}

// setupRouter configures the router with all routes and middleware
func (s *Server) setupRouter(ctx context.Context) {
	s.Router = gin.New()

	// Global middleware
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Logger(s.logger))
	s.Router.Use(middleware.Recovery(s.logger))
	s.Router.Use(middleware.CORS(s.config.Security.CORS))
	s.Router.Use(middleware.Security())

	// Health and metrics endpoints (no rate limiting)
	healthHandler := handlers.NewHealthHandler(s.services, s.logger)
	s.Router.GET("/health", healthHandler.GetHealth)
	s.Router.GET("/health/ready", healthHandler.GetReadiness)
	s.Router.GET("/health/live", healthHandler.GetLiveness)
	s.Router.GET("/metrics", handlers.NewMetricsHandler(s.services.Metrics, s.logger).GetMetrics)

	// Swagger documentation
	if !s.config.Server.IsProduction() {
		s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		s.Router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})
	}

	rateLimiter := middleware.NewRateLimiter(s.config.Security.RateLimit)
	rateLimiter.StartCleanup(ctx)

	// API v1 routes
	v1 := s.Router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		uploadHandler := handlers.NewUploadHandler(s.services.UploadService, s.config.Upload.MaxUploadBytes(), s.logger)

		v1.POST("/validate", uploadHandler.Validate)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", uploadHandler.CreateSession)
			sessions.GET("/:id", uploadHandler.GetSession)
			sessions.DELETE("/:id", uploadHandler.DeleteSession)
			sessions.POST("/:id/file", uploadHandler.SubmitFile)
			sessions.POST("/:id/confirm", uploadHandler.ConfirmUpload)
			sessions.POST("/:id/reset", uploadHandler.ResetSession)
		}
	}

	// 404 handler
	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     "Not Found",
			Message:   "The requested resource was not found",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	})

	// 405 handler
	s.Router.HandleMethodNotAllowed = true
	s.Router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{
			Error:     "Method Not Allowed",
			Message:   "The requested method is not allowed for this resource",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	})
}
