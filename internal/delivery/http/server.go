package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/config"
	"github.com/trail-recommender/internal/delivery/http/handler"
	"github.com/trail-recommender/internal/delivery/http/middleware"
)

// Server is the Fiber-based HTTP server.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	recommendationHandler *handler.RecommendationHandler
	trailHandler          *handler.TrailHandler
	weatherHandler        *handler.WeatherHandler
	preferenceHandler     *handler.PreferenceHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	recommendationHandler *handler.RecommendationHandler,
	trailHandler *handler.TrailHandler,
	weatherHandler *handler.WeatherHandler,
	preferenceHandler *handler.PreferenceHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Trail Recommender",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                   app,
		config:                cfg,
		logger:                logger,
		recommendationHandler: recommendationHandler,
		trailHandler:          trailHandler,
		weatherHandler:        weatherHandler,
		preferenceHandler:     preferenceHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Catalog
	api.Get("/trails", s.trailHandler.List)
	api.Get("/trails/meta", s.trailHandler.Meta)
	api.Get("/trails/:id/statistics", s.trailHandler.Statistics)
	api.Get("/trails/:id/best-periods", s.trailHandler.BestPeriods)

	// Weather
	api.Get("/weather/statistics", s.weatherHandler.Statistics)
	api.Post("/weather/refresh", s.weatherHandler.Refresh)

	// Recommendations
	api.Post("/recommendations", s.recommendationHandler.Recommend)
	api.Post("/recommendations/weekly", s.recommendationHandler.Weekly)
	api.Post("/recommendations/export", s.recommendationHandler.Export)

	// Preferences
	api.Get("/preferences", s.preferenceHandler.Get)
	api.Put("/preferences", s.preferenceHandler.Update)
	api.Put("/preferences/weights", s.preferenceHandler.UpdateWeights)
	api.Delete("/preferences", s.preferenceHandler.Clear)
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
