package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/config"
	httpDelivery "github.com/trail-recommender/internal/delivery/http"
	"github.com/trail-recommender/internal/delivery/http/handler"
	"github.com/trail-recommender/internal/domain/repository"
	"github.com/trail-recommender/internal/infrastructure/openweather"
	"github.com/trail-recommender/internal/pkg/logger"
	"github.com/trail-recommender/internal/repository/cache"
	"github.com/trail-recommender/internal/repository/file"
	"github.com/trail-recommender/internal/repository/postgres"
	"github.com/trail-recommender/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Trail Recommender")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("data_source", cfg.Data.Source),
	)

	// 3. Initialize data repositories
	var trailRepo repository.TrailRepository
	var weatherRepo repository.WeatherRepository

	switch cfg.Data.Source {
	case "postgres":
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.Health(ctx); err != nil {
			cancel()
			log.Fatal("PostgreSQL health check failed", zap.Error(err))
		}
		cancel()
		log.Info("PostgreSQL connected")

		trailRepo = postgres.NewTrailRepository(db, log)
		weatherRepo = postgres.NewWeatherRepository(db, log)
	default:
		trailRepo = file.NewTrailRepository(cfg.Data.TrailsPath, log)
		weatherRepo = file.NewWeatherRepository(cfg.Data.WeatherPath, log)
	}

	// 4. Connect to Redis when enabled; the weather use case degrades to
	// recomputation without it.
	var cacheRepo repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		cacheRepo = cache.NewCacheRepository(redisClient)
		log.Info("Redis connected")
	}

	// 5. Initialize use cases
	catalogUC := usecase.NewCatalogUseCase(trailRepo, log)
	weatherUC := usecase.NewWeatherUseCase(weatherRepo, cacheRepo, cfg.Cache.WeatherStatsTTL, log)
	prefsUC := usecase.NewPreferenceUseCase(log)
	recommendUC := usecase.NewRecommendationUseCase(catalogUC, weatherUC, prefsUC, log)
	exportUC := usecase.NewExportUseCase(file.NewExportWriter(log), cfg.Data.ExportDir, log)

	log.Info("Use cases initialized")

	// 6. Load source data
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := catalogUC.Load(loadCtx); err != nil {
		loadCancel()
		log.Fatal("Failed to load trail catalog", zap.Error(err))
	}
	if err := weatherUC.Load(loadCtx); err != nil {
		loadCancel()
		log.Fatal("Failed to load weather series", zap.Error(err))
	}
	loadCancel()

	log.Info("Source data loaded",
		zap.Int("trails", catalogUC.Count()),
		zap.Int("weather_records", weatherUC.Count()),
	)

	// 7. Forecast provider, only with an API key configured
	var provider repository.ForecastProvider
	if cfg.OpenWeather.APIKey != "" {
		provider = openweather.NewClient(&cfg.OpenWeather, log)

		if cfg.Data.RefreshOnStart {
			refreshForecasts(catalogUC, weatherUC, provider, cfg.Data.ForecastDays, log)
		}
	} else {
		log.Warn("OpenWeatherMap API key not set, forecast refresh disabled")
	}

	// 8. Initialize HTTP handlers
	recommendationHandler := handler.NewRecommendationHandler(recommendUC, exportUC, log)
	trailHandler := handler.NewTrailHandler(catalogUC, recommendUC, log)
	weatherHandler := handler.NewWeatherHandler(weatherUC, catalogUC, provider, cfg.Data.ForecastDays, log)
	preferenceHandler := handler.NewPreferenceHandler(prefsUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize and start HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		recommendationHandler,
		trailHandler,
		weatherHandler,
		preferenceHandler,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

// refreshForecasts pulls forecasts for every catalog region at startup.
// Failures are logged and skipped so a provider outage never blocks startup.
func refreshForecasts(
	catalogUC *usecase.CatalogUseCase,
	weatherUC *usecase.WeatherUseCase,
	provider repository.ForecastProvider,
	days int,
	log *zap.Logger,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var fetched int
	for _, region := range catalogUC.Regions() {
		records, err := provider.FetchForecast(ctx, region, days)
		if err != nil {
			log.Warn("Startup forecast fetch failed",
				zap.String("region", string(region)),
				zap.Error(err),
			)
			continue
		}
		weatherUC.Merge(ctx, records)
		fetched += len(records)
	}

	log.Info("Startup forecast refresh finished", zap.Int("records", fetched))
}
