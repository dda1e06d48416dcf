package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guialocal/guialocal-backend/config"
	"github.com/guialocal/guialocal-backend/internal/app/controller"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/internal/app/service"
	"github.com/guialocal/guialocal-backend/internal/db"
	"github.com/guialocal/guialocal-backend/internal/metrics"
	"github.com/guialocal/guialocal-backend/internal/middleware"
	"github.com/guialocal/guialocal-backend/internal/router"
	"github.com/guialocal/guialocal-backend/internal/scheduler"
	"github.com/guialocal/guialocal-backend/internal/storage"
	"github.com/guialocal/guialocal-backend/pkg/logger"
	"github.com/guialocal/guialocal-backend/pkg/places"
	redisClient "github.com/guialocal/guialocal-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting GuiaLocal Backend Server", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    logLevel,
		"store_driver": cfg.Store.Driver,
	})

	ctx := context.Background()

	store, err := db.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize document store", err, map[string]interface{}{
			"driver": cfg.Store.Driver,
		})
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("Failed to close document store", err)
		}
	}()

	clock := service.NewClock(cfg.Directory.Location())
	m := metrics.New()

	// Repositories
	businessRepo := repository.NewBusinessRepository(store)
	voteRepo := repository.NewVoteRepository(store)
	reviewRepo := repository.NewReviewRepository(store)
	campaignRepo := repository.NewCampaignRepository(store)
	categoryRepo := repository.NewCategoryRepository(store)

	// External providers. Each one is optional and its features degrade when
	// it is missing.
	placesClient := newPlacesClient(cfg)
	var (
		provider service.PlaceProvider
		geocoder service.Geocoder
	)
	if placesClient != nil {
		provider = placesClient
		geocoder = placesClient
	}

	var llm service.LLMClient
	if gemini, err := service.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model); err != nil {
		logger.Warn("AI assistant disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		llm = gemini
	}

	var uploader storage.PhotoUploader
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			logger.Warn("Photo uploads disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			uploader = s3Storage
		}
	}

	// Services
	businessService := service.NewBusinessService(businessRepo, geocoder, clock)
	voteService := service.NewVoteService(voteRepo, businessRepo, clock)
	reviewService := service.NewReviewService(reviewRepo, businessRepo, clock)
	marketingService := service.NewMarketingService(campaignRepo, businessRepo, clock)
	categoryService := service.NewCategoryService(categoryRepo, businessRepo, cfg.Directory.CategoryTimeout, clock)
	importService := service.NewImportService(businessRepo, provider, m, clock)
	hybridSearchService := service.NewHybridSearchService(businessRepo, importService, provider, service.HybridSearchConfig{
		MaxPages:    cfg.Places.MaxPages,
		PageDelay:   cfg.Places.PageDelay,
		DefaultCity: cfg.Directory.DefaultCity,
	}, clock)
	aiService := service.NewAIService(
		llm,
		service.NewSearchTool(businessRepo, clock),
		service.NewConversationStore(cfg.Gemini.ConversationTTL),
		clock,
		cfg.Directory.DefaultCity,
	)

	// Controllers
	controllers := router.Controllers{
		Business:  controller.NewBusinessController(businessService),
		Vote:      controller.NewVoteController(voteService),
		Review:    controller.NewReviewController(reviewService),
		Marketing: controller.NewMarketingController(marketingService),
		Category:  controller.NewCategoryController(categoryService),
		Places:    controller.NewPlacesController(importService, hybridSearchService),
		Chat:      controller.NewChatController(aiService, m),
		Upload:    controller.NewUploadController(uploader),
	}

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Interval)

	// Campaign sweeper
	campaignScheduler := scheduler.NewCampaignScheduler(marketingService, cfg.Scheduler.CampaignSweepSpec, cfg.Directory.Location(), m)
	if err := campaignScheduler.Start(); err != nil {
		logger.Fatal("Failed to start campaign scheduler", err)
	}
	defer campaignScheduler.Stop()

	// Setup router
	r := router.NewRouter(controllers, authMiddleware, rateLimiter, m, cfg)
	engine := r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis connection", err)
	}

	logger.Info("Server stopped successfully")
}

// newPlacesClient returns nil when the places API key is not set.
func newPlacesClient(cfg *config.Config) *places.Client {
	client, err := places.NewClient(places.Config{
		APIKey:   cfg.Places.APIKey,
		BaseURL:  cfg.Places.BaseURL,
		Language: cfg.Places.Language,
		Region:   cfg.Places.Region,
		Timeout:  cfg.Places.Timeout,
	})
	if err != nil {
		logger.Warn("Places provider disabled; imports and hybrid backfill are unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	if cfg.Redis.Enabled {
		if err := redisClient.Init(&cfg.Redis); err != nil {
			logger.Warn("Places cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			client = client.WithCache(redisClient.NewPlacesCache(redisClient.GetClient(), cfg.Redis.PlaceTTL))
		}
	}
	return client
}
