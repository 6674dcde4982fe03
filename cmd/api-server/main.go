package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shelfmate/internal/catalog"
	"shelfmate/internal/config"
	"shelfmate/internal/database"
	"shelfmate/internal/handler"
	"shelfmate/internal/library"
	"shelfmate/internal/middleware"
	"shelfmate/internal/realtime"
	"shelfmate/internal/recommend"
	"shelfmate/internal/repository"
	"shelfmate/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	redisClient, err := realtime.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepository(db)
	userBookRepo := repository.NewUserBookRepository(db)
	listRepo := repository.NewListRepository(db)
	followRepo := repository.NewFollowRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Core components
	store := library.NewStore(userBookRepo, profileRepo)
	publisher := realtime.NewPublisher(redisClient)
	subscriber := realtime.NewSubscriber(redisClient)
	catalogClient := catalog.NewClient(cfg.CatalogAPIURL, cfg.CatalogAPIKey)
	searcher := catalog.NewSearcher(catalogClient.Search)

	// Recommendations degrade to unavailable when no API key is set.
	var recommender *recommend.Service
	if cfg.GeminiAPIKey != "" {
		gemini, err := recommend.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("recommendation client unavailable", "error", err)
		} else {
			recommender = recommend.NewService(gemini, recommend.DefaultCount)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, recommendations disabled")
	}

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	activityService := service.NewActivityService(activityRepo, followRepo, profileRepo, publisher)
	libraryService := service.NewLibraryService(userBookRepo, bookRepo, store, activityService)
	feedService := service.NewFeedService(activityRepo, subscriber)
	listService := service.NewListService(listRepo, bookRepo)
	followService := service.NewFollowService(followRepo, activityService)
	challengeService := service.NewChallengeService(challengeRepo, store)
	profileService := service.NewProfileService(profileRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	libraryHandler := handler.NewLibraryHandler(libraryService)
	listHandler := handler.NewListHandler(listService)
	socialHandler := handler.NewSocialHandler(followService, profileService)
	feedHandler := handler.NewFeedHandler(feedService)
	challengeHandler := handler.NewChallengeHandler(challengeService)
	discoverHandler := handler.NewDiscoverHandler(searcher, recommender, libraryService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(r.Group("/api/auth"))

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(authService))
	{
		libraryHandler.RegisterRoutes(api.Group("/library"))
		listHandler.RegisterRoutes(api.Group("/lists"))
		socialHandler.RegisterRoutes(api.Group("/social"))
		feedHandler.RegisterRoutes(api.Group("/feed"))
		challengeHandler.RegisterRoutes(api.Group("/challenge"))

		// The recommendation route calls a paid model; keep it behind a
		// per-IP limiter.
		ipLimiter := middleware.NewIPRateLimiter(rate.Every(2*time.Second), 3)
		discover := api.Group("/discover")
		discover.Use(middleware.RateLimit(ipLimiter))
		discoverHandler.RegisterRoutes(discover)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
