package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"apero/database"
	"apero/internal/config"
	"apero/internal/microservices/http-api/handler"
	"apero/internal/microservices/http-api/middleware"
	"apero/internal/microservices/http-api/repository"
	"apero/internal/microservices/http-api/service"
	"apero/internal/ranking"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// The API works without Redis; the leaderboard just skips its cache.
	cache, err := repository.NewRankingsCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		logger.Warn("redis unavailable, leaderboard cache disabled", "error", err)
		cache = nil
	}

	// Repositories
	dishRepo := repository.NewDishRepository(db)
	hallRepo := repository.NewDiningHallRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	comparisonRepo := repository.NewComparisonRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	policy := ranking.DefaultPolicy()
	authService := service.NewAuthService(userRepo, cfg)
	dishService := service.NewDishService(dishRepo, hallRepo, reviewRepo, cache, policy)
	rankingService := service.NewRankingService(dishRepo, comparisonRepo, reviewRepo, policy, ranking.DefaultSource())

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	dishHandler := handler.NewDishHandler(dishService)
	comparisonHandler := handler.NewComparisonHandler(rankingService)

	if cfg.GoEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	api := r.Group("/api")
	authHandler.RegisterRoutes(api)

	public := api.Group("")
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))

	dishHandler.RegisterRoutes(public, authed)
	comparisonHandler.RegisterRoutes(authed)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting API server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
