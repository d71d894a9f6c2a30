package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"swipeNews/app/echo-server/router"
	"swipeNews/business/bandit"
	"swipeNews/business/feed"
	"swipeNews/internal/middleware"
	"swipeNews/internal/repository/newsapi"
	psqlRepo "swipeNews/internal/repository/postgres"
	redisRepo "swipeNews/internal/repository/redis"
	"swipeNews/internal/rest"
	"swipeNews/pkg/config"
	"swipeNews/pkg/database"
	redisDB "swipeNews/pkg/database/redis"
	"swipeNews/pkg/logger"
	"swipeNews/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.Init(cfg.App.Environment)
		logger.Info("Starting swipeNews", "version", cfg.App.Version)

		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer database.ClosePostgres(db)
		logger.Info("Database connected successfully")

		rdb, err := redisDB.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisDB.CloseRedisClient(rdb)

		metrics.Init()
		e := newServer(cfg, db, rdb)

		go func() {
			addr := fmt.Sprintf(":%s", cfg.Server.Port)
			logger.Info("Server starting", "address", addr)
			if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
				logger.Fatal("Failed to start server", "error", err)
			}
		}()

		// Graceful shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}

		logger.Info("Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newServer wires repositories, the feed engine and HTTP routes. rdb may be nil.
func newServer(cfg *config.Config, db *gorm.DB, rdb *goredis.Client) *echo.Echo {
	// Init content source
	var source feed.ContentSource = newsapi.NewNewsAPIRepository(newsapi.NewsAPIConfig{
		BaseURL:       cfg.News.BaseURL,
		APIKey:        cfg.News.APIKey,
		Timeout:       cfg.News.Timeout,
		RatePerSecond: cfg.News.RatePerSecond,
		Burst:         cfg.News.Burst,
	})

	// Init engine
	feedCfg := feed.DefaultConfig()
	feedCfg.SeenCap = cfg.Feed.SeenCap
	feedCfg.MaxPages = cfg.Feed.MaxPages
	feedCfg.PageCeiling = cfg.Feed.PageCeiling
	feedCfg.DefaultCountry = cfg.News.DefaultCountry
	feedCfg.FetchTimeout = cfg.News.Timeout

	// The lock must outlive the slowest request it guards.
	var locker feed.UserLocker
	if rdb != nil {
		source = redisRepo.NewPageCacheRepository(rdb, source, cfg.News.CacheTTL)
		lockTTL := max(cfg.Redis.LockTTL, feedCfg.WorstCasePull()+10*time.Second)
		locker = redisRepo.NewUserLockRepository(rdb, lockTTL, cfg.Redis.LockWait)
		logger.Info("Redis page cache and user lock enabled", "lock_ttl", lockTTL)
	}

	sampler := bandit.NewSamplerFromConfig(bandit.Config{Seed: cfg.App.Seed})
	shuffle := bandit.NewLockedSource(time.Now().UnixNano() + 1)
	engine := feed.NewEngine(
		bandit.NewSelector(sampler),
		feed.NewAssembler(source, feedCfg, shuffle),
		feedCfg,
	)

	// Init repo
	userFeedRepo := psqlRepo.NewUserFeedRepository(db)
	swipeEventRepo := psqlRepo.NewSwipeEventRepository(db)

	// Init service
	feedService := feed.NewService(userFeedRepo, swipeEventRepo, locker, engine)

	// Init handler
	feedHandler := rest.NewFeedHandler(feedService, engine.Config().WorstCasePull())

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Trace())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api")
	router.SetupFeedRoutes(api, feedHandler, cfg.JWT.SecretKey)
	router.SetupUserRoutes(api, feedHandler, cfg.JWT.SecretKey)

	return e
}
