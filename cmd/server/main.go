package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "inputvote/backend/docs"
	"inputvote/backend/internal/catalog"
	"inputvote/backend/internal/config"
	"inputvote/backend/internal/database"
	"inputvote/backend/internal/handler"
	"inputvote/backend/internal/hub"
	"inputvote/backend/internal/logging"
	"inputvote/backend/internal/scheduler"
	"inputvote/backend/internal/steam"
	"inputvote/backend/internal/store"
	"inputvote/backend/internal/vote"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	refreshTimeout  = 10 * time.Minute
)

// @title           Input Vote API
// @version         1.0
// @description     Keyboard or controller? Per-game votes for Steam games.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apiKey SessionCookie
// @in cookie
// @name session
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}

	logger, err := logging.New(cfg.GinMode == gin.DebugMode)
	if err != nil {
		log.Fatalf("Unable to build logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.DatabaseURL, logger); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	steamClient := steam.New(cfg.SteamAPIKey, cfg.SteamHTTPTimeout)
	users := store.NewUserStore(db)
	votes := vote.NewService(store.NewVoteStore(db), logger)
	refresher := catalog.NewRefresher(steam.CatalogSource{Client: steamClient}, store.NewGameStore(db), logger)
	events := hub.New()

	h := handler.New(votes, users, steamClient, refresher, events, logger, handler.Options{
		PublicURL:     cfg.PublicURL,
		JWTSecret:     cfg.JWTSecret,
		SessionTTL:    cfg.SessionTTL,
		CookieSecure:  cfg.CookieSecure,
		FetchProfiles: cfg.SteamAPIKey != "",
	})
	if cfg.SteamAPIKey == "" {
		logger.Warn("STEAM_API_KEY not set, nicknames will not be fetched")
	}

	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(logger))
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler.RegisterRoutes(router, h, users)

	var sched *scheduler.Scheduler
	if cfg.CatalogRefreshSchedule != "" {
		sched, err = scheduler.New(cfg.CatalogRefreshSchedule, refresher, refreshTimeout, logger)
		if err != nil {
			logger.Fatal("invalid catalog refresh schedule", zap.Error(err))
		}
		sched.Start()
		logger.Info("catalog refresh scheduled", zap.String("schedule", cfg.CatalogRefreshSchedule))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Open tally streams would otherwise hold Shutdown until the timeout.
	events.Close()
	if sched != nil {
		sched.Stop(ctx)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
