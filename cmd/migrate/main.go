package main

import (
	"flag"
	"log"

	"inputvote/backend/internal/config"
	"inputvote/backend/internal/database"
	"inputvote/backend/internal/logging"

	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up (-1 rolls back everything)")
	flag.Parse()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}
	logger, err := logging.New(false)
	if err != nil {
		log.Fatalf("Unable to build logger: %v", err)
	}
	defer logger.Sync()

	switch {
	case *down == 0:
		if err := database.Migrate(cfg.DatabaseURL, logger); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
		logger.Info("database migrations applied")
	case *down < 0:
		if err := database.Rollback(cfg.DatabaseURL, 0); err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		logger.Info("all migrations rolled back")
	default:
		if err := database.Rollback(cfg.DatabaseURL, *down); err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		logger.Info("migrations rolled back", zap.Int("steps", *down))
	}
}
