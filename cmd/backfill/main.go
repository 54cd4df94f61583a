package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/alfgow/inmobiliaria-server/config"
	"github.com/alfgow/inmobiliaria-server/internal/backfill"
	"github.com/alfgow/inmobiliaria-server/internal/database"
	"github.com/alfgow/inmobiliaria-server/internal/queue"
)

// Repairs missing and duplicate slugs across the whole listings table, then
// exits. Safe to run repeatedly.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	q := queue.NewInmuebleQueue(cfg.Backfill.BatchSize, logger)
	defer q.Close()

	backfiller := backfill.NewSlugBackfiller(db, q, cfg, logger)
	backfiller.Start()

	stats, err := backfiller.Run(context.Background())
	if err != nil {
		logger.WithError(err).Fatal("Slug backfill failed")
	}

	logger.WithFields(logrus.Fields{
		"scanned": stats.Scanned,
		"updated": stats.Updated,
		"skipped": stats.Skipped,
	}).Info("Backfill finished")
}
