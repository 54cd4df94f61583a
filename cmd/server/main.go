package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/alfgow/inmobiliaria-server/config"
	"github.com/alfgow/inmobiliaria-server/internal/api"
	"github.com/alfgow/inmobiliaria-server/internal/database"
	"github.com/alfgow/inmobiliaria-server/internal/normalize"
	"github.com/alfgow/inmobiliaria-server/internal/signer"
	"github.com/alfgow/inmobiliaria-server/internal/source"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Optional .env for local development; env vars win either way.
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	src, err := buildSource(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize property source")
	}

	var urlSigner signer.Signer
	if cfg.Storage.SignerEndpoint != "" {
		urlSigner = signer.NewHTTPSigner(cfg.Storage.SignerEndpoint, cfg.Storage.Bucket, logger)
	}

	catalog := source.NewCatalog(
		src,
		normalize.New(),
		urlSigner,
		time.Duration(cfg.Storage.SignExpiry)*time.Second,
		logger,
	)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Api-Key")
	router.Use(cors.New(corsConfig))

	api.SetupRoutes(router, catalog, cfg, logger)

	logger.WithFields(logrus.Fields{
		"port":    cfg.Server.Port,
		"backend": cfg.Backend,
	}).Info("Starting server")

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}

// buildSource picks the raw-record backend: the local ORM-backed store or the
// remote listings API.
func buildSource(cfg *config.Config, logger *logrus.Logger) (source.Source, error) {
	switch cfg.Backend {
	case "api":
		logger.WithField("base_url", cfg.API.BaseURL).Info("Using remote API backend")
		return source.NewAPISource(cfg.API.BaseURL, cfg.API.Key, logger), nil
	default:
		logger.WithField("path", cfg.Database.Path).Info("Using database backend")
		db, err := database.NewDatabase(cfg.Database.Path, logger)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			return nil, err
		}
		return source.NewDatabaseSource(db), nil
	}
}
