package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alfgow/inmobiliaria-server/config"
	"github.com/alfgow/inmobiliaria-server/internal/source"
)

func SetupRoutes(router *gin.Engine, catalog *source.Catalog, cfg *config.Config, logger *logrus.Logger) {
	handler := NewHandler(catalog, cfg, logger)

	api := router.Group("/api")
	{
		api.GET("/properties", handler.GetProperties)
		api.GET("/properties/:slug", handler.GetPropertyBySlug)
		api.GET("/featured", handler.GetFeatured)
		api.GET("/map", handler.GetMap)
		api.GET("/health", handler.GetHealth)
	}
}
