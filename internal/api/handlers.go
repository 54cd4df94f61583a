package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alfgow/inmobiliaria-server/config"
	"github.com/alfgow/inmobiliaria-server/internal/geo"
	"github.com/alfgow/inmobiliaria-server/internal/listing"
	"github.com/alfgow/inmobiliaria-server/internal/source"
)

// defaultMapStyle is the style served when the configured one does not
// sanitize to a usable path.
const defaultMapStyle = "alfgow/cmgnbz7aw000u01ry7bnx7rzp"

type Handler struct {
	catalog *source.Catalog
	config  *config.Config
	logger  *logrus.Logger
}

// ListQuery carries the listing filter parameters of the properties endpoint.
type ListQuery struct {
	Limit     int    `form:"limit"`
	Query     string `form:"q"`
	Operation string `form:"operation"`
	Status    string `form:"status"`
	Sort      string `form:"sort"`
}

func NewHandler(catalog *source.Catalog, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		catalog: catalog,
		config:  cfg,
		logger:  logger,
	}
}

func (h *Handler) GetProperties(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse listing query")
	}

	// The free-text search runs in memory over the capped batch: backend
	// narrowing is byte-level and title-only, so it would drop records the
	// filter layer matches on city, state or folded diacritics.
	properties, err := h.catalog.ListProperties(c.Request.Context(), source.ListOptions{
		Limit: query.Limit,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron cargar las propiedades"})
		return
	}

	filters := listing.Filters{
		Operation: query.Operation,
		Status:    query.Status,
		Query:     query.Query,
		Sort:      listing.SortOption(query.Sort),
	}

	c.JSON(http.StatusOK, gin.H{
		"data": filters.Apply(properties),
		"filters": gin.H{
			"operations": listing.AvailableOperations(properties),
			"statuses":   listing.AvailableStatuses(properties),
		},
	})
}

func (h *Handler) GetPropertyBySlug(c *gin.Context) {
	slug := c.Param("slug")

	property := h.catalog.GetPropertyBySlug(c.Request.Context(), slug)
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": property})
}

func (h *Handler) GetFeatured(c *gin.Context) {
	properties, err := h.catalog.ListProperties(c.Request.Context(), source.ListOptions{})
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch featured properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron cargar las propiedades"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": listing.FeaturedCards(properties)})
}

func (h *Handler) GetMap(c *gin.Context) {
	properties, err := h.catalog.ListProperties(c.Request.Context(), source.ListOptions{})
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch properties for map")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron cargar las propiedades"})
		return
	}

	width, err := strconv.Atoi(c.DefaultQuery("width", "1024"))
	if err != nil || width <= 0 {
		width = 1024
	}

	markers := geo.BuildMarkers(properties)
	viewport := geo.ComputeViewport(markers, width)

	stylePath := geo.SanitizeStyle(h.config.Mapbox.Style, defaultMapStyle)
	tileURL, available := geo.TileURL(h.config.Mapbox.Token, stylePath)

	c.JSON(http.StatusOK, gin.H{
		"markers":  markers,
		"viewport": viewport,
		"tiles": gin.H{
			"url":         tileURL,
			"available":   available,
			"attribution": geo.MapboxAttribution,
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
