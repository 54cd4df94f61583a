package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfgow/inmobiliaria-server/config"
	"github.com/alfgow/inmobiliaria-server/internal/database"
	"github.com/alfgow/inmobiliaria-server/internal/models"
	"github.com/alfgow/inmobiliaria-server/internal/source"
)

type fakeBackend struct {
	properties []models.RawProperty
	err        error
}

func (f *fakeBackend) ListProperties(ctx context.Context, opts source.ListOptions) ([]models.RawProperty, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.properties, nil
}

func (f *fakeBackend) GetBySlug(ctx context.Context, slug string) (models.RawProperty, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, raw := range f.properties {
		if raw["slug"] == slug {
			return raw, nil
		}
	}
	return nil, nil
}

func setupRouter(backend source.Source, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()

	catalog := source.NewCatalog(backend, nil, nil, 0, logger)
	router := gin.New()
	SetupRoutes(router, catalog, cfg, logger)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(recorder, request)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, body
}

func sampleProperties() []models.RawProperty {
	return []models.RawProperty{
		{
			"id":        "1",
			"titulo":    "Casa Azul",
			"precio":    "1,500,000",
			"operacion": "venta",
			"municipio": "Mérida",
			"latitud":   20.97,
			"longitud":  -89.62,
			"destacado": true,
		},
		{
			"id":        "2",
			"titulo":    "Loft Centro",
			"precio":    900000.0,
			"operacion": "renta",
		},
	}
}

func TestGetProperties(t *testing.T) {
	router := setupRouter(&fakeBackend{properties: sampleProperties()}, &config.Config{})

	recorder, body := doRequest(t, router, "/api/properties")

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := body["data"].([]interface{})
	require.Len(t, data, 2)

	first := data[0].(map[string]interface{})
	assert.Equal(t, "casa-azul", first["slug"])
	assert.Equal(t, 1500000.0, first["price"])

	filters := body["filters"].(map[string]interface{})
	assert.ElementsMatch(t, []interface{}{"venta", "renta"}, filters["operations"])
}

func TestGetProperties_FilterAndSort(t *testing.T) {
	router := setupRouter(&fakeBackend{properties: sampleProperties()}, &config.Config{})

	recorder, body := doRequest(t, router, "/api/properties?operation=renta")

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "loft-centro", data[0].(map[string]interface{})["slug"])
}

func TestGetProperties_SearchMatchesCityAndDiacritics(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"), logrus.New())
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	titulo1, municipio1 := "Casa Bonita", "CDMX"
	titulo2, municipio2 := "Casa en Mérida", "Mérida"
	require.NoError(t, db.GetDB().Create(&database.Inmueble{Titulo: &titulo1, Municipio: &municipio1}).Error)
	require.NoError(t, db.GetDB().Create(&database.Inmueble{Titulo: &titulo2, Municipio: &municipio2}).Error)

	router := setupRouter(source.NewDatabaseSource(db), &config.Config{})

	// City match: the title never mentions the city.
	recorder, body := doRequest(t, router, "/api/properties?q=cdmx")
	assert.Equal(t, http.StatusOK, recorder.Code)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "casa-bonita", data[0].(map[string]interface{})["slug"])

	// Diacritic-insensitive match: "merida" must find "Mérida".
	recorder, body = doRequest(t, router, "/api/properties?q=merida")
	assert.Equal(t, http.StatusOK, recorder.Code)
	data = body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "casa-en-merida", data[0].(map[string]interface{})["slug"])
}

func TestGetProperties_BackendFailure(t *testing.T) {
	router := setupRouter(&fakeBackend{err: errors.New("connection refused")}, &config.Config{})

	recorder, body := doRequest(t, router, "/api/properties")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "No se pudieron cargar las propiedades", body["error"])
}

func TestGetPropertyBySlug(t *testing.T) {
	backend := &fakeBackend{properties: []models.RawProperty{
		{"id": "1", "titulo": "Casa Azul", "slug": "casa-azul"},
	}}
	router := setupRouter(backend, &config.Config{})

	recorder, body := doRequest(t, router, "/api/properties/casa-azul")

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Casa Azul", data["title"])
}

func TestGetPropertyBySlug_NotFound(t *testing.T) {
	router := setupRouter(&fakeBackend{}, &config.Config{})

	recorder, body := doRequest(t, router, "/api/properties/no-such-slug")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Propiedad no encontrada", body["error"])
}

func TestGetFeatured(t *testing.T) {
	router := setupRouter(&fakeBackend{properties: sampleProperties()}, &config.Config{})

	recorder, body := doRequest(t, router, "/api/featured")

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)

	card := data[0].(map[string]interface{})
	assert.Equal(t, "casa-azul", card["slug"])
	assert.Equal(t, "$1,500,000 MXN", card["priceLabel"])
}

func TestGetMap(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mapbox.Token = "pk.test"
	cfg.Mapbox.Style = "alfgow/style"
	router := setupRouter(&fakeBackend{properties: sampleProperties()}, cfg)

	recorder, body := doRequest(t, router, "/api/map?width=480")

	assert.Equal(t, http.StatusOK, recorder.Code)

	markers := body["markers"].([]interface{})
	require.Len(t, markers, 1)
	assert.Equal(t, "casa-azul", markers[0].(map[string]interface{})["slug"])

	viewport := body["viewport"].(map[string]interface{})
	assert.Equal(t, 32.0, viewport["padding"])

	tiles := body["tiles"].(map[string]interface{})
	assert.Equal(t, true, tiles["available"])
	assert.Contains(t, tiles["url"], "alfgow/style")
}

func TestGetMap_NoToken(t *testing.T) {
	router := setupRouter(&fakeBackend{properties: sampleProperties()}, &config.Config{})

	recorder, body := doRequest(t, router, "/api/map")

	assert.Equal(t, http.StatusOK, recorder.Code)
	tiles := body["tiles"].(map[string]interface{})
	assert.Equal(t, false, tiles["available"])
	assert.Equal(t, "", tiles["url"])
}

func TestGetHealth(t *testing.T) {
	router := setupRouter(&fakeBackend{}, &config.Config{})

	recorder, body := doRequest(t, router, "/api/health")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ok", body["status"])
}
