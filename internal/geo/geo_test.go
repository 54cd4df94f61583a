package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alfgow/inmobiliaria-server/internal/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestBuildMarkersSkipsUnusableCoordinates(t *testing.T) {
	properties := []models.Property{
		{ID: "1", Slug: "a", Latitude: floatPtr(19.43), Longitude: floatPtr(-99.13)},
		{ID: "2", Slug: "b", Latitude: floatPtr(19.43)}, // missing longitude
		{ID: "3", Slug: "c"},
	}

	markers := BuildMarkers(properties)
	assert.Len(t, markers, 1)
	assert.Equal(t, "1", markers[0].ID)
	assert.Equal(t, "/inmuebles/a", markers[0].DetailPath)
	assert.NotEmpty(t, markers[0].Geohash)
}

func TestBuildMarkersPopupContent(t *testing.T) {
	name := "Disponible"
	color := "#22c55e"
	properties := []models.Property{
		{
			ID:        "1",
			Slug:      "casa-azul",
			Title:     strPtr("Casa Azul"),
			Address:   strPtr("Av. Reforma 100"),
			City:      strPtr("CDMX"),
			Price:     floatPtr(1500000),
			Operation: strPtr("venta"),
			Latitude:  floatPtr(19.43),
			Longitude: floatPtr(-99.13),
			Active:    true,
			Status:    &models.Status{ID: 1, Name: &name, Color: &color},
		},
	}

	markers := BuildMarkers(properties)
	m := markers[0]

	assert.Equal(t, "Casa Azul", m.Title)
	// State is nil and must be skipped, not rendered as an empty segment
	assert.Equal(t, "Av. Reforma 100, CDMX", m.AddressLine)
	assert.Equal(t, "Venta", *m.Operation)
	assert.Equal(t, "Disponible", *m.StatusName)
	assert.Equal(t, "#22c55e", *m.StatusColor)
	assert.True(t, m.Available)
	assert.Equal(t, FallbackImage, m.ImageURL)
}

func TestBuildMarkersUnavailableDropsStatusColor(t *testing.T) {
	name := "Vendido"
	color := "#f43f5e"
	properties := []models.Property{
		{
			ID:        "1",
			Slug:      "x",
			Latitude:  floatPtr(19.43),
			Longitude: floatPtr(-99.13),
			Active:    false,
			Status:    &models.Status{ID: 3, Name: &name, Color: &color},
		},
	}

	markers := BuildMarkers(properties)
	assert.False(t, markers[0].Available)
	assert.Equal(t, "Vendido", *markers[0].StatusName)
	assert.Nil(t, markers[0].StatusColor)
}

func TestPriceLabel(t *testing.T) {
	assert.Equal(t, ConsultLabel, PriceLabel(nil))

	label := PriceLabel(floatPtr(1500000))
	assert.Contains(t, label, "1,500,000")
	assert.Contains(t, label, "$")
	assert.NotContains(t, label, ".00")
}

func TestComputeViewportFallback(t *testing.T) {
	viewport := ComputeViewport(nil, 1280)

	assert.Equal(t, DefaultCenterLat, viewport.CenterLat)
	assert.Equal(t, DefaultCenterLon, viewport.CenterLon)
	assert.Equal(t, DefaultZoom, viewport.Zoom)
	assert.Nil(t, viewport.Bounds)
	assert.Equal(t, 60, viewport.Padding)
}

func TestComputeViewportFitsBounds(t *testing.T) {
	markers := []Marker{
		{Latitude: 19.43, Longitude: -99.13, Geohash: "a"},
		{Latitude: 20.97, Longitude: -89.62, Geohash: "b"},
	}

	viewport := ComputeViewport(markers, 1280)

	assert.NotNil(t, viewport.Bounds)
	assert.Equal(t, 19.43, viewport.Bounds.MinLat)
	assert.Equal(t, 20.97, viewport.Bounds.MaxLat)
	assert.Equal(t, -99.13, viewport.Bounds.MinLon)
	assert.Equal(t, -89.62, viewport.Bounds.MaxLon)
	assert.InDelta(t, 20.2, viewport.CenterLat, 0.1)
	assert.LessOrEqual(t, viewport.Zoom, MaxZoom)
	assert.GreaterOrEqual(t, viewport.Zoom, 1.0)
}

func TestComputeViewportNarrowPadding(t *testing.T) {
	viewport := ComputeViewport(nil, 390)
	assert.Equal(t, 32, viewport.Padding)
}

func TestComputeViewportColocatedMarkersCapZoom(t *testing.T) {
	markers := BuildMarkers([]models.Property{
		{ID: "1", Slug: "a", Latitude: floatPtr(19.4326), Longitude: floatPtr(-99.1332)},
		{ID: "2", Slug: "b", Latitude: floatPtr(19.4326), Longitude: floatPtr(-99.1332)},
	})

	viewport := ComputeViewport(markers, 1280)
	assert.Equal(t, MaxZoom, viewport.Zoom)
}

func TestSanitizeStyle(t *testing.T) {
	assert.Equal(t, "alfgow/base", SanitizeStyle("mapbox://styles/alfgow/base", "fallback"))
	assert.Equal(t, "alfgow/base", SanitizeStyle("https://api.mapbox.com/styles/v1/alfgow/base/tiles/1/2/3", "fallback"))
	assert.Equal(t, "fallback", SanitizeStyle("  ", "fallback"))
}

func TestTileURL(t *testing.T) {
	url, ok := TileURL("token123", "alfgow/base")
	assert.True(t, ok)
	assert.Contains(t, url, "alfgow/base/tiles/{z}/{x}/{y}")
	assert.Contains(t, url, "access_token=token123")

	_, ok = TileURL("", "alfgow/base")
	assert.False(t, ok)
}
