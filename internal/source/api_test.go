package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestAPISourceListProperties(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/properties", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		// Older envelope variant: meta/filters alongside data, plus a
		// record that is not an object and must be dropped.
		w.Write([]byte(`{
			"data": [
				{"id": "1", "titulo": "Casa Azul"},
				"garbage",
				{"id": "2", "title": "Loft Condesa", "imagenes": []}
			],
			"meta": {"total": 2},
			"filters": {}
		}`))
	}))
	defer server.Close()

	src := NewAPISource(server.URL, "secret", logrus.New())

	raws, err := src.ListProperties(context.Background(), ListOptions{})
	assert.NoError(t, err)
	assert.Len(t, raws, 2)
	assert.Equal(t, "Casa Azul", raws[0]["titulo"])
}

func TestAPISourceListPropertiesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to fetch properties"}`))
	}))
	defer server.Close()

	src := NewAPISource(server.URL, "", logrus.New())

	_, err := src.ListProperties(context.Background(), ListOptions{})
	assert.Error(t, err)
}

func TestAPISourceSchemaRejectsBrokenImageList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": "1", "imagenes": "not-a-list"}, {"id": "2"}]}`))
	}))
	defer server.Close()

	src := NewAPISource(server.URL, "", logrus.New())

	raws, err := src.ListProperties(context.Background(), ListOptions{})
	assert.NoError(t, err)
	assert.Len(t, raws, 1)
	assert.Equal(t, "2", raws[0]["id"])
}

func TestAPISourceGetBySlugDirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/properties/slug/casa-azul", r.URL.Path)
		w.Write([]byte(`{"data": {"id": "1", "slug": "casa-azul"}}`))
	}))
	defer server.Close()

	src := NewAPISource(server.URL, "", logrus.New())

	raw, err := src.GetBySlug(context.Background(), "casa-azul")
	assert.NoError(t, err)
	assert.NotNil(t, raw)
	assert.Equal(t, "casa-azul", raw["slug"])
}

func TestAPISourceGetBySlugSearchFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/properties/slug/casa-azul" {
			http.NotFound(w, r)
			return
		}

		assert.Equal(t, "/properties", r.URL.Path)
		assert.Equal(t, "casa azul", r.URL.Query().Get("q"))
		w.Write([]byte(`{"data": [
			{"id": "9", "titulo": "Casa Azul Cancún"},
			{"id": "1", "titulo": "Casa Azul"}
		]}`))
	}))
	defer server.Close()

	src := NewAPISource(server.URL, "", logrus.New())

	// The exact slug match wins over the first candidate
	raw, err := src.GetBySlug(context.Background(), "casa-azul")
	assert.NoError(t, err)
	assert.NotNil(t, raw)
	assert.Equal(t, "1", raw["id"])
}

func TestAPISourceGetBySlugNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/properties" {
			w.Write([]byte(`{"data": []}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	src := NewAPISource(server.URL, "", logrus.New())

	raw, err := src.GetBySlug(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, raw)
}
