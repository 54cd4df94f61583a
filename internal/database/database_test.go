package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Database {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"), logrus.New())
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	return db
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestListInmuebles_FeaturedFirst(t *testing.T) {
	db := setupTestDB(t)

	older := time.Now().Add(-time.Hour)
	require.NoError(t, db.GetDB().Create(&Inmueble{Titulo: strPtr("Plain Old"), CreatedAt: older}).Error)
	require.NoError(t, db.GetDB().Create(&Inmueble{Titulo: strPtr("Plain New")}).Error)
	require.NoError(t, db.GetDB().Create(&Inmueble{Titulo: strPtr("Destacado"), Destacado: true, CreatedAt: older}).Error)

	inmuebles, err := db.ListInmuebles(context.Background(), 0, "")
	require.NoError(t, err)
	require.Len(t, inmuebles, 3)

	assert.Equal(t, "Destacado", *inmuebles[0].Titulo)
	assert.Equal(t, "Plain New", *inmuebles[1].Titulo)
	assert.Equal(t, "Plain Old", *inmuebles[2].Titulo)
}

func TestListInmuebles_Query(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.GetDB().Create(&Inmueble{Titulo: strPtr("Casa Azul")}).Error)
	require.NoError(t, db.GetDB().Create(&Inmueble{Titulo: strPtr("Loft Centro"), Municipio: strPtr("CDMX")}).Error)

	inmuebles, err := db.ListInmuebles(context.Background(), 10, "Azul")
	require.NoError(t, err)
	require.Len(t, inmuebles, 1)
	assert.Equal(t, "Casa Azul", *inmuebles[0].Titulo)

	// The LIKE hint also covers city and state columns.
	inmuebles, err = db.ListInmuebles(context.Background(), 10, "CDMX")
	require.NoError(t, err)
	require.Len(t, inmuebles, 1)
	assert.Equal(t, "Loft Centro", *inmuebles[0].Titulo)
}

func TestGetInmuebleBySlug(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.GetDB().Create(&Estatus{ID: 1, Nombre: "Disponible", Color: strPtr("#0a0")}).Error)
	row := &Inmueble{
		Titulo:    strPtr("Casa Azul"),
		Slug:      strPtr("casa-azul"),
		EstatusID: intPtr(1),
	}
	require.NoError(t, db.GetDB().Create(row).Error)
	require.NoError(t, db.GetDB().Create(&Imagen{
		InmuebleID: row.ID,
		S3Key:      strPtr("inmuebles/1/portada.jpg"),
		Orden:      0,
	}).Error)

	found, err := db.GetInmuebleBySlug(context.Background(), "casa-azul")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.Estatus)
	assert.Equal(t, "Disponible", found.Estatus.Nombre)
	require.Len(t, found.Imagenes, 1)

	missing, err := db.GetInmuebleBySlug(context.Background(), "no-such")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInmuebleToRaw(t *testing.T) {
	metadata := `{"isCover":true,"title":"Fachada"}`
	row := &Inmueble{
		ID:        7,
		Titulo:    strPtr("Casa Azul"),
		Slug:      strPtr("casa-azul"),
		Precio:    floatPtr(1500000),
		Municipio: strPtr("Mérida"),
		Destacado: true,
		Estatus:   &Estatus{ID: 1, Nombre: "Disponible"},
		Imagenes: []Imagen{
			{ID: 3, S3Key: strPtr("inmuebles/7/a.jpg"), Orden: 1, Metadata: &metadata},
		},
	}

	raw := row.ToRaw()

	assert.Equal(t, "Casa Azul", raw["titulo"])
	assert.Equal(t, "casa-azul", raw["slug"])
	assert.Equal(t, 1500000.0, raw["precio"])
	assert.Equal(t, true, raw["destacado"])
	assert.Nil(t, raw["descripcion"])

	estatus := raw["estatus"].(map[string]interface{})
	assert.Equal(t, 1.0, estatus["id"])
	assert.Equal(t, "Disponible", estatus["nombre"])

	imagenes := raw["imagenes"].([]interface{})
	require.Len(t, imagenes, 1)
	entry := imagenes[0].(map[string]interface{})
	assert.Equal(t, "inmuebles/7/a.jpg", entry["s3Key"])
	assert.Equal(t, 1.0, entry["orden"])

	meta := entry["metadata"].(map[string]interface{})
	assert.Equal(t, true, meta["isCover"])
	assert.Equal(t, "Fachada", meta["title"])
}

func TestInmuebleToRaw_StatusIDOnly(t *testing.T) {
	row := &Inmueble{ID: 2, EstatusID: intPtr(3)}

	raw := row.ToRaw()

	estatus := raw["estatus"].(map[string]interface{})
	assert.Equal(t, 3.0, estatus["id"])
	_, hasNombre := estatus["nombre"]
	assert.False(t, hasNombre)
}
