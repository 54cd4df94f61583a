package database

import (
	"encoding/json"
	"time"

	"github.com/alfgow/inmobiliaria-server/internal/models"
)

// Estatus is the commercial status catalog row ("Disponible", "Vendido", ...).
type Estatus struct {
	ID     int     `gorm:"column:id;primaryKey"`
	Nombre string  `gorm:"column:nombre"`
	Color  *string `gorm:"column:color"`
}

func (Estatus) TableName() string { return "estatus" }

// Imagen is a gallery asset row. Metadata carries the freeform JSON blob the
// admin tool writes (title, description, isCover, isPublic).
type Imagen struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	InmuebleID uint64    `gorm:"column:inmueble_id;index"`
	URL        *string   `gorm:"column:url"`
	S3Key      *string   `gorm:"column:s3_key"`
	Orden      int       `gorm:"column:orden"`
	Metadata   *string   `gorm:"column:metadata"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (Imagen) TableName() string { return "imagenes" }

// Inmueble mirrors the historical listings schema: Spanish column names, all
// descriptive fields nullable. The normalizer is the only place that knows how
// to turn this into the canonical Property.
type Inmueble struct {
	ID          uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	Titulo      *string `gorm:"column:titulo"`
	Slug        *string `gorm:"column:slug;uniqueIndex"`
	Descripcion *string `gorm:"column:descripcion"`

	Precio    *float64 `gorm:"column:precio"`
	Operacion *string  `gorm:"column:operacion"`
	Tipo      *string  `gorm:"column:tipo"`

	Direccion    *string  `gorm:"column:direccion"`
	Colonia      *string  `gorm:"column:colonia"`
	Municipio    *string  `gorm:"column:municipio"`
	Estado       *string  `gorm:"column:estado"`
	CodigoPostal *string  `gorm:"column:codigo_postal"`
	Latitud      *float64 `gorm:"column:latitud"`
	Longitud     *float64 `gorm:"column:longitud"`

	Habitaciones         *float64 `gorm:"column:habitaciones"`
	Banos                *float64 `gorm:"column:banos"`
	MediosBanos          *float64 `gorm:"column:medios_banos"`
	Estacionamientos     *float64 `gorm:"column:estacionamientos"`
	SuperficieTerreno    *float64 `gorm:"column:superficie_terreno"`
	SuperficieConstruida *float64 `gorm:"column:superficie_construida"`
	AnioConstruccion     *float64 `gorm:"column:anio_construccion"`

	Destacado bool     `gorm:"column:destacado"`
	EstatusID *int     `gorm:"column:estatus_id"`
	Estatus   *Estatus `gorm:"foreignKey:EstatusID"`

	Imagenes []Imagen `gorm:"foreignKey:InmuebleID"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Inmueble) TableName() string { return "inmuebles" }

// ToRaw renders the row as the loosely-typed legacy payload the normalizer
// consumes, exactly like the ORM backend serialized it.
func (i *Inmueble) ToRaw() models.RawProperty {
	raw := models.RawProperty{
		"id":                    float64(i.ID),
		"titulo":                anyString(i.Titulo),
		"descripcion":           anyString(i.Descripcion),
		"operacion":             anyString(i.Operacion),
		"tipo":                  anyString(i.Tipo),
		"direccion":             anyString(i.Direccion),
		"colonia":               anyString(i.Colonia),
		"municipio":             anyString(i.Municipio),
		"estado":                anyString(i.Estado),
		"codigo_postal":         anyString(i.CodigoPostal),
		"destacado":             i.Destacado,
		"precio":                anyFloat(i.Precio),
		"latitud":               anyFloat(i.Latitud),
		"longitud":              anyFloat(i.Longitud),
		"habitaciones":          anyFloat(i.Habitaciones),
		"banos":                 anyFloat(i.Banos),
		"medios_banos":          anyFloat(i.MediosBanos),
		"estacionamientos":      anyFloat(i.Estacionamientos),
		"superficie_terreno":    anyFloat(i.SuperficieTerreno),
		"superficie_construida": anyFloat(i.SuperficieConstruida),
		"anio_construccion":     anyFloat(i.AnioConstruccion),
		"createdAt":             i.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":             i.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if i.Slug != nil && *i.Slug != "" {
		raw["slug"] = *i.Slug
	}

	if i.Estatus != nil {
		raw["estatus"] = map[string]interface{}{
			"id":     float64(i.Estatus.ID),
			"nombre": i.Estatus.Nombre,
			"color":  anyString(i.Estatus.Color),
		}
	} else if i.EstatusID != nil {
		raw["estatus"] = map[string]interface{}{"id": float64(*i.EstatusID)}
	}

	imagenes := make([]interface{}, 0, len(i.Imagenes))
	for _, img := range i.Imagenes {
		entry := map[string]interface{}{
			"id":    float64(img.ID),
			"url":   anyString(img.URL),
			"s3Key": anyString(img.S3Key),
			"orden": float64(img.Orden),
		}
		if img.Metadata != nil && *img.Metadata != "" {
			var metadata map[string]interface{}
			if err := json.Unmarshal([]byte(*img.Metadata), &metadata); err == nil {
				entry["metadata"] = metadata
			}
		}
		imagenes = append(imagenes, entry)
	}
	raw["imagenes"] = imagenes

	return raw
}

func anyString(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

func anyFloat(value *float64) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
