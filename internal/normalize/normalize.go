package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/alfgow/inmobiliaria-server/internal/models"
)

// Field aliases in resolution order: newest name first, then each historical
// name in the order it appeared across backend schema versions. Adding support
// for another vintage means appending here, not touching the resolver logic.
var fieldAliases = map[string][]string{
	"id":           {"id"},
	"slug":         {"slug"},
	"title":        {"title", "titulo"},
	"description":  {"description", "descripcion"},
	"price":        {"price", "precio"},
	"operation":    {"operation", "operacion"},
	"type":         {"type", "tipo"},
	"address":      {"address", "direccion"},
	"neighborhood": {"neighborhood", "colonia"},
	"city":         {"city", "municipio", "ciudad"},
	"state":        {"state", "estado"},
	"postalCode":   {"postalCode", "codigoPostal", "codigo_postal"},
	"latitude":     {"latitude", "location.latitude", "latitud"},
	"longitude":    {"longitude", "location.longitude", "longitud"},

	"rooms":              {"rooms", "habitaciones", "recamaras"},
	"bathrooms":          {"bathrooms", "banos"},
	"halfBathrooms":      {"halfBathrooms", "mediosBanos", "medios_banos"},
	"parkingSpots":       {"parkingSpots", "estacionamientos"},
	"landSizeM2":         {"landSizeM2", "superficie_terreno", "superficieTerreno"},
	"constructionSizeM2": {"constructionSizeM2", "superficie_construida", "superficieConstruida"},
	"age":                {"age", "anio_construccion", "antiguedad"},

	"featured":  {"featured", "destacado"},
	"status":    {"status", "estatus"},
	"images":    {"images", "imagenes"},
	"createdAt": {"createdAt", "created_at"},
	"updatedAt": {"updatedAt", "updated_at"},
}

// Fields that carry an explicit availability flag, checked before any
// status-based derivation.
var availabilityAliases = []string{"isAvailable", "is_available", "active", "disponible"}

// Normalizer converts raw backend records into canonical properties. NewID
// supplies fallback identifiers for records missing both id and title; it is
// injected so tests can make normalization fully deterministic.
type Normalizer struct {
	NewID func() string
}

// New returns a Normalizer backed by random UUID fallback identifiers.
func New() *Normalizer {
	return &Normalizer{NewID: uuid.NewString}
}

// Normalize maps a raw record in any known shape to the canonical Property.
// It never panics: unparseable or missing fields degrade to their documented
// defaults, and the result always carries a non-empty ID and Slug.
func (n *Normalizer) Normalize(raw models.RawProperty) models.Property {
	p := models.Property{
		Title:       n.resolveString(raw, "title"),
		Description: n.resolveString(raw, "description"),
		Operation:   n.resolveString(raw, "operation"),
		Type:        n.resolveString(raw, "type"),

		Address:      n.resolveString(raw, "address"),
		Neighborhood: n.resolveString(raw, "neighborhood"),
		City:         n.resolveString(raw, "city"),
		State:        n.resolveString(raw, "state"),
		PostalCode:   n.resolveString(raw, "postalCode"),

		Rooms:              n.resolveNumber(raw, "rooms"),
		Bathrooms:          n.resolveNumber(raw, "bathrooms"),
		HalfBathrooms:      n.resolveNumber(raw, "halfBathrooms"),
		ParkingSpots:       n.resolveNumber(raw, "parkingSpots"),
		LandSizeM2:         n.resolveNumber(raw, "landSizeM2"),
		ConstructionSizeM2: n.resolveNumber(raw, "constructionSizeM2"),
		Age:                n.resolveNumber(raw, "age"),

		CreatedAt: n.resolveDate(raw, "createdAt"),
		UpdatedAt: n.resolveDate(raw, "updatedAt"),
	}

	if price := n.resolveNumber(raw, "price"); price != nil && *price >= 0 {
		p.Price = price
	}

	p.Latitude, p.Longitude = n.resolveCoordinates(raw)
	p.Status = n.resolveStatus(raw)
	p.Featured = n.resolveBool(raw, "featured")
	p.Active = n.deriveAvailability(raw, p.Status)
	p.Images = n.resolveImages(raw)

	p.ID = n.resolveID(raw)
	p.Slug = n.resolveSlug(raw, p.Title, p.ID)

	return p
}

func (n *Normalizer) resolveID(raw models.RawProperty) string {
	if id := formatIdentifier(lookupAlias(raw, "id")); id != "" {
		return id
	}
	return n.newID()
}

func (n *Normalizer) resolveSlug(raw models.RawProperty, title *string, id string) string {
	if slug := ParseString(lookupAlias(raw, "slug")); slug != nil {
		return *slug
	}
	if title != nil {
		if slug := Slugify(*title); slug != "" {
			return slug
		}
	}
	return id
}

func (n *Normalizer) newID() string {
	if n.NewID != nil {
		return n.NewID()
	}
	return uuid.NewString()
}

func (n *Normalizer) resolveString(raw models.RawProperty, field string) *string {
	return ParseString(lookupAlias(raw, field))
}

func (n *Normalizer) resolveNumber(raw models.RawProperty, field string) *float64 {
	return ParseNumber(lookupAlias(raw, field))
}

func (n *Normalizer) resolveBool(raw models.RawProperty, field string) bool {
	return ParseBool(lookupAlias(raw, field))
}

func (n *Normalizer) resolveDate(raw models.RawProperty, field string) *string {
	return ParseDate(lookupAlias(raw, field))
}

// resolveCoordinates validates both halves of the pair independently; a value
// outside the WGS84 range degrades to nil instead of failing the record.
func (n *Normalizer) resolveCoordinates(raw models.RawProperty) (*float64, *float64) {
	lat := ParseNumber(lookupAlias(raw, "latitude"))
	lon := ParseNumber(lookupAlias(raw, "longitude"))
	if lat != nil && (*lat < -90 || *lat > 90) {
		lat = nil
	}
	if lon != nil && (*lon < -180 || *lon > 180) {
		lon = nil
	}
	return lat, lon
}

func (n *Normalizer) resolveStatus(raw models.RawProperty) *models.Status {
	value := lookupAlias(raw, "status")
	statusMap, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}

	status := &models.Status{
		Color: ParseString(statusMap["color"]),
	}
	if name := ParseString(statusMap["name"]); name != nil {
		status.Name = name
	} else {
		status.Name = ParseString(statusMap["nombre"])
	}
	if id := ParseNumber(statusMap["id"]); id != nil {
		status.ID = int(*id)
	}
	return status
}

// deriveAvailability reconciles the divergent availability conventions seen
// across backends. Precedence: explicit boolean flag, then status-name
// substrings, then statusId == 1, then available by default.
func (n *Normalizer) deriveAvailability(raw models.RawProperty, status *models.Status) bool {
	for _, key := range availabilityAliases {
		if value, ok := raw[key]; ok && value != nil {
			return ParseBool(value)
		}
	}

	if status != nil && status.Name != nil {
		name := Fold(*status.Name)
		if strings.Contains(name, "vendido") || strings.Contains(name, "rentado") {
			return false
		}
		if strings.Contains(name, "disponible") || strings.Contains(name, "activo") {
			return true
		}
	}

	if status != nil && status.ID != 0 {
		return status.ID == 1
	}

	return true
}

func (n *Normalizer) resolveImages(raw models.RawProperty) []models.Image {
	value := lookupAlias(raw, "images")
	entries, ok := value.([]interface{})
	if !ok {
		return []models.Image{}
	}

	images := make([]models.Image, 0, len(entries))
	for i, entry := range entries {
		imageMap, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		images = append(images, normalizeImage(imageMap, i))
	}
	return images
}

// EnsureUniqueSlugs rewrites colliding slugs within a batch: first by
// appending the record id, then an incrementing counter. The relative order
// of the batch is preserved.
func EnsureUniqueSlugs(properties []models.Property) {
	seen := make(map[string]bool, len(properties))
	for i := range properties {
		slug := properties[i].Slug
		if seen[slug] {
			candidate := slug + "-" + properties[i].ID
			for counter := 2; seen[candidate]; counter++ {
				candidate = fmt.Sprintf("%s-%s-%d", slug, properties[i].ID, counter)
			}
			slug = candidate
		}
		seen[slug] = true
		properties[i].Slug = slug
	}
}

// lookupAlias walks the alias list of a field and returns the first non-nil
// value found. Aliases may address nested objects with a dot ("location.latitude").
func lookupAlias(raw models.RawProperty, field string) interface{} {
	for _, alias := range fieldAliases[field] {
		if value := lookupPath(map[string]interface{}(raw), alias); value != nil {
			return value
		}
	}
	return nil
}

func lookupPath(object map[string]interface{}, path string) interface{} {
	current := object
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		value, ok := current[segment]
		if !ok || value == nil {
			return nil
		}
		if i == len(segments)-1 {
			return value
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

// formatIdentifier renders ids that arrive as strings or JSON numbers without
// a decimal tail ("42", not "42.000000").
func formatIdentifier(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
