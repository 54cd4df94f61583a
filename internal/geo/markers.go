package geo

import (
	"strings"

	"github.com/mmcloughlin/geohash"

	"github.com/alfgow/inmobiliaria-server/internal/models"
)

// FallbackImage is the asset shown for properties without usable media.
const FallbackImage = "/1.png"

// geohashPrecision gives ~150m cells: enough to call two markers colocated.
const geohashPrecision = 7

// Marker is the map projection of one property: position plus everything the
// popup needs, so the map layer never reaches back into the raw record.
type Marker struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Geohash     string  `json:"geohash"`
	Title       string  `json:"title"`
	AddressLine string  `json:"addressLine"`
	PriceLabel  string  `json:"priceLabel"`
	StatusName  *string `json:"statusName"`
	StatusColor *string `json:"statusColor"`
	Operation   *string `json:"operation"`
	Available   bool    `json:"available"`
	ImageURL    string  `json:"imageUrl"`
	DetailPath  string  `json:"detailPath"`
}

// BuildMarkers projects every property with a usable coordinate pair onto the
// map. Properties without both halves of the pair are skipped here but stay
// visible in the list views.
func BuildMarkers(properties []models.Property) []Marker {
	markers := make([]Marker, 0, len(properties))
	for i := range properties {
		p := &properties[i]
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}

		marker := Marker{
			ID:          p.ID,
			Slug:        p.Slug,
			Latitude:    *p.Latitude,
			Longitude:   *p.Longitude,
			Geohash:     geohash.EncodeWithPrecision(*p.Latitude, *p.Longitude, geohashPrecision),
			Title:       markerTitle(p.Title),
			AddressLine: AddressLine(p.Address, p.City, p.State),
			PriceLabel:  PriceLabel(p.Price),
			Operation:   FormatOperation(p.Operation),
			Available:   p.Active,
			ImageURL:    markerImage(p),
			DetailPath:  "/inmuebles/" + p.Slug,
		}

		if p.Status != nil {
			marker.StatusName = p.Status.Name
			// The universal unavailable treatment wins over any
			// status-specific color.
			if p.Active {
				marker.StatusColor = p.Status.Color
			}
		}

		markers = append(markers, marker)
	}
	return markers
}

// AddressLine joins the non-empty segments of an address with ", ".
func AddressLine(segments ...*string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == nil {
			continue
		}
		trimmed := strings.TrimSpace(*segment)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, ", ")
}

// FormatOperation capitalizes the free-text operation category ("venta" ->
// "Venta"). Nil in, nil out.
func FormatOperation(operation *string) *string {
	if operation == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*operation))
	if normalized == "" {
		return nil
	}
	formatted := strings.ToUpper(normalized[:1]) + normalized[1:]
	return &formatted
}

func markerTitle(title *string) string {
	if title != nil && strings.TrimSpace(*title) != "" {
		return strings.TrimSpace(*title)
	}
	return "Inmueble sin título"
}

func markerImage(p *models.Property) string {
	if cover := p.CoverImage(); cover != nil {
		if url := cover.DisplayURL(); url != nil {
			return *url
		}
	}
	return FallbackImage
}
