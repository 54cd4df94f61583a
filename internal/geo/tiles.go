package geo

import (
	"regexp"
	"strings"
)

const MapboxAttribution = `© <a href="https://www.mapbox.com/about/maps/">Mapbox</a>`

var (
	styleURLPrefix  = regexp.MustCompile(`^mapbox://styles/`)
	styleAPIPrefix  = regexp.MustCompile(`^https://api\.mapbox\.com/styles/v1/`)
	styleTileSuffix = regexp.MustCompile(`/tiles?.*$`)
)

// SanitizeStyle reduces any accepted style spelling (bare path, mapbox:// URL,
// full API URL) to the bare style path.
func SanitizeStyle(style, fallback string) string {
	if strings.TrimSpace(style) == "" {
		return fallback
	}

	cleaned := styleURLPrefix.ReplaceAllString(style, "")
	cleaned = styleAPIPrefix.ReplaceAllString(cleaned, "")
	cleaned = styleTileSuffix.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

// TileURL builds the raster tile endpoint for the configured style. Without
// an access token it returns ("", false) and the caller renders the labeled
// map-unavailable state instead of crashing.
func TileURL(token, stylePath string) (string, bool) {
	if token == "" {
		return "", false
	}
	return "https://api.mapbox.com/styles/v1/" + stylePath + "/tiles/{z}/{x}/{y}?access_token=" + token, true
}
