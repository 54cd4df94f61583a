package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Country-level default view (Mexico) used when no marker is usable.
const (
	DefaultCenterLat = 23.6345
	DefaultCenterLon = -102.5528
	DefaultZoom      = 4.0
)

// MaxZoom caps bounds fitting so a cluster of colocated properties does not
// zoom past street level.
const MaxZoom = 14.0

// narrowViewportWidth is the breakpoint below which the smaller padding is
// used, mirroring the site's mobile layout.
const narrowViewportWidth = 640

// Bounds is the bounding box over all usable marker coordinates.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// Viewport is the view the map should adopt: either a bounds fit with padding
// or the country-level fallback when Bounds is nil.
type Viewport struct {
	CenterLat float64 `json:"centerLat"`
	CenterLon float64 `json:"centerLon"`
	Zoom      float64 `json:"zoom"`
	Padding   int     `json:"padding"`
	Bounds    *Bounds `json:"bounds"`
}

// ComputeViewport fits the viewport to all markers. Zero markers reset to the
// default country-wide view; a single cell of colocated markers pins to the
// zoom cap instead of over-zooming.
func ComputeViewport(markers []Marker, viewportWidth int) Viewport {
	padding := 60
	if viewportWidth > 0 && viewportWidth < narrowViewportWidth {
		padding = 32
	}

	if len(markers) == 0 {
		return Viewport{
			CenterLat: DefaultCenterLat,
			CenterLon: DefaultCenterLon,
			Zoom:      DefaultZoom,
			Padding:   padding,
		}
	}

	points := make(orb.MultiPoint, 0, len(markers))
	for _, marker := range markers {
		points = append(points, orb.Point{marker.Longitude, marker.Latitude})
	}

	bound := points.Bound()
	center := bound.Center()

	viewport := Viewport{
		CenterLat: center[1],
		CenterLon: center[0],
		Zoom:      zoomFor(bound),
		Padding:   padding,
		Bounds: &Bounds{
			MinLat: bound.Min[1],
			MinLon: bound.Min[0],
			MaxLat: bound.Max[1],
			MaxLon: bound.Max[0],
		},
	}

	if Colocated(markers) {
		viewport.Zoom = MaxZoom
	}

	return viewport
}

// zoomFor derives a zoom level from the degree span of the bound, capped so
// tight clusters stay readable.
func zoomFor(bound orb.Bound) float64 {
	span := math.Max(bound.Max[0]-bound.Min[0], bound.Max[1]-bound.Min[1])
	if span <= 0 {
		return MaxZoom
	}

	zoom := math.Floor(math.Log2(360 / span))
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	if zoom < 1 {
		zoom = 1
	}
	return zoom
}

// Colocated reports whether every marker falls into the same geohash cell.
func Colocated(markers []Marker) bool {
	if len(markers) < 2 {
		return len(markers) == 1
	}
	first := markers[0].Geohash
	for _, marker := range markers[1:] {
		if marker.Geohash != first {
			return false
		}
	}
	return true
}
