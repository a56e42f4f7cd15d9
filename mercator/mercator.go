// Package mercator implements the spherical Web Mercator projection
// (EPSG:3857) between geographic coordinates and zoom-scaled pixel
// space, where the world at zoom z is a square of 256·2^z pixels with
// the origin at its north-west corner.
package mercator

import (
	"math"

	"github.com/ElWali/waw/geo"
)

const (
	// EarthRadius is the WGS84 equatorial radius in meters.
	EarthRadius = 6378137.0

	// MaxLatitude is where the projection is cut off; beyond it the
	// Mercator y coordinate diverges. Latitudes are clamped to this
	// range rather than rejected.
	MaxLatitude = 85.0511287798

	// TileSize is the side of a map tile in pixels.
	TileSize = 256
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Project maps a geographic coordinate to pixel space at the given
// zoom. Latitude is clamped to ±MaxLatitude first; the same clamp is
// applied on every call so repeated projections near the poles cannot
// drift.
func Project(ll geo.LatLng, zoom float64) geo.Point {
	lat := math.Min(math.Max(ll.Lat, -MaxLatitude), MaxLatitude)

	sin := math.Sin(lat * degToRad)
	x := EarthRadius * ll.Lng * degToRad
	y := EarthRadius * math.Log((1+sin)/(1-sin)) / 2

	// Normalize meters onto the unit world square, y flipped so north
	// is up on screen, then scale to the zoom's pixel extent.
	scale := Scale(zoom)
	return geo.Point{
		X: scale * (0.5 + x/(2*math.Pi*EarthRadius)),
		Y: scale * (0.5 - y/(2*math.Pi*EarthRadius)),
	}
}

// Unproject is the exact inverse of Project for any pixel inside the
// world square.
func Unproject(p geo.Point, zoom float64) geo.LatLng {
	scale := Scale(zoom)
	x := (p.X/scale - 0.5) * 2 * math.Pi * EarthRadius
	y := (0.5 - p.Y/scale) * 2 * math.Pi * EarthRadius

	return geo.LatLng{
		Lat: (2*math.Atan(math.Exp(y/EarthRadius)) - math.Pi/2) * radToDeg,
		Lng: x / EarthRadius * radToDeg,
	}
}

// Scale returns the world size in pixels at the given zoom: 256·2^zoom.
func Scale(zoom float64) float64 {
	return TileSize * math.Exp2(zoom)
}

// ZoomForScale inverts Scale: ZoomForScale(Scale(z)) == z for every
// zoom, including fractional ones.
func ZoomForScale(scale float64) float64 {
	return math.Log2(scale / TileSize)
}
