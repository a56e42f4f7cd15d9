// Package geojson models GeoJSON-like inputs as a closed set of
// variants: geometry kinds are concrete types behind a sealed
// interface, matched exhaustively instead of compared as strings.
// Parsing and serialization stay outside this module.
package geojson

import (
	"math"

	"github.com/ElWali/waw/geo"
)

// Geometry is one geometry variant. Concrete types:
//
//   - Point
//   - MultiPoint
//   - LineString
//   - Polygon
//
// The interface is sealed: only types in this package implement it, so
// a type switch over these four is exhaustive.
type Geometry interface {
	geometry() // sealed marker
}

// Point is a single position.
type Point geo.LatLng

// MultiPoint is a set of positions sharing one feature.
type MultiPoint []geo.LatLng

// LineString is an ordered path of positions.
type LineString []geo.LatLng

// Polygon is a list of rings: the first is the exterior, the rest are
// holes.
type Polygon [][]geo.LatLng

func (Point) geometry()      {}
func (MultiPoint) geometry() {}
func (LineString) geometry() {}
func (Polygon) geometry()    {}

// Feature pairs a geometry with free-form properties.
type Feature struct {
	Geometry   Geometry
	Properties map[string]any
}

// FeatureCollection is an ordered list of features.
type FeatureCollection struct {
	Features []Feature
}

// Bound returns the geographic box enclosing g, south-west and
// north-east. ok is false when g is nil or holds no positions.
func Bound(g Geometry) (sw, ne geo.LatLng, ok bool) {
	var e extent
	e.addGeometry(g)
	return e.sw, e.ne, e.ok
}

// Bound returns the box enclosing the feature's geometry.
func (f Feature) Bound() (sw, ne geo.LatLng, ok bool) {
	return Bound(f.Geometry)
}

// Bound returns the box enclosing every feature in the collection.
func (fc FeatureCollection) Bound() (sw, ne geo.LatLng, ok bool) {
	var e extent
	for _, f := range fc.Features {
		e.addGeometry(f.Geometry)
	}
	return e.sw, e.ne, e.ok
}

type extent struct {
	sw, ne geo.LatLng
	ok     bool
}

func (e *extent) add(ll geo.LatLng) {
	if !e.ok {
		e.sw, e.ne, e.ok = ll, ll, true
		return
	}
	e.sw.Lat = math.Min(e.sw.Lat, ll.Lat)
	e.sw.Lng = math.Min(e.sw.Lng, ll.Lng)
	e.ne.Lat = math.Max(e.ne.Lat, ll.Lat)
	e.ne.Lng = math.Max(e.ne.Lng, ll.Lng)
}

func (e *extent) addGeometry(g Geometry) {
	switch g := g.(type) {
	case Point:
		e.add(geo.LatLng(g))
	case MultiPoint:
		for _, ll := range g {
			e.add(ll)
		}
	case LineString:
		for _, ll := range g {
			e.add(ll)
		}
	case Polygon:
		for _, ring := range g {
			for _, ll := range ring {
				e.add(ll)
			}
		}
	}
}
