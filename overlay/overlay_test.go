package overlay_test

import (
	"errors"
	"testing"

	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/geojson"
	"github.com/ElWali/waw/overlay"
	"github.com/ElWali/waw/view"
)

var (
	london   = geo.LatLng{Lat: 51.505, Lng: -0.09}
	viewport = geo.Point{X: 600, Y: 400}
)

// markerSurface records marker placements by index.
type markerSurface struct {
	placed      map[int]geo.Point
	props       map[int]map[string]any
	placeCalls  int
	retireCalls int
}

func newMarkerSurface() *markerSurface {
	return &markerSurface{
		placed: make(map[int]geo.Point),
		props:  make(map[int]map[string]any),
	}
}

func (s *markerSurface) PlaceMarker(index int, at geo.Point, properties map[string]any) {
	s.placed[index] = at
	s.props[index] = properties
	s.placeCalls++
}

func (s *markerSurface) RetireMarker(index int) {
	delete(s.placed, index)
	delete(s.props, index)
	s.retireCalls++
}

func TestLayerPlacesMarkersOnAdd(t *testing.T) {
	surface := newMarkerSurface()
	fc := geojson.FeatureCollection{Features: []geojson.Feature{
		{Geometry: geojson.Point(london), Properties: map[string]any{"name": "London"}},
	}}
	layer, err := overlay.NewLayer(surface, fc)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}

	s := view.New(london, 12, viewport)
	layer.OnAdd(s)

	got, ok := surface.placed[0]
	if !ok {
		t.Fatal("marker 0 not placed")
	}
	if want := (geo.Point{X: 300, Y: 200}); got != want {
		t.Errorf("marker 0 at %v, want %v", got, want)
	}
	if got := surface.props[0]["name"]; got != "London" {
		t.Errorf("marker 0 properties[name] = %v, want London", got)
	}
}

func TestLayerFollowsViewChanges(t *testing.T) {
	surface := newMarkerSurface()
	fc := geojson.FeatureCollection{Features: []geojson.Feature{
		{Geometry: geojson.Point(london)},
	}}
	layer, err := overlay.NewLayer(surface, fc)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}

	s := view.New(london, 12, viewport)
	layer.OnAdd(s)

	s.SetView(geo.LatLng{Lat: 51.51, Lng: -0.08}, 13)

	want := s.LatLngToContainerPoint(london)
	if want == (geo.Point{X: 300, Y: 200}) {
		t.Fatal("view change left the marker at the viewport center")
	}
	if got := surface.placed[0]; got != want {
		t.Errorf("marker 0 at %v after SetView, want %v", got, want)
	}
	// Repositioning reuses the index.
	if surface.retireCalls != 0 {
		t.Errorf("retireCalls = %d after a reposition, want 0", surface.retireCalls)
	}
}

func TestLayerFlattensMultiPoints(t *testing.T) {
	stops := geojson.MultiPoint{
		{Lat: 51.51, Lng: -0.12},
		{Lat: 51.50, Lng: -0.08},
	}
	fc := geojson.FeatureCollection{Features: []geojson.Feature{
		{Geometry: stops, Properties: map[string]any{"name": "stops"}},
		{Geometry: geojson.Point(london), Properties: map[string]any{"name": "London"}},
	}}

	surface := newMarkerSurface()
	layer, err := overlay.NewLayer(surface, fc)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	if got, want := layer.Len(), 3; got != want {
		t.Fatalf("Len = %d, want %d", got, want)
	}

	s := view.New(london, 12, viewport)
	layer.OnAdd(s)

	for i, ll := range []geo.LatLng{stops[0], stops[1], london} {
		if got, want := surface.placed[i], s.LatLngToContainerPoint(ll); got != want {
			t.Errorf("marker %d at %v, want %v", i, got, want)
		}
	}
	// Markers of one feature share its properties.
	if got := surface.props[1]["name"]; got != "stops" {
		t.Errorf("marker 1 properties[name] = %v, want stops", got)
	}
	if got := surface.props[2]["name"]; got != "London" {
		t.Errorf("marker 2 properties[name] = %v, want London", got)
	}
}

func TestNewLayerRejectsUnsupportedGeometry(t *testing.T) {
	line := geojson.LineString{london, {Lat: 51.51, Lng: -0.08}}
	for name, fc := range map[string]geojson.FeatureCollection{
		"linestring":  {Features: []geojson.Feature{{Geometry: line}}},
		"no geometry": {Features: []geojson.Feature{{}}},
	} {
		t.Run(name, func(t *testing.T) {
			layer, err := overlay.NewLayer(newMarkerSurface(), fc)
			if !errors.Is(err, overlay.ErrUnsupportedGeometry) {
				t.Fatalf("NewLayer error = %v, want ErrUnsupportedGeometry", err)
			}
			if layer != nil {
				t.Error("NewLayer returned a layer alongside the error")
			}
		})
	}
}

func TestLayerOnRemove(t *testing.T) {
	surface := newMarkerSurface()
	fc := geojson.FeatureCollection{Features: []geojson.Feature{
		{Geometry: geojson.Point(london)},
		{Geometry: geojson.Point(geo.LatLng{Lat: 51.51, Lng: -0.08})},
	}}
	layer, err := overlay.NewLayer(surface, fc)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}

	s := view.New(london, 12, viewport)
	layer.OnAdd(s)
	layer.OnRemove()

	if len(surface.placed) != 0 {
		t.Errorf("%d markers still placed after OnRemove", len(surface.placed))
	}
	if surface.retireCalls != 2 {
		t.Errorf("retireCalls = %d, want 2", surface.retireCalls)
	}

	// Detached layers no longer follow the view.
	calls := surface.placeCalls
	s.SetView(london, 10)
	if surface.placeCalls != calls {
		t.Errorf("placeCalls = %d after detached SetView, want %d", surface.placeCalls, calls)
	}

	layer.OnRemove() // second removal is a no-op
	if surface.retireCalls != 2 {
		t.Errorf("retireCalls = %d after second OnRemove, want 2", surface.retireCalls)
	}
}

func TestLayersDetachIndependently(t *testing.T) {
	s := view.New(london, 12, viewport)

	first := newMarkerSurface()
	second := newMarkerSurface()
	fc := geojson.FeatureCollection{Features: []geojson.Feature{
		{Geometry: geojson.Point(london)},
	}}

	layerA, err := overlay.NewLayer(first, fc)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	layerB, err := overlay.NewLayer(second, fc)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	layerA.OnAdd(s)
	layerB.OnAdd(s)

	// Both layers subscribe with the same method; removing one must not
	// detach the other.
	layerA.OnRemove()
	calls := second.placeCalls
	s.SetView(london, 13)

	if len(first.placed) != 0 {
		t.Error("removed layer still has markers")
	}
	if second.placeCalls <= calls {
		t.Error("remaining layer did not follow the view change")
	}
}
