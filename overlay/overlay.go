// Package overlay places point features on a map viewport. It is a
// second view subscriber alongside the tile grid: any layer can follow
// view changes through the bus without the view knowing about it.
package overlay

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ElWali/waw/event"
	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/geojson"
)

// ErrUnsupportedGeometry reports a feature this layer cannot place.
// Markers need positions: only Point and MultiPoint qualify, and
// anything else fails layer construction outright rather than being
// dropped on the floor.
var ErrUnsupportedGeometry = errors.New("waw: unsupported overlay geometry")

// Host is the view a Layer follows. *view.State satisfies it.
type Host interface {
	LatLngToContainerPoint(ll geo.LatLng) geo.Point
	OnWith(types string, fn event.Handler, owner any)
	OffWith(types string, fn event.Handler, owner any)
}

// Surface renders the layer's markers. Positions are container points
// as of the last settled view change; during an in-flight pan the host
// moves the whole surface with its pane transform, the same way it
// moves the tile container.
type Surface interface {
	// PlaceMarker positions one marker. Markers are keyed by index;
	// placing an index again repositions it.
	PlaceMarker(index int, at geo.Point, properties map[string]any)
	// RetireMarker removes one marker.
	RetireMarker(index int)
}

const viewEvents = "moveend zoomend"

type marker struct {
	at         geo.LatLng
	properties map[string]any
}

// Layer projects a feature collection's points onto a view.
type Layer struct {
	surface Surface
	markers []marker
	logger  *slog.Logger

	host Host
}

type config struct {
	Logger *slog.Logger
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

// NewLayer builds a marker layer from the collection. Every position
// of a Point or MultiPoint feature becomes one marker carrying the
// feature's properties; a feature with any other geometry, or none,
// fails with ErrUnsupportedGeometry.
func NewLayer(surface Surface, fc geojson.FeatureCollection, opts ...Option) (*Layer, error) {
	config := config{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var markers []marker
	for i, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case geojson.Point:
			markers = append(markers, marker{at: geo.LatLng(g), properties: f.Properties})
		case geojson.MultiPoint:
			for _, ll := range g {
				markers = append(markers, marker{at: ll, properties: f.Properties})
			}
		case nil:
			return nil, fmt.Errorf("%w: feature %d has no geometry", ErrUnsupportedGeometry, i)
		default:
			return nil, fmt.Errorf("%w: %T in feature %d", ErrUnsupportedGeometry, g, i)
		}
	}
	return &Layer{surface: surface, markers: markers, logger: config.Logger}, nil
}

// Len returns the number of markers in the layer.
func (l *Layer) Len() int { return len(l.markers) }

// OnAdd attaches the layer to a host: it subscribes to view changes
// and places every marker for the current view.
func (l *Layer) OnAdd(host Host) {
	l.host = host
	host.OnWith(viewEvents, l.onViewChange, l)
	l.Update()
}

// OnRemove detaches the layer and retires its markers.
func (l *Layer) OnRemove() {
	host := l.host
	if host == nil {
		return
	}
	l.host = nil
	host.OffWith(viewEvents, l.onViewChange, l)
	for i := range l.markers {
		l.surface.RetireMarker(i)
	}
}

func (l *Layer) onViewChange(event.Event) {
	l.Update()
}

// Update repositions every marker against the host's current view.
func (l *Layer) Update() {
	if l.host == nil {
		return
	}
	for i, m := range l.markers {
		l.surface.PlaceMarker(i, l.host.LatLngToContainerPoint(m.at), m.properties)
	}
	l.logger.Debug("waw: overlay updated", "markers", len(l.markers))
}
