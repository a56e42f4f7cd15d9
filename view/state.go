// Package view maintains a map viewport: geographic center, continuous
// zoom, and the pixel origin derived from them. It exposes the
// coordinate conversions between geography and viewport pixels and
// drives pan transitions. A State fires events through its embedded
// bus, so tile grids and overlays follow view changes without the view
// knowing them.
//
// A State is not safe for concurrent use. The host drives it from one
// goroutine; scheduler callbacks run wherever the Scheduler delivers
// them.
package view

import (
	"log/slog"
	"math"
	"time"

	"github.com/ElWali/waw/event"
	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/mercator"
)

// Event types fired by a State.
const (
	// MoveEnd fires after every settled view change: SetView, SetSize,
	// an immediate pan, or an animated pan reaching its target.
	MoveEnd = "moveend"
	// ZoomEnd fires before MoveEnd when a view change altered the zoom.
	ZoomEnd = "zoomend"
)

// State is the coordinate core of a map instance.
//
// Its one invariant: pixelOrigin is always Project(center, zoom) minus
// half the viewport size, recomputed on every mutation of center, zoom
// or size, never set independently. Panning does not touch it; a pan is
// a pure pane transform layered on top of the last SetView.
type State struct {
	*event.Bus

	center      geo.LatLng
	zoom        float64
	size        geo.Point
	pixelOrigin geo.Point
	pane        geo.Point

	minZoom, maxZoom int
	panDuration      time.Duration
	sched            Scheduler
	logger           *slog.Logger

	anim        *panAnimation
	cancelFrame func()
}

type config struct {
	MinZoom, MaxZoom int
	PanDuration      time.Duration
	Scheduler        Scheduler
	Logger           *slog.Logger
}

type Option func(*config)

// WithZoomRange sets the integer zoom range FitBounds may choose from.
// SetView itself never clamps zoom.
func WithZoomRange(minZoom, maxZoom int) Option {
	return func(c *config) { c.MinZoom, c.MaxZoom = minZoom, maxZoom }
}

// WithPanDuration sets the default duration of animated pans.
func WithPanDuration(d time.Duration) Option {
	return func(c *config) { c.PanDuration = d }
}

// WithScheduler sets the frame scheduler used by animated pans.
func WithScheduler(s Scheduler) Option {
	return func(c *config) { c.Scheduler = s }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

// New creates a view of the given pixel size looking at center. Zoom
// is continuous: fractional values are kept as-is for transform
// interpolation, only tile layers round it when picking a grid.
func New(center geo.LatLng, zoom float64, size geo.Point, opts ...Option) *State {
	config := config{
		MaxZoom:     19,
		PanDuration: 250 * time.Millisecond,
		Scheduler:   TickerScheduler{},
		Logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	s := &State{
		center:      center,
		zoom:        zoom,
		size:        size,
		minZoom:     config.MinZoom,
		maxZoom:     config.MaxZoom,
		panDuration: config.PanDuration,
		sched:       config.Scheduler,
		logger:      config.Logger,
	}
	s.Bus = event.NewBus(s)
	s.recomputeOrigin()
	return s
}

func (s *State) recomputeOrigin() {
	s.pixelOrigin = mercator.Project(s.center, s.zoom).Sub(s.size.DivBy(2))
}

// SetView sets center and zoom unconditionally, with no animation. It
// recomputes the pixel origin, resets the pane transform to identity
// and cancels any in-flight pan. Fires ZoomEnd when the zoom changed,
// then MoveEnd; both synchronously, so every subscriber has reconciled
// by the time SetView returns.
func (s *State) SetView(center geo.LatLng, zoom float64) {
	s.stopPan()
	zoomChanged := zoom != s.zoom
	s.center = center
	s.zoom = zoom
	s.pane = geo.Point{}
	s.recomputeOrigin()

	s.logger.Debug("waw: set view", "lat", center.Lat, "lng", center.Lng, "zoom", zoom)
	if zoomChanged {
		s.Fire(ZoomEnd, nil)
	}
	s.Fire(MoveEnd, nil)
}

// SetZoom changes the zoom, keeping the current center.
func (s *State) SetZoom(zoom float64) {
	s.SetView(s.center, zoom)
}

// SetSize changes the viewport size, keeping center and zoom. The
// pixel origin moves so the center stays at the viewport's middle.
func (s *State) SetSize(size geo.Point) {
	s.size = size
	s.recomputeOrigin()
	s.Fire(MoveEnd, nil)
}

// Center returns the geographic center set by the last SetView. An
// in-flight pan does not move it.
func (s *State) Center() geo.LatLng { return s.center }

// Zoom returns the current, possibly fractional, zoom.
func (s *State) Zoom() float64 { return s.zoom }

// Size returns the viewport size in pixels.
func (s *State) Size() geo.Point { return s.size }

// PixelOrigin returns the map-space pixel coordinate of the viewport's
// top-left corner.
func (s *State) PixelOrigin() geo.Point { return s.pixelOrigin }

// PanePos returns the pane's visual offset. Identity (0,0) right after
// SetView; panning accumulates into it.
func (s *State) PanePos() geo.Point { return s.pane }

// LatLngToContainerPoint converts a geographic coordinate to a
// viewport pixel, rounded to whole pixels. Rounding is part of the
// contract: sub-pixel positions are not meaningful for placement.
func (s *State) LatLngToContainerPoint(ll geo.LatLng) geo.Point {
	return mercator.Project(ll, s.zoom).Sub(s.pixelOrigin).Round()
}

// ContainerPointToLatLng converts a viewport pixel back to geography.
// Inverse of LatLngToContainerPoint up to its rounding step, so a
// round-trip may be off by under half a pixel.
func (s *State) ContainerPointToLatLng(p geo.Point) geo.LatLng {
	return mercator.Unproject(p.Add(s.pixelOrigin), s.zoom)
}

// PixelBounds returns the viewport rectangle in map-space pixels,
// [pixelOrigin, pixelOrigin+size]. The pane offset of an in-flight pan
// is not folded in; callers needing mid-pan exactness add PanePos
// themselves.
func (s *State) PixelBounds() geo.Bounds {
	return geo.NewBounds(s.pixelOrigin, s.pixelOrigin.Add(s.size))
}

// ZoomScale returns the size ratio between two zoom levels, the factor
// tile containers are visually scaled by during a zoom transition.
func (s *State) ZoomScale(to, from float64) float64 {
	return mercator.Scale(to) / mercator.Scale(from)
}

// LatLngBounds returns the geographic corners of the viewport,
// south-west and north-east.
func (s *State) LatLngBounds() (sw, ne geo.LatLng) {
	pb := s.PixelBounds()
	sw = mercator.Unproject(geo.Point{X: pb.Min.X, Y: pb.Max.Y}, s.zoom)
	ne = mercator.Unproject(geo.Point{X: pb.Max.X, Y: pb.Min.Y}, s.zoom)
	return sw, ne
}

// FitBounds centers the view on the geographic box and sets the
// largest integer zoom within the configured range at which the whole
// box fits the viewport. A degenerate box gets the maximum zoom.
func (s *State) FitBounds(sw, ne geo.LatLng) {
	a := mercator.Project(sw, 0)
	b := mercator.Project(ne, 0)
	box := geo.Point{X: math.Abs(b.X - a.X), Y: math.Abs(b.Y - a.Y)}

	// The box doubles per zoom level: it fits at z iff box*2^z <= size.
	zoom := float64(s.maxZoom)
	switch {
	case box.X > 0 && box.Y > 0:
		zoom = math.Floor(math.Log2(math.Min(s.size.X/box.X, s.size.Y/box.Y)))
	case box.X > 0:
		zoom = math.Floor(math.Log2(s.size.X / box.X))
	case box.Y > 0:
		zoom = math.Floor(math.Log2(s.size.Y / box.Y))
	}
	zoom = math.Min(math.Max(zoom, float64(s.minZoom)), float64(s.maxZoom))

	center := mercator.Unproject(a.Add(b).DivBy(2), 0)
	s.SetView(center, zoom)
}
