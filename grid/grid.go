package grid

import (
	"context"
	"encoding/base64"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/ElWali/waw/event"
	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/mercator"
)

// Host is the view a Grid follows. *view.State satisfies it.
type Host interface {
	Center() geo.LatLng
	Zoom() float64
	Size() geo.Point
	PixelBounds() geo.Bounds
	ZoomScale(to, from float64) float64
	OnWith(types string, fn event.Handler, owner any)
	OffWith(types string, fn event.Handler, owner any)
}

// Surface is where a Grid materializes tiles: the tile container's
// child list and transform. The Grid serializes all calls, so
// implementations need no locking of their own.
type Surface interface {
	// PlaceTile adds a tile element at the given pixel position within
	// the container, with the image URL for hosts that load tiles
	// themselves. Raster content, if the Grid owns a Loader, arrives
	// later through SetTileContent.
	PlaceTile(c Coord, pos geo.Point, url string)
	// SetTileContent delivers the tile's image bytes, or the error
	// placeholder when its load failed.
	SetTileContent(c Coord, content []byte)
	// RetireTile removes the tile's element.
	RetireTile(c Coord)
	// SetTransform positions and scales the whole container in one
	// combined step.
	SetTransform(offset geo.Point, scale float64)
}

// Loader fetches one tile image. Load must honor ctx: a retired tile's
// load is cancelled through it.
type Loader interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// View events that trigger reconciliation.
const viewEvents = "moveend zoomend"

// A resident tile is loading until its fetch settles, then loaded, or
// errored with the placeholder substituted. Retirement can happen in
// any state.
type tileState int

const (
	tileLoading tileState = iota
	tileLoaded
	tileErrored
)

type tileSlot struct {
	state  tileState
	cancel context.CancelFunc
}

// Grid reconciles the set of resident tiles against the viewport of
// its host. Reconciliation runs synchronously on every view change;
// tile loads run as independent fire-and-forget goroutines whose
// completion updates only their own tile.
type Grid struct {
	template string
	tileSize int
	loader   Loader
	surface  Surface
	logger   *slog.Logger

	host Host

	mu    sync.Mutex
	tiles map[Coord]*tileSlot
}

type config struct {
	TileSize int
	Loader   Loader
	Logger   *slog.Logger
}

type Option func(*config)

// WithTileSize sets the tile edge length in pixels.
func WithTileSize(size int) Option {
	return func(c *config) { c.TileSize = size }
}

// WithLoader makes the grid fetch tile content itself and push it to
// the surface. Without a loader tiles are placed with their URL only
// and never leave the loading state.
func WithLoader(l Loader) Option {
	return func(c *config) { c.Loader = l }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

// New creates a grid drawing to surface, with tile URLs built from
// template. The template is not validated; see ExpandTemplate.
func New(surface Surface, template string, opts ...Option) *Grid {
	config := config{
		TileSize: mercator.TileSize,
		Logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Grid{
		template: template,
		tileSize: config.TileSize,
		loader:   config.Loader,
		surface:  surface,
		logger:   config.Logger,
		tiles:    make(map[Coord]*tileSlot),
	}
}

// OnAdd attaches the grid to a host: it subscribes to view changes and
// runs an initial reconciliation. Invoked by the surrounding layer
// management when the layer joins a map.
func (g *Grid) OnAdd(host Host) {
	g.host = host
	host.OnWith(viewEvents, g.onViewChange, g)
	g.Update()
}

// OnRemove detaches the grid: it unsubscribes from the host and
// retires every resident tile. Invoked when the layer leaves the map.
func (g *Grid) OnRemove() {
	host := g.host
	if host == nil {
		return
	}
	g.host = nil
	host.OffWith(viewEvents, g.onViewChange, g)

	g.mu.Lock()
	defer g.mu.Unlock()
	for c, slot := range g.tiles {
		g.retireLocked(c, slot)
	}
}

func (g *Grid) onViewChange(event.Event) {
	g.Update()
}

// Update runs one reconciliation: it computes the tile set covering
// the host's viewport at the rounded zoom, diffs it against the
// resident set, retires and places the difference, and repositions the
// container in a single transform. An unchanged viewport reconciles to
// zero changes.
func (g *Grid) Update() {
	if g.host == nil {
		return
	}
	zoom := math.Round(g.host.Zoom())
	covering := Cover(g.host.PixelBounds(), int(zoom), g.tileSize)

	required := make(map[Coord]bool, covering.Count())
	for c := range covering.Coords() {
		required[c.Wrapped()] = true
	}

	// Snap the container to the rounded zoom's origin and scale it by
	// the ratio to the continuous zoom, so an in-progress fractional
	// zoom still lines up visually.
	origin := mercator.Project(g.host.Center(), zoom).Sub(g.host.Size().DivBy(2))
	scale := g.host.ZoomScale(zoom, g.host.Zoom())

	g.mu.Lock()
	defer g.mu.Unlock()
	for c, slot := range g.tiles {
		if !required[c] {
			g.retireLocked(c, slot)
		}
	}
	for c := range covering.Coords() {
		if c = c.Wrapped(); g.tiles[c] == nil {
			g.placeLocked(c)
		}
	}
	g.surface.SetTransform(origin.MulBy(-1), scale)
}

// Pending reports how many resident tiles are still loading.
func (g *Grid) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, slot := range g.tiles {
		if slot.state == tileLoading {
			n++
		}
	}
	return n
}

func (g *Grid) placeLocked(c Coord) {
	url := ExpandTemplate(g.template, c)
	pos := geo.Point{X: float64(c.X * g.tileSize), Y: float64(c.Y * g.tileSize)}
	g.surface.PlaceTile(c, pos, url)

	slot := &tileSlot{state: tileLoading}
	g.tiles[c] = slot
	if g.loader == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	slot.cancel = cancel
	go g.load(ctx, c, url)
}

func (g *Grid) retireLocked(c Coord, slot *tileSlot) {
	if slot.cancel != nil {
		slot.cancel()
	}
	delete(g.tiles, c)
	g.surface.RetireTile(c)
}

// load completes one tile's lifecycle. A failure substitutes the
// placeholder and is never surfaced further: flaky tiles are
// steady-state, not errors, and must not break the reconcile loop.
func (g *Grid) load(ctx context.Context, c Coord, url string) {
	content, err := g.loader.Load(ctx, url)

	g.mu.Lock()
	defer g.mu.Unlock()
	slot := g.tiles[c]
	if slot == nil || ctx.Err() != nil {
		return // retired while loading
	}
	if err != nil {
		g.logger.Debug("waw: tile load failed", "tile", c.String(), "err", err)
		slot.state = tileErrored
		g.surface.SetTileContent(c, Placeholder())
		return
	}
	slot.state = tileLoaded
	g.surface.SetTileContent(c, content)
}

// Placeholder returns the fixed 1x1 transparent GIF substituted for
// tiles that failed to load. Inlined: showing it never needs a fetch.
func Placeholder() []byte {
	return slices.Clone(placeholderGIF)
}

var placeholderGIF = func() []byte {
	b, err := base64.StdEncoding.DecodeString("R0lGODlhAQABAAD/ACwAAAAAAQABAAACADs=")
	if err != nil {
		panic(err)
	}
	return b
}()
