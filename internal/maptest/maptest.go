// Package maptest provides the test doubles shared by the package
// tests: a manually stepped frame scheduler, a recording tile surface
// and a canned tile loader.
package maptest

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/grid"
)

// Stepper is a frame scheduler driven by hand, for tests that walk an
// animation through exact timestamps. Schedule parks the callback and
// Step releases it; re-arming from within a callback parks the next
// frame, the way animations tick.
type Stepper struct {
	pending func(time.Time)
	gen     int
}

func (s *Stepper) Schedule(fn func(now time.Time)) (cancel func()) {
	s.pending = fn
	s.gen++
	gen := s.gen
	return func() {
		if s.gen == gen {
			s.pending = nil
		}
	}
}

// Step runs the parked callback as one frame at the given time. It
// reports whether a callback was armed.
func (s *Stepper) Step(now time.Time) bool {
	fn := s.pending
	if fn == nil {
		return false
	}
	s.pending = nil
	fn(now)
	return true
}

// Pending reports whether a frame callback is armed.
func (s *Stepper) Pending() bool { return s.pending != nil }

// PlacedTile is one tile element resident on a TileSurface.
type PlacedTile struct {
	Pos     geo.Point
	URL     string
	Content []byte // nil until delivered
}

// Transform is a container's combined translate and scale.
type Transform struct {
	Offset geo.Point
	Scale  float64
}

// TileSurface records every call a grid makes to its surface.
type TileSurface struct {
	mu          sync.Mutex
	placed      map[grid.Coord]*PlacedTile
	transform   Transform
	placeCalls  int
	retireCalls int
}

func NewTileSurface() *TileSurface {
	return &TileSurface{placed: make(map[grid.Coord]*PlacedTile)}
}

func (s *TileSurface) PlaceTile(c grid.Coord, pos geo.Point, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placed[c] = &PlacedTile{Pos: pos, URL: url}
	s.placeCalls++
}

func (s *TileSurface) SetTileContent(c grid.Coord, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tile := s.placed[c]; tile != nil {
		tile.Content = content
	}
}

func (s *TileSurface) RetireTile(c grid.Coord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.placed, c)
	s.retireCalls++
}

func (s *TileSurface) SetTransform(offset geo.Point, scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transform = Transform{Offset: offset, Scale: scale}
}

// Placed returns a copy of the tile's record and whether it is
// resident.
func (s *TileSurface) Placed(c grid.Coord) (PlacedTile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tile := s.placed[c]
	if tile == nil {
		return PlacedTile{}, false
	}
	return *tile, true
}

// Len returns the number of resident tiles.
func (s *TileSurface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.placed)
}

// Coords returns the resident tile coordinates sorted by z, y, x.
func (s *TileSurface) Coords() []grid.Coord {
	s.mu.Lock()
	defer s.mu.Unlock()
	coords := make([]grid.Coord, 0, len(s.placed))
	for c := range s.placed {
		coords = append(coords, c)
	}
	slices.SortFunc(coords, func(a, b grid.Coord) int {
		if a.Z != b.Z {
			return cmp.Compare(a.Z, b.Z)
		}
		if a.Y != b.Y {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
	return coords
}

// Transform returns the last transform set.
func (s *TileSurface) Transform() Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transform
}

// PlaceCalls and RetireCalls count surface mutations since the last
// ResetCalls, for asserting that a reconciliation was a no-op.
func (s *TileSurface) PlaceCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeCalls
}

func (s *TileSurface) RetireCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retireCalls
}

func (s *TileSurface) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placeCalls, s.retireCalls = 0, 0
}

// WaitContent blocks until the tile has content, failing t after a
// second. Tile loads complete on their own goroutines, so tests poll.
func (s *TileSurface) WaitContent(t *testing.T, c grid.Coord) []byte {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		tile := s.placed[c]
		var content []byte
		if tile != nil {
			content = tile.Content
		}
		s.mu.Unlock()
		if content != nil {
			return content
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("tile %v: no content before deadline", c)
	return nil
}

// Loader serves canned tile responses keyed by URL. URLs with no
// canned response fail, which is how tests reach the error path.
type Loader struct {
	// Responses maps URL to tile bytes.
	Responses map[string][]byte
	// Hold, when set, parks every Load until the channel closes or the
	// tile's context is cancelled.
	Hold chan struct{}

	mu    sync.Mutex
	calls []string
}

func (l *Loader) Load(ctx context.Context, url string) ([]byte, error) {
	l.mu.Lock()
	l.calls = append(l.calls, url)
	content, ok := l.Responses[url]
	l.mu.Unlock()

	if l.Hold != nil {
		select {
		case <-l.Hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("maptest: no tile for %q", url)
	}
	return content, nil
}

// Calls returns the URLs requested so far.
func (l *Loader) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}
