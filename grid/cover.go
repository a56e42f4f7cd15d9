package grid

import (
	"iter"

	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/mercator"
)

// Range is a rectangle of tile coordinates at one zoom, closed on both
// ends: Min and Max are included.
type Range struct {
	Min, Max Coord
}

// Cover returns the tile range covering every pixel of pb at the given
// zoom: floor of the north-west corner to ceil of the south-east one.
// Both ends stay included even when a bound falls exactly on a tile
// edge, over-fetching at most one row or column rather than ever
// leaving a pixel uncovered. X is not wrapped here; callers wrap the
// enumerated coordinates.
func Cover(pb geo.Bounds, zoom, tileSize int) Range {
	size := float64(tileSize)
	nw := pb.Min.DivBy(size).Floor()
	se := pb.Max.DivBy(size).Ceil()
	return Range{
		Min: Coord{X: int(nw.X), Y: int(nw.Y), Z: zoom},
		Max: Coord{X: int(se.X), Y: int(se.Y), Z: zoom},
	}
}

// CoverBox returns the tile range covering a geographic box at the
// given zoom. The box is the projected rectangle spanned by its two
// corners, so the corners may come in any order.
func CoverBox(a, b geo.LatLng, zoom, tileSize int) Range {
	z := float64(zoom)
	pb := geo.NewBounds(mercator.Project(a, z), mercator.Project(b, z))
	return Cover(pb, zoom, tileSize)
}

// Coords iterates the range row-major, north-west to south-east.
func (r Range) Coords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for x := r.Min.X; x <= r.Max.X; x++ {
				if !yield(Coord{X: x, Y: y, Z: r.Min.Z}) {
					return
				}
			}
		}
	}
}

// Count returns how many coordinates the range holds.
func (r Range) Count() int {
	return (r.Max.X - r.Min.X + 1) * (r.Max.Y - r.Min.Y + 1)
}
