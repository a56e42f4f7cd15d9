package grid

import (
	"cmp"
	"slices"

	"github.com/google/hilbert"
)

// HilbertOrder sorts coords in place along a Hilbert curve, zoom
// levels ascending. Neighbors on the curve are neighbors on the map,
// which keeps bulk tile downloads spatially local. Coordinates must be
// valid tiles of their zoom (see Coord.Valid).
func HilbertOrder(coords []Coord) {
	codes := make(map[Coord]uint64, len(coords))
	for _, c := range coords {
		codes[c] = hilbertCode(c)
	}
	slices.SortFunc(coords, func(a, b Coord) int {
		return cmp.Compare(codes[a], codes[b])
	})
}

// hilbertCode positions a tile on one curve running through every zoom
// level: the count of all tiles on lower levels, then the Hilbert
// distance within its own.
func hilbertCode(c Coord) uint64 {
	h, _ := hilbert.NewHilbert(1 << c.Z)
	d, _ := h.MapInverse(c.X, c.Y)

	lower := (uint64(1)<<(2*c.Z) - 1) / 3
	return lower + uint64(d)
}
