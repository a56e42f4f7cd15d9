// Package grid implements the tiling core of a tile layer: tile
// coordinates in the XYZ scheme and their horizontal wraparound, tile
// URL templates, viewport coverage, and the reconciliation that keeps
// a tile surface in sync with a view.
package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord identifies one tile in the XYZ scheme (Tiled web map). X grows
// east, Y grows south; the world is 2^Z tiles in each direction.
type Coord struct {
	X, Y, Z int
}

// WrapX normalizes a tile column into [0, 2^zoom), wrapping across the
// antimeridian. Total for negative x. Only x wraps; there is no
// vertical world wraparound.
func WrapX(x, zoom int) int {
	n := 1 << zoom
	return ((x % n) + n) % n
}

// Wrapped returns c with X normalized into [0, 2^Z). Y and Z are never
// wrapped.
func (c Coord) Wrapped() Coord {
	c.X = WrapX(c.X, c.Z)
	return c
}

// Valid reports whether c names a tile of the world grid as-is, with
// no wrapping applied.
func (c Coord) Valid() bool {
	return c.Z >= 0 && c.Z < 31 &&
		c.X >= 0 && c.X < 1<<c.Z &&
		c.Y >= 0 && c.Y < 1<<c.Z
}

// String formats the coordinate as "z/x/y", the order tile paths use.
func (c Coord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y)
}

// ExpandTemplate substitutes c into the {x}, {y} and {z} placeholders
// of a tile URL template. Anything else passes through untouched,
// malformed placeholders included; templates are not validated here.
func ExpandTemplate(template string, c Coord) string {
	result := template
	result = strings.ReplaceAll(result, "{x}", strconv.Itoa(c.X))
	result = strings.ReplaceAll(result, "{y}", strconv.Itoa(c.Y))
	result = strings.ReplaceAll(result, "{z}", strconv.Itoa(c.Z))
	return result
}
