package geo

import "math"

// Bounds is an axis-aligned rectangle in pixel space. The zero value is
// empty: it contains nothing and extends from the first point merged
// into it.
type Bounds struct {
	Min Point
	Max Point

	valid bool
}

// NewBounds returns the bounds spanned by two corner points, given in
// any order.
func NewBounds(a, b Point) Bounds {
	return Bounds{}.Extend(a).Extend(b)
}

// Extend returns b grown to contain p.
func (b Bounds) Extend(p Point) Bounds {
	if !b.valid {
		return Bounds{Min: p, Max: p, valid: true}
	}
	return Bounds{
		Min:   Point{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Max:   Point{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
		valid: true,
	}
}

// IsValid reports whether at least one point has been merged in.
func (b Bounds) IsValid() bool {
	return b.valid
}

// Contains reports whether p lies within b, inclusive on all edges.
func (b Bounds) Contains(p Point) bool {
	return b.valid &&
		p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects reports whether b and other share at least one point,
// touching edges included.
func (b Bounds) Intersects(other Bounds) bool {
	return b.valid && other.valid &&
		other.Max.X >= b.Min.X && other.Min.X <= b.Max.X &&
		other.Max.Y >= b.Min.Y && other.Min.Y <= b.Max.Y
}

func (b Bounds) Center() Point {
	return b.Min.Add(b.Max).DivBy(2)
}

func (b Bounds) Size() Point {
	return b.Max.Sub(b.Min)
}

// Equal reports whether two bounds cover the same rectangle. Two empty
// bounds are equal regardless of their corner fields.
func (b Bounds) Equal(other Bounds) bool {
	if !b.valid || !other.valid {
		return b.valid == other.valid
	}
	return b.Min == other.Min && b.Max == other.Max
}
