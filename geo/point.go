// Package geo provides the value types shared by every layer of waw:
// planar pixel points, geographic coordinates and pixel-space bounds.
package geo

import (
	"fmt"
	"math"
)

// Point is a planar pixel coordinate. Every operation returns a new
// Point; values are never mutated in place.
type Point struct {
	X float64
	Y float64
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) MulBy(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

func (p Point) DivBy(k float64) Point {
	return Point{p.X / k, p.Y / k}
}

// Round rounds both components half away from zero.
func (p Point) Round() Point {
	return Point{math.Round(p.X), math.Round(p.Y)}
}

// Floor and Ceil align a point to the tile grid; the tiling code relies
// on them when converting pixel bounds to tile index bounds.
func (p Point) Floor() Point {
	return Point{math.Floor(p.X), math.Floor(p.Y)}
}

func (p Point) Ceil() Point {
	return Point{math.Ceil(p.X), math.Ceil(p.Y)}
}

// DistanceTo returns the Euclidean distance between p and q. Both
// points are in pixel space, so this is a screen distance, not a
// geodesic one.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Equal reports exact component equality.
func (p Point) Equal(q Point) bool {
	return p == q
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%v, %v)", p.X, p.Y)
}
