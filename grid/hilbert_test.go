package grid_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ElWali/waw/grid"
)

func fullLevel(z int) []grid.Coord {
	r := grid.Range{Min: grid.Coord{Z: z}, Max: grid.Coord{X: 1<<z - 1, Y: 1<<z - 1, Z: z}}
	return slices.Collect(r.Coords())
}

func sortCoords(coords []grid.Coord) {
	slices.SortFunc(coords, func(a, b grid.Coord) int {
		if a.Z != b.Z {
			return a.Z - b.Z
		}
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
}

func TestHilbertOrderIsPermutation(t *testing.T) {
	coords := fullLevel(2)
	want := slices.Clone(coords)

	grid.HilbertOrder(coords)

	got := slices.Clone(coords)
	sortCoords(got)
	sortCoords(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ordering changed the coordinate set (-want+got):\n%s", diff)
	}
}

func TestHilbertOrderVisitsNeighbors(t *testing.T) {
	// On a full level the curve moves one tile at a time: every pair
	// of consecutive coordinates is edge-adjacent.
	coords := fullLevel(3)
	grid.HilbertOrder(coords)

	for i := 1; i < len(coords); i++ {
		a, b := coords[i-1], coords[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dx+dy != 1 {
			t.Fatalf("consecutive tiles %v and %v are not neighbors", a, b)
		}
	}
}

func TestHilbertOrderZoomAscending(t *testing.T) {
	coords := append(fullLevel(2), fullLevel(1)...)
	grid.HilbertOrder(coords)

	for i := 1; i < len(coords); i++ {
		if coords[i].Z < coords[i-1].Z {
			t.Fatalf("zoom %d ordered after zoom %d", coords[i].Z, coords[i-1].Z)
		}
	}
	if got, want := len(coords), 4+16; got != want {
		t.Fatalf("len = %d, want %d", got, want)
	}
}
