package grid_test

import (
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/grid"
)

func TestCoverOnTileEdges(t *testing.T) {
	// Bounds landing exactly on tile edges keep both ends: one extra
	// row and column beats a missing one.
	pb := geo.NewBounds(geo.Point{X: 0, Y: 0}, geo.Point{X: 512, Y: 512})
	got := grid.Cover(pb, 1, 256)
	want := grid.Range{Min: grid.Coord{X: 0, Y: 0, Z: 1}, Max: grid.Coord{X: 2, Y: 2, Z: 1}}
	if got != want {
		t.Errorf("Cover = %+v, want %+v", got, want)
	}
}

func TestCoverNegativePixels(t *testing.T) {
	pb := geo.NewBounds(geo.Point{X: -100, Y: -50}, geo.Point{X: 300, Y: 200})
	got := grid.Cover(pb, 3, 256)
	want := grid.Range{Min: grid.Coord{X: -1, Y: -1, Z: 3}, Max: grid.Coord{X: 2, Y: 1, Z: 3}}
	if got != want {
		t.Errorf("Cover = %+v, want %+v", got, want)
	}
}

func TestCoverEveryPixel(t *testing.T) {
	bounds := []geo.Bounds{
		geo.NewBounds(geo.Point{X: 721.16, Y: 312}, geo.Point{X: 1321.16, Y: 712}),
		geo.NewBounds(geo.Point{X: -0.5, Y: 0}, geo.Point{X: 255.5, Y: 256}),
		geo.NewBounds(geo.Point{X: 1000, Y: 1000}, geo.Point{X: 1000.25, Y: 1000.25}),
	}
	for _, pb := range bounds {
		r := grid.Cover(pb, 4, 256)
		size := pb.Size()
		for dx := 0.0; dx <= size.X; dx += size.X/7 + 1e-9 {
			for dy := 0.0; dy <= size.Y; dy += size.Y/7 + 1e-9 {
				px := pb.Min.Add(geo.Point{X: dx, Y: dy})
				tx := int(math.Floor(px.X / 256))
				ty := int(math.Floor(px.Y / 256))
				if tx < r.Min.X || tx > r.Max.X || ty < r.Min.Y || ty > r.Max.Y {
					t.Fatalf("pixel %v in tile %d/%d not covered by %+v", px, tx, ty, r)
				}
			}
		}
	}
}

func TestCoverBox(t *testing.T) {
	sw := geo.LatLng{Lat: 10, Lng: 10}
	ne := geo.LatLng{Lat: 20, Lng: 20}
	for _, tc := range []struct {
		zoom int
		want grid.Range
	}{
		{2, grid.Range{Min: grid.Coord{X: 2, Y: 1, Z: 2}, Max: grid.Coord{X: 3, Y: 2, Z: 2}}},
		{3, grid.Range{Min: grid.Coord{X: 4, Y: 3, Z: 3}, Max: grid.Coord{X: 5, Y: 4, Z: 3}}},
	} {
		got := grid.CoverBox(sw, ne, tc.zoom, 256)
		if got != tc.want {
			t.Errorf("CoverBox(zoom %d) = %+v, want %+v", tc.zoom, got, tc.want)
		}
		// Corner order does not matter.
		if swapped := grid.CoverBox(ne, sw, tc.zoom, 256); swapped != got {
			t.Errorf("CoverBox(ne, sw, %d) = %+v, want %+v", tc.zoom, swapped, got)
		}
	}
}

func TestRangeCoordsRowMajor(t *testing.T) {
	r := grid.Range{Min: grid.Coord{X: 2, Y: 5, Z: 4}, Max: grid.Coord{X: 4, Y: 6, Z: 4}}
	got := slices.Collect(r.Coords())
	want := []grid.Coord{
		{X: 2, Y: 5, Z: 4}, {X: 3, Y: 5, Z: 4}, {X: 4, Y: 5, Z: 4},
		{X: 2, Y: 6, Z: 4}, {X: 3, Y: 6, Z: 4}, {X: 4, Y: 6, Z: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Coords mismatch (-want+got):\n%s", diff)
	}
	if got, want := r.Count(), len(want); got != want {
		t.Errorf("Count = %d, want %d", got, want)
	}
}

func TestRangeCoordsStops(t *testing.T) {
	r := grid.Range{Min: grid.Coord{X: 0, Y: 0, Z: 2}, Max: grid.Coord{X: 3, Y: 3, Z: 2}}
	var n int
	for range r.Coords() {
		n++
		if n == 5 {
			break
		}
	}
	if n != 5 {
		t.Errorf("stopped after %d coords, want 5", n)
	}
}
