package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/grid"
	"github.com/ElWali/waw/mercator"
	"github.com/ElWali/waw/view"
	"github.com/google/subcommands"
)

type coverCmd struct {
	lat    float64
	lng    float64
	zoom   float64
	width  float64
	height float64
	url    string
}

func (c *coverCmd) Name() string     { return "cover" }
func (c *coverCmd) Synopsis() string { return "list the tiles covering a viewport" }
func (c *coverCmd) Usage() string {
	return "wawtiles cover -lat <deg> -lng <deg> -zoom <level> [-width <px> -height <px> -url <template>]\n"
}
func (c *coverCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.lat, "lat", 0, "Viewport center latitude")
	f.Float64Var(&c.lng, "lng", 0, "Viewport center longitude")
	f.Float64Var(&c.zoom, "zoom", 0, "Zoom level")
	f.Float64Var(&c.width, "width", 1024, "Viewport width in pixels")
	f.Float64Var(&c.height, "height", 768, "Viewport height in pixels")
	f.StringVar(&c.url, "url", "", "Optional URL template with {x}, {y} and {z}")
}

// coveredTiles lists the wrapped, deduplicated tiles of a range,
// dropping coordinates whose y falls off the map.
func coveredTiles(r grid.Range) []grid.Coord {
	seen := make(map[grid.Coord]bool)
	tiles := make([]grid.Coord, 0, r.Count())
	for coord := range r.Coords() {
		coord = coord.Wrapped()
		if !coord.Valid() || seen[coord] {
			continue
		}
		seen[coord] = true
		tiles = append(tiles, coord)
	}
	return tiles
}

func (c *coverCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	center, err := geo.NewLatLng(c.lat, c.lng)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if c.zoom < 0 || c.zoom > 30 {
		log.Printf("invalid zoom: %v", c.zoom)
		return subcommands.ExitFailure
	}

	s := view.New(center, c.zoom, geo.Point{X: c.width, Y: c.height})
	zoom := int(math.Round(s.Zoom()))
	for _, coord := range coveredTiles(grid.Cover(s.PixelBounds(), zoom, mercator.TileSize)) {
		if c.url != "" {
			fmt.Println(coord, grid.ExpandTemplate(c.url, coord))
		} else {
			fmt.Println(coord)
		}
	}
	return subcommands.ExitSuccess
}
