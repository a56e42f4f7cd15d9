package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ElWali/waw/fetch"
	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/grid"
	"github.com/ElWali/waw/mercator"
	"github.com/ElWali/waw/store"
	"github.com/google/subcommands"
	"github.com/kelseyhightower/envconfig"
	"github.com/schollz/progressbar/v3"
)

// prefetchEnv holds the network knobs, read from WAW_* variables.
type prefetchEnv struct {
	UserAgent string        `envconfig:"USER_AGENT"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"30s"`
	Jobs      int           `envconfig:"JOBS" default:"4"`
}

type prefetchCmd struct {
	bbox         string
	minZoom      int
	maxZoom      int
	url          string
	outputPath   string
	outputFormat string
	pattern      string
}

func (c *prefetchCmd) Name() string { return "prefetch" }
func (c *prefetchCmd) Synopsis() string {
	return "download the tiles covering a bounding box into a store"
}
func (c *prefetchCmd) Usage() string {
	return "wawtiles prefetch -u <template> -o <path> -b <minLng,minLat,maxLng,maxLat> [-minzoom <z> -maxzoom <z> -of <format> -p <pattern>]\n"
}
func (c *prefetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.bbox, "b", "", "Bounding box as minLng,minLat,maxLng,maxLat")
	f.IntVar(&c.minZoom, "minzoom", 0, "Lowest zoom level to fetch")
	f.IntVar(&c.maxZoom, "maxzoom", 0, "Highest zoom level to fetch")
	f.StringVar(&c.url, "u", "", "Tile URL template with {x}, {y} and {z}")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (mbtiles, xyz)")
	f.StringVar(&c.pattern, "p", "{z}/{x}/{y}.png", "Tile path pattern inside an xyz output directory")
}

func (c *prefetchCmd) box() (sw, ne geo.LatLng, err error) {
	var coords [4]float64
	if _, err := fmt.Sscanf(c.bbox, "%f,%f,%f,%f", &coords[0], &coords[1], &coords[2], &coords[3]); err != nil {
		return geo.LatLng{}, geo.LatLng{}, fmt.Errorf("invalid bounding box %q: %w", c.bbox, err)
	}
	if sw, err = geo.NewLatLng(coords[1], coords[0]); err != nil {
		return geo.LatLng{}, geo.LatLng{}, err
	}
	if ne, err = geo.NewLatLng(coords[3], coords[2]); err != nil {
		return geo.LatLng{}, geo.LatLng{}, err
	}
	return sw, ne, nil
}

func (c *prefetchCmd) openStore() (store.Store, error) {
	switch deduceFormat(c.outputFormat, c.outputPath) {
	case "mbtiles":
		metadata := map[string]string{
			"name":    filepath.Base(c.outputPath),
			"bounds":  c.bbox,
			"minzoom": strconv.Itoa(c.minZoom),
			"maxzoom": strconv.Itoa(c.maxZoom),
		}
		if ext := strings.TrimPrefix(path.Ext(c.url), "."); ext != "" {
			metadata["format"] = ext
		}
		return store.NewMBTiles(c.outputPath, store.WithMetadata(metadata))
	case "xyz", "":
		return store.NewDir(filepath.Join(c.outputPath, c.pattern))
	default:
		return nil, fmt.Errorf("invalid output format: %q", c.outputFormat)
	}
}

func (c *prefetchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	var env prefetchEnv
	if err := envconfig.Process("waw", &env); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if env.Jobs < 1 {
		env.Jobs = 1
	}

	for _, placeholder := range []string{"{x}", "{y}", "{z}"} {
		if !strings.Contains(c.url, placeholder) {
			log.Printf("url template missing %s", placeholder)
			return subcommands.ExitFailure
		}
	}
	if c.minZoom < 0 || c.maxZoom < c.minZoom {
		log.Printf("invalid zoom range: %d..%d", c.minZoom, c.maxZoom)
		return subcommands.ExitFailure
	}
	sw, ne, err := c.box()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	st, err := c.openStore()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	var plan []grid.Coord
	for z := c.minZoom; z <= c.maxZoom; z++ {
		plan = append(plan, coveredTiles(grid.CoverBox(sw, ne, z, mercator.TileSize))...)
	}
	grid.HilbertOrder(plan)

	pending := make([]grid.Coord, 0, len(plan))
	skipped := 0
	for _, coord := range plan {
		stored, err := st.Has(coord)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		if stored {
			skipped++
			continue
		}
		pending = append(pending, coord)
	}
	if skipped > 0 {
		log.Printf("skipping %d stored tiles", skipped)
	}

	options := []fetch.Option{fetch.WithTimeout(env.Timeout)}
	if env.UserAgent != "" {
		options = append(options, fetch.WithUserAgent(env.UserAgent))
	}
	client := fetch.NewClient(options...)

	work := make(chan grid.Coord)
	go func() {
		for _, coord := range pending {
			work <- coord
		}
		close(work)
	}()

	type result struct {
		coord   grid.Coord
		content []byte
		err     error
	}
	results := make(chan result, env.Jobs)

	var wg sync.WaitGroup
	wg.Add(env.Jobs)
	for range env.Jobs {
		go func() {
			defer wg.Done()
			for coord := range work {
				content, err := client.Load(ctx, grid.ExpandTemplate(c.url, coord))
				results <- result{coord: coord, content: content, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	bar := progressbar.New(len(pending))
	failed := 0
	for r := range results {
		if r.err != nil {
			failed++
			log.Println(r.err)
		} else if err := st.WriteTile(r.coord, r.content); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	if failed > 0 {
		log.Printf("%d of %d tiles failed", failed, len(pending))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
