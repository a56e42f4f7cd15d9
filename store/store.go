// Package store provides persistent tile sets for prefetching:
// MBTiles archives and XYZ directory trees.
//
// Note: MBTiles needs the sqlite3 database/sql driver registered
// (e.g. import _ "github.com/mattn/go-sqlite3") before use.
package store

import "github.com/ElWali/waw/grid"

// Store is a persistent tile set keyed by coordinate. Implementations
// are resumable: an existing store opens for further writing.
type Store interface {
	// WriteTile stores one tile, replacing previous content.
	WriteTile(c grid.Coord, content []byte) error

	// ReadTile returns the tile's content. A missing tile is an empty
	// slice and no error.
	ReadTile(c grid.Coord) ([]byte, error)

	// Has reports whether the tile is stored. Resumed prefetches skip
	// tiles already present.
	Has(c grid.Coord) (bool, error)

	// Close flushes and releases the store.
	Close() error
}
