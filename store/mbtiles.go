package store

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/ElWali/waw/grid"
)

// MBTiles stores tiles in an MBTiles (sqlite) archive. Rows are kept
// in the TMS row order the format mandates; coordinates convert on the
// way in and out.
type MBTiles struct {
	db     *sql.DB
	write  *sql.Stmt
	read   *sql.Stmt
	has    *sql.Stmt
	logger *slog.Logger
}

type mbtilesConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type MBTilesOption func(*mbtilesConfig)

// WithMetadata writes the given name/value pairs into the archive's
// metadata table, replacing existing values.
func WithMetadata(metadata map[string]string) MBTilesOption {
	return func(c *mbtilesConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) MBTilesOption {
	return func(c *mbtilesConfig) { c.Logger = logger }
}

// NewMBTiles opens an MBTiles archive for reading and writing,
// creating file and schema as needed. Reopening an existing archive
// keeps its tiles, which is what lets a prefetch resume.
func NewMBTiles(filePath string, opts ...MBTilesOption) (*MBTiles, error) {
	config := mbtilesConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (name TEXT UNIQUE, value TEXT);
		CREATE TABLE IF NOT EXISTS tiles (
			zoom_level INTEGER,
			tile_column INTEGER,
			tile_row INTEGER,
			tile_data BLOB
		);
		CREATE UNIQUE INDEX IF NOT EXISTS tile_index ON tiles (zoom_level, tile_column, tile_row);
	`)
	if err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT OR REPLACE INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	write, err := db.Prepare("INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, err
	}
	read, err := db.Prepare("SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?")
	if err != nil {
		return nil, err
	}
	has, err := db.Prepare("SELECT 1 FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?")
	if err != nil {
		return nil, err
	}

	config.Logger.Debug("waw: mbtiles open", "path", filePath)
	return &MBTiles{db: db, write: write, read: read, has: has, logger: config.Logger}, nil
}

func (m *MBTiles) Close() error {
	m.logger.Debug("waw: mbtiles close")
	return errors.Join(m.write.Close(), m.read.Close(), m.has.Close(), m.db.Close())
}

func (m *MBTiles) WriteTile(c grid.Coord, content []byte) error {
	x, y, z := c.X, c.Y, c.Z
	y = (1 << z) - 1 - y // XYZ -> TMS

	_, err := m.write.Exec(z, x, y, content)
	return err
}

func (m *MBTiles) ReadTile(c grid.Coord) ([]byte, error) {
	x, y, z := c.X, c.Y, c.Z
	y = (1 << z) - 1 - y // XYZ -> TMS

	var content []byte
	if err := m.read.QueryRow(z, x, y).Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make([]byte, 0), nil
		}
		return nil, err
	}
	return content, nil
}

func (m *MBTiles) Has(c grid.Coord) (bool, error) {
	x, y, z := c.X, c.Y, c.Z
	y = (1 << z) - 1 - y // XYZ -> TMS

	var one int
	if err := m.has.QueryRow(z, x, y).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
