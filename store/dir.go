package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ElWali/waw/grid"
)

var ErrInvalidPattern = errors.New("waw: invalid path pattern")

// Dir stores tiles as individual files with paths built from a
// pattern like "tiles/{z}/{x}/{y}.png".
type Dir struct {
	pattern string
}

// NewDir creates a directory store over the given path pattern. The
// pattern must contain all three placeholders, so distinct tiles land
// on distinct paths.
func NewDir(pattern string) (*Dir, error) {
	for _, p := range []string{"{x}", "{y}", "{z}"} {
		if !strings.Contains(pattern, p) {
			return nil, fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, p)
		}
	}
	return &Dir{pattern}, nil
}

func (d *Dir) WriteTile(c grid.Coord, content []byte) error {
	filePath := grid.ExpandTemplate(d.pattern, c)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, content, 0644)
}

func (d *Dir) ReadTile(c grid.Coord) ([]byte, error) {
	content, err := os.ReadFile(grid.ExpandTemplate(d.pattern, c))
	if errors.Is(err, fs.ErrNotExist) {
		return make([]byte, 0), nil
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (d *Dir) Has(c grid.Coord) (bool, error) {
	_, err := os.Stat(grid.ExpandTemplate(d.pattern, c))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *Dir) Close() error {
	return nil
}
