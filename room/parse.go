package room

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/milk9111/bloodroom/tile"
)

// SpawnGlyph marks the player spawn cell in a room file.
const SpawnGlyph = 'c'

// Layout is a parsed room file.
type Layout struct {
	Grid  tile.Grid
	Spawn image.Point
	// HasSpawn is false when the file had no spawn glyph and Spawn is the
	// room centre.
	HasSpawn bool
}

// Parse reads a room grid: one byte per cell, one row per line. The file must
// hold exactly dim.Height rows of dim.Width cells; the final newline, CR line
// endings and trailing blank lines are tolerated.
func Parse(r io.Reader, dim Dimensions) (*Layout, error) {
	if dim.Width <= 0 || dim.Height <= 0 || dim.Cell <= 0 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d cell %d", ErrMalformed, dim.Width, dim.Height, dim.Cell)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rows := bytes.Split(data, []byte{'\n'})
	for i := range rows {
		rows[i] = bytes.TrimSuffix(rows[i], []byte{'\r'})
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	if len(rows) != dim.Height {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrMalformed, len(rows), dim.Height)
	}

	l := &Layout{
		Grid:  tile.NewGrid(dim.Width, dim.Height),
		Spawn: image.Pt(dim.Width*dim.Cell/2, dim.Height*dim.Cell/2),
	}
	for y, row := range rows {
		if len(row) != dim.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, y+1, len(row), dim.Width)
		}
		for x, c := range row {
			if c == SpawnGlyph {
				l.Spawn = image.Pt(x*dim.Cell, y*dim.Cell)
				l.HasSpawn = true
			}
			l.Grid.Set(x, y, tile.FromGlyph(c))
		}
	}
	return l, nil
}
