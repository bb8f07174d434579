package tile

// Grid is a row-major width×height array of kinds.
type Grid struct {
	Width  int
	Height int
	Cells  []Kind
}

// NewGrid returns an all-air grid.
func NewGrid(width, height int) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Grid{Width: width, Height: height, Cells: make([]Kind, width*height)}
}

// Len returns the number of cells.
func (g Grid) Len() int { return len(g.Cells) }

// InBounds reports whether (x, y) is a cell of the grid.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the kind at (x, y); out-of-bounds cells read as air.
func (g Grid) At(x, y int) Kind {
	if !g.InBounds(x, y) {
		return Air
	}
	return g.Cells[y*g.Width+x]
}

// Set stores k at (x, y) when it is in bounds.
func (g Grid) Set(x, y int, k Kind) {
	if g.InBounds(x, y) {
		g.Cells[y*g.Width+x] = k
	}
}

// Coords converts a cell index into (x, y).
func (g Grid) Coords(i int) (int, int) {
	if g.Width == 0 {
		return 0, 0
	}
	return i % g.Width, i / g.Width
}
