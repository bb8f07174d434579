// Package autotile picks a sprite-sheet frame and rotation for each tile from
// the solidity of its four neighbours.
package autotile

import (
	"github.com/milk9111/bloodroom/sprite"
	"github.com/milk9111/bloodroom/tile"
)

// Neighbour bits of a mask.
const (
	Left  uint8 = 1 << iota
	Right
	Up
	Down
)

// Piece is the frame and rotation drawn for a mask.
type Piece struct {
	Frame    int
	Rotation sprite.Rotation
}

var table = [16]Piece{
	0:  {3, sprite.Rot0},
	1:  {2, sprite.Rot90},
	2:  {2, sprite.Rot270},
	3:  {5, sprite.Rot0},
	4:  {2, sprite.Rot180},
	5:  {1, sprite.Rot180},
	6:  {1, sprite.Rot270},
	7:  {0, sprite.Rot180},
	8:  {2, sprite.Rot0},
	9:  {1, sprite.Rot90},
	10: {1, sprite.Rot0},
	11: {0, sprite.Rot0},
	12: {5, sprite.Rot90},
	13: {0, sprite.Rot90},
	14: {0, sprite.Rot270},
	15: {4, sprite.Rot0},
}

// Lookup maps a 4-bit mask to its piece.
func Lookup(mask uint8) Piece {
	return table[mask&0x0f]
}

// Mask computes the neighbour mask of (x, y). Cells past the grid edge count
// as solid.
func Mask(g tile.Grid, solid func(tile.Kind) bool, x, y int) uint8 {
	filled := func(nx, ny int) bool {
		if !g.InBounds(nx, ny) {
			return true
		}
		return solid(g.At(nx, ny))
	}

	var m uint8
	if filled(x-1, y) {
		m |= Left
	}
	if filled(x+1, y) {
		m |= Right
	}
	if filled(x, y-1) {
		m |= Up
	}
	if filled(x, y+1) {
		m |= Down
	}
	return m
}

// Placement is the resolved piece for one grid cell.
type Placement struct {
	Index int
	Mask  uint8
	Piece
}

// Resolve computes placements for every adjacency-mode cell of g, in scan
// order.
func Resolve(g tile.Grid, cat *tile.Catalog) []Placement {
	var out []Placement
	for i, k := range g.Cells {
		if cat.Lookup(k).Mode != tile.TexAdjacency {
			continue
		}
		x, y := g.Coords(i)
		m := Mask(g, cat.Solid, x, y)
		out = append(out, Placement{Index: i, Mask: m, Piece: Lookup(m)})
	}
	return out
}
