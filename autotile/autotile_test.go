package autotile

import (
	"testing"

	"github.com/milk9111/bloodroom/sprite"
	"github.com/milk9111/bloodroom/tile"
)

func testCatalog(t *testing.T) *tile.Catalog {
	t.Helper()
	cat, err := tile.BuildCatalog(tile.CatalogSpec{Tiles: map[string]tile.TileSpec{
		"air":   {Color: "black"},
		"wall":  {Texture: "walls.png", Frames: 6, Collision: "box", Response: "block", Mode: "adjacency", Solid: true},
		"spike": {Texture: "spikes.png", Frames: 6, Collision: "box", Response: "kill", Mode: "adjacency", Solid: true},
		"blood": {Texture: "blood.png", Frames: 4, Collision: "box", Response: "powerup", Mode: "animate"},
	}}, sprite.NewTextures())
	if err != nil {
		t.Fatalf("BuildCatalog: %v", err)
	}
	return cat
}

func TestLookupTable(t *testing.T) {
	want := []struct {
		frame   int
		degrees int
	}{
		{3, 0}, {2, 90}, {2, 270}, {5, 0},
		{2, 180}, {1, 180}, {1, 270}, {0, 180},
		{2, 0}, {1, 90}, {1, 0}, {0, 0},
		{5, 90}, {0, 90}, {0, 270}, {4, 0},
	}
	for mask := 0; mask < 16; mask++ {
		p := Lookup(uint8(mask))
		if p.Frame != want[mask].frame || p.Rotation.Degrees() != want[mask].degrees {
			t.Fatalf("mask %d: expected (%d,%d), got (%d,%d)", mask, want[mask].frame, want[mask].degrees, p.Frame, p.Rotation.Degrees())
		}
	}
}

func TestMaskAllNeighbourCombinations(t *testing.T) {
	cat := testCatalog(t)
	for mask := uint8(0); mask < 16; mask++ {
		// 5x5 so the centre's neighbours never touch the edge.
		g := tile.NewGrid(5, 5)
		g.Set(2, 2, tile.Wall)
		if mask&Left != 0 {
			g.Set(1, 2, tile.Wall)
		}
		if mask&Right != 0 {
			g.Set(3, 2, tile.Spike)
		}
		if mask&Up != 0 {
			g.Set(2, 1, tile.Wall)
		}
		if mask&Down != 0 {
			g.Set(2, 3, tile.Spike)
		}
		if got := Mask(g, cat.Solid, 2, 2); got != mask {
			t.Fatalf("expected mask %04b, got %04b", mask, got)
		}
	}
}

func TestMaskGridEdgesAreSolid(t *testing.T) {
	cat := testCatalog(t)
	cases := []struct {
		name  string
		w, h  int
		x, y  int
		want  uint8
		piece Piece
	}{
		{"single_cell", 1, 1, 0, 0, Left | Right | Up | Down, Piece{4, sprite.Rot0}},
		{"top_left", 3, 3, 0, 0, Left | Up, Piece{1, sprite.Rot180}},
		{"top_right", 3, 3, 2, 0, Right | Up, Piece{1, sprite.Rot270}},
		{"bottom_left", 3, 3, 0, 2, Left | Down, Piece{1, sprite.Rot90}},
		{"bottom_edge", 3, 3, 1, 2, Down, Piece{2, sprite.Rot0}},
		{"interior", 3, 3, 1, 1, 0, Piece{3, sprite.Rot0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := tile.NewGrid(c.w, c.h)
			g.Set(c.x, c.y, tile.Wall)
			m := Mask(g, cat.Solid, c.x, c.y)
			if m != c.want {
				t.Fatalf("expected mask %04b, got %04b", c.want, m)
			}
			if got := Lookup(m); got != c.piece {
				t.Fatalf("expected piece %+v, got %+v", c.piece, got)
			}
		})
	}
}

func TestResolveOnlyAdjacencyCells(t *testing.T) {
	cat := testCatalog(t)
	g := tile.NewGrid(3, 1)
	g.Set(0, 0, tile.Wall)
	g.Set(1, 0, tile.Blood)
	g.Set(2, 0, tile.Spike)

	got := Resolve(g, cat)
	if len(got) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(got))
	}
	// Wall at x=0: left edge, up edge, down edge; blood is not solid.
	if got[0].Index != 0 || got[0].Mask != Left|Up|Down {
		t.Fatalf("unexpected wall placement %+v", got[0])
	}
	if got[1].Index != 2 || got[1].Mask != Right|Up|Down {
		t.Fatalf("unexpected spike placement %+v", got[1])
	}

	again := Resolve(g, cat)
	for i := range got {
		if got[i] != again[i] {
			t.Fatalf("resolve is not deterministic at %d", i)
		}
	}
}
