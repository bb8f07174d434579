package room

import (
	"image"
	"testing"
	"testing/fstest"

	"github.com/milk9111/bloodroom/sprite"
	"github.com/milk9111/bloodroom/tile"
)

var testDim = Dimensions{Width: 4, Height: 3, Cell: 32}

func testLevels() fstest.MapFS {
	return fstest.MapFS{
		"map.txt": {Data: []byte("# id: left right up down\n1: 0 2 0 0\n2: 1 0 0 0\n")},
		"room1.txt": {Data: []byte(
			"####\n" +
				"#cb#\n" +
				"#..x\n")},
		"room2.txt": {Data: []byte(
			"....\n" +
				".c..\n" +
				"####\n")},
		"room3.txt": {Data: []byte("###\n")},
	}
}

type testEnv struct {
	textures *sprite.Textures
	catalog  *tile.Catalog
	arena    *sprite.Arena
	loader   *Loader
}

func newTestEnv(t *testing.T, capacity int) *testEnv {
	t.Helper()
	tex := sprite.NewTextures()
	cat, err := tile.BuildCatalog(tile.CatalogSpec{Tiles: map[string]tile.TileSpec{
		"air":   {Color: "black"},
		"wall":  {Texture: "walls.png", Frames: 6, Collision: "box", Response: "block", Mode: "adjacency", Solid: true},
		"spike": {Texture: "spikes.png", Frames: 6, Collision: "box", Response: "kill", Mode: "adjacency", Solid: true},
		"blood": {Texture: "blood.png", Frames: 4, Collision: "box", Response: "powerup", Mode: "animate"},
	}}, tex)
	if err != nil {
		t.Fatalf("BuildCatalog: %v", err)
	}
	arena := sprite.NewArena(capacity)
	return &testEnv{
		textures: tex,
		catalog:  cat,
		arena:    arena,
		loader: NewLoader(LoaderConfig{
			FS:         testLevels(),
			Dimensions: testDim,
			Catalog:    cat,
			Arena:      arena,
		}),
	}
}

type fakeParticles struct {
	pos   []image.Point
	count []int
}

func (f *fakeParticles) Spawn(pos image.Point, vx, vy float64, count int) {
	f.pos = append(f.pos, pos)
	f.count = append(f.count, count)
}

type fakeSound struct {
	played []string
}

func (f *fakeSound) Play(id string, loop bool) error {
	f.played = append(f.played, id)
	return nil
}
