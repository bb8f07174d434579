package main

import (
	"context"
	"errors"
	"image"
	"testing"
	"testing/fstest"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/bloodroom/collision"
	"github.com/milk9111/bloodroom/particles"
	"github.com/milk9111/bloodroom/prefabs"
	"github.com/milk9111/bloodroom/render"
	"github.com/milk9111/bloodroom/room"
	"github.com/milk9111/bloodroom/sprite"
	"github.com/milk9111/bloodroom/tile"
)

const gameTiles = `
tiles:
  air:   {color: black}
  wall:  {color: gray, collision: box, response: block, solid: true}
  spike: {color: red, collision: box, response: kill, solid: true}
  blood: {color: crimson, collision: box, response: powerup}
`

// newTestGame runs a 4x3 room with the player spawned next to a blood tile.
func newTestGame(t *testing.T) (*Game, fstest.MapFS) {
	t.Helper()
	fsys := fstest.MapFS{
		"room1.txt": {Data: []byte(
			"#..#\n" +
				"#cb#\n" +
				"####\n")},
	}
	tiles, err := newTileSet([]byte(gameTiles), "")
	if err != nil {
		t.Fatalf("newTileSet: %v", err)
	}

	arena := sprite.NewArena(32)
	loader := room.NewLoader(room.LoaderConfig{
		FS:         fsys,
		Dimensions: room.Dimensions{Width: 4, Height: 3, Cell: 32},
		Catalog:    tiles.catalog,
		Arena:      arena,
	})
	ctrl := room.NewController(room.ControllerConfig{Loader: loader})
	if err := ctrl.LoadRoom(context.Background(), 1); err != nil {
		t.Fatalf("LoadRoom: %v", err)
	}

	in := &Input{}
	return &Game{
		ctx:       context.Background(),
		spec:      &prefabs.GameSpec{},
		tiles:     tiles,
		arena:     arena,
		loader:    loader,
		ctrl:      ctrl,
		resolver:  collision.NewResolver(arena, ctrl),
		renderer:  render.NewRenderer(nil),
		particles: particles.NewSystem(particles.Config{}),
		input:     in,
		player:    NewPlayer(ctrl.SpawnPoint(), 32, in, testPlayerSpec),
	}, fsys
}

func bloodIndex(t *testing.T, g *Game) int {
	t.Helper()
	st, _ := g.ctrl.Current()
	idx, ok := st.EntityIndex(2, 1)
	if !ok {
		t.Fatalf("no entity at (2,1)")
	}
	return idx
}

var spawnPos = cp.Vector{X: 38, Y: 36}

func TestHazardKeepsPowerupsOfTheSameFrame(t *testing.T) {
	g, _ := newTestGame(t)
	g.player.doubleJumped = true
	g.player.Body.Pos = cp.Vector{X: 70, Y: 10}

	q := g.resolver.Events()
	q.Push(collision.Event{Kind: collision.EventHazard, Index: 0})
	q.Push(collision.Event{Kind: collision.EventPowerup, Index: bloodIndex(t, g)})
	q.Push(collision.Event{Kind: collision.EventHazard, Index: 3})
	g.handleEvents()

	if g.deaths != 1 {
		t.Fatalf("expected one death per frame, got %d", g.deaths)
	}
	if g.collected != 1 {
		t.Fatalf("expected the powerup to count, got %d", g.collected)
	}
	if g.player.doubleJumped {
		t.Fatalf("powerup should refresh the air jump")
	}
	if g.player.Body.Pos != spawnPos {
		t.Fatalf("expected respawn at %v, got %v", spawnPos, g.player.Body.Pos)
	}
	if q.Len() != 0 {
		t.Fatalf("events left in the queue: %d", q.Len())
	}
}

func TestPauseFreezesTheWorld(t *testing.T) {
	g, _ := newTestGame(t)
	g.particles.Spawn(image.Pt(10, 10), 0, 0, 3)
	g.player.Body.Pos = cp.Vector{X: 70, Y: 0}

	g.input.Pause = true
	if err := g.tick(16 * time.Millisecond); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !g.paused {
		t.Fatalf("expected the game to pause")
	}
	g.input.Pause = false
	before := g.player.Body.Pos
	for i := 0; i < 10; i++ {
		if err := g.tick(100 * time.Millisecond); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if g.player.Body.Pos != before {
		t.Fatalf("player moved while paused: %v -> %v", before, g.player.Body.Pos)
	}
	if g.particles.Len() != 3 {
		t.Fatalf("particles aged while paused: %d left", g.particles.Len())
	}

	g.input.Pause = true
	if err := g.tick(500 * time.Millisecond); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if g.paused {
		t.Fatalf("expected pause to toggle off")
	}
	if g.particles.Len() != 0 {
		t.Fatalf("expected particles to expire after resuming, %d left", g.particles.Len())
	}
	if g.player.Body.Pos == before {
		t.Fatalf("expected the player to fall after resuming")
	}
}

func TestPauseMenuActions(t *testing.T) {
	t.Run("toggle_debug", func(t *testing.T) {
		g, _ := newTestGame(t)
		g.toggleDebug()
		if !g.debug || !g.renderer.Debug {
			t.Fatalf("expected debug overlay on")
		}
		g.toggleDebug()
		if g.debug || g.renderer.Debug {
			t.Fatalf("expected debug overlay off")
		}
	})

	t.Run("restart_room", func(t *testing.T) {
		g, _ := newTestGame(t)
		idx := bloodIndex(t, g)
		if err := g.ctrl.CollectPowerup(idx); err != nil {
			t.Fatalf("CollectPowerup: %v", err)
		}
		g.player.Body.Pos = cp.Vector{X: 90, Y: 5}
		g.setPaused(true)

		g.restartRoom()
		if g.paused {
			t.Fatalf("restart should resume the game")
		}
		if e := g.arena.At(bloodIndex(t, g)); e.Pickup != sprite.PickupActive || e.Shape != sprite.ShapeBox {
			t.Fatalf("expected fresh blood after restart, got %+v", e)
		}
		if g.player.Body.Pos != spawnPos {
			t.Fatalf("expected player at spawn, got %v", g.player.Body.Pos)
		}
	})

	t.Run("quit", func(t *testing.T) {
		g, _ := newTestGame(t)
		g.setPaused(true)
		g.requestQuit()
		if err := g.tick(16 * time.Millisecond); !errors.Is(err, ebiten.Termination) {
			t.Fatalf("expected termination, got %v", err)
		}
	})

	t.Run("quit_key", func(t *testing.T) {
		g, _ := newTestGame(t)
		g.input.Quit = true
		if err := g.tick(16 * time.Millisecond); !errors.Is(err, ebiten.Termination) {
			t.Fatalf("expected termination, got %v", err)
		}
	})
}

func TestTileSetRebuildDropsStaleFrames(t *testing.T) {
	withFrames := func(n string) []byte {
		return []byte(`
tiles:
  air:   {color: black}
  wall:  {texture: sprites/walls.png, frames: 6, collision: box, response: block, mode: adjacency, solid: true}
  spike: {texture: sprites/spikes.png, frames: 6, collision: box, response: kill, mode: adjacency, solid: true}
  blood: {texture: sprites/blood.png, frames: ` + n + `, collision: box, response: powerup, mode: animate}
`)
	}

	first, err := newTileSet(withFrames("4"), "sprites/blood.png")
	if err != nil {
		t.Fatalf("newTileSet: %v", err)
	}
	if got := first.textures.Frames(first.spent); got != 4 {
		t.Fatalf("expected 4 frames, got %d", got)
	}

	second, err := newTileSet(withFrames("2"), "sprites/blood.png")
	if err != nil {
		t.Fatalf("newTileSet: %v", err)
	}
	if got := second.textures.Frames(second.spent); got != 2 {
		t.Fatalf("expected the reloaded sheet to have 2 frames, got %d", got)
	}
	if d := second.catalog.Lookup(tile.Blood); second.textures.Frames(d.Texture) != 2 {
		t.Fatalf("catalog texture still has %d frames", second.textures.Frames(d.Texture))
	}
}

func TestSwapTiles(t *testing.T) {
	recolored := []byte(`
tiles:
  air:   {color: black}
  wall:  {color: navy, collision: box, response: block, solid: true}
  spike: {color: red, collision: box, response: kill, solid: true}
  blood: {color: crimson, collision: box, response: powerup}
`)

	t.Run("reloads_the_room", func(t *testing.T) {
		g, _ := newTestGame(t)
		next, err := newTileSet(recolored, "")
		if err != nil {
			t.Fatalf("newTileSet: %v", err)
		}
		if err := g.swapTiles(next); err != nil {
			t.Fatalf("swapTiles: %v", err)
		}
		if g.tiles != next {
			t.Fatalf("expected the new tile set to be kept")
		}
		if got := g.arena.At(0).Color; got != colornames.Navy {
			t.Fatalf("expected reloaded wall color %v, got %v", colornames.Navy, got)
		}
	})

	t.Run("keeps_old_set_on_failure", func(t *testing.T) {
		g, fsys := newTestGame(t)
		old := g.tiles
		delete(fsys, "room1.txt")
		next, err := newTileSet(recolored, "")
		if err != nil {
			t.Fatalf("newTileSet: %v", err)
		}
		if err := g.swapTiles(next); err == nil {
			t.Fatalf("expected the reload to fail without the room file")
		}
		if g.tiles != old {
			t.Fatalf("failed swap must keep the old tile set")
		}
		if got := g.arena.At(0).Color; got != colornames.Gray {
			t.Fatalf("expected the old wall color, got %v", got)
		}
	})
}
