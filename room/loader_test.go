package room

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"testing"

	"github.com/milk9111/bloodroom/sprite"
	"github.com/milk9111/bloodroom/tile"
)

func TestLoaderRoundTrip(t *testing.T) {
	env := newTestEnv(t, 64)
	ctx := context.Background()

	// Something pushed before any room, like the player sprite.
	if _, err := env.arena.Push(sprite.Entity{W: 8, H: 8}); err != nil {
		t.Fatalf("push base: %v", err)
	}
	base := env.arena.Len()
	cells := testDim.Width * testDim.Height

	for _, id := range []ID{1, 2, 1, 1, 2} {
		st, err := env.loader.Load(ctx, id)
		if err != nil {
			t.Fatalf("Load(%d): %v", id, err)
		}
		if st.ID != id {
			t.Fatalf("expected room %d, got %d", id, st.ID)
		}
		if st.Block.Start != base || st.Block.Count != cells {
			t.Fatalf("room %d: expected block [%d,+%d), got %+v", id, base, cells, st.Block)
		}
		if env.arena.Len() != base+cells {
			t.Fatalf("room %d: expected arena length %d, got %d", id, base+cells, env.arena.Len())
		}
		if cur, ok := env.loader.Current(); !ok || cur != st {
			t.Fatalf("current room not recorded")
		}

		if err := env.arena.Pop(st.Block.Start, st.Block.Count); err != nil {
			t.Fatalf("pop: %v", err)
		}
		if env.arena.Len() != base {
			t.Fatalf("pop should restore length %d, got %d", base, env.arena.Len())
		}
		// Put the block back so the loader's next pop is legal.
		for _, k := range st.Grid.Cells {
			_, _ = env.arena.Push(sprite.Entity{Shape: env.catalog.Lookup(k).Shape})
		}
	}
}

func TestLoaderEntities(t *testing.T) {
	env := newTestEnv(t, 64)
	st, err := env.loader.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if st.Spawn != image.Pt(32, 32) {
		t.Fatalf("expected spawn (32,32), got %v", st.Spawn)
	}

	at := func(x, y int) *sprite.Entity {
		idx, ok := st.EntityIndex(x, y)
		if !ok {
			t.Fatalf("no entity for (%d,%d)", x, y)
		}
		return env.arena.At(idx)
	}

	wallTex, _ := env.textures.Lookup("walls.png")
	corner := at(0, 0)
	if corner.Texture != wallTex || corner.Shape != sprite.ShapeBox || corner.Response != sprite.ResponseBlock {
		t.Fatalf("unexpected wall entity %+v", corner)
	}
	if corner.X != 0 || corner.Y != 0 || corner.W != 32 || corner.H != 32 {
		t.Fatalf("unexpected wall rect %+v", corner.Rect())
	}
	// Top-left corner: left and up are edges, right is wall, down is wall.
	if corner.Frame != 4 || corner.Rotation != sprite.Rot0 {
		t.Fatalf("expected full piece (4,0), got (%d,%d)", corner.Frame, corner.Rotation.Degrees())
	}

	spike := at(3, 2)
	if spike.Response != sprite.ResponseKill {
		t.Fatalf("expected spike at (3,2), got %+v", spike)
	}
	// Right and down are edges, up is wall, left is air: mask 14.
	if spike.Frame != 0 || spike.Rotation != sprite.Rot270 {
		t.Fatalf("expected spike piece (0,270), got (%d,%d)", spike.Frame, spike.Rotation.Degrees())
	}

	blood := at(2, 1)
	if blood.Pickup != sprite.PickupActive || blood.Response != sprite.ResponsePowerup || blood.Frames != 4 {
		t.Fatalf("unexpected blood entity %+v", blood)
	}

	air := at(1, 2)
	if air.Texture != sprite.NoTexture || air.Color != env.catalog.Lookup(tile.Air).Color || air.Shape != sprite.ShapeNone {
		t.Fatalf("unexpected air entity %+v", air)
	}
}

func TestLoaderFailureKeepsPreviousRoom(t *testing.T) {
	cases := []struct {
		name  string
		id    ID
		check func(t *testing.T, err error)
	}{
		{"missing", 9, func(t *testing.T, err error) {
			var rerr *ResourceError
			if !errors.As(err, &rerr) || !errors.Is(err, fs.ErrNotExist) {
				t.Fatalf("expected missing-resource error, got %v", err)
			}
			if rerr.Resource != "room9.txt" {
				t.Fatalf("unexpected resource %q", rerr.Resource)
			}
		}},
		{"malformed", 3, func(t *testing.T, err error) {
			var rerr *ResourceError
			if !errors.As(err, &rerr) || !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected malformed-resource error, got %v", err)
			}
		}},
		{"invalid_id", NoExit, func(t *testing.T, err error) {
			var rerr *ResourceError
			if !errors.As(err, &rerr) {
				t.Fatalf("expected resource error, got %v", err)
			}
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := newTestEnv(t, 64)
			ctx := context.Background()
			before, err := env.loader.Load(ctx, 1)
			if err != nil {
				t.Fatalf("Load(1): %v", err)
			}
			length := env.arena.Len()
			first := *env.arena.At(before.Block.Start)

			_, err = env.loader.Load(ctx, c.id)
			c.check(t, err)

			cur, ok := env.loader.Current()
			if !ok || cur != before || cur.ID != 1 {
				t.Fatalf("previous room should stay current")
			}
			if env.arena.Len() != length {
				t.Fatalf("arena length changed: %d -> %d", length, env.arena.Len())
			}
			if *env.arena.At(before.Block.Start) != first {
				t.Fatalf("arena contents changed")
			}
		})
	}
}

func TestLoaderCapacity(t *testing.T) {
	cells := testDim.Width * testDim.Height

	t.Run("first_load", func(t *testing.T) {
		env := newTestEnv(t, cells-1)
		_, err := env.loader.Load(context.Background(), 1)
		if !errors.Is(err, sprite.ErrCapacity) {
			t.Fatalf("expected ErrCapacity, got %v", err)
		}
		if env.arena.Len() != 0 {
			t.Fatalf("nothing should be pushed, got %d", env.arena.Len())
		}
		if _, ok := env.loader.Current(); ok {
			t.Fatalf("no room should be current")
		}
	})

	t.Run("exact_fit_reuses_slots", func(t *testing.T) {
		env := newTestEnv(t, cells)
		ctx := context.Background()
		for _, id := range []ID{1, 2, 1} {
			if _, err := env.loader.Load(ctx, id); err != nil {
				t.Fatalf("Load(%d): %v", id, err)
			}
		}
	})
}

func TestLoaderRefusesWhenBlockIsNotTail(t *testing.T) {
	env := newTestEnv(t, 64)
	ctx := context.Background()
	if _, err := env.loader.Load(ctx, 1); err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, _ = env.arena.Push(sprite.Entity{})
	length := env.arena.Len()

	if _, err := env.loader.Load(ctx, 2); !errors.Is(err, sprite.ErrPopOrder) {
		t.Fatalf("expected ErrPopOrder, got %v", err)
	}
	if env.arena.Len() != length {
		t.Fatalf("arena must be untouched")
	}
	if cur, _ := env.loader.Current(); cur.ID != 1 {
		t.Fatalf("room 1 should stay current")
	}
}
