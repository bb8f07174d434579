package room

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/milk9111/bloodroom/sprite"
	"github.com/milk9111/bloodroom/tile"
)

// Particles is the particle system the controller asks for bursts.
type Particles interface {
	Spawn(pos image.Point, vx, vy float64, count int)
}

// Sound plays one-shot or looping cues.
type Sound interface {
	Play(id string, loop bool) error
}

// Powerup configures the collect/respawn cycle.
type Powerup struct {
	RespawnTime time.Duration
	// SpentTexture is shown once a collected powerup respawns.
	SpentTexture sprite.TextureID
	SpentFrames  int
	Sound        string
	Burst        int
}

// DefaultRespawnTime is how long a collected powerup stays gone.
const DefaultRespawnTime = 2000 * time.Millisecond

// Controller owns the room state of a running game: the loader and its arena
// block, the room graph, and the animation clock. It is not safe for
// concurrent use; LoadRoom and SwitchRoom must run between collision passes.
type Controller struct {
	loader    *Loader
	graph     *Graph
	arena     Arena
	clock     *Clock
	powerup   Powerup
	particles Particles
	sound     Sound
}

// ControllerConfig wires a Controller.
type ControllerConfig struct {
	Loader    *Loader
	Graph     *Graph
	Clock     *Clock
	Powerup   Powerup
	Particles Particles
	Sound     Sound
}

// NewController builds a controller over loader's arena and catalog.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		loader:    cfg.Loader,
		graph:     cfg.Graph,
		clock:     cfg.Clock,
		powerup:   cfg.Powerup,
		particles: cfg.Particles,
		sound:     cfg.Sound,
	}
	if c.loader != nil {
		c.arena = c.loader.arena
	}
	if c.graph == nil {
		c.graph = NewGraph()
	}
	if c.clock == nil {
		c.clock = NewClock(DefaultFrameTime, ClockReset)
	}
	if c.powerup.RespawnTime <= 0 {
		c.powerup.RespawnTime = DefaultRespawnTime
	}
	return c
}

// LoadRoom makes id the current room.
func (c *Controller) LoadRoom(ctx context.Context, id ID) error {
	log.Printf("Loading room %d", id)
	if _, err := c.loader.Load(ctx, id); err != nil {
		return err
	}
	c.clock.Reset()
	return nil
}

// SwitchRoom moves to the neighbour through dir. It returns ErrNoExit, and
// leaves the current room loaded, when there is none.
func (c *Controller) SwitchRoom(ctx context.Context, dir Direction) error {
	st, ok := c.loader.Current()
	if !ok {
		return ErrNoRoom
	}
	next, ok := c.graph.Neighbor(st.ID, dir)
	if !ok {
		return fmt.Errorf("%w: room %d %s", ErrNoExit, st.ID, dir)
	}
	return c.LoadRoom(ctx, next)
}

// Reload loads the current room again from its resource.
func (c *Controller) Reload(ctx context.Context) error {
	st, ok := c.loader.Current()
	if !ok {
		return ErrNoRoom
	}
	return c.LoadRoom(ctx, st.ID)
}

// SetGraph swaps the room graph, e.g. after the manifest changed on disk.
func (c *Controller) SetGraph(g *Graph) {
	if g != nil {
		c.graph = g
	}
}

// SetSpentTexture changes what respawned powerups show, e.g. after the tile
// textures were rebuilt.
func (c *Controller) SetSpentTexture(id sprite.TextureID, frames int) {
	c.powerup.SpentTexture = id
	c.powerup.SpentFrames = frames
}

// Graph returns the room graph.
func (c *Controller) Graph() *Graph {
	return c.graph
}

// Current returns the loaded room.
func (c *Controller) Current() (*State, bool) {
	return c.loader.Current()
}

// SpawnPoint returns the pixel spawn of the current room, or the zero point
// when none is loaded.
func (c *Controller) SpawnPoint() image.Point {
	st, ok := c.loader.Current()
	if !ok {
		return image.Point{}
	}
	return st.Spawn
}

// Update advances animation and respawn timers of the current room's tiles.
func (c *Controller) Update(delta time.Duration) {
	st, ok := c.loader.Current()
	if !ok {
		return
	}

	if steps := c.clock.Advance(delta); steps > 0 {
		for i, k := range st.Grid.Cells {
			if c.loader.catalog.Lookup(k).Mode != tile.TexAnimate {
				continue
			}
			e := c.arena.At(st.Block.Start + i)
			if e != nil && e.Frames > 0 {
				e.Frame = (e.Frame + steps) % e.Frames
			}
		}
	}

	for i := st.Block.Start; i < st.Block.End(); i++ {
		e := c.arena.At(i)
		if e == nil || e.Respawn <= 0 {
			continue
		}
		e.Respawn -= delta
		if e.Respawn <= 0 {
			e.Respawn = 0
			c.respawn(e)
		}
	}
}

// CollectPowerup takes the active powerup at index: it stops colliding,
// disappears, and starts its respawn countdown.
func (c *Controller) CollectPowerup(index int) error {
	e, err := c.arena.Get(index)
	if err != nil {
		return fmt.Errorf("room: collect: %w", err)
	}
	if e.Pickup != sprite.PickupActive {
		return fmt.Errorf("room: collect %d: %w", index, ErrNotCollectible)
	}

	e.Shape = sprite.ShapeNone
	e.ClearVisual()
	e.Respawn = c.powerup.RespawnTime
	e.Pickup = sprite.PickupCollected

	if c.sound != nil && c.powerup.Sound != "" {
		if err := c.sound.Play(c.powerup.Sound, false); err != nil {
			log.Printf("powerup sound %s: %v", c.powerup.Sound, err)
		}
	}
	if c.particles != nil && c.powerup.Burst > 0 {
		c.particles.Spawn(e.Center(), 0, 0, c.powerup.Burst)
	}
	return nil
}

func (c *Controller) respawn(e *sprite.Entity) {
	e.Shape = sprite.ShapeBox
	e.SetTexture(c.powerup.SpentTexture, c.powerup.SpentFrames)
	e.Pickup = sprite.PickupActive
}
