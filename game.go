package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/bloodroom/collision"
	"github.com/milk9111/bloodroom/common"
	"github.com/milk9111/bloodroom/levels"
	"github.com/milk9111/bloodroom/particles"
	"github.com/milk9111/bloodroom/prefabs"
	"github.com/milk9111/bloodroom/render"
	"github.com/milk9111/bloodroom/room"
	"github.com/milk9111/bloodroom/sound"
	"github.com/milk9111/bloodroom/sprite"
	"github.com/milk9111/bloodroom/telemetry"
	"github.com/milk9111/bloodroom/tile"
)

// GameOptions come from the command line.
type GameOptions struct {
	StartRoom int
	Debug     bool
	// Watch reloads rooms and tile specs edited on disk.
	Watch bool
}

type Game struct {
	ctx  context.Context
	spec *prefabs.GameSpec

	levels    fs.FS
	tiles     *tileSet
	arena     *sprite.Arena
	loader    *room.Loader
	ctrl      *room.Controller
	resolver  *collision.Resolver
	renderer  *render.Renderer
	particles *particles.System
	sound     *sound.Player
	input     *Input
	player    *Player
	watcher   *levels.Watcher
	pauseUI   *ebitenui.UI

	paused    bool
	quit      bool
	debug     bool
	last      time.Time
	frames    int
	deaths    int
	collected int
}

func NewGame(ctx context.Context, opts GameOptions) (*Game, error) {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		return nil, err
	}
	if opts.StartRoom > 0 {
		spec.Room.Start = opts.StartRoom
	}

	g := &Game{
		ctx:    ctx,
		spec:   spec,
		levels: levels.FS(),
		debug:  opts.Debug,
		input:  NewInput(),
	}
	dim := room.Dimensions{Width: spec.Room.Width, Height: spec.Room.Height, Cell: spec.Room.Cell}

	g.tiles, err = loadTileSet(spec.Powerup.Texture)
	if err != nil {
		return nil, err
	}

	graph, err := room.LoadGraph(g.levels, spec.Room.Manifest)
	if err != nil {
		return nil, err
	}

	registry, err := render.LoadRegistry(g.tiles.textures, nil)
	if err != nil {
		return nil, err
	}
	g.renderer = render.NewRenderer(registry)
	g.renderer.Debug = opts.Debug

	g.particles = particles.NewSystem(particles.Config{
		Life:   spec.Particles.Life(),
		Size:   spec.Particles.Size,
		Color:  spec.Particles.Color.RGBA,
		Spread: spec.Particles.Spread,
	})

	g.sound = sound.NewPlayer()
	if err := g.sound.Init(); err != nil {
		log.Printf("sound disabled: %v", err)
	}

	clockMode := room.ClockReset
	if spec.Animation.CarryRemainder {
		clockMode = room.ClockCarry
	}

	g.arena = sprite.NewArena(spec.Arena.Capacity)
	g.loader = room.NewLoader(room.LoaderConfig{
		FS:          g.levels,
		FilePattern: spec.Room.FilePattern,
		Dimensions:  dim,
		Catalog:     g.tiles.catalog,
		Arena:       g.arena,
		Tracer:      telemetry.Tracer("room"),
	})
	g.ctrl = room.NewController(room.ControllerConfig{
		Loader: g.loader,
		Graph:  graph,
		Clock:  room.NewClock(spec.Animation.FrameTime(), clockMode),
		Powerup: room.Powerup{
			RespawnTime:  spec.Powerup.RespawnTime(),
			SpentTexture: g.tiles.spent,
			SpentFrames:  g.tiles.textures.Frames(g.tiles.spent),
			Sound:        spec.Powerup.Sound,
			Burst:        spec.Powerup.Particles,
		},
		Particles: g.particles,
		Sound:     g.sound,
	})
	g.resolver = collision.NewResolver(g.arena, g.ctrl)

	if err := g.ctrl.LoadRoom(ctx, room.ID(spec.Room.Start)); err != nil {
		return nil, fmt.Errorf("start room %d: %w", spec.Room.Start, err)
	}
	g.player = NewPlayer(g.ctrl.SpawnPoint(), dim.Cell, g.input, spec.Player)
	g.pauseUI = NewPauseUI(g)

	if opts.Watch {
		w, err := levels.NewWatcher(levels.DiskDir, prefabs.DiskDir)
		if err != nil {
			log.Printf("hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// tileSet is everything built from tiles.yaml. Reloads build a new one, so
// texture ids and frame counts never carry over from the old file.
type tileSet struct {
	textures *sprite.Textures
	catalog  *tile.Catalog
	spent    sprite.TextureID
}

func newTileSet(data []byte, spentTexture string) (*tileSet, error) {
	textures := sprite.NewTextures()
	catalog, err := tile.LoadCatalog(data, textures)
	if err != nil {
		return nil, err
	}
	return &tileSet{
		textures: textures,
		catalog:  catalog,
		spent:    textures.Intern(spentTexture, 1),
	}, nil
}

func loadTileSet(spentTexture string) (*tileSet, error) {
	data, err := prefabs.Load(prefabs.TilesFile)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", prefabs.TilesFile, err)
	}
	return newTileSet(data, spentTexture)
}

func (g *Game) Update() error {
	g.frames++
	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	}
	delta := common.ClampFrame(now.Sub(g.last), g.spec.Frame.Min())
	g.last = now

	g.applyReloads()
	g.input.Update()
	return g.tick(delta)
}

// tick applies this frame's input and, unless the game is paused, steps the
// room, particles and player by delta.
func (g *Game) tick(delta time.Duration) error {
	if g.input.Quit {
		g.requestQuit()
	}
	if g.input.Pause {
		g.setPaused(!g.paused)
	}
	if g.input.ToggleDebug {
		g.toggleDebug()
	}
	if g.paused && !g.quit && g.pauseUI != nil {
		g.pauseUI.Update()
	}
	if g.quit {
		return ebiten.Termination
	}
	if g.paused {
		return nil
	}

	g.ctrl.Update(delta)
	g.particles.Update(delta)
	g.player.Update(g.resolver)
	g.handleEvents()
	g.followExits()
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
}

func (g *Game) toggleDebug() {
	g.debug = !g.debug
	g.renderer.Debug = g.debug
}

func (g *Game) requestQuit() {
	g.quit = true
}

// restartRoom reloads the current room from its file, puts the player back at
// the spawn point and resumes.
func (g *Game) restartRoom() {
	g.reloadRoom("restart")
	g.player.Respawn(g.ctrl.SpawnPoint(), g.loader.Dimensions().Cell)
	g.setPaused(false)
}

func (g *Game) handleEvents() {
	died := false
	for _, evt := range g.resolver.Events().Drain() {
		switch evt.Kind {
		case collision.EventHazard:
			// One death per frame.
			if !died {
				died = true
				g.deaths++
			}
		case collision.EventPowerup:
			g.collected++
			g.player.RefreshJump()
		}
	}
	if died {
		g.player.Respawn(g.ctrl.SpawnPoint(), g.loader.Dimensions().Cell)
	}
}

// followExits switches rooms once the player's centre leaves the screen and
// wraps the player to the matching edge of the new room.
func (g *Game) followExits() {
	dim := g.loader.Dimensions()
	c := g.player.Body.Center()
	w := float64(dim.Width * dim.Cell)
	h := float64(dim.Height * dim.Cell)

	var (
		dir   room.Direction
		shift image.Point
	)
	switch {
	case c.X < 0:
		dir, shift = room.DirLeft, image.Pt(int(w), 0)
	case c.X >= w:
		dir, shift = room.DirRight, image.Pt(-int(w), 0)
	case c.Y < 0:
		dir, shift = room.DirUp, image.Pt(0, int(h))
	case c.Y >= h:
		dir, shift = room.DirDown, image.Pt(0, -int(h))
	default:
		return
	}

	err := g.ctrl.SwitchRoom(g.ctx, dir)
	if err == nil {
		g.player.Body.Pos.X += float64(shift.X)
		g.player.Body.Pos.Y += float64(shift.Y)
		return
	}
	if !errors.Is(err, room.ErrNoExit) {
		log.Printf("switch room %s: %v", dir, err)
	}
	g.player.Respawn(g.ctrl.SpawnPoint(), dim.Cell)
}

// applyReloads handles files the watcher reported since the last frame.
func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reload(name string) {
	switch name {
	case g.spec.Room.Manifest:
		graph, err := room.LoadGraph(g.levels, name)
		if err != nil {
			log.Printf("reload %s: %v", name, err)
			return
		}
		g.ctrl.SetGraph(graph)
		log.Printf("reloaded %s", name)
	case prefabs.TilesFile:
		tiles, err := loadTileSet(g.spec.Powerup.Texture)
		if err != nil {
			log.Printf("reload %s: %v", name, err)
			return
		}
		registry, err := render.LoadRegistry(tiles.textures, nil)
		if err != nil {
			log.Printf("reload %s: %v", name, err)
			return
		}
		if err := g.swapTiles(tiles); err != nil {
			log.Printf("reload %s: %v", name, err)
			return
		}
		debug := g.renderer.Debug
		g.renderer = render.NewRenderer(registry)
		g.renderer.Debug = debug
		log.Printf("reloaded room after %s", name)
	case prefabs.GameFile:
		log.Printf("%s changed; restart to apply", name)
	default:
		st, ok := g.ctrl.Current()
		if !ok || name != g.loader.ResourceName(st.ID) {
			return
		}
		g.reloadRoom(name)
	}
}

// swapTiles reloads the current room with a new tile set. Entities carry
// texture ids of the set they were loaded with, so on failure the old set
// stays in place.
func (g *Game) swapTiles(tiles *tileSet) error {
	old := g.tiles
	g.loader.SetCatalog(tiles.catalog)
	if err := g.ctrl.Reload(g.ctx); err != nil && !errors.Is(err, room.ErrNoRoom) {
		g.loader.SetCatalog(old.catalog)
		return err
	}
	g.tiles = tiles
	g.ctrl.SetSpentTexture(tiles.spent, tiles.textures.Frames(tiles.spent))
	return nil
}

func (g *Game) reloadRoom(reason string) {
	if err := g.ctrl.Reload(g.ctx); err != nil {
		log.Printf("reload room after %s: %v", reason, err)
		return
	}
	log.Printf("reloaded room after %s", reason)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.arena)
	g.particles.Draw(screen)
	g.player.Draw(screen)

	if g.paused && g.pauseUI != nil {
		g.pauseUI.Draw(screen)
	}

	if g.debug {
		roomID := 0
		if st, ok := g.ctrl.Current(); ok {
			roomID = int(st.ID)
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f  room: %d  state: %s\narena: %d/%d (%d free)  deaths: %d  blood: %d",
			ebiten.ActualFPS(), roomID, g.player.State(),
			g.arena.Len(), g.arena.Cap(), g.arena.Free(), g.deaths, g.collected,
		))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.spec.Window.Width, g.spec.Window.Height
}

// Close stops background work.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.sound.Stop()
}
