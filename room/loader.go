package room

import (
	"context"
	"fmt"
	"image"
	"io/fs"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/milk9111/bloodroom/autotile"
	"github.com/milk9111/bloodroom/sprite"
	"github.com/milk9111/bloodroom/tile"
)

// Arena is the part of sprite.Arena the loader needs.
type Arena interface {
	Push(e sprite.Entity) (int, error)
	Pop(start, count int) error
	At(index int) *sprite.Entity
	Get(index int) (*sprite.Entity, error)
	Len() int
	Cap() int
}

// Dimensions fixes the size of every room.
type Dimensions struct {
	Width  int
	Height int
	Cell   int
}

// DefaultDimensions is the 26x15 grid of 32px cells the game is built for.
var DefaultDimensions = Dimensions{Width: 26, Height: 15, Cell: 32}

// DefaultFilePattern names room resources by id.
const DefaultFilePattern = "room%d.txt"

// State is the transient state of the loaded room.
type State struct {
	ID    ID
	Grid  tile.Grid
	Spawn image.Point
	// Block is the arena range holding the room's tile entities, one per
	// cell in scan order.
	Block sprite.Block
}

// EntityIndex returns the arena index of cell (x, y).
func (s *State) EntityIndex(x, y int) (int, bool) {
	if s == nil || !s.Grid.InBounds(x, y) {
		return -1, false
	}
	return s.Block.Start + y*s.Grid.Width + x, true
}

// Loader parses room resources and keeps their tile entities in the arena.
type Loader struct {
	fsys    fs.FS
	pattern string
	dim     Dimensions
	catalog *tile.Catalog
	arena   Arena
	tracer  trace.Tracer

	cur *State
}

// LoaderConfig configures a Loader. Zero values fall back to defaults.
type LoaderConfig struct {
	FS          fs.FS
	FilePattern string
	Dimensions  Dimensions
	Catalog     *tile.Catalog
	Arena       Arena
	Tracer      trace.Tracer
}

// NewLoader builds a loader.
func NewLoader(cfg LoaderConfig) *Loader {
	l := &Loader{
		fsys:    cfg.FS,
		pattern: cfg.FilePattern,
		dim:     cfg.Dimensions,
		catalog: cfg.Catalog,
		arena:   cfg.Arena,
		tracer:  cfg.Tracer,
	}
	if l.pattern == "" {
		l.pattern = DefaultFilePattern
	}
	if l.dim == (Dimensions{}) {
		l.dim = DefaultDimensions
	}
	if l.tracer == nil {
		l.tracer = noop.NewTracerProvider().Tracer("bloodroom/room")
	}
	return l
}

// Current returns the loaded room, if any.
func (l *Loader) Current() (*State, bool) {
	if l == nil || l.cur == nil {
		return nil, false
	}
	return l.cur, true
}

// SetCatalog swaps the tile catalog used by later loads. Entities already in
// the arena keep their old descriptors until the room is reloaded.
func (l *Loader) SetCatalog(cat *tile.Catalog) {
	if cat != nil {
		l.catalog = cat
	}
}

// Dimensions returns the room size the loader parses.
func (l *Loader) Dimensions() Dimensions {
	return l.dim
}

// ResourceName returns the file name for id.
func (l *Loader) ResourceName(id ID) string {
	return ResourceNameFor(l.pattern, id)
}

// ResourceNameFor formats a room file name from a pattern such as
// DefaultFilePattern.
func ResourceNameFor(pattern string, id ID) string {
	return fmt.Sprintf(pattern, int(id))
}

// Load replaces the current room with room id. Any failure is reported
// before the arena is touched, leaving the previous room in place.
func (l *Loader) Load(ctx context.Context, id ID) (*State, error) {
	_, span := l.tracer.Start(ctx, "room.load", trace.WithAttributes(attribute.Int("room.id", int(id))))
	defer span.End()

	st, err := l.load(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("room.entities", st.Block.Count),
		attribute.Int("arena.len", l.arena.Len()),
	)
	return st, nil
}

func (l *Loader) load(id ID) (*State, error) {
	name := l.ResourceName(id)
	if !id.Valid() {
		return nil, &ResourceError{Resource: name, Err: fmt.Errorf("room id %d outside 1..%d", id, MaxRooms-1)}
	}
	if l.fsys == nil || l.arena == nil || l.catalog == nil {
		return nil, fmt.Errorf("room: loader is missing its fs, arena or catalog")
	}

	layout, err := l.read(name)
	if err != nil {
		return nil, err
	}

	// Validate the arena before popping anything.
	prevCount := 0
	if l.cur != nil {
		if l.cur.Block.End() != l.arena.Len() {
			return nil, fmt.Errorf("room: load %d: %w: room block [%d,%d) is not the arena tail (length %d)",
				id, sprite.ErrPopOrder, l.cur.Block.Start, l.cur.Block.End(), l.arena.Len())
		}
		prevCount = l.cur.Block.Count
	}
	need := layout.Grid.Len()
	if l.arena.Len()-prevCount+need > l.arena.Cap() {
		return nil, fmt.Errorf("room: load %d: %w: need %d slots, %d free",
			id, sprite.ErrCapacity, need, l.arena.Cap()-l.arena.Len()+prevCount)
	}

	if l.cur != nil {
		if err := l.arena.Pop(l.cur.Block.Start, l.cur.Block.Count); err != nil {
			return nil, fmt.Errorf("room: load %d: %w", id, err)
		}
		l.cur = nil
	}

	st := &State{
		ID:    id,
		Grid:  layout.Grid,
		Spawn: layout.Spawn,
		Block: sprite.Block{Start: l.arena.Len()},
	}
	for i, k := range layout.Grid.Cells {
		x, y := layout.Grid.Coords(i)
		if _, err := l.arena.Push(l.entityFor(k, x, y)); err != nil {
			// Unreachable after the capacity check; undo the partial block.
			_ = l.arena.Pop(st.Block.Start, st.Block.Count)
			return nil, fmt.Errorf("room: load %d: %w", id, err)
		}
		st.Block.Count++
	}

	for _, p := range autotile.Resolve(st.Grid, l.catalog) {
		e := l.arena.At(st.Block.Start + p.Index)
		e.Frame = p.Frame
		e.Rotation = p.Rotation
	}

	l.cur = st
	return st, nil
}

func (l *Loader) read(name string) (*Layout, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, &ResourceError{Resource: name, Err: err}
	}
	defer f.Close()

	layout, err := Parse(f, l.dim)
	if err != nil {
		return nil, &ResourceError{Resource: name, Err: err}
	}
	return layout, nil
}

func (l *Loader) entityFor(k tile.Kind, x, y int) sprite.Entity {
	d := l.catalog.Lookup(k)
	e := sprite.Entity{
		X:        x * l.dim.Cell,
		Y:        y * l.dim.Cell,
		W:        l.dim.Cell,
		H:        l.dim.Cell,
		Shape:    d.Shape,
		Response: d.Response,

		HitBoxScaleX: d.HitBoxScaleX,
		HitBoxScaleY: d.HitBoxScaleY,
		Radius:       d.Radius,
	}
	if d.Texture != sprite.NoTexture {
		e.SetTexture(d.Texture, d.Frames)
		if d.Mode == tile.TexStatic {
			e.Frame = d.StaticFrame
		}
	} else {
		e.Color = d.Color
	}
	if d.Response == sprite.ResponsePowerup {
		e.Pickup = sprite.PickupActive
	}
	return e
}
