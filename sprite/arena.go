package sprite

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the arena size the game runs with.
const DefaultCapacity = 400

var (
	ErrCapacity = errors.New("sprite: arena full")
	ErrPopOrder = errors.New("sprite: pop is not the most recently pushed block")
	ErrIndex    = errors.New("sprite: index out of range")
)

// Block is a contiguous run of arena slots.
type Block struct {
	Start int
	Count int
}

// End returns the index one past the block.
func (b Block) End() int {
	return b.Start + b.Count
}

// Contains reports whether index lies inside the block.
func (b Block) Contains(index int) bool {
	return index >= b.Start && index < b.End()
}

// Arena is a fixed-capacity pool of entities with stack discipline. Entities
// are addressed by the index Push returned for as long as they are live.
type Arena struct {
	entities []Entity
	len      int
}

// NewArena allocates an arena holding at most capacity entities.
func NewArena(capacity int) *Arena {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena{entities: make([]Entity, capacity)}
}

// Push appends e and returns its index.
func (a *Arena) Push(e Entity) (int, error) {
	if a.len >= len(a.entities) {
		return -1, fmt.Errorf("%w (capacity %d)", ErrCapacity, len(a.entities))
	}
	idx := a.len
	a.entities[idx] = e
	a.len++
	return idx, nil
}

// Pop removes the block [start, start+count). The block must be the tail of
// the arena.
func (a *Arena) Pop(start, count int) error {
	if start < 0 || count < 0 || start+count != a.len {
		return fmt.Errorf("%w: [%d,%d) with length %d", ErrPopOrder, start, start+count, a.len)
	}
	clear(a.entities[start:a.len])
	a.len = start
	return nil
}

// At returns the live entity at index, or nil.
func (a *Arena) At(index int) *Entity {
	if index < 0 || index >= a.len {
		return nil
	}
	return &a.entities[index]
}

// Get is At with an error for callers that want one.
func (a *Arena) Get(index int) (*Entity, error) {
	e := a.At(index)
	if e == nil {
		return nil, fmt.Errorf("%w: %d (length %d)", ErrIndex, index, a.len)
	}
	return e, nil
}

// Len returns the number of live entities.
func (a *Arena) Len() int { return a.len }

// Cap returns the fixed capacity.
func (a *Arena) Cap() int { return len(a.entities) }

// Free returns the number of slots left.
func (a *Arena) Free() int { return len(a.entities) - a.len }
