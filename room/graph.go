package room

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
)

// ID identifies a room. Valid ids are 1..MaxRooms-1.
type ID int

const (
	// NoExit is the neighbour value for "no room this way". It is never a
	// valid room id.
	NoExit ID = 0
	// MaxRooms bounds the room table.
	MaxRooms = 256
)

// Valid reports whether id can name a room.
func (id ID) Valid() bool {
	return id > NoExit && id < MaxRooms
}

// Direction is a cardinal exit, in manifest column order.
type Direction uint8

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown

	numDirections
)

// Opposite returns the direction leading back.
func (d Direction) Opposite() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	default:
		return DirUp
	}
}

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

type graphEntry struct {
	defined bool
	exits   [numDirections]ID
}

// Graph is the static room neighbour table.
type Graph struct {
	rooms [MaxRooms]graphEntry
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Set records the exits of id, ordered left, right, up, down.
func (g *Graph) Set(id ID, exits [4]ID) error {
	if !id.Valid() {
		return fmt.Errorf("room id %d outside 1..%d", id, MaxRooms-1)
	}
	for i, n := range exits {
		if n != NoExit && !n.Valid() {
			return fmt.Errorf("room %d: %s exit %d outside 0..%d", id, Direction(i), n, MaxRooms-1)
		}
	}
	g.rooms[id] = graphEntry{defined: true, exits: exits}
	return nil
}

// Has reports whether id has a manifest entry.
func (g *Graph) Has(id ID) bool {
	return g != nil && id.Valid() && g.rooms[id].defined
}

// Neighbor returns the room through dir from id. ok is false for NoExit,
// undefined rooms and bad directions.
func (g *Graph) Neighbor(id ID, dir Direction) (ID, bool) {
	if !g.Has(id) || dir >= numDirections {
		return NoExit, false
	}
	n := g.rooms[id].exits[dir]
	return n, n != NoExit
}

// Rooms returns every defined id in ascending order.
func (g *Graph) Rooms() []ID {
	if g == nil {
		return nil
	}
	var out []ID
	for id := ID(1); id < MaxRooms; id++ {
		if g.rooms[id].defined {
			out = append(out, id)
		}
	}
	return out
}

// ParseManifest reads the room manifest. The first line is a header and is
// skipped; every other non-blank line is "<id>: <left> <right> <up> <down>".
func ParseManifest(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty manifest", ErrMalformed)
	}

	g := NewGraph()
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		id, exits, err := parseManifestLine(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		if g.Has(id) {
			return nil, fmt.Errorf("%w: line %d: room %d listed twice", ErrMalformed, line, id)
		}
		if err := g.Set(id, exits); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

func parseManifestLine(text string) (ID, [4]ID, error) {
	var exits [4]ID

	head, tail, ok := strings.Cut(text, ":")
	if !ok {
		return 0, exits, fmt.Errorf("missing ':' in %q", text)
	}
	id, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, exits, fmt.Errorf("bad room id %q", head)
	}

	fields := strings.Fields(tail)
	if len(fields) != len(exits) {
		return 0, exits, fmt.Errorf("room %d: want %d neighbours, got %d", id, len(exits), len(fields))
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return 0, exits, fmt.Errorf("room %d: bad neighbour %q", id, f)
		}
		exits[i] = ID(n)
	}
	return ID(id), exits, nil
}

// LoadGraph opens and parses a manifest from fsys.
func LoadGraph(fsys fs.FS, name string) (*Graph, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, &ResourceError{Resource: name, Err: err}
	}
	defer f.Close()

	g, err := ParseManifest(f)
	if err != nil {
		return nil, &ResourceError{Resource: name, Err: err}
	}
	return g, nil
}
