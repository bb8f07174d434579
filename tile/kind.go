package tile

import "fmt"

// Kind is the static category of a grid cell.
type Kind uint8

const (
	Air Kind = iota
	Wall
	Spike
	Blood

	numKinds
)

var kindNames = [numKinds]string{
	Air:   "air",
	Wall:  "wall",
	Spike: "spike",
	Blood: "blood",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind maps a catalog name to its kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return Air, fmt.Errorf("tile: unknown kind %q", name)
}

// FromGlyph maps a room file byte to a kind. The spawn marker 'c' is air;
// callers that care about the spawn point check for it themselves.
func FromGlyph(c byte) Kind {
	switch c {
	case '#':
		return Wall
	case 'x':
		return Spike
	case 'b':
		return Blood
	default:
		return Air
	}
}

// TexMode says how a tile's texture frame is chosen.
type TexMode uint8

const (
	TexNone TexMode = iota
	// TexAdjacency picks frame and rotation from solid neighbours.
	TexAdjacency
	// TexAnimate cycles frames on the animation clock.
	TexAnimate
	// TexStatic pins a single frame (Descriptor.StaticFrame).
	TexStatic
)

func (m TexMode) String() string {
	switch m {
	case TexNone:
		return "none"
	case TexAdjacency:
		return "adjacency"
	case TexAnimate:
		return "animate"
	case TexStatic:
		return "static"
	default:
		return "unknown"
	}
}
