package tile

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/bloodroom/sprite"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Descriptor is the immutable description of a tile kind.
type Descriptor struct {
	Kind        Kind
	Color       color.RGBA
	Texture     sprite.TextureID
	Frames      int
	Shape       sprite.Shape
	Response    sprite.Response
	Mode        TexMode
	StaticFrame int

	// HitBoxScaleX and HitBoxScaleY shrink the box about the tile centre;
	// zero means full size.
	HitBoxScaleX float64
	HitBoxScaleY float64
	Radius       float64

	// Solid tiles count as filled neighbours when autotiling.
	Solid bool
}

// Catalog is the read-only kind → descriptor table.
type Catalog struct {
	tiles [numKinds]Descriptor
}

// Lookup returns the descriptor for k. Unknown kinds read as air.
func (c *Catalog) Lookup(k Kind) Descriptor {
	if c == nil || k >= numKinds {
		return Descriptor{Kind: Air}
	}
	return c.tiles[k]
}

// Solid reports whether k is solid.
func (c *Catalog) Solid(k Kind) bool {
	return c.Lookup(k).Solid
}

// CatalogSpec is the YAML form of the catalog.
type CatalogSpec struct {
	Tiles map[string]TileSpec `yaml:"tiles"`
}

type TileSpec struct {
	Color     string `yaml:"color"`
	Texture   string `yaml:"texture"`
	Frames    int    `yaml:"frames"`
	Collision string `yaml:"collision"`
	Response  string `yaml:"response"`
	Mode      string `yaml:"mode"`
	Frame     int    `yaml:"frame"`
	Solid     bool   `yaml:"solid"`

	HitBoxScaleX float64 `yaml:"hitbox_scale_x"`
	HitBoxScaleY float64 `yaml:"hitbox_scale_y"`
	Radius       float64 `yaml:"radius"`
}

// LoadCatalog parses a YAML catalog and interns its textures.
func LoadCatalog(data []byte, textures *sprite.Textures) (*Catalog, error) {
	var spec CatalogSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("tile: unmarshal catalog: %w", err)
	}
	return BuildCatalog(spec, textures)
}

// BuildCatalog validates spec and builds the catalog. Every kind must be
// described exactly once.
func BuildCatalog(spec CatalogSpec, textures *sprite.Textures) (*Catalog, error) {
	var (
		c    Catalog
		seen [numKinds]bool
	)

	for name, ts := range spec.Tiles {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		d, err := buildDescriptor(k, ts, textures)
		if err != nil {
			return nil, fmt.Errorf("tile: %s: %w", name, err)
		}
		c.tiles[k] = d
		seen[k] = true
	}

	for k, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("tile: catalog has no entry for %s", Kind(k))
		}
	}
	return &c, nil
}

func buildDescriptor(k Kind, ts TileSpec, textures *sprite.Textures) (Descriptor, error) {
	d := Descriptor{Kind: k, Solid: ts.Solid}

	if ts.Color != "" {
		col, err := ParseColor(ts.Color)
		if err != nil {
			return d, err
		}
		d.Color = col
	}

	if ts.Texture != "" {
		if ts.Frames < 1 {
			return d, fmt.Errorf("texture %q needs frames >= 1", ts.Texture)
		}
		if textures == nil {
			return d, fmt.Errorf("texture %q without a texture registry", ts.Texture)
		}
		d.Texture = textures.Intern(ts.Texture, ts.Frames)
		d.Frames = ts.Frames
	}

	if d.Texture == sprite.NoTexture && ts.Color == "" {
		return d, fmt.Errorf("needs a color or a texture")
	}

	var err error
	if d.Shape, err = parseShape(ts.Collision); err != nil {
		return d, err
	}
	if d.Response, err = parseResponse(ts.Response); err != nil {
		return d, err
	}
	if d.Mode, err = parseMode(ts.Mode); err != nil {
		return d, err
	}

	if d.Mode != TexNone && d.Texture == sprite.NoTexture {
		return d, fmt.Errorf("mode %s needs a texture", d.Mode)
	}
	if d.Mode == TexStatic {
		if ts.Frame < 0 || ts.Frame >= d.Frames {
			return d, fmt.Errorf("static frame %d outside [0,%d)", ts.Frame, d.Frames)
		}
		d.StaticFrame = ts.Frame
	}
	if d.Shape == sprite.ShapeNone && d.Response != sprite.ResponseNone {
		return d, fmt.Errorf("response %s without a collision shape", d.Response)
	}
	if ts.HitBoxScaleX < 0 || ts.HitBoxScaleX > 1 || ts.HitBoxScaleY < 0 || ts.HitBoxScaleY > 1 {
		return d, fmt.Errorf("hit box scale must be within [0,1]")
	}
	d.HitBoxScaleX = ts.HitBoxScaleX
	d.HitBoxScaleY = ts.HitBoxScaleY
	if d.Shape == sprite.ShapeCircle {
		if ts.Radius <= 0 {
			return d, fmt.Errorf("circle collision needs radius > 0")
		}
		d.Radius = ts.Radius
	}
	return d, nil
}

func parseShape(s string) (sprite.Shape, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return sprite.ShapeNone, nil
	case "box":
		return sprite.ShapeBox, nil
	case "circle":
		return sprite.ShapeCircle, nil
	}
	return sprite.ShapeNone, fmt.Errorf("unknown collision %q", s)
}

func parseResponse(s string) (sprite.Response, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return sprite.ResponseNone, nil
	case "block":
		return sprite.ResponseBlock, nil
	case "kill":
		return sprite.ResponseKill, nil
	case "powerup":
		return sprite.ResponsePowerup, nil
	}
	return sprite.ResponseNone, fmt.Errorf("unknown response %q", s)
}

func parseMode(s string) (TexMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return TexNone, nil
	case "adjacency":
		return TexAdjacency, nil
	case "animate":
		return TexAnimate, nil
	case "static":
		return TexStatic, nil
	}
	return TexNone, fmt.Errorf("unknown texture mode %q", s)
}

// ParseColor accepts a colornames name ("black") or a #rrggbb / #rrggbbaa
// literal.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		if col, ok := colornames.Map[strings.ToLower(s)]; ok {
			return col, nil
		}
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}

	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color literal %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color literal %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
