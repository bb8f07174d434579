package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const (
	GameFile  = "game.yaml"
	TilesFile = "tiles.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GameSpec is the top-level game configuration.
type GameSpec struct {
	Window    WindowSpec    `yaml:"window"`
	Room      RoomSpec      `yaml:"room"`
	Arena     ArenaSpec     `yaml:"arena"`
	Animation AnimationSpec `yaml:"animation"`
	Frame     FrameSpec     `yaml:"frame"`
	Powerup   PowerupSpec   `yaml:"powerup"`
	Particles ParticleSpec  `yaml:"particles"`
	Player    PlayerSpec    `yaml:"player"`
}

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec](GameFile)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", GameFile, err)
	}
	return &spec, nil
}

// Validate rejects values the game cannot run with.
func (s *GameSpec) Validate() error {
	switch {
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d", s.Window.Width, s.Window.Height)
	case s.Room.Width <= 0 || s.Room.Height <= 0 || s.Room.Cell <= 0:
		return fmt.Errorf("room size %dx%d cell %d", s.Room.Width, s.Room.Height, s.Room.Cell)
	case s.Room.Start <= 0 || s.Room.Start > 255:
		return fmt.Errorf("start room %d outside 1..255", s.Room.Start)
	case s.Arena.Capacity < s.Room.Width*s.Room.Height:
		return fmt.Errorf("arena capacity %d cannot hold a %dx%d room", s.Arena.Capacity, s.Room.Width, s.Room.Height)
	case s.Animation.FrameMS <= 0:
		return fmt.Errorf("animation frame_ms must be positive")
	case s.Powerup.RespawnMS <= 0:
		return fmt.Errorf("powerup respawn_ms must be positive")
	}
	return nil
}

type WindowSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type RoomSpec struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Cell        int    `yaml:"cell"`
	Start       int    `yaml:"start"`
	FilePattern string `yaml:"file_pattern"`
	Manifest    string `yaml:"manifest"`
}

type ArenaSpec struct {
	Capacity int `yaml:"capacity"`
}

type AnimationSpec struct {
	FrameMS        float64 `yaml:"frame_ms"`
	CarryRemainder bool    `yaml:"carry_remainder"`
}

func (a AnimationSpec) FrameTime() time.Duration {
	return millis(a.FrameMS)
}

type FrameSpec struct {
	MinMS float64 `yaml:"min_ms"`
}

func (f FrameSpec) Min() time.Duration {
	return millis(f.MinMS)
}

type PowerupSpec struct {
	RespawnMS float64 `yaml:"respawn_ms"`
	Texture   string  `yaml:"texture"`
	Sound     string  `yaml:"sound"`
	Particles int     `yaml:"particles"`
}

func (p PowerupSpec) RespawnTime() time.Duration {
	return millis(p.RespawnMS)
}

type ParticleSpec struct {
	LifeMS float64   `yaml:"life_ms"`
	Size   float32   `yaml:"size"`
	Spread float64   `yaml:"spread"`
	Color  YAMLColor `yaml:"color"`
}

func (p ParticleSpec) Life() time.Duration {
	return millis(p.LifeMS)
}

type PlayerSpec struct {
	Width           float64   `yaml:"width"`
	Height          float64   `yaml:"height"`
	Color           YAMLColor `yaml:"color"`
	MoveSpeed       float64   `yaml:"move_speed"`
	JumpSpeed       float64   `yaml:"jump_speed"`
	DoubleJumpSpeed float64   `yaml:"double_jump_speed"`
	Gravity         float64   `yaml:"gravity"`
	MaxFallSpeed    float64   `yaml:"max_fall_speed"`
	CoyoteFrames    int       `yaml:"coyote_frames"`
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or a colornames name.
type YAMLColor struct {
	color.RGBA
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if !strings.HasPrefix(value.Value, "#") {
		named, ok := colornames.Map[strings.ToLower(value.Value)]
		if !ok {
			return fmt.Errorf("unknown color name: %s", value.Value)
		}
		c.RGBA = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.RGBA = color.RGBA{R: r, G: g, B: b, A: a}
	return nil
}
