// Package particles runs the short-lived bursts spawned by pickups.
package particles

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/bloodroom/common"
)

const (
	DefaultLife = 450 * time.Millisecond
	DefaultSize = 3
	// MaxParticles bounds the live pool; spawns past it are dropped.
	MaxParticles = 512
)

type particle struct {
	x, y   float64
	vx, vy float64
	age    time.Duration
}

// Config tunes a System. Zero fields use the defaults.
type Config struct {
	Life  time.Duration
	Size  float32
	Color color.RGBA
	// Spread is the largest random speed, in pixels per second, added to a
	// spawned particle's velocity.
	Spread float64
	Rand   *rand.Rand
}

type System struct {
	life   time.Duration
	size   float32
	color  color.RGBA
	spread float64
	rng    *rand.Rand

	live []particle
}

func NewSystem(cfg Config) *System {
	s := &System{
		life:   cfg.Life,
		size:   cfg.Size,
		color:  cfg.Color,
		spread: cfg.Spread,
		rng:    cfg.Rand,
	}
	if s.life <= 0 {
		s.life = DefaultLife
	}
	if s.size <= 0 {
		s.size = DefaultSize
	}
	if s.color == (color.RGBA{}) {
		s.color = colornames.Crimson
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Spawn emits count particles at pos with velocity (vx, vy) in pixels per
// second, each nudged by a random direction up to the configured spread.
func (s *System) Spawn(pos image.Point, vx, vy float64, count int) {
	if s == nil {
		return
	}
	for i := 0; i < count && len(s.live) < MaxParticles; i++ {
		p := particle{x: float64(pos.X), y: float64(pos.Y), vx: vx, vy: vy}
		if s.spread > 0 {
			angle := s.rng.Float64() * 2 * math.Pi
			speed := s.rng.Float64() * s.spread
			p.vx += math.Cos(angle) * speed
			p.vy += math.Sin(angle) * speed
		}
		s.live = append(s.live, p)
	}
}

// Update ages and moves every particle, dropping the expired ones.
func (s *System) Update(delta time.Duration) {
	if s == nil || delta <= 0 {
		return
	}
	dt := delta.Seconds()
	live := s.live[:0]
	for _, p := range s.live {
		p.age += delta
		if p.age >= s.life {
			continue
		}
		p.x += p.vx * dt
		p.y += p.vy * dt
		live = append(live, p)
	}
	s.live = live
}

// Len returns the number of live particles.
func (s *System) Len() int {
	if s == nil {
		return 0
	}
	return len(s.live)
}

// Draw renders live particles as squares fading out over their life.
func (s *System) Draw(screen *ebiten.Image) {
	if s == nil || screen == nil {
		return
	}
	half := s.size / 2
	for _, p := range s.live {
		vector.FillRect(screen, float32(p.x)-half, float32(p.y)-half, s.size, s.size, s.colorAt(p.age), false)
	}
}

// colorAt fades the premultiplied particle color toward transparent, so every
// channel scales with alpha.
func (s *System) colorAt(age time.Duration) color.RGBA {
	t := float32(common.Clamp(float64(age)/float64(s.life), 0, 1))
	fade := func(v uint8) uint8 {
		return uint8(common.Lerp(float32(v), 0, t))
	}
	return color.RGBA{R: fade(s.color.R), G: fade(s.color.G), B: fade(s.color.B), A: fade(s.color.A)}
}
