package particles

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
	"time"
)

func TestSpawnAndExpire(t *testing.T) {
	s := NewSystem(Config{Life: 100 * time.Millisecond})
	s.Spawn(image.Pt(80, 48), 0, 0, 10)
	if s.Len() != 10 {
		t.Fatalf("expected 10 particles, got %d", s.Len())
	}

	s.Update(60 * time.Millisecond)
	if s.Len() != 10 {
		t.Fatalf("particles expired early")
	}
	for _, p := range s.live {
		if p.x != 80 || p.y != 48 {
			t.Fatalf("zero-velocity particle moved to (%v,%v)", p.x, p.y)
		}
	}

	s.Update(40 * time.Millisecond)
	if s.Len() != 0 {
		t.Fatalf("expected all particles gone, got %d", s.Len())
	}
}

func TestSpawnMoves(t *testing.T) {
	s := NewSystem(Config{Life: time.Second})
	s.Spawn(image.Pt(0, 0), 100, -50, 1)
	s.Update(500 * time.Millisecond)
	p := s.live[0]
	if p.x != 50 || p.y != -25 {
		t.Fatalf("expected (50,-25), got (%v,%v)", p.x, p.y)
	}
}

func TestSpreadIsBounded(t *testing.T) {
	s := NewSystem(Config{Spread: 40, Rand: rand.New(rand.NewPCG(1, 2))})
	s.Spawn(image.Pt(0, 0), 0, 0, 50)
	for _, p := range s.live {
		if p.vx*p.vx+p.vy*p.vy > 40*40+1e-9 {
			t.Fatalf("particle speed exceeds spread: (%v,%v)", p.vx, p.vy)
		}
	}
}

func TestPoolIsBounded(t *testing.T) {
	s := NewSystem(Config{})
	s.Spawn(image.Pt(0, 0), 0, 0, MaxParticles+20)
	if s.Len() != MaxParticles {
		t.Fatalf("expected %d particles, got %d", MaxParticles, s.Len())
	}
}

func TestFadeScalesEveryChannel(t *testing.T) {
	s := NewSystem(Config{Life: time.Second, Color: color.RGBA{R: 200, G: 100, B: 40, A: 200}})

	cases := []struct {
		name string
		age  time.Duration
		want color.RGBA
	}{
		{"fresh", 0, color.RGBA{R: 200, G: 100, B: 40, A: 200}},
		{"half", 500 * time.Millisecond, color.RGBA{R: 100, G: 50, B: 20, A: 100}},
		{"expired", time.Second, color.RGBA{}},
		{"past_life", 2 * time.Second, color.RGBA{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := s.colorAt(c.age)
			if got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
			if got.R > got.A || got.G > got.A || got.B > got.A {
				t.Fatalf("channel above alpha is not premultiplied: %v", got)
			}
		})
	}
}
