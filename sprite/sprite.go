package sprite

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/jakecoffman/cp"
)

// Shape is the collision kind of an entity.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeBox
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeBox:
		return "box"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Response is the gameplay effect of overlapping an entity.
type Response uint8

const (
	ResponseNone Response = iota
	ResponseBlock
	ResponseKill
	ResponsePowerup
)

func (r Response) String() string {
	switch r {
	case ResponseNone:
		return "none"
	case ResponseBlock:
		return "block"
	case ResponseKill:
		return "kill"
	case ResponsePowerup:
		return "powerup"
	default:
		return "unknown"
	}
}

// Rotation is a quarter-turn clockwise rotation.
type Rotation uint8

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// Degrees returns the rotation in degrees.
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}

// Radians returns the rotation in radians, as ebiten's GeoM expects.
func (r Rotation) Radians() float64 {
	return float64(r.Degrees()) * math.Pi / 180
}

// Flip mirrors an entity when drawn.
type Flip uint8

const (
	FlipNone Flip = iota
	FlipHorizontal
	FlipVertical
)

// PickupState tracks the powerup lifecycle of an entity.
type PickupState uint8

const (
	// PickupNone marks an entity that is not collectible.
	PickupNone PickupState = iota
	PickupActive
	PickupCollected
)

// Entity is one drawable/collidable element of the arena.
type Entity struct {
	X, Y, W, H int

	// Texture wins over Color when set.
	Color   color.RGBA
	Texture TextureID

	Frames int
	Frame  int

	Rotation Rotation
	Flip     Flip

	Shape    Shape
	Response Response

	// Zero scale factors mean 1.
	HitBoxScaleX float64
	HitBoxScaleY float64
	Radius       float64

	// Respawn counts down to a powerup respawn; <= 0 is inactive.
	Respawn time.Duration
	Pickup  PickupState
}

// Rect returns the entity's drawn rectangle.
func (e *Entity) Rect() image.Rectangle {
	return image.Rect(e.X, e.Y, e.X+e.W, e.Y+e.H)
}

// Center returns the integer centre of the entity's rectangle.
func (e *Entity) Center() image.Point {
	return image.Pt(e.X+e.W/2, e.Y+e.H/2)
}

// HitBox returns the collision box, scaled about the entity centre.
// B/T follow screen coordinates: B is the top edge, T the bottom edge.
func (e *Entity) HitBox() cp.BB {
	sx := e.HitBoxScaleX
	if sx == 0 {
		sx = 1
	}
	sy := e.HitBoxScaleY
	if sy == 0 {
		sy = 1
	}
	c := cp.Vector{X: float64(e.X) + float64(e.W)/2, Y: float64(e.Y) + float64(e.H)/2}
	return cp.NewBBForExtents(c, float64(e.W)*sx/2, float64(e.H)*sy/2)
}

// SetTexture switches the entity to a texture and resets its frame.
func (e *Entity) SetTexture(id TextureID, frames int) {
	e.Texture = id
	e.Frames = frames
	e.Frame = 0
}

// ClearVisual hides the entity without freeing its slot.
func (e *Entity) ClearVisual() {
	e.Texture = NoTexture
	e.Color = color.RGBA{}
	e.Frames = 0
	e.Frame = 0
}

// Visible reports whether the entity has anything to draw.
func (e *Entity) Visible() bool {
	return e.Texture != NoTexture || e.Color.A != 0
}
