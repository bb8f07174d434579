// Package collision classifies overlaps between a moving actor and the
// entities of the sprite arena.
//
// Boxes are cp.BB values in screen coordinates: B is the top edge and T the
// bottom edge, so B <= T as chipmunk expects.
package collision

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/bloodroom/sprite"
)

// View is read access to the arena.
type View interface {
	Len() int
	At(index int) *sprite.Entity
}

// Collector takes powerups the actor touches.
type Collector interface {
	CollectPowerup(index int) error
}

// Actor is the moving body tested against the arena. Pos is its top-left.
type Actor struct {
	Pos  cp.Vector
	Vel  cp.Vector
	W, H float64
}

// Box returns the actor's bounding box.
func (a *Actor) Box() cp.BB {
	return cp.BB{L: a.Pos.X, B: a.Pos.Y, R: a.Pos.X + a.W, T: a.Pos.Y + a.H}
}

// Center returns the centre of the actor's box.
func (a *Actor) Center() cp.Vector {
	return cp.Vector{X: a.Pos.X + a.W/2, Y: a.Pos.Y + a.H/2}
}

// Result summarises one resolve pass.
type Result struct {
	// Grounded is set when a block pushed the actor up.
	Grounded bool
	Ceiling  bool
	Wall     bool
	Hazard   bool
	// Collected lists arena indices of powerups taken this pass.
	Collected []int
}

// Resolver runs the per-frame collision pass.
type Resolver struct {
	view      View
	collector Collector
	events    EventQueue
}

// NewResolver returns a resolver over view. collector may be nil, in which
// case powerups are ignored.
func NewResolver(view View, collector Collector) *Resolver {
	return &Resolver{view: view, collector: collector}
}

// Events returns the queue hazard and powerup events are pushed to.
func (r *Resolver) Events() *EventQueue {
	if r == nil {
		return nil
	}
	return &r.events
}

// Resolve tests a against every collidable entity and applies block
// push-out to it in place.
func (r *Resolver) Resolve(a *Actor) Result {
	var res Result
	if r == nil || r.view == nil || a == nil {
		return res
	}

	for i := 0; i < r.view.Len(); i++ {
		e := r.view.At(i)
		if e == nil || e.Shape == sprite.ShapeNone {
			continue
		}

		push, ok := penetration(a, e)
		if !ok {
			continue
		}

		switch e.Response {
		case sprite.ResponseBlock:
			applyPush(a, push, &res)
		case sprite.ResponseKill:
			res.Hazard = true
			r.events.Push(Event{Kind: EventHazard, Index: i})
		case sprite.ResponsePowerup:
			if r.collector == nil {
				continue
			}
			if err := r.collector.CollectPowerup(i); err != nil {
				continue
			}
			res.Collected = append(res.Collected, i)
			r.events.Push(Event{Kind: EventPowerup, Index: i})
		}
	}
	return res
}

// Overlaps reports whether a overlaps e with positive area.
func Overlaps(a *Actor, e *sprite.Entity) bool {
	_, ok := penetration(a, e)
	return ok
}

// penetration returns the smallest translation that separates a from e.
// Shapes other than box and circle never collide.
func penetration(a *Actor, e *sprite.Entity) (cp.Vector, bool) {
	switch e.Shape {
	case sprite.ShapeBox:
		return boxPenetration(a.Box(), e.HitBox())
	case sprite.ShapeCircle:
		return circlePenetration(a.Box(), e.HitBox().Center(), e.Radius)
	default:
		return cp.Vector{}, false
	}
}

func boxPenetration(a, b cp.BB) (cp.Vector, bool) {
	ox := math.Min(a.R, b.R) - math.Max(a.L, b.L)
	oy := math.Min(a.T, b.T) - math.Max(a.B, b.B)
	if ox <= 0 || oy <= 0 {
		return cp.Vector{}, false
	}

	ac := a.Center()
	bc := b.Center()
	if ox < oy {
		if ac.X < bc.X {
			return cp.Vector{X: -ox}, true
		}
		return cp.Vector{X: ox}, true
	}
	if ac.Y < bc.Y {
		return cp.Vector{Y: -oy}, true
	}
	return cp.Vector{Y: oy}, true
}

func circlePenetration(box cp.BB, c cp.Vector, radius float64) (cp.Vector, bool) {
	if radius <= 0 {
		return cp.Vector{}, false
	}
	closest := cp.Vector{
		X: math.Max(box.L, math.Min(c.X, box.R)),
		Y: math.Max(box.B, math.Min(c.Y, box.T)),
	}
	d := closest.Sub(c)
	dist := d.Length()
	if dist >= radius {
		return cp.Vector{}, false
	}
	if dist == 0 {
		// Centre inside the box: fall back to the circle's bounding box.
		return boxPenetration(box, cp.NewBBForCircle(c, radius))
	}
	return d.Mult((radius - dist) / dist), true
}

func applyPush(a *Actor, push cp.Vector, res *Result) {
	a.Pos = a.Pos.Add(push)
	switch {
	case push.Y < 0:
		res.Grounded = true
		if a.Vel.Y > 0 {
			a.Vel.Y = 0
		}
	case push.Y > 0:
		res.Ceiling = true
		if a.Vel.Y < 0 {
			a.Vel.Y = 0
		}
	}
	if push.X != 0 {
		res.Wall = true
		if (push.X < 0 && a.Vel.X > 0) || (push.X > 0 && a.Vel.X < 0) {
			a.Vel.X = 0
		}
	}
}
