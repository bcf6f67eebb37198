// Package physics integrates point bodies moving in a local frame and keeps them inside
// (or outside) spherical bounds.
package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Body is a point with a velocity, both in the caller's frame.
type Body struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
}

// Step advances the body by dt seconds: accelerate, damp the velocity by exp(-damping·dt),
// then move.
func (b *Body) Step(accel mgl32.Vec3, damping, dt float32) {
	b.Velocity = b.Velocity.Add(accel.Mul(dt))
	if damping > 0 {
		b.Velocity = b.Velocity.Mul(math32.Exp(-damping * dt))
	}
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}

// Confine pulls the body back onto the sphere of radius r about the origin when it has left
// it, and removes the outward part of its velocity. It reports whether it moved the body.
func (b *Body) Confine(r float32) bool {
	l := b.Position.Len()
	if l <= r || l == 0 {
		return false
	}
	out := b.Position.Mul(1 / l)
	b.Position = out.Mul(r)
	if v := b.Velocity.Dot(out); v > 0 {
		b.Velocity = b.Velocity.Sub(out.Mul(v))
	}
	return true
}

// Exclude pushes the body out to the sphere of radius r about the origin when it is inside,
// and removes the inward part of its velocity. A body at the exact origin is pushed along +X.
// It reports whether it moved the body.
func (b *Body) Exclude(r float32) bool {
	l := b.Position.Len()
	if l >= r {
		return false
	}
	out := mgl32.Vec3{1, 0, 0}
	if l > 0 {
		out = b.Position.Mul(1 / l)
	}
	b.Position = out.Mul(r)
	if v := b.Velocity.Dot(out); v < 0 {
		b.Velocity = b.Velocity.Sub(out.Mul(v))
	}
	return true
}

// Finite reports whether position and velocity hold no NaN or Inf.
func (b *Body) Finite() bool {
	for _, x := range [6]float32{b.Position[0], b.Position[1], b.Position[2], b.Velocity[0], b.Velocity[1], b.Velocity[2]} {
		if math32.IsNaN(x) || math32.IsInf(x, 0) {
			return false
		}
	}
	return true
}
