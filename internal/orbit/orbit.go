// Package orbit places bodies on closed-form circular orbits.
//
// Convention (right-handed, Y up): an untilted orbit lies in the XZ plane and a body at
// orbital angle θ sits at (r cos θ, 0, r sin θ) relative to its parent. The orbital plane
// is oriented by rotating about Y by the ascending node and then about X by the tilt.
// Every function here is a pure function of its arguments.
package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const twoPi = 2 * math.Pi

// ErrParams is returned for malformed orbital parameters.
var ErrParams = errors.New("invalid orbital parameters")

// Params are the orbital and spin parameters of one body. Angles are radians,
// speeds radians per second of simulation time.
type Params struct {
	Radius        float64 // orbit radius about the parent
	Speed         float64 // angular speed ω
	Phase         float64 // phase offset φ₀
	Tilt          float64 // orbital-plane inclination
	Node          float64 // longitude of the ascending node
	RotationSpeed float64 // self-rotation speed
	AxialTilt     float64 // spin axis tilt relative to the orbital plane normal
}

// Validate rejects negative radii and non-finite values.
func (p Params) Validate() error {
	vals := map[string]float64{
		"radius":         p.Radius,
		"speed":          p.Speed,
		"phase":          p.Phase,
		"tilt":           p.Tilt,
		"node":           p.Node,
		"rotation speed": p.RotationSpeed,
		"axial tilt":     p.AxialTilt,
	}
	for name, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrParams, name)
		}
	}
	if p.Radius < 0 {
		return fmt.Errorf("%w: radius %g is negative", ErrParams, p.Radius)
	}
	return nil
}

// Period returns 2π/|ω|, or +Inf for a body that does not orbit.
func (p Params) Period() float64 {
	if p.Speed == 0 {
		return math.Inf(1)
	}
	return twoPi / math.Abs(p.Speed)
}

// Angle returns the orbital angle φ₀ + ω·t wrapped to [0, 2π).
func (p Params) Angle(t float64) float64 {
	return wrap(p.Phase + p.Speed*t)
}

// Spin returns the self-rotation angle wrapped to [0, 2π).
func (p Params) Spin(t float64) float64 {
	return wrap(p.RotationSpeed * t)
}

// Plane returns the rotation taking the reference XZ plane onto the orbital plane.
func (p Params) Plane() mgl32.Quat {
	node := mgl32.QuatRotate(float32(p.Node), mgl32.Vec3{0, 1, 0})
	tilt := mgl32.QuatRotate(float32(p.Tilt), mgl32.Vec3{1, 0, 0})
	return node.Mul(tilt)
}

// LocalPosition is the body position relative to its parent at time t.
func (p Params) LocalPosition(t float64) mgl32.Vec3 {
	if p.Radius == 0 {
		return mgl32.Vec3{}
	}
	a := p.Angle(t)
	flat := mgl32.Vec3{
		float32(p.Radius * math.Cos(a)),
		0,
		float32(p.Radius * math.Sin(a)),
	}
	if p.Tilt == 0 && p.Node == 0 {
		return flat
	}
	return p.Plane().Rotate(flat)
}

// Frame returns the orbital frame at time t as (radial, normal, tangential) unit vectors.
// Tangential points along the direction of motion for ω ≥ 0.
func (p Params) Frame(t float64) (radial, normal, tangential mgl32.Vec3) {
	a := p.Angle(t)
	plane := p.Plane()
	radial = plane.Rotate(mgl32.Vec3{float32(math.Cos(a)), 0, float32(math.Sin(a))})
	normal = plane.Rotate(mgl32.Vec3{0, 1, 0})
	tangential = plane.Rotate(mgl32.Vec3{float32(-math.Sin(a)), 0, float32(math.Cos(a))})
	if p.Speed < 0 {
		tangential = tangential.Mul(-1)
	}
	return radial, normal, tangential
}

// Pose is a derived body placement in the star frame.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Angle       float64 // orbital angle at the sampled time
}

// Matrix returns the model matrix T·R·S for a body of visual radius scale.
func (ps Pose) Matrix(scale float32) mgl32.Mat4 {
	t := mgl32.Translate3D(ps.Position.X(), ps.Position.Y(), ps.Position.Z())
	r := ps.Orientation.Mat4()
	s := mgl32.Scale3D(scale, scale, scale)
	return t.Mul4(r).Mul4(s)
}

// At computes the pose of a body at time t given its parent's position.
func (p Params) At(t float64, parent mgl32.Vec3) Pose {
	spin := mgl32.QuatRotate(float32(p.Spin(t)), mgl32.Vec3{0, 1, 0})
	axial := mgl32.QuatRotate(float32(p.AxialTilt), mgl32.Vec3{0, 0, 1})
	return Pose{
		Position:    parent.Add(p.LocalPosition(t)),
		Orientation: p.Plane().Mul(axial).Mul(spin).Normalize(),
		Angle:       p.Angle(t),
	}
}

func wrap(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
