// Package camera turns accumulated input deltas into view and projection matrices.
//
// The camera is always in one of two states: an Orbit around a focus point, steered by
// input, or the fixed BirdsEye overview. While BirdsEye is active input is ignored and the
// last Orbit is kept aside, so toggling back restores it exactly.
package camera

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"solar-system/internal/control"
)

var (
	// WorldUp is the preferred camera up vector.
	WorldUp = mgl32.Vec3{0, 1, 0}
	// FallbackUp replaces WorldUp when the view direction is parallel to it.
	FallbackUp = mgl32.Vec3{0, 0, -1}
)

const parallelEpsilon = 1e-4

// ErrSettings is returned for inconsistent camera settings.
var ErrSettings = errors.New("invalid camera settings")

// Mode names the active state.
type Mode int

const (
	ModeOrbit Mode = iota
	ModeBirdsEye
)

func (m Mode) String() string {
	switch m {
	case ModeOrbit:
		return "orbit"
	case ModeBirdsEye:
		return "birds-eye"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is a camera state variant: Orbit or BirdsEye.
type State interface {
	Pose() Pose
	Mode() Mode
}

// Orbit views Focus from a spherical offset. Angles are radians; Yaw 0 and Pitch 0 put
// the eye on +Z of the focus.
type Orbit struct {
	Yaw      float32
	Pitch    float32
	Distance float32
	Focus    mgl32.Vec3
}

// Mode implements State.
func (Orbit) Mode() Mode { return ModeOrbit }

// Pose implements State.
func (o Orbit) Pose() Pose {
	sy, cy := math32.Sincos(o.Yaw)
	sp, cp := math32.Sincos(o.Pitch)
	offset := mgl32.Vec3{cp * sy, sp, cp * cy}.Mul(o.Distance)
	return Pose{Eye: o.Focus.Add(offset), Target: o.Focus}
}

// Right is the horizontal screen-right direction for this orbit.
func (o Orbit) Right() mgl32.Vec3 {
	sy, cy := math32.Sincos(o.Yaw)
	return mgl32.Vec3{cy, 0, -sy}
}

// BirdsEye is a fixed elevated pose.
type BirdsEye struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
}

// Mode implements State.
func (BirdsEye) Mode() Mode { return ModeBirdsEye }

// Pose implements State.
func (b BirdsEye) Pose() Pose { return Pose{Eye: b.Eye, Target: b.Target} }

// Pose is an eye position looking at a target.
type Pose struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
}

// Forward returns the unit view direction. A zero-length look vector falls back to -Z.
func (p Pose) Forward() mgl32.Vec3 {
	f := p.Target.Sub(p.Eye)
	if f.Len() < parallelEpsilon {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

// Up returns WorldUp, or FallbackUp when the view direction is parallel to WorldUp.
func (p Pose) Up() mgl32.Vec3 {
	if p.Forward().Cross(WorldUp).Len() < parallelEpsilon {
		return FallbackUp
	}
	return WorldUp
}

// View returns the right-handed look-at matrix for the pose.
func (p Pose) View() mgl32.Mat4 {
	fwd := p.Forward()
	return mgl32.LookAtV(p.Eye, p.Eye.Add(fwd), p.Up())
}

// Settings configure limits, rates and the projection.
type Settings struct {
	FovY float32 // degrees
	Near float32
	Far  float32

	Initial     Orbit
	BirdsEye    BirdsEye
	MinDistance float32
	MaxDistance float32
	PitchLimit  float32 // degrees

	RotateRate      float32 // radians per second at full axis deflection
	DragSensitivity float32 // radians per pixel
	ZoomRate        float32 // fractional distance change per scroll notch
	MoveRate        float32 // focus units per second
}

// DefaultSettings returns a camera that frames the default system.
func DefaultSettings() Settings {
	return Settings{
		FovY:            60,
		Near:            0.1,
		Far:             1000,
		Initial:         Orbit{Yaw: 0, Pitch: mgl32.DegToRad(20), Distance: 90},
		BirdsEye:        BirdsEye{Eye: mgl32.Vec3{0, 150, 0}},
		MinDistance:     2,
		MaxDistance:     400,
		PitchLimit:      89,
		RotateRate:      math32.Pi / 2,
		DragSensitivity: 0.005,
		ZoomRate:        0.1,
		MoveRate:        20,
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	var errs []error
	if s.FovY <= 0 || s.FovY >= 180 {
		errs = append(errs, fmt.Errorf("fov %g must be in (0, 180)", s.FovY))
	}
	if s.Near <= 0 || s.Far <= s.Near {
		errs = append(errs, fmt.Errorf("near/far %g/%g must satisfy 0 < near < far", s.Near, s.Far))
	}
	if s.MinDistance <= 0 || s.MaxDistance < s.MinDistance {
		errs = append(errs, fmt.Errorf("distance range [%g, %g] must satisfy 0 < min <= max", s.MinDistance, s.MaxDistance))
	}
	if s.PitchLimit <= 0 || s.PitchLimit >= 90 {
		errs = append(errs, fmt.Errorf("pitch limit %g must be in (0, 90)", s.PitchLimit))
	}
	if s.RotateRate < 0 || s.DragSensitivity < 0 || s.ZoomRate < 0 || s.MoveRate < 0 {
		errs = append(errs, errors.New("rates must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrSettings, errors.Join(errs...))
	}
	return nil
}

// Camera holds the active state and the orbit kept aside while BirdsEye is active.
type Camera struct {
	settings Settings
	state    State
	resume   Orbit
}

// New returns a camera in Orbit mode at the clamped initial orbit.
func New(s Settings) *Camera {
	c := &Camera{settings: s}
	c.state = c.clamp(s.Initial)
	return c
}

// Settings returns the camera settings.
func (c *Camera) Settings() Settings { return c.settings }

// State returns the active state variant.
func (c *Camera) State() State { return c.state }

// Mode returns the active mode.
func (c *Camera) Mode() Mode { return c.state.Mode() }

// Orbit returns the current orbit, or the one that BirdsEye will restore.
func (c *Camera) Orbit() Orbit {
	if o, ok := c.state.(Orbit); ok {
		return o
	}
	return c.resume
}

// Pose derives the eye/target pair from the active state.
func (c *Camera) Pose() Pose { return c.state.Pose() }

// View returns the view matrix for the active state.
func (c *Camera) View() mgl32.Mat4 { return c.state.Pose().View() }

// Projection returns a perspective projection for the given width/height ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	if !(aspect > 0) || math32.IsInf(aspect, 0) {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.settings.FovY), aspect, c.settings.Near, c.settings.Far)
}

// ToggleBirdsEye switches between the orbit and the fixed overview.
func (c *Camera) ToggleBirdsEye() {
	switch s := c.state.(type) {
	case Orbit:
		c.resume = s
		c.state = c.settings.BirdsEye
	case BirdsEye:
		c.state = c.resume
	}
}

// Apply consumes one frame of input over dt seconds. Orbit input is applied before a
// toggle in the same frame; in BirdsEye all continuous input is ignored.
func (c *Camera) Apply(d control.Deltas, dt float32) {
	if dt < 0 {
		dt = 0
	}
	if o, ok := c.state.(Orbit); ok {
		c.state = c.step(o, d, dt)
	}
	if d.ToggleBirdsEye {
		c.ToggleBirdsEye()
	}
}

func (c *Camera) step(o Orbit, d control.Deltas, dt float32) Orbit {
	s := c.settings
	o.Yaw += d.RotateCameraYaw*s.RotateRate*dt - d.DragX*s.DragSensitivity
	o.Pitch += d.RotateCameraPitch*s.RotateRate*dt + d.DragY*s.DragSensitivity
	if d.ZoomDelta != 0 {
		o.Distance *= math32.Exp(-d.ZoomDelta * s.ZoomRate)
	}
	if d.CameraVerticalMove != 0 {
		o.Focus = o.Focus.Add(WorldUp.Mul(d.CameraVerticalMove * s.MoveRate * dt))
	}
	if d.CameraStrafe != 0 {
		o.Focus = o.Focus.Add(o.Right().Mul(d.CameraStrafe * s.MoveRate * dt))
	}
	return c.clamp(o)
}

// clamp keeps pitch inside the pole limit, distance inside its range, and yaw in [-π, π).
func (c *Camera) clamp(o Orbit) Orbit {
	if math32.IsNaN(o.Yaw) {
		o.Yaw = 0
	}
	if math32.IsNaN(o.Pitch) {
		o.Pitch = 0
	}
	limit := mgl32.DegToRad(c.settings.PitchLimit)
	o.Pitch = mgl32.Clamp(o.Pitch, -limit, limit)
	if !(o.Distance >= c.settings.MinDistance) {
		o.Distance = c.settings.MinDistance
	}
	if o.Distance > c.settings.MaxDistance {
		o.Distance = c.settings.MaxDistance
	}
	if o.Yaw >= math32.Pi || o.Yaw < -math32.Pi {
		o.Yaw = math32.Mod(o.Yaw+math32.Pi, 2*math32.Pi)
		if o.Yaw < 0 {
			o.Yaw += 2 * math32.Pi
		}
		o.Yaw -= math32.Pi
	}
	return o
}
