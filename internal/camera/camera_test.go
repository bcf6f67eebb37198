package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-system/internal/control"
)

func TestStartsInOrbit(t *testing.T) {
	c := New(DefaultSettings())
	assert.Equal(t, ModeOrbit, c.Mode())
	assert.Equal(t, "orbit", c.Mode().String())
	assert.Equal(t, DefaultSettings().Initial, c.Orbit())
}

func TestZoomClampsAtMinimum(t *testing.T) {
	s := DefaultSettings()
	c := New(s)
	for i := 0; i < 1000; i++ {
		c.Apply(control.Deltas{ZoomDelta: 5}, 1.0/60)
		require.GreaterOrEqual(t, c.Orbit().Distance, s.MinDistance)
	}
	assert.Equal(t, s.MinDistance, c.Orbit().Distance)

	for i := 0; i < 1000; i++ {
		c.Apply(control.Deltas{ZoomDelta: -5}, 1.0/60)
		require.LessOrEqual(t, c.Orbit().Distance, s.MaxDistance)
	}
	assert.Equal(t, s.MaxDistance, c.Orbit().Distance)
}

func TestPitchClampsAtPoles(t *testing.T) {
	s := DefaultSettings()
	c := New(s)
	limit := mgl32.DegToRad(s.PitchLimit)
	for i := 0; i < 500; i++ {
		c.Apply(control.Deltas{RotateCameraPitch: 1, DragY: 40}, 0.1)
		require.LessOrEqual(t, c.Orbit().Pitch, limit)
	}
	assert.InDelta(t, limit, c.Orbit().Pitch, 1e-6)

	for i := 0; i < 500; i++ {
		c.Apply(control.Deltas{RotateCameraPitch: -1}, 0.1)
		require.GreaterOrEqual(t, c.Orbit().Pitch, -limit)
	}
	assert.InDelta(t, -limit, c.Orbit().Pitch, 1e-6)
}

func TestRotationIsFrameRateIndependent(t *testing.T) {
	a := New(DefaultSettings())
	b := New(DefaultSettings())
	for i := 0; i < 60; i++ {
		a.Apply(control.Deltas{RotateCameraYaw: 1}, 1.0/60)
	}
	for i := 0; i < 15; i++ {
		b.Apply(control.Deltas{RotateCameraYaw: 1}, 1.0/15)
	}
	assert.InDelta(t, a.Orbit().Yaw, b.Orbit().Yaw, 1e-4)
	assert.InDelta(t, DefaultSettings().RotateRate, a.Orbit().Yaw, 1e-4)
}

func TestYawStaysWrapped(t *testing.T) {
	c := New(DefaultSettings())
	for i := 0; i < 100; i++ {
		c.Apply(control.Deltas{RotateCameraYaw: 1}, 0.5)
		y := c.Orbit().Yaw
		require.GreaterOrEqual(t, y, -math32.Pi)
		require.Less(t, y, math32.Pi)
	}
}

func TestToggleRestoresOrbitExactly(t *testing.T) {
	c := New(DefaultSettings())
	c.Apply(control.Deltas{RotateCameraYaw: 0.3, RotateCameraPitch: -0.2, ZoomDelta: 2, CameraVerticalMove: 1}, 0.4)
	before := c.Orbit()

	c.Apply(control.Deltas{ToggleBirdsEye: true}, 0.016)
	require.Equal(t, ModeBirdsEye, c.Mode())
	// Input while in BirdsEye is ignored.
	c.Apply(control.Deltas{RotateCameraYaw: 1, ZoomDelta: 10, DragX: 100, CameraStrafe: 1}, 0.5)
	assert.Equal(t, DefaultSettings().BirdsEye.Pose(), c.Pose())

	c.Apply(control.Deltas{ToggleBirdsEye: true}, 0.016)
	require.Equal(t, ModeOrbit, c.Mode())
	assert.Equal(t, before, c.Orbit())
}

func TestOrbitPose(t *testing.T) {
	o := Orbit{Yaw: 0, Pitch: 0, Distance: 10, Focus: mgl32.Vec3{1, 2, 3}}
	p := o.Pose()
	assert.InDelta(t, 1, p.Eye.X(), 1e-6)
	assert.InDelta(t, 2, p.Eye.Y(), 1e-6)
	assert.InDelta(t, 13, p.Eye.Z(), 1e-6)
	assert.Equal(t, o.Focus, p.Target)
	assert.Equal(t, WorldUp, p.Up())
}

func TestBirdsEyeUsesFallbackUp(t *testing.T) {
	p := BirdsEye{Eye: mgl32.Vec3{0, 100, 0}}.Pose()
	assert.Equal(t, FallbackUp, p.Up())

	view := p.View()
	for _, v := range view {
		require.False(t, math32.IsNaN(v), "view matrix has NaN: %v", view)
	}
	// Looking straight down, +X stays screen-right and the origin is straight ahead.
	right := view.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Greater(t, right.X(), origin.X())
	assert.InDelta(t, -100, origin.Z(), 1e-4)
}

func TestZeroLengthLookVector(t *testing.T) {
	p := Pose{Eye: mgl32.Vec3{1, 1, 1}, Target: mgl32.Vec3{1, 1, 1}}
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, p.Forward())
	for _, v := range p.View() {
		require.False(t, math32.IsNaN(v))
	}
}

func TestStrafeMovesAlongRight(t *testing.T) {
	c := New(DefaultSettings())
	start := c.Orbit().Focus
	c.Apply(control.Deltas{CameraStrafe: 1}, 0.5)
	moved := c.Orbit().Focus.Sub(start)
	assert.InDelta(t, DefaultSettings().MoveRate*0.5, moved.Dot(c.Orbit().Right()), 1e-4)
	assert.InDelta(t, 0, moved.Y(), 1e-6)
}

func TestProjectionAspect(t *testing.T) {
	c := New(DefaultSettings())
	wide := c.Projection(2)
	square := c.Projection(1)
	assert.InDelta(t, square[0]/2, wide[0], 1e-6)
	assert.Equal(t, square, c.Projection(0))
	assert.Equal(t, square, c.Projection(float32(math32.NaN())))
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	s := DefaultSettings()
	s.MinDistance = 0
	s.PitchLimit = 90
	err := s.Validate()
	assert.ErrorIs(t, err, ErrSettings)
	assert.Contains(t, err.Error(), "distance")
	assert.Contains(t, err.Error(), "pitch")
}

func TestNaNInputRecovers(t *testing.T) {
	c := New(DefaultSettings())
	c.Apply(control.Deltas{RotateCameraPitch: math32.NaN()}, 0.1)
	assert.False(t, math32.IsNaN(c.Orbit().Pitch))
}
