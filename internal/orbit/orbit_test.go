package orbit

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, want, got mgl32.Vec3, tol float32) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], float64(tol), "component %d of %v vs %v", i, want, got)
	}
}

func TestPlanetAtKnownTimes(t *testing.T) {
	p := Params{Radius: 10, Speed: 1}
	assertVec(t, mgl32.Vec3{10, 0, 0}, p.At(0, mgl32.Vec3{}).Position, 1e-5)
	assertVec(t, mgl32.Vec3{0, 0, 10}, p.At(math.Pi/2, mgl32.Vec3{}).Position, 1e-5)
	assertVec(t, mgl32.Vec3{-10, 0, 0}, p.At(math.Pi, mgl32.Vec3{}).Position, 1e-5)
}

func TestPeriodicity(t *testing.T) {
	bodies := []Params{
		{Radius: 10, Speed: 1},
		{Radius: 24, Speed: 0.35, Phase: 1.2, Tilt: 0.1, Node: 0.4, RotationSpeed: 2},
		{Radius: 3.5, Speed: -2.4, Phase: -0.3, Tilt: -0.2},
		{Radius: 57, Speed: 0.05, Phase: 5, AxialTilt: 0.4, RotationSpeed: 0.7},
	}
	for _, b := range bodies {
		period := b.Period()
		for _, tm := range []float64{0, 0.5, 3.25, 17, 1234.5} {
			a := b.At(tm, mgl32.Vec3{})
			c := b.At(tm+period, mgl32.Vec3{})
			assertVec(t, a.Position, c.Position, 1e-3)
		}
	}
}

func TestStarIsFixed(t *testing.T) {
	star := Params{RotationSpeed: 0.2}
	assert.True(t, math.IsInf(star.Period(), 1))
	for _, tm := range []float64{0, 1, 1e4} {
		assertVec(t, mgl32.Vec3{}, star.At(tm, mgl32.Vec3{}).Position, 0)
	}
}

func TestAngleWrapsContinuously(t *testing.T) {
	p := Params{Radius: 5, Speed: 1}
	before := p.At(2*math.Pi-1e-6, mgl32.Vec3{}).Position
	after := p.At(2*math.Pi+1e-6, mgl32.Vec3{}).Position
	assertVec(t, before, after, 1e-4)
	assert.GreaterOrEqual(t, p.Angle(-3), 0.0)
	assert.Less(t, p.Angle(-3), 2*math.Pi)
}

func TestTiltLiftsOrbitOutOfPlane(t *testing.T) {
	p := Params{Radius: 10, Speed: 1, Tilt: math.Pi / 6}
	pos := p.At(math.Pi/2, mgl32.Vec3{}).Position
	assert.NotZero(t, pos.Y())
	assert.InDelta(t, 10, pos.Len(), 1e-4)
}

func TestFrameIsOrthonormal(t *testing.T) {
	p := Params{Radius: 8, Speed: 0.7, Tilt: 0.3, Node: 1.1}
	r, n, tg := p.Frame(2.5)
	assert.InDelta(t, 1, r.Len(), 1e-5)
	assert.InDelta(t, 1, n.Len(), 1e-5)
	assert.InDelta(t, 1, tg.Len(), 1e-5)
	assert.InDelta(t, 0, r.Dot(n), 1e-5)
	assert.InDelta(t, 0, r.Dot(tg), 1e-5)
	assert.InDelta(t, 0, n.Dot(tg), 1e-5)

	// Tangential points along the motion.
	dt := 1e-3
	step := p.LocalPosition(2.5 + dt).Sub(p.LocalPosition(2.5))
	assert.Greater(t, step.Dot(tg), float32(0))
}

func TestSpinOrientation(t *testing.T) {
	p := Params{RotationSpeed: 1}
	q := p.At(math.Pi/2, mgl32.Vec3{}).Orientation
	// A quarter turn about +Y maps +X onto -Z.
	assertVec(t, mgl32.Vec3{0, 0, -1}, q.Rotate(mgl32.Vec3{1, 0, 0}), 1e-5)
}

func TestPoseMatrix(t *testing.T) {
	pose := Pose{Position: mgl32.Vec3{1, 2, 3}, Orientation: mgl32.QuatIdent()}
	m := pose.Matrix(2)
	got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVec(t, mgl32.Vec3{3, 2, 3}, got, 1e-6)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Params{Radius: 0}.Validate())
	assert.ErrorIs(t, Params{Radius: -1}.Validate(), ErrParams)
	assert.ErrorIs(t, Params{Speed: math.NaN()}.Validate(), ErrParams)
	assert.ErrorIs(t, Params{Tilt: math.Inf(1)}.Validate(), ErrParams)
}

func TestResolveComposesParents(t *testing.T) {
	nodes := []Node{
		{Params: Params{}, Parent: Root},
		{Params: Params{Radius: 10, Speed: 1}, Parent: 0},
		{Params: Params{Radius: 2, Speed: 3}, Parent: 1},
	}
	require.NoError(t, ValidateChain(nodes))

	for _, tm := range []float64{0, 0.8, math.Pi} {
		poses := Resolve(nodes, tm, nil)
		require.Len(t, poses, 3)
		planet := nodes[1].Params.LocalPosition(tm)
		moon := nodes[2].Params.LocalPosition(tm)
		assertVec(t, planet.Add(moon), poses[2].Position, 1e-5)
		assert.InDelta(t, 2, poses[2].Position.Sub(poses[1].Position).Len(), 1e-4)
	}
}

func TestResolveReusesBuffer(t *testing.T) {
	nodes := []Node{{Parent: Root}, {Params: Params{Radius: 1, Speed: 1}, Parent: 0}}
	buf := make([]Pose, 0, 4)
	out := Resolve(nodes, 1, buf)
	assert.Len(t, out, 2)
	assert.Equal(t, 4, cap(out))
}

func TestValidateChainRejectsForwardParent(t *testing.T) {
	nodes := []Node{
		{Params: Params{Radius: 3}, Parent: 1},
		{Params: Params{}, Parent: Root},
	}
	assert.ErrorIs(t, ValidateChain(nodes), ErrParams)

	self := []Node{{Params: Params{}, Parent: 0}}
	assert.ErrorIs(t, ValidateChain(self), ErrParams)
}
