package physics

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestStep(t *testing.T) {
	var b Body
	b.Step(mgl32.Vec3{0, 0, 2}, 0, 0.5)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, b.Velocity)
	assert.Equal(t, mgl32.Vec3{0, 0, 0.5}, b.Position)

	b = Body{Velocity: mgl32.Vec3{4, 0, 0}}
	b.Step(mgl32.Vec3{}, 2, 0.5)
	assert.InDelta(t, 4*math32.Exp(-1), b.Velocity.X(), 1e-5)
}

func TestConfine(t *testing.T) {
	b := Body{Position: mgl32.Vec3{6, 0, 8}, Velocity: mgl32.Vec3{3, 1, 0}}
	assert.True(t, b.Confine(5))
	assert.InDelta(t, 5, b.Position.Len(), 1e-5)
	out := b.Position.Normalize()
	assert.InDelta(t, 0, b.Velocity.Dot(out), 1e-5, "no outward speed left")
	assert.InDelta(t, 1, b.Velocity.Y(), 1e-6, "tangential speed kept")

	inward := Body{Position: mgl32.Vec3{6, 0, 0}, Velocity: mgl32.Vec3{-1, 0, 0}}
	inward.Confine(5)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, inward.Velocity)

	assert.False(t, (&Body{Position: mgl32.Vec3{1, 0, 0}}).Confine(5))
}

func TestExclude(t *testing.T) {
	b := Body{Position: mgl32.Vec3{0, 0.5, 0}, Velocity: mgl32.Vec3{1, -2, 0}}
	assert.True(t, b.Exclude(2))
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, b.Position)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, b.Velocity)

	origin := Body{}
	origin.Exclude(1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, origin.Position)

	assert.False(t, (&Body{Position: mgl32.Vec3{3, 0, 0}}).Exclude(2))
}

func TestFinite(t *testing.T) {
	assert.True(t, (&Body{}).Finite())
	assert.False(t, (&Body{Velocity: mgl32.Vec3{math32.NaN(), 0, 0}}).Finite())
	assert.False(t, (&Body{Position: mgl32.Vec3{0, math32.Inf(1), 0}}).Finite())
}
