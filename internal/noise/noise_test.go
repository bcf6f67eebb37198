package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueNoiseRangeAndDeterminism(t *testing.T) {
	a := NewValue(42)
	b := NewValue(42)
	for i := 0; i < 200; i++ {
		x := float32(i)*0.37 - 20
		y := float32(i)*0.11 + 3
		z := float32(i)*-0.23 + 1
		v := a.Eval3(x, y, z)
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
		require.Equal(t, v, b.Eval3(x, y, z))
	}
}

func TestValueNoiseIsContinuousAcrossLattice(t *testing.T) {
	n := NewValue(7)
	const eps = 1e-4
	left := n.Eval3(3-eps, 0.5, 0.5)
	right := n.Eval3(3+eps, 0.5, 0.5)
	assert.InDelta(t, left, right, 1e-3)
}

func TestSeedsDiffer(t *testing.T) {
	a := New(1, DefaultFractal())
	b := New(2, DefaultFractal())
	same := 0
	for i := 0; i < 50; i++ {
		p := float32(i) * 0.173
		if a.Eval3(p, p*0.5, -p) == b.Eval3(p, p*0.5, -p) {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestFractalSimplexRange(t *testing.T) {
	f := New(99, Fractal{Base: BaseSimplex, Octaves: 5})
	for i := 0; i < 200; i++ {
		p := float32(i) * 0.05
		v := f.Eval3(p, -p, p*2)
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}
}

func TestSanitizeFillsDefaults(t *testing.T) {
	got := Fractal{Base: BaseSimplex}.Sanitize()
	d := DefaultFractal()
	assert.Equal(t, BaseSimplex, got.Base)
	assert.Equal(t, d.Octaves, got.Octaves)
	assert.Equal(t, d.Frequency, got.Frequency)
	assert.Equal(t, d.Lacunarity, got.Lacunarity)
	assert.Equal(t, d.Gain, got.Gain)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Fractal{}.Validate())
	assert.Error(t, Fractal{Base: "cellular"}.Validate())
	assert.Error(t, Fractal{Octaves: 40}.Validate())
}
