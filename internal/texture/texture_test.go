package texture

import (
	"image"
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-system/internal/noise"
)

func spec(surface Surface) Spec {
	return Spec{Seed: 1337, Width: 64, Height: 32, Surface: surface, Noise: noise.DefaultFractal()}
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, s := range Surfaces() {
		t.Run(string(s), func(t *testing.T) {
			a, err := Generate(spec(s))
			require.NoError(t, err)
			b, err := Generate(spec(s))
			require.NoError(t, err)
			assert.Equal(t, a.Image().Pix, b.Image().Pix)
			assert.Equal(t, a.height, b.height)
		})
	}
}

func TestGenerateDependsOnSeed(t *testing.T) {
	sa := spec(SurfaceRocky)
	sb := sa
	sb.Seed = 4242
	a, err := Generate(sa)
	require.NoError(t, err)
	b, err := Generate(sb)
	require.NoError(t, err)
	assert.NotEqual(t, a.Image().Pix, b.Image().Pix)
}

func TestSeamContinuity(t *testing.T) {
	for _, s := range Surfaces() {
		tex, err := Generate(spec(s))
		require.NoError(t, err)
		for _, lat := range []float32{-1.4, -0.7, 0, 0.3, 1.2} {
			a := tex.SampleLonLat(0, lat)
			b := tex.SampleLonLat(2*math32.Pi, lat)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, a[i], b[i], 1e-6, "surface %s lat %v", s, lat)
			}
		}
	}
}

func TestScalarFieldMatchesAcrossWrap(t *testing.T) {
	g := newGenerator(spec(SurfaceGas))
	for _, lat := range []float32{-1, 0, 0.5} {
		assert.InDelta(t, g.scalar(0, lat), g.scalar(2*math32.Pi, lat), 1e-5)
	}
}

func TestSampleWrapsOutOfRange(t *testing.T) {
	tex, err := Generate(spec(SurfaceEarth))
	require.NoError(t, err)
	assert.Equal(t, tex.Sample(0.25, 0.4), tex.Sample(1.25, 0.4))
	assert.Equal(t, tex.Sample(0.25, 0.4), tex.Sample(-0.75, 0.4))
	assert.Equal(t, tex.Sample(0.25, 0.5), tex.Sample(0.25, 1.5))
}

func TestSampleExactTexelCenter(t *testing.T) {
	tex, err := Generate(spec(SurfaceLava))
	require.NoError(t, err)
	x, y := 10, 7
	u := (float32(x) + 0.5) / float32(tex.Width())
	v := (float32(y) + 0.5) / float32(tex.Height())
	got := tex.Sample(u, v)
	want := tex.At(x, y)
	assert.InDelta(t, float32(want.R)/255, got[0], 1e-5)
	assert.InDelta(t, float32(want.G)/255, got[1], 1e-5)
	assert.InDelta(t, float32(want.B)/255, got[2], 1e-5)
}

func TestValidateRejectsBadSpecs(t *testing.T) {
	bad := spec(SurfaceIce)
	bad.Width = 2
	_, err := Generate(bad)
	assert.ErrorIs(t, err, ErrResolution)

	bad = spec(SurfaceIce)
	bad.Height = 5000
	_, err = Generate(bad)
	assert.ErrorIs(t, err, ErrResolution)

	bad = spec("plasma")
	_, err = Generate(bad)
	assert.ErrorIs(t, err, ErrSurface)

	bad = spec(SurfaceIce)
	bad.Noise.Base = "worley"
	_, err = Generate(bad)
	assert.Error(t, err)
}

func TestElevationStored(t *testing.T) {
	tex, err := Generate(spec(SurfaceRocky))
	require.NoError(t, err)
	var sawNonZero bool
	for y := 0; y < tex.Height(); y++ {
		for x := 0; x < tex.Width(); x++ {
			e := tex.Elevation(x, y)
			require.GreaterOrEqual(t, e, float32(0))
			require.LessOrEqual(t, e, float32(1))
			sawNonZero = sawNonZero || e > 0
		}
	}
	assert.True(t, sawNonZero)
	assert.Zero(t, Solid(color.RGBA{A: 255}).Elevation(0, 0))
}

func TestSolidAndFromImage(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	s := Solid(red)
	got := s.Sample(0.73, 0.21)
	assert.InDelta(t, 1, got[0], 1e-6)
	assert.InDelta(t, 0, got[1], 1e-6)

	src := image.NewRGBA(image.Rect(5, 5, 13, 9))
	src.SetRGBA(5, 5, color.RGBA{G: 200, A: 255})
	tex := FromImage(src)
	assert.Equal(t, 8, tex.Width())
	assert.Equal(t, 4, tex.Height())
	assert.Equal(t, uint8(200), tex.At(0, 0).G)
}

func TestTableOwnership(t *testing.T) {
	tab := NewTable()
	a, err := Generate(spec(SurfaceMoon))
	require.NoError(t, err)
	b, err := Generate(spec(SurfaceMoon))
	require.NoError(t, err)

	require.NoError(t, tab.Put("Luna", a))
	require.NoError(t, tab.Put("Phobos", b))
	assert.Error(t, tab.Put("Luna", b))
	assert.Error(t, tab.Put("Deimos", a))
	assert.Error(t, tab.Put("Nil", nil))

	got, ok := tab.Get("Phobos")
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, []string{"Luna", "Phobos"}, tab.Names())
	assert.Equal(t, 2, tab.Len())
}
