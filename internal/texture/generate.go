package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"solar-system/internal/noise"
)

const (
	minWidth  = 4
	minHeight = 2
	maxSide   = 4096
)

var (
	// ErrResolution is returned for texture sizes outside the supported range.
	ErrResolution = errors.New("invalid texture resolution")
	// ErrSurface is returned for an unknown surface style.
	ErrSurface = errors.New("unknown surface style")
)

// Spec fully determines a generated texture.
type Spec struct {
	Seed    int64
	Width   int
	Height  int
	Surface Surface
	Noise   noise.Fractal
}

// Validate reports configuration problems that would make generation fail.
func (s Spec) Validate() error {
	if s.Width < minWidth || s.Height < minHeight || s.Width > maxSide || s.Height > maxSide {
		return fmt.Errorf("%w: %dx%d (want %d..%d by %d..%d)", ErrResolution, s.Width, s.Height, minWidth, maxSide, minHeight, maxSide)
	}
	if _, ok := palettes[s.Surface]; !ok {
		return fmt.Errorf("%w: %q", ErrSurface, s.Surface)
	}
	if err := s.Noise.Validate(); err != nil {
		return fmt.Errorf("noise: %w", err)
	}
	return nil
}

// Generate builds the texture for spec. Identical specs yield bit-identical textures.
func Generate(spec Spec) (*Texture, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	g := newGenerator(spec)
	img := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	height := make([]float32, spec.Width*spec.Height)

	for y := 0; y < spec.Height; y++ {
		lat := math32.Pi/2 - (float32(y)+0.5)/float32(spec.Height)*math32.Pi
		for x := 0; x < spec.Width; x++ {
			lon := (float32(x) + 0.5) / float32(spec.Width) * 2 * math32.Pi
			c, h := g.texel(lon, lat)
			img.SetRGBA(x, y, c)
			height[y*spec.Width+x] = h
		}
	}
	return &Texture{img: img, height: height}, nil
}

// generator holds the noise fields for one spec. The detail field carries a distinct
// seed so secondary features (clouds, turbulence) do not mirror the primary field.
type generator struct {
	surface Surface
	field   *noise.Field
	detail  *noise.Field
}

func newGenerator(spec Spec) generator {
	detailCfg := spec.Noise.Sanitize()
	detailCfg.Frequency *= 2.5
	return generator{
		surface: spec.Surface,
		field:   noise.New(spec.Seed, spec.Noise),
		detail:  noise.New(spec.Seed^0x5bd1e995, detailCfg),
	}
}

// scalar samples the primary field at a point on the unit sphere.
func (g generator) scalar(lon, lat float32) float32 {
	x, y, z := spherePoint(lon, lat)
	return g.field.Eval3(x, y, z)
}

func (g generator) texel(lon, lat float32) (color.RGBA, float32) {
	x, y, z := spherePoint(lon, lat)
	n := g.field.Eval3(x, y, z)
	d := g.detail.Eval3(x, y, z)
	return palettes[g.surface](sample{n: n, detail: d, lat: lat}), n
}

// spherePoint maps longitude/latitude onto the unit sphere using the same axes as the
// sphere mesh: y is up and longitude 0 points along +X.
func spherePoint(lon, lat float32) (x, y, z float32) {
	cl := math32.Cos(lat)
	return cl * math32.Cos(lon), math32.Sin(lat), cl * math32.Sin(lon)
}
