// Package texture generates and samples per-body surface textures.
//
// A texture covers longitude along u ∈ [0,1) and latitude along v ∈ [0,1] (v = 0 is the
// north pole). Texels are generated by sampling a 3D noise field on the unit sphere, so
// the u = 0 and u = 1 columns describe the same meridian and wrapping in u is seamless.
// Textures are immutable after construction and safe for concurrent reads.
package texture

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// Texture is an RGBA color field with an optional scalar height field of the same size.
type Texture struct {
	img    *image.RGBA
	height []float32
}

// Width returns the texel count along u.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height returns the texel count along v.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// Image returns the backing image. Callers must not modify it.
func (t *Texture) Image() *image.RGBA { return t.img }

// Elevation returns the scalar field value at texel (x, y), or 0 when the texture has none.
func (t *Texture) Elevation(x, y int) float32 {
	if len(t.height) == 0 {
		return 0
	}
	w := t.Width()
	return t.height[y*w+x]
}

// At returns the texel at (x, y).
func (t *Texture) At(x, y int) color.RGBA {
	return t.img.RGBAAt(t.img.Rect.Min.X+x, t.img.Rect.Min.Y+y)
}

// Sample returns the bilinearly filtered color at (u, v) with channels in [0,1].
// u wraps around the sphere; v outside [0,1] wraps, inside it is clamped to the edge rows.
func (t *Texture) Sample(u, v float32) mgl32.Vec3 {
	w, h := t.Width(), t.Height()
	u = u - math32.Floor(u)
	if v < 0 || v > 1 {
		v = v - math32.Floor(v)
	}

	x := u*float32(w) - 0.5
	y := v*float32(h) - 0.5
	fx0 := math32.Floor(x)
	fy0 := math32.Floor(y)
	tx := x - fx0
	ty := y - fy0

	x0 := wrapIndex(int(fx0), w)
	x1 := wrapIndex(int(fx0)+1, w)
	y0 := clampIndex(int(fy0), h)
	y1 := clampIndex(int(fy0)+1, h)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x1, y0)
	c01 := t.texel(x0, y1)
	c11 := t.texel(x1, y1)

	top := c00.Add(c10.Sub(c00).Mul(tx))
	bottom := c01.Add(c11.Sub(c01).Mul(tx))
	return top.Add(bottom.Sub(top).Mul(ty))
}

// SampleLonLat samples at longitude lon ∈ [0, 2π] and latitude lat ∈ [-π/2, π/2].
func (t *Texture) SampleLonLat(lon, lat float32) mgl32.Vec3 {
	return t.Sample(lon/(2*math32.Pi), 0.5-lat/math32.Pi)
}

func (t *Texture) texel(x, y int) mgl32.Vec3 {
	i := y*t.img.Stride + x*4
	p := t.img.Pix[i : i+3 : i+3]
	return mgl32.Vec3{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255}
}

// Solid returns a uniform texture of color c.
func Solid(c color.RGBA) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return &Texture{img: img}
}

// FromImage copies src into a new immutable texture. The image is treated as an
// equirectangular map: x is longitude, y is latitude from north to south.
func FromImage(src image.Image) *Texture {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return &Texture{img: img}
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
