package render

import (
	"image/color"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Star is one background point.
type Star struct {
	Direction  mgl32.Vec3 // unit vector from the eye
	Brightness float32    // in [0,1]
	Size       int        // side of the square in pixels, 1..3
}

// Starfield is a fixed set of stars on a sphere centered on the eye. Stars are drawn
// before any geometry and never write depth.
type Starfield struct {
	Radius float32
	Stars  []Star
}

// NewStarfield scatters count stars uniformly over the sphere. The same seed always
// yields the same field.
func NewStarfield(count int, seed uint64, radius float32) *Starfield {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	sf := &Starfield{Radius: radius, Stars: make([]Star, 0, max(count, 0))}
	for i := 0; i < count; i++ {
		z := rng.Float32()*2 - 1
		phi := rng.Float32() * 2 * math32.Pi
		ring := math32.Sqrt(max(0, 1-z*z))
		sf.Stars = append(sf.Stars, Star{
			Direction:  mgl32.Vec3{ring * math32.Cos(phi), z, ring * math32.Sin(phi)},
			Brightness: 0.35 + 0.65*rng.Float32(),
			Size:       1 + rng.IntN(3),
		})
	}
	return sf
}

type starPoint struct {
	x, y int
	size int
	c    color.RGBA
}

func (r *Renderer) projectStars(f *Frame, st *Stats) {
	r.stars = r.stars[:0]
	sf := r.opts.Stars
	if sf == nil {
		return
	}
	vp := f.Projection.Mul4(f.View)
	for _, s := range sf.Stars {
		p := f.Eye.Add(s.Direction.Mul(sf.Radius))
		clip := vp.Mul4x1(p.Vec4(1))
		if clip.W() <= 0 {
			continue
		}
		nx, ny := clip.X()/clip.W(), clip.Y()/clip.W()
		if nx < -1 || nx > 1 || ny < -1 || ny > 1 {
			continue
		}
		x := int((nx + 1) * 0.5 * float32(r.width))
		y := int((1 - ny) * 0.5 * float32(r.height))
		g := unit8(s.Brightness)
		r.stars = append(r.stars, starPoint{x: x, y: y, size: s.Size, c: color.RGBA{R: g, G: g, B: g, A: 0xff}})
		st.Stars++
	}
}

// drawStars paints the stars that overlap the tile, clipped to it.
func (r *Renderer) drawStars(fb *FrameBuffer, tl *tile) {
	for _, s := range r.stars {
		x0, y0 := max(s.x, tl.x0), max(s.y, tl.y0)
		x1, y1 := min(s.x+s.size, tl.x1), min(s.y+s.size, tl.y1)
		for y := y0; y < y1; y++ {
			row := y * fb.Width
			for x := x0; x < x1; x++ {
				fb.color[row+x] = s.c
			}
		}
	}
}
