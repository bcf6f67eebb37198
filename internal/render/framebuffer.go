package render

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer is a color grid with a parallel depth grid. Depth is normalized device depth
// mapped to [0,1]; smaller is nearer and a cleared pixel holds +Inf.
type FrameBuffer struct {
	Width  int
	Height int
	color  []color.RGBA
	depth  []float32
}

// NewFrameBuffer allocates a width×height buffer.
func NewFrameBuffer(width, height int) *FrameBuffer {
	n := width * height
	return &FrameBuffer{
		Width:  width,
		Height: height,
		color:  make([]color.RGBA, n),
		depth:  make([]float32, n),
	}
}

// Clear fills the color grid with bg and resets depth.
func (fb *FrameBuffer) Clear(bg color.RGBA) {
	inf := float32(math.Inf(1))
	for i := range fb.color {
		fb.color[i] = bg
		fb.depth[i] = inf
	}
}

// Pixels exposes the flat row-major color array. Callers must treat it as read-only.
func (fb *FrameBuffer) Pixels() []color.RGBA { return fb.color }

// At returns the color at (x, y).
func (fb *FrameBuffer) At(x, y int) color.RGBA { return fb.color[y*fb.Width+x] }

// Depth returns the depth at (x, y).
func (fb *FrameBuffer) Depth(x, y int) float32 { return fb.depth[y*fb.Width+x] }

// Image copies the color grid into a new RGBA image.
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.color {
		j := i * 4
		img.Pix[j] = c.R
		img.Pix[j+1] = c.G
		img.Pix[j+2] = c.B
		img.Pix[j+3] = c.A
	}
	return img
}

// nearer reports whether depth z passes the test at index i. Equal depths fail so the
// first-written fragment is kept.
func (fb *FrameBuffer) nearer(i int, z float32) bool { return z < fb.depth[i] }

func (fb *FrameBuffer) put(i int, z float32, c color.RGBA) {
	fb.depth[i] = z
	fb.color[i] = c
}
