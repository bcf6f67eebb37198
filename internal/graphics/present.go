package graphics

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Presenter shows a CPU framebuffer by streaming it into a GPU texture that is stretched
// over the window. It must be created after the window exists.
type Presenter struct {
	tex    rl.Texture2D
	width  int
	height int
	buf    []color.RGBA
}

// NewPresenter allocates a width×height streaming texture.
func NewPresenter(width, height int) *Presenter {
	img := rl.GenImageColor(width, height, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	return &Presenter{tex: tex, width: width, height: height}
}

// Upload copies a row-major pixel array of the presenter's size into the texture.
// Arrays of any other length are ignored.
func (p *Presenter) Upload(pixels []color.RGBA) {
	if len(pixels) != p.width*p.height {
		return
	}
	rl.UpdateTexture(p.tex, pixels)
}

// UploadImage copies img into the texture. Images of any other size are ignored.
func (p *Presenter) UploadImage(img *image.RGBA) {
	b := img.Bounds()
	if b.Dx() != p.width || b.Dy() != p.height {
		return
	}
	if p.buf == nil {
		p.buf = make([]color.RGBA, p.width*p.height)
	}
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			p.buf[y*p.width+x] = img.RGBAAt(b.Min.X+x, b.Min.Y+y)
		}
	}
	rl.UpdateTexture(p.tex, p.buf)
}

// Draw stretches the texture over the whole window.
func (p *Presenter) Draw() {
	src := rl.NewRectangle(0, 0, float32(p.width), float32(p.height))
	dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	rl.DrawTexturePro(p.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}
