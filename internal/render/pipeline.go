// Package render is a software rasterizer: model, view and projection transforms,
// back-face culling, near-plane clipping, perspective-correct texturing, lambert shading
// from a point light and a shared depth buffer.
//
// The screen is split into tiles that are rasterized concurrently. Every tile owns a
// disjoint rectangle of the color and depth grids and walks triangles in submission
// order, so the output does not depend on the worker count.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// ErrSize is returned for a non-positive framebuffer size.
var ErrSize = errors.New("invalid framebuffer size")

// minArea is the smallest projected triangle area, in square pixels, that is rasterized.
const minArea = 1e-6

// Sampler is a read-only texture. Implementations must be safe for concurrent reads and
// wrap out-of-range coordinates.
type Sampler interface {
	Sample(u, v float32) mgl32.Vec3
}

// Instance is one mesh placed in the world.
type Instance struct {
	Name     string
	Mesh     *Mesh
	Model    mgl32.Mat4
	Texture  Sampler
	Emissive bool
}

// Frame is everything needed to draw one image.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Light      mgl32.Vec3 // world position of the point light
	Instances  []Instance
}

// Options configure a Renderer.
type Options struct {
	Ambient    float32    // light floor for unlit surfaces, in [0,1]
	LightColor mgl32.Vec3 // multiplies lit surfaces
	Background color.RGBA
	Workers    int
	TileSize   int
	Stars      *Starfield
}

// DefaultOptions returns the viewer defaults.
func DefaultOptions() Options {
	return Options{
		Ambient:    0.2,
		LightColor: mgl32.Vec3{1, 1, 1},
		Background: color.RGBA{R: 0x33, G: 0x33, B: 0x55, A: 0xff},
		Workers:    runtime.GOMAXPROCS(0),
		TileSize:   64,
	}
}

func (o Options) sanitize() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.TileSize <= 0 {
		o.TileSize = 64
	}
	if !(o.Ambient >= 0) {
		o.Ambient = 0
	}
	if o.Ambient > 1 {
		o.Ambient = 1
	}
	return o
}

// Stats count what happened to the geometry of one frame.
type Stats struct {
	Instances  int // instances with a mesh
	Triangles  int // triangles submitted
	Culled     int // back faces
	Degenerate int // zero area in view space or after projection
	Clipped    int // triangles crossing or behind the near plane
	Rasterized int // triangles reaching the screen
	Pixels     int // fragments written
	Stars      int // stars drawn
}

// Renderer owns two framebuffers and alternates between them, so the buffer returned by
// Render stays valid until the second following call.
type Renderer struct {
	opts    Options
	width   int
	height  int
	buffers [2]*FrameBuffer
	next    int

	verts []clipVertex
	tris  []screenTri
	tiles []tile
	cols  int
	stars []starPoint
}

type tile struct {
	x0, y0, x1, y1 int // inclusive-exclusive pixel bounds
	tris           []int32
	pixels         int
}

// NewRenderer allocates a renderer for a width×height output.
func NewRenderer(width, height int, opts Options) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSize, width, height)
	}
	opts = opts.sanitize()
	r := &Renderer{
		opts:    opts,
		width:   width,
		height:  height,
		buffers: [2]*FrameBuffer{NewFrameBuffer(width, height), NewFrameBuffer(width, height)},
	}
	ts := opts.TileSize
	r.cols = (width + ts - 1) / ts
	rows := (height + ts - 1) / ts
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < r.cols; tx++ {
			r.tiles = append(r.tiles, tile{
				x0: tx * ts,
				y0: ty * ts,
				x1: min((tx+1)*ts, width),
				y1: min((ty+1)*ts, height),
			})
		}
	}
	return r, nil
}

// Size returns the output dimensions.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Options returns the sanitized options.
func (r *Renderer) Options() Options { return r.opts }

// Render draws the frame and returns the finished buffer.
func (r *Renderer) Render(f Frame) (*FrameBuffer, Stats) {
	fb := r.buffers[r.next]
	r.next ^= 1
	fb.Clear(r.opts.Background)

	var st Stats
	r.tris = r.tris[:0]
	for i := range r.tiles {
		r.tiles[i].tris = r.tiles[i].tris[:0]
		r.tiles[i].pixels = 0
	}

	r.projectStars(&f, &st)
	for i := range f.Instances {
		r.transform(&f.Instances[i], &f, &st)
	}
	r.bin()
	st.Pixels = r.rasterize(fb, f.Light)
	return fb, st
}

// clipVertex is a vertex after the vertex stage.
type clipVertex struct {
	clip   mgl32.Vec4
	view   mgl32.Vec3
	world  mgl32.Vec3
	normal mgl32.Vec3
	uv     mgl32.Vec2
}

func (a clipVertex) lerp(b clipVertex, t float32) clipVertex {
	return clipVertex{
		clip:   a.clip.Add(b.clip.Sub(a.clip).Mul(t)),
		view:   a.view.Add(b.view.Sub(a.view).Mul(t)),
		world:  a.world.Add(b.world.Sub(a.world).Mul(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).Mul(t)),
		uv:     a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
	}
}

// transform runs the vertex stage for one instance and queues its visible triangles.
func (r *Renderer) transform(inst *Instance, f *Frame, st *Stats) {
	if inst.Mesh == nil {
		return
	}
	st.Instances++
	normalMat := inst.Model.Mat3().Inv().Transpose()

	r.verts = r.verts[:0]
	for _, v := range inst.Mesh.Vertices {
		world := inst.Model.Mul4x1(v.Position.Vec4(1))
		view := f.View.Mul4x1(world)
		r.verts = append(r.verts, clipVertex{
			clip:   f.Projection.Mul4x1(view),
			view:   view.Vec3(),
			world:  world.Vec3(),
			normal: normalMat.Mul3x1(v.Normal),
			uv:     v.UV,
		})
	}

	idx := inst.Mesh.Indices
	for t := 0; t+2 < len(idx); t += 3 {
		st.Triangles++
		a, b, c := r.verts[idx[t]], r.verts[idx[t+1]], r.verts[idx[t+2]]
		n := b.view.Sub(a.view).Cross(c.view.Sub(a.view))
		if !(n.Dot(n) > 0) {
			st.Degenerate++
			continue
		}
		// The eye is the view-space origin; a front face has its normal toward it.
		if n.Dot(a.view) >= 0 {
			st.Culled++
			continue
		}
		r.clipNear(a, b, c, inst, st)
	}
}

// clipNear clips a triangle against z >= -w and emits the resulting fan.
func (r *Renderer) clipNear(a, b, c clipVertex, inst *Instance, st *Stats) {
	in := [3]clipVertex{a, b, c}
	d := [3]float32{}
	inside := 0
	for i, v := range in {
		d[i] = v.clip.Z() + v.clip.W()
		if d[i] >= 0 {
			inside++
		}
	}
	if inside == 3 {
		r.emit(a, b, c, inst, st)
		return
	}
	st.Clipped++
	if inside == 0 {
		return
	}

	var poly [4]clipVertex
	n := 0
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if d[i] >= 0 {
			poly[n] = in[i]
			n++
		}
		if (d[i] >= 0) != (d[j] >= 0) {
			poly[n] = in[i].lerp(in[j], d[i]/(d[i]-d[j]))
			n++
		}
	}
	for k := 1; k+1 < n; k++ {
		r.emit(poly[0], poly[k], poly[k+1], inst, st)
	}
}

// screenVertex holds screen position and depth plus attributes premultiplied by 1/w.
type screenVertex struct {
	x, y, z float32
	invW    float32
	uv      mgl32.Vec2
	normal  mgl32.Vec3
	world   mgl32.Vec3
}

type screenTri struct {
	v                      [3]screenVertex
	area                   float32
	minX, minY, maxX, maxY int
	tex                    Sampler
	emissive               bool
}

func (r *Renderer) project(v clipVertex) screenVertex {
	invW := 1 / v.clip.W()
	return screenVertex{
		x:      (v.clip.X()*invW + 1) * 0.5 * float32(r.width),
		y:      (1 - v.clip.Y()*invW) * 0.5 * float32(r.height),
		z:      v.clip.Z()*invW*0.5 + 0.5,
		invW:   invW,
		uv:     v.uv.Mul(invW),
		normal: v.normal.Mul(invW),
		world:  v.world.Mul(invW),
	}
}

func (r *Renderer) emit(a, b, c clipVertex, inst *Instance, st *Stats) {
	t := screenTri{tex: inst.Texture, emissive: inst.Emissive}
	t.v[0], t.v[1], t.v[2] = r.project(a), r.project(b), r.project(c)

	area := edge(&t.v[0], &t.v[1], t.v[2].x, t.v[2].y)
	if !(math32.Abs(area) > minArea) {
		st.Degenerate++
		return
	}
	if area < 0 {
		t.v[1], t.v[2] = t.v[2], t.v[1]
		area = -area
	}
	t.area = area

	minX := min(t.v[0].x, t.v[1].x, t.v[2].x)
	maxX := max(t.v[0].x, t.v[1].x, t.v[2].x)
	minY := min(t.v[0].y, t.v[1].y, t.v[2].y)
	maxY := max(t.v[0].y, t.v[1].y, t.v[2].y)
	if maxX < 0 || maxY < 0 || minX >= float32(r.width) || minY >= float32(r.height) {
		return
	}
	t.minX = int(max(minX, 0))
	t.minY = int(max(minY, 0))
	t.maxX = int(min(maxX, float32(r.width-1)))
	t.maxY = int(min(maxY, float32(r.height-1)))

	st.Rasterized++
	r.tris = append(r.tris, t)
}

// edge is twice the signed area of (a, b, p).
func edge(a, b *screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// bin assigns every queued triangle to the tiles its bounding box touches.
func (r *Renderer) bin() {
	ts := r.opts.TileSize
	for i := range r.tris {
		t := &r.tris[i]
		for ty := t.minY / ts; ty <= t.maxY/ts; ty++ {
			for tx := t.minX / ts; tx <= t.maxX/ts; tx++ {
				tl := &r.tiles[ty*r.cols+tx]
				tl.tris = append(tl.tris, int32(i))
			}
		}
	}
}

func (r *Renderer) rasterize(fb *FrameBuffer, light mgl32.Vec3) int {
	if r.opts.Workers == 1 {
		for i := range r.tiles {
			r.tiles[i].pixels = r.rasterTile(fb, &r.tiles[i], light)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.opts.Workers)
		for i := range r.tiles {
			t := &r.tiles[i]
			g.Go(func() error {
				t.pixels = r.rasterTile(fb, t, light)
				return nil
			})
		}
		_ = g.Wait()
	}
	total := 0
	for i := range r.tiles {
		total += r.tiles[i].pixels
	}
	return total
}

func (r *Renderer) rasterTile(fb *FrameBuffer, tl *tile, light mgl32.Vec3) int {
	r.drawStars(fb, tl)

	written := 0
	for _, ti := range tl.tris {
		t := &r.tris[ti]
		x0, x1 := max(t.minX, tl.x0), min(t.maxX, tl.x1-1)
		y0, y1 := max(t.minY, tl.y0), min(t.maxY, tl.y1-1)
		v0, v1, v2 := &t.v[0], &t.v[1], &t.v[2]
		inv := 1 / t.area
		for y := y0; y <= y1; y++ {
			py := float32(y) + 0.5
			row := y * fb.Width
			for x := x0; x <= x1; x++ {
				px := float32(x) + 0.5
				w0 := edge(v1, v2, px, py)
				if w0 < 0 {
					continue
				}
				w1 := edge(v2, v0, px, py)
				if w1 < 0 {
					continue
				}
				w2 := edge(v0, v1, px, py)
				if w2 < 0 {
					continue
				}
				b0, b1, b2 := w0*inv, w1*inv, w2*inv
				z := b0*v0.z + b1*v1.z + b2*v2.z
				if z < 0 || z > 1 {
					continue
				}
				i := row + x
				if !fb.nearer(i, z) {
					continue
				}
				fb.put(i, z, r.shade(t, b0, b1, b2, light))
				written++
			}
		}
	}
	return written
}

// shade returns the fragment color at barycentric (b0, b1, b2) with perspective-correct
// attributes.
func (r *Renderer) shade(t *screenTri, b0, b1, b2 float32, light mgl32.Vec3) color.RGBA {
	v0, v1, v2 := &t.v[0], &t.v[1], &t.v[2]
	w := 1 / (b0*v0.invW + b1*v1.invW + b2*v2.invW)

	albedo := mgl32.Vec3{1, 1, 1}
	if t.tex != nil {
		uv := v0.uv.Mul(b0).Add(v1.uv.Mul(b1)).Add(v2.uv.Mul(b2)).Mul(w)
		albedo = t.tex.Sample(uv.X(), uv.Y())
	}
	if t.emissive {
		return toRGBA(albedo)
	}

	n := v0.normal.Mul(b0).Add(v1.normal.Mul(b1)).Add(v2.normal.Mul(b2))
	world := v0.world.Mul(b0).Add(v1.world.Mul(b1)).Add(v2.world.Mul(b2)).Mul(w)
	lambert := float32(0)
	if nl := n.Len(); nl > 1e-9 {
		l := light.Sub(world)
		if ll := l.Len(); ll > 1e-9 {
			lambert = max(0, n.Dot(l)/(nl*ll))
		}
	}
	k := r.opts.Ambient + (1-r.opts.Ambient)*lambert
	lc := r.opts.LightColor
	return toRGBA(mgl32.Vec3{albedo[0] * k * lc[0], albedo[1] * k * lc[1], albedo[2] * k * lc[2]})
}

func toRGBA(c mgl32.Vec3) color.RGBA {
	return color.RGBA{R: unit8(c[0]), G: unit8(c[1]), B: unit8(c[2]), A: 0xff}
}

func unit8(x float32) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}
