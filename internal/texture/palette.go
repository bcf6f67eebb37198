package texture

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Surface names a palette policy. The noise machinery is shared; only the mapping from
// scalar field to color differs per surface.
type Surface string

const (
	SurfaceStar  Surface = "star"
	SurfaceLava  Surface = "lava"
	SurfaceRocky Surface = "rocky"
	SurfaceGas   Surface = "gas"
	SurfaceIce   Surface = "ice"
	SurfaceEarth Surface = "earth"
	SurfaceMoon  Surface = "moon"
	SurfaceHull  Surface = "hull"
)

// Surfaces lists every known surface style.
func Surfaces() []Surface {
	return []Surface{SurfaceStar, SurfaceLava, SurfaceRocky, SurfaceGas, SurfaceIce, SurfaceEarth, SurfaceMoon, SurfaceHull}
}

// sample is the per-texel input to a palette.
type sample struct {
	n      float32 // primary field, [0,1]
	detail float32 // secondary field, [0,1]
	lat    float32 // latitude, radians
}

type palette func(s sample) color.RGBA

var palettes = map[Surface]palette{
	SurfaceStar:  starPalette,
	SurfaceLava:  lavaPalette,
	SurfaceRocky: rockyPalette,
	SurfaceGas:   gasPalette,
	SurfaceIce:   icePalette,
	SurfaceEarth: earthPalette,
	SurfaceMoon:  moonPalette,
	SurfaceHull:  hullPalette,
}

var (
	starBase   = rgb(255, 69, 0)
	starBright = rgb(255, 255, 102)
	starSpot   = rgb(139, 0, 0)

	lavaDark   = rgb(130, 20, 0)
	lavaBright = rgb(255, 240, 0)

	rockBase   = rgb(139, 69, 19)
	rockCrater = rgb(105, 105, 105)

	gasBase = rgb(70, 130, 180)
	gasBand = rgb(255, 255, 255)

	iceBase  = rgb(240, 248, 255)
	iceCrust = rgb(173, 216, 230)

	earthOcean  = rgb(0, 105, 148)
	earthLand   = rgb(34, 139, 34)
	earthDesert = rgb(210, 180, 140)
	earthSnow   = rgb(255, 250, 250)
	earthCloud  = rgb(255, 255, 255)

	moonDark   = rgb(150, 150, 150)
	moonMid    = rgb(185, 185, 185)
	moonBright = rgb(215, 215, 215)

	hullBase  = rgb(150, 155, 165)
	hullPanel = rgb(190, 195, 205)
)

// starPalette: bright granulation with dark spots where the field peaks.
func starPalette(s sample) color.RGBA {
	if s.n > 0.68 {
		return mix(starSpot, starBase, (s.n-0.68)*2)
	}
	return mix(starBase, starBright, smooth(0.25, 0.65, s.n))
}

func lavaPalette(s sample) color.RGBA {
	t := s.n*0.7 + s.detail*0.3
	return mix(lavaDark, lavaBright, t*t)
}

func rockyPalette(s sample) color.RGBA {
	crater := math32.Abs(2*s.detail - 1)
	f := clamp01((crater - 0.4) / 0.6)
	c := mix(rockBase, rockCrater, f*f)
	return shade(c, 0.8+0.4*s.n)
}

// gasPalette: latitude bands warped by turbulence.
func gasPalette(s sample) color.RGBA {
	warp := (s.n - 0.5) * 3
	band := math32.Abs(math32.Sin(s.lat*10 + warp))
	return mix(gasBase, gasBand, band*(0.35+0.65*s.detail))
}

func icePalette(s sample) color.RGBA {
	return mix(iceBase, iceCrust, s.n*s.n)
}

// earthPalette: polar caps by latitude, then land/desert/ocean by threshold, with clouds
// from the detail field.
func earthPalette(s sample) color.RGBA {
	var base color.RGBA
	switch {
	case math32.Abs(math32.Sin(s.lat)) > 0.85:
		base = earthSnow
	case s.n > 0.56:
		base = earthLand
	case s.n > 0.52:
		base = earthDesert
	default:
		base = earthOcean
	}
	if s.detail > 0.62 {
		return mix(base, earthCloud, clamp01((s.detail-0.62)*3))
	}
	return base
}

func moonPalette(s sample) color.RGBA {
	switch {
	case s.n > 0.62:
		return moonDark
	case s.n > 0.55:
		return moonMid
	default:
		return shade(moonBright, 0.9+0.1*s.detail)
	}
}

func hullPalette(s sample) color.RGBA {
	if s.detail > 0.6 {
		return hullPanel
	}
	return shade(hullBase, 0.9+0.2*s.n)
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

func mix(a, b color.RGBA, t float32) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerp8(a.R, b.R, t),
		G: lerp8(a.G, b.G, t),
		B: lerp8(a.B, b.B, t),
		A: 255,
	}
}

func shade(c color.RGBA, k float32) color.RGBA {
	return color.RGBA{R: scale8(c.R, k), G: scale8(c.G, k), B: scale8(c.B, k), A: 255}
}

func lerp8(a, b uint8, t float32) uint8 {
	return uint8(math32.Round(float32(a) + (float32(b)-float32(a))*t))
}

func scale8(v uint8, k float32) uint8 {
	f := float32(v) * k
	if f > 255 {
		return 255
	}
	if f < 0 {
		return 0
	}
	return uint8(f)
}

func smooth(lo, hi, x float32) float32 {
	t := clamp01((x - lo) / (hi - lo))
	return t * t * (3 - 2*t)
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
