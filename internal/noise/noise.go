// Package noise provides the coherent noise fields shared by every procedural surface.
// All fields are 3D so that surfaces can be sampled on the unit sphere, which makes
// texture wrap boundaries seamless by construction.
package noise

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/ojrac/opensimplex-go"
)

// Base selects the lattice noise used for each octave.
type Base string

const (
	// BaseValue is hash-lattice value noise with smoothstep interpolation.
	BaseValue Base = "value"
	// BaseSimplex is OpenSimplex gradient noise.
	BaseSimplex Base = "simplex"
)

// Source is a coherent scalar field. Eval3 returns values in [0,1].
type Source interface {
	Eval3(x, y, z float32) float32
}

// Fractal controls layered (FBm) noise.
// Octaves, Frequency, Lacunarity and Gain behave like the usual fractal parameters;
// zero values are replaced with defaults by Sanitize.
type Fractal struct {
	Base       Base    `yaml:"base"`
	Octaves    int     `yaml:"octaves"`
	Frequency  float32 `yaml:"frequency"`
	Lacunarity float32 `yaml:"lacunarity"`
	Gain       float32 `yaml:"gain"`
}

// DefaultFractal returns a sane default configuration.
func DefaultFractal() Fractal {
	return Fractal{
		Base:       BaseValue,
		Octaves:    4,
		Frequency:  2.0,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// Sanitize fills zero or negative fields with defaults.
func (f Fractal) Sanitize() Fractal {
	d := DefaultFractal()
	if f.Base == "" {
		f.Base = d.Base
	}
	if f.Octaves <= 0 {
		f.Octaves = d.Octaves
	}
	if f.Frequency <= 0 {
		f.Frequency = d.Frequency
	}
	if f.Lacunarity <= 0 {
		f.Lacunarity = d.Lacunarity
	}
	if f.Gain <= 0 {
		f.Gain = d.Gain
	}
	return f
}

// Validate reports whether the base is known and the octave count is bounded.
func (f Fractal) Validate() error {
	switch f.Base {
	case "", BaseValue, BaseSimplex:
	default:
		return fmt.Errorf("unknown noise base %q", f.Base)
	}
	if f.Octaves > 12 {
		return fmt.Errorf("too many octaves: %d (max 12)", f.Octaves)
	}
	return nil
}

// Field is fractal noise over one Source per octave. It is immutable once built and
// safe for concurrent use.
type Field struct {
	cfg     Fractal
	octaves []Source
}

// New builds a fractal field for seed. The same (seed, cfg) pair always yields the same field.
func New(seed int64, cfg Fractal) *Field {
	cfg = cfg.Sanitize()
	f := &Field{cfg: cfg, octaves: make([]Source, cfg.Octaves)}
	for i := range f.octaves {
		s := seed + int64(i)*7919
		switch cfg.Base {
		case BaseSimplex:
			f.octaves[i] = NewSimplex(s)
		default:
			f.octaves[i] = NewValue(s)
		}
	}
	return f
}

// Config returns the sanitized configuration.
func (f *Field) Config() Fractal { return f.cfg }

// Eval3 is layered noise with configurable octaves, lacunarity, and gain. Output is in [0,1].
func (f *Field) Eval3(x, y, z float32) float32 {
	var sum float32
	var amplitude float32 = 1
	var maxAmp float32
	freq := f.cfg.Frequency

	for _, src := range f.octaves {
		sum += src.Eval3(x*freq, y*freq, z*freq) * amplitude
		maxAmp += amplitude
		amplitude *= f.cfg.Gain
		freq *= f.cfg.Lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	v := sum / maxAmp
	if !isFinite(v) {
		return 0
	}
	return v
}

// Value is smooth value noise in [0,1] using a hash-based lattice and smoothstep easing.
type Value struct {
	seed int32
}

// NewValue returns value noise for seed.
func NewValue(seed int64) Value {
	return Value{seed: int32(seed ^ (seed >> 32))}
}

// Eval3 samples the lattice with trilinear smoothstep interpolation.
func (v Value) Eval3(x, y, z float32) float32 {
	fx, fy, fz := math32.Floor(x), math32.Floor(y), math32.Floor(z)
	x0, y0, z0 := int32(fx), int32(fy), int32(fz)
	sx := smoothStep(x - fx)
	sy := smoothStep(y - fy)
	sz := smoothStep(z - fz)

	c000 := hash3D(x0, y0, z0, v.seed)
	c100 := hash3D(x0+1, y0, z0, v.seed)
	c010 := hash3D(x0, y0+1, z0, v.seed)
	c110 := hash3D(x0+1, y0+1, z0, v.seed)
	c001 := hash3D(x0, y0, z0+1, v.seed)
	c101 := hash3D(x0+1, y0, z0+1, v.seed)
	c011 := hash3D(x0, y0+1, z0+1, v.seed)
	c111 := hash3D(x0+1, y0+1, z0+1, v.seed)

	x00 := lerp(c000, c100, sx)
	x10 := lerp(c010, c110, sx)
	x01 := lerp(c001, c101, sx)
	x11 := lerp(c011, c111, sx)
	return lerp(lerp(x00, x10, sy), lerp(x01, x11, sy), sz)
}

// Simplex wraps OpenSimplex noise normalized to [0,1].
type Simplex struct {
	n opensimplex.Noise
}

// NewSimplex returns OpenSimplex noise for seed.
func NewSimplex(seed int64) Simplex {
	return Simplex{n: opensimplex.NewNormalized(seed)}
}

// Eval3 samples the gradient field.
func (s Simplex) Eval3(x, y, z float32) float32 {
	v := float32(s.n.Eval3(float64(x), float64(y), float64(z)))
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// hash3D maps integer lattice coordinates to a deterministic pseudo-random float in [0,1].
func hash3D(x, y, z, seed int32) float32 {
	n := x*374761393 + y*668265263 + z*1440662683 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	const invMaxInt = 1.0 / 2147483647.0
	return float32(n&0x7fffffff) * float32(invMaxInt)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothStep is Perlin-style cubic easing: 3t^2 - 2t^3.
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
