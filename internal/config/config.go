// Package config holds the static system table: bodies, spacecraft, camera, lighting and
// texture settings. The default table is embedded; a YAML file can replace any part of it.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"solar-system/internal/camera"
	"solar-system/internal/noise"
	"solar-system/internal/orbit"
	"solar-system/internal/texture"
)

//go:embed system.yaml
var defaultSystem []byte

// SpacecraftName is the texture table key of the spacecraft. No body may use it.
const SpacecraftName = "spacecraft"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid system configuration")

// Kind tags a body.
type Kind string

const (
	KindStar   Kind = "star"
	KindPlanet Kind = "planet"
	KindMoon   Kind = "moon"
)

// Body is one row of the system table.
type Body struct {
	Name          string          `yaml:"name"`
	Kind          Kind            `yaml:"kind"`
	Parent        string          `yaml:"parent,omitempty"`
	Radius        float64         `yaml:"radius"`
	OrbitRadius   float64         `yaml:"orbit_radius"`
	OrbitSpeed    float64         `yaml:"orbit_speed"`
	PhaseDeg      float64         `yaml:"phase_deg"`
	TiltDeg       float64         `yaml:"tilt_deg"`
	NodeDeg       float64         `yaml:"node_deg"`
	RotationSpeed float64         `yaml:"rotation_speed"`
	AxialTiltDeg  float64         `yaml:"axial_tilt_deg"`
	Surface       texture.Surface `yaml:"surface"`
	Seed          int64           `yaml:"seed"`
	Noise         noise.Fractal   `yaml:"noise"`
	// Texture optionally names an image file used instead of a generated surface.
	Texture string `yaml:"texture,omitempty"`
}

// Orbit converts the row into orbital parameters in radians.
func (b Body) Orbit() orbit.Params {
	return orbit.Params{
		Radius:        b.OrbitRadius,
		Speed:         b.OrbitSpeed,
		Phase:         deg(b.PhaseDeg),
		Tilt:          deg(b.TiltDeg),
		Node:          deg(b.NodeDeg),
		RotationSpeed: b.RotationSpeed,
		AxialTilt:     deg(b.AxialTiltDeg),
	}
}

// Spacecraft configures the ship anchored to a body's orbital frame.
type Spacecraft struct {
	Anchor string `yaml:"anchor"`
	// Offset is the starting position in the anchor frame: radial, normal, tangential.
	Offset    [3]float32      `yaml:"offset"`
	Scale     float32         `yaml:"scale"`
	Thrust    float32         `yaml:"thrust"`    // units/s²
	TurnRate  float32         `yaml:"turn_rate"` // rad/s
	Damping   float32         `yaml:"damping"`   // 1/s
	MaxOffset float32         `yaml:"max_offset"`
	Surface   texture.Surface `yaml:"surface"`
	Seed      int64           `yaml:"seed"`
}

// Camera mirrors camera.Settings with degrees for angles.
type Camera struct {
	FovDeg          float32    `yaml:"fov_deg"`
	Near            float32    `yaml:"near"`
	Far             float32    `yaml:"far"`
	YawDeg          float32    `yaml:"yaw_deg"`
	PitchDeg        float32    `yaml:"pitch_deg"`
	Distance        float32    `yaml:"distance"`
	MinDistance     float32    `yaml:"min_distance"`
	MaxDistance     float32    `yaml:"max_distance"`
	PitchLimitDeg   float32    `yaml:"pitch_limit_deg"`
	RotateRate      float32    `yaml:"rotate_rate"`
	DragSensitivity float32    `yaml:"drag_sensitivity"`
	ZoomRate        float32    `yaml:"zoom_rate"`
	MoveRate        float32    `yaml:"move_rate"`
	BirdsEyeEye     [3]float32 `yaml:"birds_eye_eye"`
	BirdsEyeTarget  [3]float32 `yaml:"birds_eye_target"`
}

// Settings converts to camera settings.
func (c Camera) Settings() camera.Settings {
	return camera.Settings{
		FovY: c.FovDeg,
		Near: c.Near,
		Far:  c.Far,
		Initial: camera.Orbit{
			Yaw:      mgl32.DegToRad(c.YawDeg),
			Pitch:    mgl32.DegToRad(c.PitchDeg),
			Distance: c.Distance,
		},
		BirdsEye:        camera.BirdsEye{Eye: c.BirdsEyeEye, Target: c.BirdsEyeTarget},
		MinDistance:     c.MinDistance,
		MaxDistance:     c.MaxDistance,
		PitchLimit:      c.PitchLimitDeg,
		RotateRate:      c.RotateRate,
		DragSensitivity: c.DragSensitivity,
		ZoomRate:        c.ZoomRate,
		MoveRate:        c.MoveRate,
	}
}

// Texture is the resolution of generated surfaces.
type Texture struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Mesh is the sphere tessellation, chosen once at startup.
type Mesh struct {
	Rings    int `yaml:"rings"`
	Segments int `yaml:"segments"`
}

// Stars configures the background starfield.
type Stars struct {
	Count  int     `yaml:"count"`
	Seed   uint64  `yaml:"seed"`
	Radius float32 `yaml:"radius"`
}

// Lighting configures shading.
type Lighting struct {
	Ambient float32 `yaml:"ambient"`
}

// System is the full static table.
type System struct {
	TimeScale  float64    `yaml:"time_scale"`
	Background string     `yaml:"background"`
	Texture    Texture    `yaml:"texture"`
	Mesh       Mesh       `yaml:"mesh"`
	Stars      Stars      `yaml:"stars"`
	Lighting   Lighting   `yaml:"lighting"`
	Camera     Camera     `yaml:"camera"`
	Bodies     []Body     `yaml:"bodies"`
	Spacecraft Spacecraft `yaml:"spacecraft"`
}

// Default returns the embedded system table.
func Default() *System {
	s := &System{}
	if err := decode(s, defaultSystem); err != nil {
		panic(fmt.Sprintf("config: embedded system table: %v", err))
	}
	return s
}

// Parse decodes data over the default table and validates the result. Sections absent
// from data keep their defaults; a bodies list replaces the default bodies entirely.
func Parse(data []byte) (*System, error) {
	s := Default()
	if err := decode(s, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and parses a YAML file. An empty path yields the default table.
func Load(path string) (*System, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read system table: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func decode(s *System, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Star returns the index of the star row, or -1.
func (s *System) Star() int {
	for i, b := range s.Bodies {
		if b.Kind == KindStar {
			return i
		}
	}
	return -1
}

// Index returns the row index of the named body, or -1.
func (s *System) Index(name string) int {
	for i, b := range s.Bodies {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// BackgroundColor parses the #rrggbb background.
func (s *System) BackgroundColor() (color.RGBA, error) {
	return parseHex(s.Background)
}

// Validate reports every problem in the table at once.
func (s *System) Validate() error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	if len(s.Bodies) == 0 {
		add("no bodies")
	}
	stars := 0
	seen := make(map[string]int, len(s.Bodies))
	for i, b := range s.Bodies {
		where := fmt.Sprintf("body %d (%q)", i, b.Name)
		switch {
		case b.Name == "":
			add("body %d: missing name", i)
		case b.Name == SpacecraftName:
			add("%s: name is reserved for the spacecraft", where)
		default:
			if j, dup := seen[b.Name]; dup {
				add("%s: duplicate of body %d", where, j)
			} else {
				seen[b.Name] = i
			}
		}

		switch b.Kind {
		case KindStar:
			stars++
			if b.Parent != "" || b.OrbitRadius != 0 {
				add("%s: the star sits at the origin with no parent", where)
			}
		case KindPlanet:
			if b.Parent != "" {
				add("%s: planets orbit the star and take no parent", where)
			}
		case KindMoon:
			p, ok := seen[b.Parent]
			if !ok || p == i {
				add("%s: parent %q must be listed before the moon", where, b.Parent)
			} else if s.Bodies[p].Kind != KindPlanet {
				add("%s: parent %q is not a planet", where, b.Parent)
			}
		default:
			add("%s: unknown kind %q", where, b.Kind)
		}

		if !(b.Radius > 0) {
			add("%s: radius %g must be positive", where, b.Radius)
		}
		if b.Kind != KindStar && !(b.OrbitRadius > 0) {
			add("%s: orbit radius %g must be positive", where, b.OrbitRadius)
		}
		if err := b.Orbit().Validate(); err != nil {
			add("%s: %w", where, err)
		}
		if b.Texture == "" {
			// Resolution is checked once for the whole table below.
			spec := texture.Spec{Width: 4, Height: 2, Surface: b.Surface, Noise: b.Noise}
			if err := spec.Validate(); err != nil {
				add("%s: %w", where, err)
			}
		}
	}
	if stars != 1 {
		add("want exactly one star, have %d", stars)
	}

	spec := texture.Spec{Width: s.Texture.Width, Height: s.Texture.Height, Surface: texture.SurfaceHull}
	if err := spec.Validate(); err != nil {
		add("texture: %w", err)
	}
	if s.Mesh.Rings < 2 || s.Mesh.Segments < 3 {
		add("mesh: %dx%d must have at least 2 rings and 3 segments", s.Mesh.Rings, s.Mesh.Segments)
	}
	if s.Stars.Count < 0 || (s.Stars.Count > 0 && !(s.Stars.Radius > 0)) {
		add("stars: count %d with radius %g", s.Stars.Count, s.Stars.Radius)
	}
	if !(s.Lighting.Ambient >= 0 && s.Lighting.Ambient <= 1) {
		add("lighting: ambient %g must be in [0, 1]", s.Lighting.Ambient)
	}
	if !(s.TimeScale >= 0) || math.IsInf(s.TimeScale, 0) {
		add("time scale %g must be finite and not negative", s.TimeScale)
	}
	if _, err := s.BackgroundColor(); err != nil {
		add("background: %w", err)
	}
	if err := s.Camera.Settings().Validate(); err != nil {
		add("camera: %w", err)
	}
	errs = append(errs, s.validateSpacecraft()...)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func (s *System) validateSpacecraft() []error {
	var errs []error
	sc := s.Spacecraft
	if i := s.Index(sc.Anchor); i < 0 {
		errs = append(errs, fmt.Errorf("spacecraft: anchor %q is not a body", sc.Anchor))
	} else if s.Bodies[i].Kind == KindStar {
		errs = append(errs, fmt.Errorf("spacecraft: anchor %q has no orbital frame", sc.Anchor))
	}
	if !(sc.Scale > 0) {
		errs = append(errs, fmt.Errorf("spacecraft: scale %g must be positive", sc.Scale))
	}
	if !(sc.MaxOffset > 0) {
		errs = append(errs, fmt.Errorf("spacecraft: max offset %g must be positive", sc.MaxOffset))
	}
	if sc.Thrust < 0 || sc.TurnRate < 0 || sc.Damping < 0 {
		errs = append(errs, errors.New("spacecraft: thrust, turn rate and damping must not be negative"))
	}
	if mgl32.Vec3(sc.Offset).Len() > sc.MaxOffset {
		errs = append(errs, fmt.Errorf("spacecraft: offset %v is beyond max offset %g", sc.Offset, sc.MaxOffset))
	}
	if i := s.Index(sc.Anchor); i >= 0 {
		c := sc.Clearance(s.Bodies[i].Radius)
		if c >= sc.MaxOffset {
			errs = append(errs, fmt.Errorf("spacecraft: max offset %g leaves no room outside %q (clearance %g)", sc.MaxOffset, sc.Anchor, c))
		} else if mgl32.Vec3(sc.Offset).Len() < c {
			errs = append(errs, fmt.Errorf("spacecraft: offset %v is inside %q (clearance %g)", sc.Offset, sc.Anchor, c))
		}
	}
	return errs
}

// Clearance is the closest the ship may get to the center of an anchor of the given radius.
func (sc Spacecraft) Clearance(anchorRadius float64) float32 {
	return float32(anchorRadius) + sc.Scale
}

func parseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("%q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%q is not #rrggbb", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func deg(d float64) float64 { return d * math.Pi / 180 }
