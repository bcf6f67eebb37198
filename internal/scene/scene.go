// Package scene is the scene graph: the star, its planets and moons, and the spacecraft.
// It owns the body textures and the camera, advances simulation time from input deltas,
// and builds the render.Frame for each image.
package scene

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"solar-system/internal/camera"
	"solar-system/internal/config"
	"solar-system/internal/control"
	"solar-system/internal/orbit"
	"solar-system/internal/render"
	"solar-system/internal/texture"
)

// Body is the immutable description of one celestial body.
type Body struct {
	Name    string
	Kind    config.Kind
	Parent  int // index into Bodies, or orbit.Root
	Radius  float32
	Surface texture.Surface
	Orbit   orbit.Params
}

// ImageLoader loads an externally authored texture scaled to width×height.
type ImageLoader func(path string, width, height int) (*texture.Texture, error)

// Option configures New.
type Option func(*options)

type options struct {
	loader    ImageLoader
	overrides map[string]*texture.Texture
	workers   int
}

// WithImageLoader resolves the texture paths named in the system table.
func WithImageLoader(l ImageLoader) Option {
	return func(o *options) { o.loader = l }
}

// WithTexture binds tex to the named body (or config.SpacecraftName) instead of generating one.
func WithTexture(name string, tex *texture.Texture) Option {
	return func(o *options) {
		if o.overrides == nil {
			o.overrides = make(map[string]*texture.Texture)
		}
		o.overrides[name] = tex
	}
}

// WithWorkers bounds concurrent texture generation. Values below 1 mean one worker.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// Scene holds everything that changes from frame to frame, plus the assets built at startup.
type Scene struct {
	log *slog.Logger

	bodies   []Body
	nodes    []orbit.Node
	poses    []orbit.Pose
	star     int
	textures *texture.Table

	camera    *camera.Camera
	ship      *Spacecraft
	time      float64
	timeScale float64
	paused    bool

	sphere    *render.Mesh
	shipMesh  *render.Mesh
	instances []render.Instance
}

// New validates cfg, generates every body texture, and places the bodies at t = 0.
// Any configuration or texture error is returned and no scene is built.
func New(cfg *config.System, log *slog.Logger, opts ...Option) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Scene{
		log:       log,
		star:      cfg.Star(),
		timeScale: cfg.TimeScale,
		camera:    camera.New(cfg.Camera.Settings()),
		sphere:    render.UVSphere(cfg.Mesh.Rings, cfg.Mesh.Segments),
		shipMesh:  render.ShipMesh(),
	}
	index := make(map[string]int, len(cfg.Bodies))
	for i, b := range cfg.Bodies {
		parent := orbit.Root
		if b.Parent != "" {
			parent = index[b.Parent]
		}
		index[b.Name] = i
		s.bodies = append(s.bodies, Body{
			Name:    b.Name,
			Kind:    b.Kind,
			Parent:  parent,
			Radius:  float32(b.Radius),
			Surface: b.Surface,
			Orbit:   b.Orbit(),
		})
		s.nodes = append(s.nodes, orbit.Node{Params: b.Orbit(), Parent: parent})
	}
	if err := orbit.ValidateChain(s.nodes); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	start := time.Now()
	textures, err := buildTextures(cfg, o)
	if err != nil {
		return nil, err
	}
	s.textures = textures

	anchor := index[cfg.Spacecraft.Anchor]
	s.ship = newSpacecraft(cfg.Spacecraft, anchor, cfg.Bodies[anchor].Radius)
	s.resolve()

	log.Info("scene ready",
		"bodies", len(s.bodies),
		"textures", textures.Len(),
		"texture_size", fmt.Sprintf("%dx%d", cfg.Texture.Width, cfg.Texture.Height),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return s, nil
}

// Update applies one frame of input over dt wall seconds. Simulation time advances by
// dt times the time scale unless paused; the camera and the spacecraft always respond.
func (s *Scene) Update(d control.Deltas, dt float32) {
	if !(dt > 0) || math.IsInf(float64(dt), 0) {
		dt = 0
	}
	s.camera.Apply(d, dt)
	if d.TogglePause {
		s.paused = !s.paused
		s.log.Debug("pause toggled", "paused", s.paused, "time", s.time)
	}
	if !s.paused {
		s.time += float64(dt) * s.timeScale
	}
	s.ship.step(d, dt)
	s.resolve()
}

// Seek jumps simulation time to t without touching the camera or the spacecraft.
func (s *Scene) Seek(t float64) {
	s.time = t
	s.resolve()
}

func (s *Scene) resolve() {
	s.poses = orbit.Resolve(s.nodes, s.time, s.poses)
}

// Time returns the simulation time in seconds.
func (s *Scene) Time() float64 { return s.time }

// Paused reports whether simulation time is frozen.
func (s *Scene) Paused() bool { return s.paused }

// SetPaused freezes or resumes simulation time.
func (s *Scene) SetPaused(p bool) { s.paused = p }

// SetTimeScale changes how fast simulation time runs. Negative or non-finite values are ignored.
func (s *Scene) SetTimeScale(k float64) {
	if k >= 0 && !math.IsInf(k, 0) {
		s.timeScale = k
	}
}

// TimeScale returns the current time scale.
func (s *Scene) TimeScale() float64 { return s.timeScale }

// Bodies returns the body descriptions in table order.
func (s *Scene) Bodies() []Body { return s.bodies }

// Poses returns the body poses at the current time, parallel to Bodies. The slice is
// reused by the next Update.
func (s *Scene) Poses() []orbit.Pose { return s.poses }

// Pose returns the current pose of the named body.
func (s *Scene) Pose(name string) (orbit.Pose, bool) {
	for i, b := range s.bodies {
		if b.Name == name {
			return s.poses[i], true
		}
	}
	return orbit.Pose{}, false
}

// Camera returns the scene camera.
func (s *Scene) Camera() *camera.Camera { return s.camera }

// Textures returns the per-body texture table.
func (s *Scene) Textures() *texture.Table { return s.textures }

// Spacecraft returns the ship state and its world placement.
func (s *Scene) Spacecraft() ShipState {
	return s.ship.state(s.anchorFrame())
}

// Light returns the star position.
func (s *Scene) Light() mgl32.Vec3 { return s.poses[s.star].Position }

// Frame builds the draw list for an output of the given width/height ratio. Instance
// storage is reused between calls.
func (s *Scene) Frame(aspect float32) render.Frame {
	pose := s.camera.Pose()
	s.instances = s.instances[:0]
	for i, b := range s.bodies {
		tex, _ := s.textures.Get(b.Name)
		s.instances = append(s.instances, render.Instance{
			Name:     b.Name,
			Mesh:     s.sphere,
			Model:    s.poses[i].Matrix(b.Radius),
			Texture:  tex,
			Emissive: b.Kind == config.KindStar,
		})
	}
	tex, _ := s.textures.Get(config.SpacecraftName)
	s.instances = append(s.instances, render.Instance{
		Name:    config.SpacecraftName,
		Mesh:    s.shipMesh,
		Model:   s.Spacecraft().Model,
		Texture: tex,
	})
	return render.Frame{
		View:       pose.View(),
		Projection: s.camera.Projection(aspect),
		Eye:        pose.Eye,
		Light:      s.Light(),
		Instances:  s.instances,
	}
}

func (s *Scene) anchorFrame() anchorFrame {
	i := s.ship.anchor
	radial, normal, _ := s.nodes[i].Params.Frame(s.time)
	return anchorFrame{
		origin: s.poses[i].Position,
		basis:  mgl32.Mat3FromCols(radial, normal, radial.Cross(normal)),
	}
}

// RenderOptions returns renderer options carrying cfg's lighting, background and starfield
// on top of render.DefaultOptions. cfg must be valid.
func RenderOptions(cfg *config.System) render.Options {
	opts := render.DefaultOptions()
	opts.Ambient = cfg.Lighting.Ambient
	if bg, err := cfg.BackgroundColor(); err == nil {
		opts.Background = bg
	}
	if cfg.Stars.Count > 0 {
		opts.Stars = render.NewStarfield(cfg.Stars.Count, cfg.Stars.Seed, cfg.Stars.Radius)
	}
	return opts
}
