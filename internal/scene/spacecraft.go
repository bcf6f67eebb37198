package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"solar-system/internal/config"
	"solar-system/internal/control"
	"solar-system/internal/physics"
)

// Spacecraft is steered inside the orbital frame of its anchor body. The frame follows the
// anchor around its orbit but not the anchor's own spin. Local axes are X radial (away
// from the parent), Y the orbit normal, and Z = X × Y, which points along the direction of
// motion for a prograde orbit. Heading rotates the ship about local Y; heading 0 faces +Z.
// The ship stays between clearance and MaxOffset from the anchor's center.
type Spacecraft struct {
	anchor    int
	cfg       config.Spacecraft
	clearance float32

	body    physics.Body
	heading float32
}

// ShipState is a snapshot of the spacecraft.
type ShipState struct {
	Offset   mgl32.Vec3 // anchor frame
	Velocity mgl32.Vec3 // anchor frame
	Heading  float32
	Position mgl32.Vec3 // world
	Model    mgl32.Mat4
}

type anchorFrame struct {
	origin mgl32.Vec3
	basis  mgl32.Mat3 // columns are the local axes in world space
}

func newSpacecraft(cfg config.Spacecraft, anchor int, anchorRadius float64) *Spacecraft {
	return &Spacecraft{
		anchor:    anchor,
		cfg:       cfg,
		clearance: cfg.Clearance(anchorRadius),
		body:      physics.Body{Position: cfg.Offset},
	}
}

// Forward is the unit heading direction in the anchor frame.
func (sc *Spacecraft) forward() mgl32.Vec3 {
	s, c := math32.Sincos(sc.heading)
	return mgl32.Vec3{s, 0, c}
}

// step integrates one frame: turn, thrust along the heading with exponential damping, then
// the bounds that keep the ship off the anchor's surface and on its leash.
func (sc *Spacecraft) step(d control.Deltas, dt float32) {
	if dt == 0 {
		return
	}
	sc.heading += d.ShipTurn() * sc.cfg.TurnRate * dt
	sc.heading = wrapAngle(sc.heading)

	sc.body.Step(sc.forward().Mul(d.ShipThrust()*sc.cfg.Thrust), sc.cfg.Damping, dt)
	sc.body.Confine(sc.cfg.MaxOffset)
	sc.body.Exclude(sc.clearance)
	if !sc.body.Finite() {
		sc.body = physics.Body{Position: sc.cfg.Offset}
	}
}

func (sc *Spacecraft) state(f anchorFrame) ShipState {
	pos := f.origin.Add(f.basis.Mul3x1(sc.body.Position))
	s := sc.cfg.Scale
	model := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(f.basis.Mat4()).
		Mul4(mgl32.HomogRotate3DY(sc.heading)).
		Mul4(mgl32.Scale3D(s, s, s))
	return ShipState{
		Offset:   sc.body.Position,
		Velocity: sc.body.Velocity,
		Heading:  sc.heading,
		Position: pos,
		Model:    model,
	}
}

func wrapAngle(a float32) float32 {
	if math32.IsNaN(a) || math32.IsInf(a, 0) {
		return 0
	}
	a = math32.Mod(a, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a
}
