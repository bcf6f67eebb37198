package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"solar-system/internal/control"
)

// Input maps raw raylib device state into control.Deltas. Bindings:
//
//	arrows      camera yaw / pitch
//	A / D       strafe the orbit focus
//	Q / E       move the orbit focus down / up
//	mouse drag  camera yaw / pitch (left button)
//	wheel       zoom
//	B           toggle bird's-eye view
//	P           pause simulation time
//	I / K       spacecraft thrust forward / back
//	J / L       spacecraft turn left / right
//	F12         screenshot
type Input struct {
	screenshot bool
}

// Poll reads the device state for this frame.
func (in *Input) Poll() control.Deltas {
	var d control.Deltas
	d.RotateCameraYaw = axis(rl.KeyRight, rl.KeyLeft)
	d.RotateCameraPitch = axis(rl.KeyUp, rl.KeyDown)
	d.CameraStrafe = axis(rl.KeyD, rl.KeyA)
	d.CameraVerticalMove = axis(rl.KeyE, rl.KeyQ)
	d.ZoomDelta = rl.GetMouseWheelMove()

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		md := rl.GetMouseDelta()
		d.DragX, d.DragY = md.X, md.Y
	}

	d.ToggleBirdsEye = rl.IsKeyPressed(rl.KeyB)
	d.TogglePause = rl.IsKeyPressed(rl.KeyP)

	d.ShipMoveForward = key(rl.KeyI)
	d.ShipMoveBack = key(rl.KeyK)
	d.ShipMoveLeft = key(rl.KeyJ)
	d.ShipMoveRight = key(rl.KeyL)

	in.screenshot = rl.IsKeyPressed(rl.KeyF12)
	return d
}

// Screenshot reports whether the last Poll saw the screenshot key.
func (in *Input) Screenshot() bool { return in.screenshot }

func key(k int32) float32 {
	if rl.IsKeyDown(k) {
		return 1
	}
	return 0
}

func axis(pos, neg int32) float32 { return key(pos) - key(neg) }
