// Package control defines the per-frame input contract consumed by the camera and the
// spacecraft. Raw device state never reaches the core; an input mapper folds it into Deltas.
package control

// Deltas is one frame's worth of input.
//
// Axis fields (rotation, moves, ship thrust) are rates in [-1, 1] and are scaled by the frame
// duration and the configured speeds, so held keys behave the same at any frame rate.
// Drag fields are raw pointer deltas in pixels; Zoom is scroll notches (positive zooms in).
// Toggle fields are discrete events.
type Deltas struct {
	RotateCameraYaw    float32
	RotateCameraPitch  float32
	CameraVerticalMove float32
	CameraStrafe       float32
	DragX              float32
	DragY              float32
	ZoomDelta          float32
	ToggleBirdsEye     bool
	TogglePause        bool

	ShipMoveForward float32
	ShipMoveBack    float32
	ShipMoveLeft    float32
	ShipMoveRight   float32
}

// IsZero reports whether d carries no input.
func (d Deltas) IsZero() bool {
	return d == Deltas{}
}

// ShipThrust returns the net forward thrust in [-1, 1].
func (d Deltas) ShipThrust() float32 {
	return clampAxis(d.ShipMoveForward - d.ShipMoveBack)
}

// ShipTurn returns the net turn rate in [-1, 1]; positive turns left.
func (d Deltas) ShipTurn() float32 {
	return clampAxis(d.ShipMoveLeft - d.ShipMoveRight)
}

// Merge folds other into d: axes and pointer deltas add, toggles combine so that two
// toggle events cancel out.
func (d Deltas) Merge(other Deltas) Deltas {
	return Deltas{
		RotateCameraYaw:    d.RotateCameraYaw + other.RotateCameraYaw,
		RotateCameraPitch:  d.RotateCameraPitch + other.RotateCameraPitch,
		CameraVerticalMove: d.CameraVerticalMove + other.CameraVerticalMove,
		CameraStrafe:       d.CameraStrafe + other.CameraStrafe,
		DragX:              d.DragX + other.DragX,
		DragY:              d.DragY + other.DragY,
		ZoomDelta:          d.ZoomDelta + other.ZoomDelta,
		ToggleBirdsEye:     d.ToggleBirdsEye != other.ToggleBirdsEye,
		TogglePause:        d.TogglePause != other.TogglePause,
		ShipMoveForward:    d.ShipMoveForward + other.ShipMoveForward,
		ShipMoveBack:       d.ShipMoveBack + other.ShipMoveBack,
		ShipMoveLeft:       d.ShipMoveLeft + other.ShipMoveLeft,
		ShipMoveRight:      d.ShipMoveRight + other.ShipMoveRight,
	}
}

func clampAxis(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
