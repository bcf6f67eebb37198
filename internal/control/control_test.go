package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsZero(t *testing.T) {
	assert.True(t, Deltas{}.IsZero())
	assert.False(t, Deltas{ZoomDelta: 1}.IsZero())
	assert.False(t, Deltas{ToggleBirdsEye: true}.IsZero())
}

func TestShipAxesClamp(t *testing.T) {
	d := Deltas{ShipMoveForward: 1, ShipMoveBack: 0.25, ShipMoveLeft: 3}
	assert.InDelta(t, 0.75, d.ShipThrust(), 1e-6)
	assert.Equal(t, float32(1), d.ShipTurn())
	assert.Equal(t, float32(-1), Deltas{ShipMoveRight: 2}.ShipTurn())
}

func TestMerge(t *testing.T) {
	a := Deltas{RotateCameraYaw: 0.5, DragX: 3, ToggleBirdsEye: true}
	b := Deltas{RotateCameraYaw: 0.25, DragX: -1, ToggleBirdsEye: true, TogglePause: true}
	m := a.Merge(b)
	assert.InDelta(t, 0.75, m.RotateCameraYaw, 1e-6)
	assert.InDelta(t, 2, m.DragX, 1e-6)
	assert.False(t, m.ToggleBirdsEye)
	assert.True(t, m.TogglePause)
}
