package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window configures the viewer window.
type Window struct {
	Width     int
	Height    int
	Title     string
	TargetFPS int
}

// Run opens the window and runs the main loop. Each frame it calls update (input, simulation,
// software rendering), then clears the screen and calls draw (present + overlays). Close via
// the window button or ESC.
func Run(w Window, update, draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagVsyncHint)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	defer rl.CloseWindow()

	if w.TargetFPS > 0 {
		rl.SetTargetFPS(int32(w.TargetFPS))
	}

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
}

// FrameTime returns the duration of the last frame in seconds.
func FrameTime() float32 { return rl.GetFrameTime() }

// Aspect returns the current window width/height ratio.
func Aspect() float32 {
	h := rl.GetScreenHeight()
	if h <= 0 {
		return 1
	}
	return float32(rl.GetScreenWidth()) / float32(h)
}
