package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"solar-system/internal/render"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	logSize    = 14
	logHeight  = logSize + 2
	// refresh FPS/Mem text every N frames to reduce allocations
	updateInterval = 30
)

// Status is the simulation state shown in the HUD.
type Status struct {
	Mode      string
	Time      float64
	TimeScale float64
	Paused    bool
	Stats     render.Stats
}

// Debug draws the HUD overlays. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool

	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
	status       []string
	log          []string
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetStatus replaces the status block (top-left).
func (d *Debug) SetStatus(s Status) {
	d.status = StatusLines(s)
}

// SetLog replaces the log tail drawn at the bottom-left.
func (d *Debug) SetLog(lines []string) {
	d.log = lines
}

// StatusLines formats s for display.
func StatusLines(s Status) []string {
	clock := fmt.Sprintf("t = %.2f  x%.2g", s.Time, s.TimeScale)
	if s.Paused {
		clock += "  [paused]"
	}
	st := s.Stats
	return []string{
		"camera: " + s.Mode,
		clock,
		fmt.Sprintf("tris %d  culled %d  clipped %d  drawn %d", st.Triangles, st.Culled, st.Clipped, st.Rasterized),
		fmt.Sprintf("pixels %d  stars %d", st.Pixels, st.Stars),
	}
}

// Draw renders the enabled overlays. Call last in the draw loop.
func (d *Debug) Draw() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	if (d.ShowFPS && d.lastFpsText == "") || (d.ShowMemAlloc && d.lastMemText == "") {
		update = true
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		rightText(d.lastFpsText, screenW, y)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(d.lastMemStats.Alloc)/(1024*1024))
		}
		rightText(d.lastMemText, screenW, y)
	}

	if d.ShowStats {
		for i, line := range d.status {
			rl.DrawText(line, padding, padding+int32(i)*lineHeight, fontSize, rl.RayWhite)
		}
	}

	bottom := int32(rl.GetScreenHeight()) - padding - logHeight
	for i := len(d.log) - 1; i >= 0; i-- {
		rl.DrawText(d.log[i], padding, bottom, logSize, rl.LightGray)
		bottom -= logHeight
	}
}

func rightText(text string, screenW, y int32) {
	if text == "" {
		return
	}
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
}
