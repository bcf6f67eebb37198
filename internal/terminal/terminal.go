package terminal

import (
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"solar-system/internal/commands"
	"solar-system/internal/logger"
)

const (
	BarHeight = 40
	prompt    = "> "
	fontSize  = 20
	padding   = 8
	// log lines drawn above the input bar while open
	maxLinesOnScreen = 12
	lineHeight       = fontSize + 4
	maxLineLen       = 160
)

var (
	barColor  = rl.NewColor(40, 40, 40, 255)
	lineColor = rl.NewColor(80, 80, 80, 255)
	backColor = rl.NewColor(24, 24, 24, 220)
)

// Terminal is the console bar at the bottom of the screen, toggled with the grave key (`).
// While open it captures the keyboard and every submitted line is run through the command
// registry; the echo and any error go to the logger.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool
}

// New returns a closed Terminal.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen reports whether the terminal is visible and capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// Update handles the toggle key and, when open, typing, paste, backspace and enter.
// Call once per frame before polling viewer input.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyGrave) {
		t.open = !t.open
		// swallow the toggle character
		for rl.GetCharPressed() != 0 {
		}
		return
	}
	if !t.open {
		return
	}
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		t.inputBuf += rl.GetClipboardText()
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.inputBuf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && t.inputBuf != "" {
		line := t.inputBuf
		t.inputBuf = ""
		t.log.Log(prompt + line)
		if err := t.reg.Execute(commands.Parse(line)); err != nil {
			t.log.Log(err.Error())
		}
	}
}

// Draw draws the bar and the recent log lines above it when open.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	barY := int32(rl.GetScreenHeight()) - BarHeight

	chatHeight := int32(maxLinesOnScreen * lineHeight)
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight, chatY = barY, 0
	}
	if chatHeight > 0 {
		rl.DrawRectangle(0, chatY, screenW, chatHeight, backColor)
	}
	lines := t.log.Tail(maxLinesOnScreen)
	for i, line := range lines {
		if len(line) > maxLineLen {
			line = line[:maxLineLen-3] + "..."
		}
		rl.DrawText(line, padding, chatY+int32(i)*lineHeight+padding, fontSize, rl.LightGray)
	}

	rl.DrawRectangle(0, barY, screenW, BarHeight, barColor)
	rl.DrawRectangle(0, barY, screenW, 1, lineColor)
	rl.DrawText(prompt+t.inputBuf+"|", padding, barY+padding, fontSize, rl.White)
}
