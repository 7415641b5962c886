package game

import (
	"gothic3d/internal/camera"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorBgDark        = rl.NewColor(18, 18, 24, 230)
	colorBgElement     = rl.NewColor(35, 35, 45, 255)
	colorBgHover       = rl.NewColor(50, 50, 65, 255)
	colorAccent        = rl.NewColor(99, 102, 241, 255)
	colorTextPrimary   = rl.NewColor(240, 240, 245, 255)
	colorTextSecondary = rl.NewColor(160, 160, 175, 255)
)

func setupUIStyle() {
	// Background colors - dark with blue tint
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	// Text colors
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

// drawModeBar draws one button per camera mode along the bottom edge and
// returns the mode whose button was clicked. The active mode is outlined.
func drawModeBar(active camera.Mode) (camera.Mode, bool) {
	const w, h, gap = 84, 26, 4
	modes := camera.Modes()
	x := float32(10)
	y := float32(rl.GetScreenHeight() - h - 10)

	picked, ok := active, false
	for _, m := range modes {
		bounds := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
		if gui.Button(bounds, m.String()) {
			picked, ok = m, true
		}
		if m == active {
			rl.DrawRectangleLinesEx(bounds, 2, colorAccent)
		}
		x += w + gap
	}
	return picked, ok
}
