package game

import (
	"gothic3d/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// walkSpeed is the player speed in world units per second.
	walkSpeed = 300.0
	// turnSpeed is the keyboard turn rate in degrees per second.
	turnSpeed        = 120.0
	mouseSensitivity = 0.15
)

// Input is one frame of player input.
type Input struct {
	Forward float32 // +1 forward, -1 back
	Strafe  float32 // +1 right, -1 left
	Turn    float32 // degrees
	Mouse   rl.Vector2
	Wheel   int

	Use        bool
	Pause      bool
	QuickSave  bool
	QuickLoad  bool
	ToggleVobs bool
	Debug      bool

	SetMode bool
	Mode    camera.Mode
}

var modeKeys = []int32{
	rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive,
	rl.KeySix, rl.KeySeven, rl.KeyEight, rl.KeyNine, rl.KeyZero,
}

func pollInput() Input {
	var in Input
	dt := rl.GetFrameTime()
	if rl.IsKeyDown(rl.KeyW) {
		in.Forward++
	}
	if rl.IsKeyDown(rl.KeyS) {
		in.Forward--
	}
	if rl.IsKeyDown(rl.KeyD) {
		in.Strafe++
	}
	if rl.IsKeyDown(rl.KeyA) {
		in.Strafe--
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		in.Turn -= turnSpeed * dt
	}
	if rl.IsKeyDown(rl.KeyRight) {
		in.Turn += turnSpeed * dt
	}

	md := rl.GetMouseDelta()
	in.Mouse = rl.Vector2{X: md.X * mouseSensitivity, Y: md.Y * mouseSensitivity}
	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		in.Wheel = 1
	} else if wheel < 0 {
		in.Wheel = -1
	}

	in.Use = rl.IsKeyPressed(rl.KeyE)
	in.Pause = rl.IsKeyPressed(rl.KeyP)
	in.QuickSave = rl.IsKeyPressed(rl.KeyF5)
	in.QuickLoad = rl.IsKeyPressed(rl.KeyF9)
	in.ToggleVobs = rl.IsKeyPressed(rl.KeyF2)
	in.Debug = rl.IsKeyPressed(rl.KeyF1)

	modes := camera.Modes()
	for i, k := range modeKeys {
		if i < len(modes) && rl.IsKeyPressed(k) {
			in.SetMode, in.Mode = true, modes[i]
		}
	}
	return in
}

// Step applies one frame of input and advances world and camera by dt
// milliseconds.
func (g *Game) Step(in Input, dt uint64) {
	if in.Pause {
		g.World.Pause(!g.World.IsPaused())
	}
	if in.ToggleVobs {
		g.Renderer.ShowVobs = !g.Renderer.ShowVobs
	}
	if in.SetMode {
		g.Camera.SetMode(in.Mode)
	}
	if in.Wheel != 0 {
		g.Camera.ChangeZoom(in.Wheel)
	}

	moved := false
	if pl := g.World.Player(); pl != nil && !g.World.IsPaused() {
		if in.Use {
			g.toggleUse()
		}
		pl.Rotate(in.Turn + in.Mouse.X)
		g.Camera.OnRotateMouse(rl.Vector2{X: in.Mouse.Y, Y: in.Mouse.X})

		step := walkSpeed * float32(dt) / 1000
		moved = pl.Move(in.Forward*step, in.Strafe*step)
		g.Camera.SetDestPosition(pl.CameraBone())
	}

	g.World.Tick(dt)
	g.Camera.Tick(dt, moved, true)

	if g.watcher != nil {
		g.watcher.Poll(g.Camera)
	}
	if lc, ok := g.World.TakeLevelChange(); ok {
		g.changeLevel(lc)
	}
	if in.QuickSave {
		if err := g.QuickSave(); err != nil {
			g.Logger.Printf("[game] quick save: %v", err)
		}
	}
	if in.QuickLoad {
		if err := g.QuickLoad(); err != nil {
			g.Logger.Printf("[game] quick load: %v", err)
		}
	}
}

// toggleUse starts using the nearest interactive, framed by the Mobsi
// camera, or stops using the current one.
func (g *Game) toggleUse() {
	pl := g.World.Player()
	if pl.Interactive() != nil {
		pl.Leave()
		g.Camera.SetMode(camera.Normal)
		return
	}
	if pl.Use() {
		g.Camera.SetMode(camera.Mobsi)
	}
}
