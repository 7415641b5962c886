package game

import (
	"fmt"
	"log"
	"time"

	"gothic3d/internal/audio"
	"gothic3d/internal/camera"
	"gothic3d/internal/engine"
	"gothic3d/internal/savegame"
	"gothic3d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Config is what the binary passes in from its flags.
type Config struct {
	Width, Height int32
	Level         string
	StartVob      string
	// CameraDefs is an optional camera table that overrides the built-in one
	// and is reloaded when it changes.
	CameraDefs string
	AppName    string
	RayGrid    int
	// SoundDir holds the files named by the level's sound vobs.
	SoundDir string
}

type Game struct {
	cfg Config

	World    *world.World
	Camera   *camera.Camera
	Renderer *world.Renderer
	Logger   *log.Logger

	watcher   *camera.Watcher
	ambience  *audio.Ambience
	slots     *savegame.Slots
	levelPath string

	DebugMode bool
	lightDir  rl.Vector3
	lastEvent engine.TriggerEvent
	events    int

	// Debug timing (ms)
	updateMs float64
	shadowMs float64
	drawMs   float64
}

func New(cfg Config) *Game {
	g := &Game{
		cfg:      cfg,
		Renderer: world.NewRenderer(),
		Logger:   log.Default(),
		lightDir: rl.Vector3Normalize(rl.Vector3{X: 0.3, Y: 1, Z: 0.2}),
	}

	var defs *camera.Definitions
	if cfg.CameraDefs != "" {
		d, err := camera.LoadDefinitions(cfg.CameraDefs)
		if err != nil {
			g.Logger.Printf("[game] %v, using built-in camera table", err)
		} else {
			defs = d
		}
		if w, err := camera.Watch(cfg.CameraDefs); err != nil {
			g.Logger.Printf("[game] watch %s: %v", cfg.CameraDefs, err)
		} else {
			g.watcher = w
		}
	}
	g.Camera = camera.New(defs)
	g.Camera.RayGrid = cfg.RayGrid

	if cfg.AppName != "" {
		slots, err := savegame.OpenSlots(cfg.AppName)
		if err != nil {
			g.Logger.Printf("[game] %v, quick save disabled", err)
		} else {
			g.slots = slots
		}
	}
	return g
}

func (g *Game) Run() error {
	if err := g.LoadLevel(g.cfg.Level, g.cfg.StartVob); err != nil {
		return err
	}

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable)
	rl.InitWindow(g.cfg.Width, g.cfg.Height, "gothic3d")
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	rl.DisableCursor()

	// Initialize renderer after OpenGL context is created
	g.Renderer.Initialize()
	defer g.Renderer.Unload()
	setupUIStyle()

	audio.Init()
	defer audio.Close()
	g.ambience = audio.NewAmbience(g.cfg.SoundDir)
	g.ambience.Logger = g.Logger
	g.ambience.Load(g.World.Sounds())
	defer g.ambience.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
	g.Close()
	return nil
}

// Close releases the level and stops the definition watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.World != nil {
		g.World.Close()
	}
}

func (g *Game) Update() {
	updateStart := time.Now()
	dt := uint64(rl.GetFrameTime() * 1000)

	in := pollInput()
	if in.Debug {
		g.DebugMode = !g.DebugMode
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		if rl.IsCursorHidden() {
			rl.EnableCursor()
		} else {
			rl.DisableCursor()
		}
	}
	if !rl.IsCursorHidden() {
		in.Mouse = rl.Vector2{}
	}

	// Light controls
	lightSpeed := float32(dt) / 1000
	if rl.IsKeyDown(rl.KeyJ) {
		g.lightDir.X -= lightSpeed
	}
	if rl.IsKeyDown(rl.KeyL) {
		g.lightDir.X += lightSpeed
	}
	if rl.IsKeyDown(rl.KeyI) {
		g.lightDir.Z += lightSpeed
	}
	if rl.IsKeyDown(rl.KeyK) {
		g.lightDir.Z -= lightSpeed
	}

	g.Step(in, dt)
	if g.ambience != nil {
		eye := g.Camera.Eye()
		fwd := rl.Vector3Subtract(g.Camera.Position(), eye)
		g.ambience.Update(audio.NewListener(eye, fwd, rl.Vector3{Y: 1}))
	}
	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) Draw() {
	g.Camera.SetViewport(uint32(rl.GetRenderWidth()), uint32(rl.GetRenderHeight()))
	view := g.Camera.View()
	proj := g.Camera.Projective()
	g.World.GlobalFx().Morph(&proj)
	g.Renderer.Target = g.Camera.Position()

	// Shadow pass
	shadowStart := time.Now()
	g.Renderer.DrawShadowMap(g.World, g.Camera.ViewShadow(g.lightDir, 0))
	g.shadowMs = float64(time.Since(shadowStart).Microseconds()) / 1000.0

	// Main render
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	drawStart := time.Now()
	g.Renderer.Draw(g.World, view, proj)
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) DrawUI() {
	rl.DrawText("WASD to move, arrows/mouse to turn, wheel to zoom, E to use", 10, 10, 20, rl.LightGray)
	rl.DrawText("1-0 camera mode, F5/F9 quick save/load, P pause, IJKL light, Tab cursor", 10, 35, 20, rl.LightGray)
	rl.DrawFPS(10, 60)

	if m, ok := drawModeBar(g.Camera.Mode()); ok {
		g.Camera.SetMode(m)
	}

	if g.World.IsPaused() {
		w := int32(rl.GetScreenWidth())
		rl.DrawText("PAUSED", w/2-50, 90, 30, rl.Yellow)
	}

	if g.DebugMode {
		previewSize := int32(256)
		screenW := int32(rl.GetScreenWidth())
		rl.DrawTexturePro(
			g.Renderer.ShadowMap.Depth,
			rl.Rectangle{X: 0, Y: 0, Width: float32(g.Renderer.ShadowMap.Depth.Width), Height: float32(-g.Renderer.ShadowMap.Depth.Height)},
			rl.Rectangle{X: float32(screenW - previewSize - 10), Y: 10, Width: float32(previewSize), Height: float32(previewSize)},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(screenW-previewSize-10, 10, previewSize, previewSize, rl.Green)
		rl.DrawText("Shadow Map", screenW-previewSize-10, previewSize+15, 16, rl.Green)

		spin := g.Camera.Spin()
		rl.DrawText(fmt.Sprintf("Camera: %s  range %.2f  spin (%.1f, %.1f)", g.Camera.Mode(), g.Camera.Range(), spin.X, spin.Y), 10, 85, 16, rl.Yellow)
		rl.DrawText(fmt.Sprintf("World: %s  %d vobs  %d drawn  t=%dms", g.World.Name, g.World.Tree().Len(), g.Renderer.Drawn(), g.World.TickCount()), 10, 105, 16, rl.Yellow)

		if g.events > 0 {
			e := g.lastEvent
			rl.DrawText(fmt.Sprintf("Events: %d  last %s %s -> %s", g.events, e.Type, e.Emitter, e.Target), 10, 125, 16, rl.Yellow)
		}

		rl.DrawText(fmt.Sprintf("Update:  %.2f ms", g.updateMs), 10, 150, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Shadows: %.2f ms", g.shadowMs), 10, 170, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Draw:    %.2f ms", g.drawMs), 10, 190, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Total:   %.2f ms", g.updateMs+g.shadowMs+g.drawMs), 10, 210, 16, rl.Lime)
	}
}
