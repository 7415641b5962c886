package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gothic3d/internal/game"
)

func main() {
	level := flag.String("level", "assets/levels/demo.json", "level archive (JSON)")
	start := flag.String("start", "", "start point name (default: first)")
	camDefs := flag.String("cameras", "", "camera table override (YAML), reloaded on change")
	width := flag.Int("w", 1280, "window width")
	height := flag.Int("h", 720, "window height")
	sounds := flag.String("sounds", "assets/sounds", "directory of level sound files")
	rays := flag.Int("raygrid", 0, "camera collision ray grid half size")
	debug := flag.Bool("debug", false, "start with the debug overlay")
	flag.Parse()

	// Paths given on the command line are relative to the caller; defaults
	// are relative to the executable.
	paths := map[string]*string{"level": level, "cameras": camDefs, "sounds": sounds}
	flag.Visit(func(f *flag.Flag) {
		if p, ok := paths[f.Name]; ok && *p != "" {
			if abs, err := filepath.Abs(*p); err == nil {
				*p = abs
			}
		}
	})

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	g := game.New(game.Config{
		Width:      int32(*width),
		Height:     int32(*height),
		Level:      *level,
		StartVob:   *start,
		CameraDefs: *camDefs,
		AppName:    "gothic3d",
		RayGrid:    *rays,
		SoundDir:   *sounds,
	})
	g.DebugMode = *debug
	if err := g.Run(); err != nil {
		log.Fatal(err)
	}
}
