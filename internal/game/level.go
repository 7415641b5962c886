package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gothic3d/internal/engine"
	"gothic3d/internal/script"
	"gothic3d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// levelFile maps a level name such as "OLDMINE.ZEN" to its archive beside
// the current level.
func levelFile(dir, name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, strings.ToLower(base)+".json")
}

// scriptFile is the optional level script next to a level archive.
func scriptFile(levelPath string) string {
	return strings.TrimSuffix(levelPath, filepath.Ext(levelPath)) + ".tengo"
}

// LoadLevel replaces the current world with the archive at path and puts the
// player at startVob. The current world stays when loading fails.
func (g *Game) LoadLevel(path, startVob string) error {
	w, err := world.LoadFile(path)
	if err != nil {
		return fmt.Errorf("game: load level: %w", err)
	}
	w.Logger = g.Logger
	w.OnTrigger.AddListener(func(evt engine.TriggerEvent) {
		g.lastEvent = evt
		g.events++
	})

	sp := scriptFile(path)
	if _, err := os.Stat(sp); err == nil {
		host, err := script.LoadHost(sp, w)
		if err != nil {
			g.Logger.Printf("[game] %v, level runs without scripts", err)
		} else {
			host.Logger = g.Logger
			w.SetScripts(host)
		}
	}

	if _, err := w.SpawnPlayer(startVob); err != nil {
		if !errors.Is(err, world.ErrNoStartPoint) {
			w.Close()
			return fmt.Errorf("game: %w", err)
		}
		if _, err2 := w.SpawnPlayer(""); err2 != nil {
			g.Logger.Printf("[game] %s: no start point, spawning at origin", w.Name)
			w.SetPlayer(world.NewPlayer(w.Physic().LandRay(rl.Vector3{}).Point, 0))
		} else {
			g.Logger.Printf("[game] %v, using first start point", err)
		}
	}

	if g.World != nil {
		g.World.Close()
	}
	g.World = w
	g.levelPath = path
	w.Start()
	g.Camera.Reset(w)
	if g.ambience != nil {
		g.ambience.Load(w.Sounds())
	}
	return nil
}

func (g *Game) changeLevel(lc world.LevelChange) {
	path := levelFile(filepath.Dir(g.levelPath), lc.Level)
	if err := g.LoadLevel(path, lc.StartVob); err != nil {
		g.Logger.Printf("[game] change level: %v", err)
	}
}
