package game

import (
	"bytes"
	"errors"
	"fmt"

	"gothic3d/internal/savegame"
)

const quickSlot = "quick"

// ErrNoSlots is returned when quick save storage could not be opened.
var ErrNoSlots = errors.New("game: no save storage")

// ErrEmptySlot is returned by QuickLoad before the first quick save.
var ErrEmptySlot = errors.New("game: save slot is empty")

// SetSlots replaces the save storage.
func (g *Game) SetSlots(s *savegame.Slots) { g.slots = s }

// QuickSave stores the level path, the world state and the camera.
func (g *Game) QuickSave() error {
	if g.slots == nil {
		return ErrNoSlots
	}
	var buf bytes.Buffer
	sw, err := savegame.NewWriter(&buf)
	if err != nil {
		return err
	}
	if err := sw.Write(g.levelPath); err != nil {
		return err
	}
	if err := g.World.SaveState(sw); err != nil {
		return err
	}
	if err := g.Camera.Save(sw); err != nil {
		return err
	}
	return g.slots.Save(quickSlot, buf.Bytes())
}

// QuickLoad restores the quick slot, switching level first when the save
// was made in another one.
func (g *Game) QuickLoad() error {
	if g.slots == nil {
		return ErrNoSlots
	}
	data, err := g.slots.Load(quickSlot)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptySlot
	}
	sr, err := savegame.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	var path string
	if err := sr.Read(&path); err != nil {
		return err
	}
	if path != g.levelPath {
		if err := g.LoadLevel(path, ""); err != nil {
			return err
		}
	}
	if err := g.World.LoadState(sr); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if err := g.Camera.Load(sr); err != nil {
		return err
	}
	g.Logger.Printf("[game] loaded %s", path)
	return nil
}
