package camera

import (
	"fmt"

	"gothic3d/internal/savegame"
)

// minSaveVersion is the first stream version that carries camera state.
const minSaveVersion = 8

// Save writes the current and destination poses. The destination zoom is
// reset to the current one, which is what a load restores.
func (c *Camera) Save(w *savegame.Writer) error {
	err := w.Write(c.state.Spin, c.state.Pos,
		c.dest.Spin, c.dest.Pos,
		c.state.Range, c.hasPos)
	if err != nil {
		return fmt.Errorf("camera: save: %w", err)
	}
	c.dest.Range = c.state.Range
	return nil
}

// Load resets from the bound player, then reads the saved poses. Streams
// older than version 8 keep the reset. A failed read leaves the camera as it
// was.
func (c *Camera) Load(r *savegame.Reader) error {
	if r.Version() < minSaveVersion {
		if pl := c.player(); pl != nil {
			c.implReset(pl)
		}
		return nil
	}
	var state, dest State
	var hasPos bool
	err := r.Read(&state.Spin, &state.Pos,
		&dest.Spin, &dest.Pos,
		&state.Range, &hasPos)
	if err != nil {
		return fmt.Errorf("camera: load: %w", err)
	}
	if pl := c.player(); pl != nil {
		c.implReset(pl)
	}
	dest.Range = state.Range
	c.state = state
	c.dest = dest
	c.hasPos = hasPos
	return nil
}
