package world

import (
	"bytes"
	"fmt"

	"gothic3d/internal/engine"
	"gothic3d/internal/objects"
	"gothic3d/internal/savegame"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SaveState writes the world clock, the player pose and the state of every vob
// that carries any, in tree order.
func (w *World) SaveState(out *savegame.Writer) error {
	out.Write(w.Name, w.tickCount, w.player != nil)
	if w.player != nil {
		out.Write(w.player.pos, w.player.rotation)
	}

	var savers []*engine.Vob
	w.tree.Walk(func(v *engine.Vob) bool {
		if _, ok := v.Behavior().(engine.Saver); ok {
			savers = append(savers, v)
		}
		return true
	})
	out.Write(uint32(len(savers)))
	for _, v := range savers {
		out.Write(v.Name, uint8(v.Kind))
		if err := v.Behavior().(engine.Saver).Save(out); err != nil {
			return fmt.Errorf("world: save %s: %w", v.Name, err)
		}
	}
	return out.Err()
}

// LoadState restores what SaveState wrote. The world must have been built from the
// same level, so vobs line up in tree order. On error the world is left as it
// was.
func (w *World) LoadState(in *savegame.Reader) error {
	var (
		name      string
		tick      uint64
		hasPlayer bool
		pos       rl.Vector3
		rot       float32
	)
	in.Read(&name, &tick, &hasPlayer)
	if hasPlayer {
		in.Read(&pos, &rot)
	}
	if err := in.Err(); err != nil {
		return fmt.Errorf("world: load: %w", err)
	}
	if name != w.Name {
		return fmt.Errorf("world: load: %w: save is for %q, world is %q", savegame.ErrFormat, name, w.Name)
	}

	var savers []engine.Saver
	var names []string
	w.tree.Walk(func(v *engine.Vob) bool {
		if s, ok := v.Behavior().(engine.Saver); ok {
			savers = append(savers, s)
			names = append(names, v.Name)
		}
		return true
	})
	var n uint32
	if err := in.Read(&n); err != nil {
		return fmt.Errorf("world: load: %w", err)
	}
	if int(n) != len(savers) {
		return fmt.Errorf("world: load: %w: %d vob states, world has %d", savegame.ErrFormat, n, len(savers))
	}

	backup, err := snapshot(savers)
	if err != nil {
		return fmt.Errorf("world: load: %w", err)
	}
	if err := loadSavers(in, savers, names); err != nil {
		if rerr := restore(backup, savers); rerr != nil {
			w.Logger.Printf("[world] rollback failed: %v", rerr)
		}
		return err
	}

	w.tickCount = tick
	if hasPlayer {
		if w.player == nil {
			w.SetPlayer(&Player{})
		}
		w.player.pos = pos
		w.player.rotation = rot
	}
	w.queue = nil
	clear(w.inside)
	if w.player != nil {
		w.player.interactive = nil
		w.tree.Walk(func(v *engine.Vob) bool {
			if it, ok := v.Behavior().(*objects.Interactive); ok && it.InUse() {
				w.player.interactive = it
				return false
			}
			return true
		})
	}
	return nil
}

func loadSavers(in *savegame.Reader, savers []engine.Saver, names []string) error {
	for i, s := range savers {
		var vname string
		var kind uint8
		if err := in.Read(&vname, &kind); err != nil {
			return fmt.Errorf("world: load: %w", err)
		}
		if vname != names[i] {
			return fmt.Errorf("world: load: %w: expected %q, got %q", savegame.ErrFormat, names[i], vname)
		}
		if err := s.Load(in); err != nil {
			return fmt.Errorf("world: load %s: %w", vname, err)
		}
	}
	return nil
}

// snapshot encodes the current state of savers so a failed load can be undone.
func snapshot(savers []engine.Saver) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	out, err := savegame.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	for _, s := range savers {
		if err := s.Save(out); err != nil {
			return nil, err
		}
	}
	return &buf, nil
}

func restore(buf *bytes.Buffer, savers []engine.Saver) error {
	in, err := savegame.NewReader(buf)
	if err != nil {
		return err
	}
	for _, s := range savers {
		if err := s.Load(in); err != nil {
			return err
		}
	}
	return nil
}
