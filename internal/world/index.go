package world

import (
	"math"

	"gothic3d/internal/engine"
	"gothic3d/internal/objects"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Spatial grid cell size, in world units (cm).
const CellSize = 1000.0

type CellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3) CellKey {
	return CellKey{
		X: int(math.Floor(float64(pos.X / CellSize))),
		Y: int(math.Floor(float64(pos.Y / CellSize))),
		Z: int(math.Floor(float64(pos.Z / CellSize))),
	}
}

// vobIndex buckets vobs by position. It is rebuilt lazily after any vob moved.
type vobIndex struct {
	grid  map[CellKey][]engine.VobID
	dirty bool
}

func (w *World) rebuildIndex() {
	if !w.index.dirty && w.index.grid != nil {
		return
	}
	grid := make(map[CellKey][]engine.VobID, len(w.index.grid))
	w.tree.Walk(func(v *engine.Vob) bool {
		key := posToCell(w.tree.Position(v.ID()))
		grid[key] = append(grid[key], v.ID())
		return true
	})
	w.index.grid = grid
	w.index.dirty = false
}

// VobsNear returns the vobs within radius of pos.
func (w *World) VobsNear(pos rl.Vector3, radius float32) []engine.VobID {
	w.rebuildIndex()
	lo := posToCell(rl.Vector3SubtractValue(pos, radius))
	hi := posToCell(rl.Vector3AddValue(pos, radius))

	var result []engine.VobID
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				for _, id := range w.index.grid[CellKey{x, y, z}] {
					if w.tree.Get(id) == nil {
						continue
					}
					if rl.Vector3Distance(w.tree.Position(id), pos) <= radius {
						result = append(result, id)
					}
				}
			}
		}
	}
	return result
}

// NearestInteractive returns the closest usable object within radius of pos.
func (w *World) NearestInteractive(pos rl.Vector3, radius float32) *objects.Interactive {
	var best *objects.Interactive
	bestDist := float32(math.MaxFloat32)
	for _, id := range w.VobsNear(pos, radius) {
		it, ok := w.tree.Get(id).Behavior().(*objects.Interactive)
		if !ok {
			continue
		}
		if d := rl.Vector3Distance(w.tree.Position(id), pos); d < bestDist {
			best, bestDist = it, d
		}
	}
	return best
}
