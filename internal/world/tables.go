package world

import (
	"strings"

	"gothic3d/internal/zen"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Point is a named spot: a start point or a free point for NPC routines.
type Point struct {
	Name string
	Pos  rl.Vector3
	Dir  rl.Vector3
}

// Item is an item instance lying in the world.
type Item struct {
	Name     string
	Instance string
	Amount   int
	Pos      rl.Vector3
}

type Sound struct {
	Name   string
	File   string
	Pos    rl.Vector3
	Radius float32
	Volume float32
}

type Light struct {
	Name  string
	Pos   rl.Vector3
	Color rl.Color
	Range float32
}

func pointOf(rec *zen.Record) Point {
	return Point{Name: rec.Name, Pos: rec.Pos(), Dir: rec.Facing()}
}

func (w *World) AddStartPoint(rec *zen.Record) {
	w.startPoints = append(w.startPoints, pointOf(rec))
}

func (w *World) AddFreePoint(rec *zen.Record) {
	w.freePoints = append(w.freePoints, pointOf(rec))
}

func (w *World) AddItem(rec *zen.Record) {
	it := Item{Name: rec.Name, Amount: 1, Pos: rec.Pos()}
	if d := rec.Item; d != nil {
		it.Instance = d.Instance
		if d.Amount > 0 {
			it.Amount = d.Amount
		}
	}
	w.items = append(w.items, it)
}

func (w *World) AddSound(rec *zen.Record) {
	s := Sound{Name: rec.Name, Pos: rec.Pos(), Volume: 1}
	if d := rec.Sound; d != nil {
		s.File = d.File
		s.Radius = d.Radius
		if d.Volume > 0 {
			s.Volume = d.Volume
		}
	}
	w.sounds = append(w.sounds, s)
}

func (w *World) AddLight(rec *zen.Record) {
	l := Light{Name: rec.Name, Pos: rec.Pos(), Color: rl.White}
	if d := rec.Light; d != nil {
		l.Color = rl.NewColor(d.Color[0], d.Color[1], d.Color[2], d.Color[3])
		l.Range = d.Range
	}
	w.lights = append(w.lights, l)
}

func (w *World) StartPoints() []Point { return w.startPoints }

func (w *World) FreePoints() []Point { return w.freePoints }

func (w *World) Items() []Item { return w.items }

func (w *World) Sounds() []Sound { return w.sounds }

func (w *World) Lights() []Light { return w.lights }

// FindStartPoint looks a start point up by name, ignoring case. An empty
// name yields the first start point.
func (w *World) FindStartPoint(name string) (Point, bool) {
	return findPoint(w.startPoints, name)
}

// FindFreePoint looks a free point up by name, ignoring case.
func (w *World) FindFreePoint(name string) (Point, bool) {
	if name == "" {
		return Point{}, false
	}
	return findPoint(w.freePoints, name)
}

func findPoint(points []Point, name string) (Point, bool) {
	if name == "" {
		if len(points) == 0 {
			return Point{}, false
		}
		return points[0], true
	}
	for _, p := range points {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Point{}, false
}
