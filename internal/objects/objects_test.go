package objects

import (
	"testing"

	"gothic3d/internal/engine"
	"gothic3d/internal/physics"
	"gothic3d/internal/zen"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestStaticObjCollision(t *testing.T) {
	pw := physics.NewWorld()
	rec := &zen.Record{
		Name:     "ROCK",
		Visual:   "ROCK_01.3DS",
		CdStatic: true,
		BBox:     &zen.BBox{Min: [3]float32{-1, 0, -1}, Max: [3]float32{1, 2, 1}},
	}
	s := NewStaticObj(rec, pw)
	if s.Body() == nil || pw.BodyCount() != 1 {
		t.Fatal("cdStatic object should register a collision box")
	}

	tree := engine.NewTree(nil)
	id := tree.Add(engine.NoVob, engine.Spec{Name: "ROCK", World: rl.MatrixIdentity()})
	tree.SetBehavior(id, s)
	if tree.Get(id).Kind != engine.KindStaticObj {
		t.Error("kind not set")
	}
	tree.Remove(id)
	if pw.BodyCount() != 0 {
		t.Error("removing the node should drop its collision box")
	}

	rec.CdStatic = false
	if NewStaticObj(rec, pw).Body() != nil {
		t.Error("object without cdStatic must not collide")
	}
}

func TestInteractiveScheme(t *testing.T) {
	rec := &zen.Record{
		Visual:      "BEDHIGH_PSI.ASC",
		Rotation:    [3][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Interactive: &zen.InteractiveData{FocusName: "Bed"},
	}
	it := NewInteractive(rec, nil)
	if it.SchemeName() != "BEDHIGH" {
		t.Errorf("expected scheme from visual, got %q", it.SchemeName())
	}

	tree := engine.NewTree(nil)
	id := tree.Add(engine.NoVob, engine.Spec{World: rl.MatrixIdentity()})
	tree.SetBehavior(id, it)

	if it.InUse() {
		t.Fatal("fresh interactive should be idle")
	}
	it.Use(rl.Vector3{Z: 100})
	if it.PosSchemeName() != "FRONT" {
		t.Errorf("user along the facing should be FRONT, got %q", it.PosSchemeName())
	}
	it.Leave()
	it.Use(rl.Vector3{Z: -100})
	if it.PosSchemeName() != "BACK" {
		t.Errorf("user behind should be BACK, got %q", it.PosSchemeName())
	}
}

func TestInteractiveStates(t *testing.T) {
	rec := &zen.Record{Interactive: &zen.InteractiveData{Scheme: "lever", StateNum: 1}}
	it := NewInteractive(rec, nil)
	tree := engine.NewTree(nil)
	id := tree.Add(engine.NoVob, engine.Spec{World: rl.MatrixIdentity()})
	tree.SetBehavior(id, it)

	if it.SchemeName() != "LEVER" {
		t.Errorf("scheme should be upper-cased, got %q", it.SchemeName())
	}
	it.Use(rl.Vector3{})
	if it.State() != 1 {
		t.Errorf("expected state 1, got %d", it.State())
	}
	it.Use(rl.Vector3{})
	if it.State() != 0 {
		t.Errorf("state should wrap, got %d", it.State())
	}
}
