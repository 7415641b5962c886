package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestRayHitsNearestBox(t *testing.T) {
	w := NewWorld()
	w.AddStatic("far", 1, NewAABBFromCenter(rl.Vector3{X: 0, Y: 0, Z: 20}, rl.Vector3{X: 2, Y: 2, Z: 2}))
	w.AddStatic("near", 2, NewAABBFromCenter(rl.Vector3{X: 0, Y: 0, Z: 10}, rl.Vector3{X: 2, Y: 2, Z: 2}))

	r := w.Ray(rl.Vector3{}, rl.Vector3{Z: 100})
	if !r.HasHit {
		t.Fatal("expected hit")
	}
	if r.Body == nil || r.Body.Name != "near" {
		t.Errorf("expected nearest body, got %v", r.Body)
	}
	if abs(r.Point.Z-9) > 0.001 {
		t.Errorf("expected hit at z=9, got %v", r.Point.Z)
	}
	if r.Normal.Z != -1 {
		t.Errorf("expected -Z normal, got %v", r.Normal)
	}
}

func TestRayMissReturnsEnd(t *testing.T) {
	w := NewWorld()
	w.AddStatic("side", 1, NewAABBFromCenter(rl.Vector3{X: 50}, rl.Vector3{X: 2, Y: 2, Z: 2}))

	end := rl.Vector3{Z: 100}
	r := w.Ray(rl.Vector3{}, end)
	if r.HasHit {
		t.Fatal("ray should miss")
	}
	if r.Point != end {
		t.Errorf("miss should report the ray end, got %v", r.Point)
	}
}

func TestRayStopsAtSegmentEnd(t *testing.T) {
	w := NewWorld()
	w.AddStatic("beyond", 1, NewAABBFromCenter(rl.Vector3{Z: 50}, rl.Vector3{X: 2, Y: 2, Z: 2}))

	r := w.Ray(rl.Vector3{}, rl.Vector3{Z: 10})
	if r.HasHit {
		t.Error("box past the segment end must not be hit")
	}
}

func TestLandRay(t *testing.T) {
	w := NewWorld()
	w.AddStatic("ground", 1, NewAABB(rl.Vector3{X: -100, Y: -10, Z: -100}, rl.Vector3{X: 100, Y: 0, Z: 100}))

	r := w.LandRay(rl.Vector3{X: 5, Y: 30, Z: 5})
	if !r.HasHit {
		t.Fatal("expected ground hit")
	}
	if abs(r.Point.Y) > 0.001 {
		t.Errorf("expected ground at y=0, got %v", r.Point.Y)
	}

	pos := rl.Vector3{X: 500, Y: 30, Z: 500}
	r = w.LandRay(pos)
	if r.HasHit || r.Point != pos {
		t.Errorf("without ground LandRay should return the input, got %v", r.Point)
	}
}

func TestBodySetTransform(t *testing.T) {
	w := NewWorld()
	local := NewAABBFromCenter(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	b := w.AddBody("door", 3, local, rl.MatrixIdentity())

	b.SetTransform(rl.MatrixTranslate(0, 0, 10))
	r := w.Ray(rl.Vector3{}, rl.Vector3{Z: 100})
	if !r.HasHit || r.Body != b {
		t.Fatal("moved body should be hit")
	}
	if abs(r.Point.Z-9) > 0.001 {
		t.Errorf("expected hit at z=9, got %v", r.Point.Z)
	}

	w.Remove(b)
	if w.BodyCount() != 0 {
		t.Errorf("expected empty world, got %d bodies", w.BodyCount())
	}
	if r := w.Ray(rl.Vector3{}, rl.Vector3{Z: 100}); r.HasHit {
		t.Error("removed body still hit")
	}
}

func TestAABBTransformRotated(t *testing.T) {
	box := NewAABB(rl.Vector3{X: 0, Y: 0, Z: 0}, rl.Vector3{X: 4, Y: 1, Z: 1})
	out := box.Transform(rl.MatrixRotateY(rl.Pi / 2))
	size := out.Size()
	if abs(size.Z-4) > 0.01 || abs(size.X-1) > 0.01 {
		t.Errorf("rotated box should swap extents, got %v", size)
	}
}
