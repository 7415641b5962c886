package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Distances used by LandRay, in world units (centimetres).
const (
	LandRayLift  = 50
	LandRayDepth = 5000
)

// Body is a box collider registered with the world. Static bodies keep their
// box; dynamic ones follow SetTransform.
type Body struct {
	Name   string
	Owner  int32
	Static bool

	local AABB
	box   AABB
	world *World
}

// Box returns the current world-space bounds.
func (b *Body) Box() AABB { return b.box }

// SetTransform moves a dynamic body: its local bounds are re-enclosed under m.
func (b *Body) SetTransform(m rl.Matrix) {
	if b.Static {
		return
	}
	b.box = b.local.Transform(m)
}

// Detach removes b from the world it was added to.
func (b *Body) Detach() {
	if b.world != nil {
		b.world.Remove(b)
	}
}

// World is the collision world used for ray queries. It has no dynamics;
// movers drive their bodies directly.
type World struct {
	bodies []*Body
}

func NewWorld() *World {
	return &World{}
}

// AddStatic registers an immovable box in world space.
func (w *World) AddStatic(name string, owner int32, box AABB) *Body {
	b := &Body{Name: name, Owner: owner, Static: true, local: box, box: box, world: w}
	w.bodies = append(w.bodies, b)
	return b
}

// AddBody registers a movable box. local is in the owner's model space and
// m places it in the world.
func (w *World) AddBody(name string, owner int32, local AABB, m rl.Matrix) *Body {
	b := &Body{Name: name, Owner: owner, local: local, world: w}
	b.box = local.Transform(m)
	w.bodies = append(w.bodies, b)
	return b
}

// Remove unregisters b. Removing an unknown body is a no-op.
func (w *World) Remove(b *Body) {
	if b == nil || b.world != w {
		return
	}
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	b.world = nil
}

// Clear drops every body.
func (w *World) Clear() {
	for _, b := range w.bodies {
		b.world = nil
	}
	w.bodies = nil
}

func (w *World) BodyCount() int {
	return len(w.bodies)
}

// Overlapping returns the bodies whose boxes intersect box.
func (w *World) Overlapping(box AABB) []*Body {
	var out []*Body
	for _, b := range w.bodies {
		if b.box.Intersects(box) {
			out = append(out, b)
		}
	}
	return out
}
