package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// VobID is a stable handle into a Tree.
type VobID int32

// NoVob is the handle of "no node" (root parent, failed lookups).
const NoVob VobID = -1

// Vob is one placed world object. Transforms and links are owned by the Tree.
type Vob struct {
	Name  string
	Class string
	Kind  Kind

	id       VobID
	alive    bool
	parent   VobID
	children []VobID
	local    rl.Matrix
	world    rl.Matrix
	behavior Behavior
}

// ID returns the node's handle.
func (v *Vob) ID() VobID {
	return v.id
}

// Behavior returns the attached variant behavior, or nil for plain nodes.
func (v *Vob) Behavior() Behavior {
	return v.behavior
}

// Spec describes a node to construct.
type Spec struct {
	Name  string
	Class string
	Kind  Kind
	World rl.Matrix
}

// compose returns parent*local in column-vector notation.
// raylib's MatrixMultiply(a, b) applies a first, then b.
func compose(parent, local rl.Matrix) rl.Matrix {
	return rl.MatrixMultiply(local, parent)
}

func translation(m rl.Matrix) rl.Vector3 {
	return rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
}

// Position returns the node's world position.
func (t *Tree) Position(id VobID) rl.Vector3 {
	return translation(t.vobs[id].world)
}

// Transform returns the cached world transform.
func (t *Tree) Transform(id VobID) rl.Matrix {
	return t.vobs[id].world
}

// LocalTransform returns the transform relative to the parent.
func (t *Tree) LocalTransform(id VobID) rl.Matrix {
	return t.vobs[id].local
}

// SetGlobalTransform sets the world transform directly and derives the local
// one from it. Children are not refreshed; call RecalculateTransform for that.
func (t *Tree) SetGlobalTransform(id VobID, m rl.Matrix) {
	v := &t.vobs[id]
	v.world = m
	v.local = t.localFrom(v.parent, m)
}

// SetLocalTransform sets the transform relative to the parent and refreshes
// the subtree.
func (t *Tree) SetLocalTransform(id VobID, m rl.Matrix) {
	t.vobs[id].local = m
	t.RecalculateTransform(id)
}

// RecalculateTransform rebuilds the world transform of id and of every node
// below it. The index is invalidated only when id's position moved.
func (t *Tree) RecalculateTransform(id VobID) {
	v := &t.vobs[id]
	old := translation(v.world)
	if v.parent != NoVob {
		v.world = compose(t.vobs[v.parent].world, v.local)
	} else {
		v.world = v.local
	}
	if old != translation(v.world) && t.index != nil {
		t.index.InvalidateVobIndex()
	}
	if h, ok := v.behavior.(MoveHandler); ok {
		h.MoveEvent()
	}
	// children may have been appended while the hook ran; re-read the slot
	for _, c := range t.vobs[id].children {
		t.RecalculateTransform(c)
	}
}

func (t *Tree) localFrom(parent VobID, world rl.Matrix) rl.Matrix {
	if parent == NoVob {
		return world
	}
	inv := rl.MatrixInvert(t.vobs[parent].world)
	return compose(inv, world)
}
