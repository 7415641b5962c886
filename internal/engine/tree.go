package engine

// IndexInvalidator is notified when a node's world position changes.
type IndexInvalidator interface {
	InvalidateVobIndex()
}

// Tree owns every Vob of a world. Nodes are addressed by VobID; a node's
// children die with it.
type Tree struct {
	vobs  []Vob
	roots []VobID
	index IndexInvalidator
}

func NewTree(index IndexInvalidator) *Tree {
	return &Tree{
		vobs:  make([]Vob, 0),
		roots: make([]VobID, 0),
		index: index,
	}
}

// Add creates a node under parent (NoVob for a root) from a world matrix.
func (t *Tree) Add(parent VobID, s Spec) VobID {
	id := VobID(len(t.vobs))
	t.vobs = append(t.vobs, Vob{
		Name:   s.Name,
		Class:  s.Class,
		Kind:   s.Kind,
		id:     id,
		alive:  true,
		parent: parent,
		world:  s.World,
		local:  t.localFrom(parent, s.World),
	})
	if parent == NoVob {
		t.roots = append(t.roots, id)
	} else {
		t.vobs[parent].children = append(t.vobs[parent].children, id)
	}
	return id
}

// Get returns the node for id, or nil if id is out of range or removed.
func (t *Tree) Get(id VobID) *Vob {
	if id < 0 || int(id) >= len(t.vobs) || !t.vobs[id].alive {
		return nil
	}
	return &t.vobs[id]
}

// SetBehavior attaches b to id, replacing any previous behavior.
func (t *Tree) SetBehavior(id VobID, b Behavior) {
	v := &t.vobs[id]
	v.behavior = b
	if b != nil {
		v.Kind = b.Kind()
		b.attach(t, id)
	}
}

func (t *Tree) Parent(id VobID) VobID {
	return t.vobs[id].parent
}

func (t *Tree) Children(id VobID) []VobID {
	return t.vobs[id].children
}

func (t *Tree) Roots() []VobID {
	return t.roots
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	n := 0
	for i := range t.vobs {
		if t.vobs[i].alive {
			n++
		}
	}
	return n
}

// Walk visits live nodes depth-first in declaration order until fn returns false.
func (t *Tree) Walk(fn func(v *Vob) bool) {
	for _, r := range t.roots {
		if !t.walk(r, fn) {
			return
		}
	}
}

func (t *Tree) walk(id VobID, fn func(v *Vob) bool) bool {
	if !fn(&t.vobs[id]) {
		return false
	}
	for _, c := range t.vobs[id].children {
		if !t.walk(c, fn) {
			return false
		}
	}
	return true
}

func (t *Tree) FindByName(name string) []VobID {
	var result []VobID
	t.Walk(func(v *Vob) bool {
		if v.Name == name {
			result = append(result, v.id)
		}
		return true
	})
	return result
}

func (t *Tree) FindByKind(kind Kind) []VobID {
	var result []VobID
	t.Walk(func(v *Vob) bool {
		if v.Kind == kind {
			result = append(result, v.id)
		}
		return true
	})
	return result
}

// Remove detaches id from its parent and destroys its subtree.
func (t *Tree) Remove(id VobID) {
	v := t.Get(id)
	if v == nil {
		return
	}
	if v.parent == NoVob {
		t.roots = removeID(t.roots, id)
	} else {
		p := &t.vobs[v.parent]
		p.children = removeID(p.children, id)
	}
	t.destroy(id)
	if t.index != nil {
		t.index.InvalidateVobIndex()
	}
}

func (t *Tree) destroy(id VobID) {
	v := &t.vobs[id]
	for _, c := range v.children {
		t.destroy(c)
	}
	if r, ok := v.behavior.(Releaser); ok {
		r.Release()
	}
	v.alive = false
	v.behavior = nil
	v.children = nil
}

// Clear tears the whole tree down.
func (t *Tree) Clear() {
	for _, r := range t.roots {
		t.destroy(r)
	}
	t.vobs = t.vobs[:0]
	t.roots = t.roots[:0]
	if t.index != nil {
		t.index.InvalidateVobIndex()
	}
}

func removeID(ids []VobID, id VobID) []VobID {
	for i, c := range ids {
		if c == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
