package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type releaseProbe struct {
	BaseBehavior
	released bool
}

func (r *releaseProbe) Kind() Kind { return KindMover }

func (r *releaseProbe) Release() { r.released = true }

func TestTreeDeclarationOrder(t *testing.T) {
	tree := NewTree(nil)
	root := tree.Add(NoVob, Spec{Name: "Root", World: rl.MatrixIdentity()})
	a := tree.Add(root, Spec{Name: "A", World: rl.MatrixIdentity()})
	tree.Add(root, Spec{Name: "B", World: rl.MatrixIdentity()})
	tree.Add(a, Spec{Name: "A1", World: rl.MatrixIdentity()})

	var order []string
	tree.Walk(func(v *Vob) bool {
		order = append(order, v.Name)
		return true
	})

	want := []string{"Root", "A", "A1", "B"}
	if len(order) != len(want) {
		t.Fatalf("Expected %d nodes, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Walk order[%d] = %s, want %s", i, order[i], want[i])
		}
	}

	if tree.Len() != 4 {
		t.Errorf("Expected 4 nodes, got %d", tree.Len())
	}
}

func TestTreeFindByName(t *testing.T) {
	tree := NewTree(nil)
	root := tree.Add(NoVob, Spec{Name: "DOOR", World: rl.MatrixIdentity()})
	tree.Add(root, Spec{Name: "DOOR", World: rl.MatrixIdentity()})
	tree.Add(root, Spec{Name: "LEVER", World: rl.MatrixIdentity()})

	if got := len(tree.FindByName("DOOR")); got != 2 {
		t.Errorf("Expected 2 matches, got %d", got)
	}
	if got := len(tree.FindByName("NOPE")); got != 0 {
		t.Errorf("Expected no matches, got %d", got)
	}
}

func TestSetBehaviorSetsKind(t *testing.T) {
	tree := NewTree(nil)
	id := tree.Add(NoVob, Spec{Name: "M", World: rl.MatrixIdentity()})
	probe := &releaseProbe{}

	tree.SetBehavior(id, probe)

	if tree.Get(id).Kind != KindMover {
		t.Errorf("Expected kind Mover, got %s", tree.Get(id).Kind)
	}
	if probe.VobID() != id || probe.Name() != "M" {
		t.Error("behavior not attached to its node")
	}
	if got := tree.FindByKind(KindMover); len(got) != 1 || got[0] != id {
		t.Errorf("FindByKind returned %v", got)
	}
}

func TestRemoveReleasesSubtree(t *testing.T) {
	idx := &countingIndex{}
	tree := NewTree(idx)
	root := tree.Add(NoVob, Spec{Name: "Root", World: rl.MatrixIdentity()})
	child := tree.Add(root, Spec{Name: "Child", World: rl.MatrixIdentity()})
	grandchild := tree.Add(child, Spec{Name: "Grandchild", World: rl.MatrixIdentity()})

	probe := &releaseProbe{}
	tree.SetBehavior(grandchild, probe)

	tree.Remove(child)

	if !probe.released {
		t.Error("behavior in removed subtree should be released")
	}
	if tree.Get(child) != nil || tree.Get(grandchild) != nil {
		t.Error("removed nodes should not resolve")
	}
	if len(tree.Children(root)) != 0 {
		t.Error("removed child still listed under parent")
	}
	if tree.Len() != 1 {
		t.Errorf("Expected 1 live node, got %d", tree.Len())
	}
	if idx.invalidations != 1 {
		t.Errorf("Expected index invalidation on removal, got %d", idx.invalidations)
	}
}

func TestClear(t *testing.T) {
	tree := NewTree(nil)
	root := tree.Add(NoVob, Spec{World: rl.MatrixIdentity()})
	probe := &releaseProbe{}
	tree.SetBehavior(root, probe)

	tree.Clear()

	if tree.Len() != 0 || len(tree.Roots()) != 0 {
		t.Error("tree should be empty after Clear")
	}
	if !probe.released {
		t.Error("Clear should release behaviors")
	}
}

func TestEventWithArg(t *testing.T) {
	var ev EventWithArg[TriggerEvent]
	var got []string
	ev.AddListener(func(e TriggerEvent) { got = append(got, e.Target) })
	ev.AddListener(nil)

	ev.Invoke(TriggerEvent{Target: "GATE"})

	if ev.ListenerCount() != 1 {
		t.Errorf("nil listener should be ignored, got %d listeners", ev.ListenerCount())
	}
	if len(got) != 1 || got[0] != "GATE" {
		t.Errorf("unexpected deliveries %v", got)
	}
}
