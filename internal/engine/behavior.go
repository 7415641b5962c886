package engine

import (
	"gothic3d/internal/savegame"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Kind tags the closed set of runtime variants a Vob can take.
type Kind uint8

const (
	KindNone Kind = iota
	KindStaticObj
	KindInteractive
	KindMover
	KindCodeMaster
	KindTriggerList
	KindTriggerScript
	KindTriggerWorldStart
	KindZoneTrigger
	KindTrigger
	KindMessageFilter
)

var kindNames = [...]string{
	KindNone:              "None",
	KindStaticObj:         "StaticObj",
	KindInteractive:       "Interactive",
	KindMover:             "Mover",
	KindCodeMaster:        "CodeMaster",
	KindTriggerList:       "TriggerList",
	KindTriggerScript:     "TriggerScript",
	KindTriggerWorldStart: "TriggerWorldStart",
	KindZoneTrigger:       "ZoneTrigger",
	KindTrigger:           "Trigger",
	KindMessageFilter:     "MessageFilter",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTrigger reports whether the kind receives trigger events by name.
func (k Kind) IsTrigger() bool {
	return k >= KindMover
}

// Behavior is the variant payload attached to a Vob. The set is closed:
// implementations must embed BaseBehavior.
type Behavior interface {
	Kind() Kind
	attach(t *Tree, id VobID)
}

// MoveHandler is implemented by behaviors that keep a proxy (physics body,
// visual) in sync with the node's world transform.
type MoveHandler interface {
	MoveEvent()
}

// Ticker is implemented by behaviors that advance every frame. dt is in milliseconds.
type Ticker interface {
	Tick(dt uint64)
}

// Triggerable is implemented by behaviors that react to trigger events.
type Triggerable interface {
	OnTrigger(evt TriggerEvent)
	OnUntrigger(evt TriggerEvent)
}

// Releaser is implemented by behaviors that own resources outside the tree.
type Releaser interface {
	Release()
}

// VolumeProvider is implemented by triggers that fire when the player enters
// their bounds. The world sends them a Volume trigger on entry and a Volume
// untrigger on exit.
type VolumeProvider interface {
	HasVolume() bool
	Bounds() (min, max rl.Vector3)
}

// Saver is implemented by behaviors with state that survives a save game.
type Saver interface {
	Save(w *savegame.Writer) error
	Load(r *savegame.Reader) error
}

// BaseBehavior provides the tree link shared by all variants.
type BaseBehavior struct {
	tree *Tree
	id   VobID
}

func (b *BaseBehavior) attach(t *Tree, id VobID) {
	b.tree = t
	b.id = id
}

// Tree returns the owning tree, nil before attachment.
func (b *BaseBehavior) Tree() *Tree {
	return b.tree
}

// VobID returns the node this behavior is attached to.
func (b *BaseBehavior) VobID() VobID {
	if b.tree == nil {
		return NoVob
	}
	return b.id
}

// Vob returns the owning node.
func (b *BaseBehavior) Vob() *Vob {
	if b.tree == nil {
		return nil
	}
	return b.tree.Get(b.id)
}

// Name returns the owning node's name.
func (b *BaseBehavior) Name() string {
	if v := b.Vob(); v != nil {
		return v.Name
	}
	return ""
}
