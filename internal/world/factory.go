package world

import (
	"log"
	"sync"

	"gothic3d/internal/engine"
	"gothic3d/internal/objects"
	"gothic3d/internal/physics"
	"gothic3d/internal/triggers"
	"gothic3d/internal/zen"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SideTable names a world-level table a record registers into instead of
// producing a node.
type SideTable uint8

const (
	TableNone SideTable = iota
	TableStartPoint
	TableFreePoint
	TableItem
	TableSound
	TableLight
)

// SkipReason explains why a record produces nothing.
type SkipReason uint8

const (
	SkipNone SkipReason = iota
	// SkipUnsupported marks known classes that are deliberately not
	// instantiated. They are dropped without a log line.
	SkipUnsupported
	// SkipUnknown marks classes nothing knows about. They are reported once.
	SkipUnknown
)

// Dispatch is the outcome of classifying a record. Exactly one of the three
// applies: Table != TableNone, Skip != SkipNone, or a node of Kind.
type Dispatch struct {
	Kind  engine.Kind
	Table SideTable
	Skip  SkipReason
}

// ProducesNode reports whether the record becomes a tree node.
func (d Dispatch) ProducesNode() bool {
	return d.Table == TableNone && d.Skip == SkipNone
}

var byTag = map[zen.VobType]Dispatch{
	zen.VTzCVob:           {Kind: engine.KindStaticObj},
	zen.VTzCVobLevelCompo: {Kind: engine.KindNone},
	zen.VToCMobFire:       {Kind: engine.KindStaticObj},
	zen.VToCMOB:           {Kind: engine.KindInteractive},
	zen.VToCMobBed:        {Kind: engine.KindInteractive},
	zen.VToCMobDoor:       {Kind: engine.KindInteractive},
	zen.VToCMobInter:      {Kind: engine.KindInteractive},
	zen.VToCMobContainer:  {Kind: engine.KindInteractive},
	zen.VToCMobSwitch:     {Kind: engine.KindInteractive},
	zen.VToCMobLadder:     {Kind: engine.KindStaticObj},
	zen.VToCMobWheel:      {Kind: engine.KindStaticObj},

	zen.VTzCMover:              {Kind: engine.KindMover},
	zen.VTzCCodeMaster:         {Kind: engine.KindCodeMaster},
	zen.VTzCTriggerList:        {Kind: engine.KindTriggerList},
	zen.VTzCTriggerScript:      {Kind: engine.KindTriggerScript},
	zen.VToCTriggerWorldStart:  {Kind: engine.KindTriggerWorldStart},
	zen.VToCTriggerChangeLevel: {Kind: engine.KindZoneTrigger},
	zen.VTzCTrigger:            {Kind: engine.KindTrigger},
	zen.VTzCMessageFilter:      {Kind: engine.KindMessageFilter},

	zen.VTzCVobStartpoint:    {Table: TableStartPoint},
	zen.VTzCVobSpot:          {Table: TableFreePoint},
	zen.VToCItem:             {Table: TableItem},
	zen.VTzCVobSound:         {Table: TableSound},
	zen.VTzCVobSoundDaytime:  {Table: TableSound},
	zen.VToCZoneMusic:        {Table: TableSound},
	zen.VToCZoneMusicDefault: {Table: TableSound},
	zen.VTzCVobLight:         {Table: TableLight},
}

var byClass = map[string]Dispatch{
	"zCVobAnimate:zCVob":   {Kind: engine.KindStaticObj},
	"zCPFXControler:zCVob": {Kind: engine.KindStaticObj},

	"oCTouchDamage:zCTouchDamage:zCVob": {Skip: SkipUnsupported},

	"zCVobLensFlare:zCVob":                             {Skip: SkipUnsupported},
	"zCZoneVobFarPlane:zCVob":                          {Skip: SkipUnsupported},
	"zCZoneVobFarPlaneDefault:zCZoneVobFarPlane:zCVob": {Skip: SkipUnsupported},
	"zCZoneZFog:zCVob":                                 {Skip: SkipUnsupported},
	"zCZoneZFogDefault:zCZoneZFog:zCVob":               {Skip: SkipUnsupported},
}

// Classify maps a record's type tag, and for unmapped tags its class name,
// to what the factory builds.
func Classify(tag zen.VobType, class string) Dispatch {
	if d, ok := byTag[tag]; ok {
		return d
	}
	if d, ok := byClass[class]; ok {
		return d
	}
	return Dispatch{Skip: SkipUnknown}
}

// ClassReporter logs each unknown class name once.
type ClassReporter struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	Logger *log.Logger
}

func NewClassReporter(logger *log.Logger) *ClassReporter {
	if logger == nil {
		logger = log.Default()
	}
	return &ClassReporter{seen: make(map[string]struct{}), Logger: logger}
}

// DefaultReporter is shared by every factory that does not set its own, so
// a class is reported once per process.
var DefaultReporter = NewClassReporter(nil)

// Report logs class unless it was reported before. It returns true when a
// line was written.
func (r *ClassReporter) Report(class string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[class]; ok {
		return false
	}
	r.seen[class] = struct{}{}
	r.Logger.Printf("[vob] unknown vob class %s", class)
	return true
}

// Factory turns archive records into tree nodes for one world.
type Factory struct {
	world    *World
	Reporter *ClassReporter
}

func NewFactory(w *World) *Factory {
	return &Factory{world: w, Reporter: DefaultReporter}
}

// Load instantiates rec under parent and returns the new node, or NoVob when
// the record produced none. Children are dispatched into the new node; the
// children of a record that produced no node are dropped. rec.Children is
// cleared.
func (f *Factory) Load(parent engine.VobID, rec *zen.Record, startup bool) engine.VobID {
	if rec == nil {
		return engine.NoVob
	}
	d := Classify(rec.Type, rec.Class)

	id := engine.NoVob
	switch {
	case d.ProducesNode():
		id = f.instantiate(parent, rec, d.Kind)
	case d.Table != TableNone:
		f.register(rec, d.Table, startup)
	case d.Skip == SkipUnknown:
		f.Reporter.Report(rec.Class)
	}

	if id != engine.NoVob {
		for _, c := range rec.Children {
			f.Load(id, c, startup)
		}
	}
	rec.Children = nil
	return id
}

func (f *Factory) instantiate(parent engine.VobID, rec *zen.Record, kind engine.Kind) engine.VobID {
	w := f.world
	tree := w.tree
	world := rec.WorldMatrix()
	id := tree.Add(parent, engine.Spec{Name: rec.Name, Class: rec.Class, Kind: kind, World: world})

	var b engine.Behavior
	switch kind {
	case engine.KindStaticObj:
		b = objects.NewStaticObj(rec, w.physic)
	case engine.KindInteractive:
		b = objects.NewInteractive(rec, w.physic)
	case engine.KindMover:
		b = triggers.NewMover(w, rec, f.moverBody(rec, id))
	case engine.KindCodeMaster:
		b = triggers.NewCodeMaster(w, rec)
	case engine.KindTriggerList:
		b = triggers.NewTriggerList(w, rec)
	case engine.KindTriggerScript:
		b = triggers.NewTriggerScript(w, rec)
	case engine.KindTriggerWorldStart:
		b = triggers.NewTriggerWorldStart(w, rec)
	case engine.KindZoneTrigger:
		b = triggers.NewZoneTrigger(w, rec)
	case engine.KindTrigger:
		b = triggers.NewTrigger(w, rec)
	case engine.KindMessageFilter:
		b = triggers.NewMessageFilter(w, rec)
	}
	if b != nil {
		tree.SetBehavior(id, b)
	}
	if l, ok := b.(loggerSetter); ok {
		l.SetLogger(w.Logger)
	}
	return id
}

type loggerSetter interface {
	SetLogger(l *log.Logger)
}

// moverBody registers the mover's bounds as a dynamic body. The bbox is in
// world space, the body keeps it relative to the node.
func (f *Factory) moverBody(rec *zen.Record, id engine.VobID) *physics.Body {
	if rec.BBox == nil || f.world.physic == nil {
		return nil
	}
	lo, hi := rec.Bounds()
	world := f.world.tree.Transform(id)
	local := physics.NewAABB(lo, hi).Transform(rl.MatrixInvert(world))
	return f.world.physic.AddBody(rec.Name, int32(id), local, world)
}

func (f *Factory) register(rec *zen.Record, table SideTable, startup bool) {
	w := f.world
	switch table {
	case TableStartPoint:
		w.AddStartPoint(rec)
	case TableFreePoint:
		w.AddFreePoint(rec)
	case TableItem:
		if startup {
			w.AddItem(rec)
		}
	case TableSound:
		w.AddSound(rec)
	case TableLight:
		w.AddLight(rec)
	}
}
