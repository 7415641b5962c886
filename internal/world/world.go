package world

import (
	"errors"
	"fmt"
	"log"

	"gothic3d/internal/engine"
	"gothic3d/internal/physics"
	"gothic3d/internal/zen"
)

// ErrNoScripts is returned by CallScript when no script host is attached.
var ErrNoScripts = errors.New("world: no script host")

// ScriptRunner executes level script functions.
type ScriptRunner interface {
	Call(fn, self string) error
}

// LevelChange is a pending switch to another level.
type LevelChange struct {
	Level    string
	StartVob string
}

// enabler is implemented by triggers that can be switched on and off.
type enabler interface {
	SetEnabled(on bool)
	IsEnabled() bool
}

// worldStarter is implemented by triggers that fire once on world start.
type worldStarter interface {
	WorldStart()
}

// World owns the vob tree of one level and the state around it: physics,
// side tables, the player and the trigger event queue.
type World struct {
	Name   string
	Logger *log.Logger

	tree    *engine.Tree
	physic  *physics.World
	factory *Factory
	scripts ScriptRunner
	fx      *GlobalFx
	player  *Player
	index   vobIndex

	startPoints []Point
	freePoints  []Point
	items       []Item
	sounds      []Sound
	lights      []Light

	queue     []engine.TriggerEvent
	inside    map[engine.VobID]bool
	tickCount uint64
	paused    bool
	started   bool
	pending   *LevelChange

	// OnTrigger fires for every routed event, before delivery.
	OnTrigger engine.EventWithArg[engine.TriggerEvent]
}

// New creates an empty world.
func New(name string) *World {
	w := &World{
		Name:   name,
		Logger: log.Default(),
		physic: physics.NewWorld(),
		fx:     NewGlobalFx(),
		inside: make(map[engine.VobID]bool),
	}
	w.tree = engine.NewTree(w)
	w.factory = NewFactory(w)
	w.index.dirty = true
	return w
}

// Load instantiates every record of a level archive.
func (w *World) Load(a *zen.Archive) {
	if a.Name != "" {
		w.Name = a.Name
	}
	for _, rec := range a.Vobs {
		w.factory.Load(engine.NoVob, rec, true)
	}
	w.Logger.Printf("[world] %s: %d vobs, %d start points, %d items", w.Name, w.tree.Len(), len(w.startPoints), len(w.items))
}

// LoadFile reads and instantiates a level archive from disk.
func LoadFile(path string) (*World, error) {
	a, err := zen.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	w := New(a.Name)
	w.Load(a)
	return w, nil
}

// AddVob instantiates rec under parent after the world was loaded. Items
// are not registered.
func (w *World) AddVob(parent engine.VobID, rec *zen.Record) engine.VobID {
	return w.factory.Load(parent, rec, false)
}

// Factory returns the record factory of this world.
func (w *World) Factory() *Factory { return w.factory }

func (w *World) Tree() *engine.Tree { return w.tree }

func (w *World) Physic() *physics.World { return w.physic }

func (w *World) GlobalFx() *GlobalFx { return w.fx }

// Player returns the controlled pawn, nil before SpawnPlayer.
func (w *World) Player() *Player { return w.player }

func (w *World) SetScripts(s ScriptRunner) { w.scripts = s }

func (w *World) InvalidateVobIndex() {
	w.index.dirty = true
}

func (w *World) TickCount() uint64 { return w.tickCount }

func (w *World) Pause(p bool) { w.paused = p }

func (w *World) IsPaused() bool { return w.paused }

// TriggerEvent queues evt. Queued events are delivered on the next Tick;
// events raised while delivering wait for the frame after.
func (w *World) TriggerEvent(evt engine.TriggerEvent) {
	w.queue = append(w.queue, evt)
}

// CallScript runs fn on the attached script host.
func (w *World) CallScript(fn, self string) error {
	if w.scripts == nil {
		return ErrNoScripts
	}
	return w.scripts.Call(fn, self)
}

// ChangeLevel records a level switch. The last request of a frame wins.
func (w *World) ChangeLevel(level, startVob string) {
	w.Logger.Printf("[world] change level to %s (%s)", level, startVob)
	w.pending = &LevelChange{Level: level, StartVob: startVob}
}

// TakeLevelChange returns and clears the pending level switch.
func (w *World) TakeLevelChange() (LevelChange, bool) {
	if w.pending == nil {
		return LevelChange{}, false
	}
	lc := *w.pending
	w.pending = nil
	return lc, true
}

// Start fires the world start triggers and delivers what they raise.
func (w *World) Start() {
	if w.started {
		return
	}
	w.started = true
	for _, id := range w.tree.FindByKind(engine.KindTriggerWorldStart) {
		if s, ok := w.tree.Get(id).Behavior().(worldStarter); ok {
			s.WorldStart()
		}
	}
	w.drain()
}

// Tick advances the world by dt milliseconds.
func (w *World) Tick(dt uint64) {
	if w.paused {
		return
	}
	w.tickCount += dt
	w.checkVolumes()
	w.drain()

	var tickers []engine.Ticker
	w.tree.Walk(func(v *engine.Vob) bool {
		if t, ok := v.Behavior().(engine.Ticker); ok {
			tickers = append(tickers, t)
		}
		return true
	})
	for _, t := range tickers {
		t.Tick(dt)
	}
	w.fx.Tick(dt)
}

func (w *World) drain() {
	if len(w.queue) == 0 {
		return
	}
	q := w.queue
	w.queue = nil
	for _, evt := range q {
		w.deliver(evt)
	}
}

// deliver hands evt to every trigger named evt.Target.
func (w *World) deliver(evt engine.TriggerEvent) {
	w.OnTrigger.Invoke(evt)
	n := 0
	for _, id := range w.tree.FindByName(evt.Target) {
		v := w.tree.Get(id)
		if v == nil || !v.Kind.IsTrigger() {
			continue
		}
		if dispatchEvent(v.Behavior(), evt) {
			n++
		}
	}
	if n == 0 {
		w.Logger.Printf("[trigger] %s: no target %q for %s", evt.Emitter, evt.Target, evt.Type)
	}
}

func dispatchEvent(b engine.Behavior, evt engine.TriggerEvent) bool {
	switch evt.Type {
	case engine.EvtTrigger, engine.EvtUntrigger:
		t, ok := b.(engine.Triggerable)
		if !ok {
			return false
		}
		if evt.Type == engine.EvtTrigger {
			t.OnTrigger(evt)
		} else {
			t.OnUntrigger(evt)
		}
	case engine.EvtEnable, engine.EvtDisable, engine.EvtToggleEnable:
		e, ok := b.(enabler)
		if !ok {
			return false
		}
		switch evt.Type {
		case engine.EvtEnable:
			e.SetEnabled(true)
		case engine.EvtDisable:
			e.SetEnabled(false)
		default:
			e.SetEnabled(!e.IsEnabled())
		}
	default:
		return false
	}
	return true
}

// checkVolumes sends a volume trigger to every trigger the player entered
// and a volume untrigger to every one it left.
func (w *World) checkVolumes() {
	if w.player == nil {
		return
	}
	pos := w.player.Position()
	w.tree.Walk(func(v *engine.Vob) bool {
		vp, ok := v.Behavior().(engine.VolumeProvider)
		if !ok || !vp.HasVolume() {
			return true
		}
		lo, hi := vp.Bounds()
		in := physics.NewAABB(lo, hi).Contains(pos)
		if in == w.inside[v.ID()] {
			return true
		}
		w.inside[v.ID()] = in
		t, ok := v.Behavior().(engine.Triggerable)
		if !ok {
			return true
		}
		evt := engine.TriggerEvent{Target: v.Name, Emitter: playerName, Volume: true}
		if in {
			evt.Type = engine.EvtTrigger
			t.OnTrigger(evt)
		} else {
			evt.Type = engine.EvtUntrigger
			t.OnUntrigger(evt)
		}
		return true
	})
}

// Close releases every vob and physics body.
func (w *World) Close() {
	w.tree.Clear()
	w.physic.Clear()
	w.queue = nil
	clear(w.inside)
}
