package triggers

import (
	"log"

	"gothic3d/internal/engine"
	"gothic3d/internal/savegame"
	"gothic3d/internal/zen"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// volumeSaveVersion is the first stream version that stores the volume flag
// of delayed events.
const volumeSaveVersion = 10

type pendingEvent struct {
	at  uint64
	evt engine.TriggerEvent
}

// AbstractTrigger holds what every trigger variant shares: the target it
// fires, the enable flag, the activation counter and delayed events.
type AbstractTrigger struct {
	engine.BaseBehavior

	world  engine.WorldAccess
	Logger *log.Logger

	Target          string
	maxActivations  int
	fireDelay       uint64
	reactToPlayer   bool
	untriggerTarget bool

	enabled bool
	count   int

	hasBox  bool
	boxMin  rl.Vector3
	boxMax  rl.Vector3
	clock   uint64
	pending []pendingEvent
}

func newAbstract(world engine.WorldAccess, rec *zen.Record, reactDefault bool) AbstractTrigger {
	t := AbstractTrigger{
		world:         world,
		Logger:        log.Default(),
		enabled:       true,
		reactToPlayer: reactDefault,
	}
	if rec == nil {
		return t
	}
	if d := rec.Trigger; d != nil {
		t.Target = d.Target
		t.maxActivations = d.MaxActivations
		if d.FireOnlyOnce {
			t.maxActivations = 1
		}
		t.fireDelay = uint64(d.FireDelay * 1000)
		if d.StartEnabled != nil {
			t.enabled = *d.StartEnabled
		}
		if d.ReactToPlayer != nil {
			t.reactToPlayer = *d.ReactToPlayer
		}
		t.untriggerTarget = d.UntriggerTarget
	}
	if rec.BBox != nil {
		t.hasBox = true
		t.boxMin, t.boxMax = rec.Bounds()
	}
	return t
}

// SetLogger routes the trigger's diagnostics to l.
func (t *AbstractTrigger) SetLogger(l *log.Logger) {
	if l != nil {
		t.Logger = l
	}
}

// IsEnabled reports whether the trigger accepts events.
func (t *AbstractTrigger) IsEnabled() bool {
	return t.enabled
}

func (t *AbstractTrigger) SetEnabled(e bool) {
	t.enabled = e
}

// Activations is the number of times the trigger fired.
func (t *AbstractTrigger) Activations() int {
	return t.count
}

// HasVolume reports whether the player entering the bounds fires the trigger.
func (t *AbstractTrigger) HasVolume() bool {
	return t.hasBox && t.reactToPlayer
}

func (t *AbstractTrigger) Bounds() (rl.Vector3, rl.Vector3) {
	return t.boxMin, t.boxMax
}

// canActivate consumes one activation when the trigger is enabled and has
// activations left.
func (t *AbstractTrigger) canActivate() bool {
	if !t.enabled {
		return false
	}
	if t.maxActivations > 0 && t.count >= t.maxActivations {
		return false
	}
	t.count++
	return true
}

// Activate fires the target, honoring the fire delay.
func (t *AbstractTrigger) Activate() {
	t.activate(false)
}

// Deactivate sends untrigger to the target when configured to.
func (t *AbstractTrigger) Deactivate() {
	t.deactivate(false)
}

// activate and deactivate mark the outgoing event as a volume event when the
// player's enter or leave caused it.
func (t *AbstractTrigger) activate(volume bool) {
	if !t.canActivate() {
		return
	}
	t.sendEvent(engine.TriggerEvent{Target: t.Target, Type: engine.EvtTrigger, Volume: volume}, t.fireDelay)
}

func (t *AbstractTrigger) deactivate(volume bool) {
	if !t.enabled || !t.untriggerTarget {
		return
	}
	t.sendEvent(engine.TriggerEvent{Target: t.Target, Type: engine.EvtUntrigger, Volume: volume}, t.fireDelay)
}

func (t *AbstractTrigger) send(target string, typ engine.EventType, delay uint64) {
	t.sendEvent(engine.TriggerEvent{Target: target, Type: typ}, delay)
}

func (t *AbstractTrigger) sendEvent(evt engine.TriggerEvent, delay uint64) {
	if evt.Target == "" || t.world == nil {
		return
	}
	evt.Emitter = t.Name()
	if delay == 0 {
		t.world.TriggerEvent(evt)
		return
	}
	t.pending = append(t.pending, pendingEvent{at: t.clock + delay, evt: evt})
}

// tickPending advances the trigger clock and flushes due events in order.
func (t *AbstractTrigger) tickPending(dt uint64) {
	t.clock += dt
	if len(t.pending) == 0 {
		return
	}
	keep := t.pending[:0]
	var due []engine.TriggerEvent
	for _, p := range t.pending {
		if p.at <= t.clock {
			due = append(due, p.evt)
		} else {
			keep = append(keep, p)
		}
	}
	t.pending = keep
	for _, evt := range due {
		t.world.TriggerEvent(evt)
	}
}

func (t *AbstractTrigger) Tick(dt uint64) {
	t.tickPending(dt)
}

func (t *AbstractTrigger) Save(w *savegame.Writer) error {
	w.Write(t.enabled, int32(t.count), t.clock, uint32(len(t.pending)))
	for _, p := range t.pending {
		w.Write(p.at, p.evt.Target, p.evt.Emitter, uint8(p.evt.Type), p.evt.Volume)
	}
	return w.Err()
}

func (t *AbstractTrigger) Load(r *savegame.Reader) error {
	var count int32
	var n uint32
	r.Read(&t.enabled, &count, &t.clock, &n)
	t.count = int(count)
	t.pending = t.pending[:0]
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		var p pendingEvent
		var typ uint8
		r.Read(&p.at, &p.evt.Target, &p.evt.Emitter, &typ)
		if r.Version() >= volumeSaveVersion {
			r.Read(&p.evt.Volume)
		}
		p.evt.Type = engine.EventType(typ)
		t.pending = append(t.pending, p)
	}
	return r.Err()
}
