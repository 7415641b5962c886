package triggers

import (
	"strings"

	"gothic3d/internal/engine"
	"gothic3d/internal/zen"
)

// Trigger is the plain zCTrigger: a volume or a relay that fires its target.
type Trigger struct {
	AbstractTrigger
}

func NewTrigger(world engine.WorldAccess, rec *zen.Record) *Trigger {
	return &Trigger{AbstractTrigger: newAbstract(world, rec, true)}
}

func (t *Trigger) Kind() engine.Kind { return engine.KindTrigger }

func (t *Trigger) OnTrigger(evt engine.TriggerEvent) {
	t.activate(evt.Volume)
}

func (t *Trigger) OnUntrigger(evt engine.TriggerEvent) {
	t.deactivate(evt.Volume)
}

// TriggerScript calls a script function with the trigger bound as self.
type TriggerScript struct {
	AbstractTrigger
	Function string
}

func NewTriggerScript(world engine.WorldAccess, rec *zen.Record) *TriggerScript {
	t := &TriggerScript{AbstractTrigger: newAbstract(world, rec, false)}
	if rec != nil && rec.Script != nil {
		t.Function = rec.Script.Function
	}
	return t
}

func (t *TriggerScript) Kind() engine.Kind { return engine.KindTriggerScript }

func (t *TriggerScript) OnTrigger(evt engine.TriggerEvent) {
	if !t.canActivate() || t.Function == "" || t.world == nil {
		return
	}
	if err := t.world.CallScript(t.Function, t.Name()); err != nil {
		t.Logger.Printf("[script] %s: %s failed: %v", t.Name(), t.Function, err)
	}
}

func (t *TriggerScript) OnUntrigger(evt engine.TriggerEvent) {}

// TriggerWorldStart fires its target when the world starts.
type TriggerWorldStart struct {
	AbstractTrigger
}

func NewTriggerWorldStart(world engine.WorldAccess, rec *zen.Record) *TriggerWorldStart {
	return &TriggerWorldStart{AbstractTrigger: newAbstract(world, rec, false)}
}

func (t *TriggerWorldStart) Kind() engine.Kind { return engine.KindTriggerWorldStart }

// WorldStart is called by the world once loading finished.
func (t *TriggerWorldStart) WorldStart() {
	t.Activate()
}

func (t *TriggerWorldStart) OnTrigger(evt engine.TriggerEvent) {
	t.Activate()
}

func (t *TriggerWorldStart) OnUntrigger(evt engine.TriggerEvent) {}

// ZoneTrigger requests a level change when fired.
type ZoneTrigger struct {
	AbstractTrigger
	Level    string
	StartVob string
}

func NewZoneTrigger(world engine.WorldAccess, rec *zen.Record) *ZoneTrigger {
	t := &ZoneTrigger{AbstractTrigger: newAbstract(world, rec, true)}
	if rec != nil && rec.Zone != nil {
		t.Level = rec.Zone.Level
		t.StartVob = rec.Zone.StartVob
	}
	return t
}

func (t *ZoneTrigger) Kind() engine.Kind { return engine.KindZoneTrigger }

func (t *ZoneTrigger) OnTrigger(evt engine.TriggerEvent) {
	if !t.canActivate() || t.world == nil || t.Level == "" {
		return
	}
	t.world.ChangeLevel(t.Level, t.StartVob)
}

func (t *ZoneTrigger) OnUntrigger(evt engine.TriggerEvent) {}

// MessageFilter rewrites incoming trigger and untrigger events into the
// configured outgoing event types.
type MessageFilter struct {
	AbstractTrigger
	onTrigger   filterAction
	onUntrigger filterAction
}

type filterAction struct {
	typ  engine.EventType
	none bool
}

func parseFilterAction(s string) filterAction {
	switch strings.ToUpper(s) {
	case "TRIGGER", "MT_TRIGGER":
		return filterAction{typ: engine.EvtTrigger}
	case "UNTRIGGER", "MT_UNTRIGGER":
		return filterAction{typ: engine.EvtUntrigger}
	case "ENABLE", "MT_ENABLE":
		return filterAction{typ: engine.EvtEnable}
	case "DISABLE", "MT_DISABLE":
		return filterAction{typ: engine.EvtDisable}
	case "TOGGLE_ENABLED", "MT_TOGGLE_ENABLED", "TOGGLE":
		return filterAction{typ: engine.EvtToggleEnable}
	}
	return filterAction{none: true}
}

func NewMessageFilter(world engine.WorldAccess, rec *zen.Record) *MessageFilter {
	t := &MessageFilter{
		AbstractTrigger: newAbstract(world, rec, false),
		onTrigger:       filterAction{typ: engine.EvtTrigger},
		onUntrigger:     filterAction{typ: engine.EvtUntrigger},
	}
	if rec != nil && rec.MessageFilter != nil {
		t.onTrigger = parseFilterAction(rec.MessageFilter.OnTrigger)
		t.onUntrigger = parseFilterAction(rec.MessageFilter.OnUntrigger)
	}
	return t
}

func (t *MessageFilter) Kind() engine.Kind { return engine.KindMessageFilter }

func (t *MessageFilter) OnTrigger(evt engine.TriggerEvent) {
	t.forward(t.onTrigger)
}

func (t *MessageFilter) OnUntrigger(evt engine.TriggerEvent) {
	t.forward(t.onUntrigger)
}

func (t *MessageFilter) forward(a filterAction) {
	if a.none || !t.enabled {
		return
	}
	t.send(t.Target, a.typ, 0)
}
