package triggers

import (
	"strings"

	"gothic3d/internal/engine"
	"gothic3d/internal/savegame"
	"gothic3d/internal/zen"
)

// ListProcess selects how a TriggerList walks its targets.
type ListProcess uint8

const (
	// ListAll fires every target, each after its own delay.
	ListAll ListProcess = iota
	// ListNextAfter fires one target per activation, in order, wrapping around.
	ListNextAfter
)

func parseListProcess(s string) ListProcess {
	switch strings.ToUpper(s) {
	case "NEXT_AFTER", "LP_NEXT_AFTER", "NEXTAFTER":
		return ListNextAfter
	}
	return ListAll
}

type listTarget struct {
	name  string
	delay uint64
}

// TriggerList fires a list of targets.
type TriggerList struct {
	AbstractTrigger
	process ListProcess
	targets []listTarget
	next    int
}

func NewTriggerList(world engine.WorldAccess, rec *zen.Record) *TriggerList {
	t := &TriggerList{AbstractTrigger: newAbstract(world, rec, false)}
	if rec != nil && rec.TriggerList != nil {
		t.process = parseListProcess(rec.TriggerList.Process)
		for _, lt := range rec.TriggerList.Targets {
			t.targets = append(t.targets, listTarget{name: lt.Name, delay: uint64(lt.Delay * 1000)})
		}
	}
	return t
}

func (t *TriggerList) Kind() engine.Kind { return engine.KindTriggerList }

func (t *TriggerList) Process() ListProcess { return t.process }

func (t *TriggerList) OnTrigger(evt engine.TriggerEvent) {
	if len(t.targets) == 0 || !t.canActivate() {
		return
	}
	switch t.process {
	case ListNextAfter:
		lt := t.targets[t.next]
		t.next = (t.next + 1) % len(t.targets)
		t.send(lt.name, engine.EvtTrigger, lt.delay)
	default:
		var delay uint64
		for _, lt := range t.targets {
			delay += lt.delay
			t.send(lt.name, engine.EvtTrigger, delay)
		}
	}
}

func (t *TriggerList) OnUntrigger(evt engine.TriggerEvent) {
	if !t.enabled || !t.untriggerTarget {
		return
	}
	for _, lt := range t.targets {
		t.send(lt.name, engine.EvtUntrigger, 0)
	}
}

func (t *TriggerList) Save(w *savegame.Writer) error {
	if err := t.AbstractTrigger.Save(w); err != nil {
		return err
	}
	return w.Write(int32(t.next))
}

func (t *TriggerList) Load(r *savegame.Reader) error {
	if err := t.AbstractTrigger.Load(r); err != nil {
		return err
	}
	var next int32
	if err := r.Read(&next); err != nil {
		return err
	}
	if int(next) < len(t.targets) && next >= 0 {
		t.next = int(next)
	}
	return nil
}

// CodeMaster fires its target once every slave has triggered it. In ordered
// mode a slave out of sequence resets the progress and fires the failure
// target instead.
type CodeMaster struct {
	AbstractTrigger
	slaves          []string
	ordered         bool
	failureTarget   string
	untriggerCancel bool
	fired           []bool
}

func NewCodeMaster(world engine.WorldAccess, rec *zen.Record) *CodeMaster {
	t := &CodeMaster{AbstractTrigger: newAbstract(world, rec, false)}
	if rec != nil && rec.CodeMaster != nil {
		d := rec.CodeMaster
		t.slaves = append(t.slaves, d.Slaves...)
		t.ordered = d.Ordered
		t.failureTarget = d.FailureTarget
		t.untriggerCancel = d.UntriggerCancel
	}
	t.fired = make([]bool, len(t.slaves))
	return t
}

func (t *CodeMaster) Kind() engine.Kind { return engine.KindCodeMaster }

// Progress returns how many slaves have reported.
func (t *CodeMaster) Progress() int {
	n := 0
	for _, f := range t.fired {
		if f {
			n++
		}
	}
	return n
}

func (t *CodeMaster) reset() {
	for i := range t.fired {
		t.fired[i] = false
	}
}

func (t *CodeMaster) OnTrigger(evt engine.TriggerEvent) {
	if !t.enabled {
		return
	}
	idx := -1
	for i, s := range t.slaves {
		if strings.EqualFold(s, evt.Emitter) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	if t.ordered && idx != t.Progress() {
		t.reset()
		t.send(t.failureTarget, engine.EvtTrigger, 0)
		return
	}
	t.fired[idx] = true
	if t.Progress() < len(t.slaves) {
		return
	}
	t.reset()
	t.Activate()
}

func (t *CodeMaster) OnUntrigger(evt engine.TriggerEvent) {
	if t.untriggerCancel {
		t.reset()
	}
}

func (t *CodeMaster) Save(w *savegame.Writer) error {
	if err := t.AbstractTrigger.Save(w); err != nil {
		return err
	}
	w.Write(uint32(len(t.fired)))
	for _, f := range t.fired {
		w.Write(f)
	}
	return w.Err()
}

func (t *CodeMaster) Load(r *savegame.Reader) error {
	if err := t.AbstractTrigger.Load(r); err != nil {
		return err
	}
	var n uint32
	r.Read(&n)
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		var f bool
		r.Read(&f)
		if int(i) < len(t.fired) {
			t.fired[i] = f
		}
	}
	return r.Err()
}
