package triggers

import (
	"strings"

	"gothic3d/internal/engine"
	"gothic3d/internal/physics"
	"gothic3d/internal/savegame"
	"gothic3d/internal/zen"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween/ease"
)

// MoverState is the motion state of a Mover.
type MoverState int32

const (
	Idle MoverState = iota
	Loop
	Open
	OpenTimed
	Close
	NextKey
)

func (s MoverState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loop:
		return "Loop"
	case Open:
		return "Open"
	case OpenTimed:
		return "OpenTimed"
	case Close:
		return "Close"
	case NextKey:
		return "NextKey"
	}
	return "MoverState(?)"
}

// MoverBehavior is how a mover reacts to trigger and untrigger.
type MoverBehavior uint8

const (
	// BehaviorToggle opens on one trigger and closes on the next.
	BehaviorToggle MoverBehavior = iota
	// BehaviorTriggerControl opens on trigger and closes on untrigger.
	BehaviorTriggerControl
	// BehaviorOpenTime opens on trigger and closes by itself after the stay-open time.
	BehaviorOpenTime
	// BehaviorLoop cycles through all keys until untriggered.
	BehaviorLoop
	// BehaviorSingleKeys advances one key per trigger.
	BehaviorSingleKeys
)

func parseMoverBehavior(s string) MoverBehavior {
	switch strings.ToUpper(s) {
	case "TRIGGER_CONTROL", "TRIGGERCONTROL":
		return BehaviorTriggerControl
	case "OPEN_TIME", "OPENTIME", "OPEN_TIMED":
		return BehaviorOpenTime
	case "LOOP":
		return BehaviorLoop
	case "SINGLE_KEYS", "SINGLEKEYS":
		return BehaviorSingleKeys
	}
	return BehaviorToggle
}

// easeFor maps the archive speed type to an easing curve.
func easeFor(speedType string) ease.TweenFunc {
	switch strings.ToUpper(speedType) {
	case "SLOW_START_END", "SLOWSTARTEND":
		return ease.InOutSine
	case "SLOW_START", "SLOWSTART":
		return ease.InSine
	case "SLOW_END", "SLOWEND":
		return ease.OutSine
	}
	return ease.Linear
}

type moverKey struct {
	pos rl.Vector3
	rot rl.Quaternion
}

// Mover animates its node between keyframes. The pose is written with
// SetLocalTransform; the move hook keeps the collision body in sync.
type Mover struct {
	AbstractTrigger

	keys      []moverKey
	durations []uint64 // ms from key i to the next, wrapping
	behavior  MoverBehavior
	easing    ease.TweenFunc
	stayOpen  uint64
	body      *physics.Body

	state MoverState
	sAnim uint64
	frame uint32
}

// NewMover builds a mover from its record. body may be nil.
func NewMover(world engine.WorldAccess, rec *zen.Record, body *physics.Body) *Mover {
	m := &Mover{
		AbstractTrigger: newAbstract(world, rec, false),
		easing:          ease.Linear,
		body:            body,
	}
	if rec == nil || rec.Mover == nil {
		return m
	}
	d := rec.Mover
	m.behavior = parseMoverBehavior(d.Behavior)
	m.easing = easeFor(d.SpeedType)
	m.stayOpen = uint64(d.StayOpenTime * 1000)
	for _, k := range d.Keyframes {
		m.keys = append(m.keys, moverKey{
			pos: rl.Vector3{X: k.Position[0], Y: k.Position[1], Z: k.Position[2]},
			rot: rl.Quaternion{X: k.Rotation[0], Y: k.Rotation[1], Z: k.Rotation[2], W: k.Rotation[3]},
		})
	}
	m.durations = make([]uint64, len(m.keys))
	for i := range m.keys {
		next := (i + 1) % len(m.keys)
		dist := rl.Vector3Distance(m.keys[i].pos, m.keys[next].pos)
		var dur uint64 = 1
		if d.MoveSpeed > 0 {
			dur = uint64(dist / d.MoveSpeed)
		}
		if dur == 0 {
			dur = 1
		}
		m.durations[i] = dur
	}
	return m
}

func (m *Mover) Kind() engine.Kind { return engine.KindMover }

func (m *Mover) State() MoverState { return m.state }

// Frame is the key the mover rests at, or started from.
func (m *Mover) Frame() uint32 { return m.frame }

func (m *Mover) MoveBehavior() MoverBehavior { return m.behavior }

func (m *Mover) lastKey() uint32 {
	if len(m.keys) == 0 {
		return 0
	}
	return uint32(len(m.keys) - 1)
}

// openDuration is the time from the first key to the last.
func (m *Mover) openDuration() uint64 {
	var total uint64
	for i := 0; i+1 < len(m.keys); i++ {
		total += m.durations[i]
	}
	return total
}

func (m *Mover) loopDuration() uint64 {
	var total uint64
	for _, d := range m.durations {
		total += d
	}
	return total
}

func (m *Mover) OnTrigger(evt engine.TriggerEvent) {
	if len(m.keys) < 2 || !m.enabled {
		return
	}
	m.processTrigger(evt, true)
}

func (m *Mover) OnUntrigger(evt engine.TriggerEvent) {
	if len(m.keys) < 2 || !m.enabled {
		return
	}
	m.processTrigger(evt, false)
}

func (m *Mover) processTrigger(evt engine.TriggerEvent, on bool) {
	switch m.behavior {
	case BehaviorToggle:
		if !on {
			return
		}
		switch m.state {
		case Idle:
			if m.frame == 0 {
				m.start(Open)
			} else {
				m.start(Close)
			}
		case Open, OpenTimed:
			m.reverse(Close)
		case Close:
			m.reverse(Open)
		}
	case BehaviorTriggerControl:
		if on {
			switch m.state {
			case Idle:
				if m.frame == 0 {
					m.start(Open)
				}
			case Close:
				m.reverse(Open)
			}
			return
		}
		switch m.state {
		case Open, OpenTimed:
			if evt.Volume {
				m.reverse(Close)
			}
		case Idle:
			if m.frame == m.lastKey() {
				m.start(Close)
			}
		}
	case BehaviorOpenTime:
		if on && m.state == Idle && m.frame == 0 {
			m.start(Open)
		}
	case BehaviorLoop:
		if on && m.state == Idle {
			m.start(Loop)
		} else if !on && m.state == Loop {
			m.halt()
		}
	case BehaviorSingleKeys:
		if on && m.state == Idle {
			m.start(NextKey)
		}
	}
}

func (m *Mover) start(s MoverState) {
	m.state = s
	m.sAnim = 0
	if s == Open || s == Loop {
		m.Activate()
	}
}

// reverse switches between Open and Close keeping the current pose: the
// accumulator is mirrored over the open duration.
func (m *Mover) reverse(s MoverState) {
	total := m.openDuration()
	elapsed := m.sAnim
	if m.state == OpenTimed {
		elapsed = total
	}
	if elapsed > total {
		elapsed = total
	}
	m.state = s
	m.sAnim = total - elapsed
}

// halt stops a loop at the key it last passed.
func (m *Mover) halt() {
	f0, _, _ := m.sampleLoop(m.sAnim)
	m.frame = f0
	m.state = Idle
	m.sAnim = 0
}

// Tick advances the animation by dt milliseconds.
func (m *Mover) Tick(dt uint64) {
	m.tickPending(dt)
	if m.state == Idle || len(m.keys) < 2 {
		return
	}
	m.sAnim += dt

	switch m.state {
	case Open:
		total := m.openDuration()
		if m.sAnim >= total {
			m.frame = m.lastKey()
			m.advanceAnim(m.frame, m.frame, 0)
			if m.behavior == BehaviorOpenTime {
				m.state = OpenTimed
			} else {
				m.state = Idle
			}
			m.sAnim = 0
			return
		}
		f0, f1, a := m.samplePath(m.sAnim)
		m.advanceAnim(f0, f1, a)
	case OpenTimed:
		if m.sAnim >= m.stayOpen {
			m.state = Close
			m.sAnim = 0
		}
	case Close:
		total := m.openDuration()
		if m.sAnim >= total {
			m.frame = 0
			m.advanceAnim(0, 0, 0)
			m.state = Idle
			m.sAnim = 0
			return
		}
		f0, f1, a := m.samplePath(total - m.sAnim)
		m.advanceAnim(f0, f1, a)
	case Loop:
		f0, f1, a := m.sampleLoop(m.sAnim)
		m.advanceAnim(f0, f1, a)
	case NextKey:
		next := (m.frame + 1) % uint32(len(m.keys))
		dur := m.durations[m.frame]
		if m.sAnim >= dur {
			m.frame = next
			m.advanceAnim(next, next, 0)
			m.state = Idle
			m.sAnim = 0
			return
		}
		m.advanceAnim(m.frame, next, m.ease(m.sAnim, dur))
	}
}

// samplePath locates t on the open path (key 0 to the last key).
func (m *Mover) samplePath(t uint64) (uint32, uint32, float32) {
	for i := 0; i+1 < len(m.keys); i++ {
		d := m.durations[i]
		if t < d {
			return uint32(i), uint32(i + 1), m.ease(t, d)
		}
		t -= d
	}
	last := m.lastKey()
	return last, last, 0
}

// sampleLoop locates t on the closed loop through all keys.
func (m *Mover) sampleLoop(t uint64) (uint32, uint32, float32) {
	total := m.loopDuration()
	if total == 0 {
		return 0, 0, 0
	}
	t %= total
	for i := range m.keys {
		d := m.durations[i]
		if t < d {
			return uint32(i), uint32((i + 1) % len(m.keys)), m.ease(t, d)
		}
		t -= d
	}
	return 0, 0, 0
}

func (m *Mover) ease(t, d uint64) float32 {
	a := m.easing(float32(t), 0, 1, float32(d))
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// Pose returns the interpolated transform between keys f0 and f1.
func (m *Mover) Pose(f0, f1 uint32, alpha float32) rl.Matrix {
	k0, k1 := m.keys[f0], m.keys[f1]
	pos := rl.Vector3Lerp(k0.pos, k1.pos, alpha)
	rot := rl.QuaternionSlerp(k0.rot, k1.rot, alpha)
	mat := rl.QuaternionToMatrix(rot)
	mat.M12, mat.M13, mat.M14 = pos.X, pos.Y, pos.Z
	return mat
}

func (m *Mover) advanceAnim(f0, f1 uint32, alpha float32) {
	t := m.Tree()
	if t == nil {
		return
	}
	t.SetLocalTransform(m.VobID(), m.Pose(f0, f1, alpha))
}

// MoveEvent keeps the collision body on the node.
func (m *Mover) MoveEvent() {
	if m.body == nil || m.Tree() == nil {
		return
	}
	m.body.SetTransform(m.Tree().Transform(m.VobID()))
}

// Body returns the collision proxy, nil when the mover has none.
func (m *Mover) Body() *physics.Body { return m.body }

// Release removes the collision body from the physics world.
func (m *Mover) Release() {
	if m.body != nil {
		m.body.Detach()
	}
	m.body = nil
}

func (m *Mover) Save(w *savegame.Writer) error {
	if err := m.AbstractTrigger.Save(w); err != nil {
		return err
	}
	return w.Write(int32(m.state), m.sAnim, m.frame)
}

func (m *Mover) Load(r *savegame.Reader) error {
	if err := m.AbstractTrigger.Load(r); err != nil {
		return err
	}
	var state int32
	if err := r.Read(&state, &m.sAnim, &m.frame); err != nil {
		return err
	}
	m.state = MoverState(state)
	if int(m.frame) >= len(m.keys) {
		m.frame = 0
	}
	if m.state == Idle && len(m.keys) > 0 {
		m.advanceAnim(m.frame, m.frame, 0)
	}
	return nil
}
