package camera

import (
	"math"
	"strings"

	"gothic3d/internal/physics"
	"gothic3d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Mode is a camera behavior profile.
type Mode uint8

const (
	Dialog Mode = iota
	Normal
	Inventory
	Melee
	Ranged
	Magic
	Mobsi
	Death
	Swim
	Dive

	modeCount
)

var modeNames = [modeCount]string{
	Dialog:    "dialog",
	Normal:    "normal",
	Inventory: "inventory",
	Melee:     "melee",
	Ranged:    "ranged",
	Magic:     "magic",
	Mobsi:     "mobsi",
	Death:     "death",
	Swim:      "swim",
	Dive:      "dive",
}

func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode maps a mode name to a Mode, ignoring case.
func ParseMode(s string) (Mode, bool) {
	for m := Mode(0); m < modeCount; m++ {
		if strings.EqualFold(modeNames[m], s) {
			return m, true
		}
	}
	return Normal, false
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// World is what the camera reads from the active world each frame.
type World interface {
	Player() *world.Player
	Physic() *physics.World
	GlobalFx() *world.GlobalFx
	IsPaused() bool
}

// State is one camera pose: orbit center, spin (pitch, yaw, unused roll) in
// degrees and zoom range in metres.
type State struct {
	Pos   rl.Vector3
	Spin  rl.Vector3
	Range float32
}

const (
	fov   = 65.0
	zNear = 0.05
	zFar  = 100.0

	// viewScale maps world units into the projection's units.
	viewScale   = 0.0009
	shadowScale = 0.0008
	minViewDist = 25.0
	// freeMoveStep is the free camera step in world units.
	freeMoveStep = 60.0
	// rotateStep is the yaw change of RotateLeft/RotateRight, in degrees.
	rotateStep = 5.0
	zoomStep   = 0.1
	zoomSpeed  = 5.0
	deadZone   = 0.1
	maxLag     = 180.0
)

// Camera is the third person follow camera. The current state is what is
// rendered; the destination is where input puts it, and Tick moves the
// current state toward it.
type Camera struct {
	defs  *Definitions
	world World

	mode     Mode
	state    State
	dest     State
	hasPos   bool
	tgEnable bool
	dlgDist  float32

	vpWidth  uint32
	vpHeight uint32
	proj     rl.Matrix

	// RayGrid is the half size of the collision ray grid View casts:
	// 0 casts the center ray only, n casts (2n+1)^2 rays.
	RayGrid int
}

// New creates a camera in Normal mode. defs may be nil for the built-in table.
func New(defs *Definitions) *Camera {
	if defs == nil {
		defs = DefaultDefinitions()
	}
	c := &Camera{
		defs:     defs,
		mode:     Normal,
		tgEnable: true,
	}
	c.SetViewport(1, 1)
	return c
}

// SetDefinitions swaps the tuning table, e.g. after a reload.
func (c *Camera) SetDefinitions(d *Definitions) {
	if d != nil {
		c.defs = d
	}
}

func (c *Camera) Definitions() *Definitions { return c.defs }

// SetWorld binds the camera to w without resetting it. nil unbinds.
func (c *Camera) SetWorld(w World) {
	c.world = w
}

// Reset binds w and seeds both states from its player. Without a player the
// camera keeps its last state.
func (c *Camera) Reset(w World) {
	c.world = w
	if pl := c.player(); pl != nil {
		c.implReset(pl)
	}
}

func (c *Camera) player() *world.Player {
	if c.world == nil {
		return nil
	}
	return c.world.Player()
}

func (c *Camera) implReset(pl *world.Player) {
	def := c.def()

	c.state.Pos = pl.CameraBone()
	c.state.Spin = rl.Vector3{Y: pl.Rotation()}
	c.dest = c.state

	c.state.Range = def.BestRange
	c.dest.Range = c.state.Range
}

// def returns the tuning of the active mode. Mobsi framing follows the
// interactive the player is using.
func (c *Camera) def() *Def {
	if c.mode == Mobsi {
		scheme, pos := "", ""
		if pl := c.player(); pl != nil {
			if it := pl.Interactive(); it != nil {
				scheme, pos = it.SchemeName(), it.PosSchemeName()
			}
		}
		d := c.defs.Mobsi(scheme, pos)
		return &d
	}
	return &c.defs.modes[c.mode]
}

func (c *Camera) Mode() Mode { return c.mode }

// SetMode switches the mode. Inventory, Dialog, Mobsi and Death snap the
// destination yaw to the mode's azimuth, relative to the player, and all of
// them but Dialog also snap the destination pitch.
func (c *Camera) SetMode(m Mode) {
	if c.mode == m {
		return
	}
	c.mode = m
	if m != Inventory && m != Dialog && m != Mobsi && m != Death {
		return
	}
	def := c.def()
	c.dest.Spin.Y = def.BestAzimuth
	if pl := c.player(); pl != nil {
		c.dest.Spin.Y += pl.Rotation()
	}
	if m != Dialog {
		c.dest.Spin.X = def.BestElevation
	}
}

func (c *Camera) SetToggleEnable(e bool) { c.tgEnable = e }

func (c *Camera) IsToggleEnabled() bool { return c.tgEnable }

// ChangeZoom zooms in for a positive delta and out otherwise.
func (c *Camera) ChangeZoom(delta int) {
	if delta > 0 {
		c.dest.Range -= zoomStep
	} else {
		c.dest.Range += zoomStep
	}
	c.dest.Range = c.def().clampRange(c.dest.Range)
}

// SetDestRange requests a zoom range, clamped to the active mode.
func (c *Camera) SetDestRange(r float32) {
	c.dest.Range = c.def().clampRange(r)
}

func (c *Camera) Range() float32 { return c.state.Range }

func (c *Camera) DestRange() float32 { return c.dest.Range }

// Spin returns the current (pitch, yaw).
func (c *Camera) Spin() rl.Vector2 {
	return rl.Vector2{X: c.state.Spin.X, Y: c.state.Spin.Y}
}

// DestSpin returns the destination (pitch, yaw).
func (c *Camera) DestSpin() rl.Vector2 {
	return rl.Vector2{X: c.dest.Spin.X, Y: c.dest.Spin.Y}
}

// SetSpin sets current and destination spin at once.
func (c *Camera) SetSpin(p rl.Vector2) {
	c.state.Spin = rl.Vector3{X: p.X, Y: p.Y}
	c.dest.Spin = c.state.Spin
}

// SetDestSpin sets the destination spin. Pitch is limited to ±90.
func (c *Camera) SetDestSpin(p rl.Vector2) {
	c.dest.Spin = rl.Vector3{X: p.X, Y: p.Y}
	if c.dest.Spin.X < -90 {
		c.dest.Spin.X = -90
	}
	if c.dest.Spin.X > 90 {
		c.dest.Spin.X = 90
	}
}

// OnRotateMouse adds a mouse delta, in degrees, to the destination spin.
func (c *Camera) OnRotateMouse(dpos rl.Vector2) {
	c.dest.Spin.X += dpos.X
	c.dest.Spin.Y += dpos.Y
}

func (c *Camera) Position() rl.Vector3 { return c.state.Pos }

func (c *Camera) DestPosition() rl.Vector3 { return c.dest.Pos }

// SetPosition places the camera at pos. The current position gets the
// mode's target offset, the destination does not.
func (c *Camera) SetPosition(pos rl.Vector3) {
	c.state.Pos = pos
	c.dest.Pos = pos
	c.state.Pos = c.applyModPosition(c.state.Pos)
}

func (c *Camera) SetDestPosition(pos rl.Vector3) {
	c.dest.Pos = pos
}

// SetDialogDistance sets the view distance used in Dialog mode, in world units.
func (c *Camera) SetDialogDistance(d float32) {
	c.dlgDist = d
}

// applyModPosition adds the mode's target offset, turned with the player.
func (c *Camera) applyModPosition(pos rl.Vector3) rl.Vector3 {
	off := c.def().targetOffset()
	if pl := c.player(); pl != nil {
		rot := rl.MatrixRotateY((90 - pl.Rotation()) * rl.Deg2rad)
		off = rl.Vector3Transform(off, rot)
	}
	return rl.Vector3Add(pos, off)
}

func (c *Camera) RotateLeft() {
	c.state.Spin.Y -= rotateStep
	c.dest.Spin.Y -= rotateStep
}

func (c *Camera) RotateRight() {
	c.state.Spin.Y += rotateStep
	c.dest.Spin.Y += rotateStep
}

func (c *Camera) MoveForward() { c.implMove(0, -1) }

func (c *Camera) MoveBack() { c.implMove(0, 1) }

func (c *Camera) MoveLeft() { c.implMove(1, 0) }

func (c *Camera) MoveRight() { c.implMove(-1, 0) }

// implMove steps the free camera: side > 0 is left, fwd < 0 is forward. The
// step follows spin.x and lands on the ground below.
func (c *Camera) implMove(side, fwd float32) {
	k := -math.Pi / 180
	a := float64(c.state.Spin.X) * k
	s, co := float32(math.Sin(a)), float32(math.Cos(a))

	c.state.Pos.X += freeMoveStep * (side*co + fwd*s)
	c.state.Pos.Z += freeMoveStep * (fwd*co - side*s)
	if c.world != nil {
		c.state.Pos.Y = c.world.Physic().LandRay(c.state.Pos).Point.Y
	}
}
