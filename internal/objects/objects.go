package objects

import (
	"strings"

	"gothic3d/internal/engine"
	"gothic3d/internal/physics"
	"gothic3d/internal/savegame"
	"gothic3d/internal/zen"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// StaticObj is placed geometry: a visual and, when the record asks for
// static collision, a box in the physics world.
type StaticObj struct {
	engine.BaseBehavior
	Visual string
	body   *physics.Body
}

// NewStaticObj registers the collision box of rec with pw when rec.CdStatic
// is set and the record carries bounds. pw may be nil.
func NewStaticObj(rec *zen.Record, pw *physics.World) *StaticObj {
	s := &StaticObj{Visual: rec.Visual}
	s.body = staticBody(rec, pw)
	return s
}

func staticBody(rec *zen.Record, pw *physics.World) *physics.Body {
	if pw == nil || !rec.CdStatic || rec.BBox == nil {
		return nil
	}
	lo, hi := rec.Bounds()
	return pw.AddStatic(rec.Name, -1, physics.NewAABB(lo, hi))
}

func (s *StaticObj) Kind() engine.Kind { return engine.KindStaticObj }

// Body returns the collision box, nil when the object does not collide.
func (s *StaticObj) Body() *physics.Body { return s.body }

func (s *StaticObj) Release() {
	if s.body != nil {
		s.body.Detach()
		s.body = nil
	}
}

// Interactive is a usable object (door, bed, chest, lever). Its scheme names
// select the camera framing while the player uses it.
type Interactive struct {
	engine.BaseBehavior
	Scheme    string
	FocusName string
	Visual    string

	stateNum  int
	state     int
	posScheme string
	body      *physics.Body
	facing    rl.Vector3
}

func NewInteractive(rec *zen.Record, pw *physics.World) *Interactive {
	it := &Interactive{Visual: rec.Visual, facing: rec.Facing()}
	if d := rec.Interactive; d != nil {
		it.Scheme = strings.ToUpper(d.Scheme)
		it.FocusName = d.FocusName
		it.stateNum = d.StateNum
	}
	if it.Scheme == "" {
		it.Scheme = schemeFromVisual(rec.Visual)
	}
	it.body = staticBody(rec, pw)
	return it
}

// schemeFromVisual derives the scheme from a visual name such as
// "DOOR_WOODEN.MDS": the part before the first underscore or dot.
func schemeFromVisual(visual string) string {
	v := strings.ToUpper(visual)
	if i := strings.IndexAny(v, "_."); i >= 0 {
		v = v[:i]
	}
	return v
}

func (it *Interactive) Kind() engine.Kind { return engine.KindInteractive }

// SchemeName is the scheme tag, e.g. "BEDHIGH".
func (it *Interactive) SchemeName() string { return it.Scheme }

// PosSchemeName is the side the interactive is used from ("FRONT" or
// "BACK"), empty while idle.
func (it *Interactive) PosSchemeName() string { return it.posScheme }

func (it *Interactive) State() int { return it.state }

func (it *Interactive) InUse() bool { return it.posScheme != "" }

// Use starts interacting from user. The side is picked from the object's
// facing: a user in front of it sees FRONT.
func (it *Interactive) Use(user rl.Vector3) {
	pos := it.Tree().Position(it.VobID())
	dir := rl.Vector3Subtract(user, pos)
	if rl.Vector3DotProduct(dir, it.facing) >= 0 {
		it.posScheme = "FRONT"
	} else {
		it.posScheme = "BACK"
	}
	if it.stateNum > 0 {
		it.state = (it.state + 1) % (it.stateNum + 1)
	}
}

// Leave ends the interaction.
func (it *Interactive) Leave() {
	it.posScheme = ""
}

func (it *Interactive) Release() {
	if it.body != nil {
		it.body.Detach()
		it.body = nil
	}
}

func (it *Interactive) Save(w *savegame.Writer) error {
	return w.Write(int32(it.state), it.posScheme)
}

func (it *Interactive) Load(r *savegame.Reader) error {
	var state int32
	if err := r.Read(&state, &it.posScheme); err != nil {
		return err
	}
	it.state = int(state)
	return nil
}
