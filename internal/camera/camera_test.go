package camera

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gothic3d/internal/physics"
	"gothic3d/internal/savegame"
	"gothic3d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func near(a, b, eps float32) bool {
	return abs(a-b) <= eps
}

// testWorld returns a world with a player at the origin turned by rot.
func testWorld(rot float32) *world.World {
	w := world.New("TEST.ZEN")
	w.Logger = log.New(io.Discard, "", 0)
	w.SetPlayer(world.NewPlayer(rl.Vector3{}, rot))
	return w
}

func TestResetFromPlayer(t *testing.T) {
	defs := DefaultDefinitions()
	d := defs.Def(Normal)
	d.BestRange = 0.3
	defs.SetDef(Normal, d)

	c := New(defs)
	c.Reset(testWorld(90))

	if s := c.Spin(); s.X != 0 || s.Y != 90 {
		t.Errorf("Spin() = %v, want (0, 90)", s)
	}
	if s := c.DestSpin(); s.X != 0 || s.Y != 90 {
		t.Errorf("DestSpin() = %v, want (0, 90)", s)
	}
	if c.Range() != 0.3 || c.DestRange() != 0.3 {
		t.Errorf("ranges = %v/%v, want 0.3", c.Range(), c.DestRange())
	}
	want := rl.Vector3{Y: world.PlayerHeadY}
	if c.Position() != want {
		t.Errorf("Position() = %v, want %v", c.Position(), want)
	}
}

func TestResetWithoutPlayerKeepsState(t *testing.T) {
	c := New(nil)
	c.SetSpin(rl.Vector2{X: 5, Y: 7})
	w := world.New("EMPTY.ZEN")
	c.Reset(w)
	if s := c.Spin(); s.X != 5 || s.Y != 7 {
		t.Errorf("Spin() = %v, want (5, 7)", s)
	}
	// Tick is a no-op without a player
	c.Tick(16, false, true)
	if s := c.Spin(); s.X != 5 || s.Y != 7 {
		t.Errorf("Spin() after Tick = %v, want (5, 7)", s)
	}
}

func TestZoomIsClampedAndApproached(t *testing.T) {
	defs := DefaultDefinitions()
	d := defs.Def(Normal)
	d.BestRange, d.MinRange, d.MaxRange = 0.3, 0.2, 1
	defs.SetDef(Normal, d)

	c := New(defs)
	c.Reset(testWorld(0))
	c.Tick(16, false, true)

	c.SetDestRange(5)
	if c.DestRange() != 1 {
		t.Fatalf("DestRange() = %v, want 1", c.DestRange())
	}

	prev := c.Range()
	for i := 0; i < 20; i++ {
		c.Tick(16, false, true)
		if c.Range() < prev {
			t.Fatalf("tick %d: range went back from %v to %v", i, prev, c.Range())
		}
		if c.Range() > 1 {
			t.Fatalf("tick %d: range %v overshot 1", i, c.Range())
		}
		prev = c.Range()
	}
	if c.Range() != 1 {
		t.Errorf("Range() = %v after 20 ticks, want 1", c.Range())
	}

	c.ChangeZoom(-1)
	if c.DestRange() != 1 {
		t.Errorf("zoom out past max: DestRange() = %v, want 1", c.DestRange())
	}
	c.ChangeZoom(1)
	if !near(c.DestRange(), 0.9, 1e-5) {
		t.Errorf("zoom in: DestRange() = %v, want 0.9", c.DestRange())
	}
}

func TestSetModeSnapsDestination(t *testing.T) {
	c := New(nil)
	c.Reset(testWorld(90))
	c.SetDestSpin(rl.Vector2{X: 15, Y: 90})

	c.SetMode(Dialog)
	if s := c.DestSpin(); s.X != 15 || s.Y != 120 {
		t.Errorf("dialog: DestSpin() = %v, want (15, 120)", s)
	}

	c.SetMode(Inventory)
	if s := c.DestSpin(); s.X != 20 || s.Y != 270 {
		t.Errorf("inventory: DestSpin() = %v, want (20, 270)", s)
	}

	// Modes without framing leave the destination alone.
	c.SetMode(Melee)
	if s := c.DestSpin(); s.X != 20 || s.Y != 270 {
		t.Errorf("melee: DestSpin() = %v, want (20, 270)", s)
	}

	c.SetDestSpin(rl.Vector2{X: 0, Y: 0})
	c.SetMode(Melee)
	if s := c.DestSpin(); s.X != 0 || s.Y != 0 {
		t.Errorf("same mode again: DestSpin() = %v, want (0, 0)", s)
	}
}

func TestSetDestSpinLimitsPitch(t *testing.T) {
	c := New(nil)
	c.SetDestSpin(rl.Vector2{X: 120, Y: 10})
	if s := c.DestSpin(); s.X != 90 {
		t.Errorf("pitch = %v, want 90", s.X)
	}
	c.SetDestSpin(rl.Vector2{X: -100})
	if s := c.DestSpin(); s.X != -90 {
		t.Errorf("pitch = %v, want -90", s.X)
	}
}

func TestRotateAndToggle(t *testing.T) {
	c := New(nil)
	c.SetSpin(rl.Vector2{X: 10, Y: 20})
	c.RotateLeft()
	if c.Spin().Y != 15 || c.DestSpin().Y != 15 {
		t.Errorf("after RotateLeft yaw = %v/%v, want 15", c.Spin().Y, c.DestSpin().Y)
	}
	c.RotateRight()
	c.RotateRight()
	if c.Spin().Y != 25 || c.DestSpin().Y != 25 {
		t.Errorf("after RotateRight yaw = %v/%v, want 25", c.Spin().Y, c.DestSpin().Y)
	}

	if !c.IsToggleEnabled() {
		t.Error("toggle should start enabled")
	}
	c.SetToggleEnable(false)
	if c.IsToggleEnabled() {
		t.Error("toggle still enabled")
	}
}

func TestSetPositionAppliesTargetOffset(t *testing.T) {
	defs := DefaultDefinitions()
	d := defs.Def(Normal)
	d.TargetOffset = [3]float32{10, 0, 0}
	defs.SetDef(Normal, d)

	c := New(defs)
	c.SetWorld(testWorld(90))
	c.SetPosition(rl.Vector3{X: 1, Y: 2, Z: 3})

	if got := c.DestPosition(); got != (rl.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("DestPosition() = %v, want (1, 2, 3)", got)
	}
	got := c.Position()
	if !near(got.X, 11, 1e-3) || !near(got.Y, 2, 1e-3) || !near(got.Z, 3, 1e-3) {
		t.Errorf("Position() = %v, want (11, 2, 3)", got)
	}
}

func TestTickFollowsRotation(t *testing.T) {
	c := New(nil)
	c.Reset(testWorld(0))
	c.Tick(16, false, true)

	c.SetDestSpin(rl.Vector2{X: 0, Y: 30})
	prev := c.Spin().Y
	for i := 0; i < 200 && c.Spin().Y != 30; i++ {
		c.Tick(16, false, true)
		if c.Spin().Y < prev {
			t.Fatalf("yaw moved away: %v -> %v", prev, c.Spin().Y)
		}
		prev = c.Spin().Y
	}
	if c.Spin().Y != 30 {
		t.Errorf("yaw = %v, want 30", c.Spin().Y)
	}

	// without includeRot the spin stays
	c.SetDestSpin(rl.Vector2{X: 0, Y: 60})
	c.Tick(16, false, false)
	if c.Spin().Y != 30 {
		t.Errorf("yaw = %v after Tick without rotation, want 30", c.Spin().Y)
	}
}

func TestTickClampsMaxElevation(t *testing.T) {
	c := New(nil)
	c.Reset(testWorld(0))
	c.Tick(16, false, true)

	c.OnRotateMouse(rl.Vector2{X: 170})
	for i := 0; i < 100; i++ {
		c.Tick(100, false, true)
	}
	if top := c.Definitions().Def(Normal).MaxElevation; c.Spin().X > top {
		t.Errorf("pitch = %v, want <= %v", c.Spin().X, top)
	}
}

func TestPausedWorldFreezesCamera(t *testing.T) {
	w := testWorld(0)
	c := New(nil)
	c.Reset(w)
	c.Tick(16, false, true)

	w.Pause(true)
	c.SetDestSpin(rl.Vector2{Y: 40})
	c.Tick(16, false, true)
	if c.Spin().Y != 0 {
		t.Errorf("yaw = %v while paused, want 0", c.Spin().Y)
	}
}

func TestTickFollowsPlayer(t *testing.T) {
	w := testWorld(0)
	c := New(nil)
	c.Reset(w)
	c.Tick(16, false, true)

	w.Player().SetPosition(rl.Vector3{X: 1000})
	c.SetDestPosition(w.Player().CameraBone())
	c.Tick(16, false, true)

	// the lag cap pulls the camera to within maxLag of the target
	d := rl.Vector3Distance(c.Position(), c.DestPosition())
	if !near(d, maxLag, 0.5) {
		t.Errorf("lag = %v, want %v", d, maxLag)
	}
}

func TestFollowAngle(t *testing.T) {
	tests := []struct {
		ang, dest, speed, want float32
	}{
		{0, 10, 20, 10},
		{0, 10, 3, 3},
		{0, -10, 3, -3},
		{0, 100, 1, 55},
		{0, -100, 1, -55},
		{170, -170, 5, 175},
	}
	for _, tt := range tests {
		if got := FollowAngle(tt.ang, tt.dest, tt.speed); !near(got, tt.want, 1e-4) {
			t.Errorf("FollowAngle(%v, %v, %v) = %v, want %v", tt.ang, tt.dest, tt.speed, got, tt.want)
		}
	}
}

func TestAngleMod(t *testing.T) {
	tests := map[float32]float32{
		0:    0,
		190:  -170,
		-190: 170,
		540:  180,
		-180: 180,
		180:  180,
		-30:  -30,
	}
	for in, want := range tests {
		if got := AngleMod(in); !near(got, want, 1e-4) {
			t.Errorf("AngleMod(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := New(nil)
	c.Reset(testWorld(45))
	c.Tick(16, false, true)
	c.SetDestSpin(rl.Vector2{X: 12, Y: 80})
	c.SetDestPosition(rl.Vector3{X: 1, Y: 2, Z: 3})

	var buf bytes.Buffer
	sw, err := savegame.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Save(sw); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sr, err := savegame.NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	got := New(nil)
	if err := got.Load(sr); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Spin() != c.Spin() {
		t.Errorf("Spin() = %v, want %v", got.Spin(), c.Spin())
	}
	if got.DestSpin() != c.DestSpin() {
		t.Errorf("DestSpin() = %v, want %v", got.DestSpin(), c.DestSpin())
	}
	if got.Position() != c.Position() {
		t.Errorf("Position() = %v, want %v", got.Position(), c.Position())
	}
	if got.DestPosition() != c.DestPosition() {
		t.Errorf("DestPosition() = %v, want %v", got.DestPosition(), c.DestPosition())
	}
	if got.Range() != c.Range() || got.DestRange() != c.Range() {
		t.Errorf("ranges = %v/%v, want %v", got.Range(), got.DestRange(), c.Range())
	}
}

func TestLoadOldVersionKeepsReset(t *testing.T) {
	var buf bytes.Buffer
	if _, err := savegame.NewWriterVersion(&buf, 7); err != nil {
		t.Fatal(err)
	}
	sr, err := savegame.NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	c := New(nil)
	c.Reset(testWorld(90))
	c.SetSpin(rl.Vector2{X: 33, Y: 44})
	if err := c.Load(sr); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s := c.Spin(); s.X != 0 || s.Y != 90 {
		t.Errorf("Spin() = %v, want reset to (0, 90)", s)
	}
}

func TestLoadTruncatedKeepsState(t *testing.T) {
	var buf bytes.Buffer
	sw, err := savegame.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.Write(rl.Vector3{X: 50, Y: 60}, rl.Vector3{X: 1, Y: 2, Z: 3}); err != nil {
		t.Fatal(err)
	}
	sr, err := savegame.NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	c := New(nil)
	c.Reset(testWorld(30))
	c.SetSpin(rl.Vector2{X: 5, Y: 7})
	pos := c.Position()
	rng := c.Range()
	if err := c.Load(sr); err == nil {
		t.Fatal("Load of a truncated stream succeeded")
	}
	if s := c.Spin(); s.X != 5 || s.Y != 7 {
		t.Errorf("Spin() = %v after failed load, want (5, 7)", s)
	}
	if s := c.DestSpin(); s.X != 5 || s.Y != 7 {
		t.Errorf("DestSpin() = %v after failed load, want (5, 7)", s)
	}
	if c.Position() != pos || c.Range() != rng {
		t.Errorf("pose changed by failed load: %v %v", c.Position(), c.Range())
	}
}

func TestViewShadowBelowHorizon(t *testing.T) {
	c := New(nil)
	c.Reset(testWorld(30))
	if got := c.ViewShadow(rl.Vector3{Y: -1}, 0); got != rl.MatrixIdentity() {
		t.Errorf("ViewShadow(below) = %v, want identity", got)
	}
	if got := c.ViewShadow(rl.Vector3{X: 0.3, Y: 0.8, Z: 0.2}, 0); got == rl.MatrixIdentity() {
		t.Error("ViewShadow(above) = identity")
	}
}

func elems(m rl.Matrix) [16]float32 {
	return [16]float32{
		m.M0, m.M1, m.M2, m.M3,
		m.M4, m.M5, m.M6, m.M7,
		m.M8, m.M9, m.M10, m.M11,
		m.M12, m.M13, m.M14, m.M15,
	}
}

func TestViewShadowLayerScale(t *testing.T) {
	c := New(nil)
	c.Reset(testWorld(30))
	ldir := rl.Vector3{X: 0.3, Y: 0.8, Z: 0.2}

	m0 := elems(c.ViewShadow(ldir, 0))
	m1 := elems(c.ViewShadow(ldir, 1))
	for i := range m0 {
		want := m0[i] * 0.2
		if i%4 == 3 {
			// the w row is not scaled
			want = m0[i]
		}
		if !near(m1[i], want, 1e-5) {
			t.Errorf("layer 1 element %d = %v, want %v", i, m1[i], want)
		}
	}
}

func TestViewShadowCentersOnCamera(t *testing.T) {
	c := New(nil)
	c.Reset(testWorld(0))
	pos := c.Position()

	// at yaw 0 the shadow map is centered 0.5/shadowScale along -Z from the
	// camera target, at the target's height
	center := rl.Vector3{X: pos.X, Y: pos.Y, Z: pos.Z - 0.5/shadowScale}
	for _, ldir := range []rl.Vector3{{Y: 1}, {X: 0.3, Y: 0.8, Z: 0.2}, {X: -0.5, Y: 0.4}} {
		for layer := 0; layer < 2; layer++ {
			got := project(c.ViewShadow(ldir, layer), center)
			if !near(got.X, 0, 1e-3) || !near(got.Y, 0, 1e-3) {
				t.Errorf("ldir %v layer %d: center maps to %v, want x=y=0", ldir, layer, got)
			}
		}
	}

	// the center follows the camera
	c.SetPosition(rl.Vector3{X: 400, Y: pos.Y, Z: -200})
	moved := rl.Vector3Add(center, rl.Vector3{X: 400, Z: -200})
	got := project(c.ViewShadow(rl.Vector3{Y: 1}, 0), moved)
	if !near(got.X, 0, 1e-3) || !near(got.Y, 0, 1e-3) {
		t.Errorf("moved camera: center maps to %v, want x=y=0", got)
	}
}

// flatNormal is the Normal tuning without any offsets, so the camera looks
// straight along its orbit axis.
func flatNormal(defs *Definitions, rng float32) {
	d := defs.Def(Normal)
	d.RotOffset = [3]float32{}
	d.TargetOffset = [3]float32{}
	d.BestRange = rng
	defs.SetDef(Normal, d)
}

func TestViewCollisionShortensDistance(t *testing.T) {
	defs := DefaultDefinitions()
	flatNormal(defs, 3)

	w := testWorld(0)
	c := New(defs)
	c.SetViewport(800, 600)
	c.Reset(w)

	eye := c.Eye()
	if !near(eye.Z, 300, 0.5) {
		t.Fatalf("free eye z = %v, want 300", eye.Z)
	}

	w.Physic().AddStatic("WALL", -1, physics.AABB{
		Min: rl.Vector3{X: -500, Y: 0, Z: 100},
		Max: rl.Vector3{X: 500, Y: 400, Z: 120},
	})
	eye = c.Eye()
	if eye.Z >= 300 || !near(eye.Z, 155.5, 2) {
		t.Errorf("blocked eye z = %v, want about 155.5", eye.Z)
	}
}

func TestDialogIgnoresRange(t *testing.T) {
	c := New(nil)
	c.Reset(testWorld(0))
	c.SetMode(Dialog)
	c.SetDialogDistance(120)
	if d := c.desiredDistance(); d != 120 {
		t.Errorf("dialog distance = %v, want 120", d)
	}
	c.SetMode(Mobsi)
	if d := c.desiredDistance(); d != c.Definitions().Def(Mobsi).MaxRange*100 {
		t.Errorf("mobsi distance = %v", d)
	}
}

func TestFreeMoveLandsOnGround(t *testing.T) {
	w := testWorld(0)
	w.Physic().AddStatic("FLOOR", -1, physics.AABB{
		Min: rl.Vector3{X: -1000, Y: -10, Z: -1000},
		Max: rl.Vector3{X: 1000, Y: 0, Z: 1000},
	})
	c := New(nil)
	c.Reset(w)

	c.MoveForward()
	p := c.Position()
	if !near(p.Z, -freeMoveStep, 1e-3) || !near(p.X, 0, 1e-3) {
		t.Errorf("after MoveForward = %v, want z %v", p, -freeMoveStep)
	}
	if !near(p.Y, 0, 1e-3) {
		t.Errorf("y = %v, want ground 0", p.Y)
	}
	c.MoveRight()
	if p := c.Position(); !near(p.X, -freeMoveStep, 1e-3) {
		t.Errorf("after MoveRight x = %v, want %v", p.X, -freeMoveStep)
	}
}

func TestParseDefinitionsMissingMode(t *testing.T) {
	_, err := ParseDefinitions([]byte("modes:\n  normal:\n    best_range: 2\nmobsi:\n  DEFAULT: {}\n"))
	if !errors.Is(err, ErrMissingMode) {
		t.Errorf("err = %v, want ErrMissingMode", err)
	}

	full := string(defaultDefs)
	noDefault := strings.Replace(full, "  DEFAULT:", "  DEFAULTX:", 1)
	if _, err := ParseDefinitions([]byte(noDefault)); !errors.Is(err, ErrMissingMode) {
		t.Errorf("without mobsi DEFAULT: err = %v, want ErrMissingMode", err)
	}
}

func TestMobsiLookup(t *testing.T) {
	defs := DefaultDefinitions()
	defs.SetMobsi("DEFAULT", Def{BestRange: 1})
	defs.SetMobsi("bench", Def{BestRange: 2})
	defs.SetMobsi("BENCH_FRONT", Def{BestRange: 3})

	tests := []struct {
		scheme, pos string
		want        float32
	}{
		{"BENCH", "FRONT", 3},
		{"bench", "front", 3},
		{"BENCH", "BACK", 2},
		{"BENCH", "", 2},
		{"STOOL", "", 1},
		{"", "", 1},
	}
	for _, tt := range tests {
		if got := defs.Mobsi(tt.scheme, tt.pos).BestRange; got != tt.want {
			t.Errorf("Mobsi(%q, %q).BestRange = %v, want %v", tt.scheme, tt.pos, got, tt.want)
		}
	}
	if defs.Def(Mobsi).BestRange != 1 {
		t.Errorf("Def(Mobsi) does not follow DEFAULT")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, ok := ParseMode(strings.ToUpper(m.String()))
		if !ok || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m, got, ok)
		}
	}
	if _, ok := ParseMode("flying"); ok {
		t.Error("ParseMode accepted an unknown name")
	}
}

func TestWatcherReloadsDefinitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cameras.yaml")
	if err := os.WriteFile(path, defaultDefs, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()
	w.Logger = log.New(io.Discard, "", 0)

	c := New(nil)
	if w.Poll(c) {
		t.Fatal("Poll reported a change before any write")
	}

	changed := strings.Replace(string(defaultDefs), "best_range: 2.5\n    min_range: 1.4\n    max_range: 4", "best_range: 3.5\n    min_range: 1.4\n    max_range: 4", 1)
	if err := os.WriteFile(path, []byte(changed), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !w.Poll(c) {
		if time.Now().After(deadline) {
			t.Fatal("no reload within 2s")
		}
		time.Sleep(20 * time.Millisecond)
	}
	if got := c.Definitions().Def(Normal).BestRange; got != 3.5 {
		t.Errorf("reloaded BestRange = %v, want 3.5", got)
	}
}
