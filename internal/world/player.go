package world

import (
	"errors"
	"fmt"
	"math"

	"gothic3d/internal/objects"
	"gothic3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrNoStartPoint is returned by SpawnPlayer when the level has no matching
// start point.
var ErrNoStartPoint = errors.New("world: no start point")

const playerName = "PLAYER"

const (
	PlayerHeight    = 180.0
	PlayerHeadY     = 165.0
	PlayerHalfWidth = 30.0
	// UseRange is how far the player reaches for interactives.
	UseRange = 250.0
)

// Player is the controlled pawn. Rotation is a yaw in degrees; forward is
// (sin r, 0, -cos r).
type Player struct {
	world       *World
	pos         rl.Vector3
	rotation    float32
	interactive *objects.Interactive
}

// SpawnPlayer places the player at the named start point, or at the first
// one when startVob is empty.
func (w *World) SpawnPlayer(startVob string) (*Player, error) {
	pt, ok := w.FindStartPoint(startVob)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoStartPoint, startVob)
	}
	p := &Player{world: w}
	p.pos = w.physic.LandRay(pt.Pos).Point
	if pt.Dir.X != 0 || pt.Dir.Z != 0 {
		p.rotation = float32(math.Atan2(float64(pt.Dir.X), float64(-pt.Dir.Z)) * 180 / math.Pi)
	}
	w.player = p
	return p, nil
}

// SetPlayer installs p as the controlled pawn; nil removes it.
func (w *World) SetPlayer(p *Player) {
	if p != nil {
		p.world = w
	}
	w.player = p
}

// NewPlayer creates a pawn that is not yet in a world.
func NewPlayer(pos rl.Vector3, rotation float32) *Player {
	return &Player{pos: pos, rotation: rotation}
}

// Position is the feet position.
func (p *Player) Position() rl.Vector3 { return p.pos }

func (p *Player) SetPosition(pos rl.Vector3) { p.pos = pos }

// Rotation is the yaw in degrees.
func (p *Player) Rotation() float32 { return p.rotation }

func (p *Player) SetRotation(deg float32) { p.rotation = deg }

// CameraBone is the head position the camera orbits around.
func (p *Player) CameraBone() rl.Vector3 {
	return rl.Vector3{X: p.pos.X, Y: p.pos.Y + PlayerHeadY, Z: p.pos.Z}
}

// Forward is the unit facing direction on the ground plane.
func (p *Player) Forward() rl.Vector3 {
	r := float64(p.rotation) * math.Pi / 180
	return rl.Vector3{X: float32(math.Sin(r)), Z: float32(-math.Cos(r))}
}

// Interactive is the object in use, nil when idle.
func (p *Player) Interactive() *objects.Interactive { return p.interactive }

// Rotate turns the player by deg degrees. Rotation is locked while using an
// interactive.
func (p *Player) Rotate(deg float32) {
	if p.interactive != nil {
		return
	}
	p.rotation += deg
}

// body is the player's collision box. It starts above the land ray lift so
// the ground the player stands on does not count as blocking.
func (p *Player) body() physics.AABB {
	return physics.AABB{
		Min: rl.Vector3{X: p.pos.X - PlayerHalfWidth, Y: p.pos.Y + physics.LandRayLift, Z: p.pos.Z - PlayerHalfWidth},
		Max: rl.Vector3{X: p.pos.X + PlayerHalfWidth, Y: p.pos.Y + PlayerHeight, Z: p.pos.Z + PlayerHalfWidth},
	}
}

// Move walks forward and strafes right by the given distances. The step is
// refused when it runs into a body; otherwise the player lands on the
// ground below.
func (p *Player) Move(forward, strafe float32) bool {
	if p.interactive != nil || (forward == 0 && strafe == 0) {
		return false
	}
	f := p.Forward()
	right := rl.Vector3{X: -f.Z, Z: f.X}
	step := rl.Vector3Add(rl.Vector3Scale(f, forward), rl.Vector3Scale(right, strafe))

	old := p.pos
	p.pos = rl.Vector3Add(p.pos, step)
	if p.world == nil {
		return true
	}
	pw := p.world.physic
	if len(pw.Overlapping(p.body())) > 0 {
		p.pos = old
		return false
	}
	p.pos = pw.LandRay(p.pos).Point
	return true
}

// Use starts using the nearest interactive in reach. It returns false when
// nothing is in reach.
func (p *Player) Use() bool {
	if p.world == nil || p.interactive != nil {
		return false
	}
	it := p.world.NearestInteractive(p.pos, UseRange)
	if it == nil {
		return false
	}
	it.Use(p.pos)
	p.interactive = it
	return true
}

// Leave stops using the current interactive.
func (p *Player) Leave() {
	if p.interactive == nil {
		return
	}
	p.interactive.Leave()
	p.interactive = nil
}
