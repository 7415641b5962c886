package world

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// GlobalFx holds screen-wide effects applied to the projection. Only the
// field of view morph is modeled: a zoom that eases to a scale and back.
type GlobalFx struct {
	scale float32
	in    *gween.Tween
	out   *gween.Tween
}

func NewGlobalFx() *GlobalFx {
	return &GlobalFx{scale: 1}
}

// StartMorph zooms the view to scale over durMs and back over the same time.
// scale > 1 narrows the field of view.
func (fx *GlobalFx) StartMorph(scale float32, durMs uint64) {
	d := float32(durMs) / 1000
	if d <= 0 {
		return
	}
	fx.in = gween.New(fx.scale, scale, d, ease.OutSine)
	fx.out = gween.New(scale, 1, d, ease.InSine)
}

// Active reports whether a morph is running.
func (fx *GlobalFx) Active() bool {
	return fx.in != nil || fx.out != nil
}

// Scale is the current field of view scale.
func (fx *GlobalFx) Scale() float32 { return fx.scale }

func (fx *GlobalFx) Tick(dt uint64) {
	s := float32(dt) / 1000
	if fx.in != nil {
		cur, done := fx.in.Update(s)
		fx.scale = cur
		if done {
			fx.in = nil
		}
		return
	}
	if fx.out != nil {
		cur, done := fx.out.Update(s)
		fx.scale = cur
		if done {
			fx.out = nil
			fx.scale = 1
		}
	}
}

// Morph applies the effects to a projection matrix in place.
func (fx *GlobalFx) Morph(proj *rl.Matrix) {
	if fx == nil || fx.scale == 1 {
		return
	}
	proj.M0 *= fx.scale
	proj.M5 *= fx.scale
}
