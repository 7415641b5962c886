package world

import (
	"gothic3d/internal/engine"
	"gothic3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const ShadowMapResolution = 2048

// Renderer draws the world as boxes and markers: collision bodies, vob
// origins, start points and lights. It renders with the matrices the camera
// produces rather than a raylib Camera3D.
type Renderer struct {
	ShadowMap  rl.RenderTexture2D
	MatLightVP rl.Matrix
	ShowVobs   bool
	// Target is the camera's orbit center, marked when ShowVobs is set.
	Target rl.Vector3

	drawn int
}

func NewRenderer() *Renderer {
	return &Renderer{ShowVobs: true}
}

func (r *Renderer) Initialize() {
	r.ShadowMap = loadShadowmapRenderTexture(ShadowMapResolution, ShadowMapResolution)
}

// Drawn is the number of objects that passed culling in the last Draw.
func (r *Renderer) Drawn() int { return r.drawn }

// DrawShadowMap renders collision bodies into the depth-only shadow target
// from the light's view-projection.
func (r *Renderer) DrawShadowMap(w *World, lightVP rl.Matrix) {
	r.MatLightVP = lightVP

	rl.BeginTextureMode(r.ShadowMap)
	rl.ClearBackground(rl.White)
	rl.BeginMode3D(rl.Camera3D{Up: rl.Vector3{Y: 1}, Fovy: 45})
	rl.SetMatrixModelview(rl.MatrixIdentity())
	rl.SetMatrixProjection(lightVP)

	rl.SetCullFace(0)
	for _, b := range w.physic.Overlapping(everything) {
		box := b.Box()
		rl.DrawCubeV(box.Center(), box.Size(), rl.Black)
	}
	rl.SetCullFace(1)

	rl.EndMode3D()
	rl.EndTextureMode()

	rl.Viewport(0, 0, int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight()))
}

var everything = physics.AABB{
	Min: rl.Vector3{X: -1e9, Y: -1e9, Z: -1e9},
	Max: rl.Vector3{X: 1e9, Y: 1e9, Z: 1e9},
}

// glClip maps the camera's clip space to OpenGL's: x and y are mirrored and
// depth goes from [0, 1] to [-1, 1].
var glClip = rl.Matrix{M0: -1, M5: -1, M10: 2, M14: -1, M15: 1}

// Draw renders the world with view and proj. Objects outside the frustum of
// proj*view are skipped.
func (r *Renderer) Draw(w *World, view, proj rl.Matrix) {
	f := ExtractFrustum(rl.MatrixMultiply(view, proj))
	r.drawn = 0

	rl.BeginMode3D(rl.Camera3D{Up: rl.Vector3{Y: 1}, Fovy: 45})
	rl.SetMatrixModelview(view)
	rl.SetMatrixProjection(rl.MatrixMultiply(proj, glClip))

	for _, b := range w.physic.Overlapping(everything) {
		box := b.Box()
		if !f.ContainsBox(box) {
			continue
		}
		color := rl.Gray
		if !b.Static {
			color = rl.Orange
		}
		rl.DrawBoundingBox(rl.BoundingBox{Min: box.Min, Max: box.Max}, color)
		r.drawn++
	}

	if r.ShowVobs {
		w.tree.Walk(func(v *engine.Vob) bool {
			pos := w.tree.Position(v.ID())
			if !f.ContainsSphere(pos, 8) {
				return true
			}
			rl.DrawSphere(pos, 8, kindColor(v.Kind))
			r.drawn++
			return true
		})
		for _, p := range w.startPoints {
			rl.DrawLine3D(p.Pos, rl.Vector3Add(p.Pos, rl.Vector3Scale(p.Dir, 100)), rl.Green)
		}
		for _, l := range w.lights {
			if f.ContainsPoint(l.Pos) {
				rl.DrawSphereWires(l.Pos, 10, 4, 4, l.Color)
			}
		}
	}

	if p := w.player; p != nil {
		b := p.body()
		rl.DrawBoundingBox(rl.BoundingBox{Min: b.Min, Max: b.Max}, rl.SkyBlue)
	}
	if r.ShowVobs {
		rl.DrawCubeWires(r.Target, 6, 6, 6, rl.Yellow)
	}

	rl.EndMode3D()
}

func kindColor(k engine.Kind) rl.Color {
	switch {
	case k == engine.KindInteractive:
		return rl.Blue
	case k == engine.KindMover:
		return rl.Orange
	case k.IsTrigger():
		return rl.Red
	}
	return rl.LightGray
}

func (r *Renderer) Unload() {
	rl.UnloadRenderTexture(r.ShadowMap)
}

func loadShadowmapRenderTexture(width, height int32) rl.RenderTexture2D {
	target := rl.RenderTexture2D{}

	target.ID = rl.LoadFramebuffer()
	target.Texture.Width = width
	target.Texture.Height = height

	if target.ID > 0 {
		rl.EnableFramebuffer(target.ID)

		target.Depth.ID = rl.LoadTextureDepth(width, height, false)
		target.Depth.Width = width
		target.Depth.Height = height
		target.Depth.Format = 19
		target.Depth.Mipmaps = 1

		rl.FramebufferAttach(target.ID, target.Depth.ID, rl.AttachmentDepth, rl.AttachmentTexture2d, 0)

		rl.DisableFramebuffer()
	}

	return target
}
