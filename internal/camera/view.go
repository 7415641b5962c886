package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// mul returns a*b in column-vector notation: b is applied first.
func mul(a, b rl.Matrix) rl.Matrix {
	return rl.MatrixMultiply(b, a)
}

func scaling(x, y, z float32) rl.Matrix {
	return rl.MatrixScale(x, y, z)
}

// project transforms p by m with perspective divide.
func project(m rl.Matrix, p rl.Vector3) rl.Vector3 {
	x := m.M0*p.X + m.M4*p.Y + m.M8*p.Z + m.M12
	y := m.M1*p.X + m.M5*p.Y + m.M9*p.Z + m.M13
	z := m.M2*p.X + m.M6*p.Y + m.M10*p.Z + m.M14
	w := m.M3*p.X + m.M7*p.Y + m.M11*p.Z + m.M15
	if w != 0 && w != 1 {
		x, y, z = x/w, y/w, z/w
	}
	return rl.Vector3{X: x, Y: y, Z: z}
}

// perspective builds a +Z forward projection with clip depth in [0, 1].
func perspective(fovy, aspect, near, far float32) rl.Matrix {
	f := float32(1 / math.Tan(float64(fovy*rl.Deg2rad)/2))
	return rl.Matrix{
		M0:  f / aspect,
		M5:  f,
		M10: far / (far - near),
		M14: -near * far / (far - near),
		M11: 1,
	}
}

// SetViewport updates the projection for a w by h target.
func (c *Camera) SetViewport(w, h uint32) {
	if w == 0 || h == 0 {
		return
	}
	c.vpWidth, c.vpHeight = w, h
	c.proj = perspective(fov, float32(w)/float32(h), zNear, zFar)
}

// Projective returns the projection matrix.
func (c *Camera) Projective() rl.Matrix {
	return c.proj
}

// mkRotation is Rx(spin.x) * Ry(spin.y) * Rz(spin.z), angles in degrees.
func mkRotation(spin rl.Vector3) rl.Matrix {
	m := rl.MatrixRotateX(spin.X * rl.Deg2rad)
	m = mul(m, rl.MatrixRotateY(spin.Y*rl.Deg2rad))
	return mul(m, rl.MatrixRotateZ(spin.Z*rl.Deg2rad))
}

// orbitOffset is the eye position relative to the orbit center at dist.
func (c *Camera) orbitOffset(dist float32) rl.Vector3 {
	inv := rl.MatrixInvert(mkRotation(c.state.Spin))
	return project(inv, rl.Vector3{Z: dist})
}

func (c *Camera) mkView(pos rl.Vector3, dist float32) rl.Matrix {
	rotOffset := c.def().rotOffset()
	if c.mode == Dialog {
		rotOffset = rl.Vector3{}
	}
	tr := c.orbitOffset(dist)

	view := scaling(-1, -1, -1)
	view = mul(view, mkRotation(rl.Vector3Subtract(c.state.Spin, rotOffset)))
	view = mul(view, scaling(viewScale, viewScale, viewScale))
	eye := rl.Vector3Add(pos, tr)
	return mul(view, rl.MatrixTranslate(-eye.X, -eye.Y, -eye.Z))
}

// desiredDistance is the view distance before collision, in world units.
func (c *Camera) desiredDistance() float32 {
	def := c.def()
	switch c.mode {
	case Mobsi:
		return def.MaxRange * 100
	case Dialog:
		return c.dlgDist
	}
	return def.clampRange(c.state.Range) * 100
}

// viewDistance shortens the desired distance so the eye does not end up
// behind geometry between it and the orbit center.
func (c *Camera) viewDistance() float32 {
	dist := c.desiredDistance()
	if c.world == nil {
		return dist
	}
	pos := c.state.Pos
	vp := mul(c.morphedProj(), c.mkView(pos, dist))
	inv := rl.MatrixInvert(vp)
	pw := c.world.Physic()

	distMd := dist
	n := c.RayGrid
	for i := -n; i <= n; i++ {
		for r := -n; r <= n; r++ {
			r0 := pos
			r1 := project(inv, rl.Vector3{X: float32(i), Y: float32(r)})

			hit := pw.Ray(r0, r1).Point
			dist0 := rl.Vector3Distance(r1, r0)
			dist1 := rl.Vector3Distance(hit, r0)

			md := max(dist-max(0, dist0-dist1), minViewDist)
			distMd = min(distMd, md)
		}
	}
	return distMd
}

func (c *Camera) morphedProj() rl.Matrix {
	p := c.proj
	if c.world != nil {
		c.world.GlobalFx().Morph(&p)
	}
	return p
}

// View returns the view matrix for the current state.
func (c *Camera) View() rl.Matrix {
	return c.mkView(c.state.Pos, c.viewDistance())
}

// ViewProj is the projection, warped by the world's global effects, times
// the view.
func (c *Camera) ViewProj() rl.Matrix {
	return mul(c.morphedProj(), c.View())
}

// Eye returns the camera's world position.
func (c *Camera) Eye() rl.Vector3 {
	return rl.Vector3Add(c.state.Pos, c.orbitOffset(c.viewDistance()))
}

// ViewShadow returns the shadow matrix for a directional light for the
// given cascade layer. A light at or below the horizon (ldir.Y <= 0) gives
// the identity.
func (c *Camera) ViewShadow(ldir rl.Vector3, layer int) rl.Matrix {
	yaw := float64(c.state.Spin.Y) * math.Pi / 180
	cs, sn := float32(math.Cos(yaw)), float32(math.Sin(yaw))

	view := rl.MatrixIdentity()
	if ldir.Y <= 0 {
		return view
	}
	if layer > 0 {
		view = mul(view, scaling(0.2, 0.2, 0.2))
	}
	pos := c.state.Pos
	view = mul(view, rl.MatrixTranslate(0, 0.5, 0.5))
	view = mul(view, rl.MatrixRotateX(90*rl.Deg2rad))
	view = mul(view, rl.MatrixRotateY(c.state.Spin.Y*rl.Deg2rad))
	view = mul(view, scaling(shadowScale, shadowScale*0.3, shadowScale))
	view = mul(view, rl.MatrixTranslate(pos.X, pos.Y, pos.Z))
	view = mul(view, scaling(-1, -1, -1))

	center := project(rl.MatrixInvert(view), rl.Vector3{})
	center.Y = pos.Y

	// second column: where world y lands, skewed along the light
	lz := view.M6
	k := lz / ldir.Y
	lx := -ldir.X * k
	ly := ldir.Z * k
	lz = ldir.Y * k

	view.M4 = lx*cs - ly*sn
	view.M5 = lx*sn + ly*cs
	view.M6 = lz

	center = project(view, center)
	view.M12 -= center.X
	view.M13 -= center.Y
	return view
}
