package world

import (
	"gothic3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Frustum holds the six clip planes of a view-projection: left, right,
// bottom, top, near, far. Normals point inward.
type Frustum struct {
	planes [6]Plane
}

// Plane is n·p + d = 0.
type Plane struct {
	normal   rl.Vector3
	distance float32
}

// row returns row i of m in column-vector notation.
func row(m rl.Matrix, i int) rl.Vector4 {
	switch i {
	case 0:
		return rl.Vector4{X: m.M0, Y: m.M4, Z: m.M8, W: m.M12}
	case 1:
		return rl.Vector4{X: m.M1, Y: m.M5, Z: m.M9, W: m.M13}
	case 2:
		return rl.Vector4{X: m.M2, Y: m.M6, Z: m.M10, W: m.M14}
	}
	return rl.Vector4{X: m.M3, Y: m.M7, Z: m.M11, W: m.M15}
}

func planeOf(v rl.Vector4) Plane {
	p := Plane{normal: rl.Vector3{X: v.X, Y: v.Y, Z: v.Z}, distance: v.W}
	length := rl.Vector3Length(p.normal)
	if length == 0 {
		return p
	}
	p.normal = rl.Vector3Scale(p.normal, 1/length)
	p.distance /= length
	return p
}

// ExtractFrustum extracts the planes of vp, built as raylib's
// MatrixMultiply(view, proj), with clip depth in [0, 1] (Gribb/Hartmann).
func ExtractFrustum(vp rl.Matrix) Frustum {
	x, y, z, w := row(vp, 0), row(vp, 1), row(vp, 2), row(vp, 3)
	add := func(a, b rl.Vector4) rl.Vector4 {
		return rl.Vector4{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z, W: a.W + b.W}
	}
	sub := func(a, b rl.Vector4) rl.Vector4 {
		return rl.Vector4{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z, W: a.W - b.W}
	}
	return Frustum{planes: [6]Plane{
		planeOf(add(w, x)),
		planeOf(sub(w, x)),
		planeOf(add(w, y)),
		planeOf(sub(w, y)),
		planeOf(z),
		planeOf(sub(w, z)),
	}}
}

func (p Plane) dist(pt rl.Vector3) float32 {
	return rl.Vector3DotProduct(p.normal, pt) + p.distance
}

// ContainsSphere reports whether a sphere is at least partly inside.
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for _, p := range f.planes {
		if p.dist(center) < -radius {
			return false
		}
	}
	return true
}

func (f *Frustum) ContainsPoint(point rl.Vector3) bool {
	for _, p := range f.planes {
		if p.dist(point) < 0 {
			return false
		}
	}
	return true
}

// ContainsBox reports whether an axis-aligned box is at least partly
// inside, testing the corner furthest along each plane normal.
func (f *Frustum) ContainsBox(b physics.AABB) bool {
	for _, p := range f.planes {
		corner := b.Min
		if p.normal.X >= 0 {
			corner.X = b.Max.X
		}
		if p.normal.Y >= 0 {
			corner.Y = b.Max.Y
		}
		if p.normal.Z >= 0 {
			corner.Z = b.Max.Z
		}
		if p.dist(corner) < 0 {
			return false
		}
	}
	return true
}
