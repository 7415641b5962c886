package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// RayResult is the outcome of a ray query. Point is the nearest hit, or the
// ray end when nothing was hit.
type RayResult struct {
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
	HasHit   bool
	Body     *Body
}

// Ray returns the nearest hit on the segment from -> to.
func (w *World) Ray(from, to rl.Vector3) RayResult {
	delta := rl.Vector3Subtract(to, from)
	length := rl.Vector3Length(delta)
	result := RayResult{Point: to, Distance: length}
	if length <= 0 {
		return result
	}
	direction := rl.Vector3Scale(delta, 1/length)

	for _, b := range w.bodies {
		if hit, ok := raycastBox(from, direction, b.box, result.Distance); ok {
			if !result.HasHit || hit.Distance < result.Distance {
				result = hit
				result.Body = b
			}
		}
	}
	return result
}

// LandRay casts straight down from slightly above pos and returns the ground
// point below it. Without ground, Point is pos itself.
func (w *World) LandRay(pos rl.Vector3) RayResult {
	from := rl.Vector3{X: pos.X, Y: pos.Y + LandRayLift, Z: pos.Z}
	to := rl.Vector3{X: pos.X, Y: pos.Y - LandRayDepth, Z: pos.Z}
	r := w.Ray(from, to)
	if !r.HasHit {
		r.Point = pos
	}
	return r
}

func raycastBox(origin, direction rl.Vector3, box AABB, maxDistance float32) (RayResult, bool) {
	min, max := box.Min, box.Max

	var tmin, tmax float32

	// X slab
	if direction.X != 0 {
		t1 := (min.X - origin.X) / direction.X
		t2 := (max.X - origin.X) / direction.X
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = t1
		tmax = t2
	} else if origin.X < min.X || origin.X > max.X {
		return RayResult{}, false
	} else {
		tmin = -1e30
		tmax = 1e30
	}

	// Y slab
	if direction.Y != 0 {
		t1 := (min.Y - origin.Y) / direction.Y
		t2 := (max.Y - origin.Y) / direction.Y
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if origin.Y < min.Y || origin.Y > max.Y {
		return RayResult{}, false
	}

	if tmin > tmax {
		return RayResult{}, false
	}

	// Z slab
	if direction.Z != 0 {
		t1 := (min.Z - origin.Z) / direction.Z
		t2 := (max.Z - origin.Z) / direction.Z
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if origin.Z < min.Z || origin.Z > max.Z {
		return RayResult{}, false
	}

	if tmin > tmax || tmax < 0 || tmin > maxDistance {
		return RayResult{}, false
	}

	// origin inside the box counts as an immediate hit
	t := tmin
	if t < 0 {
		t = 0
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))

	var normal rl.Vector3
	epsilon := float32(0.001)
	if abs(point.X-min.X) < epsilon {
		normal = rl.Vector3{X: -1}
	} else if abs(point.X-max.X) < epsilon {
		normal = rl.Vector3{X: 1}
	} else if abs(point.Y-min.Y) < epsilon {
		normal = rl.Vector3{Y: -1}
	} else if abs(point.Y-max.Y) < epsilon {
		normal = rl.Vector3{Y: 1}
	} else if abs(point.Z-min.Z) < epsilon {
		normal = rl.Vector3{Z: -1}
	} else {
		normal = rl.Vector3{Z: 1}
	}

	return RayResult{Point: point, Normal: normal, Distance: t, HasHit: true}, true
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
