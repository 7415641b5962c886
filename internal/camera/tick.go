package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AngleMod wraps a into (-180, 180].
func AngleMod(a float32) float32 {
	a = float32(math.Mod(float64(a), 360))
	if a <= -180 {
		a += 360
	}
	if a > 180 {
		a -= 360
	}
	return a
}

// followBand is the delta beyond which FollowAngle closes the excess in one
// step.
const followBand = 45

// FollowAngle steps ang toward dest by at most speed degrees along the
// shorter arc. A delta wider than the ±45 band is cut back to the band
// edge in one step.
func FollowAngle(ang, dest, speed float32) float32 {
	da := AngleMod(dest - ang)
	if abs(da) < speed {
		return dest
	}

	var shift float32
	if da > 0 {
		shift = min(da, speed)
	}
	if da < 0 {
		shift = -min(-da, speed)
	}

	if da > followBand+1 {
		shift = da - followBand
	}
	if da < -followBand-1 {
		shift = da + followBand
	}
	return ang + shift
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Tick advances the current state toward the destination. dt is in
// milliseconds; inMove selects the mode's travel speed over the distance
// proportional one; includeRot enables the spin follow. Without a player
// the camera stays where it is.
func (c *Camera) Tick(dt uint64, inMove, includeRot bool) {
	pl := c.player()
	if pl == nil {
		return
	}
	def := c.def()
	dtF := float32(dt) / 1000

	c.dest.Range = def.clampRange(c.dest.Range)

	if !c.hasPos {
		c.state.Range = c.dest.Range
		c.dest.Pos = pl.CameraBone()
		c.state.Pos = c.applyModPosition(c.dest.Pos)
		c.state.Spin = c.dest.Spin
		c.state.Spin.X += def.BestAzimuth
		c.hasPos = true
	}

	if c.world.IsPaused() {
		return
	}

	zSpeed := zoomSpeed * dtF
	dz := c.dest.Range - c.state.Range
	switch {
	case abs(dz) < zSpeed:
		c.state.Range = c.dest.Range
	case c.state.Range < c.dest.Range:
		c.state.Range += zSpeed
	case c.state.Range > c.dest.Range:
		c.state.Range -= zSpeed
	}

	pos := c.applyModPosition(c.dest.Pos)
	dp := rl.Vector3Subtract(pos, c.state.Pos)
	length := rl.Vector3Length(dp)
	if length > deadZone && def.Translate && c.mode != Dialog && c.mode != Mobsi {
		var speed float32
		if inMove {
			speed = def.VeloTrans * dtF
		} else {
			speed = length * dtF * 2
		}
		tr := min(speed, length)
		if length-tr > maxLag {
			tr = length - maxLag
		}
		c.state.Pos = rl.Vector3Add(c.state.Pos, rl.Vector3Scale(dp, tr/length))
	} else {
		c.state.Pos = pos
	}

	if includeRot {
		rotation := c.dest.Spin
		shift := def.VeloRot * 45 * dtF
		c.state.Spin.X = FollowAngle(c.state.Spin.X, rotation.X, shift)
		c.state.Spin.Y = FollowAngle(c.state.Spin.Y, rotation.Y, shift)

		if c.state.Spin.X > def.MaxElevation {
			c.state.Spin.X = def.MaxElevation
		}
		// MinElevation is not enforced
	}
}
