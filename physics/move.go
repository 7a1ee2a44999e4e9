// SPDX-License-Identifier: GPL-2.0-or-later

package physics

import (
	"gobsp/bsp"
	"gobsp/math/vec"
)

// Tracer is the collision query movement integrates against. Implementations
// usually wrap Model.BoxTrace and merge in sweeps against dynamic objects,
// keeping only the nearest hit.
type Tracer interface {
	Cast(mask uint32, start, end, extents vec.Vec3) bsp.Trace
}

// WorldTracer casts against one submodel of a static world.
type WorldTracer struct {
	Model    *bsp.Model
	Submodel int
}

func (w WorldTracer) Cast(mask uint32, start, end, extents vec.Vec3) bsp.Trace {
	return w.Model.BoxTrace(w.Submodel, mask, start, end, extents)
}

const maxMoveIterations = 8

// TraceMove sweeps a box from startPos along velocity for delta seconds,
// sliding along any surfaces it hits. It returns the final position and
// velocity together with the first sweep's trace, which callers use for
// ground checks.
//
// When the sweep starts fully inside solid only the vertical velocity is
// zeroed, horizontal velocity is kept so a stuck mover can work itself free.
func TraceMove(startPos, velocity vec.Vec3, delta float32, allowSliding bool, extents vec.Vec3, tracer Tracer) (vec.Vec3, vec.Vec3, bsp.Trace) {
	curPos := startPos
	curVelocity := velocity
	remaining := delta

	var planes [maxMoveIterations]vec.Vec3
	numPlanes := 0

	retTrace := bsp.Trace{Fraction: 1}

	for bump := 0; bump < maxMoveIterations; bump++ {
		end := vec.Add(curPos, vec.Scale(remaining, curVelocity))
		t := tracer.Cast(bsp.MASK_SOLID, curPos, end, extents)

		if t.AllSolid {
			curVelocity[2] = 0 // don't build vertical velocity while stuck
			return curPos, curVelocity, t
		}

		if t.Fraction > 0 {
			// covered some distance, plane clips start fresh
			curPos = t.EndPos
			remaining -= remaining * t.Fraction
			numPlanes = 0
		}

		if retTrace.Fraction == 1 {
			retTrace = t
		}

		if t.Fraction == 1 || !allowSliding {
			break
		}

		planes[numPlanes] = t.HitNormal
		numPlanes++

		// clip the velocity to each touched plane until it no longer
		// re-enters any of the others
		i := 0
		for ; i < numPlanes; i++ {
			backoff := vec.Dot(curVelocity, planes[i]) * 1.01
			curVelocity = vec.Sub(curVelocity, vec.Scale(backoff, planes[i]))

			j := 0
			for ; j < numPlanes; j++ {
				if j != i {
					if vec.Dot(curVelocity, planes[j]) < 0 {
						break // not ok
					}
				}
			}
			if j == numPlanes {
				break
			}
		}

		if i == numPlanes {
			// no single plane works, go along the crease
			if numPlanes != 2 {
				break
			}
			dir := vec.Cross(planes[0], planes[1])
			d := vec.Dot(dir, curVelocity)
			curVelocity = vec.Scale(d, dir)
		}
	}

	return curPos, curVelocity, retTrace
}
