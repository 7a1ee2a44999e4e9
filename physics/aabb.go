// SPDX-License-Identifier: GPL-2.0-or-later

// Package physics moves boxes through a collision world, sliding them along
// the surfaces they touch. The world itself is queried through the Tracer
// interface, which lets callers merge static brush geometry and dynamic
// objects into one sweep.
package physics

import (
	"github.com/chewxy/math32"

	"gobsp/bsp"
	"gobsp/math"
	"gobsp/math/vec"
)

// matches the bias the brush tracer puts on its fractions
const distEpsilon = 0.01

// AABB is an axis aligned box given by its center and half extents.
type AABB struct {
	Center  vec.Vec3
	Extents vec.Vec3
}

func (b AABB) Min() vec.Vec3 {
	return vec.Sub(b.Center, b.Extents)
}

func (b AABB) Max() vec.Vec3 {
	return vec.Add(b.Center, b.Extents)
}

// TraceAABB clips the segment from start to end, optionally inflated by a
// moving box's half extents, against the six faces of bounds. A hit nearer
// than tr.Fraction updates tr and returns true, anything farther is
// discarded so merged results keep the nearest hit. The caller tags tr with
// the object that was hit.
func TraceAABB(bounds AABB, start, end vec.Vec3, extents *vec.Vec3, tr *bsp.Trace) bool {
	planes := [6]struct {
		normal vec.Vec3
		dist   float32
	}{
		{vec.Vec3{1, 0, 0}, bounds.Center[0] + bounds.Extents[0]},
		{vec.Vec3{-1, 0, 0}, -(bounds.Center[0] - bounds.Extents[0])},
		{vec.Vec3{0, 1, 0}, bounds.Center[1] + bounds.Extents[1]},
		{vec.Vec3{0, -1, 0}, -(bounds.Center[1] - bounds.Extents[1])},
		{vec.Vec3{0, 0, 1}, bounds.Center[2] + bounds.Extents[2]},
		{vec.Vec3{0, 0, -1}, -(bounds.Center[2] - bounds.Extents[2])},
	}

	var hitNormal vec.Vec3
	enterFrac := float32(-math32.MaxFloat32)
	exitFrac := float32(1)
	startOut := false
	getOut := false

	for _, p := range planes {
		dist := p.dist
		if extents != nil {
			var offs vec.Vec3
			for i := 0; i < 3; i++ {
				if p.normal[i] < 0 {
					offs[i] = extents[i]
				} else {
					offs[i] = -extents[i]
				}
			}
			dist = p.dist - vec.Dot(offs, p.normal)
		}

		d1 := vec.Dot(start, p.normal) - dist
		d2 := vec.Dot(end, p.normal) - dist

		if d2 > 0 {
			getOut = true
		}
		if d1 > 0 {
			startOut = true
		}
		if d1 > 0 && d2 >= d1 {
			return false
		}
		if d1 <= 0 && d2 <= 0 {
			continue
		}

		if d1 > d2 {
			f := (d1 - distEpsilon) / (d1 - d2)
			if f > enterFrac {
				enterFrac = f
				hitNormal = p.normal
			}
		} else {
			f := (d1 + distEpsilon) / (d1 - d2)
			if f < exitFrac {
				exitFrac = f
			}
		}
	}

	if !startOut {
		tr.StartSolid = true
		if !getOut {
			tr.AllSolid = true
		}
		return false
	}

	if enterFrac < exitFrac {
		if enterFrac > -math32.MaxFloat32 && enterFrac < tr.Fraction {
			enterFrac = math.Clamp(0, enterFrac, 1)
			tr.Fraction = enterFrac
			tr.HitNormal = hitNormal
			tr.EndPos = vec.Add(start, vec.Scale(enterFrac, vec.Sub(end, start)))
			return true
		}
	}

	return false
}
