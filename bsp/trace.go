// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/chewxy/math32"

	"gobsp/math"
	"gobsp/math/vec"
)

// distEpsilon keeps clipped fractions slightly on the near side of the hit
// plane so the next trace does not start inside coplanar geometry.
const distEpsilon = 0.01

// Trace is the result of a sweep. Fraction 1 means the motion was
// unobstructed, anything below is how far along start->end it got before
// hitting the surface with HitNormal. EntPointer/EntNumber identify a
// dynamic object, they are only set by callers merging dynamic hits.
type Trace struct {
	AllSolid   bool
	StartSolid bool
	Fraction   float32
	EndPos     vec.Vec3
	HitNormal  vec.Vec3
	EntPointer bool
	EntNumber  int
}

// traceWork is the per call accumulator threaded through the recursion.
// Everything in here is call local, concurrent traces never share state.
type traceWork struct {
	contents uint32
	start    vec.Vec3
	end      vec.Vec3
	extents  vec.Vec3
	isPoint  bool
	checked  []bool // one flag per brush, leafs share brushes
	trace    *Trace
}

// LeafIndex returns the index of the leaf containing p.
func (m *Model) LeafIndex(p vec.Vec3) int {
	num := int32(0)
	for num >= 0 {
		node := &m.Nodes[num]
		plane := &m.Planes[node.Plane]
		// what side of the plane is this point on
		d := func() float32 {
			if plane.Type < 3 {
				return p[plane.Type] - plane.Dist
			}
			return vec.DoublePrecDot(plane.Normal, p) - plane.Dist
		}()
		if d >= 0 {
			num = node.Children[0]
		} else {
			num = node.Children[1]
		}
	}
	return decodeLeaf(num)
}

// Contents returns the content flags at p.
func (m *Model) Contents(p vec.Vec3) uint32 {
	return m.Leafs[m.LeafIndex(p)].Contents
}

// BoxCheck reports whether a stationary box at pos overlaps anything
// matching mask.
func (m *Model) BoxCheck(mask uint32, pos, extents vec.Vec3) bool {
	t := m.trace(m.Submodels[0].HeadNode, mask, pos, pos, extents, false)
	return t.StartSolid
}

// BoxTrace sweeps a box through the given submodel and returns what was hit
// and where, if anything.
func (m *Model) BoxTrace(modelIndex int, mask uint32, start, end, extents vec.Vec3) Trace {
	return m.trace(m.Submodels[modelIndex].HeadNode, mask, start, end, extents, false)
}

// LineTrace sweeps a point through the given submodel and returns what was
// hit and where, if anything.
func (m *Model) LineTrace(modelIndex int, mask uint32, start, end vec.Vec3) Trace {
	return m.trace(m.Submodels[modelIndex].HeadNode, mask, start, end, vec.Vec3{}, true)
}

func (m *Model) trace(headNode int32, mask uint32, start, end, extents vec.Vec3, isPoint bool) Trace {
	t := Trace{Fraction: 1}
	w := traceWork{
		contents: mask,
		start:    start,
		end:      end,
		extents:  extents,
		isPoint:  isPoint,
		checked:  make([]bool, len(m.Brushes)),
		trace:    &t,
	}
	m.recursiveTrace(&w, headNode, 0, 1)

	if t.Fraction == 1 {
		t.EndPos = end
	} else {
		t.EndPos = vec.Add(start, vec.Scale(t.Fraction, vec.Sub(end, start)))
	}
	return t
}

func (m *Model) recursiveTrace(w *traceWork, num int32, p1f, p2f float32) {
	if w.trace.Fraction <= p1f {
		return // already hit something nearer
	}

	if num < 0 {
		m.traceToLeaf(w, decodeLeaf(num))
		return
	}

	node := &m.Nodes[num]
	plane := &m.Planes[node.Plane]

	var t1, t2, offset float32
	if plane.Type < 3 {
		t1 = w.start[plane.Type] - plane.Dist
		t2 = w.end[plane.Type] - plane.Dist
		if !w.isPoint {
			offset = w.extents[plane.Type]
		}
	} else {
		t1 = vec.Dot(plane.Normal, w.start) - plane.Dist
		t2 = vec.Dot(plane.Normal, w.end) - plane.Dist
		if !w.isPoint {
			offset = math32.Abs(w.extents[0]*plane.Normal[0]) +
				math32.Abs(w.extents[1]*plane.Normal[1]) +
				math32.Abs(w.extents[2]*plane.Normal[2])
		}
	}

	if t1 >= offset && t2 >= offset {
		m.recursiveTrace(w, node.Children[0], p1f, p2f)
		return
	}
	if t1 < -offset && t2 < -offset {
		m.recursiveTrace(w, node.Children[1], p1f, p2f)
		return
	}

	// the segment straddles the plane, front side first so the nearest hit
	// is found first
	m.recursiveTrace(w, node.Children[0], p1f, p2f)
	m.recursiveTrace(w, node.Children[1], p1f, p2f)
}

func (m *Model) traceToLeaf(w *traceWork, leafIdx int) {
	leaf := &m.Leafs[leafIdx]
	if leaf.Contents&w.contents == 0 {
		return
	}

	for i := 0; i < int(leaf.NumLeafBrushes); i++ {
		brushIdx := m.LeafBrushes[int(leaf.FirstLeafBrush)+i]
		// brushes span leafs, clip against each only once per trace
		if w.checked[brushIdx] {
			continue
		}
		w.checked[brushIdx] = true

		if m.Brushes[brushIdx].Contents&w.contents == 0 {
			continue
		}

		m.clipBrush(w, int(brushIdx))

		if w.trace.Fraction <= 0 {
			return
		}
	}
}

func (m *Model) clipBrush(w *traceWork, brushIdx int) {
	brush := &m.Brushes[brushIdx]
	if brush.NumSides == 0 {
		return
	}

	var hitNormal vec.Vec3
	enterFrac := float32(-math32.MaxFloat32)
	exitFrac := float32(1)
	startOut := false
	getOut := false

	for i := uint32(0); i < brush.NumSides; i++ {
		side := &m.BrushSides[brush.FirstSide+i]
		plane := &m.Planes[side.Plane]

		dist := plane.Dist
		if !w.isPoint {
			// push the plane out by the support distance of the box
			dist = plane.Dist - vec.Dot(supportOffset(plane.Normal, w.extents), plane.Normal)
		}

		d1 := vec.Dot(w.start, plane.Normal) - dist
		d2 := vec.Dot(w.end, plane.Normal) - dist

		if d2 > 0 {
			getOut = true // endpoint is not in solid
		}
		if d1 > 0 {
			startOut = true
		}

		// the segment stays completely in front of this side, the convex
		// brush cannot be hit
		if d1 > 0 && d2 >= d1 {
			return
		}
		if d1 <= 0 && d2 <= 0 {
			continue
		}

		if d1 > d2 {
			// entering the brush
			f := (d1 - distEpsilon) / (d1 - d2)
			if f > enterFrac {
				enterFrac = f
				hitNormal = plane.Normal
			}
		} else {
			// leaving the brush
			f := (d1 + distEpsilon) / (d1 - d2)
			if f < exitFrac {
				exitFrac = f
			}
		}
	}

	if !startOut {
		// original point was inside the brush
		w.trace.StartSolid = true
		if !getOut {
			w.trace.AllSolid = true
		}
		return
	}

	if enterFrac < exitFrac {
		if enterFrac > -math32.MaxFloat32 && enterFrac < w.trace.Fraction {
			w.trace.Fraction = math.Clamp(0, enterFrac, 1)
			w.trace.HitNormal = hitNormal
		}
	}
}

// supportOffset is the corner of a box with the given half extents that
// reaches furthest against the plane normal.
func supportOffset(normal, extents vec.Vec3) vec.Vec3 {
	var o vec.Vec3
	for i := 0; i < 3; i++ {
		if normal[i] < 0 {
			o[i] = extents[i]
		} else {
			o[i] = -extents[i]
		}
	}
	return o
}
