// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"gobsp/math/vec"
)

// Content flags. Each leaf and brush carries the union of the flags of the
// geometry it holds, traces test them against a caller supplied mask.
const (
	CONTENTS_SOLID uint32 = 1 << iota
	CONTENTS_WINDOW
	CONTENTS_AUX
	CONTENTS_LAVA
	CONTENTS_SLIME
	CONTENTS_WATER
	CONTENTS_MIST
)

const (
	// MASK_SOLID is what blocks movement
	MASK_SOLID = CONTENTS_SOLID | CONTENTS_WINDOW
	// MASK_WATER is what swims
	MASK_WATER = CONTENTS_WATER | CONTENTS_LAVA | CONTENTS_SLIME
)

// Plane is a splitting or brush side plane. Type 0,1,2 marks planes aligned
// to the X,Y,Z axis and enables cheaper distance tests, anything else is a
// general plane.
type Plane struct {
	Normal vec.Vec3
	Dist   float32
	Type   byte
}

// Node is an interior tree node. A child >= 0 is a node index, a child < 0
// encodes a leaf index.
type Node struct {
	Plane    uint32
	Children [2]int32
}

type Leaf struct {
	Contents       uint32
	Cluster        uint16
	Area           uint16
	Mins           vec.Vec3
	Maxs           vec.Vec3
	FirstLeafBrush uint16
	NumLeafBrushes uint16
}

// Brush is a convex volume bounded by NumSides half spaces. A brush with
// zero sides is inert and never reports a hit.
type Brush struct {
	FirstSide uint32
	NumSides  uint32
	Contents  uint32
}

// BrushSide is one half space constraint of a brush, inside is the negative
// side of the plane normal.
type BrushSide struct {
	Plane uint16
}

// Submodel is an independently placeable sub tree, submodel 0 is the world,
// the others are brush entities like doors and platforms.
type Submodel struct {
	Mins     vec.Vec3
	Maxs     vec.Vec3
	Origin   vec.Vec3
	HeadNode int32
}

// Model is the collision view of a loaded map. It is immutable after Load
// and may be read by any number of concurrent traces.
type Model struct {
	name string

	Planes      []Plane
	Nodes       []Node
	Leafs       []Leaf
	LeafBrushes []uint16
	Brushes     []Brush
	BrushSides  []BrushSide
	Submodels   []Submodel
	Entities    []*Entity
}

func (m *Model) Name() string {
	return m.name
}

// leaf indices are encoded in node children as negative values: -(idx + 1)
func encodeLeaf(idx int) int32 {
	return int32(-idx - 1)
}

func decodeLeaf(child int32) int {
	return int(-child - 1)
}
