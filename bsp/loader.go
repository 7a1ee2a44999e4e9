package bsp

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/pkg/errors"

	"gobsp/math/vec"
)

const (
	bspMagic   = 0x50534249 // "IBSP"
	bspVersion = 38
)

// lump directory order in the file header
const (
	lumpEntities = iota
	lumpPlanes
	lumpVertices
	lumpVisibility
	lumpNodes
	lumpTexInfo
	lumpFaces
	lumpLighting
	lumpLeafs
	lumpLeafFaces
	lumpLeafBrushes
	lumpEdges
	lumpFaceEdges
	lumpModels
	lumpBrushes
	lumpBrushSides
	lumpPop
	lumpAreas
	lumpAreaPortals
	lumpCount
)

// called lump_t in the original tools
type directory struct {
	Offset int32
	Size   int32
}

type header struct {
	Magic   uint32
	Version uint32
	Lumps   [lumpCount]directory
}

// on disk layouts, little endian
type diskPlane struct {
	Normal [3]float32
	Dist   float32
	Type   uint32
}

type diskNode struct {
	Plane     uint32
	Children  [2]int32
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	NumFaces  uint16
}

type diskLeaf struct {
	Contents       uint32
	Cluster        uint16
	Area           uint16
	Mins           [3]int16
	Maxs           [3]int16
	FirstLeafFace  uint16
	NumLeafFaces   uint16
	FirstLeafBrush uint16
	NumLeafBrushes uint16
}

type diskBrush struct {
	FirstSide uint32
	NumSides  uint32
	Contents  uint32
}

type diskBrushSide struct {
	Plane   uint16
	TexInfo int16
}

type diskSubmodel struct {
	Mins      [3]float32
	Maxs      [3]float32
	Origin    [3]float32
	HeadNode  int32
	FirstFace int32
	NumFaces  int32
}

// LoadFile reads a .bsp from disk and returns its collision model.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(path, data)
}

// Load parses the collision relevant lumps of an IBSP v38 map. Rendering
// lumps (vertices, faces, visibility, lighting) are left untouched. The
// returned model is fully validated, traces never bounds check.
func Load(name string, data []byte) (*Model, error) {
	buf := bytes.NewReader(data)
	var h header
	if err := binary.Read(buf, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrapf(err, "%s: reading header", name)
	}
	if h.Magic != bspMagic {
		return nil, errors.Errorf("%s is not an IBSP file", name)
	}
	if h.Version != bspVersion {
		return nil, errors.Errorf("%s has wrong version number (%d should be %d)",
			name, h.Version, bspVersion)
	}

	m := &Model{name: name}

	planes, err := readLump[diskPlane](data, h.Lumps[lumpPlanes], "planes")
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	m.Planes = make([]Plane, len(planes))
	for i, p := range planes {
		t := byte(3)
		if p.Type < 3 {
			t = byte(p.Type)
		}
		m.Planes[i] = Plane{
			Normal: vec.VFromA(p.Normal),
			Dist:   p.Dist,
			Type:   t,
		}
	}

	nodes, err := readLump[diskNode](data, h.Lumps[lumpNodes], "nodes")
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	m.Nodes = make([]Node, len(nodes))
	for i, n := range nodes {
		m.Nodes[i] = Node{Plane: n.Plane, Children: n.Children}
	}

	leafs, err := readLump[diskLeaf](data, h.Lumps[lumpLeafs], "leafs")
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	m.Leafs = make([]Leaf, len(leafs))
	for i, l := range leafs {
		m.Leafs[i] = Leaf{
			Contents:       l.Contents,
			Cluster:        l.Cluster,
			Area:           l.Area,
			Mins:           shortVec(l.Mins),
			Maxs:           shortVec(l.Maxs),
			FirstLeafBrush: l.FirstLeafBrush,
			NumLeafBrushes: l.NumLeafBrushes,
		}
	}

	m.LeafBrushes, err = readLump[uint16](data, h.Lumps[lumpLeafBrushes], "leaf brushes")
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	brushes, err := readLump[diskBrush](data, h.Lumps[lumpBrushes], "brushes")
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	m.Brushes = make([]Brush, len(brushes))
	for i, b := range brushes {
		m.Brushes[i] = Brush{
			FirstSide: b.FirstSide,
			NumSides:  b.NumSides,
			Contents:  b.Contents,
		}
	}

	sides, err := readLump[diskBrushSide](data, h.Lumps[lumpBrushSides], "brush sides")
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	m.BrushSides = make([]BrushSide, len(sides))
	for i, s := range sides {
		m.BrushSides[i] = BrushSide{Plane: s.Plane}
	}

	submodels, err := readLump[diskSubmodel](data, h.Lumps[lumpModels], "submodels")
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	m.Submodels = make([]Submodel, len(submodels))
	for i, s := range submodels {
		m.Submodels[i] = Submodel{
			Mins:     vec.VFromA(s.Mins),
			Maxs:     vec.VFromA(s.Maxs),
			Origin:   vec.VFromA(s.Origin),
			HeadNode: s.HeadNode,
		}
	}

	ents, err := lumpData(data, h.Lumps[lumpEntities], "entities")
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	m.Entities = ParseEntities(ents)

	if err := m.validate(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return m, nil
}

func shortVec(a [3]int16) vec.Vec3 {
	return vec.Vec3{float32(a[0]), float32(a[1]), float32(a[2])}
}

func lumpData(data []byte, d directory, what string) ([]byte, error) {
	if d.Offset < 0 || d.Size < 0 || int64(d.Offset)+int64(d.Size) > int64(len(data)) {
		return nil, errors.Errorf("%s lump out of file bounds", what)
	}
	return data[d.Offset : d.Offset+d.Size], nil
}

func readLump[T any](data []byte, d directory, what string) ([]T, error) {
	b, err := lumpData(data, d, what)
	if err != nil {
		return nil, err
	}
	var t T
	size := binary.Size(t)
	if len(b)%size != 0 {
		return nil, errors.Errorf("%s lump has odd size %d", what, len(b))
	}
	out := make([]T, len(b)/size)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, out); err != nil {
		return nil, errors.Wrapf(err, "reading %s lump", what)
	}
	return out, nil
}

// validate bounds checks every cross table index once. The trace path relies
// on this and dereferences without checks.
func (m *Model) validate() error {
	checkNode := func(c int32) error {
		if c < 0 {
			if l := decodeLeaf(c); l >= len(m.Leafs) {
				return errors.Errorf("leaf index %d out of range", l)
			}
			return nil
		}
		if int(c) >= len(m.Nodes) {
			return errors.Errorf("node index %d out of range", c)
		}
		return nil
	}
	for i, n := range m.Nodes {
		if int(n.Plane) >= len(m.Planes) {
			return errors.Errorf("node %d: plane index %d out of range", i, n.Plane)
		}
		for _, c := range n.Children {
			if err := checkNode(c); err != nil {
				return errors.Wrapf(err, "node %d", i)
			}
			// children always follow their parent, that keeps the tree acyclic
			if c >= 0 && c <= int32(i) {
				return errors.Errorf("node %d: child %d does not descend", i, c)
			}
		}
	}
	for i, l := range m.Leafs {
		if int(l.FirstLeafBrush)+int(l.NumLeafBrushes) > len(m.LeafBrushes) {
			return errors.Errorf("leaf %d: brush list out of range", i)
		}
	}
	for i, b := range m.LeafBrushes {
		if int(b) >= len(m.Brushes) {
			return errors.Errorf("leaf brush %d: brush index %d out of range", i, b)
		}
	}
	for i, b := range m.Brushes {
		if int64(b.FirstSide)+int64(b.NumSides) > int64(len(m.BrushSides)) {
			return errors.Errorf("brush %d: side list out of range", i)
		}
	}
	for i, s := range m.BrushSides {
		if int(s.Plane) >= len(m.Planes) {
			return errors.Errorf("brush side %d: plane index %d out of range", i, s.Plane)
		}
	}
	if len(m.Submodels) == 0 {
		return errors.New("no submodels, world headnode missing")
	}
	for i, s := range m.Submodels {
		if err := checkNode(s.HeadNode); err != nil {
			return errors.Wrapf(err, "submodel %d", i)
		}
	}
	return nil
}
