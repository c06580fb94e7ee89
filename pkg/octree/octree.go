// Package octree implements the spatial index (spec.md §4.1) that backs
// the irradiance cache: a sparse octree keyed by an integer (x, y, z, size)
// node identifier, sized so that a block's influence sphere always fits
// inside the expanded bounds of the node it is filed under.
package octree

import "github.com/df07/povcore/pkg/core"

// nodeID identifies a cube in the implicit infinite octree: the cube
// [x*edge, (x+1)*edge] × … where edge = 2^size. Unlike POV-Ray's historical
// biased-exponent encoding (size stored as a raw IEEE-style biased byte),
// this uses a plain signed exponent — same node geometry, without the bit-
// packing artifact of the original C implementation (see DESIGN.md).
type nodeID struct {
	X, Y, Z int64
	Size    int
}

func (id nodeID) edge() float64 { return pow2(id.Size) }

// bounds returns the node's expanded bounds: the nominal cube grown by half
// its edge on every side, which is what query uses to decide whether to
// recurse into a child (spec.md §4.1 "Query pruning").
func (id nodeID) bounds() core.AABB {
	e := id.edge()
	half := e * 0.5
	min := core.NewVec3(float64(id.X)*e-half, float64(id.Y)*e-half, float64(id.Z)*e-half)
	max := core.NewVec3(float64(id.X+1)*e+half, float64(id.Y+1)*e+half, float64(id.Z+1)*e+half)
	return core.NewAABB(min, max)
}

// containsSphere reports whether this node's expanded bounds (see bounds)
// contain the sphere (center, radius) on every axis — the test insert uses
// to pick a candidate node before walking up to a parent.
func (id nodeID) containsSphere(center core.Vec3, radius float64) bool {
	b := id.bounds()
	lo, hi := b.Min, b.Max
	return center.X-radius >= lo.X && center.X+radius <= hi.X &&
		center.Y-radius >= lo.Y && center.Y+radius <= hi.Y &&
		center.Z-radius >= lo.Z && center.Z+radius <= hi.Z
}

// parent returns the node one level up, indices halved toward negative
// infinity so a node and its parent nest consistently regardless of sign.
func (id nodeID) parent() nodeID {
	return nodeID{X: floorDiv2(id.X), Y: floorDiv2(id.Y), Z: floorDiv2(id.Z), Size: id.Size + 1}
}

// childIndex returns which of the 8 child slots id's current position
// occupies within its parent, by the parity of each axis index.
func (id nodeID) childIndex() int {
	idx := 0
	if id.X&1 != 0 {
		idx |= 1
	}
	if id.Y&1 != 0 {
		idx |= 2
	}
	if id.Z&1 != 0 {
		idx |= 4
	}
	return idx
}

// child returns the node identifying the given child slot (0-7) of id.
func (id nodeID) child(slot int) nodeID {
	x, y, z := id.X*2, id.Y*2, id.Z*2
	if slot&1 != 0 {
		x++
	}
	if slot&2 != 0 {
		y++
	}
	if slot&4 != 0 {
		z++
	}
	return nodeID{X: x, Y: y, Z: z, Size: id.Size - 1}
}

func floorDiv2(v int64) int64 {
	if v >= 0 {
		return v / 2
	}
	return -((-v + 1) / 2)
}

func pow2(size int) float64 {
	if size >= 0 {
		return float64(int64(1) << uint(size))
	}
	v := 1.0
	for i := 0; i < -size; i++ {
		v *= 0.5
	}
	return v
}

// node is one octree node: its identity, up to 8 children, and the blocks
// filed directly at this level.
type node struct {
	id       nodeID
	children [8]*node
	blocks   []*core.IrradianceBlock
}

// Octree is the spatial index of gathered irradiance samples. A nil root
// means the tree is empty; the root is created and grown lazily on first
// insert (spec.md §4.1 "Insert").
type Octree struct {
	root *node
}

// New creates an empty octree.
func New() *Octree { return &Octree{} }

// nodeIDFor computes the smallest node whose bounds strictly contain the
// sphere (center, radius), per spec.md §4.1 "Node-ID computation".
func nodeIDFor(center core.Vec3, radius float64) nodeID {
	size := exponentFor(2 * radius)

	// Far-and-tiny guard: keep doubling until the node count stays sane
	// relative to the distance from the origin.
	for pow2(size) > 0 && vecMaxAbs(center)/pow2(size) > 1e9 {
		size++
	}

	for {
		edge := pow2(size)
		base := nodeID{
			X:    floorDivF(center.X, edge),
			Y:    floorDivF(center.Y, edge),
			Z:    floorDivF(center.Z, edge),
			Size: size,
		}
		if found, ok := findContainingVariant(base, center, radius); ok {
			return found
		}
		size++
	}
}

// findContainingVariant tests base and its seven lower neighbors (each
// index reduced by 0 or 1) and returns the first whose bounds contain the full
// sphere, per spec.md §4.1.
func findContainingVariant(base nodeID, center core.Vec3, radius float64) (nodeID, bool) {
	for dx := int64(0); dx <= 1; dx++ {
		for dy := int64(0); dy <= 1; dy++ {
			for dz := int64(0); dz <= 1; dz++ {
				candidate := nodeID{X: base.X - dx, Y: base.Y - dy, Z: base.Z - dz, Size: base.Size}
				if candidate.containsSphere(center, radius) {
					return candidate, true
				}
			}
		}
	}
	return nodeID{}, false
}

func exponentFor(v float64) int {
	if v <= 0 {
		return 0
	}
	size := 0
	edge := 1.0
	for edge < v {
		edge *= 2
		size++
	}
	for edge/2 >= v && size > 0 {
		edge /= 2
		size--
	}
	return size
}

func floorDivF(v, edge float64) int64 {
	q := v / edge
	f := int64(q)
	if q < 0 && float64(f) != q {
		f--
	}
	return f
}

func vecMaxAbs(v core.Vec3) float64 {
	m := absf(v.X)
	if a := absf(v.Y); a > m {
		m = a
	}
	if a := absf(v.Z); a > m {
		m = a
	}
	return m
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Insert places block in the smallest node whose bounds contain the sphere
// (center, radius), growing the root upward as needed.
func (o *Octree) Insert(center core.Vec3, radius float64, block *core.IrradianceBlock) {
	target := nodeIDFor(center, radius)

	if o.root == nil {
		o.root = &node{id: target}
	}
	for o.root.id.Size < target.Size {
		o.growRoot()
	}
	for !ancestorOf(o.root.id, target) {
		o.growRoot()
	}

	n := o.descend(target)
	n.blocks = append(n.blocks, block)
}

// growRoot replaces the root with its parent, reattaching the old root as
// the appropriate child (spec.md §4.1 "newroot").
func (o *Octree) growRoot() {
	parentID := o.root.id.parent()
	newRoot := &node{id: parentID}
	newRoot.children[o.root.id.childIndex()] = o.root
	o.root = newRoot
}

// ancestorOf reports whether target's cube nests inside a's cube (a at the
// same or a larger size, and target's indices fall within a's at a's size).
func ancestorOf(a, target nodeID) bool {
	if a.Size < target.Size {
		return false
	}
	t := target
	for t.Size < a.Size {
		t = t.parent()
	}
	return t.X == a.X && t.Y == a.Y && t.Z == a.Z
}

// descend walks from the root to target, creating intermediate children as
// needed.
func (o *Octree) descend(target nodeID) *node {
	n := o.root
	for n.id.Size > target.Size {
		t := target
		for t.Size < n.id.Size-1 {
			t = t.parent()
		}
		slot := t.childIndex()
		if n.children[slot] == nil {
			n.children[slot] = &node{id: n.id.child(slot)}
		}
		n = n.children[slot]
	}
	return n
}

// Visit is called once per candidate block during Query; returning false
// stops the traversal early.
type Visit func(block *core.IrradianceBlock) bool

// Query invokes visit for every block whose node's expanded bounds contain
// point, pruning subtrees whose bounds exclude it (spec.md §4.1 "Query
// pruning"). maxDepth caps recursion depth as a defensive bound; 0 means
// unbounded.
func (o *Octree) Query(point core.Vec3, maxDepth int, visit Visit) {
	if o.root == nil {
		return
	}
	queryNode(o.root, point, maxDepth, visit)
}

func queryNode(n *node, point core.Vec3, depthLeft int, visit Visit) bool {
	if !n.id.bounds().Contains(point) {
		return true
	}
	for _, b := range n.blocks {
		if !visit(b) {
			return false
		}
	}
	if depthLeft == 1 {
		return true // depth budget exhausted: report this level, don't recurse
	}
	next := depthLeft
	if next > 0 {
		next--
	}
	for _, c := range n.children {
		if c == nil {
			continue
		}
		if !queryNode(c, point, next, visit) {
			return false
		}
	}
	return true
}
