// Package bvh builds a binary AABB tree over a list of solids using the
// nearest-neighbor chain algorithm, laid out as a flat array the GPU
// ray-marcher can traverse starting from index 0.
package bvh

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/agentbox/agentbox/solid"
)

// NoRightChild marks a leaf node: Right == NoRightChild means Left is an
// index into the solids buffer rather than another node.
const NoRightChild uint32 = math.MaxUint32

// Node is the 32-byte GPU-facing tree node: {min vec3, left u32, max vec3,
// right u32}.
type Node struct {
	Min   mgl32.Vec3
	Left  uint32
	Max   mgl32.Vec3
	Right uint32
}

func leaf(index int, s solid.Solid) Node {
	min, max := s.BoundingAABB()
	return Node{Min: min, Max: max, Left: uint32(index), Right: NoRightChild}
}

func branch(a, b Node, aIdx, bIdx uint32) Node {
	return Node{
		Min:   componentMin(a.Min, b.Min),
		Max:   componentMax(a.Max, b.Max),
		Left:  aIdx,
		Right: bIdx,
	}
}

// reflectChildIndices remaps a branch node's child indices after the
// whole tree has been reversed, so that lastIndex - i is the new position
// of whatever used to live at i. Leaves (Right == NoRightChild) are left
// untouched.
func (n *Node) reflectChildIndices(lastIndex uint32) {
	if n.Right != NoRightChild {
		n.Left = lastIndex - n.Left
		n.Right = lastIndex - n.Right
	}
}

// Build constructs the flat BVH over solids via the nearest-neighbor
// chain algorithm: every solid starts as its own active root; at each
// step we extend a "chain" of mutual-nearest candidates until two
// consecutive entries turn out to be each other's nearest neighbor, at
// which point they are joined into a new root and removed from the
// active set. When the metric ties, the scan below (inner loop b) keeps
// the *first* minimum encountered — i.e. ties favor the lowest surviving
// slice index — which is the deterministic tie-break this package
// commits to (see the BVH section of the design notes).
//
// Output has length 2*len(solids)-1, with the root at index 0.
func Build(solids []solid.Solid) []Node {
	n := len(solids)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Node{leaf(0, solids[0])}
	}

	// active[i] holds the current node living at working-set slot i, or
	// nil if that slot has been joined away. Slots 0..n-1 start as the
	// leaves; new joined nodes are appended past them.
	active := make([]*Node, n, 2*n-1)
	for i, s := range solids {
		nd := leaf(i, s)
		active[i] = &nd
	}
	numRoots := n

	totalNodes := 2*n - 1
	finalTree := make([]Node, totalNodes)

	var chain []int

	for numRoots > 1 {
		var current int
		for {
			if len(chain) == 0 {
				// Seed the chain with any still-active root, scanning from
				// the end first.
				for i := len(active) - 1; i >= 0; i-- {
					if active[i] != nil {
						chain = append(chain, i)
						break
					}
				}
			}
			current = chain[len(chain)-1]
			if active[current] != nil {
				break
			}
			chain = chain[:len(chain)-1]
		}

		nearest := -1
		bestCost := float32(math.Inf(1))
		for i, cand := range active {
			if i == current || cand == nil {
				continue
			}
			cost := metric(*active[current], *cand)
			if cost < bestCost {
				bestCost = cost
				nearest = i
			}
		}

		if len(chain) >= 2 && nearest == chain[len(chain)-2] {
			a, b := current, nearest
			joined := branch(*active[a], *active[b], uint32(a), uint32(b))
			finalTree[a] = *active[a]
			finalTree[b] = *active[b]
			active[a] = nil
			active[b] = nil
			active = append(active, &joined)
			numRoots--
			chain = chain[:len(chain)-2]
		} else {
			chain = append(chain, nearest)
		}
	}

	// Exactly one active root remains; it becomes the overall root,
	// placed at the last slot before reversal.
	var root *Node
	for i := len(active) - 1; i >= 0; i-- {
		if active[i] != nil {
			root = active[i]
			break
		}
	}
	finalTree[totalNodes-1] = *root

	// Reverse so the root lands at index 0, then remap every branch's
	// child indices to match.
	for i, j := 0, totalNodes-1; i < j; i, j = i+1, j-1 {
		finalTree[i], finalTree[j] = finalTree[j], finalTree[i]
	}
	last := uint32(totalNodes - 1)
	for i := range finalTree {
		finalTree[i].reflectChildIndices(last)
	}
	return finalTree
}

// metric is the Surface Area Heuristic proxy: the increase in total
// surface area (up to a constant factor) from joining a and b.
func metric(a, b Node) float32 {
	aExtent := a.Max.Sub(a.Min)
	bExtent := b.Max.Sub(b.Min)
	cExtent := componentMax(a.Max, b.Max).Sub(componentMin(a.Min, b.Min))
	return area(cExtent) - area(aExtent) - area(bExtent)
}

func area(e mgl32.Vec3) float32 {
	return e.X()*e.Y() + e.Y()*e.Z() + e.Z()*e.X()
}

func componentMin(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Min(float64(a.X()), float64(b.X()))),
		float32(math.Min(float64(a.Y()), float64(b.Y()))),
		float32(math.Min(float64(a.Z()), float64(b.Z()))),
	}
}

func componentMax(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Max(float64(a.X()), float64(b.X()))),
		float32(math.Max(float64(a.Y()), float64(b.Y()))),
		float32(math.Max(float64(a.Z()), float64(b.Z()))),
	}
}

// Bytes packs a node into its 32-byte GPU layout: min vec3, left u32, max
// vec3, right u32, little-endian.
func (n Node) Bytes() [32]byte {
	var out [32]byte
	putVec3(out[0:12], n.Min)
	binary.LittleEndian.PutUint32(out[12:16], n.Left)
	putVec3(out[16:28], n.Max)
	binary.LittleEndian.PutUint32(out[28:32], n.Right)
	return out
}

func putVec3(dst []byte, v mgl32.Vec3) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(v.X()))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(v.Y()))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(v.Z()))
}
