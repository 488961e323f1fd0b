package bvh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbox/agentbox/solid"
)

func TestTwoSolidBVH(t *testing.T) {
	solids := []solid.Solid{
		solid.NewSphere(mgl32.Vec3{0, 0, 0}, 1, mgl32.Vec3{1, 1, 1}),
		solid.NewSphere(mgl32.Vec3{10, 0, 0}, 1, mgl32.Vec3{1, 1, 1}),
	}
	tree := Build(solids)
	require.Len(t, tree, 3)

	root := tree[0]
	assert.InDelta(t, -1, root.Min.X(), 1e-6)
	assert.InDelta(t, -1, root.Min.Y(), 1e-6)
	assert.InDelta(t, -1, root.Min.Z(), 1e-6)
	assert.InDelta(t, 11, root.Max.X(), 1e-6)
	assert.InDelta(t, 1, root.Max.Y(), 1e-6)
	assert.InDelta(t, 1, root.Max.Z(), 1e-6)
	assert.NotEqual(t, NoRightChild, root.Right)

	leftChild := tree[root.Left]
	rightChild := tree[root.Right]
	assert.Equal(t, NoRightChild, leftChild.Right)
	assert.Equal(t, NoRightChild, rightChild.Right)

	seen := map[uint32]bool{leftChild.Left: true, rightChild.Left: true}
	assert.True(t, seen[0])
	assert.True(t, seen[1])
}

func TestBVHSizeIsTwoNMinusOne(t *testing.T) {
	var solids []solid.Solid
	for i := 0; i < 7; i++ {
		solids = append(solids, solid.NewSphere(mgl32.Vec3{float32(i) * 3, 0, 0}, 1, mgl32.Vec3{1, 1, 1}))
	}
	tree := Build(solids)
	assert.Len(t, tree, 2*len(solids)-1)
}

func TestBVHSingleSolid(t *testing.T) {
	solids := []solid.Solid{solid.NewSphere(mgl32.Vec3{0, 0, 0}, 1, mgl32.Vec3{1, 1, 1})}
	tree := Build(solids)
	require.Len(t, tree, 1)
	assert.Equal(t, NoRightChild, tree[0].Right)
}

func TestBVHInternalNodesContainChildren(t *testing.T) {
	var solids []solid.Solid
	for i := 0; i < 12; i++ {
		solids = append(solids, solid.NewSphere(mgl32.Vec3{float32(i) * float32(i), float32(i % 3), 0}, 0.5, mgl32.Vec3{1, 1, 1}))
	}
	tree := Build(solids)
	for _, node := range tree {
		if node.Right == NoRightChild {
			continue
		}
		left := tree[node.Left]
		right := tree[node.Right]
		assertContains(t, node, left)
		assertContains(t, node, right)
	}
}

func assertContains(t *testing.T, parent, child Node) {
	t.Helper()
	assert.LessOrEqual(t, parent.Min.X(), child.Min.X()+1e-5)
	assert.LessOrEqual(t, parent.Min.Y(), child.Min.Y()+1e-5)
	assert.LessOrEqual(t, parent.Min.Z(), child.Min.Z()+1e-5)
	assert.GreaterOrEqual(t, parent.Max.X(), child.Max.X()-1e-5)
	assert.GreaterOrEqual(t, parent.Max.Y(), child.Max.Y()-1e-5)
	assert.GreaterOrEqual(t, parent.Max.Z(), child.Max.Z()-1e-5)
}

func TestNodeBytesLength(t *testing.T) {
	n := Node{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}, Left: 0, Right: NoRightChild}
	assert.Len(t, n.Bytes(), 32)
}
