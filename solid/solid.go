// Package solid implements the uniform affine encoding used to hand every
// sphere, cylinder, and cuboid to the GPU ray-marcher as a single 4x4
// matrix, plus the bounding-box query the BVH builder needs.
package solid

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the primitive discriminant packed into a Solid's last matrix
// row. It round-trips through float32 without loss for these three
// values, which is what lets the GPU read it back out of the same row
// that carries color.
type Kind float32

const (
	Sphere   Kind = 1.0
	Cylinder Kind = 2.0
	Cuboid   Kind = 4.0
)

func (k Kind) valid() bool {
	return k == Sphere || k == Cylinder || k == Cuboid
}

// Solid is a world-to-local affine transform with its last row (row 3)
// repurposed to carry (color.r, color.g, color.b, kind). The top-left 3x3
// plus the first three entries of the fourth column are a genuine affine
// map; row 3 reads (0, 0, 0, 1) before that overwrite (see WorldToLocal
// below, which puts that row back). Bytes writes the matrix row-major, so
// a shader reading it as a column-major mat4x4 sees the payload as the
// fourth column.
type Solid mgl32.Mat4

// NewSphere builds the world-to-local transform for a sphere of the given
// radius centered at pos: scale(1/radius) then translate(-pos).
func NewSphere(pos mgl32.Vec3, radius float32, color mgl32.Vec3) Solid {
	worldToLocal := mgl32.Scale3D(1/radius, 1/radius, 1/radius).Mul4(mgl32.Translate3D(-pos.X(), -pos.Y(), -pos.Z()))
	return newSolid(worldToLocal, color, Sphere)
}

// NewCylinder builds the world-to-local transform for a cylinder of the
// given radius running between the two endpoints. The unit cylinder
// extends +-1 along local z and +-1 radially in local xy.
func NewCylinder(a, b mgl32.Vec3, radius float32, color mgl32.Vec3) Solid {
	mid := a.Add(b).Mul(0.5)
	axis := a.Sub(mid)
	length := axis.Len()
	unitZ := mgl32.Vec3{0, 0, 1}

	var rotate mgl32.Mat4
	if length < 1e-8 {
		rotate = mgl32.Ident4()
	} else {
		v := axis.Mul(1 / length)
		dot := clamp(unitZ.Dot(v), -1, 1)
		rotAxis := unitZ.Cross(v)
		if rotAxis.Len() < 1e-8 {
			// v is parallel (or anti-parallel) to unit_z: no rotation needed,
			// or a half-turn about any axis perpendicular to z.
			if dot > 0 {
				rotate = mgl32.Ident4()
			} else {
				rotate = mgl32.HomogRotate3D(math.Pi, mgl32.Vec3{1, 0, 0})
			}
		} else {
			angle := float32(math.Acos(float64(dot)))
			rotate = mgl32.HomogRotate3D(angle, rotAxis.Normalize())
		}
	}

	scale := mgl32.Scale3D(1/radius, 1/radius, 1/length)
	translate := mgl32.Translate3D(-mid.X(), -mid.Y(), -mid.Z())
	worldToLocal := scale.Mul4(rotate).Mul4(translate)
	return newSolid(worldToLocal, color, Cylinder)
}

// NewCuboid builds the world-to-local transform for a rectangular cuboid
// of the given full dimensions, centered at center and rotated by
// orientation. The unit cube is [-1, 1]^3.
func NewCuboid(dimensions mgl32.Vec3, center mgl32.Vec3, orientation mgl32.Quat, color mgl32.Vec3) Solid {
	scale := mgl32.Scale3D(2/dimensions.X(), 2/dimensions.Y(), 2/dimensions.Z())
	rotate := orientation.Conjugate().Mat4()
	translate := mgl32.Translate3D(-center.X(), -center.Y(), -center.Z())
	worldToLocal := scale.Mul4(rotate).Mul4(translate)
	return newSolid(worldToLocal, color, Cuboid)
}

func newSolid(worldToLocal mgl32.Mat4, color mgl32.Vec3, kind Kind) Solid {
	m := worldToLocal
	if !finite4(m) {
		panic(fmt.Sprintf("solid: non-finite world-to-local transform %v", m))
	}
	if _, invErr := safeInverse(m); invErr != nil {
		panic(fmt.Sprintf("solid: singular world-to-local transform: %v", invErr))
	}
	// Overwrite row 3 (the (0,0,0,1) row of a pure affine map), which
	// mgl32's column-major storage keeps at indices 3, 7, 11 and 15; it is
	// gone from here on.
	m[3] = color.X()
	m[7] = color.Y()
	m[11] = color.Z()
	m[15] = float32(kind)
	return Solid(m)
}

// WorldToLocal returns the pure affine world-to-local matrix with the
// color/kind payload in row 3 reset to (0, 0, 0, 1).
func (s Solid) WorldToLocal() mgl32.Mat4 {
	m := mgl32.Mat4(s)
	m[3], m[7], m[11], m[15] = 0, 0, 0, 1
	return m
}

// Color returns the RGB color packed into row 3.
func (s Solid) Color() mgl32.Vec3 {
	return mgl32.Vec3{s[3], s[7], s[11]}
}

// KindOf returns the primitive discriminant packed into the last element
// of row 3, panicking if it does not read back as a legal variant.
func (s Solid) KindOf() Kind {
	k := Kind(s[15])
	if !k.valid() {
		panic(fmt.Sprintf("solid: unknown kind discriminant %v", s[15]))
	}
	return k
}

// BoundingAABB returns the axis-aligned bounding box of the solid in world
// space. It inverts back to local-to-world, decomposes that into a linear
// part L and a translation t, and evaluates |L*v| for the four
// sign-parity representatives of the unit cube's corners (the other four
// are their negations and collapse under the absolute value), taking the
// componentwise max as the half-extent.
func (s Solid) BoundingAABB() (min, max mgl32.Vec3) {
	localToWorld, err := safeInverse(s.WorldToLocal())
	if err != nil {
		panic(fmt.Sprintf("solid: cannot bound an uninvertible solid: %v", err))
	}
	linear := localToWorld.Mat3()
	t := mgl32.Vec3{localToWorld[12], localToWorld[13], localToWorld[14]}

	corners := [4]mgl32.Vec3{
		{1, 1, 1},
		{1, 1, -1},
		{1, -1, 1},
		{-1, 1, 1},
	}
	half := mgl32.Vec3{0, 0, 0}
	for _, c := range corners {
		v := linear.Mul3x1(c)
		half = componentMax(half, absVec3(v))
	}
	return t.Sub(half), t.Add(half)
}

func finite4(m mgl32.Mat4) bool {
	for _, v := range m {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

func safeInverse(m mgl32.Mat4) (mgl32.Mat4, error) {
	if det := m.Det(); math.Abs(float64(det)) < 1e-12 {
		return mgl32.Mat4{}, fmt.Errorf("determinant %v too close to zero", det)
	}
	return m.Inv(), nil
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absVec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(math.Abs(float64(v.X()))), float32(math.Abs(float64(v.Y()))), float32(math.Abs(float64(v.Z())))}
}

func componentMax(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Max(float64(a.X()), float64(b.X()))),
		float32(math.Max(float64(a.Y()), float64(b.Y()))),
		float32(math.Max(float64(a.Z()), float64(b.Z()))),
	}
}

// Bytes returns the 64-byte GPU layout of the solid: the 4x4 matrix in
// row-major float32 order (the transpose of mgl32's column-major
// layout), so a shader reading it as a column-major mat4x4 finds
// (color.rgb, kind) in its fourth column.
func (s Solid) Bytes() [64]byte {
	var out [64]byte
	for i, f := range s {
		bits := math.Float32bits(f)
		j := (i%4)*4 + i/4
		out[j*4+0] = byte(bits)
		out[j*4+1] = byte(bits >> 8)
		out[j*4+2] = byte(bits >> 16)
		out[j*4+3] = byte(bits >> 24)
	}
	return out
}
