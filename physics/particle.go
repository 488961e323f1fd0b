// Package physics is the toolbox for implementing a model's update step:
// a fixed-timestep RK4 integrator plus spring, elastic-collision, and
// plane-contact force primitives.
package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DT is the fixed integration timestep. Models needing finer resolution
// call Step multiple times per update rather than varying DT.
const DT float32 = 0.01

// Particle is a point mass with a radius, used both for integration and
// for collision primitives.
type Particle struct {
	Pos    mgl32.Vec3
	Vel    mgl32.Vec3
	Radius float32
}

// NewParticle builds a particle at rest radius zero unless overridden by
// the caller via Radius.
func NewParticle(pos, vel mgl32.Vec3) Particle {
	return Particle{Pos: pos, Vel: vel}
}

// AccelFromSpringTo returns the acceleration contribution on this
// particle from a spring connecting it to other.
func (p Particle) AccelFromSpringTo(other Particle, spring Spring) mgl32.Vec3 {
	relPos := p.Pos.Sub(other.Pos)
	radialDistance := relPos.Len()
	invRadialDistance := 1.0 / radialDistance
	radialVel := p.Vel.Sub(other.Vel).Dot(relPos) * invRadialDistance
	radialForce := spring.Stiffness*(spring.RestLength-radialDistance) - spring.Damping*radialVel
	return relPos.Mul(radialForce * invRadialDistance)
}

// AccelFromCollisionWith returns a penetration-based repulsive
// acceleration between two particles, zero while they don't overlap.
func (p Particle) AccelFromCollisionWith(other Particle) mgl32.Vec3 {
	const stiffness = 10000.0
	const damping = 1.0

	relPos := p.Pos.Sub(other.Pos)
	penetration := p.Radius + other.Radius - relPos.Len()
	if penetration <= 0 {
		return mgl32.Vec3{}
	}
	relNormalVel := p.Vel.Sub(other.Vel).Dot(relPos.Normalize())
	return relPos.Mul(penetration*stiffness - relNormalVel*damping)
}

// Spring is a damped radial spring between two particles.
type Spring struct {
	Stiffness  float32
	Damping    float32
	RestLength float32
}

// UnitRod is the preset spring used to model rigid-seeming rods: stiff
// enough, damped enough, rest length 1.
var UnitRod = Spring{Stiffness: 1000.0, Damping: 4.0, RestLength: 1.0}

// Plane is an infinite contact plane with normal/tangential damping.
type Plane struct {
	Normal            mgl32.Vec3
	Offset            float32
	Stiffness         float32
	NormalDamping     float32
	TangentialDamping float32
}

// Floor is the preset ground plane: +z normal through the origin.
var Floor = Plane{
	Normal:            mgl32.Vec3{0, 0, 1},
	Offset:            0,
	Stiffness:         5000.0,
	NormalDamping:     5.0,
	TangentialDamping: 3.0,
}

// CollideWith returns the contact acceleration on particle p, zero while
// p's surface remains above the plane.
func (pl Plane) CollideWith(p Particle) mgl32.Vec3 {
	signedDist := p.Pos.Dot(pl.Normal) - pl.Offset - p.Radius
	if signedDist > 0 {
		return mgl32.Vec3{}
	}
	normalVel := p.Vel.Dot(pl.Normal)
	tangentVel := p.Vel.Sub(pl.Normal.Mul(normalVel))
	normalForce := -pl.Stiffness*signedDist - normalVel*pl.NormalDamping
	tangentForce := tangentVel.Mul(-pl.TangentialDamping)
	return pl.Normal.Mul(normalForce).Add(tangentForce)
}
