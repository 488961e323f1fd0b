package models

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/agentbox/agentbox"
	"github.com/agentbox/agentbox/physics"
	"github.com/agentbox/agentbox/solid"
)

var _ agentbox.Model[IDPWorld, IDPSignals] = InvertedDoublePendulum{}

// IDPWorld is an inverted double pendulum: a base that moves on the
// ground plane under controller acceleration, a mid node tied to both
// the base and the top node by springs, and a top node tied only to the
// mid node.
type IDPWorld struct {
	BasePos, BaseVel mgl32.Vec2
	MidPos, MidVel   mgl32.Vec3
	TopPos, TopVel   mgl32.Vec3
}

// IDPSignals is the controller's only input: the horizontal acceleration
// to apply to the base this tick.
type IDPSignals struct {
	BaseAccel mgl32.Vec2
}

// InvertedDoublePendulum is a classic balance problem restated as a
// spring-chain of particles instead of rigid links.
type InvertedDoublePendulum struct{}

func (InvertedDoublePendulum) NewWorld() IDPWorld {
	disturbance := mgl32.Vec3{0.04, 0.03, -0.01}
	return IDPWorld{
		MidPos: mgl32.Vec3{0, 0, 1}.Add(disturbance),
		TopPos: mgl32.Vec3{0, 0, 2},
	}
}

func (InvertedDoublePendulum) NewSignals() IDPSignals { return IDPSignals{} }

const idpGravityAccel = 0.3

// dampedSpringForce is the acceleration a damped spring running between
// two particles (unit rest length) exerts on the first, pulling or
// pushing it toward keeping that rest length from the second.
func dampedSpringForce(a, b physics.Particle) mgl32.Vec3 {
	return a.AccelFromSpringTo(b, physics.UnitRod)
}

func idpAccels(particles []physics.Particle, signals IDPSignals) []mgl32.Vec3 {
	base, mid, top := particles[0], particles[1], particles[2]
	gravity := mgl32.Vec3{0, 0, -idpGravityAccel}

	midAccel := dampedSpringForce(mid, top).Add(dampedSpringForce(mid, base)).Add(gravity)
	topAccel := dampedSpringForce(top, mid).Add(gravity)

	return []mgl32.Vec3{horizontalTo3(signals.BaseAccel), midAccel, topAccel}
}

// horizontalTo3 lifts a ground-plane vector into three dimensions with a
// zero vertical component.
func horizontalTo3(v mgl32.Vec2) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), v.Y(), 0}
}

// dropToHorizontal keeps only the ground-plane components of a 3D vector.
func dropToHorizontal(v mgl32.Vec3) mgl32.Vec2 {
	return mgl32.Vec2{v.X(), v.Y()}
}

// Update runs a single RK4 step per call; the reference scene relies on
// the controller driving the base at a high tick rate rather than
// sub-stepping internally.
func (InvertedDoublePendulum) Update(world *IDPWorld, signals *IDPSignals) {
	particles := []physics.Particle{
		physics.NewParticle(horizontalTo3(world.BasePos), horizontalTo3(world.BaseVel)),
		physics.NewParticle(world.MidPos, world.MidVel),
		physics.NewParticle(world.TopPos, world.TopVel),
	}
	s := *signals
	next := physics.Step(particles, s, idpAccels)

	world.BasePos, world.BaseVel = dropToHorizontal(next[0].Pos), dropToHorizontal(next[0].Vel)
	world.MidPos, world.MidVel = next[1].Pos, next[1].Vel
	world.TopPos, world.TopVel = next[2].Pos, next[2].Vel
}

func (InvertedDoublePendulum) GetSolids(world IDPWorld) []solid.Solid {
	const (
		nodeRadius = 0.15
		rodRadius  = 0.1
	)
	controlColor := mgl32.Vec3{0, 0.5, 0.3}
	nodeColor := mgl32.Vec3{0.5, 0.2, 0.3}
	rodColor := mgl32.Vec3{0, 0.3, 0.6}

	basePos := horizontalTo3(world.BasePos)
	return []solid.Solid{
		solid.NewSphere(basePos, nodeRadius, controlColor),
		solid.NewSphere(world.MidPos, nodeRadius, nodeColor),
		solid.NewSphere(world.TopPos, nodeRadius, nodeColor),
		solid.NewCylinder(basePos, world.MidPos, rodRadius, rodColor),
		solid.NewCylinder(world.MidPos, world.TopPos, rodRadius, rodColor),
	}
}
