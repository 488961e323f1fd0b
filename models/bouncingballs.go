// Package models packages a couple of ready-to-run simulations against
// the Model contract: two bouncing spheres, and an inverted double
// pendulum with a steerable base.
package models

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/agentbox/agentbox"
	"github.com/agentbox/agentbox/physics"
	"github.com/agentbox/agentbox/solid"
)

var _ agentbox.Model[BouncingWorld, BouncingSignals] = BouncingBalls{}

const bouncingRadius = 0.3

// BouncingWorld holds the state of two independent particles falling
// under gravity and bouncing off the floor plane.
type BouncingWorld struct {
	First, Second physics.Particle
}

// BouncingSignals is unused by BouncingBalls; it exists because Model
// requires a signals type, and there is nothing for a controller to
// steer in this demo.
type BouncingSignals struct{}

// BouncingBalls is a two-particle scene with no controller input: both
// spheres fall under gravity and settle on the floor plane.
type BouncingBalls struct{}

func (BouncingBalls) NewWorld() BouncingWorld {
	return BouncingWorld{
		First:  physics.Particle{Pos: mgl32.Vec3{-6, 4, 5}, Vel: mgl32.Vec3{0.5, 0, 0}, Radius: bouncingRadius},
		Second: physics.Particle{Pos: mgl32.Vec3{0, 6, 10}, Vel: mgl32.Vec3{0, -0.5, 0}, Radius: bouncingRadius},
	}
}

func (BouncingBalls) NewSignals() BouncingSignals { return BouncingSignals{} }

const bouncingGravity = 4.0

func bouncingAccels(particles []physics.Particle, _ struct{}) []mgl32.Vec3 {
	first, second := particles[0], particles[1]
	gravity := mgl32.Vec3{0, 0, -bouncingGravity}
	return []mgl32.Vec3{
		physics.Floor.CollideWith(first).Add(gravity),
		physics.Floor.CollideWith(second).Add(gravity),
	}
}

// Update runs five RK4 sub-steps per call, matching the reference
// implementation's choice to sub-step this scene five times per model
// tick for a visibly smoother bounce.
func (BouncingBalls) Update(world *BouncingWorld, _ *BouncingSignals) {
	particles := []physics.Particle{world.First, world.Second}
	for i := 0; i < 5; i++ {
		particles = physics.Step(particles, struct{}{}, bouncingAccels)
	}
	world.First, world.Second = particles[0], particles[1]
}

func (BouncingBalls) GetSolids(world BouncingWorld) []solid.Solid {
	color := mgl32.Vec3{0.5, 0.5, 0.2}
	groundColor := mgl32.Vec3{0.9, 0.9, 0.9}
	return []solid.Solid{
		solid.NewSphere(world.First.Pos, bouncingRadius, color),
		solid.NewSphere(world.Second.Pos, bouncingRadius, color),
		solid.NewCuboid(mgl32.Vec3{10, 10, 0.1}, mgl32.Vec3{0, 0, -0.05}, mgl32.QuatIdent(), groundColor),
	}
}
