package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestZeroAccelPreservesVelocity(t *testing.T) {
	p := []Particle{NewParticle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 2, 3})}
	zero := func(ps []Particle, _ struct{}) []mgl32.Vec3 {
		return []mgl32.Vec3{{0, 0, 0}}
	}
	next := Step(p, struct{}{}, zero)
	assert.InDelta(t, 1.0, next[0].Vel.X(), 1e-6)
	assert.InDelta(t, 0.01, next[0].Pos.X(), 1e-6)
	assert.InDelta(t, 0.03, next[0].Pos.Z(), 1e-6)
}

func TestConstantAccelGravityDrop(t *testing.T) {
	p := []Particle{NewParticle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0})}
	gravity := func(ps []Particle, _ struct{}) []mgl32.Vec3 {
		return []mgl32.Vec3{{0, 0, -9.8}}
	}
	for i := 0; i < 100; i++ {
		p = Step(p, struct{}{}, gravity)
	}
	assert.InDelta(t, -0.49, p[0].Pos.Z(), 1e-3)
	assert.InDelta(t, -9.8, p[0].Vel.Z(), 1e-3)
}

func TestSpringForceSymmetric(t *testing.T) {
	a := Particle{Pos: mgl32.Vec3{0, 0, 0}, Vel: mgl32.Vec3{1, 0, 0}}
	b := Particle{Pos: mgl32.Vec3{2, 0, 0}, Vel: mgl32.Vec3{-1, 0, 0}}
	fab := a.AccelFromSpringTo(b, UnitRod)
	fba := b.AccelFromSpringTo(a, UnitRod)
	assert.InDelta(t, -fab.X(), fba.X(), 1e-5)
	assert.InDelta(t, -fab.Y(), fba.Y(), 1e-5)
	assert.InDelta(t, -fab.Z(), fba.Z(), 1e-5)
}

func TestSpringForceZeroAtRest(t *testing.T) {
	a := Particle{Pos: mgl32.Vec3{0, 0, 0}}
	b := Particle{Pos: mgl32.Vec3{1, 0, 0}}
	f := a.AccelFromSpringTo(b, UnitRod)
	assert.InDelta(t, 0, f.Len(), 1e-5)
}

func TestPlaneContactZeroAboveSurface(t *testing.T) {
	p := Particle{Pos: mgl32.Vec3{0, 0, 5}, Radius: 1}
	f := Floor.CollideWith(p)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, f)
}

func TestPlaneContactIncreasesWithPenetration(t *testing.T) {
	shallow := Particle{Pos: mgl32.Vec3{0, 0, 0.4}, Radius: 1}
	deep := Particle{Pos: mgl32.Vec3{0, 0, -0.4}, Radius: 1}
	fShallow := Floor.CollideWith(shallow)
	fDeep := Floor.CollideWith(deep)
	assert.Greater(t, math.Abs(float64(fDeep.Z())), math.Abs(float64(fShallow.Z())))
}

func TestAccelLengthMismatchPanics(t *testing.T) {
	p := []Particle{NewParticle(mgl32.Vec3{}, mgl32.Vec3{})}
	bad := func(ps []Particle, _ struct{}) []mgl32.Vec3 {
		return nil
	}
	assert.Panics(t, func() { Step(p, struct{}{}, bad) })
}
