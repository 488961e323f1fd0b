// Package agentbox is the two-thread physics-simulation-to-GPU-render
// framework: a simulation goroutine drives a user-supplied model, a
// visual goroutine renders the latest published snapshot.
package agentbox

import "github.com/agentbox/agentbox/solid"

// Status carries the lifecycle flags the simulation loop reads every
// tick. The controller mutates it freely.
type Status struct {
	DisplayVisual bool
	ShouldQuit    bool
}

// Visual is the Status preset for a model that starts with its window
// shown.
var Visual = Status{DisplayVisual: true, ShouldQuit: false}

// Headless is the Status preset for a model that starts with no window,
// useful for tests and batch runs.
var Headless = Status{DisplayVisual: false, ShouldQuit: false}

// Model is the contract a packaged simulation implements: a world type W
// holding all state, a signals type S carrying per-tick controller
// input, a pure update step, and a way to turn the current world into
// the solids the GPU pipeline will draw this frame. W is passed by value
// across the world channel, so it must not alias mutable state it does
// not own.
type Model[W, S any] interface {
	NewWorld() W
	NewSignals() S
	Update(world *W, signals *S)
	GetSolids(world W) []solid.Solid
}

// Controller is the per-tick callback the caller supplies to RunWith: it
// inspects the current world, may mutate signals and status, and runs on
// the simulation goroutine only.
type Controller[W, S any] func(world W, signals *S, status *Status)
