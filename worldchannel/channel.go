// Package worldchannel is the single-slot, version-counted mailbox that
// hands world snapshots from the simulation goroutine to the visual
// goroutine. It is deliberately not a queue: the visual side only ever
// wants the latest world, and is free to miss intermediate ones.
package worldchannel

import (
	"sync"
	"sync/atomic"
)

// Channel holds the latest published world of type W. W must be safe to
// read concurrently once published: Publish and Snapshot copy W by value,
// so any pointers, slices or maps inside it are shared with readers and
// must be treated as immutable after Publish.
type Channel[W any] struct {
	mu      sync.Mutex
	world   W
	version atomic.Uint64
}

// New creates a channel already holding initial at version 1, so that a
// caller starting with lastSeen at its zero value can Snapshot(0) to read
// the initial world back immediately, the same as it would any later
// published one.
func New[W any](initial W) *Channel[W] {
	c := &Channel[W]{world: initial}
	c.version.Store(1)
	return c
}

// Publish replaces the owned world with a fresh copy and atomically
// increments the version under sequentially-consistent ordering, so a
// reader observing the new version is guaranteed to see this world or a
// later one.
func (c *Channel[W]) Publish(world W) {
	c.mu.Lock()
	c.world = world
	c.mu.Unlock()
	c.version.Add(1)
}

// Snapshot returns (version, world, true) if the current version differs
// from lastSeen, or (0, zero, false) if there is nothing new. Callers
// should pass back the returned version as lastSeen on their next call.
func (c *Channel[W]) Snapshot(lastSeen uint64) (version uint64, world W, changed bool) {
	current := c.version.Load()
	if current == lastSeen {
		return 0, world, false
	}
	c.mu.Lock()
	world = c.world
	c.mu.Unlock()
	return current, world, true
}

// Version returns the current version without touching the world lock.
func (c *Channel[W]) Version() uint64 {
	return c.version.Load()
}
