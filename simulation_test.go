package agentbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentbox/agentbox/event"
	"github.com/agentbox/agentbox/solid"
	"github.com/agentbox/agentbox/worldchannel"
)

type counterWorld struct{ Ticks int }
type counterSignals struct{}

type counterModel struct{}

func (counterModel) NewWorld() counterWorld     { return counterWorld{} }
func (counterModel) NewSignals() counterSignals { return counterSignals{} }
func (counterModel) Update(world *counterWorld, _ *counterSignals) {
	world.Ticks++
}
func (counterModel) GetSolids(counterWorld) []solid.Solid { return nil }

var _ Model[counterWorld, counterSignals] = counterModel{}

func runUntilDone(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunSimulation did not exit")
	}
}

func drainAll(events chan event.SimulationEvent) map[event.SimulationEvent]bool {
	seen := map[event.SimulationEvent]bool{}
	for {
		select {
		case e := <-events:
			seen[e] = true
		default:
			return seen
		}
	}
}

func TestRunSimulationReadsInitialWorldFromChannelRatherThanRederiving(t *testing.T) {
	model := counterModel{}
	channel := worldchannel.New(counterWorld{Ticks: 100})
	events := make(chan event.SimulationEvent, 8)

	firstTicks := -1
	quitNext := false
	controller := func(world counterWorld, _ *counterSignals, status *Status) {
		if firstTicks < 0 {
			firstTicks = world.Ticks
		}
		if quitNext {
			status.ShouldQuit = true
		}
		quitNext = true
	}

	runUntilDone(t, func() {
		RunSimulation(channel, events, model, controller, Visual, NewNopLogger())
	})

	assert.Equal(t, 100, firstTicks, "first tick should see the world seeded into the channel")

	seen := drainAll(events)
	assert.True(t, seen[event.RequestShow])
	assert.True(t, seen[event.RequestExit])
}

func TestRunSimulationHeadlessNeverShowsOrPublishes(t *testing.T) {
	model := counterModel{}
	channel := worldchannel.New(model.NewWorld())
	events := make(chan event.SimulationEvent, 8)

	ticks := 0
	controller := func(_ counterWorld, _ *counterSignals, status *Status) {
		ticks++
		if ticks >= 3 {
			status.ShouldQuit = true
		}
	}

	runUntilDone(t, func() {
		RunSimulation(channel, events, model, controller, Headless, NewNopLogger())
	})

	version, _, changed := channel.Snapshot(0)
	assert.Equal(t, uint64(1), version, "version should still be the channel's initial seed, never published to")
	assert.True(t, changed)

	seen := drainAll(events)
	assert.False(t, seen[event.RequestShow])
	assert.True(t, seen[event.RequestExit])
}

func TestRunSimulationTogglesVisibilityEvents(t *testing.T) {
	model := counterModel{}
	channel := worldchannel.New(model.NewWorld())
	events := make(chan event.SimulationEvent, 8)

	ticks := 0
	controller := func(_ counterWorld, _ *counterSignals, status *Status) {
		ticks++
		switch ticks {
		case 2:
			status.DisplayVisual = false
		case 3:
			status.DisplayVisual = true
		case 4:
			status.ShouldQuit = true
		}
	}

	runUntilDone(t, func() {
		RunSimulation(channel, events, model, controller, Visual, NewNopLogger())
	})

	var order []event.SimulationEvent
	for {
		select {
		case e := <-events:
			order = append(order, e)
		default:
			assert.Equal(t, []event.SimulationEvent{
				event.RequestShow, event.RequestHide, event.RequestShow, event.RequestExit,
			}, order)
			return
		}
	}
}
