package agentbox

import (
	"github.com/agentbox/agentbox/event"
	"github.com/agentbox/agentbox/worldchannel"
)

// RunSimulation drives the simulation goroutine: each iteration it runs
// the controller, steps the model, and reacts to the resulting status by
// publishing to channel and/or notifying the visual goroutine over
// events. It installs a recover-based panic boundary so a programmer
// error in the controller or model is reported as a SimulationPanic
// event instead of taking the whole process down silently — the nearest
// Go equivalent of the reference implementation's process-global panic
// hook, since Go has no such hook.
func RunSimulation[W, S any](
	channel *worldchannel.Channel[W],
	events chan<- event.SimulationEvent,
	model Model[W, S],
	controller Controller[W, S],
	initialStatus Status,
	logger Logger,
) {
	if logger == nil {
		logger = NewNopLogger()
	}
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, r)
			sendEvent(events, event.SimulationPanic, logger)
		}
	}()

	// The channel is already seeded with model.NewWorld() by RunWith; read
	// it back rather than re-deriving it, so the loop only ever sees the
	// one world RunWith published, even if a future model's NewWorld is
	// not idempotent.
	_, world, _ := channel.Snapshot(0)
	signals := model.NewSignals()
	status := initialStatus
	visible := false

	for {
		controller(world, &signals, &status)
		model.Update(&world, &signals)

		if status.ShouldQuit {
			logger.Warnf("simulation loop exiting")
			sendEvent(events, event.RequestExit, logger)
			return
		}

		if status.DisplayVisual != visible {
			visible = status.DisplayVisual
			if visible {
				sendEvent(events, event.RequestShow, logger)
			} else {
				sendEvent(events, event.RequestHide, logger)
			}
		}

		if visible {
			channel.Publish(world)
		}
	}
}

func logPanic(logger Logger, r any) {
	switch v := r.(type) {
	case string:
		logger.Errorf("panic in simulation thread: %q", v)
	case error:
		logger.Errorf("panic in simulation thread: %v", v)
	default:
		logger.Errorf("unprintable panic in simulation thread: %v", v)
	}
}

// sendEvent is a best-effort send: if the visual goroutine has already
// torn down its receiving channel, the resulting panic is caught and
// logged rather than propagated, matching a closed event-loop proxy
// being treated as an unremarkable shutdown race rather than an error.
func sendEvent(events chan<- event.SimulationEvent, e event.SimulationEvent, logger Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("sim failed to inform visual loop of %s: %v", e, r)
		}
	}()
	events <- e
}
