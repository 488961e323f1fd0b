package agentbox

import (
	"github.com/google/uuid"

	"github.com/agentbox/agentbox/event"
	"github.com/agentbox/agentbox/visual"
	"github.com/agentbox/agentbox/visual/camera"
	"github.com/agentbox/agentbox/worldchannel"
)

// worldSource adapts a worldchannel.Channel[W] plus a model's solid
// extractor into the visual package's Source interface, which the visual
// loop consumes without ever knowing W's concrete type.
type worldSource[W, S any] struct {
	channel *worldchannel.Channel[W]
	model   Model[W, S]
}

func (s worldSource[W, S]) Snapshot(lastSeen uint64) (uint64, visual.WorldSnapshot, bool) {
	version, world, changed := s.channel.Snapshot(lastSeen)
	if !changed {
		return version, visual.WorldSnapshot{}, false
	}
	return version, visual.WorldSnapshot{Version: version, Solids: s.model.GetSolids(world)}, true
}

// RunOptions configures the window and camera RunWith creates for the
// visual goroutine.
type RunOptions struct {
	Title         string
	Width, Height int
	NewCamera     func() camera.Camera
	Logger        Logger
}

// RunWith wires a model and controller together into the two-thread
// pipeline: a simulation goroutine runs RunSimulation, and the calling
// goroutine blocks in the GLFW visual loop until the window closes or
// the model requests exit. It corresponds to the reference
// implementation's run_with entry point; unlike that entry point this
// one returns once the visual loop ends rather than diverging, because
// the GLFW loop is an ordinary loop under this package's control.
// Returning does not stop the simulation goroutine.
func RunWith[W, S any](initialStatus Status, model Model[W, S], controller Controller[W, S], opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = NewNopLogger()
	}
	runID := uuid.New().String()
	logger.Infof("starting run %s", runID)

	channel := worldchannel.New(model.NewWorld())
	events := make(chan event.SimulationEvent, 8)

	go RunSimulation(channel, events, model, controller, initialStatus, logger)

	cam := opts.NewCamera()
	source := worldSource[W, S]{channel: channel, model: model}

	return visual.Run(source, visual.Options{
		Title:          opts.Title,
		Width:          opts.Width,
		Height:         opts.Height,
		InitialVisible: initialStatus.DisplayVisual,
		Camera:         cam,
		Events:         events,
		Logger:         logger,
	})
}
