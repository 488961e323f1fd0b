// Package visual owns the GLFW window, input capture, and the per-frame
// loop that pulls the latest world out of the world channel, feeds it to
// the GPU pipeline, and steers the active camera.
package visual

import (
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/agentbox/agentbox/event"
	"github.com/agentbox/agentbox/gpu"
	"github.com/agentbox/agentbox/solid"
	"github.com/agentbox/agentbox/visual/camera"
)

const frameInterval = time.Second / 60

// WorldSnapshot is everything the visual loop needs to pull out of a
// world channel once per frame: a monotonic version and the solids the
// current world resolves to.
type WorldSnapshot struct {
	Version uint64
	Solids  []solid.Solid
}

// Source is satisfied by a reducer over worldchannel.Channel[W] once the
// caller has already reduced W to its solids; Run never touches W
// directly so it stays free of the model's type parameters.
type Source interface {
	Snapshot(lastSeen uint64) (version uint64, snapshot WorldSnapshot, changed bool)
}

// Options configures a single Run call.
type Options struct {
	Title          string
	Width, Height  int
	InitialVisible bool
	Camera         camera.Camera
	Events         <-chan event.SimulationEvent
	Logger         Logger
}

// Logger is the minimal subset of agentbox.Logger the visual loop needs.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type loopState struct {
	window        *glfw.Window
	pipeline      *gpu.Pipeline
	cam           camera.Camera
	logger        Logger
	mouseCaptured bool
	lastSeenVer   uint64
	visible       bool
}

// Run creates the window, wires input callbacks, and blocks in the
// render loop until the window is closed or a RequestExit event arrives.
func Run(source Source, opts Options) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("visual: init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if !opts.InitialVisible {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}
	window, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("visual: create window: %w", err)
	}
	defer window.Destroy()

	pipeline, err := gpu.Init(window)
	if err != nil {
		return fmt.Errorf("visual: init gpu pipeline: %w", err)
	}

	state := &loopState{
		window:   window,
		pipeline: pipeline,
		cam:      opts.Camera,
		logger:   opts.Logger,
		visible:  opts.InitialVisible,
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		pipeline.Resize(width, height)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		width, height := w.GetSize()
		if state.mouseCaptured {
			state.cam.MouseInput(xpos, ypos, width, height)
			w.SetCursorPos(float64(width)/2, float64(height)/2)
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		if key == glfw.KeyTab && action == glfw.Press {
			state.setMouseCaptured(!state.mouseCaptured)
			return
		}
		state.cam.KeyInput(key, action)
	})

	state.setMouseCaptured(true)

	last := time.Now()
	for !window.ShouldClose() {
		glfw.PollEvents()
		if drainEvents(opts.Events, state) {
			break
		}

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		// While hidden, the visual loop only drains events (so a later
		// RequestShow is noticed) — no camera update, no redraw.
		if state.visible {
			state.cam.Update(dt)

			if version, snap, changed := source.Snapshot(state.lastSeenVer); changed {
				state.lastSeenVer = version
				if err := pipeline.UpdateWorld(snap.Solids); err != nil {
					state.logger.Errorf("visual: update world: %v", err)
				}
			}

			if err := pipeline.Render(state.cam.CameraToWorld()); err != nil {
				state.logger.Errorf("visual: render: %v", err)
			}
		}

		if wait := frameInterval - time.Since(now); wait > 0 {
			time.Sleep(wait)
		}
	}
	return nil
}

func (s *loopState) setMouseCaptured(captured bool) {
	s.mouseCaptured = captured
	if captured {
		s.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		s.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// drainEvents consumes every pending simulation event without blocking,
// toggles state.visible on RequestHide/RequestShow, and reports whether
// the window should close.
func drainEvents(events <-chan event.SimulationEvent, state *loopState) bool {
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return false
			}
			switch e {
			case event.RequestExit:
				state.window.SetShouldClose(true)
				return true
			case event.RequestHide:
				state.window.Hide()
				state.visible = false
			case event.RequestShow:
				state.window.Show()
				state.visible = true
			case event.SimulationPanic:
				state.logger.Errorf("visual: simulation goroutine panicked, exiting")
				state.window.SetShouldClose(true)
				return true
			}
		default:
			return false
		}
	}
}
