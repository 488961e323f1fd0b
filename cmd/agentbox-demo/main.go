// Command agentbox-demo runs the bouncing-balls scene in a window with
// an FPS-style camera, the simplest possible example of RunWith.
package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/agentbox/agentbox"
	"github.com/agentbox/agentbox/models"
	"github.com/agentbox/agentbox/visual/camera"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "enable verbose logging")
	flag.Parse()

	logger := agentbox.NewDefaultLogger("agentbox-demo", *debug)

	model := models.BouncingBalls{}
	controller := func(world models.BouncingWorld, signals *models.BouncingSignals, status *agentbox.Status) {}

	err := agentbox.RunWith[models.BouncingWorld, models.BouncingSignals](agentbox.Visual, model, controller, agentbox.RunOptions{
		Title:     "agentbox demo",
		Width:     1280,
		Height:    720,
		NewCamera: func() camera.Camera { return camera.NewFPSCamera() },
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("agentbox-demo: %v", err)
	}
}
