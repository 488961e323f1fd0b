// Package camera provides the two stock camera implementations agentbox
// ships out of the box, plus the Camera contract demo applications and
// models can implement themselves.
package camera

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is driven once per visual frame: Update advances its state by
// delta_pos world units along whatever direction its held keys select,
// KeyInput and MouseInput record raw input events, and CameraToWorld
// reports the matrix the GPU pipeline should use for the frame about to
// be drawn.
type Camera interface {
	Update(deltaPos float32)
	KeyInput(key glfw.Key, action glfw.Action)
	MouseInput(x, y float64, w, h int)
	CameraToWorld() mgl32.Mat4
}

// Choice tracks a pair of opposite keys (e.g. W/S). Often two keys are
// opposites: if neither or both are held nothing happens, but holding
// just one means go, say, forwards or backwards.
type Choice int

const (
	ChoiceNeither Choice = iota
	ChoiceGo
	ChoiceReverse
	ChoiceBoth
)

// F32 returns +1 for Go, -1 for Reverse, and 0 for Neither or Both.
func (c Choice) F32() float32 {
	switch c {
	case ChoiceReverse:
		return -1.0
	case ChoiceGo:
		return 1.0
	default:
		return 0.0
	}
}

// Go records whether the "go" key of the pair is currently held.
func (c Choice) Go(take bool) Choice {
	switch c {
	case ChoiceNeither, ChoiceGo:
		if take {
			return ChoiceGo
		}
		return ChoiceNeither
	default: // Reverse, Both
		if take {
			return ChoiceBoth
		}
		return ChoiceReverse
	}
}

// Reverse records whether the "reverse" key of the pair is currently held.
func (c Choice) Reverse(take bool) Choice {
	switch c {
	case ChoiceNeither, ChoiceReverse:
		if take {
			return ChoiceReverse
		}
		return ChoiceNeither
	default: // Go, Both
		if take {
			return ChoiceBoth
		}
		return ChoiceGo
	}
}
