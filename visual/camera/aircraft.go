package camera

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	aircraftRollRate    = 0.4
	aircraftSensitivity = 0.001
)

// AircraftCamera flies free in all three axes: W/S thrust forward and
// back, A/D and Space/LShift strafe, the mouse pitches and yaws, and
// Q/E roll. Orientation is a quaternion so there is no gimbal lock.
type AircraftCamera struct {
	position mgl32.Vec3
	rotation mgl32.Quat

	forwards, right, up, rollRight Choice
	pitchUp, yawRight              float32
}

// NewAircraftCamera returns a camera two units behind the origin on -Y, looking
// along +Y with +Z as up, matching the original stock camera's initial
// pose (a quaternion rotating the +Z axis onto +Y).
func NewAircraftCamera() *AircraftCamera {
	return &AircraftCamera{
		position: mgl32.Vec3{0, -2, 0},
		rotation: mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{-1, 0, 0}).Normalize(),
	}
}

func (c *AircraftCamera) Update(deltaPos float32) {
	// Velocity in camera space: x right, y down, z forwards.
	velocity := mgl32.Vec3{c.right.F32(), -c.up.F32(), c.forwards.F32()}

	if velocity.LenSqr() > 0.1 {
		c.position = c.position.Add(c.rotation.Rotate(velocity.Normalize().Mul(deltaPos)))
	}

	roll := mgl32.QuatRotate(aircraftRollRate*c.rollRight.F32()*deltaPos, mgl32.Vec3{0, 0, 1})
	pitch := mgl32.QuatRotate(c.pitchUp, mgl32.Vec3{1, 0, 0})
	yaw := mgl32.QuatRotate(c.yawRight, mgl32.Vec3{0, 1, 0})
	c.rotation = c.rotation.Mul(roll).Mul(pitch).Mul(yaw)

	c.pitchUp = 0
	c.yawRight = 0
}

func (c *AircraftCamera) KeyInput(key glfw.Key, action glfw.Action) {
	if action == glfw.Repeat {
		return
	}
	active := action == glfw.Press
	switch key {
	case glfw.KeyW:
		c.forwards = c.forwards.Go(active)
	case glfw.KeyS:
		c.forwards = c.forwards.Reverse(active)
	case glfw.KeyD:
		c.right = c.right.Go(active)
	case glfw.KeyA:
		c.right = c.right.Reverse(active)
	case glfw.KeySpace:
		c.up = c.up.Go(active)
	case glfw.KeyLeftShift:
		c.up = c.up.Reverse(active)
	case glfw.KeyE:
		c.rollRight = c.rollRight.Go(active)
	case glfw.KeyQ:
		// Matches the original stock camera, where Q was wired to the
		// same roll_right.go() call as E rather than roll_right.reverse().
		c.rollRight = c.rollRight.Go(active)
	}
}

func (c *AircraftCamera) MouseInput(x, y float64, w, h int) {
	mx, my := float32(w)/2.0, float32(h)/2.0
	c.pitchUp -= aircraftSensitivity * (float32(y) - my)
	c.yawRight += aircraftSensitivity * (float32(x) - mx)
}

func (c *AircraftCamera) CameraToWorld() mgl32.Mat4 {
	rot := c.rotation.Mat4()
	trans := mgl32.Translate3D(c.position.X(), c.position.Y(), c.position.Z())
	return trans.Mul4(rot)
}
