package camera

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const fpsSensitivity = 0.0006 // radians per pixel of mouse motion

// FPSCamera walks on the ground plane and looks around with a
// clamped-pitch, unclamped-yaw spherical angle pair, the familiar
// first-person-shooter feel.
type FPSCamera struct {
	pos                         mgl32.Vec3
	angleEquator, angleMeridian float32
	forwards, right, up         Choice
	aimRight, aimUp             float32
}

// NewFPSCamera returns a camera standing at the +X axis looking along
// -X, matching the original stock camera's initial pose.
func NewFPSCamera() *FPSCamera {
	return &FPSCamera{pos: mgl32.Vec3{1, 0, 0}}
}

func (c *FPSCamera) Update(deltaPos float32) {
	unitRight := mgl32.Vec3{-sin(c.angleMeridian), cos(c.angleMeridian), 0}
	unitForward := mgl32.Vec3{-cos(c.angleMeridian), -sin(c.angleMeridian), 0}

	velocity := unitRight.Mul(c.right.F32()).
		Add(unitForward.Mul(c.forwards.F32())).
		Add(mgl32.Vec3{0, 0, 1}.Mul(c.up.F32()))

	if velocity.LenSqr() > 0.1 {
		c.pos = c.pos.Add(velocity.Normalize().Mul(deltaPos))
	}
	c.angleMeridian -= fpsSensitivity * c.aimRight
	c.angleEquator -= fpsSensitivity * c.aimUp
	c.angleEquator = max(-math.Pi/2, min(math.Pi/2, c.angleEquator))

	c.aimRight = 0
	c.aimUp = 0
}

func (c *FPSCamera) KeyInput(key glfw.Key, action glfw.Action) {
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
	}
}

func (c *FPSCamera) MouseInput(x, y float64, w, h int) {
	centerX, centerY := float32(w)/2.0, float32(h)/2.0
	c.aimRight += float32(x) - centerX
	c.aimUp -= float32(y) - centerY
}

func (c *FPSCamera) CameraToWorld() mgl32.Mat4 {
	zImage := mgl32.Vec3{
		-cos(c.angleEquator) * cos(c.angleMeridian),
		-cos(c.angleEquator) * sin(c.angleMeridian),
		-sin(c.angleEquator),
	}
	xImage := mgl32.Vec3{-sin(c.angleMeridian), cos(c.angleMeridian), 0}
	yImage := mgl32.Vec3{
		sin(c.angleEquator) * cos(c.angleMeridian),
		sin(c.angleEquator) * sin(c.angleMeridian),
		-cos(c.angleEquator),
	}
	return mgl32.Mat4{
		xImage.X(), xImage.Y(), xImage.Z(), 0,
		yImage.X(), yImage.Y(), yImage.Z(), 0,
		zImage.X(), zImage.Y(), zImage.Z(), 0,
		c.pos.X(), c.pos.Y(), c.pos.Z(), 1,
	}
}
