package camera

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoiceGoReverse(t *testing.T) {
	c := ChoiceNeither
	c = c.Go(true)
	assert.Equal(t, float32(1.0), c.F32())
	c = c.Reverse(true)
	assert.Equal(t, ChoiceBoth, c)
	assert.Equal(t, float32(0.0), c.F32())
	c = c.Go(false)
	assert.Equal(t, ChoiceReverse, c)
	assert.Equal(t, float32(-1.0), c.F32())
}

func TestFPSCameraForwardMotion(t *testing.T) {
	c := NewFPSCamera()
	c.KeyInput(glfw.KeyW, glfw.Press)
	c.Update(1.0)
	assert.NotEqual(t, mgl32.Vec3{1, 0, 0}, c.pos)
}

func TestFPSCameraStaysOrthonormal(t *testing.T) {
	c := NewFPSCamera()
	c.aimRight = 120
	c.aimUp = 40
	c.Update(0.1)
	m := c.CameraToWorld()
	x := mgl32.Vec3{m[0], m[1], m[2]}
	y := mgl32.Vec3{m[4], m[5], m[6]}
	z := mgl32.Vec3{m[8], m[9], m[10]}
	assert.InDelta(t, 1.0, x.Len(), 1e-4)
	assert.InDelta(t, 1.0, y.Len(), 1e-4)
	assert.InDelta(t, 1.0, z.Len(), 1e-4)
	assert.InDelta(t, 0.0, x.Dot(y), 1e-4)
}

func TestAircraftCameraInitialOrientationMapsZToY(t *testing.T) {
	c := NewAircraftCamera()
	rotated := c.rotation.Rotate(mgl32.Vec3{0, 0, 1})
	require.InDelta(t, 0.0, rotated.X(), 1e-4)
	require.InDelta(t, 1.0, rotated.Y(), 1e-4)
	require.InDelta(t, 0.0, rotated.Z(), 1e-4)
}

func TestAircraftCameraForwardMotion(t *testing.T) {
	c := NewAircraftCamera()
	c.forwards = ChoiceGo
	start := c.position
	c.Update(1.0)
	assert.NotEqual(t, start, c.position)
}
