// Package gpu owns the device, surface, storage buffers, bind group, and
// pipeline for the single-pass ray-marched frame: a full-screen
// fragment shader reads the BVH and solids storage buffers and the
// camera/window-size push constants.
package gpu

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxSolids bounds the solids and tree storage buffers. The tree buffer
// holds 2*MaxSolids-1 nodes, the maximum a fully populated solids buffer
// can produce.
const MaxSolids = 100

// ensureBuffer grows buf geometrically (1.5x) to fit data, recreating it
// only when the current allocation is too small. Matches the teacher's
// buffer-manager growth policy so repeated per-frame writes of a
// similarly-sized scene don't reallocate every frame.
func ensureBuffer(device *wgpu.Device, label string, buf *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	usage = usage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	if buf != nil && buf.GetSize() >= size {
		return buf, nil
	}
	newSize := size
	if buf != nil {
		grown := uint64(float64(buf.GetSize()) * 1.5)
		if grown > newSize {
			newSize = grown
		}
	}
	return device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             newSize,
		Usage:            usage,
		MappedAtCreation: false,
	})
}

// PushConstants is the 80-byte, C-compatible per-draw payload: a
// column-major camera-to-world matrix, the window size, and 8 bytes of
// padding to round the push-constant range out to a multiple of 16.
type PushConstants struct {
	CameraToWorld mgl32.Mat4
	WindowSize    mgl32.Vec2
	_pad          [2]uint32
}

// Bytes packs PushConstants into its GPU layout, little-endian.
func (p PushConstants) Bytes() []byte {
	buf := make([]byte, 80)
	for i, f := range p.CameraToWorld {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(p.WindowSize.X()))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(p.WindowSize.Y()))
	// buf[72:80] stays zero: the two padding words.
	return buf
}

const pushConstantsSize = 80
