package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/agentbox/agentbox/bvh"
	"github.com/agentbox/agentbox/shaders"
	"github.com/agentbox/agentbox/solid"
)

// Pipeline owns the device, surface, the two storage buffers, the bind
// group, and the single render pipeline the ray-marcher runs through.
// Everything here belongs exclusively to the visual goroutine; there is
// no synchronization because nothing else ever touches it.
type Pipeline struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface
	config   *wgpu.SurfaceConfiguration

	treeBuffer   *wgpu.Buffer
	solidsBuffer *wgpu.Buffer
	bindGroup    *wgpu.BindGroup
	pipeline     *wgpu.RenderPipeline

	windowSize mgl32.Vec2
	numSolids  int
}

// Init acquires the adapter, device, and queue; requires the push-constant
// feature; configures the surface BGRA8-UnormSrgb/FIFO; and builds the
// storage buffers, bind group, and render pipeline.
func Init(window *glfw.Window) (*Pipeline, error) {
	p := &Pipeline{}
	p.instance = wgpu.CreateInstance(nil)

	surface := p.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
	p.surface = surface

	adapter, err := p.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}
	p.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		RequiredFeatures: []wgpu.FeatureName{wgpu.FeatureNamePushConstants},
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.Limits{MaxPushConstantSize: pushConstantsSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request device (push constants required): %w", err)
	}
	p.device = device
	p.queue = device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	p.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      wgpu.TextureFormatBGRA8UnormSrgb,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, p.config)
	p.windowSize = mgl32.Vec2{float32(width), float32(height)}

	if err := p.buildBuffers(); err != nil {
		return nil, err
	}
	if err := p.buildPipeline(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) buildBuffers() error {
	var err error
	p.treeBuffer, err = ensureBuffer(p.device, "agentbox-tree", p.treeBuffer, uint64((2*MaxSolids-1)*32), wgpu.BufferUsageStorage)
	if err != nil {
		return fmt.Errorf("gpu: create tree buffer: %w", err)
	}
	p.solidsBuffer, err = ensureBuffer(p.device, "agentbox-solids", p.solidsBuffer, uint64(MaxSolids*64), wgpu.BufferUsageStorage)
	if err != nil {
		return fmt.Errorf("gpu: create solids buffer: %w", err)
	}
	return p.buildBindGroup()
}

func (p *Pipeline) bindGroupLayout() (*wgpu.BindGroupLayout, error) {
	return p.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "agentbox-bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeReadOnlyStorage,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
}

func (p *Pipeline) buildBindGroup() error {
	layout, err := p.bindGroupLayout()
	if err != nil {
		return fmt.Errorf("gpu: create bind group layout: %w", err)
	}
	p.bindGroup, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "agentbox-bg",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.treeBuffer, Size: p.treeBuffer.GetSize()},
			{Binding: 1, Buffer: p.solidsBuffer, Size: p.solidsBuffer.GetSize()},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	return nil
}

func (p *Pipeline) buildPipeline() error {
	bgl, err := p.bindGroupLayout()
	if err != nil {
		return err
	}
	layout, err := p.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
		PushConstantRanges: []wgpu.PushConstantRange{
			{Stages: wgpu.ShaderStageFragment, Start: 0, End: pushConstantsSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}

	vsModule, err := p.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "agentbox-wholecanvas",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.FullscreenWGSL},
	})
	if err != nil {
		return fmt.Errorf("gpu: compile vertex shader: %w", err)
	}
	fsModule, err := p.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "agentbox-solids",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SolidsWGSL},
	})
	if err != nil {
		return fmt.Errorf("gpu: compile fragment shader: %w", err)
	}

	p.pipeline, err = p.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "agentbox-pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vsModule,
			EntryPoint: "main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     fsModule,
			EntryPoint: "main",
			Targets: []wgpu.ColorTargetState{{
				Format:    p.config.Format,
				Blend:     &wgpu.BlendState{Color: wgpu.BlendComponentReplace, Alpha: wgpu.BlendComponentReplace},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleStrip,
			CullMode: wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("gpu: create render pipeline: %w", err)
	}
	return nil
}

// Resize reconfigures the surface and updates the window-size push
// constant for subsequent frames.
func (p *Pipeline) Resize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	p.config.Width = uint32(width)
	p.config.Height = uint32(height)
	p.surface.Configure(p.adapter, p.device, p.config)
	p.windowSize = mgl32.Vec2{float32(width), float32(height)}
}

// UpdateWorld validates every solid, rebuilds the BVH, and writes both
// buffers at offset 0.
func (p *Pipeline) UpdateWorld(solids []solid.Solid) error {
	if len(solids) > MaxSolids {
		return fmt.Errorf("gpu: %d solids exceeds MaxSolids (%d)", len(solids), MaxSolids)
	}
	for _, s := range solids {
		s.KindOf() // panics on an unknown discriminant, matching the producer-boundary invariant
	}
	tree := bvh.Build(solids)
	if len(tree) != 0 && len(tree) != 2*len(solids)-1 {
		return fmt.Errorf("gpu: BVH size mismatch: got %d nodes for %d solids", len(tree), len(solids))
	}

	solidsBytes := make([]byte, 0, len(solids)*64)
	for _, s := range solids {
		b := s.Bytes()
		solidsBytes = append(solidsBytes, b[:]...)
	}
	treeBytes := make([]byte, 0, len(tree)*32)
	for _, n := range tree {
		b := n.Bytes()
		treeBytes = append(treeBytes, b[:]...)
	}

	p.queue.WriteBuffer(p.solidsBuffer, 0, solidsBytes)
	p.queue.WriteBuffer(p.treeBuffer, 0, treeBytes)
	p.numSolids = len(solids)
	return nil
}

// Render draws the current scene with the given camera-to-world matrix,
// retrying once after reconfiguring the surface if texture acquisition
// fails transiently.
func (p *Pipeline) Render(cameraToWorld mgl32.Mat4) error {
	texture, err := p.surface.GetCurrentTexture()
	if err != nil {
		p.surface.Configure(p.adapter, p.device, p.config)
		texture, err = p.surface.GetCurrentTexture()
		if err != nil {
			return fmt.Errorf("gpu: acquire swapchain texture: %w", err)
		}
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("gpu: create texture view: %w", err)
	}

	encoder, err := p.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}},
	})
	pass.SetPipeline(p.pipeline)
	pc := PushConstants{CameraToWorld: cameraToWorld, WindowSize: p.windowSize}
	pass.SetPushConstants(wgpu.ShaderStageFragment, 0, pc.Bytes())
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.Draw(4, 1, 0, 0)
	pass.End()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: finish command buffer: %w", err)
	}
	p.queue.Submit(cmd)
	p.surface.Present()
	return nil
}
