package quads

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultMaxInstances is the default capacity of the instance buffer, in
// quads. A draw with more quads is split into multiple passes.
const DefaultMaxInstances = 100_000

// vertexStride is the byte stride per corner vertex: 2 x float32 = 8 bytes.
const vertexStride = 8

// indexCount is the number of indices drawn per instance (two triangles).
const indexCount = 6

// Unit quad geometry shared by every instance. Corners wound clockwise
// from the top left, split into two triangles by the index list.
var (
	quadVertices = [8]float32{
		0, 0,
		1, 0,
		1, 1,
		0, 1,
	}
	quadIndices = [indexCount]uint16{0, 1, 2, 0, 2, 3}
)

// Config holds configuration for a quad pipeline.
type Config struct {
	// MaxInstances is the instance buffer capacity in quads.
	// Zero or negative selects DefaultMaxInstances.
	MaxInstances int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{MaxInstances: DefaultMaxInstances}
}

// Pipeline draws batches of quads into a texture view. Create one per
// target texture format and reuse it across frames; it owns a render
// pipeline, the unit-quad geometry, and single-buffered uniform and
// instance storage.
type Pipeline struct {
	device hal.Device
	queue  hal.Queue

	maxInstances int

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	uniformBuf hal.Buffer
	uniforms   hal.BindGroup
	vertices   hal.Buffer
	indices    hal.Buffer
	instances  hal.Buffer
}

// New creates a quad pipeline rendering to targets of the given texture
// format, with the default configuration.
func New(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) (*Pipeline, error) {
	return NewWithConfig(device, queue, format, DefaultConfig())
}

// NewWithConfig creates a quad pipeline with an explicit configuration.
func NewWithConfig(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, config Config) (*Pipeline, error) {
	if device == nil {
		return nil, fmt.Errorf("new quad pipeline: %w", ErrNilDevice)
	}
	if queue == nil {
		return nil, fmt.Errorf("new quad pipeline: %w", ErrNilQueue)
	}
	if config.MaxInstances <= 0 {
		config.MaxInstances = DefaultMaxInstances
	}

	p := &Pipeline{
		device:       device,
		queue:        queue,
		maxInstances: config.MaxInstances,
	}
	if err := p.createResources(format); err != nil {
		p.Destroy()
		return nil, err
	}

	Logger().Debug("quad pipeline created",
		"format", format, "max_instances", p.maxInstances)
	return p, nil
}

// createResources compiles the shader and creates the render pipeline,
// the uniform buffer and bind group, and the geometry and instance
// buffers. On error the caller destroys whatever was created.
func (p *Pipeline) createResources(format gputypes.TextureFormat) error {
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "quad_shader",
		Source: hal.ShaderSource{WGSL: quadShaderWGSL},
	})
	if err != nil {
		return fmt.Errorf("compile quad shader: %w", err)
	}
	p.shader = shader

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "quad_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create quad uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create quad pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	blend := quadBlendState()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "quad_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayouts(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create quad pipeline: %w", err)
	}
	p.pipeline = pipeline

	uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_uniforms",
		Size:  uniformsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad uniform buffer: %w", err)
	}
	p.uniformBuf = uniformBuf

	uniforms, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "quad_uniform_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: uniformsSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create quad bind group: %w", err)
	}
	p.uniforms = uniforms

	vertices, err := p.createAndUploadBuffer("quad_verts",
		f32Bytes(quadVertices[:]),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	p.vertices = vertices

	indices, err := p.createAndUploadBuffer("quad_indices",
		u16Bytes(quadIndices[:]),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	p.indices = indices

	instances, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_instances",
		Size:  uint64(p.maxInstances) * QuadStride,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad instance buffer: %w", err)
	}
	p.instances = instances

	return nil
}

// quadVertexLayouts returns the two vertex buffer layouts: slot 0 is the
// per-vertex unit quad corner, slot 1 the per-instance quad attributes.
// Offsets must match the packed Quad layout.
func quadVertexLayouts() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: QuadStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: quadOffsetPosition, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x2, Offset: quadOffsetSize, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32x4, Offset: quadOffsetColor, ShaderLocation: 3},
				{Format: gputypes.VertexFormatFloat32x4, Offset: quadOffsetBorderColor, ShaderLocation: 4},
				{Format: gputypes.VertexFormatFloat32x4, Offset: quadOffsetBorderRadius, ShaderLocation: 5},
				{Format: gputypes.VertexFormatFloat32, Offset: quadOffsetBorderWidth, ShaderLocation: 6},
			},
		},
	}
}

// quadBlendState returns straight-alpha over compositing: color blends
// src over dst by source alpha, destination alpha keeps its coverage.
func quadBlendState() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

func (p *Pipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := p.queue.WriteBuffer(buf, 0, data); err != nil {
		p.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return buf, nil
}

// MaxInstances returns the instance buffer capacity in quads.
func (p *Pipeline) MaxInstances() int {
	return p.maxInstances
}

// Destroy releases all GPU resources in reverse creation order. Safe to
// call on a partially constructed pipeline and safe to call twice.
func (p *Pipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.instances != nil {
		p.device.DestroyBuffer(p.instances)
		p.instances = nil
	}
	if p.indices != nil {
		p.device.DestroyBuffer(p.indices)
		p.indices = nil
	}
	if p.vertices != nil {
		p.device.DestroyBuffer(p.vertices)
		p.vertices = nil
	}
	if p.uniforms != nil {
		p.device.DestroyBindGroup(p.uniforms)
		p.uniforms = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

func f32Bytes(vals []float32) []byte {
	data := make([]byte, len(vals)*4)
	for i, v := range vals {
		putF32(data[i*4:], v)
	}
	return data
}

func u16Bytes(vals []uint16) []byte {
	data := make([]byte, len(vals)*2)
	for i, v := range vals {
		data[i*2] = byte(v)
		data[i*2+1] = byte(v >> 8)
	}
	return data
}
