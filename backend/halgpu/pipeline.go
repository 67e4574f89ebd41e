package halgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/texview"
	"github.com/gogpu/wgpu/hal"
)

// Bind group slots shared by the textured-quad shaders.
const (
	uniformBinding = 0
	textureBinding = 1
	samplerBinding = 2
)

// quadVertexStride is the size of one quad vertex: a vec2<f32> position.
const quadVertexStride = 8

// quadCorners is the triangle strip covering normalized device coordinates.
var quadCorners = [4][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}

// quadVertexLayout returns the vertex buffer layout of the quad pipeline.
//
//	location 0: position (vec2<f32>)
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
	}
}

// quadVertexData returns quadCorners as little-endian float32 pairs.
func quadVertexData() []byte {
	buf := make([]byte, 0, len(quadCorners)*quadVertexStride)
	for _, c := range quadCorners {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c[0]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c[1]))
	}
	return buf
}

// Pipeline is a compiled textured-quad render pipeline.
//
// Its topology (triangle strip) and cull mode (none) are fixed at creation;
// encoders check draws against them.
type Pipeline struct {
	device hal.Device
	label  string
	format gputypes.TextureFormat

	topology gputypes.PrimitiveTopology
	cullMode gputypes.CullMode

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// Label returns the debug label.
func (p *Pipeline) Label() string {
	return p.label
}

// Format returns the color target format.
func (p *Pipeline) Format() gputypes.TextureFormat {
	return p.format
}

// Destroy releases the pipeline and its layouts in reverse creation order.
// Safe to call multiple times.
func (p *Pipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
}

// MakeRenderPipeline builds the triangle-strip pipeline described by desc.
// Vertex buffer slot 0 feeds the quad corners. Group 0 holds the projection
// uniform (vertex), the texture and the sampler (fragment).
func (c *Context) MakeRenderPipeline(desc *texview.PipelineDescriptor) (texview.Pipeline, error) {
	vertex, err := stageFunction(desc.VertexFunction, ir.StageVertex)
	if err != nil {
		return nil, err
	}
	fragment, err := stageFunction(desc.FragmentFunction, ir.StageFragment)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		device:   c.device,
		label:    desc.Label,
		format:   desc.ColorFormat,
		topology: gputypes.PrimitiveTopologyTriangleStrip,
		cullMode: gputypes.CullModeNone,
	}

	bindLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: desc.Label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    uniformBinding,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    textureBinding,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    samplerBinding,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("halgpu: create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	target := gputypes.ColorTargetState{
		Format:    desc.ColorFormat,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if desc.BlendingEnabled {
		blend := gputypes.BlendStatePremultiplied()
		target.Blend = &blend
	}

	pipeline, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     vertex.library.module,
			EntryPoint: vertex.name,
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     fragment.library.module,
			EntryPoint: fragment.name,
			Targets:    []gputypes.ColorTargetState{target},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  p.topology,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  p.cullMode,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("halgpu: create render pipeline %s: %w", desc.Label, err)
	}
	p.pipeline = pipeline

	texview.Logger().Debug("halgpu: pipeline created", "label", desc.Label, "format", desc.ColorFormat)
	return p, nil
}

// stageFunction checks that fn is a halgpu Function for stage.
func stageFunction(fn texview.ShaderFunction, stage ir.ShaderStage) (*Function, error) {
	f, ok := fn.(*Function)
	if !ok || f == nil {
		return nil, fmt.Errorf("%w: shader function %T", ErrForeignObject, fn)
	}
	if f.stage != stage {
		return nil, fmt.Errorf("%w: %s", ErrWrongStage, f.name)
	}
	if f.library.module == nil {
		return nil, fmt.Errorf("%w: library %s destroyed", ErrForeignObject, f.library.name)
	}
	return f, nil
}
