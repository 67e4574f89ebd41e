package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texview"
	"github.com/gogpu/wgpu/hal"
)

var (
	_ texview.CommandBuffer = (*CommandBuffer)(nil)
	_ texview.RenderEncoder = (*renderEncoder)(nil)
)

// CommandBuffer records render passes for one frame.
//
// Encoding errors do not surface from Render; the first one is kept and
// returned by Commit, which then submits nothing and discards the frame's
// drawables.
type CommandBuffer struct {
	ctx     *Context
	encoder hal.CommandEncoder

	resources []frameResources
	drawables []*Drawable

	err       error
	committed bool
}

// frameResources holds the per-draw objects released after submission.
type frameResources struct {
	uniform hal.Buffer
	group   hal.BindGroup
}

func (r *frameResources) destroy(device hal.Device) {
	if r.group != nil {
		device.DestroyBindGroup(r.group)
	}
	if r.uniform != nil {
		device.DestroyBuffer(r.uniform)
	}
}

// NewCommandBuffer starts recording a frame. Completed frames are
// reclaimed first.
func (c *Context) NewCommandBuffer() (*CommandBuffer, error) {
	c.Reclaim()

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "texview_frame",
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("texview_frame"); err != nil {
		encoder.Destroy()
		return nil, fmt.Errorf("halgpu: begin encoding: %w", err)
	}
	return &CommandBuffer{ctx: c, encoder: encoder}, nil
}

// Err returns the first encoding error, if any.
func (cb *CommandBuffer) Err() error {
	return cb.err
}

func (cb *CommandBuffer) fail(err error) {
	if cb.err == nil {
		cb.err = err
		texview.Logger().Warn("halgpu: encoding failed", "err", err)
	}
}

// Render records one render pass targeting desc.Target, which must be a
// Drawable from a halgpu Surface.
func (cb *CommandBuffer) Render(desc *texview.RenderPassDescriptor, fn func(texview.RenderEncoder)) {
	if cb.committed {
		cb.fail(ErrCommitted)
		return
	}
	if cb.err != nil {
		return
	}
	target, ok := desc.Target.(*Drawable)
	if !ok || target == nil {
		cb.fail(fmt.Errorf("%w: render target %T", ErrForeignObject, desc.Target))
		return
	}
	if target.released {
		cb.fail(ErrDrawableReleased)
		return
	}

	pass := cb.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target.view,
			LoadOp:     desc.LoadOp,
			StoreOp:    desc.StoreOp,
			ClearValue: desc.ClearColor,
		}},
	})
	fn(&renderEncoder{cb: cb, pass: pass, cullMode: gputypes.CullModeNone})
	pass.End()
}

// Present schedules d for presentation after the frame is submitted.
func (cb *CommandBuffer) Present(d texview.Drawable) {
	if cb.committed {
		cb.fail(ErrCommitted)
		return
	}
	drawable, ok := d.(*Drawable)
	if !ok || drawable == nil {
		cb.fail(fmt.Errorf("%w: drawable %T", ErrForeignObject, d))
		return
	}
	cb.drawables = append(cb.drawables, drawable)
}

// Commit ends encoding, submits the frame and presents the scheduled
// drawables in order. Per-frame objects are retired behind the submission.
//
// If encoding failed, nothing is submitted, scheduled drawables are
// discarded and the encoding error is returned.
func (cb *CommandBuffer) Commit() error {
	if cb.committed {
		return ErrCommitted
	}
	cb.committed = true
	ctx := cb.ctx
	device := ctx.device

	if cb.err != nil {
		cb.encoder.DiscardEncoding()
		cb.abandon()
		return cb.err
	}

	cmdBuf, err := cb.encoder.EndEncoding()
	if err != nil {
		cb.abandon()
		return fmt.Errorf("halgpu: end encoding: %w", err)
	}
	index, err := ctx.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		device.FreeCommandBuffer(cmdBuf)
		cb.abandon()
		return fmt.Errorf("halgpu: submit: %w", err)
	}
	ctx.lastSubmission = index

	var presentErr error
	for _, d := range cb.drawables {
		if err := d.Present(); err != nil && presentErr == nil {
			presentErr = err
		}
	}
	cb.drawables = nil

	resources, encoder := cb.resources, cb.encoder
	cb.resources, cb.encoder = nil, nil
	ctx.retire(index, func() {
		device.FreeCommandBuffer(cmdBuf)
		for i := range resources {
			resources[i].destroy(device)
		}
		encoder.Destroy()
	})
	ctx.Reclaim()
	return presentErr
}

// abandon releases everything recorded without submitting it.
func (cb *CommandBuffer) abandon() {
	device := cb.ctx.device
	for _, d := range cb.drawables {
		d.discard()
	}
	cb.drawables = nil
	for i := range cb.resources {
		cb.resources[i].destroy(device)
	}
	cb.resources = nil
	cb.encoder.Destroy()
	cb.encoder = nil
}

// renderEncoder records into one hal render pass.
type renderEncoder struct {
	cb   *CommandBuffer
	pass hal.RenderPassEncoder

	pipeline *Pipeline
	uniform  []byte
	texture  *Texture
	cullMode gputypes.CullMode

	// group is the bind group of the last draw; nil after a binding changed.
	group hal.BindGroup
}

// WaitForFence blocks until f is reached. The HAL has no per-stage GPU
// waits, so the wait happens on the CPU before any later command of this
// pass is recorded, which orders it before both stages.
func (e *renderEncoder) WaitForFence(f texview.Fence, stage texview.Stage) {
	fence, ok := f.(*Fence)
	if !ok || fence == nil {
		e.cb.fail(fmt.Errorf("%w: fence %T", ErrForeignObject, f))
		return
	}
	reached, err := fence.Wait(e.cb.ctx.fenceTimeout)
	if err != nil {
		e.cb.fail(fmt.Errorf("halgpu: wait for fence: %w", err))
		return
	}
	if !reached {
		texview.Logger().Warn("halgpu: fence not reached, drawing anyway",
			"value", fence.Value(), "stage", stage, "timeout", e.cb.ctx.fenceTimeout)
	}
}

// SetCullMode records the requested cull mode. Culling is pipeline state in
// the HAL, so a mode that differs from the pipeline's is reported at draw
// time and otherwise ignored.
func (e *renderEncoder) SetCullMode(mode gputypes.CullMode) {
	e.cullMode = mode
}

func (e *renderEncoder) SetRenderPipeline(p texview.Pipeline) {
	pipeline, ok := p.(*Pipeline)
	if !ok || pipeline == nil || pipeline.pipeline == nil {
		e.cb.fail(fmt.Errorf("%w: pipeline %T", ErrForeignObject, p))
		return
	}
	e.pipeline = pipeline
	e.group = nil
	e.pass.SetPipeline(pipeline.pipeline)
}

func (e *renderEncoder) SetVertexBytes(data []byte, index int) {
	if index != uniformBinding {
		e.cb.fail(fmt.Errorf("%w: vertex bytes at %d", ErrBindingIndex, index))
		return
	}
	e.uniform = append(e.uniform[:0], data...)
	e.group = nil
}

func (e *renderEncoder) SetFragmentTexture(tex texview.Texture, index int) {
	if index != 0 {
		e.cb.fail(fmt.Errorf("%w: fragment texture at %d", ErrBindingIndex, index))
		return
	}
	t, ok := tex.(*Texture)
	if !ok || t == nil {
		e.cb.fail(fmt.Errorf("%w: texture %T", ErrForeignObject, tex))
		return
	}
	if t.released {
		e.cb.fail(ErrTextureReleased)
		return
	}
	e.texture = t
	e.group = nil
}

func (e *renderEncoder) DrawPrimitives(topology gputypes.PrimitiveTopology, vertexStart, vertexCount int) {
	if e.cb.err != nil {
		return
	}
	if e.pipeline == nil {
		e.cb.fail(ErrNoPipeline)
		return
	}
	if topology != e.pipeline.topology {
		e.cb.fail(fmt.Errorf("%w: %v, pipeline draws %v", ErrTopology, topology, e.pipeline.topology))
		return
	}
	if e.cullMode != e.pipeline.cullMode {
		texview.Logger().Debug("halgpu: cull mode fixed by pipeline",
			"requested", e.cullMode, "pipeline", e.pipeline.cullMode)
	}

	if e.group == nil {
		group, err := e.bindGroup()
		if err != nil {
			e.cb.fail(err)
			return
		}
		e.group = group
	}
	quad, err := e.cb.ctx.quadBuffer()
	if err != nil {
		e.cb.fail(err)
		return
	}
	e.pass.SetVertexBuffer(0, quad, 0)
	e.pass.SetBindGroup(0, e.group, nil)
	e.pass.Draw(uint32(vertexCount), 1, uint32(vertexStart), 0)
}

// bindGroup uploads the current uniform bytes and binds them with the
// current texture and the shared sampler.
func (e *renderEncoder) bindGroup() (hal.BindGroup, error) {
	if len(e.uniform) == 0 || e.texture == nil {
		return nil, ErrMissingBinding
	}
	ctx := e.cb.ctx
	device := ctx.device

	sampler, err := ctx.textureSampler()
	if err != nil {
		return nil, err
	}

	size := uint64(len(e.uniform))
	uniform, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "texview_projection",
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create uniform buffer: %w", err)
	}
	if err := ctx.queue.WriteBuffer(uniform, 0, e.uniform); err != nil {
		device.DestroyBuffer(uniform)
		return nil, fmt.Errorf("halgpu: write uniform buffer: %w", err)
	}

	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "texview_bind",
		Layout: e.pipeline.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: uniformBinding, Resource: gputypes.BufferBinding{
				Buffer: uniform.NativeHandle(), Offset: 0, Size: size,
			}},
			{Binding: textureBinding, Resource: gputypes.TextureViewBinding{
				TextureView: e.texture.view.NativeHandle(),
			}},
			{Binding: samplerBinding, Resource: gputypes.SamplerBinding{
				Sampler: sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		device.DestroyBuffer(uniform)
		return nil, fmt.Errorf("halgpu: create bind group: %w", err)
	}

	e.cb.resources = append(e.cb.resources, frameResources{uniform: uniform, group: group})
	return group, nil
}
