package texview

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
)

// quadVertexCount is the vertex count of the full-screen triangle strip.
const quadVertexCount = 4

// View displays one GPU texture per frame in a presentation surface,
// fitted under a ContentMode.
//
// View is NOT safe for concurrent use. Configuration, Layout and Draw must
// all run on the goroutine that owns rendering.
type View struct {
	ctx     Context
	surface Surface
	logger  *slog.Logger

	pipeline    Pipeline
	contentMode ContentMode
	autoResize  bool
	projection  Projection

	// dirty is set whenever the inputs of the projection may have changed.
	dirty bool

	// lastTexW and lastTexH are the texture dimensions of the last
	// projection update.
	lastTexW, lastTexH int

	// layoutBounds and layoutScale are the last values passed to Layout.
	layoutBounds Size
	layoutScale  float64
	hasLayout    bool

	// recomputes counts projection updates.
	recomputes int
}

// New creates a View drawing into surface with the pipeline compiled by ctx.
//
// The surface is configured with the view's pixel format and color space
// and a maximum of MaxDrawableCount drawables in flight. Shader or pipeline
// compilation failure is returned as an error.
func New(ctx Context, surface Surface, opts ...Option) (*View, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if surface == nil {
		return nil, ErrNilSurface
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pipeline, err := makePipeline(ctx, o.pixelFormat)
	if err != nil {
		return nil, fmt.Errorf("texview: create view: %w", err)
	}

	surface.SetPixelFormat(o.pixelFormat)
	surface.SetColorSpace(o.colorSpace)
	surface.SetMaxDrawableCount(MaxDrawableCount)

	v := &View{
		ctx:         ctx,
		surface:     surface,
		logger:      o.logger,
		pipeline:    pipeline,
		contentMode: o.contentMode,
		autoResize:  o.autoResize,
		projection:  IdentityProjection(),
		dirty:       true,
	}
	v.log().Info("texview: view created",
		"format", o.pixelFormat, "mode", o.contentMode, "autoResize", o.autoResize)
	return v, nil
}

// MustNew is like New but panics on error.
// Use only when errors are programming mistakes (a broken shader setup).
func MustNew(ctx Context, surface Surface, opts ...Option) *View {
	v, err := New(ctx, surface, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *View) log() *slog.Logger {
	if v.logger != nil {
		return v.logger
	}
	return Logger()
}

// Context returns the GPU context the view was created with.
func (v *View) Context() Context {
	return v.ctx
}

// Surface returns the presentation surface.
func (v *View) Surface() Surface {
	return v.surface
}

// PixelFormat returns the drawable pixel format.
func (v *View) PixelFormat() gputypes.TextureFormat {
	return v.surface.PixelFormat()
}

// SetPixelFormat changes the drawable pixel format and rebuilds the
// pipeline. It panics if the pipeline cannot be rebuilt.
func (v *View) SetPixelFormat(format gputypes.TextureFormat) {
	v.surface.SetPixelFormat(format)
	v.UpdatePipeline()
}

// ColorSpace returns the drawable color space.
func (v *View) ColorSpace() ColorSpace {
	return v.surface.ColorSpace()
}

// SetColorSpace changes the drawable color space.
func (v *View) SetColorSpace(cs ColorSpace) {
	v.surface.SetColorSpace(cs)
}

// DrawableSize returns the drawable size in pixels.
func (v *View) DrawableSize() Size {
	return v.surface.DrawableSize()
}

// SetDrawableSize sets the drawable size in pixels. With auto-resize
// enabled the next Layout call overrides it.
func (v *View) SetDrawableSize(size Size) {
	if v.surface.DrawableSize() != size {
		v.surface.SetDrawableSize(size)
		v.MarkDirty()
	}
}

// AutoResizeDrawable reports whether Layout derives the drawable size.
func (v *View) AutoResizeDrawable() bool {
	return v.autoResize
}

// SetAutoResizeDrawable controls whether Layout derives the drawable size.
// Enabling it re-applies the most recent layout, if any.
func (v *View) SetAutoResizeDrawable(enabled bool) {
	v.autoResize = enabled
	if enabled && v.hasLayout {
		v.Layout(v.layoutBounds, v.layoutScale)
	}
}

// ContentMode returns the active content mode.
func (v *View) ContentMode() ContentMode {
	return v.contentMode
}

// SetContentMode changes the content mode. The projection is recomputed
// on the next Draw.
func (v *View) SetContentMode(mode ContentMode) {
	v.contentMode = mode
	v.MarkDirty()
}

// Projection returns the projection used by the most recent Draw.
func (v *View) Projection() Projection {
	return v.projection
}

// NeedsProjectionUpdate reports whether the next Draw recomputes the projection.
func (v *View) NeedsProjectionUpdate() bool {
	return v.dirty
}

// MarkDirty forces a projection recompute on the next Draw.
func (v *View) MarkDirty() {
	v.dirty = true
}

// UpdatePipeline rebuilds the cached pipeline for the current pixel format.
//
// A failure here means the shader or context setup is broken, which the
// view cannot recover from, so UpdatePipeline panics with an error wrapping
// ErrPipeline.
func (v *View) UpdatePipeline() {
	format := v.surface.PixelFormat()
	pipeline, err := makePipeline(v.ctx, format)
	if err != nil {
		v.log().Error("texview: pipeline rebuild failed", "format", format, "err", err)
		panic(fmt.Errorf("texview: rebuild pipeline for %v: %w", format, err))
	}
	if d, ok := v.pipeline.(destroyer); ok {
		d.Destroy()
	}
	v.pipeline = pipeline
	v.log().Debug("texview: pipeline rebuilt", "format", format)
}

// Layout is the layout-change hook called by the host windowing layer with
// the view bounds in points and the backing scale factor. With auto-resize
// enabled it sets the drawable size to bounds * scale and marks the
// projection dirty; otherwise it only records the layout.
func (v *View) Layout(bounds Size, scale float64) {
	v.layoutBounds = bounds
	v.layoutScale = scale
	v.hasLayout = true

	if !v.autoResize {
		return
	}
	v.surface.SetDrawableSize(bounds.Scale(scale))
	v.MarkDirty()
}

// Draw blits tex into the next drawable and schedules it for presentation
// on cb.
//
// extra, if non-nil, runs after the quad draw inside the same render pass
// so the caller can append work. fence, if non-nil, is waited on before
// fragment work so a producer on another queue can finish writing tex.
//
// When the surface has no drawable available the frame is skipped:
// nothing is encoded and nothing is presented.
func (v *View) Draw(tex Texture, extra func(RenderEncoder), cb CommandBuffer, fence Fence) {
	drawable, ok := v.surface.NextDrawable()
	if !ok {
		v.log().Debug("texview: no drawable available, frame skipped")
		return
	}

	desc := &RenderPassDescriptor{
		Label:      "texview_pass",
		Target:     drawable,
		LoadOp:     gputypes.LoadOpLoad,
		StoreOp:    gputypes.StoreOpStore,
		ClearColor: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
	}

	cb.Render(desc, func(enc RenderEncoder) {
		v.encode(tex, extra, enc, fence)
	})
	cb.Present(drawable)
}

// encode records the textured quad into enc.
func (v *View) encode(tex Texture, extra func(RenderEncoder), enc RenderEncoder, fence Fence) {
	w, h := tex.Width(), tex.Height()
	if w != v.lastTexW || h != v.lastTexH {
		v.dirty = true
	}
	if v.dirty {
		v.updateProjection(w, h)
		v.dirty = false
	}

	if fence != nil {
		enc.WaitForFence(fence, StageFragment)
	}

	enc.SetCullMode(gputypes.CullModeNone)
	enc.SetRenderPipeline(v.pipeline)
	enc.SetVertexBytes(v.projection.Bytes(), 0)
	enc.SetFragmentTexture(tex, 0)
	enc.DrawPrimitives(gputypes.PrimitiveTopologyTriangleStrip, 0, quadVertexCount)

	if extra != nil {
		extra(enc)
	}
}

func (v *View) updateProjection(texW, texH int) {
	drawable := v.surface.DrawableSize()
	v.projection = ComputeProjection(v.contentMode, drawable, texW, texH)
	v.lastTexW, v.lastTexH = texW, texH
	v.recomputes++
	v.log().Debug("texview: projection updated",
		"mode", v.contentMode, "drawable", drawable,
		"texture", fmt.Sprintf("%dx%d", texW, texH),
		"sx", v.projection.SX, "sy", v.projection.SY)
}
