package texview

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockFunction implements ShaderFunction for testing.
type mockFunction struct{ name string }

func (f mockFunction) Name() string { return f.name }

// mockLibrary implements Library for testing.
type mockLibrary struct {
	functions map[string]bool
}

func (l *mockLibrary) Function(name string) (ShaderFunction, error) {
	if !l.functions[name] {
		return nil, fmt.Errorf("no function %q", name)
	}
	return mockFunction{name: name}, nil
}

// mockPipeline implements Pipeline for testing.
type mockPipeline struct {
	desc      PipelineDescriptor
	destroyed bool
}

func (p *mockPipeline) Destroy() { p.destroyed = true }

// mockContext implements Context for testing.
type mockContext struct {
	library      *mockLibrary
	libraryErr   error
	pipelineErr  error
	pipelines    []*mockPipeline
	libraryNames []string
}

func newMockContext() *mockContext {
	return &mockContext{
		library: &mockLibrary{functions: map[string]bool{
			VertexFunctionName:   true,
			FragmentFunctionName: true,
		}},
	}
}

func (c *mockContext) Device() gpucontext.Device { return nil }

func (c *mockContext) Library(name string) (Library, error) {
	c.libraryNames = append(c.libraryNames, name)
	if c.libraryErr != nil {
		return nil, c.libraryErr
	}
	return c.library, nil
}

func (c *mockContext) MakeRenderPipeline(desc *PipelineDescriptor) (Pipeline, error) {
	if c.pipelineErr != nil {
		return nil, c.pipelineErr
	}
	p := &mockPipeline{desc: *desc}
	c.pipelines = append(c.pipelines, p)
	return p, nil
}

func (c *mockContext) lastPipeline() *mockPipeline {
	if len(c.pipelines) == 0 {
		return nil
	}
	return c.pipelines[len(c.pipelines)-1]
}

// mockDrawable implements Drawable for testing.
type mockDrawable struct {
	size     Size
	presents int
}

func (d *mockDrawable) Size() Size     { return d.size }
func (d *mockDrawable) Present() error { d.presents++; return nil }

// mockSurface implements Surface for testing.
type mockSurface struct {
	format      gputypes.TextureFormat
	colorSpace  ColorSpace
	size        Size
	maxDrawable int
	exhausted   bool
	acquired    []*mockDrawable
	sizeSets    int
}

func newMockSurface(w, h float64) *mockSurface {
	return &mockSurface{size: Size{Width: w, Height: h}}
}

func (s *mockSurface) PixelFormat() gputypes.TextureFormat     { return s.format }
func (s *mockSurface) SetPixelFormat(f gputypes.TextureFormat) { s.format = f }
func (s *mockSurface) ColorSpace() ColorSpace                  { return s.colorSpace }
func (s *mockSurface) SetColorSpace(cs ColorSpace)             { s.colorSpace = cs }
func (s *mockSurface) DrawableSize() Size                      { return s.size }
func (s *mockSurface) SetDrawableSize(size Size)               { s.size = size; s.sizeSets++ }
func (s *mockSurface) MaxDrawableCount() int                   { return s.maxDrawable }
func (s *mockSurface) SetMaxDrawableCount(n int)               { s.maxDrawable = n }

func (s *mockSurface) NextDrawable() (Drawable, bool) {
	if s.exhausted {
		return nil, false
	}
	d := &mockDrawable{size: s.size}
	s.acquired = append(s.acquired, d)
	return d, true
}

// mockEncoder implements RenderEncoder and records every call in order.
type mockEncoder struct {
	calls    []string
	pipeline Pipeline
	vertex   []byte
	texture  Texture
	fence    Fence
	stage    Stage
	cull     gputypes.CullMode
	topology gputypes.PrimitiveTopology
	vcount   int
}

func (e *mockEncoder) WaitForFence(f Fence, stage Stage) {
	e.calls = append(e.calls, "wait")
	e.fence, e.stage = f, stage
}

func (e *mockEncoder) SetCullMode(mode gputypes.CullMode) {
	e.calls = append(e.calls, "cull")
	e.cull = mode
}

func (e *mockEncoder) SetRenderPipeline(p Pipeline) {
	e.calls = append(e.calls, "pipeline")
	e.pipeline = p
}

func (e *mockEncoder) SetVertexBytes(data []byte, _ int) {
	e.calls = append(e.calls, "vertex")
	e.vertex = append([]byte(nil), data...)
}

func (e *mockEncoder) SetFragmentTexture(tex Texture, _ int) {
	e.calls = append(e.calls, "texture")
	e.texture = tex
}

func (e *mockEncoder) DrawPrimitives(topology gputypes.PrimitiveTopology, _, count int) {
	e.calls = append(e.calls, "draw")
	e.topology, e.vcount = topology, count
}

// mockCommandBuffer implements CommandBuffer for testing.
type mockCommandBuffer struct {
	encoder   *mockEncoder
	passes    []RenderPassDescriptor
	presented []Drawable
	order     []string
}

func newMockCommandBuffer() *mockCommandBuffer {
	return &mockCommandBuffer{encoder: &mockEncoder{}}
}

func (c *mockCommandBuffer) Render(desc *RenderPassDescriptor, fn func(RenderEncoder)) {
	c.order = append(c.order, "render")
	c.passes = append(c.passes, *desc)
	fn(c.encoder)
}

func (c *mockCommandBuffer) Present(d Drawable) {
	c.order = append(c.order, "present")
	c.presented = append(c.presented, d)
}

// mockTexture implements Texture for testing.
type mockTexture struct{ w, h int }

func (t mockTexture) Width() int  { return t.w }
func (t mockTexture) Height() int { return t.h }

var errMock = errors.New("mock failure")
