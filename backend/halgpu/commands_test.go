package halgpu

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texview"
)

func newTestView(t *testing.T, ctx *Context, s *Surface, opts ...texview.Option) *texview.View {
	t.Helper()
	v, err := texview.New(ctx, s, opts...)
	if err != nil {
		t.Fatalf("texview.New failed: %v", err)
	}
	return v
}

func newTestCommandBuffer(t *testing.T, ctx *Context) *CommandBuffer {
	t.Helper()
	cb, err := ctx.NewCommandBuffer()
	if err != nil {
		t.Fatalf("NewCommandBuffer failed: %v", err)
	}
	return cb
}

func TestViewDrawCommit(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestSurface(t, ctx, 64, 32)
	v := newTestView(t, ctx, s, texview.WithContentMode(texview.ContentModeAspectFit))
	tex := newTestTexture(t, ctx, 16, 16)

	cb := newTestCommandBuffer(t, ctx)
	v.Draw(tex, nil, cb, nil)

	if len(cb.drawables) != 1 {
		t.Fatalf("scheduled drawables = %d, want 1", len(cb.drawables))
	}
	if len(cb.resources) != 1 {
		t.Errorf("frame resources = %d, want 1", len(cb.resources))
	}
	if err := cb.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if s.inFlight != 0 {
		t.Errorf("inFlight = %d, want 0 after present", s.inFlight)
	}
	if len(ctx.pending) != 0 {
		t.Errorf("pending releases = %d, want 0 on a synchronous queue", len(ctx.pending))
	}
	if ctx.lastSubmission == 0 {
		t.Error("Commit should record the submission index")
	}

	want := texview.ComputeProjection(texview.ContentModeAspectFit, sizeOf(64, 32), 16, 16)
	if v.Projection() != want {
		t.Errorf("Projection() = %+v, want %+v", v.Projection(), want)
	}
}

func TestViewDrawManyFrames(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestSurface(t, ctx, 32, 32)
	v := newTestView(t, ctx, s)
	tex := newTestTexture(t, ctx, 8, 8)

	for i := range 2 * texview.MaxDrawableCount {
		cb := newTestCommandBuffer(t, ctx)
		v.Draw(tex, nil, cb, nil)
		if err := cb.Commit(); err != nil {
			t.Fatalf("frame %d: Commit failed: %v", i, err)
		}
	}
	if s.inFlight != 0 {
		t.Errorf("inFlight = %d, want 0", s.inFlight)
	}
}

func TestViewDrawWithFenceAndExtraCommands(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestSurface(t, ctx, 32, 32)
	v := newTestView(t, ctx, s)
	tex := newTestTexture(t, ctx, 8, 8)
	overlay := newTestTexture(t, ctx, 4, 4)

	fence, err := ctx.NewFence()
	if err != nil {
		t.Fatal(err)
	}
	defer fence.Destroy()

	extraCalls := 0
	extra := func(enc texview.RenderEncoder) {
		extraCalls++
		enc.SetFragmentTexture(overlay, 0)
		enc.DrawPrimitives(gputypes.PrimitiveTopologyTriangleStrip, 0, 4)
	}

	cb := newTestCommandBuffer(t, ctx)
	v.Draw(tex, extra, cb, fence)
	if extraCalls != 1 {
		t.Errorf("extra commands ran %d times, want 1", extraCalls)
	}
	if len(cb.resources) != 2 {
		t.Errorf("frame resources = %d, want 2 (one per binding set)", len(cb.resources))
	}
	if err := cb.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
}

func TestViewDrawUnreachedFence(t *testing.T) {
	ctx := newTestContext(t, WithFenceTimeout(time.Millisecond))
	s := newTestSurface(t, ctx, 32, 32)
	v := newTestView(t, ctx, s)
	tex := newTestTexture(t, ctx, 8, 8)

	fence, err := ctx.NewFence()
	if err != nil {
		t.Fatal(err)
	}
	defer fence.Destroy()
	fence.SetValue(7)

	cb := newTestCommandBuffer(t, ctx)
	v.Draw(tex, nil, cb, fence)
	if err := cb.Commit(); err != nil {
		t.Fatalf("Commit with unreached fence should still draw, got %v", err)
	}
}

func TestViewDrawSkippedFrame(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestSurface(t, ctx, 0, 0)
	v := newTestView(t, ctx, s)
	tex := newTestTexture(t, ctx, 8, 8)

	cb := newTestCommandBuffer(t, ctx)
	v.Draw(tex, nil, cb, nil)
	if len(cb.drawables) != 0 || len(cb.resources) != 0 {
		t.Error("skipped frame should encode nothing")
	}
	if err := cb.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
}

func TestViewDrawForeignTexture(t *testing.T) {
	ctx := newTestContext(t)
	s := newTestSurface(t, ctx, 32, 32)
	v := newTestView(t, ctx, s)

	cb := newTestCommandBuffer(t, ctx)
	v.Draw(fakeTexture{}, nil, cb, nil)

	err := cb.Commit()
	if !errors.Is(err, ErrForeignObject) {
		t.Errorf("Commit error = %v, want %v", err, ErrForeignObject)
	}
	if cb.Err() == nil {
		t.Error("Err() should report the encoding error")
	}
	if s.inFlight != 0 {
		t.Errorf("inFlight = %d, want 0 after discard", s.inFlight)
	}
}

func TestCommandBufferEncodingErrors(t *testing.T) {
	ctx := newTestContext(t)
	vertex, fragment := viewFunctions(t, ctx)
	p, err := ctx.MakeRenderPipeline(&texview.PipelineDescriptor{
		Label:            "test",
		VertexFunction:   vertex,
		FragmentFunction: fragment,
		ColorFormat:      texview.DefaultPixelFormat,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer p.(*Pipeline).Destroy()

	projection := texview.IdentityProjection().Bytes()
	strip := gputypes.PrimitiveTopologyTriangleStrip

	tests := []struct {
		name    string
		encode  func(t *testing.T, enc texview.RenderEncoder)
		wantErr error
	}{
		{"no pipeline", func(t *testing.T, enc texview.RenderEncoder) {
			enc.DrawPrimitives(strip, 0, 4)
		}, ErrNoPipeline},
		{"foreign pipeline", func(t *testing.T, enc texview.RenderEncoder) {
			enc.SetRenderPipeline(struct{}{})
		}, ErrForeignObject},
		{"wrong topology", func(t *testing.T, enc texview.RenderEncoder) {
			enc.SetRenderPipeline(p)
			enc.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 6)
		}, ErrTopology},
		{"missing texture", func(t *testing.T, enc texview.RenderEncoder) {
			enc.SetRenderPipeline(p)
			enc.SetVertexBytes(projection, 0)
			enc.DrawPrimitives(strip, 0, 4)
		}, ErrMissingBinding},
		{"vertex bytes index", func(t *testing.T, enc texview.RenderEncoder) {
			enc.SetVertexBytes(projection, 3)
		}, ErrBindingIndex},
		{"texture index", func(t *testing.T, enc texview.RenderEncoder) {
			enc.SetFragmentTexture(newTestTexture(t, ctx, 2, 2), 1)
		}, ErrBindingIndex},
		{"released texture", func(t *testing.T, enc texview.RenderEncoder) {
			tex := newTestTexture(t, ctx, 2, 2)
			tex.Destroy()
			enc.SetFragmentTexture(tex, 0)
		}, ErrTextureReleased},
		{"foreign fence", func(t *testing.T, enc texview.RenderEncoder) {
			enc.WaitForFence(42, texview.StageFragment)
		}, ErrForeignObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSurface(t, ctx, 8, 8)
			d, ok := s.NextDrawable()
			if !ok {
				t.Fatal("NextDrawable failed")
			}

			cb := newTestCommandBuffer(t, ctx)
			cb.Render(&texview.RenderPassDescriptor{
				Target:  d,
				LoadOp:  gputypes.LoadOpClear,
				StoreOp: gputypes.StoreOpStore,
			}, func(enc texview.RenderEncoder) {
				tt.encode(t, enc)
			})
			cb.Present(d)

			if err := cb.Commit(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Commit error = %v, want %v", err, tt.wantErr)
			}
			if s.inFlight != 0 {
				t.Errorf("inFlight = %d, want 0", s.inFlight)
			}
		})
	}
}

func TestCommandBufferForeignTarget(t *testing.T) {
	ctx := newTestContext(t)

	cb := newTestCommandBuffer(t, ctx)
	called := false
	cb.Render(&texview.RenderPassDescriptor{}, func(texview.RenderEncoder) { called = true })
	if called {
		t.Error("render func should not run without a halgpu drawable")
	}
	if !errors.Is(cb.Commit(), ErrForeignObject) {
		t.Errorf("Commit error = %v, want %v", cb.Err(), ErrForeignObject)
	}
}

func TestCommandBufferCommitTwice(t *testing.T) {
	ctx := newTestContext(t)

	cb := newTestCommandBuffer(t, ctx)
	if err := cb.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := cb.Commit(); !errors.Is(err, ErrCommitted) {
		t.Errorf("second Commit error = %v, want %v", err, ErrCommitted)
	}

	cb.Render(&texview.RenderPassDescriptor{}, func(texview.RenderEncoder) {})
	if !errors.Is(cb.Err(), ErrCommitted) {
		t.Errorf("Err() after Render on committed buffer = %v, want %v", cb.Err(), ErrCommitted)
	}
}
