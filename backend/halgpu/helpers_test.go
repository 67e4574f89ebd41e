package halgpu

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens the noop HAL adapter. Cleanup is registered on t.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("no noop adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func newTestContext(t *testing.T, opts ...ContextOption) *Context {
	t.Helper()
	device, queue := createNoopDevice(t)
	ctx, err := NewContext(device, queue, opts...)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	t.Cleanup(ctx.Destroy)
	return ctx
}

func newTestSurface(t *testing.T, ctx *Context, w, h float64) *Surface {
	t.Helper()
	s, err := NewSurface(ctx, &noop.Surface{})
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	s.SetDrawableSize(sizeOf(w, h))
	t.Cleanup(s.Destroy)
	return s
}

func newTestTexture(t *testing.T, ctx *Context, w, h int) *Texture {
	t.Helper()
	tex, err := ctx.NewTexture(w, h, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("NewTexture failed: %v", err)
	}
	t.Cleanup(tex.Destroy)
	return tex
}

// flakySurface fails AcquireTexture with queued errors before falling back
// to the noop surface.
type flakySurface struct {
	*noop.Surface
	errs []error
}

func (s *flakySurface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	return s.Surface.AcquireTexture(fence)
}

// fakeTexture is a texture from some other implementation.
type fakeTexture struct{}

func (fakeTexture) Width() int  { return 4 }
func (fakeTexture) Height() int { return 4 }

// fakeFunction is a shader function from some other implementation.
type fakeFunction struct{}

func (fakeFunction) Name() string { return "fake" }
