package halgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/texview"
	"github.com/gogpu/wgpu/hal"
)

// DefaultFenceTimeout bounds how long WaitForFence blocks on a producer.
const DefaultFenceTimeout = 5 * time.Second

var (
	_ texview.Context           = (*Context)(nil)
	_ gpucontext.TextureCreator = (*Context)(nil)
)

// Context is a texview.Context on a HAL device and queue.
//
// It owns the shader libraries, the shared sampler and quad vertex buffer
// it creates, plus
// per-frame objects awaiting queue completion. It does not own the device
// or queue.
type Context struct {
	device hal.Device
	queue  hal.Queue

	limits       gputypes.Limits
	fenceTimeout time.Duration

	libraries map[string]*Library
	sampler   hal.Sampler
	quad      hal.Buffer

	// lastSubmission is the queue index of the most recent Commit.
	lastSubmission uint64
	pending        []pendingRelease
}

// pendingRelease is a cleanup that may run once the queue has completed
// submission index.
type pendingRelease struct {
	index   uint64
	release func()
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLimits sets the device limits the Context validates against.
// The default is gputypes.DefaultLimits().
func WithLimits(limits gputypes.Limits) ContextOption {
	return func(c *Context) {
		c.limits = limits
	}
}

// WithFenceTimeout sets how long WaitForFence blocks.
func WithFenceTimeout(d time.Duration) ContextOption {
	return func(c *Context) {
		c.fenceTimeout = d
	}
}

// NewContext creates a Context on device and queue.
func NewContext(device hal.Device, queue hal.Queue, opts ...ContextOption) (*Context, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}

	c := &Context{
		device:       device,
		queue:        queue,
		limits:       gputypes.DefaultLimits(),
		fenceTimeout: DefaultFenceTimeout,
		libraries:    make(map[string]*Library),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewContextFromProvider creates a Context on a shared device. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue. If it also reports Limits() gputypes.Limits, those are
// used unless opts override them.
func NewContextFromProvider(provider any, opts ...ContextOption) (*Context, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNotHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNotHALProvider)
	}

	if lp, ok := provider.(interface{ Limits() gputypes.Limits }); ok {
		opts = append([]ContextOption{WithLimits(lp.Limits())}, opts...)
	}
	return NewContext(device, queue, opts...)
}

// Device returns the HAL device.
func (c *Context) Device() gpucontext.Device {
	return c.device
}

// Queue returns the HAL queue.
func (c *Context) Queue() gpucontext.Queue {
	return c.queue
}

// HalDevice returns the HAL device as any, for provider-based consumers.
func (c *Context) HalDevice() any {
	return c.device
}

// HalQueue returns the HAL queue as any, for provider-based consumers.
func (c *Context) HalQueue() any {
	return c.queue
}

// Limits returns the device limits in effect.
func (c *Context) Limits() gputypes.Limits {
	return c.limits
}

// Library returns the shader library registered under name, compiling it
// on first use.
func (c *Context) Library(name string) (texview.Library, error) {
	if lib, ok := c.libraries[name]; ok {
		return lib, nil
	}

	source, err := texview.LibrarySource(name)
	if err != nil {
		return nil, err
	}
	lib, err := compileLibrary(c.device, name, source)
	if err != nil {
		return nil, err
	}
	c.libraries[name] = lib
	texview.Logger().Debug("halgpu: library compiled", "name", name, "functions", lib.Functions())
	return lib, nil
}

// textureSampler returns the shared linear clamp sampler.
func (c *Context) textureSampler() (hal.Sampler, error) {
	if c.sampler != nil {
		return c.sampler, nil
	}
	sampler, err := c.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "texview_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create sampler: %w", err)
	}
	c.sampler = sampler
	return sampler, nil
}

// quadBuffer returns the shared vertex buffer holding the quad corners.
func (c *Context) quadBuffer() (hal.Buffer, error) {
	if c.quad != nil {
		return c.quad, nil
	}
	data := quadVertexData()
	quad, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "texview_quad",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create quad buffer: %w", err)
	}
	if err := c.queue.WriteBuffer(quad, 0, data); err != nil {
		c.device.DestroyBuffer(quad)
		return nil, fmt.Errorf("halgpu: write quad buffer: %w", err)
	}
	c.quad = quad
	return quad, nil
}

// retire schedules release to run after the queue completes index.
func (c *Context) retire(index uint64, release func()) {
	c.pending = append(c.pending, pendingRelease{index: index, release: release})
}

// Reclaim releases per-frame objects whose submissions have completed.
func (c *Context) Reclaim() {
	if len(c.pending) == 0 {
		return
	}
	completed := c.queue.PollCompleted()
	kept := c.pending[:0]
	for _, p := range c.pending {
		if p.index <= completed {
			p.release()
			continue
		}
		kept = append(kept, p)
	}
	clear(c.pending[len(kept):])
	c.pending = kept
}

// Destroy waits for the device to go idle and releases everything the
// Context created. Pipelines and textures handed out are not tracked and
// must be destroyed by their owners first.
func (c *Context) Destroy() {
	if c.device == nil {
		return
	}
	if err := c.device.WaitIdle(); err != nil {
		texview.Logger().Warn("halgpu: wait idle failed", "err", err)
	}
	for _, p := range c.pending {
		p.release()
	}
	c.pending = nil

	if c.sampler != nil {
		c.device.DestroySampler(c.sampler)
		c.sampler = nil
	}
	if c.quad != nil {
		c.device.DestroyBuffer(c.quad)
		c.quad = nil
	}
	for name, lib := range c.libraries {
		lib.destroy(c.device)
		delete(c.libraries, name)
	}
	c.device = nil
	c.queue = nil
}
