package backend

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/gogpu/wgpu/hal/software"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU rasterizer from gogpu/wgpu.
	BackendSoftware = "software"
	// BackendNoop is the name of the backend that renders nothing.
	BackendNoop = "noop"
)

// init registers the built-in backends on package import.
func init() {
	Register(BackendSoftware, func() RenderBackend {
		return NewHALBackend(BackendSoftware, software.API{})
	})
	Register(BackendNoop, func() RenderBackend {
		return NewHALBackend(BackendNoop, noop.API{})
	})
}

// HALBackend opens the first adapter of a gogpu/wgpu HAL backend.
//
// It also exposes HalDevice() and HalQueue(), so it can be handed to any
// consumer that accepts a HAL device provider.
type HALBackend struct {
	name string
	api  hal.Backend

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     gputypes.AdapterInfo
	limits   gputypes.Limits
}

// NewHALBackend creates a backend named name on top of api.
// Nothing is opened until Init.
func NewHALBackend(name string, api hal.Backend) *HALBackend {
	return &HALBackend{name: name, api: api}
}

// Name returns the backend identifier.
func (b *HALBackend) Name() string {
	return b.name
}

// Init creates the instance and opens the first adapter with its full
// limits. Calling Init on an initialized backend is a no-op.
func (b *HALBackend) Init() error {
	if b.device != nil {
		return nil
	}

	instance, err := b.api.CreateInstance(nil)
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}
	exposed := adapters[0]

	open, err := exposed.Adapter.Open(0, exposed.Capabilities.Limits)
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("open device on %s: %w", exposed.Info.Name, err)
	}

	b.instance = instance
	b.device = open.Device
	b.queue = open.Queue
	b.info = exposed.Info
	b.limits = exposed.Capabilities.Limits
	return nil
}

// Close releases the device and instance. Safe to call multiple times.
func (b *HALBackend) Close() {
	if b.device != nil {
		_ = b.device.WaitIdle()
		b.device.Destroy()
		b.device = nil
	}
	b.queue = nil
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
}

// Device returns the opened HAL device.
func (b *HALBackend) Device() hal.Device {
	return b.device
}

// Queue returns the device queue.
func (b *HALBackend) Queue() hal.Queue {
	return b.queue
}

// HalDevice returns the HAL device as any, for provider-based consumers.
func (b *HALBackend) HalDevice() any {
	return b.device
}

// HalQueue returns the HAL queue as any, for provider-based consumers.
func (b *HALBackend) HalQueue() any {
	return b.queue
}

// Limits returns the limits the device was opened with.
func (b *HALBackend) Limits() gputypes.Limits {
	return b.limits
}

// AdapterInfo describes the opened adapter.
func (b *HALBackend) AdapterInfo() gputypes.AdapterInfo {
	return b.info
}

// AdapterType classifies the opened adapter for gpucontext consumers.
func (b *HALBackend) AdapterType() gpucontext.AdapterType {
	if b.device == nil {
		return gpucontext.AdapterTypeUnknown
	}
	switch b.info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// CreateSurface creates a presentation surface on the backend instance.
func (b *HALBackend) CreateSurface(displayHandle, windowHandle uintptr) (hal.Surface, error) {
	if b.instance == nil {
		return nil, ErrNotInitialized
	}
	surface, err := b.instance.CreateSurface(displayHandle, windowHandle)
	if err != nil {
		return nil, fmt.Errorf("backend: create surface: %w", err)
	}
	return surface, nil
}
