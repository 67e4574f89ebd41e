package backend

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrNoAdapter is returned by Init when the HAL exposes no adapter.
	ErrNoAdapter = errors.New("backend: no adapter")
)

// RenderBackend is the interface for GPU backends.
// It abstracts device creation so texview can run on any HAL
// implementation (software rasterizer, noop, hardware drivers).
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type RenderBackend interface {
	// Name returns the backend identifier (e.g., "software", "noop").
	Name() string

	// Init opens the adapter, device and queue.
	// It must be called before any other method.
	Init() error

	// Close releases the device and instance.
	// The backend should not be used after Close is called.
	Close()

	// Device returns the opened HAL device, or nil before Init.
	Device() hal.Device

	// Queue returns the device queue, or nil before Init.
	Queue() hal.Queue

	// Limits returns the limits the device was opened with.
	Limits() gputypes.Limits

	// AdapterInfo describes the adapter the device was opened on.
	AdapterInfo() gputypes.AdapterInfo

	// CreateSurface creates a presentation surface for a native window.
	// Zero handles create a headless surface where the backend supports it.
	CreateSurface(displayHandle, windowHandle uintptr) (hal.Surface, error)
}
