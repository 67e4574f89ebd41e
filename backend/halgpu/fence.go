package halgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// Fence orders a View draw after work a producer submits elsewhere.
//
// The producer signals the underlying hal.Fence up to Value; the draw
// waits for that value before its fragment work is recorded.
type Fence struct {
	device hal.Device
	fence  hal.Fence
	value  uint64
}

// NewFence creates a fence whose target value is 0 (already reached).
func (c *Context) NewFence() (*Fence, error) {
	f, err := c.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("halgpu: create fence: %w", err)
	}
	return &Fence{device: c.device, fence: f}, nil
}

// Raw returns the HAL fence for the producer to signal.
func (f *Fence) Raw() hal.Fence {
	return f.fence
}

// Value returns the value draws wait for.
func (f *Fence) Value() uint64 {
	return f.value
}

// SetValue sets the value draws wait for. Producers bump it each time they
// schedule a signal.
func (f *Fence) SetValue(v uint64) {
	f.value = v
}

// Wait blocks until the fence reaches Value or timeout elapses, reporting
// whether the value was reached.
func (f *Fence) Wait(timeout time.Duration) (bool, error) {
	if f.fence == nil {
		return false, ErrFenceDestroyed
	}
	return f.device.Wait(f.fence, f.value, timeout)
}

// Destroy releases the fence. Safe to call multiple times.
func (f *Fence) Destroy() {
	if f.fence != nil {
		f.device.DestroyFence(f.fence)
		f.fence = nil
	}
}
