// Package backend opens GPU devices for texview by backend name.
//
// Backends wrap a gogpu/wgpu HAL implementation and own its instance,
// device and queue. They are registered via init() functions and selected
// at runtime:
//
//	b := backend.Get("software")
//	if err := b.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	gpu, err := halgpu.NewContextFromProvider(b)
//
// # Available Backends
//
//   - "software": CPU rasterizer from gogpu/wgpu (headless, real pixels)
//   - "noop": accepts every call and renders nothing (tests, dry runs)
//
// Both share the gputypes.BackendEmpty variant in the HAL registry, so this
// package keys them by name instead.
package backend
