// Package texview displays GPU textures in a presentation surface.
//
// # Overview
//
// A View owns a swapchain-like Surface, a cached render pipeline, and a 2D
// scale projection. Each Draw acquires the next drawable, blits one texture
// into it as a 4-vertex triangle strip, optionally runs caller commands in
// the same pass, and schedules the drawable for presentation.
//
// The texture is fitted under a ContentMode:
//
//	ContentModeResize      stretch to fill, aspect ratio ignored
//	ContentModeAspectFill  cover the drawable, overflow cropped
//	ContentModeAspectFit   fit inside the drawable, letterboxed
//
// The projection is recomputed lazily: changing the content mode, the
// drawable size, or the texture dimensions marks it dirty, and the next
// Draw recomputes it once before encoding.
//
// # Collaborators
//
// The GPU context, presentation surface and command submission are
// interfaces (Context, Surface, CommandBuffer, RenderEncoder). The
// backend/halgpu package implements them on gogpu/wgpu:
//
//	gpu, _ := halgpu.NewContext(device, queue)
//	surface := halgpu.NewSurface(gpu, halSurface)
//	view, _ := texview.New(gpu, surface, texview.WithContentMode(texview.ContentModeAspectFit))
//
//	// Host layout callback:
//	view.Layout(texview.Size{Width: 800, Height: 600}, 2)
//
//	// Per frame:
//	cb, _ := gpu.NewCommandBuffer()
//	view.Draw(tex, nil, cb, nil)
//	_ = cb.Commit()
//
// # Errors
//
// New returns configuration errors (nil collaborators, missing shader
// functions, pipeline compilation). A pipeline rebuild triggered later by
// SetPixelFormat or UpdatePipeline panics instead, since it indicates a
// broken deployment. A frame with no drawable available is skipped silently.
//
// # Thread Safety
//
// View is NOT safe for concurrent use. All calls must come from the
// goroutine that owns rendering.
package texview
