// Package halgpu implements the texview collaborators on a gogpu/wgpu HAL
// device.
//
// A Context compiles shader libraries with gogpu/naga and builds render
// pipelines. A Surface wraps a hal.Surface and hands out Drawables. A
// CommandBuffer records render passes and, on Commit, submits them and
// presents the scheduled drawables. Textures and Fences complete the set.
//
//	gpu, err := halgpu.NewContext(device, queue)
//	if err != nil {
//		return err
//	}
//	defer gpu.Destroy()
//
//	surface, err := halgpu.NewSurface(gpu, halSurface)
//	view, err := texview.New(gpu, surface)
//
//	tex, err := gpu.NewTextureFromImage(img)
//	for running {
//		cb, err := gpu.NewCommandBuffer()
//		view.Draw(tex, nil, cb, nil)
//		if err := cb.Commit(); err != nil {
//			log.Print(err)
//		}
//	}
//
// Per-frame GPU objects (uniform buffers, bind groups, command buffers,
// drawable views) are released once the queue reports their submission as
// completed. Context.Reclaim polls for that; NewCommandBuffer and Commit
// call it automatically.
//
// Nothing in this package is safe for concurrent use. All objects belong to
// the goroutine that renders.
package halgpu
