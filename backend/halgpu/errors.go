package halgpu

import "errors"

var (
	// ErrNilDevice is returned when a Context is created without a device.
	ErrNilDevice = errors.New("halgpu: nil device")

	// ErrNilQueue is returned when a Context is created without a queue.
	ErrNilQueue = errors.New("halgpu: nil queue")

	// ErrNilSurface is returned when a Surface is created without a hal.Surface.
	ErrNilSurface = errors.New("halgpu: nil surface")

	// ErrNotHALProvider is returned by NewContextFromProvider when the
	// provider does not expose HalDevice() and HalQueue().
	ErrNotHALProvider = errors.New("halgpu: provider does not expose HAL device and queue")

	// ErrFunctionNotFound is returned by Library.Function for unknown entry points.
	ErrFunctionNotFound = errors.New("halgpu: shader function not found")

	// ErrWrongStage is returned when a shader function is used for the wrong stage.
	ErrWrongStage = errors.New("halgpu: shader function has wrong stage")

	// ErrForeignObject is returned when an object from another Context
	// implementation is passed in.
	ErrForeignObject = errors.New("halgpu: object not created by halgpu")

	// ErrUnsupportedFormat is returned for texture formats without a
	// 4-byte-per-pixel layout.
	ErrUnsupportedFormat = errors.New("halgpu: unsupported texture format")

	// ErrInvalidSize is returned for empty or oversized textures.
	ErrInvalidSize = errors.New("halgpu: invalid texture size")

	// ErrTextureSizeMismatch is returned when pixel data does not match the region.
	ErrTextureSizeMismatch = errors.New("halgpu: pixel data size does not match texture")

	// ErrTextureReleased is returned when operating on a destroyed texture.
	ErrTextureReleased = errors.New("halgpu: texture has been released")

	// ErrCommitted is returned when a CommandBuffer is used after Commit.
	ErrCommitted = errors.New("halgpu: command buffer already committed")

	// ErrFenceDestroyed is returned when waiting on a destroyed Fence.
	ErrFenceDestroyed = errors.New("halgpu: fence destroyed")

	// ErrDrawableReleased is returned when a Drawable is presented twice.
	ErrDrawableReleased = errors.New("halgpu: drawable already presented or discarded")

	// ErrNoPipeline is returned when a draw is encoded before SetRenderPipeline.
	ErrNoPipeline = errors.New("halgpu: no render pipeline set")

	// ErrTopology is returned when a draw topology differs from the pipeline's.
	ErrTopology = errors.New("halgpu: draw topology does not match pipeline")

	// ErrMissingBinding is returned when a draw lacks its uniform or texture.
	ErrMissingBinding = errors.New("halgpu: missing uniform or texture binding")

	// ErrBindingIndex is returned for binding slots the pipeline does not have.
	ErrBindingIndex = errors.New("halgpu: binding index out of range")
)
