package texview

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Context is the GPU context a View draws with. It supplies the device,
// shader libraries, and render pipeline compilation.
//
// backend/halgpu provides an implementation on top of gogpu/wgpu.
type Context interface {
	// Device returns the underlying device handle.
	Device() gpucontext.Device

	// Library returns the compiled shader library registered under name.
	Library(name string) (Library, error)

	// MakeRenderPipeline compiles a render pipeline from desc.
	MakeRenderPipeline(desc *PipelineDescriptor) (Pipeline, error)
}

// Library is a compiled shader library.
type Library interface {
	// Function looks up a shader entry point by name.
	Function(name string) (ShaderFunction, error)
}

// ShaderFunction is one entry point of a compiled shader library.
type ShaderFunction interface {
	Name() string
}

// Pipeline is a compiled, immutable render pipeline object.
// Implementations may also provide Destroy(), which the View calls when a
// pipeline is replaced.
type Pipeline interface{}

// PipelineDescriptor describes the render pipeline a View draws with.
type PipelineDescriptor struct {
	// Label is a debug name.
	Label string

	// VertexFunction and FragmentFunction are the shader stages.
	VertexFunction   ShaderFunction
	FragmentFunction ShaderFunction

	// ColorFormat is the pixel format of the single color attachment.
	ColorFormat gputypes.TextureFormat

	// BlendingEnabled enables blending on the color attachment.
	BlendingEnabled bool
}

// Texture is a GPU-resident image with known pixel dimensions.
type Texture = gpucontext.Texture

// Fence is a cross-queue synchronization primitive. Its concrete type is
// owned by the Context implementation.
type Fence interface{}

// destroyer matches resources that release GPU memory explicitly.
type destroyer interface {
	Destroy()
}
