package texview

import "github.com/gogpu/gputypes"

// Stage is a point in the render pipeline a fence wait can precede.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// RenderPassDescriptor describes the single color attachment of a pass.
type RenderPassDescriptor struct {
	// Label is a debug name.
	Label string

	// Target is the drawable rendered into.
	Target Drawable

	// LoadOp and StoreOp control the attachment contents at pass start and end.
	LoadOp  gputypes.LoadOp
	StoreOp gputypes.StoreOp

	// ClearColor is used when LoadOp clears, or when the target has no
	// previous contents to load.
	ClearColor gputypes.Color
}

// CommandBuffer is the command submission context a View encodes into.
type CommandBuffer interface {
	// Render runs fn inside a render pass described by desc.
	Render(desc *RenderPassDescriptor, fn func(RenderEncoder))

	// Present schedules d for presentation after the encoded work.
	Present(d Drawable)
}

// RenderEncoder records commands into a render pass.
type RenderEncoder interface {
	// WaitForFence makes work at stage wait until f is signaled.
	WaitForFence(f Fence, stage Stage)

	SetCullMode(mode gputypes.CullMode)
	SetRenderPipeline(p Pipeline)

	// SetVertexBytes binds data as the vertex-stage uniform at index.
	SetVertexBytes(data []byte, index int)

	// SetFragmentTexture binds tex as the fragment-stage input at index.
	SetFragmentTexture(tex Texture, index int)

	DrawPrimitives(topology gputypes.PrimitiveTopology, vertexStart, vertexCount int)
}
