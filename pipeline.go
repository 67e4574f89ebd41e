package texview

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// pipelineLabel is the debug label of the View pipeline.
const pipelineLabel = "PixelBufferPipeline"

// makePipeline compiles the textured-quad pipeline for format.
func makePipeline(ctx Context, format gputypes.TextureFormat) (Pipeline, error) {
	library, err := ctx.Library(LibraryName)
	if err != nil {
		return nil, fmt.Errorf("%w: library %s: %w", ErrPipeline, LibraryName, err)
	}

	vertex, err := library.Function(VertexFunctionName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderNotFound, VertexFunctionName, err)
	}
	fragment, err := library.Function(FragmentFunctionName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderNotFound, FragmentFunctionName, err)
	}

	pipeline, err := ctx.MakeRenderPipeline(&PipelineDescriptor{
		Label:            pipelineLabel,
		VertexFunction:   vertex,
		FragmentFunction: fragment,
		ColorFormat:      format,
		BlendingEnabled:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	return pipeline, nil
}
