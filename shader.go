package texview

import (
	_ "embed"
	"fmt"
)

// Shader library and entry point names used to build the View pipeline.
const (
	LibraryName          = "texview.View"
	VertexFunctionName   = "vertexFunction"
	FragmentFunctionName = "fragmentFunction"
)

//go:embed shaders/texture.wgsl
var textureShaderSource string

// LibrarySource returns the WGSL source of the shader library registered
// under name. Context implementations use it to compile libraries on demand.
func LibrarySource(name string) (string, error) {
	if name == LibraryName {
		return textureShaderSource, nil
	}
	return "", fmt.Errorf("%w: %q", ErrLibraryNotFound, name)
}
