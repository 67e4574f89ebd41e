package texview

import (
	"encoding/binary"
	"math"
)

// ProjectionSize is the byte size of the projection uniform: one
// column-major mat4x4<f32>.
const ProjectionSize = 64

// Projection is the 2D scale applied to the unit quad in the vertex stage.
// There is no translation or rotation component.
type Projection struct {
	SX, SY float32
}

// IdentityProjection returns the projection that leaves the quad unchanged.
func IdentityProjection() Projection {
	return Projection{SX: 1, SY: 1}
}

// ComputeProjection returns the scale that fits a texW x texH texture into
// drawable under mode.
//
// With ratio = drawableAspect / textureAspect:
//
//	Resize:     (1, 1)
//	AspectFill: ratio < 1 ? (1/ratio, 1) : (1, ratio)
//	AspectFit:  ratio > 1 ? (1/ratio, 1) : (1, ratio)
//
// Degenerate inputs (an empty drawable or texture) yield the identity.
func ComputeProjection(mode ContentMode, drawable Size, texW, texH int) Projection {
	if mode == ContentModeResize || drawable.Empty() || texW <= 0 || texH <= 0 {
		return IdentityProjection()
	}

	drawableAspect := float32(drawable.Width) / float32(drawable.Height)
	textureAspect := float32(texW) / float32(texH)
	ratio := drawableAspect / textureAspect

	switch mode {
	case ContentModeAspectFill:
		if ratio < 1 {
			return Projection{SX: 1 / ratio, SY: 1}
		}
		return Projection{SX: 1, SY: ratio}
	case ContentModeAspectFit:
		if ratio > 1 {
			return Projection{SX: 1 / ratio, SY: 1}
		}
		return Projection{SX: 1, SY: ratio}
	default:
		return IdentityProjection()
	}
}

// NormalizedTextureSize returns the texture extent relative to the drawable
// when both are normalized to the drawable's aspect ratio. The axis along
// which the texture is relatively wider is 1.
func NormalizedTextureSize(drawable Size, texW, texH int) (w, h float32) {
	if drawable.Empty() || texW <= 0 || texH <= 0 {
		return 1, 1
	}
	drawableAspect := float32(drawable.Width) / float32(drawable.Height)
	textureAspect := float32(texW) / float32(texH)
	w, h = drawableAspect/textureAspect, drawableAspect/textureAspect
	if drawableAspect < textureAspect {
		w = 1
	}
	if drawableAspect > textureAspect {
		h = 1
	}
	return w, h
}

// Matrix returns the projection as a column-major 4x4 scale matrix with a
// unit z scale, matching the WGSL mat4x4<f32> layout.
func (p Projection) Matrix() [16]float32 {
	return [16]float32{
		p.SX, 0, 0, 0,
		0, p.SY, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Bytes encodes the projection matrix as a little-endian uniform buffer.
func (p Projection) Bytes() []byte {
	return p.AppendBytes(make([]byte, 0, ProjectionSize))
}

// AppendBytes appends the little-endian matrix encoding to buf.
func (p Projection) AppendBytes(buf []byte) []byte {
	for _, v := range p.Matrix() {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
