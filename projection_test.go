package texview

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestComputeProjectionExamples(t *testing.T) {
	tests := []struct {
		name     string
		mode     ContentMode
		drawable Size
		texW     int
		texH     int
		want     Projection
	}{
		{"wide drawable fit", ContentModeAspectFit, Size{1000, 500}, 100, 100, Projection{0.5, 1}},
		{"wide drawable fill", ContentModeAspectFill, Size{1000, 500}, 100, 100, Projection{1, 2}},
		{"tall drawable fit", ContentModeAspectFit, Size{500, 1000}, 100, 100, Projection{1, 0.5}},
		{"tall drawable fill", ContentModeAspectFill, Size{500, 1000}, 100, 100, Projection{2, 1}},
		{"resize wide", ContentModeResize, Size{1000, 500}, 100, 100, Projection{1, 1}},
		{"matching aspect fit", ContentModeAspectFit, Size{1920, 1080}, 1280, 720, Projection{1, 1}},
		{"matching aspect fill", ContentModeAspectFill, Size{1920, 1080}, 1280, 720, Projection{1, 1}},
		{"empty drawable", ContentModeAspectFit, Size{0, 500}, 100, 100, Projection{1, 1}},
		{"empty texture", ContentModeAspectFill, Size{1000, 500}, 0, 100, Projection{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProjection(tt.mode, tt.drawable, tt.texW, tt.texH)
			if got != tt.want {
				t.Errorf("ComputeProjection(%v, %v, %d, %d) = %+v, want %+v",
					tt.mode, tt.drawable, tt.texW, tt.texH, got, tt.want)
			}
		})
	}
}

// aspectGrid returns drawable/texture pairs covering wide, tall and square
// shapes on both sides.
func aspectGrid() (drawables []Size, textures [][2]int) {
	for _, w := range []float64{1, 3, 320, 640, 1000, 1920} {
		for _, h := range []float64{1, 7, 240, 480, 1080, 2000} {
			drawables = append(drawables, Size{w, h})
		}
	}
	for _, w := range []int{1, 16, 100, 720, 1280, 4096} {
		for _, h := range []int{1, 9, 100, 576, 1080, 2160} {
			textures = append(textures, [2]int{w, h})
		}
	}
	return drawables, textures
}

func TestComputeProjectionAspectFitBounds(t *testing.T) {
	drawables, textures := aspectGrid()
	for _, d := range drawables {
		for _, tex := range textures {
			p := ComputeProjection(ContentModeAspectFit, d, tex[0], tex[1])
			if p.SX > 1 || p.SY > 1 {
				t.Fatalf("fit %v in %v: %+v exceeds 1", tex, d, p)
			}
			drawableAspect := float32(d.Width) / float32(d.Height)
			textureAspect := float32(tex[0]) / float32(tex[1])
			// The texture is relatively wider: width spans the drawable.
			if textureAspect >= drawableAspect && p.SX != 1 {
				t.Fatalf("fit %v in %v: SX = %v, want 1", tex, d, p.SX)
			}
			if textureAspect <= drawableAspect && p.SY != 1 {
				t.Fatalf("fit %v in %v: SY = %v, want 1", tex, d, p.SY)
			}
		}
	}
}

func TestComputeProjectionAspectFillBounds(t *testing.T) {
	drawables, textures := aspectGrid()
	for _, d := range drawables {
		for _, tex := range textures {
			p := ComputeProjection(ContentModeAspectFill, d, tex[0], tex[1])
			if p.SX < 1 || p.SY < 1 {
				t.Fatalf("fill %v in %v: %+v below 1", tex, d, p)
			}
			if p.SX != 1 && p.SY != 1 {
				t.Fatalf("fill %v in %v: %+v has no unit axis", tex, d, p)
			}
		}
	}
}

func TestComputeProjectionResizeIsIdentity(t *testing.T) {
	drawables, textures := aspectGrid()
	for _, d := range drawables {
		for _, tex := range textures {
			if p := ComputeProjection(ContentModeResize, d, tex[0], tex[1]); p != IdentityProjection() {
				t.Fatalf("resize %v in %v = %+v, want identity", tex, d, p)
			}
		}
	}
}

func TestComputeProjectionIdempotent(t *testing.T) {
	for _, mode := range []ContentMode{ContentModeResize, ContentModeAspectFill, ContentModeAspectFit} {
		a := ComputeProjection(mode, Size{1366, 768}, 640, 480)
		b := ComputeProjection(mode, Size{1366, 768}, 640, 480)
		if a != b {
			t.Errorf("%v: %+v != %+v", mode, a, b)
		}
	}
}

func TestNormalizedTextureSize(t *testing.T) {
	tests := []struct {
		drawable Size
		texW     int
		texH     int
		wantW    float32
		wantH    float32
	}{
		{Size{1000, 500}, 100, 100, 2, 1},
		{Size{500, 1000}, 100, 100, 1, 0.5},
		{Size{800, 800}, 100, 100, 1, 1},
		{Size{0, 0}, 100, 100, 1, 1},
	}
	for _, tt := range tests {
		w, h := NormalizedTextureSize(tt.drawable, tt.texW, tt.texH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("NormalizedTextureSize(%v, %d, %d) = (%v, %v), want (%v, %v)",
				tt.drawable, tt.texW, tt.texH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestProjectionMatrix(t *testing.T) {
	m := Projection{SX: 0.5, SY: 2}.Matrix()
	want := [16]float32{0.5, 0, 0, 0, 0, 2, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if m != want {
		t.Errorf("Matrix() = %v, want %v", m, want)
	}
}

func TestProjectionBytes(t *testing.T) {
	p := Projection{SX: 0.25, SY: 4}
	b := p.Bytes()
	if len(b) != ProjectionSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b), ProjectionSize)
	}
	m := p.Matrix()
	for i := range m {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != m[i] {
			t.Errorf("element %d = %v, want %v", i, got, m[i])
		}
	}
}
