package halgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/texview"
	"github.com/gogpu/wgpu/hal"
	xdraw "golang.org/x/image/draw"
)

var (
	_ texview.Texture                 = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)

// Texture is a sampled 2D texture the View can draw.
type Texture struct {
	device hal.Device
	queue  hal.Queue

	texture hal.Texture
	view    hal.TextureView

	width  int
	height int
	format gputypes.TextureFormat
	label  string

	released bool
}

// bytesPerPixel returns the texel size of the formats halgpu uploads, or 0.
func bytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return 4
	default:
		return 0
	}
}

// NewTexture creates an uninitialized width x height texture.
// Only 4-byte RGBA and BGRA formats are supported.
func (c *Context) NewTexture(width, height int, format gputypes.TextureFormat) (*Texture, error) {
	if bytesPerPixel(format) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	maxDim := int(c.limits.MaxTextureDimension2D)
	if width <= 0 || height <= 0 || (maxDim > 0 && (width > maxDim || height > maxDim)) {
		return nil, fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidSize, width, height, maxDim)
	}

	label := fmt.Sprintf("texview_texture_%dx%d", width, height)
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create texture: %w", err)
	}

	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label + "_view",
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return nil, fmt.Errorf("halgpu: create texture view: %w", err)
	}

	return &Texture{
		device:  c.device,
		queue:   c.queue,
		texture: tex,
		view:    view,
		width:   width,
		height:  height,
		format:  format,
		label:   label,
	}, nil
}

// NewTextureFromRGBA creates an RGBA8 texture and uploads data, which must
// hold width * height * 4 bytes.
func (c *Context) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	tex, err := c.NewTexture(width, height, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	if err := tex.UpdateData(data); err != nil {
		tex.Destroy()
		return nil, err
	}
	return tex, nil
}

// NewTextureFromImage converts img to RGBA8 and uploads it. Images larger
// than the device's maximum 2D texture dimension are scaled down to fit,
// preserving their aspect ratio.
func (c *Context) NewTextureFromImage(img image.Image) (*Texture, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidSize)
	}

	w, h := fitWithin(bounds.Dx(), bounds.Dy(), int(c.limits.MaxTextureDimension2D))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		xdraw.Copy(rgba, image.Point{}, img, bounds, xdraw.Src, nil)
	} else {
		xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, bounds, xdraw.Src, nil)
		texview.Logger().Debug("halgpu: image scaled to fit texture limits",
			"from", bounds.Size(), "to", rgba.Bounds().Size())
	}

	tex, err := c.NewTexture(w, h, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	if err := tex.UpdateData(rgba.Pix); err != nil {
		tex.Destroy()
		return nil, err
	}
	return tex, nil
}

// fitWithin scales w x h down so neither side exceeds limit.
// A non-positive limit means unlimited.
func fitWithin(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, max(1, int(float64(h)*float64(limit)/float64(w)+0.5))
	}
	return max(1, int(float64(w)*float64(limit)/float64(h)+0.5)), limit
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	return t.height
}

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat {
	return t.format
}

// UpdateData replaces the whole texture. data must hold
// width * height * 4 tightly packed bytes in the texture's format.
func (t *Texture) UpdateData(data []byte) error {
	return t.UpdateRegion(0, 0, t.width, t.height, data)
}

// UpdateRegion replaces the w x h region at (x, y).
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	if t.released {
		return ErrTextureReleased
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("%w: region (%d,%d %dx%d) outside %dx%d",
			ErrInvalidSize, x, y, w, h, t.width, t.height)
	}
	bpp := bytesPerPixel(t.format)
	if want := w * h * bpp; len(data) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrTextureSizeMismatch, len(data), want)
	}

	err := t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y)},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * bpp),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("halgpu: write texture %s: %w", t.label, err)
	}
	return nil
}

// Destroy releases the texture. Safe to call multiple times.
func (t *Texture) Destroy() {
	if t.released {
		return
	}
	t.released = true
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}
