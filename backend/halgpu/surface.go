package halgpu

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texview"
	"github.com/gogpu/wgpu/hal"
)

var (
	_ texview.Surface  = (*Surface)(nil)
	_ texview.Drawable = (*Drawable)(nil)
)

// Surface is a texview.Surface over a hal.Surface.
//
// Configuration changes are recorded and applied lazily: the next
// NextDrawable reconfigures the swapchain when the pixel format or drawable
// size changed, or after the HAL reported the surface outdated.
type Surface struct {
	ctx     *Context
	surface hal.Surface

	format       gputypes.TextureFormat
	colorSpace   texview.ColorSpace
	size         texview.Size
	maxDrawables int
	presentMode  gputypes.PresentMode

	configured bool
	stale      bool

	// inFlight counts drawables acquired but not yet presented or discarded.
	inFlight int
}

// NewSurface wraps surface. Drawables are requested in
// texview.DefaultPixelFormat with FIFO presentation until configured
// otherwise.
func NewSurface(ctx *Context, surface hal.Surface) (*Surface, error) {
	if ctx == nil {
		return nil, texview.ErrNilContext
	}
	if surface == nil {
		return nil, ErrNilSurface
	}
	return &Surface{
		ctx:          ctx,
		surface:      surface,
		format:       texview.DefaultPixelFormat,
		maxDrawables: texview.MaxDrawableCount,
		presentMode:  gputypes.PresentModeFifo,
		stale:        true,
	}, nil
}

// Raw returns the wrapped HAL surface.
func (s *Surface) Raw() hal.Surface {
	return s.surface
}

// PixelFormat returns the drawable pixel format.
func (s *Surface) PixelFormat() gputypes.TextureFormat {
	return s.format
}

// SetPixelFormat changes the drawable pixel format.
func (s *Surface) SetPixelFormat(format gputypes.TextureFormat) {
	if s.format != format {
		s.format = format
		s.stale = true
	}
}

// ColorSpace returns the drawable color space.
func (s *Surface) ColorSpace() texview.ColorSpace {
	return s.colorSpace
}

// SetColorSpace records the drawable color space. The HAL has no
// color-space setting; sRGB behavior follows from the pixel format.
func (s *Surface) SetColorSpace(cs texview.ColorSpace) {
	s.colorSpace = cs
}

// DrawableSize returns the drawable size in pixels.
func (s *Surface) DrawableSize() texview.Size {
	return s.size
}

// SetDrawableSize changes the drawable size.
func (s *Surface) SetDrawableSize(size texview.Size) {
	if s.size != size {
		s.size = size
		s.stale = true
	}
}

// MaxDrawableCount returns the maximum number of unpresented drawables.
func (s *Surface) MaxDrawableCount() int {
	return s.maxDrawables
}

// SetMaxDrawableCount caps the number of unpresented drawables. Values
// below 1 are raised to 1.
func (s *Surface) SetMaxDrawableCount(n int) {
	s.maxDrawables = max(n, 1)
}

// PresentMode returns the swapchain present mode.
func (s *Surface) PresentMode() gputypes.PresentMode {
	return s.presentMode
}

// SetPresentMode changes the swapchain present mode.
func (s *Surface) SetPresentMode(mode gputypes.PresentMode) {
	if s.presentMode != mode {
		s.presentMode = mode
		s.stale = true
	}
}

// pixelExtent rounds the drawable size to whole pixels.
func (s *Surface) pixelExtent() (uint32, uint32) {
	w := math.Round(max(s.size.Width, 0))
	h := math.Round(max(s.size.Height, 0))
	return uint32(min(w, math.MaxUint32)), uint32(min(h, math.MaxUint32))
}

func (s *Surface) configure() error {
	w, h := s.pixelExtent()
	if w == 0 || h == 0 {
		return hal.ErrZeroArea
	}
	err := s.surface.Configure(s.ctx.device, &hal.SurfaceConfiguration{
		Width:       w,
		Height:      h,
		Format:      s.format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: s.presentMode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return fmt.Errorf("halgpu: configure surface %dx%d: %w", w, h, err)
	}
	s.configured = true
	s.stale = false
	texview.Logger().Info("halgpu: surface configured",
		"width", w, "height", h, "format", s.format,
		"colorSpace", s.colorSpace, "presentMode", s.presentMode)
	return nil
}

// NextDrawable acquires the next swapchain texture.
//
// It reports false, without error, when the frame should be skipped: the
// drawable size is empty, MaxDrawableCount drawables are unpresented, the
// acquire timed out, or the surface is outdated or lost (it is then
// reconfigured on the next call).
func (s *Surface) NextDrawable() (texview.Drawable, bool) {
	log := texview.Logger()

	if s.stale || !s.configured {
		if err := s.configure(); err != nil {
			if errors.Is(err, hal.ErrZeroArea) {
				log.Debug("halgpu: drawable size is empty", "size", s.size)
			} else {
				log.Warn("halgpu: surface configuration failed", "err", err)
			}
			return nil, false
		}
	}

	if s.inFlight >= s.maxDrawables {
		log.Debug("halgpu: all drawables in flight", "max", s.maxDrawables)
		return nil, false
	}

	acquired, err := s.surface.AcquireTexture(nil)
	switch {
	case err == nil:
	case errors.Is(err, hal.ErrTimeout), errors.Is(err, hal.ErrNotReady):
		log.Debug("halgpu: acquire timed out")
		return nil, false
	case errors.Is(err, hal.ErrSurfaceOutdated), errors.Is(err, hal.ErrSurfaceLost):
		s.stale = true
		log.Warn("halgpu: surface needs reconfiguration", "err", err)
		return nil, false
	default:
		log.Warn("halgpu: acquire failed", "err", err)
		return nil, false
	}
	if acquired.Suboptimal {
		s.stale = true
	}

	view, err := s.ctx.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:           "texview_drawable_view",
		Format:          s.format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		s.surface.DiscardTexture(acquired.Texture)
		log.Warn("halgpu: drawable view creation failed", "err", err)
		return nil, false
	}

	s.inFlight++
	return &Drawable{
		surface: s,
		texture: acquired.Texture,
		view:    view,
		size:    s.size,
	}, true
}

// Destroy unconfigures the surface. The hal.Surface itself belongs to the
// caller.
func (s *Surface) Destroy() {
	if s.configured {
		s.surface.Unconfigure(s.ctx.device)
		s.configured = false
	}
	s.stale = true
}

// Drawable is one acquired swapchain texture.
type Drawable struct {
	surface *Surface
	texture hal.SurfaceTexture
	view    hal.TextureView
	size    texview.Size

	released bool
}

// Size returns the drawable size at acquisition.
func (d *Drawable) Size() texview.Size {
	return d.size
}

// Present queues the drawable for display. Commands that render into it
// must have been submitted first; CommandBuffer.Commit does both in order.
func (d *Drawable) Present() error {
	if d.released {
		return ErrDrawableReleased
	}
	s := d.surface
	err := s.ctx.queue.Present(s.surface, d.texture, nil)
	d.release()
	if err != nil {
		if errors.Is(err, hal.ErrSurfaceOutdated) || errors.Is(err, hal.ErrSurfaceLost) {
			s.stale = true
		}
		return fmt.Errorf("halgpu: present: %w", err)
	}
	return nil
}

// discard returns the drawable to the swapchain without presenting.
func (d *Drawable) discard() {
	if d.released {
		return
	}
	d.surface.surface.DiscardTexture(d.texture)
	d.release()
}

// release frees the drawable slot and retires its view behind the last
// submission that may reference it.
func (d *Drawable) release() {
	d.released = true
	s := d.surface
	s.inFlight--
	view := d.view
	d.view = nil
	device := s.ctx.device
	s.ctx.retire(s.ctx.lastSubmission, func() {
		device.DestroyTextureView(view)
	})
}
