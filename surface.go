package texview

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// MaxDrawableCount is the number of drawables a View allows in flight.
const MaxDrawableCount = 3

// ColorSpace tags the drawable contents for the compositor.
// The View passes it through to the Surface unchanged.
type ColorSpace int

const (
	// ColorSpaceDefault leaves the choice to the platform.
	ColorSpaceDefault ColorSpace = iota
	ColorSpaceSRGB
	ColorSpaceLinearSRGB
	ColorSpaceDisplayP3
	ColorSpaceExtendedSRGB
)

var colorSpaceNames = [...]string{
	ColorSpaceDefault:      "default",
	ColorSpaceSRGB:         "srgb",
	ColorSpaceLinearSRGB:   "linear-srgb",
	ColorSpaceDisplayP3:    "display-p3",
	ColorSpaceExtendedSRGB: "extended-srgb",
}

// String returns the color space name.
func (c ColorSpace) String() string {
	if c >= 0 && int(c) < len(colorSpaceNames) {
		return colorSpaceNames[c]
	}
	return fmt.Sprintf("ColorSpace(%d)", int(c))
}

// ParseColorSpace maps a color space name to its ColorSpace.
func ParseColorSpace(s string) (ColorSpace, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range colorSpaceNames {
		if name == s {
			return ColorSpace(i), nil
		}
	}
	return ColorSpaceDefault, fmt.Errorf("%w: %q", ErrUnknownColorSpace, s)
}

// Surface is a swapchain-like provider of presentable drawables.
type Surface interface {
	PixelFormat() gputypes.TextureFormat
	SetPixelFormat(format gputypes.TextureFormat)

	ColorSpace() ColorSpace
	SetColorSpace(cs ColorSpace)

	DrawableSize() Size
	SetDrawableSize(size Size)

	MaxDrawableCount() int
	SetMaxDrawableCount(n int)

	// NextDrawable returns the next presentable drawable, or false when
	// none is available this frame. Running out of drawables is expected
	// under swapchain back-pressure and is not an error.
	NextDrawable() (Drawable, bool)
}

// Drawable is one presentable framebuffer acquired from a Surface.
type Drawable interface {
	// Size returns the drawable's pixel dimensions.
	Size() Size

	// Present hands the drawable to the compositor.
	Present() error
}
