package texview

import (
	"fmt"
	"strings"
)

// ContentMode is the policy for fitting a texture's aspect ratio into the
// drawable.
type ContentMode int

const (
	// ContentModeResize stretches the texture to fill the drawable,
	// ignoring its aspect ratio.
	ContentModeResize ContentMode = iota

	// ContentModeAspectFill scales the texture to cover the drawable while
	// preserving its aspect ratio. The overflowing axis is cropped.
	ContentModeAspectFill

	// ContentModeAspectFit scales the texture to fit inside the drawable while
	// preserving its aspect ratio. The remaining area is letterboxed.
	ContentModeAspectFit
)

// String returns the lower-case name of the mode.
func (m ContentMode) String() string {
	switch m {
	case ContentModeResize:
		return "resize"
	case ContentModeAspectFill:
		return "aspect-fill"
	case ContentModeAspectFit:
		return "aspect-fit"
	default:
		return fmt.Sprintf("ContentMode(%d)", int(m))
	}
}

// ParseContentMode maps a mode name to its ContentMode.
// Both "aspect-fill" and "aspectfill" forms are accepted, case-insensitively.
func ParseContentMode(s string) (ContentMode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "") {
	case "resize", "stretch":
		return ContentModeResize, nil
	case "aspectfill", "fill":
		return ContentModeAspectFill, nil
	case "aspectfit", "fit":
		return ContentModeAspectFit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContentMode, s)
}

// Size is a width and height in pixels. Drawable sizes may be fractional
// because they are derived from layout bounds times a scale factor.
type Size struct {
	Width, Height float64
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Scale returns s with both dimensions multiplied by f.
func (s Size) Scale(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

// String returns "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}
