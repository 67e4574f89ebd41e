package texview

import (
	"log/slog"

	"github.com/gogpu/gputypes"
)

// Option configures a View during creation.
//
// Example:
//
//	v, err := texview.New(ctx, surface,
//	    texview.WithContentMode(texview.ContentModeAspectFit),
//	    texview.WithPixelFormat(gputypes.TextureFormatRGBA8Unorm),
//	)
type Option func(*options)

type options struct {
	pixelFormat gputypes.TextureFormat
	colorSpace  ColorSpace
	contentMode ContentMode
	autoResize  bool
	logger      *slog.Logger
}

func defaultOptions() options {
	return options{
		pixelFormat: DefaultPixelFormat,
		colorSpace:  ColorSpaceDefault,
		contentMode: ContentModeAspectFill,
		autoResize:  true,
	}
}

// DefaultPixelFormat is the drawable pixel format used when none is given.
const DefaultPixelFormat = gputypes.TextureFormatBGRA8Unorm

// WithPixelFormat sets the initial drawable pixel format.
func WithPixelFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.pixelFormat = format
	}
}

// WithColorSpace sets the initial drawable color space.
func WithColorSpace(cs ColorSpace) Option {
	return func(o *options) {
		o.colorSpace = cs
	}
}

// WithContentMode sets the initial content mode. The default is
// ContentModeAspectFill.
func WithContentMode(mode ContentMode) Option {
	return func(o *options) {
		o.contentMode = mode
	}
}

// WithAutoResizeDrawable controls whether Layout derives the drawable size.
// The default is true.
func WithAutoResizeDrawable(enabled bool) Option {
	return func(o *options) {
		o.autoResize = enabled
	}
}

// WithLogger gives the View its own logger instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
