package texview

import "errors"

// Errors returned by View construction and configuration.
var (
	// ErrNilContext is returned when New is called without a GPU context.
	ErrNilContext = errors.New("texview: nil Context")

	// ErrNilSurface is returned when New is called without a presentation surface.
	ErrNilSurface = errors.New("texview: nil Surface")

	// ErrShaderNotFound is returned when the shader library lacks a required function.
	ErrShaderNotFound = errors.New("texview: shader function not found")

	// ErrLibraryNotFound is returned by LibrarySource for unknown library names.
	ErrLibraryNotFound = errors.New("texview: shader library not found")

	// ErrPipeline wraps render pipeline compilation failures.
	ErrPipeline = errors.New("texview: render pipeline creation failed")

	// ErrUnknownContentMode is returned by ParseContentMode.
	ErrUnknownContentMode = errors.New("texview: unknown content mode")

	// ErrUnknownColorSpace is returned by ParseColorSpace.
	ErrUnknownColorSpace = errors.New("texview: unknown color space")
)
