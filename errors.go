package ggscript

import "errors"

// Sentinel errors returned by paint, canvas and resource constructors.
// Callers should use errors.Is, since most are wrapped with context.
var (
	// ErrPaintFrozen is returned when mutating a paint that has already been
	// shared with a canvas or gradient.
	ErrPaintFrozen = errors.New("ggscript: paint is frozen")

	// ErrColorsAlreadySet is returned by a second GradientPaint.SetColors call.
	ErrColorsAlreadySet = errors.New("ggscript: gradient colors already set")

	// ErrStopMismatch is returned when color and location slices differ in length.
	ErrStopMismatch = errors.New("ggscript: color and location counts differ")

	// ErrNotAColor is returned when a numeric gradient stop does not hold a color.
	ErrNotAColor = errors.New("ggscript: gradient stop is not a color")

	// ErrInvalidColor is returned for color components that are not numbers.
	ErrInvalidColor = errors.New("ggscript: invalid color component")

	// ErrNegativeRadius is returned for radial gradients with a negative radius.
	ErrNegativeRadius = errors.New("ggscript: negative gradient radius")

	// ErrCanvasReleased is returned when drawing on a released canvas.
	ErrCanvasReleased = errors.New("ggscript: canvas released")

	// ErrNoFont is returned when a font cannot be resolved.
	ErrNoFont = errors.New("ggscript: font not found")

	// ErrIconDecode is returned when icon data cannot be decoded.
	ErrIconDecode = errors.New("ggscript: cannot decode icon")
)
