package ggscript

import (
	"math"

	"github.com/gogpu/gg"
)

// Metrics describes the drawing surface of a canvas in script units.
type Metrics struct {
	// Width and Height are the canvas size in script units.
	Width, Height float64

	// Scale is the number of device pixels per script unit. Zero means 1.
	Scale float64

	// FlipY selects a Y-up coordinate system with the origin at the
	// bottom-left corner.
	FlipY bool
}

// scale returns the effective scale factor.
func (m Metrics) scale() float64 {
	if m.Scale <= 0 {
		return 1
	}
	return m.Scale
}

// DeviceSize returns the size of the backing pixmap in pixels.
func (m Metrics) DeviceSize() (width, height int) {
	s := m.scale()
	return max(1, int(math.Ceil(m.Width*s))), max(1, int(math.Ceil(m.Height*s)))
}

// Bounds returns the canvas rectangle in script units.
func (m Metrics) Bounds() Rect {
	return R(0, 0, m.Width, m.Height)
}

// baseMatrix maps script coordinates to device pixels.
func (m Metrics) baseMatrix() gg.Matrix {
	s := m.scale()
	base := gg.Scale(s, s)
	if m.FlipY {
		base = base.Multiply(gg.Translate(0, m.Height)).Multiply(gg.Scale(1, -1))
	}
	return base
}

// CanvasOption configures a Canvas during creation.
//
// Example:
//
//	// Draw into a context owned by the host
//	cv := ggscript.NewDisplayCanvas(metrics, ggscript.WithContext(dc))
type CanvasOption func(*canvasOptions)

// canvasOptions holds optional configuration for Canvas creation.
type canvasOptions struct {
	dc    *gg.Context
	dirty *Rect
}

// WithContext draws into an existing gg context instead of allocating one.
// The context's size should match Metrics.DeviceSize.
func WithContext(dc *gg.Context) CanvasOption {
	return func(o *canvasOptions) {
		o.dc = dc
	}
}

// WithDirtyRect sets the initial dirty rectangle, in script units.
// By default the whole canvas is dirty.
func WithDirtyRect(r Rect) CanvasOption {
	return func(o *canvasOptions) {
		o.dirty = &r
	}
}
