package ggscript

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// ColorPaint is a solid RGBA color paint.
// Components are in the range [0, 1].
type ColorPaint struct {
	paintBase
	r, g, b, a float64
}

var _ Paint = (*ColorPaint)(nil)

// NewColorPaint creates a color paint. Components are clamped to [0, 1].
// NaN or infinite components are rejected with ErrInvalidColor.
func NewColorPaint(r, g, b, a float64) (*ColorPaint, error) {
	c := &ColorPaint{}
	c.init(nil)
	if err := c.SetRGBA(r, g, b, a); err != nil {
		return nil, err
	}
	return c, nil
}

// NewColorPaintHex creates a color paint from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without "#".
func NewColorPaintHex(hex string) (*ColorPaint, error) {
	if !validHex(hex) {
		return nil, fmt.Errorf("%w: hex %q", ErrInvalidColor, hex)
	}
	c := gg.Hex(hex)
	return NewColorPaint(c.R, c.G, c.B, c.A)
}

// SetRGBA replaces the color. It fails with ErrPaintFrozen once the paint has
// been shared.
func (c *ColorPaint) SetRGBA(r, g, b, a float64) error {
	if c.Frozen() {
		return ErrPaintFrozen
	}
	for _, v := range [...]float64{r, g, b, a} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidColor, v)
		}
	}
	c.r, c.g, c.b, c.a = clamp01(r), clamp01(g), clamp01(b), clamp01(a)
	return nil
}

// RGBA returns the color components.
func (c *ColorPaint) RGBA() (r, g, b, a float64) {
	return c.r, c.g, c.b, c.a
}

// PlatformColor returns the color as a gg color.
func (c *ColorPaint) PlatformColor() gg.RGBA {
	return gg.RGBA{R: c.r, G: c.g, B: c.b, A: c.a}
}

// Equal reports whether both paints hold exactly the same components.
func (c *ColorPaint) Equal(other *ColorPaint) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.r == other.r && c.g == other.g && c.b == other.b && c.a == other.a
}

// String returns the color as rgba(r, g, b, a).
func (c *ColorPaint) String() string {
	return fmt.Sprintf("rgba(%g, %g, %g, %g)", c.r, c.g, c.b, c.a)
}

// FillRect fills r with the color.
func (c *ColorPaint) FillRect(dc *gg.Context, r Rect) {
	if c.released() || r.IsEmpty() {
		return
	}
	dc.SetFillBrush(gg.Solid(c.PlatformColor()))
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	if err := dc.Fill(); err != nil {
		Logger().Warn("ggscript: color fill failed", "err", err)
	}
}

func (c *ColorPaint) brush(gg.Matrix) gg.Brush {
	if c.released() {
		return nil
	}
	return gg.Solid(c.PlatformColor())
}

// clamp01 clamps a value to [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// validHex reports whether s is a hex color gg.Hex understands.
func validHex(s string) bool {
	if s != "" && s[0] == '#' {
		s = s[1:]
	}
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
