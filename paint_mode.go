package ggscript

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

// PaintMode selects how drawing is composited onto the canvas.
type PaintMode int

const (
	// PaintModeNormal draws source over destination.
	PaintModeNormal PaintMode = iota
	// PaintModeMultiply multiplies source and destination colors.
	PaintModeMultiply
	// PaintModeScreen inverts, multiplies and inverts again.
	PaintModeScreen
	// PaintModeOverlay multiplies dark areas and screens light ones.
	PaintModeOverlay
)

var paintModeNames = [...]string{"normal", "multiply", "screen", "overlay"}

// String returns the mode name.
func (m PaintMode) String() string {
	if m < 0 || int(m) >= len(paintModeNames) {
		return fmt.Sprintf("PaintMode(%d)", int(m))
	}
	return paintModeNames[m]
}

// ParsePaintMode returns the mode with the given name.
func ParsePaintMode(name string) (PaintMode, error) {
	for i, n := range paintModeNames {
		if strings.EqualFold(n, name) {
			return PaintMode(i), nil
		}
	}
	return PaintModeNormal, fmt.Errorf("ggscript: unknown paint mode %q", name)
}

// blendMode maps the paint mode onto a gg blend mode.
func (m PaintMode) blendMode() gg.BlendMode {
	switch m {
	case PaintModeMultiply:
		return gg.BlendMultiply
	case PaintModeScreen:
		return gg.BlendScreen
	case PaintModeOverlay:
		return gg.BlendOverlay
	default:
		return gg.BlendNormal
	}
}
