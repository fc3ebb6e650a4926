package ggscript

import (
	"github.com/gogpu/gg/text"
	"golang.org/x/text/unicode/norm"
)

// StyledString is a run of text bound to a font.
// The text is stored in Unicode normalization form C so that composed and
// decomposed input shape identically.
type StyledString struct {
	text string
	font *Font
}

// NewStyledString creates a styled string. A nil font selects DefaultFont.
func NewStyledString(s string, font *Font) *StyledString {
	if font == nil {
		font = DefaultFont()
	}
	return &StyledString{text: norm.NFC.String(s), font: font}
}

// Text returns the normalized text.
func (s *StyledString) Text() string { return s.text }

// Font returns the font.
func (s *StyledString) Font() *Font { return s.font }

// Measure returns the advance width and line height of the string.
func (s *StyledString) Measure() (width, height float64) {
	if s.text == "" {
		return 0, s.font.Metrics().LineHeight()
	}
	return text.Measure(s.text, s.font.Face())
}

// Bounds returns the layout box of the string drawn with its baseline at
// origin, in a Y-down coordinate system.
func (s *StyledString) Bounds(origin Point) Rect {
	w, _ := s.Measure()
	m := s.font.Metrics()
	return R(origin.X, origin.Y-m.Ascent, w, m.Ascent+m.Descent)
}

// outlinePath converts the shaped glyphs into a path with the baseline
// starting at origin. With flipY the glyphs are mirrored about the baseline
// so they read upright on a Y-up canvas. Glyphs without an outline are
// counted in skipped.
func (s *StyledString) outlinePath(origin Point, flipY bool) (path *Path, skipped int) {
	path = NewPath()
	if s.text == "" {
		return path, 0
	}

	face := s.font.Face()
	parsed := face.Source().Parsed()
	extractor := text.NewOutlineExtractor()
	dir := 1.0
	if flipY {
		dir = -1
	}

	for _, glyph := range text.Shape(s.text, face) {
		outline, err := extractor.ExtractOutline(parsed, glyph.GID, face.Size())
		if err != nil {
			skipped++
			continue
		}
		if outline == nil || outline.IsEmpty() {
			continue
		}

		gx := origin.X + glyph.X
		gy := glyph.Y
		pt := func(p text.OutlinePoint) (float64, float64) {
			return gx + float64(p.X), origin.Y + dir*(gy+float64(p.Y))
		}

		open := false
		for _, seg := range outline.Segments {
			switch seg.Op {
			case text.OutlineOpMoveTo:
				if open {
					path.Close()
				}
				x, y := pt(seg.Points[0])
				path.MoveTo(x, y)
				open = true
			case text.OutlineOpLineTo:
				x, y := pt(seg.Points[0])
				path.LineTo(x, y)
			case text.OutlineOpQuadTo:
				cx, cy := pt(seg.Points[0])
				x, y := pt(seg.Points[1])
				path.QuadTo(cx, cy, x, y)
			case text.OutlineOpCubicTo:
				c1x, c1y := pt(seg.Points[0])
				c2x, c2y := pt(seg.Points[1])
				x, y := pt(seg.Points[2])
				path.CurveTo(c1x, c1y, c2x, c2y, x, y)
			}
		}
		if open {
			path.Close()
		}
	}
	return path, skipped
}
