package ggscript

import (
	"math"

	"github.com/gogpu/gg"
)

// Path is a vector path in script coordinates.
// A Path is built once and can then be filled, stroked or used as a clip on
// any number of canvases.
type Path struct {
	p *gg.Path
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{p: gg.NewPath()}
}

// RectPath creates a closed rectangular path.
func RectPath(r Rect) *Path {
	path := NewPath()
	path.AddRect(r)
	return path
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) { p.p.MoveTo(x, y) }

// LineTo adds a line to (x, y). Without a current point it starts a subpath.
func (p *Path) LineTo(x, y float64) {
	if !p.p.HasCurrentPoint() {
		p.p.MoveTo(x, y)
		return
	}
	p.p.LineTo(x, y)
}

// QuadTo adds a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if !p.p.HasCurrentPoint() {
		p.p.MoveTo(cx, cy)
	}
	p.p.QuadraticTo(cx, cy, x, y)
}

// CurveTo adds a cubic Bezier curve.
func (p *Path) CurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !p.p.HasCurrentPoint() {
		p.p.MoveTo(c1x, c1y)
	}
	p.p.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

// Close closes the current subpath.
func (p *Path) Close() {
	if p.p.HasCurrentPoint() {
		p.p.Close()
	}
}

// AddRect adds a closed rectangle.
func (p *Path) AddRect(r Rect) {
	p.p.Rectangle(r.X, r.Y, r.Width, r.Height)
}

// AddOval adds a closed ellipse inscribed in r.
func (p *Path) AddOval(r Rect) {
	p.p.Ellipse(r.X+r.Width/2, r.Y+r.Height/2, r.Width/2, r.Height/2)
}

// AddRoundedRect adds a closed rectangle with corners of the given radius.
func (p *Path) AddRoundedRect(r Rect, radius float64) {
	if radius <= 0 {
		p.AddRect(r)
		return
	}
	p.p.RoundedRectangle(r.X, r.Y, r.Width, r.Height, radius)
}

// AddArc adds a circular arc from angle1 to angle2 (radians) around center.
// When the path already has a current point, a line joins it to the start of
// the arc.
func (p *Path) AddArc(center Point, radius, angle1, angle2 float64) {
	if p.p.HasCurrentPoint() {
		p.p.LineTo(center.X+radius*math.Cos(angle1), center.Y+radius*math.Sin(angle1))
	} else {
		p.p.MoveTo(center.X+radius*math.Cos(angle1), center.Y+radius*math.Sin(angle1))
	}
	p.p.Arc(center.X, center.Y, radius, angle1, angle2)
}

// IsEmpty reports whether the path has no elements.
func (p *Path) IsEmpty() bool {
	return p == nil || p.p.NumVerbs() == 0
}

// Bounds returns the tight bounding box of the path.
func (p *Path) Bounds() Rect {
	if p.IsEmpty() {
		return Rect{}
	}
	return rectFromGG(p.p.BoundingBox())
}

// Contains reports whether pt is inside the path (non-zero winding).
func (p *Path) Contains(pt Point) bool {
	if p.IsEmpty() {
		return false
	}
	return p.p.Contains(gg.Pt(pt.X, pt.Y))
}

// Transformed returns a copy of the path mapped through t.
func (p *Path) Transformed(t Transformation) *Path {
	return &Path{p: p.p.Transform(t.Matrix())}
}

// Clone returns an independent copy of the path.
func (p *Path) Clone() *Path {
	return &Path{p: p.p.Clone()}
}

// replay appends the path to dc's current path, mapped through dc's
// current transform.
func (p *Path) replay(dc *gg.Context) {
	p.p.Iterate(func(verb gg.PathVerb, c []float64) {
		switch verb {
		case gg.MoveTo:
			dc.MoveTo(c[0], c[1])
		case gg.LineTo:
			dc.LineTo(c[0], c[1])
		case gg.QuadTo:
			dc.QuadraticTo(c[0], c[1], c[2], c[3])
		case gg.CubicTo:
			dc.CubicTo(c[0], c[1], c[2], c[3], c[4], c[5])
		case gg.Close:
			dc.ClosePath()
		}
	})
}
