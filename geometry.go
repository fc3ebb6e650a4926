package ggscript

import (
	"math"

	"github.com/gogpu/gg"
)

// Point is a location in script coordinates.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned rectangle in script coordinates.
// Width and height are never negative for rectangles produced by this package.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// R is a convenience function to create a Rect.
// Negative sizes are normalized so the rectangle covers the same area.
func R(x, y, w, h float64) Rect {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Intersect returns the largest rectangle contained in both r and s.
// Disjoint rectangles yield the zero Rect.
func (r Rect) Intersect(s Rect) Rect {
	x0 := math.Max(r.X, s.X)
	y0 := math.Max(r.Y, s.Y)
	x1 := math.Min(r.MaxX(), s.MaxX())
	y1 := math.Min(r.MaxY(), s.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle containing both r and s.
// An empty rectangle does not contribute.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, s.X)
	y0 := math.Min(r.Y, s.Y)
	x1 := math.Max(r.MaxX(), s.MaxX())
	y1 := math.Max(r.MaxY(), s.MaxY())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Inset shrinks the rectangle by dx on the left and right and dy on the top
// and bottom. Negative values grow it.
func (r Rect) Inset(dx, dy float64) Rect {
	return R(r.X+dx, r.Y+dy, r.Width-2*dx, r.Height-2*dy)
}

// convertPoint converts a script point into the rendering coordinate system.
// Both systems share an origin and axis direction; any Y flip is carried by
// the canvas transform.
func convertPoint(p Point) gg.Point {
	return gg.Pt(p.X, p.Y)
}

// rectFromGG converts a gg bounding box into a Rect.
func rectFromGG(r gg.Rect) Rect {
	return R(r.Min.X, r.Min.Y, r.Width(), r.Height())
}

// transformRect returns the device-space bounding box of r under m.
func transformRect(m gg.Matrix, r Rect) Rect {
	corners := [4]gg.Point{
		m.TransformPoint(gg.Pt(r.X, r.Y)),
		m.TransformPoint(gg.Pt(r.MaxX(), r.Y)),
		m.TransformPoint(gg.Pt(r.MaxX(), r.MaxY())),
		m.TransformPoint(gg.Pt(r.X, r.MaxY())),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
