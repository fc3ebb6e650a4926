package ggscript

import "github.com/gogpu/gg"

// Transformation is an immutable 2D affine transformation.
// Every operation returns a new Transformation. The zero value is the
// identity.
type Transformation struct {
	m   gg.Matrix
	set bool
}

// IdentityTransformation returns the identity transformation.
func IdentityTransformation() Transformation {
	return TransformationFromMatrix(gg.Identity())
}

// TranslateTransformation returns a translation by (x, y).
func TranslateTransformation(x, y float64) Transformation {
	return TransformationFromMatrix(gg.Translate(x, y))
}

// ScaleTransformation returns a scale by (sx, sy).
func ScaleTransformation(sx, sy float64) Transformation {
	return TransformationFromMatrix(gg.Scale(sx, sy))
}

// RotateTransformation returns a rotation by angle radians.
func RotateTransformation(angle float64) Transformation {
	return TransformationFromMatrix(gg.Rotate(angle))
}

// TransformationFromMatrix wraps a gg matrix.
func TransformationFromMatrix(m gg.Matrix) Transformation {
	return Transformation{m: m, set: true}
}

// Matrix returns the underlying gg matrix.
func (t Transformation) Matrix() gg.Matrix {
	if !t.set {
		return gg.Identity()
	}
	return t.m
}

// Concat returns t * other: other is applied first, then t.
func (t Transformation) Concat(other Transformation) Transformation {
	return TransformationFromMatrix(t.Matrix().Multiply(other.Matrix()))
}

// Translate returns t followed by a translation in t's local space.
func (t Transformation) Translate(x, y float64) Transformation {
	return t.Concat(TranslateTransformation(x, y))
}

// Scale returns t followed by a scale in t's local space.
func (t Transformation) Scale(sx, sy float64) Transformation {
	return t.Concat(ScaleTransformation(sx, sy))
}

// Rotate returns t followed by a rotation in t's local space.
func (t Transformation) Rotate(angle float64) Transformation {
	return t.Concat(RotateTransformation(angle))
}

// Invert returns the inverse transformation.
func (t Transformation) Invert() Transformation {
	return TransformationFromMatrix(t.Matrix().Invert())
}

// Apply maps p through the transformation.
func (t Transformation) Apply(p Point) Point {
	q := t.Matrix().TransformPoint(gg.Pt(p.X, p.Y))
	return Point{X: q.X, Y: q.Y}
}

// IsIdentity reports whether t is the identity.
func (t Transformation) IsIdentity() bool {
	return t.Matrix().IsIdentity()
}
