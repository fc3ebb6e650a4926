package ggscript

import (
	"math"

	"github.com/gogpu/gg"
)

// DefaultThickness is the initial stroke width, in script units.
const DefaultThickness = 1.0

// canvasState is everything Push saves and Pop restores.
type canvasState struct {
	transform gg.Matrix // user transform; the context matrix is base * transform
	clip      clipRegion
	paint     Paint
	mode      PaintMode
	font      *Font
	thickness float64
	opacity   float64
}

// CanvasState is a snapshot of the drawing state of a Canvas.
type CanvasState struct {
	Transformation Transformation
	ClipBounds     Rect
	ClipDepth      int
	Paint          Paint
	PaintMode      PaintMode
	Font           *Font
	Thickness      float64
	Opacity        float64
}

// Canvas draws into a gg context on behalf of a script.
//
// A Canvas is either a display canvas, which renders pixels, or a hit-test
// canvas, which renders coverage into a single pixel centered on a target
// point and reports whether anything was drawn there.
//
// Every Push must be matched by a Pop before Release. A Canvas is not safe
// for concurrent use.
type Canvas struct {
	dc      *gg.Context
	ownsDC  bool
	metrics Metrics
	base    gg.Matrix
	dirty   Rect

	state canvasState
	stack []canvasState

	hitTest  bool
	hitPoint Point
	hit      bool
	hitPaint *ColorPaint

	released bool
}

// NewDisplayCanvas creates a canvas that renders into a pixmap sized by
// metrics.
//
// Example:
//
//	cv := ggscript.NewDisplayCanvas(ggscript.Metrics{Width: 200, Height: 100})
//	defer cv.Release()
//	cv.SetPaint(red)
//	cv.FillPath(ggscript.RectPath(ggscript.R(10, 10, 50, 50)))
//	cv.Context().SavePNG("out.png")
func NewDisplayCanvas(metrics Metrics, opts ...CanvasOption) *Canvas {
	o := canvasOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Canvas{
		metrics: metrics,
		base:    metrics.baseMatrix(),
		dirty:   metrics.Bounds(),
	}
	if o.dc != nil {
		c.dc = o.dc
	} else {
		c.dc = gg.NewContext(metrics.DeviceSize())
		c.ownsDC = true
	}
	if o.dirty != nil {
		c.dirty = *o.dirty
	}
	c.init()
	return c
}

// NewHitTestCanvas creates a canvas that tests drawing against point, given
// in script units.
func NewHitTestCanvas(metrics Metrics, point Point, opts ...CanvasOption) *Canvas {
	o := canvasOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	base := metrics.baseMatrix()
	d := base.TransformPoint(convertPoint(point))
	c := &Canvas{
		dc:       gg.NewContext(1, 1),
		ownsDC:   true,
		metrics:  metrics,
		base:     gg.Translate(0.5-d.X, 0.5-d.Y).Multiply(base),
		dirty:    metrics.Bounds(),
		hitTest:  true,
		hitPoint: point,
	}
	if o.dirty != nil {
		c.dirty = *o.dirty
	}
	c.hitPaint, _ = NewColorPaint(0, 0, 0, 1)
	c.init()
	return c
}

func (c *Canvas) init() {
	c.state = canvasState{
		transform: gg.Identity(),
		clip:      clipRegion{bounds: transformRect(c.base, c.metrics.Bounds())},
		mode:      PaintModeNormal,
		font:      DefaultFont(),
		thickness: DefaultThickness,
		opacity:   1,
	}
	c.dc.SetTransform(c.base)
}

// Context returns the gg context the canvas draws into.
func (c *Canvas) Context() *gg.Context { return c.dc }

// Metrics returns the canvas metrics.
func (c *Canvas) Metrics() Metrics { return c.metrics }

// IsHitTest reports whether the canvas is a hit-test canvas.
func (c *Canvas) IsHitTest() bool { return c.hitTest }

// HitPoint returns the hit-test target point. It is the zero Point on a
// display canvas.
func (c *Canvas) HitPoint() Point { return c.hitPoint }

// Push saves the current drawing state.
func (c *Canvas) Push() {
	if c.released {
		return
	}
	c.dc.Push()
	retainPaint(c.state.paint)
	c.stack = append(c.stack, c.state)
}

// Pop restores the most recently pushed state. Popping an empty stack logs a
// warning and does nothing.
func (c *Canvas) Pop() {
	if c.released {
		return
	}
	if len(c.stack) == 0 {
		Logger().Warn("ggscript: pop with empty state stack")
		return
	}
	releasePaint(c.state.paint)
	c.state = c.stack[len(c.stack)-1]
	c.stack[len(c.stack)-1] = canvasState{}
	c.stack = c.stack[:len(c.stack)-1]
	c.dc.Pop()
	c.dc.SetTransform(c.base.Multiply(c.state.transform))
}

// NukeStack pops every saved state.
func (c *Canvas) NukeStack() {
	for len(c.stack) > 0 {
		c.Pop()
	}
}

// Depth returns the number of saved states.
func (c *Canvas) Depth() int { return len(c.stack) }

// State returns a snapshot of the current drawing state.
func (c *Canvas) State() CanvasState {
	return CanvasState{
		Transformation: TransformationFromMatrix(c.state.transform),
		ClipBounds:     c.state.clip.bounds,
		ClipDepth:      len(c.state.clip.shapes),
		Paint:          c.state.paint,
		PaintMode:      c.state.mode,
		Font:           c.state.font,
		Thickness:      c.state.thickness,
		Opacity:        c.state.opacity,
	}
}

// Release drops the canvas's paints and, if the canvas allocated it, closes
// the gg context. An unbalanced stack is unwound with a warning.
func (c *Canvas) Release() error {
	if c.released {
		return ErrCanvasReleased
	}
	if len(c.stack) > 0 {
		Logger().Warn("ggscript: canvas released with unbalanced push", "depth", len(c.stack))
		c.NukeStack()
	}
	releasePaint(c.state.paint)
	c.state.paint = nil
	if c.hitPaint != nil {
		c.hitPaint.Release()
		c.hitPaint = nil
	}
	c.released = true
	if c.ownsDC {
		return c.dc.Close()
	}
	return nil
}

// SetPaint makes p the current paint. The canvas takes a reference and
// freezes p. A nil paint disables filling and stroking.
func (c *Canvas) SetPaint(p Paint) {
	if p == c.state.paint {
		return
	}
	if p != nil {
		p.freeze()
		p.Retain()
	}
	releasePaint(c.state.paint)
	c.state.paint = p
}

// Paint returns the current paint, or nil.
func (c *Canvas) Paint() Paint { return c.state.paint }

// SetPaintMode sets how drawing composites with what is already on the
// canvas.
func (c *Canvas) SetPaintMode(mode PaintMode) { c.state.mode = mode }

// PaintMode returns the current paint mode.
func (c *Canvas) PaintMode() PaintMode { return c.state.mode }

// SetFont sets the font used by DrawText and StrokeText. A nil font restores
// DefaultFont.
func (c *Canvas) SetFont(f *Font) {
	if f == nil {
		f = DefaultFont()
	}
	c.state.font = f
}

// Font returns the current font.
func (c *Canvas) Font() *Font { return c.state.font }

// SetThickness sets the stroke width, in user units. Negative and NaN
// widths are treated as zero.
func (c *Canvas) SetThickness(w float64) {
	if !(w > 0) {
		w = 0
	}
	c.state.thickness = w
}

// Thickness returns the stroke width.
func (c *Canvas) Thickness() float64 { return c.state.thickness }

// SetOpacity sets the group opacity applied to each drawing operation,
// clamped to [0, 1].
func (c *Canvas) SetOpacity(a float64) {
	if math.IsNaN(a) {
		a = 1
	}
	c.state.opacity = clamp01(a)
}

// Opacity returns the current opacity.
func (c *Canvas) Opacity() float64 { return c.state.opacity }

// SetDirtyRect sets the rectangle, in script units, that needs redrawing.
func (c *Canvas) SetDirtyRect(r Rect) { c.dirty = r }

// DirtyRect returns the rectangle that needs redrawing.
func (c *Canvas) DirtyRect() Rect { return c.dirty }

// Transformation returns the current user transformation.
func (c *Canvas) Transformation() Transformation {
	return TransformationFromMatrix(c.state.transform)
}

// ConcatTransformation right-multiplies t onto the current transformation,
// so t applies to coordinates before the existing transformation does.
func (c *Canvas) ConcatTransformation(t Transformation) {
	c.state.transform = c.state.transform.Multiply(t.Matrix())
	c.dc.SetTransform(c.base.Multiply(c.state.transform))
}
