package ggscript

import (
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/gg"
)

// GradientType tags a gradient as linear or radial.
type GradientType int

const (
	// GradientLinear interpolates along the line between two points.
	GradientLinear GradientType = iota
	// GradientRadial interpolates between two circles.
	GradientRadial
)

// String returns the gradient type name.
func (t GradientType) String() string {
	switch t {
	case GradientLinear:
		return "linear"
	case GradientRadial:
		return "radial"
	default:
		return "unknown"
	}
}

// StopEntry is one entry of a sparse stop table: a key and a value.
// Only entries with a numeric key take part in the gradient; their value
// must be a *ColorPaint.
type StopEntry struct {
	Key     float64
	Numeric bool
	Value   any
}

// Stop returns a numeric stop entry at location for color.
func Stop(location float64, color *ColorPaint) StopEntry {
	return StopEntry{Key: location, Numeric: true, Value: color}
}

// isStop reports whether e contributes to the gradient.
func (e StopEntry) isStop() bool {
	return e.Numeric && !math.IsNaN(e.Key) && !math.IsInf(e.Key, 0)
}

// ProcessStops converts a sparse stop table into parallel color and location
// slices.
//
// The location range always includes [0, 1]: it is widened to the smallest
// and largest numeric key, and every location is rescaled linearly so that
// the range maps onto [0, 1]. The output keeps the input order; it is not
// sorted.
//
// Entries with non-numeric keys are skipped. A numeric entry whose value is
// not a color fails the whole operation, returning nil slices. No numeric
// entries yields nil slices and no error.
func ProcessStops(entries []StopEntry) (colors []*ColorPaint, locations []float64, err error) {
	locationMin, locationMax := 0.0, 1.0
	count := 0
	for _, e := range entries {
		if !e.isStop() {
			continue
		}
		count++
		locationMin = math.Min(locationMin, e.Key)
		locationMax = math.Max(locationMax, e.Key)
	}
	if count == 0 {
		return nil, nil, nil
	}

	span := locationMax - locationMin
	colors = make([]*ColorPaint, 0, count)
	locations = make([]float64, 0, count)
	for i, e := range entries {
		if !e.isStop() {
			continue
		}
		color, ok := e.Value.(*ColorPaint)
		if !ok || color == nil {
			return nil, nil, fmt.Errorf("%w: entry %d (%T)", ErrNotAColor, i, e.Value)
		}
		location := 0.0
		if span > 0 {
			location = (e.Key - locationMin) / span
		}
		colors = append(colors, color)
		locations = append(locations, location)
	}
	return colors, locations, nil
}

// GradientPaint fills regions with a linear or radial gradient.
//
// A gradient is configured once: SetColors and one of SetLinearLocation or
// SetRadialLocation are called before first use. Colors are pad-extended
// before the first stop and after the last.
type GradientPaint struct {
	paintBase

	// gradient is the platform stop list, sorted by offset.
	// nil means no gradient: fills are no-ops.
	gradient  []gg.ColorStop
	colorsSet bool

	kind   GradientType
	points [2]gg.Point
	radii  [2]float64
}

var _ Paint = (*GradientPaint)(nil)

// NewGradientPaint creates an unconfigured gradient paint.
func NewGradientPaint() *GradientPaint {
	g := &GradientPaint{}
	g.init(g.dealloc)
	return g
}

// NewLinearGradient builds a linear gradient from start to end using a stop
// table processed by ProcessStops.
func NewLinearGradient(start, end Point, stops []StopEntry) (*GradientPaint, error) {
	g := NewGradientPaint()
	if err := g.setStops(stops); err != nil {
		return nil, err
	}
	if err := g.SetLinearLocation(start, end); err != nil {
		return nil, err
	}
	return g, nil
}

// NewRadialGradient builds a radial gradient between two circles using a
// stop table processed by ProcessStops.
func NewRadialGradient(startCenter Point, startRadius float64, endCenter Point, endRadius float64, stops []StopEntry) (*GradientPaint, error) {
	g := NewGradientPaint()
	if err := g.setStops(stops); err != nil {
		return nil, err
	}
	if err := g.SetRadialLocation(startCenter, startRadius, endCenter, endRadius); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GradientPaint) setStops(stops []StopEntry) error {
	colors, locations, err := ProcessStops(stops)
	if err != nil {
		return err
	}
	return g.SetColors(colors, locations)
}

// SetColors builds the platform gradient from parallel color and location
// slices. Stops are sorted by location; stops at equal locations keep their
// relative order. Zero stops leave the paint without a gradient.
func (g *GradientPaint) SetColors(colors []*ColorPaint, locations []float64) error {
	if g.Frozen() {
		return ErrPaintFrozen
	}
	if g.colorsSet {
		return ErrColorsAlreadySet
	}
	if len(colors) != len(locations) {
		return fmt.Errorf("%w: %d colors, %d locations", ErrStopMismatch, len(colors), len(locations))
	}

	var stops []gg.ColorStop
	if len(colors) > 0 {
		stops = make([]gg.ColorStop, len(colors))
		for i, c := range colors {
			if c == nil {
				return fmt.Errorf("%w: stop %d", ErrNotAColor, i)
			}
			if math.IsNaN(locations[i]) {
				return fmt.Errorf("%w: stop %d location", ErrInvalidColor, i)
			}
			c.freeze()
			stops[i] = gg.ColorStop{Offset: clamp01(locations[i]), Color: c.PlatformColor()}
		}
		slices.SortStableFunc(stops, func(a, b gg.ColorStop) int {
			switch {
			case a.Offset < b.Offset:
				return -1
			case a.Offset > b.Offset:
				return 1
			default:
				return 0
			}
		})
	}

	g.gradient = stops
	g.colorsSet = true
	Logger().Debug("ggscript: gradient colors set", "stops", len(stops))
	return nil
}

// SetLinearLocation tags the gradient as linear from start to end.
func (g *GradientPaint) SetLinearLocation(start, end Point) error {
	if g.Frozen() {
		return ErrPaintFrozen
	}
	g.kind = GradientLinear
	g.points = [2]gg.Point{convertPoint(start), convertPoint(end)}
	g.radii = [2]float64{}
	return nil
}

// SetRadialLocation tags the gradient as radial, interpolating from the start
// circle to the end circle.
func (g *GradientPaint) SetRadialLocation(startCenter Point, startRadius float64, endCenter Point, endRadius float64) error {
	if g.Frozen() {
		return ErrPaintFrozen
	}
	if startRadius < 0 || endRadius < 0 {
		return fmt.Errorf("%w: %g, %g", ErrNegativeRadius, startRadius, endRadius)
	}
	g.kind = GradientRadial
	g.points = [2]gg.Point{convertPoint(startCenter), convertPoint(endCenter)}
	g.radii = [2]float64{startRadius, endRadius}
	return nil
}

// Type returns the gradient type.
func (g *GradientPaint) Type() GradientType {
	return g.kind
}

// Anchors returns the two anchor points in the rendering coordinate system.
func (g *GradientPaint) Anchors() (start, end gg.Point) {
	return g.points[0], g.points[1]
}

// Radii returns the start and end radii of a radial gradient.
func (g *GradientPaint) Radii() (start, end float64) {
	return g.radii[0], g.radii[1]
}

// Stops returns a copy of the sorted platform stops, or nil without a
// gradient.
func (g *GradientPaint) Stops() []gg.ColorStop {
	return slices.Clone(g.gradient)
}

// HasGradient reports whether the paint will draw anything.
func (g *GradientPaint) HasGradient() bool {
	return len(g.gradient) > 0
}

// FillRect fills r with the gradient, extended before the first stop and
// after the last. It is a no-op without a gradient.
func (g *GradientPaint) FillRect(dc *gg.Context, r Rect) {
	if r.IsEmpty() {
		return
	}
	b := g.brush(dc.GetTransform())
	if b == nil {
		return
	}
	dc.SetFillBrush(b)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	if err := dc.Fill(); err != nil {
		Logger().Warn("ggscript: gradient fill failed", "type", g.kind, "err", err)
	}
}

// brush builds a gg brush for the current transform m. Brushes are
// evaluated in device coordinates, while anchors are stored in user space.
func (g *GradientPaint) brush(m gg.Matrix) gg.Brush {
	if len(g.gradient) == 0 || g.released() {
		return nil
	}
	if g.kind == GradientRadial {
		return g.radialBrush(m)
	}
	start := m.TransformPoint(g.points[0])
	end := m.TransformPoint(g.points[1])
	b := gg.NewLinearGradientBrush(start.X, start.Y, end.X, end.Y).
		SetExtend(gg.ExtendPad)
	b.Stops = slices.Clone(g.gradient)
	return b
}

// radialBrush interpolates between the start and end circles. Each device
// pixel is mapped back into user space through the inverse of m, so a
// non-uniform transform turns the circles into ellipses.
func (g *GradientPaint) radialBrush(m gg.Matrix) gg.Brush {
	if math.Abs(m.A*m.E-m.B*m.D) < 1e-10 {
		return nil
	}
	inv := m.Invert()

	// The ramp maps t in [0, 1] along the x axis to the stop colors.
	ramp := gg.NewLinearGradientBrush(0, 0, 1, 0).SetExtend(gg.ExtendPad)
	ramp.Stops = slices.Clone(g.gradient)
	ramp.ColorAt(0, 0) // sort the stops before concurrent use

	c0, c1 := g.points[0], g.points[1]
	r0, r1 := g.radii[0], g.radii[1]
	return gg.NewCustomBrush(func(x, y float64) gg.RGBA {
		s, ok := twoCircleParam(c0, r0, c1, r1, inv.TransformPoint(gg.Pt(x, y)))
		if !ok {
			return gg.Transparent
		}
		return ramp.ColorAt(math.Max(0, math.Min(1, s)), 0)
	}).WithName("radial-gradient")
}

// twoCircleParam returns the largest s for which p lies on the circle
// centered at c0+s*(c1-c0) with radius r0+s*(r1-r0) >= 0. It reports false
// when no such circle passes through p.
func twoCircleParam(c0 gg.Point, r0 float64, c1 gg.Point, r1 float64, p gg.Point) (float64, bool) {
	cdx, cdy := c1.X-c0.X, c1.Y-c0.Y
	pdx, pdy := p.X-c0.X, p.Y-c0.Y
	dr := r1 - r0

	a := cdx*cdx + cdy*cdy - dr*dr
	b := pdx*cdx + pdy*cdy + r0*dr
	c := pdx*pdx + pdy*pdy - r0*r0

	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return 0, false
		}
		s := c / (2 * b)
		return s, r0+s*dr >= 0
	}
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	hi, lo := (b+sq)/a, (b-sq)/a
	if hi < lo {
		hi, lo = lo, hi
	}
	if r0+hi*dr >= 0 {
		return hi, true
	}
	if r0+lo*dr >= 0 {
		return lo, true
	}
	return 0, false
}

func (g *GradientPaint) dealloc() {
	g.gradient = nil
}
