package ggscript

import (
	"github.com/gogpu/gg"
)

// FillPath fills path, given in the current user space, with the current
// paint.
func (c *Canvas) FillPath(path *Path) error {
	if path.IsEmpty() {
		return c.checkReleased()
	}
	return c.draw(func(p Paint) error {
		b := p.brush(c.dc.GetTransform())
		if b == nil {
			return nil
		}
		c.dc.ClearPath()
		c.dc.SetFillBrush(b)
		path.replay(c.dc)
		return c.dc.Fill()
	})
}

// StrokePath strokes path with the current paint at the current thickness.
// A zero thickness draws nothing.
func (c *Canvas) StrokePath(path *Path) error {
	if path.IsEmpty() || c.state.thickness == 0 {
		return c.checkReleased()
	}
	return c.draw(func(p Paint) error {
		b := p.brush(c.dc.GetTransform())
		if b == nil {
			return nil
		}
		c.dc.ClearPath()
		c.dc.SetStrokeBrush(b)
		c.dc.SetLineWidth(c.state.thickness)
		path.replay(c.dc)
		return c.dc.Stroke()
	})
}

// FillRect fills r with the current paint.
func (c *Canvas) FillRect(r Rect) error {
	if r.IsEmpty() {
		return c.checkReleased()
	}
	return c.draw(func(p Paint) error {
		p.FillRect(c.dc, r)
		return nil
	})
}

// DrawStyledString fills the glyphs of s with the baseline starting at
// point.
func (c *Canvas) DrawStyledString(s *StyledString, point Point) error {
	return c.FillPath(c.textPath(s, point))
}

// StrokeStyledString strokes the glyph outlines of s.
func (c *Canvas) StrokeStyledString(s *StyledString, point Point) error {
	return c.StrokePath(c.textPath(s, point))
}

// DrawText fills str in the current font.
func (c *Canvas) DrawText(str string, point Point) error {
	return c.DrawStyledString(NewStyledString(str, c.state.font), point)
}

// StrokeText strokes str in the current font.
func (c *Canvas) StrokeText(str string, point Point) error {
	return c.StrokeStyledString(NewStyledString(str, c.state.font), point)
}

func (c *Canvas) textPath(s *StyledString, point Point) *Path {
	if s == nil {
		return nil
	}
	path, skipped := s.outlinePath(point, c.metrics.FlipY)
	if skipped > 0 {
		Logger().Warn("ggscript: glyphs without outline", "text", s.Text(), "skipped", skipped)
	}
	return path
}

// DrawIcon draws icon scaled into r. The icon is drawn upright into the
// device-space bounds of r. Icons carry their own colors, so no paint is
// needed.
func (c *Canvas) DrawIcon(icon *Icon, r Rect) error {
	if icon == nil || r.IsEmpty() {
		return c.checkReleased()
	}
	return c.composite(func(Paint) error {
		drawIconDevice(c.dc, icon, transformRect(c.dc.GetTransform(), r))
		return nil
	})
}

// drawIconDevice draws icon into a device-space rectangle of dc.
func drawIconDevice(dc *gg.Context, icon *Icon, device Rect) {
	m := dc.GetTransform()
	dc.SetTransform(gg.Identity())
	dc.DrawImageEx(icon.bufferFor(device.Width, device.Height), gg.DrawImageOptions{
		X:             device.X,
		Y:             device.Y,
		DstWidth:      device.Width,
		DstHeight:     device.Height,
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	dc.SetTransform(m)
}

func (c *Canvas) checkReleased() error {
	if c.released {
		return ErrCanvasReleased
	}
	return nil
}

// draw runs one drawing operation that paints with the current paint. On a
// display canvas without a paint it draws nothing.
func (c *Canvas) draw(op func(p Paint) error) error {
	if c.state.paint == nil && !c.hitTest {
		return c.checkReleased()
	}
	return c.composite(op)
}

// composite runs op whether or not a paint is set. On a hit-test canvas it
// renders with an opaque paint and records a hit; otherwise it composites
// through a layer when the paint mode or opacity requires one.
func (c *Canvas) composite(op func(p Paint) error) error {
	if c.released {
		return ErrCanvasReleased
	}
	if c.hitTest {
		return c.hitTestOp(op)
	}

	layered := c.state.mode != PaintModeNormal || c.state.opacity < 1
	if layered {
		c.dc.PushLayer(c.state.mode.blendMode(), c.state.opacity)
		defer c.dc.PopLayer()
	}
	return op(c.state.paint)
}
