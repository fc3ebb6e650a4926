package ggscript

import "github.com/gogpu/gg"

// hitTestOp renders op into the single-pixel target and records a hit when
// the pixel receives coverage inside the current clip.
func (c *Canvas) hitTestOp(op func(p Paint) error) error {
	c.dc.ClearWithColor(gg.Transparent)
	if err := op(c.hitPaint); err != nil {
		return err
	}
	if c.hit {
		return nil
	}
	if _, _, _, a := c.dc.Image().At(0, 0).RGBA(); a == 0 {
		return nil
	}
	if c.state.clip.contains(gg.Pt(0.5, 0.5)) {
		c.hit = true
	}
	return nil
}

// PerformHitTest reports whether any drawing operation so far covered the
// hit-test point. It always reports false on a display canvas.
func (c *Canvas) PerformHitTest() bool {
	return c.hitTest && c.hit
}

// ResetHitTest forgets previous hits so the canvas can be reused for another
// pass.
func (c *Canvas) ResetHitTest() {
	c.hit = false
}
