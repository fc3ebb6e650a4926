package ggscript

import (
	"math"
	"slices"

	"github.com/gogpu/gg"
)

// clipShape is one cumulative clip, in device coordinates.
type clipShape interface {
	contains(p gg.Point) bool
}

type rectClip Rect

func (r rectClip) contains(p gg.Point) bool {
	return Rect(r).Contains(Point{X: p.X, Y: p.Y})
}

type pathClip struct {
	path *gg.Path
}

func (c pathClip) contains(p gg.Point) bool {
	return c.path.Contains(p)
}

// iconClip keeps the pixels where an icon drawn upright into the device
// rectangle is at least half opaque.
type iconClip struct {
	icon   *Icon
	device Rect
}

func (c iconClip) contains(p gg.Point) bool {
	if c.device.IsEmpty() || !c.device.Contains(Point{X: p.X, Y: p.Y}) {
		return false
	}
	w, h := c.icon.Size()
	x := int(math.Floor((p.X - c.device.X) / c.device.Width * float64(w)))
	y := int(math.Floor((p.Y - c.device.Y) / c.device.Height * float64(h)))
	return c.icon.img.NRGBAAt(x, y).A >= 128
}

// clipRegion is the intersection of every clip applied since the canvas was
// created. Regions are immutable; intersect returns a new region and never
// touches the backing array of the receiver, so saved states stay valid.
type clipRegion struct {
	bounds Rect
	shapes []clipShape
}

func (r clipRegion) intersect(bounds Rect, shape clipShape) clipRegion {
	return clipRegion{
		bounds: r.bounds.Intersect(bounds),
		shapes: append(slices.Clip(r.shapes), shape),
	}
}

func (r clipRegion) contains(p gg.Point) bool {
	if !r.bounds.Contains(Point{X: p.X, Y: p.Y}) {
		return false
	}
	for _, s := range r.shapes {
		if !s.contains(p) {
			return false
		}
	}
	return true
}

// ClipRect intersects the clip with r, given in the current user space.
func (c *Canvas) ClipRect(r Rect) error {
	if c.released {
		return ErrCanvasReleased
	}
	m := c.dc.GetTransform()
	device := transformRect(m, r)
	if m.B == 0 && m.D == 0 {
		c.dc.ClipRect(r.X, r.Y, r.Width, r.Height)
		c.state.clip = c.state.clip.intersect(device, rectClip(device))
		return nil
	}

	// Rotated or sheared rectangles clip as paths.
	path := RectPath(r)
	return c.ClipPath(path)
}

// ClipPath intersects the clip with path, given in the current user space.
// An empty path clips everything away.
func (c *Canvas) ClipPath(path *Path) error {
	if c.released {
		return ErrCanvasReleased
	}
	if path.IsEmpty() {
		c.dc.ClipRect(0, 0, 0, 0)
		c.state.clip = c.state.clip.intersect(Rect{}, rectClip{})
		return nil
	}
	m := c.dc.GetTransform()
	c.dc.ClearPath()
	path.replay(c.dc)
	c.dc.Clip()

	device := path.p.Transform(m)
	c.state.clip = c.state.clip.intersect(rectFromGG(device.BoundingBox()), pathClip{path: device})
	return nil
}

// ClipIcon intersects the clip with the opaque pixels of icon drawn into r.
func (c *Canvas) ClipIcon(icon *Icon, r Rect) error {
	if c.released {
		return ErrCanvasReleased
	}
	if icon == nil || r.IsEmpty() {
		return c.ClipPath(nil)
	}
	if err := c.ClipRect(r); err != nil {
		return err
	}

	m := c.dc.GetTransform()
	c.dc.SetMask(c.iconMask(icon, r, m))
	c.state.clip = c.state.clip.intersect(c.state.clip.bounds, iconClip{icon: icon, device: transformRect(m, r)})
	return nil
}

// iconMask renders icon into a device-sized mask and intersects it with the
// current mask.
func (c *Canvas) iconMask(icon *Icon, r Rect, m gg.Matrix) *gg.Mask {
	tmp := gg.NewContext(c.dc.Width(), c.dc.Height())
	defer tmp.Close()
	drawIconDevice(tmp, icon, transformRect(m, r))
	mask := gg.NewMaskFromAlpha(tmp.Image())

	if prev := c.dc.GetMask(); prev != nil && prev.Width() == mask.Width() && prev.Height() == mask.Height() {
		for y := 0; y < mask.Height(); y++ {
			for x := 0; x < mask.Width(); x++ {
				mask.Set(x, y, min(mask.At(x, y), prev.At(x, y)))
			}
		}
	}
	return mask
}

// ClipBounds returns the device-space bounding box of the current clip.
func (c *Canvas) ClipBounds() Rect {
	return c.state.clip.bounds
}

// ClipDepth returns the number of clips applied to the current state.
func (c *Canvas) ClipDepth() int {
	return len(c.state.clip.shapes)
}

// ClipContains reports whether the point p, in the current user space, is
// inside the current clip.
func (c *Canvas) ClipContains(p Point) bool {
	return c.state.clip.contains(c.dc.GetTransform().TransformPoint(gg.Pt(p.X, p.Y)))
}
