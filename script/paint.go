package script

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/gogpu/ggscript"
)

// installPaint defines the Paint base prototype shared by colors and
// gradients.
func (e *Engine) installPaint() error {
	proto := e.protos["Paint"]
	return proto.Set("toString", func(call goja.FunctionCall) goja.Value {
		h, ok := e.lookup(call.This)
		if !ok {
			return e.vm.ToValue("[object Paint]")
		}
		if s, ok := h.value.(interface{ String() string }); ok {
			return e.vm.ToValue(s.String())
		}
		return e.vm.ToValue("[object " + h.class + "]")
	})
}

func (e *Engine) installColor() error {
	proto := e.protos["Color"]
	if err := proto.Set("components", func(call goja.FunctionCall) goja.Value {
		c := self[*ggscript.ColorPaint](e.args("components", call), "Color")
		r, g, b, a := c.RGBA()
		return e.vm.ToValue([]float64{r, g, b, a})
	}); err != nil {
		return err
	}
	if err := proto.Set("equals", func(call goja.FunctionCall) goja.Value {
		a := e.args("equals", call)
		c := self[*ggscript.ColorPaint](a, "Color")
		other := unwrap[*ggscript.ColorPaint](a, 0, "Color")
		return e.vm.ToValue(c.Equal(other))
	}); err != nil {
		return err
	}

	color := e.vm.NewObject()
	if err := color.Set("rgba", func(call goja.FunctionCall) goja.Value {
		a := e.args("rgba", call)
		return e.newColor(a.number(0), a.number(1), a.number(2), a.number(3))
	}); err != nil {
		return err
	}
	if err := color.Set("rgb", func(call goja.FunctionCall) goja.Value {
		a := e.args("rgb", call)
		return e.newColor(a.number(0), a.number(1), a.number(2), 1)
	}); err != nil {
		return err
	}
	if err := color.Set("hex", func(call goja.FunctionCall) goja.Value {
		a := e.args("hex", call)
		c, err := ggscript.NewColorPaintHex(a.string(0))
		if err != nil {
			e.throw(err)
		}
		return e.wrapPaint("Color", c)
	}); err != nil {
		return err
	}
	return e.vm.Set("Color", color)
}

func (e *Engine) newColor(r, g, b, a float64) *goja.Object {
	c, err := ggscript.NewColorPaint(r, g, b, a)
	if err != nil {
		e.throw(err)
	}
	return e.wrapPaint("Color", c)
}

// installGradient defines Gradient.linear and Gradient.radial. Both accept
// the stop table either last or first.
func (e *Engine) installGradient() error {
	gradient := e.vm.NewObject()
	if err := gradient.Set("linear", func(call goja.FunctionCall) goja.Value {
		a := e.args("linear", call)
		stopsAt, first := 4, 0
		if a.len() > 0 && !a.isNumber(0) {
			stopsAt, first = 0, 1
		}
		start := ggscript.Pt(a.number(first), a.number(first+1))
		end := ggscript.Pt(a.number(first+2), a.number(first+3))
		stops := e.stopEntries(a, stopsAt)

		g, err := ggscript.NewLinearGradient(start, end, stops)
		if err != nil {
			e.throw(err)
		}
		return e.wrapPaint("Gradient", g)
	}); err != nil {
		return err
	}
	if err := gradient.Set("radial", func(call goja.FunctionCall) goja.Value {
		a := e.args("radial", call)
		stopsAt, first := 6, 0
		if a.len() > 0 && !a.isNumber(0) {
			stopsAt, first = 0, 1
		}
		startCenter := ggscript.Pt(a.number(first), a.number(first+1))
		startRadius := a.number(first + 2)
		endCenter := ggscript.Pt(a.number(first+3), a.number(first+4))
		endRadius := a.number(first + 5)
		stops := e.stopEntries(a, stopsAt)

		g, err := ggscript.NewRadialGradient(startCenter, startRadius, endCenter, endRadius, stops)
		if err != nil {
			e.throw(err)
		}
		return e.wrapPaint("Gradient", g)
	}); err != nil {
		return err
	}
	return e.vm.Set("Gradient", gradient)
}

// stopEntries reads a stop table: an object or array whose numeric keys map
// to colors. Keys that do not parse as numbers are kept as non-numeric
// entries so that ProcessStops skips them.
func (e *Engine) stopEntries(a args, i int) []ggscript.StopEntry {
	obj := a.object(i, "table")
	keys := obj.Keys()
	entries := make([]ggscript.StopEntry, 0, len(keys))
	for _, key := range keys {
		location, err := strconv.ParseFloat(key, 64)
		entry := ggscript.StopEntry{Key: location, Numeric: err == nil}

		v := obj.Get(key)
		if h, ok := e.lookup(v); ok {
			entry.Value = h.value
		} else if v != nil {
			entry.Value = v.Export()
		}
		entries = append(entries, entry)
	}
	return entries
}

func (e *Engine) installPaintMode() error {
	modes := e.vm.NewObject()
	for _, m := range []ggscript.PaintMode{
		ggscript.PaintModeNormal,
		ggscript.PaintModeMultiply,
		ggscript.PaintModeScreen,
		ggscript.PaintModeOverlay,
	} {
		if err := modes.Set(m.String(), m.String()); err != nil {
			return err
		}
	}
	return e.vm.Set("PaintMode", modes)
}
