package script

import (
	"github.com/dop251/goja"

	"github.com/gogpu/ggscript"
)

// bindCanvas creates the object passed to draw. Drawing errors, including
// use of a released canvas, are raised as script exceptions.
func (e *Engine) bindCanvas(cv *ggscript.Canvas) (*goja.Object, error) {
	obj := e.vm.NewObject()
	e.bind(obj, handle{class: "Canvas", value: cv})

	check := func(err error) goja.Value {
		if err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	}
	// text reads a string or StyledString argument.
	text := func(a args, i int) *ggscript.StyledString {
		if h, ok := e.lookup(a.arg(i)); ok {
			if s, ok := h.value.(*ggscript.StyledString); ok {
				return s
			}
		}
		if _, ok := a.arg(i).Export().(string); ok {
			return ggscript.NewStyledString(a.arg(i).String(), cv.Font())
		}
		a.fail(i, "string or StyledString")
		return nil
	}

	err := e.setMethods(obj, []method{
		{"setPaint", func(a args) goja.Value {
			if isAbsent(a.arg(0)) {
				cv.SetPaint(nil)
				return goja.Undefined()
			}
			cv.SetPaint(unwrap[ggscript.Paint](a, 0, "Paint"))
			return goja.Undefined()
		}},
		{"setPaintMode", func(a args) goja.Value {
			mode, err := ggscript.ParsePaintMode(a.string(0))
			if err != nil {
				a.fail(0, "PaintMode")
			}
			cv.SetPaintMode(mode)
			return goja.Undefined()
		}},
		{"setFont", func(a args) goja.Value {
			cv.SetFont(unwrap[*ggscript.Font](a, 0, "Font"))
			return goja.Undefined()
		}},
		{"setThickness", func(a args) goja.Value {
			cv.SetThickness(a.number(0))
			return goja.Undefined()
		}},
		{"setOpacity", func(a args) goja.Value {
			cv.SetOpacity(a.number(0))
			return goja.Undefined()
		}},
		{"concatTransformation", func(a args) goja.Value {
			cv.ConcatTransformation(unwrap[ggscript.Transformation](a, 0, "Transformation"))
			return goja.Undefined()
		}},
		{"transformation", func(args) goja.Value {
			return e.wrap("Transformation", cv.Transformation())
		}},
		{"clipRect", func(a args) goja.Value {
			return check(cv.ClipRect(a.rect(0)))
		}},
		{"clipPath", func(a args) goja.Value {
			return check(cv.ClipPath(unwrap[*ggscript.Path](a, 0, "Path")))
		}},
		{"clipIcon", func(a args) goja.Value {
			return check(cv.ClipIcon(unwrap[*ggscript.Icon](a, 0, "Icon"), a.rect(1)))
		}},
		{"clipBounds", func(args) goja.Value {
			return e.rectValue(cv.ClipBounds())
		}},
		{"push", func(args) goja.Value {
			cv.Push()
			return goja.Undefined()
		}},
		{"pop", func(args) goja.Value {
			cv.Pop()
			return goja.Undefined()
		}},
		{"fill", func(a args) goja.Value {
			if a.isNumber(0) {
				return check(cv.FillRect(a.rect(0)))
			}
			return check(cv.FillPath(unwrap[*ggscript.Path](a, 0, "Path or rect")))
		}},
		{"stroke", func(a args) goja.Value {
			if a.isNumber(0) {
				return check(cv.StrokePath(ggscript.RectPath(a.rect(0))))
			}
			return check(cv.StrokePath(unwrap[*ggscript.Path](a, 0, "Path or rect")))
		}},
		{"fillText", func(a args) goja.Value {
			s := text(a, 0)
			return check(cv.DrawStyledString(s, ggscript.Pt(a.number(1), a.number(2))))
		}},
		{"strokeText", func(a args) goja.Value {
			s := text(a, 0)
			return check(cv.StrokeStyledString(s, ggscript.Pt(a.number(1), a.number(2))))
		}},
		{"drawIcon", func(a args) goja.Value {
			return check(cv.DrawIcon(unwrap[*ggscript.Icon](a, 0, "Icon"), a.rect(1)))
		}},
		{"dirtyRect", func(args) goja.Value {
			return e.rectValue(cv.DirtyRect())
		}},
		{"isHitTest", func(args) goja.Value {
			return e.vm.ToValue(cv.IsHitTest())
		}},
		{"metrics", func(args) goja.Value {
			m := cv.Metrics()
			v := e.vm.NewObject()
			_ = v.Set("width", m.Width)
			_ = v.Set("height", m.Height)
			_ = v.Set("scale", m.Scale)
			_ = v.Set("flipY", m.FlipY)
			return v
		}},
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
