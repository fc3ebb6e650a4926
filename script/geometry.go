package script

import (
	"github.com/dop251/goja"

	"github.com/gogpu/ggscript"
)

type method struct {
	name string
	fn   func(a args) goja.Value
}

// setMethods defines methods on proto. Each method receives its arguments
// already bound to the method name for error messages.
func (e *Engine) setMethods(proto *goja.Object, methods []method) error {
	for _, m := range methods {
		fn, name := m.fn, m.name
		if err := proto.Set(name, func(call goja.FunctionCall) goja.Value {
			return fn(e.args(name, call))
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) rectValue(r ggscript.Rect) goja.Value {
	obj := e.vm.NewObject()
	_ = obj.Set("x", r.X)
	_ = obj.Set("y", r.Y)
	_ = obj.Set("width", r.Width)
	_ = obj.Set("height", r.Height)
	return obj
}

func (e *Engine) pointValue(p ggscript.Point) goja.Value {
	obj := e.vm.NewObject()
	_ = obj.Set("x", p.X)
	_ = obj.Set("y", p.Y)
	return obj
}

// rect reads four numbers starting at argument i.
func (a args) rect(i int) ggscript.Rect {
	return ggscript.R(a.number(i), a.number(i+1), a.number(i+2), a.number(i+3))
}

func (e *Engine) installPath() error {
	path := func(a args) *ggscript.Path { return self[*ggscript.Path](a, "Path") }
	chain := func(a args) goja.Value { return a.call.This }

	err := e.setMethods(e.protos["Path"], []method{
		{"moveTo", func(a args) goja.Value {
			path(a).MoveTo(a.number(0), a.number(1))
			return chain(a)
		}},
		{"lineTo", func(a args) goja.Value {
			path(a).LineTo(a.number(0), a.number(1))
			return chain(a)
		}},
		{"quadTo", func(a args) goja.Value {
			path(a).QuadTo(a.number(0), a.number(1), a.number(2), a.number(3))
			return chain(a)
		}},
		{"curveTo", func(a args) goja.Value {
			path(a).CurveTo(a.number(0), a.number(1), a.number(2), a.number(3), a.number(4), a.number(5))
			return chain(a)
		}},
		{"close", func(a args) goja.Value {
			path(a).Close()
			return chain(a)
		}},
		{"rect", func(a args) goja.Value {
			path(a).AddRect(a.rect(0))
			return chain(a)
		}},
		{"oval", func(a args) goja.Value {
			path(a).AddOval(a.rect(0))
			return chain(a)
		}},
		{"roundedRect", func(a args) goja.Value {
			path(a).AddRoundedRect(a.rect(0), a.number(4))
			return chain(a)
		}},
		{"arc", func(a args) goja.Value {
			path(a).AddArc(ggscript.Pt(a.number(0), a.number(1)), a.number(2), a.number(3), a.number(4))
			return chain(a)
		}},
		{"bounds", func(a args) goja.Value {
			return e.rectValue(path(a).Bounds())
		}},
		{"contains", func(a args) goja.Value {
			return e.vm.ToValue(path(a).Contains(ggscript.Pt(a.number(0), a.number(1))))
		}},
		{"isEmpty", func(a args) goja.Value {
			return e.vm.ToValue(path(a).IsEmpty())
		}},
	})
	if err != nil {
		return err
	}

	class := e.vm.NewObject()
	if err := class.Set("create", func(goja.FunctionCall) goja.Value {
		return e.wrap("Path", ggscript.NewPath())
	}); err != nil {
		return err
	}
	return e.vm.Set("Path", class)
}

func (e *Engine) installTransformation() error {
	transform := func(a args) ggscript.Transformation {
		return self[ggscript.Transformation](a, "Transformation")
	}
	wrap := func(t ggscript.Transformation) goja.Value { return e.wrap("Transformation", t) }
	scaleArgs := func(a args, i int) (float64, float64) {
		sx := a.number(i)
		return sx, a.optNumber(i+1, sx)
	}

	err := e.setMethods(e.protos["Transformation"], []method{
		{"translate", func(a args) goja.Value {
			return wrap(transform(a).Translate(a.number(0), a.number(1)))
		}},
		{"scale", func(a args) goja.Value {
			sx, sy := scaleArgs(a, 0)
			return wrap(transform(a).Scale(sx, sy))
		}},
		{"rotate", func(a args) goja.Value {
			return wrap(transform(a).Rotate(a.number(0)))
		}},
		{"concat", func(a args) goja.Value {
			return wrap(transform(a).Concat(unwrap[ggscript.Transformation](a, 0, "Transformation")))
		}},
		{"invert", func(a args) goja.Value {
			return wrap(transform(a).Invert())
		}},
		{"apply", func(a args) goja.Value {
			return e.pointValue(transform(a).Apply(ggscript.Pt(a.number(0), a.number(1))))
		}},
		{"isIdentity", func(a args) goja.Value {
			return e.vm.ToValue(transform(a).IsIdentity())
		}},
	})
	if err != nil {
		return err
	}

	class := e.vm.NewObject()
	err = e.setMethods(class, []method{
		{"identity", func(args) goja.Value {
			return wrap(ggscript.IdentityTransformation())
		}},
		{"translate", func(a args) goja.Value {
			return wrap(ggscript.TranslateTransformation(a.number(0), a.number(1)))
		}},
		{"scale", func(a args) goja.Value {
			sx, sy := scaleArgs(a, 0)
			return wrap(ggscript.ScaleTransformation(sx, sy))
		}},
		{"rotate", func(a args) goja.Value {
			return wrap(ggscript.RotateTransformation(a.number(0)))
		}},
	})
	if err != nil {
		return err
	}
	return e.vm.Set("Transformation", class)
}
