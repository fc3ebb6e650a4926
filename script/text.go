package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/gogpu/ggscript"
)

func (e *Engine) installFont() error {
	font := func(a args) *ggscript.Font { return self[*ggscript.Font](a, "Font") }
	err := e.setMethods(e.protos["Font"], []method{
		{"name", func(a args) goja.Value { return e.vm.ToValue(font(a).Name()) }},
		{"size", func(a args) goja.Value { return e.vm.ToValue(font(a).Size()) }},
		{"withSize", func(a args) goja.Value {
			return e.wrap("Font", font(a).WithSize(a.number(0)))
		}},
	})
	if err != nil {
		return err
	}

	class := e.vm.NewObject()
	err = e.setMethods(class, []method{
		{"named", func(a args) goja.Value {
			f, err := e.namedFont(a.string(0), a.optNumber(1, ggscript.DefaultFontSize))
			if err != nil {
				e.throw(err)
			}
			return e.wrap("Font", f)
		}},
		{"system", func(a args) goja.Value {
			return e.wrap("Font", ggscript.DefaultFont().WithSize(a.optNumber(0, ggscript.DefaultFontSize)))
		}},
	})
	if err != nil {
		return err
	}
	return e.vm.Set("Font", class)
}

// namedFont resolves host fonts first and then the built-in Go fonts.
func (e *Engine) namedFont(name string, size float64) (*ggscript.Font, error) {
	if f, ok := e.fonts[strings.ToLower(name)]; ok {
		return f.WithSize(size), nil
	}
	return ggscript.SystemFont(name, size)
}

func (e *Engine) installStyledString() error {
	str := func(a args) *ggscript.StyledString {
		return self[*ggscript.StyledString](a, "StyledString")
	}
	err := e.setMethods(e.protos["StyledString"], []method{
		{"text", func(a args) goja.Value { return e.vm.ToValue(str(a).Text()) }},
		{"font", func(a args) goja.Value { return e.wrap("Font", str(a).Font()) }},
		{"measure", func(a args) goja.Value {
			w, h := str(a).Measure()
			obj := e.vm.NewObject()
			_ = obj.Set("width", w)
			_ = obj.Set("height", h)
			return obj
		}},
		{"bounds", func(a args) goja.Value {
			return e.rectValue(str(a).Bounds(ggscript.Pt(a.optNumber(0, 0), a.optNumber(1, 0))))
		}},
	})
	if err != nil {
		return err
	}

	class := e.vm.NewObject()
	err = e.setMethods(class, []method{
		{"create", func(a args) goja.Value {
			s := a.string(0)
			var font *ggscript.Font
			if !isAbsent(a.arg(1)) {
				font = unwrap[*ggscript.Font](a, 1, "Font")
			}
			return e.wrap("StyledString", ggscript.NewStyledString(s, font))
		}},
	})
	if err != nil {
		return err
	}
	return e.vm.Set("StyledString", class)
}

var errNoIcon = errors.New("script: icon not found")

func (e *Engine) installIcon() error {
	icon := func(a args) *ggscript.Icon { return self[*ggscript.Icon](a, "Icon") }
	err := e.setMethods(e.protos["Icon"], []method{
		{"name", func(a args) goja.Value { return e.vm.ToValue(icon(a).Name()) }},
		{"size", func(a args) goja.Value {
			w, h := icon(a).Size()
			obj := e.vm.NewObject()
			_ = obj.Set("width", w)
			_ = obj.Set("height", h)
			return obj
		}},
	})
	if err != nil {
		return err
	}

	class := e.vm.NewObject()
	err = e.setMethods(class, []method{
		{"named", func(a args) goja.Value {
			name := a.string(0)
			i, ok := e.icons[name]
			if !ok {
				e.throw(fmt.Errorf("%w: %q", errNoIcon, name))
			}
			return e.wrap("Icon", i)
		}},
		{"exists", func(a args) goja.Value {
			_, ok := e.icons[a.string(0)]
			return e.vm.ToValue(ok)
		}},
	})
	if err != nil {
		return err
	}
	return e.vm.Set("Icon", class)
}
