package script

import (
	"fmt"

	"github.com/dop251/goja"
)

// args reads the arguments of one binding call. Every accessor raises a
// TypeError naming the function and argument when the value has the wrong
// type.
type args struct {
	e    *Engine
	fn   string
	call goja.FunctionCall
}

func (e *Engine) args(fn string, call goja.FunctionCall) args {
	return args{e: e, fn: fn, call: call}
}

func (a args) len() int { return len(a.call.Arguments) }

func (a args) arg(i int) goja.Value { return a.call.Argument(i) }

// fail raises "bad argument #n to 'fn' (want expected, got actual)".
// Argument numbers are 1-based.
func (a args) fail(i int, expected string) {
	panic(a.e.vm.NewTypeError(fmt.Sprintf("bad argument #%d to '%s' (%s expected, got %s)",
		i+1, a.fn, expected, a.e.typeName(a.arg(i)))))
}

func (a args) number(i int) float64 {
	v := a.arg(i)
	if !isNumber(v) {
		a.fail(i, "number")
	}
	return v.ToFloat()
}

func (a args) optNumber(i int, def float64) float64 {
	if isAbsent(a.arg(i)) {
		return def
	}
	return a.number(i)
}

func (a args) string(i int) string {
	v := a.arg(i)
	if _, ok := v.Export().(string); !ok || isAbsent(v) {
		a.fail(i, "string")
	}
	return v.String()
}

func (a args) isNumber(i int) bool { return isNumber(a.arg(i)) }

// object returns argument i as a plain object; wrapped handles do not
// qualify.
func (a args) object(i int, expected string) *goja.Object {
	obj, ok := a.arg(i).(*goja.Object)
	if !ok {
		a.fail(i, expected)
	}
	if _, ok := a.e.lookup(obj); ok {
		a.fail(i, expected)
	}
	return obj
}

// unwrap returns the Go value behind argument i, which must be a handle
// holding a T.
func unwrap[T any](a args, i int, expected string) T {
	if h, ok := a.e.lookup(a.arg(i)); ok {
		if v, ok := h.value.(T); ok {
			return v
		}
	}
	a.fail(i, expected)
	var zero T
	return zero
}

// self returns the Go value behind this, which must be a handle holding
// a T.
func self[T any](a args, expected string) T {
	if h, ok := a.e.lookup(a.call.This); ok {
		if v, ok := h.value.(T); ok {
			return v
		}
	}
	panic(a.e.vm.NewTypeError(fmt.Sprintf("calling '%s' on bad self (%s expected, got %s)",
		a.fn, expected, a.e.typeName(a.call.This))))
}

// typeName describes v for error messages.
func (e *Engine) typeName(v goja.Value) string {
	switch {
	case v == nil || goja.IsUndefined(v):
		return "no value"
	case goja.IsNull(v):
		return "null"
	case isNumber(v):
		return "number"
	}
	if h, ok := e.lookup(v); ok {
		return h.class
	}
	if _, ok := goja.AssertFunction(v); ok {
		return "function"
	}
	switch v.Export().(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	return "object"
}

func isAbsent(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

func isNumber(v goja.Value) bool {
	if v == nil {
		return false
	}
	switch v.Export().(type) {
	case int64, float64:
		return true
	}
	return false
}
