// Package script exposes ggscript canvases to JavaScript through the goja
// interpreter.
//
// A script defines a global draw(canvas) function. The host loads the
// script with Engine.Run and then calls Engine.Draw once per frame, or
// Engine.HitTest to find out whether the script draws over a point.
//
//	eng, err := script.NewEngine(script.WithIconDir("icons"))
//	if err != nil {
//		return err
//	}
//	defer eng.Close()
//	if err := eng.Run(ctx, "badge.js", src); err != nil {
//		return err
//	}
//	cv := ggscript.NewDisplayCanvas(ggscript.Metrics{Width: 64, Height: 64})
//	defer cv.Release()
//	err = eng.Draw(ctx, cv)
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"weak"

	"github.com/dop251/goja"

	"github.com/gogpu/ggscript"
)

// ErrNoDrawFunction is returned by Draw when the script defines no global
// draw function.
var ErrNoDrawFunction = errors.New("script: no draw function defined")

// handle ties a JavaScript object to the Go value it represents.
type handle struct {
	class string
	value any
	owned bool // the engine holds the creation reference of a paint
}

// handleKey identifies a script object without keeping it alive.
type handleKey = weak.Pointer[goja.Object]

// deadQueue collects the keys of script objects the garbage collector has
// reclaimed. Cleanups push from the runtime's cleanup goroutine; the engine
// drains on its own goroutine.
type deadQueue struct {
	mu   sync.Mutex
	keys []handleKey
}

func (q *deadQueue) push(k handleKey) {
	q.mu.Lock()
	q.keys = append(q.keys, k)
	q.mu.Unlock()
}

func (q *deadQueue) drain() []handleKey {
	q.mu.Lock()
	defer q.mu.Unlock()
	keys := q.keys
	q.keys = nil
	return keys
}

// Engine runs drawing scripts. An Engine is not safe for concurrent use.
type Engine struct {
	vm      *goja.Runtime
	icons   map[string]*ggscript.Icon
	fonts   map[string]*ggscript.Font
	handles map[handleKey]handle
	protos  map[string]*goja.Object
	dead    *deadQueue
	closed  bool
}

// EngineOption configures an Engine during creation.
type EngineOption func(*engineOptions)

type engineOptions struct {
	icons   map[string]*ggscript.Icon
	fonts   map[string]*ggscript.Font
	iconDir string
	fontDir string
}

// WithIcons makes icons available to Icon.named.
func WithIcons(icons map[string]*ggscript.Icon) EngineOption {
	return func(o *engineOptions) {
		for name, icon := range icons {
			o.icons[name] = icon
		}
	}
}

// WithFonts makes fonts available to Font.named, in addition to the
// built-in Go fonts.
func WithFonts(fonts map[string]*ggscript.Font) EngineOption {
	return func(o *engineOptions) {
		for name, font := range fonts {
			o.fonts[strings.ToLower(name)] = font
		}
	}
}

// WithIconDir loads every image in dir as an icon named after its file.
func WithIconDir(dir string) EngineOption {
	return func(o *engineOptions) {
		o.iconDir = dir
	}
}

// WithFontDir loads every .ttf and .otf file in dir as a font named after
// its file.
func WithFontDir(dir string) EngineOption {
	return func(o *engineOptions) {
		o.fontDir = dir
	}
}

// NewEngine creates an engine with a fresh interpreter.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	o := engineOptions{
		icons: make(map[string]*ggscript.Icon),
		fonts: make(map[string]*ggscript.Font),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.iconDir != "" {
		icons, err := ggscript.LoadIconDir(o.iconDir)
		if err != nil {
			return nil, fmt.Errorf("script: load icons: %w", err)
		}
		for name, icon := range icons {
			if _, ok := o.icons[name]; !ok {
				o.icons[name] = icon
			}
		}
	}
	if o.fontDir != "" {
		if err := loadFontDir(o.fontDir, o.fonts); err != nil {
			return nil, fmt.Errorf("script: load fonts: %w", err)
		}
	}

	e := &Engine{
		vm:      goja.New(),
		icons:   o.icons,
		fonts:   o.fonts,
		handles: make(map[handleKey]handle),
		protos:  make(map[string]*goja.Object),
		dead:    &deadQueue{},
	}
	if err := e.install(); err != nil {
		return nil, err
	}
	return e, nil
}

func loadFontDir(dir string, fonts map[string]*ggscript.Font) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		font, err := ggscript.NewFontFromFile(filepath.Join(dir, entry.Name()), ggscript.DefaultFontSize)
		if err != nil {
			ggscript.Logger().Warn("script: skipping font", "file", entry.Name(), "err", err)
			continue
		}
		key := strings.ToLower(font.Name())
		if _, ok := fonts[key]; !ok {
			fonts[key] = font
		}
	}
	return nil
}

// install defines the global classes.
func (e *Engine) install() error {
	paint := e.vm.NewObject()
	e.protos["Paint"] = paint
	for _, class := range []string{"Color", "Gradient"} {
		proto := e.vm.NewObject()
		if err := proto.SetPrototype(paint); err != nil {
			return err
		}
		e.protos[class] = proto
	}
	for _, class := range []string{"Path", "Transformation", "Font", "StyledString", "Icon"} {
		e.protos[class] = e.vm.NewObject()
	}

	installers := []func() error{
		e.installPaint,
		e.installColor,
		e.installGradient,
		e.installPaintMode,
		e.installPath,
		e.installTransformation,
		e.installFont,
		e.installStyledString,
		e.installIcon,
		e.installPrint,
	}
	for _, install := range installers {
		if err := install(); err != nil {
			return fmt.Errorf("script: install globals: %w", err)
		}
	}
	return nil
}

func (e *Engine) installPrint() error {
	return e.vm.Set("print", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		ggscript.Logger().Info(strings.Join(parts, " "), "source", "script")
		return goja.Undefined()
	})
}

// Run executes src as a script named name. Top-level statements run
// immediately; functions they define, such as draw, stay available to
// Draw and HitTest.
func (e *Engine) Run(ctx context.Context, name, src string) error {
	if e.closed {
		return errors.New("script: engine closed")
	}
	ggscript.Logger().Debug("script: run", "name", name, "bytes", len(src))
	_, err := e.execute(ctx, func() (goja.Value, error) {
		return e.vm.RunScript(name, src)
	})
	return err
}

// Draw calls the script's draw function with a binding of canvas. If the
// script fails, the canvas state stack is unwound before the error is
// returned.
func (e *Engine) Draw(ctx context.Context, canvas *ggscript.Canvas) error {
	if e.closed {
		return errors.New("script: engine closed")
	}
	draw, ok := goja.AssertFunction(e.vm.Get("draw"))
	if !ok {
		return ErrNoDrawFunction
	}

	obj, err := e.bindCanvas(canvas)
	if err != nil {
		return err
	}
	defer e.unbind(obj)
	_, err = e.execute(ctx, func() (goja.Value, error) {
		return draw(goja.Undefined(), obj)
	})
	if err != nil {
		canvas.NukeStack()
		return err
	}
	if depth := canvas.Depth(); depth > 0 {
		ggscript.Logger().Warn("script: draw left unbalanced push", "depth", depth)
		canvas.NukeStack()
	}
	return nil
}

// HitTest runs the draw function on a hit-test canvas and reports whether
// anything was drawn over point.
func (e *Engine) HitTest(ctx context.Context, metrics ggscript.Metrics, point ggscript.Point) (bool, error) {
	canvas := ggscript.NewHitTestCanvas(metrics, point)
	defer canvas.Release()
	if err := e.Draw(ctx, canvas); err != nil {
		return false, err
	}
	return canvas.PerformHitTest(), nil
}

// Close releases every paint created by scripts that is still reachable.
// The engine cannot be used afterwards.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	for _, h := range e.handles {
		h.release()
	}
	clear(e.handles)
	e.dead.drain()
	return nil
}

// reap drops the handles of script objects that have been collected and
// releases the paints they owned.
func (e *Engine) reap() {
	for _, k := range e.dead.drain() {
		h, ok := e.handles[k]
		if !ok {
			continue
		}
		delete(e.handles, k)
		h.release()
	}
}

func (h handle) release() {
	if p, ok := h.value.(ggscript.Paint); ok && h.owned {
		p.Release()
	}
}

// execute runs fn, interrupting the interpreter when ctx is done.
func (e *Engine) execute(ctx context.Context, fn func() (goja.Value, error)) (goja.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.reap()

	// The watcher must exit before the interrupt flag is cleared, or a late
	// Interrupt would poison the next run.
	done := make(chan struct{})
	stopped := make(chan struct{})
	defer func() {
		close(done)
		<-stopped
		e.vm.ClearInterrupt()
	}()

	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := fn()
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause := interrupted.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val, nil
}

// wrap creates a script object of class for value.
func (e *Engine) wrap(class string, value any) *goja.Object {
	return e.newHandle(handle{class: class, value: value})
}

// wrapPaint wraps a paint created on behalf of a script. The engine owns
// the creation reference until the script object is collected or the
// engine is closed.
func (e *Engine) wrapPaint(class string, p ggscript.Paint) *goja.Object {
	return e.newHandle(handle{class: class, value: p, owned: true})
}

func (e *Engine) newHandle(h handle) *goja.Object {
	obj := e.vm.NewObject()
	if proto, ok := e.protos[h.class]; ok {
		_ = obj.SetPrototype(proto)
	}
	e.bind(obj, h)
	return obj
}

// bind registers h for obj. The entry lives until obj is collected or
// unbind is called.
func (e *Engine) bind(obj *goja.Object, h handle) {
	k := weak.Make(obj)
	e.handles[k] = h
	runtime.AddCleanup(obj, e.dead.push, k)
}

func (e *Engine) unbind(obj *goja.Object) {
	delete(e.handles, weak.Make(obj))
}

// lookup returns the handle behind v, if any.
func (e *Engine) lookup(v goja.Value) (handle, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return handle{}, false
	}
	h, ok := e.handles[weak.Make(obj)]
	return h, ok
}

// throw raises err as a script exception.
func (e *Engine) throw(err error) {
	panic(e.vm.NewGoError(err))
}
