package script

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/ggscript"
)

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	e, err := NewEngine(opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func mustRun(t *testing.T, e *Engine, src string) {
	t.Helper()
	if err := e.Run(context.Background(), "test.js", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func pixel(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestEngineDraw(t *testing.T) {
	e := newTestEngine(t)
	mustRun(t, e, `
		function draw(c) {
			c.setPaint(Color.rgb(0, 0, 1));
			c.fill(0, 0, 10, 20);
		}
	`)

	cv := ggscript.NewDisplayCanvas(ggscript.Metrics{Width: 20, Height: 20})
	defer cv.Release()
	if err := e.Draw(context.Background(), cv); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	img := cv.Context().Image()
	if p := pixel(img, 5, 10); p.B != 255 || p.A != 255 {
		t.Errorf("inside pixel = %v, want opaque blue", p)
	}
	if p := pixel(img, 15, 10); p.A != 0 {
		t.Errorf("outside pixel = %v, want transparent", p)
	}
}

func TestEngineNoDrawFunction(t *testing.T) {
	e := newTestEngine(t)
	mustRun(t, e, `var draw = 42;`)

	cv := ggscript.NewDisplayCanvas(ggscript.Metrics{Width: 4, Height: 4})
	defer cv.Release()
	if err := e.Draw(context.Background(), cv); !errors.Is(err, ErrNoDrawFunction) {
		t.Errorf("Draw err = %v, want ErrNoDrawFunction", err)
	}
}

func TestEngineDrawErrorUnwindsStack(t *testing.T) {
	e := newTestEngine(t)
	mustRun(t, e, `
		function draw(c) {
			c.push();
			c.push();
			c.clipRect(0, 0, 1, 1);
			throw new Error("boom");
		}
	`)

	cv := ggscript.NewDisplayCanvas(ggscript.Metrics{Width: 10, Height: 10})
	defer cv.Release()
	err := e.Draw(context.Background(), cv)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Draw err = %v, want boom", err)
	}
	if cv.Depth() != 0 {
		t.Errorf("Depth() = %d after failed draw, want 0", cv.Depth())
	}
	if got, want := cv.ClipBounds(), ggscript.R(0, 0, 10, 10); got != want {
		t.Errorf("ClipBounds() = %v, want %v", got, want)
	}
}

func TestEngineDrawUnbalancedPush(t *testing.T) {
	orig := ggscript.Logger()
	t.Cleanup(func() { ggscript.SetLogger(orig) })
	var buf bytes.Buffer
	ggscript.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	e := newTestEngine(t)
	mustRun(t, e, `function draw(c) { c.push(); }`)

	cv := ggscript.NewDisplayCanvas(ggscript.Metrics{Width: 4, Height: 4})
	defer cv.Release()
	if err := e.Draw(context.Background(), cv); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if cv.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", cv.Depth())
	}
	if !strings.Contains(buf.String(), "unbalanced push") {
		t.Errorf("log = %q, want unbalanced push warning", buf.String())
	}
}

func TestEngineCancellation(t *testing.T) {
	e := newTestEngine(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := e.Run(ctx, "loop.js", `for (;;) {}`)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run err = %v, want context.DeadlineExceeded", err)
	}

	// The interrupt is cleared, so the engine stays usable.
	mustRun(t, e, `var ok = true;`)
	if !e.vm.Get("ok").ToBoolean() {
		t.Error("engine unusable after interrupt")
	}
}

func TestEngineCancelRacesCompletion(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		go cancel()
		// Either outcome is fine for the racing run.
		_ = e.Run(ctx, "short.js", `var n = 1;`)
		cancel()

		if err := e.Run(context.Background(), "next.js", `var ok = true;`); err != nil {
			t.Fatalf("iteration %d: Run after canceled run: %v", i, err)
		}
	}
}

func TestEngineCanceledBeforeRun(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx, "x.js", `var x = 1;`); !errors.Is(err, context.Canceled) {
		t.Errorf("Run err = %v, want context.Canceled", err)
	}
}

func TestEngineHitTest(t *testing.T) {
	e := newTestEngine(t)
	mustRun(t, e, `
		function draw(c) {
			if (!c.isHitTest()) {
				throw new Error("expected a hit-test canvas");
			}
			c.setPaint(Color.rgb(1, 0, 0));
			c.fill(10, 10, 20, 20);
		}
	`)

	metrics := ggscript.Metrics{Width: 100, Height: 100}
	for _, tt := range []struct {
		point ggscript.Point
		want  bool
	}{
		{ggscript.Pt(15, 15), true},
		{ggscript.Pt(50, 50), false},
	} {
		got, err := e.HitTest(context.Background(), metrics, tt.point)
		if err != nil {
			t.Fatalf("HitTest(%v): %v", tt.point, err)
		}
		if got != tt.want {
			t.Errorf("HitTest(%v) = %v, want %v", tt.point, got, tt.want)
		}
	}
}

func TestEngineCloseReleasesPaints(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background(), "c.js", `var c = Color.rgb(1, 0, 0);`); err != nil {
		t.Fatal(err)
	}
	h, ok := e.lookup(e.vm.Get("c"))
	if !ok {
		t.Fatal("c is not a wrapped value")
	}
	c := h.value.(*ggscript.ColorPaint)
	if c.RefCount() != 1 {
		t.Fatalf("RefCount() = %d before Close, want 1", c.RefCount())
	}

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if c.RefCount() != 0 {
		t.Errorf("RefCount() = %d after Close, want 0", c.RefCount())
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := e.Run(context.Background(), "x.js", ``); err == nil {
		t.Error("Run on closed engine succeeded")
	}
}

func TestEngineDropsCollectedHandles(t *testing.T) {
	e := newTestEngine(t)
	mustRun(t, e, `
		var kept = Color.rgb(0, 1, 0);
		function draw(c) {
			c.setPaint(Color.rgb(1, 0, 0));
			c.fill(0, 0, 1, 1);
		}
	`)

	cv := ggscript.NewDisplayCanvas(ggscript.Metrics{Width: 4, Height: 4})
	defer cv.Release()
	for i := 0; i < 1000; i++ {
		if err := e.Draw(context.Background(), cv); err != nil {
			t.Fatalf("Draw %d: %v", i, err)
		}
	}

	// Cleanups run asynchronously after a collection.
	const bound = 50
	deadline := time.Now().Add(5 * time.Second)
	for len(e.handles) > bound && time.Now().Before(deadline) {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
		e.reap()
	}
	if n := len(e.handles); n > bound {
		t.Errorf("len(handles) = %d after 1000 draws, want at most %d", n, bound)
	}

	if c := global[*ggscript.ColorPaint](t, e, "kept"); c.RefCount() != 1 {
		t.Errorf("kept RefCount() = %d, want 1", c.RefCount())
	}
	last, ok := cv.Paint().(*ggscript.ColorPaint)
	if !ok || last.RefCount() < 1 {
		t.Errorf("canvas paint %v was released while still set", cv.Paint())
	}
}

func TestEnginePrint(t *testing.T) {
	orig := ggscript.Logger()
	t.Cleanup(func() { ggscript.SetLogger(orig) })
	var buf bytes.Buffer
	ggscript.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	e := newTestEngine(t)
	mustRun(t, e, `print("hello", 42);`)
	if !strings.Contains(buf.String(), "hello 42") {
		t.Errorf("log = %q, want printed message", buf.String())
	}
}

func TestEngineIcons(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
		}
	}
	e := newTestEngine(t, WithIcons(map[string]*ggscript.Icon{"dot": ggscript.NewIcon("dot", img)}))
	mustRun(t, e, `
		var has = Icon.exists("dot");
		var missing = Icon.exists("nope");
		function draw(c) {
			c.drawIcon(Icon.named("dot"), 0, 0, 8, 8);
		}
	`)
	if !e.vm.Get("has").ToBoolean() || e.vm.Get("missing").ToBoolean() {
		t.Error("Icon.exists returned the wrong answer")
	}

	cv := ggscript.NewDisplayCanvas(ggscript.Metrics{Width: 8, Height: 8})
	defer cv.Release()
	if err := e.Draw(context.Background(), cv); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if p := pixel(cv.Context().Image(), 4, 4); p.G < 250 {
		t.Errorf("pixel = %v, want green", p)
	}

	err := e.Run(context.Background(), "missing.js", `Icon.named("nope");`)
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("Icon.named(missing) err = %v", err)
	}
}
