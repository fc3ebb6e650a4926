package ggscript

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func mustColor(t testing.TB, r, g, b, a float64) *ColorPaint {
	t.Helper()
	c, err := NewColorPaint(r, g, b, a)
	if err != nil {
		t.Fatalf("NewColorPaint(%v, %v, %v, %v): %v", r, g, b, a, err)
	}
	return c
}

func TestProcessStops(t *testing.T) {
	red := mustColor(t, 1, 0, 0, 1)
	green := mustColor(t, 0, 1, 0, 1)
	blue := mustColor(t, 0, 0, 1, 1)

	tests := []struct {
		name          string
		entries       []StopEntry
		wantColors    []*ColorPaint
		wantLocations []float64
	}{
		{
			name:          "unit range",
			entries:       []StopEntry{Stop(0, red), Stop(1, blue)},
			wantColors:    []*ColorPaint{red, blue},
			wantLocations: []float64{0, 1},
		},
		{
			name:          "wide range rescaled",
			entries:       []StopEntry{Stop(0, red), Stop(10, blue)},
			wantColors:    []*ColorPaint{red, blue},
			wantLocations: []float64{0, 1},
		},
		{
			name:          "negative keys",
			entries:       []StopEntry{Stop(-1, red), Stop(0, green), Stop(1, blue)},
			wantColors:    []*ColorPaint{red, green, blue},
			wantLocations: []float64{0, 0.5, 1},
		},
		{
			name:          "single interior stop keeps its location",
			entries:       []StopEntry{Stop(0.5, green)},
			wantColors:    []*ColorPaint{green},
			wantLocations: []float64{0.5},
		},
		{
			name:          "input order preserved",
			entries:       []StopEntry{Stop(1, blue), Stop(0, red)},
			wantColors:    []*ColorPaint{blue, red},
			wantLocations: []float64{1, 0},
		},
		{
			name: "non-numeric keys skipped",
			entries: []StopEntry{
				{Key: 0, Numeric: false, Value: "label"},
				Stop(0, red),
				{Key: math.NaN(), Numeric: true, Value: "nan"},
				Stop(1, blue),
			},
			wantColors:    []*ColorPaint{red, blue},
			wantLocations: []float64{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colors, locations, err := ProcessStops(tt.entries)
			if err != nil {
				t.Fatalf("ProcessStops: %v", err)
			}
			if len(colors) != len(tt.wantColors) {
				t.Fatalf("len(colors) = %d, want %d", len(colors), len(tt.wantColors))
			}
			for i := range colors {
				if colors[i] != tt.wantColors[i] {
					t.Errorf("colors[%d] = %v, want %v", i, colors[i], tt.wantColors[i])
				}
			}
			if diff := cmp.Diff(tt.wantLocations, locations, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("locations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProcessStopsEmpty(t *testing.T) {
	for _, entries := range [][]StopEntry{nil, {{Key: 1, Numeric: false, Value: "x"}}} {
		colors, locations, err := ProcessStops(entries)
		if err != nil || colors != nil || locations != nil {
			t.Errorf("ProcessStops(%v) = %v, %v, %v, want nil, nil, nil", entries, colors, locations, err)
		}
	}
}

func TestProcessStopsNotAColor(t *testing.T) {
	red := mustColor(t, 1, 0, 0, 1)
	colors, locations, err := ProcessStops([]StopEntry{Stop(0, red), {Key: 1, Numeric: true, Value: 42}})
	if !errors.Is(err, ErrNotAColor) {
		t.Fatalf("err = %v, want ErrNotAColor", err)
	}
	if colors != nil || locations != nil {
		t.Errorf("partial result %v, %v; want nil slices", colors, locations)
	}
}

// Every output location must lie in [0, 1] and the extreme keys must map
// onto the ends of the range whenever they lie outside it.
func TestProcessStopsRange(t *testing.T) {
	c := mustColor(t, 0, 0, 0, 1)
	keys := [][]float64{
		{-5, 2, 7},
		{0.25, 0.75},
		{3},
		{-2},
		{0, 0, 0},
	}
	for _, ks := range keys {
		entries := make([]StopEntry, len(ks))
		lo, hi := 0.0, 1.0
		for i, k := range ks {
			entries[i] = Stop(k, c)
			lo, hi = math.Min(lo, k), math.Max(hi, k)
		}
		_, locations, err := ProcessStops(entries)
		if err != nil {
			t.Fatalf("ProcessStops(%v): %v", ks, err)
		}
		for i, loc := range locations {
			if loc < 0 || loc > 1 {
				t.Errorf("keys %v: location[%d] = %v, out of [0, 1]", ks, i, loc)
			}
			want := (ks[i] - lo) / (hi - lo)
			if math.Abs(loc-want) > 1e-12 {
				t.Errorf("keys %v: location[%d] = %v, want %v", ks, i, loc, want)
			}
		}
	}
}

func TestLinearGradient(t *testing.T) {
	red := mustColor(t, 1, 0, 0, 1)
	blue := mustColor(t, 0, 0, 1, 1)

	g, err := NewLinearGradient(Pt(0, 0), Pt(100, 0), []StopEntry{Stop(0, red), Stop(1, blue)})
	if err != nil {
		t.Fatalf("NewLinearGradient: %v", err)
	}
	if g.Type() != GradientLinear {
		t.Errorf("Type() = %v, want linear", g.Type())
	}
	start, end := g.Anchors()
	if start != gg.Pt(0, 0) || end != gg.Pt(100, 0) {
		t.Errorf("Anchors() = %v, %v, want (0,0), (100,0)", start, end)
	}
	want := []gg.ColorStop{
		{Offset: 0, Color: gg.RGBA{R: 1, A: 1}},
		{Offset: 1, Color: gg.RGBA{B: 1, A: 1}},
	}
	if diff := cmp.Diff(want, g.Stops()); diff != "" {
		t.Errorf("Stops() mismatch (-want +got):\n%s", diff)
	}
	if !red.Frozen() || !blue.Frozen() {
		t.Error("stop colors should be frozen after SetColors")
	}
}

func TestRadialGradient(t *testing.T) {
	white := mustColor(t, 1, 1, 1, 1)
	black := mustColor(t, 0, 0, 0, 1)

	g, err := NewRadialGradient(Pt(10, 10), 0, Pt(20, 20), 50, []StopEntry{Stop(0, white), Stop(1, black)})
	if err != nil {
		t.Fatalf("NewRadialGradient: %v", err)
	}
	if g.Type() != GradientRadial {
		t.Errorf("Type() = %v, want radial", g.Type())
	}
	if r0, r1 := g.Radii(); r0 != 0 || r1 != 50 {
		t.Errorf("Radii() = %v, %v, want 0, 50", r0, r1)
	}

	if _, err := NewRadialGradient(Pt(0, 0), -1, Pt(0, 0), 1, nil); !errors.Is(err, ErrNegativeRadius) {
		t.Errorf("negative radius err = %v, want ErrNegativeRadius", err)
	}
}

func TestSetColorsSortsStable(t *testing.T) {
	a := mustColor(t, 1, 0, 0, 1)
	b := mustColor(t, 0, 1, 0, 1)
	c := mustColor(t, 0, 0, 1, 1)

	g := NewGradientPaint()
	if err := g.SetColors([]*ColorPaint{c, a, b}, []float64{1, 0.5, 0.5}); err != nil {
		t.Fatalf("SetColors: %v", err)
	}
	got := g.Stops()
	wantOffsets := []float64{0.5, 0.5, 1}
	wantColors := []gg.RGBA{a.PlatformColor(), b.PlatformColor(), c.PlatformColor()}
	for i := range got {
		if got[i].Offset != wantOffsets[i] || got[i].Color != wantColors[i] {
			t.Errorf("stop %d = %+v, want offset %v color %v", i, got[i], wantOffsets[i], wantColors[i])
		}
	}
}

func TestSetColorsErrors(t *testing.T) {
	red := mustColor(t, 1, 0, 0, 1)

	g := NewGradientPaint()
	if err := g.SetColors([]*ColorPaint{red}, []float64{0, 1}); !errors.Is(err, ErrStopMismatch) {
		t.Errorf("mismatch err = %v, want ErrStopMismatch", err)
	}
	if err := g.SetColors([]*ColorPaint{nil}, []float64{0}); !errors.Is(err, ErrNotAColor) {
		t.Errorf("nil color err = %v, want ErrNotAColor", err)
	}
	if err := g.SetColors([]*ColorPaint{red}, []float64{0}); err != nil {
		t.Fatalf("SetColors: %v", err)
	}
	if err := g.SetColors([]*ColorPaint{red}, []float64{0}); !errors.Is(err, ErrColorsAlreadySet) {
		t.Errorf("second SetColors err = %v, want ErrColorsAlreadySet", err)
	}

	frozen := NewGradientPaint()
	frozen.freeze()
	if err := frozen.SetColors(nil, nil); !errors.Is(err, ErrPaintFrozen) {
		t.Errorf("frozen SetColors err = %v, want ErrPaintFrozen", err)
	}
	if err := frozen.SetLinearLocation(Pt(0, 0), Pt(1, 1)); !errors.Is(err, ErrPaintFrozen) {
		t.Errorf("frozen SetLinearLocation err = %v, want ErrPaintFrozen", err)
	}
}

func TestGradientFillRect(t *testing.T) {
	red := mustColor(t, 1, 0, 0, 1)
	blue := mustColor(t, 0, 0, 1, 1)
	g, err := NewLinearGradient(Pt(10, 0), Pt(30, 0), []StopEntry{Stop(0, red), Stop(1, blue)})
	if err != nil {
		t.Fatal(err)
	}

	dc := gg.NewContext(40, 4)
	defer dc.Close()
	g.FillRect(dc, R(0, 0, 40, 4))

	// Pad extension: solid red before the start anchor, solid blue after the end.
	left := pixel(dc.Image(), 2, 2)
	right := pixel(dc.Image(), 37, 2)
	if left.R < 250 || left.B > 5 {
		t.Errorf("left pixel = %v, want red", left)
	}
	if right.B < 250 || right.R > 5 {
		t.Errorf("right pixel = %v, want blue", right)
	}
}

func TestGradientWithoutStopsIsNoop(t *testing.T) {
	g, err := NewLinearGradient(Pt(0, 0), Pt(10, 0), nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.HasGradient() {
		t.Error("HasGradient() = true for empty stop table")
	}

	dc := gg.NewContext(4, 4)
	defer dc.Close()
	g.FillRect(dc, R(0, 0, 4, 4))
	if p := pixel(dc.Image(), 1, 1); p.A != 0 {
		t.Errorf("pixel = %v, want transparent", p)
	}
}

func TestGradientReleaseDropsStops(t *testing.T) {
	red := mustColor(t, 1, 0, 0, 1)
	g, err := NewLinearGradient(Pt(0, 0), Pt(10, 0), []StopEntry{Stop(0, red)})
	if err != nil {
		t.Fatal(err)
	}
	g.Retain()
	g.Release()
	if !g.HasGradient() {
		t.Fatal("gradient dropped while still referenced")
	}
	g.Release()
	if g.HasGradient() {
		t.Error("HasGradient() = true after final Release")
	}
}

func TestRadialGradientTwoCircles(t *testing.T) {
	red := mustColor(t, 1, 0, 0, 1)
	blue := mustColor(t, 0, 0, 1, 1)
	g, err := NewRadialGradient(Pt(40, 50), 20, Pt(50, 50), 40, []StopEntry{Stop(0, red), Stop(1, blue)})
	if err != nil {
		t.Fatal(err)
	}

	dc := gg.NewContext(100, 100)
	defer dc.Close()
	g.FillRect(dc, R(0, 0, 100, 100))

	// Inside the start circle the parameter is negative and pads to the first stop.
	if p := pixel(dc.Image(), 50, 50); p.R < 250 || p.B > 5 {
		t.Errorf("pixel(50, 50) = %v, want red", p)
	}
	if p := pixel(dc.Image(), 95, 50); p.B < 250 || p.R > 5 {
		t.Errorf("pixel(95, 50) = %v, want blue", p)
	}
}

func TestRadialGradientFollowsTransform(t *testing.T) {
	red := mustColor(t, 1, 0, 0, 1)
	blue := mustColor(t, 0, 0, 1, 1)
	g, err := NewRadialGradient(Pt(20, 20), 0, Pt(20, 20), 20, []StopEntry{Stop(0, red), Stop(1, blue)})
	if err != nil {
		t.Fatal(err)
	}

	dc := gg.NewContext(160, 40)
	defer dc.Close()
	dc.SetTransform(gg.Scale(4, 1))
	g.FillRect(dc, R(0, 0, 40, 40))

	// User points (10, 20) and (20, 30) are both halfway out. Under a 4x1
	// scale the circle becomes an ellipse, so they land at different device
	// distances yet share a color.
	a := pixel(dc.Image(), 40, 20)
	b := pixel(dc.Image(), 80, 30)
	if absDiff(a.R, b.R) > 32 || absDiff(a.B, b.B) > 32 {
		t.Errorf("pixels %v and %v differ, want the same ellipse color", a, b)
	}
	if a.R < 32 || a.B < 32 {
		t.Errorf("pixel %v, want a mix of red and blue", a)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestTwoCircleParam(t *testing.T) {
	tests := []struct {
		name   string
		c0     gg.Point
		r0     float64
		c1     gg.Point
		r1     float64
		p      gg.Point
		want   float64
		wantOK bool
	}{
		{"concentric halfway", gg.Pt(0, 0), 0, gg.Pt(0, 0), 10, gg.Pt(5, 0), 0.5, true},
		{"concentric beyond", gg.Pt(0, 0), 0, gg.Pt(0, 0), 10, gg.Pt(0, 20), 2, true},
		{"inside start circle", gg.Pt(40, 50), 20, gg.Pt(50, 50), 40, gg.Pt(50, 50), -1.0 / 3, true},
		{"on end circle", gg.Pt(40, 50), 20, gg.Pt(50, 50), 40, gg.Pt(90, 50), 1, true},
		{"outside cylinder", gg.Pt(0, 0), 1, gg.Pt(10, 0), 1, gg.Pt(5, 5), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := twoCircleParam(tt.c0, tt.r0, tt.c1, tt.r1, tt.p)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("twoCircleParam() = %v, want %v", got, tt.want)
			}
		})
	}
}
