// Package ggscript exposes a 2D drawing canvas to embedded scripts.
//
// # Overview
//
// ggscript is a thin binding layer over the gg 2D graphics library. It
// provides the objects a drawing script manipulates (paints, gradients,
// paths, transformations, fonts, icons) and a Canvas that applies them to a
// gg drawing context. The script package binds these objects into a
// JavaScript runtime.
//
// Rasterization, glyph outlines and compositing are performed by gg;
// ggscript only builds paths, brushes and masks for it.
//
// # Quick Start
//
//	red, _ := ggscript.NewColorPaint(1, 0, 0, 1)
//	blue, _ := ggscript.NewColorPaint(0, 0, 1, 1)
//
//	gradient, err := ggscript.NewLinearGradient(
//	    ggscript.Pt(0, 0), ggscript.Pt(100, 0),
//	    []ggscript.StopEntry{
//	        ggscript.Stop(0, red),
//	        ggscript.Stop(1, blue),
//	    })
//	if err != nil {
//	    return err
//	}
//	defer gradient.Release()
//
//	cv := ggscript.NewDisplayCanvas(ggscript.Metrics{Width: 100, Height: 100, Scale: 1})
//	defer cv.Release()
//
//	cv.SetPaint(gradient)
//	cv.FillPath(ggscript.RectPath(ggscript.R(0, 0, 100, 100)))
//
// # State Stack
//
// Canvas.Push saves the transform, clip, paint, paint mode, font, thickness
// and opacity. Canvas.Pop restores them. Clips are cumulative and can only be
// removed by popping. Canvas.NukeStack unwinds every saved state and is used
// to recover from a failed draw pass.
//
// # Hit Testing
//
// A canvas created with NewHitTestCanvas renders coverage into a single
// device pixel centered on a target point instead of rendering an image.
// PerformHitTest reports whether anything drawn so far covered that point.
//
// # Coordinate System
//
// Script coordinates follow gg: origin at the top-left, Y increasing
// downward. Metrics.FlipY switches the canvas to a Y-up system with the
// origin at the bottom-left.
//
// # Threading
//
// Canvases are single-threaded. Paint objects are reference counted
// atomically and may be shared between canvases once frozen.
package ggscript
