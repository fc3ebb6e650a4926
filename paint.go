package ggscript

import (
	"sync/atomic"

	"github.com/gogpu/gg"
)

// Paint describes how to fill a region: a solid color or a gradient.
//
// Paints are reference counted. A new paint has one reference owned by its
// creator; Retain adds one and Release drops one. When the count reaches
// zero the paint releases its platform resources and draws nothing.
//
// Once a paint has been handed to a canvas or a gradient it is frozen and
// can no longer be modified.
type Paint interface {
	// FillRect fills r, given in dc's current user space, with the paint.
	FillRect(dc *gg.Context, r Rect)

	// Retain adds a reference.
	Retain()

	// Release drops a reference.
	Release()

	// brush returns a gg brush whose geometry is mapped into device space
	// by m, or nil if the paint draws nothing.
	brush(m gg.Matrix) gg.Brush

	// freeze marks the paint as shared.
	freeze()
}

// paintBase carries the reference count and freeze flag shared by all
// paint implementations.
type paintBase struct {
	refs    atomic.Int32
	frozen  atomic.Bool
	dealloc func()
}

func (b *paintBase) init(dealloc func()) {
	b.refs.Store(1)
	b.dealloc = dealloc
}

// Retain adds a reference to the paint.
func (b *paintBase) Retain() {
	b.refs.Add(1)
}

// Release drops a reference. The last release deallocates the paint.
func (b *paintBase) Release() {
	n := b.refs.Add(-1)
	if n == 0 && b.dealloc != nil {
		b.dealloc()
	}
	if n < 0 {
		Logger().Warn("ggscript: paint released too many times", "refs", n)
	}
}

// RefCount returns the current number of references.
func (b *paintBase) RefCount() int {
	return int(b.refs.Load())
}

// Frozen reports whether the paint can no longer be modified.
func (b *paintBase) Frozen() bool {
	return b.frozen.Load()
}

func (b *paintBase) freeze() {
	b.frozen.Store(true)
}

// released reports whether every reference has been dropped.
func (b *paintBase) released() bool {
	return b.refs.Load() <= 0
}

// retainPaint retains p if it is not nil.
func retainPaint(p Paint) {
	if p != nil {
		p.Retain()
	}
}

// releasePaint releases p if it is not nil.
func releasePaint(p Paint) {
	if p != nil {
		p.Release()
	}
}
