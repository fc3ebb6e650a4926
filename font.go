package ggscript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontName is the built-in font used when no font is set.
const DefaultFontName = "Go"

// DefaultFontSize is the size of the default canvas font, in pixels.
const DefaultFontSize = 12

// Font is a font source at a particular size.
// Fonts are immutable and may be shared between canvases.
type Font struct {
	name   string
	source *text.FontSource
	size   float64
	face   text.Face
}

// NewFont creates a font from TTF or OTF data.
func NewFont(name string, data []byte, size float64) (*Font, error) {
	source, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("ggscript: parse font %q: %w", name, err)
	}
	return newFont(name, source, size), nil
}

// NewFontFromFile loads a font file. The font is named after the file
// without its extension.
func NewFontFromFile(path string, size float64) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoFont, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewFont(name, data, size)
}

// SystemFont returns a built-in Go font by name: "Go", "Go-Bold",
// "Go-Italic", "Go-BoldItalic", "Go-Medium", "Go-Mono" or "Go-Mono-Bold".
// Names are case-insensitive; "Go-Regular" is accepted for "Go".
func SystemFont(name string, size float64) (*Font, error) {
	source, err := builtinSource(name)
	if err != nil {
		return nil, err
	}
	return newFont(canonicalFontName(name), source, size), nil
}

// DefaultFont returns the built-in Go font at DefaultFontSize.
func DefaultFont() *Font {
	f, err := SystemFont(DefaultFontName, DefaultFontSize)
	if err != nil {
		// The embedded Go fonts always parse.
		panic(err)
	}
	return f
}

func newFont(name string, source *text.FontSource, size float64) *Font {
	if size <= 0 {
		size = DefaultFontSize
	}
	return &Font{
		name:   name,
		source: source,
		size:   size,
		face:   source.Face(size),
	}
}

// Name returns the font name.
func (f *Font) Name() string { return f.name }

// Size returns the font size in pixels.
func (f *Font) Size() float64 { return f.size }

// Face returns the gg text face.
func (f *Font) Face() text.Face { return f.face }

// WithSize returns the same font at another size.
func (f *Font) WithSize(size float64) *Font {
	return newFont(f.name, f.source, size)
}

// Metrics returns the font metrics at this size.
func (f *Font) Metrics() text.Metrics {
	return f.face.Metrics()
}

// builtinFonts maps lower-case names onto embedded font data.
var builtinFonts = map[string][]byte{
	"go":            goregular.TTF,
	"go-bold":       gobold.TTF,
	"go-italic":     goitalic.TTF,
	"go-bolditalic": gobolditalic.TTF,
	"go-medium":     gomedium.TTF,
	"go-mono":       gomono.TTF,
	"go-mono-bold":  gomonobold.TTF,
}

var (
	builtinMu      sync.Mutex
	builtinSources = map[string]*text.FontSource{}
)

func canonicalFontName(name string) string {
	key := strings.ToLower(name)
	if key == "go-regular" {
		key = "go"
	}
	return key
}

// builtinSource parses an embedded font once and caches the source.
func builtinSource(name string) (*text.FontSource, error) {
	key := canonicalFontName(name)
	data, ok := builtinFonts[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoFont, name)
	}

	builtinMu.Lock()
	defer builtinMu.Unlock()
	if s, ok := builtinSources[key]; ok {
		return s, nil
	}
	s, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("ggscript: parse built-in font %q: %w", name, err)
	}
	builtinSources[key] = s
	return s, nil
}
