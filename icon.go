package ggscript

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// downscaleThreshold is the source-to-destination ratio above which icons
// are pre-filtered before drawing.
const downscaleThreshold = 2

// Icon is an immutable raster image drawn into rectangles.
type Icon struct {
	name string
	img  *image.NRGBA
	buf  *gg.ImageBuf

	mu     sync.Mutex
	scaled map[image.Point]*gg.ImageBuf
}

// NewIcon wraps an image. The pixels are copied.
func NewIcon(name string, img image.Image) *Icon {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	return &Icon{
		name: name,
		img:  nrgba,
		buf:  gg.ImageBufFromImage(nrgba),
	}
}

// DecodeIcon decodes a PNG, JPEG, GIF, BMP or WebP image.
func DecodeIcon(name string, r io.Reader) (*Icon, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrIconDecode, name, err)
	}
	return NewIcon(name, img), nil
}

// LoadIcon reads and decodes an image file. The icon is named after the
// file without its extension.
func LoadIcon(path string) (*Icon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return DecodeIcon(name, bytes.NewReader(data))
}

// Name returns the icon name.
func (i *Icon) Name() string { return i.name }

// Size returns the pixel dimensions of the icon.
func (i *Icon) Size() (width, height int) {
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the icon pixels.
func (i *Icon) Image() image.Image { return i.img }

// bufferFor returns an image buffer suited to drawing at the given device
// size. Large reductions are pre-filtered with Catmull-Rom so they do not
// alias; everything else uses the original pixels.
func (i *Icon) bufferFor(deviceW, deviceH float64) *gg.ImageBuf {
	w, h := i.Size()
	if deviceW <= 0 || deviceH <= 0 ||
		float64(w) < downscaleThreshold*deviceW || float64(h) < downscaleThreshold*deviceH {
		return i.buf
	}

	size := image.Pt(int(math.Ceil(deviceW)), int(math.Ceil(deviceH)))
	i.mu.Lock()
	defer i.mu.Unlock()
	if buf, ok := i.scaled[size]; ok {
		return buf
	}
	dst := image.NewNRGBA(image.Rectangle{Max: size})
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), i.img, i.img.Bounds(), xdraw.Src, nil)
	buf := gg.ImageBufFromImage(dst)
	if i.scaled == nil {
		i.scaled = make(map[image.Point]*gg.ImageBuf)
	}
	i.scaled[size] = buf
	return buf
}

// LoadIconDir loads every decodable image in dir, keyed by icon name.
// Files that fail to decode are skipped with a warning.
func LoadIconDir(dir string) (map[string]*Icon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	icons := make(map[string]*Icon)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		icon, err := LoadIcon(filepath.Join(dir, e.Name()))
		if err != nil {
			Logger().Warn("ggscript: skipping icon", "file", e.Name(), "err", err)
			continue
		}
		icons[icon.Name()] = icon
	}
	return icons, nil
}
