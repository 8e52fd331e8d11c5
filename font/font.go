// Package font loads glyph-sheet atlases and exposes their tile geometry.
//
// A font is a single image holding a 16x16 grid of fixed-size glyph
// tiles, laid out in code page 437 order. The image is decoded eagerly;
// the GPU texture for it is created lazily the first time a backend
// binds the font.
package font

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Font errors.
var (
	// ErrUnsupportedFormat is returned when the sheet format is not
	// supported. PNG, BMP and JPEG sheets are accepted.
	ErrUnsupportedFormat = errors.New("font: unsupported image format")

	// ErrBadSheetSize is returned when the decoded sheet dimensions are
	// not 16 tiles in each direction.
	ErrBadSheetSize = errors.New("font: sheet size is not 16x16 tiles")
)

// Tiles per atlas row and column.
const SheetTiles = 16

// Font owns one loaded glyph sheet and its tile geometry. The Texture
// field is owned by the backend that bound the font and is nil until
// first binding.
type Font struct {
	// Path is the file the sheet was loaded from, for diagnostics.
	Path string

	// TileWidth and TileHeight are the glyph tile dimensions in pixels.
	TileWidth  int
	TileHeight int

	img *image.RGBA

	// Texture is the backend texture handle, populated lazily on first
	// bind. The concrete type belongs to the backend; the core only
	// tracks whether it is set.
	Texture any
}

// Load reads and decodes a glyph sheet with the given tile size.
// The sheet must measure exactly 16 tiles in each direction.
func Load(path string, tileWidth, tileHeight int) (*Font, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("font: open sheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := decode(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, err
	}
	return New(path, img, tileWidth, tileHeight)
}

// New wraps an already-decoded sheet image. Used by tests and by
// embedders that ship fonts in memory.
func New(path string, img image.Image, tileWidth, tileHeight int) (*Font, error) {
	b := img.Bounds()
	if b.Dx() != tileWidth*SheetTiles || b.Dy() != tileHeight*SheetTiles {
		return nil, fmt.Errorf("%w: got %dx%d px for %dx%d px tiles",
			ErrBadSheetSize, b.Dx(), b.Dy(), tileWidth, tileHeight)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	return &Font{
		Path:       path,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		img:        rgba,
	}, nil
}

func decode(r io.Reader, ext string) (image.Image, error) {
	switch ext {
	case ".png":
		img, err := png.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("font: decode PNG: %w", err)
		}
		return img, nil
	case ".bmp":
		img, err := bmp.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("font: decode BMP: %w", err)
		}
		return img, nil
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("font: decode JPEG: %w", err)
		}
		return img, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// SheetSize returns the full sheet dimensions in pixels.
func (f *Font) SheetSize() (int, int) {
	return f.TileWidth * SheetTiles, f.TileHeight * SheetTiles
}

// RGBA returns the decoded sheet pixels for texture upload. Each pixel is
// four bytes, row-major, stride equals width*4.
func (f *Font) RGBA() []byte {
	return f.img.Pix
}

// Image returns the decoded sheet.
func (f *Font) Image() *image.RGBA {
	return f.img
}

// TileRect returns the pixel rectangle of a glyph tile within the sheet.
func (f *Font) TileRect(glyph uint16) image.Rectangle {
	col := int(glyph) % SheetTiles
	row := int(glyph) / SheetTiles
	x0 := col * f.TileWidth
	y0 := row * f.TileHeight
	return image.Rect(x0, y0, x0+f.TileWidth, y0+f.TileHeight)
}
