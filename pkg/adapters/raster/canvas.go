// Package raster draws frames into an in-memory RGBA image with gg and
// encodes them as PNG.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// MaxSize caps each side of a canvas, in pixels.
const MaxSize = 8192

// minFontSize keeps labels legible (and non-zero) at very small zoom levels.
const minFontSize = 1.0

var (
	parseOnce sync.Once
	parsed    *truetype.Font
	parseErr  error
)

func regularFont() (*truetype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = truetype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// Canvas implements ports.Canvas on top of a gg context.
type Canvas struct {
	dc    *gg.Context
	font  *truetype.Font
	faces map[float64]font.Face
}

// New creates a width x height canvas. Each side is clamped to [1, MaxSize].
func New(width, height int) (*Canvas, error) {
	f, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Canvas{
		dc:    gg.NewContext(min(max(width, 1), MaxSize), min(max(height, 1), MaxSize)),
		font:  f,
		faces: make(map[float64]font.Face),
	}, nil
}

// Width returns the image width in pixels.
func (c *Canvas) Width() int { return c.dc.Width() }

// Height returns the image height in pixels.
func (c *Canvas) Height() int { return c.dc.Height() }

// Image returns the rendered image.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the current image as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// SavePNG writes the current image to path.
func (c *Canvas) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}

func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *Canvas) Line(x1, y1, x2, y2 float64, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *Canvas) StrokeRect(x, y, w, h float64, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Stroke()
}

func (c *Canvas) RoundRect(x, y, w, h, r float64, fill, stroke color.Color, width float64) {
	// gg misbehaves when the radius exceeds half the shorter side
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	c.dc.DrawRoundedRectangle(x, y, w, h, r)
	c.dc.SetColor(fill)
	c.dc.FillPreserve()
	c.dc.SetColor(stroke)
	c.dc.SetLineWidth(width)
	c.dc.Stroke()
}

func (c *Canvas) Text(s string, x, y, size float64, col color.Color) {
	if s == "" {
		return
	}
	c.dc.SetFontFace(c.face(size))
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

// face returns a cached font face for size, rounded to a quarter pixel so
// continuous zooming does not grow the cache without bound.
func (c *Canvas) face(size float64) font.Face {
	size = math.Max(math.Round(size*4)/4, minFontSize)
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(c.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[size] = f
	return f
}
