package ports

import "image/color"

// Canvas is a 2D drawing surface in screen pixels. Implementations decide how
// the operations are materialised (recorded, rasterised, streamed).
type Canvas interface {
	// Clear fills the whole surface with c.
	Clear(c color.Color)

	// Line strokes a straight segment.
	Line(x1, y1, x2, y2 float64, c color.Color, width float64)

	// FillRect fills an axis-aligned rectangle.
	FillRect(x, y, w, h float64, c color.Color)

	// StrokeRect outlines an axis-aligned rectangle.
	StrokeRect(x, y, w, h float64, c color.Color, width float64)

	// RoundRect fills and outlines a rectangle with rounded corners of radius r.
	RoundRect(x, y, w, h, r float64, fill, stroke color.Color, width float64)

	// Text draws s centred on (x, y) with a font of the given pixel size.
	Text(s string, x, y, size float64, c color.Color)
}
