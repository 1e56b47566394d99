// Package recorder provides a Canvas that records draw operations as a
// display list. The list is JSON-serialisable so a browser can replay it on
// a real 2D context, and tests use it to assert what was drawn.
package recorder

import (
	"fmt"
	"image/color"
	"sync"
)

// Kind names a draw operation.
type Kind string

const (
	KindClear      Kind = "clear"
	KindLine       Kind = "line"
	KindFillRect   Kind = "fill_rect"
	KindStrokeRect Kind = "stroke_rect"
	KindRoundRect  Kind = "round_rect"
	KindText       Kind = "text"
)

// Op is one recorded draw operation. Colours are CSS rgba() strings.
type Op struct {
	Kind   Kind    `json:"op"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	R      float64 `json:"r,omitempty"`
	Width  float64 `json:"line_width,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Fill   string  `json:"fill,omitempty"`
	Stroke string  `json:"stroke,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// Frame is a complete display list for a canvas of the given size.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ops    []Op    `json:"ops"`
}

// Canvas records every call. It is safe for concurrent use.
type Canvas struct {
	mu  sync.Mutex
	ops []Op
}

// New returns an empty recording canvas.
func New() *Canvas {
	return &Canvas{}
}

func (c *Canvas) add(op Op) {
	c.mu.Lock()
	c.ops = append(c.ops, op)
	c.mu.Unlock()
}

func (c *Canvas) Clear(col color.Color) {
	c.add(Op{Kind: KindClear, Fill: CSS(col)})
}

func (c *Canvas) Line(x1, y1, x2, y2 float64, col color.Color, width float64) {
	c.add(Op{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2, Stroke: CSS(col), Width: width})
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	c.add(Op{Kind: KindFillRect, X: x, Y: y, W: w, H: h, Fill: CSS(col)})
}

func (c *Canvas) StrokeRect(x, y, w, h float64, col color.Color, width float64) {
	c.add(Op{Kind: KindStrokeRect, X: x, Y: y, W: w, H: h, Stroke: CSS(col), Width: width})
}

func (c *Canvas) RoundRect(x, y, w, h, r float64, fill, stroke color.Color, width float64) {
	c.add(Op{Kind: KindRoundRect, X: x, Y: y, W: w, H: h, R: r, Fill: CSS(fill), Stroke: CSS(stroke), Width: width})
}

func (c *Canvas) Text(s string, x, y, size float64, col color.Color) {
	c.add(Op{Kind: KindText, X: x, Y: y, Size: size, Fill: CSS(col), Text: s})
}

// Ops returns a copy of the recorded operations.
func (c *Canvas) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Op(nil), c.ops...)
}

// OfKind returns the recorded operations of kind k, in order.
func (c *Canvas) OfKind(k Kind) []Op {
	var out []Op
	for _, op := range c.Ops() {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops every recorded operation.
func (c *Canvas) Reset() {
	c.mu.Lock()
	c.ops = nil
	c.mu.Unlock()
}

// Frame packages the recorded operations with the canvas size.
func (c *Canvas) Frame(width, height float64) Frame {
	return Frame{Width: width, Height: height, Ops: c.Ops()}
}

// CSS formats a colour as a CSS rgba() string; nil yields the empty string.
func CSS(col color.Color) string {
	if col == nil {
		return ""
	}
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", n.R, n.G, n.B, float64(n.A)/255)
}
