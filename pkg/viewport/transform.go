// Package viewport maps between model (grid) space and screen (pixel) space
// and computes the transforms produced by fitting and zooming.
package viewport

import "github.com/aretw0/actvis/pkg/domain"

// Transform maps model coordinates to screen pixels: screen = offset + scale*model.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Identity is the 1:1 transform with no offset.
func Identity() Transform {
	return Transform{Scale: 1}
}

// ToScreen maps a model point to screen pixels.
func (t Transform) ToScreen(mx, my float64) (float64, float64) {
	return t.OffsetX + t.Scale*mx, t.OffsetY + t.Scale*my
}

// ToModel maps a screen pixel to model coordinates.
func (t Transform) ToModel(sx, sy float64) (float64, float64) {
	return (sx - t.OffsetX) / t.Scale, (sy - t.OffsetY) / t.Scale
}

// RectToScreen maps a model rectangle to screen pixels.
func (t Transform) RectToScreen(r Rect) Rect {
	x, y := t.ToScreen(r.X, r.Y)
	return Rect{X: x, Y: y, W: r.W * t.Scale, H: r.H * t.Scale}
}

// Visible returns the model-space rectangle covered by a width x height canvas.
func (t Transform) Visible(width, height float64) Rect {
	x0, y0 := t.ToModel(0, 0)
	x1, y1 := t.ToModel(width, height)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Pan returns the transform whose offset places the anchor at the pointer.
// The anchor is the pointer position minus the offset at pan start.
func (t Transform) Pan(pointerX, pointerY, anchorX, anchorY float64) Transform {
	t.OffsetX = pointerX - anchorX
	t.OffsetY = pointerY - anchorY
	return t
}

// DTO converts the transform to its serialisable domain form.
func (t Transform) DTO() domain.Transform {
	return domain.Transform{Scale: t.Scale, OffsetX: t.OffsetX, OffsetY: t.OffsetY}
}
