package viewport

import "math"

// ZoomAt applies one wheel notch at screen point (sx, sy). The model point
// under the cursor stays under the cursor and the scale is clamped to
// [MinScale, MaxScale]. A negative delta zooms in, any other delta zooms out.
func (t Transform) ZoomAt(sx, sy, deltaY float64, g Geometry) Transform {
	factor := g.ZoomOut
	if deltaY < 0 {
		factor = g.ZoomIn
	}
	newScale := Clamp(t.Scale*factor, g.MinScale, g.MaxScale)

	mx, my := t.ToModel(sx, sy)
	return Transform{
		Scale:   newScale,
		OffsetX: sx - mx*newScale,
		OffsetY: sy - my*newScale,
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
