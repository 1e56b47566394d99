package viewport

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
// Rectangles with a non-positive width or height contain nothing.
func (r Rect) Contains(x, y float64) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

// Area is W*H.
func (r Rect) Area() float64 {
	return r.W * r.H
}
