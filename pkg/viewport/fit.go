package viewport

import (
	"math"

	"github.com/aretw0/actvis/pkg/domain"
)

// Extent is the inclusive range of node grid positions.
type Extent struct {
	MinGX, MaxGX, MinGY, MaxGY float64
}

// ExtentOf returns the grid extent of nodes; ok is false for an empty set.
func ExtentOf(nodes []domain.Node) (Extent, bool) {
	if len(nodes) == 0 {
		return Extent{}, false
	}
	e := Extent{
		MinGX: math.Inf(1), MaxGX: math.Inf(-1),
		MinGY: math.Inf(1), MaxGY: math.Inf(-1),
	}
	for _, n := range nodes {
		e.MinGX = math.Min(e.MinGX, n.GX)
		e.MaxGX = math.Max(e.MaxGX, n.GX)
		e.MinGY = math.Min(e.MinGY, n.GY)
		e.MaxGY = math.Max(e.MaxGY, n.GY)
	}
	return e, true
}

// Fit computes the transform that centres every node inside a width x height
// canvas, keeping the geometry margin free on each side. The scale is uniform
// and never exceeds 1. ok is false when there is nothing to fit, in which case
// the caller keeps its current transform.
func Fit(nodes []domain.Node, width, height float64, g Geometry) (Transform, bool) {
	e, ok := ExtentOf(nodes)
	if !ok {
		return Transform{}, false
	}

	margin := g.FitMargin()
	availW := math.Max(width-2*margin, 1)
	availH := math.Max(height-2*margin, 1)

	extentW := (e.MaxGX - e.MinGX + 1) * g.Cell
	extentH := (e.MaxGY - e.MinGY + 1) * g.Cell

	scale := math.Min(math.Min(availW/extentW, availH/extentH), 1)

	return Transform{
		Scale:   scale,
		OffsetX: margin + (availW-extentW*scale)/2 - e.MinGX*g.Cell*scale,
		OffsetY: margin + (availH-extentH*scale)/2 - e.MinGY*g.Cell*scale,
	}, true
}
