package scene

import (
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/viewport"
)

// HitTest returns the node under screen point (sx, sy).
//
// Leaves win over containers: the first leaf whose rectangle contains the
// point is returned, boundary markers included even though they are not drawn. Otherwise the innermost container, by bbox area,
// whose bbox contains the point is returned, ties going to the earlier node.
// Containers without a bbox, or with a degenerate one, never match.
func HitTest(s *Snapshot, t viewport.Transform, g viewport.Geometry, sx, sy float64) (*domain.Node, bool) {
	if s.Len() == 0 {
		return nil, false
	}
	mx, my := t.ToModel(sx, sy)

	for i := range s.nodes {
		n := &s.nodes[i]
		if n.IsContainer() {
			continue
		}
		if g.NodeRect(n.GX, n.GY).Contains(mx, my) {
			hit := *n
			return &hit, true
		}
	}

	best := -1
	bestArea := 0.0
	for i := range s.nodes {
		n := &s.nodes[i]
		if !n.IsContainer() || n.BBox == nil || n.BBox.Degenerate() {
			continue
		}
		b := n.BBox
		if !g.BoxRect(b.MinGX, b.MaxGX, b.MinGY, b.MaxGY).Contains(mx, my) {
			continue
		}
		if area := b.Area(); best < 0 || area < bestArea {
			best, bestArea = i, area
		}
	}
	if best < 0 {
		return nil, false
	}
	hit := s.nodes[best]
	return &hit, true
}
