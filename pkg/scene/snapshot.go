// Package scene holds the immutable node/edge snapshots the viewport renders
// and the hit tester that maps a screen point to a node.
package scene

import (
	"github.com/aretw0/actvis/pkg/domain"
)

// Snapshot is an immutable, indexed node/edge set. A snapshot is never
// modified after construction; replacing the scene swaps the whole value.
type Snapshot struct {
	version uint64
	nodes   []domain.Node
	edges   []domain.Edge
	index   map[domain.NodeID]int
	hidden  map[domain.NodeID]struct{}
}

// Segment is an edge whose endpoints both resolved to nodes.
type Segment struct {
	Edge     domain.Edge
	From, To domain.Node
}

// DroppedEdge is an edge with at least one endpoint missing from the snapshot.
type DroppedEdge struct {
	Edge        domain.Edge
	MissingFrom bool
	MissingTo   bool
}

// NewSnapshot copies g into an indexed snapshot. When two nodes share an id
// the first one in graph order is the one edges and selections resolve to.
func NewSnapshot(g domain.Graph) *Snapshot {
	s := &Snapshot{
		nodes: append([]domain.Node(nil), g.Nodes...),
		edges: append([]domain.Edge(nil), g.Edges...),
		index: make(map[domain.NodeID]int, len(g.Nodes)),
	}
	for i := range s.nodes {
		if s.nodes[i].BBox != nil {
			b := *s.nodes[i].BBox
			s.nodes[i].BBox = &b
		}
		if _, dup := s.index[s.nodes[i].ID]; !dup {
			s.index[s.nodes[i].ID] = i
		}
	}
	s.hidden = boundaryMarkers(s.nodes)
	return s
}

// boundaryMarkers returns the ids of start, end and sequence nodes plus the
// merge node closing each sequence of the snapshot.
func boundaryMarkers(nodes []domain.Node) map[domain.NodeID]struct{} {
	closing := make(map[string]struct{})
	for _, n := range nodes {
		if n.Type == domain.NodeTypeSequence {
			closing[domain.BoundaryMergeName(n.Name)] = struct{}{}
		}
	}

	hidden := make(map[domain.NodeID]struct{})
	for _, n := range nodes {
		switch n.Type {
		case domain.NodeTypeStart, domain.NodeTypeEnd, domain.NodeTypeSequence:
			hidden[n.ID] = struct{}{}
		case domain.NodeTypeMerge:
			if _, ok := closing[n.Name]; ok {
				hidden[n.ID] = struct{}{}
			}
		}
	}
	return hidden
}

// Version increases by one with every Store.Replace; zero is the empty scene.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Nodes returns the nodes in graph order. Callers must not modify the slice.
func (s *Snapshot) Nodes() []domain.Node {
	if s == nil {
		return nil
	}
	return s.nodes
}

// Edges returns every edge as loaded, including unresolvable ones.
func (s *Snapshot) Edges() []domain.Edge {
	if s == nil {
		return nil
	}
	return s.edges
}

// Len is the number of nodes.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Lookup resolves a node by id.
func (s *Snapshot) Lookup(id domain.NodeID) (domain.Node, bool) {
	if s == nil || id == "" {
		return domain.Node{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return domain.Node{}, false
	}
	return s.nodes[i], true
}

// Hidden reports whether the node is a boundary marker that is never drawn.
func (s *Snapshot) Hidden(id domain.NodeID) bool {
	if s == nil {
		return false
	}
	_, ok := s.hidden[id]
	return ok
}

// Resolve splits the edges into drawable segments and dropped edges, both in
// graph order. Duplicate edges resolve independently.
func (s *Snapshot) Resolve() ([]Segment, []DroppedEdge) {
	if s == nil {
		return nil, nil
	}
	segments := make([]Segment, 0, len(s.edges))
	var dropped []DroppedEdge
	for _, e := range s.edges {
		from, okFrom := s.Lookup(e.From)
		to, okTo := s.Lookup(e.To)
		if !okFrom || !okTo {
			dropped = append(dropped, DroppedEdge{Edge: e, MissingFrom: !okFrom, MissingTo: !okTo})
			continue
		}
		segments = append(segments, Segment{Edge: e, From: from, To: to})
	}
	return segments, dropped
}

// Graph returns a copy of the snapshot contents.
func (s *Snapshot) Graph() domain.Graph {
	return domain.Graph{
		Nodes: append([]domain.Node(nil), s.Nodes()...),
		Edges: append([]domain.Edge(nil), s.Edges()...),
	}
}
