package domain

import (
	"encoding/json"
	"fmt"
)

// Edge is a directed link between two nodes of the same snapshot.
type Edge struct {
	From NodeID `json:"from" yaml:"from"`
	To   NodeID `json:"to" yaml:"to"`
}

// UnmarshalJSON accepts both the wire pair form [from, to] and the
// normalised object form {"from": .., "to": ..}.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var pair []NodeID
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("edge pair must have 2 endpoints, got %d", len(pair))
		}
		e.From, e.To = pair[0], pair[1]
		return nil
	}

	type plain Edge
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("edge must be [from, to] or {from, to}: %w", err)
	}
	*e = Edge(p)
	return nil
}

// Graph is a complete node/edge snapshot as produced by a graph source.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// IsEmpty reports whether the graph carries no nodes.
func (g Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}
