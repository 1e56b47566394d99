package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// NodeType is the closed vocabulary of activity node kinds.
type NodeType string

const (
	NodeTypeAtomic         NodeType = "atomic"
	NodeTypeParallel       NodeType = "parallel"
	NodeTypeSelect         NodeType = "select"
	NodeTypeRepeat         NodeType = "repeat"
	NodeTypeStart          NodeType = "start"
	NodeTypeEnd            NodeType = "end"
	NodeTypeMerge          NodeType = "merge"
	NodeTypeSequence       NodeType = "sequence"
	NodeTypeAction         NodeType = "action"
	NodeTypeCompoundAction NodeType = "compoundaction"
)

// IsContainer reports whether nodes of this type enclose nested substructure.
func (t NodeType) IsContainer() bool {
	switch t {
	case NodeTypeParallel, NodeTypeSelect, NodeTypeRepeat,
		NodeTypeSequence, NodeTypeAction, NodeTypeCompoundAction:
		return true
	}
	return false
}

// NodeID is an opaque node identifier. The graph service emits integers;
// they are kept in their decimal string form.
type NodeID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = NodeID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("node id must be a string or number: %s", string(data))
	}
	*id = NodeID(s)
	return nil
}

// NodeIDOf normalises a decoded id value (string, integer or float) into a NodeID.
func NodeIDOf(v any) (NodeID, bool) {
	switch x := v.(type) {
	case NodeID:
		return x, true
	case string:
		return NodeID(x), true
	case json.Number:
		return NodeID(x.String()), true
	case int:
		return NodeID(strconv.Itoa(x)), true
	case int64:
		return NodeID(strconv.FormatInt(x, 10)), true
	case uint64:
		return NodeID(strconv.FormatUint(x, 10)), true
	case float64:
		return NodeID(strconv.FormatFloat(x, 'f', -1, 64)), true
	}
	return "", false
}

// BBox is the inclusive grid extent [MinGX, MaxGX] x [MinGY, MaxGY] enclosing
// the descendants of a container node.
type BBox struct {
	MinGX float64 `json:"min_gx" yaml:"min_gx"`
	MaxGX float64 `json:"max_gx" yaml:"max_gx"`
	MinGY float64 `json:"min_gy" yaml:"min_gy"`
	MaxGY float64 `json:"max_gy" yaml:"max_gy"`
}

// Area is the number of grid cells covered by the box.
func (b BBox) Area() float64 {
	return (b.MaxGX - b.MinGX + 1) * (b.MaxGY - b.MinGY + 1)
}

// Degenerate reports an inverted or empty box.
func (b BBox) Degenerate() bool {
	return b.MaxGX < b.MinGX || b.MaxGY < b.MinGY || b.Area() <= 0
}

// MarshalJSON writes the box in the wire form [min_gx, max_gx, min_gy, max_gy].
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.MinGX, b.MaxGX, b.MinGY, b.MaxGY})
}

// UnmarshalJSON reads the wire form [min_gx, max_gx, min_gy, max_gy].
func (b *BBox) UnmarshalJSON(data []byte) error {
	var v [4]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("bbox must be [min_gx, max_gx, min_gy, max_gy]: %w", err)
	}
	*b = BBox{MinGX: v[0], MaxGX: v[1], MinGY: v[2], MaxGY: v[3]}
	return nil
}

// Node is a positioned element of an activity graph.
type Node struct {
	ID   NodeID   `json:"id" yaml:"id"`
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
	Type NodeType `json:"type" yaml:"type"`
	GX   float64  `json:"gx" yaml:"gx"`
	GY   float64  `json:"gy" yaml:"gy"`

	// BBox is only meaningful on containers. Nil means no visualised extent.
	BBox *BBox `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

// IsContainer reports whether the node is a compound node.
func (n Node) IsContainer() bool {
	return n.Type.IsContainer()
}

// Label is the text drawn on the node.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return string(n.Type)
}

// BoundaryMergeName is the name the graph service gives to the merge node
// closing the sequence called seqName.
func BoundaryMergeName(seqName string) string {
	return "End_" + seqName
}

