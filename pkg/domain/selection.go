package domain

import "fmt"

// SelectionPrompt is shown when nothing is selected.
const SelectionPrompt = "Click a node to see info"

// Selection is the payload surfaced to the info panel whenever the selected
// node changes. The zero value means "nothing selected".
type Selection struct {
	ID   NodeID   `json:"id,omitempty"`
	Name string   `json:"name,omitempty"`
	Type NodeType `json:"type,omitempty"`
}

// SelectionOf builds the selection payload for n, or the empty selection for nil.
func SelectionOf(n *Node) Selection {
	if n == nil {
		return Selection{}
	}
	return Selection{ID: n.ID, Name: n.Label(), Type: n.Type}
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.ID == ""
}

// Message is the one-line text for the info panel.
func (s Selection) Message() string {
	if s.IsEmpty() {
		return SelectionPrompt
	}
	return fmt.Sprintf("Node: %s, Type: %s", s.Name, s.Type)
}

// SelectionListener receives every selection change.
type SelectionListener func(Selection)
