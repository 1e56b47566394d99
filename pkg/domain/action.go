package domain

// ActionInfo is one entry of the action catalog of a source text.
type ActionInfo struct {
	Name        string   `json:"name" mapstructure:"name"`
	Type        NodeType `json:"type" mapstructure:"type"`
	HasActivity bool     `json:"has_activity" mapstructure:"has_activity"`
}

// IsCompound reports whether opening the action yields a graph. Atomic
// actions have nothing to draw.
func (a ActionInfo) IsCompound() bool {
	return (a.Type == NodeTypeAction || a.Type == NodeTypeCompoundAction) && a.HasActivity
}
