package domain

// Transform is the serialisable form of the view transform.
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// ViewState is a read-only snapshot of an engine, used by adapters.
type ViewState struct {
	Transform Transform `json:"transform"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Panning   bool      `json:"panning"`
	Hover     NodeID    `json:"hover,omitempty"`
	Selected  NodeID    `json:"selected,omitempty"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	Selection Selection `json:"selection"`
}
