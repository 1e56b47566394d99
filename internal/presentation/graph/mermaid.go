package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/scene"
)

// GraphOverlay contains dynamic view state to visualize on the graph.
type GraphOverlay struct {
	Hover    domain.NodeID
	Selected domain.NodeID
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a scene.
// It applies semantic styling:
// - Boundary markers (start, end, sequence, closing merge): ((Circle))
// - Containers: [[Subroutine]]
// - Default: [Rectangle]
// Edges with an unknown endpoint are left out. Overlay styles (Hover/Selected)
// are applied if provided.
func GenerateMermaid(s *scene.Snapshot, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[domain.NodeID]bool)
	for _, node := range s.Nodes() {
		if seen[node.ID] {
			continue
		}
		seen[node.ID] = true

		opener, closer := "[", "]"
		switch {
		case s.Hidden(node.ID):
			opener, closer = "((", "))" // Circle
		case node.IsContainer():
			opener, closer = "[[", "]]" // Subroutine
		}

		label := strings.ReplaceAll(node.Label(), "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(node.ID), opener, label, closer))
	}

	segments, _ := s.Resolve()
	for _, seg := range segments {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(seg.Edge.From), sanitizeMermaidID(seg.Edge.To)))
	}

	// Apply Overlay Styles
	if overlay != nil && (overlay.Hover != "" || overlay.Selected != "") {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef hover fill:#ffec99,stroke:#333,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ff8787,stroke:#333,stroke-width:4px,color:#000;\n")

		// Selection wins over hover, as on the canvas.
		if overlay.Hover != "" && overlay.Hover != overlay.Selected && seen[overlay.Hover] {
			sb.WriteString(fmt.Sprintf("    class %s hover;\n", sanitizeMermaidID(overlay.Hover)))
		}
		if overlay.Selected != "" && seen[overlay.Selected] {
			sb.WriteString(fmt.Sprintf("    class %s selected;\n", sanitizeMermaidID(overlay.Selected)))
		}
	}

	return sb.String()
}

// sanitizeMermaidID prefixes ids so numeric ids and keywords such as "end"
// stay valid node names.
func sanitizeMermaidID(id domain.NodeID) string {
	s := strings.ReplaceAll(string(id), ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return "n" + s
}
