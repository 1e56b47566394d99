package dto

import (
	"fmt"

	"github.com/aretw0/actvis/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// NodePayload is a node as the graph service (or a snapshot file) writes it.
// Ids may be numbers or strings; bbox may be a 4-element list or an object.
type NodePayload struct {
	ID   any     `json:"id" mapstructure:"id"`
	Name string  `json:"name" mapstructure:"name"`
	Type string  `json:"type" mapstructure:"type"`
	GX   float64 `json:"gx" mapstructure:"gx"`
	GY   float64 `json:"gy" mapstructure:"gy"`
	BBox any     `json:"bbox" mapstructure:"bbox"`
}

// GraphPayload is the body of a /parse response or a snapshot file.
type GraphPayload struct {
	Nodes []NodePayload `json:"nodes" mapstructure:"nodes"`
	Edges []any         `json:"edges" mapstructure:"edges"`
	Error string        `json:"error" mapstructure:"error"`
}

// ActionsPayload is the body of an /actions response.
type ActionsPayload struct {
	Actions []domain.ActionInfo `json:"actions" mapstructure:"actions"`
	Error   string              `json:"error" mapstructure:"error"`
}

type bboxObject struct {
	MinGX float64 `mapstructure:"min_gx"`
	MaxGX float64 `mapstructure:"max_gx"`
	MinGY float64 `mapstructure:"min_gy"`
	MaxGY float64 `mapstructure:"max_gy"`
}

type edgeObject struct {
	From any `mapstructure:"from"`
	To   any `mapstructure:"to"`
}

func decode(raw any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// DecodeGraphPayload decodes a generic JSON/YAML value into a GraphPayload.
func DecodeGraphPayload(raw any) (GraphPayload, error) {
	var p GraphPayload
	if err := decode(raw, &p); err != nil {
		return GraphPayload{}, fmt.Errorf("invalid graph payload: %w", err)
	}
	return p, nil
}

// DecodeGraph decodes a generic JSON/YAML value into a domain.Graph,
// normalising ids to strings and edge pairs to {from, to}.
func DecodeGraph(raw any) (domain.Graph, error) {
	p, err := DecodeGraphPayload(raw)
	if err != nil {
		return domain.Graph{}, err
	}
	return p.ToDomain()
}

// ToDomain converts the payload into a domain.Graph.
func (p GraphPayload) ToDomain() (domain.Graph, error) {
	g := domain.Graph{
		Nodes: make([]domain.Node, 0, len(p.Nodes)),
		Edges: make([]domain.Edge, 0, len(p.Edges)),
	}
	for i, n := range p.Nodes {
		id, ok := domain.NodeIDOf(n.ID)
		if !ok || id == "" {
			return domain.Graph{}, fmt.Errorf("node %d: missing or invalid id %v", i, n.ID)
		}
		node := domain.Node{
			ID:   id,
			Name: n.Name,
			Type: domain.NodeType(n.Type),
			GX:   n.GX,
			GY:   n.GY,
		}
		if n.BBox != nil {
			box, err := decodeBBox(n.BBox)
			if err != nil {
				return domain.Graph{}, fmt.Errorf("node %s: %w", id, err)
			}
			node.BBox = box
		}
		g.Nodes = append(g.Nodes, node)
	}
	for i, raw := range p.Edges {
		e, err := decodeEdge(raw)
		if err != nil {
			return domain.Graph{}, fmt.Errorf("edge %d: %w", i, err)
		}
		g.Edges = append(g.Edges, e)
	}
	return g, nil
}

func decodeBBox(raw any) (*domain.BBox, error) {
	if list, ok := raw.([]any); ok {
		var v []float64
		if err := decode(list, &v); err != nil {
			return nil, fmt.Errorf("invalid bbox: %w", err)
		}
		if len(v) != 4 {
			return nil, fmt.Errorf("bbox must have 4 values, got %d", len(v))
		}
		return &domain.BBox{MinGX: v[0], MaxGX: v[1], MinGY: v[2], MaxGY: v[3]}, nil
	}

	var obj bboxObject
	if err := decode(raw, &obj); err != nil {
		return nil, fmt.Errorf("invalid bbox: %w", err)
	}
	return &domain.BBox{MinGX: obj.MinGX, MaxGX: obj.MaxGX, MinGY: obj.MinGY, MaxGY: obj.MaxGY}, nil
}

func decodeEdge(raw any) (domain.Edge, error) {
	var from, to any
	if pair, ok := raw.([]any); ok {
		if len(pair) != 2 {
			return domain.Edge{}, fmt.Errorf("edge pair must have 2 endpoints, got %d", len(pair))
		}
		from, to = pair[0], pair[1]
	} else {
		var obj edgeObject
		if err := decode(raw, &obj); err != nil {
			return domain.Edge{}, fmt.Errorf("invalid edge: %w", err)
		}
		from, to = obj.From, obj.To
	}

	f, okFrom := domain.NodeIDOf(from)
	t, okTo := domain.NodeIDOf(to)
	if !okFrom || !okTo {
		return domain.Edge{}, fmt.Errorf("invalid edge endpoints %v -> %v", from, to)
	}
	return domain.Edge{From: f, To: t}, nil
}

// DecodeActions decodes a generic JSON/YAML value into an action list.
func DecodeActions(raw any) (ActionsPayload, error) {
	var p ActionsPayload
	if err := decode(raw, &p); err != nil {
		return ActionsPayload{}, fmt.Errorf("invalid actions payload: %w", err)
	}
	return p, nil
}
