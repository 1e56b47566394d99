package dto

import (
	"fmt"
	"math"

	"github.com/aretw0/actvis/pkg/domain"
)

// InputPayload is the wire form of an input event, shared by the HTTP and
// MCP adapters. Only the fields of the named kind are read.
type InputPayload struct {
	Kind   domain.EventKind `json:"kind" mapstructure:"kind"`
	X      float64          `json:"x,omitempty" mapstructure:"x"`
	Y      float64          `json:"y,omitempty" mapstructure:"y"`
	DeltaY float64          `json:"delta_y,omitempty" mapstructure:"delta_y"`
	Width  float64          `json:"width,omitempty" mapstructure:"width"`
	Height float64          `json:"height,omitempty" mapstructure:"height"`
}

// DecodeInput decodes a generic JSON value into an InputPayload.
func DecodeInput(raw any) (InputPayload, error) {
	var p InputPayload
	if err := decode(raw, &p); err != nil {
		return InputPayload{}, fmt.Errorf("invalid input payload: %w", err)
	}
	return p, nil
}

// ToDomain maps the payload to the matching input event variant. NaN and
// infinite coordinates or sizes are rejected with domain.ErrInvalidEvent.
func (p InputPayload) ToDomain() (domain.InputEvent, error) {
	for _, v := range []float64{p.X, p.Y, p.DeltaY, p.Width, p.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s carries a non-finite value", domain.ErrInvalidEvent, p.Kind)
		}
	}

	switch p.Kind {
	case domain.KindPointerDown:
		return domain.PointerDown{X: p.X, Y: p.Y}, nil
	case domain.KindPointerMove:
		return domain.PointerMove{X: p.X, Y: p.Y}, nil
	case domain.KindPointerUp:
		return domain.PointerUp{X: p.X, Y: p.Y}, nil
	case domain.KindPointerLeave:
		return domain.PointerLeave{}, nil
	case domain.KindWheel:
		return domain.Wheel{X: p.X, Y: p.Y, DeltaY: p.DeltaY}, nil
	case domain.KindResize:
		return domain.Resize{Width: p.Width, Height: p.Height}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, p.Kind)
}
