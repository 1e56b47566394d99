package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSceneLoad   EventType = "scene_load"
	EventEdgeDropped EventType = "edge_dropped"
	EventSelect      EventType = "select"
	EventHover       EventType = "hover"
	EventInput       EventType = "input"
	EventSourceCall  EventType = "source_call"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event of the given type with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// SceneEvent reports a wholesale scene replacement.
type SceneEvent struct {
	EventBase
	Nodes   int `json:"nodes"`
	Edges   int `json:"edges"`
	Dropped int `json:"dropped"`
}

// EdgeEvent reports an edge whose endpoints could not be resolved.
type EdgeEvent struct {
	EventBase
	Edge        Edge `json:"edge"`
	MissingFrom bool `json:"missing_from,omitempty"`
	MissingTo   bool `json:"missing_to,omitempty"`
}

// SelectionEvent reports a hover or selection change.
type SelectionEvent struct {
	EventBase
	Selection Selection `json:"selection"`
}

// InputEventRecord reports a handled input event and whether it caused a redraw.
type InputEventRecord struct {
	EventBase
	Kind   EventKind `json:"kind"`
	Redraw bool      `json:"redraw"`
}

// SourceEvent reports a call to the external graph source.
type SourceEvent struct {
	EventBase
	Operation string        `json:"operation"` // "fetch_graph" or "list_actions"
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the caller's goroutine and must not call back
// into the engine.
type LifecycleHooks struct {
	OnSceneLoad   func(*SceneEvent)
	OnEdgeDropped func(*EdgeEvent)
	OnSelect      func(*SelectionEvent)
	OnHover       func(*SelectionEvent)
	OnInput       func(*InputEventRecord)
	OnSourceCall  func(*SourceEvent)
}
