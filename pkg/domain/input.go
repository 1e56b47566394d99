package domain

// InputEvent is the closed set of events the interaction controller consumes.
type InputEvent interface {
	Kind() EventKind
	inputEvent()
}

// EventKind names an input event variant on the wire and in metrics.
type EventKind string

const (
	KindPointerDown  EventKind = "pointer_down"
	KindPointerMove  EventKind = "pointer_move"
	KindPointerUp    EventKind = "pointer_up"
	KindPointerLeave EventKind = "pointer_leave"
	KindWheel        EventKind = "wheel"
	KindResize       EventKind = "resize"
)

// PointerDown is a primary button press at canvas pixel (X, Y).
type PointerDown struct{ X, Y float64 }

// PointerMove is a pointer motion to canvas pixel (X, Y).
type PointerMove struct{ X, Y float64 }

// PointerUp is a primary button release at canvas pixel (X, Y).
type PointerUp struct{ X, Y float64 }

// PointerLeave is emitted when the pointer exits the canvas.
type PointerLeave struct{}

// Wheel is a scroll at canvas pixel (X, Y). Negative DeltaY zooms in.
type Wheel struct{ X, Y, DeltaY float64 }

// Resize reports the new canvas buffer size in pixels.
type Resize struct{ Width, Height float64 }

func (PointerDown) Kind() EventKind  { return KindPointerDown }
func (PointerMove) Kind() EventKind  { return KindPointerMove }
func (PointerUp) Kind() EventKind    { return KindPointerUp }
func (PointerLeave) Kind() EventKind { return KindPointerLeave }
func (Wheel) Kind() EventKind        { return KindWheel }
func (Resize) Kind() EventKind       { return KindResize }

func (PointerDown) inputEvent()  {}
func (PointerMove) inputEvent()  {}
func (PointerUp) inputEvent()    {}
func (PointerLeave) inputEvent() {}
func (Wheel) inputEvent()        {}
func (Resize) inputEvent()       {}
