package surface

import "image"

// Kind classifies pointer input.
type Kind int

const (
	Press Kind = iota
	Move
	Release
	Leave
)

// Source identifies the device an event came from.
type Source int

const (
	Mouse Source = iota
	Touch
)

// Event is a pointer or touch event in client (window) coordinates. Touch
// events carry their active contacts in Touches; the first one is primary.
type Event struct {
	Kind    Kind
	Source  Source
	Client  image.Point
	Touches []image.Point
}

// Viewport reports where the canvas currently sits in client coordinates.
type Viewport interface {
	CanvasBounds() image.Rectangle
}

// ViewportFunc adapts a function to Viewport.
type ViewportFunc func() image.Rectangle

func (f ViewportFunc) CanvasBounds() image.Rectangle { return f() }

// Input turns client events into stroke operations on a Surface.
type Input struct {
	surface  *Surface
	viewport Viewport
}

// NewInput binds a surface to the viewport it is displayed in.
func NewInput(s *Surface, v Viewport) *Input {
	return &Input{surface: s, viewport: v}
}

// Handle applies ev to the surface. The returned flag asks the host to
// suppress its default handling (scrolling, zooming) of the event.
func (in *Input) Handle(ev Event) (bool, error) {
	suppress := ev.Source == Touch
	client, ok := primary(ev)
	switch ev.Kind {
	case Press:
		if !ok {
			return suppress, nil
		}
		in.surface.BeginStroke(in.toCanvas(client))
	case Move:
		if !ok {
			return suppress, nil
		}
		in.surface.ExtendStroke(in.toCanvas(client))
	case Release, Leave:
		if err := in.surface.EndStroke(); err != nil {
			return suppress, err
		}
	}
	return suppress, nil
}

// toCanvas reads the canvas bounds on every call so layout changes between
// events are honoured.
func (in *Input) toCanvas(client image.Point) image.Point {
	return client.Sub(in.viewport.CanvasBounds().Min)
}

func primary(ev Event) (image.Point, bool) {
	if ev.Source != Touch {
		return ev.Client, true
	}
	if len(ev.Touches) == 0 {
		return image.Point{}, false
	}
	return ev.Touches[0], true
}
