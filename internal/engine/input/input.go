// Package input converts SDL2 events into engine events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an engine event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventTouchMove
	EventTouchEnd
)

// Event is a processed input event.
//
// Mouse events carry pixel coordinates in X and Y. Touch events carry
// coordinates normalized to [0, 1] of the window; use Pixels to scale them.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	X, Y   float32
	Button uint8
}

// Touch reports whether the event is a touch event.
func (e Event) Touch() bool {
	return e.Type == EventTouchMove || e.Type == EventTouchEnd
}

// Pixels returns the event position in pixels of a w by h viewport.
func (e Event) Pixels(w, h int) (x, y float32) {
	if e.Touch() {
		return e.X * float32(w), e.Y * float32(h)
	}
	return e.X, e.Y
}

// ButtonLeft is the primary mouse button.
const ButtonLeft uint8 = sdl.BUTTON_LEFT

// touchMouseID is SDL_TOUCH_MOUSEID, the device id of mouse events SDL
// synthesizes from touches.
const touchMouseID = ^uint32(0)

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to engine events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := Convert(event)
		if !ok {
			continue
		}
		i.events = append(i.events, e)
		if e.Type == EventQuit {
			return true
		}
	}

	return false
}

// Convert maps a single SDL event. ok is false for events the engine
// does not use.
func Convert(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		switch e.Type {
		case sdl.KEYDOWN:
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		case sdl.KEYUP:
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		// SDL synthesizes mouse events from touches; those arrive as
		// finger events already.
		if e.Which == touchMouseID {
			return Event{}, false
		}
		return Event{Type: EventMouseMove, X: float32(e.X), Y: float32(e.Y)}, true

	case *sdl.MouseButtonEvent:
		if e.Which == touchMouseID {
			return Event{}, false
		}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			return Event{Type: EventMouseDown, X: float32(e.X), Y: float32(e.Y), Button: e.Button}, true
		case sdl.MOUSEBUTTONUP:
			return Event{Type: EventMouseUp, X: float32(e.X), Y: float32(e.Y), Button: e.Button}, true
		}

	case *sdl.TouchFingerEvent:
		switch e.Type {
		case sdl.FINGERMOTION:
			return Event{Type: EventTouchMove, X: e.X, Y: e.Y}, true
		case sdl.FINGERUP:
			return Event{Type: EventTouchEnd, X: e.X, Y: e.Y}, true
		}
	}

	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
