package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/veandco/go-sdl2/sdl"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, Event{Type: EventQuit}, true},
		{
			"resize",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 1280, Data2: 720},
			Event{Type: EventWindowResize, Width: 1280, Height: 720},
			true,
		},
		{
			"mouse motion",
			&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 750, Y: 200},
			Event{Type: EventMouseMove, X: 750, Y: 200},
			true,
		},
		{
			"mouse up",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, X: 10, Y: 20, Button: sdl.BUTTON_LEFT},
			Event{Type: EventMouseUp, X: 10, Y: 20, Button: sdl.BUTTON_LEFT},
			true,
		},
		{
			"synthesized mouse from touch",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Which: touchMouseID, X: 10, Y: 20},
			Event{},
			false,
		},
		{
			"finger up",
			&sdl.TouchFingerEvent{Type: sdl.FINGERUP, X: 0.5, Y: 0.25},
			Event{Type: EventTouchEnd, X: 0.5, Y: 0.25},
			true,
		},
		{
			"finger motion",
			&sdl.TouchFingerEvent{Type: sdl.FINGERMOTION, X: 0.1, Y: 0.9},
			Event{Type: EventTouchMove, X: 0.1, Y: 0.9},
			true,
		},
		{"finger down ignored", &sdl.TouchFingerEvent{Type: sdl.FINGERDOWN}, Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Convert(tt.event)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("event mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPixels(t *testing.T) {
	touch := Event{Type: EventTouchEnd, X: 0.5, Y: 0.25}
	if x, y := touch.Pixels(1000, 800); x != 500 || y != 200 {
		t.Errorf("touch Pixels = (%v, %v), want (500, 200)", x, y)
	}
	mouse := Event{Type: EventMouseUp, X: 300, Y: 100}
	if x, y := mouse.Pixels(1000, 800); x != 300 || y != 100 {
		t.Errorf("mouse Pixels = (%v, %v), want (300, 100)", x, y)
	}
}
