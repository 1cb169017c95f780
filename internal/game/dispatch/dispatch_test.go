package dispatch

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/avatar-rig/internal/engine/input"
)

type move struct{ X, Y, W, H float32 }

type fakeTarget struct {
	triggers int
	moves    []move
}

func (f *fakeTarget) OnInteractionTrigger() { f.triggers++ }

func (f *fakeTarget) OnPointerMove(x, y, w, h float32) {
	f.moves = append(f.moves, move{x, y, w, h})
}

// Hits inside a rectangle of pixels.
type rectHit struct{ x0, y0, x1, y1 float32 }

func (r rectHit) Hit(x, y float32, _, _ int) bool {
	return x >= r.x0 && x <= r.x1 && y >= r.y0 && y <= r.y1
}

func TestPointerMoves(t *testing.T) {
	target := &fakeTarget{}
	d := &Dispatcher{Target: target, HitTester: rectHit{400, 300, 600, 500}}

	d.HandleAll([]input.Event{
		{Type: input.EventMouseMove, X: 750, Y: 200},
		{Type: input.EventTouchMove, X: 0.25, Y: 0.5},
		{Type: input.EventKeyDown},
	}, 1000, 800)

	want := []move{
		{750, 200, 1000, 800},
		{250, 400, 1000, 800},
	}
	if diff := cmp.Diff(want, target.moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	if target.triggers != 0 {
		t.Errorf("triggers = %d, want 0", target.triggers)
	}
}

func TestClicksAndTaps(t *testing.T) {
	tests := []struct {
		name  string
		event input.Event
		hit   bool
	}{
		{"click on character", input.Event{Type: input.EventMouseUp, X: 500, Y: 400, Button: input.ButtonLeft}, true},
		{"right click on character", input.Event{Type: input.EventMouseUp, X: 500, Y: 400, Button: 3}, false},
		{"middle click on character", input.Event{Type: input.EventMouseUp, X: 500, Y: 400, Button: 2}, false},
		{"click beside character", input.Event{Type: input.EventMouseUp, X: 100, Y: 400, Button: input.ButtonLeft}, false},
		{"tap on character", input.Event{Type: input.EventTouchEnd, X: 0.5, Y: 0.5}, true},
		{"tap beside character", input.Event{Type: input.EventTouchEnd, X: 0.1, Y: 0.1}, false},
		{"button down does nothing", input.Event{Type: input.EventMouseDown, X: 500, Y: 400}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &fakeTarget{}
			d := &Dispatcher{Target: target, HitTester: rectHit{400, 300, 600, 500}}

			got := d.Handle(tt.event, 1000, 800)
			if got != tt.hit {
				t.Errorf("Handle = %v, want %v", got, tt.hit)
			}
			wantTriggers := 0
			if tt.hit {
				wantTriggers = 1
			}
			if target.triggers != wantTriggers {
				t.Errorf("triggers = %d, want %d", target.triggers, wantTriggers)
			}
		})
	}
}

func TestNilHitTesterAcceptsEveryClick(t *testing.T) {
	target := &fakeTarget{}
	d := &Dispatcher{Target: target}

	n := d.HandleAll([]input.Event{
		{Type: input.EventMouseUp, X: 1, Y: 1, Button: input.ButtonLeft},
		{Type: input.EventTouchEnd, X: 0.9, Y: 0.9},
	}, 1000, 800)
	if n != 2 || target.triggers != 2 {
		t.Errorf("HandleAll = %d, triggers = %d, want 2 and 2", n, target.triggers)
	}
}
