// Package dispatch routes input events to an interactive character.
package dispatch

import (
	"go.uber.org/zap"

	"github.com/Faultbox/avatar-rig/internal/engine/input"
)

// Target receives interaction. *avatar.Avatar satisfies it.
type Target interface {
	OnInteractionTrigger()
	OnPointerMove(x, y, w, h float32)
}

// HitTester decides whether a pixel lands on the character.
type HitTester interface {
	Hit(x, y float32, w, h int) bool
}

// Dispatcher forwards pointer motion unconditionally and turns primary
// clicks or taps on the character into interaction triggers. A nil HitTester treats
// every click as a hit.
type Dispatcher struct {
	Target    Target
	HitTester HitTester
	Logger    *zap.Logger
}

// Handle processes one event for a w by h viewport. It reports whether the
// event triggered an interaction.
func (d *Dispatcher) Handle(e input.Event, w, h int) bool {
	switch e.Type {
	case input.EventMouseMove, input.EventTouchMove:
		x, y := e.Pixels(w, h)
		d.Target.OnPointerMove(x, y, float32(w), float32(h))

	case input.EventMouseUp, input.EventTouchEnd:
		if e.Type == input.EventMouseUp && e.Button != input.ButtonLeft {
			return false
		}
		x, y := e.Pixels(w, h)
		if d.HitTester != nil && !d.HitTester.Hit(x, y, w, h) {
			return false
		}
		if d.Logger != nil {
			d.Logger.Debug("character hit",
				zap.Float32("x", x),
				zap.Float32("y", y),
				zap.Bool("touch", e.Touch()),
			)
		}
		d.Target.OnInteractionTrigger()
		return true
	}
	return false
}

// HandleAll processes a frame's events and returns the number of
// interactions triggered.
func (d *Dispatcher) HandleAll(events []input.Event, w, h int) int {
	n := 0
	for _, e := range events {
		if d.Handle(e, w, h) {
			n++
		}
	}
	return n
}
