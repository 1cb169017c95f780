// Package gesture crossfades a character from its idle clip into a randomly
// chosen gesture clip and back when the character is interacted with.
package gesture

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-rig/internal/engine/animation"
	"github.com/Faultbox/avatar-rig/internal/engine/schedule"
)

// Controller errors.
var (
	ErrNoIdle       = errors.New("no idle clip")
	ErrNoGestures   = errors.New("no gesture clips")
	ErrClipTooShort = errors.New("gesture clip shorter than its fades")
)

// Default crossfade durations in seconds.
const (
	DefaultFadeIn  = 0.25
	DefaultFadeOut = 0.25
)

// State is the blend state of the controller.
type State int

const (
	Idle State = iota
	CrossfadingToGesture
	CrossfadingToIdle
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case CrossfadingToGesture:
		return "CrossfadingToGesture"
	case CrossfadingToIdle:
		return "CrossfadingToIdle"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Controller.
type Options struct {
	FadeIn  float32 // Idle to gesture, seconds
	FadeOut float32 // Gesture back to idle, seconds

	// Rand returns a uniform index in [0, n). Defaults to math/rand/v2.
	Rand func(n int) int

	Logger *zap.Logger
}

func (o *Options) applyDefaults() {
	if o.FadeIn <= 0 {
		o.FadeIn = DefaultFadeIn
	}
	if o.FadeOut <= 0 {
		o.FadeOut = DefaultFadeOut
	}
	if o.Rand == nil {
		o.Rand = rand.IntN
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Controller runs one gesture cycle at a time: crossfade idle to gesture,
// wait for the gesture to near its end, crossfade back. Triggers received
// mid-cycle are dropped.
type Controller struct {
	opts  Options
	log   *zap.Logger
	mixer *animation.Mixer
	queue *schedule.Queue

	idle     *animation.Player
	gestures []*animation.Player

	state     State
	animating bool
	current   *animation.Player
	cycles    int
}

// New creates a controller and starts the idle clip at full weight.
// Every gesture clip must last at least FadeIn + FadeOut.
func New(mixer *animation.Mixer, idle *animation.Clip, gestures []*animation.Clip, opts Options) (*Controller, error) {
	opts.applyDefaults()

	if idle == nil {
		return nil, ErrNoIdle
	}
	if len(gestures) == 0 {
		return nil, ErrNoGestures
	}

	c := &Controller{
		opts:     opts,
		log:      opts.Logger.Named("gesture"),
		mixer:    mixer,
		queue:    schedule.New(),
		gestures: make([]*animation.Player, 0, len(gestures)),
	}

	minDuration := opts.FadeIn + opts.FadeOut
	for _, clip := range gestures {
		if clip.Duration < minDuration {
			return nil, fmt.Errorf("%w: %q lasts %.3fs, fades need %.3fs",
				ErrClipTooShort, clip.Name, clip.Duration, minDuration)
		}
		p, err := mixer.Player(clip)
		if err != nil {
			return nil, fmt.Errorf("binding gesture %q: %w", clip.Name, err)
		}
		c.gestures = append(c.gestures, p)
	}

	var err error
	c.idle, err = mixer.Player(idle)
	if err != nil {
		return nil, fmt.Errorf("binding idle %q: %w", idle.Name, err)
	}
	c.idle.Reset().Play()

	c.log.Debug("controller ready",
		zap.String("idle", idle.Name),
		zap.Int("gestures", len(gestures)),
		zap.Float32("fade_in", opts.FadeIn),
		zap.Float32("fade_out", opts.FadeOut),
	)
	return c, nil
}

// ReturnDelay is the time from gesture start to the start of the crossfade
// back to idle.
func (c *Controller) ReturnDelay(clip *animation.Clip) float32 {
	return clip.Duration - (c.opts.FadeOut + c.opts.FadeIn)
}

// Trigger starts a gesture cycle. It returns false, changing nothing, when
// a cycle is already running.
func (c *Controller) Trigger() bool {
	if c.animating {
		fields := []zap.Field{zap.Stringer("state", c.state)}
		if next, ok := c.queue.Next(); ok {
			fields = append(fields,
				zap.String("next", next.Name),
				zap.Float64("in", next.Due-c.mixer.Time()),
			)
		}
		c.log.Debug("trigger dropped", fields...)
		return false
	}

	g := c.gestures[c.opts.Rand(len(c.gestures))]
	c.animating = true
	c.state = CrossfadingToGesture
	c.current = g
	c.cycles++

	g.SetLoop(animation.LoopOnce).Reset().Play()
	c.idle.CrossFadeTo(g, c.opts.FadeIn)

	delay := c.ReturnDelay(g.Clip())
	due := c.mixer.Time() + float64(delay)
	c.queue.At(due, "gesture-return", func() { c.beginReturn(g, due) })

	c.log.Debug("gesture started",
		zap.String("clip", g.Clip().Name),
		zap.Float32("duration", g.Clip().Duration),
		zap.Float32("return_delay", delay),
		zap.Int("pending", c.queue.Len()),
	)
	return true
}

// beginReturn starts the crossfade back to idle. The cycle ends FadeOut
// after the return was due, however late the frame that fired it.
func (c *Controller) beginReturn(g *animation.Player, due float64) {
	done := due + float64(c.opts.FadeOut)
	fade := float32(done - c.mixer.Time())
	if fade < 0 {
		fade = 0
	}

	c.idle.SetEnabled(true)
	g.CrossFadeTo(c.idle, fade)
	c.state = CrossfadingToIdle

	c.queue.At(done, "gesture-complete", func() { c.complete(g) })

	c.log.Debug("returning to idle", zap.String("clip", g.Clip().Name))
}

func (c *Controller) complete(g *animation.Player) {
	g.StopFading().SetEnabled(false)
	c.idle.StopFading().SetEnabled(true)

	c.animating = false
	c.state = Idle
	c.current = nil

	c.log.Debug("gesture complete", zap.String("clip", g.Clip().Name))
}

// Update advances the mixer by dt seconds and fires any due transitions.
func (c *Controller) Update(dt float32) {
	c.mixer.Update(dt)
	c.queue.Advance(c.mixer.Time())
}

// Animating reports whether a gesture cycle is in flight.
func (c *Controller) Animating() bool {
	return c.animating
}

// State returns the current blend state.
func (c *Controller) State() State {
	return c.state
}

// Current returns the gesture player of the running cycle, or nil.
func (c *Controller) Current() *animation.Player {
	return c.current
}

// Idle returns the idle player.
func (c *Controller) Idle() *animation.Player {
	return c.idle
}

// Cycles returns the number of gesture cycles started.
func (c *Controller) Cycles() int {
	return c.cycles
}
