// Package avatar ties the gesture controller and the pointer tracker to a
// single rigged character. It is driven from the frame loop: events are fed
// in through OnInteractionTrigger and OnPointerMove, and Update poses the
// skeleton once per frame.
package avatar

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-rig/internal/config"
	"github.com/Faultbox/avatar-rig/internal/engine/animation"
	"github.com/Faultbox/avatar-rig/internal/engine/gesture"
	"github.com/Faultbox/avatar-rig/internal/engine/skeleton"
	"github.com/Faultbox/avatar-rig/internal/engine/tracking"
	"github.com/Faultbox/avatar-rig/pkg/formats"
)

// ErrClipNotFound is returned when a configured clip is missing from the rig.
var ErrClipNotFound = errors.New("clip not found")

// Defaults for a mixamo-rigged character.
const (
	DefaultIdleClip   = "idle"
	DefaultNeckJoint  = "mixamorigNeck"
	DefaultWaistJoint = "mixamorigSpine"
	DefaultNeckLimit  = 50
	DefaultWaistLimit = 30
)

// Options configures an Avatar. Zero values take the defaults above.
type Options struct {
	IdleClip string   // Falls back to the rig's idle, then DefaultIdleClip
	Gestures []string // Empty selects every clip except idle

	NeckJoint  string
	WaistJoint string
	NeckLimit  float32 // Degrees
	WaistLimit float32 // Degrees
	UpScale    float32

	FadeIn  float32
	FadeOut float32

	// Rand picks gestures. See gesture.Options.
	Rand func(n int) int

	Logger *zap.Logger
}

func (o *Options) applyDefaults(rig *formats.Rig) {
	if o.IdleClip == "" {
		o.IdleClip = rig.Idle
	}
	if o.IdleClip == "" {
		o.IdleClip = DefaultIdleClip
	}
	if o.NeckJoint == "" {
		o.NeckJoint = DefaultNeckJoint
	}
	if o.WaistJoint == "" {
		o.WaistJoint = DefaultWaistJoint
	}
	if o.NeckLimit <= 0 {
		o.NeckLimit = DefaultNeckLimit
	}
	if o.WaistLimit <= 0 {
		o.WaistLimit = DefaultWaistLimit
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// InteractionState is the avatar's view of user interaction.
type InteractionState struct {
	Animating   bool
	LastPointer tracking.Pointer
	HasPointer  bool // False until the first pointer move
}

// Avatar is a posed character reacting to user interaction.
type Avatar struct {
	rig     *formats.Rig
	skel    *skeleton.Skeleton
	mixer   *animation.Mixer
	blend   *gesture.Controller
	tracker *tracking.Tracker
	log     *zap.Logger

	pointer    tracking.Pointer
	hasPointer bool
	triggers   int
}

// New builds the skeleton and clips from rig and starts the idle clip.
// Neck and waist tracks are removed from every clip so the pointer owns
// those joints.
func New(rig *formats.Rig, opts Options) (*Avatar, error) {
	opts.applyDefaults(rig)
	log := opts.Logger.Named("avatar")

	skel, err := skeleton.FromRig(rig)
	if err != nil {
		return nil, fmt.Errorf("building skeleton: %w", err)
	}

	tracked := []string{opts.NeckJoint, opts.WaistJoint}

	rc, ok := rig.Clip(opts.IdleClip)
	if !ok {
		return nil, fmt.Errorf("idle %q: %w", opts.IdleClip, ErrClipNotFound)
	}
	idle := animation.ClipFromRig(rc).StripJoints(tracked...)

	names := opts.Gestures
	if len(names) == 0 {
		for _, n := range rig.ClipNames() {
			if n != opts.IdleClip {
				names = append(names, n)
			}
		}
	}

	gestures := make([]*animation.Clip, 0, len(names))
	for _, n := range names {
		rc, ok := rig.Clip(n)
		if !ok {
			return nil, fmt.Errorf("gesture %q: %w", n, ErrClipNotFound)
		}
		gestures = append(gestures, animation.ClipFromRig(rc).StripJoints(tracked...))
	}

	mixer := animation.NewMixer(skel)
	blend, err := gesture.New(mixer, idle, gestures, gesture.Options{
		FadeIn:  opts.FadeIn,
		FadeOut: opts.FadeOut,
		Rand:    opts.Rand,
		Logger:  opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	tracker := tracking.NewTracker(skel, []tracking.JointRef{
		{Name: opts.NeckJoint, Limit: opts.NeckLimit},
		{Name: opts.WaistJoint, Limit: opts.WaistLimit},
	}, tracking.Options{UpScale: opts.UpScale, Logger: opts.Logger})

	log.Info("avatar ready",
		zap.String("rig", rig.Name),
		zap.Int("joints", skel.Len()),
		zap.String("idle", idle.Name),
		zap.Strings("gestures", names),
		zap.Bool("tracking", tracker.Enabled()),
	)

	return &Avatar{
		rig:     rig,
		skel:    skel,
		mixer:   mixer,
		blend:   blend,
		tracker: tracker,
		log:     log,
	}, nil
}

// Update advances animation by dt seconds and applies the latest pointer
// sample to the tracked joints.
func (a *Avatar) Update(dt float32) {
	a.blend.Update(dt)
	if a.hasPointer {
		a.tracker.Apply(a.pointer)
	}
}

// OnInteractionTrigger starts a gesture unless one is already playing.
func (a *Avatar) OnInteractionTrigger() {
	a.triggers++
	if !a.blend.Trigger() {
		return
	}
	a.log.Debug("interaction", zap.String("gesture", a.blend.Current().Clip().Name))
}

// OnPointerMove records a pointer position in a w by h viewport. The
// tracked joints follow it on the next Update.
func (a *Avatar) OnPointerMove(x, y, w, h float32) {
	a.pointer = tracking.Pointer{X: x, Y: y, ViewportW: w, ViewportH: h}
	a.hasPointer = true
}

// State returns the blend state.
func (a *Avatar) State() gesture.State {
	return a.blend.State()
}

// Interaction returns a snapshot of the interaction state.
func (a *Avatar) Interaction() InteractionState {
	return InteractionState{
		Animating:   a.blend.Animating(),
		LastPointer: a.pointer,
		HasPointer:  a.hasPointer,
	}
}

// CurrentGesture returns the name of the playing gesture, or "".
func (a *Avatar) CurrentGesture() string {
	if p := a.blend.Current(); p != nil {
		return p.Clip().Name
	}
	return ""
}

// Triggers returns the number of triggers received, accepted or not.
func (a *Avatar) Triggers() int {
	return a.triggers
}

// Cycles returns the number of gesture cycles started.
func (a *Avatar) Cycles() int {
	return a.blend.Cycles()
}

// Time returns the animation clock in seconds.
func (a *Avatar) Time() float64 {
	return a.mixer.Time()
}

// Skeleton returns the posed skeleton.
func (a *Avatar) Skeleton() *skeleton.Skeleton {
	return a.skel
}

// Rig returns the manifest the avatar was built from.
func (a *Avatar) Rig() *formats.Rig {
	return a.rig
}

// Tracking reports whether pointer tracking is active.
func (a *Avatar) Tracking() bool {
	return a.tracker.Enabled()
}

// OptionsFromConfig maps the rig section of the application config to
// Options. A zero seed leaves gesture selection unseeded.
func OptionsFromConfig(rc config.RigConfig, log *zap.Logger) Options {
	opts := Options{
		IdleClip:   rc.Idle,
		Gestures:   rc.Gestures,
		NeckJoint:  rc.NeckJoint,
		WaistJoint: rc.WaistJoint,
		NeckLimit:  rc.NeckLimit,
		WaistLimit: rc.WaistLimit,
		UpScale:    rc.UpScale,
		FadeIn:     rc.FadeIn,
		FadeOut:    rc.FadeOut,
		Logger:     log,
	}
	if rc.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(rc.Seed, rc.Seed)).IntN
	}
	return opts
}
