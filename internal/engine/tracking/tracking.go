// Package tracking turns the pointer position into neck and waist rotation
// so the character appears to follow the cursor.
package tracking

import (
	"go.uber.org/zap"

	"github.com/Faultbox/avatar-rig/internal/engine/skeleton"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

// DefaultUpScale halves the deflection range when looking up.
const DefaultUpScale = 0.5

// Pointer is a pointer sample in screen pixels with the viewport it was
// taken in. Y grows downward.
type Pointer struct {
	X, Y      float32
	ViewportW float32
	ViewportH float32
}

// Center returns a sample at the middle of a w by h viewport.
func Center(w, h float32) Pointer {
	return Pointer{X: w / 2, Y: h / 2, ViewportW: w, ViewportH: h}
}

// NDC returns the sample in normalized device coordinates, with +Y up.
func (p Pointer) NDC() math.Vec2 {
	if p.ViewportW <= 0 || p.ViewportH <= 0 {
		return math.Vec2{}
	}
	return math.Vec2{
		X: 2*(p.X/p.ViewportW) - 1,
		Y: 1 - 2*(p.Y/p.ViewportH),
	}
}

// Degrees maps a pointer position to (horizontal, vertical) deflection in
// degrees for a joint limited to limit degrees.
//
// Each axis measures the pointer's distance from the viewport center as a
// percentage of the half-extent, clamped to [0, 100]. Left and up are
// negative. Looking up is scaled by upScale. A non-finite coordinate reads
// as the center.
func Degrees(x, y, w, h, limit, upScale float32) (dx, dy float32) {
	if !math.IsFinite(w) || !math.IsFinite(h) || w <= 0 || h <= 0 {
		return 0, 0
	}

	cx := w / 2
	if !math.IsFinite(x) {
		x = cx
	}
	if x <= cx {
		pct := math.Clamp((cx-x)/cx*100, 0, 100)
		dx = -limit * pct / 100
	} else {
		pct := math.Clamp((x-cx)/cx*100, 0, 100)
		dx = limit * pct / 100
	}

	cy := h / 2
	if !math.IsFinite(y) {
		y = cy
	}
	if y <= cy {
		pct := math.Clamp((cy-y)/cy*100, 0, 100)
		dy = -limit * upScale * pct / 100
	} else {
		pct := math.Clamp((y-cy)/cy*100, 0, 100)
		dy = limit * pct / 100
	}

	return dx, dy
}

// JointRef names a joint to drive and its maximum deflection in degrees.
type JointRef struct {
	Name  string
	Limit float32
}

// Options configures a Tracker.
type Options struct {
	UpScale float32 // Defaults to DefaultUpScale
	Logger  *zap.Logger
}

type trackedJoint struct {
	handle skeleton.Handle
	limit  float32
}

// Tracker writes pointer-driven rotation to a fixed set of joints.
type Tracker struct {
	skel    *skeleton.Skeleton
	joints  []trackedJoint
	upScale float32
	enabled bool
}

// NewTracker resolves refs against skel. If any joint is missing the
// tracker is created disabled and Apply writes nothing.
func NewTracker(skel *skeleton.Skeleton, refs []JointRef, opts Options) *Tracker {
	if opts.UpScale <= 0 {
		opts.UpScale = DefaultUpScale
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("tracking")

	t := &Tracker{
		skel:    skel,
		joints:  make([]trackedJoint, 0, len(refs)),
		upScale: opts.UpScale,
		enabled: len(refs) > 0,
	}

	for _, ref := range refs {
		h, ok := skel.Lookup(ref.Name)
		if !ok {
			log.Warn("joint not found, pointer tracking disabled", zap.String("joint", ref.Name))
			t.enabled = false
			continue
		}
		t.joints = append(t.joints, trackedJoint{handle: h, limit: ref.Limit})
	}

	return t
}

// Enabled reports whether every tracked joint was resolved.
func (t *Tracker) Enabled() bool {
	return t.enabled
}

// Apply rotates every tracked joint toward p. All joints use the same
// sample, so their deflections keep the ratio of their limits.
func (t *Tracker) Apply(p Pointer) {
	if !t.enabled {
		return
	}
	for _, j := range t.joints {
		dx, dy := Degrees(p.X, p.Y, p.ViewportW, p.ViewportH, j.limit, t.upScale)
		t.skel.SetEuler(j.handle, math.DegToRad(dy), math.DegToRad(dx))
	}
}
