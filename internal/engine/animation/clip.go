// Package animation plays keyframed clips and blends them onto a skeleton.
package animation

import (
	"slices"

	"github.com/Faultbox/avatar-rig/pkg/formats"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

// LoopMode controls what a player does when its clock reaches the clip end.
type LoopMode int

const (
	LoopRepeat LoopMode = iota // Wrap around to the start
	LoopOnce                   // Clamp at the end and disable
)

// String returns the manifest name of the loop mode.
func (m LoopMode) String() string {
	if m == LoopOnce {
		return formats.LoopOnce
	}
	return formats.LoopRepeat
}

// Track is a rotation keyframe track for one joint.
type Track struct {
	Joint  string
	Times  []float32 // Seconds, ascending
	Values []math.Quat
}

// Sample interpolates the track at time t (seconds). Times before the first
// key or after the last hold the boundary value.
func (tr *Track) Sample(t float32) math.Quat {
	if len(tr.Values) == 0 {
		return math.QuatIdentity()
	}
	if len(tr.Values) == 1 {
		return tr.Values[0]
	}

	// Find surrounding keyframes
	var prev, next int
	for i := range tr.Times {
		if tr.Times[i] > t {
			next = i
			break
		}
		prev = i
		next = i
	}

	if prev == next {
		return tr.Values[prev]
	}

	t0, t1 := tr.Times[prev], tr.Times[next]
	alpha := float32(0)
	if t1 != t0 {
		alpha = (t - t0) / (t1 - t0)
	}
	return tr.Values[prev].Slerp(tr.Values[next], alpha)
}

// Clip is an authored, fixed-duration animation.
type Clip struct {
	Name     string
	Duration float32 // Seconds
	Loop     LoopMode
	Tracks   []Track
}

// ClipFromRig converts a manifest clip.
func ClipFromRig(rc *formats.RigClip) *Clip {
	c := &Clip{
		Name:     rc.Name,
		Duration: rc.Duration,
		Tracks:   make([]Track, 0, len(rc.Tracks)),
	}
	if rc.Loop == formats.LoopOnce {
		c.Loop = LoopOnce
	}

	for _, rt := range rc.Tracks {
		tr := Track{
			Joint:  rt.Joint,
			Times:  slices.Clone(rt.Times),
			Values: make([]math.Quat, len(rt.Rotations)),
		}
		for i, r := range rt.Rotations {
			tr.Values[i] = math.Q(r).Normalize()
		}
		c.Tracks = append(c.Tracks, tr)
	}
	return c
}

// Animates reports whether the clip has a track for joint.
func (c *Clip) Animates(joint string) bool {
	for i := range c.Tracks {
		if c.Tracks[i].Joint == joint {
			return true
		}
	}
	return false
}

// StripJoints returns a copy of the clip without tracks for the given joints.
// Keyframe slices are shared with c.
func (c *Clip) StripJoints(joints ...string) *Clip {
	out := &Clip{
		Name:     c.Name,
		Duration: c.Duration,
		Loop:     c.Loop,
		Tracks:   make([]Track, 0, len(c.Tracks)),
	}
	for _, tr := range c.Tracks {
		if slices.Contains(joints, tr.Joint) {
			continue
		}
		out.Tracks = append(out.Tracks, tr)
	}
	return out
}
