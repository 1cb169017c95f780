package animation

import (
	gomath "math"

	"github.com/Faultbox/avatar-rig/internal/engine/skeleton"
)

// ramp is a linear weight fade keyed to mixer time.
type ramp struct {
	start, end float64 // Mixer time in seconds
	from, to   float32
}

func (r *ramp) at(now float64) float32 {
	if now <= r.start || r.end <= r.start {
		if now >= r.end {
			return r.to
		}
		return r.from
	}
	if now >= r.end {
		return r.to
	}
	alpha := float32((now - r.start) / (r.end - r.start))
	return r.from + alpha*(r.to-r.from)
}

type binding struct {
	joint skeleton.Handle
	track *Track
}

// Player is the playback state of one clip on a mixer.
type Player struct {
	mixer    *Mixer
	clip     *Clip
	bindings []binding

	loop    LoopMode
	time    float32 // Local clock in seconds
	weight  float32 // Base weight, scaled by the fade
	enabled bool
	running bool
	fade    *ramp
}

// Clip returns the clip this player plays.
func (p *Player) Clip() *Clip {
	return p.clip
}

// Play schedules the player on its mixer.
func (p *Player) Play() *Player {
	if !p.running {
		p.running = true
		p.mixer.activate(p)
	}
	return p
}

// Reset rewinds the clock, enables the player and cancels any fade.
func (p *Player) Reset() *Player {
	p.time = 0
	p.enabled = true
	p.fade = nil
	return p
}

// SetLoop sets the loop mode.
func (p *Player) SetLoop(mode LoopMode) *Player {
	p.loop = mode
	return p
}

// Loop returns the loop mode.
func (p *Player) Loop() LoopMode {
	return p.loop
}

// Running reports whether the player is scheduled on the mixer.
func (p *Player) Running() bool {
	return p.running
}

// Enabled reports whether the player contributes to the pose.
func (p *Player) Enabled() bool {
	return p.enabled
}

// SetEnabled enables or disables the player without touching its clock.
func (p *Player) SetEnabled(enabled bool) *Player {
	p.enabled = enabled
	return p
}

// Time returns the local clock in seconds.
func (p *Player) Time() float32 {
	return p.time
}

// SetWeight sets the base weight, clamped to [0, 1].
func (p *Player) SetWeight(w float32) *Player {
	p.weight = float32(gomath.Max(0, gomath.Min(1, float64(w))))
	return p
}

// Weight returns the effective weight at the current mixer time: zero when
// disabled, otherwise the base weight scaled by any active fade.
func (p *Player) Weight() float32 {
	if !p.enabled {
		return 0
	}
	w := p.weight
	if p.fade != nil {
		w *= p.fade.at(p.mixer.time)
	}
	return w
}

// IsFading reports whether a weight fade is in progress.
func (p *Player) IsFading() bool {
	return p.fade != nil
}

// FadeIn ramps the weight from 0 to 1 over d seconds.
func (p *Player) FadeIn(d float32) *Player {
	return p.scheduleFade(d, 0, 1)
}

// FadeOut ramps the weight from 1 to 0 over d seconds. The player is
// disabled when the fade completes.
func (p *Player) FadeOut(d float32) *Player {
	return p.scheduleFade(d, 1, 0)
}

// CrossFadeTo fades this player out and other in over the same d seconds.
func (p *Player) CrossFadeTo(other *Player, d float32) *Player {
	p.FadeOut(d)
	other.FadeIn(d)
	return p
}

// StopFading cancels the fade, leaving the base weight in effect.
func (p *Player) StopFading() *Player {
	p.fade = nil
	return p
}

func (p *Player) scheduleFade(d, from, to float32) *Player {
	now := p.mixer.time
	p.fade = &ramp{start: now, end: now + float64(d), from: from, to: to}
	return p
}

// advance moves the local clock by dt and applies the loop mode.
func (p *Player) advance(dt float32) {
	dur := p.clip.Duration
	p.time += dt

	switch p.loop {
	case LoopOnce:
		if p.time >= dur {
			p.time = dur
			p.enabled = false
		} else if p.time < 0 {
			p.time = 0
		}
	default:
		if dur > 0 {
			p.time = float32(gomath.Mod(float64(p.time), float64(dur)))
			if p.time < 0 {
				p.time += dur
			}
		}
	}
}

// updateWeight evaluates the fade at now, finishing it once now has passed
// its end. A fade that finishes at zero disables the player.
func (p *Player) updateWeight(now float64) float32 {
	if !p.enabled {
		return 0
	}
	w := p.weight
	if p.fade != nil {
		v := p.fade.at(now)
		w *= v
		if now > p.fade.end {
			p.fade = nil
			if v == 0 {
				p.enabled = false
			}
		}
	}
	return w
}
