package animation

import (
	"fmt"

	"github.com/Faultbox/avatar-rig/internal/engine/skeleton"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

// Mixer owns the players of one skeleton and writes their weighted blend
// into it every update.
type Mixer struct {
	skel    *skeleton.Skeleton
	time    float64
	players map[*Clip]*Player
	active  []*Player

	// Per-joint accumulation scratch, sized to the skeleton.
	accum  []math.Quat
	weight []float32
	bound  []bool
}

// NewMixer creates a mixer for skel.
func NewMixer(skel *skeleton.Skeleton) *Mixer {
	n := skel.Len()
	return &Mixer{
		skel:    skel,
		players: make(map[*Clip]*Player),
		accum:   make([]math.Quat, n),
		weight:  make([]float32, n),
		bound:   make([]bool, n),
	}
}

// Time returns the mixer clock in seconds.
func (m *Mixer) Time() float64 {
	return m.time
}

// Player returns the player for clip, creating it on first use. Every track
// must target a joint of the mixer's skeleton.
func (m *Mixer) Player(clip *Clip) (*Player, error) {
	if p, ok := m.players[clip]; ok {
		return p, nil
	}

	p := &Player{
		mixer:    m,
		clip:     clip,
		bindings: make([]binding, 0, len(clip.Tracks)),
		loop:     clip.Loop,
		weight:   1,
		enabled:  true,
	}
	for i := range clip.Tracks {
		tr := &clip.Tracks[i]
		h, ok := m.skel.Lookup(tr.Joint)
		if !ok {
			return nil, fmt.Errorf("clip %q: joint %q not in skeleton", clip.Name, tr.Joint)
		}
		p.bindings = append(p.bindings, binding{joint: h, track: tr})
	}

	m.players[clip] = p
	return p, nil
}

// Active returns the players currently scheduled on the mixer.
func (m *Mixer) Active() []*Player {
	return m.active
}

func (m *Mixer) activate(p *Player) {
	m.active = append(m.active, p)
}

// Update advances the mixer by dt seconds and writes the blended pose.
//
// Joints bound by any running player are overwritten: with the weighted
// blend of contributing tracks, mixed toward the rest rotation when the
// total weight is below one. Unbound joints are left untouched.
func (m *Mixer) Update(dt float32) {
	m.time += float64(dt)

	for i := range m.weight {
		m.weight[i] = 0
		m.bound[i] = false
	}

	for _, p := range m.active {
		for _, b := range p.bindings {
			m.bound[b.joint] = true
		}

		// Disabled players with nothing to fade are skipped entirely
		if !p.enabled {
			p.updateWeight(m.time)
			continue
		}

		p.advance(dt)
		w := p.updateWeight(m.time)
		if w <= 0 {
			continue
		}

		for _, b := range p.bindings {
			q := b.track.Sample(p.time)
			total := m.weight[b.joint] + w
			if m.weight[b.joint] == 0 {
				m.accum[b.joint] = q
			} else {
				m.accum[b.joint] = m.accum[b.joint].Slerp(q, w/total)
			}
			m.weight[b.joint] = total
		}
	}

	for i := range m.bound {
		if !m.bound[i] {
			continue
		}
		h := skeleton.Handle(i)
		rest := m.skel.Joint(h).Rest
		w := m.weight[i]
		switch {
		case w <= 0:
			m.skel.SetRotation(h, rest)
		case w < 1:
			m.skel.SetRotation(h, rest.Slerp(m.accum[i], w))
		default:
			m.skel.SetRotation(h, m.accum[i])
		}
	}
}
