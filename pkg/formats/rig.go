// Package formats provides parsers for character rig manifests.
// A rig manifest is a YAML document describing a skeleton, its pick bounds
// and the keyframed clips authored for it.
package formats

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rig format errors.
var (
	ErrInvalidRig = errors.New("invalid rig manifest")
	ErrEmptyRig   = errors.New("rig manifest has no joints")
)

// Loop mode names accepted in manifests.
const (
	LoopRepeat = "repeat"
	LoopOnce   = "once"
)

// RigBounds is the character's axis-aligned bounding box in model space.
type RigBounds struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// RigJoint is one bone of the skeleton.
type RigJoint struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent"`             // Empty for the root
	Offset   [3]float32  `yaml:"offset"`             // Translation from the parent
	Rotation *[4]float32 `yaml:"rotation,omitempty"` // Rest rotation x, y, z, w (identity if omitted)
}

// RigTrack is a rotation keyframe track targeting one joint.
type RigTrack struct {
	Joint     string       `yaml:"joint"`
	Times     []float32    `yaml:"times"`     // Seconds, ascending
	Rotations [][4]float32 `yaml:"rotations"` // x, y, z, w per key
}

// RigClip is an authored animation clip.
type RigClip struct {
	Name     string     `yaml:"name"`
	Duration float32    `yaml:"duration"` // Seconds
	Loop     string     `yaml:"loop"`     // "repeat" (default) or "once"
	Tracks   []RigTrack `yaml:"tracks"`
}

// Rig represents a parsed rig manifest.
type Rig struct {
	Name   string     `yaml:"name"`
	Idle   string     `yaml:"idle"` // Name of the idle clip
	Bounds RigBounds  `yaml:"bounds"`
	Joints []RigJoint `yaml:"joints"`
	Clips  []RigClip  `yaml:"clips"`
}

// Clip returns the clip with the given name.
func (r *Rig) Clip(name string) (*RigClip, bool) {
	for i := range r.Clips {
		if r.Clips[i].Name == name {
			return &r.Clips[i], true
		}
	}
	return nil, false
}

// ClipNames returns clip names in manifest order.
func (r *Rig) ClipNames() []string {
	names := make([]string, len(r.Clips))
	for i := range r.Clips {
		names[i] = r.Clips[i].Name
	}
	return names
}

// ParseRig parses and validates a rig manifest.
func ParseRig(data []byte) (*Rig, error) {
	var rig Rig
	if err := yaml.Unmarshal(data, &rig); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRig, err)
	}
	if err := rig.Validate(); err != nil {
		return nil, err
	}
	return &rig, nil
}

// LoadRig reads and parses a rig manifest from disk.
func LoadRig(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rig: %w", err)
	}
	return ParseRig(data)
}

// Validate checks structural consistency of the manifest.
// Parents must be declared before their children.
func (r *Rig) Validate() error {
	if len(r.Joints) == 0 {
		return ErrEmptyRig
	}

	joints := make(map[string]bool, len(r.Joints))
	for i, j := range r.Joints {
		if j.Name == "" {
			return fmt.Errorf("%w: joint %d has no name", ErrInvalidRig, i)
		}
		if joints[j.Name] {
			return fmt.Errorf("%w: duplicate joint %q", ErrInvalidRig, j.Name)
		}
		if j.Parent != "" && !joints[j.Parent] {
			return fmt.Errorf("%w: joint %q references undeclared parent %q", ErrInvalidRig, j.Name, j.Parent)
		}
		joints[j.Name] = true
	}

	clips := make(map[string]bool, len(r.Clips))
	for _, c := range r.Clips {
		if c.Name == "" {
			return fmt.Errorf("%w: clip without a name", ErrInvalidRig)
		}
		if clips[c.Name] {
			return fmt.Errorf("%w: duplicate clip %q", ErrInvalidRig, c.Name)
		}
		clips[c.Name] = true

		if c.Duration <= 0 {
			return fmt.Errorf("%w: clip %q has non-positive duration %v", ErrInvalidRig, c.Name, c.Duration)
		}
		switch c.Loop {
		case "", LoopRepeat, LoopOnce:
		default:
			return fmt.Errorf("%w: clip %q has unknown loop mode %q", ErrInvalidRig, c.Name, c.Loop)
		}

		for _, tr := range c.Tracks {
			if !joints[tr.Joint] {
				return fmt.Errorf("%w: clip %q animates unknown joint %q", ErrInvalidRig, c.Name, tr.Joint)
			}
			if len(tr.Times) == 0 || len(tr.Times) != len(tr.Rotations) {
				return fmt.Errorf("%w: clip %q track %q has %d times and %d rotations",
					ErrInvalidRig, c.Name, tr.Joint, len(tr.Times), len(tr.Rotations))
			}
			for k := 1; k < len(tr.Times); k++ {
				if tr.Times[k] < tr.Times[k-1] {
					return fmt.Errorf("%w: clip %q track %q times are not ascending", ErrInvalidRig, c.Name, tr.Joint)
				}
			}
		}
	}

	if r.Idle != "" && !clips[r.Idle] {
		return fmt.Errorf("%w: idle clip %q not found", ErrInvalidRig, r.Idle)
	}
	return nil
}
