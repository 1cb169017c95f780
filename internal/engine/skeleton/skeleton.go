// Package skeleton holds the joint hierarchy a character is posed with.
package skeleton

import (
	"fmt"

	"github.com/Faultbox/avatar-rig/pkg/formats"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

// Handle is a stable index of a joint inside its skeleton.
type Handle int

// InvalidHandle is returned for joints that could not be resolved.
const InvalidHandle Handle = -1

// Valid reports whether h refers to a joint.
func (h Handle) Valid() bool {
	return h >= 0
}

// Joint is a named bone with a mutable local rotation.
type Joint struct {
	Name   string
	Parent Handle

	Offset math.Vec3 // Translation from the parent joint
	Rest   math.Quat // Rotation when nothing drives the joint

	Rotation math.Quat // Current local rotation

	// Last Euler angles written procedurally, in radians.
	Pitch float32
	Yaw   float32
}

// Skeleton is a flat list of joints ordered parent-before-child.
type Skeleton struct {
	joints []Joint
	byName map[string]Handle
}

// FromRig builds a skeleton at rest pose from a rig manifest.
func FromRig(rig *formats.Rig) (*Skeleton, error) {
	s := &Skeleton{
		joints: make([]Joint, 0, len(rig.Joints)),
		byName: make(map[string]Handle, len(rig.Joints)),
	}

	for _, rj := range rig.Joints {
		parent := InvalidHandle
		if rj.Parent != "" {
			p, ok := s.byName[rj.Parent]
			if !ok {
				return nil, fmt.Errorf("joint %q: parent %q not declared before it", rj.Name, rj.Parent)
			}
			parent = p
		}

		rest := math.QuatIdentity()
		if rj.Rotation != nil {
			rest = math.Q(*rj.Rotation).Normalize()
		}

		s.byName[rj.Name] = Handle(len(s.joints))
		s.joints = append(s.joints, Joint{
			Name:     rj.Name,
			Parent:   parent,
			Offset:   math.V3(rj.Offset),
			Rest:     rest,
			Rotation: rest,
		})
	}

	return s, nil
}

// Lookup resolves a joint name to a handle.
func (s *Skeleton) Lookup(name string) (Handle, bool) {
	h, ok := s.byName[name]
	if !ok {
		return InvalidHandle, false
	}
	return h, true
}

// Len returns the number of joints.
func (s *Skeleton) Len() int {
	return len(s.joints)
}

// Joint returns the joint for h. It panics on an invalid handle.
func (s *Skeleton) Joint(h Handle) *Joint {
	return &s.joints[h]
}

// SetRotation sets a joint's local rotation.
func (s *Skeleton) SetRotation(h Handle, q math.Quat) {
	s.joints[h].Rotation = q
}

// SetEuler deflects a joint from its rest rotation by pitch (about X) and
// yaw (about Y) in radians.
func (s *Skeleton) SetEuler(h Handle, pitch, yaw float32) {
	j := &s.joints[h]
	j.Pitch = pitch
	j.Yaw = yaw
	j.Rotation = j.Rest.Mul(math.QuatFromEuler(pitch, yaw, 0))
}

// WorldTransforms computes each joint's model-space transform under root.
func (s *Skeleton) WorldTransforms(root math.Mat4) []math.Mat4 {
	world := make([]math.Mat4, len(s.joints))
	for i := range s.joints {
		j := &s.joints[i]
		local := math.Compose(j.Offset, j.Rotation)
		if j.Parent.Valid() {
			world[i] = world[j.Parent].Mul(local)
		} else {
			world[i] = root.Mul(local)
		}
	}
	return world
}
