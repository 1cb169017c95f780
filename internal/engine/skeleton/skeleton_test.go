package skeleton

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/avatar-rig/pkg/formats"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

func testRig() *formats.Rig {
	return &formats.Rig{
		Joints: []formats.RigJoint{
			{Name: "hips", Offset: [3]float32{0, 1, 0}},
			{Name: "spine", Parent: "hips", Offset: [3]float32{0, 0.5, 0}},
			{Name: "neck", Parent: "spine", Offset: [3]float32{0, 0.5, 0}, Rotation: &[4]float32{0, 0, 0, 2}},
		},
	}
}

func TestFromRig(t *testing.T) {
	s, err := FromRig(testRig())
	if err != nil {
		t.Fatalf("FromRig failed: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 joints, got %d", s.Len())
	}

	h, ok := s.Lookup("spine")
	if !ok || h != 1 {
		t.Fatalf("Lookup(spine) = %v, %v", h, ok)
	}
	if p := s.Joint(h).Parent; p != 0 {
		t.Errorf("spine parent = %d, want 0", p)
	}
	if s.Joint(0).Parent.Valid() {
		t.Error("root should have no parent")
	}

	// Rest rotation is normalized on load
	neck, _ := s.Lookup("neck")
	if got := s.Joint(neck).Rest; got != math.QuatIdentity() {
		t.Errorf("neck rest = %+v, want identity", got)
	}
}

func TestFromRigUndeclaredParent(t *testing.T) {
	rig := &formats.Rig{Joints: []formats.RigJoint{{Name: "a", Parent: "b"}}}
	if _, err := FromRig(rig); err == nil {
		t.Error("expected error for undeclared parent")
	}
}

func TestLookupMissing(t *testing.T) {
	s, _ := FromRig(testRig())
	h, ok := s.Lookup("tail")
	if ok || h.Valid() {
		t.Errorf("Lookup(tail) = %v, %v; want invalid", h, ok)
	}
}

func TestSetEuler(t *testing.T) {
	s, _ := FromRig(testRig())
	neck, _ := s.Lookup("neck")

	yaw := math.DegToRad(25)
	s.SetEuler(neck, 0, yaw)

	j := s.Joint(neck)
	if j.Yaw != yaw || j.Pitch != 0 {
		t.Errorf("euler = (%v, %v), want (0, %v)", j.Pitch, j.Yaw, yaw)
	}
	if got := j.Rotation.Angle(math.QuatIdentity()); gomath.Abs(float64(got-yaw)) > 1e-5 {
		t.Errorf("rotation angle = %v, want %v", got, yaw)
	}
}

func TestSetEulerKeepsRest(t *testing.T) {
	r := math.QuatFromAxisAngle(math.Vec3{Z: 1}, math.DegToRad(45))
	s, err := FromRig(&formats.Rig{Joints: []formats.RigJoint{
		{Name: "neck", Rotation: &[4]float32{r.X, r.Y, r.Z, r.W}},
	}})
	if err != nil {
		t.Fatalf("FromRig failed: %v", err)
	}
	neck, _ := s.Lookup("neck")
	j := s.Joint(neck)

	s.SetEuler(neck, 0, 0)
	if got := j.Rotation.Angle(j.Rest); got > 1e-3 {
		t.Errorf("zero deflection moved the joint %v rad from rest", got)
	}

	yaw := math.DegToRad(20)
	s.SetEuler(neck, 0, yaw)
	if got := j.Rotation.Angle(j.Rest); gomath.Abs(float64(got-yaw)) > 1e-3 {
		t.Errorf("deflection from rest = %v rad, want %v", got, yaw)
	}
}

func TestWorldTransforms(t *testing.T) {
	s, _ := FromRig(testRig())
	spine, _ := s.Lookup("spine")

	// Tilt the spine 90 degrees about Z; the neck swings from +Y to -X
	s.SetRotation(spine, math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/2))

	world := s.WorldTransforms(math.Identity())
	neck := world[2].TransformPoint(math.Vec3{})
	want := math.Vec3{X: -0.5, Y: 1.5}
	if neck.Sub(want).Length() > 1e-4 {
		t.Errorf("neck world position = %v, want %v", neck, want)
	}
}
