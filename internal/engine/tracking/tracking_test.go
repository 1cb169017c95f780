package tracking

import (
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Faultbox/avatar-rig/internal/engine/skeleton"
	"github.com/Faultbox/avatar-rig/pkg/formats"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

const eps = 1e-4

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) <= eps
}

func TestDegrees(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float32
		limit  float32
		dx, dy float32
	}{
		{"center", 500, 400, 50, 0, 0},
		{"left edge", 0, 400, 50, -50, 0},
		{"right edge", 1000, 400, 50, 50, 0},
		{"top edge halves the limit", 500, 0, 50, 0, -25},
		{"bottom edge", 500, 800, 50, 0, 50},
		{"upper right quadrant", 750, 200, 50, 25, -12.5},
		{"waist upper right", 750, 200, 30, 15, -7.5},
		{"lower left", 250, 600, 30, -15, 15},
		{"off screen left clamps", -400, 400, 50, -50, 0},
		{"off screen below clamps", 500, 2000, 30, 0, 30},
		{"off screen above clamps", 500, -800, 50, 0, -25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := Degrees(tt.x, tt.y, 1000, 800, tt.limit, DefaultUpScale)
			if !near(dx, tt.dx) || !near(dy, tt.dy) {
				t.Errorf("Degrees(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestDegreesZeroViewport(t *testing.T) {
	if dx, dy := Degrees(10, 10, 0, 0, 50, DefaultUpScale); dx != 0 || dy != 0 {
		t.Errorf("zero viewport gave (%v, %v)", dx, dy)
	}
}

func TestDegreesNonFinite(t *testing.T) {
	nan := float32(gomath.NaN())
	inf := float32(gomath.Inf(1))

	tests := []struct {
		name         string
		x, y, w, h   float32
		wantX, wantY float32
	}{
		{"nan x", nan, 0, 1000, 800, 0, -25},
		{"nan y", 1000, nan, 1000, 800, 50, 0},
		{"infinite x", -inf, 800, 1000, 800, 0, 50},
		{"nan viewport", 0, 0, nan, 800, 0, 0},
		{"infinite viewport", 0, 0, 1000, inf, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := Degrees(tt.x, tt.y, tt.w, tt.h, 50, DefaultUpScale)
			if !near(dx, tt.wantX) || !near(dy, tt.wantY) {
				t.Errorf("Degrees = (%v, %v), want (%v, %v)", dx, dy, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestDegreesContinuousThroughCenter(t *testing.T) {
	// Stepping across the center never jumps
	prev, _ := Degrees(499, 400, 1000, 800, 50, DefaultUpScale)
	for x := float32(499.5); x <= 501; x += 0.5 {
		dx, _ := Degrees(x, 400, 1000, 800, 50, DefaultUpScale)
		if gomath.Abs(float64(dx-prev)) > 0.06 {
			t.Errorf("jump of %v deg at x=%v", dx-prev, x)
		}
		prev = dx
	}
}

func TestDegreesNeverExceedsLimit(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		x := r.Float32()*3000 - 1000
		y := r.Float32()*3000 - 1000
		for _, limit := range []float32{50, 30} {
			dx, dy := Degrees(x, y, 1000, 800, limit, DefaultUpScale)
			if math.Abs(dx) > limit+eps || math.Abs(dy) > limit+eps {
				t.Fatalf("Degrees(%v, %v) limit %v = (%v, %v)", x, y, limit, dx, dy)
			}
		}
	}
}

func TestPointerNDC(t *testing.T) {
	tests := []struct {
		p    Pointer
		want math.Vec2
	}{
		{Center(1000, 800), math.Vec2{}},
		{Pointer{0, 0, 1000, 800}, math.Vec2{X: -1, Y: 1}},
		{Pointer{1000, 800, 1000, 800}, math.Vec2{X: 1, Y: -1}},
		{Pointer{750, 200, 1000, 800}, math.Vec2{X: 0.5, Y: 0.5}},
		{Pointer{5, 5, 0, 0}, math.Vec2{}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.p.NDC(), cmpopts.EquateApprox(0, eps)); diff != "" {
			t.Errorf("NDC(%+v) mismatch (-want +got):\n%s", tt.p, diff)
		}
	}
}

func testSkeleton(t *testing.T, names ...string) *skeleton.Skeleton {
	t.Helper()
	rig := &formats.Rig{}
	for i, n := range names {
		j := formats.RigJoint{Name: n}
		if i > 0 {
			j.Parent = names[i-1]
		}
		rig.Joints = append(rig.Joints, j)
	}
	s, err := skeleton.FromRig(rig)
	if err != nil {
		t.Fatalf("FromRig failed: %v", err)
	}
	return s
}

func TestTrackerApply(t *testing.T) {
	s := testSkeleton(t, "hips", "spine", "neck")
	tr := NewTracker(s, []JointRef{{"neck", 50}, {"spine", 30}}, Options{})
	if !tr.Enabled() {
		t.Fatal("tracker disabled with both joints present")
	}

	tr.Apply(Pointer{X: 750, Y: 200, ViewportW: 1000, ViewportH: 800})

	neck, _ := s.Lookup("neck")
	spine, _ := s.Lookup("spine")

	type euler struct{ Yaw, Pitch float32 }
	opt := cmpopts.EquateApprox(0, 1e-3)

	gotNeck := euler{math.RadToDeg(s.Joint(neck).Yaw), math.RadToDeg(s.Joint(neck).Pitch)}
	if diff := cmp.Diff(euler{25, -12.5}, gotNeck, opt); diff != "" {
		t.Errorf("neck mismatch (-want +got):\n%s", diff)
	}
	gotSpine := euler{math.RadToDeg(s.Joint(spine).Yaw), math.RadToDeg(s.Joint(spine).Pitch)}
	if diff := cmp.Diff(euler{15, -7.5}, gotSpine, opt); diff != "" {
		t.Errorf("spine mismatch (-want +got):\n%s", diff)
	}

	// Fixed 50:30 ratio between the joints
	if ratio := s.Joint(neck).Yaw / s.Joint(spine).Yaw; !near(ratio, 50.0/30.0) {
		t.Errorf("neck:spine yaw ratio = %v, want 5/3", ratio)
	}
}

func TestTrackerCenterIsRest(t *testing.T) {
	// Both joints carry a non-identity rest rotation
	tilt := math.QuatFromAxisAngle(math.Vec3{Z: 1}, math.DegToRad(45))
	lean := math.QuatFromAxisAngle(math.Vec3{X: 1}, math.DegToRad(10))
	s, err := skeleton.FromRig(&formats.Rig{Joints: []formats.RigJoint{
		{Name: "spine", Rotation: &[4]float32{lean.X, lean.Y, lean.Z, lean.W}},
		{Name: "neck", Parent: "spine", Rotation: &[4]float32{tilt.X, tilt.Y, tilt.Z, tilt.W}},
	}})
	if err != nil {
		t.Fatalf("FromRig failed: %v", err)
	}
	tr := NewTracker(s, []JointRef{{"neck", 50}, {"spine", 30}}, Options{})

	tr.Apply(Pointer{X: 100, Y: 100, ViewportW: 1000, ViewportH: 800})
	neck, _ := s.Lookup("neck")
	if got := s.Joint(neck).Rotation.Angle(s.Joint(neck).Rest); got < math.DegToRad(10) {
		t.Errorf("off-center pointer deflected the neck only %v rad", got)
	}

	tr.Apply(Center(1000, 800))

	for _, name := range []string{"neck", "spine"} {
		h, _ := s.Lookup(name)
		j := s.Joint(h)
		if j.Yaw != 0 || j.Pitch != 0 {
			t.Errorf("%s at center = (%v, %v), want (0, 0)", name, j.Yaw, j.Pitch)
		}
		if got := j.Rotation.Angle(j.Rest); got > 1e-3 {
			t.Errorf("%s at center is %v deg from rest", name, math.RadToDeg(got))
		}
	}
}

func TestTrackerMissingJointWritesNothing(t *testing.T) {
	s := testSkeleton(t, "hips", "neck")
	tr := NewTracker(s, []JointRef{{"neck", 50}, {"mixamorigSpine", 30}}, Options{})
	if tr.Enabled() {
		t.Fatal("tracker enabled with a missing joint")
	}

	tr.Apply(Pointer{X: 0, Y: 0, ViewportW: 1000, ViewportH: 800})

	neck, _ := s.Lookup("neck")
	if j := s.Joint(neck); j.Yaw != 0 || j.Rotation != math.QuatIdentity() {
		t.Error("disabled tracker wrote to the neck")
	}
}
