package picking

import (
	"testing"

	"github.com/Faultbox/avatar-rig/internal/engine/camera"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

func TestNewAABBOrdersCorners(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: -2, Z: 3}, math.Vec3{X: -1, Y: 2, Z: -3})
	want := AABB{Min: math.Vec3{X: -1, Y: -2, Z: -3}, Max: math.Vec3{X: 1, Y: 2, Z: 3}}
	if box != want {
		t.Errorf("NewAABB = %+v, want %+v", box, want)
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"head on", Ray{math.Vec3{Z: 5}, math.Vec3{Z: -1}}, true, 4},
		{"miss to the side", Ray{math.Vec3{X: 2, Z: 5}, math.Vec3{Z: -1}}, false, 0},
		{"pointing away", Ray{math.Vec3{Z: 5}, math.Vec3{Z: 1}}, false, 0},
		{"from inside", Ray{math.Vec3{}, math.Vec3{X: 1}}, true, 1},
		{"parallel outside", Ray{math.Vec3{Y: 3}, math.Vec3{X: 1}}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && math.Abs(got-tt.wantT) > 1e-4 {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestScreenToRayThroughCenter(t *testing.T) {
	c := camera.Default()
	inv := c.ViewProj(1000, 800).Inverse()

	ray := ScreenToRay(500, 400, 1000, 800, inv)

	// The center ray runs from the camera toward its target
	if ray.Direction.Z > -0.99 {
		t.Errorf("center ray direction = %+v, want ~(0, 0, -1)", ray.Direction)
	}
	if math.Abs(ray.Origin.X) > 1e-2 || math.Abs(ray.Origin.Y+3) > 1e-2 {
		t.Errorf("center ray origin = %+v, want on the view axis", ray.Origin)
	}
}

func TestCharacterHitTester(t *testing.T) {
	ht := &CharacterHitTester{
		Bounds: NewAABB(math.Vec3{X: -0.45, Y: 0, Z: -0.3}, math.Vec3{X: 0.45, Y: 1.75, Z: 0.3}),
		Model:  math.Translate(math.Vec3{Y: -11}).Mul(math.Scale(7)),
		Camera: camera.Default(),
	}

	tests := []struct {
		name string
		x, y float32
		hit  bool
	}{
		{"chest", 500, 400, true},
		{"far left", 50, 400, false},
		{"above the head", 500, 20, false},
		{"off screen", -100, -100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ht.Hit(tt.x, tt.y, 1000, 800); got != tt.hit {
				t.Errorf("Hit(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.hit)
			}
		})
	}

	if ht.Hit(500, 400, 0, 0) {
		t.Error("zero viewport reported a hit")
	}
}
