// Package picking provides ray casting against the character's bounds.
package picking

import (
	gomath "math"

	"github.com/Faultbox/avatar-rig/internal/engine/camera"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: math.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// ScreenToRay converts pixel coordinates to a ray in the space that
// invViewProj maps clip space into.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearPoint := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farPoint := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return Ray{Origin: nearPoint, Direction: farPoint.Sub(nearPoint).Normalize()}
}

func unproject(inv math.Mat4, v math.Vec4) math.Vec3 {
	w := inv.MulVec4(v)
	if w[3] != 0 {
		return math.Vec3{X: w[0] / w[3], Y: w[1] / w[3], Z: w[2] / w[3]}
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin, dir := r.Origin.Array(), r.Direction.Array()
	lo, hi := box.Min.Array(), box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// CharacterHitTester reports whether a screen position lands on the
// character. Bounds are in model space; Model places the character in the
// world.
type CharacterHitTester struct {
	Bounds AABB
	Model  math.Mat4
	Camera camera.Camera
}

// Hit casts a ray through pixel (x, y) of a w by h viewport.
func (c *CharacterHitTester) Hit(x, y float32, w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	// Unprojecting through the model matrix too yields a model-space ray.
	mvp := c.Camera.ViewProj(w, h).Mul(c.Model)
	ray := ScreenToRay(x, y, float32(w), float32(h), mvp.Inverse())
	_, hit := ray.IntersectAABB(c.Bounds)
	return hit
}
