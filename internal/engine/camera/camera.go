// Package camera provides the fixed perspective camera the character is
// viewed through.
package camera

import (
	"github.com/Faultbox/avatar-rig/pkg/math"
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	FovY float32 // Vertical field of view, degrees
	Near float32
	Far  float32
}

// Default returns the showcase camera: 30 units back, slightly below the
// origin, 50 degree FOV.
func Default() Camera {
	return Camera{
		Position: math.Vec3{X: 0, Y: -3, Z: 30},
		Target:   math.Vec3{X: 0, Y: -3, Z: 0},
		Up:       math.Vec3{X: 0, Y: 1, Z: 0},
		FovY:     50,
		Near:     0.1,
		Far:      1000,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c Camera) ViewMatrix() math.Mat4 {
	up := c.Up
	if up == (math.Vec3{}) {
		up = math.Vec3{X: 0, Y: 1, Z: 0}
	}
	return math.LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix for the given aspect ratio
// (width / height).
func (c Camera) Projection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(math.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// ViewProj returns projection * view for a w by h viewport.
func (c Camera) ViewProj(w, h int) math.Mat4 {
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	return c.Projection(aspect).Mul(c.ViewMatrix())
}

// Project maps a world-space point to pixel coordinates in a w by h
// viewport. ok is false for points behind the camera.
func Project(viewProj math.Mat4, p math.Vec3, w, h int) (x, y float32, ok bool) {
	clip := viewProj.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	x = (ndcX + 1) / 2 * float32(w)
	y = (1 - ndcY) / 2 * float32(h)
	return x, y, true
}
