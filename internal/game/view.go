package game

import (
	"github.com/Faultbox/avatar-rig/internal/engine/camera"
	"github.com/Faultbox/avatar-rig/internal/engine/picking"
	"github.com/Faultbox/avatar-rig/internal/engine/skeleton"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

// Segment is a line in screen pixels.
type Segment struct {
	X1, Y1, X2, Y2 float32
}

// JointPoint is a joint projected to screen pixels.
type JointPoint struct {
	Name string
	X, Y float32
}

// SkeletonView is a skeleton projected for drawing.
type SkeletonView struct {
	Joints []JointPoint
	Bones  []Segment // Parent to child
}

// ProjectSkeleton projects every joint of skel to a w by h viewport.
// Joints behind the camera are dropped with their bones.
func ProjectSkeleton(skel *skeleton.Skeleton, model, viewProj math.Mat4, w, h int) SkeletonView {
	world := skel.WorldTransforms(model)

	type projected struct {
		x, y float32
		ok   bool
	}
	points := make([]projected, len(world))

	var view SkeletonView
	for i, m := range world {
		pos := math.Vec3{X: m[12], Y: m[13], Z: m[14]}
		x, y, ok := camera.Project(viewProj, pos, w, h)
		points[i] = projected{x, y, ok}
		if !ok {
			continue
		}
		view.Joints = append(view.Joints, JointPoint{
			Name: skel.Joint(skeleton.Handle(i)).Name,
			X:    x,
			Y:    y,
		})
	}

	for i := range points {
		parent := skel.Joint(skeleton.Handle(i)).Parent
		if !parent.Valid() || !points[i].ok || !points[parent].ok {
			continue
		}
		view.Bones = append(view.Bones, Segment{
			X1: points[parent].x, Y1: points[parent].y,
			X2: points[i].x, Y2: points[i].y,
		})
	}

	return view
}

// BoundsOutline returns the twelve projected edges of box placed by model.
func BoundsOutline(box picking.AABB, model, viewProj math.Mat4, w, h int) []Segment {
	lo, hi := box.Min, box.Max
	corners := [8]math.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, {X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z}, {X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z}, {X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z}, {X: lo.X, Y: hi.Y, Z: hi.Z},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}

	mvp := viewProj.Mul(model)
	segs := make([]Segment, 0, len(edges))
	for _, e := range edges {
		x1, y1, ok1 := camera.Project(mvp, corners[e[0]], w, h)
		x2, y2, ok2 := camera.Project(mvp, corners[e[1]], w, h)
		if ok1 && ok2 {
			segs = append(segs, Segment{x1, y1, x2, y2})
		}
	}
	return segs
}
