// Package math provides the vector, quaternion and matrix types used by the rig.
package math

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}
