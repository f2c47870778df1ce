// Package physics holds the small amount of spatial math the controller needs:
// planar distances, heading quaternions and bounded approach helpers. Vectors
// are mgl64 values; +Y is up and +Z is the identity forward.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
	Right   = mgl64.Vec3{1, 0, 0}
)

// minHeadingLenSq is the squared horizontal length below which a direction is
// treated as vertical and carries no heading.
const minHeadingLenSq = 1e-4

// Transform is position, orientation and scale of a scene entity.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform returns a transform at pos with identity rotation and unit scale.
func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{Position: pos, Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1}}
}

// Flatten drops the vertical component.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// PlanarDistance is the distance between a and b measured on the XZ plane.
func PlanarDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(b.X()-a.X(), b.Z()-a.Z())
}

// NormalizeOrZero avoids the NaNs mgl64 produces for zero-length vectors.
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Heading returns the upright rotation that faces the horizontal part of dir.
// ok is false when dir is (almost) vertical.
func Heading(dir mgl64.Vec3) (q mgl64.Quat, ok bool) {
	flat := Flatten(dir)
	if flat.Dot(flat) < minHeadingLenSq {
		return mgl64.QuatIdent(), false
	}
	return mgl64.QuatRotate(math.Atan2(flat.X(), flat.Z()), Up), true
}

// Slerp interpolates along the shortest arc. t is clamped to [0, 1].
func Slerp(from, to mgl64.Quat, t float64) mgl64.Quat {
	t = mgl64.Clamp(t, 0, 1)
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl64.QuatSlerp(from, to, t).Normalize()
}

// YawDegrees reports the heading of q around +Y in degrees, 0 facing +Z.
func YawDegrees(q mgl64.Quat) float64 {
	f := q.Rotate(Forward)
	return mgl64.RadToDeg(math.Atan2(f.X(), f.Z()))
}

// AngleBetween is the rotation angle in radians separating two orientations.
func AngleBetween(a, b mgl64.Quat) float64 {
	d := math.Abs(a.Normalize().Dot(b.Normalize()))
	return 2 * math.Acos(mgl64.Clamp(d, -1, 1))
}

// MoveTowards moves current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if maxDelta < 0 {
		maxDelta = 0
	}
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}
