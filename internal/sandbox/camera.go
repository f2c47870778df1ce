package sandbox

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FixedCamera is a camera that never moves, pitched down around the X axis.
type FixedCamera struct {
	right, up, forward mgl64.Vec3
}

func NewFixedCamera(pitchDeg float64) FixedCamera {
	p := mgl64.DegToRad(pitchDeg)
	return FixedCamera{
		right:   mgl64.Vec3{1, 0, 0},
		up:      mgl64.Vec3{0, math.Cos(p), math.Sin(p)},
		forward: mgl64.Vec3{0, -math.Sin(p), math.Cos(p)},
	}
}

func (c FixedCamera) Right() mgl64.Vec3   { return c.right }
func (c FixedCamera) Up() mgl64.Vec3      { return c.up }
func (c FixedCamera) Forward() mgl64.Vec3 { return c.forward }
