// Package locomotion drives a controlled entity toward a target point with a
// smoothed heading and two speed bands.
package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/mesim/internal/core/systems/physics"
)

// Step is the outcome of one Advance call.
type Step struct {
	Transform physics.Transform
	// Speed is the continuous speed the animation layer blends on. Zero when
	// nothing moved.
	Speed   float64
	Running bool
	Arrived bool
}

// Engine integrates one entity's motion per tick. It is not safe for
// concurrent use; the controller calls it from the tick goroutine only.
type Engine struct {
	cfg      Config
	camera   Camera
	smoother *Smoother
	// toggled is the RunByToggle input, owned by the mode toggle.
	toggled bool
}

func NewEngine(cfg Config, camera Camera) *Engine {
	return &Engine{cfg: cfg, camera: camera, smoother: NewSmoother(cfg.InputSmoothing)}
}

func (e *Engine) Config() Config { return e.cfg }

// SetRunning feeds the external toggle used by RunByToggle.
func (e *Engine) SetRunning(running bool) { e.toggled = running }

// Input is the current smoothed camera-relative input.
func (e *Engine) Input() Input { return e.smoother.Current() }

// Advance moves tr toward target by dt seconds. A target inside its arrival
// radius (measured on the floor plane) reports Arrived and leaves tr alone.
// Movement is clamped to the remaining distance so the entity never
// overshoots and oscillates.
func (e *Engine) Advance(tr physics.Transform, target Target, dt float64) Step {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if tr.Rotation.Len() == 0 {
		tr.Rotation = mgl64.QuatIdent()
	}

	planar := physics.PlanarDistance(tr.Position, target.Point)
	if planar <= target.ArrivalRadius {
		if e.cfg.Steering == SteerCameraRelative {
			e.smoother.Step(Input{})
		}
		return Step{Transform: tr, Arrived: true}
	}

	running := e.running(planar)
	speed := e.cfg.WalkSpeed
	if running {
		speed = e.cfg.RunSpeed
	}

	if e.cfg.Steering == SteerCameraRelative {
		return e.advanceCameraRelative(tr, target, speed, running, planar, dt)
	}
	return e.advanceWorldDirect(tr, target, speed, running, dt)
}

func (e *Engine) advanceWorldDirect(tr physics.Transform, target Target, speed float64, running bool, dt float64) Step {
	disp := target.Point.Sub(tr.Position)
	dist := disp.Len()
	dir := disp.Mul(1 / dist)

	tr.Position = tr.Position.Add(dir.Mul(math.Min(speed*dt, dist)))
	if heading, ok := physics.Heading(dir); ok {
		tr.Rotation = physics.Slerp(tr.Rotation, heading, e.cfg.TurnGain*dt)
	}
	return Step{Transform: tr, Speed: speed, Running: running}
}

func (e *Engine) advanceCameraRelative(tr physics.Transform, target Target, speed float64, running bool, planar, dt float64) Step {
	right, forward := e.axes()
	dir := physics.NormalizeOrZero(target.Point.Sub(tr.Position))

	in := e.smoother.Step(Input{X: dir.Dot(right), Y: dir.Dot(forward)})
	move := right.Mul(in.X).Add(forward.Mul(in.Y))
	if move.Len() == 0 {
		return Step{Transform: tr, Running: running}
	}
	moveDir := move.Normalize()

	tr.Position = tr.Position.Add(moveDir.Mul(math.Min(speed*dt, planar)))
	if heading, ok := physics.Heading(moveDir); ok {
		tr.Rotation = physics.Slerp(tr.Rotation, heading, e.cfg.TurnGain*dt)
	}
	return Step{Transform: tr, Speed: speed * math.Min(1, in.Magnitude()), Running: running}
}

// axes returns the camera's right and flattened forward axes, falling back to
// world axes without a camera.
func (e *Engine) axes() (right, forward mgl64.Vec3) {
	if e.camera == nil {
		return physics.Right, physics.Forward
	}
	right = physics.NormalizeOrZero(physics.Flatten(e.camera.Right()))
	forward = physics.NormalizeOrZero(physics.Flatten(e.camera.Forward()))
	return right, forward
}

func (e *Engine) running(planar float64) bool {
	switch e.cfg.RunPolicy {
	case RunByToggle:
		return e.toggled
	case WalkOnly:
		return false
	default:
		return planar > e.cfg.RunDistance
	}
}

// Reset drops smoothed input, e.g. when a target is cleared by an emote.
func (e *Engine) Reset() {
	e.smoother = NewSmoother(e.cfg.InputSmoothing)
}
