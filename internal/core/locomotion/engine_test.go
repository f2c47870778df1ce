package locomotion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mesim/internal/core/systems/physics"
)

const tickDt = 1.0 / 60

type fixedCamera struct{ right, forward mgl64.Vec3 }

func (c fixedCamera) Right() mgl64.Vec3   { return c.right }
func (c fixedCamera) Forward() mgl64.Vec3 { return c.forward }

func TestAdvanceInsideArrivalRadius(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	start := physics.NewTransform(mgl64.Vec3{1, 0, 1})

	for _, p := range []mgl64.Vec3{{1, 0, 1}, {1.05, 0, 1.05}, {1, 3, 1}, {1.09, 0, 1}} {
		step := e.Advance(start, Target{Point: p, ArrivalRadius: 0.1}, tickDt)
		assert.True(t, step.Arrived, "target %v", p)
		assert.Zero(t, step.Speed)
		assert.Equal(t, start, step.Transform)
	}
}

func TestAdvanceMonotonicallyApproaches(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := NewEngine(DefaultConfig(), nil)

	for trial := 0; trial < 50; trial++ {
		target := Target{
			Point:         mgl64.Vec3{rng.Float64()*20 - 10, rng.Float64() * 0.5, rng.Float64()*20 - 10},
			ArrivalRadius: rng.Float64() * 0.3,
		}
		dt := rng.Float64() * 0.1
		tr := physics.NewTransform(mgl64.Vec3{})
		last := tr.Position.Sub(target.Point).Len()

		arrived := false
		for i := 0; i < 100000 && !arrived; i++ {
			step := e.Advance(tr, target, dt)
			if step.Arrived {
				arrived = true
				break
			}
			d := step.Transform.Position.Sub(target.Point).Len()
			require.LessOrEqual(t, d, last+1e-12, "trial %d tick %d moved away", trial, i)
			last = d
			tr = step.Transform
		}
		if dt > 0 {
			require.True(t, arrived, "trial %d never arrived", trial)
		}
	}
}

func TestAdvanceConvergesOnTappedPoint(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	target := Target{Point: mgl64.Vec3{2, 0.02, 3}, ArrivalRadius: 0.1}
	tr := physics.NewTransform(mgl64.Vec3{})

	arrivals, ticks := 0, 0
	for ; ticks < 1000; ticks++ {
		step := e.Advance(tr, target, tickDt)
		tr = step.Transform
		if step.Arrived {
			arrivals++
			break
		}
		assert.Equal(t, 2.5, step.Speed)
		assert.False(t, step.Running)
	}
	assert.Equal(t, 1, arrivals)
	assert.Less(t, tr.Position.Sub(target.Point).Len(), 0.1)
	// 3.6 units at 2.5 u/s is roughly 86 ticks
	assert.InDelta(t, 86, ticks, 3)
}

func TestAdvanceNeverOvershoots(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	target := Target{Point: mgl64.Vec3{0, 0, 0.3}}
	step := e.Advance(physics.NewTransform(mgl64.Vec3{}), target, 10)

	assert.InDelta(t, 0.3, step.Transform.Position.Z(), 1e-12)
	assert.True(t, e.Advance(step.Transform, target, tickDt).Arrived)
}

func TestRunPolicies(t *testing.T) {
	far := Target{Point: mgl64.Vec3{0, 0, 20}, ArrivalRadius: 0.1}
	near := Target{Point: mgl64.Vec3{0, 0, 2}, ArrivalRadius: 0.1}
	origin := physics.NewTransform(mgl64.Vec3{})

	byDistance := NewEngine(DefaultConfig(), nil)
	assert.True(t, byDistance.Advance(origin, far, tickDt).Running)
	assert.Equal(t, 5.0, byDistance.Advance(origin, far, tickDt).Speed)
	assert.False(t, byDistance.Advance(origin, near, tickDt).Running)

	cfg := DefaultConfig()
	cfg.RunPolicy = RunByToggle
	byToggle := NewEngine(cfg, nil)
	assert.False(t, byToggle.Advance(origin, far, tickDt).Running)
	byToggle.SetRunning(true)
	assert.True(t, byToggle.Advance(origin, near, tickDt).Running)

	cfg.RunPolicy = WalkOnly
	walkOnly := NewEngine(cfg, nil)
	walkOnly.SetRunning(true)
	assert.Equal(t, 2.5, walkOnly.Advance(origin, far, tickDt).Speed)
}

func TestRotationTurnsGradually(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	tr := physics.NewTransform(mgl64.Vec3{})
	target := Target{Point: mgl64.Vec3{10, 0, 0}, ArrivalRadius: 0.1}

	step := e.Advance(tr, target, tickDt)
	yaw := physics.YawDegrees(step.Transform.Rotation)
	assert.Greater(t, yaw, 0.0)
	assert.Less(t, yaw, 90.0, "heading must not snap")

	for i := 0; i < 120; i++ {
		step = e.Advance(step.Transform, target, tickDt)
	}
	assert.InDelta(t, 90, physics.YawDegrees(step.Transform.Rotation), 0.5)
}

func TestZeroRotationIsTreatedAsIdentity(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	step := e.Advance(physics.Transform{}, Target{Point: mgl64.Vec3{0, 0, 5}}, tickDt)
	assert.False(t, math.IsNaN(step.Transform.Rotation.W))
}

func TestCameraRelativeFollowsTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steering = SteerCameraRelative
	// camera looking slightly down at the floor
	e := NewEngine(cfg, fixedCamera{right: mgl64.Vec3{1, 0, 0}, forward: mgl64.Vec3{0, -0.5, 1}})
	target := Target{Point: mgl64.Vec3{3, 0, 4}, ArrivalRadius: 0.1}
	tr := physics.NewTransform(mgl64.Vec3{})

	first := e.Advance(tr, target, tickDt)
	// input ramps up from zero instead of jumping
	assert.InDelta(t, 0.1, e.Input().X, 1e-12)
	assert.InDelta(t, 0.1, e.Input().Y, 1e-12)
	assert.InDelta(t, 2.5*math.Hypot(0.1, 0.1), first.Speed, 1e-9)

	arrived := false
	tr = first.Transform
	for i := 0; i < 1000 && !arrived; i++ {
		step := e.Advance(tr, target, tickDt)
		arrived = step.Arrived
		tr = step.Transform
		assert.Zero(t, tr.Position.Y())
	}
	require.True(t, arrived)
	assert.LessOrEqual(t, physics.PlanarDistance(tr.Position, target.Point), 0.1)

	// arrival winds the input back down gradually
	before := e.Input()
	e.Advance(tr, target, tickDt)
	assert.InDelta(t, math.Max(0, before.X-0.1), e.Input().X, 1e-12)
}

func TestParseEnums(t *testing.T) {
	m, err := ParseSteeringMode("camera_relative")
	require.NoError(t, err)
	assert.Equal(t, SteerCameraRelative, m)
	_, err = ParseSteeringMode("sideways")
	assert.Error(t, err)

	p, err := ParseRunPolicy("toggle")
	require.NoError(t, err)
	assert.Equal(t, RunByToggle, p)
	assert.Equal(t, "walk_only", WalkOnly.String())
	_, err = ParseRunPolicy("sprint")
	assert.Error(t, err)
}
