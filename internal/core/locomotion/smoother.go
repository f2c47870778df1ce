package locomotion

import (
	"math"

	"github.com/zeusync/mesim/internal/core/systems/physics"
)

// Input is a 2D stick-style signal with both axes in [-1, 1].
type Input struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Magnitude is the length of the input vector.
func (in Input) Magnitude() float64 {
	return math.Hypot(in.X, in.Y)
}

// StepInput moves each axis of current toward desired by at most maxDelta. The
// approach is linear, so convergence time is distance / maxDelta ticks.
func StepInput(current, desired Input, maxDelta float64) Input {
	return Input{
		X: clampUnit(physics.MoveTowards(current.X, clampUnit(desired.X), maxDelta)),
		Y: clampUnit(physics.MoveTowards(current.Y, clampUnit(desired.Y), maxDelta)),
	}
}

// Smoother holds the running input. The value only ever changes through StepInput.
type Smoother struct {
	maxDelta float64
	current  Input
}

func NewSmoother(maxDelta float64) *Smoother {
	return &Smoother{maxDelta: maxDelta}
}

func (s *Smoother) Step(desired Input) Input {
	s.current = StepInput(s.current, desired, s.maxDelta)
	return s.current
}

func (s *Smoother) Current() Input { return s.current }

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
