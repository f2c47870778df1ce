package locomotion

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// SteeringMode selects how the engine turns a target into motion.
type SteeringMode uint8

const (
	// SteerWorldDirect moves straight along the world-space displacement and
	// turns with a slerp toward the travel heading.
	SteerWorldDirect SteeringMode = iota
	// SteerCameraRelative derives stick-style input from the camera axes,
	// smooths it, and moves along the smoothed input.
	SteerCameraRelative
)

func (m SteeringMode) String() string {
	if m == SteerCameraRelative {
		return "camera_relative"
	}
	return "world_direct"
}

// ParseSteeringMode accepts the names produced by String.
func ParseSteeringMode(s string) (SteeringMode, error) {
	switch s {
	case "", "world_direct":
		return SteerWorldDirect, nil
	case "camera_relative":
		return SteerCameraRelative, nil
	}
	return 0, fmt.Errorf("unknown steering mode %q", s)
}

// RunPolicy decides when the run speed band applies. The sample scenes used
// both a distance threshold and a manual toggle; neither is the default truth,
// so the choice is configuration.
type RunPolicy uint8

const (
	// RunByDistance runs while the planar distance exceeds RunDistance.
	RunByDistance RunPolicy = iota
	// RunByToggle runs while the externally owned mode toggle says so.
	RunByToggle
	// WalkOnly uses a single speed band.
	WalkOnly
)

func (p RunPolicy) String() string {
	switch p {
	case RunByToggle:
		return "toggle"
	case WalkOnly:
		return "walk_only"
	default:
		return "distance"
	}
}

func ParseRunPolicy(s string) (RunPolicy, error) {
	switch s {
	case "", "distance":
		return RunByDistance, nil
	case "toggle":
		return RunByToggle, nil
	case "walk_only":
		return WalkOnly, nil
	}
	return 0, fmt.Errorf("unknown run policy %q", s)
}

// Config collapses the behavioral differences between controller variants.
type Config struct {
	Steering  SteeringMode
	RunPolicy RunPolicy

	WalkSpeed   float64 // units per second
	RunSpeed    float64 // units per second
	RunDistance float64 // RunByDistance threshold

	ArrivalRadius float64
	// TurnGain scales dt into the per-tick slerp fraction.
	TurnGain float64
	// InputSmoothing is the per-tick cap for camera-relative input changes.
	InputSmoothing float64
}

func DefaultConfig() Config {
	return Config{
		Steering:       SteerWorldDirect,
		RunPolicy:      RunByDistance,
		WalkSpeed:      2.5,
		RunSpeed:       5,
		RunDistance:    5,
		ArrivalRadius:  0.1,
		TurnGain:       10,
		InputSmoothing: 0.1,
	}
}

// Target is where the controlled entity is heading. An entity has at most one;
// a new tap replaces it wholesale.
type Target struct {
	Point         mgl64.Vec3 `json:"point"`
	ArrivalRadius float64    `json:"arrival_radius"`
	IssuedAt      float64    `json:"issued_at"`
}

// Camera exposes the axes camera-relative steering projects onto.
type Camera interface {
	Right() mgl64.Vec3
	Forward() mgl64.Vec3
}
