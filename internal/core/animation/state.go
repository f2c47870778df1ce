// Package animation maps continuous locomotion onto the discrete states an
// animator understands, with a timed override for one-shot emotes.
package animation

import "errors"

var (
	ErrEmoteLocked  = errors.New("animation: emote already playing")
	ErrNotIdle      = errors.New("animation: emotes only start from idle")
	ErrUnknownEmote = errors.New("animation: unknown emote")
)

// State is the animator's discrete state.
type State uint8

const (
	Idle State = iota
	Walk
	Run
	Emote
)

func (s State) String() string {
	switch s {
	case Walk:
		return "walk"
	case Run:
		return "run"
	case Emote:
		return "emote"
	default:
		return "idle"
	}
}

// MarshalText lets snapshots carry the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Map classifies a speed into a locomotion state. Arrival forces Idle so
// residual speed noise at the goal does not flicker Walk.
func Map(speed, walkThreshold float64, arrived bool) State {
	switch {
	case arrived || speed <= 0:
		return Idle
	case speed <= walkThreshold:
		return Walk
	default:
		return Run
	}
}
