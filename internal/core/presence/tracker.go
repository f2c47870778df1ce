// Package presence tracks whether a floor is currently visible at the center
// of the viewport and turns raw per-tick samples into debounced transitions.
package presence

import (
	"time"

	"github.com/zeusync/mesim/internal/core/observability/log"
)

// State is the session-wide floor detection state. EverDetected flips to true
// once and is never reset until the session restarts.
type State struct {
	CurrentlyDetected bool `json:"currently_detected"`
	EverDetected      bool `json:"ever_detected"`
}

// Transition is what a single Sample changed.
type Transition uint8

const (
	TransitionNone Transition = iota
	// TransitionFound is the first detection of the session.
	TransitionFound
	// TransitionRefound is any later detection after a loss.
	TransitionRefound
	TransitionLost
)

func (t Transition) String() string {
	switch t {
	case TransitionFound:
		return "found"
	case TransitionRefound:
		return "refound"
	case TransitionLost:
		return "lost"
	default:
		return "none"
	}
}

// Config holds tracker settings.
type Config struct {
	// DebounceSamples is how many consecutive disagreeing samples flip the
	// state. Values below 1 behave like 1 (no debounce).
	DebounceSamples int
	SearchingText   string
	FoundText       string
	SuccessDuration time.Duration
}

func DefaultConfig() Config {
	return Config{
		DebounceSamples: 1,
		SearchingText:   "Searching for floor... move your device slowly",
		FoundText:       "Floor detected! Tap to place",
		SuccessDuration: 2 * time.Second,
	}
}

// Tracker is a two-state machine fed one sample per tick.
type Tracker struct {
	cfg      Config
	notifier Notifier
	logger   log.Log

	state   State
	pending int
}

func NewTracker(cfg Config, notifier Notifier, logger log.Log) *Tracker {
	if cfg.DebounceSamples < 1 {
		cfg.DebounceSamples = 1
	}
	if notifier == nil {
		notifier = NopNotifier()
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Tracker{cfg: cfg, notifier: notifier, logger: logger}
}

// State returns a copy of the current state.
func (t *Tracker) State() State { return t.state }

// Sample feeds the result of this tick's center probe.
func (t *Tracker) Sample(detected bool) Transition {
	if detected == t.state.CurrentlyDetected {
		t.pending = 0
		return TransitionNone
	}
	t.pending++
	if t.pending < t.cfg.DebounceSamples {
		return TransitionNone
	}
	t.pending = 0

	if detected {
		return t.found()
	}
	return t.lost()
}

func (t *Tracker) found() Transition {
	t.state.CurrentlyDetected = true
	if !t.state.EverDetected {
		t.state.EverDetected = true
		t.notifier.ShowTemporary(t.cfg.FoundText, t.cfg.SuccessDuration)
		t.logger.Info("floor detected")
		return TransitionFound
	}
	ClearNotifier(t.notifier)
	t.logger.Debug("floor re-detected")
	return TransitionRefound
}

func (t *Tracker) lost() Transition {
	// CurrentlyDetected was true, so a found transition already happened.
	t.state.CurrentlyDetected = false
	t.notifier.ShowPersistent(t.cfg.SearchingText)
	t.logger.Debug("floor lost")
	return TransitionLost
}

// Reset starts a new session.
func (t *Tracker) Reset() {
	t.state = State{}
	t.pending = 0
}
