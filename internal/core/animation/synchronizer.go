package animation

import (
	"github.com/zeusync/mesim/internal/core/observability/log"
)

// DefaultEmoteDuration is how long an emote holds the animator, in seconds.
const DefaultEmoteDuration = 2.0

// EmoteLock is a timed override. It ends only by expiry, checked against the
// tick clock; nothing else can cut it short.
type EmoteLock struct {
	Active    bool    `json:"active"`
	ExpiresAt float64 `json:"expires_at"`
	Emote     string  `json:"emote,omitempty"`
}

type Config struct {
	// WalkThreshold is the highest speed still mapped to Walk.
	WalkThreshold float64
	EmoteDuration float64
	// Emotes lists the accepted emote names. Empty accepts any non-empty name.
	Emotes []string
}

func DefaultConfig() Config {
	return Config{
		WalkThreshold: 2.5,
		EmoteDuration: DefaultEmoteDuration,
		Emotes:        []string{"wave", "dance", "clap"},
	}
}

// Synchronizer keeps the animator state in step with locomotion.
type Synchronizer struct {
	cfg     Config
	catalog map[string]struct{}
	logger  log.Log

	state State
	// underlying is the locomotion-driven state, tracked even while an emote
	// holds the animator so expiry can hand control straight back.
	underlying State
	lock       EmoteLock
	// ended is set when a lock expires and reported by the next Update.
	ended     bool
	lastEmote string
}

func NewSynchronizer(cfg Config, logger log.Log) *Synchronizer {
	if logger == nil {
		logger = log.Nop()
	}
	if cfg.EmoteDuration <= 0 {
		cfg.EmoteDuration = DefaultEmoteDuration
	}
	catalog := make(map[string]struct{}, len(cfg.Emotes))
	for _, name := range cfg.Emotes {
		catalog[name] = struct{}{}
	}
	return &Synchronizer{cfg: cfg, catalog: catalog, logger: logger}
}

func (s *Synchronizer) State() State { return s.state }

func (s *Synchronizer) Lock() EmoteLock { return s.lock }

// LastEmote names the most recently expired emote.
func (s *Synchronizer) LastEmote() string { return s.lastEmote }

// Locked reports whether an emote still holds the animator at now.
func (s *Synchronizer) Locked(now float64) bool {
	return s.lock.Active && now < s.lock.ExpiresAt
}

// Update maps this tick's locomotion into the animator state. expired is true
// on the tick an emote lock ran out.
func (s *Synchronizer) Update(now, speed float64, arrived bool) (state State, expired bool) {
	s.underlying = Map(speed, s.cfg.WalkThreshold, arrived)
	s.expire(now)
	expired, s.ended = s.ended, false
	if !s.lock.Active {
		s.state = s.underlying
	}
	return s.state, expired
}

// RequestEmote starts a named emote. Only an idle animator accepts one, and a
// running emote rejects every further request until it expires.
func (s *Synchronizer) RequestEmote(now float64, name string) error {
	s.expire(now)
	if s.lock.Active {
		return ErrEmoteLocked
	}
	if s.state != Idle {
		return ErrNotIdle
	}
	if !s.known(name) {
		return ErrUnknownEmote
	}
	s.lock = EmoteLock{Active: true, ExpiresAt: now + s.cfg.EmoteDuration, Emote: name}
	s.state = Emote
	s.logger.Debug("emote started", log.String("emote", name), log.Float64("expires_at", s.lock.ExpiresAt))
	return nil
}

func (s *Synchronizer) expire(now float64) {
	if !s.lock.Active || now < s.lock.ExpiresAt {
		return
	}
	s.logger.Debug("emote finished", log.String("emote", s.lock.Emote))
	s.lastEmote = s.lock.Emote
	s.lock = EmoteLock{}
	s.state = s.underlying
	s.ended = true
}

func (s *Synchronizer) known(name string) bool {
	if name == "" {
		return false
	}
	if len(s.catalog) == 0 {
		return true
	}
	_, ok := s.catalog[name]
	return ok
}
