package avatar

import (
	"context"
	"strings"
	"time"

	"github.com/zeusync/mesim/internal/core/observability/log"
	"github.com/zeusync/mesim/internal/core/presence"
)

type Config struct {
	// DefaultSource is loaded on startup when nothing was ever persisted.
	DefaultSource string
	// PersistKey names the stored value holding the last good source.
	PersistKey     string
	LoadingText    string
	ReadyText      string
	FailedText     string
	ResultDuration time.Duration
}

func DefaultConfig() Config {
	return Config{
		PersistKey:     "last_source",
		LoadingText:    "Loading avatar...",
		ReadyText:      "Avatar loaded",
		FailedText:     "Avatar failed to load",
		ResultDuration: 2 * time.Second,
	}
}

// Loader issues one request at a time and queues completions for the tick
// thread. Load, Startup and Drain must be called from that thread; only the
// completion callback may run elsewhere.
type Loader struct {
	cfg      Config
	source   Source
	store    Store
	notifier presence.Notifier
	logger   log.Log

	mailbox  chan Result
	inFlight bool
}

func NewLoader(cfg Config, source Source, store Store, notifier presence.Notifier, logger log.Log) *Loader {
	if store == nil {
		store = NewMemoryStore()
	}
	if notifier == nil {
		notifier = presence.NopNotifier()
	}
	if logger == nil {
		logger = log.Nop()
	}
	if cfg.PersistKey == "" {
		cfg.PersistKey = DefaultConfig().PersistKey
	}
	return &Loader{
		cfg:      cfg,
		source:   source,
		store:    store,
		notifier: notifier,
		logger:   logger,
		mailbox:  make(chan Result, 1),
	}
}

// InFlight reports whether a request is outstanding.
func (l *Loader) InFlight() bool { return l.inFlight }

// Load validates id and requests it from the source.
func (l *Loader) Load(ctx context.Context, id string) error {
	id, err := ValidateSource(id)
	if err != nil {
		return err
	}
	if l.inFlight {
		return ErrLoadInFlight
	}
	l.inFlight = true
	l.notifier.ShowPersistent(l.cfg.LoadingText)
	l.logger.Debug("avatar requested", log.String("source", id))

	l.source.Request(ctx, id, func(r Result) {
		if r.ID == "" {
			r.ID = id
		}
		select {
		case l.mailbox <- r:
		default:
			// a source that calls done twice loses the duplicate
			l.logger.Warn("avatar result dropped", log.String("source", r.ID))
		}
	})
	return nil
}

// Startup reads the persisted source once and loads it. A stored empty value
// means the user cleared it, so nothing happens; an absent value falls back
// to the configured default.
func (l *Loader) Startup(ctx context.Context) error {
	value, ok, err := l.store.Load(l.cfg.PersistKey)
	if err != nil {
		l.logger.Warn("reading persisted avatar failed", log.Error(err))
		ok = false
	}
	if !ok {
		if l.cfg.DefaultSource == "" {
			return nil
		}
		value = l.cfg.DefaultSource
	}
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := ValidateSource(value); err != nil {
		l.logger.Debug("persisted avatar skipped", log.String("source", value), log.Error(err))
		return nil
	}
	return l.Load(ctx, value)
}

// Drain hands every completed load to handle, in completion order. It never
// blocks. A result without an entity arrives with Err set to ErrEmptyResult.
// The source is persisted and reported as loaded only when the load succeeded
// and handle accepted it by returning nil.
func (l *Loader) Drain(handle func(Result) error) int {
	n := 0
	for {
		select {
		case r := <-l.mailbox:
			l.settle(r, handle)
			n++
		default:
			return n
		}
	}
}

func (l *Loader) settle(r Result, handle func(Result) error) {
	l.inFlight = false
	if r.Err == nil && r.Entity == nil {
		r.Err = ErrEmptyResult
	}

	err := r.Err
	if handle != nil {
		if herr := handle(r); err == nil {
			err = herr
		}
	}
	if err != nil {
		l.logger.Warn("avatar load failed", log.String("source", r.ID), log.Error(err))
		l.notifier.ShowTemporary(l.cfg.FailedText, l.cfg.ResultDuration)
		return
	}

	l.notifier.ShowTemporary(l.cfg.ReadyText, l.cfg.ResultDuration)
	if err := l.store.Save(l.cfg.PersistKey, r.ID); err != nil {
		l.logger.Warn("persisting avatar failed", log.String("source", r.ID), log.Error(err))
		return
	}
	l.logger.Info("avatar loaded", log.String("source", r.ID), log.Stringer("entity", r.Entity.ID))
}
