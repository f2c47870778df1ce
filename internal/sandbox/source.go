package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/zeusync/mesim/internal/core/avatar"
	"github.com/zeusync/mesim/internal/core/entity"
	"github.com/zeusync/mesim/internal/core/observability/log"
)

var ErrAssetUnavailable = errors.New("sandbox: asset unavailable")

// asset is what a finished download would leave behind. Every completion
// builds a fresh entity from it, so a cached asset never hands out an entity
// that was already retired.
type asset struct {
	id   string
	name string
}

// Source pretends to download avatars. Each load takes delay; concurrent
// requests for one id share a single load and finished loads are cached.
// Ids containing "fail" never load.
type Source struct {
	delay  time.Duration
	logger log.Log

	group singleflight.Group
	mu    sync.RWMutex
	cache map[uint64]asset
	loads atomic.Int64
}

func NewSource(delay time.Duration, logger log.Log) *Source {
	if logger == nil {
		logger = log.Nop()
	}
	return &Source{delay: delay, logger: logger, cache: make(map[uint64]asset)}
}

// Loads counts loads that actually ran, cache hits and shared waits excluded.
func (s *Source) Loads() int64 { return s.loads.Load() }

func (s *Source) Request(ctx context.Context, id string, done func(avatar.Result)) {
	go func() {
		a, err := s.fetch(ctx, id)
		if err != nil {
			done(avatar.Result{ID: id, Err: err})
			return
		}
		done(avatar.Result{ID: id, Entity: entity.New(a.name)})
	}()
}

func (s *Source) fetch(ctx context.Context, id string) (asset, error) {
	key := xxhash.Sum64String(id)
	s.mu.RLock()
	a, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && a.id == id {
		return a, nil
	}

	v, err, shared := s.group.Do(id, func() (any, error) {
		n := s.loads.Add(1)
		s.logger.Debug("sandbox load started", log.String("source", id), log.Int64("loads", n))
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if strings.Contains(id, "fail") {
			return nil, fmt.Errorf("%w: %s", ErrAssetUnavailable, id)
		}
		a := asset{id: id, name: assetName(id)}
		s.mu.Lock()
		s.cache[key] = a
		s.mu.Unlock()
		return a, nil
	})
	if err != nil {
		s.logger.Debug("sandbox load failed", log.String("source", id), log.Error(err))
		return asset{}, err
	}
	if shared {
		s.logger.Debug("sandbox load shared", log.String("source", id))
	}
	return v.(asset), nil
}

// assetName picks a readable name out of an avatar URL: the host for
// sandbox://robot, the file stem for https://cdn/x/robot.glb.
func assetName(id string) string {
	u, err := url.Parse(id)
	if err != nil {
		return id
	}
	if u.Opaque != "" {
		return u.Opaque
	}
	if base := path.Base(u.Path); base != "/" && base != "." {
		return strings.TrimSuffix(base, path.Ext(base))
	}
	if u.Host != "" {
		return u.Host
	}
	return id
}
