// Package avatar requests replacement entities from an external asset source
// and hands finished loads back to the tick thread.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zeusync/mesim/internal/core/entity"
)

var (
	ErrInvalidSource = errors.New("avatar: invalid source")
	ErrLoadInFlight  = errors.New("avatar: load already in flight")
	ErrEmptyResult   = errors.New("avatar: source returned no entity")
)

// Result is the single completion of a Source request.
type Result struct {
	ID     string
	Entity *entity.Entity
	Err    error
}

// OK reports whether the load produced an entity.
func (r Result) OK() bool { return r.Err == nil && r.Entity != nil }

// Source loads avatars asynchronously. done is called exactly once per
// request, later, from any goroutine.
type Source interface {
	Request(ctx context.Context, id string, done func(Result))
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, id string, done func(Result))

func (f SourceFunc) Request(ctx context.Context, id string, done func(Result)) {
	f(ctx, id, done)
}

// ValidateSource trims id and checks it is an absolute URL: a scheme plus a
// host, an opaque part or a path.
func ValidateSource(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSource)
	}
	u, err := url.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("%w: %q is not absolute", ErrInvalidSource, id)
	}
	if u.Host == "" && u.Opaque == "" && u.Path == "" {
		return "", fmt.Errorf("%w: %q has nothing after the scheme", ErrInvalidSource, id)
	}
	return id, nil
}
