// Package company resolves security codes to display names: a local table
// first, then an optional remote lookup whose hits may be cached.
package company

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/tradepulse/internal/logger"
)

// Remote looks a name up outside the local table.
type Remote interface {
	Lookup(ctx context.Context, code string) (string, error)
}

// Resolver implements ledger.NameResolver.
type Resolver struct {
	local  Table
	remote Remote
	cache  Cache
	ttl    time.Duration
	log    zerolog.Logger

	mu   sync.Mutex
	miss map[string]struct{} // remote misses, not retried within a process
}

// NewResolver builds a Resolver. remote and cache may be nil.
func NewResolver(local Table, remote Remote, cache Cache, ttl time.Duration) *Resolver {
	if local == nil {
		local = Table{}
	}
	return &Resolver{
		local:  local,
		remote: remote,
		cache:  cache,
		ttl:    ttl,
		log:    logger.Component("company"),
		miss:   make(map[string]struct{}),
	}
}

// GetCompanyName returns the display name for code, or false when unknown.
// Lookup failures are logged and reported as unknown.
func (r *Resolver) GetCompanyName(ctx context.Context, code string) (string, bool) {
	code = strings.TrimSpace(code)
	if name, ok := r.local.GetCompanyName(ctx, code); ok {
		return name, true
	}
	if r.remote == nil {
		return "", false
	}

	r.mu.Lock()
	_, missed := r.miss[code]
	r.mu.Unlock()
	if missed {
		return "", false
	}

	if r.cache != nil {
		name, ok, err := r.cache.Get(ctx, code)
		if err != nil {
			r.log.Warn().Err(err).Str("code", code).Msg("name cache read failed")
		} else if ok && name != "" {
			return name, true
		}
	}

	name, err := r.remote.Lookup(ctx, code)
	if err != nil || name == "" {
		r.log.Debug().Err(err).Str("code", code).Msg("remote name lookup failed")
		r.mu.Lock()
		r.miss[code] = struct{}{}
		r.mu.Unlock()
		return "", false
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, code, name, r.ttl); err != nil {
			r.log.Warn().Err(err).Str("code", code).Msg("name cache write failed")
		}
	}
	return name, true
}
