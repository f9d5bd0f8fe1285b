package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/spherical/flipbook-studio/internal/cache"
	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/observability"
)

// CachedResolver memoizes successful resolutions by normalized command text.
type CachedResolver struct {
	next   domain.CommandResolver
	cache  cache.Client
	ttl    time.Duration
	logger *observability.Logger
}

// NewCachedResolver wraps next with c.
func NewCachedResolver(next domain.CommandResolver, c cache.Client, ttl time.Duration, logger *observability.Logger) *CachedResolver {
	if logger == nil {
		logger = observability.Nop()
	}
	return &CachedResolver{next: next, cache: c, ttl: ttl, logger: logger.WithComponent("resolver-cache")}
}

// CacheKey returns the cache key for a command.
func CacheKey(command string) string {
	return cache.Key("voice", strings.Join(strings.Fields(strings.ToLower(command)), " "))
}

// Resolve serves from cache when possible. Cache failures never fail a
// resolution; errors from next are not cached.
func (r *CachedResolver) Resolve(ctx context.Context, command string) (*domain.CommandResolution, error) {
	key := CacheKey(command)

	data, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var res domain.CommandResolution
		if jsonErr := json.Unmarshal(data, &res); jsonErr == nil {
			return &res, nil
		}
		_ = r.cache.Delete(ctx, key)
	case !errors.Is(err, cache.ErrCacheMiss):
		r.logger.Warn().Err(err).Msg("cache read failed")
	}

	res, err := r.next.Resolve(ctx, command)
	if err != nil {
		return nil, err
	}

	if res != nil && res.Action != "" {
		if encoded, jsonErr := json.Marshal(res); jsonErr == nil {
			if setErr := r.cache.Set(ctx, key, encoded, r.ttl); setErr != nil {
				r.logger.Warn().Err(setErr).Msg("cache write failed")
			}
		}
	}
	return res, nil
}
