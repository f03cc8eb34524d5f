// Package service implements the account and driver operations behind the
// REST API, reading through the shared cache.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/cache"
)

// readThrough returns the cached value for key, or loads it and caches the
// result. Cache failures are logged and never fail the read.
func readThrough[T any](ctx context.Context, store cache.Store, log *logrus.Entry, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	found, err := store.Get(ctx, key, &cached)
	if err != nil {
		log.WithError(err).WithField("cache_key", key).Warn("Cache read failed")
	}
	if found {
		log.WithField("cache_key", key).Debug("Cache hit")
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := store.Set(ctx, key, value, 0); err != nil {
		log.WithError(err).WithField("cache_key", key).Warn("Cache write failed")
	}
	return value, nil
}

// invalidate deletes keys, logging rather than returning failures
func invalidate(ctx context.Context, store cache.Store, log *logrus.Entry, keys ...string) {
	if err := store.Delete(ctx, keys...); err != nil {
		log.WithError(err).WithField("cache_keys", keys).Warn("Cache invalidation failed")
	}
}
