// Package cache provides the read-through cache used by user and driver
// lookups. Wager settlement never reads from it.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/config"
)

// Store is a TTL key/value cache holding JSON-encodable values
type Store interface {
	// Get decodes the cached value for key into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores value under key. A zero ttl uses the store default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Flush(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// New builds the store selected by cfg.Driver
func New(ctx context.Context, cfg config.CacheConfig, log *logrus.Logger) (Store, error) {
	switch cfg.Driver {
	case "memory", "":
		log.WithField("ttl", cfg.TTL()).Info("Using in-memory cache")
		return NewMemoryStore(cfg.TTL(), cfg.CleanupInterval()), nil
	case "redis":
		store, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.KeyPrefix,
			TTL:      cfg.TTL(),
		})
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"addr": cfg.RedisAddr, "ttl": cfg.TTL()}).Info("Using redis cache")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

const (
	// UsersAllKey caches the full user list
	UsersAllKey = "users_all"
	// DriversAllKey caches the full driver list
	DriversAllKey = "drivers_all"
)

// UserKey caches one user
func UserKey(username string) string {
	return "user_" + username
}

// DriverKey caches one driver
func DriverKey(id string) string {
	return "driver_" + id
}

// DriverRacesKey caches a driver's race history
func DriverRacesKey(id string) string {
	return "driver_races_" + id
}

// DriverSeasonKey caches a driver's standings for one season
func DriverSeasonKey(id string, season int) string {
	return "driver_season_" + id + "_" + strconv.Itoa(season)
}
