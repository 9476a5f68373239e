package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/identityadmin/admin-service/internal/api/metrics"
	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
)

const (
	defaultGeoTTL = 6 * time.Hour
	keyPrefix     = "geo:"

	// loadTimeout bounds a shared storage load once it is detached from the
	// caller that started it.
	loadTimeout = 5 * time.Second
)

// Store is the subset of the Redis client the cache needs. *redis.Client
// satisfies it.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// GeoCache is a read-through cache in front of a GeoRepository. Reference
// data changes rarely, so entries simply expire after the TTL. Misses on the
// same key are collapsed into one storage read. When Redis is unavailable
// every call is served from storage.
//
// Key format: geo:<kind>:<id...>
type GeoCache struct {
	inner  ports.GeoRepository
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger zerolog.Logger
}

var _ ports.GeoRepository = (*GeoCache)(nil)

// NewGeoCache wraps inner. A non-positive ttl selects the default.
func NewGeoCache(inner ports.GeoRepository, store Store, ttl time.Duration, logger zerolog.Logger) *GeoCache {
	if ttl <= 0 {
		ttl = defaultGeoTTL
	}
	return &GeoCache{
		inner:  inner,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *GeoCache) Countries(ctx context.Context) ([]domain.Country, error) {
	return readThrough(ctx, c, keyPrefix+"countries", func(ctx context.Context) ([]domain.Country, error) {
		return c.inner.Countries(ctx)
	})
}

func (c *GeoCache) States(ctx context.Context, countryID string) ([]domain.State, error) {
	return readThrough(ctx, c, keyPrefix+"states:"+countryID, func(ctx context.Context) ([]domain.State, error) {
		return c.inner.States(ctx, countryID)
	})
}

func (c *GeoCache) Cities(ctx context.Context, countryID, stateID string) ([]domain.City, error) {
	return readThrough(ctx, c, keyPrefix+"cities:"+countryID+":"+stateID, func(ctx context.Context) ([]domain.City, error) {
		return c.inner.Cities(ctx, countryID, stateID)
	})
}

func (c *GeoCache) CountryByID(ctx context.Context, id string) (*domain.Country, error) {
	return readThrough(ctx, c, keyPrefix+"country:"+id, func(ctx context.Context) (*domain.Country, error) {
		return c.inner.CountryByID(ctx, id)
	})
}

func (c *GeoCache) StateByID(ctx context.Context, id string) (*domain.State, error) {
	return readThrough(ctx, c, keyPrefix+"state:"+id, func(ctx context.Context) (*domain.State, error) {
		return c.inner.StateByID(ctx, id)
	})
}

func (c *GeoCache) CityByID(ctx context.Context, id string) (*domain.City, error) {
	return readThrough(ctx, c, keyPrefix+"city:"+id, func(ctx context.Context) (*domain.City, error) {
		return c.inner.CityByID(ctx, id)
	})
}

type lookup int

const (
	lookupHit lookup = iota
	lookupMiss
	lookupError
)

func (l lookup) String() string {
	switch l {
	case lookupHit:
		return "hit"
	case lookupMiss:
		return "miss"
	default:
		return "error"
	}
}

// readThrough serves key from Redis or loads it from storage and stores it.
// Errors from storage, NotFound included, are returned as is and never cached.
func readThrough[T any](ctx context.Context, c *GeoCache, key string, load func(context.Context) (T, error)) (T, error) {
	v, res := fromCache[T](ctx, c, key)
	metrics.GeoCacheTotal.WithLabelValues(res.String()).Inc()
	if res == lookupHit {
		return v, nil
	}

	out, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Other callers wait on this flight; one caller going away must not
		// fail the load for the rest.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		// A concurrent flight may have filled the key after our miss.
		if res == lookupMiss {
			if v, again := fromCache[T](ctx, c, key); again == lookupHit {
				return v, nil
			}
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if res == lookupMiss {
			c.put(ctx, key, v)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

func fromCache[T any](ctx context.Context, c *GeoCache, key string) (T, lookup) {
	var v T
	raw, err := c.store.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return v, lookupMiss
	case err != nil:
		c.logger.Warn().Err(err).Str("key", key).Msg("geo cache read failed, serving from storage")
		return v, lookupError
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable geo cache entry")
		return v, lookupMiss
	}
	return v, lookupHit
}

func (c *GeoCache) put(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("encode geo cache entry")
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("geo cache write failed")
	}
}
