package suntime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/mkarvo/sunshift/pkg/config"
	"github.com/mkarvo/sunshift/pkg/redis"
)

// Sun data for a civil day never changes, so cached entries only need to
// outlive the tomorrow-fetch of the following run.
const cacheTTL = 48 * time.Hour

// CachedProvider is a read-through Redis cache in front of another
// Provider. Cache failures degrade to a plain fetch and are never fatal;
// a cache miss combined with a fetch failure propagates the fetch error.
type CachedProvider struct {
	next     Provider
	store    redis.Client
	lat, lon float64
	loc      *time.Location
	logger   *slog.Logger
}

// NewCachedProvider wraps a provider with a Redis-backed day cache
func NewCachedProvider(next Provider, store redis.Client, cfg *config.Config, loc *time.Location, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		store:  store,
		lat:    cfg.Latitude,
		lon:    cfg.Longitude,
		loc:    loc,
		logger: logger,
	}
}

// SunTimes resolves sun data from the cache, falling back to the wrapped provider
func (c *CachedProvider) SunTimes(ctx context.Context, date time.Time) (SunTimes, error) {
	day := date.In(c.loc).Format("2006-01-02")
	key := redis.SunTimesKey(c.lat, c.lon, day)

	if raw, err := c.store.Get(ctx, key); err == nil {
		var st SunTimes
		if err := json.Unmarshal([]byte(raw), &st); err == nil {
			c.logger.Debug("Sun data cache hit", "date", day)
			return SunTimes{Sunrise: st.Sunrise.In(c.loc), Sunset: st.Sunset.In(c.loc)}, nil
		}
		c.logger.Warn("Discarding malformed sun data cache entry", "key", key)
	} else if !errors.Is(err, redis.ErrNotFound) {
		c.logger.Warn("Sun data cache read failed", "key", key, "error", err)
	}

	st, err := c.next.SunTimes(ctx, date)
	if err != nil {
		return SunTimes{}, err
	}

	if raw, err := json.Marshal(st); err == nil {
		if err := c.store.Set(ctx, key, raw, cacheTTL); err != nil {
			c.logger.Warn("Sun data cache write failed", "key", key, "error", err)
		}
	}

	return st, nil
}
