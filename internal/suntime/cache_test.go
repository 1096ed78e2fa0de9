package suntime

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarvo/sunshift/pkg/config"
	"github.com/mkarvo/sunshift/pkg/redis"
)

// fakeStore is an in-memory stand-in for the Redis client
type fakeStore struct {
	data    map[string]string
	getErr  error
	setErr  error
	getHits int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		f.data[key] = fmt.Sprintf("%v", v)
	}
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	f.getHits++
	if f.getErr != nil {
		return "", f.getErr
	}
	val, ok := f.data[key]
	if !ok {
		return "", fmt.Errorf("key %s: %w", key, redis.ErrNotFound)
	}
	return val, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                   { return nil }

// countingProvider records how many fetches pass through the cache
type countingProvider struct {
	st    SunTimes
	err   error
	calls int
}

func (p *countingProvider) SunTimes(ctx context.Context, date time.Time) (SunTimes, error) {
	p.calls++
	if p.err != nil {
		return SunTimes{}, p.err
	}
	return p.st, nil
}

func testSunTimes() SunTimes {
	return SunTimes{
		Sunrise: time.Date(2026, 3, 10, 4, 43, 0, 0, time.UTC),
		Sunset:  time.Date(2026, 3, 10, 16, 12, 0, 0, time.UTC),
	}
}

// defaultSunTimesKey is the cache key for the default config location
func defaultSunTimesKey() string {
	cfg := config.NewConfig()
	return redis.SunTimesKey(cfg.Latitude, cfg.Longitude, "2026-03-10")
}

func TestCachedProvider_MissFetchesAndStores(t *testing.T) {
	store := newFakeStore()
	inner := &countingProvider{st: testSunTimes()}
	cached := NewCachedProvider(inner, store, config.NewConfig(), time.UTC, testLogger())

	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	st, err := cached.SunTimes(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.True(t, st.Sunrise.Equal(testSunTimes().Sunrise))

	_, ok := store.data[defaultSunTimesKey()]
	assert.True(t, ok, "fetched sun data should be cached")
}

func TestCachedProvider_HitSkipsFetch(t *testing.T) {
	store := newFakeStore()
	inner := &countingProvider{st: testSunTimes()}
	cached := NewCachedProvider(inner, store, config.NewConfig(), time.UTC, testLogger())

	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	_, err := cached.SunTimes(context.Background(), date)
	require.NoError(t, err)

	st, err := cached.SunTimes(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second lookup should be served from cache")
	assert.True(t, st.Sunset.Equal(testSunTimes().Sunset))
}

func TestCachedProvider_FetchErrorPropagates(t *testing.T) {
	store := newFakeStore()
	inner := &countingProvider{err: ErrDataUnavailable}
	cached := NewCachedProvider(inner, store, config.NewConfig(), time.UTC, testLogger())

	_, err := cached.SunTimes(context.Background(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestCachedProvider_StoreFailureDegradesToFetch(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	inner := &countingProvider{st: testSunTimes()}
	cached := NewCachedProvider(inner, store, config.NewConfig(), time.UTC, testLogger())

	st, err := cached.SunTimes(context.Background(), time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.True(t, st.Sunrise.Equal(testSunTimes().Sunrise))
}

func TestCachedProvider_KeyIsolatesLocations(t *testing.T) {
	store := newFakeStore()
	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	helsinki := config.NewConfig()
	berlin := config.NewConfig()
	berlin.Latitude = 52.52
	berlin.Longitude = 13.405

	innerHelsinki := &countingProvider{st: testSunTimes()}
	innerBerlin := &countingProvider{st: testSunTimes()}

	_, err := NewCachedProvider(innerHelsinki, store, helsinki, time.UTC, testLogger()).
		SunTimes(context.Background(), date)
	require.NoError(t, err)

	// Same store, same day, different coordinates: must not hit the
	// Helsinki entry
	_, err = NewCachedProvider(innerBerlin, store, berlin, time.UTC, testLogger()).
		SunTimes(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, innerHelsinki.calls)
	assert.Equal(t, 1, innerBerlin.calls, "a location change must trigger a fresh fetch")
	assert.Len(t, store.data, 2, "each location keeps its own cache entry")
}

func TestCachedProvider_MalformedEntryRefetches(t *testing.T) {
	store := newFakeStore()
	store.data[defaultSunTimesKey()] = "{garbage"
	inner := &countingProvider{st: testSunTimes()}
	cached := NewCachedProvider(inner, store, config.NewConfig(), time.UTC, testLogger())

	st, err := cached.SunTimes(context.Background(), time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.True(t, st.Sunrise.Equal(testSunTimes().Sunrise))
}
