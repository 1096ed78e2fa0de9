package suntime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarvo/sunshift/pkg/config"
)

func TestSolarProvider_MidLatitude(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Latitude = 60.1695
	cfg.Longitude = 24.9354
	provider := NewSolarProvider(cfg, time.UTC, testLogger())

	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	st, err := provider.SunTimes(context.Background(), date)
	require.NoError(t, err)

	assert.True(t, st.Sunrise.Before(st.Sunset), "sunrise must precede sunset")
	assert.Equal(t, date.Day(), st.Sunrise.Day(), "sunrise should fall on the requested civil day")
	assert.Equal(t, date.Day(), st.Sunset.Day(), "sunset should fall on the requested civil day")

	// Helsinki in March has roughly 11-12 hours of daylight
	daylight := st.Sunset.Sub(st.Sunrise)
	assert.Greater(t, daylight, 9*time.Hour)
	assert.Less(t, daylight, 14*time.Hour)
}

func TestSolarProvider_PolarDay(t *testing.T) {
	// Longyearbyen at midsummer: the sun never sets
	cfg := config.NewConfig()
	cfg.Latitude = 78.2232
	cfg.Longitude = 15.6267
	provider := NewSolarProvider(cfg, time.UTC, testLogger())

	_, err := provider.SunTimes(context.Background(), time.Date(2026, 6, 21, 9, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestSolarProvider_PolarNight(t *testing.T) {
	// Longyearbyen at midwinter: the sun never rises
	cfg := config.NewConfig()
	cfg.Latitude = 78.2232
	cfg.Longitude = 15.6267
	provider := NewSolarProvider(cfg, time.UTC, testLogger())

	_, err := provider.SunTimes(context.Background(), time.Date(2026, 12, 21, 9, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestSolarProvider_StableAcrossTimeOfDay(t *testing.T) {
	cfg := config.NewConfig()
	provider := NewSolarProvider(cfg, time.UTC, testLogger())

	morning := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	a, err := provider.SunTimes(context.Background(), morning)
	require.NoError(t, err)
	b, err := provider.SunTimes(context.Background(), evening)
	require.NoError(t, err)

	assert.True(t, a.Sunrise.Equal(b.Sunrise), "same civil day must give the same sunrise")
	assert.True(t, a.Sunset.Equal(b.Sunset), "same civil day must give the same sunset")
}
