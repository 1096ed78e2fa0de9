package suntime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/mkarvo/sunshift/pkg/config"
)

// SolarProvider computes sunrise/sunset locally from solar geometry,
// avoiding the network entirely. Near the poles a civil day may have no
// sunrise or no sunset, which reports as ErrDataUnavailable.
type SolarProvider struct {
	lat, lon float64
	loc      *time.Location
	logger   *slog.Logger
}

// NewSolarProvider creates a computation-backed sun data provider
func NewSolarProvider(cfg *config.Config, loc *time.Location, logger *slog.Logger) *SolarProvider {
	return &SolarProvider{
		lat:    cfg.Latitude,
		lon:    cfg.Longitude,
		loc:    loc,
		logger: logger,
	}
}

// SunTimes computes sunrise and sunset for the calendar date of the given instant
func (p *SolarProvider) SunTimes(ctx context.Context, date time.Time) (SunTimes, error) {
	// Anchor the calculation at local noon so the result lands on the
	// requested civil day regardless of timezone offset.
	local := date.In(p.loc)
	noon := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, p.loc)

	times := suncalc.GetTimes(noon, p.lat, p.lon)
	sunrise := times[suncalc.Sunrise].Value.In(p.loc)
	sunset := times[suncalc.Sunset].Value.In(p.loc)

	// Polar day/night yields missing or degenerate times
	if sunrise.IsZero() || sunset.IsZero() || !sunrise.Before(sunset) || sunset.Sub(sunrise) >= 24*time.Hour {
		return SunTimes{}, fmt.Errorf("no sunrise/sunset on %s at lat %.4f: %w",
			local.Format("2006-01-02"), p.lat, ErrDataUnavailable)
	}

	p.logger.Debug("Computed sun data",
		"date", local.Format("2006-01-02"),
		"sunrise", sunrise,
		"sunset", sunset)

	return SunTimes{Sunrise: sunrise, Sunset: sunset}, nil
}
