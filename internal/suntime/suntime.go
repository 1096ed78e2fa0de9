package suntime

import (
	"context"
	"errors"
	"time"
)

// ErrDataUnavailable indicates sunrise/sunset data could not be obtained.
// A run cannot compute a valid next trigger without it, so callers treat
// it as fatal.
var ErrDataUnavailable = errors.New("sun data unavailable")

// SunTimes holds sunrise and sunset instants for one civil day at one
// location. Immutable once fetched; sunrise is always before sunset.
type SunTimes struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// Provider resolves sunrise and sunset for the calendar date of the given
// instant. Only the date portion of the argument is significant.
type Provider interface {
	SunTimes(ctx context.Context, date time.Time) (SunTimes, error)
}
