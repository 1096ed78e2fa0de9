package redis

import "fmt"

// Key construction helpers for the sunshift cache schema

// SunTimesKey returns the cache key for one civil day of sun data at one
// location. Keyed by coordinates so a location change never serves stale
// sun data from a previous configuration.
// Pattern: suntimes:{lat}:{lon}:{YYYY-MM-DD}
func SunTimesKey(lat, lon float64, date string) string {
	return fmt.Sprintf("suntimes:%.4f:%.4f:%s", lat, lon, date)
}

// ThemeStateKey returns the key holding the last theme this agent decided
func ThemeStateKey() string {
	return "theme:current"
}
