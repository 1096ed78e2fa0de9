package suntime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mkarvo/sunshift/pkg/config"
)

// APIClient fetches sunrise/sunset times from a sunrise-sunset HTTP API.
// Single attempt per call; the request timeout comes from configuration.
type APIClient struct {
	baseURL  string
	lat, lon float64
	loc      *time.Location
	client   *http.Client
	logger   *slog.Logger
}

// NewAPIClient creates an API-backed sun data provider
func NewAPIClient(cfg *config.Config, loc *time.Location, logger *slog.Logger) *APIClient {
	return &APIClient{
		baseURL: cfg.SunAPIBaseURL,
		lat:     cfg.Latitude,
		lon:     cfg.Longitude,
		loc:     loc,
		client:  &http.Client{Timeout: cfg.FetchTimeout()},
		logger:  logger,
	}
}

// apiResponse mirrors the provider's JSON envelope. Times are ISO-8601 in
// UTC when formatted=0 is requested.
type apiResponse struct {
	Status  string `json:"status"`
	Results struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"results"`
}

// SunTimes fetches sunrise and sunset for the calendar date of the given instant
func (c *APIClient) SunTimes(ctx context.Context, date time.Time) (SunTimes, error) {
	day := date.In(c.loc).Format("2006-01-02")

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(c.lon, 'f', -1, 64))
	q.Set("date", day)
	q.Set("formatted", "0")
	reqURL := fmt.Sprintf("%s/json?%s", c.baseURL, q.Encode())

	c.logger.Debug("Fetching sun data", "date", day, "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return SunTimes{}, fmt.Errorf("failed to build sun data request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return SunTimes{}, fmt.Errorf("sun data fetch for %s failed: %w: %w", day, ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SunTimes{}, fmt.Errorf("sun data fetch for %s returned HTTP %d: %w", day, resp.StatusCode, ErrDataUnavailable)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return SunTimes{}, fmt.Errorf("failed to decode sun data for %s: %w: %w", day, ErrDataUnavailable, err)
	}
	if body.Status != "OK" {
		return SunTimes{}, fmt.Errorf("sun data provider returned status %q for %s: %w", body.Status, day, ErrDataUnavailable)
	}

	sunrise, err := time.Parse(time.RFC3339, body.Results.Sunrise)
	if err != nil {
		return SunTimes{}, fmt.Errorf("invalid sunrise instant %q: %w: %w", body.Results.Sunrise, ErrDataUnavailable, err)
	}
	sunset, err := time.Parse(time.RFC3339, body.Results.Sunset)
	if err != nil {
		return SunTimes{}, fmt.Errorf("invalid sunset instant %q: %w: %w", body.Results.Sunset, ErrDataUnavailable, err)
	}

	st := SunTimes{
		Sunrise: sunrise.In(c.loc),
		Sunset:  sunset.In(c.loc),
	}
	if !st.Sunrise.Before(st.Sunset) {
		return SunTimes{}, fmt.Errorf("sun data for %s has sunrise %s not before sunset %s: %w",
			day, st.Sunrise, st.Sunset, ErrDataUnavailable)
	}

	c.logger.Debug("Fetched sun data",
		"date", day,
		"sunrise", st.Sunrise,
		"sunset", st.Sunset)

	return st, nil
}
