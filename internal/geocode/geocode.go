// Package geocode resolves human-readable Seattle location names to
// coordinates via the Nominatim search API.
//
// Absence of a result is a normal outcome, not an error: unknown locations
// resolve to a nil coordinate pair and the record stays complete without
// geolocation.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org/search"
	UserAgent      = "seattle-events/1.0 (github.com/pfrederiksen/seattle-events)"
	Timeout        = 30 * time.Second

	// querySuffix anchors every lookup to the city the listing covers.
	querySuffix = ", Seattle, WA"
)

// Resolver queries Nominatim for coordinates.
type Resolver struct {
	client    *http.Client
	baseURL   string
	userAgent string
	log       *logrus.Logger
}

// New creates a Resolver against the public Nominatim endpoint.
func New(log *logrus.Logger) *Resolver {
	return &Resolver{
		client:    &http.Client{Timeout: Timeout},
		baseURL:   DefaultBaseURL,
		userAgent: UserAgent,
		log:       log,
	}
}

// SetBaseURL points the resolver at a different search endpoint. Used by
// tests.
func (r *Resolver) SetBaseURL(u string) { r.baseURL = u }

// nominatimResult is the slice element of a jsonv2 search response.
// Coordinates arrive as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve looks up a location string and returns its coordinates, or a nil
// pair when Nominatim has no match. Locations listing alternatives
// ("Ballard / Fremont") are queried by their first alternative only.
// Transport and decode failures are returned as errors; the caller decides
// whether to degrade.
func (r *Resolver) Resolve(ctx context.Context, location string) (lat, lon *float64, err error) {
	if strings.Contains(location, "/") {
		location = strings.TrimSpace(strings.SplitN(location, " / ", 2)[0])
	}

	q := url.Values{}
	q.Set("q", location+querySuffix)
	q.Set("format", "jsonv2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("querying nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("nominatim status code: %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, nil, fmt.Errorf("decoding nominatim response: %w", err)
	}

	if len(results) == 0 {
		r.log.WithField("location", location).Warn("no geocoding result")
		return nil, nil, nil
	}

	latV, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lonV, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		// A result with unparseable coordinates is treated the same as
		// no result.
		r.log.WithFields(logrus.Fields{
			"location": location,
			"lat":      results[0].Lat,
			"lon":      results[0].Lon,
		}).Warn("geocoding result with unparseable coordinates")
		return nil, nil, nil
	}

	return &latV, &lonV, nil
}
