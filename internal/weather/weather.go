// Package weather resolves short-term forecast data for a coordinate pair
// via the api.weather.gov two-stage lookup.
//
// The lookup never fails: any missing input, transport error, or absent
// response key degrades the not-yet-resolved fields to their "No data"
// sentinels. Weather is a best-effort enrichment and must not abort the
// record it decorates.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pfrederiksen/seattle-events/internal/event"
)

const (
	DefaultBaseURL = "https://api.weather.gov"
	UserAgent      = "seattle-events/1.0 (github.com/pfrederiksen/seattle-events)"
	Timeout        = 30 * time.Second
)

// Summary holds the weather enrichment for one event. Zero-value fields
// mean the lookup had no data.
type Summary struct {
	ShortForecast string   `json:"short_forecast"`
	MinTemp       *float64 `json:"min_temp"`
	MaxTemp       *float64 `json:"max_temp"`
	WindChill     *float64 `json:"wind_chill"`
}

// NoDataSummary returns a Summary with every field at its sentinel.
func NoDataSummary() Summary {
	return Summary{ShortForecast: event.NoData}
}

// Resolver performs the points → forecast/gridpoint lookup chain.
type Resolver struct {
	client    *http.Client
	baseURL   string
	userAgent string
	log       *logrus.Logger
}

// New creates a Resolver against the public weather.gov API.
func New(log *logrus.Logger) *Resolver {
	return &Resolver{
		client:    &http.Client{Timeout: Timeout},
		baseURL:   DefaultBaseURL,
		userAgent: UserAgent,
		log:       log,
	}
}

// SetBaseURL points the resolver at a different API root. Used by tests.
func (r *Resolver) SetBaseURL(u string) { r.baseURL = u }

// pointResponse is the slice of the points resource we consume.
type pointResponse struct {
	Properties struct {
		Forecast         string `json:"forecast"`
		ForecastGridData string `json:"forecastGridData"`
	} `json:"properties"`
}

// forecastResponse carries the textual forecast periods.
type forecastResponse struct {
	Properties struct {
		Periods []struct {
			IsDaytime     bool   `json:"isDaytime"`
			ShortForecast string `json:"shortForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

// valueSeries is a gridpoint measurement series; only the first value is
// consumed.
type valueSeries struct {
	Values []struct {
		Value *float64 `json:"value"`
	} `json:"values"`
}

func (v valueSeries) first() *float64 {
	if len(v.Values) == 0 {
		return nil
	}
	return v.Values[0].Value
}

// gridpointResponse carries the temperature and wind-chill series.
type gridpointResponse struct {
	Properties struct {
		MaxTemperature valueSeries `json:"maxTemperature"`
		MinTemperature valueSeries `json:"minTemperature"`
		WindChill      valueSeries `json:"windChill"`
	} `json:"properties"`
}

// Resolve looks up the forecast for a coordinate pair. Nil coordinates
// return the all-sentinel Summary without touching the network.
func (r *Resolver) Resolve(ctx context.Context, lat, lon *float64) Summary {
	summary := NoDataSummary()
	if lat == nil || lon == nil {
		return summary
	}

	pointURL := fmt.Sprintf("%s/points/%s,%s", r.baseURL, formatCoord(*lat), formatCoord(*lon))
	var point pointResponse
	if err := r.getJSON(ctx, pointURL, &point); err != nil {
		r.log.WithField("url", pointURL).WithError(err).Warn("no weather point data")
		return summary
	}

	if point.Properties.Forecast != "" {
		summary.ShortForecast = r.shortForecast(ctx, point.Properties.Forecast)
	}
	if point.Properties.ForecastGridData != "" {
		r.gridpoint(ctx, point.Properties.ForecastGridData, &summary)
	}

	return summary
}

// shortForecast fetches the textual forecast and returns the first daytime
// period's text, or the sentinel when unavailable.
func (r *Resolver) shortForecast(ctx context.Context, url string) string {
	var forecast forecastResponse
	if err := r.getJSON(ctx, url, &forecast); err != nil {
		r.log.WithField("url", url).WithError(err).Warn("no forecast data")
		return event.NoData
	}
	for _, period := range forecast.Properties.Periods {
		if period.IsDaytime {
			return period.ShortForecast
		}
	}
	return event.NoData
}

// gridpoint fetches the gridpoint resource and fills in the temperature
// and wind-chill fields it can resolve.
func (r *Resolver) gridpoint(ctx context.Context, url string, summary *Summary) {
	var grid gridpointResponse
	if err := r.getJSON(ctx, url, &grid); err != nil {
		r.log.WithField("url", url).WithError(err).Warn("no gridpoint data")
		return
	}
	summary.MaxTemp = grid.Properties.MaxTemperature.first()
	summary.MinTemp = grid.Properties.MinTemperature.first()
	summary.WindChill = grid.Properties.WindChill.first()
}

// getJSON performs a GET and decodes the JSON body into out.
func (r *Resolver) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
