package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pfrederiksen/seattle-events/internal/event"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fptr(v float64) *float64 { return &v }

func TestResolveNilCoordinates(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	r := New(testLogger())
	r.SetBaseURL(server.URL)

	tests := []struct {
		name string
		lat  *float64
		lon  *float64
	}{
		{"both nil", nil, nil},
		{"lat nil", nil, fptr(-122.3)},
		{"lon nil", fptr(47.6), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(context.Background(), tt.lat, tt.lon)
			if got.ShortForecast != event.NoData {
				t.Errorf("ShortForecast = %q, want sentinel", got.ShortForecast)
			}
			if got.MinTemp != nil || got.MaxTemp != nil || got.WindChill != nil {
				t.Error("temperature fields should be nil")
			}
		})
	}

	if n := requests.Load(); n != 0 {
		t.Errorf("made %d network calls, want 0", n)
	}
}

// fakeWeatherAPI wires the three-resource lookup chain through one server.
func fakeWeatherAPI(t *testing.T, pointStatus, forecastStatus, gridStatus int) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		if pointStatus != http.StatusOK {
			w.WriteHeader(pointStatus)
			return
		}
		fmt.Fprintf(w, `{"properties":{"forecast":"%s/forecast","forecastGridData":"%s/gridpoints"}}`, server.URL, server.URL)
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		if forecastStatus != http.StatusOK {
			w.WriteHeader(forecastStatus)
			return
		}
		fmt.Fprint(w, `{"properties":{"periods":[
			{"isDaytime":false,"shortForecast":"Clear"},
			{"isDaytime":true,"shortForecast":"Partly Sunny"},
			{"isDaytime":true,"shortForecast":"Rain"}]}}`)
	})
	mux.HandleFunc("/gridpoints", func(w http.ResponseWriter, r *http.Request) {
		if gridStatus != http.StatusOK {
			w.WriteHeader(gridStatus)
			return
		}
		fmt.Fprint(w, `{"properties":{
			"maxTemperature":{"values":[{"value":11.1},{"value":9.0}]},
			"minTemperature":{"values":[{"value":3.3}]},
			"windChill":{"values":[{"value":-1.7}]}}}`)
	})
	server = httptest.NewServer(mux)
	return server
}

func TestResolve(t *testing.T) {
	server := fakeWeatherAPI(t, http.StatusOK, http.StatusOK, http.StatusOK)
	defer server.Close()

	r := New(testLogger())
	r.SetBaseURL(server.URL)

	got := r.Resolve(context.Background(), fptr(47.6062), fptr(-122.3321))

	// First daytime period wins.
	if got.ShortForecast != "Partly Sunny" {
		t.Errorf("ShortForecast = %q, want Partly Sunny", got.ShortForecast)
	}
	if got.MaxTemp == nil || *got.MaxTemp != 11.1 {
		t.Errorf("MaxTemp = %v, want 11.1", got.MaxTemp)
	}
	if got.MinTemp == nil || *got.MinTemp != 3.3 {
		t.Errorf("MinTemp = %v, want 3.3", got.MinTemp)
	}
	if got.WindChill == nil || *got.WindChill != -1.7 {
		t.Errorf("WindChill = %v, want -1.7", got.WindChill)
	}
}

func TestResolvePointFailure(t *testing.T) {
	server := fakeWeatherAPI(t, http.StatusNotFound, http.StatusOK, http.StatusOK)
	defer server.Close()

	r := New(testLogger())
	r.SetBaseURL(server.URL)

	got := r.Resolve(context.Background(), fptr(47.6), fptr(-122.3))
	if got.ShortForecast != event.NoData {
		t.Errorf("ShortForecast = %q, want sentinel", got.ShortForecast)
	}
	if got.MinTemp != nil || got.MaxTemp != nil || got.WindChill != nil {
		t.Error("temperature fields should be nil after point failure")
	}
}

func TestResolveForecastFailureKeepsGridpoint(t *testing.T) {
	server := fakeWeatherAPI(t, http.StatusOK, http.StatusBadGateway, http.StatusOK)
	defer server.Close()

	r := New(testLogger())
	r.SetBaseURL(server.URL)

	got := r.Resolve(context.Background(), fptr(47.6), fptr(-122.3))
	if got.ShortForecast != event.NoData {
		t.Errorf("ShortForecast = %q, want sentinel", got.ShortForecast)
	}
	if got.MaxTemp == nil || *got.MaxTemp != 11.1 {
		t.Errorf("MaxTemp = %v, want 11.1 despite forecast failure", got.MaxTemp)
	}
}

func TestResolveGridpointFailureKeepsForecast(t *testing.T) {
	server := fakeWeatherAPI(t, http.StatusOK, http.StatusOK, http.StatusBadGateway)
	defer server.Close()

	r := New(testLogger())
	r.SetBaseURL(server.URL)

	got := r.Resolve(context.Background(), fptr(47.6), fptr(-122.3))
	if got.ShortForecast != "Partly Sunny" {
		t.Errorf("ShortForecast = %q, want Partly Sunny despite gridpoint failure", got.ShortForecast)
	}
	if got.MinTemp != nil || got.MaxTemp != nil || got.WindChill != nil {
		t.Error("temperature fields should be nil after gridpoint failure")
	}
}

func TestResolveNoDaytimePeriod(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"properties":{"forecast":"%s/forecast"}}`, server.URL)
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"properties":{"periods":[{"isDaytime":false,"shortForecast":"Clear"}]}}`)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	r := New(testLogger())
	r.SetBaseURL(server.URL)

	got := r.Resolve(context.Background(), fptr(47.6), fptr(-122.3))
	if got.ShortForecast != event.NoData {
		t.Errorf("ShortForecast = %q, want sentinel when no daytime period exists", got.ShortForecast)
	}
}

func TestResolveEmptyValueSeries(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"properties":{"forecastGridData":"%s/gridpoints"}}`, server.URL)
	})
	mux.HandleFunc("/gridpoints", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"properties":{"maxTemperature":{"values":[]},"minTemperature":{},"windChill":{"values":[{"value":null}]}}}`)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	r := New(testLogger())
	r.SetBaseURL(server.URL)

	got := r.Resolve(context.Background(), fptr(47.6), fptr(-122.3))
	if got.MaxTemp != nil || got.MinTemp != nil || got.WindChill != nil {
		t.Errorf("empty value series should stay nil, got (%v, %v, %v)", got.MaxTemp, got.MinTemp, got.WindChill)
	}
}
