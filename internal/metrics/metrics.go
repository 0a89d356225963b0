// Package metrics defines the Prometheus counters the pipeline reports.
// The dashboard exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks pipeline operation counts.
type Metrics struct {
	LinksDiscovered  prometheus.Counter
	DetailsParsed    prometheus.Counter
	ParseFailures    prometheus.Counter
	GeocodeMisses    prometheus.Counter
	WeatherDegraded  prometheus.Counter
	EventsInserted   prometheus.Counter
	EventsDuplicated prometheus.Counter
}

// New registers the pipeline counters with reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LinksDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seattle_events",
			Name:      "links_discovered_total",
			Help:      "Detail-page links discovered",
		}),
		DetailsParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seattle_events",
			Name:      "details_parsed_total",
			Help:      "Detail pages parsed successfully",
		}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seattle_events",
			Name:      "parse_failures_total",
			Help:      "Detail pages skipped because a required pattern was missing",
		}),
		GeocodeMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seattle_events",
			Name:      "geocode_misses_total",
			Help:      "Locations that resolved to no coordinates",
		}),
		WeatherDegraded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seattle_events",
			Name:      "weather_degraded_total",
			Help:      "Events whose weather lookup yielded only sentinels",
		}),
		EventsInserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seattle_events",
			Name:      "events_inserted_total",
			Help:      "Event rows inserted into the store",
		}),
		EventsDuplicated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "seattle_events",
			Name:      "events_duplicated_total",
			Help:      "Event rows skipped because their URL already existed",
		}),
	}
}
