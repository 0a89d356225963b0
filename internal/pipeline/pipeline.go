// Package pipeline orchestrates the scrape run: link discovery, per-URL
// detail parsing with geocode and weather enrichment, and loading into the
// event store.
//
// Each stage writes its full output to durable snapshot storage before the
// next stage runs, so a crashed run resumes at stage granularity. Detail
// processing isolates failures per URL: a bad page is logged and skipped,
// an enrichment failure degrades to sentinel values, and neither ever
// aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pfrederiksen/seattle-events/internal/event"
	"github.com/pfrederiksen/seattle-events/internal/metrics"
	"github.com/pfrederiksen/seattle-events/internal/weather"
)

// LinkDiscoverer yields the detail-page URLs of every listing page.
type LinkDiscoverer interface {
	DiscoverLinks(ctx context.Context) ([]string, error)
}

// DetailParser extracts the structured fields of one detail page.
type DetailParser interface {
	ParseDetail(ctx context.Context, url string) (*event.Record, error)
}

// Geocoder resolves a location name to coordinates, nil pair for no match.
type Geocoder interface {
	Resolve(ctx context.Context, location string) (lat, lon *float64, err error)
}

// WeatherResolver resolves best-effort forecast data for a coordinate pair.
type WeatherResolver interface {
	Resolve(ctx context.Context, lat, lon *float64) weather.Summary
}

// StageStore persists whole-stage snapshots between pipeline stages.
type StageStore interface {
	SaveLinks(links []string) error
	LoadLinks() ([]string, error)
	SaveDetails(records []*event.Record) error
	LoadDetails() ([]*event.Record, error)
}

// EventSink is the destination store's write surface.
type EventSink interface {
	EnsureSchema() error
	InsertIfAbsent(records ...*event.Record) (int64, error)
}

// Pipeline wires the stages together.
type Pipeline struct {
	Scraper interface {
		LinkDiscoverer
		DetailParser
	}
	Geocoder Geocoder
	Weather  WeatherResolver
	Stages   StageStore
	Sink     EventSink

	// Workers bounds concurrent detail processing. Values below 1 mean
	// sequential.
	Workers int

	Log     *logrus.Logger
	Metrics *metrics.Metrics
}

// Run executes all three stages in order.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.CollectLinks(ctx); err != nil {
		return err
	}
	if err := p.CollectDetails(ctx); err != nil {
		return err
	}
	return p.LoadEvents(ctx)
}

// CollectLinks runs the discovery stage and snapshots the URL list.
func (p *Pipeline) CollectLinks(ctx context.Context) error {
	links, err := p.Scraper.DiscoverLinks(ctx)
	if err != nil {
		return fmt.Errorf("discovering links: %w", err)
	}
	p.Metrics.LinksDiscovered.Add(float64(len(links)))
	p.Log.WithField("links", len(links)).Info("link discovery complete")

	if err := p.Stages.SaveLinks(links); err != nil {
		return fmt.Errorf("saving link snapshot: %w", err)
	}
	return nil
}

// CollectDetails parses and enriches every discovered URL, then snapshots
// the surviving records in input order.
func (p *Pipeline) CollectDetails(ctx context.Context) error {
	links, err := p.Stages.LoadLinks()
	if err != nil {
		return fmt.Errorf("loading link snapshot: %w", err)
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	// Results keep the link's slot so output order matches input order;
	// failed URLs leave a nil slot that is compacted away below.
	results := make([]*event.Record, len(links))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				rec, err := p.processDetail(ctx, links[i])
				if err != nil {
					p.Metrics.ParseFailures.Inc()
					p.Log.WithField("url", links[i]).WithError(err).Warn("skipping detail page")
					continue
				}
				results[i] = rec
			}
		}()
	}

	for i := range links {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	records := make([]*event.Record, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			records = append(records, rec)
		}
	}

	p.Log.WithFields(logrus.Fields{
		"parsed":  len(records),
		"skipped": len(links) - len(records),
	}).Info("detail collection complete")

	if err := p.Stages.SaveDetails(records); err != nil {
		return fmt.Errorf("saving detail snapshot: %w", err)
	}
	return nil
}

// processDetail parses one detail page and decorates it with geocoding and
// weather data. Structural parse failures propagate; enrichment failures
// degrade to nil/sentinel fields.
func (p *Pipeline) processDetail(ctx context.Context, url string) (*event.Record, error) {
	rec, err := p.Scraper.ParseDetail(ctx, url)
	if err != nil {
		return nil, err
	}
	p.Metrics.DetailsParsed.Inc()

	lat, lon, err := p.Geocoder.Resolve(ctx, rec.Location)
	if err != nil {
		// Uniform enrichment policy: transport failures degrade too.
		p.Log.WithFields(logrus.Fields{
			"url":      url,
			"location": rec.Location,
		}).WithError(err).Warn("geocoding failed; storing without coordinates")
		lat, lon = nil, nil
	}
	if lat == nil || lon == nil {
		p.Metrics.GeocodeMisses.Inc()
	}
	rec.Geolocation = event.FormatGeolocation(lat, lon)

	summary := p.Weather.Resolve(ctx, lat, lon)
	rec.WeatherCondition = summary.ShortForecast
	rec.WeatherMinTemp = summary.MinTemp
	rec.WeatherMaxTemp = summary.MaxTemp
	rec.WeatherWindChill = summary.WindChill
	if summary.ShortForecast == event.NoData && summary.MinTemp == nil && summary.MaxTemp == nil && summary.WindChill == nil {
		p.Metrics.WeatherDegraded.Inc()
	}

	return rec, nil
}

// LoadEvents ensures the schema and inserts the detail snapshot into the
// event store. Re-running is safe: existing URLs are skipped.
func (p *Pipeline) LoadEvents(ctx context.Context) error {
	records, err := p.Stages.LoadDetails()
	if err != nil {
		return fmt.Errorf("loading detail snapshot: %w", err)
	}

	if err := p.Sink.EnsureSchema(); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	inserted, err := p.Sink.InsertIfAbsent(records...)
	if err != nil {
		return fmt.Errorf("inserting events: %w", err)
	}
	p.Metrics.EventsInserted.Add(float64(inserted))
	p.Metrics.EventsDuplicated.Add(float64(int64(len(records)) - inserted))

	p.Log.WithFields(logrus.Fields{
		"records":  len(records),
		"inserted": inserted,
	}).Info("event load complete")
	return nil
}
