package dashboard

import (
	"encoding/json"
	"html/template"
	"net/http"
	"sort"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pfrederiksen/seattle-events/internal/calendar"
	"github.com/pfrederiksen/seattle-events/internal/event"
)

// EventSource is the read surface the dashboard needs from the store.
type EventSource interface {
	LoadAll() ([]*event.Record, error)
}

// Options configures optional dashboard surfaces.
type Options struct {
	// Mode is the gin mode: debug, release, or test.
	Mode string
	// EnablePprof mounts net/http/pprof under /debug/pprof.
	EnablePprof bool
	// Gatherer, when set, mounts Prometheus metrics on /metrics.
	Gatherer prometheus.Gatherer
}

// Server renders the events dashboard.
type Server struct {
	source EventSource
	log    *logrus.Logger
	engine *gin.Engine
}

// New builds the dashboard router over an event source.
func New(source EventSource, log *logrus.Logger, opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{source: source, log: log, engine: engine}

	engine.SetHTMLTemplate(pageTemplate)
	engine.GET("/", s.handleIndex)
	engine.GET("/api/events", s.handleEvents)
	engine.GET("/api/aggregates", s.handleAggregates)
	engine.GET("/api/events/ics", s.handleICS)

	if opts.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if opts.EnablePprof {
		pprof.Register(engine)
	}

	return s
}

// Run serves the dashboard until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("dashboard listening")
	return s.engine.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// filterFromContext parses the shared filter query parameters.
func filterFromContext(c *gin.Context) (*Filter, error) {
	return NewFilterFromQuery(
		c.Query("category"),
		c.Query("location"),
		c.Query("weather"),
		c.Query("from"),
		c.Query("to"),
	)
}

// handleEvents returns the filtered rows plus their map markers.
func (s *Server) handleEvents(c *gin.Context) {
	filter, err := filterFromContext(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := s.source.LoadAll()
	if err != nil {
		s.log.WithError(err).Error("loading events")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filtered := filter.Apply(records)
	markers, warnings := BuildMarkers(filtered)

	c.JSON(http.StatusOK, gin.H{
		"events":   filtered,
		"markers":  markers,
		"warnings": warnings,
		"count":    len(filtered),
	})
}

// handleAggregates returns the three aggregate views over all stored
// events.
func (s *Server) handleAggregates(c *gin.Context) {
	records, err := s.source.LoadAll()
	if err != nil {
		s.log.WithError(err).Error("loading events")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": CategoryCounts(records),
		"months":     MonthCounts(records),
		"weekdays":   WeekdayCounts(records),
	})
}

// handleICS serves one stored event as an iCalendar file.
func (s *Server) handleICS(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	records, err := s.source.LoadAll()
	if err != nil {
		s.log.WithError(err).Error("loading events")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, rec := range records {
		if rec.URL == url {
			c.Header("Content-Disposition", `attachment; filename="event.ics"`)
			c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.GenerateICS(rec)))
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
}

// rowView is one table row, with sentinels substituted for absent
// enrichment values.
type rowView struct {
	URL       string
	Title     string
	Date      string
	Venue     string
	Category  string
	Location  string
	Weather   string
	MinTemp   string
	MaxTemp   string
	WindChill string
}

// handleIndex renders the full dashboard page.
func (s *Server) handleIndex(c *gin.Context) {
	filter, err := filterFromContext(c)
	if err != nil {
		c.String(http.StatusBadRequest, "%s", err.Error())
		return
	}

	records, err := s.source.LoadAll()
	if err != nil {
		s.log.WithError(err).Error("loading events")
		c.String(http.StatusInternalServerError, "loading events: %s", err.Error())
		return
	}

	filtered := filter.Apply(records)
	markers, warnings := BuildMarkers(filtered)

	markersJSON, err := json.Marshal(markers)
	if err != nil {
		c.String(http.StatusInternalServerError, "encoding markers: %s", err.Error())
		return
	}

	rows := make([]rowView, 0, len(filtered))
	for _, r := range filtered {
		rows = append(rows, rowView{
			URL:       r.URL,
			Title:     r.Title,
			Date:      r.Date.Format("2006-01-02"),
			Venue:     r.Venue,
			Category:  r.Category,
			Location:  r.Location,
			Weather:   r.WeatherCondition,
			MinTemp:   formatTemp(r.WeatherMinTemp),
			MaxTemp:   formatTemp(r.WeatherMaxTemp),
			WindChill: formatTemp(r.WeatherWindChill),
		})
	}

	c.HTML(http.StatusOK, "dashboard", gin.H{
		"Categories":      CategoryCounts(records),
		"Months":          MonthCounts(records),
		"Weekdays":        WeekdayCounts(records),
		"CategoryOptions": distinct(records, func(r *event.Record) string { return r.Category }),
		"LocationOptions": distinct(records, func(r *event.Record) string { return r.Location }),
		"WeatherOptions":  distinct(records, func(r *event.Record) string { return r.WeatherCondition }),
		"Filter":          filter,
		"Rows":            rows,
		"Warnings":        warnings,
		"MarkersJSON":     template.JS(markersJSON),
	})
}

func formatTemp(v *float64) string {
	if v == nil {
		return event.NoData
	}
	return trimFloat(*v)
}

func trimFloat(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// distinct collects the sorted unique values of one field.
func distinct(records []*event.Record, field func(*event.Record) string) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		if v := field(r); v != "" {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
