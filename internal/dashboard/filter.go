package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/seattle-events/internal/event"
)

// All is the sentinel filter value meaning "no filter applied".
const All = "All"

// Filter represents the dashboard's combinable event filters. Every
// criterion is optional; an empty filter matches all events.
type Filter struct {
	// Exact-match criteria; empty or All disables each.
	Category string
	Location string
	Weather  string

	// Inclusive calendar-date range; nil disables each bound.
	DateFrom *time.Time
	DateTo   *time.Time
}

// NewFilterFromQuery builds a Filter from dashboard query parameters.
// Dates use the 2006-01-02 form.
func NewFilterFromQuery(category, location, weather, from, to string) (*Filter, error) {
	f := &Filter{
		Category: strings.TrimSpace(category),
		Location: strings.TrimSpace(location),
		Weather:  strings.TrimSpace(weather),
	}

	parse := func(name, value string) (*time.Time, error) {
		if value == "" {
			return nil, nil
		}
		t, err := time.ParseInLocation("2006-01-02", value, event.Zone())
		if err != nil {
			return nil, fmt.Errorf("invalid %s date %q (want YYYY-MM-DD)", name, value)
		}
		return &t, nil
	}

	var err error
	if f.DateFrom, err = parse("from", strings.TrimSpace(from)); err != nil {
		return nil, err
	}
	if f.DateTo, err = parse("to", strings.TrimSpace(to)); err != nil {
		return nil, err
	}
	return f, nil
}

// IsEmpty reports whether the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return !active(f.Category) && !active(f.Location) && !active(f.Weather) &&
		f.DateFrom == nil && f.DateTo == nil
}

func active(v string) bool {
	return v != "" && v != All
}

// Matches checks whether a record passes all active criteria. Category,
// location and weather are exact matches; the date range compares calendar
// dates, not full timestamps, and is inclusive at both ends.
func (f *Filter) Matches(r *event.Record) bool {
	if active(f.Category) && r.Category != f.Category {
		return false
	}
	if active(f.Location) && r.Location != f.Location {
		return false
	}
	if active(f.Weather) && r.WeatherCondition != f.Weather {
		return false
	}

	if f.DateFrom != nil || f.DateTo != nil {
		date := civilDate(r.Date)
		if f.DateFrom != nil && date.Before(civilDate(*f.DateFrom)) {
			return false
		}
		if f.DateTo != nil && date.After(civilDate(*f.DateTo)) {
			return false
		}
	}

	return true
}

// Apply returns the records matching all active criteria. An empty filter
// returns the input unchanged.
func (f *Filter) Apply(records []*event.Record) []*event.Record {
	if f.IsEmpty() {
		return records
	}
	filtered := make([]*event.Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// civilDate truncates a timestamp to its calendar date.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// String returns a human-readable description of the active criteria.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}
	var parts []string
	if active(f.Category) {
		parts = append(parts, fmt.Sprintf("Category: %s", f.Category))
	}
	if active(f.Location) {
		parts = append(parts, fmt.Sprintf("Location: %s", f.Location))
	}
	if active(f.Weather) {
		parts = append(parts, fmt.Sprintf("Weather: %s", f.Weather))
	}
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	return strings.Join(parts, " | ")
}
