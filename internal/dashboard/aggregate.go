package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/pfrederiksen/seattle-events/internal/event"
)

// CategoryCount is one bar of the per-category aggregate.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// MonthCount is one bar of the per-(year, month) aggregate.
type MonthCount struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}

// Label renders the month bucket as "1/2024".
func (m MonthCount) Label() string {
	return fmt.Sprintf("%d/%d", int(m.Month), m.Year)
}

// WeekdayCount is one bar of the day-of-week aggregate.
type WeekdayCount struct {
	Day     string `json:"day"`
	Ordinal int    `json:"ordinal"`
	Count   int    `json:"count"`
}

// CategoryCounts counts events per category, most frequent first, ties
// alphabetical.
func CategoryCounts(records []*event.Record) []CategoryCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		out = append(out, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthCounts counts events per (year, month), chronologically.
func MonthCounts(records []*event.Record) []MonthCount {
	type bucket struct {
		year  int
		month time.Month
	}
	counts := make(map[bucket]int)
	for _, r := range records {
		counts[bucket{r.Year(), r.Month()}]++
	}

	out := make([]MonthCount, 0, len(counts))
	for b, count := range counts {
		out = append(out, MonthCount{Year: b.year, Month: b.month, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// WeekdayCounts counts events per day of week, ordered by the Monday-first
// ordinal rather than alphabetically. Days with no events are omitted.
func WeekdayCounts(records []*event.Record) []WeekdayCount {
	counts := make(map[time.Weekday]int)
	for _, r := range records {
		counts[r.Weekday()]++
	}

	out := make([]WeekdayCount, 0, len(counts))
	for day, count := range counts {
		out = append(out, WeekdayCount{
			Day:     day.String(),
			Ordinal: event.MondayOrdinal(day),
			Count:   count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ordinal < out[j].Ordinal
	})
	return out
}

// Marker is one plottable map point.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Title string  `json:"title"`
	Date  string  `json:"date"`
}

// BuildMarkers converts records into map markers. Records without a
// geolocation are silently skipped; records with a malformed one produce a
// warning instead of a marker, without affecting the other rows.
func BuildMarkers(records []*event.Record) ([]Marker, []string) {
	markers := make([]Marker, 0, len(records))
	var warnings []string

	for _, r := range records {
		if r.Geolocation == nil {
			continue
		}
		lat, lon, err := event.ParseGeolocation(*r.Geolocation)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Error parsing geolocation for %s: %s", r.URL, *r.Geolocation))
			continue
		}
		markers = append(markers, Marker{
			Lat:   lat,
			Lon:   lon,
			Title: r.Title,
			Date:  r.Date.Format("2006-01-02"),
		})
	}
	return markers, warnings
}
