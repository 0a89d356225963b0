package event

import (
	"sync"
	"time"
)

// Event dates are civil dates in Seattle's timezone. The zone is loaded
// once; if the host has no tzdata we fall back to a fixed PST offset
// rather than silently stamping UTC.
var (
	zoneOnce sync.Once
	zone     *time.Location
)

// Zone returns the America/Los_Angeles location used to stamp event dates.
func Zone() *time.Location {
	zoneOnce.Do(func() {
		loc, err := time.LoadLocation("America/Los_Angeles")
		if err != nil {
			loc = time.FixedZone("PST", -8*3600)
		}
		zone = loc
	})
	return zone
}

// ParseEventDate parses a detail-page date string ("M/D/YYYY") into a
// midnight timestamp in the Seattle zone.
func ParseEventDate(s string) (time.Time, error) {
	return time.ParseInLocation("1/2/2006", s, Zone())
}

// Month returns the calendar month of the event date.
func (r *Record) Month() time.Month { return r.Date.Month() }

// Year returns the calendar year of the event date.
func (r *Record) Year() int { return r.Date.Year() }

// Weekday returns the day of week of the event date.
func (r *Record) Weekday() time.Weekday { return r.Date.Weekday() }

// MondayOrdinal maps a weekday to the Monday=0..Sunday=6 ordinal used for
// day-of-week aggregation, so weekdays sort calendar-wise rather than
// alphabetically.
func MondayOrdinal(d time.Weekday) int {
	return (int(d) + 6) % 7
}
