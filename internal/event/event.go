package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NoData is the sentinel stored when an enrichment lookup yields nothing.
// It is distinct from a missing field: a record carrying NoData was
// processed, the upstream simply had no answer.
const NoData = "No data"

// Record is the unit of persistence produced by the scrape pipeline.
// URL is the primary key; a record is written once and never updated.
type Record struct {
	URL              string    `gorm:"column:url;primaryKey" json:"url"`
	Title            string    `gorm:"column:title" json:"title"`
	Date             time.Time `gorm:"column:date" json:"date"`
	Venue            string    `gorm:"column:venue" json:"venue"`
	Category         string    `gorm:"column:category" json:"category"`
	Location         string    `gorm:"column:location" json:"location"`
	Geolocation      *string   `gorm:"column:geolocation" json:"geolocation"`
	WeatherCondition string    `gorm:"column:weathercondition" json:"weather_condition"`
	WeatherMinTemp   *float64  `gorm:"column:weathermintemp" json:"weather_min_temp"`
	WeatherMaxTemp   *float64  `gorm:"column:weathermaxtemp" json:"weather_max_temp"`
	WeatherWindChill *float64  `gorm:"column:weatherwindchill" json:"weather_wind_chill"`
}

// TableName maps Record onto the events table.
func (Record) TableName() string { return "events" }

// FormatGeolocation encodes a coordinate pair as the "{lat,lon}" text the
// events table stores. Returns nil unless both coordinates are present.
func FormatGeolocation(lat, lon *float64) *string {
	if lat == nil || lon == nil {
		return nil
	}
	s := fmt.Sprintf("{%s,%s}",
		strconv.FormatFloat(*lat, 'f', -1, 64),
		strconv.FormatFloat(*lon, 'f', -1, 64))
	return &s
}

// ParseGeolocation decodes a "{lat,lon}" geolocation value. It returns an
// error for anything that does not contain exactly two numeric components.
func ParseGeolocation(s string) (lat, lon float64, err error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "{"), "}")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("geolocation %q: expected two components, got %d", s, len(parts))
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geolocation %q: latitude: %w", s, err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geolocation %q: longitude: %w", s, err)
	}
	return lat, lon, nil
}

// HasGeolocation reports whether the record carries a parseable coordinate
// pair.
func (r *Record) HasGeolocation() bool {
	if r.Geolocation == nil {
		return false
	}
	_, _, err := ParseGeolocation(*r.Geolocation)
	return err == nil
}
