// Package calendar generates iCalendar (.ics) files for stored events.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/seattle-events/internal/event"
)

// GenerateICS generates an iCalendar (.ics) document for an event. The
// entry spans 9 AM to 1 PM local time on the event's date.
func GenerateICS(rec *event.Record) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Seattle Events//seattle-events//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("BEGIN:VEVENT\r\n")

	// The source URL is the record's identity, so it anchors the UID too.
	ics.WriteString(fmt.Sprintf("UID:%s\r\n", escapeICS(rec.URL)))

	now := time.Now().UTC()
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	start := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 9, 0, 0, 0, rec.Date.Location())
	end := start.Add(4 * time.Hour)
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(end)))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(rec.Title)))

	description := fmt.Sprintf("%s at %s", rec.Category, rec.Venue)
	if rec.WeatherCondition != "" && rec.WeatherCondition != event.NoData {
		description = fmt.Sprintf("%s\nForecast: %s", description, rec.WeatherCondition)
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	location := rec.Venue
	if rec.Location != "" {
		location = fmt.Sprintf("%s, %s", rec.Venue, rec.Location)
	}
	ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))

	ics.WriteString(fmt.Sprintf("URL:%s\r\n", rec.URL))
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")

	ics.WriteString("END:VEVENT\r\n")
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
