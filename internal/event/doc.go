// Package event defines the event record produced by the scrape pipeline
// and stored in the events table.
//
// A record combines the structured fields parsed from a detail page with
// best-effort geocoding and weather enrichment. Enrichment fields may be
// nil or carry the "No data" sentinel; such records are still complete.
// The package also provides calendar-feature helpers (month, year,
// Monday-first weekday ordinal) used by the dashboard aggregations.
package event
