// Package dashboard serves the read-only events dashboard.
//
// The dashboard loads the full event table, derives calendar features,
// renders three aggregate views (per category, per year/month, per day of
// week ordered Monday-first), and applies the user's combinable filters:
// exact category, inclusive calendar-date range, exact location, and exact
// weather condition, each optional. Filtered rows render as a table and as
// Leaflet map markers; a row whose geolocation does not parse produces an
// inline warning without affecting the rest of the page.
package dashboard
