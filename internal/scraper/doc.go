// Package scraper provides HTTP fetching and HTML parsing for the
// visitseattle.org events listing.
//
// The scraper discovers detail-page links from the paginated listing
// (walking page 1 through the advertised last page) and extracts the
// structured fields of a single detail page: title, date, venue, and the
// category/location badge pair. Upstream markup is treated as untrusted
// loosely-structured text; extraction lives behind DiscoverLinks and
// ParseDetail so the parsing strategy stays an internal detail.
package scraper
