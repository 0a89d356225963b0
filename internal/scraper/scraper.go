package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/pfrederiksen/seattle-events/internal/event"
)

const (
	// DefaultBaseURL is the paginated events listing; page N lives at
	// DefaultBaseURL + "N/".
	DefaultBaseURL = "https://visitseattle.org/events/page/"
	UserAgent      = "seattle-events/1.0 (github.com/pfrederiksen/seattle-events)"
	Timeout        = 30 * time.Second
)

// DiscoveryError means the listing's last-page marker could not be found.
// Nothing can be scraped without it, so the whole run aborts.
type DiscoveryError struct {
	URL    string
	Reason string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovering listing pages at %s: %s", e.URL, e.Reason)
}

// ParseError means a single detail page is missing a required pattern.
// The page is skipped; the batch continues.
type ParseError struct {
	URL     string
	Missing string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: missing %s", e.URL, e.Missing)
}

// Scraper fetches and parses listing and detail pages.
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
	log       *logrus.Logger
}

// New creates a Scraper against the default listing URL.
func New(log *logrus.Logger) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: Timeout},
		baseURL:   DefaultBaseURL,
		userAgent: UserAgent,
		log:       log,
	}
}

// SetBaseURL points the scraper at a different listing root. Used by the
// config layer and by tests.
func (s *Scraper) SetBaseURL(u string) {
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	s.baseURL = u
}

// lastPageRe pulls the page number out of the last-page anchor's href,
// e.g. https://visitseattle.org/events/page/42/
var lastPageRe = regexp.MustCompile(`/events/page/(\d+)/?$`)

// DiscoverLinks walks every listing page and returns the detail-page URLs
// referenced by event-title anchors, in page order then in-page order.
// Duplicates across pages are not filtered here.
func (s *Scraper) DiscoverLinks(ctx context.Context) ([]string, error) {
	firstPage := s.pageURL(1)
	doc, err := s.fetch(ctx, firstPage)
	if err != nil {
		return nil, fmt.Errorf("fetching first listing page: %w", err)
	}

	lastPage, err := s.lastPageNumber(doc, firstPage)
	if err != nil {
		return nil, err
	}

	s.log.WithField("last_page", lastPage).Info("discovered listing page count")

	links := make([]string, 0)
	for page := 1; page <= lastPage; page++ {
		pageURL := s.pageURL(page)
		doc, err := s.fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetching listing page %d: %w", page, err)
		}
		pageLinks := extractEventLinks(doc)
		s.log.WithFields(logrus.Fields{
			"page":  page,
			"links": len(pageLinks),
		}).Info("collected event links")
		links = append(links, pageLinks...)
	}

	return links, nil
}

// lastPageNumber extracts the final page number from the pagination's
// last-page anchor.
func (s *Scraper) lastPageNumber(doc *goquery.Document, pageURL string) (int, error) {
	href, ok := doc.Find(".bpn-last-page-link a").First().Attr("href")
	if !ok {
		return 0, &DiscoveryError{URL: pageURL, Reason: "last-page link not found"}
	}
	m := lastPageRe.FindStringSubmatch(strings.TrimSpace(href))
	if m == nil {
		return 0, &DiscoveryError{URL: pageURL, Reason: fmt.Sprintf("last-page href %q has no page number", href)}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, &DiscoveryError{URL: pageURL, Reason: fmt.Sprintf("invalid last-page number %q", m[1])}
	}
	return n, nil
}

// extractEventLinks collects the href of every event-title anchor on a
// listing page.
func extractEventLinks(doc *goquery.Document) []string {
	links := make([]string, 0)
	doc.Find("h3.event-title a").Each(func(i int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}

// dateRe matches the M/D/YYYY date inside the detail page's date/venue
// heading.
var dateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)

// ParseDetail fetches one detail page and extracts its structured fields.
// The returned record has no enrichment yet; geolocation and weather are
// filled in by the pipeline.
func (s *Scraper) ParseDetail(ctx context.Context, url string) (*event.Record, error) {
	doc, err := s.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching detail page: %w", err)
	}
	return parseDetail(doc, url)
}

// parseDetail extracts the structured fields from a detail-page document.
func parseDetail(doc *goquery.Document, url string) (*event.Record, error) {
	title := strings.TrimSpace(doc.Find("h1.page-title").First().Text())
	if title == "" {
		return nil, &ParseError{URL: url, Missing: "page-title heading"}
	}

	// The date/venue heading is an h4 of two spans separated by a pipe:
	// <h4><span>.. 1/15/2024</span> | <span>Venue</span></h4>
	var dateText, venue string
	doc.Find("h4").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		spans := sel.Find("span")
		if spans.Length() < 2 {
			return true
		}
		m := dateRe.FindString(spans.Eq(0).Text())
		if m == "" {
			return true
		}
		dateText = m
		venue = strings.TrimSpace(spans.Eq(1).Text())
		return false
	})
	if dateText == "" {
		return nil, &ParseError{URL: url, Missing: "date/venue heading"}
	}

	date, err := event.ParseEventDate(dateText)
	if err != nil {
		return nil, &ParseError{URL: url, Missing: fmt.Sprintf("parseable date (%q)", dateText)}
	}

	// Category badges come in a fixed order: the first anchor is the
	// category, the second the location.
	badges := doc.Find("a.button.big.medium.black.category")
	if badges.Length() < 2 {
		return nil, &ParseError{URL: url, Missing: fmt.Sprintf("category badges (found %d, need 2)", badges.Length())}
	}

	return &event.Record{
		URL:              url,
		Title:            title,
		Date:             date,
		Venue:            venue,
		Category:         strings.TrimSpace(badges.Eq(0).Text()),
		Location:         strings.TrimSpace(badges.Eq(1).Text()),
		WeatherCondition: event.NoData,
	}, nil
}

// pageURL builds the URL of a numbered listing page.
func (s *Scraper) pageURL(page int) string {
	return s.baseURL + strconv.Itoa(page) + "/"
}

// fetch retrieves a page and parses it into a goquery document.
func (s *Scraper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
