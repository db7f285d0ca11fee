package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/du-scrape/internal/event"
)

const (
	eventLinkSelector = ".events-listing__item a[href]"
	eventPathMarker   = "/events/"

	timeSelector        = ".event-time, .event-meta-time, .icon-du-clock"
	descriptionSelector = ".event-description, .event-body, .event-summary, .event-details, .description"

	// Description fragments this short (after trimming) are dropped
	minDescriptionFragment = 10
)

// rawDateCandidates are tried in order; the first non-empty value wins
var rawDateCandidates = []func(*goquery.Document) string{
	func(doc *goquery.Document) string {
		v, _ := doc.Find("time[datetime]").Attr("datetime")
		return v
	},
	func(doc *goquery.Document) string { return doc.Find(".date-display-single").Text() },
	func(doc *goquery.Document) string { return doc.Find(".event-meta-date").First().Text() },
	func(doc *goquery.Document) string { return doc.Find(".event-date").Text() },
	func(doc *goquery.Document) string { return doc.Find(".event-info").Text() },
}

// ListingURL builds the month window listing URL for the calendar.
// The end date is always day 31, whatever the month's length; the calendar
// accepts it and the window has always been requested this way.
func ListingURL(baseURL string, year int, month time.Month) string {
	return fmt.Sprintf("%s?search=&start_date=%04d-%02d-01&end_date=%04d-%02d-31",
		baseURL, year, int(month), year, int(month))
}

// ParseEventLinks extracts event detail links from a listing page, resolved
// against baseURL. Order follows the document; duplicates are kept.
func ParseEventLinks(r io.Reader, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	links := make([]string, 0)
	doc.Find(eventLinkSelector).Each(func(i int, a *goquery.Selection) {
		href, exists := a.Attr("href")
		if !exists || !strings.Contains(href, eventPathMarker) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})

	return links, nil
}

// ParseEventDetail extracts a calendar event from its detail page. Missing
// fields get sentinel values; dates without a year fall back to year.
func ParseEventDetail(r io.Reader, year int) (event.CalendarEvent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return event.CalendarEvent{}, fmt.Errorf("parsing HTML: %w", err)
	}

	return event.CalendarEvent{
		Title:       extractEventTitle(doc),
		Date:        event.NormalizeDate(extractRawDate(doc), year),
		Time:        extractEventTime(doc),
		Description: extractEventDescription(doc),
	}, nil
}

func extractEventTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return event.NoTitleFound
	}
	return title
}

func extractRawDate(doc *goquery.Document) string {
	for _, candidate := range rawDateCandidates {
		if raw := strings.TrimSpace(candidate(doc)); raw != "" {
			return raw
		}
	}
	return ""
}

func extractEventTime(doc *goquery.Document) string {
	t := collapseSpaces(doc.Find(timeSelector).First().Text())
	if t == "" {
		return event.NoTimeFound
	}
	return t
}

func extractEventDescription(doc *goquery.Document) string {
	var parts []string
	doc.Find(descriptionSelector).Find("p, div").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		// Length is in runes; it matches a UTF-16 unit count except for
		// characters outside the BMP, which count once here and twice there
		if utf8.RuneCountInString(text) > minDescriptionFragment {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		return event.NoDescriptionFound
	}
	return strings.Join(parts, " ")
}

// collapseSpaces trims s and replaces each whitespace run with one space
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
