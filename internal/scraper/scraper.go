package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/du-scrape/internal/config"
	"github.com/pfrederiksen/du-scrape/internal/event"
	"github.com/pfrederiksen/du-scrape/internal/filter"
	"github.com/pfrederiksen/du-scrape/internal/logger"
)

// Scraper runs the bulletin, calendar and athletics extractions
type Scraper struct {
	cfg   *config.Config
	pages Fetcher // browser headers: bulletin and calendar
	plain Fetcher // default headers: athletics
	log   *logger.Logger
}

// New creates a Scraper. pages fetches the bulletin and calendar with browser
// headers; plain fetches the athletics site with default headers.
func New(cfg *config.Config, pages, plain Fetcher, log *logger.Logger) *Scraper {
	if log == nil {
		log = logger.Default()
	}
	return &Scraper{
		cfg:   cfg,
		pages: pages,
		plain: plain,
		log:   log,
	}
}

// NewHTTP creates a Scraper backed by HTTPFetchers built from cfg
func NewHTTP(cfg *config.Config, log *logger.Logger) *Scraper {
	if log == nil {
		log = logger.Default()
	}
	pages := NewHTTPFetcher(cfg.Timeout, BrowserHeaders(), log)
	plain := NewHTTPFetcher(cfg.Timeout, nil, log)
	return New(cfg, pages, plain, log)
}

// CourseResult holds the bulletin extraction
type CourseResult struct {
	URL      string
	Courses  []event.Course
	Outcomes []Outcome[event.Course]
}

// ScrapeCourses fetches the bulletin and returns the courses passing the
// course filter. A failed fetch returns a *FetchError and no result.
func (s *Scraper) ScrapeCourses(ctx context.Context) (*CourseResult, error) {
	bc := s.cfg.Bulletin

	html, err := s.pages.Fetch(ctx, bc.URL)
	if err != nil {
		return nil, asFetchError(bc.URL, err)
	}

	courseFilter := filter.CourseFilter{MinLevel: bc.MinLevel, ExcludeTerm: bc.ExcludeTerm}
	outcomes, err := ParseCourses(strings.NewReader(html), bc.Subject, courseFilter)
	if err != nil {
		return nil, fmt.Errorf("extracting courses: %w", err)
	}

	for _, o := range outcomes {
		if o.Status == StatusSkipped {
			s.log.Debug("skipped course block", logger.Fields{"source": o.Source, "reason": o.Reason})
		}
	}

	courses := Values(outcomes)
	s.log.Info("extracted courses", logger.Fields{"count": len(courses), "blocks": len(outcomes)})

	return &CourseResult{URL: bc.URL, Courses: courses, Outcomes: outcomes}, nil
}

// MonthSummary describes one scraped month window
type MonthSummary struct {
	Month  time.Month
	URL    string
	Links  int
	Events int
}

// CalendarResult holds the calendar extraction for a year
type CalendarResult struct {
	Year    int
	Events  []event.CalendarEvent
	Months  []Outcome[MonthSummary]
	Details []Outcome[event.CalendarEvent]
}

// ScrapeCalendarYear walks the twelve months of the configured year in order.
// A month whose listing cannot be fetched is recorded as Failed and skipped;
// the remaining months still run. The only error returned is a context
// cancellation, alongside the events gathered so far.
func (s *Scraper) ScrapeCalendarYear(ctx context.Context) (*CalendarResult, error) {
	year := s.cfg.Calendar.Year
	result := &CalendarResult{
		Year:   year,
		Events: make([]event.CalendarEvent, 0),
	}

	for month := time.January; month <= time.December; month++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		summary, details := s.scrapeMonth(ctx, year, month)
		result.Months = append(result.Months, summary)
		result.Details = append(result.Details, details...)
		result.Events = append(result.Events, Values(details)...)
	}

	s.log.Info("scraped calendar year", logger.Fields{"year": year, "events": len(result.Events)})
	return result, nil
}

func (s *Scraper) scrapeMonth(ctx context.Context, year int, month time.Month) (Outcome[MonthSummary], []Outcome[event.CalendarEvent]) {
	listingURL := ListingURL(s.cfg.Calendar.BaseURL, year, month)
	s.log.Info("scraping month", logger.Fields{"year": year, "month": int(month), "url": listingURL})

	html, err := s.pages.Fetch(ctx, listingURL)
	if err != nil {
		s.log.Warn("skipping month", logger.Fields{"month": int(month), "url": listingURL})
		return Failed[MonthSummary](asFetchError(listingURL, err)).WithSource(listingURL), nil
	}

	links, err := ParseEventLinks(strings.NewReader(html), s.cfg.Calendar.BaseURL)
	if err != nil {
		return Failed[MonthSummary](fmt.Errorf("extracting event links: %w", err)).WithSource(listingURL), nil
	}
	s.log.Info("found event links", logger.Fields{"month": int(month), "count": len(links)})

	details := parMap(ctx, links, s.cfg.Calendar.Concurrency, s.ScrapeEventDetail)

	summary := MonthSummary{
		Month:  month,
		URL:    listingURL,
		Links:  len(links),
		Events: TallyOf(details).Success,
	}
	return Success(summary).WithSource(listingURL), details
}

// ScrapeEventDetail fetches and parses one event detail page
func (s *Scraper) ScrapeEventDetail(ctx context.Context, eventURL string) Outcome[event.CalendarEvent] {
	html, err := s.pages.Fetch(ctx, eventURL)
	if err != nil {
		s.log.Warn("skipping event due to fetch failure", logger.Fields{"url": eventURL})
		return Failed[event.CalendarEvent](asFetchError(eventURL, err)).WithSource(eventURL)
	}

	evt, err := ParseEventDetail(strings.NewReader(html), s.cfg.Calendar.Year)
	if err != nil {
		return Failed[event.CalendarEvent](fmt.Errorf("extracting event: %w", err)).WithSource(eventURL)
	}

	s.log.Debug("extracted event", logger.Fields{
		"url":         eventURL,
		"title":       evt.Title,
		"date":        evt.Date,
		"time":        evt.Time,
		"description": truncate(evt.Description, 100),
	})

	return Success(evt).WithSource(eventURL)
}

// AthleticsResult holds the athletics extraction
type AthleticsResult struct {
	URL      string
	Events   []event.AthleticsEvent
	Outcomes []Outcome[event.AthleticsEvent]
}

// ScrapeAthletics fetches the athletics page with default headers.
// A failed fetch returns a *FetchError and no result.
func (s *Scraper) ScrapeAthletics(ctx context.Context) (*AthleticsResult, error) {
	pageURL := s.cfg.Athletics.URL

	html, err := s.plain.Fetch(ctx, pageURL)
	if err != nil {
		return nil, asFetchError(pageURL, err)
	}

	outcomes, err := ParseAthleticsEvents(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("extracting athletics events: %w", err)
	}

	events := Values(outcomes)
	s.log.Info("extracted athletics events", logger.Fields{"count": len(events)})

	return &AthleticsResult{URL: pageURL, Events: events, Outcomes: outcomes}, nil
}

// asFetchError keeps an existing *FetchError and wraps anything else
func asFetchError(url string, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{URL: url, Err: err}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
