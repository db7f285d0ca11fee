package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/du-scrape/internal/event"
	"github.com/pfrederiksen/du-scrape/internal/filter"
)

// ParseAthleticsEvents extracts one outcome per .event-container. Containers
// without both a title and a date are Skipped.
func ParseAthleticsEvents(r io.Reader) ([]Outcome[event.AthleticsEvent], error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	outcomes := make([]Outcome[event.AthleticsEvent], 0)
	doc.Find(".event-container").Each(func(i int, s *goquery.Selection) {
		evt := event.AthleticsEvent{
			Title: strings.TrimSpace(s.Find(".event-title").Text()),
			Date:  strings.TrimSpace(s.Find(".event-date").Text()),
		}

		if !filter.HasTitleAndDate(evt) {
			outcomes = append(outcomes, Skipped[event.AthleticsEvent](filter.ReasonMissingFields))
			return
		}
		outcomes = append(outcomes, Success(evt).WithSource(evt.Title))
	})

	return outcomes, nil
}
