package calendar

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/pfrederiksen/du-scrape/internal/event"
)

// ProductID identifies the feed producer
const ProductID = "-//University of Denver Events//du-scrape//EN"

const uidDomain = "du-scrape"

// Export is an iCalendar feed built from calendar events
type Export struct {
	cal *ical.Calendar

	Added      int // events written to the feed
	Undated    int // events left out for lack of a date
	Duplicates int // repeats of an event already in the feed
}

// Build creates a feed from events, stamped with stamp
func Build(events []event.CalendarEvent, stamp time.Time) *Export {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	export := &Export{cal: cal}
	seen := make(map[string]bool, len(events))

	for _, evt := range events {
		start, ok := event.ParseISODate(evt.Date)
		if !ok {
			export.Undated++
			continue
		}

		uid := EventUID(evt)
		if seen[uid] {
			export.Duplicates++
			continue
		}
		seen[uid] = true

		e := cal.AddEvent(uid)
		e.SetDtStampTime(stamp)
		e.SetSummary(evt.Title)
		e.SetAllDayStartAt(start)
		e.SetAllDayEndAt(start.AddDate(0, 0, 1))
		if desc := eventDescription(evt); desc != "" {
			e.SetDescription(desc)
		}
		export.Added++
	}

	return export
}

// Serialize renders the feed as iCalendar text with CRLF line endings
func (e *Export) Serialize() string {
	return e.cal.Serialize(ical.WithNewLineWindows)
}

// EventUID returns a stable identifier for an event's title and date
func EventUID(evt event.CalendarEvent) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(evt.Title+"|"+evt.Date))
	return id.String() + "@" + uidDomain
}

func eventDescription(evt event.CalendarEvent) string {
	var parts []string
	if evt.Time != "" && evt.Time != event.NoTimeFound {
		parts = append(parts, "Time: "+evt.Time)
	}
	if evt.Description != "" && evt.Description != event.NoDescriptionFound {
		parts = append(parts, evt.Description)
	}
	return strings.Join(parts, "\n\n")
}
