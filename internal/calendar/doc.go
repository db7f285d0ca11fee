// Package calendar exports scraped calendar events as an iCalendar feed.
//
// Each dated event becomes an all-day VEVENT with a UID derived from its
// title and date, so re-running a scrape yields stable identifiers that
// calendar clients can deduplicate. Events without a normalized date are
// left out.
package calendar
