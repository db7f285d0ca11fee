// Package scraper provides HTTP fetching and HTML extraction for the DU scrape jobs.
//
// The scraper package fetches the DU course bulletin, the DU events calendar,
// and the Denver Pioneers athletics page, and extracts course and event
// records from their markup with goquery selectors and regular expressions.
// The calendar job walks the twelve month windows of a year, fetching each
// month's event detail pages through a bounded pool.
//
// Every unit of work (a course block, a month listing, a detail page) yields
// an Outcome: Success with a record, Skipped with a reason, or Failed with an
// error. Page retrieval goes through the Fetcher interface so extraction can
// be tested against fixed HTML without network access.
package scraper
