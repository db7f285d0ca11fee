// Package event provides the record types produced by the DU scrapers.
//
// The event package holds the course, calendar event, and athletics event
// records along with the sentinel strings substituted when a field cannot be
// extracted. It also normalizes free-text calendar dates ("March 5",
// "March 5, 2025") into ISO YYYY-MM-DD form.
package event
