package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultYear is assumed when a calendar date omits its year
	DefaultYear = 2025

	// ISODateLayout is the layout of normalized dates
	ISODateLayout = "2006-01-02"
)

// Month name, 1-2 digit day, optional comma, optional 4 digit year.
// Not anchored: "Wednesday, March 5, 2025" matches at "March".
var monthDayPattern = regexp.MustCompile(`(\w+)\s+(\d{1,2}),?\s*(\d{4})?`)

// ParseDate extracts a month/day date from free text, filling in defaultYear
// when the text has no year.
// Returns time.Time{} (zero value) if parsing fails.
// Supports formats: "March 5, 2025", "March 5 2025", "Mar 5", "Sept 12".
// A day past the end of its month rolls into the next one ("February 30"
// is March 2); days outside 1-31 are rejected.
func ParseDate(raw string, defaultYear int) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	matches := monthDayPattern.FindStringSubmatch(raw)
	if matches == nil {
		return time.Time{}
	}

	month, ok := lookupMonth(matches[1])
	if !ok {
		return time.Time{}
	}

	day, err := strconv.Atoi(matches[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}
	}

	year := defaultYear
	if matches[3] != "" {
		if year, err = strconv.Atoi(matches[3]); err != nil {
			return time.Time{}
		}
	}

	// time.Date normalizes overflow: April 31 becomes May 1
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// lookupMonth matches a month word on its first three letters,
// case-insensitively: "Mar", "March", "Marc" and "Sept" all resolve.
func lookupMonth(word string) (time.Month, bool) {
	if len(word) < 3 {
		return 0, false
	}
	prefix := strings.ToLower(word[:3])
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()[:3]) == prefix {
			return m, true
		}
	}
	return 0, false
}

// NormalizeDate converts a free-text date into YYYY-MM-DD.
// Returns NoDateFound when the text is empty or holds no valid date.
func NormalizeDate(raw string, defaultYear int) string {
	t := ParseDate(raw, defaultYear)
	if t.IsZero() {
		return NoDateFound
	}
	return t.Format(ISODateLayout)
}

// ParseISODate parses a date produced by NormalizeDate
func ParseISODate(date string) (time.Time, bool) {
	t, err := time.Parse(ISODateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
