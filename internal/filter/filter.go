// Package filter provides the domain predicates applied to scraped records.
//
// Courses are kept when their level reaches a minimum and their description
// does not mention an excluded term:
//
//	f := filter.DefaultCourseFilter()
//	if ok, reason := f.Check(3701, "Topics vary."); !ok {
//	    log.Debug("dropped", logger.Fields{"reason": reason})
//	}
//
// Athletics events are kept only when both title and date are present.
package filter

import (
	"strings"

	"github.com/pfrederiksen/du-scrape/internal/event"
)

// Reasons reported by Check when a course is excluded
const (
	ReasonBelowLevel    = "below minimum level"
	ReasonExcludedTerm  = "mentions excluded term"
	ReasonMissingFields = "missing title or date"
)

// CourseFilter represents course inclusion criteria
type CourseFilter struct {
	// MinLevel is the lowest course number kept (inclusive)
	MinLevel int `json:"min_level"`

	// ExcludeTerm drops courses whose description contains it (case-insensitive).
	// Empty disables the check.
	ExcludeTerm string `json:"exclude_term,omitempty"`
}

// DefaultCourseFilter keeps 3000+ level courses without prerequisites
func DefaultCourseFilter() CourseFilter {
	return CourseFilter{
		MinLevel:    3000,
		ExcludeTerm: "prerequisite",
	}
}

// Check reports whether a course passes the filter, and if not, why
func (f CourseFilter) Check(level int, description string) (bool, string) {
	if level < f.MinLevel {
		return false, ReasonBelowLevel
	}

	if f.ExcludeTerm != "" &&
		strings.Contains(strings.ToLower(description), strings.ToLower(f.ExcludeTerm)) {
		return false, ReasonExcludedTerm
	}

	return true, ""
}

// HasTitleAndDate reports whether an athletics event has both fields
func HasTitleAndDate(evt event.AthleticsEvent) bool {
	return evt.Title != "" && evt.Date != ""
}
