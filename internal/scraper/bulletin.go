package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/du-scrape/internal/event"
	"github.com/pfrederiksen/du-scrape/internal/filter"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	digitRun      = regexp.MustCompile(`\d+`)
)

// coursePattern matches a bulletin title such as "COMP 3701 Advanced Topics (4 Credits)".
// Group 1 is the code, group 2 the title without the credits annotation.
func coursePattern(subject string) *regexp.Regexp {
	return regexp.MustCompile(`(` + regexp.QuoteMeta(subject) + `\s*\d+)\s*(.*?)(?:\(\d+ Credits\))?$`)
}

// ParseCourses extracts one outcome per .courseblock in the bulletin markup.
// Blocks that fail the title pattern or the filter are Skipped.
func ParseCourses(r io.Reader, subject string, f filter.CourseFilter) ([]Outcome[event.Course], error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	pattern := coursePattern(subject)
	outcomes := make([]Outcome[event.Course], 0)

	doc.Find(".courseblock").Each(func(i int, block *goquery.Selection) {
		outcomes = append(outcomes, parseCourseBlock(block, pattern, f))
	})

	return outcomes, nil
}

func parseCourseBlock(block *goquery.Selection, pattern *regexp.Regexp, f filter.CourseFilter) Outcome[event.Course] {
	titleText := cleanText(block.Find(".courseblocktitle").Text())
	description := cleanText(block.Find(".courseblockdesc").Text())

	if titleText == "" {
		return Skipped[event.Course](ReasonMissingTitle)
	}

	matches := pattern.FindStringSubmatch(titleText)
	if matches == nil {
		return Skipped[event.Course](ReasonPatternMismatch).WithSource(titleText)
	}

	// COMP 3000 -> COMP-3000
	code := strings.TrimSpace(whitespaceRun.ReplaceAllString(matches[1], "-"))

	title := strings.TrimSpace(matches[2])
	if title == "" {
		title = event.NoTitleProvided
	}

	level, err := strconv.Atoi(digitRun.FindString(code))
	if err != nil {
		return Skipped[event.Course](ReasonPatternMismatch).WithSource(titleText)
	}

	if ok, reason := f.Check(level, description); !ok {
		return Skipped[event.Course](reason).WithSource(code)
	}

	return Success(event.Course{Course: code, Title: title}).WithSource(code)
}

// cleanText turns non-breaking spaces into plain spaces and trims.
// Bulletin titles separate code and number with &nbsp;.
func cleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}
