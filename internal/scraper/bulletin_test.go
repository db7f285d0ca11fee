package scraper

import (
	"strings"
	"testing"

	"github.com/pfrederiksen/du-scrape/internal/event"
	"github.com/pfrederiksen/du-scrape/internal/filter"
)

const bulletinFixture = `<html><body>
<div class="courseblock">
  <p class="courseblocktitle"><strong>COMP&#160;3701 Advanced Topics (4 Credits)</strong></p>
  <p class="courseblockdesc">Topics vary.</p>
</div>
<div class="courseblock">
  <p class="courseblocktitle"><strong>COMP 3801 Operating Systems (4 Credits)</strong></p>
  <p class="courseblockdesc">Prerequisite: COMP-3000.</p>
</div>
<div class="courseblock">
  <p class="courseblocktitle"><strong>COMP 2300 Discrete Structures (4 Credits)</strong></p>
  <p class="courseblockdesc">An introduction.</p>
</div>
<div class="courseblock">
  <p class="courseblocktitle"><strong>COMP 3000 (4 Credits)</strong></p>
  <p class="courseblockdesc">Seminar.</p>
</div>
<div class="courseblock">
  <p class="courseblocktitle"><strong>MATH 3000 Calculus (4 Credits)</strong></p>
  <p class="courseblockdesc">Limits.</p>
</div>
<div class="courseblock">
  <p class="courseblockdesc">Orphan description.</p>
</div>
</body></html>`

func TestParseCourses(t *testing.T) {
	outcomes, err := ParseCourses(strings.NewReader(bulletinFixture), "COMP", filter.DefaultCourseFilter())
	if err != nil {
		t.Fatalf("ParseCourses() unexpected error: %v", err)
	}

	if len(outcomes) != 6 {
		t.Fatalf("ParseCourses() returned %d outcomes, want one per block (6)", len(outcomes))
	}

	tests := []struct {
		name       string
		status     Status
		course     event.Course
		reason     string
		wantSource string
	}{
		{
			name:       "nbsp separated code",
			status:     StatusSuccess,
			course:     event.Course{Course: "COMP-3701", Title: "Advanced Topics"},
			wantSource: "COMP-3701",
		},
		{
			name:       "mentions prerequisite",
			status:     StatusSkipped,
			reason:     filter.ReasonExcludedTerm,
			wantSource: "COMP-3801",
		},
		{
			name:       "below level",
			status:     StatusSkipped,
			reason:     filter.ReasonBelowLevel,
			wantSource: "COMP-2300",
		},
		{
			name:       "no title after code",
			status:     StatusSuccess,
			course:     event.Course{Course: "COMP-3000", Title: event.NoTitleProvided},
			wantSource: "COMP-3000",
		},
		{
			name:   "other subject",
			status: StatusSkipped,
			reason: ReasonPatternMismatch,
		},
		{
			name:   "missing title",
			status: StatusSkipped,
			reason: ReasonMissingTitle,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outcomes[i]
			if got.Status != tt.status {
				t.Fatalf("Status = %s, want %s (reason %q)", got.Status, tt.status, got.Reason)
			}
			if got.Status == StatusSuccess && got.Value != tt.course {
				t.Errorf("Value = %+v, want %+v", got.Value, tt.course)
			}
			if got.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.reason)
			}
			if tt.wantSource != "" && got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
		})
	}

	courses := Values(outcomes)
	if len(courses) != 2 {
		t.Errorf("Values() = %d courses, want 2", len(courses))
	}

	tally := TallyOf(outcomes)
	if tally.Success != 2 || tally.Skipped != 4 || tally.Failed != 0 {
		t.Errorf("TallyOf() = %+v", tally)
	}
}

func TestParseCourses_FilterIsConfigurable(t *testing.T) {
	// Without an exclusion term, the prerequisite course is kept; a lower
	// minimum keeps the 2000-level course as well.
	f := filter.CourseFilter{MinLevel: 2000}

	outcomes, err := ParseCourses(strings.NewReader(bulletinFixture), "COMP", f)
	if err != nil {
		t.Fatalf("ParseCourses() unexpected error: %v", err)
	}

	var codes []string
	for _, c := range Values(outcomes) {
		codes = append(codes, c.Course)
	}

	want := "COMP-3701,COMP-3801,COMP-2300,COMP-3000"
	if got := strings.Join(codes, ","); got != want {
		t.Errorf("courses = %s, want %s", got, want)
	}
}

func TestParseCourses_OtherSubject(t *testing.T) {
	outcomes, err := ParseCourses(strings.NewReader(bulletinFixture), "MATH", filter.DefaultCourseFilter())
	if err != nil {
		t.Fatalf("ParseCourses() unexpected error: %v", err)
	}

	courses := Values(outcomes)
	if len(courses) != 1 || courses[0].Course != "MATH-3000" || courses[0].Title != "Calculus" {
		t.Errorf("courses = %+v, want [MATH-3000 Calculus]", courses)
	}
}

func TestParseCourses_NoBlocks(t *testing.T) {
	outcomes, err := ParseCourses(strings.NewReader("<html><body><p>Nothing</p></body></html>"), "COMP", filter.DefaultCourseFilter())
	if err != nil {
		t.Fatalf("ParseCourses() unexpected error: %v", err)
	}
	if len(outcomes) != 0 {
		t.Errorf("ParseCourses() = %d outcomes, want 0", len(outcomes))
	}
	if got := Values(outcomes); got == nil || len(got) != 0 {
		t.Errorf("Values() = %#v, want empty non-nil slice", got)
	}
}

func TestCoursePattern(t *testing.T) {
	tests := []struct {
		title     string
		wantCode  string
		wantTitle string
		wantMatch bool
	}{
		{"COMP 3701 Advanced Topics (4 Credits)", "COMP 3701", "Advanced Topics", true},
		{"COMP3351 Compilers", "COMP3351", "Compilers", true},
		{"COMP 4000 Thesis (1-10 Credits)", "COMP 4000", "Thesis (1-10 Credits)", true},
		{"Introduction to COMP", "", "", false},
	}

	pattern := coursePattern("COMP")
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			m := pattern.FindStringSubmatch(tt.title)
			if (m != nil) != tt.wantMatch {
				t.Fatalf("match = %v, want %v", m != nil, tt.wantMatch)
			}
			if m == nil {
				return
			}
			if m[1] != tt.wantCode {
				t.Errorf("code = %q, want %q", m[1], tt.wantCode)
			}
			if strings.TrimSpace(m[2]) != tt.wantTitle {
				t.Errorf("title = %q, want %q", strings.TrimSpace(m[2]), tt.wantTitle)
			}
		})
	}
}
