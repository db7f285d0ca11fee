package scraper

// Status classifies the result of one unit of scrape work
type Status int

const (
	StatusSuccess Status = iota // record extracted
	StatusSkipped               // input did not qualify, not an error
	StatusFailed                // page could not be fetched or parsed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Skip reasons reported by the extractors
const (
	ReasonMissingTitle    = "missing title"
	ReasonPatternMismatch = "title pattern mismatch"
)

// Outcome is the tagged result of one unit of work: a course block, a month
// listing, or an event detail page.
type Outcome[T any] struct {
	Status Status
	Value  T      // set when Status is StatusSuccess
	Reason string // set when Status is StatusSkipped
	Err    error  // set when Status is StatusFailed
	Source string // URL or identifier of the unit
}

// Success wraps an extracted value
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Status: StatusSuccess, Value: v}
}

// Skipped records a unit dropped for reason
func Skipped[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: StatusSkipped, Reason: reason}
}

// Failed records a unit that errored
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{Status: StatusFailed, Err: err}
}

// WithSource returns a copy of o tagged with the unit's source
func (o Outcome[T]) WithSource(source string) Outcome[T] {
	o.Source = source
	return o
}

// Ok reports whether the outcome holds a value
func (o Outcome[T]) Ok() bool {
	return o.Status == StatusSuccess
}

// Values returns the successful values in order. Never nil.
func Values[T any](outcomes []Outcome[T]) []T {
	values := make([]T, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Ok() {
			values = append(values, o.Value)
		}
	}
	return values
}

// Tally counts outcomes by status, and skips by reason
type Tally struct {
	Success int            `json:"success"`
	Skipped int            `json:"skipped"`
	Failed  int            `json:"failed"`
	Reasons map[string]int `json:"reasons,omitempty"`
}

// TallyOf counts a slice of outcomes
func TallyOf[T any](outcomes []Outcome[T]) Tally {
	var t Tally
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			t.Success++
		case StatusSkipped:
			t.Skipped++
			if t.Reasons == nil {
				t.Reasons = make(map[string]int)
			}
			t.Reasons[o.Reason]++
		case StatusFailed:
			t.Failed++
		}
	}
	return t
}

// Add merges other into t
func (t *Tally) Add(other Tally) {
	t.Success += other.Success
	t.Skipped += other.Skipped
	t.Failed += other.Failed
	for reason, n := range other.Reasons {
		if t.Reasons == nil {
			t.Reasons = make(map[string]int)
		}
		t.Reasons[reason] += n
	}
}

// Total returns the number of outcomes counted
func (t Tally) Total() int {
	return t.Success + t.Skipped + t.Failed
}
