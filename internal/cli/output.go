package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pfrederiksen/du-scrape/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Summary reports the result of one job run
type Summary struct {
	Job       string                 `json:"job"`
	RunID     string                 `json:"run_id"`
	StartedAt time.Time              `json:"started_at"`
	Duration  time.Duration          `json:"-"`
	Output    string                 `json:"output"` // empty when nothing was written
	ICSOutput string                 `json:"ics_output,omitempty"`
	Records   int                    `json:"records"`
	Tally     scraper.Tally          `json:"tally"`
	Error     string                 `json:"error,omitempty"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`

	err error // job error, sets the exit status
}

// MarshalJSON renders the duration as a string
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	return json.Marshal(struct {
		alias
		Duration string `json:"duration"`
	}{
		alias:    alias(s),
		Duration: s.Duration.String(),
	})
}

// WriteOutput writes the summaries in the specified format
func WriteOutput(w io.Writer, summaries []*Summary, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summaries)
	case FormatText:
		return writeText(w, summaries, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs summaries as JSON
func writeJSON(w io.Writer, summaries []*Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		Runs []*Summary `json:"runs"`
	}{Runs: summaries})
}

// writeText outputs summaries as human-readable text
func writeText(w io.Writer, summaries []*Summary, verbose bool) error {
	for _, s := range summaries {
		switch {
		case s.Output != "":
			fmt.Fprintf(w, "%s: %d records written to %s\n", s.Job, s.Records, s.Output)
		case s.Error != "":
			fmt.Fprintf(w, "%s: nothing written (%s)\n", s.Job, s.Error)
		default:
			fmt.Fprintf(w, "%s: no records found, nothing written\n", s.Job)
		}

		if s.ICSOutput != "" {
			fmt.Fprintf(w, "  calendar feed: %s\n", s.ICSOutput)
		}

		if !verbose {
			continue
		}

		fmt.Fprintf(w, "  run: %s (%s)\n", s.RunID, s.Duration)
		fmt.Fprintf(w, "  outcomes: %d total, %d success, %d skipped, %d failed\n",
			s.Tally.Total(), s.Tally.Success, s.Tally.Skipped, s.Tally.Failed)

		// Sorted for stable output
		reasons := make([]string, 0, len(s.Tally.Reasons))
		for reason := range s.Tally.Reasons {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(w, "    skipped, %s: %d\n", reason, s.Tally.Reasons[reason])
		}
	}

	if verbose && len(summaries) > 0 && summaries[0].Metrics != nil {
		if counters, ok := summaries[0].Metrics["counters"].(map[string]int64); ok {
			names := make([]string, 0, len(counters))
			for name := range counters {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintln(w, "\nMetrics:")
			for _, name := range names {
				fmt.Fprintf(w, "  %s: %d\n", name, counters[name])
			}
		}
	}

	return nil
}
