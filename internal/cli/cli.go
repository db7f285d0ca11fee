package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pfrederiksen/du-scrape/internal/config"
	"github.com/pfrederiksen/du-scrape/internal/logger"
	"github.com/pfrederiksen/du-scrape/internal/scraper"
	"github.com/pfrederiksen/du-scrape/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// options holds the parsed command-line flags
type options struct {
	resultsDir string
	envFile    string
	logLevel   string
	format     string
	timeout    time.Duration
	verbose    bool

	url         string
	subject     string
	minLevel    int
	year        int
	concurrency int
	ics         bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "du-scrape",
		Short: "Scrape University of Denver course and event listings",
		Long: `A CLI tool that scrapes public University of Denver pages into JSON files:
upper-level courses from the course bulletin, a year of events from the
university calendar, and upcoming athletics events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := config.Default()

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.resultsDir, "results-dir", defaults.ResultsDir, "Directory the result files are written to")
	pf.StringVar(&opts.envFile, "env-file", ".env", "Environment file to load (ignored if missing)")
	pf.StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	pf.StringVar(&opts.format, "format", "text", "Summary format: text or json")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (0 disables)")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging and include metrics in the summary")

	bulletin := &cobra.Command{
		Use:   "bulletin",
		Short: "Scrape 3000+ level courses without prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.setup(cmd, func(cfg *config.Config) { cfg.Bulletin.URL = opts.url })
			if err != nil {
				return err
			}
			return r.finish([]*Summary{r.runBulletin(cmd.Context())})
		},
	}
	bulletin.Flags().StringVar(&opts.url, "url", defaults.Bulletin.URL, "Course bulletin URL")
	bulletin.Flags().StringVar(&opts.subject, "subject", defaults.Bulletin.Subject, "Course subject code")
	bulletin.Flags().IntVar(&opts.minLevel, "min-level", defaults.Bulletin.MinLevel, "Lowest course number kept")

	calendar := &cobra.Command{
		Use:   "calendar",
		Short: "Scrape a year of events from the university calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.setup(cmd, func(cfg *config.Config) { cfg.Calendar.BaseURL = opts.url })
			if err != nil {
				return err
			}
			return r.finish([]*Summary{r.runCalendar(cmd.Context())})
		},
	}
	calendar.Flags().StringVar(&opts.url, "url", defaults.Calendar.BaseURL, "Calendar base URL")
	addCalendarFlags(calendar, opts, defaults)

	athletics := &cobra.Command{
		Use:   "athletics",
		Short: "Scrape upcoming events from the athletics site",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.setup(cmd, func(cfg *config.Config) { cfg.Athletics.URL = opts.url })
			if err != nil {
				return err
			}
			return r.finish([]*Summary{r.runAthletics(cmd.Context())})
		},
	}
	athletics.Flags().StringVar(&opts.url, "url", defaults.Athletics.URL, "Athletics site URL")

	all := &cobra.Command{
		Use:   "all",
		Short: "Run the bulletin, calendar and athletics jobs in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.setup(cmd, nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return r.finish([]*Summary{
				r.runBulletin(ctx),
				r.runCalendar(ctx),
				r.runAthletics(ctx),
			})
		},
	}
	addCalendarFlags(all, opts, defaults)

	cmd.AddCommand(bulletin, calendar, athletics, all)

	return cmd
}

func addCalendarFlags(cmd *cobra.Command, opts *options, defaults *config.Config) {
	cmd.Flags().IntVar(&opts.year, "year", defaults.Calendar.Year, "Calendar year to scrape")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", defaults.Calendar.Concurrency, "Concurrent detail fetches per month (0 is unbounded)")
	cmd.Flags().BoolVar(&opts.ics, "ics", false, "Also write the calendar as an iCalendar file")
}

// setup loads the config, applies the flags that were set, and builds the
// runner. Flags override the environment, which overrides the defaults.
func (o *options) setup(cmd *cobra.Command, applyURL func(*config.Config)) (*runner, error) {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}

	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("results-dir") {
		cfg.ResultsDir = o.resultsDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	} else if o.verbose {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("url") && applyURL != nil {
		applyURL(cfg)
	}
	if flags.Changed("subject") {
		cfg.Bulletin.Subject = strings.ToUpper(strings.TrimSpace(o.subject))
	}
	if flags.Changed("min-level") {
		cfg.Bulletin.MinLevel = o.minLevel
	}
	if flags.Changed("year") {
		cfg.Calendar.Year = o.year
	}
	if flags.Changed("concurrency") {
		cfg.Calendar.Concurrency = o.concurrency
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(log)

	// Counters are process-wide; each invocation reports only its own
	metrics := logger.DefaultMetrics()
	metrics.Reset()

	store, err := storage.New(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	return &runner{
		cfg:        cfg,
		store:      store,
		out:        cmd.OutOrStdout(),
		log:        log,
		metrics:    metrics,
		format:     format,
		verbose:    o.verbose,
		exportICS:  o.ics,
		newScraper: scraper.NewHTTP,
		now:        time.Now,
	}, nil
}

// finish writes the run summary and reports the first job error
func (r *runner) finish(summaries []*Summary) error {
	r.log.Debug("run totals", logger.Fields{
		"fetch_ok":        r.metrics.Counter(metricFetchOK),
		"fetch_failed":    r.metrics.Counter(metricFetchFailed),
		"records_written": r.metrics.Counter(metricRecordsWritten),
	})

	if r.verbose {
		metrics := r.metrics.GetSnapshot()
		for _, s := range summaries {
			s.Metrics = metrics
		}
	}

	if err := WriteOutput(r.out, summaries, r.format, r.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	var errs []error
	for _, s := range summaries {
		if s.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Job, s.err))
		}
	}
	return errors.Join(errs...)
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
