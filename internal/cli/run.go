package cli

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/du-scrape/internal/calendar"
	"github.com/pfrederiksen/du-scrape/internal/config"
	"github.com/pfrederiksen/du-scrape/internal/logger"
	"github.com/pfrederiksen/du-scrape/internal/scraper"
	"github.com/pfrederiksen/du-scrape/internal/storage"
)

const (
	metricFetchOK        = "fetch.ok"
	metricFetchFailed    = "fetch.failed"
	metricRecordsWritten = "records.written"
)

// runner executes scrape jobs against one configuration
type runner struct {
	cfg       *config.Config
	store     *storage.Storage
	out       io.Writer
	log       *logger.Logger
	metrics   *logger.Metrics
	format    OutputFormat
	verbose   bool
	exportICS bool

	newScraper func(*config.Config, *logger.Logger) *scraper.Scraper
	now        func() time.Time
}

// start opens a job summary with a fresh run id and a logger carrying it
func (r *runner) start(job string) (*Summary, *logger.Logger) {
	s := &Summary{
		Job:       job,
		RunID:     uuid.NewString(),
		StartedAt: r.now().UTC(),
	}
	log := r.log.With(logger.Fields{"job": job, "run_id": s.RunID})
	log.Info("starting job", nil)
	return s, log
}

func (r *runner) done(s *Summary, log *logger.Logger) *Summary {
	s.Duration = r.now().UTC().Sub(s.StartedAt)
	fields := logger.Fields{
		"records":  s.Records,
		"output":   s.Output,
		"duration": s.Duration.String(),
	}
	if s.err != nil {
		s.Error = s.err.Error()
		log.Error("job failed", fields, s.err)
		return s
	}
	log.Info("job finished", fields)
	return s
}

// runBulletin scrapes the bulletin. A failed fetch writes nothing and is not
// a job error.
func (r *runner) runBulletin(ctx context.Context) *Summary {
	s, log := r.start("bulletin")

	result, err := r.newScraper(r.cfg, log).ScrapeCourses(ctx)
	if err != nil {
		log.Error("error fetching the course bulletin", logger.Fields{"url": r.cfg.Bulletin.URL}, err)
		s.Error = err.Error()
		return r.done(s, log)
	}

	s.Tally = scraper.TallyOf(result.Outcomes)
	s.Records = len(result.Courses)

	path, err := r.store.WriteCourses(r.cfg.Bulletin.OutputFile, result.Courses)
	if err != nil {
		s.err = err
		return r.done(s, log)
	}
	s.Output = path
	r.metrics.AddCounter(metricRecordsWritten, int64(len(result.Courses)))
	log.Info("data successfully written", logger.Fields{"path": path})

	return r.done(s, log)
}

// runCalendar scrapes the configured calendar year. The file is written even
// when some months failed.
func (r *runner) runCalendar(ctx context.Context) *Summary {
	s, log := r.start("calendar")

	result, scrapeErr := r.newScraper(r.cfg, log).ScrapeCalendarYear(ctx)

	s.Tally = scraper.TallyOf(result.Details)
	s.Tally.Add(scraper.Tally{Failed: scraper.TallyOf(result.Months).Failed})
	s.Records = len(result.Events)

	path, err := r.store.WriteCalendarEvents(r.cfg.Calendar.OutputFile, result.Events)
	if err != nil {
		s.err = err
		return r.done(s, log)
	}
	s.Output = path
	r.metrics.AddCounter(metricRecordsWritten, int64(len(result.Events)))
	log.Info("data successfully written", logger.Fields{"path": path, "events": len(result.Events)})

	if r.exportICS {
		export := calendar.Build(result.Events, r.now())
		icsPath, err := r.store.WriteFile(r.cfg.Calendar.ICSFile, []byte(export.Serialize()))
		if err != nil {
			s.err = err
			return r.done(s, log)
		}
		s.ICSOutput = icsPath
		log.Info("calendar export written", logger.Fields{
			"path":       icsPath,
			"events":     export.Added,
			"duplicates": export.Duplicates,
			"undated":    export.Undated,
		})
	}

	s.err = scrapeErr
	return r.done(s, log)
}

// runAthletics scrapes the athletics site. Nothing is written when the
// fetch fails or no events are found.
func (r *runner) runAthletics(ctx context.Context) *Summary {
	s, log := r.start("athletics")

	result, err := r.newScraper(r.cfg, log).ScrapeAthletics(ctx)
	if err != nil {
		log.Error("error fetching athletics events", logger.Fields{"url": r.cfg.Athletics.URL}, err)
		s.Error = err.Error()
		return r.done(s, log)
	}

	s.Tally = scraper.TallyOf(result.Outcomes)
	s.Records = len(result.Events)

	if len(result.Events) == 0 {
		log.Info("no events found", nil)
		return r.done(s, log)
	}

	path, err := r.store.WriteAthleticsEvents(r.cfg.Athletics.OutputFile, result.Events)
	if err != nil {
		s.err = err
		return r.done(s, log)
	}
	s.Output = path
	r.metrics.AddCounter(metricRecordsWritten, int64(len(result.Events)))
	log.Info("events saved", logger.Fields{"path": path, "events": len(result.Events)})

	return r.done(s, log)
}
