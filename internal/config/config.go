package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/du-scrape/internal/event"
	"github.com/pfrederiksen/du-scrape/internal/filter"
)

const (
	DefaultResultsDir  = "results"
	DefaultYear        = event.DefaultYear
	DefaultConcurrency = 8

	BulletinURL     = "https://bulletin.du.edu/undergraduate/majorsminorscoursedescriptions/traditionalbachelorsprogrammajorandminors/computerscience/#coursedescriptionstext"
	CalendarBaseURL = "https://www.du.edu/calendar"
	AthleticsURL    = "https://denverpioneers.com/"

	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"
	AcceptLanguage   = "en-US,en;q=0.9"
)

// Environment variables read by Load
const (
	EnvResultsDir   = "DU_SCRAPE_RESULTS_DIR"
	EnvYear         = "DU_SCRAPE_YEAR"
	EnvConcurrency  = "DU_SCRAPE_CONCURRENCY"
	EnvTimeout      = "DU_SCRAPE_TIMEOUT"
	EnvBulletinURL  = "DU_SCRAPE_BULLETIN_URL"
	EnvCalendarURL  = "DU_SCRAPE_CALENDAR_URL"
	EnvAthleticsURL = "DU_SCRAPE_ATHLETICS_URL"
	EnvLogLevel     = "DU_SCRAPE_LOG_LEVEL"
)

// Config is passed explicitly into every job
type Config struct {
	ResultsDir string
	LogLevel   string

	// Timeout applies to every HTTP request. Zero means no timeout.
	Timeout time.Duration

	Bulletin  BulletinConfig
	Calendar  CalendarConfig
	Athletics AthleticsConfig
}

// BulletinConfig configures the course bulletin job
type BulletinConfig struct {
	URL         string
	Subject     string // Course code prefix, e.g. COMP
	MinLevel    int
	ExcludeTerm string // Courses whose description mentions this are dropped
	OutputFile  string
}

// CalendarConfig configures the events calendar job
type CalendarConfig struct {
	BaseURL string
	Year    int

	// Concurrency caps simultaneous detail-page fetches per month.
	// Zero or less means unbounded.
	Concurrency int

	OutputFile string
	ICSFile    string
}

// AthleticsConfig configures the athletics events job
type AthleticsConfig struct {
	URL        string
	OutputFile string
}

// Default returns the built-in configuration
func Default() *Config {
	courses := filter.DefaultCourseFilter()

	return &Config{
		ResultsDir: DefaultResultsDir,
		LogLevel:   "info",
		Bulletin: BulletinConfig{
			URL:         BulletinURL,
			Subject:     "COMP",
			MinLevel:    courses.MinLevel,
			ExcludeTerm: courses.ExcludeTerm,
			OutputFile:  "bulletin.json",
		},
		Calendar: CalendarConfig{
			BaseURL:     CalendarBaseURL,
			Year:        DefaultYear,
			Concurrency: DefaultConcurrency,
			OutputFile:  "calendar_events.json",
			ICSFile:     "calendar_events.ics",
		},
		Athletics: AthleticsConfig{
			URL:        AthleticsURL,
			OutputFile: "events.json",
		},
	}
}

// Load returns the defaults overridden by envFile (if it exists) and the
// process environment. Variables already set in the environment take
// precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("loading %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.ResultsDir, EnvResultsDir)
	setString(&c.LogLevel, EnvLogLevel)
	setString(&c.Bulletin.URL, EnvBulletinURL)
	setString(&c.Calendar.BaseURL, EnvCalendarURL)
	setString(&c.Athletics.URL, EnvAthleticsURL)

	if err := setInt(&c.Calendar.Year, EnvYear); err != nil {
		return err
	}
	if err := setInt(&c.Calendar.Concurrency, EnvConcurrency); err != nil {
		return err
	}

	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate checks the settings every job depends on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ResultsDir) == "" {
		return fmt.Errorf("results directory is required")
	}
	if c.Calendar.Year < 1 || c.Calendar.Year > 9999 {
		return fmt.Errorf("invalid year: %d", c.Calendar.Year)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if c.Bulletin.Subject == "" {
		return fmt.Errorf("bulletin subject is required")
	}
	return nil
}
