package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/du-scrape/internal/event"
)

// Indentation used by each result file
const (
	CompactIndent = "  "
	WideIndent    = "    "
)

// CourseFile is the bulletin result document
type CourseFile struct {
	Courses []event.Course `json:"courses"`
}

// CalendarFile is the calendar result document
type CalendarFile struct {
	Events []event.CalendarEvent `json:"events"`
}

// AthleticsFile is the athletics result document
type AthleticsFile struct {
	Events []event.AthleticsEvent `json:"events"`
}

// Storage handles persistence of scrape results
type Storage struct {
	dir string
}

// New creates a Storage rooted at dir. A leading ~/ is expanded to the home
// directory. The directory itself is created on first write.
func New(dir string) (*Storage, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	return &Storage{dir: dir}, nil
}

// Path returns the full path of a result file
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteCourses writes {"courses": [...]} to name with two-space indentation
func (s *Storage) WriteCourses(name string, courses []event.Course) (string, error) {
	if courses == nil {
		courses = []event.Course{}
	}
	return s.writeJSON(name, CourseFile{Courses: courses}, CompactIndent)
}

// WriteCalendarEvents writes {"events": [...]} to name with two-space indentation
func (s *Storage) WriteCalendarEvents(name string, events []event.CalendarEvent) (string, error) {
	if events == nil {
		events = []event.CalendarEvent{}
	}
	return s.writeJSON(name, CalendarFile{Events: events}, CompactIndent)
}

// WriteAthleticsEvents writes {"events": [...]} to name with four-space indentation
func (s *Storage) WriteAthleticsEvents(name string, events []event.AthleticsEvent) (string, error) {
	if events == nil {
		events = []event.AthleticsEvent{}
	}
	return s.writeJSON(name, AthleticsFile{Events: events}, WideIndent)
}

// WriteFile writes raw content to name, creating the directory if needed
func (s *Storage) WriteFile(name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}

	path := s.Path(name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	return path, nil
}

func (s *Storage) writeJSON(name string, v interface{}, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)

	// Encode terminates the document with a newline
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}

	return s.WriteFile(name, buf.Bytes())
}
