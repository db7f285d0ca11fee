package event

// Sentinel values written in place of fields that could not be extracted
const (
	NoTitleProvided    = "No Title Provided"
	NoTitleFound       = "No Title Found"
	NoDateFound        = "No Date Found"
	NoTimeFound        = "No Time Found"
	NoDescriptionFound = "No Description Found"
)

// Course represents one bulletin course entry
type Course struct {
	Course string `json:"course"` // Normalized code, e.g. COMP-3000
	Title  string `json:"title"`
}

// CalendarEvent represents one event scraped from a calendar detail page
type CalendarEvent struct {
	Title       string `json:"title"`
	Date        string `json:"date"` // YYYY-MM-DD or NoDateFound
	Time        string `json:"time"`
	Description string `json:"description"`
}

// AthleticsEvent represents one event from the athletics site.
// Date is kept exactly as it appears on the page.
type AthleticsEvent struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}
