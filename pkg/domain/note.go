package domain

import (
	"fmt"
	"time"
)

// Note is a single user note. ID is assigned by the server.
type Note struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

// WireNote is the note shape on the wire, with the date still an ISO-8601 string.
type WireNote struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// Parse converts a wire note into a Note, parsing its date.
func (w WireNote) Parse() (Note, error) {
	date, err := ParseDate(w.Date)
	if err != nil {
		return Note{}, fmt.Errorf("note %s: %w", w.ID, err)
	}
	return Note{ID: w.ID, Content: w.Content, Date: date}, nil
}

// ParseDate parses an ISO-8601 timestamp as sent by the notes service.
// A trailing offset is optional; dates without one are read as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// NotePage is one page of notes as returned by the list endpoint.
type NotePage struct {
	Notes      []Note
	TotalPages int
	// BadDates lists IDs of notes whose date did not parse. Those notes
	// are kept with a zero Date.
	BadDates []string
}
