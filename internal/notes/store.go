// Package notes holds the client-side cache of the user's notes together
// with the pagination cursor, and the operations that keep it in step with
// the notes service.
//
// The server is the source of truth. Local state changes only after the
// server confirms a write; nothing is inserted speculatively, so there is
// nothing to roll back. Store methods are safe for concurrent use, but the
// lock is released while a request is in flight: overlapping calls are not
// serialized and their completions apply in whatever order they arrive.
package notes

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/naveenspark/jotter/pkg/client"
	"github.com/naveenspark/jotter/pkg/domain"
)

// DefaultItemsPerPage is the page size requested from the service.
const DefaultItemsPerPage = 10

// API is the subset of the notes service the store talks to.
type API interface {
	ListNotes(ctx context.Context, page, limit int) (*domain.NotePage, error)
	CreateNote(ctx context.Context, content string) (*domain.Note, error)
	UpdateNote(ctx context.Context, id, content string) error
	DeleteNote(ctx context.Context, id string) error
}

// Messages are the user-facing fallbacks shown when an operation fails and
// the server gave no message of its own.
type Messages struct {
	Load   string
	Add    string
	Edit   string
	Delete string
}

// DefaultMessages are the English fallbacks.
var DefaultMessages = Messages{
	Load:   "Could not load notes.",
	Add:    "Could not add the note.",
	Edit:   "Could not edit the note.",
	Delete: "Could not delete the note.",
}

// Store is the in-memory note collection. Use New.
type Store struct {
	api          API
	logger       *slog.Logger
	msgs         Messages
	itemsPerPage int

	mu          sync.Mutex
	notes       []domain.Note
	currentPage int
	totalPages  int
	loading     bool
	err         string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithItemsPerPage overrides DefaultItemsPerPage. Values below 1 are ignored.
func WithItemsPerPage(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.itemsPerPage = n
		}
	}
}

// WithMessages replaces the fallback error messages. Empty fields keep
// their defaults.
func WithMessages(m Messages) Option {
	return func(s *Store) {
		if m.Load != "" {
			s.msgs.Load = m.Load
		}
		if m.Add != "" {
			s.msgs.Add = m.Add
		}
		if m.Edit != "" {
			s.msgs.Edit = m.Edit
		}
		if m.Delete != "" {
			s.msgs.Delete = m.Delete
		}
	}
}

// New returns an empty Store on page 1 of 1.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:          api,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		msgs:         DefaultMessages,
		itemsPerPage: DefaultItemsPerPage,
		currentPage:  1,
		totalPages:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize drops the local collection and loads page 1.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.currentPage = 1
	s.notes = nil
	s.mu.Unlock()
	s.LoadNotes(ctx, 1)
}

// LoadNotes fetches one page and appends it to the collection. Pages below
// 1 are read as 1. Notes already present are not deduplicated.
func (s *Store) LoadNotes(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	s.begin()
	res, err := s.api.ListNotes(ctx, page, s.itemsPerPage)
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finishLocked()
	if err != nil {
		s.failLocked("load notes", err, s.msgs.Load, "page", page)
		return
	}
	if len(res.BadDates) > 0 {
		s.logger.Warn("notes with unparsable date", "page", page, "ids", res.BadDates)
	}
	s.notes = append(s.notes, res.Notes...)
	s.totalPages = res.TotalPages
	s.currentPage = page
	s.logger.Debug("notes loaded", "page", page, "count", len(res.Notes), "total_pages", res.TotalPages)
}

// AddNote creates a note and appends the server's copy once confirmed.
func (s *Store) AddNote(ctx context.Context, content string) {
	s.begin()
	n, err := s.api.CreateNote(ctx, content)
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finishLocked()
	if err != nil {
		s.failLocked("add note", err, s.msgs.Add)
		return
	}
	s.notes = append(s.notes, *n)
	s.logger.Debug("note added", "id", n.ID)
}

// EditNote updates a note's content. The local copy's date is left as is.
// If the note is not in the collection the local update is skipped
// without error.
func (s *Store) EditNote(ctx context.Context, id, content string) {
	s.begin()
	err := s.api.UpdateNote(ctx, id, content)
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finishLocked()
	if err != nil {
		s.failLocked("edit note", err, s.msgs.Edit, "id", id)
		return
	}
	if i := s.indexLocked(id); i >= 0 {
		s.notes[i].Content = content
	}
	s.logger.Debug("note edited", "id", id)
}

// DeleteNote deletes a note and removes every local note with that id.
func (s *Store) DeleteNote(ctx context.Context, id string) {
	s.begin()
	err := s.api.DeleteNote(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finishLocked()
	if err != nil {
		s.failLocked("delete note", err, s.msgs.Delete, "id", id)
		return
	}
	s.notes = slices.DeleteFunc(s.notes, func(n domain.Note) bool { return n.ID == id })
	s.logger.Debug("note deleted", "id", id)
}

// LoadMore advances the cursor and loads the next page when the server
// reported more pages. The cursor moves before the request, so a failed
// load still leaves it advanced.
func (s *Store) LoadMore(ctx context.Context) {
	s.mu.Lock()
	if s.currentPage >= s.totalPages {
		s.mu.Unlock()
		return
	}
	s.currentPage++
	page := s.currentPage
	s.mu.Unlock()
	s.LoadNotes(ctx, page)
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) finishLocked() {
	s.loading = false
}

func (s *Store) failLocked(op string, err error, fallback string, attrs ...any) {
	msg := client.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}
	s.err = msg
	s.logger.Warn(op+" failed", append(attrs, "error", err)...)
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.notes, func(n domain.Note) bool { return n.ID == id })
}
