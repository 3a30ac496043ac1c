package notes

import (
	"slices"

	"github.com/naveenspark/jotter/pkg/domain"
)

// Snapshot is a consistent copy of the store's state.
type Snapshot struct {
	Notes        []domain.Note
	ItemsPerPage int
	CurrentPage  int
	TotalPages   int
	Loading      bool
	Err          string
}

// Snapshot copies the current state under the lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Notes:        slices.Clone(s.notes),
		ItemsPerPage: s.itemsPerPage,
		CurrentPage:  s.currentPage,
		TotalPages:   s.totalPages,
		Loading:      s.loading,
		Err:          s.err,
	}
}

// Notes returns the collection in insertion order.
func (s *Store) Notes() []domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

// SortedNotes returns all notes newest first. Notes with equal dates keep
// their insertion order.
func (s *Store) SortedNotes() []domain.Note {
	return s.Snapshot().SortedNotes()
}

// PaginatedNotes returns the first CurrentPage*ItemsPerPage sorted notes.
func (s *Store) PaginatedNotes() []domain.Note {
	return s.Snapshot().PaginatedNotes()
}

// NoteByID returns the first note with the given id.
func (s *Store) NoteByID(id string) (domain.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.notes[i], true
	}
	return domain.Note{}, false
}

// HasMoreNotes reports whether the server has pages beyond the cursor.
func (s *Store) HasMoreNotes() bool {
	return s.Snapshot().HasMoreNotes()
}

// CurrentPage is the highest page loaded so far.
func (s *Store) CurrentPage() int { return s.Snapshot().CurrentPage }

// TotalPages is the page count last reported by the server.
func (s *Store) TotalPages() int { return s.Snapshot().TotalPages }

// ItemsPerPage is the page size sent with every list request.
func (s *Store) ItemsPerPage() int { return s.itemsPerPage }

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool { return s.Snapshot().Loading }

// Err is the message from the last failed operation, or empty.
func (s *Store) Err() string { return s.Snapshot().Err }

// SortedNotes orders the snapshot's notes by date, newest first.
func (snap Snapshot) SortedNotes() []domain.Note {
	sorted := slices.Clone(snap.Notes)
	slices.SortStableFunc(sorted, func(a, b domain.Note) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

// PaginatedNotes limits SortedNotes to CurrentPage*ItemsPerPage entries.
// The limit applies to the sorted set, not to the server pages that were
// actually fetched: if server order differs from date order this view can
// include notes from a later page.
func (snap Snapshot) PaginatedNotes() []domain.Note {
	sorted := snap.SortedNotes()
	limit := snap.CurrentPage * snap.ItemsPerPage
	if limit < len(sorted) {
		return sorted[:limit]
	}
	return sorted
}

// HasMoreNotes reports whether CurrentPage < TotalPages.
func (snap Snapshot) HasMoreNotes() bool {
	return snap.CurrentPage < snap.TotalPages
}
