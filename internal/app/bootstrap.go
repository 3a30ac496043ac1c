// Package app wires the session and notes stores together at startup.
package app

import (
	"context"
	"log/slog"

	"github.com/naveenspark/jotter/internal/notes"
	"github.com/naveenspark/jotter/internal/session"
)

// Stores groups the application's state holders.
type Stores struct {
	Session *session.Store
	Notes   *notes.Store
}

// Bootstrap rehydrates the session from storage, then loads the first page
// of notes. Failures surface through each store's Err, never as a return.
func Bootstrap(ctx context.Context, st Stores, logger *slog.Logger) {
	st.Session.Initialize()
	logger.Debug("session initialized", "authenticated", st.Session.Authenticated())

	st.Notes.Initialize(ctx)
	if msg := st.Notes.Err(); msg != "" {
		logger.Warn("initial notes load failed", "error", msg)
		return
	}
	logger.Debug("notes initialized", "count", len(st.Notes.Notes()), "total_pages", st.Notes.TotalPages())
}
