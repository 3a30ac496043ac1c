package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/naveenspark/jotter/internal/notes"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

type notesMode int

const (
	modeBrowse notesMode = iota
	modeCompose
	modeConfirmDelete
)

// notesSyncedMsg is sent when a notes store operation settles. The view
// re-reads the store; the message carries no state of its own.
type notesSyncedMsg struct {
	op string
}

type notesModel struct {
	store     *notes.Store
	clock     clockwork.Clock
	cursor    int
	mode      notesMode
	draft     string
	editingID string // empty while composing a new note
	statusMsg string
	pending   int // operations in flight from this view
	width     int
	height    int
	frame     int
}

func newNotesModel(s *notes.Store, clock clockwork.Clock) notesModel {
	return notesModel{store: s, clock: clock}
}

// run executes op against the store off the UI goroutine.
func (m notesModel) run(name string, op func(ctx context.Context, s *notes.Store)) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		op(context.Background(), s)
		return notesSyncedMsg{op: name}
	}
}

func (m notesModel) reload() tea.Cmd {
	return m.run("reload", func(ctx context.Context, s *notes.Store) { s.Initialize(ctx) })
}

func (m notesModel) Update(msg tea.Msg) (notesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case shimmerTickMsg:
		m.frame++
		return m, nil

	case notesSyncedMsg:
		if m.pending > 0 {
			m.pending--
		}
		if errMsg := m.store.Err(); errMsg == "" {
			switch msg.op {
			case "add":
				m.statusMsg = "note added"
			case "edit":
				m.statusMsg = "note saved"
			case "delete":
				m.statusMsg = "note deleted"
			}
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeCompose:
			return m.updateCompose(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m notesModel) updateBrowse(msg tea.KeyMsg) (notesModel, tea.Cmd) {
	m.statusMsg = ""
	// A delete may have settled in the store before its notesSyncedMsg.
	m.clampCursor()
	visible := m.store.PaginatedNotes()

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		} else if m.store.HasMoreNotes() {
			return m.loadMore()
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(visible)-1, 0)
	case "m", " ":
		return m.loadMore()
	case "r":
		m.pending++
		m.cursor = 0
		return m, m.reload()
	case "n":
		m.mode = modeCompose
		m.draft = ""
		m.editingID = ""
	case "e", "enter":
		if len(visible) == 0 {
			return m, nil
		}
		n := visible[m.cursor]
		m.mode = modeCompose
		m.draft = n.Content
		m.editingID = n.ID
	case "d":
		if len(visible) > 0 {
			m.mode = modeConfirmDelete
		}
	case "c":
		if len(visible) == 0 {
			return m, nil
		}
		if err := copyToClipboard(visible[m.cursor].Content); err != nil {
			m.statusMsg = "copy failed: " + err.Error()
		} else {
			m.statusMsg = "copied to clipboard"
		}
	}
	return m, nil
}

func (m notesModel) loadMore() (notesModel, tea.Cmd) {
	if !m.store.HasMoreNotes() {
		m.statusMsg = "no more notes"
		return m, nil
	}
	m.pending++
	return m, m.run("load", func(ctx context.Context, s *notes.Store) { s.LoadMore(ctx) })
}

func (m notesModel) updateCompose(msg tea.KeyMsg) (notesModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.draft = ""
		m.editingID = ""
		return m, nil
	case tea.KeyCtrlS:
		content := strings.TrimSpace(m.draft)
		if content == "" {
			m.statusMsg = "note is empty"
			return m, nil
		}
		id := m.editingID
		m.mode = modeBrowse
		m.draft = ""
		m.editingID = ""
		m.pending++
		if id == "" {
			return m, m.run("add", func(ctx context.Context, s *notes.Store) { s.AddNote(ctx, content) })
		}
		return m, m.run("edit", func(ctx context.Context, s *notes.Store) { s.EditNote(ctx, id, content) })
	case tea.KeyEnter:
		m.draft = appendRunes(m.draft, []rune{'\n'})
	default:
		m.draft = editRune(m.draft, msg)
	}
	return m, nil
}

func (m notesModel) updateConfirmDelete(msg tea.KeyMsg) (notesModel, tea.Cmd) {
	m.mode = modeBrowse
	if msg.String() != "y" && msg.String() != "d" {
		m.statusMsg = "delete cancelled"
		return m, nil
	}
	visible := m.store.PaginatedNotes()
	if m.cursor >= len(visible) {
		return m, nil
	}
	id := visible[m.cursor].ID
	m.pending++
	return m, m.run("delete", func(ctx context.Context, s *notes.Store) { s.DeleteNote(ctx, id) })
}

func (m *notesModel) clampCursor() {
	n := len(m.store.PaginatedNotes())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m notesModel) isEditing() bool {
	return m.mode != modeBrowse
}

func (m notesModel) helpKeys() string {
	switch m.mode {
	case modeCompose:
		return helpEntry("ctrl+s", "save") + "  " + helpEntry("enter", "newline") + "  " + helpEntry("esc", "cancel")
	case modeConfirmDelete:
		return helpEntry("y", "delete") + "  " + helpEntry("any", "cancel")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("n", "new") + "  " + helpEntry("e", "edit") + "  " +
		helpEntry("d", "delete") + "  " + helpEntry("c", "copy") + "  " + helpEntry("m", "more") + "  " +
		helpEntry("r", "reload") + "  " + helpEntry("o", "web") + "  " + helpEntry("L", "logout") + "  " +
		helpEntry("h", "help") + "  " + helpEntry("q", "quit")
}

func (m notesModel) View() string {
	if m.mode == modeCompose {
		return m.composeView()
	}

	snap := m.store.Snapshot()
	visible := snap.PaginatedNotes()
	now := m.clock.Now()

	var b strings.Builder
	if len(visible) == 0 {
		switch {
		case snap.Loading:
			b.WriteString("  " + dimStyle.Render("loading notes...") + "\n")
		case snap.Err == "":
			b.WriteString("  " + dimStyle.Render("no notes yet. press n to write one.") + "\n")
		}
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	titleWidth := width - 18
	if titleWidth < 10 {
		titleWidth = 10
	}

	for i, n := range visible {
		when := fmt.Sprintf("%-10s", formatTime(now, n.Date))
		title := truncStr(noteTitle(n.Content), titleWidth)
		if i == m.cursor {
			line := accentStyle.Render("▸ ") + dateStyle.Render(when) + "  " + selectedStyle.Render(title)
			if m.mode == modeConfirmDelete {
				line += "  " + errorStyle.Render("delete? y/n")
			}
			b.WriteString(selectedRowBg.Render(line) + "\n")
			continue
		}
		b.WriteString("  " + dateStyle.Render(when) + "  " + normalStyle.Render(title) + "\n")
	}

	b.WriteString("\n")
	footer := metaStyle.Render(fmt.Sprintf("  page %d of %d · %d notes", snap.CurrentPage, snap.TotalPages, len(snap.Notes)))
	if snap.HasMoreNotes() {
		footer += "  " + dimStyle.Render("m for more")
	}
	b.WriteString(footer + "\n")

	switch {
	case snap.Loading || m.pending > 0:
		b.WriteString("  " + dimStyle.Render("syncing..."))
	case snap.Err != "":
		b.WriteString("  " + errorStyle.Render(snap.Err))
	case m.statusMsg != "":
		b.WriteString("  " + successStyle.Render(m.statusMsg))
	}
	return b.String()
}

func (m notesModel) composeView() string {
	var b strings.Builder
	title := "new note"
	if m.editingID != "" {
		title = "editing note"
	}
	b.WriteString("  " + selectedStyle.Render(title) + "\n\n")
	lines := strings.Split(m.draft, "\n")
	for i, line := range lines {
		b.WriteString("  " + normalStyle.Render(line))
		if i == len(lines)-1 && (m.frame/4)%2 == 0 {
			b.WriteString(accentStyle.Render("█"))
		}
		b.WriteString("\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.statusMsg))
	}
	return b.String()
}
