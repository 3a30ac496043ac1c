package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/jotter/internal/notes"
)

var greetings = [...]string{
	"Your notes are waiting. They are patient, but not forever.",
	"An unwritten thought is just a draft of a forgotten one.",
	"The blank page misses you.",
	"Somewhere in here is the idea you had in the shower.",
	"You came all the way to the terminal. Might as well sign in.",
	"Ten notes per page. Zero of them yours until you log in.",
	"Ink dries. Sessions expire. Sign in again.",
	"The list is sorted by date. Yours is sorted by procrastination.",
	"Write it down before it writes you off.",
	"A good note is short. A good login is shorter.",
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d4a844")).Bold(true)
	quoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle   = lipgloss.NewStyle().Bold(true)
	dateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7c8a9e"))
)

func printHelp(w io.Writer) {
	commands := []struct{ cmd, desc string }{
		{"jotter", "Open your notes (interactive TUI)"},
		{"jotter login", "Sign in with username and password"},
		{"jotter logout", "Clear your session"},
		{"jotter notes [page]", "Print a page of notes"},
		{"jotter open", "Open the web client"},
		{"jotter version", "Show version"},
		{"jotter help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", //nolint:errcheck
		titleStyle.Render("J O T T E R"), quoteStyle.Render("Notes, from the terminal."))
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), dimStyle.Render(c.desc)) //nolint:errcheck
	}
	fmt.Fprintf(w, "\n  %s\n\n", dimStyle.Render("Settings: JOTTER_API_URL, JOTTER_WEB_URL, JOTTER_HOME, JOTTER_LOG_LEVEL")) //nolint:errcheck
}

func printGreeting(w io.Writer) {
	msg := greetings[rand.IntN(len(greetings))]
	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", //nolint:errcheck
		titleStyle.Render("JOTTER"), quoteStyle.Render(msg), dimStyle.Render("To sign in: jotter login"))
}

// printNotes writes the loaded notes newest first, one line each.
func printNotes(w io.Writer, snap notes.Snapshot) {
	sorted := snap.SortedNotes()
	if len(sorted) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no notes on this page")) //nolint:errcheck
	}
	for _, n := range sorted {
		first, _, _ := strings.Cut(n.Content, "\n")
		when := "no date"
		if !n.Date.IsZero() {
			when = n.Date.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s  %s  %s\n", dateStyle.Render(fmt.Sprintf("%-16s", when)), dimStyle.Render(n.ID), first) //nolint:errcheck
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("page %d of %d", snap.CurrentPage, snap.TotalPages))) //nolint:errcheck
}
