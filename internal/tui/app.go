package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/naveenspark/jotter/internal/browser"
	"github.com/naveenspark/jotter/internal/notes"
	"github.com/naveenspark/jotter/internal/session"
)

// expiryCheckInterval is how often the session expiry is re-checked while
// the TUI runs.
const expiryCheckInterval = time.Minute

// openURL is swapped out in tests.
var openURL = browser.Open

type view int

const (
	viewLogin view = iota
	viewNotes
)

// expiryTickMsg triggers a session expiry check.
type expiryTickMsg time.Time

func (a App) expiryTickCmd() tea.Cmd {
	return tea.Tick(expiryCheckInterval, func(t time.Time) tea.Msg {
		return expiryTickMsg(t)
	})
}

// App is the root Bubbletea model. Every view other than login requires a
// session; losing it routes back to login.
type App struct {
	session  *session.Store
	notes    *notes.Store
	clock    clockwork.Clock
	webURL   string
	view     view
	login    loginModel
	list     notesModel
	helpOpen bool
	// expiry caches the session expiry so renders never touch storage.
	expiry    time.Time
	hasExpiry bool
	width     int
	height    int
	frame     int // logo shimmer animation frame
}

// NewApp creates the TUI over already-bootstrapped stores.
func NewApp(s *session.Store, n *notes.Store, clock clockwork.Clock, webURL string) App {
	a := App{
		session: s,
		notes:   n,
		clock:   clock,
		webURL:  webURL,
		login:   newLoginModel(s),
		list:    newNotesModel(n, clock),
	}
	if s.Authenticated() {
		a.view = viewNotes
	}
	return a.refreshExpiry()
}

func (a App) refreshExpiry() App {
	a.expiry, a.hasExpiry = a.session.Expiry()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.expiryTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + status(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.list, _ = a.list.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		a.login, _ = a.login.Update(msg)
		a.list, _ = a.list.Update(msg)
		return a, shimmerTickCmd()

	case expiryTickMsg:
		a.session.CheckTokenExpiry()
		return a.refreshExpiry().guard(), a.expiryTickCmd()

	case loginDoneMsg:
		a.login, _ = a.login.Update(msg)
		a = a.refreshExpiry()
		if a.session.Authenticated() {
			a.view = viewNotes
			a.list = newNotesModel(a.notes, a.clock)
			a.list, _ = a.list.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height - 4})
			a.list.pending++
			return a, a.list.reload()
		}
		return a, nil

	case notesSyncedMsg:
		a.list, _ = a.list.Update(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}

		if a.view == viewNotes && !a.list.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "h", "?":
				a.helpOpen = true
				return a, nil
			case "L":
				a.session.Logout()
				return a.refreshExpiry().guard(), nil
			case "o":
				if err := openURL(a.webURL); err != nil {
					a.list.statusMsg = "open " + a.webURL
				}
				return a, nil
			}
		}
		if a.view == viewLogin && msg.Type == tea.KeyEsc {
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewNotes:
		a.list, cmd = a.list.Update(msg)
	}
	return a, cmd
}

// guard sends the user to login when the session is gone.
func (a App) guard() App {
	if a.session.Authenticated() || a.view == viewLogin {
		return a
	}
	a.view = viewLogin
	a.helpOpen = false
	a.login = newLoginModel(a.session)
	a.login.statusMsg = "signed out"
	return a
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	logoPad := (a.width - lipgloss.Width(logo)) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo + "\n"

	var body, help string
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("enter", "sign in") + "  " + helpEntry("esc", "quit")
	case viewNotes:
		body = a.list.View()
		help = " " + a.list.helpKeys()
	}

	if a.helpOpen {
		body = helpView()
		help = " " + helpEntry("esc", "close") + "  " + helpEntry("q", "quit")
	}

	status := ""
	if a.view == viewNotes {
		if a.hasExpiry {
			left := a.expiry.Sub(a.clock.Now()).Round(time.Minute)
			status = metaStyle.Render(fmt.Sprintf(" session expires in %s", left))
		}
	}

	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, status, help)
}

func helpView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fbbf24"))
	keyStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	keys := []struct{ key, desc string }{
		{"j / k", "move between notes"},
		{"n", "write a new note"},
		{"e, enter", "edit the selected note"},
		{"d", "delete the selected note"},
		{"c", "copy the selected note"},
		{"m, space", "load the next page"},
		{"r", "reload from the first page"},
		{"o", "open the web client"},
		{"L", "log out"},
		{"q", "quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
