package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/jotter/internal/session"
)

type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
	numLoginFields
)

// loginDoneMsg is sent when a Login call settles. The outcome lives in the
// session store.
type loginDoneMsg struct{}

type loginModel struct {
	session   *session.Store
	fields    [numLoginFields]string
	focus     loginField
	statusMsg string
	submitted bool
	frame     int
}

func newLoginModel(s *session.Store) loginModel {
	return loginModel{session: s}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitted = false
		m.fields[fieldPassword] = ""
		if errMsg := m.session.Err(); errMsg != "" {
			m.statusMsg = errMsg
			m.focus = fieldPassword
		}
		return m, nil

	case shimmerTickMsg:
		m.frame++
		return m, nil

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % numLoginFields
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case tea.KeyEnter:
		if m.focus == fieldUsername {
			m.focus = fieldPassword
			return m, nil
		}
		return m.submit()
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg)
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(m.fields[fieldUsername])
	password := m.fields[fieldPassword]
	if username == "" || password == "" {
		m.statusMsg = "username and password are required"
		return m, nil
	}

	m.submitted = true
	m.statusMsg = ""
	s := m.session
	return m, func() tea.Msg {
		s.Login(context.Background(), username, password)
		return loginDoneMsg{}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  sign in to your notes") + "\n\n")
	b.WriteString(renderInput("username", m.fields[fieldUsername], "your username",
		m.focus == fieldUsername && !m.submitted, false, m.frame) + "\n")
	b.WriteString(renderInput("password", m.fields[fieldPassword], "••••••",
		m.focus == fieldPassword && !m.submitted, true, m.frame) + "\n\n")

	switch {
	case m.submitted:
		b.WriteString("  " + dimStyle.Render("signing in..."))
	case m.statusMsg != "":
		b.WriteString("  " + errorStyle.Render(m.statusMsg))
	}
	return b.String()
}
