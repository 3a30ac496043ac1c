package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/naveenspark/jotter/internal/notes"
	"github.com/naveenspark/jotter/internal/session"
	"github.com/naveenspark/jotter/internal/storage"
	"github.com/naveenspark/jotter/pkg/client"
)

func TestAppStartsOnLoginWithoutSession(t *testing.T) {
	env := newTestEnv(3, false)
	if env.app.view != viewLogin {
		t.Fatalf("view = %d, want login", env.app.view)
	}
	if !strings.Contains(env.app.View(), "sign in") {
		t.Errorf("expected login view, got:\n%s", env.app.View())
	}
}

func TestAppStartsOnNotesWithSession(t *testing.T) {
	env := newTestEnv(3, true)
	if env.app.view != viewNotes {
		t.Fatalf("view = %d, want notes", env.app.view)
	}
	view := env.app.View()
	if !strings.Contains(view, "note 1") {
		t.Errorf("expected notes in view, got:\n%s", view)
	}
	if !strings.Contains(view, "session expires in 1h0m0s") {
		t.Errorf("expected session expiry in status line, got:\n%s", view)
	}
}

func TestAppLoginFlowLoadsNotes(t *testing.T) {
	env := newTestEnv(3, false)
	a := typeText(env.app, "alice")
	a = drive(a, tea.KeyMsg{Type: tea.KeyEnter})
	a = typeText(a, "pw")
	a = drive(a, tea.KeyMsg{Type: tea.KeyEnter})

	if a.view != viewNotes {
		t.Fatalf("view = %d after login, want notes", a.view)
	}
	if got := len(env.store.Notes()); got != 3 {
		t.Errorf("notes loaded = %d, want 3", got)
	}
	if a.list.pending != 0 {
		t.Errorf("pending = %d, want 0", a.list.pending)
	}
}

func TestAppLoginValidation(t *testing.T) {
	env := newTestEnv(0, false)
	a := typeText(env.app, "alice")
	a = drive(a, tea.KeyMsg{Type: tea.KeyEnter})
	a = drive(a, tea.KeyMsg{Type: tea.KeyEnter}) // empty password

	if a.view != viewLogin {
		t.Fatalf("view = %d, want login", a.view)
	}
	if !strings.Contains(a.View(), "username and password are required") {
		t.Errorf("expected validation message, got:\n%s", a.View())
	}
}

func TestAppLoginRejected(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	sess := session.New(stubAuth{err: &client.HTTPError{StatusCode: 401, Message: "bad credentials"}},
		storage.NewMemoryStore(), clock)
	a := NewApp(sess, notes.New(newMemAPI(0)), clock, "http://localhost:3000")

	a = typeText(a, "alice")
	a = drive(a, tea.KeyMsg{Type: tea.KeyEnter})
	a = typeText(a, "wrong")
	a = drive(a, tea.KeyMsg{Type: tea.KeyEnter})

	if a.view != viewLogin {
		t.Fatalf("view = %d, want login", a.view)
	}
	if !strings.Contains(a.View(), "bad credentials") {
		t.Errorf("expected server message, got:\n%s", a.View())
	}
	if a.login.fields[fieldPassword] != "" {
		t.Error("password field should be cleared after a failed attempt")
	}
	if a.login.fields[fieldUsername] != "alice" {
		t.Errorf("username = %q, want kept", a.login.fields[fieldUsername])
	}
}

func TestAppExpiryRoutesToLogin(t *testing.T) {
	env := newTestEnv(3, true)
	a := env.app

	env.clock.Advance(30 * time.Minute)
	a = update(a, expiryTickMsg(env.clock.Now()))
	if a.view != viewNotes {
		t.Fatalf("view = %d before expiry, want notes", a.view)
	}

	env.clock.Advance(30 * time.Minute)
	a = update(a, expiryTickMsg(env.clock.Now()))
	if a.view != viewLogin {
		t.Fatalf("view = %d after expiry, want login", a.view)
	}
	if env.sess.Authenticated() {
		t.Error("session still authenticated after expiry")
	}
	if env.kv.Len() != 0 {
		t.Errorf("persisted keys = %d, want 0", env.kv.Len())
	}
}

func TestAppLogout(t *testing.T) {
	env := newTestEnv(3, true)
	a := drive(env.app, key("L"))
	if a.view != viewLogin {
		t.Fatalf("view = %d after logout, want login", a.view)
	}
	if env.sess.Authenticated() {
		t.Error("session still authenticated after logout")
	}
	if !strings.Contains(a.View(), "signed out") {
		t.Errorf("expected signed out notice, got:\n%s", a.View())
	}
}

func TestAppQuit(t *testing.T) {
	env := newTestEnv(1, true)
	_, cmd := env.app.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppQDoesNotQuitWhileComposing(t *testing.T) {
	env := newTestEnv(1, true)
	a := drive(env.app, key("n"))
	a = drive(a, key("q"))
	if a.list.draft != "q" {
		t.Errorf("draft = %q, want %q", a.list.draft, "q")
	}
}

func TestAppHelpOverlay(t *testing.T) {
	env := newTestEnv(1, true)
	a := drive(env.app, key("h"))
	if !a.helpOpen {
		t.Fatal("expected help overlay open")
	}
	if !strings.Contains(a.View(), "load the next page") {
		t.Errorf("expected help text, got:\n%s", a.View())
	}
	a = drive(a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.helpOpen {
		t.Error("expected help overlay closed after esc")
	}
}

func TestAppOpenWebClient(t *testing.T) {
	var opened string
	orig := openURL
	openURL = func(u string) error { opened = u; return nil }
	defer func() { openURL = orig }()

	env := newTestEnv(1, true)
	drive(env.app, key("o"))
	if opened != "http://localhost:3000" {
		t.Errorf("opened = %q, want web URL", opened)
	}
}

func TestAppShowsStoreError(t *testing.T) {
	env := newTestEnv(3, true)
	env.api.fail = &client.HTTPError{StatusCode: 500, Message: "db down"}
	a := drive(env.app, key("r"))
	if !strings.Contains(a.View(), "db down") {
		t.Errorf("expected server message in view, got:\n%s", a.View())
	}

	env.api.fail = errors.New("connection refused")
	a = drive(a, key("r"))
	if !strings.Contains(a.View(), "Could not load notes.") {
		t.Errorf("expected fallback message in view, got:\n%s", a.View())
	}
}

// countingStore records reads so tests can see when storage is touched.
type countingStore struct {
	*storage.MemoryStore
	gets int
}

func (c *countingStore) Get(key string) (string, error) {
	c.gets++
	return c.MemoryStore.Get(key)
}

func TestAppRenderDoesNotReadStorage(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	kv := &countingStore{MemoryStore: storage.NewMemoryStore()}
	sess := session.New(stubAuth{token: "T"}, kv, clock)
	sess.Login(context.Background(), "u", "p")
	a := NewApp(sess, notes.New(newMemAPI(2)), clock, "http://localhost:3000")

	kv.gets = 0
	for i := 0; i < 5; i++ {
		a = update(a, shimmerTickMsg(clock.Now()))
		if !strings.Contains(a.View(), "session expires in 1h0m0s") {
			t.Fatalf("expected cached expiry in status line, got:\n%s", a.View())
		}
	}
	if kv.gets != 0 {
		t.Errorf("storage read %d times while rendering, want 0", kv.gets)
	}

	clock.Advance(30 * time.Minute)
	a = update(a, expiryTickMsg(clock.Now()))
	if kv.gets == 0 {
		t.Error("expiry tick should re-read storage")
	}
	if !strings.Contains(a.View(), "session expires in 30m0s") {
		t.Errorf("expected refreshed expiry, got:\n%s", a.View())
	}
}

func TestAppLoginRefreshesExpiry(t *testing.T) {
	env := newTestEnv(1, false)
	a := typeText(env.app, "alice")
	a = drive(a, tea.KeyMsg{Type: tea.KeyEnter})
	a = typeText(a, "pw")
	a = drive(a, tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.Contains(a.View(), "session expires in 1h0m0s") {
		t.Errorf("expected expiry after login, got:\n%s", a.View())
	}
	a = drive(a, key("L"))
	if a.hasExpiry {
		t.Error("expiry still cached after logout")
	}
}
