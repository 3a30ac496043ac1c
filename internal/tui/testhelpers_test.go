package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/naveenspark/jotter/internal/notes"
	"github.com/naveenspark/jotter/internal/session"
	"github.com/naveenspark/jotter/internal/storage"
	"github.com/naveenspark/jotter/pkg/client"
	"github.com/naveenspark/jotter/pkg/domain"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type stubAuth struct {
	token string
	err   error
}

func (s stubAuth) Login(context.Context, string, string) (string, error) {
	return s.token, s.err
}

// memAPI is an in-memory notes service paged by insertion order.
type memAPI struct {
	mu      sync.Mutex
	notes   []domain.Note
	perPage int
	nextID  int
	fail    error
}

func newMemAPI(n int) *memAPI {
	api := &memAPI{perPage: notes.DefaultItemsPerPage}
	for i := 0; i < n; i++ {
		api.nextID++
		api.notes = append(api.notes, domain.Note{
			ID:      fmt.Sprint(api.nextID),
			Content: fmt.Sprintf("note %d", api.nextID),
			Date:    testNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	return api
}

func (m *memAPI) ListNotes(_ context.Context, page, limit int) (*domain.NotePage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	total := (len(m.notes) + limit - 1) / limit
	if total == 0 {
		total = 1
	}
	start := (page - 1) * limit
	if start > len(m.notes) {
		start = len(m.notes)
	}
	end := min(start+limit, len(m.notes))
	return &domain.NotePage{Notes: append([]domain.Note(nil), m.notes[start:end]...), TotalPages: total}, nil
}

func (m *memAPI) CreateNote(_ context.Context, content string) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	m.nextID++
	n := domain.Note{ID: fmt.Sprint(m.nextID), Content: content, Date: testNow}
	m.notes = append(m.notes, n)
	return &n, nil
}

func (m *memAPI) UpdateNote(_ context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for i := range m.notes {
		if m.notes[i].ID == id {
			m.notes[i].Content = content
			return nil
		}
	}
	return &client.HTTPError{StatusCode: 404, Message: "note not found"}
}

func (m *memAPI) DeleteNote(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for i := range m.notes {
		if m.notes[i].ID == id {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

type testEnv struct {
	app   App
	api   *memAPI
	sess  *session.Store
	store *notes.Store
	clock *clockwork.FakeClock
	kv    *storage.MemoryStore
}

// newTestEnv returns an App over count server notes. When loggedIn, the
// session holds a token and page 1 is loaded.
func newTestEnv(count int, loggedIn bool) testEnv {
	clock := clockwork.NewFakeClockAt(testNow)
	kv := storage.NewMemoryStore()
	api := newMemAPI(count)
	sess := session.New(stubAuth{token: "T"}, kv, clock)
	store := notes.New(api)
	if loggedIn {
		sess.Login(context.Background(), "u", "p")
		store.Initialize(context.Background())
	}
	a := NewApp(sess, store, clock, "http://localhost:3000")
	a.width = 80
	a.height = 30
	a.list.width = 80
	a.list.height = 26
	return testEnv{app: a, api: api, sess: sess, store: store, clock: clock, kv: kv}
}

// drive feeds msg to the app and runs any returned command chain that
// produces a single message, the way the Bubbletea runtime would for
// store operations. Tick and batch commands are not followed.
func drive(a App, msg tea.Msg) App {
	model, cmd := a.Update(msg)
	a = model.(App)
	for cmd != nil {
		next := cmd()
		switch next.(type) {
		case loginDoneMsg, notesSyncedMsg:
		default:
			return a
		}
		model, cmd = a.Update(next)
		a = model.(App)
	}
	return a
}

// update feeds msg to the app and drops the returned command.
func update(a App, msg tea.Msg) App {
	model, _ := a.Update(msg)
	return model.(App)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(a App, s string) App {
	for _, r := range s {
		a = drive(a, key(string(r)))
	}
	return a
}
