package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"golang.org/x/term"

	"github.com/naveenspark/jotter/internal/app"
	"github.com/naveenspark/jotter/internal/browser"
	"github.com/naveenspark/jotter/internal/config"
	"github.com/naveenspark/jotter/internal/logging"
	"github.com/naveenspark/jotter/internal/notes"
	"github.com/naveenspark/jotter/internal/session"
	"github.com/naveenspark/jotter/internal/storage"
	"github.com/naveenspark/jotter/internal/tui"
	"github.com/naveenspark/jotter/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env holds everything a command needs. Built once per process.
type env struct {
	cfg         *config.Config
	logger      *slog.Logger
	clock       clockwork.Clock
	session     *session.Store
	notes       *notes.Store
	interactive bool
	closeLog    func()
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.Discard()
	closeLog := func() {}
	if f, err := logging.OpenFile(cfg.LogPath()); err == nil {
		logger = logging.New(cfg.LogLevel, cfg.LogFormat, f)
		closeLog = func() { f.Close() } //nolint:errcheck
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	// Persisted session state only exists for an interactive user.
	var kv storage.Store = storage.Unavailable{}
	if interactive {
		kv = storage.NewFileStore(cfg.Home)
	}

	clock := clockwork.NewRealClock()
	c := client.New(cfg.APIURL, "", client.WithTimeout(cfg.HTTPTimeout))
	sess := session.New(c, kv, clock,
		session.WithLogger(logger.With("store", "session")),
		session.WithTokenListener(c.SetToken),
	)
	ns := notes.New(c, notes.WithLogger(logger.With("store", "notes")))

	return &env{
		cfg:         cfg,
		logger:      logger,
		clock:       clock,
		session:     sess,
		notes:       ns,
		interactive: interactive,
		closeLog:    closeLog,
	}, nil
}

func run(args []string) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "--version", "version", "-v":
		fmt.Println("jotter " + version)
		return nil
	case "help", "--help", "-h":
		printHelp(os.Stdout)
		return nil
	}

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.closeLog()
	e.logger.Debug("starting", "command", cmd, "version", version, "api", e.cfg.APIURL)

	ctx := context.Background()
	switch cmd {
	case "":
		return runTUI(ctx, e)
	case "login":
		return runLogin(ctx, e, os.Stdin, os.Stdout)
	case "logout":
		return runLogout(e, os.Stdout)
	case "notes":
		page, err := parsePage(args[1:])
		if err != nil {
			return err
		}
		return runNotes(ctx, e, page, os.Stdout)
	case "open":
		return runOpen(e, os.Stdout)
	}
	return fmt.Errorf("unknown command %q (try: jotter help)", cmd)
}

func runTUI(ctx context.Context, e *env) error {
	if !e.interactive {
		printGreeting(os.Stdout)
		return nil
	}

	app.Bootstrap(ctx, app.Stores{Session: e.session, Notes: e.notes}, e.logger)

	p := tea.NewProgram(tui.NewApp(e.session, e.notes, e.clock, e.cfg.WebURL), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogin(ctx context.Context, e *env, in *os.File, out io.Writer) error {
	if !e.interactive {
		return errors.New("login needs an interactive terminal")
	}
	e.session.Initialize()

	fmt.Fprint(out, "username: ") //nolint:errcheck
	username, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read username: %w", err)
	}
	username = strings.TrimSpace(username)

	fmt.Fprint(out, "password: ") //nolint:errcheck
	pw, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(out) //nolint:errcheck
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if username == "" || len(pw) == 0 {
		return errors.New("username and password are required")
	}

	e.session.Login(ctx, username, string(pw))
	if msg := e.session.Err(); msg != "" {
		return errors.New(msg)
	}
	exp, _ := e.session.Expiry()
	fmt.Fprintf(out, "Logged in as %s. Session valid until %s.\n", username, exp.Local().Format("15:04")) //nolint:errcheck
	return nil
}

func runLogout(e *env, out io.Writer) error {
	e.session.Initialize()
	if !e.session.Authenticated() {
		fmt.Fprintln(out, "Already logged out.") //nolint:errcheck
		return nil
	}
	e.session.Logout()
	fmt.Fprintln(out, "Logged out.") //nolint:errcheck
	return nil
}

func runNotes(ctx context.Context, e *env, page int, out io.Writer) error {
	e.session.Initialize()
	if !e.session.Authenticated() {
		printGreeting(out)
		return nil
	}

	e.notes.LoadNotes(ctx, page)
	snap := e.notes.Snapshot()
	if snap.Err != "" {
		return errors.New(snap.Err)
	}
	printNotes(out, snap)
	return nil
}

func runOpen(e *env, out io.Writer) error {
	if err := browser.Open(e.cfg.WebURL); err != nil {
		e.logger.Warn("open browser failed", "error", err)
		fmt.Fprintln(out, e.cfg.WebURL) //nolint:errcheck
	}
	return nil
}

// parsePage reads the optional page argument of "jotter notes".
func parsePage(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page %q: want a number from 1", args[0])
	}
	return n, nil
}
