// Package browser opens web pages in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// Command returns the command that would open rawURL on goos. $BROWSER, when
// set, takes precedence. Only absolute http(s) URLs are accepted.
func Command(goos, rawURL string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("browser: parse url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("browser: refusing to open %q", rawURL)
	}
	if b := os.Getenv("BROWSER"); b != "" {
		return exec.Command(b, u.String()), nil
	}
	switch goos {
	case "darwin":
		return exec.Command("open", u.String()), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", u.String()), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u.String()), nil
	default:
		return nil, fmt.Errorf("browser: unsupported OS: %s", goos)
	}
}

// Open opens rawURL in the user's default browser without waiting for it.
func Open(rawURL string) error {
	cmd, err := Command(runtime.GOOS, rawURL)
	if err != nil {
		return err
	}
	return cmd.Start()
}
