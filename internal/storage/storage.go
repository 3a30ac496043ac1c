// Package storage provides the persisted key-value store used for the
// session token and its expiry.
//
// Values are plain strings. Three implementations exist: a file-backed
// store rooted at the user's jotter home directory, an in-memory store for
// tests, and Unavailable, which the composition root injects when there is
// no interactive user to persist anything for.
package storage

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// Store is a synchronous string key-value store.
type Store interface {
	// Available reports whether reads and writes reach a real backend.
	// Callers skip persistence entirely when it returns false.
	Available() bool
	Get(key string) (string, error)
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}

// Unavailable is a Store for non-interactive execution. Reads report
// ErrNotFound and writes are dropped.
type Unavailable struct{}

var _ Store = Unavailable{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Get(string) (string, error) { return "", ErrNotFound }

func (Unavailable) Set(string, string) error { return nil }

func (Unavailable) Remove(string) error { return nil }
