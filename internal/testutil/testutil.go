// Package testutil provides shared test helpers for content roots, loggers
// and asynchronous assertions.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/folio/internal/storage"
)

// TestContentRoot creates a temporary content root with a storage.FS over it.
func TestContentRoot(t *testing.T) (string, *storage.FS) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteFiles writes each path → content pair through store.
func WriteFiles(t *testing.T, store storage.Provider, files map[string]string) {
	t.Helper()
	for p, data := range files {
		if err := store.Write(p, []byte(data)); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Eventually polls fn every tick until it returns true or timeout elapses.
func Eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}
