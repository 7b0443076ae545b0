package cli

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"tradeguard/internal/config"
	"tradeguard/internal/store"
)

func TestDefaultDBPath(t *testing.T) {
	got := DefaultDBPath()
	if filepath.Base(got) != "tradeguard.db" {
		t.Errorf("DefaultDBPath() = %q, want base tradeguard.db", got)
	}
	if filepath.Dir(got) != config.DefaultConfigDir() {
		t.Errorf("DefaultDBPath() = %q, want it under %q", got, config.DefaultConfigDir())
	}
}

func TestAppCloseReleasesStore(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}

	app := &App{Logger: zerolog.Nop(), Store: s}
	app.Close()
	if app.Store != nil {
		t.Error("Close did not release the store")
	}

	// Closing again, or with no store at all, is a no-op.
	app.Close()
	(&App{Logger: zerolog.Nop()}).Close()
}
