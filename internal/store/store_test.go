package store

import (
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates a Store in a temporary directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", s.Path(), dbPath)
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"sessions", "tones"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}
}

func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Sessions().Create(&Session{ID: "keep", MinNote: 24, MaxNote: 84}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Migrations are idempotent and data survives.
	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if _, err := s.Sessions().GetByID("keep"); err != nil {
		t.Errorf("session lost after reopen: %v", err)
	}
}

func TestNewStore_Memory(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("in-memory store: %v", err)
	}
	defer s.Close()

	if err := s.Sessions().Create(&Session{ID: "m"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Sessions().GetByID("m"); err != nil {
		t.Errorf("GetByID: %v", err)
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("failed to close store: %v", err)
	}
	if err := s.DB().Ping(); err == nil {
		t.Error("database should be closed")
	}
}
