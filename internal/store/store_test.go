package store

import (
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates a Store backed by a file in a per-test directory.
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

	objects := []struct {
		kind, name string
	}{
		{"table", "templates"},
		{"table", "template_landmarks"},
		{"table", "template_paths"},
		{"table", "template_samples"},
		{"table", "settings"},
		{"index", "idx_template_landmarks_template_id"},
		{"index", "idx_template_paths_template_id"},
		{"index", "idx_template_samples_template_id"},
	}
	for _, o := range objects {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type=? AND name=?",
			o.kind, o.name,
		).Scan(&name)
		if err != nil {
			t.Errorf("%s %q should exist after migrations: %v", o.kind, o.name, err)
		}
	}
}

func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Templates().Create(&Template{ID: "t1", Name: "circle", Type: TemplateTypeDynamic}); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s.Close()

	if _, err := s.Templates().GetByID("t1"); err != nil {
		t.Errorf("template should survive reopening: %v", err)
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("close should not return error: %v", err)
	}

	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("DB operations should fail after close")
	}
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)

	// Hold one connection so the check runs on another pooled one.
	conn, err := s.DB().Conn(t.Context())
	if err != nil {
		t.Fatalf("failed to take a connection: %v", err)
	}
	defer conn.Close()

	var fkEnabled int
	if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("failed to check foreign keys pragma: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("foreign keys should be enabled on every connection")
	}
}
