package store

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	// Verify the database file doesn't exist yet
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	// Verify the database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	// Verify that the expected tables exist by querying sqlite_master
	tables := []string{"tasks", "hooks", "settings"}
	for _, table := range tables {
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

func TestStore_Close(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestStore_Settings(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Setting("missing"); err != ErrNotFound {
		t.Errorf("Setting(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.SetSetting("plane.height", "0.0"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}

	value, err := s.Setting("plane.height")
	if err != nil {
		t.Fatalf("Setting() error = %v", err)
	}
	if value != "0.0" {
		t.Errorf("Setting() = %q, want 0.0", value)
	}

	// Overwrite
	if err := s.SetSetting("plane.height", "0.2"); err != nil {
		t.Fatalf("SetSetting() overwrite error = %v", err)
	}
	value, _ = s.Setting("plane.height")
	if value != "0.2" {
		t.Errorf("Setting() after overwrite = %q, want 0.2", value)
	}
}
